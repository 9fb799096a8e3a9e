// Package executor runs file operations end to end: authorization,
// dry-run handling, execution, and recording.
package executor

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"fsbridge/internal/fileops"
	"fsbridge/internal/gate"
	"fsbridge/internal/metrics"
	"fsbridge/internal/report"
)

// Authorizer decides whether a request may proceed
type Authorizer interface {
	Authorize(req fileops.Request) gate.Decision
}

// Recorder persists finished operations
type Recorder interface {
	Record(res fileops.Result) error
}

// Executor drives one operation at a time through the full pipeline.
// Safe for sequential reuse; not safe for concurrent Do calls sharing
// one output writer.
type Executor struct {
	ops     *fileops.Ops
	gate    Authorizer
	journal Recorder
	logger  *log.Logger
	dryRun  bool
	out     io.Writer
}

// Option configures an Executor
type Option func(*Executor)

// WithGate installs the authorization gate
func WithGate(g Authorizer) Option {
	return func(e *Executor) { e.gate = g }
}

// WithJournal installs the operation journal
func WithJournal(r Recorder) Option {
	return func(e *Executor) { e.journal = r }
}

// WithLogger installs the structured operation logger
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithDryRun suppresses every mutating verb; the executor reports what
// would happen without touching the filesystem
func WithDryRun(dry bool) Option {
	return func(e *Executor) { e.dryRun = dry }
}

// WithOutput redirects cat's streamed lines
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.out = w }
}

// New creates an executor. Without WithGate every request is allowed,
// which is only appropriate for callers that gate upstream.
func New(ops *fileops.Ops, opts ...Option) *Executor {
	e := &Executor{
		ops:    ops,
		logger: log.New(io.Discard, "", 0),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs one request through authorize, execute, and record. It always
// returns a Result; failures surface as Outcome values, never panics.
func (e *Executor) Do(req fileops.Request) fileops.Result {
	start := time.Now()
	res := fileops.Result{
		ID:     uuid.NewString(),
		Verb:   req.Verb,
		Source: req.Source.Abs,
		Kind:   req.Source.Kind,
		When:   start.UTC(),
	}
	if req.Dest != nil {
		res.Dest = req.Dest.Abs
	}

	e.run(req, &res)

	res.Duration = time.Since(start)
	e.record(res)
	return res
}

func (e *Executor) run(req fileops.Request, res *fileops.Result) {
	if req.Source.Abs == "" {
		e.fail(res, fileops.KindInvalidPath, "empty source path")
		return
	}
	if req.Verb.NeedsDest() && req.Dest == nil {
		e.fail(res, fileops.KindInvalidPath, fmt.Sprintf("%s requires a destination", req.Verb))
		return
	}

	if e.gate != nil {
		if d := e.gate.Authorize(req); !d.Allowed {
			res.Outcome = fileops.OutcomeBlocked
			res.Message = d.Reason
			return
		}
	}

	if e.dryRun && req.Verb.Mutating() {
		res.DryRun = true
		// Predict the real outcome from the resolved spec alone, so a
		// dry run never promises an operation that cannot run. No
		// filesystem calls happen on this path.
		if err := precheck(req); err != nil {
			e.fail(res, fileops.KindOf(err), err.Error())
			return
		}
		res.Outcome = fileops.OutcomeSuccess
		return
	}

	var err error
	switch req.Verb {
	case fileops.VerbCat:
		err = e.runCat(req, res)
	case fileops.VerbLs:
		res.Entries, err = e.ops.Ls(req.Source, req.LsOptions)
	case fileops.VerbCp:
		res.Bytes, res.Dest, err = e.ops.Cp(req.Source, *req.Dest)
	case fileops.VerbMv:
		res.Bytes, res.Dest, err = e.ops.Mv(req.Source, *req.Dest)
	case fileops.VerbRm:
		res.Bytes, err = e.ops.Rm(req.Source)
	case fileops.VerbTouch:
		err = e.ops.Touch(req.Source)
	case fileops.VerbMkdir:
		err = e.ops.Mkdir(req.Source)
	case fileops.VerbStat:
		res.Info, err = e.ops.Stat(req.Source)
	default:
		e.fail(res, fileops.KindInvalidPath, fmt.Sprintf("unknown verb %q", req.Verb))
		return
	}

	if err != nil {
		e.fail(res, fileops.KindOf(err), err.Error())
		return
	}
	res.Outcome = fileops.OutcomeSuccess
}

// runCat streams lines to the output writer as they are read, so file
// size never bounds memory
func (e *Executor) runCat(req fileops.Request, res *fileops.Result) error {
	it, err := e.ops.Cat(req.Source)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		fmt.Fprintln(e.out, it.Text())
		res.Lines++
	}
	return it.Err()
}

// precheck rejects requests the verbs themselves would reject, using
// only the resolved spec
func precheck(req fileops.Request) error {
	switch req.Verb {
	case fileops.VerbRm:
		if !req.Source.Exists {
			return &fileops.OpError{Kind: fileops.KindNotFound, Path: req.Source.Abs}
		}
	case fileops.VerbCp, fileops.VerbMv:
		if !req.Source.Exists {
			return &fileops.OpError{Kind: fileops.KindSourceNotFound, Path: req.Source.Abs}
		}
	}
	return nil
}

func (e *Executor) fail(res *fileops.Result, kind fileops.ErrorKind, msg string) {
	res.Outcome = fileops.OutcomeFailed
	res.ErrKind = kind
	res.Message = msg
}

func (e *Executor) record(res fileops.Result) {
	metrics.RecordOperation(res)
	e.logger.Printf("%s", report.Render(res, report.Structured))

	if e.journal != nil {
		if err := e.journal.Record(res); err != nil {
			e.logger.Printf("journal write failed: %v", err)
		}
	}
}
