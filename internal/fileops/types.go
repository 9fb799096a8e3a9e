package fileops

import (
	"io/fs"
	"time"

	"fsbridge/internal/pathspec"
)

// Verb identifies one of the supported file operations
type Verb string

const (
	VerbCat   Verb = "cat"
	VerbLs    Verb = "ls"
	VerbCp    Verb = "cp"
	VerbMv    Verb = "mv"
	VerbRm    Verb = "rm"
	VerbTouch Verb = "touch"
	VerbMkdir Verb = "mkdir"
	VerbStat  Verb = "stat"
)

// Mutating reports whether the verb changes the filesystem.
// Mutating verbs are the ones dry-run suppresses.
func (v Verb) Mutating() bool {
	switch v {
	case VerbCp, VerbMv, VerbRm, VerbTouch, VerbMkdir:
		return true
	default:
		return false
	}
}

// NeedsDest reports whether the verb requires a destination path
func (v Verb) NeedsDest() bool {
	return v == VerbCp || v == VerbMv
}

// Outcome is the three-way result state. Blocked is a policy refusal,
// distinct from Failed: the operation was never attempted.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeBlocked Outcome = "blocked"
	OutcomeFailed  Outcome = "failed"
)

// Request describes a single invocation. Owned by the caller and
// discarded after the operation completes; never stored.
type Request struct {
	Verb   Verb
	Source pathspec.PathSpec
	Dest   *pathspec.PathSpec
	Force  bool

	// LsOptions applies to VerbLs only
	LsOptions LsOptions
}

// Result is what every invocation produces, success or not.
// Callers own its display; rendering lives in the report package.
type Result struct {
	ID       string
	Verb     Verb
	Outcome  Outcome
	Message  string
	ErrKind  ErrorKind
	Source   string
	Dest     string
	// Kind of the source object when it was resolved
	Kind     pathspec.Kind
	Bytes    int64
	Duration time.Duration
	When     time.Time
	DryRun   bool

	// Payloads for the data-producing verbs
	Entries []Entry // ls
	Info    *Info   // stat
	Lines   int     // cat: number of lines emitted
}

// Entry is one row of a directory listing
type Entry struct {
	Name    string
	Kind    pathspec.Kind
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// LsOptions narrows a listing
type LsOptions struct {
	// Pattern filters entry names (doublestar glob syntax). For
	// recursive listings it matches the path relative to the root.
	Pattern string
	// Recursive walks the whole subtree instead of one level
	Recursive bool
}

// Info is the stat payload
type Info struct {
	Name    string
	Abs     string
	Kind    pathspec.Kind
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	MIME    string

	// Volume stats for the filesystem holding the path
	FreeBytes  int64
	TotalBytes int64
}
