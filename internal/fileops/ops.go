package fileops

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"fsbridge/internal/disk"
	"fsbridge/internal/pathspec"
)

// DefaultCatBufferLimit caps how much CatAll will materialize in memory.
// Cat itself streams and has no size limit.
const DefaultCatBufferLimit = 8 * 1024 * 1024

// Ops implements the file-operation verbs against a Filesystem.
// Every method takes resolved PathSpec values, holds handles only for
// the duration of the call, and returns *OpError on failure. No state
// is shared between calls.
type Ops struct {
	fs Filesystem

	// CatBufferLimit bounds CatAll; files larger than this must be
	// streamed with Cat instead
	CatBufferLimit int64
}

// New creates an Ops backed by the given filesystem
func New(fs Filesystem) *Ops {
	return &Ops{fs: fs, CatBufferLimit: DefaultCatBufferLimit}
}

// Cat opens the file and returns a lazy line iterator. The caller must
// Close the iterator, including when abandoning it mid-iteration.
func (o *Ops) Cat(spec pathspec.PathSpec) (*LineIter, error) {
	if !spec.Exists {
		return nil, opErr(KindNotFound, spec.Abs, nil)
	}
	if spec.Kind == pathspec.Directory {
		return nil, opErr(KindIsADirectory, spec.Abs, nil)
	}
	rc, err := o.fs.Open(spec.Abs)
	if err != nil {
		return nil, classified(spec.Abs, err)
	}
	return newLineIter(rc), nil
}

// CatAll buffers the whole file as lines. Refuses files over
// CatBufferLimit; large files must use Cat.
func (o *Ops) CatAll(spec pathspec.PathSpec) ([]string, error) {
	if spec.Exists && spec.Size > o.CatBufferLimit {
		return nil, opErr(KindInternal, spec.Abs, errFileTooLarge)
	}
	it, err := o.Cat(spec)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var lines []string
	for it.Next() {
		lines = append(lines, it.Text())
	}
	if err := it.Err(); err != nil {
		return nil, classified(spec.Abs, err)
	}
	return lines, nil
}

// Ls lists a directory. A plain file yields a one-entry summary of the
// file itself, matching what the OS ls does when handed a file; this is
// deliberately not an error. Entries come back in whatever order the OS
// enumerates them — no ordering contract beyond that.
func (o *Ops) Ls(spec pathspec.PathSpec, opts LsOptions) ([]Entry, error) {
	if !spec.Exists {
		return nil, opErr(KindNotFound, spec.Abs, nil)
	}
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, opErr(KindInvalidPath, opts.Pattern, doublestar.ErrBadPattern)
	}

	if spec.Kind != pathspec.Directory {
		e := Entry{
			Name:    filepath.Base(spec.Abs),
			Kind:    spec.Kind,
			Size:    spec.Size,
			ModTime: spec.ModTime,
		}
		if info, err := o.fs.Lstat(spec.Abs); err == nil {
			e.Mode = info.Mode()
		}
		return []Entry{e}, nil
	}

	if opts.Recursive {
		return o.lsRecursive(spec.Abs, opts.Pattern)
	}

	dirents, err := o.fs.ReadDir(spec.Abs)
	if err != nil {
		return nil, classified(spec.Abs, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if opts.Pattern != "" {
			ok, _ := doublestar.Match(opts.Pattern, d.Name())
			if !ok {
				continue
			}
		}
		e := Entry{Name: d.Name(), Kind: kindOfMode(d.Type())}
		if info, err := d.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
			e.Mode = info.Mode()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Touch creates an empty file when the path is missing, otherwise bumps
// the modification time to now. Never alters existing content.
func (o *Ops) Touch(spec pathspec.PathSpec) error {
	if !spec.Exists {
		wc, err := o.fs.Create(spec.Abs)
		if err != nil {
			return classified(spec.Abs, err)
		}
		return classified(spec.Abs, wc.Close())
	}
	now := time.Now()
	return classified(spec.Abs, o.fs.Chtimes(spec.Abs, now, now))
}

// Mkdir creates the directory and any missing parents. An existing
// directory is a success, not an error.
func (o *Ops) Mkdir(spec pathspec.PathSpec) error {
	if spec.Exists && spec.Kind == pathspec.Directory {
		return nil
	}
	if spec.Exists {
		return opErr(KindNotADirectory, spec.Abs, nil)
	}
	return classified(spec.Abs, o.fs.MkdirAll(spec.Abs, 0o755))
}

// Stat reports metadata for a path, MIME type for regular files, and
// volume usage for the filesystem holding it.
func (o *Ops) Stat(spec pathspec.PathSpec) (*Info, error) {
	if !spec.Exists {
		return nil, opErr(KindNotFound, spec.Abs, nil)
	}

	info := &Info{
		Name:    filepath.Base(spec.Abs),
		Abs:     spec.Abs,
		Kind:    spec.Kind,
		Size:    spec.Size,
		ModTime: spec.ModTime,
	}
	if fi, err := o.fs.Lstat(spec.Abs); err == nil {
		info.Mode = fi.Mode()
	}

	if spec.Kind == pathspec.File {
		if rc, err := o.fs.Open(spec.Abs); err == nil {
			if mtype, err := mimetype.DetectReader(rc); err == nil {
				info.MIME = mtype.String()
			}
			rc.Close()
		}
	}

	// Volume stats are best effort; a failed probe leaves them zero
	if _, free, total, err := disk.Usage(spec.Abs); err == nil {
		info.FreeBytes = free
		info.TotalBytes = total
	}

	return info, nil
}

func kindOfMode(mode os.FileMode) pathspec.Kind {
	switch {
	case mode&os.ModeSymlink != 0:
		return pathspec.Symlink
	case mode.IsDir():
		return pathspec.Directory
	default:
		return pathspec.File
	}
}
