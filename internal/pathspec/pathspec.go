package pathspec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidPath = errors.New("invalid path")

// Kind classifies what a resolved path points at
type Kind int

const (
	Missing Kind = iota
	File
	Directory
	Symlink
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	case Symlink:
		return "symlink"
	default:
		return "missing"
	}
}

// PathSpec is the resolved, validated form of a user-supplied path.
// Created once per invocation and not mutated after Resolve returns.
type PathSpec struct {
	Raw     string
	Abs     string
	Exists  bool
	Kind    Kind
	Size    int64
	ModTime time.Time

	// Traversal records whether the raw input contained a ".." segment.
	// Resolution still succeeds; the gate refuses destructive use.
	Traversal bool
}

// Resolve expands environment references, "~", and relative segments
// against the current working directory and probes the result.
// A missing path is a valid outcome, not an error: Touch and Mkdir
// depend on resolving paths that do not exist yet.
func Resolve(raw string) (PathSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return PathSpec{}, ErrInvalidPath
	}
	if strings.ContainsRune(raw, 0) {
		return PathSpec{}, ErrInvalidPath
	}

	expanded := os.ExpandEnv(raw)
	if expanded == "~" || strings.HasPrefix(expanded, "~"+string(os.PathSeparator)) || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			expanded = filepath.Join(home, expanded[1:])
		}
	}
	if strings.TrimSpace(expanded) == "" {
		return PathSpec{}, ErrInvalidPath
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return PathSpec{}, ErrInvalidPath
	}

	spec := PathSpec{
		Raw:       raw,
		Abs:       filepath.Clean(abs),
		Traversal: containsDotDot(raw),
	}

	// Lstat so symlinks classify as symlinks rather than their targets.
	// Probe errors other than non-existence (e.g. permission on a parent)
	// leave the spec Missing; the operation itself will surface the real
	// error when it runs.
	info, err := os.Lstat(spec.Abs)
	if err != nil {
		return spec, nil
	}

	spec.Exists = true
	spec.Size = info.Size()
	spec.ModTime = info.ModTime()
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		spec.Kind = Symlink
	case info.IsDir():
		spec.Kind = Directory
	default:
		spec.Kind = File
	}
	return spec, nil
}

// Refresh re-probes the filesystem and returns an updated spec.
// Useful after an operation changed what the path points at.
func (s PathSpec) Refresh() (PathSpec, error) {
	return Resolve(s.Raw)
}

func containsDotDot(raw string) bool {
	for _, part := range strings.Split(filepath.ToSlash(raw), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
