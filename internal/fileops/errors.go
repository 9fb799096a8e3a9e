package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"fsbridge/internal/pathspec"
)

// ErrorKind is the stable classification every failed operation carries.
// Values are wire-stable: they appear in structured output and the journal.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindInvalidPath    ErrorKind = "invalid_path"
	KindNotFound       ErrorKind = "not_found"
	KindSourceNotFound ErrorKind = "source_not_found"
	KindIsADirectory   ErrorKind = "is_a_directory"
	KindNotADirectory  ErrorKind = "not_a_directory"
	KindPermission     ErrorKind = "permission"
	KindInternal       ErrorKind = "internal"
)

// OpError is the only error type the verbs return. It wraps the OS error
// (when there is one) and pins the classification at the point of failure.
type OpError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(kind ErrorKind, path string, err error) *OpError {
	return &OpError{Kind: kind, Path: path, Err: err}
}

// Classify maps an OS-level error to an ErrorKind. Unrecognized errors
// classify as internal rather than leaking raw errno semantics upward.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, pathspec.ErrInvalidPath):
		return KindInvalidPath
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.EISDIR):
		return KindIsADirectory
	case errors.Is(err, syscall.ENOTDIR):
		return KindNotADirectory
	default:
		return KindInternal
	}
}

// KindOf extracts the classification from any error produced by this
// package, falling back to Classify for raw OS errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return Classify(err)
}

// classified wraps err as an OpError unless it already is one
func classified(path string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return opErr(Classify(err), path, err)
}
