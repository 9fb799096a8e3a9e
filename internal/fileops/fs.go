package fileops

import (
	"io"
	"os"
	"time"
)

// Filesystem abstracts the OS calls the verbs perform.
// Enables mocking in tests to prove dry-run and gate contracts:
// a blocked or dry-run operation must produce zero mutating calls.
type Filesystem interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	Readlink(path string) (string, error)
	Symlink(target, link string) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
	RemoveAll(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
}
