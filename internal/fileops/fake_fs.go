package fileops

import (
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// FakeFilesystem implements Filesystem for testing.
// Records every mutating call without touching the real filesystem,
// so tests can assert that dry-run and blocked operations perform none.
type FakeFilesystem struct {
	MutatingCalls []string

	// Err, when set, is returned from every mutating call
	Err error
}

func (f *FakeFilesystem) record(call string) error {
	f.MutatingCalls = append(f.MutatingCalls, call)
	return f.Err
}

func (f *FakeFilesystem) Create(path string) (io.WriteCloser, error) {
	if err := f.record("create:" + path); err != nil {
		return nil, err
	}
	return nopWriteCloser{}, nil
}

func (f *FakeFilesystem) Symlink(target, link string) error {
	return f.record("symlink:" + link)
}

func (f *FakeFilesystem) Rename(oldpath, newpath string) error {
	return f.record("rename:" + oldpath + "->" + newpath)
}

func (f *FakeFilesystem) Remove(path string) error {
	return f.record("rm:" + path)
}

func (f *FakeFilesystem) RemoveAll(path string) error {
	return f.record("rmall:" + path)
}

func (f *FakeFilesystem) MkdirAll(path string, perm os.FileMode) error {
	return f.record("mkdirall:" + path)
}

func (f *FakeFilesystem) Chmod(path string, mode os.FileMode) error {
	return f.record("chmod:" + path)
}

func (f *FakeFilesystem) Chtimes(path string, atime, mtime time.Time) error {
	return f.record("chtimes:" + path)
}

// Read-side calls report nothing exists; tests that need real file
// content use OSFilesystem with a temp dir instead.

func (f *FakeFilesystem) Open(path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *FakeFilesystem) Stat(path string) (os.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func (f *FakeFilesystem) Lstat(path string) (os.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func (f *FakeFilesystem) ReadDir(path string) ([]os.DirEntry, error) {
	return nil, nil
}

func (f *FakeFilesystem) Readlink(path string) (string, error) {
	return "", fs.ErrNotExist
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
