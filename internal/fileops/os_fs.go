package fileops

import (
	"io"
	"os"
	"time"
)

// OSFilesystem implements Filesystem using real os package calls
type OSFilesystem struct{}

func (OSFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (OSFilesystem) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (OSFilesystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (OSFilesystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (OSFilesystem) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (OSFilesystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (OSFilesystem) Symlink(target, link string) error {
	return os.Symlink(target, link)
}

func (OSFilesystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

func (OSFilesystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (OSFilesystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFilesystem) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func (OSFilesystem) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
