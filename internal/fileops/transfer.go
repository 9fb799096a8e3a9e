package fileops

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"fsbridge/internal/pathspec"
)

// Cp copies src to dst, returning the byte count and the final target
// path. Directory sources always copy recursively. When dst is an
// existing directory the source is copied into it; when dst is an
// existing file it is overwritten unconditionally — at this layer there
// is no confirmation, that is the gate's job and callers opt out of the
// gate explicitly.
func (o *Ops) Cp(src, dst pathspec.PathSpec) (int64, string, error) {
	if !src.Exists {
		return 0, "", opErr(KindSourceNotFound, src.Abs, nil)
	}
	target := resolveTarget(src, dst)

	var (
		bytes int64
		err   error
	)
	switch src.Kind {
	case pathspec.Directory:
		bytes, err = o.copyTree(src.Abs, target)
	case pathspec.Symlink:
		err = o.copyLink(src.Abs, target)
	default:
		bytes, err = o.copyFile(src.Abs, target)
	}
	if err != nil {
		return 0, target, err
	}
	return bytes, target, nil
}

// Mv renames src to dst. When the rename fails because source and
// destination sit on different devices it falls back to copy-then-delete
// staged through a temporary name, so from the caller's perspective the
// move either completes fully or leaves the source untouched.
func (o *Ops) Mv(src, dst pathspec.PathSpec) (int64, string, error) {
	if !src.Exists {
		return 0, "", opErr(KindSourceNotFound, src.Abs, nil)
	}
	target := resolveTarget(src, dst)

	// Byte accounting has to happen before the source goes away
	bytes := src.Size
	if src.Kind == pathspec.Directory {
		bytes = treeSize(src.Abs)
	}

	err := o.fs.Rename(src.Abs, target)
	if err == nil {
		return bytes, target, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return 0, target, classified(src.Abs, err)
	}

	// Cross-device: copy to a staging name next to the target, swing it
	// into place, then drop the source. Any failure discards the staging
	// copy and leaves the source as it was.
	staging := target + ".fsbridge-partial"
	var copyErr error
	switch src.Kind {
	case pathspec.Directory:
		_, copyErr = o.copyTree(src.Abs, staging)
	case pathspec.Symlink:
		copyErr = o.copyLink(src.Abs, staging)
	default:
		_, copyErr = o.copyFile(src.Abs, staging)
	}
	if copyErr == nil {
		copyErr = o.fs.Rename(staging, target)
	}
	if copyErr != nil {
		o.fs.RemoveAll(staging)
		return 0, target, classified(src.Abs, copyErr)
	}
	if err := o.fs.RemoveAll(src.Abs); err != nil {
		return 0, target, classified(src.Abs, err)
	}
	return bytes, target, nil
}

// Rm removes the path, recursively for directories. Removal here is
// unconditional; refusal lives in the gate.
func (o *Ops) Rm(spec pathspec.PathSpec) (int64, error) {
	if !spec.Exists {
		return 0, opErr(KindNotFound, spec.Abs, nil)
	}
	if spec.Kind == pathspec.Directory {
		bytes := treeSize(spec.Abs)
		if err := o.fs.RemoveAll(spec.Abs); err != nil {
			return 0, classified(spec.Abs, err)
		}
		return bytes, nil
	}
	if err := o.fs.Remove(spec.Abs); err != nil {
		return 0, classified(spec.Abs, err)
	}
	return spec.Size, nil
}

// resolveTarget maps a destination spec to the concrete target path:
// copying or moving into an existing directory lands under it, named
// after the source.
func resolveTarget(src, dst pathspec.PathSpec) string {
	if dst.Exists && dst.Kind == pathspec.Directory {
		return filepath.Join(dst.Abs, filepath.Base(src.Abs))
	}
	return dst.Abs
}

func (o *Ops) copyFile(srcPath, dstPath string) (int64, error) {
	in, err := o.fs.Open(srcPath)
	if err != nil {
		return 0, classified(srcPath, err)
	}
	defer in.Close()

	out, err := o.fs.Create(dstPath)
	if err != nil {
		return 0, classified(dstPath, err)
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, classified(dstPath, err)
	}

	if info, statErr := o.fs.Stat(srcPath); statErr == nil {
		o.fs.Chmod(dstPath, info.Mode().Perm())
	}
	return n, nil
}

func (o *Ops) copyLink(srcPath, dstPath string) error {
	target, err := o.fs.Readlink(srcPath)
	if err != nil {
		return classified(srcPath, err)
	}
	// Replace an existing link/file at the destination
	o.fs.Remove(dstPath)
	return classified(dstPath, o.fs.Symlink(target, dstPath))
}

func (o *Ops) copyTree(srcPath, dstPath string) (int64, error) {
	srcInfo, err := o.fs.Stat(srcPath)
	if err != nil {
		return 0, classified(srcPath, err)
	}
	if err := o.fs.MkdirAll(dstPath, srcInfo.Mode().Perm()); err != nil {
		return 0, classified(dstPath, err)
	}

	dirents, err := o.fs.ReadDir(srcPath)
	if err != nil {
		return 0, classified(srcPath, err)
	}

	var total int64
	for _, d := range dirents {
		from := filepath.Join(srcPath, d.Name())
		to := filepath.Join(dstPath, d.Name())
		switch {
		case d.Type()&os.ModeSymlink != 0:
			if err := o.copyLink(from, to); err != nil {
				return total, err
			}
		case d.IsDir():
			n, err := o.copyTree(from, to)
			total += n
			if err != nil {
				return total, err
			}
		default:
			n, err := o.copyFile(from, to)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}
