// Package fsys abstracts the filesystem operations grm performs on the
// managed root: symlink bookkeeping, moving resources into the shared store
// and copying them back out.
//
// Domain packages (scan, share) depend on the [FS] interface rather than the
// os package directly, so the filesystem surface they rely on stays narrow
// and auditable. [OS] is the production implementation.
package fsys

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem capability used by the scan and share packages.
type FS interface {
	// Exists reports whether path exists. A dangling symlink reports false;
	// use IsSymlink to detect it.
	Exists(path string) bool
	// IsSymlink reports whether path itself is a symlink (not its target).
	IsSymlink(path string) bool
	// IsDir reports whether path is a directory (following symlinks).
	IsDir(path string) bool
	// ReadDir lists the entries of a directory.
	ReadDir(path string) ([]fs.DirEntry, error)
	// Readlink returns the target of a symlink.
	Readlink(path string) (string, error)
	// Symlink creates a symlink at link pointing to target.
	Symlink(target, link string) error
	// Remove removes a file or symlink.
	Remove(path string) error
	// RemoveAll removes path and any children.
	RemoveAll(path string) error
	// Rename moves a file or directory tree.
	Rename(oldpath, newpath string) error
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
	// CopyTree copies a file or directory tree from src to dst.
	CopyTree(src, dst string) error
}

// OS implements FS on the real filesystem.
type OS struct{}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OS) IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

func (OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (OS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (OS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (OS) Symlink(target, link string) error {
	return os.Symlink(target, link)
}

func (OS) Remove(path string) error {
	return os.Remove(path)
}

func (OS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (OS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// CopyTree copies src to dst. Regular files keep their permission bits,
// symlinks are recreated with the same target. dst must not exist yet.
func (OS) CopyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)

	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			err := OS{}.CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()))
			if err != nil {
				return err
			}
		}
		return nil

	case info.Mode().IsRegular():
		return copyFile(src, dst, info.Mode().Perm())

	default:
		return fmt.Errorf("cannot copy %s: unsupported file type %s", src, info.Mode())
	}
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
