package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyTree copies src to dst. A directory is merged into an existing dst
// (same-named files are overwritten, extra files survive); a file or
// symlink replaces whatever is at dst. Symlinks are recreated, not
// followed. Entries for which skip returns true are left out.
func CopyTree(src, dst string, skip func(name string) bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case info.IsDir():
		return copyDir(src, dst, info.Mode().Perm(), skip)
	case info.Mode().IsRegular():
		return copyFile(src, dst, info.Mode().Perm())
	default:
		// Sockets, devices and pipes are not configuration.
		return nil
	}
}

func copyDir(src, dst string, perm os.FileMode, skip func(string) bool) error {
	if info, err := os.Lstat(dst); err == nil && !info.IsDir() {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("replacing %s: %w", dst, err)
		}
	}
	if err := os.MkdirAll(dst, perm|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if skip != nil && skip(e.Name()) {
			continue
		}
		if err := CopyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name()), skip); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	if err := clearForFile(dst); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := clearForFile(dst); err != nil {
		return err
	}
	return os.Symlink(target, dst)
}

// clearForFile removes a directory or symlink occupying dst so a file can
// be written there. Regular files are left for O_TRUNC to handle.
func clearForFile(dst string) error {
	info, err := os.Lstat(dst)
	if err != nil {
		return nil
	}
	if info.Mode().IsRegular() {
		return nil
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	return nil
}
