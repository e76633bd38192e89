package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sidecarSuffix marks a copy made in place of a symlink.
const sidecarSuffix = ".target"

// CreateSymlink creates link pointing to target.
// On Windows it attempts os.Symlink first (requires developer mode), then
// falls back to copying target and writing a .target sidecar.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(link), target)
	}
	if err := CopyTree(resolved, link, nil); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}
	if err := os.WriteFile(link+sidecarSuffix, []byte(target), 0644); err != nil {
		return fmt.Errorf("writing symlink sidecar: %w", err)
	}
	return nil
}

// IsSymlink reports whether path is a symlink, or a fallback copy that
// stands in for one.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	return hasSidecar(path)
}

// RemoveSymlink removes a symlink (or its fallback copy and sidecar).
// Callers are expected to have checked IsSymlink first.
func RemoveSymlink(path string) error {
	var err error
	if hasSidecar(path) {
		err = os.RemoveAll(path)
		_ = os.Remove(path + sidecarSuffix)
	} else {
		err = os.Remove(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ReadSymlinkTarget returns the target of a symlink.
// On Windows, if os.Readlink fails (because a copy fallback was used),
// it reads from the .target sidecar file.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	tmpDir := os.TempDir()
	link := filepath.Join(tmpDir, ".orchester-symlink-test")
	defer os.Remove(link)

	return os.Symlink(tmpDir, link) == nil
}

func hasSidecar(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	_, err := os.Stat(path + sidecarSuffix)
	return err == nil
}
