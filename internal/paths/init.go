package paths

import (
	"fmt"
	"io"
	"os"

	"github.com/orchester-labs/orchester/internal/platform"
)

const defaultConfigContent = `# Tools a profile is applied to when --tool is not given.
default_tools:
  - claude
# project_dir: /path/to/project
`

// Init creates the orchester home, the profile store and a default config
// file. It prints one line per item to w; existing items are skipped.
func Init(w io.Writer, l Layout) error {
	if err := ensureDir(w, l.Root, DirPermNormal); err != nil {
		return err
	}
	if err := ensureDir(w, l.ProfilesDir(), DirPermNormal); err != nil {
		return err
	}
	return ensureFile(w, l.ConfigPath(), defaultConfigContent, FilePermSecure)
}

func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if _, err := platform.EnsureMode(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		changed, err := platform.EnsureMode(path, perm)
		if err != nil {
			return fmt.Errorf("setting permissions on %s: %w", path, err)
		}
		if changed {
			fmt.Fprintf(w, "  [ OK ] Restricted %s to %o\n", path, perm)
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
