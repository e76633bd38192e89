package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orchester-labs/orchester/internal/orcherr"
	"github.com/orchester-labs/orchester/internal/platform"
	"github.com/orchester-labs/orchester/internal/tools"
)

// Link is an existing orchester-owned symlink.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Manager performs link operations for one profile store.
type Manager struct {
	// ProfilesRoot is the directory whose descendants mark a link as owned.
	ProfilesRoot string
	// Home expands a leading "~" in paths.
	Home string
}

// New returns a Manager for the given profile store.
func New(profilesRoot, home string) *Manager {
	return &Manager{ProfilesRoot: profilesRoot, Home: home}
}

// CreateSymlink links target → source. The source must exist; the target's
// parent directories are created and anything already at target is
// removed first. Repeating the call with the same arguments leaves a
// single correct link.
func (m *Manager) CreateSymlink(source, target string) error {
	source = m.expand(source)
	target = m.expand(target)

	if _, err := os.Stat(source); err != nil {
		return orcherr.Wrap(err, orcherr.SourceMissing, "source does not exist").WithPath(source)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", target, err)
	}

	if platform.IsSymlink(target) {
		if err := platform.RemoveSymlink(target); err != nil {
			return fmt.Errorf("removing existing link %s: %w", target, err)
		}
	} else if _, err := os.Lstat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("clearing %s: %w", target, err)
		}
	}

	if err := platform.CreateSymlink(source, target); err != nil {
		return fmt.Errorf("linking %s -> %s: %w", target, source, err)
	}
	return nil
}

// RemoveSymlink deletes target only if it is a symlink. Missing paths,
// regular files and directories are left alone.
func (m *Manager) RemoveSymlink(target string) error {
	target = m.expand(target)
	if !platform.IsSymlink(target) {
		return nil
	}
	if err := platform.RemoveSymlink(target); err != nil {
		return fmt.Errorf("removing link %s: %w", target, err)
	}
	return nil
}

// RemoveOwned removes target when IsOrchSymlink confirms ownership and
// reports whether it did.
func (m *Manager) RemoveOwned(target string) (bool, error) {
	if !m.IsOrchSymlink(target) {
		return false, nil
	}
	if err := m.RemoveSymlink(target); err != nil {
		return false, err
	}
	return true, nil
}

// IsOrchSymlink reports whether target is a symlink whose value lies
// inside the profile store.
func (m *Manager) IsOrchSymlink(target string) bool {
	_, ok := m.owner(m.expand(target))
	return ok
}

// ListActiveLinks filters candidates down to owned links.
func (m *Manager) ListActiveLinks(candidates []string) []Link {
	var links []Link
	for _, c := range candidates {
		target := m.expand(c)
		if src, ok := m.owner(target); ok {
			links = append(links, Link{Source: src, Target: target})
		}
	}
	return links
}

// expand resolves a leading "~" and drops trailing separators, which tool
// directory templates carry.
func (m *Manager) expand(p string) string {
	return filepath.Clean(tools.ExpandTilde(p, m.Home))
}

// owner returns the link value of target when it is an owned link.
func (m *Manager) owner(target string) (string, bool) {
	if m.ProfilesRoot == "" || !platform.IsSymlink(target) {
		return "", false
	}
	value, err := platform.ReadSymlinkTarget(target)
	if err != nil {
		return "", false
	}
	resolved := value
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), resolved)
	}
	return value, within(filepath.Clean(m.ProfilesRoot), filepath.Clean(resolved))
}

// within reports whether path is strictly below root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
