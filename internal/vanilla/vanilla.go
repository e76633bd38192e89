// Package vanilla captures the user's pre-orchestration configuration and
// restores it when no profile is selected.
package vanilla

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/platform"
	"github.com/orchester-labs/orchester/internal/tools"
)

// MetadataFile records where each snapshot entry was copied from.
const MetadataFile = ".snapshot.json"

// DetectedConfig is one known configuration location.
type DetectedConfig struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Label  string `json:"label"`
	Exists bool   `json:"exists"`
}

type location struct {
	template string
	label    string
}

var locations = []location{
	{"$HOME/.claude/agents", "~/.claude/agents/"},
	{"$HOME/.claude/skills", "~/.claude/skills/"},
	{"$HOME/.claude/hooks", "~/.claude/hooks/"},
	{"$PROJECT/CLAUDE.md", "$PROJECT/CLAUDE.md"},
}

// Manager owns the snapshot directory.
type Manager struct {
	Root     string
	Expander tools.Expander
	// Links, when set, lets Restore clear owned symlinks at live paths and
	// lets CreateSnapshot skip them.
	Links *linker.Manager

	log zerolog.Logger
}

// New returns a Manager snapshotting into root.
func New(root string, exp tools.Expander, links *linker.Manager) *Manager {
	return &Manager{Root: root, Expander: exp, Links: links, log: logging.For("vanilla")}
}

// Detect yields the known configuration locations and whether each exists.
// It only stats paths.
func (m *Manager) Detect() iter.Seq[DetectedConfig] {
	return func(yield func(DetectedConfig) bool) {
		for _, loc := range locations {
			p := m.Expander.Expand(loc.template)
			_, err := os.Lstat(p)
			cfg := DetectedConfig{
				Name:   filepath.Base(p),
				Path:   p,
				Label:  loc.label,
				Exists: err == nil,
			}
			if !yield(cfg) {
				return
			}
		}
	}
}

// CreateSnapshot copies every existing configuration location into Root,
// replacing earlier copies of the same name, and returns the names copied.
// Sources are never modified. Locations that are currently orchester-owned
// symlinks belong to a profile, not to the user, and are skipped.
func (m *Manager) CreateSnapshot() ([]string, error) {
	if err := os.MkdirAll(m.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	meta := m.readMetadata()
	var copied []string
	for cfg := range m.Detect() {
		if !cfg.Exists {
			continue
		}
		if m.Links != nil && m.Links.IsOrchSymlink(cfg.Path) {
			m.log.Debug().Str("path", cfg.Path).Msg("Skipping profile link")
			continue
		}

		dest := filepath.Join(m.Root, cfg.Name)
		if err := os.RemoveAll(dest); err != nil {
			return copied, fmt.Errorf("clearing snapshot entry %s: %w", cfg.Name, err)
		}
		if err := platform.CopyTree(cfg.Path, dest, nil); err != nil {
			return copied, fmt.Errorf("copying %s: %w", cfg.Path, err)
		}
		meta[cfg.Name] = cfg.Path
		copied = append(copied, cfg.Name)
	}

	if err := m.writeMetadata(meta); err != nil {
		return copied, err
	}
	m.log.Info().Strs("entries", copied).Msg("Vanilla snapshot created")
	return copied, nil
}

// Restore copies every snapshot entry back over its live location. A
// missing snapshot is not an error.
func (m *Manager) Restore() error {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	meta := m.readMetadata()
	for _, e := range entries {
		name := e.Name()
		if name == MetadataFile {
			continue
		}
		dest, ok := meta[name]
		if !ok {
			dest, ok = m.byBasename(name)
		}
		if !ok {
			m.log.Warn().Str("entry", name).Msg("No known location for snapshot entry, skipping")
			continue
		}

		if m.Links != nil {
			if _, err := m.Links.RemoveOwned(dest); err != nil {
				return fmt.Errorf("clearing profile link at %s: %w", dest, err)
			}
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating parent of %s: %w", dest, err)
		}
		if err := platform.CopyTree(filepath.Join(m.Root, name), dest, nil); err != nil {
			return fmt.Errorf("restoring %s: %w", dest, err)
		}
		m.log.Debug().Str("entry", name).Str("path", dest).Msg("Restored")
	}
	return nil
}

// HasVanilla reports whether a non-empty snapshot exists.
func (m *Manager) HasVanilla() bool {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() != MetadataFile {
			return true
		}
	}
	return false
}

func (m *Manager) byBasename(name string) (string, bool) {
	for cfg := range m.Detect() {
		if cfg.Name == name {
			return cfg.Path, true
		}
	}
	return "", false
}

func (m *Manager) readMetadata() map[string]string {
	meta := make(map[string]string)
	data, err := os.ReadFile(filepath.Join(m.Root, MetadataFile))
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		m.log.Debug().Err(err).Msg("Ignoring unreadable snapshot metadata")
		return make(map[string]string)
	}
	return meta
}

func (m *Manager) writeMetadata(meta map[string]string) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.Root, MetadataFile), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing snapshot metadata: %w", err)
	}
	return nil
}
