package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/logging"
)

// CustomStore keeps user-added entries in custom-registry.json.
type CustomStore struct {
	path string
}

// NewCustomStore returns a store backed by path.
func NewCustomStore(path string) *CustomStore {
	return &CustomStore{path: path}
}

// Load returns the stored entries. A missing or unreadable file yields none.
func (s *CustomStore) Load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log := logging.For("registry")
		log.Debug().Err(err).Str("path", s.path).Msg("Ignoring unreadable custom registry")
		return nil
	}
	return entries
}

// Contains reports whether an entry named name is stored.
func (s *CustomStore) Contains(name string) bool {
	for _, e := range s.Load() {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Save adds e, replacing an entry with the same name.
func (s *CustomStore) Save(e Entry) error {
	entries := s.Load()
	replaced := false
	for i := range entries {
		if entries[i].Name == e.Name {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}
	return s.write(entries)
}

// Remove deletes the entry named name. Removing an unknown name is not an
// error.
func (s *CustomStore) Remove(name string) error {
	var kept []Entry
	for _, e := range s.Load() {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	return s.write(kept)
}

func (s *CustomStore) write(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling custom registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
