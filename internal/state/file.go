package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/tools"
)

// FileStore keeps the record as indented JSON in a single file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore returns a store backed by path (normally
// ~/.orchester/state.json).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, log: logging.For("state")}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the record. A missing file or corrupted content yields
// Default(); corruption is logged at debug level and otherwise ignored.
func (s *FileStore) Load() State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Err(err).Str("path", s.path).Msg("Unreadable state, using defaults")
		}
		return Default()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Debug().Err(err).Str("path", s.path).Msg("Corrupted state, using defaults")
		return Default()
	}

	raw := make([]string, len(st.ActiveTools))
	for i, id := range st.ActiveTools {
		raw[i] = string(id)
	}
	st.ActiveTools = tools.NormalizeAll(raw)
	if st.ActiveTools == nil {
		st.ActiveTools = []tools.ID{}
	}
	if st.ActiveProfile != nil && *st.ActiveProfile == "" {
		st.ActiveProfile = nil
	}
	return st
}

// Save writes the record atomically: a temp file in the same directory is
// renamed over the old one.
func (s *FileStore) Save(st State) error {
	if st.ActiveTools == nil {
		st.ActiveTools = []tools.ID{}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
