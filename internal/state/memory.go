package state

import "github.com/orchester-labs/orchester/internal/tools"

// MemoryStore is an in-process Store. SaveErr, when set, is returned by
// every Save without changing the record.
type MemoryStore struct {
	Current State
	Saves   int
	SaveErr error
}

// NewMemoryStore returns a store holding initial.
func NewMemoryStore(initial State) *MemoryStore {
	return &MemoryStore{Current: initial}
}

// Load returns a copy of the held record.
func (m *MemoryStore) Load() State {
	st := m.Current
	st.ActiveTools = append([]tools.ID{}, st.ActiveTools...)
	return st
}

// Save replaces the held record.
func (m *MemoryStore) Save(st State) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Current = st
	m.Saves++
	return nil
}
