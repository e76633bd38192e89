package state

import (
	"time"

	"github.com/orchester-labs/orchester/internal/tools"
)

// State is the persisted switch record. A nil ActiveProfile means vanilla.
type State struct {
	ActiveProfile *string    `json:"activeProfile"`
	LastSwitched  *time.Time `json:"lastSwitched"`
	ActiveTools   []tools.ID `json:"activeTools"`
}

// Store loads and saves the switch record. Load never fails: a missing or
// unreadable record yields Default().
type Store interface {
	Load() State
	Save(State) error
}

// Default returns the record used when none is stored.
func Default() State {
	return State{ActiveTools: []tools.ID{}}
}

// Active returns the active profile name and whether one is set.
func (s State) Active() (string, bool) {
	if s.ActiveProfile == nil || *s.ActiveProfile == "" {
		return "", false
	}
	return *s.ActiveProfile, true
}

// ActiveName returns the active profile, or "" for vanilla.
func (s State) ActiveName() string {
	name, _ := s.Active()
	return name
}

// Activated returns the record for a profile applied to ids at time at.
// An empty name yields the vanilla record.
func Activated(name string, ids []tools.ID, at time.Time) State {
	if name == "" {
		return Vanilla(at)
	}
	n := name
	t := at.UTC()
	return State{ActiveProfile: &n, LastSwitched: &t, ActiveTools: append([]tools.ID{}, ids...)}
}

// Vanilla returns the record for "no profile" switched at time at.
func Vanilla(at time.Time) State {
	t := at.UTC()
	return State{LastSwitched: &t, ActiveTools: []tools.ID{}}
}
