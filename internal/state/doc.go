// Package state persists the single switch record: which profile is
// active, when it was switched, and which tools it was applied to. The
// engine depends on the Store interface; FileStore keeps the record in
// ~/.orchester/state.json and MemoryStore backs tests.
package state
