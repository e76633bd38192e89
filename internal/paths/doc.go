// Package paths resolves the on-disk layout under ~/.orchester/ (profile
// store, vanilla snapshot, state file, custom registry, history journal)
// and creates it on first run. Every location honours an ORCHESTER_*
// environment override so tests and alternate installs can relocate it.
package paths
