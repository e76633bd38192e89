// Package platform provides cross-platform filesystem primitives: symlink
// creation, inspection and removal, recursive copying, and permission
// management. On Unix systems it uses native symlinks and chmod directly.
// On Windows without developer mode it falls back to copying the target
// and recording it in a .target sidecar, so callers can still tell a
// managed link from a user's own files.
package platform
