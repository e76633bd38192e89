// Package linker is the only place orchester creates, inspects or removes
// the symlinks that activate a profile. Ownership is decided from the link
// value alone: a link is orchester's when it points inside the profile
// store. Anything else at a managed path, including real files and links
// made by the user or other tools, is never removed by RemoveOwned.
package linker
