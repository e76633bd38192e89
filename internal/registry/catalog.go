package registry

import (
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/orcherr"
)

// Catalog merges the built-in and custom entries and checks them against
// the profile store.
type Catalog struct {
	ProfilesRoot string
	Custom       *CustomStore
}

// All returns the built-in entries followed by custom ones. A custom entry
// with a built-in name takes the built-in's place.
func (c *Catalog) All() []Entry {
	entries := Builtin()
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}
	if c.Custom == nil {
		return entries
	}
	for _, e := range c.Custom.Load() {
		if i, ok := index[e.Name]; ok {
			entries[i] = e
			continue
		}
		index[e.Name] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

// Lookup finds an entry by name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	for _, e := range c.All() {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, orcherr.Newf(orcherr.RegistryEntryNotFound, "no registry entry named %q", name)
}

// IsInstalled reports whether the entry's profile directory has a manifest.
func (c *Catalog) IsInstalled(e Entry) bool {
	_, err := os.Stat(manifest.Path(filepath.Join(c.ProfilesRoot, e.Dir())))
	return err == nil
}

// WithStatus returns every entry with its install state.
func (c *Catalog) WithStatus() []Status {
	all := c.All()
	custom := make(map[string]bool)
	if c.Custom != nil {
		for _, e := range c.Custom.Load() {
			custom[e.Name] = true
		}
	}

	out := make([]Status, 0, len(all))
	for _, e := range all {
		st := Status{Entry: e, Custom: custom[e.Name]}
		if p, err := manifest.Parse(filepath.Join(c.ProfilesRoot, e.Dir())); err == nil {
			st.Installed = true
			st.InstalledVersion = p.Version
			st.UpdateAvailable = UpdateAvailable(p.Version, e.Version)
		}
		out = append(out, st)
	}
	return out
}
