package detect

import "github.com/orchester-labs/orchester/internal/tools"

// ExistingConfig is a populated tool directory.
type ExistingConfig struct {
	Tool     tools.ID `json:"tool"`
	Kind     string   `json:"kind"`
	Location string   `json:"location"`
	Count    int      `json:"count"`
}

// ExistingConfigs lists every tool directory that holds at least one
// visible entry.
func (d *Detector) ExistingConfigs() []ExistingConfig {
	var out []ExistingConfig
	for _, id := range tools.All() {
		for _, kind := range tools.Kinds(id) {
			tmpl, _ := tools.Dir(id, kind)
			dir := d.expand(tmpl)
			if n := countEntries(dir); n > 0 {
				out = append(out, ExistingConfig{Tool: id, Kind: kind, Location: dir, Count: n})
			}
		}
	}
	return out
}
