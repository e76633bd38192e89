package manifest

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ListProfileDirs yields the names of directories under profilesRoot that
// contain a manifest.yaml, in lexical order. Each range over the sequence
// re-reads the directory. A missing root yields nothing.
func ListProfileDirs(profilesRoot string) iter.Seq[string] {
	return func(yield func(string) bool) {
		entries, err := os.ReadDir(profilesRoot)
		if err != nil {
			return
		}
		for _, e := range entries {
			dir := filepath.Join(profilesRoot, e.Name())
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(Path(dir)); err != nil {
				continue
			}
			if !yield(e.Name()) {
				return
			}
		}
	}
}

// ListProfiles parses every installed profile and marks the active one.
// Profiles whose manifest fails to parse are skipped.
func ListProfiles(profilesRoot, active string) []ListItem {
	var items []ListItem
	for name := range ListProfileDirs(profilesRoot) {
		p, err := Parse(filepath.Join(profilesRoot, name))
		if err != nil {
			continue
		}
		items = append(items, ListItem{
			Name:        name,
			Description: p.Description,
			Tags:        p.Tags,
			Focus:       p.Focus,
			Active:      name == active,
			InstallType: p.InstallType,
			Tool:        p.Tool,
			Links:       len(p.Links),
		})
	}
	return items
}

// Write serializes p to <profileRoot>/manifest.yaml, creating the
// directory if needed.
func Write(profileRoot string, p *Profile) error {
	if err := os.MkdirAll(profileRoot, 0755); err != nil {
		return fmt.Errorf("creating profile directory %s: %w", profileRoot, err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(Path(profileRoot), data, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", Path(profileRoot), err)
	}
	return nil
}
