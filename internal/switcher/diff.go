package switcher

import (
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/tools"
)

// BuildDiffPreview returns the plan for switching from one profile to
// another without touching the filesystem. An empty name means vanilla.
// Missing or invalid manifests produce an empty side rather than an error.
func (e *Engine) BuildDiffPreview(from, to string, targetTools []tools.ID) Diff {
	previous := tools.OrPrimary(e.State.Load().ActiveTools)
	fromM, _ := e.loadManifest(from, FailFromManifest, ModePreview)
	toM, _ := e.loadManifest(to, FailToManifest, ModePreview)
	return e.plan(from, fromM, previous, to, toM, tools.OrPrimary(targetTools))
}

// plan orders items by side (removals of from, then additions of to), then
// link declaration order, then tool order. Switch executes the same plan.
func (e *Engine) plan(from string, fromM *manifest.Profile, previous []tools.ID, to string, toM *manifest.Profile, target []tools.ID) Diff {
	d := Diff{From: from, To: to, Items: []Item{}}
	d.Items = append(d.Items, e.side(ItemRemove, from, fromM, previous)...)
	d.Items = append(d.Items, e.side(ItemAdd, to, toM, target)...)
	return d
}

func (e *Engine) side(typ ItemType, profile string, m *manifest.Profile, ids []tools.ID) []Item {
	if m == nil {
		return nil
	}

	var items []Item
	for _, l := range m.Links {
		if l.IsPlugin() {
			items = append(items, Item{
				Type:           typ,
				Profile:        profile,
				Source:         l.Source,
				Target:         l.Target,
				ResolvedTarget: e.Expander.Expand(l.Target),
				InstallType:    manifest.InstallPlugin,
				PluginCommand:  l.PluginCommand,
				PluginLabel:    l.PluginLabel,
			})
			continue
		}
		for _, id := range ids {
			items = append(items, Item{
				Type:           typ,
				Profile:        profile,
				Source:         l.Source,
				Target:         l.Target,
				Tool:           id,
				ResolvedTarget: filepath.Clean(e.Expander.Expand(tools.ResolveTarget(l.Target, id))),
				ResolvedSource: filepath.Join(e.ProfilesRoot, profile, l.Source),
				InstallType:    manifest.InstallSymlink,
			})
		}
	}
	return items
}

// loadManifest parses a profile's manifest. The policy table decides
// whether a failure is returned or replaced by an empty side.
func (e *Engine) loadManifest(name string, f Failure, m Mode) (*manifest.Profile, error) {
	if name == "" {
		return nil, nil
	}
	p, err := manifest.Parse(filepath.Join(e.ProfilesRoot, name))
	if err == nil {
		return p, nil
	}
	if PolicyFor(f, m) == Propagate {
		return nil, err
	}
	e.log.Debug().Err(err).Str("profile", name).Str("failure", string(f)).Msg("Manifest unavailable, side left empty")
	return nil, nil
}
