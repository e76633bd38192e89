package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/orchester-labs/orchester/internal/config"
	"github.com/orchester-labs/orchester/internal/history"
	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/paths"
	"github.com/orchester-labs/orchester/internal/registry"
	"github.com/orchester-labs/orchester/internal/state"
	"github.com/orchester-labs/orchester/internal/switcher"
	"github.com/orchester-labs/orchester/internal/tools"
	"github.com/orchester-labs/orchester/internal/vanilla"
)

// env bundles the components a command works against, all rooted in one
// resolved layout.
type env struct {
	layout   paths.Layout
	expander tools.Expander
	state    *state.FileStore
	links    *linker.Manager
	vanilla  *vanilla.Manager
	catalog  *registry.Catalog
	custom   *registry.CustomStore
}

func loadEnv() (*env, error) {
	l, err := paths.Resolve()
	if err != nil {
		return nil, err
	}
	if p := config.ProjectDir(); p != "" {
		l.Project = p
	}

	exp := tools.Expander{Home: l.Home, Project: l.Project}
	links := linker.New(l.ProfilesDir(), l.Home)
	custom := registry.NewCustomStore(l.CustomRegistryPath())
	return &env{
		layout:   l,
		expander: exp,
		state:    state.NewFileStore(l.StatePath()),
		links:    links,
		vanilla:  vanilla.New(l.VanillaDir(), exp, links),
		catalog:  &registry.Catalog{ProfilesRoot: l.ProfilesDir(), Custom: custom},
		custom:   custom,
	}, nil
}

// preview returns an engine for planning only.
func (e *env) preview() *switcher.Engine {
	return switcher.New(e.layout.ProfilesDir(), e.expander, e.state, e.links, e.vanilla)
}

// engine returns a switch engine and a func releasing its history journal.
// A journal that cannot be opened is logged and skipped.
func (e *env) engine(ctx context.Context) (*switcher.Engine, func()) {
	eng := e.preview()
	h, err := history.Open(ctx, e.layout.HistoryPath())
	if err != nil {
		log.Warn().Err(err).Msg("Switch history unavailable")
		return eng, func() {}
	}
	eng.History = h
	return eng, func() { _ = h.Close() }
}

// installer returns a registry installer honouring the configured timeout.
func (e *env) installer() *registry.Installer {
	in := registry.NewInstaller(e.layout.ProfilesDir(), e.custom)
	in.Timeout = config.RegistryTimeout()
	return in
}

// targetTools parses --tool values, falling back to the configured defaults.
func targetTools(raw []string) ([]tools.ID, error) {
	if len(raw) == 0 {
		return config.DefaultTools(), nil
	}
	return tools.ParseAll(raw)
}

// linkCandidates lists every path an owned link may live at: each tool
// directory plus the project CLAUDE.md.
func (e *env) linkCandidates() []string {
	var out []string
	for _, id := range tools.All() {
		for _, kind := range tools.Kinds(id) {
			if tmpl, ok := tools.Dir(id, kind); ok {
				out = append(out, e.expander.Expand(tmpl))
			}
		}
	}
	return append(out, e.expander.Expand("$PROJECT/CLAUDE.md"))
}
