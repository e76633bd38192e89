package switcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchester-labs/orchester/internal/history"
	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/state"
	"github.com/orchester-labs/orchester/internal/tools"
	"github.com/orchester-labs/orchester/internal/vanilla"
)

type fakeVanilla struct {
	calls int
	err   error
}

func (f *fakeVanilla) Restore() error {
	f.calls++
	return f.err
}

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e history.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type testEnv struct {
	home, project, profiles string
	store                   *state.MemoryStore
	vanilla                 *fakeVanilla
	engine                  *Engine
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	env := &testEnv{
		home:     filepath.Join(base, "home"),
		project:  filepath.Join(base, "project"),
		profiles: filepath.Join(base, "orchester", "profiles"),
		store:    state.NewMemoryStore(state.Default()),
		vanilla:  &fakeVanilla{},
	}
	for _, d := range []string{env.home, env.project, env.profiles} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	exp := tools.Expander{Home: env.home, Project: env.project}
	env.engine = New(env.profiles, exp, env.store, linker.New(env.profiles, env.home), env.vanilla)
	env.engine.Now = func() time.Time { return fixedNow }
	return env
}

// profile writes a manifest and creates every symlink source, except those
// listed in missing.
func (env *testEnv) profile(t *testing.T, name string, links []manifest.LinkDef, missing ...string) {
	t.Helper()
	root := filepath.Join(env.profiles, name)
	skip := make(map[string]bool)
	for _, m := range missing {
		skip[m] = true
	}
	for _, l := range links {
		if l.IsPlugin() || skip[l.Source] {
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Join(root, l.Source), 0755))
	}
	require.NoError(t, manifest.Write(root, &manifest.Profile{Name: name, Tool: tools.Claude, Links: links}))
}

func (env *testEnv) claude(kind string) string {
	return filepath.Join(env.home, ".claude", kind)
}

func link(source, target string) manifest.LinkDef {
	return manifest.LinkDef{Source: source, Target: target}
}

func omcLinks() []manifest.LinkDef {
	return []manifest.LinkDef{
		link("files/agents", "$HOME/.claude/agents/"),
		link("files/skills", "$HOME/.claude/skills/"),
	}
}

func bkitLinks() []manifest.LinkDef {
	return []manifest.LinkDef{link("files/agents", "$HOME/.claude/agents/")}
}

func TestSwitch_OmcToBkit(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", omcLinks())
	env.profile(t, "bkit", bkitLinks())

	first := env.engine.Switch("", "omc", []tools.ID{tools.Claude})
	require.True(t, first.Success, first.Error)
	assert.Equal(t, 2, first.LinksCreated)

	diff := env.engine.BuildDiffPreview("omc", "bkit", []tools.ID{tools.Claude})
	adds, removes := diff.Count()
	assert.Equal(t, 1, adds)
	assert.Equal(t, 2, removes)

	res := env.engine.Switch("omc", "bkit", []tools.ID{tools.Claude})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2, res.LinksRemoved)
	assert.Equal(t, 1, res.LinksCreated)
	assert.Equal(t, PhaseDone, res.Phase)

	dest, err := os.Readlink(env.claude("agents"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.profiles, "bkit", "files", "agents"), dest)
	_, err = os.Lstat(env.claude("skills"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	st := env.store.Load()
	assert.Equal(t, "bkit", st.ActiveName())
	assert.Equal(t, []tools.ID{tools.Claude}, st.ActiveTools)
	require.NotNil(t, st.LastSwitched)
	assert.True(t, fixedNow.Equal(*st.LastSwitched))
}

func TestSwitch_NullToNull(t *testing.T) {
	env := newEnv(t)

	diff := env.engine.BuildDiffPreview("", "", nil)
	assert.Empty(t, diff.Items)

	res := env.engine.Switch("", "", nil)
	assert.True(t, res.Success)
	assert.Zero(t, res.LinksCreated)
	assert.Zero(t, res.LinksRemoved)
	assert.Equal(t, 1, env.vanilla.calls)
	_, ok := env.store.Load().Active()
	assert.False(t, ok)
}

func TestSwitch_PluginAndSymlink(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "hybrid", []manifest.LinkDef{
		{Source: "omc@marketplace", Target: "$HOME/.claude/plugins/", InstallType: manifest.InstallPlugin,
			PluginCommand: "claude plugin install omc@marketplace", PluginLabel: "oh-my-claudecode"},
		link("files/agents", "$HOME/.claude/agents/"),
	})

	res := env.engine.Switch("", "hybrid", nil)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, res.LinksCreated)
	require.Len(t, res.PluginCommands, 1)
	assert.Equal(t, PluginCommand{
		Command: "claude plugin install omc@marketplace",
		Label:   "oh-my-claudecode",
		Action:  ActionInstall,
	}, res.PluginCommands[0])
	assert.NoDirExists(t, env.claude("plugins"))

	back := env.engine.SwitchTo("", nil)
	require.True(t, back.Success, back.Error)
	assert.Equal(t, 1, back.LinksRemoved)
	require.Len(t, back.PluginCommands, 1)
	assert.Equal(t, "claude plugin uninstall omc@marketplace", back.PluginCommands[0].Command)
	assert.Equal(t, ActionUninstall, back.PluginCommands[0].Action)
}

func TestSwitch_LinksScaleWithTools(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", append(omcLinks(), manifest.LinkDef{
		Source: "plugin", Target: "$HOME/.claude/plugins/", InstallType: manifest.InstallPlugin, PluginCommand: "x install y",
	}))
	targets := []tools.ID{tools.Claude, tools.Codex, tools.Gemini}

	res := env.engine.Switch("", "omc", targets)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2*len(targets), res.LinksCreated)

	for _, dir := range []string{".claude", ".codex", ".gemini"} {
		for _, kind := range []string{"agents", "skills"} {
			assert.True(t, env.engine.Links.IsOrchSymlink(filepath.Join(env.home, dir, kind)), dir+"/"+kind)
		}
	}
	assert.Equal(t, targets, env.store.Load().ActiveTools)
}

func TestSwitch_ExecutionFollowsPreviewOrder(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", omcLinks())
	env.profile(t, "bkit", []manifest.LinkDef{
		link("files/skills", "$HOME/.claude/skills/"),
		link("files/agents", "$HOME/.claude/agents/"),
		link("files/CLAUDE.md", "$PROJECT/CLAUDE.md"),
	})

	require.True(t, env.engine.Switch("", "omc", []tools.ID{tools.Claude, tools.Codex}).Success)

	targets := []tools.ID{tools.Gemini, tools.Claude}
	diff := env.engine.BuildDiffPreview("omc", "bkit", targets)
	res := env.engine.Switch("omc", "bkit", targets)
	require.True(t, res.Success, res.Error)

	executed := append(append([]Item{}, res.RemovedLinks...), res.CreatedLinks...)
	assert.Equal(t, diff.Items, executed)
}

func TestSwitch_DeactivationUsesPreviousTools(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", omcLinks())

	require.True(t, env.engine.Switch("", "omc", []tools.ID{tools.Codex}).Success)

	res := env.engine.SwitchTo("", []tools.ID{tools.Claude})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2, res.LinksRemoved)
	_, err := os.Lstat(filepath.Join(env.home, ".codex", "agents"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSwitch_DeactivationNeverTouchesForeignEntries(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", append(omcLinks(),
		link("files/hooks", "$HOME/.claude/hooks/"),
		link("files/CLAUDE.md", "$PROJECT/CLAUDE.md"),
	))
	omc := "omc"
	env.store.Current = state.State{ActiveProfile: &omc, ActiveTools: []tools.ID{tools.Claude}}

	// A real directory, a foreign symlink, a link into a lookalike root and
	// a regular file sit where omc's links would be.
	require.NoError(t, os.MkdirAll(filepath.Join(env.claude("agents"), "mine"), 0755))
	elsewhere := t.TempDir()
	require.NoError(t, os.Symlink(elsewhere, env.claude("skills")))
	lookalike := env.profiles + "-backup"
	require.NoError(t, os.MkdirAll(filepath.Join(lookalike, "omc"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(lookalike, "omc"), env.claude("hooks")))
	require.NoError(t, os.WriteFile(filepath.Join(env.project, "CLAUDE.md"), []byte("mine"), 0644))

	res := env.engine.Switch("omc", "", nil)
	require.True(t, res.Success, res.Error)
	assert.Zero(t, res.LinksRemoved)

	assert.DirExists(t, filepath.Join(env.claude("agents"), "mine"))
	dest, err := os.Readlink(env.claude("skills"))
	require.NoError(t, err)
	assert.Equal(t, elsewhere, dest)
	_, err = os.Readlink(env.claude("hooks"))
	assert.NoError(t, err)
	assert.FileExists(t, filepath.Join(env.project, "CLAUDE.md"))
}

func TestSwitch_RollbackOnMissingSource(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "broken", []manifest.LinkDef{
		link("files/agents", "$HOME/.claude/agents/"),
		link("files/skills", "$HOME/.claude/skills/"),
		link("files/hooks", "$HOME/.claude/hooks/"),
	}, "files/skills")

	res := env.engine.Switch("", "broken", nil)
	assert.False(t, res.Success)
	assert.Equal(t, PhaseFailed, res.Phase)
	assert.Equal(t, PhaseActivating, res.FailedPhase)
	assert.Zero(t, res.LinksCreated)
	assert.Empty(t, res.CreatedLinks)
	assert.Contains(t, res.Error, "SOURCE_MISSING")

	_, ok := env.store.Load().Active()
	assert.False(t, ok)
	assert.Equal(t, 1, env.vanilla.calls)

	for _, kind := range []string{"agents", "skills", "hooks"} {
		assert.False(t, env.engine.Links.IsOrchSymlink(env.claude(kind)), kind)
	}
}

func TestSwitch_SourceOutsideProfileFails(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "escape", []manifest.LinkDef{
		link("files/agents", "$HOME/.claude/agents/"),
		link("../../elsewhere", "$HOME/.claude/skills/"),
	})
	require.DirExists(t, filepath.Join(env.profiles, "..", "elsewhere"))

	res := env.engine.Switch("", "escape", nil)
	assert.False(t, res.Success)
	assert.Equal(t, PhaseActivating, res.FailedPhase)
	assert.Contains(t, res.Error, "SOURCE_MISSING")
	assert.Contains(t, res.Error, "escapes the profile directory")

	for _, kind := range []string{"agents", "skills"} {
		_, err := os.Lstat(env.claude(kind))
		assert.True(t, os.IsNotExist(err), kind)
	}
}

func TestSwitch_RollbackRestoresUserConfig(t *testing.T) {
	env := newEnv(t)
	snap := vanilla.New(filepath.Join(filepath.Dir(env.profiles), "vanilla"),
		env.engine.Expander, env.engine.Links)
	env.engine.Vanilla = snap

	require.NoError(t, os.MkdirAll(env.claude("agents"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.claude("agents"), "mine.md"), []byte("mine"), 0644))
	_, err := snap.CreateSnapshot()
	require.NoError(t, err)

	env.profile(t, "broken", []manifest.LinkDef{
		link("files/agents", "$HOME/.claude/agents/"),
		link("files/missing", "$HOME/.claude/skills/"),
	}, "files/missing")

	res := env.engine.Switch("", "broken", nil)
	require.False(t, res.Success)

	info, err := os.Lstat(env.claude("agents"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	data, err := os.ReadFile(filepath.Join(env.claude("agents"), "mine.md"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestSwitch_ValidationFailureMutatesNothing(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", omcLinks())
	require.True(t, env.engine.Switch("", "omc", nil).Success)
	saves := env.store.Saves

	res := env.engine.Switch("omc", "ghost", nil)
	assert.False(t, res.Success)
	assert.Equal(t, PhaseValidating, res.FailedPhase)
	assert.Contains(t, res.Error, "MANIFEST_NOT_FOUND")
	assert.Equal(t, saves, env.store.Saves)
	assert.Zero(t, env.vanilla.calls)
	assert.Equal(t, "omc", env.store.Load().ActiveName())
	assert.True(t, env.engine.Links.IsOrchSymlink(env.claude("agents")))
}

func TestSwitch_InvalidTargetManifest(t *testing.T) {
	env := newEnv(t)
	root := filepath.Join(env.profiles, "bad")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(manifest.Path(root), []byte("- just\n- a list\n"), 0644))

	res := env.engine.Switch("", "bad", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "MANIFEST_INVALID")
	assert.Zero(t, env.store.Saves)
}

func TestSwitch_MissingFromProfileIsTolerated(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "bkit", bkitLinks())

	res := env.engine.Switch("deleted", "bkit", nil)
	require.True(t, res.Success, res.Error)
	assert.Zero(t, res.LinksRemoved)
	assert.Equal(t, 1, res.LinksCreated)
}

func TestSwitch_StateSaveFailureRollsBack(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "bkit", bkitLinks())
	env.store.SaveErr = errors.New("disk full")

	res := env.engine.Switch("", "bkit", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk full")
	assert.False(t, env.engine.Links.IsOrchSymlink(env.claude("agents")))
	assert.Equal(t, 1, env.vanilla.calls)
}

func TestSwitch_VanillaFailureDuringRollbackIsSwallowed(t *testing.T) {
	env := newEnv(t)
	env.vanilla.err = errors.New("snapshot unreadable")
	env.profile(t, "broken", []manifest.LinkDef{link("files/nope", "$HOME/.claude/agents/")}, "files/nope")

	res := env.engine.Switch("", "broken", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "SOURCE_MISSING")
	assert.NotContains(t, res.Error, "snapshot unreadable")
}

func TestSwitch_RecordsHistory(t *testing.T) {
	env := newEnv(t)
	rec := &fakeRecorder{}
	env.engine.History = rec
	env.profile(t, "omc", omcLinks())

	require.True(t, env.engine.Switch("", "omc", []tools.ID{tools.Codex}).Success)
	env.engine.Switch("omc", "ghost", nil)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, history.Entry{
		To: "omc", Tools: []tools.ID{tools.Codex}, Success: true, LinksCreated: 2, SwitchedAt: fixedNow,
	}, rec.entries[0])
	assert.False(t, rec.entries[1].Success)
	assert.Equal(t, "ghost", rec.entries[1].To)
}

func TestSwitch_HistoryFailureIsIgnored(t *testing.T) {
	env := newEnv(t)
	env.engine.History = &fakeRecorder{err: errors.New("locked")}
	env.profile(t, "omc", omcLinks())

	res := env.engine.Switch("", "omc", nil)
	assert.True(t, res.Success, res.Error)
}

func TestPluginCommand(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		action  string
		command string
		label   string
	}{
		{
			name:    "install kept",
			item:    Item{Source: "omc", PluginCommand: "claude plugin install omc", PluginLabel: "OMC"},
			action:  ActionInstall,
			command: "claude plugin install omc",
			label:   "OMC",
		},
		{
			name:    "uninstall replaces first occurrence only",
			item:    Item{Source: "x", PluginCommand: "npx install-helper install x"},
			action:  ActionUninstall,
			command: "npx uninstall-helper install x",
			label:   "x",
		},
		{
			name:    "no install word",
			item:    Item{Source: "x", PluginCommand: "claude plugin add x"},
			action:  ActionUninstall,
			command: "claude plugin add x",
			label:   "x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := pluginCommand(tt.item, tt.action)
			assert.Equal(t, tt.command, pc.Command)
			assert.Equal(t, tt.label, pc.Label)
			assert.Equal(t, tt.action, pc.Action)
		})
	}
}
