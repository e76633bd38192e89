package switcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/state"
	"github.com/orchester-labs/orchester/internal/tools"
)

func TestBuildDiffPreview_ResolvesPerTool(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", []manifest.LinkDef{
		link("files/skills", "$HOME/.claude/skills/"),
		link("files/CLAUDE.md", "$PROJECT/CLAUDE.md"),
	})

	diff := env.engine.BuildDiffPreview("", "omc", []tools.ID{tools.Antigravity, tools.Cursor})
	require.Len(t, diff.Items, 4)

	want := []struct {
		tool   tools.ID
		target string
	}{
		{tools.Antigravity, filepath.Join(env.home, ".gemini", "antigravity", "skills")},
		{tools.Cursor, filepath.Join(env.home, ".cursor", "skills")},
		{tools.Antigravity, filepath.Join(env.project, "CLAUDE.md")},
		{tools.Cursor, filepath.Join(env.project, "CLAUDE.md")},
	}
	for i, w := range want {
		it := diff.Items[i]
		assert.Equal(t, ItemAdd, it.Type)
		assert.Equal(t, w.tool, it.Tool)
		assert.Equal(t, w.target, it.ResolvedTarget)
		assert.Equal(t, "omc", it.Profile)
	}
	assert.Equal(t, filepath.Join(env.profiles, "omc", "files", "skills"), diff.Items[0].ResolvedSource)
	assert.Equal(t, manifest.InstallSymlink, diff.Items[0].InstallType)
}

func TestBuildDiffPreview_RemovesUsePreviousTools(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "omc", omcLinks())
	omc := "omc"
	env.store.Current = state.State{ActiveProfile: &omc, ActiveTools: []tools.ID{tools.Codex, tools.Gemini}}

	diff := env.engine.BuildDiffPreview("omc", "", []tools.ID{tools.Claude})
	require.Len(t, diff.Items, 4)
	assert.Equal(t, tools.Codex, diff.Items[0].Tool)
	assert.Equal(t, tools.Gemini, diff.Items[1].Tool)
	assert.Equal(t, filepath.Join(env.home, ".codex", "agents"), diff.Items[0].ResolvedTarget)
	for _, it := range diff.Items {
		assert.Equal(t, ItemRemove, it.Type)
	}
}

func TestBuildDiffPreview_DefaultsToPrimary(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "bkit", bkitLinks())

	diff := env.engine.BuildDiffPreview("", "bkit", nil)
	require.Len(t, diff.Items, 1)
	assert.Equal(t, tools.Claude, diff.Items[0].Tool)
}

func TestBuildDiffPreview_PluginItemsAreToolAgnostic(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "p", []manifest.LinkDef{{
		Source: "omc", Target: "$HOME/.claude/plugins/", InstallType: manifest.InstallPlugin,
		PluginCommand: "claude plugin install omc", PluginLabel: "OMC",
	}})

	diff := env.engine.BuildDiffPreview("", "p", []tools.ID{tools.Claude, tools.Codex})
	require.Len(t, diff.Items, 1)
	it := diff.Items[0]
	assert.True(t, it.IsPlugin())
	assert.Empty(t, it.Tool)
	assert.Empty(t, it.ResolvedSource)
	assert.Equal(t, "claude plugin install omc", it.PluginCommand)
}

func TestBuildDiffPreview_StaleProfilesDegrade(t *testing.T) {
	env := newEnv(t)
	env.profile(t, "bkit", bkitLinks())
	broken := filepath.Join(env.profiles, "broken")
	require.NoError(t, os.MkdirAll(broken, 0755))
	require.NoError(t, os.WriteFile(manifest.Path(broken), []byte("- a\n- b\n"), 0644))

	assert.Empty(t, env.engine.BuildDiffPreview("gone", "broken", nil).Items)

	diff := env.engine.BuildDiffPreview("gone", "bkit", nil)
	adds, removes := diff.Count()
	assert.Equal(t, 1, adds)
	assert.Zero(t, removes)
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		failure Failure
		mode    Mode
		want    Action
	}{
		{FailToManifest, ModePreview, Degrade},
		{FailToManifest, ModeSwitch, Propagate},
		{FailFromManifest, ModeSwitch, Degrade},
		{FailSourceMissing, ModeSwitch, Propagate},
		{FailStateLoad, ModePreview, Degrade},
		{FailRollback, ModeSwitch, Swallow},
		{FailHistory, ModeSwitch, Swallow},
		{Failure("unknown"), ModeSwitch, Propagate},
	}
	for _, tt := range tests {
		t.Run(string(tt.failure), func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFor(tt.failure, tt.mode))
		})
	}
}
