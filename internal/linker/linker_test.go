package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchester-labs/orchester/internal/orcherr"
)

type fixture struct {
	home     string
	profiles string
	mgr      *Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	home := t.TempDir()
	profiles := filepath.Join(home, ".orchester", "profiles")
	require.NoError(t, os.MkdirAll(filepath.Join(profiles, "omc", "files", "agents"), 0755))
	return fixture{home: home, profiles: profiles, mgr: New(profiles, home)}
}

func (f fixture) source() string {
	return filepath.Join(f.profiles, "omc", "files", "agents")
}

func TestCreateSymlink(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.home, ".claude", "agents")

	require.NoError(t, f.mgr.CreateSymlink(f.source(), target))

	got, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, f.source(), got)
	assert.True(t, f.mgr.IsOrchSymlink(target))
}

func TestCreateSymlink_Idempotent(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.home, ".claude", "agents")

	require.NoError(t, f.mgr.CreateSymlink(f.source(), target))
	require.NoError(t, f.mgr.CreateSymlink(f.source(), target))

	got, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, f.source(), got)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateSymlink_ReplacesExisting(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		setup func(target string)
	}{
		{"regular file", func(target string) {
			require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
		}},
		{"directory", func(target string) {
			require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0755))
		}},
		{"stale link", func(target string) {
			require.NoError(t, os.Symlink(filepath.Join(f.home, "gone"), target))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(f.home, "targets", tt.name)
			require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
			tt.setup(target)

			require.NoError(t, f.mgr.CreateSymlink(f.source(), target))
			got, err := os.Readlink(target)
			require.NoError(t, err)
			assert.Equal(t, f.source(), got)
		})
	}
}

func TestCreateSymlink_ExpandsTilde(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.CreateSymlink(f.source(), "~/.codex/agents"))
	assert.True(t, f.mgr.IsOrchSymlink(filepath.Join(f.home, ".codex", "agents")))
	assert.True(t, f.mgr.IsOrchSymlink("~/.codex/agents"))
}

func TestCreateSymlink_SourceMissing(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.home, ".claude", "skills")

	err := f.mgr.CreateSymlink(filepath.Join(f.profiles, "omc", "files", "skills"), target)
	require.Error(t, err)
	assert.True(t, orcherr.HasCode(err, orcherr.SourceMissing))

	_, statErr := os.Lstat(target)
	assert.True(t, os.IsNotExist(statErr), "no link may be created for a missing source")
}

func TestRemoveSymlink_NeverTouchesRealEntries(t *testing.T) {
	f := newFixture(t)
	file := filepath.Join(f.home, "CLAUDE.md")
	dir := filepath.Join(f.home, ".claude", "hooks")
	require.NoError(t, os.WriteFile(file, []byte("mine"), 0644))
	require.NoError(t, os.MkdirAll(dir, 0755))

	require.NoError(t, f.mgr.RemoveSymlink(file))
	require.NoError(t, f.mgr.RemoveSymlink(dir))
	require.NoError(t, f.mgr.RemoveSymlink(filepath.Join(f.home, "missing")))

	assert.FileExists(t, file)
	assert.DirExists(t, dir)
}

func TestRemoveSymlink_RemovesLinkOnly(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.home, ".claude", "agents")
	require.NoError(t, f.mgr.CreateSymlink(f.source(), target))

	require.NoError(t, f.mgr.RemoveSymlink(target))
	_, err := os.Lstat(target)
	assert.True(t, os.IsNotExist(err))
	assert.DirExists(t, f.source())
}

func TestIsOrchSymlink_Ownership(t *testing.T) {
	f := newFixture(t)
	outside := filepath.Join(f.home, "dotfiles", "agents")
	require.NoError(t, os.MkdirAll(outside, 0755))
	lookalike := filepath.Join(f.home, ".orchester", "profiles-backup", "agents")
	require.NoError(t, os.MkdirAll(lookalike, 0755))

	file := filepath.Join(f.home, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	foreign := filepath.Join(f.home, "foreign")
	require.NoError(t, os.Symlink(outside, foreign))
	prefix := filepath.Join(f.home, "prefix")
	require.NoError(t, os.Symlink(lookalike, prefix))
	root := filepath.Join(f.home, "root")
	require.NoError(t, os.Symlink(f.profiles, root))
	relative := filepath.Join(f.home, ".claude", "rel")
	require.NoError(t, os.MkdirAll(filepath.Dir(relative), 0755))
	require.NoError(t, os.Symlink("../.orchester/profiles/omc/files/agents", relative))

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"regular file", file, false},
		{"directory", outside, false},
		{"missing", filepath.Join(f.home, "missing"), false},
		{"foreign symlink", foreign, false},
		{"shared name prefix", prefix, false},
		{"profile root itself", root, false},
		{"relative into store", relative, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.mgr.IsOrchSymlink(tt.target))
		})
	}
}

func TestRemoveOwned(t *testing.T) {
	f := newFixture(t)
	owned := filepath.Join(f.home, ".claude", "agents")
	require.NoError(t, f.mgr.CreateSymlink(f.source(), owned))
	foreign := filepath.Join(f.home, ".claude", "skills")
	require.NoError(t, os.Symlink(f.home, foreign))

	removed, err := f.mgr.RemoveOwned(owned)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.mgr.RemoveOwned(foreign)
	require.NoError(t, err)
	assert.False(t, removed)
	_, err = os.Lstat(foreign)
	assert.NoError(t, err, "foreign link must survive")
}

func TestListActiveLinks(t *testing.T) {
	f := newFixture(t)
	owned := filepath.Join(f.home, ".claude", "agents")
	require.NoError(t, f.mgr.CreateSymlink(f.source(), owned))
	foreign := filepath.Join(f.home, ".claude", "skills")
	require.NoError(t, os.Symlink(f.home, foreign))

	links := f.mgr.ListActiveLinks([]string{owned, foreign, filepath.Join(f.home, ".claude", "hooks")})
	require.Len(t, links, 1)
	assert.Equal(t, Link{Source: f.source(), Target: owned}, links[0])
}
