//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orchester-labs/orchester/internal/history"
	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/paths"
	"github.com/orchester-labs/orchester/internal/registry"
	"github.com/orchester-labs/orchester/internal/state"
	"github.com/orchester-labs/orchester/internal/switcher"
	"github.com/orchester-labs/orchester/internal/tools"
	"github.com/orchester-labs/orchester/internal/vanilla"
)

// testEnv wires every component against an isolated home.
type testEnv struct {
	Layout    paths.Layout
	State     *state.FileStore
	Links     *linker.Manager
	Vanilla   *vanilla.Manager
	History   *history.Store
	Engine    *switcher.Engine
	Custom    *registry.CustomStore
	Installer *registry.Installer
}

// setupTestEnv creates isolated home, orchester root and project
// directories and wires the components the CLI would use.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	l := paths.Layout{
		Root:    filepath.Join(home, ".orchester"),
		Home:    home,
		Project: t.TempDir(),
	}
	t.Setenv("HOME", home)
	t.Setenv("ORCHESTER_HOME", l.Root)

	if err := paths.Init(&strings.Builder{}, l); err != nil {
		t.Fatalf("paths.Init: %v", err)
	}

	exp := tools.Expander{Home: l.Home, Project: l.Project}
	env := &testEnv{
		Layout: l,
		State:  state.NewFileStore(l.StatePath()),
		Links:  linker.New(l.ProfilesDir(), l.Home),
		Custom: registry.NewCustomStore(l.CustomRegistryPath()),
	}
	env.Vanilla = vanilla.New(l.VanillaDir(), exp, env.Links)
	env.Engine = switcher.New(l.ProfilesDir(), exp, env.State, env.Links, env.Vanilla)
	env.Installer = registry.NewInstaller(l.ProfilesDir(), env.Custom)

	h, err := history.Open(context.Background(), l.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	env.History = h
	env.Engine.History = h

	return env
}

// setupGitRepo creates a local git repository holding an orchestration
// layout: agents, skills and a CLAUDE.md under .claude/. It skips the
// test when git is not installed.
func setupGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := filepath.Join(t.TempDir(), "demo-orchestra")
	writeFile(t, filepath.Join(repo, "README.md"), "# demo\n")
	writeFile(t, filepath.Join(repo, ".claude", "agents", "planner.md"), "# planner\n")
	writeFile(t, filepath.Join(repo, ".claude", "agents", "reviewer.md"), "# reviewer\n")
	writeFile(t, filepath.Join(repo, ".claude", "skills", "tdd", "SKILL.md"), "# tdd\n")
	writeFile(t, filepath.Join(repo, ".claude", "CLAUDE.md"), "Be terse.\n")
	writeFile(t, filepath.Join(repo, ".claude", "agents", "node_modules", "junk.js"), "x\n")

	for _, args := range [][]string{
		{"init", "-q"},
		{"add", "."},
		{"-c", "user.email=test@example.com", "-c", "user.name=test", "commit", "-q", "-m", "init"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return repo
}

// writeProfile creates a profile whose manifest links files/<kind> to the
// abstract Claude directory of each kind.
func writeProfile(t *testing.T, profilesDir, name string, kinds ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("name: " + name + "\ndescription: " + name + " profile\ntool: claude-code\nlinks:\n")
	for _, kind := range kinds {
		writeFile(t, filepath.Join(profilesDir, name, "files", kind, name+".md"), "# "+name+"\n")
		b.WriteString("  - source: files/" + kind + "\n    target: $HOME/.claude/" + kind + "/\n")
	}
	writeFile(t, filepath.Join(profilesDir, name, "manifest.yaml"), b.String())
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertSymlink fails unless path is a symlink.
func assertSymlink(t *testing.T, path string, want bool) {
	t.Helper()
	info, err := os.Lstat(path)
	got := err == nil && info.Mode()&os.ModeSymlink != 0
	if got != want {
		t.Errorf("symlink(%s) = %v, want %v", path, got, want)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
