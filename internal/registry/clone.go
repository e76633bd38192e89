package registry

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/orchester-labs/orchester/internal/orcherr"
)

// CloneFunc fetches repo into dest, which must not exist yet.
type CloneFunc func(ctx context.Context, repo, dest string) error

// GitClone performs a shallow clone with the git binary.
func GitClone(ctx context.Context, repo, dest string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", repo, dest)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("cloning %s: %w", repo, ctx.Err())
		}
		return fmt.Errorf("cloning %s: %w\n%s", repo, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return orcherr.Wrap(err, orcherr.GitUnavailable, "git is required but not found in PATH")
	}
	return nil
}
