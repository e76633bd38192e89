package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/registry"
)

var installCmd = &cobra.Command{
	Use:   "install <name|git-url>",
	Short: "Install a profile from the registry or a git repository",
	Long: `Install a profile by registry name (see 'orchester registry') or from any
git repository URL. The repository is shallow-cloned, its agents, skills,
hooks, commands and rule files are copied into ~/.orchester/profiles/<name>/files
and a manifest linking them to the Claude Code directories is written.
Repositories installed by URL are remembered in the custom registry.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	progress := func(msg string) { fmt.Fprintln(w, mutedStyle.Render("  "+msg)) }
	in := e.installer()

	var res *registry.Result
	if isRepoURL(args[0]) {
		res, err = in.InstallFromURL(cmd.Context(), args[0], progress)
	} else {
		var entry registry.Entry
		entry, err = e.catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		res, err = in.Install(cmd.Context(), entry, progress)
	}
	if err != nil {
		return fmt.Errorf("installing %s: %w", args[0], err)
	}

	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Installed %s (%d links)", res.Entry.Name, len(res.Links))))
	fmt.Fprintf(w, "Activate it with '%s use %s'.\n", rootCmd.Name(), res.Entry.Dir())
	return nil
}

// isRepoURL tells a clone URL apart from a registry name.
func isRepoURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "git@") || strings.HasSuffix(s, ".git")
}
