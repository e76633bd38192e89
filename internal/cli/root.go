package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/branding"
	"github.com/orchester-labs/orchester/internal/config"
	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/paths"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` switches AI coding tools (Claude Code, Codex, Gemini, Cursor,
Antigravity, OpenCode) between orchestration profiles by relinking their
agents, skills, hooks and commands directories, and restores the original
configuration on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbosity)

		l, err := paths.Resolve()
		if err != nil {
			return err
		}
		moved, err := paths.MigrateLegacy(l)
		if err != nil {
			log.Warn().Err(err).Msg("Legacy home migration failed")
		} else if moved {
			fmt.Fprintf(cmd.ErrOrStderr(), "Migrated ~/%s to %s\n", branding.LegacyHomeDir(), l.Root)
		}

		if err := config.Load(l.ConfigPath()); err != nil {
			log.Warn().Err(err).Msg("Ignoring unreadable config file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render("Error: ")+err.Error())
	}
	return err
}
