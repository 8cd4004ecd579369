package cli

import (
	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/internal/logger"
)

// NewRefreshCmd creates the refresh command.
func NewRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-read repository metadata",
		Long: `Discard cached repository metadata, re-read the repositories file when one
is configured and fetch every plugins.json again.`,
		RunE: runRefresh,
	}

	return cmd
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, noHooks)
	if err != nil {
		return err
	}

	logger.Debug("Refreshing repositories...")
	if err := um.Refresh(cmd.Context()); err != nil {
		return err
	}

	views := repositoryViews(cmd, um)
	if err := renderRepositories(cmd.OutOrStdout(), cfg.Settings.OutputFormat, views); err != nil {
		return err
	}
	logger.Success("Repositories refreshed", logger.Fields{"count": len(views)})
	return nil
}
