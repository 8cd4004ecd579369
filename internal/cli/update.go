package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/update"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "update [ID[@VERSION]...]",
		Short: "Update installed plugins",
		Long: `Update one or more installed plugins to their newest compatible release.

Use --all to update every installed plugin that has an update. The installed plugin
is only removed after the new artifact was downloaded and verified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Update all installed plugins that have updates")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string, all bool) error {
	if !all && len(args) == 0 {
		return fmt.Errorf("no plugins specified and --all flag not used: %w", errors.ErrNoPluginsSpecified)
	}
	if all {
		if len(args) > 0 {
			return fmt.Errorf("--all cannot be combined with plugin arguments")
		}
		return runUpdateAll(cmd)
	}
	return runPluginOp(cmd, args, updateOp)
}

// updateOp reports an installed plugin without a newer release as done.
func updateOp(cmd *cobra.Command, um *update.Manager, id, ver string) (bool, error) {
	if _, installed := um.LifecycleManager().InstalledPlugin(id); installed && ver == "" && !um.HasPluginUpdate(cmd.Context(), id) {
		logger.Info("Plugin is up to date", logger.Fields{"plugin": id})
		return true, nil
	}
	return um.UpdatePlugin(cmd.Context(), id, ver)
}

func runUpdateAll(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, noHooks)
	if err != nil {
		return err
	}

	updates := um.Updates(cmd.Context())
	if len(updates) == 0 {
		logger.Success("All plugins are up to date")
		return nil
	}

	ids := make([]string, 0, len(updates))
	for _, p := range updates {
		ids = append(ids, p.ID)
	}
	return runPluginOp(cmd, ids, updateOp)
}
