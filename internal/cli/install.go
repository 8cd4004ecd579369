package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/update"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install ID[@VERSION]...",
		Short: "Install plugins",
		Long: `Install one or more plugins from the configured repositories.

Without a version the newest release compatible with the host version is installed.
Every artifact is verified before it is placed in the plugins directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginOp(cmd, args, installOp)
		},
	}

	return cmd
}

type pluginOp func(cmd *cobra.Command, um *update.Manager, id, ver string) (bool, error)

func installOp(cmd *cobra.Command, um *update.Manager, id, ver string) (bool, error) {
	return um.InstallPlugin(cmd.Context(), id, ver)
}

// runPluginOp applies op to every ID[@VERSION] argument and stops at the
// first error. Plugins that end up not started are reported and counted.
func runPluginOp(cmd *cobra.Command, args []string, op pluginOp) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, progressHooks(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range args {
		id, ver, err := ParsePluginRef(arg)
		if err != nil {
			return err
		}
		ok, err := op(cmd, um, id, ver)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if !ok {
			failed++
			logger.Warn("Plugin was not activated", logger.Fields{"plugin": id})
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d plugins were not activated", failed, len(args))
	}
	return nil
}
