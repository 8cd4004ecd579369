package cli

import (
	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/update"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall ID...",
		Short: "Uninstall plugins",
		Long:  "Stop and delete one or more installed plugins through the plugin manager.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginOp(cmd, args, uninstallOp)
		},
	}

	return cmd
}

func uninstallOp(cmd *cobra.Command, um *update.Manager, id, ver string) (bool, error) {
	if ver != "" {
		return false, errors.Wrapf(errors.ErrInvalidPluginRef, "uninstall takes a plugin id, got %s@%s", id, ver)
	}
	return um.UninstallPlugin(cmd.Context(), id)
}
