package cli

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/pkg/model"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plugins offered by the repositories",
		Long: `List every plugin known to the configured repositories.

When a plugin id appears in several repositories the later repository wins.
Use --filter to restrict the listing with a glob on the plugin id, e.g. "hello-*".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, filter)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Glob matched against plugin ids")

	return cmd
}

// NewAvailableCmd creates the available command.
func NewAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List plugins that are not installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginQuery(cmd, queryAvailable)
		},
	}
}

// NewUpdatesCmd creates the updates command.
func NewUpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "List installed plugins with a newer compatible release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginQuery(cmd, queryUpdates)
		},
	}
}

// NewInstalledCmd creates the installed command.
func NewInstalledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "installed",
		Short: "List installed plugins",
		Long:  "List the plugins known to the local plugin manager with their version and state.",
		RunE:  runInstalled,
	}
}

type pluginQuery int

const (
	queryAll pluginQuery = iota
	queryAvailable
	queryUpdates
)

func runList(cmd *cobra.Command, filter string) error {
	var g glob.Glob
	if filter != "" {
		var err error
		if g, err = glob.Compile(filter); err != nil {
			return fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}
	return runPluginQueryFiltered(cmd, queryAll, g)
}

func runPluginQuery(cmd *cobra.Command, q pluginQuery) error {
	return runPluginQueryFiltered(cmd, q, nil)
}

func runPluginQueryFiltered(cmd *cobra.Command, q pluginQuery, g glob.Glob) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, noHooks)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var plugins []*model.PluginInfo
	switch q {
	case queryAvailable:
		plugins = um.AvailablePlugins(ctx)
	case queryUpdates:
		plugins = um.Updates(ctx)
	default:
		plugins = um.Plugins(ctx)
	}

	if g != nil {
		matched := plugins[:0]
		for _, p := range plugins {
			if g.Match(p.ID) {
				matched = append(matched, p)
			}
		}
		plugins = matched
	}

	return renderPlugins(cmd.OutOrStdout(), cfg.Settings.OutputFormat, newPluginViews(ctx, um, plugins))
}

func runInstalled(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, noHooks)
	if err != nil {
		return err
	}
	return renderInstalled(cmd.OutOrStdout(), cfg.Settings.OutputFormat, um.LifecycleManager().InstalledPlugins())
}
