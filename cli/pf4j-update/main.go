package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/internal/cli"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pf4j-update",
		Short: "Install and update plugins from update repositories",
		Long: `pf4j-update keeps a directory of plugins up to date with:
- Repositories: plugins.json documents served over http(s) or from disk
- Queries: available plugins, updates, compatible releases
- Operations: verified install, update and uninstall`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.OutputFormat = &outputFormat

	cmd.AddCommand(
		cli.NewRepoCmd(),
		cli.NewListCmd(),
		cli.NewAvailableCmd(),
		cli.NewUpdatesCmd(),
		cli.NewInstalledCmd(),
		cli.NewInstallCmd(),
		cli.NewUpdateCmd(),
		cli.NewUninstallCmd(),
		cli.NewRefreshCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
