package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/update"
)

// NewRepoCmd creates the repo command with subcommands.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories",
		Long:  "Add, remove and list plugin update repositories",
	}

	cmd.AddCommand(
		newRepoAddCmd(),
		newRepoRemoveCmd(),
		newRepoListCmd(),
	)

	return cmd
}

// Number of arguments expected by the add command.
const repoAddArgs = 2

func newRepoAddCmd() *cobra.Command {
	var pluginsJSON string

	cmd := &cobra.Command{
		Use:   "add ID URL",
		Short: "Add a repository",
		Long: `Add a plugin repository. URL is the base location of the plugins.json
document and may be an http(s) or file URL, or a local directory.`,
		Args: cobra.ExactArgs(repoAddArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoAdd(args[0], args[1], pluginsJSON)
		},
	}

	cmd.Flags().StringVar(&pluginsJSON, "plugins-json", "", "Metadata file name (default: plugins.json)")

	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoRemove(args[0])
		},
	}

	return cmd
}

func newRepoListCmd() *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured repositories",
		Long:  "List all configured repositories, optionally with the number of plugins each one offers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepoList(cmd, count)
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "Fetch metadata and show the number of plugins")

	return cmd
}

func runRepoAdd(id, rawURL, pluginsJSON string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Normalise local directories to file URLs before storing them
	r, err := repository.NewDefaultRepositoryFromString(id, rawURL, repository.WithPluginsJSONFileName(pluginsJSON))
	if err != nil {
		return fmt.Errorf("invalid repository url %q: %w", rawURL, err)
	}
	entry := repository.ToEntry(r)

	if err := cfg.AddRepository(entry.ID, entry.URL, entry.PluginsJSONFileName); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository added", logger.Fields{"id": entry.ID, "url": entry.URL})
	return nil
}

func runRepoRemove(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !cfg.RemoveRepository(id) {
		return fmt.Errorf("repository %s: %w", id, errors.ErrNotFound)
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository removed", logger.Fields{"id": id})
	return nil
}

func runRepoList(cmd *cobra.Command, count bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	um, err := loadUpdateManager(cfg, noHooks)
	if err != nil {
		return err
	}

	views := []repositoryView{}
	if count {
		views = repositoryViews(cmd, um)
	} else {
		for _, r := range um.Repositories() {
			views = append(views, repositoryView{Entry: repository.ToEntry(r)})
		}
	}
	return renderRepositories(cmd.OutOrStdout(), cfg.Settings.OutputFormat, views)
}

// repositoryViews describes every repository with its plugin count.
func repositoryViews(cmd *cobra.Command, um *update.Manager) []repositoryView {
	repos := um.Repositories()
	views := make([]repositoryView, 0, len(repos))
	for _, r := range repos {
		n := len(r.Plugins(cmd.Context()))
		views = append(views, repositoryView{Entry: repository.ToEntry(r), Plugins: &n})
	}
	return views
}
