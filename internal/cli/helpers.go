package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/config"
	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/lifecycle/dirmanager"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/update"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// noHooks is used by read-only commands.
var noHooks update.Hooks

// loadConfig reads the configuration, applies the global flags and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	initLogger(cfg)
	return cfg, nil
}

// loadUpdateManager wires the directory lifecycle manager, the repositories and
// the downloader described by cfg.
func loadUpdateManager(cfg *config.Config, hooks update.Hooks) (*update.Manager, error) {
	pm, err := dirmanager.New(cfg.Settings.PluginsDir, cfg.Settings.StateDir, cfg.Settings.HostVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin state: %w", err)
	}

	oracle, err := version.NewOracle(version.Scheme(cfg.Settings.VersionScheme))
	if err != nil {
		return nil, err
	}

	dl := download.NewSimpleDownloader(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	repoOpts := []repository.Option{repository.WithOpener(dl)}

	repos, err := repository.FromEntries(cfg.Repositories, repoOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}

	return update.New(pm, update.Options{
		Repositories:      repos,
		RepositoriesFile:  cfg.Settings.RepositoriesFile,
		RepositoryOptions: repoOpts,
		Oracle:            oracle,
		HostVersion:       cfg.Settings.HostVersion,
		Downloader:        dl,
		Concurrency:       cfg.Settings.MaxConcurrentFetches,
		Hooks:             hooks,
	})
}

// progressHooks prints every update event as one line.
func progressHooks(w io.Writer) update.Hooks {
	return update.Hooks{OnEvent: func(e update.Event) {
		if e.Msg != "" {
			_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", e.Phase, e.PluginID, e.Msg)
		} else {
			_, _ = fmt.Fprintf(w, "%s: %s\n", e.Phase, e.PluginID)
		}
	}}
}

// ParsePluginRef splits "id" or "id@version".
func ParsePluginRef(arg string) (id, ver string, err error) {
	id, ver, found := strings.Cut(strings.TrimSpace(arg), "@")
	if id == "" || (found && ver == "") {
		return "", "", fmt.Errorf("%w: %q, expected ID or ID@VERSION", errors.ErrInvalidPluginRef, arg)
	}
	return id, ver, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path makes LoadConfig/SaveConfig report a descriptive error
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err.Error()})
		return ""
	}
	return defaultPath
}
