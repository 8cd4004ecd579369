// Package config loads and saves the pf4j-update client configuration: the
// plugin and state directories, the host version, network settings and the
// list of update repositories.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `json:"settings" yaml:"settings"`

	// Update repositories, in precedence order
	Repositories []repository.Entry `json:"repositories" yaml:"repositories"`
}

// Settings represents general application settings.
type Settings struct {
	PluginsDir string `json:"plugins_dir,omitempty" yaml:"plugins_dir,omitempty"`
	StateDir   string `json:"state_dir,omitempty" yaml:"state_dir,omitempty"`

	// HostVersion is matched against release requires; empty defers to the
	// lifecycle manager.
	HostVersion      string `json:"host_version,omitempty" yaml:"host_version,omitempty"`
	RepositoriesFile string `json:"repositories_file,omitempty" yaml:"repositories_file,omitempty"`
	VersionScheme    string `json:"version_scheme" yaml:"version_scheme"`

	// Network settings
	HTTPTimeout          time.Duration `json:"http_timeout" yaml:"http_timeout"`
	UserAgent            string        `json:"user_agent" yaml:"user_agent"`
	MaxConcurrentFetches int           `json:"max_concurrent_fetches" yaml:"max_concurrent_fetches"`

	// Output settings
	OutputFormat string `json:"output_format" yaml:"output_format"` // table, json, yaml
	LogLevel     string `json:"log_level" yaml:"log_level"`         // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrentFetches bounds parallel repository reads.
	DefaultMaxConcurrentFetches = 4

	// DefaultOutputFormat is used by listing commands.
	DefaultOutputFormat = "table"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

var (
	validFormats = []string{"table", "json", "yaml"}
	validLevels  = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		// Fallback to current directory if we can't determine the data dir
		dataDir = "."
	}

	return &Config{
		Repositories: []repository.Entry{},
		Settings: Settings{
			PluginsDir:           filepath.Join(dataDir, "plugins"),
			StateDir:             dataDir,
			VersionScheme:        string(version.SchemeSemver),
			HTTPTimeout:          DefaultHTTPTimeout,
			UserAgent:            download.DefaultUserAgent,
			MaxConcurrentFetches: DefaultMaxConcurrentFetches,
			OutputFormat:         DefaultOutputFormat,
			LogLevel:             "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig atomically writes the configuration to path.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateRepositories(c.Repositories); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateRepositories(repos []repository.Entry) error {
	ids := make(map[string]bool)
	for i, repo := range repos {
		if repo.ID == "" {
			return errors.ErrEmptyRepositoryIDWithIndex(i)
		}
		if repo.URL == "" {
			return errors.ErrRepositoryURLEmptyWithID(repo.ID)
		}
		if ids[repo.ID] {
			return errors.ErrRepositoryExists(repo.ID)
		}
		ids[repo.ID] = true
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.MaxConcurrentFetches < 1 {
		return errors.ErrMaxConcurrent
	}
	if !slices.Contains(validFormats, s.OutputFormat) {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	if !slices.Contains(validLevels, strings.ToLower(s.LogLevel)) {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	if _, err := version.NewOracle(version.Scheme(s.VersionScheme)); err != nil {
		return err
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// AddRepository adds a repository to the configuration.
// Returns an error if a repository with the same id already exists.
func (c *Config) AddRepository(id, url, pluginsJSONFileName string) error {
	if id == "" {
		return errors.ErrEmptyRepositoryID
	}
	if url == "" {
		return errors.ErrRepositoryURLEmptyWithID(id)
	}
	if c.GetRepository(id) != nil {
		return errors.ErrRepositoryExists(id)
	}

	c.Repositories = append(c.Repositories, repository.Entry{
		ID:                  id,
		URL:                 url,
		PluginsJSONFileName: pluginsJSONFileName,
	})
	return nil
}

// RemoveRepository removes a repository from the configuration.
func (c *Config) RemoveRepository(id string) bool {
	for i, repo := range c.Repositories {
		if repo.ID == id {
			c.Repositories = slices.Delete(c.Repositories, i, i+1)
			return true
		}
	}
	return false
}

// GetRepository gets a repository configuration by id.
func (c *Config) GetRepository(id string) *repository.Entry {
	for i := range c.Repositories {
		if c.Repositories[i].ID == id {
			return &c.Repositories[i]
		}
	}
	return nil
}

// GetDatabasePath returns the path of the installed plugins state file.
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Settings.StateDir, "installed.json")
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.PluginsDir == "" {
		c.Settings.PluginsDir = defaults.Settings.PluginsDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.VersionScheme == "" {
		c.Settings.VersionScheme = defaults.Settings.VersionScheme
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.MaxConcurrentFetches == 0 {
		c.Settings.MaxConcurrentFetches = defaults.Settings.MaxConcurrentFetches
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Repositories == nil {
		c.Repositories = []repository.Entry{}
	}
}
