package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
	"github.com/pf4j/pf4j-update/pkg/repository"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, 4, cfg.Settings.MaxConcurrentFetches)
	assert.Equal(t, "table", cfg.Settings.OutputFormat)
	assert.Equal(t, "semver", cfg.Settings.VersionScheme)
	assert.Equal(t, filepath.Join("/custom/data", "pf4j-update", "plugins"), cfg.Settings.PluginsDir)
	assert.Equal(t, filepath.Join("/custom/data", "pf4j-update", "installed.json"), cfg.GetDatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  host_version: 1.2.0
  version_scheme: hashicorp
  http_timeout: 5s
  log_level: debug
repositories:
  - id: main
    url: https://example.com/plugins/
  - id: alt
    url: https://example.com/alt/
    plugins_json_file_name: alt.json`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "main", cfg.Repositories[0].ID)
	assert.Equal(t, "alt.json", cfg.Repositories[1].PluginsJSONFileName)
	assert.Equal(t, "1.2.0", cfg.Settings.HostVersion)
	assert.Equal(t, "hashicorp", cfg.Settings.VersionScheme)
	assert.Equal(t, 5*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	// Defaults fill the rest
	assert.Equal(t, DefaultMaxConcurrentFetches, cfg.Settings.MaxConcurrentFetches)
	assert.NotEmpty(t, cfg.Settings.UserAgent)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Repositories)

	_, err = LoadConfig("")
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Errors(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("settings: [unclosed"))
	assert.ErrorIs(t, err, pkgerrors.ErrConfigParse)

	_, err = LoadConfigFromReader(strings.NewReader("settings:\n  output_format: xml\n"))
	assert.ErrorIs(t, err, pkgerrors.ErrConfigValidation)
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	require.NoError(t, cfg.AddRepository("main", "https://example.com/plugins/", ""))

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: main")
	assert.NotContains(t, string(data), "plugins_json_file_name")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Settings.LogLevel)
	assert.Equal(t, cfg.Repositories, loaded.Repositories)
}

func TestValidateConfig(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{name: "valid config", config: DefaultConfig()},
		{name: "nil config", config: nil, wantErr: pkgerrors.ErrConfigValidation},
		{
			name:    "empty repository id",
			config:  valid(func(c *Config) { c.Repositories = []repository.Entry{{URL: "http://x"}} }),
			wantErr: pkgerrors.ErrEmptyRepositoryID,
		},
		{
			name:    "empty repository url",
			config:  valid(func(c *Config) { c.Repositories = []repository.Entry{{ID: "x"}} }),
			wantErr: pkgerrors.ErrRepositoryURLEmpty,
		},
		{
			name: "duplicate repository id",
			config: valid(func(c *Config) {
				c.Repositories = []repository.Entry{{ID: "x", URL: "http://a"}, {ID: "x", URL: "http://b"}}
			}),
			wantErr: pkgerrors.ErrAlreadyExists,
		},
		{
			name:    "negative timeout",
			config:  valid(func(c *Config) { c.Settings.HTTPTimeout = -time.Second }),
			wantErr: pkgerrors.ErrHTTPTimeoutNegative,
		},
		{
			name:    "zero concurrency",
			config:  valid(func(c *Config) { c.Settings.MaxConcurrentFetches = 0 }),
			wantErr: pkgerrors.ErrMaxConcurrent,
		},
		{
			name:    "unknown log level",
			config:  valid(func(c *Config) { c.Settings.LogLevel = "trace" }),
			wantErr: pkgerrors.ErrInvalidLogLevel,
		},
		{
			name:    "unknown version scheme",
			config:  valid(func(c *Config) { c.Settings.VersionScheme = "calver" }),
			wantErr: pkgerrors.ErrInvalidScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepositoryManagement(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.AddRepository("main", "https://example.com/repo", ""))
	assert.Len(t, cfg.Repositories, 1)

	err := cfg.AddRepository("main", "https://example.com/another", "")
	assert.ErrorIs(t, err, pkgerrors.ErrAlreadyExists)
	assert.ErrorIs(t, cfg.AddRepository("", "https://example.com", ""), pkgerrors.ErrEmptyRepositoryID)
	assert.ErrorIs(t, cfg.AddRepository("x", "", ""), pkgerrors.ErrRepositoryURLEmpty)

	repo := cfg.GetRepository("main")
	require.NotNil(t, repo)
	assert.Equal(t, "https://example.com/repo", repo.URL)
	assert.Nil(t, cfg.GetRepository("other"))

	assert.True(t, cfg.RemoveRepository("main"))
	assert.Empty(t, cfg.Repositories)
	assert.False(t, cfg.RemoveRepository("main"))
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetValue("host_version", "2.1.0"))
	require.NoError(t, cfg.SetValue("http_timeout", "90s"))
	require.NoError(t, cfg.SetValue("max_concurrent_fetches", "8"))
	assert.Equal(t, "2.1.0", cfg.Settings.HostVersion)
	assert.Equal(t, 90*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, 8, cfg.Settings.MaxConcurrentFetches)

	assert.Error(t, cfg.SetValue("http_timeout", "soon"))
	assert.Error(t, cfg.SetValue("max_concurrent_fetches", "many"))
	assert.Error(t, cfg.SetValue("color", "true"))

	v, err := cfg.GetValue("http_timeout")
	require.NoError(t, err)
	assert.Equal(t, "1m30s", v)
	_, err = cfg.GetValue("color")
	assert.Error(t, err)

	m := cfg.ToMap()
	assert.Equal(t, "2.1.0", m["host_version"])
	assert.Equal(t, "8", m["max_concurrent_fetches"])
	assert.Contains(t, m, "plugins_dir")
}
