//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pf4j/pf4j-update/pkg/config"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
)

// writeTempConfig writes a config with a single repository rooted at repoURL.
func writeTempConfig(t *testing.T, root, repoURL, hostVersion string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Settings.PluginsDir = filepath.Join(root, "plugins")
	cfg.Settings.StateDir = filepath.Join(root, "state")
	cfg.Settings.HostVersion = hostVersion
	require.NoError(t, cfg.AddRepository("local", repoURL, ""))

	path := filepath.Join(root, "config.yaml")
	require.NoError(t, cfg.SaveConfig(path))
	return path
}

// runCLI executes the root command and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func installedPlugins(t *testing.T, cfgPath string) []lifecycle.Plugin {
	t.Helper()
	out, err := runCLI(t, "--config", cfgPath, "-o", "json", "installed")
	require.NoError(t, err)
	var plugins []lifecycle.Plugin
	require.NoError(t, json.Unmarshal([]byte(out), &plugins), out)
	return plugins
}
