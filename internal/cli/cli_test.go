package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
	"github.com/pf4j/pf4j-update/pkg/repository"
)

func TestParsePluginRef(t *testing.T) {
	tests := []struct {
		arg     string
		id, ver string
		wantErr bool
	}{
		{arg: "hello-plugin", id: "hello-plugin"},
		{arg: "hello-plugin@1.2.0", id: "hello-plugin", ver: "1.2.0"},
		{arg: " spaced@2.0.0 ", id: "spaced", ver: "2.0.0"},
		{arg: "", wantErr: true},
		{arg: "@1.0.0", wantErr: true},
		{arg: "hello-plugin@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			id, ver, err := ParsePluginRef(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidPluginRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.ver, ver)
		})
	}
}

func TestRenderPlugins(t *testing.T) {
	views := []pluginView{
		{ID: "hello-plugin", Latest: "2.0.0", Installed: "1.0.0", Repository: "main", Description: "Says hello"},
		{ID: "welcome-plugin", Latest: "1.0.0", Repository: "alt"},
	}

	var buf bytes.Buffer
	require.NoError(t, renderPlugins(&buf, "table", views))
	assert.Contains(t, buf.String(), "hello-plugin")
	assert.Contains(t, buf.String(), "Says hello")

	buf.Reset()
	require.NoError(t, renderPlugins(&buf, "json", views))
	var decoded []pluginView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, views, decoded)

	buf.Reset()
	require.NoError(t, renderPlugins(&buf, "yaml", views))
	assert.Contains(t, buf.String(), "id: welcome-plugin")
	assert.NotContains(t, buf.String(), "installed: \"\"")

	assert.ErrorIs(t, renderPlugins(&buf, "xml", views), errors.ErrInvalidOutputFormat)
}

func TestRenderInstalledAndRepositories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderInstalled(&buf, "table", []*lifecycle.Plugin{
		{ID: "hello-plugin", Version: "1.0.0", State: lifecycle.StateStarted, Path: "/plugins/hello-plugin-1.0.0.zip"},
	}))
	assert.Contains(t, buf.String(), "started")

	n := 3
	buf.Reset()
	require.NoError(t, renderRepositories(&buf, "table", []repositoryView{
		{Entry: repository.Entry{ID: "main", URL: "https://example.com/plugins/"}, Plugins: &n},
	}))
	assert.Contains(t, buf.String(), repository.DefaultPluginsJSONFileName)
	assert.Contains(t, buf.String(), "3")

	buf.Reset()
	require.NoError(t, renderRepositories(&buf, "json", []repositoryView{
		{Entry: repository.Entry{ID: "main", URL: "https://example.com/plugins/"}},
	}))
	assert.JSONEq(t, `[{"id":"main","url":"https://example.com/plugins/"}]`, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
