// Package testutil builds plugin repositories on disk and serves them over
// HTTP for tests.
package testutil

import (
	"archive/zip"
	_ "crypto/sha512"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"
)

// PluginsJSON is the metadata file written by BuildRepoDir.
const PluginsJSON = "plugins.json"

// Release describes one artifact of a test repository.
type Release struct {
	ID       string
	Version  string
	Requires string
	// BadChecksum publishes a digest that does not match the artifact.
	BadChecksum bool
	// NoChecksum omits sha512sum.
	NoChecksum bool
}

// ServeDir serves dir over HTTP until the test ends.
func ServeDir(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(srv.Close)
	return srv
}

// WriteZip creates a zip archive at path holding files.
func WriteZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// WritePluginZip creates a plugin archive with a plugin.properties descriptor.
func WritePluginZip(t *testing.T, path, id, version string) {
	t.Helper()
	WriteZip(t, path, map[string]string{
		"plugin.properties":    fmt.Sprintf("plugin.id=%s\nplugin.version=%s\nplugin.provider=Test\n", id, version),
		"classes/Plugin.class": id + version,
	})
}

// BuildRepoDir writes one plugin archive per release under root/repo and a
// plugins.json with relative URLs and inline sha512 digests. It returns the
// repository directory.
func BuildRepoDir(t *testing.T, root string, releases []Release) string {
	t.Helper()
	repoDir := filepath.Join(root, "repo")

	type release struct {
		Version   string `json:"version"`
		Date      string `json:"date"`
		Requires  string `json:"requires,omitempty"`
		URL       string `json:"url"`
		Sha512Sum string `json:"sha512sum,omitempty"`
	}
	type plugin struct {
		ID       string    `json:"id"`
		Releases []release `json:"releases"`
	}

	var doc []*plugin
	byID := map[string]*plugin{}
	for _, r := range releases {
		rel := fmt.Sprintf("%s/%s/%s-%s.zip", r.ID, r.Version, r.ID, r.Version)
		path := filepath.Join(repoDir, filepath.FromSlash(rel))
		WritePluginZip(t, path, r.ID, r.Version)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		sum := digest.SHA512.FromBytes(data).Encoded()
		switch {
		case r.NoChecksum:
			sum = ""
		case r.BadChecksum:
			sum = fmt.Sprintf("%0128d", 0)
		}

		p, ok := byID[r.ID]
		if !ok {
			p = &plugin{ID: r.ID}
			byID[r.ID] = p
			doc = append(doc, p)
		}
		p.Releases = append(p.Releases, release{
			Version:   r.Version,
			Date:      "2017-01-31",
			Requires:  r.Requires,
			URL:       rel,
			Sha512Sum: sum,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, PluginsJSON), data, 0o644))
	return repoDir
}
