package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimpleDownloader(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		userAgent  string
		expectedUA string
	}{
		{name: "default user agent", timeout: time.Second, expectedUA: DefaultUserAgent},
		{name: "custom user agent", timeout: 2 * time.Second, userAgent: "host/2.0", expectedUA: "host/2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewSimpleDownloader(tt.timeout, tt.userAgent)
			require.NotNil(t, d)
			assert.Equal(t, tt.timeout, d.client.Timeout)
			assert.Equal(t, tt.expectedUA, d.userAgent)
		})
	}
}

func TestDownload_LocalFile(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "myfile.zip")
	require.NoError(t, os.WriteFile(src, []byte("Test"), 0o644))

	mtime := time.Date(2016, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	d := NewSimpleDownloader(time.Second, "")

	for name, raw := range map[string]string{
		"file url":  (&url.URL{Scheme: "file", Path: filepath.ToSlash(src)}).String(),
		"bare path": filepath.ToSlash(src),
	} {
		t.Run(name, func(t *testing.T) {
			u, err := url.Parse(raw)
			require.NoError(t, err)

			got, err := d.Download(context.Background(), u)
			require.NoError(t, err)
			t.Cleanup(func() { RemoveTemp(got) })

			assert.Equal(t, "myfile.zip", filepath.Base(got))
			assert.NotEqual(t, srcDir, filepath.Dir(got))

			content, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, "Test", string(content))

			info, err := os.Stat(got)
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(mtime))

			// source is untouched
			_, err = os.Stat(src)
			assert.NoError(t, err)
		})
	}
}

func TestDownload_LocalFileMissing(t *testing.T) {
	d := NewSimpleDownloader(time.Second, "")
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(t.TempDir(), "missing.zip"))}

	_, err := d.Download(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDownloadFailed))
}

func TestDownload_HTTP(t *testing.T) {
	lastModified := time.Date(2017, 5, 20, 14, 30, 0, 0, time.UTC)
	var gotUA string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/plugins/hello-1.0.0.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
		_, _ = w.Write([]byte("zip bytes"))
	}))
	defer server.Close()

	d := NewSimpleDownloader(5*time.Second, "")

	u, err := url.Parse(server.URL + "/plugins/hello-1.0.0.zip")
	require.NoError(t, err)

	got, err := d.Download(context.Background(), u)
	require.NoError(t, err)
	t.Cleanup(func() { RemoveTemp(got) })

	assert.Equal(t, "hello-1.0.0.zip", filepath.Base(got))
	assert.Equal(t, DefaultUserAgent, gotUA)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(content))

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(lastModified))

	missing, err := url.Parse(server.URL + "/plugins/nope.zip")
	require.NoError(t, err)
	_, err = d.Download(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDownloadFailed))
	assert.Contains(t, err.Error(), "unexpected status code 404")
}

func TestDownload_UnsupportedScheme(t *testing.T) {
	d := NewSimpleDownloader(time.Second, "")

	for _, raw := range []string{"ftp://example.com/a.zip", "s3://bucket/a.zip"} {
		t.Run(raw, func(t *testing.T) {
			u, err := url.Parse(raw)
			require.NoError(t, err)

			_, err = d.Download(context.Background(), u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, pkgerrors.ErrUnsupportedScheme))
			assert.True(t, errors.Is(err, pkgerrors.ErrDownloadFailed))

			_, err = d.Open(context.Background(), u)
			assert.True(t, errors.Is(err, pkgerrors.ErrUnsupportedScheme))
		})
	}
}

func TestOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	local := filepath.Join(t.TempDir(), "plugins.json")
	require.NoError(t, os.WriteFile(local, []byte(`[{"id":"a"}]`), 0o644))

	d := NewSimpleDownloader(time.Second, "")

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "http", raw: server.URL + "/plugins.json", expected: `[]`},
		{name: "file", raw: (&url.URL{Scheme: "file", Path: filepath.ToSlash(local)}).String(), expected: `[{"id":"a"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)

			rc, err := d.Open(context.Background(), u)
			require.NoError(t, err)
			defer func() { _ = rc.Close() }()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestDownload_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u, err := url.Parse(server.URL + "/a.zip")
	require.NoError(t, err)

	_, err = NewSimpleDownloader(time.Second, "").Download(ctx, u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDownloadFailed))
}
