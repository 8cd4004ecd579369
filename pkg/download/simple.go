package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pf4j/pf4j-update/internal/logger"
	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
)

// DefaultUserAgent is sent with every HTTP request unless overridden.
const DefaultUserAgent = "pf4j-update/1.0"

// tempDirPattern names the private directory each download lands in.
const tempDirPattern = "pf4j-update-*"

// SimpleDownloader handles file, http and https URLs. A URL without a scheme
// is treated as a local path.
type SimpleDownloader struct {
	client    *http.Client
	userAgent string
}

// NewSimpleDownloader creates a downloader with the given HTTP timeout and user agent.
func NewSimpleDownloader(timeout time.Duration, userAgent string) *SimpleDownloader {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &SimpleDownloader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Download implements Downloader.
func (d *SimpleDownloader) Download(ctx context.Context, u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("nil URL: %w", pkgerrors.ErrDownloadFailed)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case isLocal(u):
		return d.copyLocal(localPath(u))
	case scheme == "http" || scheme == "https":
		return d.fetchHTTP(ctx, u)
	default:
		return "", fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedScheme, u.Scheme)
	}
}

// Open implements Opener.
func (d *SimpleDownloader) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if u == nil {
		return nil, fmt.Errorf("nil URL: %w", pkgerrors.ErrDownloadFailed)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case isLocal(u):
		f, err := os.Open(localPath(u))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
		}
		return f, nil
	case scheme == "http" || scheme == "https":
		resp, err := d.doRequest(ctx, u)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedScheme, u.Scheme)
	}
}

func (d *SimpleDownloader) copyLocal(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file: %w", src, pkgerrors.ErrDownloadFailed)
	}

	dst, err := tempTarget(filepath.Base(src))
	if err != nil {
		return "", err
	}
	if err := fsutil.CopyFile(src, dst); err != nil {
		RemoveTemp(dst)
		return "", pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}

	logger.Debug("Copied local file", logger.Fields{"source": src, "path": dst})
	return dst, nil
}

func (d *SimpleDownloader) fetchHTTP(ctx context.Context, u *url.URL) (string, error) {
	resp, err := d.doRequest(ctx, u)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	dst, err := tempTarget(path.Base(u.Path))
	if err != nil {
		return "", err
	}
	if err := writeBody(resp.Body, dst); err != nil {
		RemoveTemp(dst)
		return "", err
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			if err := os.Chtimes(dst, t, t); err != nil {
				logger.Warn("Cannot set modification time", logger.Fields{"path": dst, "error": err.Error()})
			}
		}
	}

	logger.Debug("Downloaded file", logger.Fields{"url": u.String(), "path": dst})
	return dst, nil
}

func (d *SimpleDownloader) doRequest(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	req.Header.Set("User-Agent", d.userAgent)
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s: %w", resp.StatusCode, u, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

func writeBody(body io.Reader, dst string) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fsutil.FileModeDefault)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	if err := f.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	return nil
}

// tempTarget creates a private directory and returns the path name would have inside it.
func tempTarget(name string) (string, error) {
	if name == "" || name == "." || name == "/" {
		name = "download"
	}
	dir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.ErrDownloadFailed, err.Error())
	}
	return filepath.Join(dir, name), nil
}

// RemoveTemp deletes a file returned by Download together with the private
// directory it was placed in.
func RemoveTemp(p string) {
	if p == "" {
		return
	}
	_ = os.Remove(p)
	ReleaseTempDir(p)
}

// ReleaseTempDir removes the private directory of a downloaded file once the
// file has been moved out of it. Directories not created by Download are kept.
func ReleaseTempDir(p string) {
	dir := filepath.Dir(p)
	if strings.HasPrefix(filepath.Base(dir), strings.TrimSuffix(tempDirPattern, "*")) {
		_ = os.Remove(dir)
	}
}

func isLocal(u *url.URL) bool {
	switch strings.ToLower(u.Scheme) {
	case "", "file":
		return true
	}
	// Windows drive letters parse as one letter schemes.
	return len(u.Scheme) == 1
}

func localPath(u *url.URL) string {
	if len(u.Scheme) == 1 {
		return u.Scheme + ":" + u.Opaque + u.Path
	}
	if u.Opaque != "" {
		return u.Opaque
	}
	return filepath.FromSlash(u.Path)
}
