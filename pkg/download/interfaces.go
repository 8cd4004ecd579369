//go:generate mockgen -destination=./mocks/download.go . Downloader,Opener

// Package download fetches plugin artifacts and repository metadata from
// file and HTTP(S) locations.
package download

import (
	"context"
	"io"
	"net/url"
)

// Downloader copies a remote resource to a fresh local file.
type Downloader interface {
	// Download returns the path of a file inside a private temporary
	// directory. The file name is the last path segment of u. The caller
	// owns the file and its directory. The source is never modified.
	Download(ctx context.Context, u *url.URL) (string, error)
}

// Opener streams a remote resource without staging it on disk.
type Opener interface {
	Open(ctx context.Context, u *url.URL) (io.ReadCloser, error)
}
