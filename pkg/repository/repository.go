//go:generate mockgen -destination=./mocks/repository.go . Repository

// Package repository reads plugin metadata from update repositories.
package repository

import (
	"context"
	"net/url"

	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/model"
	"github.com/pf4j/pf4j-update/pkg/verify"
)

// DefaultPluginsJSONFileName is the metadata document fetched from a repository base URL.
const DefaultPluginsJSONFileName = "plugins.json"

// Repository is one source of plugin metadata.
type Repository interface {
	// ID is unique within an update manager.
	ID() string
	// URL is the base location release URLs are resolved against.
	URL() *url.URL
	// Plugins returns the plugins keyed by id. The metadata is fetched on
	// first use and cached until Refresh. A repository that cannot be read
	// yields an empty map.
	Plugins(ctx context.Context) map[string]*model.PluginInfo
	// Plugin returns one plugin or nil.
	Plugin(ctx context.Context, id string) *model.PluginInfo
	// Refresh drops the cached metadata.
	Refresh()
	// FileDownloader overrides the manager's downloader when non-nil.
	FileDownloader() download.Downloader
	// FileVerifier overrides the manager's verifier chain when non-nil.
	FileVerifier() verify.Verifier
}
