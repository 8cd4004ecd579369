package repository

import (
	"context"
	"encoding/json"
	"maps"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/model"
	"github.com/pf4j/pf4j-update/pkg/verify"
)

// DefaultRepository serves a plugins.json document found under a base URL.
type DefaultRepository struct {
	id                  string
	url                 *url.URL
	pluginsJSONFileName string

	opener     download.Opener
	downloader download.Downloader
	verifier   verify.Verifier

	mu      sync.Mutex
	plugins map[string]*model.PluginInfo
}

// Option configures a DefaultRepository.
type Option func(*DefaultRepository)

// WithPluginsJSONFileName overrides DefaultPluginsJSONFileName.
func WithPluginsJSONFileName(name string) Option {
	return func(r *DefaultRepository) {
		if name != "" {
			r.pluginsJSONFileName = name
		}
	}
}

// WithOpener sets the transport used to fetch the metadata document.
func WithOpener(o download.Opener) Option {
	return func(r *DefaultRepository) { r.opener = o }
}

// WithDownloader makes the repository supply its own artifact downloader.
func WithDownloader(d download.Downloader) Option {
	return func(r *DefaultRepository) { r.downloader = d }
}

// WithVerifier makes the repository supply its own verifier chain.
func WithVerifier(v verify.Verifier) Option {
	return func(r *DefaultRepository) { r.verifier = v }
}

// NewDefaultRepository creates a repository rooted at u. The base URL is
// treated as a directory.
func NewDefaultRepository(id string, u *url.URL, opts ...Option) *DefaultRepository {
	base := *u
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
		if base.RawPath != "" {
			base.RawPath += "/"
		}
	}

	r := &DefaultRepository{
		id:                  id,
		url:                 &base,
		pluginsJSONFileName: DefaultPluginsJSONFileName,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.opener == nil {
		r.opener = download.NewSimpleDownloader(0, "")
	}
	return r
}

// NewDefaultRepositoryFromString parses rawURL and calls NewDefaultRepository.
func NewDefaultRepositoryFromString(id, rawURL string, opts ...Option) (*DefaultRepository, error) {
	u, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewDefaultRepository(id, u, opts...), nil
}

// ID implements Repository.
func (r *DefaultRepository) ID() string { return r.id }

// URL implements Repository.
func (r *DefaultRepository) URL() *url.URL { return r.url }

// PluginsJSONFileName returns the metadata document name.
func (r *DefaultRepository) PluginsJSONFileName() string { return r.pluginsJSONFileName }

// FileDownloader implements Repository.
func (r *DefaultRepository) FileDownloader() download.Downloader { return r.downloader }

// FileVerifier implements Repository.
func (r *DefaultRepository) FileVerifier() verify.Verifier { return r.verifier }

// Plugins implements Repository.
func (r *DefaultRepository) Plugins(ctx context.Context) map[string]*model.PluginInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugins == nil {
		r.plugins = r.load(ctx)
	}
	return maps.Clone(r.plugins)
}

// Plugin implements Repository.
func (r *DefaultRepository) Plugin(ctx context.Context, id string) *model.PluginInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugins == nil {
		r.plugins = r.load(ctx)
	}
	return r.plugins[id]
}

// Refresh implements Repository.
func (r *DefaultRepository) Refresh() {
	r.mu.Lock()
	r.plugins = nil
	r.mu.Unlock()
}

// load fetches and parses the metadata document. Failures are logged and
// produce an empty, non-nil map.
func (r *DefaultRepository) load(ctx context.Context) map[string]*model.PluginInfo {
	plugins := make(map[string]*model.PluginInfo)

	ref, err := url.Parse(r.pluginsJSONFileName)
	if err != nil {
		logger.Warn("Invalid plugins file name", logger.Fields{"repository": r.id, "name": r.pluginsJSONFileName, "error": err.Error()})
		return plugins
	}
	metaURL := r.url.ResolveReference(ref)

	logger.Debug("Reading plugins", logger.Fields{"repository": r.id, "url": metaURL.String()})
	rc, err := r.opener.Open(ctx, metaURL)
	if err != nil {
		logger.Warn("Cannot read repository metadata", logger.Fields{"repository": r.id, "url": metaURL.String(), "error": err.Error()})
		return plugins
	}
	defer func() { _ = rc.Close() }()

	var items []*model.PluginInfo
	if err := json.NewDecoder(rc).Decode(&items); err != nil {
		logger.Warn("Cannot parse repository metadata", logger.Fields{"repository": r.id, "url": metaURL.String(), "error": err.Error()})
		return plugins
	}

	for _, p := range items {
		if p == nil || p.ID == "" {
			logger.Warn("Skipping plugin without id", logger.Fields{"repository": r.id})
			continue
		}
		if _, dup := plugins[p.ID]; dup {
			logger.Warn("Duplicate plugin id, replacing the earlier entry", logger.Fields{"repository": r.id, "plugin": p.ID})
		}
		p.SetRepositoryID(r.id)
		p.Releases = r.resolveReleases(p)
		plugins[p.ID] = p
	}

	logger.Debug("Found plugins", logger.Fields{"repository": r.id, "count": len(plugins)})
	return plugins
}

// resolveReleases makes every release URL absolute against the base URL and
// drops the releases where that is impossible.
func (r *DefaultRepository) resolveReleases(p *model.PluginInfo) []*model.PluginRelease {
	out := make([]*model.PluginRelease, 0, len(p.Releases))
	for _, rel := range p.Releases {
		if rel == nil {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(rel.URL))
		if err != nil || rel.URL == "" {
			logger.Warn("Dropping release with invalid url", logger.Fields{
				"repository": r.id, "plugin": p.ID, "version": rel.Version, "url": rel.URL,
			})
			continue
		}
		abs := r.url.ResolveReference(ref)
		if !abs.IsAbs() {
			logger.Warn("Dropping release whose url cannot be made absolute", logger.Fields{
				"repository": r.id, "plugin": p.ID, "version": rel.Version, "url": rel.URL,
			})
			continue
		}
		rel.URL = abs.String()
		out = append(out, rel)
	}
	return out
}

// parseBaseURL accepts URLs and local directory paths.
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		abs, err := filepath.Abs(u.Path)
		if err != nil {
			return nil, err
		}
		u = &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	}
	return u, nil
}
