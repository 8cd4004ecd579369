// Package update ties repositories, downloads, verification and the host's
// lifecycle manager together. It answers which plugins are available or
// updatable and performs installs, updates and uninstalls.
package update

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/download"
	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
	"github.com/pf4j/pf4j-update/pkg/model"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/verify"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// Manager is the update facade over a set of repositories.
type Manager struct {
	pm          lifecycle.Manager
	oracle      version.Oracle
	hostVersion string
	downloader  download.Downloader
	verifier    verify.Verifier
	concurrency int
	hooks       Hooks

	repositoriesFile string
	repoOpts         []repository.Option

	// opMu serializes installs, updates, uninstalls and repository changes.
	opMu sync.Mutex

	mu          sync.RWMutex
	repos       []repository.Repository
	fromFile    map[string]bool
	lastRelease map[string]*model.PluginRelease // plugin id -> resolved release, nil caches "none"
	generation  uint64                          // bumped by invalidate
}

// New creates a Manager on top of pm. Options.RepositoriesFile, when set, is
// read immediately; a missing file contributes no repositories.
func New(pm lifecycle.Manager, opts Options) (*Manager, error) {
	if pm == nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrLifecycleFailed, "lifecycle manager is not configured")
	}

	m := &Manager{
		pm:               pm,
		oracle:           opts.Oracle,
		hostVersion:      opts.HostVersion,
		downloader:       opts.Downloader,
		verifier:         opts.Verifier,
		concurrency:      opts.Concurrency,
		hooks:            opts.Hooks,
		repositoriesFile: opts.RepositoriesFile,
		repoOpts:         opts.RepositoryOptions,
		fromFile:         make(map[string]bool),
		lastRelease:      make(map[string]*model.PluginRelease),
	}
	if m.oracle == nil {
		m.oracle = version.SemverOracle{}
	}
	if m.concurrency < 1 {
		m.concurrency = DefaultConcurrency
	}
	if m.downloader == nil {
		m.downloader = download.NewSimpleDownloader(0, "")
	}
	if m.verifier == nil {
		opener, ok := m.downloader.(download.Opener)
		if !ok {
			opener = download.NewSimpleDownloader(0, "")
		}
		m.verifier = verify.Default(opener)
	}

	if err := checkUnique(opts.Repositories); err != nil {
		return nil, err
	}
	m.repos = slices.Clone(opts.Repositories)

	if m.repositoriesFile != "" {
		fileRepos, err := m.readRepositoriesFile()
		if err != nil {
			return nil, err
		}
		m.mergeFileRepos(fileRepos)
	}
	return m, nil
}

// HostVersion is the version release constraints are evaluated against.
func (m *Manager) HostVersion() string {
	if m.hostVersion != "" {
		return m.hostVersion
	}
	if v := m.pm.HostVersion(); v != "" {
		return v
	}
	return version.AnyVersion
}

// Oracle returns the version oracle in use.
func (m *Manager) Oracle() version.Oracle { return m.oracle }

// LifecycleManager returns the host's plugin manager.
func (m *Manager) LifecycleManager() lifecycle.Manager { return m.pm }

// Repositories returns the configured repositories in precedence order.
func (m *Manager) Repositories() []repository.Repository {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.repos)
}

// Repository returns the repository with the given id or nil.
func (m *Manager) Repository(id string) repository.Repository {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.repos {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

// AddRepository appends r and refreshes it. Ids must be unique.
func (m *Manager) AddRepository(r repository.Repository) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.Repository(r.ID()) != nil {
		return pkgerrors.ErrRepositoryExists(r.ID())
	}
	r.Refresh()

	m.mu.Lock()
	m.repos = append(m.repos, r)
	m.invalidate()
	m.mu.Unlock()

	logger.Debug("Added repository", logger.Fields{"repository": r.ID(), "url": r.URL().String()})
	return nil
}

// AddRepositoryURL adds a DefaultRepository for rawURL, which may also be a
// local directory.
func (m *Manager) AddRepositoryURL(id, rawURL string) error {
	if id == "" {
		return pkgerrors.ErrEmptyRepositoryID
	}
	if rawURL == "" {
		return pkgerrors.ErrRepositoryURLEmptyWithID(id)
	}
	r, err := repository.NewDefaultRepositoryFromString(id, rawURL, m.repoOpts...)
	if err != nil {
		return pkgerrors.Wrapf(err, "repository %s: invalid url %q", id, rawURL)
	}
	return m.AddRepository(r)
}

// RemoveRepository drops the repository with the given id. Unknown ids are
// logged and ignored.
func (m *Manager) RemoveRepository(id string) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.repos, func(r repository.Repository) bool { return r.ID() == id })
	if i < 0 {
		logger.Warn("Repository not found", logger.Fields{"repository": id})
		return false
	}
	m.repos = slices.Delete(m.repos, i, i+1)
	delete(m.fromFile, id)
	m.invalidate()
	return true
}

// SetRepositories replaces all repositories and refreshes them.
func (m *Manager) SetRepositories(repos []repository.Repository) error {
	if err := checkUnique(repos); err != nil {
		return err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	for _, r := range repos {
		r.Refresh()
	}

	m.mu.Lock()
	m.repos = slices.Clone(repos)
	clear(m.fromFile)
	m.invalidate()
	m.mu.Unlock()
	return nil
}

// Refresh re-reads the repositories file when configured, drops every
// repository's cached metadata and clears the release cache.
func (m *Manager) Refresh(_ context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	var fileRepos []repository.Repository
	if m.repositoriesFile != "" {
		var err error
		if fileRepos, err = m.readRepositoriesFile(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.repositoriesFile != "" {
		m.repos = slices.DeleteFunc(m.repos, func(r repository.Repository) bool { return m.fromFile[r.ID()] })
		clear(m.fromFile)
		m.mergeFileRepos(fileRepos)
	}
	for _, r := range m.repos {
		r.Refresh()
	}
	m.invalidate()

	logger.Debug("Refreshed repositories", logger.Fields{"count": len(m.repos)})
	return nil
}

func (m *Manager) readRepositoriesFile() ([]repository.Repository, error) {
	entries, err := repository.LoadRepositoriesFile(m.repositoriesFile)
	if err != nil {
		return nil, err
	}
	return repository.FromEntries(entries, m.repoOpts...)
}

// mergeFileRepos appends repositories read from the file. Callers hold mu or
// have exclusive access.
func (m *Manager) mergeFileRepos(repos []repository.Repository) {
	for _, r := range repos {
		if slices.ContainsFunc(m.repos, func(o repository.Repository) bool { return o.ID() == r.ID() }) {
			logger.Warn("Ignoring duplicate repository from file", logger.Fields{"repository": r.ID(), "file": m.repositoriesFile})
			continue
		}
		m.repos = append(m.repos, r)
		m.fromFile[r.ID()] = true
	}
}

func checkUnique(repos []repository.Repository) error {
	seen := make(map[string]bool, len(repos))
	for i, r := range repos {
		if r.ID() == "" {
			return pkgerrors.ErrEmptyRepositoryIDWithIndex(i)
		}
		if seen[r.ID()] {
			return pkgerrors.ErrRepositoryExists(r.ID())
		}
		seen[r.ID()] = true
	}
	return nil
}

// PluginsMap merges all repositories by plugin id. Repositories are read in
// parallel; on conflicts the later repository wins.
func (m *Manager) PluginsMap(ctx context.Context) map[string]*model.PluginInfo {
	repos := m.Repositories()
	results := make([]map[string]*model.PluginInfo, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, r := range repos {
		g.Go(func() error {
			results[i] = r.Plugins(gctx)
			return ctx.Err()
		})
	}
	// results of repositories that finished are still merged
	if err := g.Wait(); err != nil {
		logger.Warn("Repository metadata may be incomplete", logger.Fields{"repositories": len(repos), "error": err.Error()})
	}

	merged := make(map[string]*model.PluginInfo)
	for _, plugins := range results {
		for id, p := range plugins {
			merged[id] = p
		}
	}
	return merged
}

// Plugins returns every known plugin sorted by id.
func (m *Manager) Plugins(ctx context.Context) []*model.PluginInfo {
	merged := m.PluginsMap(ctx)
	out := make([]*model.PluginInfo, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	model.SortByID(out)
	return out
}

// Plugin returns the record for id from the last repository that has it.
func (m *Manager) Plugin(ctx context.Context, id string) *model.PluginInfo {
	repos := m.Repositories()
	for i := len(repos) - 1; i >= 0; i-- {
		if p := repos[i].Plugin(ctx, id); p != nil {
			return p
		}
	}
	return nil
}

// AvailablePlugins returns the plugins that are not installed, sorted by id.
func (m *Manager) AvailablePlugins(ctx context.Context) []*model.PluginInfo {
	var out []*model.PluginInfo
	for _, p := range m.Plugins(ctx) {
		if _, installed := m.pm.InstalledPlugin(p.ID); !installed {
			out = append(out, p)
		}
	}
	return out
}

// HasAvailablePlugins reports whether AvailablePlugins would be non-empty.
func (m *Manager) HasAvailablePlugins(ctx context.Context) bool {
	for _, p := range m.PluginsMap(ctx) {
		if _, installed := m.pm.InstalledPlugin(p.ID); !installed {
			return true
		}
	}
	return false
}

// Updates returns the installed plugins for which a newer compatible release
// exists, sorted by id.
func (m *Manager) Updates(ctx context.Context) []*model.PluginInfo {
	merged := m.PluginsMap(ctx)
	var out []*model.PluginInfo
	for _, installed := range m.pm.InstalledPlugins() {
		p, ok := merged[installed.ID]
		if ok && m.hasUpdate(p, installed.Version) {
			out = append(out, p)
		}
	}
	model.SortByID(out)
	return out
}

// HasUpdates reports whether Updates would be non-empty.
func (m *Manager) HasUpdates(ctx context.Context) bool {
	merged := m.PluginsMap(ctx)
	for _, installed := range m.pm.InstalledPlugins() {
		if p, ok := merged[installed.ID]; ok && m.hasUpdate(p, installed.Version) {
			return true
		}
	}
	return false
}

// LastPluginRelease returns the newest release of id compatible with the host
// version, or nil. Results are cached until the next refresh.
func (m *Manager) LastPluginRelease(ctx context.Context, id string) *model.PluginRelease {
	m.mu.RLock()
	rel, ok := m.lastRelease[id]
	gen := m.generation
	m.mu.RUnlock()
	if ok {
		return rel
	}

	p := m.Plugin(ctx, id)
	if p == nil {
		return nil
	}
	rel = p.LastRelease(m.HostVersion(), m.oracle)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		// the repositories changed while resolving; p may be stale
		if cached, ok := m.lastRelease[id]; ok {
			return cached
		}
		return rel
	}
	m.lastRelease[id] = rel
	return rel
}

// invalidate drops every resolved release. Callers hold mu.
func (m *Manager) invalidate() {
	clear(m.lastRelease)
	m.generation++
}

// HasPluginUpdate reports whether id is installed and a newer compatible
// release exists.
func (m *Manager) HasPluginUpdate(ctx context.Context, id string) bool {
	installed, ok := m.pm.InstalledPlugin(id)
	if !ok {
		return false
	}
	last := m.LastPluginRelease(ctx, id)
	if last == nil {
		return false
	}
	cmp, err := m.oracle.Compare(last.Version, installed.Version)
	if err != nil {
		logger.Warn("Cannot compare installed version", logger.Fields{
			"plugin": id, "installed": installed.Version, "error": err.Error(),
		})
		return false
	}
	return cmp > 0
}

func (m *Manager) hasUpdate(p *model.PluginInfo, installedVersion string) bool {
	return p.HasUpdate(m.HostVersion(), installedVersion, m.oracle)
}

// downloaderFor returns the override of the repository that supplied p, if any.
func (m *Manager) downloaderFor(p *model.PluginInfo) download.Downloader {
	if r := m.Repository(p.RepositoryID()); r != nil {
		if d := r.FileDownloader(); d != nil {
			return d
		}
	}
	return m.downloader
}

// verifierFor returns the override of the repository that supplied p, if any.
func (m *Manager) verifierFor(p *model.PluginInfo) verify.Verifier {
	if r := m.Repository(p.RepositoryID()); r != nil {
		if v := r.FileVerifier(); v != nil {
			return v
		}
	}
	return m.verifier
}
