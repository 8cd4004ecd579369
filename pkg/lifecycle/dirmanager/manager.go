// Package dirmanager is a lifecycle manager for hosts that keep plugins as
// archives in a directory. It records what was loaded and started in a JSON
// state file instead of running plugin code.
package dirmanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// DatabaseFileName is the state file kept in the state directory.
const DatabaseFileName = "installed.json"

// Manager implements lifecycle.Manager over a plugins directory.
type Manager struct {
	pluginsRoot string
	dbPath      string
	hostVersion string

	mu sync.Mutex
	db *Database
}

var _ lifecycle.Manager = (*Manager)(nil)

// New opens the state database in stateDir, creating both directories when
// needed. An empty hostVersion reports version.AnyVersion.
func New(pluginsRoot, stateDir, hostVersion string) (*Manager, error) {
	for _, dir := range []string{pluginsRoot, stateDir} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	m := &Manager{
		pluginsRoot: pluginsRoot,
		dbPath:      filepath.Join(stateDir, DatabaseFileName),
		hostVersion: hostVersion,
		db:          NewDatabase(),
	}
	if err := m.db.LoadDatabase(m.dbPath); err != nil {
		return nil, err
	}
	return m, nil
}

// PluginsRoot implements lifecycle.Manager.
func (m *Manager) PluginsRoot() string { return m.pluginsRoot }

// HostVersion implements lifecycle.Manager.
func (m *Manager) HostVersion() string {
	if m.hostVersion == "" {
		return version.AnyVersion
	}
	return m.hostVersion
}

// InstalledPlugin implements lifecycle.Manager.
func (m *Manager) InstalledPlugin(id string) (*lifecycle.Plugin, bool) {
	rec := m.db.Find(id)
	if rec == nil {
		return nil, false
	}
	p := rec.Plugin
	return &p, true
}

// InstalledPlugins implements lifecycle.Manager.
func (m *Manager) InstalledPlugins() []*lifecycle.Plugin {
	recs := m.db.All()
	out := make([]*lifecycle.Plugin, 0, len(recs))
	for _, rec := range recs {
		p := rec.Plugin
		out = append(out, &p)
	}
	return out
}

// LoadPlugin implements lifecycle.Manager. The artifact must carry a
// plugin.properties or MANIFEST.MF descriptor and its id must not be loaded yet.
func (m *Manager) LoadPlugin(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	desc, err := ReadDescriptor(ctx, abs)
	if err != nil {
		return "", err
	}
	if existing := m.db.Find(desc.ID); existing != nil {
		return "", fmt.Errorf("plugin %s is already loaded from %s", desc.ID, existing.Path)
	}

	m.db.Put(&Record{Plugin: lifecycle.Plugin{
		ID:      desc.ID,
		Version: desc.Version,
		Path:    abs,
		State:   lifecycle.StateResolved,
	}})
	if err := m.db.SaveDatabase(m.dbPath); err != nil {
		m.db.Remove(desc.ID)
		return "", err
	}

	logger.Debug("Loaded plugin", logger.Fields{"plugin": desc.ID, "version": desc.Version, "path": abs})
	return desc.ID, nil
}

// StartPlugin implements lifecycle.Manager. A plugin whose artifact is gone
// ends up failed.
func (m *Manager) StartPlugin(_ context.Context, id string) (lifecycle.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.db.Find(id)
	if rec == nil {
		return "", fmt.Errorf("plugin %s is not loaded", id)
	}

	next := *rec
	next.State = lifecycle.StateStarted
	if _, err := os.Stat(rec.Path); err != nil {
		logger.Warn("Plugin artifact missing", logger.Fields{"plugin": id, "path": rec.Path})
		next.State = lifecycle.StateFailed
	}

	m.db.Put(&next)
	if err := m.db.SaveDatabase(m.dbPath); err != nil {
		m.db.Put(rec)
		return rec.State, err
	}
	return next.State, nil
}

// DeletePlugin implements lifecycle.Manager.
func (m *Manager) DeletePlugin(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.db.Find(id)
	if rec == nil {
		logger.Warn("Cannot delete unknown plugin", logger.Fields{"plugin": id})
		return false
	}

	if err := os.RemoveAll(rec.Path); err != nil {
		logger.Error("Failed to delete plugin artifact", logger.Fields{"plugin": id, "path": rec.Path, "error": err.Error()})
		return false
	}

	m.db.Remove(id)
	if err := m.db.SaveDatabase(m.dbPath); err != nil {
		logger.Error("Failed to save plugin state", logger.Fields{"plugin": id, "error": err.Error()})
		return false
	}

	logger.Debug("Deleted plugin", logger.Fields{"plugin": id})
	return true
}
