package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/download"
	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
	"github.com/pf4j/pf4j-update/pkg/model"
	"github.com/pf4j/pf4j-update/pkg/verify"
)

// InstallPlugin downloads, verifies and stages a release of id into the
// plugins root, then asks the lifecycle manager to load and start it. An
// empty version selects the newest compatible release. The boolean reports
// whether the plugin ended up started.
func (m *Manager) InstallPlugin(ctx context.Context, id, version string) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	emit(m.hooks, Event{Phase: PhaseResolving, PluginID: id, Msg: version})
	info, rel, err := m.resolve(ctx, id, version)
	if err != nil {
		return m.fail(id, err)
	}

	tmp, err := m.fetch(ctx, info, rel)
	if err != nil {
		return m.fail(id, err)
	}

	staged, err := m.stage(id, tmp)
	if err != nil {
		return m.fail(id, err)
	}
	return m.loadAndStart(ctx, id, staged)
}

// UpdatePlugin replaces the installed id with a newer release. Without an
// explicit version the call is a no-op (false, nil) unless a newer compatible
// release exists. The old plugin is deleted only after the new artifact has
// been downloaded and verified.
func (m *Manager) UpdatePlugin(ctx context.Context, id, version string) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	emit(m.hooks, Event{Phase: PhaseResolving, PluginID: id, Msg: version})
	installed, ok := m.pm.InstalledPlugin(id)
	if !ok {
		return m.fail(id, pkgerrors.ErrPluginNotInstalled(id))
	}
	if m.Plugin(ctx, id) == nil {
		return m.fail(id, pkgerrors.ErrPluginNotFound(id))
	}
	if version == "" && !m.HasPluginUpdate(ctx, id) {
		logger.Warn("Plugin has no update", logger.Fields{"plugin": id, "installed": installed.Version})
		emit(m.hooks, Event{Phase: PhaseDone, PluginID: id, Msg: "up to date"})
		return false, nil
	}

	info, rel, err := m.resolve(ctx, id, version)
	if err != nil {
		return m.fail(id, err)
	}

	tmp, err := m.fetch(ctx, info, rel)
	if err != nil {
		return m.fail(id, err)
	}

	emit(m.hooks, Event{Phase: PhaseDelegating, PluginID: id, Msg: "delete " + installed.Version})
	if !m.pm.DeletePlugin(ctx, id) {
		download.RemoveTemp(tmp)
		logger.Error("Failed to delete installed plugin", logger.Fields{"plugin": id, "version": installed.Version})
		emit(m.hooks, Event{Phase: PhaseFailed, PluginID: id, Msg: "delete failed"})
		return false, nil
	}

	staged, err := m.stage(id, tmp)
	if err != nil {
		return m.fail(id, err)
	}
	return m.loadAndStart(ctx, id, staged)
}

// UninstallPlugin asks the lifecycle manager to delete id.
func (m *Manager) UninstallPlugin(ctx context.Context, id string) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if _, ok := m.pm.InstalledPlugin(id); !ok {
		return m.fail(id, pkgerrors.ErrPluginNotInstalled(id))
	}

	emit(m.hooks, Event{Phase: PhaseDelegating, PluginID: id, Msg: "delete"})
	if !m.pm.DeletePlugin(ctx, id) {
		emit(m.hooks, Event{Phase: PhaseFailed, PluginID: id, Msg: "delete failed"})
		return false, nil
	}
	emit(m.hooks, Event{Phase: PhaseDone, PluginID: id})
	return true, nil
}

// resolve finds the plugin and the release to install.
func (m *Manager) resolve(ctx context.Context, id, version string) (*model.PluginInfo, *model.PluginRelease, error) {
	info := m.Plugin(ctx, id)
	if info == nil {
		return nil, nil, pkgerrors.ErrPluginNotFound(id)
	}

	var rel *model.PluginRelease
	if version == "" {
		rel = m.LastPluginRelease(ctx, id)
		if rel == nil {
			return nil, nil, pkgerrors.ErrReleaseNotFound(id, "compatible with "+m.HostVersion())
		}
	} else {
		rel = info.Release(version, m.oracle)
		if rel == nil {
			return nil, nil, pkgerrors.ErrReleaseNotFound(id, version)
		}
	}
	return info, rel, nil
}

// fetch downloads and verifies rel. The temporary file is removed on failure.
func (m *Manager) fetch(ctx context.Context, info *model.PluginInfo, rel *model.PluginRelease) (string, error) {
	u := rel.GetURL()
	if u == nil {
		return "", pkgerrors.Wrapf(pkgerrors.ErrDownloadFailed, "plugin %s@%s has an invalid url %q", info.ID, rel.Version, rel.URL)
	}

	emit(m.hooks, Event{Phase: PhaseDownloading, PluginID: info.ID, Msg: rel.URL})
	tmp, err := m.downloaderFor(info).Download(ctx, u)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrDownloadFailed) {
			err = pkgerrors.Wrap(errors.Join(pkgerrors.ErrDownloadFailed, err), "plugin "+info.ID+"@"+rel.Version)
		}
		return "", err
	}

	emit(m.hooks, Event{Phase: PhaseVerifying, PluginID: info.ID, Msg: rel.Version})
	if err := m.verifierFor(info).Verify(ctx, verify.Context{PluginID: info.ID, Release: rel}, tmp); err != nil {
		download.RemoveTemp(tmp)
		if !errors.Is(err, pkgerrors.ErrVerificationFailed) {
			err = errors.Join(pkgerrors.ErrVerificationFailed, err)
		}
		return "", err
	}
	return tmp, nil
}

// stage moves the verified file into the plugins root under its own name.
func (m *Manager) stage(id, tmp string) (string, error) {
	dst := filepath.Join(m.pm.PluginsRoot(), filepath.Base(tmp))
	emit(m.hooks, Event{Phase: PhaseStaging, PluginID: id, Msg: dst})

	if err := fsutil.Move(tmp, dst); err != nil {
		download.RemoveTemp(tmp)
		return "", pkgerrors.Wrapf(errors.Join(pkgerrors.ErrStagingFailed, err), "plugin %s: cannot stage %s", id, dst)
	}
	download.ReleaseTempDir(tmp)
	return dst, nil
}

// loadAndStart hands the staged artifact to the lifecycle manager. A plugin
// that loads but does not reach the started state is a reported failure.
func (m *Manager) loadAndStart(ctx context.Context, id, staged string) (bool, error) {
	emit(m.hooks, Event{Phase: PhaseDelegating, PluginID: id, Msg: "load " + staged})
	loaded, err := m.pm.LoadPlugin(ctx, staged)
	if err != nil {
		_ = os.Remove(staged)
		return m.fail(id, pkgerrors.Wrapf(errors.Join(pkgerrors.ErrLifecycleFailed, err), "plugin %s: load", id))
	}

	state, err := m.pm.StartPlugin(ctx, loaded)
	if err != nil {
		return m.fail(id, pkgerrors.Wrapf(errors.Join(pkgerrors.ErrLifecycleFailed, err), "plugin %s: start", loaded))
	}
	if state != lifecycle.StateStarted {
		logger.Warn("Plugin did not start", logger.Fields{"plugin": loaded, "state": string(state)})
		emit(m.hooks, Event{Phase: PhaseFailed, PluginID: id, Msg: string(state)})
		return false, nil
	}

	logger.Info("Plugin started", logger.Fields{"plugin": loaded, "path": staged})
	emit(m.hooks, Event{Phase: PhaseDone, PluginID: id})
	return true, nil
}

func (m *Manager) fail(id string, err error) (bool, error) {
	emit(m.hooks, Event{Phase: PhaseFailed, PluginID: id, Msg: err.Error()})
	return false, err
}
