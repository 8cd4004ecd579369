// Package model holds the plugin metadata published by update repositories
// and the release resolution rules applied to it.
package model

import (
	"slices"
	"strings"
	"sync"

	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// PluginInfo describes a plugin as published in a repository's plugins.json.
type PluginInfo struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Provider    string           `json:"provider,omitempty"`
	ProjectURL  string           `json:"projectUrl,omitempty"`
	Releases    []*PluginRelease `json:"releases"`

	// repositoryID is set at parse time and is not part of the wire format.
	repositoryID string

	mu          sync.Mutex
	lastRelease map[string]*PluginRelease // host version -> resolved release, nil entries cache "none"
}

// RepositoryID returns the id of the repository that supplied this record.
func (p *PluginInfo) RepositoryID() string {
	return p.repositoryID
}

// SetRepositoryID records the supplying repository.
func (p *PluginInfo) SetRepositoryID(id string) {
	p.repositoryID = id
}

// LastRelease returns the highest versioned release whose requires constraint
// accepts hostVersion. Release dates are ignored. version.AnyVersion skips the
// constraint checks. The result, including "no release", is memoized per host
// version for the lifetime of p.
func (p *PluginInfo) LastRelease(hostVersion string, oracle version.Oracle) *PluginRelease {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rel, ok := p.lastRelease[hostVersion]; ok {
		return rel
	}
	if p.lastRelease == nil {
		p.lastRelease = make(map[string]*PluginRelease)
	}

	var best *PluginRelease
	for _, rel := range p.Releases {
		if rel == nil || !p.validVersion(rel, oracle) || !p.compatible(rel, hostVersion, oracle) {
			continue
		}
		if best == nil {
			best = rel
			continue
		}
		// Equal versions are not expected; when present the later one wins.
		if cmp, err := oracle.Compare(rel.Version, best.Version); err == nil && cmp >= 0 {
			best = rel
		}
	}

	p.lastRelease[hostVersion] = best
	return best
}

// HasUpdate reports whether a release compatible with hostVersion is strictly
// newer than installedVersion.
func (p *PluginInfo) HasUpdate(hostVersion, installedVersion string, oracle version.Oracle) bool {
	last := p.LastRelease(hostVersion, oracle)
	if last == nil {
		return false
	}
	cmp, err := oracle.Compare(last.Version, installedVersion)
	if err != nil {
		logger.Warn("Cannot compare installed version", logger.Fields{
			"plugin": p.ID, "installed": installedVersion, "error": err.Error(),
		})
		return false
	}
	return cmp > 0
}

// Release returns the release whose version equals v and that has an artifact URL.
func (p *PluginInfo) Release(v string, oracle version.Oracle) *PluginRelease {
	for _, rel := range p.Releases {
		if rel == nil || rel.URL == "" {
			continue
		}
		if cmp, err := oracle.Compare(v, rel.Version); err == nil && cmp == 0 {
			return rel
		}
	}
	return nil
}

func (p *PluginInfo) validVersion(rel *PluginRelease, oracle version.Oracle) bool {
	if _, err := oracle.Compare(rel.Version, rel.Version); err != nil {
		logger.Warn("Skipping release with invalid version", logger.Fields{
			"plugin": p.ID, "version": rel.Version, "error": err.Error(),
		})
		return false
	}
	return true
}

// compatible treats an empty requires as "any host version" and an
// unparseable one as satisfied.
func (p *PluginInfo) compatible(rel *PluginRelease, hostVersion string, oracle version.Oracle) bool {
	if hostVersion == version.AnyVersion || strings.TrimSpace(rel.Requires) == "" {
		return true
	}
	ok, err := oracle.Satisfies(hostVersion, rel.Requires)
	if err != nil {
		logger.Warn("Cannot evaluate requires, treating release as compatible", logger.Fields{
			"plugin": p.ID, "version": rel.Version, "requires": rel.Requires, "error": err.Error(),
		})
		return true
	}
	return ok
}

// SortByID sorts plugins lexicographically by id.
func SortByID(plugins []*PluginInfo) {
	slices.SortFunc(plugins, func(a, b *PluginInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
}
