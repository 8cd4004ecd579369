package model

import (
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/pf4j/pf4j-update/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingOracle counts calls to detect memoized lookups.
type countingOracle struct {
	version.Oracle
	calls atomic.Int32
}

func (c *countingOracle) Compare(a, b string) (int, error) {
	c.calls.Add(1)
	return c.Oracle.Compare(a, b)
}

func (c *countingOracle) Satisfies(v, constraint string) (bool, error) {
	c.calls.Add(1)
	return c.Oracle.Satisfies(v, constraint)
}

func newPlugin(id string, releases ...*PluginRelease) *PluginInfo {
	return &PluginInfo{ID: id, Releases: releases}
}

func rel(v, requires string) *PluginRelease {
	return &PluginRelease{Version: v, Requires: requires, URL: "http://example.com/" + v + ".zip"}
}

func TestPluginInfo_LastRelease(t *testing.T) {
	oracle := version.SemverOracle{}

	tests := []struct {
		name        string
		releases    []*PluginRelease
		hostVersion string
		expected    string
	}{
		{
			name:        "highest unconstrained release",
			releases:    []*PluginRelease{rel("1.2.3", ""), rel("2.0.0", "")},
			hostVersion: "1.8.0",
			expected:    "2.0.0",
		},
		{
			name:        "constraint excludes newest",
			releases:    []*PluginRelease{rel("1.0.0", ""), rel("2.0.0", ">=2.0.0")},
			hostVersion: "1.8.0",
			expected:    "1.0.0",
		},
		{
			name:        "range satisfied",
			releases:    []*PluginRelease{rel("1.0.0", ">2.5 & <4")},
			hostVersion: "3.0.0",
			expected:    "1.0.0",
		},
		{
			name:        "range not satisfied",
			releases:    []*PluginRelease{rel("1.0.0", ">2.5 & <4")},
			hostVersion: "5.0.0",
			expected:    "",
		},
		{
			name:        "any version bypasses constraints",
			releases:    []*PluginRelease{rel("1.0.0", ""), rel("9.0.0", ">100.0.0")},
			hostVersion: version.AnyVersion,
			expected:    "9.0.0",
		},
		{
			name:        "invalid requires fails open",
			releases:    []*PluginRelease{rel("1.0.0", ""), rel("1.5.0", "garbage")},
			hostVersion: "1.0.0",
			expected:    "1.5.0",
		},
		{
			name:        "invalid release version skipped",
			releases:    []*PluginRelease{rel("nope", ""), rel("0.9.0", "")},
			hostVersion: "1.0.0",
			expected:    "0.9.0",
		},
		{
			name:        "no releases",
			hostVersion: "1.0.0",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlugin("p", tt.releases...)
			got := p.LastRelease(tt.hostVersion, oracle)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Version)
		})
	}
}

func TestPluginInfo_LastReleaseIgnoresDate(t *testing.T) {
	older, _ := ParseReleaseDate("2017-01-01")
	newer, _ := ParseReleaseDate("2018-01-01")

	r300 := rel("3.0.0", "")
	r300.Date = ReleaseDate{newer}
	r301 := rel("3.0.1", "")
	r301.Date = ReleaseDate{older}

	p := newPlugin("other", r300, r301)
	got := p.LastRelease("1.8.0", version.SemverOracle{})
	require.NotNil(t, got)
	assert.Equal(t, "3.0.1", got.Version)
}

func TestPluginInfo_LastReleaseMemoized(t *testing.T) {
	oracle := &countingOracle{Oracle: version.SemverOracle{}}
	p := newPlugin("p", rel("1.0.0", ">=1.0.0"), rel("2.0.0", ">=1.0.0"))

	first := p.LastRelease("1.5.0", oracle)
	require.NotNil(t, first)
	calls := oracle.calls.Load()
	require.NotZero(t, calls)

	for range 3 {
		assert.Same(t, first, p.LastRelease("1.5.0", oracle))
	}
	assert.Equal(t, calls, oracle.calls.Load())

	// a miss is cached too
	assert.Nil(t, p.LastRelease("0.5.0", oracle))
	calls = oracle.calls.Load()
	assert.Nil(t, p.LastRelease("0.5.0", oracle))
	assert.Equal(t, calls, oracle.calls.Load())
}

func TestPluginInfo_HasUpdate(t *testing.T) {
	oracle := version.SemverOracle{}
	p := newPlugin("myPlugin", rel("1.2.3", ""), rel("2.0.0", ""))

	assert.True(t, p.HasUpdate("1.8.0", "1.2.3", oracle))
	assert.False(t, p.HasUpdate("1.8.0", "2.0.0", oracle))
	assert.False(t, p.HasUpdate("1.8.0", "3.0.0", oracle))

	constrained := newPlugin("c", rel("1.0.0", ">2.5 & <4"))
	assert.True(t, constrained.HasUpdate("3.0.0", "0.1.0", oracle))
	assert.False(t, constrained.HasUpdate("5.0.0", "0.1.0", oracle))
}

func TestPluginInfo_Release(t *testing.T) {
	oracle := version.SemverOracle{}
	noURL := &PluginRelease{Version: "3.0.0"}
	p := newPlugin("p", rel("1.0.0", ""), rel("2.0.0", ""), noURL)

	got := p.Release("2.0.0", oracle)
	require.NotNil(t, got)
	assert.Equal(t, "2.0.0", got.Version)
	assert.Nil(t, p.Release("3.0.0", oracle))
	assert.Nil(t, p.Release("4.0.0", oracle))
}

func TestPluginInfo_UnmarshalJSON(t *testing.T) {
	data := []byte(`[{
		"id": "hello-plugin",
		"name": "Hello",
		"description": "Says hello",
		"provider": "pf4j",
		"projectUrl": "https://example.com",
		"releases": [
			{"version": "0.8.0", "date": "Jun 5, 2017 12:00:00 AM", "url": "hello-0.8.0.zip"},
			{"version": "0.9.0", "date": "2017-08-11T10:20:30Z", "requires": ">=1.0.0", "url": "hello-0.9.0.zip", "sha512sum": ".sha512"},
			{"version": "1.0.0", "date": "yesterday", "url": "hello-1.0.0.zip"}
		]
	}]`)

	var plugins []*PluginInfo
	require.NoError(t, json.Unmarshal(data, &plugins))
	require.Len(t, plugins, 1)

	p := plugins[0]
	assert.Equal(t, "hello-plugin", p.ID)
	assert.Equal(t, "https://example.com", p.ProjectURL)
	require.Len(t, p.Releases, 3)
	assert.Equal(t, 2017, p.Releases[0].Date.Year())
	assert.Equal(t, 8, int(p.Releases[1].Date.Month()))
	assert.True(t, p.Releases[2].Date.IsEpoch())
	assert.Equal(t, ChecksumSidecar, p.Releases[1].Checksum().Kind)
	assert.Empty(t, p.RepositoryID())
}

func TestSortByID(t *testing.T) {
	plugins := []*PluginInfo{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	SortByID(plugins)
	assert.Equal(t, "a", plugins[0].ID)
	assert.Equal(t, "b", plugins[1].ID)
	assert.Equal(t, "c", plugins[2].ID)
}
