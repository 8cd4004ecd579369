package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChecksum(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		kind     ChecksumKind
		expected string
	}{
		{name: "empty", raw: "", kind: ChecksumNone},
		{name: "blank", raw: "   ", kind: ChecksumNone},
		{name: "sidecar marker", raw: ".sha512", kind: ChecksumSidecar},
		{name: "remote digest file", raw: "https://example.com/foo.zip.sha512", kind: ChecksumRemote, expected: "https://example.com/foo.zip.sha512"},
		{name: "inline digest lowered", raw: "ABCDEF0123", kind: ChecksumInline, expected: "abcdef0123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseChecksum(tt.raw)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.expected, c.Value)
		})
	}
}

func TestChecksum_DigestURL(t *testing.T) {
	u, ok := ParseChecksum(".sha512").DigestURL("http://example.com/repo/foo-1.2.3.zip")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/repo/foo-1.2.3.zip.sha512", u.String())

	u, ok = ParseChecksum("http://sums.example.com/foo.sha512").DigestURL("http://example.com/foo.zip")
	require.True(t, ok)
	assert.Equal(t, "http://sums.example.com/foo.sha512", u.String())

	_, ok = ParseChecksum("abcdef").DigestURL("http://example.com/foo.zip")
	assert.False(t, ok)
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		in    string
		ok    bool
		year  int
		month time.Month
		day   int
	}{
		{in: "Mar 4, 2017 1:02:03 PM", ok: true, year: 2017, month: time.March, day: 4},
		{in: "Mar 4, 2017, 1:02:03 PM", ok: true, year: 2017, month: time.March, day: 4},
		{in: "2017-03-04T13:02:03Z", ok: true, year: 2017, month: time.March, day: 4},
		{in: "2017-03-04", ok: true, year: 2017, month: time.March, day: 4},
		{in: "04/03/2017", ok: false, year: 1970, month: time.January, day: 1},
		{in: "", ok: false, year: 1970, month: time.January, day: 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseReleaseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())
		})
	}
}

func TestReleaseDate_JSON(t *testing.T) {
	var r PluginRelease
	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0.0","date":null}`), &r))
	assert.True(t, r.Date.IsEpoch())

	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0.0","date":12345}`), &r))
	assert.True(t, r.Date.IsEpoch())

	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0.0","date":"2020-02-29"}`), &r))
	assert.False(t, r.Date.IsEpoch())

	out, err := json.Marshal(r.Date)
	require.NoError(t, err)
	assert.Equal(t, `"2020-02-29T00:00:00Z"`, string(out))
}
