package model

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// PluginRelease is one published artifact of a plugin.
type PluginRelease struct {
	Version  string      `json:"version"`
	Date     ReleaseDate `json:"date"`
	Requires string      `json:"requires,omitempty"`
	URL      string      `json:"url"`
	// Sha512Sum is an inline hex digest, a URL to a digest file, or SidecarMarker.
	Sha512Sum string `json:"sha512sum,omitempty"`
}

// Checksum returns the typed form of Sha512Sum.
func (r *PluginRelease) Checksum() Checksum {
	return ParseChecksum(r.Sha512Sum)
}

// GetURL returns the parsed artifact URL, or nil when it does not parse.
func (r *PluginRelease) GetURL() *url.URL {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil
	}
	return u
}

// ChecksumKind says where the expected digest of an artifact comes from.
type ChecksumKind int

const (
	// ChecksumNone means the release declares no digest.
	ChecksumNone ChecksumKind = iota
	// ChecksumInline means Checksum.Value holds the hex digest.
	ChecksumInline
	// ChecksumRemote means Checksum.Value is the URL of a digest file.
	ChecksumRemote
	// ChecksumSidecar means the digest file sits next to the artifact as <artifact-url>.sha512.
	ChecksumSidecar
)

// SidecarMarker is the sha512sum value selecting ChecksumSidecar.
const SidecarMarker = ".sha512"

// Checksum is the resolved addressing mode of a release digest.
type Checksum struct {
	Kind  ChecksumKind
	Value string
}

// ParseChecksum classifies a raw sha512sum value.
func ParseChecksum(raw string) Checksum {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Checksum{Kind: ChecksumNone}
	case strings.EqualFold(raw, SidecarMarker):
		return Checksum{Kind: ChecksumSidecar}
	case isURL(raw):
		return Checksum{Kind: ChecksumRemote, Value: raw}
	default:
		return Checksum{Kind: ChecksumInline, Value: strings.ToLower(raw)}
	}
}

// DigestURL returns the location of the digest file for Remote and Sidecar checksums.
func (c Checksum) DigestURL(artifactURL string) (*url.URL, bool) {
	var raw string
	switch c.Kind {
	case ChecksumRemote:
		raw = c.Value
	case ChecksumSidecar:
		raw = artifactURL + SidecarMarker
	default:
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return u, true
}

func isURL(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}

// ReleaseDate is a release timestamp that tolerates the date formats found in
// published plugins.json files. Values that do not parse become the Unix epoch.
type ReleaseDate struct {
	time.Time
}

// releaseDateLayouts are tried in order.
var releaseDateLayouts = []string{
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006 3:04:05 PM MST",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// Epoch is the fallback release date.
var Epoch = time.Unix(0, 0).UTC()

// ParseReleaseDate parses s with the tolerated layouts. ok is false when s
// matched none and Epoch was returned.
func ParseReleaseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range releaseDateLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, true
		}
	}
	return Epoch, false
}

// IsEpoch reports whether the date fell back to the epoch.
func (d ReleaseDate) IsEpoch() bool {
	return d.Time.Equal(Epoch) || d.Time.IsZero()
}

// UnmarshalJSON implements json.Unmarshaler and never fails on a bad date.
func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		d.Time = Epoch
		return nil
	}
	d.Time, _ = ParseReleaseDate(*raw)
	return nil
}

// MarshalJSON implements json.Marshaler using ISO-8601 in UTC.
func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	t := d.Time
	if t.IsZero() {
		t = Epoch
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05Z"))
}
