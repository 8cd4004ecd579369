package dirmanager

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/magiconair/properties"
	"github.com/mholt/archives"
)

// Descriptor locations inside a plugin artifact, tried in order.
const (
	PropertiesDescriptor = "plugin.properties"
	ManifestDescriptor   = "META-INF/MANIFEST.MF"
)

// Descriptor is the identity a plugin artifact declares about itself.
type Descriptor struct {
	ID          string
	Version     string
	Requires    string
	Provider    string
	Description string
}

// descriptorLoader reads descriptor text verbatim, without ${} expansion.
var descriptorLoader = &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

// descriptorKeys maps descriptor fields to their plugin.properties and MANIFEST.MF keys.
var descriptorKeys = map[string][2]string{
	"id":          {"plugin.id", "Plugin-Id"},
	"version":     {"plugin.version", "Plugin-Version"},
	"requires":    {"plugin.requires", "Plugin-Requires"},
	"provider":    {"plugin.provider", "Plugin-Provider"},
	"description": {"plugin.description", "Plugin-Description"},
}

// ReadDescriptor opens the archive or directory at path and reads its
// plugin descriptor.
func ReadDescriptor(ctx context.Context, path string) (*Descriptor, error) {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin %s: %w", path, err)
	}
	// Close the underlying archive when done (important on Windows)
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	for i, name := range []string{PropertiesDescriptor, ManifestDescriptor} {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			continue
		}
		props, err := descriptorLoader.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s in %s: %w", name, path, err)
		}
		d := descriptorFrom(props, i)
		if d.ID == "" {
			return nil, fmt.Errorf("%s in %s declares no plugin id", name, path)
		}
		return d, nil
	}
	return nil, fmt.Errorf("no plugin descriptor found in %s", path)
}

func descriptorFrom(props *properties.Properties, keyIndex int) *Descriptor {
	get := func(field string) string {
		return strings.TrimSpace(props.GetString(descriptorKeys[field][keyIndex], ""))
	}
	return &Descriptor{
		ID:          get("id"),
		Version:     get("version"),
		Requires:    get("requires"),
		Provider:    get("provider"),
		Description: get("description"),
	}
}
