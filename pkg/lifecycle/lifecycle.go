//go:generate mockgen -destination=./mocks/lifecycle.go . Manager

// Package lifecycle declares the plugin lifecycle manager the update client
// hands installed artifacts to.
package lifecycle

import "context"

// State is the lifecycle state of a loaded plugin.
type State string

// Plugin states.
const (
	StateCreated  State = "created"
	StateDisabled State = "disabled"
	StateResolved State = "resolved"
	StateStarted  State = "started"
	StateStopped  State = "stopped"
	StateFailed   State = "failed"
)

// Plugin is a plugin known to the lifecycle manager.
type Plugin struct {
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
	State   State  `json:"state" yaml:"state"`
}

// Manager loads, starts and deletes plugins on behalf of the host.
type Manager interface {
	// InstalledPlugin returns the plugin with id, or false.
	InstalledPlugin(id string) (*Plugin, bool)
	InstalledPlugins() []*Plugin
	// PluginsRoot is the directory artifacts are staged into.
	PluginsRoot() string
	// LoadPlugin loads the artifact at path and returns its plugin id.
	LoadPlugin(ctx context.Context, path string) (string, error)
	StartPlugin(ctx context.Context, id string) (State, error)
	// DeletePlugin stops and removes the plugin and its artifact.
	DeletePlugin(ctx context.Context, id string) bool
	HostVersion() string
}
