package fsutil

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the user config and data roots.
const AppName = "pf4j-update"

// GetConfigDir returns the user-level configuration directory, e.g.
// ~/.config/pf4j-update on Linux.
func GetConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// GetDataDir returns the user-level data directory. XDG_DATA_HOME is honoured,
// otherwise ~/.local/share is used.
func GetDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// EnsureDir creates path and its parents with DirModeDefault.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}
