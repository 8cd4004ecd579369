// Package errors defines the error taxonomy shared by the update client.
// Callers match on the sentinels with the standard library's errors.Is.
package errors

import "fmt"

// Update workflow errors.
var (
	// ErrNotFound is returned when a plugin id or an explicit release version is unknown to every repository.
	ErrNotFound = fmt.Errorf("not found")

	// ErrNotInstalled is returned when an update or uninstall targets a plugin that is not installed.
	ErrNotInstalled = fmt.Errorf("plugin not installed")

	// ErrAlreadyExists is returned when a repository id is registered twice.
	ErrAlreadyExists = fmt.Errorf("already exists")

	// ErrDownloadFailed is returned on transport and I/O failures while fetching a resource.
	ErrDownloadFailed = fmt.Errorf("download failed")

	// ErrUnsupportedScheme is returned when no transport exists for a URL scheme.
	// It also matches ErrDownloadFailed.
	ErrUnsupportedScheme = fmt.Errorf("%w: unsupported scheme", ErrDownloadFailed)

	// ErrVerificationFailed is returned when a downloaded file fails a verifier.
	ErrVerificationFailed = fmt.Errorf("verification failed")

	// ErrStagingFailed is returned when a verified file cannot be moved into the plugins directory.
	ErrStagingFailed = fmt.Errorf("staging failed")

	// ErrLifecycleFailed is returned when the lifecycle manager cannot load the staged plugin.
	ErrLifecycleFailed = fmt.Errorf("lifecycle operation failed")
)

// Version errors.
var (
	ErrInvalidVersion    = fmt.Errorf("invalid version")
	ErrInvalidConstraint = fmt.Errorf("invalid version constraint")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config to YAML")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")

	ErrEmptyRepositoryID   = fmt.Errorf("repository id cannot be empty")
	ErrRepositoryURLEmpty  = fmt.Errorf("repository URL cannot be empty")
	ErrHTTPTimeoutNegative = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxConcurrent       = fmt.Errorf("max_concurrent_fetches must be at least 1")
	ErrInvalidOutputFormat = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel     = fmt.Errorf("invalid log level")
	ErrInvalidScheme       = fmt.Errorf("invalid version scheme")

	ErrNoPluginsSpecified = fmt.Errorf("no plugins specified")
	ErrInvalidPluginRef   = fmt.Errorf("invalid plugin reference")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrPluginNotFound returns ErrNotFound annotated with the plugin id.
func ErrPluginNotFound(id string) error {
	return fmt.Errorf("plugin %s not found in any repository: %w", id, ErrNotFound)
}

// ErrReleaseNotFound returns ErrNotFound annotated with the plugin id and version.
func ErrReleaseNotFound(id, version string) error {
	return fmt.Errorf("plugin %s has no release %s: %w", id, version, ErrNotFound)
}

// ErrPluginNotInstalled returns ErrNotInstalled annotated with the plugin id.
func ErrPluginNotInstalled(id string) error {
	return fmt.Errorf("plugin %s: %w", id, ErrNotInstalled)
}

// ErrRepositoryExists returns ErrAlreadyExists annotated with the repository id.
func ErrRepositoryExists(id string) error {
	return fmt.Errorf("repository with id %s: %w", id, ErrAlreadyExists)
}

// ErrEmptyRepositoryIDWithIndex returns ErrEmptyRepositoryID annotated with the list position.
func ErrEmptyRepositoryIDWithIndex(i int) error {
	return fmt.Errorf("repository %d: %w", i, ErrEmptyRepositoryID)
}

// ErrRepositoryURLEmptyWithID returns ErrRepositoryURLEmpty annotated with the repository id.
func ErrRepositoryURLEmptyWithID(id string) error {
	return fmt.Errorf("repository '%s': %w", id, ErrRepositoryURLEmpty)
}

// ErrInvalidOutputFormatWithDetails returns ErrInvalidOutputFormat with the valid options.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: table, json, yaml", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails returns ErrInvalidLogLevel with the valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}

// ErrInvalidSchemeWithDetails returns ErrInvalidScheme with the valid options.
func ErrInvalidSchemeWithDetails(scheme string) error {
	return fmt.Errorf("%w: '%s', must be one of: semver, hashicorp", ErrInvalidScheme, scheme)
}
