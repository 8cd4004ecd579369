package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %s", "too"))

	base := fmt.Errorf("read plugins.json: %w", ErrDownloadFailed)
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"wrap", Wrap(base, "repository main"), "repository main: read plugins.json: download failed"},
		{"wrapf", Wrapf(base, "repository %s attempt %d", "main", 2), "repository main attempt 2: read plugins.json: download failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrDownloadFailed)
		})
	}
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"plugin not found", ErrPluginNotFound("p"), ErrNotFound, "p"},
		{"release not found", ErrReleaseNotFound("p", "1.0.0"), ErrNotFound, "1.0.0"},
		{"not installed", ErrPluginNotInstalled("p"), ErrNotInstalled, "p"},
		{"repository exists", ErrRepositoryExists("r"), ErrAlreadyExists, "r"},
		{"unsupported scheme", ErrUnsupportedScheme, ErrDownloadFailed, "scheme"},
		{"empty repository id", ErrEmptyRepositoryIDWithIndex(2), ErrEmptyRepositoryID, "2"},
		{"empty repository url", ErrRepositoryURLEmptyWithID("r"), ErrRepositoryURLEmpty, "r"},
		{"output format", ErrInvalidOutputFormatWithDetails("xml"), ErrInvalidOutputFormat, "xml"},
		{"log level", ErrInvalidLogLevelWithDetails("loud"), ErrInvalidLogLevel, "loud"},
		{"scheme", ErrInvalidSchemeWithDetails("calver"), ErrInvalidScheme, "calver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Contains(t, tt.err.Error(), tt.message)
		})
	}
}
