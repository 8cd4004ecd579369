// Package logger is the process-wide structured logger used by the update
// client and its CLI.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Fields carries structured attributes for a single log line.
type Fields map[string]interface{}

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

var (
	mu      sync.RWMutex
	current *slog.Logger
	// captured replaces stderr while a test holds it
	captured io.Writer
)

// SetTestOutput redirects loggers created by later InitLogger calls to w.
func SetTestOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	captured = w
}

// UnsetTestOutput restores stderr as the destination.
func UnsetTestOutput() {
	SetTestOutput(nil)
}

// ParseLevel maps a textual level to a slog level, falling back to info.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger replaces the global logger.
func InitLogger(logLevel string, format OutputFormat) {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer = os.Stderr
	if captured != nil {
		out = captured
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}
	if format == FormatJSON {
		current = slog.New(slog.NewJSONHandler(out, opts))
		return
	}
	current = slog.New(slog.NewTextHandler(out, opts))
}

// GetLogger returns the global logger, creating an info-level text logger on
// first use.
func GetLogger() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	InitLogger("info", FormatText)
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debug(msg string, fields ...Fields) { log(slog.LevelDebug, msg, fields) }

func Info(msg string, fields ...Fields) { log(slog.LevelInfo, msg, fields) }

func Warn(msg string, fields ...Fields) { log(slog.LevelWarn, msg, fields) }

func Error(msg string, fields ...Fields) { log(slog.LevelError, msg, fields) }

// Success logs at info level with status=success appended.
func Success(msg string, fields ...Fields) {
	log(slog.LevelInfo, msg, append(fields, Fields{"status": "success"}))
}

func log(level slog.Level, msg string, fields []Fields) {
	l := GetLogger()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	l.LogAttrs(ctx, level, msg, attrs(fields)...)
}

// attrs flattens fields in order, keys sorted within each map.
func attrs(fields []Fields) []slog.Attr {
	var out []slog.Attr
	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, slog.Any(k, f[k]))
		}
	}
	return out
}
