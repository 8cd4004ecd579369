package cli

import (
	"github.com/pf4j/pf4j-update/internal/logger"
	"github.com/pf4j/pf4j-update/pkg/config"
)

// initLogger configures the global logger from the settings. Structured
// output is used when listings are machine readable.
func initLogger(cfg *config.Config) {
	format := logger.FormatText
	if cfg.Settings.OutputFormat == "json" {
		format = logger.FormatJSON
	}
	logger.InitLogger(cfg.Settings.LogLevel, format)
}
