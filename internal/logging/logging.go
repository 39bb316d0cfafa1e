package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mansoorceksport/restshop/internal/config"
)

// Setup builds the process logger from the server config and installs it as
// the charmbracelet/log default, so package level log calls pick it up.
func Setup(cfg config.ServerConfig) *log.Logger {
	return setup(os.Stderr, cfg)
}

func setup(w io.Writer, cfg config.ServerConfig) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "rest-shop",
	}

	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	opts.Level = level
	if level == log.DebugLevel {
		opts.ReportCaller = true
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}

	logger := log.NewWithOptions(w, opts)
	log.SetDefault(logger)
	if err != nil && cfg.LogLevel != "" {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	return logger
}
