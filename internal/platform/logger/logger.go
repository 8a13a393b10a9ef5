// Package logger constructs the structured logger the rest of the
// service receives by injection.
package logger

import (
	"log/slog"
	"os"

	"muster/internal/platform/config"
)

// New builds a slog.Logger from config. JSON output goes to stdout so
// collectors can capture it; console format is for local development.
func New(cfg config.Log) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "console" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		log = log.With("hostname", hostname)
	}
	return log
}
