// Package logging provides structured logging utilities.
//
// Console output is formatted as:
// [LEVEL] [HH:MM:SS] [scope] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/ledgermatch/ledgermatch/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewScopedLogger creates a logger tagged with a subsystem scope
// (e.g., "matcher", "api", "reconcile").
func NewScopedLogger(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
