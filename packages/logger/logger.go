// Package logger builds the slog loggers used across studyhub.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type Options struct {
	Level       string
	Environment string
	Writer      io.Writer
	NoColor     bool
}

// ParseLevel converts a string log level to slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger. The dev environment gets colorized text, anything
// else gets JSON. Output goes to stderr unless opts.Writer is set.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)

	if opts.Environment == "dev" {
		return slog.New(
			tint.NewHandler(w, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
				NoColor:    opts.NoColor,
			}),
		)
	}
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type contextKey struct {
	name string
}

var loggerKey = contextKey{"logger"}

// ContextWithLogger stores logger in ctx.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
