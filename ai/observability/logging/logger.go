// Package logging configures the process-wide slog handler and carries
// request-scoped loggers through contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Options configures the default handler.
type Options struct {
	// Mode is the profile mode. "prod" logs JSON, anything else logs text.
	Mode string
	// Level is one of debug, info, warn, error. Defaults to info, or debug in dev.
	Level string
	// AddSource includes file:line in every record.
	AddSource bool
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to fallback.
func ParseLevel(name string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, opts Options) *slog.Logger {
	fallback := slog.LevelInfo
	if opts.Mode == "dev" {
		fallback = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level, fallback),
		AddSource: opts.AddSource,
	}

	var h slog.Handler
	if opts.Mode == "prod" {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h)
}

// Setup installs a new logger as the slog default and returns it.
func Setup(w io.Writer, opts Options) *slog.Logger {
	logger := NewLogger(w, opts)
	slog.SetDefault(logger)
	return logger
}

type loggerKey struct{}

// FromContext extracts the logger from context, or the slog default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// ToContext adds the logger to context.
func ToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}
