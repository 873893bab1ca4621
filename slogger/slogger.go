// Package slogger provides the structured logging interface used across
// the triage pipeline, with an slog-backed implementation for processes
// and a no-op implementation for tests.
package slogger

import (
	"context"
	"strings"
)

// DefaultLogger is used when no logger is found in a context.
var DefaultLogger Logger = NewDevNullLogger()

// Logger is the structured logging interface. Key-value pairs follow the
// slog convention of alternating keys and values.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a Logger that includes the given key-value pairs on
	// every subsequent log entry.
	With(keysAndValues ...any) Logger
}

type contextKey string

const loggerKey contextKey = "triage.logger"

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger stored in the context, or DefaultLogger.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return DefaultLogger
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return DefaultLogger
}

// LevelFromString converts a level name to a LogLevel, defaulting to
// DefaultLogLevel for unrecognized values.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLogLevel
	}
}
