package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts the logger stored by NewContext
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// WithCommand stores a logger tagged with the command path in ctx, taking the
// logger already in ctx as the base.
func WithCommand(ctx context.Context, command string) context.Context {
	return NewContext(ctx, FromContext(ctx).With(FieldCommand, command))
}
