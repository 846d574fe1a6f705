// Package ctxlog threads a slog.Logger through context.Context, so every
// layer of a run logs through the same configured instance without a shared
// global.
package ctxlog

import (
	"context"
	"log/slog"
)

// ctxKey is an unexported type to prevent collisions with context keys from
// other packages.
type ctxKey struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns the default global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
