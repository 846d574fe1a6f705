package app

import (
	"io"
	"log/slog"

	"github.com/HelmiChopin/k-colorability/internal/config"
)

// logLevels maps the validated config enum onto slog levels.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the run's isolated logger from the validated log
// settings. It never touches the global logger, and it writes to w alone;
// stdout stays reserved for the report.
func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[cfg.Level]}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
