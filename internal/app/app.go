package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/HelmiChopin/k-colorability/internal/config"
	"github.com/HelmiChopin/k-colorability/internal/oracle"
)

// App encapsulates one run's dependencies: the effective configuration, an
// isolated logger, the oracle backend and the output streams. Results go to
// outW (or the configured output file); all diagnostics go to the logger on
// errW, so stdout stays clean for the report.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	flags  *Config
	cfg    *config.Config
	oracle oracle.Oracle
}

// New builds a fully initialized App from the flag surface: configuration
// file loaded and merged, logger configured, oracle backend selected.
func New(outW, errW io.Writer, flags *Config) (*App, error) {
	cfg, err := flags.effective()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, errW)
	logger.Debug("Logger configured successfully.")

	var orc oracle.Oracle
	switch cfg.Oracle.Backend {
	case "builtin":
		orc = oracle.Builtin{}
	case "exec":
		orc = &oracle.Exec{
			Command:     cfg.Oracle.Command,
			Args:        cfg.Oracle.Args,
			Result:      oracle.ResultMode(cfg.Oracle.Result),
			OKExitCodes: cfg.Oracle.AcceptExitCodes,
		}
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.Oracle.Backend)
	}
	logger.Debug("Oracle backend selected.", "backend", cfg.Oracle.Backend)

	return &App{
		outW:   outW,
		logger: logger,
		flags:  flags,
		cfg:    cfg,
		oracle: orc,
	}, nil
}
