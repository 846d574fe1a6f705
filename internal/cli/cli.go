// Package cli parses the kcolor command line into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/HelmiChopin/k-colorability/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("kcolor", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
kcolor - chromatic number of a graph via a satisfiability oracle.

Usage:
  kcolor [options] [graphfile|-]

Arguments:
  graphfile
    Path to a DIMACS .col graph description, or '-' for stdin (the default).

Options:
`)
		flagSet.PrintDefaults()
	}

	kFlag := flagSet.Int("k", 0, "Starting number of colors; must be positive. Defaults to the configured start.")
	oracleOptFlag := flagSet.String("oracle-opt", "", "Extra oracle options, whitespace-separated.")
	outFlag := flagSet.String("o", "", "Write the report to this file instead of stdout.")
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	verifyFlag := flagSet.Bool("verify", false, "Decode the satisfying assignment and check it is a proper coloring.")
	saveCNFFlag := flagSet.String("save-cnf", "", "Directory receiving each trial's formula.")
	saveResultFlag := flagSet.String("save-result", "", "Directory receiving each trial's raw result stream.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one graph file may be given"}
	}
	path := "-"
	if flagSet.NArg() == 1 {
		path = flagSet.Arg(0)
	}

	// An absent -k defers to the configured start; an explicit non-positive
	// value is an argument error, never silently ignored.
	kSet := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "k" {
			kSet = true
		}
	})
	if kSet && *kFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -k: %d is not a positive number of colors", *kFlag)}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &app.Config{
		GraphPath:     path,
		ConfigPath:    *configFlag,
		StartK:        *kFlag,
		OracleOpts:    strings.Fields(*oracleOptFlag),
		OutFile:       *outFlag,
		Verify:        *verifyFlag,
		SaveCNFDir:    *saveCNFFlag,
		SaveResultDir: *saveResultFlag,
		LogLevel:      logLevel,
		LogFormat:     logFormat,
	}, false, nil
}
