package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/HelmiChopin/k-colorability/internal/app"
	"github.com/HelmiChopin/k-colorability/internal/cli"
)

// main is the entrypoint for the kcolor binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintf(os.Stderr, "kcolor: %s\n", exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "kcolor: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. A nil return means a colorable k was found and reported.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a, err := app.New(outW, errW, appConfig)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
