package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/HelmiChopin/k-colorability/internal/cnf"
	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
	"github.com/HelmiChopin/k-colorability/internal/graph"
)

const usage = `color2sat - reduce graph k-colorability to a CNF formula.

Usage:
  color2sat <graphfile|-> <k>

Reads a DIMACS .col graph description (or stdin for '-') and writes the
k-coloring CNF formula to stdout.
`

// main is the entrypoint for the color2sat binary.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "color2sat: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, outW io.Writer, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a graph file and a color count\n\n%s", usage)
	}

	// Reject a bad k before touching the graph at all.
	k, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("color count %q is not an integer: %w", args[1], cnf.ErrInvalidK)
	}
	if k < 1 {
		return fmt.Errorf("color count %d: %w", k, cnf.ErrInvalidK)
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening graph: %w", err)
		}
		defer f.Close()
		in = f
	}

	g, err := graph.Parse(ctx, in)
	if err != nil {
		return err
	}
	return cnf.Encode(outW, g, k)
}
