package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
	"github.com/HelmiChopin/k-colorability/internal/pipeline"
)

// ResultMode selects where an external solver writes its result stream.
type ResultMode string

const (
	// ResultFile passes a per-trial temporary file path as the command's
	// last argument and reads the result from it afterwards. This is the
	// minisat convention.
	ResultFile ResultMode = "file"
	// ResultStdout captures the command's standard output as the result
	// stream, for solvers without a result-file argument.
	ResultStdout ResultMode = "stdout"
)

// Exec is an Oracle backed by an external solver process. The formula is
// streamed to the process's stdin while the process runs, so formulas larger
// than a kernel pipe buffer cannot deadlock the trial.
type Exec struct {
	// Command is the solver command line, e.g. ["minisat"].
	Command []string
	// Args are extra options appended after Command.
	Args []string
	// Result selects the result stream location; default ResultFile.
	Result ResultMode
	// OKExitCodes lists exit codes accepted as normal solver termination
	// besides 0 (conventionally 10 for SAT, 20 for UNSAT).
	OKExitCodes []int
}

func (o *Exec) Solve(ctx context.Context, formula io.Reader) (*Result, error) {
	if len(o.Command) == 0 {
		return nil, fmt.Errorf("oracle has an empty command line")
	}
	argv := make([]string, 0, len(o.Command)+len(o.Args)+1)
	argv = append(argv, o.Command...)
	argv = append(argv, o.Args...)

	switch o.Result {
	case ResultStdout:
		return o.solveStdout(ctx, formula, argv)
	case ResultFile, "":
		return o.solveFile(ctx, formula, argv)
	default:
		return nil, fmt.Errorf("unknown oracle result mode %q", o.Result)
	}
}

// solveFile runs the solver with a temporary result-file argument and
// classifies the file's content. The file is removed on every return path.
func (o *Exec) solveFile(ctx context.Context, formula io.Reader, argv []string) (*Result, error) {
	tmp, err := os.CreateTemp("", "kcolor-result-*.out")
	if err != nil {
		return nil, fmt.Errorf("creating result file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			ctxlog.FromContext(ctx).Warn("Could not remove trial result file.", "path", path, "error", rmErr)
		}
	}()

	stage := pipeline.Exec(append(argv, path), o.OKExitCodes...)
	// The solver's own stdout is chatter (statistics), not the result.
	if err := pipeline.Run(ctx, formula, io.Discard, stage); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	return Classify(raw)
}

// solveStdout runs the solver with its stdout captured as the result stream.
func (o *Exec) solveStdout(ctx context.Context, formula io.Reader, argv []string) (*Result, error) {
	var out bytes.Buffer
	stage := pipeline.Exec(argv, o.OKExitCodes...)
	if err := pipeline.Run(ctx, formula, &out, stage); err != nil {
		return nil, err
	}
	return Classify(out.Bytes())
}
