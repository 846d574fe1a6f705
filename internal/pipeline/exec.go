package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
)

// ExitError reports that a subprocess stage terminated with an exit code
// outside its accepted set.
type ExitError struct {
	Stage string
	Code  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("stage %q exited with code %d", e.Stage, e.Code)
}

// ExecStage runs an external command as a pipeline stage: the stage input
// becomes the command's stdin and the command's stdout becomes the stage
// output. The command's stderr goes to the process stderr so solver
// diagnostics stay visible.
type ExecStage struct {
	// Argv is the command line; Argv[0] is resolved via the PATH.
	Argv []string
	// OKExitCodes lists exit codes treated as normal termination besides 0.
	// SAT solvers conventionally exit 10 for satisfiable and 20 for
	// unsatisfiable, so those are not failures for an oracle stage.
	OKExitCodes []int
}

// Exec builds a subprocess stage from a command line.
func Exec(argv []string, okExitCodes ...int) *ExecStage {
	return &ExecStage{Argv: argv, OKExitCodes: okExitCodes}
}

func (s *ExecStage) Name() string {
	if len(s.Argv) == 0 {
		return "exec"
	}
	return filepath.Base(s.Argv[0])
}

func (s *ExecStage) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if len(s.Argv) == 0 {
		return fmt.Errorf("stage has an empty command line")
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running stage command.", "argv", s.Argv)

	cmd := exec.CommandContext(ctx, s.Argv[0], s.Argv[1:]...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == 0 || slices.Contains(s.OKExitCodes, code) {
			return nil
		}
		return &ExitError{Stage: s.Name(), Code: code}
	}
	return fmt.Errorf("starting %q: %w", s.Argv[0], err)
}
