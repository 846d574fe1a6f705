package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/crillab/gophersat/solver"

	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
)

// Builtin is an in-process Oracle backed by the gophersat solver. It
// consumes the same formula stream a subprocess would receive and renders
// its answer in the same result-stream contract, so the rest of the run
// cannot tell the backends apart. It exists for environments without an
// external solver and for hermetic tests.
type Builtin struct{}

func (Builtin) Solve(ctx context.Context, formula io.Reader) (*Result, error) {
	pb, err := solver.ParseCNF(formula)
	if err != nil {
		return nil, fmt.Errorf("parsing formula: %w", err)
	}
	// The parser stops after the declared clause count; drain the rest so
	// an upstream pipe writer is never left blocked.
	io.Copy(io.Discard, formula) //nolint:errcheck

	s := solver.New(pb)
	ctxlog.FromContext(ctx).Debug("Solving with the builtin backend.", "vars", pb.NbVars, "clauses", len(pb.Clauses))

	var artifact bytes.Buffer
	switch s.Solve() {
	case solver.Sat:
		artifact.WriteString("SAT\n")
		buf := make([]byte, 0, 16)
		for i, val := range s.Model() {
			buf = buf[:0]
			if !val {
				buf = append(buf, '-')
			}
			buf = strconv.AppendInt(buf, int64(i+1), 10)
			buf = append(buf, ' ')
			artifact.Write(buf)
		}
		artifact.WriteString("0\n")
	case solver.Unsat:
		artifact.WriteString("UNSAT\n")
	default:
		return nil, fmt.Errorf("builtin solver reached no verdict")
	}
	return Classify(artifact.Bytes())
}
