// Package search finds the smallest number of colors for which a graph's
// coloring formula is satisfiable.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
	"github.com/HelmiChopin/k-colorability/internal/oracle"
)

// ErrExhausted means every k up to the bound came back unsatisfiable. A
// graph with n vertices is always n-colorable, so when the bound is the
// vertex count this is a defect in the reduction or the oracle, not a
// property of the graph.
var ErrExhausted = errors.New("no satisfiable color count in range")

// Trial decides k-colorability for one candidate k. An error return aborts
// the whole scan; it is never treated as an unsatisfiable answer.
type Trial func(ctx context.Context, k int) (*oracle.Result, error)

// Outcome is a successful search: the smallest satisfiable k and the
// oracle's raw payload for it.
type Outcome struct {
	K       int
	Payload []byte
}

// Run scans k = start..max in increasing order, invoking trial once per k,
// and stops at the first satisfiable answer. Trials are strictly
// sequential; each derives its own formula and shares nothing with the
// next.
func Run(ctx context.Context, start, max int, trial Trial) (*Outcome, error) {
	if start < 1 {
		return nil, fmt.Errorf("starting color count must be positive, got %d", start)
	}
	if start > max {
		return nil, fmt.Errorf("starting color count %d exceeds the upper bound %d", start, max)
	}
	logger := ctxlog.FromContext(ctx)

	for k := start; k <= max; k++ {
		logger.Info("Trying color count.", "k", k)
		res, err := trial(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("trial with %d colors: %w", k, err)
		}
		if res.Verdict == oracle.Sat {
			logger.Info("Graph is colorable.", "k", k)
			return &Outcome{K: k, Payload: res.Payload}, nil
		}
		logger.Info("Not colorable, continuing.", "k", k)
	}
	return nil, fmt.Errorf("scanned %d..%d: %w", start, max, ErrExhausted)
}
