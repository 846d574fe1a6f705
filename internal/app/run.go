package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/HelmiChopin/k-colorability/internal/cnf"
	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
	"github.com/HelmiChopin/k-colorability/internal/graph"
	"github.com/HelmiChopin/k-colorability/internal/oracle"
	"github.com/HelmiChopin/k-colorability/internal/pipeline"
	"github.com/HelmiChopin/k-colorability/internal/search"
)

// Run executes the whole search: parse the graph, scan candidate color
// counts through the oracle, and write the report. A nil return means a
// colorable k was found and reported.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	raw, err := readGraph(a.flags.GraphPath)
	if err != nil {
		return err
	}
	g, err := graph.Parse(ctx, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	a.logger.Info("Graph loaded.", "vertices", g.N, "edges", g.M())

	max := a.cfg.Search.Max
	if max == 0 {
		// A graph is always colorable with one color per vertex.
		max = g.N
	}

	outcome, err := search.Run(ctx, a.cfg.Search.Start, max, func(ctx context.Context, k int) (*oracle.Result, error) {
		return a.trial(ctx, g, raw, k)
	})
	if err != nil {
		return err
	}

	if a.flags.Verify {
		if err := a.verify(g, outcome); err != nil {
			return fmt.Errorf("verifying the %d-coloring: %w", outcome.K, err)
		}
		a.logger.Info("Assignment verified as a proper coloring.", "k", outcome.K)
	}
	return a.report(outcome)
}

// trial decides k-colorability once: the reduction stage feeds the oracle
// through a concurrent pipeline, and the oracle's raw result stream is
// classified into a verdict.
func (a *App) trial(ctx context.Context, g *graph.Graph, raw []byte, k int) (*oracle.Result, error) {
	stage, err := a.reducerStage(g, k)
	if err != nil {
		return nil, err
	}

	if a.flags.SaveCNFDir != "" {
		f, err := createArtifact(a.flags.SaveCNFDir, fmt.Sprintf("%s_%dk.cnf", a.graphBase(), k))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		stage = pipeline.Tee(stage, f)
	}

	// The exec reducer reads the graph on stdin; the in-process stage
	// already holds the parsed graph and ignores its input. Closing the
	// formula stream unblocks the reduction if the oracle stops early.
	formula := pipeline.Feed(ctx, bytes.NewReader(raw), stage)
	defer formula.Close()
	res, err := a.oracle.Solve(ctx, formula)
	if err != nil {
		return nil, err
	}

	if a.flags.SaveResultDir != "" {
		f, err := createArtifact(a.flags.SaveResultDir, fmt.Sprintf("sol_%s_%dk.out", a.graphBase(), k))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if _, err := f.Write(res.Payload); err != nil {
			return nil, fmt.Errorf("saving result stream: %w", err)
		}
	}
	return res, nil
}

// reducerStage builds the formula-producing stage for one k: an external
// command when configured (the candidate color count is appended as its
// last argument), otherwise the in-process encoder.
func (a *App) reducerStage(g *graph.Graph, k int) (pipeline.Stage, error) {
	if cmd := a.cfg.Reducer.Command; len(cmd) > 0 {
		argv := append(slices.Clone(cmd), strconv.Itoa(k))
		return pipeline.Exec(argv), nil
	}
	if k < 1 {
		return nil, fmt.Errorf("cannot reduce with %d colors: %w", k, cnf.ErrInvalidK)
	}
	return pipeline.Func("reduce", func(ctx context.Context, in io.Reader, out io.Writer) error {
		return cnf.Encode(out, g, k)
	}), nil
}

// verify decodes the satisfying assignment behind the outcome and checks it
// is a proper coloring. A failure here is an internal defect, not a
// property of the graph.
func (a *App) verify(g *graph.Graph, outcome *search.Outcome) error {
	res := &oracle.Result{Verdict: oracle.Sat, Payload: outcome.Payload}
	lits, err := res.Model()
	if err != nil {
		return err
	}
	_, err = cnf.Coloring(g, outcome.K, lits)
	return err
}

// report writes `k = <value>` followed by the oracle's raw payload to
// stdout, or to the output file when one is configured. The file is only
// created on success.
func (a *App) report(outcome *search.Outcome) error {
	w := a.outW
	if a.flags.OutFile != "" {
		f, err := os.Create(a.flags.OutFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := fmt.Fprintf(w, "k = %d\n", outcome.K); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if _, err := w.Write(outcome.Payload); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// graphBase names per-trial artifacts after the graph file.
func (a *App) graphBase() string {
	if a.flags.GraphPath == "-" {
		return "stdin"
	}
	base := filepath.Base(a.flags.GraphPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func createArtifact(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating artifact file: %w", err)
	}
	return f, nil
}

// readGraph loads the whole graph description up front; the original does
// the same, and an external reducer stage needs to replay it per trial.
func readGraph(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading graph from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	return raw, nil
}
