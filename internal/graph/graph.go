// Package graph models an undirected graph read from a DIMACS .col
// description and owns its parsing rules.
package graph

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HelmiChopin/k-colorability/internal/ctxlog"
)

// Edge is a single undirected edge with 1-indexed endpoints.
type Edge struct {
	U, V int
}

// Graph is an edge-list graph. It is built once by Parse and must not be
// mutated afterwards; every later stage of a run shares the same instance.
type Graph struct {
	// N is the number of vertices; vertices are identified by 1..N.
	N int
	// Edges holds the edges in input order. Duplicates are preserved.
	Edges []Edge
}

// M returns the number of edges.
func (g *Graph) M() int { return len(g.Edges) }

// FormatError reports a fatal syntax problem in a graph description.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("graph line %d: %s", e.Line, e.Msg)
}

func formatErrf(line int, format string, args ...any) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Parse reads a DIMACS .col graph description.
//
// Lines before the problem line are skipped. The first line starting with
// 'p' must be `p edge <n> <m>`; after it, exactly m lines of the shape
// `e <u> <v>` are expected. Reaching end of input early is the one
// recoverable condition: the edge count is truncated to what was read and a
// warning is logged. Anything else in the edge region, including trailing
// content after the m-th edge, is a FormatError.
//
// Self-loops are rejected: a graph with an edge (v,v) has no proper
// coloring for any number of colors, which would break the search
// controller's guarantee that n colors always suffice.
func Parse(ctx context.Context, r io.Reader) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lineNo int
		n, m   int
	)

	// Locate and parse the problem line.
	found := false
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !strings.HasPrefix(line, "p") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != "p" || fields[1] != "edge" {
			return nil, formatErrf(lineNo, "invalid problem line %q, want \"p edge <n> <m>\"", line)
		}
		var err error
		if n, err = strconv.Atoi(fields[2]); err != nil {
			return nil, formatErrf(lineNo, "vertex count %q is not an integer", fields[2])
		}
		if m, err = strconv.Atoi(fields[3]); err != nil {
			return nil, formatErrf(lineNo, "edge count %q is not an integer", fields[3])
		}
		found = true
		break
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	if !found {
		return nil, formatErrf(lineNo, "no \"p edge <n> <m>\" problem line before end of input")
	}
	if n <= 0 {
		return nil, formatErrf(lineNo, "invalid vertex count %d, must be positive", n)
	}
	if m < 0 {
		return nil, formatErrf(lineNo, "invalid edge count %d, must not be negative", m)
	}

	g := &Graph{N: n, Edges: make([]Edge, 0, m)}
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(g.Edges) == m {
			return nil, formatErrf(lineNo, "unexpected line %q after the declared %d edges", line, m)
		}
		u, v, err := parseEdge(lineNo, line)
		if err != nil {
			return nil, err
		}
		if u < 1 || u > n || v < 1 || v > n {
			return nil, formatErrf(lineNo, "edge (%d,%d) out of range, vertices are 1..%d", u, v, n)
		}
		if u == v {
			return nil, formatErrf(lineNo, "self-loop on vertex %d, graph cannot be colored", u)
		}
		g.Edges = append(g.Edges, Edge{U: u, V: v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	if len(g.Edges) < m {
		logger.Warn("graph declares more edges than input supplies, continuing with the actual count",
			"declared", m, "read", len(g.Edges))
	}
	return g, nil
}

func parseEdge(lineNo int, line string) (u, v int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "e" {
		return 0, 0, formatErrf(lineNo, "invalid edge line %q, want \"e <u> <v>\"", line)
	}
	if u, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, formatErrf(lineNo, "edge endpoint %q is not an integer", fields[1])
	}
	if v, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, formatErrf(lineNo, "edge endpoint %q is not an integer", fields[2])
	}
	return u, v, nil
}
