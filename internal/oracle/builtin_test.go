package oracle

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelmiChopin/k-colorability/internal/cnf"
	"github.com/HelmiChopin/k-colorability/internal/graph"
)

func encodeGraph(t *testing.T, in string, k int) (*graph.Graph, []byte) {
	t.Helper()
	g, err := graph.Parse(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	var formula bytes.Buffer
	require.NoError(t, cnf.Encode(&formula, g, k))
	return g, formula.Bytes()
}

func encodeTriangle(t *testing.T, k int) (*graph.Graph, []byte) {
	t.Helper()
	return encodeGraph(t, "p edge 3 3\ne 1 2\ne 1 3\ne 2 3\n", k)
}

func TestBuiltinUnsat(t *testing.T) {
	// A triangle has no proper 2-coloring.
	_, formula := encodeTriangle(t, 2)
	res, err := Builtin{}.Solve(context.Background(), bytes.NewReader(formula))
	require.NoError(t, err)
	assert.Equal(t, Unsat, res.Verdict)
	assert.Equal(t, "UNSAT\n", string(res.Payload))
}

func TestBuiltinSat(t *testing.T) {
	g, formula := encodeTriangle(t, 3)
	res, err := Builtin{}.Solve(context.Background(), bytes.NewReader(formula))
	require.NoError(t, err)
	require.Equal(t, Sat, res.Verdict)

	// The payload follows the result-file contract and decodes to a proper
	// 3-coloring.
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("SAT\n")))
	lits, err := res.Model()
	require.NoError(t, err)
	colors, err := cnf.Coloring(g, 3, lits)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, colors)
}

func TestBuiltinSingleColorBoundary(t *testing.T) {
	// One color suffices exactly when the graph has no edges: any edge
	// forces its endpoints onto the same single color.
	t.Run("an edge makes one color unsatisfiable", func(t *testing.T) {
		_, formula := encodeGraph(t, "p edge 2 1\ne 1 2\n", 1)
		res, err := Builtin{}.Solve(context.Background(), bytes.NewReader(formula))
		require.NoError(t, err)
		assert.Equal(t, Unsat, res.Verdict)
	})

	t.Run("edgeless stays satisfiable", func(t *testing.T) {
		_, formula := encodeGraph(t, "p edge 2 0\n", 1)
		res, err := Builtin{}.Solve(context.Background(), bytes.NewReader(formula))
		require.NoError(t, err)
		assert.Equal(t, Sat, res.Verdict)
	})
}

func TestBuiltinMonotonicity(t *testing.T) {
	// A 4-cycle is 2-colorable, so every larger color count must stay
	// satisfiable; the search's upper bound relies on this.
	const square = "p edge 4 4\ne 1 2\ne 2 3\ne 3 4\ne 4 1\n"
	for k := 2; k <= 4; k++ {
		g, formula := encodeGraph(t, square, k)
		res, err := Builtin{}.Solve(context.Background(), bytes.NewReader(formula))
		require.NoError(t, err, "k=%d", k)
		require.Equal(t, Sat, res.Verdict, "k=%d", k)

		lits, err := res.Model()
		require.NoError(t, err)
		_, err = cnf.Coloring(g, k, lits)
		assert.NoError(t, err, "assignment at k=%d must be a proper coloring", k)
	}
}

func TestBuiltinMalformedFormula(t *testing.T) {
	_, err := Builtin{}.Solve(context.Background(), strings.NewReader("this is not a formula"))
	assert.Error(t, err)
}
