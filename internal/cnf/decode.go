package cnf

import (
	"fmt"

	"github.com/HelmiChopin/k-colorability/internal/graph"
)

// Coloring inverts the Var bijection on a satisfying assignment and checks
// that it describes a proper k-coloring of g: exactly one color per vertex
// and no edge with the same color on both endpoints.
//
// lits holds signed literals as a solver reports them; literals outside
// 1..n*k (and any stray 0) are ignored. The result maps vertex v to its
// 1-based color at index v-1.
func Coloring(g *graph.Graph, k int, lits []int64) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("cannot decode %d-coloring: %w", k, ErrInvalidK)
	}
	limit := NumVars(g.N, k)
	set := make([]bool, limit+1)
	for _, lit := range lits {
		if lit > 0 && lit <= limit {
			set[lit] = true
		}
	}

	colors := make([]int, g.N)
	for v := 1; v <= g.N; v++ {
		for c := 1; c <= k; c++ {
			if !set[Var(v, c, k)] {
				continue
			}
			if colors[v-1] != 0 {
				return nil, fmt.Errorf("vertex %d is assigned both color %d and color %d", v, colors[v-1], c)
			}
			colors[v-1] = c
		}
		if colors[v-1] == 0 {
			return nil, fmt.Errorf("vertex %d is assigned no color", v)
		}
	}
	for _, e := range g.Edges {
		if colors[e.U-1] == colors[e.V-1] {
			return nil, fmt.Errorf("edge (%d,%d) joins two vertices of color %d", e.U, e.V, colors[e.U-1])
		}
	}
	return colors, nil
}
