// Package cnf turns a k-coloring instance into an equisatisfiable DIMACS
// CNF formula.
//
// The encoding assigns one Boolean variable per (vertex, color) pair and
// emits three clause families: every vertex has at least one color, no
// vertex has two colors, and no edge joins two vertices of the same color.
package cnf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/HelmiChopin/k-colorability/internal/graph"
)

// ErrInvalidK is returned when the requested number of colors is not a
// positive integer.
var ErrInvalidK = errors.New("number of colors must be a positive integer")

// Var maps the proposition "vertex v has color c" to its CNF variable,
// for v in 1..n and c in 1..k. The mapping is the bijection
// (v-1)*k + c onto 1..n*k.
func Var(v, c, k int) int64 {
	return int64(v-1)*int64(k) + int64(c)
}

// NumVars returns the variable count of the encoding, n*k.
func NumVars(n, k int) int64 {
	return int64(n) * int64(k)
}

// NumClauses returns the exact clause count of the encoding:
// n coverage clauses, n*k*(k-1)/2 exclusivity clauses and m*k adjacency
// clauses. The arithmetic is carried out in int64 so the header stays
// correct for instances whose counts exceed 32 bits.
func NumClauses(n, m, k int) int64 {
	nn, mm, kk := int64(n), int64(m), int64(k)
	return nn + nn*kk*(kk-1)/2 + mm*kk
}

// Encode writes the k-coloring formula for g to w in DIMACS CNF format.
//
// The output is a pure function of (g, k): one comment line, the problem
// header with exact counts, then the coverage, exclusivity and adjacency
// families in that fixed order. Encoding the same instance twice yields
// byte-identical output.
func Encode(w io.Writer, g *graph.Graph, k int) error {
	if k < 1 {
		return fmt.Errorf("cannot encode %d-coloring: %w", k, ErrInvalidK)
	}
	bw := bufio.NewWriter(w)
	n, m := g.N, g.M()
	if _, err := fmt.Fprintf(bw, "c CNF: %d-coloring of %d vertices, %d edges\n", k, n, m); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", NumVars(n, k), NumClauses(n, m, k)); err != nil {
		return err
	}

	buf := make([]byte, 0, 64)

	// Coverage: each vertex carries at least one of the k colors.
	for v := 1; v <= n; v++ {
		buf = buf[:0]
		for c := 1; c <= k; c++ {
			buf = strconv.AppendInt(buf, Var(v, c, k), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	// Exclusivity: no vertex carries two colors at once.
	for v := 1; v <= n; v++ {
		for i := 1; i <= k; i++ {
			for j := i + 1; j <= k; j++ {
				if err := writeBinaryNeg(bw, &buf, Var(v, i, k), Var(v, j, k)); err != nil {
					return err
				}
			}
		}
	}

	// Adjacency: neighbors never share a color.
	for _, e := range g.Edges {
		for c := 1; c <= k; c++ {
			if err := writeBinaryNeg(bw, &buf, Var(e.U, c, k), Var(e.V, c, k)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// writeBinaryNeg emits the clause {-a, -b} as a wire line.
func writeBinaryNeg(bw *bufio.Writer, buf *[]byte, a, b int64) error {
	line := (*buf)[:0]
	line = append(line, '-')
	line = strconv.AppendInt(line, a, 10)
	line = append(line, ' ', '-')
	line = strconv.AppendInt(line, b, 10)
	line = append(line, ' ', '0', '\n')
	*buf = line
	_, err := bw.Write(line)
	return err
}
