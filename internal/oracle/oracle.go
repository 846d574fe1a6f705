// Package oracle abstracts the external satisfiability oracle: something
// that consumes a DIMACS CNF formula stream and answers SAT or UNSAT.
//
// The oracle's result stream follows the minisat result-file convention:
// the first line is exactly `SAT` or `UNSAT`; on SAT a second line carries
// the model as signed literals terminated by 0. Everything past the verdict
// line is opaque payload and is forwarded to the caller unparsed.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Verdict is the oracle's answer for one formula.
type Verdict int

const (
	Sat Verdict = iota
	Unsat
)

func (v Verdict) String() string {
	if v == Sat {
		return "SAT"
	}
	return "UNSAT"
}

// Result is a classified oracle answer. Payload holds the entire raw result
// stream, verdict line included, exactly as the oracle produced it.
type Result struct {
	Verdict Verdict
	Payload []byte
}

// Oracle decides satisfiability of a formula. Any returned error, including
// a subprocess failure or a malformed result stream, means the trial failed;
// it is never an UNSAT answer.
type Oracle interface {
	Solve(ctx context.Context, formula io.Reader) (*Result, error)
}

// ProtocolError reports a result stream whose leading token is not in the
// {SAT, UNSAT} contract.
type ProtocolError struct {
	Token string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("oracle result starts with %q, want exactly \"SAT\" or \"UNSAT\"", e.Token)
}

// Classify checks a raw result stream against the verdict contract. The
// first line, whitespace-trimmed, must be the whole token `SAT` or `UNSAT`;
// a prefix match such as `SATISFIABLE` does not count.
func Classify(raw []byte) (*Result, error) {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	switch token := strings.TrimSpace(string(line)); token {
	case "SAT":
		return &Result{Verdict: Sat, Payload: raw}, nil
	case "UNSAT":
		return &Result{Verdict: Unsat, Payload: raw}, nil
	default:
		return nil, &ProtocolError{Token: token}
	}
}

// Model extracts the satisfying assignment from a SAT payload: every signed
// integer after the verdict line, up to but not including the terminating 0.
func (r *Result) Model() ([]int64, error) {
	if r.Verdict != Sat {
		return nil, fmt.Errorf("no model in an %s result", r.Verdict)
	}
	body := r.Payload
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	var lits []int64
	for _, field := range strings.Fields(string(body)) {
		lit, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("model literal %q is not an integer", field)
		}
		if lit == 0 {
			break
		}
		lits = append(lits, lit)
	}
	return lits, nil
}
