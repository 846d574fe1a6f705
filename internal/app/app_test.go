package app

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const builtinConfig = `
oracle {
  backend = "builtin"
}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// newTestApp builds an App over the builtin oracle for a hermetic run.
func newTestApp(t *testing.T, flags *Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if flags.ConfigPath == "" {
		flags.ConfigPath = writeFile(t, t.TempDir(), "kcolor.hcl", builtinConfig)
	}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	a, err := New(out, errOut, flags)
	require.NoError(t, err)
	return a, out, errOut
}

func TestRunTriangle(t *testing.T) {
	// A triangle needs exactly 3 colors: k=2 must come back unsatisfiable
	// and k=3 satisfiable.
	graphPath := writeFile(t, t.TempDir(), "triangle.col", "p edge 3 3\ne 1 2\ne 1 3\ne 2 3\n")
	a, out, _ := newTestApp(t, &Config{GraphPath: graphPath, Verify: true})

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "k = 3\nSAT\n"), "got report %q", out.String())
}

func TestRunEdgelessFromColorOne(t *testing.T) {
	graphPath := writeFile(t, t.TempDir(), "empty.col", "p edge 5 0\n")
	a, out, _ := newTestApp(t, &Config{GraphPath: graphPath, StartK: 1})

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "k = 1\n"), "got report %q", out.String())
}

func TestRunWritesOutFile(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "pair.col", "p edge 2 1\ne 1 2\n")
	outFile := filepath.Join(dir, "report.txt")
	a, out, _ := newTestApp(t, &Config{GraphPath: graphPath, OutFile: outFile})

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String(), "the report goes to the file, not stdout")
	report, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(report), "k = 2\n"))
}

func TestRunSavesTrialArtifacts(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "triangle.col", "p edge 3 3\ne 1 2\ne 1 3\ne 2 3\n")
	cnfDir := filepath.Join(dir, "cnfs")
	solDir := filepath.Join(dir, "sols")
	a, _, _ := newTestApp(t, &Config{GraphPath: graphPath, SaveCNFDir: cnfDir, SaveResultDir: solDir})

	require.NoError(t, a.Run(context.Background()))

	// One formula and one result stream per trial (k=2 and k=3).
	for _, k := range []string{"2", "3"} {
		formula, err := os.ReadFile(filepath.Join(cnfDir, "triangle_"+k+"k.cnf"))
		require.NoError(t, err)
		assert.Contains(t, string(formula), "p cnf ")

		result, err := os.ReadFile(filepath.Join(solDir, "sol_triangle_"+k+"k.out"))
		require.NoError(t, err)
		if k == "2" {
			assert.Equal(t, "UNSAT\n", string(result))
		} else {
			assert.True(t, strings.HasPrefix(string(result), "SAT\n"))
		}
	}
}

func TestRunExternalReducerStage(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// The reducer runs as a subprocess stage: it consumes the graph on
	// stdin and emits a (here trivial) formula for the oracle.
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "one.col", "p edge 1 0\n")
	configPath := writeFile(t, dir, "kcolor.hcl", `
oracle {
  backend = "builtin"
}

reducer {
  command = ["sh", "-c", "cat >/dev/null; printf 'p cnf 1 1\n1 0\n'", "reduce"]
}
`)
	a, out, _ := newTestApp(t, &Config{GraphPath: graphPath, ConfigPath: configPath, StartK: 1})

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "k = 1\n"))
}

func TestRunGraphErrors(t *testing.T) {
	t.Run("missing graph file", func(t *testing.T) {
		a, _, _ := newTestApp(t, &Config{GraphPath: filepath.Join(t.TempDir(), "nope.col")})
		assert.Error(t, a.Run(context.Background()))
	})

	t.Run("malformed graph", func(t *testing.T) {
		graphPath := writeFile(t, t.TempDir(), "bad.col", "p edge 2 1\nx 1 2\n")
		a, _, _ := newTestApp(t, &Config{GraphPath: graphPath})
		assert.Error(t, a.Run(context.Background()))
	})
}

func TestRunLogsGoToErrStream(t *testing.T) {
	graphPath := writeFile(t, t.TempDir(), "pair.col", "p edge 2 1\ne 1 2\n")
	a, out, errOut := newTestApp(t, &Config{GraphPath: graphPath, LogLevel: "debug"})

	require.NoError(t, a.Run(context.Background()))
	assert.NotContains(t, out.String(), "level=", "stdout carries only the report")
	assert.Contains(t, errOut.String(), "Trying color count")
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, &bytes.Buffer{}, &Config{ConfigPath: "nope.hcl"})
		assert.Error(t, err)
	})

	t.Run("flag overrides are validated", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "kcolor.hcl", builtinConfig)
		_, err := New(&bytes.Buffer{}, &bytes.Buffer{}, &Config{ConfigPath: path, LogLevel: "loud"})
		assert.Error(t, err)
	})
}
