package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, done, err := Parse(nil, out)
	require.NoError(t, err)
	require.False(t, done)
	assert.Equal(t, "-", cfg.GraphPath, "graph defaults to stdin")
	assert.Zero(t, cfg.StartK)
	assert.Empty(t, cfg.OracleOpts)
	assert.False(t, cfg.Verify)
}

func TestParseAllFlags(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{
		"-k", "3",
		"-oracle-opt", "-no-pre  -rnd-seed=7",
		"-o", "result.txt",
		"-config", "kcolor.hcl",
		"-verify",
		"-save-cnf", "cnfs",
		"-save-result", "sols",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"graph.col",
	}
	cfg, done, err := Parse(args, out)
	require.NoError(t, err)
	require.False(t, done)
	assert.Equal(t, "graph.col", cfg.GraphPath)
	assert.Equal(t, 3, cfg.StartK)
	assert.Equal(t, []string{"-no-pre", "-rnd-seed=7"}, cfg.OracleOpts, "options tokenize on whitespace")
	assert.Equal(t, "result.txt", cfg.OutFile)
	assert.Equal(t, "kcolor.hcl", cfg.ConfigPath)
	assert.True(t, cfg.Verify)
	assert.Equal(t, "cnfs", cfg.SaveCNFDir)
	assert.Equal(t, "sols", cfg.SaveResultDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseHelp(t *testing.T) {
	out := &bytes.Buffer{}
	_, done, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-frobnicate"}},
		{"negative k", []string{"-k", "-2"}},
		{"explicit zero k", []string{"-k", "0"}},
		{"non-numeric k", []string{"-k", "three"}},
		{"bad log level", []string{"-log-level", "verbose"}},
		{"bad log format", []string{"-log-format", "yaml"}},
		{"two graph files", []string{"a.col", "b.col"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
