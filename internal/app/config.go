package app

import (
	"fmt"

	"github.com/HelmiChopin/k-colorability/internal/config"
)

// Config carries the command-line surface of one run. Zero values mean "not
// set on the command line"; effective settings come from merging with the
// configuration file in New.
type Config struct {
	// GraphPath is the graph file, or "-" for stdin.
	GraphPath string
	// ConfigPath is an optional HCL configuration file.
	ConfigPath string
	// StartK overrides the search's starting color count when positive.
	StartK int
	// OracleOpts are extra solver options, appended to the configured args.
	OracleOpts []string
	// OutFile, when set, receives the report instead of stdout. It is only
	// created once a colorable k has been found.
	OutFile string
	// Verify decodes the satisfying assignment and checks it is a proper
	// coloring before reporting.
	Verify bool
	// SaveCNFDir and SaveResultDir capture each trial's formula and raw
	// result stream when set.
	SaveCNFDir    string
	SaveResultDir string

	LogLevel  string
	LogFormat string
}

// effective merges the flag surface over the file/default configuration.
func (c *Config) effective() (*config.Config, error) {
	base := config.Default()
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	if c.StartK != 0 {
		base.Search.Start = c.StartK
	}
	base.Oracle.Args = append(base.Oracle.Args, c.OracleOpts...)
	if c.LogLevel != "" {
		base.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		base.Log.Format = c.LogFormat
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return base, nil
}
