package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config is the effective configuration of one run.
type Config struct {
	Oracle  Oracle
	Reducer Reducer
	Search  Search
	Log     Log
}

// Oracle configures the satisfiability backend.
type Oracle struct {
	// Backend is "exec" (external solver process) or "builtin" (in-process
	// gophersat).
	Backend string
	// Command is the solver command line for the exec backend.
	Command []string
	// Args are extra solver options appended after Command.
	Args []string
	// Result is "file" (result-file argument, the minisat convention) or
	// "stdout".
	Result string
	// AcceptExitCodes are solver exit codes treated as normal termination.
	AcceptExitCodes []int
}

// Reducer configures how the formula is produced. An empty Command runs the
// reduction in-process; otherwise the command runs as an external stage
// reading the graph on stdin and writing the formula on stdout.
type Reducer struct {
	Command []string
}

// Search bounds the scan over candidate color counts.
type Search struct {
	Start int
	// Max is the inclusive upper bound; 0 means the graph's vertex count.
	Max int
}

// Log configures the logger.
type Log struct {
	Level  string
	Format string
}

// Default returns the compiled-in configuration: minisat reading stdin via
// the result-file convention, search from 2 colors, text logs at info.
func Default() *Config {
	return &Config{
		Oracle: Oracle{
			Backend: "exec",
			// minisat reads the formula from '-' (stdin) and writes its
			// verdict to the result-file path appended per trial.
			Command:         []string{"minisat", "-"},
			Result:          "file",
			AcceptExitCodes: []int{0, 10, 20},
		},
		Search: Search{Start: 2},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// fileSchema mirrors the HCL surface; every attribute is optional so a file
// only states what it changes.
type fileSchema struct {
	Oracle  *oracleBlock  `hcl:"oracle,block"`
	Reducer *reducerBlock `hcl:"reducer,block"`
	Search  *searchBlock  `hcl:"search,block"`
	Log     *logBlock     `hcl:"log,block"`
}

type oracleBlock struct {
	Backend         *string  `hcl:"backend,optional"`
	Command         []string `hcl:"command,optional"`
	Args            []string `hcl:"args,optional"`
	Result          *string  `hcl:"result,optional"`
	AcceptExitCodes []int    `hcl:"accept_exit_codes,optional"`
}

type reducerBlock struct {
	Command []string `hcl:"command,optional"`
}

type searchBlock struct {
	Start *int `hcl:"start,optional"`
	Max   *int `hcl:"max,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load parses an HCL configuration file and overlays it on the defaults.
// String expressions may reference the process environment as `env.*`, so a
// solver path can be written as `command = [env.MINISAT]`.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &schema); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	cfg := Default()
	if b := schema.Oracle; b != nil {
		if b.Backend != nil {
			cfg.Oracle.Backend = *b.Backend
		}
		if b.Command != nil {
			cfg.Oracle.Command = b.Command
		}
		if b.Args != nil {
			cfg.Oracle.Args = b.Args
		}
		if b.Result != nil {
			cfg.Oracle.Result = *b.Result
		}
		if b.AcceptExitCodes != nil {
			cfg.Oracle.AcceptExitCodes = b.AcceptExitCodes
		}
	}
	if b := schema.Reducer; b != nil && b.Command != nil {
		cfg.Reducer.Command = b.Command
	}
	if b := schema.Search; b != nil {
		if b.Start != nil {
			cfg.Search.Start = *b.Start
		}
		if b.Max != nil {
			cfg.Search.Max = *b.Max
		}
	}
	if b := schema.Log; b != nil {
		if b.Level != nil {
			cfg.Log.Level = *b.Level
		}
		if b.Format != nil {
			cfg.Log.Format = *b.Format
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated fields and the search bounds.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"exec", "builtin"}, c.Oracle.Backend) {
		return fmt.Errorf("oracle backend must be \"exec\" or \"builtin\", got %q", c.Oracle.Backend)
	}
	if c.Oracle.Backend == "exec" && len(c.Oracle.Command) == 0 {
		return fmt.Errorf("the exec oracle backend needs a command")
	}
	if !slices.Contains([]string{"file", "stdout"}, c.Oracle.Result) {
		return fmt.Errorf("oracle result must be \"file\" or \"stdout\", got %q", c.Oracle.Result)
	}
	if c.Search.Start < 1 {
		return fmt.Errorf("search start must be positive, got %d", c.Search.Start)
	}
	if c.Search.Max < 0 {
		return fmt.Errorf("search max must not be negative, got %d", c.Search.Max)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("log format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// evalContext exposes the process environment to the configuration file as
// the `env` object.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
			env[name] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}
