// Package config holds the run configuration: which oracle to use and how
// to invoke it, how the reduction runs, the search bounds and logging. An
// optional HCL file refines the compiled-in defaults; command-line flags
// override both.
package config
