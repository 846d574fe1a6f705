// Package app wires a chromatic-number run together: it merges flags with
// the configuration file, builds the logger and the oracle backend, and
// drives the search over candidate color counts.
package app
