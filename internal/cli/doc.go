// Package cli implements the filesort command line: sorting by default, plus
// the generate and verify subcommands.
package cli
