// Package cmd implements the fz subcommands.
//
// Each command is a kong command struct whose Run method receives the
// context built by package cli. Lambdas given on the command line are
// compiled with package syntax; arguments and input documents are decoded
// as YAML.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
