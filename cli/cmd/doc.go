// Package cmd implements the cfgx subcommands: xml, fmt, query, repl, and
// init.
//
// Every command reading cfgx source embeds [Sources]: zero or more file
// paths, concatenated in order, with "-" standing for standard input.
// Commands obtain their [context.Context] from kong's bindings; tests inject
// standard streams with [WithStdio].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It is also the name of the variable the
	// configuration file binds.
	ConfigIdentifier = "config"
)
