// Package cmd implements the symscope subcommands.
//
// Every command reads its expression from the positional arguments or, when
// none are given, from standard input. The scope composed from the global
// --scope, --path and --set flags is attached to the command context by
// [WithScope] before any command runs.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default nesting depth limit.
	MaxDepthIdentifier = "maxDepth"

	// MaxChainIdentifier is the kong variable identifier containing the
	// default substitution chain limit.
	MaxChainIdentifier = "maxChain"
)
