// Package cli contains the command line interface for symscope.
//
// # Usage
//
// The default command resolves an expression against the scope composed
// from the global scope flags:
//
//	symscope -S shapes.yaml -D r=2 'pi r ^ 2'
//	symscope eval -S shapes.yaml 'area / 2'
//	echo 'a + b' | symscope fmt -o json
//
// # Configuration
//
// Flag defaults are read from config.yaml in the configuration directory,
// as written by the init command, and from config.json beside it. Nested
// YAML mappings name flags by joining their keys with hyphens:
//
//	log:
//	  level: debug
//	scope: [constants.yaml]
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o symscope .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/symscope/pprof)
package cli
