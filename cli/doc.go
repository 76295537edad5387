// Package cli contains the command line interface for fz.
//
// # Usage
//
// The default command evaluates a lambda with positional arguments, each
// decoded as YAML:
//
//	fz '_1 * _2 + 1' 6 7
//	fz eval -o json '{"sum": _1 + _2}' 1 2
//
// Other commands:
//
//   - map: evaluate a lambda once per item of YAML documents read from
//     files or stdin
//   - fmt: print the canonical form or the tree of a lambda
//   - bench: time repeated evaluation of a lambda
//   - repl: evaluate lambdas interactively
//   - init: write the current flag values to the configuration file
//   - version: print the version
//
// # Configuration
//
// Flag defaults are read from config.yaml in the configuration directory
// (see [pkg.ConfigDir], overridden by FZ_CONFIG_DIR; the cache directory
// likewise honors FZ_CACHE_DIR). Keys name flags without the leading dashes, and
// nested mappings are joined with "-":
//
//	log:
//	  level: debug
//	  format: text
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-callsite: Include the source location of each record
//   - --log-pretty: Colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o fz .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory under [pkg.CacheDir])
package cli
