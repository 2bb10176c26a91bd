// Package cli contains the command line interface for cfgx.
//
// # Usage
//
// Without a subcommand, cfgx translates its source arguments to XML:
//
//	cfgx app.cfgx
//	cfgx --log-level=debug xml --indent=2 base.cfgx app.cfgx
//	cat app.cfgx | cfgx fmt yaml
//
// # Configuration
//
// Flags may be preset in a configuration file under the user configuration
// directory. The file is itself cfgx source binding a dictionary named
// config, and "cfgx init" writes one populated with the current flag values.
// A JSON file of the same name with a ".json" extension is also read.
//
//	var config = {log_level: "debug", log: {pretty: "false"}};
//
// Command-line flags override configuration file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o cfgx .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/cfgx/pprof)
package cli
