// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options and are
// cheap to derive: [Logger.Wrap] overrides options and [Logger.With] adds
// attributes, both leaving the receiver untouched. The zero [Logger] discards
// everything, so components may hold one without checking for nil.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("translated", slog.Int("bindings", 3))
//
// The package-level functions log through a default logger writing to
// standard error, reconfigured with [Config].
//
// # Levels
//
// In addition to the [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] for per-token and per-statement detail.
//
// # Output
//
// Records are written as JSON ([FormatJSON], the default) or key=value text
// ([FormatText]). With [WithPretty] enabled, keys and values are colored when
// the output is a terminal and JSON objects span multiple lines.
// Timestamps follow [WithTimeLayout], which accepts named [time] layouts or
// "none".
package log
