// Package log is the structured logging used throughout fz, a thin layer
// over [log/slog].
//
// A [Logger] is made once from functional options and never changes:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// [Logger.Wrap] derives a logger with some options replaced and
// [Logger.With] one that adds attributes to every record. Records are
// written through the level methods, each taking a context and typed
// [slog.Attr] values:
//
//	logger.TraceContext(ctx, "eval", slog.String("node", "binary"))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and carries one record for every
// node the evaluator visits. It is written as "TRACE" by every handler.
// [Logger.Allows] lets hot paths skip building attributes that would be
// dropped.
//
// # Handlers
//
// [FormatJSON] and [FormatText] select slog's own handlers. With
// [WithPretty] they are replaced by colorized handlers meant for a
// terminal, which flatten groups and [slog.LogValuer] values (the errors
// of the lambda and syntax packages among them) into dotted keys.
//
// # Default logger
//
// The package-level functions write through [Default], which logs to stderr
// until [Config] or [SetDefault] replaces it. Those without a context
// argument use [DefaultContextProvider].
package log
