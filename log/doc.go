// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339nano"),
//		log.WithCaller(true))
//
// Every method takes [slog.Attr] values rather than alternating keys and
// values. Each level has a context-aware variant; the others use
// [DefaultContextProvider].
//
//	logger.Info("resolved", slog.String("expr", "2 + x"))
//	logger.TraceContext(ctx, "enter", slog.Int("depth", 3))
//
// The zero Logger discards everything, so packages that accept a Logger
// through an option need no nil checks.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug]. Levels and formats implement
// [encoding.TextUnmarshaler] so they can be decoded from flags and
// configuration files.
//
// # Pretty output
//
// With [WithPretty] enabled, text and JSON records are rendered for reading
// in a terminal. Colors follow the capabilities of the output and are
// omitted entirely when it is not a terminal.
//
// # Default logger
//
// The package-level functions log through a default logger that writes to
// standard error and is reconfigured with [Config].
package log
