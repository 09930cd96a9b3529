package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/symscope/log"
)

func Example_text() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithTimeLayout("none"),
		log.WithPretty(false),
	)

	logger.Debug("hidden")
	logger.Info("resolved", slog.String("expr", "2 + (2 + 2)"))
	// Output: level=INFO msg=resolved expr="2 + (2 + 2)"
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false),
	)

	logger.Warn("cycle", slog.String("symbol", "a"))
	// Output: {"level":"WARN","msg":"cycle","symbol":"a"}
}
