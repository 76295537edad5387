package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/fz/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false),
		log.WithLevel(log.LevelTrace),
	)

	ctx := context.Background()

	logger.InfoContext(ctx, "compiled", slog.String("src", "_1 + 1"))
	logger.TraceContext(ctx, "eval", slog.String("node", "binary"))
	logger.With(slog.Int("arg", 1)).DebugContext(ctx, "bound")

	// Output:
	// level=INFO msg=compiled src="_1 + 1"
	// level=TRACE msg=eval node=binary
	// level=DEBUG msg=bound arg=1
}
