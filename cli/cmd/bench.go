package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/log"
	"github.com/ardnew/fz/pkg"
)

// Bench evaluates a lambda repeatedly and reports the mean evaluation time.
//
// Combined with --pprof-mode in builds with the pprof tag, it profiles the
// evaluator.
type Bench struct {
	Lambda string   `arg:"" help:"Lambda to evaluate."`
	Args   []string `arg:"" help:"Positional arguments, each decoded as YAML." optional:""`
	Count  int      `default:"100000" help:"Number of evaluations." short:"n"`
}

// Run executes the bench command.
func (b *Bench) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	if b.Count < 1 {
		return pkg.ErrInvalidArgument.Wrapf("count %d", b.Count)
	}

	expr, err := compile(ctx, b.Lambda)
	if err != nil {
		return err
	}

	args, err := DecodeArgs(ctx, b.Args)
	if err != nil {
		return err
	}

	// Per-node tracing would dominate the measurement.
	var ev lambda.Evaluator

	start := time.Now()

	for range b.Count {
		if _, err := ev.Eval(ctx, expr, args...); err != nil {
			return ErrEval.Wrap(err).With(slog.String("lambda", expr.String()))
		}
	}

	elapsed := time.Since(start)
	mean := elapsed / time.Duration(b.Count)

	log.DebugContext(ctx, "bench complete",
		slog.Int("count", b.Count),
		slog.Duration("elapsed", elapsed),
	)

	_, err = fmt.Fprintf(outputFrom(ctx), "%s\t%d evaluations\t%s/op\n",
		expr, b.Count, mean)
	if err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
