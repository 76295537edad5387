package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/log"
	"github.com/ardnew/fz/syntax"
)

// Eval evaluates a lambda with arguments given on the command line.
type Eval struct {
	Output `embed:""`

	Lambda string   `arg:"" help:"Lambda to evaluate, e.g. '_1 + _2'."`
	Args   []string `arg:"" help:"Positional arguments, each decoded as YAML." optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	expr, err := compile(ctx, e.Lambda)
	if err != nil {
		return err
	}

	args, err := DecodeArgs(ctx, e.Args)
	if err != nil {
		return err
	}

	result, err := evaluator().Eval(ctx, expr, args...)
	if err != nil {
		return ErrEval.Wrap(err).With(
			slog.String("lambda", expr.String()),
			slog.Int("args", len(args)),
		)
	}

	return e.write(ctx, outputFrom(ctx), result)
}

func compile(ctx context.Context, src string) (lambda.Expr, error) {
	expr, err := syntax.Compile(ctx, src, syntax.WithLogger(log.Default()))
	if err != nil {
		return expr, ErrCompile.Wrap(err).With(slog.String("source", src))
	}

	log.DebugContext(ctx, "compiled",
		slog.String("lambda", expr.String()),
		slog.Int("arity", expr.Arity()),
	)

	return expr, nil
}

func evaluator() lambda.Evaluator {
	return lambda.NewEvaluator(lambda.WithLogger(log.Default()))
}
