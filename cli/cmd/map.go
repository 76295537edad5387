package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/fz/log"
)

// Map applies a lambda to every element of YAML input.
type Map struct {
	Output `embed:""`

	Lambda string   `arg:"" help:"Lambda applied to each element."`
	Source []string `default:"-" help:"Input file(s) or '-' for stdin." short:"s"`
	Spread bool     `help:"Pass sequence elements as separate positional arguments."`
}

// Run executes the map command.
func (m *Map) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	expr, err := compile(ctx, m.Lambda)
	if err != nil {
		return err
	}

	srcs, err := buildSourceFiles(m.Source)
	if err != nil {
		return err
	}

	ev := evaluator()
	results := []any{}

	for name, r := range srcs.All(inputFrom(ctx)) {
		items, err := readSequence(ctx, r)
		if err != nil {
			return ErrReadSource.Wrap(err).With(slog.String("source", name))
		}

		log.DebugContext(ctx, "map source",
			slog.String("source", name),
			slog.Int("items", len(items)),
		)

		for i, item := range items {
			args := []any{item}
			if seq, ok := item.([]any); ok && m.Spread {
				args = seq
			}

			v, err := ev.Eval(ctx, expr, args...)
			if err != nil {
				return ErrEval.Wrap(err).With(
					slog.String("source", name),
					slog.Int("item", i),
				)
			}

			results = append(results, v)
		}
	}

	return m.write(ctx, outputFrom(ctx), results)
}
