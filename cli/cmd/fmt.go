package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/fz/pkg"
)

// Fmt prints the canonical form of a lambda.
type Fmt struct {
	Lambda string `arg:"" help:"Lambda to format."`
	Tree   bool   `help:"Print the expression tree instead." short:"t"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	expr, err := compile(ctx, f.Lambda)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	if f.Tree {
		err = expr.Dump(w)
	} else {
		_, err = fmt.Fprintln(w, expr)
	}

	if err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
