package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/fz/pkg"
)

// Version prints the program version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintf(outputFrom(ctx), "%s %s\n", pkg.Name, pkg.Version)
	if err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
