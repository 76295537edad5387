package cmd

import (
	"context"
	"errors"
	"io"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/fz/pkg"
)

// DecodeArgs decodes each command-line argument as a YAML value, so that
// 42 is a number, [1, 2] a sequence and hello a string.
func DecodeArgs(ctx context.Context, args []string) ([]any, error) {
	out := make([]any, len(args))

	for i, a := range args {
		if err := yaml.UnmarshalContext(ctx, []byte(a), &out[i]); err != nil {
			return nil, pkg.ErrInvalidArgument.Wrapf("argument %d: %w", i+1, err)
		}

		out[i] = Native(out[i])
	}

	return out, nil
}

// readSequence decodes every YAML document in r. A document holding a
// sequence contributes its elements; any other document is one element.
func readSequence(ctx context.Context, r io.Reader) ([]any, error) {
	// Prefetch the input while earlier documents are decoded.
	ra := readahead.NewReader(r)
	defer ra.Close()

	dec := yaml.NewDecoder(ra)

	var out []any

	for {
		var doc any

		err := dec.DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		doc = Native(doc)

		if seq, ok := doc.([]any); ok {
			out = append(out, seq...)
		} else {
			out = append(out, doc)
		}
	}
}

// Native converts the integers decoded by the YAML decoder (uint64 and
// int64) to int where they fit, so that lambda arithmetic stays signed.
func Native(v any) any {
	switch x := v.(type) {
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x)
		}
	case []any:
		for i := range x {
			x[i] = Native(x[i])
		}
	case map[string]any:
		for k := range x {
			x[k] = Native(x[k])
		}
	}

	return v
}
