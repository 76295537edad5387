package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/pkg"
)

// Output selects how a command prints its result.
type Output struct {
	Format string `default:"yaml" enum:"yaml,json,text" help:"Result format (${enum})."           short:"o"`
	Indent int    `default:"2"                          help:"Indent width, 0 for compact output."`
}

func (o Output) write(ctx context.Context, w io.Writer, v any) error {
	v = normalize(v)

	var (
		data []byte
		err  error
	)

	switch o.Format {
	case "", "yaml":
		opts := []yaml.EncodeOption{yaml.Flow(true)}
		if o.Indent > 0 {
			opts = []yaml.EncodeOption{yaml.Indent(o.Indent)}
		}

		data, err = yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

	case "json":
		if o.Indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", o.Indent))
		} else {
			data, err = json.Marshal(v)
		}

		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')

	case "text":
		data = []byte(text(v) + "\n")

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (want yaml, json or text)", o.Format)
	}

	if _, err := w.Write(data); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Render formats a result the way the text output format prints it.
func Render(v any) string { return text(normalize(v)) }

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}

	return fmt.Sprint(v)
}

// normalize converts v into a tree of values both encoders accept.
// Values without a data representation are rendered as strings.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string:
		return x
	case *big.Float:
		return x.Text('g', -1)
	case *lambda.Iterator:
		return "<iterator>"
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v

	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}

		return out

	case reflect.Map:
		out := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}

		return out

	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}

		if rv.Elem().Kind() == reflect.Struct {
			return v
		}

		return normalize(rv.Elem().Interface())

	case reflect.Struct:
		return v

	default:
		return fmt.Sprintf("<%T>", v)
	}
}
