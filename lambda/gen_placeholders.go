//go:build ignore

// This program generates placeholders_gen.go. Invoke it with go generate.
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
)

const maxArgs = 255

func main() {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by gen_placeholders.go; DO NOT EDIT.\n\n")
	buf.WriteString("package lambda\n\n")
	buf.WriteString("// Placeholders for positional arguments 1 through MaxArgs.\n")
	buf.WriteString("var (\n")

	for k := 1; k <= maxArgs; k++ {
		fmt.Fprintf(&buf, "\tP%d = Arg(%d)\n", k, k)
	}

	buf.WriteString(")\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile("placeholders_gen.go", src, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
