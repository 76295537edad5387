package lambda

import (
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// String renders e in infix notation with placeholders written _1, _2, and
// so on. Parentheses appear only where operator precedence requires them.
func (e Expr) String() string {
	var sb strings.Builder
	render(&sb, e.root(), precCompare)

	return sb.String()
}

// Dump writes the expression tree of e to w, one node per line, indenting
// each node beneath its parent.
func (e Expr) Dump(w io.Writer) error {
	return dump(w, e.root(), 0)
}

func dump(w io.Writer, n *node, depth int) error {
	var detail string

	switch n.kind {
	case kindLit:
		detail = literal(n.value)
	case kindArg:
		detail = placeholderName(n.pos)
	case kindUnary, kindBinary, kindBuiltin:
		detail = n.op.String()
	case kindAttr:
		detail = n.name
	case kindCall:
		detail = fmt.Sprintf("args=%d kwargs=%d", len(n.args), len(n.kwargs))
	}

	_, err := fmt.Fprintf(w, "%s%s %s\n",
		strings.Repeat("  ", depth), n.kind, detail)
	if err != nil {
		return err
	}

	for i, c := range n.children() {
		if n.kind == kindCall && i > len(n.args) {
			kw := n.kwargs[i-len(n.args)-1]
			if _, err := fmt.Fprintf(w, "%s%s=\n",
				strings.Repeat("  ", depth+1), kw.name); err != nil {
				return err
			}

			if err := dump(w, c, depth+2); err != nil {
				return err
			}

			continue
		}

		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func placeholderName(pos int) string { return "_" + strconv.Itoa(pos) }

// render writes n to sb, parenthesized if it binds looser than ctx.
func render(sb *strings.Builder, n *node, ctx int) {
	prec := n.precedence()
	if prec < ctx {
		sb.WriteByte('(')
		defer sb.WriteByte(')')
	}

	switch n.kind {
	case kindLit:
		sb.WriteString(literal(n.value))

	case kindArg:
		sb.WriteString(placeholderName(n.pos))

	case kindUnary:
		sb.WriteString(n.op.String())
		// Keep "- -x" from reading as a decrement.
		if c := n.left; c.kind == kindUnary && c.op == n.op {
			sb.WriteByte(' ')
		}

		render(sb, n.left, precUnary)

	case kindBinary:
		left, right := prec, prec+1
		if prec == precCompare {
			// a < b == c would read as a chained comparison.
			left = prec + 1
		}

		if n.op == OpPow {
			// Right-associative, and the left operand of ** binds tighter than
			// a unary prefix: (-x) ** y.
			left, right = precPow+1, precUnary
		}

		render(sb, n.left, left)
		sb.WriteByte(' ')
		sb.WriteString(n.op.String())
		sb.WriteByte(' ')
		render(sb, n.right, right)

	case kindBuiltin:
		sb.WriteString(n.op.String())
		sb.WriteByte('(')
		render(sb, n.left, precCompare)
		sb.WriteByte(')')

	case kindAttr:
		render(sb, n.left, precAtom)
		sb.WriteByte('.')
		sb.WriteString(n.name)

	case kindIndex:
		render(sb, n.left, precAtom)
		sb.WriteByte('[')
		render(sb, n.right, precCompare)
		sb.WriteByte(']')

	case kindCall:
		render(sb, n.left, precAtom)
		sb.WriteByte('(')

		sep := ""
		for _, a := range n.args {
			sb.WriteString(sep)
			render(sb, a, precCompare)

			sep = ", "
		}

		for _, kw := range n.kwargs {
			sb.WriteString(sep)
			sb.WriteString(kw.name)
			sb.WriteByte('=')
			render(sb, kw.value, precCompare)

			sep = ", "
		}

		sb.WriteByte(')')
	}
}

func (n *node) precedence() int {
	switch n.kind {
	case kindUnary, kindBinary:
		return n.op.precedence()
	case kindLit:
		// Negative numbers render with a leading sign.
		if s := literal(n.value); strings.HasPrefix(s, "-") {
			return precUnary
		}

		return precAtom
	default:
		return precAtom
	}
}

// literal renders a captured value.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return "nil"
		}

		if fn := runtime.FuncForPC(rv.Pointer()); fn != nil {
			name := fn.Name()
			if i := strings.LastIndexByte(name, '/'); i >= 0 {
				name = name[i+1:]
			}

			return name
		}

		return "func"
	}

	return fmt.Sprint(v)
}
