package syntax

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/fz/lambda"
)

// Compile parses src and returns the deferred expression it denotes.
//
// Results for the same source are cached for the life of the process
// unless opts change name resolution ([WithEnv], [WithProcessEnv]).
func Compile(ctx context.Context, src string, opts ...Option) (lambda.Expr, error) {
	cfg := apply(config{}, opts...)

	if cfg.custom() {
		cfg.logger.TraceContext(ctx, "cache bypass",
			slog.Int("env", len(cfg.env)),
			slog.Bool("process_env", cfg.processEnv != nil),
		)

		return compile(ctx, cfg, src)
	}

	return compileCached(ctx, cfg, src)
}

// MustCompile is like [Compile] but panics if src cannot be compiled.
func MustCompile(src string, opts ...Option) lambda.Expr {
	e, err := Compile(context.Background(), src, opts...)
	if err != nil {
		panic(err)
	}

	return e
}

func compile(ctx context.Context, cfg config, src string) (lambda.Expr, error) {
	if strings.TrimSpace(src) == "" {
		return lambda.Expr{}, ErrParse.With(slog.String("reason", "empty source"))
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return lambda.Expr{}, parseError(err)
	}

	c := compiler{cfg: cfg}

	e, err := c.node(tree.Node)
	if err != nil {
		return lambda.Expr{}, err
	}

	cfg.logger.TraceContext(ctx, "compile",
		slog.String("source", src),
		slog.String("expr", e.String()),
		slog.Int("arity", e.Arity()),
	)

	return e, nil
}

func parseError(err error) error {
	var fe *file.Error
	if errors.As(err, &fe) {
		return ErrParse.Wrap(errors.New(fe.Message)).With(
			slog.Int("line", fe.Line),
			slog.Int("column", fe.Column),
		)
	}

	return ErrParse.Wrap(err)
}

// compiler maps an expr-lang syntax tree onto lambda constructors.
type compiler struct {
	cfg config
}

var binaryOps = map[string]lambda.Op{
	"+":   lambda.OpAdd,
	"-":   lambda.OpSub,
	"*":   lambda.OpMul,
	"/":   lambda.OpDiv,
	"%":   lambda.OpMod,
	"**":  lambda.OpPow,
	"^":   lambda.OpPow,
	"==":  lambda.OpEq,
	"!=":  lambda.OpNe,
	"<":   lambda.OpLt,
	"<=":  lambda.OpLe,
	">":   lambda.OpGt,
	">=":  lambda.OpGe,
	"and": lambda.OpAnd,
	"&&":  lambda.OpAnd,
	"or":  lambda.OpOr,
	"||":  lambda.OpOr,
}

// binaryFuncs hold operators evaluated by an ordinary function call.
var binaryFuncs = map[string]any{
	"in":         in,
	"contains":   strings.Contains,
	"startsWith": strings.HasPrefix,
	"endsWith":   strings.HasSuffix,
	"matches":    matches,
	"..":         span,
	"??":         coalesce,
}

var unaryOps = map[string]lambda.Op{
	"-":   lambda.OpNeg,
	"+":   lambda.OpPos,
	"!":   lambda.OpNot,
	"not": lambda.OpNot,
}

func (c compiler) node(n ast.Node) (lambda.Expr, error) {
	switch n := n.(type) {
	case *ast.NilNode:
		return lambda.Lit(nil), nil
	case *ast.IntegerNode:
		return lambda.Lit(n.Value), nil
	case *ast.FloatNode:
		return lambda.Lit(n.Value), nil
	case *ast.BoolNode:
		return lambda.Lit(n.Value), nil
	case *ast.StringNode:
		return lambda.Lit(n.Value), nil
	case *ast.ConstantNode:
		return lambda.Lit(n.Value), nil

	case *ast.IdentifierNode:
		return c.ident(n)

	case *ast.UnaryNode:
		return c.unary(n)

	case *ast.BinaryNode:
		return c.binary(n)

	case *ast.ChainNode:
		return c.node(n.Node)

	case *ast.MemberNode:
		return c.member(n)

	case *ast.CallNode:
		return c.call(n)

	case *ast.BuiltinNode:
		return c.builtin(n)

	case *ast.ArrayNode:
		args, err := c.nodes(n.Nodes)
		if err != nil {
			return lambda.Expr{}, err
		}

		return lambda.F(list).Call(args...), nil

	case *ast.MapNode:
		args := make([]any, 0, 2*len(n.Pairs))

		for _, p := range n.Pairs {
			pair, ok := p.(*ast.PairNode)
			if !ok {
				return lambda.Expr{}, unsupported(p)
			}

			kv, err := c.nodes([]ast.Node{pair.Key, pair.Value})
			if err != nil {
				return lambda.Expr{}, err
			}

			args = append(args, kv...)
		}

		return lambda.F(dict).Call(args...), nil

	case *ast.SliceNode:
		parts, err := c.nodes([]ast.Node{n.Node, n.From, n.To})
		if err != nil {
			return lambda.Expr{}, err
		}

		return lambda.F(slice).Call(parts...), nil

	case *ast.ConditionalNode:
		parts, err := c.nodes([]ast.Node{n.Cond, n.Exp1, n.Exp2})
		if err != nil {
			return lambda.Expr{}, err
		}

		return lambda.F(choose).Call(parts...), nil
	}

	return lambda.Expr{}, unsupported(n)
}

// nodes compiles each of ns. A nil node compiles to the literal nil.
func (c compiler) nodes(ns []ast.Node) ([]any, error) {
	out := make([]any, len(ns))

	for i, n := range ns {
		if n == nil {
			out[i] = lambda.Lit(nil)

			continue
		}

		e, err := c.node(n)
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

func unsupported(n ast.Node) error {
	return ErrUnsupported.With(
		slog.String("node", strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")),
		slog.Int("offset", n.Location().From),
	)
}

// placeholder returns the position named by an identifier of the form _k.
func placeholder(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "_")
	if !ok || digits == "" || digits[0] == '0' {
		return 0, false
	}

	k, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return k, true
}

func (c compiler) ident(n *ast.IdentifierNode) (lambda.Expr, error) {
	if k, ok := placeholder(n.Value); ok {
		if k > lambda.MaxArgs {
			return lambda.Expr{}, ErrUnknownName.With(
				slog.String("name", n.Value),
				slog.Int("max", lambda.MaxArgs),
			)
		}

		return lambda.Arg(k), nil
	}

	if v, ok := c.cfg.lookup(n.Value); ok {
		return lambda.Lit(v), nil
	}

	return lambda.Expr{}, ErrUnknownName.With(slog.String("name", n.Value))
}

func (c compiler) unary(n *ast.UnaryNode) (lambda.Expr, error) {
	op, ok := unaryOps[n.Operator]
	if !ok {
		return lambda.Expr{}, unsupported(n)
	}

	// Fold signed numeric literals.
	if op == lambda.OpNeg {
		switch x := n.Node.(type) {
		case *ast.IntegerNode:
			return lambda.Lit(-x.Value), nil
		case *ast.FloatNode:
			return lambda.Lit(-x.Value), nil
		}
	}

	x, err := c.node(n.Node)
	if err != nil {
		return lambda.Expr{}, err
	}

	return lambda.Unary(op, x), nil
}

func (c compiler) binary(n *ast.BinaryNode) (lambda.Expr, error) {
	ops, err := c.nodes([]ast.Node{n.Left, n.Right})
	if err != nil {
		return lambda.Expr{}, err
	}

	if op, ok := binaryOps[n.Operator]; ok {
		return lambda.Binary(op, ops[0], ops[1]), nil
	}

	if fn, ok := binaryFuncs[n.Operator]; ok {
		return lambda.F(fn).Call(ops...), nil
	}

	return lambda.Expr{}, unsupported(n)
}

// static resolves a name or a chain of map lookups on a name entirely from
// the environment.
func (c compiler) static(n ast.Node) (any, bool) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		if _, ok := placeholder(n.Value); ok {
			return nil, false
		}

		return c.cfg.lookup(n.Value)

	case *ast.MemberNode:
		key, ok := n.Property.(*ast.StringNode)
		if !ok || n.Optional {
			return nil, false
		}

		v, ok := c.static(n.Node)
		if !ok {
			return nil, false
		}

		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}

		v, ok = m[key.Value]

		return v, ok
	}

	return nil, false
}

// isAttr reports whether m was written with a dot rather than brackets.
// The parser locates dotted members at their property name.
func isAttr(m *ast.MemberNode) bool {
	_, ok := m.Property.(*ast.StringNode)

	return ok && m.Location() == m.Property.Location()
}

func (c compiler) member(n *ast.MemberNode) (lambda.Expr, error) {
	if n.Optional {
		return lambda.Expr{}, unsupported(n)
	}

	if v, ok := c.static(n); ok {
		return lambda.Lit(v), nil
	}

	x, err := c.node(n.Node)
	if err != nil {
		return lambda.Expr{}, err
	}

	if isAttr(n) {
		name := n.Property.(*ast.StringNode).Value //nolint:forcetypeassert
		if lambda.IsReserved(name) {
			return lambda.Expr{}, ErrReservedName.With(slog.String("name", name))
		}

		return x.Attr(name), nil
	}

	k, err := c.node(n.Property)
	if err != nil {
		return lambda.Expr{}, err
	}

	return x.Index(k), nil
}

// builtinOps are the callee names compiled to a lambda builtin node when
// called with a single argument.
var builtinOps = map[string]lambda.Op{
	"abs":  lambda.OpAbs,
	"iter": lambda.OpIter,
	"next": lambda.OpNext,
}

func (c compiler) call(n *ast.CallNode) (lambda.Expr, error) {
	args, err := c.nodes(n.Arguments)
	if err != nil {
		return lambda.Expr{}, err
	}

	if id, ok := n.Callee.(*ast.IdentifierNode); ok && len(args) == 1 {
		if _, shadowed := c.cfg.env[id.Value]; !shadowed {
			if op, ok := builtinOps[id.Value]; ok {
				return lambda.Unary(op, args[0]), nil
			}
		}
	}

	if fn, ok := c.static(n.Callee); ok {
		return lambda.F(fn).Call(args...), nil
	}

	target, err := c.node(n.Callee)
	if err != nil {
		return lambda.Expr{}, err
	}

	return lambda.F(target).Call(args...), nil
}

// builtin compiles calls of the expr-lang builtin names the parser
// recognizes. Only those with a prelude counterpart are supported.
func (c compiler) builtin(n *ast.BuiltinNode) (lambda.Expr, error) {
	args, err := c.nodes(n.Arguments)
	if err != nil {
		return lambda.Expr{}, err
	}

	if op, ok := builtinOps[n.Name]; ok && len(args) == 1 {
		if _, shadowed := c.cfg.env[n.Name]; !shadowed {
			return lambda.Unary(op, args[0]), nil
		}
	}

	fn, ok := c.cfg.lookup(n.Name)
	if !ok {
		return lambda.Expr{}, ErrUnsupported.With(
			slog.String("builtin", n.Name),
			slog.Int("offset", n.Location().From),
		)
	}

	return lambda.F(fn).Call(args...), nil
}
