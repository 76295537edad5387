package lambda

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/ardnew/fz/log"
)

// Evaluator binds positional arguments to placeholders and computes the value
// of an expression.
//
// The zero Evaluator is ready to use and does not log.
type Evaluator struct {
	logger log.Logger
}

// Option configures an [Evaluator].
type Option func(Evaluator) Evaluator

// WithLogger sets the logger that receives a Trace record for every node
// evaluated.
func WithLogger(logger log.Logger) Option {
	return func(ev Evaluator) Evaluator {
		ev.logger = logger

		return ev
	}
}

// NewEvaluator returns an Evaluator configured with opts.
func NewEvaluator(opts ...Option) Evaluator {
	var ev Evaluator
	for _, opt := range opts {
		ev = opt(ev)
	}

	return ev
}

// Eval evaluates e with the given positional arguments. Extra arguments are
// ignored.
//
// Evaluation stops with the cause of ctx before any call node is invoked
// once ctx is done. Errors returned by called functions are returned
// unchanged. Panics raised by called functions are not recovered.
func (ev Evaluator) Eval(ctx context.Context, e Expr, args ...any) (any, error) {
	s := state{
		ctx:    ctx,
		args:   args,
		logger: ev.logger,
		trace:  ev.logger.Allows(ctx, log.LevelTrace),
	}

	return s.eval(e.root())
}

// Eval evaluates e with the given positional arguments using an Evaluator
// that logs to [log.Default].
func (e Expr) Eval(args ...any) (any, error) {
	return NewEvaluator(WithLogger(log.Default())).
		Eval(log.DefaultContextProvider(), e, args...)
}

// Callable returns e as an ordinary function of its positional arguments.
func (e Expr) Callable() func(args ...any) (any, error) {
	return e.Eval
}

type state struct {
	ctx    context.Context
	logger log.Logger
	args   []any
	trace  bool
}

func (s state) eval(n *node) (v any, err error) {
	if s.trace {
		defer func() {
			if err == nil {
				s.logger.TraceContext(s.ctx, "eval",
					slog.String("node", n.kind.String()),
					slog.String("type", typeName(v)),
				)
			}
		}()
	}

	switch n.kind {
	case kindLit:
		return n.value, nil

	case kindArg:
		if n.pos > len(s.args) {
			return nil, ErrArgumentCount.With(
				slog.Int("position", n.pos),
				slog.Int("count", len(s.args)),
			)
		}

		return s.args[n.pos-1], nil

	case kindUnary:
		x, err := s.eval(n.left)
		if err != nil {
			return nil, err
		}

		return applyUnary(n.op, x)

	case kindBinary:
		x, err := s.eval(n.left)
		if err != nil {
			return nil, err
		}

		y, err := s.eval(n.right)
		if err != nil {
			return nil, err
		}

		return applyBinary(n.op, x, y)

	case kindBuiltin:
		x, err := s.eval(n.left)
		if err != nil {
			return nil, err
		}

		return applyBuiltin(n.op, x)

	case kindAttr:
		x, err := s.eval(n.left)
		if err != nil {
			return nil, err
		}

		return attribute(x, n.name)

	case kindIndex:
		x, err := s.eval(n.left)
		if err != nil {
			return nil, err
		}

		k, err := s.eval(n.right)
		if err != nil {
			return nil, err
		}

		return index(x, k)

	case kindCall:
		return s.call(n)

	default:
		return nil, ErrInvalidOp.With(slog.String("node", n.kind.String()))
	}
}

func (s state) call(n *node) (any, error) {
	fn, err := s.eval(n.left)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(n.args))
	for i, a := range n.args {
		if args[i], err = s.eval(a); err != nil {
			return nil, err
		}
	}

	var kwargs map[string]any
	if len(n.kwargs) > 0 {
		kwargs = make(map[string]any, len(n.kwargs))
		for _, kw := range n.kwargs {
			if kwargs[kw.name], err = s.eval(kw.value); err != nil {
				return nil, err
			}
		}
	}

	if s.ctx != nil {
		if err := context.Cause(s.ctx); err != nil {
			return nil, err
		}
	}

	return s.invoke(fn, args, kwargs)
}

// invoke calls fn, which was obtained by evaluating the target of a call node.
func (s state) invoke(fn any, args []any, kwargs map[string]any) (any, error) {
	switch f := fn.(type) {
	case Invoker:
		return f.Invoke(args, kwargs)
	case Expr:
		return s.invokeExpr(f, args, kwargs)
	case Func:
		return s.invokeExpr(f.Expr, args, kwargs)
	case nil:
		return nil, ErrTypeMismatch.With(slog.String("reason", "nil is not callable"))
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrTypeMismatch.With(
			slog.String("reason", "not callable"),
			slog.String("type", typeName(fn)),
		)
	}

	if len(kwargs) > 0 {
		return nil, ErrTypeMismatch.With(
			slog.String("reason", "keyword arguments require an Invoker"),
			slog.String("type", typeName(fn)),
		)
	}

	in, err := convertArgs(rv.Type(), args)
	if err != nil {
		return nil, err
	}

	return results(rv.Call(in))
}

// invokeExpr evaluates e with the call's positional arguments bound to its
// placeholders.
func (s state) invokeExpr(e Expr, args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 {
		return nil, ErrTypeMismatch.With(
			slog.String("reason", "keyword arguments require an Invoker"),
			slog.String("type", "lambda.Expr"),
		)
	}

	inner := s
	inner.args = args

	return inner.eval(e.root())
}

var errorType = reflect.TypeFor[error]()

// convertArgs converts args to the parameter types of a function of type ft.
func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	want := ft.NumIn()

	if ft.IsVariadic() {
		if len(args) < want-1 {
			return nil, argCount(ft, args)
		}
	} else if len(args) != want {
		return nil, argCount(ft, args)
	}

	in := make([]reflect.Value, len(args))

	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= want-1 {
			pt = ft.In(want - 1).Elem()
		} else {
			pt = ft.In(i)
		}

		v, ok := convertArg(a, pt)
		if !ok {
			return nil, ErrTypeMismatch.With(
				slog.Int("argument", i+1),
				slog.String("want", pt.String()),
				slog.String("got", typeName(a)),
			)
		}

		in[i] = v
	}

	return in, nil
}

func argCount(ft reflect.Type, args []any) *Error {
	return ErrArgumentCount.With(
		slog.String("func", ft.String()),
		slog.Int("count", len(args)),
	)
}

func convertArg(a any, t reflect.Type) (reflect.Value, bool) {
	if a == nil {
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
			reflect.Pointer, reflect.Slice:
			return reflect.Zero(t), true
		default:
			return reflect.Value{}, false
		}
	}

	v := reflect.ValueOf(a)

	switch {
	case v.Type().AssignableTo(t):
		return v, true
	case isNumericKind(v.Kind()) && isNumericKind(t.Kind()):
		return v.Convert(t), true
	default:
		return reflect.Value{}, false
	}
}

// results maps the return values of a reflected call to a single value.
// A trailing non-nil error is returned as the call's error.
func results(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error) //nolint:forcetypeassert
		}

		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vs := make([]any, len(out))
		for i, o := range out {
			vs[i] = o.Interface()
		}

		return vs, nil
	}
}
