package lambda

import "maps"

// Func is an expression whose value is a callable, and which can therefore
// be called without evaluating it.
//
// A Func supports every [Expr] operation. Evaluating the Func itself yields
// the wrapped callable.
type Func struct {
	Expr
}

// F wraps fn so that calling it is deferred.
//
// If fn is an [Expr], the expression itself becomes the call target, and it
// is evaluated to obtain the callable: F(P1).Call(P3, P2) calls the first
// argument with the third and second arguments, in that order.
//
// The callable obtained at evaluation time may be any Go func, an [Expr],
// a [Func], or an [Invoker].
func F(fn any) Func { return Func{Expr{wrap(fn)}} }

// V is an alias of [F].
func V(fn any) Func { return F(fn) }

// Call returns an expression calling f with the given positional arguments.
// Arguments may themselves be expressions.
func (f Func) Call(args ...any) Expr {
	return Expr{newCall(f.root(), wrapAll(args), nil)}
}

// CallKw returns an expression calling f with the given keyword and
// positional arguments. Keyword arguments are only accepted by targets that
// implement [Invoker].
func (f Func) CallKw(kwargs map[string]any, args ...any) Expr {
	kw := make([]kwarg, 0, len(kwargs))

	for name, v := range maps.All(kwargs) {
		kw = append(kw, kwarg{name: name, value: wrap(v)})
	}

	return Expr{newCall(f.root(), wrapAll(args), kw)}
}

func wrapAll(args []any) []*node {
	if len(args) == 0 {
		return nil
	}

	n := make([]*node, len(args))
	for i, a := range args {
		n[i] = wrap(a)
	}

	return n
}

// Invoker is implemented by callables that accept keyword arguments.
type Invoker interface {
	Invoke(args []any, kwargs map[string]any) (any, error)
}

// InvokerFunc adapts an ordinary function to [Invoker].
type InvokerFunc func(args []any, kwargs map[string]any) (any, error)

// Invoke calls f(args, kwargs).
func (f InvokerFunc) Invoke(args []any, kwargs map[string]any) (any, error) {
	return f(args, kwargs)
}
