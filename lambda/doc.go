// Package lambda builds deferred expressions: values that record the
// operations applied to them and compute a result only when evaluated
// with concrete arguments.
//
// # Placeholders
//
// The placeholders [P1] through [P255] (also available as [Arg](k)) stand
// for the positional arguments supplied at evaluation time. A placeholder
// may appear any number of times in an expression, and positions need not
// be contiguous:
//
//	sq := lambda.P1.Mul(lambda.P1)
//	v, err := sq.Eval(7) // 49
//
// # Interception
//
// Every operator is a method on [Expr]: arithmetic (Add, Sub, Mul, Div,
// FloorDiv, Mod, Pow), bitwise (And, Or, Xor, Shl, Shr), comparison (Lt, Le,
// Eq, Ne, Ge, Gt), unary (Neg, Pos, Invert, Not), the builtins Abs, Iter and
// Next, attribute access (Attr) and subscripting (Index). Each method
// returns a new expression and never evaluates anything.
//
// The R-prefixed methods record the receiver as the right operand, so that
// an expression written with a plain value on the left keeps its order:
//
//	lambda.P1.RSub(10) // 10 - _1
//
// # Calls
//
// A Go func captured as an operand is a value, not a call. To defer the call
// itself, wrap the callable with [F] and apply [Func.Call] or [Func.CallKw].
// The wrapped target may be a placeholder, which calls whatever callable is
// supplied at evaluation time:
//
//	flip := lambda.F(lambda.P1).Call(lambda.P3, lambda.P2)
//	flip.Eval(fmt.Println, 1, 2) // prints "2 1"
//
// # Evaluation
//
// [Expr.Eval] binds its arguments to the placeholders and evaluates the tree
// bottom-up. Failures are reported as errors matching one of the package's
// sentinels with [errors.Is]. An [Evaluator] adds a context, checked before
// every call, and a logger that traces each node.
//
// Expressions are immutable. An expression may be evaluated any number of
// times, concurrently, with different arguments.
package lambda
