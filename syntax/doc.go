// Package syntax compiles text lambdas into [lambda.Expr] values.
//
// Source text uses the expression grammar of github.com/expr-lang/expr.
// Identifiers of the form _1, _2, ... are placeholders. Other identifiers
// resolve against the names supplied with [WithEnv] and then the [Prelude].
//
//	_1 + 1                    // lambda.P1.Add(1)
//	(_1 - _2) ** 2            // lambda.P1.Sub(lambda.P2).Pow(2)
//	_1.imag                   // lambda.P1.Attr("imag")
//	_1[0]                     // lambda.P1.Index(0)
//	upper(_1) + "!"           // lambda.F(strings.ToUpper).Call(lambda.P1).Add("!")
//	_1(_3, _2)                // lambda.F(lambda.P1).Call(lambda.P3, lambda.P2)
//	next(iter(_1))            // lambda.P1.Iter().Next()
//	path.cat(env("HOME"), _1) // prelude functions
//
// Operators:
//   - Arithmetic + - * / % and ** (also written ^) map to the lambda
//     operators of the same name.
//   - Comparisons == != < <= > >= map to the lambda comparisons. Chained
//     comparisons a < b < c join their results with and.
//   - and, &&, or and || map to [lambda.Expr.And] and [lambda.Expr.Or],
//     which are logical on bools and bitwise on integers. Both operands are
//     always evaluated.
//   - Unary - + ! and not map to Neg, Pos and Not.
//   - in, contains, startsWith, endsWith, matches, .. and ?? become calls
//     of ordinary functions.
//
// Array and map literals, slices x[i:j] and the conditional c ? a : b also
// become deferred calls. Every operand of a conditional is evaluated before
// one is selected.
//
// Closures, variables, pipes into predicates, and optional chaining are
// not supported and fail with [ErrUnsupported].
//
// Compilation results are cached by source, so compiling the same text
// twice returns the same tree.
package syntax
