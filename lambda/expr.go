package lambda

import (
	"log/slog"
	"slices"
)

// Expr is a deferred expression.
//
// Every method except [Expr.Eval], [Expr.Callable], [Expr.String],
// [Expr.Dump], [Expr.Arity] and [Expr.Position] records an operation and
// returns a new Expr without evaluating anything. Operands that are not
// themselves an Expr (or a [Func]) are captured as literals.
//
// The zero Expr is the literal nil. Expr values are immutable and safe for
// concurrent use.
type Expr struct {
	n *node
}

// Lit returns an expression that evaluates to v.
// If v is already an [Expr] or [Func], it is returned as an Expr unchanged.
func Lit(v any) Expr { return Expr{wrap(v)} }

// Unary returns the expression op x. The op must be a unary operator or
// one of [OpAbs], [OpIter] and [OpNext]; other operators panic with
// [ErrInvalidOp].
func Unary(op Op, x any) Expr {
	switch {
	case op.IsUnary():
		return Expr{newUnary(op, wrap(x))}
	case op.IsBuiltin():
		return Expr{newBuiltin(op, wrap(x))}
	default:
		panic(ErrInvalidOp.With(op.attr(), slog.String("want", "unary")))
	}
}

// Binary returns the expression x op y. Operators that are not binary
// panic with [ErrInvalidOp].
func Binary(op Op, x, y any) Expr {
	if !op.IsBinary() {
		panic(ErrInvalidOp.With(op.attr(), slog.String("want", "binary")))
	}

	return Expr{newBinary(op, wrap(x), wrap(y))}
}

// wrap returns the root node of an Expr or Func operand, or a new literal
// node capturing any other value.
func wrap(x any) *node {
	switch v := x.(type) {
	case Expr:
		return v.root()
	case *Expr:
		if v != nil {
			return v.root()
		}
	case Func:
		return v.root()
	case *Func:
		if v != nil {
			return v.root()
		}
	}

	return newLit(x)
}

func (e Expr) root() *node {
	if e.n == nil {
		return nilLit
	}

	return e.n
}

func (e Expr) binary(op Op, x any) Expr {
	return Expr{newBinary(op, e.root(), wrap(x))}
}

func (e Expr) reflected(op Op, x any) Expr {
	return Expr{newBinary(op, wrap(x), e.root())}
}

// Arity returns the number of positional arguments e requires, which is the
// highest placeholder position referenced anywhere in e.
func (e Expr) Arity() int { return e.root().arity }

// Position returns the 1-based argument position if e is a bare
// placeholder, or 0 otherwise.
func (e Expr) Position() int {
	if n := e.root(); n.kind == kindArg {
		return n.pos
	}

	return 0
}

// Add returns e + x.
func (e Expr) Add(x any) Expr { return e.binary(OpAdd, x) }

// Sub returns e - x.
func (e Expr) Sub(x any) Expr { return e.binary(OpSub, x) }

// Mul returns e * x.
func (e Expr) Mul(x any) Expr { return e.binary(OpMul, x) }

// Div returns e / x, which always evaluates to a floating point quotient.
func (e Expr) Div(x any) Expr { return e.binary(OpDiv, x) }

// FloorDiv returns e // x, the quotient rounded toward negative infinity.
func (e Expr) FloorDiv(x any) Expr { return e.binary(OpFloorDiv, x) }

// Mod returns e % x. The result has the sign of x.
func (e Expr) Mod(x any) Expr { return e.binary(OpMod, x) }

// Pow returns e ** x.
func (e Expr) Pow(x any) Expr { return e.binary(OpPow, x) }

// And returns e & x.
func (e Expr) And(x any) Expr { return e.binary(OpAnd, x) }

// Or returns e | x.
func (e Expr) Or(x any) Expr { return e.binary(OpOr, x) }

// Xor returns e ^ x.
func (e Expr) Xor(x any) Expr { return e.binary(OpXor, x) }

// Shl returns e << x.
func (e Expr) Shl(x any) Expr { return e.binary(OpShl, x) }

// Shr returns e >> x.
func (e Expr) Shr(x any) Expr { return e.binary(OpShr, x) }

// Lt returns e < x.
func (e Expr) Lt(x any) Expr { return e.binary(OpLt, x) }

// Le returns e <= x.
func (e Expr) Le(x any) Expr { return e.binary(OpLe, x) }

// Eq returns e == x.
func (e Expr) Eq(x any) Expr { return e.binary(OpEq, x) }

// Ne returns e != x.
func (e Expr) Ne(x any) Expr { return e.binary(OpNe, x) }

// Ge returns e >= x.
func (e Expr) Ge(x any) Expr { return e.binary(OpGe, x) }

// Gt returns e > x.
func (e Expr) Gt(x any) Expr { return e.binary(OpGt, x) }

// The reflected forms record x as the left operand, so that x - e stays
// x - e when evaluated.

// RAdd returns x + e.
func (e Expr) RAdd(x any) Expr { return e.reflected(OpAdd, x) }

// RSub returns x - e.
func (e Expr) RSub(x any) Expr { return e.reflected(OpSub, x) }

// RMul returns x * e.
func (e Expr) RMul(x any) Expr { return e.reflected(OpMul, x) }

// RDiv returns x / e.
func (e Expr) RDiv(x any) Expr { return e.reflected(OpDiv, x) }

// RFloorDiv returns x // e.
func (e Expr) RFloorDiv(x any) Expr { return e.reflected(OpFloorDiv, x) }

// RMod returns x % e.
func (e Expr) RMod(x any) Expr { return e.reflected(OpMod, x) }

// RPow returns x ** e.
func (e Expr) RPow(x any) Expr { return e.reflected(OpPow, x) }

// RAnd returns x & e.
func (e Expr) RAnd(x any) Expr { return e.reflected(OpAnd, x) }

// ROr returns x | e.
func (e Expr) ROr(x any) Expr { return e.reflected(OpOr, x) }

// RXor returns x ^ e.
func (e Expr) RXor(x any) Expr { return e.reflected(OpXor, x) }

// RShl returns x << e.
func (e Expr) RShl(x any) Expr { return e.reflected(OpShl, x) }

// RShr returns x >> e.
func (e Expr) RShr(x any) Expr { return e.reflected(OpShr, x) }

// RLt returns x < e.
func (e Expr) RLt(x any) Expr { return e.reflected(OpLt, x) }

// RLe returns x <= e.
func (e Expr) RLe(x any) Expr { return e.reflected(OpLe, x) }

// REq returns x == e.
func (e Expr) REq(x any) Expr { return e.reflected(OpEq, x) }

// RNe returns x != e.
func (e Expr) RNe(x any) Expr { return e.reflected(OpNe, x) }

// RGe returns x >= e.
func (e Expr) RGe(x any) Expr { return e.reflected(OpGe, x) }

// RGt returns x > e.
func (e Expr) RGt(x any) Expr { return e.reflected(OpGt, x) }

// Neg returns -e.
func (e Expr) Neg() Expr { return Expr{newUnary(OpNeg, e.root())} }

// Pos returns +e.
func (e Expr) Pos() Expr { return Expr{newUnary(OpPos, e.root())} }

// Invert returns ~e, the bitwise complement.
func (e Expr) Invert() Expr { return Expr{newUnary(OpInvert, e.root())} }

// Not returns !e.
func (e Expr) Not() Expr { return Expr{newUnary(OpNot, e.root())} }

// Abs returns abs(e).
func (e Expr) Abs() Expr { return Expr{newBuiltin(OpAbs, e.root())} }

// Iter returns iter(e), which evaluates to an [*Iterator].
func (e Expr) Iter() Expr { return Expr{newBuiltin(OpIter, e.root())} }

// Next returns next(e), the next element of an [*Iterator].
func (e Expr) Next() Expr { return Expr{newBuiltin(OpNext, e.root())} }

// Attr returns e.name.
//
// Names of the construction and evaluation API (see [Reserved]) cannot be
// intercepted: Attr panics with [ErrReservedName] for them.
func (e Expr) Attr(name string) Expr {
	if IsReserved(name) {
		panic(ErrReservedName.With(slog.String("name", name)))
	}

	return Expr{newAttr(e.root(), name)}
}

// Index returns e[key]. The key may itself be an expression.
func (e Expr) Index(key any) Expr {
	return Expr{newIndex(e.root(), wrap(key))}
}

// reserved lists the exported methods of Expr and Func.
var reserved = []string{
	"Abs",
	"Add",
	"And",
	"Arity",
	"Attr",
	"Call",
	"CallKw",
	"Callable",
	"Div",
	"Dump",
	"Eq",
	"Eval",
	"FloorDiv",
	"Ge",
	"Gt",
	"Index",
	"Invert",
	"Iter",
	"Le",
	"Lt",
	"Mod",
	"Mul",
	"Ne",
	"Neg",
	"Next",
	"Not",
	"Or",
	"Pos",
	"Position",
	"Pow",
	"RAdd",
	"RAnd",
	"RDiv",
	"REq",
	"RFloorDiv",
	"RGe",
	"RGt",
	"RLe",
	"RLt",
	"RMod",
	"RMul",
	"RNe",
	"ROr",
	"RPow",
	"RShl",
	"RShr",
	"RSub",
	"RXor",
	"Shl",
	"Shr",
	"String",
	"Sub",
	"Xor",
}

// Reserved returns the sorted attribute names that [Expr.Attr] refuses.
func Reserved() []string { return slices.Clone(reserved) }

// IsReserved reports whether name is one of the [Reserved] names.
func IsReserved(name string) bool {
	_, found := slices.BinarySearch(reserved, name)

	return found
}
