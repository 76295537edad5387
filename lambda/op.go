package lambda

import "log/slog"

// Op identifies the operation recorded by an operator node.
type Op uint8

// Binary operators.
const (
	OpInvalid Op = iota

	OpAdd      // +
	OpSub      // -
	OpMul      // *
	OpDiv      // /
	OpFloorDiv // //
	OpMod      // %
	OpPow      // **
	OpAnd      // &
	OpOr       // |
	OpXor      // ^
	OpShl      // <<
	OpShr      // >>
	OpLt       // <
	OpLe       // <=
	OpEq       // ==
	OpNe       // !=
	OpGe       // >=
	OpGt       // >
)

// Unary operators.
const (
	OpNeg    Op = iota + OpGt + 1 // -
	OpPos                         // +
	OpInvert                      // ~
	OpNot                         // !
)

// Builtin operations rendered with function call syntax.
const (
	OpAbs  Op = iota + OpNot + 1 // abs
	OpIter                       // iter
	OpNext                       // next
)

var opSymbol = [...]string{
	OpInvalid:  "<invalid>",
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpAnd:      "&",
	OpOr:       "|",
	OpXor:      "^",
	OpShl:      "<<",
	OpShr:      ">>",
	OpLt:       "<",
	OpLe:       "<=",
	OpEq:       "==",
	OpNe:       "!=",
	OpGe:       ">=",
	OpGt:       ">",
	OpNeg:      "-",
	OpPos:      "+",
	OpInvert:   "~",
	OpNot:      "!",
	OpAbs:      "abs",
	OpIter:     "iter",
	OpNext:     "next",
}

// String returns the operator's source symbol, or the builtin's name.
func (o Op) String() string {
	if int(o) < len(opSymbol) {
		return opSymbol[o]
	}

	return opSymbol[OpInvalid]
}

// IsBinary reports whether o is an infix operator.
func (o Op) IsBinary() bool { return o >= OpAdd && o <= OpGt }

// IsUnary reports whether o is a prefix operator.
func (o Op) IsUnary() bool { return o >= OpNeg && o <= OpNot }

// IsBuiltin reports whether o is applied with function call syntax.
func (o Op) IsBuiltin() bool { return o >= OpAbs && o <= OpNext }

// IsComparison reports whether o yields a bool from two operands.
func (o Op) IsComparison() bool { return o >= OpLt && o <= OpGt }

// Binding strength used when rendering expressions.
const (
	precCompare = iota
	precOr
	precXor
	precAnd
	precShift
	precSum
	precProduct
	precUnary
	precPow
	precAtom
)

func (o Op) precedence() int {
	switch o {
	case OpLt, OpLe, OpEq, OpNe, OpGe, OpGt:
		return precCompare
	case OpOr:
		return precOr
	case OpXor:
		return precXor
	case OpAnd:
		return precAnd
	case OpShl, OpShr:
		return precShift
	case OpAdd, OpSub:
		return precSum
	case OpMul, OpDiv, OpFloorDiv, OpMod:
		return precProduct
	case OpNeg, OpPos, OpInvert, OpNot:
		return precUnary
	case OpPow:
		return precPow
	default:
		return precAtom
	}
}

func (o Op) attr() slog.Attr { return slog.String("op", o.String()) }
