package lambda

import (
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"math/cmplx"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/expr-lang/expr/vm/runtime"
	"github.com/zephyrtronium/bigfloat"
)

// The expr-lang runtime helpers report unsupported operand types by
// panicking with a descriptive string. Entry points that call into them
// defer recoverAs to turn the panic into an error.

func recoverAs(sentinel *Error, err *error, attrs ...slog.Attr) {
	r := recover()
	if r == nil {
		return
	}

	if e, ok := r.(error); ok {
		*err = sentinel.With(attrs...).Wrap(e)
	} else {
		*err = sentinel.With(append(attrs, slog.Any("reason", r))...)
	}
}

func operandAttrs(op Op, operands ...any) []slog.Attr {
	attrs := make([]slog.Attr, 0, 1+len(operands))
	attrs = append(attrs, op.attr())

	for i, x := range operands {
		attrs = append(attrs, slog.String(fmt.Sprintf("type%d", i), typeName(x)))
	}

	return attrs
}

func mismatch(op Op, operands ...any) *Error {
	return ErrTypeMismatch.With(operandAttrs(op, operands...)...)
}

func typeName(x any) string {
	if x == nil {
		return "nil"
	}

	return reflect.TypeOf(x).String()
}

func isInteger(x any) bool {
	switch x.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	}

	return false
}

func isUnsigned(x any) bool {
	switch x.(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	}

	return false
}

func isFloat(x any) bool {
	switch x.(type) {
	case float32, float64:
		return true
	}

	return false
}

func isNumber(x any) bool { return isInteger(x) || isFloat(x) }

func isComplex(x any) bool {
	switch x.(type) {
	case complex64, complex128:
		return true
	}

	return false
}

func isBig(x any) bool {
	_, ok := x.(*big.Float)

	return ok
}

func toComplex(x any) complex128 {
	switch v := x.(type) {
	case complex128:
		return v
	case complex64:
		return complex128(v)
	default:
		return complex(runtime.ToFloat64(v), 0)
	}
}

func toBig(x any) *big.Float {
	if v, ok := x.(*big.Float); ok {
		return v
	}

	if isInteger(x) {
		return new(big.Float).SetInt(toBigInt(x))
	}

	return big.NewFloat(runtime.ToFloat64(x))
}

// toBigInt converts an integer of any width and signedness exactly.
func toBigInt(x any) *big.Int {
	rv := reflect.ValueOf(x)
	if rv.CanUint() {
		return new(big.Int).SetUint64(rv.Uint())
	}

	return big.NewInt(rv.Int())
}

// fromBigInt narrows z to int when it fits, then to uint64. Wider results
// become a *big.Float so no integer is silently wrapped.
func fromBigInt(z *big.Int, unsigned bool) any {
	switch {
	case unsigned && z.IsUint64():
		return z.Uint64()
	case z.IsInt64() && z.Int64() >= math.MinInt && z.Int64() <= math.MaxInt:
		return int(z.Int64())
	case z.IsUint64():
		return z.Uint64()
	default:
		return new(big.Float).SetInt(z)
	}
}

// maxBigShift bounds shifts evaluated on arbitrary-precision integers.
const maxBigShift = 1 << 16

// applyWide evaluates integer operators when an operand is unsigned. Both
// unsigned operands give a uint64 when the result fits.
func applyWide(op Op, x, y any) (any, error) {
	a, b := toBigInt(x), toBigInt(y)
	unsigned := isUnsigned(x) && isUnsigned(y)
	z := new(big.Int)

	switch op {
	case OpFloorDiv, OpMod:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero.With(operandAttrs(op, x, y)...)
		}

		q, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
			m.Add(m, b)
		}

		if op == OpFloorDiv {
			return fromBigInt(q, unsigned), nil
		}

		return fromBigInt(m, unsigned), nil

	case OpPow:
		if !b.IsInt64() || b.Int64() > maxBigShift {
			return runtime.Exponent(x, y), nil
		}

		return fromBigInt(z.Exp(a, b, nil), unsigned), nil
	case OpAnd:
		return fromBigInt(z.And(a, b), unsigned), nil
	case OpOr:
		return fromBigInt(z.Or(a, b), unsigned), nil
	case OpXor:
		return fromBigInt(z.Xor(a, b), unsigned), nil
	case OpShl, OpShr:
		if b.Sign() < 0 {
			return nil, mismatch(op, x, y).With(slog.String("reason", "negative shift count"))
		}

		if !b.IsInt64() || b.Int64() > maxBigShift {
			return nil, mismatch(op, x, y).With(slog.String("reason", "shift count too large"))
		}

		if op == OpShl {
			return fromBigInt(z.Lsh(a, uint(b.Int64())), unsigned), nil
		}

		return fromBigInt(z.Rsh(a, uint(b.Int64())), unsigned), nil
	}

	return nil, ErrInvalidOp.With(op.attr())
}

// applyBinary evaluates x op y.
func applyBinary(op Op, x, y any) (v any, err error) {
	defer recoverAs(ErrTypeMismatch, &err, operandAttrs(op, x, y)...)

	switch {
	case isBig(x) && (isNumber(y) || isBig(y)),
		isBig(y) && isNumber(x):
		return applyBig(op, toBig(x), toBig(y))
	case isComplex(x) && (isNumber(y) || isComplex(y)),
		isComplex(y) && isNumber(x):
		return applyComplex(op, toComplex(x), toComplex(y))
	case op == OpEq:
		return runtime.Equal(x, y), nil
	case op == OpNe:
		return !runtime.Equal(x, y), nil
	}

	switch op {
	case OpAdd:
		return runtime.Add(x, y), nil
	case OpSub:
		return runtime.Subtract(x, y), nil
	case OpMul:
		return runtime.Multiply(x, y), nil
	case OpDiv:
		if isNumber(y) && runtime.ToFloat64(y) == 0 && isNumber(x) {
			return nil, ErrDivisionByZero.With(operandAttrs(op, x, y)...)
		}

		return runtime.Divide(x, y), nil
	case OpFloorDiv, OpMod:
		return floored(op, x, y)
	case OpPow:
		return power(x, y)
	case OpAnd, OpOr, OpXor, OpShl, OpShr:
		return bitwise(op, x, y)
	case OpLt:
		return runtime.Less(x, y), nil
	case OpLe:
		return runtime.LessOrEqual(x, y), nil
	case OpGe:
		return runtime.MoreOrEqual(x, y), nil
	case OpGt:
		return runtime.More(x, y), nil
	default:
		return nil, ErrInvalidOp.With(op.attr())
	}
}

// floored implements floor division and modulo, both rounding the quotient
// toward negative infinity.
func floored(op Op, x, y any) (any, error) {
	switch {
	case isInteger(x) && isInteger(y) && (isUnsigned(x) || isUnsigned(y)):
		return applyWide(op, x, y)

	case isInteger(x) && isInteger(y):
		a, b := runtime.ToInt(x), runtime.ToInt(y)
		if b == 0 {
			return nil, ErrDivisionByZero.With(operandAttrs(op, x, y)...)
		}

		q, m := a/b, a%b
		if m != 0 && (m < 0) != (b < 0) {
			q--
			m += b
		}

		if op == OpFloorDiv {
			return q, nil
		}

		return m, nil

	case isNumber(x) && isNumber(y):
		a, b := runtime.ToFloat64(x), runtime.ToFloat64(y)
		if b == 0 {
			return nil, ErrDivisionByZero.With(operandAttrs(op, x, y)...)
		}

		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}

		if op == OpFloorDiv {
			return math.Floor((a - m) / b), nil
		}

		return m, nil
	}

	return nil, mismatch(op, x, y)
}

func power(x, y any) (any, error) {
	if !isNumber(x) || !isNumber(y) {
		return nil, mismatch(OpPow, x, y)
	}

	if isInteger(x) && isInteger(y) && (isUnsigned(x) || isUnsigned(y)) &&
		runtime.ToFloat64(y) >= 0 {
		return applyWide(OpPow, x, y)
	}

	if isInteger(x) && isInteger(y) {
		base, exp := runtime.ToInt(x), runtime.ToInt(y)

		switch {
		case exp >= 0:
			result := 1
			for ; exp > 0; exp >>= 1 {
				if exp&1 == 1 {
					result *= base
				}

				base *= base
			}

			return result, nil

		case base == 0:
			return nil, ErrDivisionByZero.With(operandAttrs(OpPow, x, y)...)
		}
	}

	if runtime.ToFloat64(x) == 0 && runtime.ToFloat64(y) < 0 {
		return nil, ErrDivisionByZero.With(operandAttrs(OpPow, x, y)...)
	}

	return runtime.Exponent(x, y), nil
}

func bitwise(op Op, x, y any) (any, error) {
	if a, ok := x.(bool); ok {
		b, ok := y.(bool)
		if !ok {
			return nil, mismatch(op, x, y)
		}

		switch op {
		case OpAnd:
			return a && b, nil
		case OpOr:
			return a || b, nil
		case OpXor:
			return a != b, nil
		}

		return nil, mismatch(op, x, y)
	}

	if !isInteger(x) || !isInteger(y) {
		return nil, mismatch(op, x, y)
	}

	if isUnsigned(x) || isUnsigned(y) {
		return applyWide(op, x, y)
	}

	a, b := runtime.ToInt(x), runtime.ToInt(y)

	switch op {
	case OpAnd:
		return a & b, nil
	case OpOr:
		return a | b, nil
	case OpXor:
		return a ^ b, nil
	}

	if b < 0 {
		return nil, mismatch(op, x, y).With(slog.String("reason", "negative shift count"))
	}

	if op == OpShl {
		return a << b, nil
	}

	return a >> b, nil
}

func applyBig(op Op, x, y *big.Float) (any, error) {
	prec := max(x.Prec(), y.Prec())
	z := new(big.Float).SetPrec(prec)

	switch op {
	case OpAdd:
		return z.Add(x, y), nil
	case OpSub:
		return z.Sub(x, y), nil
	case OpMul:
		return z.Mul(x, y), nil
	case OpDiv:
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero.With(op.attr())
		}

		return z.Quo(x, y), nil
	case OpPow:
		if x.Sign() <= 0 {
			if !y.IsInt() {
				return nil, mismatch(op, x, y).With(slog.String("reason", "non-positive base"))
			}

			if x.Sign() == 0 {
				if y.Sign() < 0 {
					return nil, ErrDivisionByZero.With(op.attr())
				}

				if y.Sign() == 0 {
					return z.SetInt64(1), nil
				}

				return z.SetInt64(0), nil
			}

			// (-a)**n == (-1)**n * a**n for integral n
			n, _ := y.Int(nil)
			bigfloat.Pow(z, new(big.Float).Neg(x), y)

			if n.Bit(0) == 1 {
				z.Neg(z)
			}

			return z, nil
		}

		bigfloat.Pow(z, x, y)

		return z, nil
	case OpEq:
		return x.Cmp(y) == 0, nil
	case OpNe:
		return x.Cmp(y) != 0, nil
	case OpLt:
		return x.Cmp(y) < 0, nil
	case OpLe:
		return x.Cmp(y) <= 0, nil
	case OpGe:
		return x.Cmp(y) >= 0, nil
	case OpGt:
		return x.Cmp(y) > 0, nil
	}

	return nil, mismatch(op, x, y)
}

func applyComplex(op Op, x, y complex128) (any, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return nil, ErrDivisionByZero.With(op.attr())
		}

		return x / y, nil
	case OpPow:
		if x == 0 && (real(y) < 0 || imag(y) != 0) {
			return nil, ErrDivisionByZero.With(op.attr())
		}

		return cmplx.Pow(x, y), nil
	case OpEq:
		return x == y, nil
	case OpNe:
		return x != y, nil
	}

	return nil, mismatch(op, x, y)
}

// applyUnary evaluates op x.
func applyUnary(op Op, x any) (v any, err error) {
	defer recoverAs(ErrTypeMismatch, &err, operandAttrs(op, x)...)

	switch op {
	case OpNeg:
		switch n := x.(type) {
		case *big.Float:
			return new(big.Float).Neg(n), nil
		case complex128:
			return -n, nil
		case complex64:
			return -n, nil
		}

		return runtime.Negate(x), nil

	case OpPos:
		if isNumber(x) || isComplex(x) || isBig(x) {
			return x, nil
		}

	case OpInvert:
		rv := reflect.ValueOf(x)
		if !isInteger(x) {
			break
		}

		out := reflect.New(rv.Type()).Elem()
		if rv.CanInt() {
			out.SetInt(^rv.Int())
		} else {
			out.SetUint(^rv.Uint())
		}

		return out.Interface(), nil

	case OpNot:
		if b, ok := x.(bool); ok {
			return !b, nil
		}

	default:
		return nil, ErrInvalidOp.With(op.attr())
	}

	return nil, mismatch(op, x)
}

// applyBuiltin evaluates abs(x), iter(x) or next(x).
func applyBuiltin(op Op, x any) (any, error) {
	switch op {
	case OpAbs:
		return absolute(x)
	case OpIter:
		return makeIterator(x)
	case OpNext:
		it, ok := x.(*Iterator)
		if !ok {
			return nil, mismatch(op, x)
		}

		v, ok := it.Next()
		if !ok {
			return nil, ErrStopIteration
		}

		return v, nil
	default:
		return nil, ErrInvalidOp.With(op.attr())
	}
}

func absolute(x any) (any, error) {
	switch n := x.(type) {
	case *big.Float:
		return new(big.Float).Abs(n), nil
	case complex128:
		return cmplx.Abs(n), nil
	case complex64:
		return cmplx.Abs(complex128(n)), nil
	case float64:
		return math.Abs(n), nil
	case float32:
		return float32(math.Abs(float64(n))), nil
	}

	if !isInteger(x) {
		return nil, mismatch(OpAbs, x)
	}

	rv := reflect.ValueOf(x)
	if rv.CanInt() && rv.Int() < 0 {
		out := reflect.New(rv.Type()).Elem()
		out.SetInt(-rv.Int())

		return out.Interface(), nil
	}

	return x, nil
}

// attribute evaluates x.name.
//
// Complex numbers expose real and imag. Maps with string keys resolve name
// as a key. Everything else resolves fields (honoring the expr struct tag)
// and methods, trying the exported spelling of name when name itself is
// not found.
func attribute(x any, name string) (v any, err error) {
	attrs := []slog.Attr{slog.String("name", name), slog.String("type", typeName(x))}

	switch c := x.(type) {
	case nil:
		return nil, ErrAttributeLookup.With(attrs...)
	case complex128:
		switch name {
		case "real":
			return real(c), nil
		case "imag":
			return imag(c), nil
		}
	case complex64:
		switch name {
		case "real":
			return float64(real(c)), nil
		case "imag":
			return float64(imag(c)), nil
		}
	}

	rv := indirect(reflect.ValueOf(x))
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		key := reflect.ValueOf(name).Convert(rv.Type().Key())
		if mv := rv.MapIndex(key); mv.IsValid() {
			return mv.Interface(), nil
		}

		return nil, ErrAttributeLookup.With(attrs...)
	}

	if v, ok := fetch(x, name); ok {
		return v, nil
	}

	if exported := exportedName(name); exported != name {
		if v, ok := fetch(x, exported); ok {
			return v, nil
		}
	}

	return nil, ErrAttributeLookup.With(attrs...)
}

func fetch(x any, name string) (v any, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()

	rv := indirect(reflect.ValueOf(x))
	if rv.Kind() != reflect.Struct && reflect.ValueOf(x).NumMethod() == 0 {
		return nil, false
	}

	return runtime.Fetch(x, name), true
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}

		rv = rv.Elem()
	}

	return rv
}

// index evaluates x[key].
//
// Maps look up key converted to the map's key type. Slices, arrays and
// strings take an integer index, counting from the end when negative;
// strings are indexed by rune and yield a one-rune string.
func index(x, key any) (v any, err error) {
	attrs := []slog.Attr{
		slog.String("type", typeName(x)),
		slog.String("key", fmt.Sprint(key)),
	}

	defer recoverAs(ErrTypeMismatch, &err, attrs...)

	rv := indirect(reflect.ValueOf(x))

	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()

		kv, ok := convertKey(key, kt)
		if !ok {
			return nil, ErrKeyLookup.With(attrs...)
		}

		mv := rv.MapIndex(kv)
		if !mv.IsValid() {
			return nil, ErrKeyLookup.With(attrs...)
		}

		return mv.Interface(), nil

	case reflect.String:
		if !isInteger(key) {
			return nil, ErrTypeMismatch.With(attrs...)
		}

		runes := []rune(rv.String())

		i, ok := normalizeIndex(runtime.ToInt(key), len(runes))
		if !ok {
			return nil, ErrIndexLookup.With(attrs...)
		}

		return string(runes[i]), nil

	case reflect.Slice, reflect.Array:
		if !isInteger(key) {
			return nil, ErrTypeMismatch.With(attrs...)
		}

		if _, ok := normalizeIndex(runtime.ToInt(key), rv.Len()); !ok {
			return nil, ErrIndexLookup.With(attrs...)
		}

		return runtime.Fetch(rv.Interface(), runtime.ToInt(key)), nil
	}

	return nil, ErrTypeMismatch.With(append(attrs, slog.String("reason", "not subscriptable"))...)
}

func normalizeIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}

	return i, i >= 0 && i < n
}

func convertKey(key any, kt reflect.Type) (reflect.Value, bool) {
	if key == nil {
		switch kt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Chan:
			return reflect.Zero(kt), true
		}

		return reflect.Value{}, false
	}

	kv := reflect.ValueOf(key)

	switch {
	case kv.Type().AssignableTo(kt):
		if !kv.Comparable() {
			return reflect.Value{}, false
		}

		return kv, true
	case isNumber(key) && isNumericKind(kt.Kind()):
		if isFloat(key) && !isFloatKind(kt.Kind()) &&
			runtime.ToFloat64(key) != math.Trunc(runtime.ToFloat64(key)) {
			return reflect.Value{}, false
		}

		return kv.Convert(kt), true
	case kv.Kind() == reflect.String && kt.Kind() == reflect.String:
		return kv.Convert(kt), true
	}

	return reflect.Value{}, false
}

func isNumericKind(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uintptr) || isFloatKind(k)
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
