package lambda

//go:generate go run gen_placeholders.go

import "log/slog"

// MaxArgs is the highest placeholder position.
const MaxArgs = 255

// placeholders holds the interned placeholder for each position; index 0 is
// unused.
var placeholders = func() (p [MaxArgs + 1]Expr) {
	for k := 1; k <= MaxArgs; k++ {
		p[k] = Expr{newArg(k)}
	}

	return p
}()

// Arg returns the placeholder for the k-th positional argument.
// Every call with the same k returns the same placeholder.
// Arg panics with [ErrArgumentCount] unless 1 <= k <= [MaxArgs].
func Arg(k int) Expr {
	if k < 1 || k > MaxArgs {
		panic(ErrArgumentCount.With(
			slog.Int("position", k),
			slog.Int("max", MaxArgs),
		))
	}

	return placeholders[k]
}
