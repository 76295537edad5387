package syntax

import "github.com/ardnew/fz/lambda"

// Predefined errors (sentinel values).
//
// They are [lambda.Error] values, so the attributes attached by [Compile]
// are available to structured logging.
var (
	ErrParse       = lambda.NewError("parse error")
	ErrUnsupported = lambda.NewError("unsupported syntax")
	ErrUnknownName = lambda.NewError("unknown name")
	ErrReadSource  = lambda.NewError("failed to read source")

	// ErrReservedName is returned, not raised, for attribute names that
	// [lambda.Expr.Attr] refuses.
	ErrReservedName = lambda.ErrReservedName
)
