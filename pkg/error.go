package pkg

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Error is an error chain flattened into a slice, innermost cause first.
// The sentinels below are single-member chains and wrapping appends the
// detail after them, so
//
//	ErrReadInput.Wrap(err)
//
// reads "failed to read input: <err>" and still matches ErrReadInput under
// [errors.Is].
type Error []error

// Failures reported by the fz command.
var (
	ErrReadInput       = MakeErrorf("failed to read input")
	ErrWriteOutput     = MakeErrorf("failed to write output")
	ErrInvalidFormat   = MakeErrorf("invalid format")
	ErrInvalidArgument = MakeErrorf("invalid argument")
	ErrJSONMarshal     = MakeErrorf("JSON marshal error")
	ErrYAMLMarshal     = MakeErrorf("YAML marshal error")
	ErrConfig          = MakeErrorf("configuration error")
)

// MakeError flattens errs, each with its whole Unwrap chain, into one
// Error. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		e = append(e, flatten(err)...)
	}

	return e
}

// MakeErrorf is MakeError of a single [fmt.Errorf] result.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

func (e Error) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, ": ")
}

// Wrap returns a new chain with errs appended. The receiver is never
// modified, so a sentinel can be wrapped concurrently.
func (e Error) Wrap(errs ...error) Error {
	return append(slices.Clip(e), errs...)
}

// Wrapf is Wrap of a single [fmt.Errorf] result.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

func (e Error) Unwrap() []error { return e }

// Is reports whether target is an Error whose innermost member also
// appears in e. Errors derived from a sentinel share that member.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || !isComparable(t[0]) {
		return false
	}

	for _, err := range e {
		if isComparable(err) && err == t[0] {
			return true
		}
	}

	return false
}

func isComparable(err error) bool {
	return err != nil && reflect.TypeOf(err).Comparable()
}

func flatten(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			chain = append(chain, flatten(inner)...)
		}
	case interface{ Unwrap() error }:
		chain = flatten(u.Unwrap())
	}

	return append(chain, err)
}
