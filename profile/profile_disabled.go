//go:build !pprof

package profile

import "github.com/ardnew/fz/pkg"

// Modes returns nil: profiling is not compiled in.
func Modes() []string { return nil }

func begin(c config) (Session, error) {
	return nil, ErrUnknownMode.Wrap(pkg.MakeErrorf("%q (built without -tags %s)", c.mode, Tag))
}
