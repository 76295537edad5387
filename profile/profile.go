package profile

import (
	"sync"

	"github.com/ardnew/fz/pkg"
)

// Tag is the build tag that compiles profiling in.
const Tag = `pprof`

// ErrUnknownMode is returned by [Start] for a mode not listed by [Modes].
var ErrUnknownMode = pkg.MakeErrorf("unknown profiling mode")

// Session is a running profile. Stop writes the profile and may be called
// more than once.
type Session interface{ Stop() }

type config struct {
	mode  string
	dir   string
	quiet bool
}

// Option configures [Start].
type Option func(config) config

// WithMode selects one of [Modes]. The empty mode disables profiling.
func WithMode(mode string) Option {
	return func(c config) config {
		c.mode = mode

		return c
	}
}

// WithDir sets the directory profiles are written to. The empty string
// leaves the choice to the profiler, which uses a temporary directory.
func WithDir(dir string) Option {
	return func(c config) config {
		c.dir = dir

		return c
	}
}

// WithQuiet suppresses the profiler's own messages on stderr.
func WithQuiet(quiet bool) Option {
	return func(c config) config {
		c.quiet = quiet

		return c
	}
}

type idle struct{}

func (idle) Stop() {}

type once struct{ stop func() }

func (o once) Stop() { o.stop() }

// Start begins profiling as configured by opts. Without a mode it returns a
// Session that does nothing.
func Start(opts ...Option) (Session, error) {
	var c config
	for _, opt := range opts {
		c = opt(c)
	}

	if c.mode == "" {
		return idle{}, nil
	}

	s, err := begin(c)
	if err != nil {
		return nil, err
	}

	return once{stop: sync.OnceFunc(s.Stop)}, nil
}
