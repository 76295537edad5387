package syntax

import (
	"maps"

	"github.com/ardnew/fz/log"
)

type config struct {
	logger     log.Logger
	env        map[string]any
	processEnv []string
}

// Option configures [Compile].
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithEnv adds names visible to the compiled expression. Entries shadow
// [Prelude] names of the same key. Values are captured as literals.
func WithEnv(env map[string]any) Option {
	return func(cfg config) config {
		if cfg.env == nil {
			cfg.env = make(map[string]any, len(env))
		}

		maps.Copy(cfg.env, env)

		return cfg
	}
}

// WithProcessEnv fixes the variables visible to the env function to the
// given KEY=VALUE entries. Without entries, the process environment is read
// once at compile time.
func WithProcessEnv(entries ...string) Option {
	return func(cfg config) config {
		cfg.processEnv = append(cfg.processEnv, entries...)
		if cfg.processEnv == nil {
			cfg.processEnv = []string{}
		}

		return cfg
	}
}

// WithLogger sets the logger receiving Trace records for cache activity.
func WithLogger(logger log.Logger) Option {
	return func(cfg config) config {
		cfg.logger = logger

		return cfg
	}
}

// custom reports whether cfg changes how names resolve, which makes the
// compiled result unsuitable for the shared cache.
func (cfg config) custom() bool {
	return len(cfg.env) > 0 || cfg.processEnv != nil
}

// lookup resolves a name against the environment, then the prelude.
func (cfg config) lookup(name string) (any, bool) {
	if v, ok := cfg.env[name]; ok {
		return v, true
	}

	if name == "env" && cfg.processEnv != nil {
		return envFunc(buildProcessEnvMap(cfg.processEnv)), true
	}

	v, ok := prelude()[name]

	return v, ok
}
