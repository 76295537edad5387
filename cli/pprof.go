//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fz/log"
	"github.com/ardnew/fz/pkg"
	"github.com/ardnew/fz/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured and returns the function that stops
// it. A profile that cannot start is reported and skipped.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	session, err := profile.Start(
		profile.WithMode(f.Mode),
		profile.WithDir(f.Dir),
		profile.WithQuiet(true),
	)
	if err != nil {
		log.WarnContext(ctx, "pprof disabled", append(attrs, slog.Any("error", err))...)

		return func() {}
	}

	if f.Mode != "" {
		log.DebugContext(ctx, "pprof start", attrs...)
	}

	return func() {
		session.Stop()

		if f.Mode != "" {
			log.DebugContext(ctx, "pprof written", attrs...)
		}
	}
}
