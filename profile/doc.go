// Package profile records runtime profiles of the fz command, typically
// around the bench subcommand:
//
//	fz --pprof-mode cpu bench '_1 * _2 + 1' 3 4
//	go tool pprof "$(fz --pprof-mode cpu ... )/cpu.pprof"
//
// Profiling is compiled in only with the [Tag] build tag. Without it,
// [Modes] is empty and [Start] refuses every mode but the empty one, so the
// CLI exposes no profiling flags at all.
//
// Profiles are written by [github.com/pkg/profile] into the directory given
// with [WithDir], which the CLI defaults to a pprof directory under the fz
// cache directory.
package profile
