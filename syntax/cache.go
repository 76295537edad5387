package syntax

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/fz/lambda"
)

// cache stores compiled expressions keyed by the xxh3 hash of their source.
//
//nolint:gochecknoglobals
var cache sync.Map

// entry tracks compilation of one source. Concurrent callers compiling the
// same source wait on once and share the result, including a failure.
type entry struct {
	once sync.Once
	expr lambda.Expr
	err  error
}

func compileCached(ctx context.Context, cfg config, src string) (lambda.Expr, error) {
	key := xxh3.HashString(src)

	value, hit := cache.LoadOrStore(key, new(entry))

	ent, ok := value.(*entry)
	if !ok {
		return lambda.Expr{}, ErrUnsupported.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit),
	)

	ent.once.Do(func() {
		ent.expr, ent.err = compile(ctx, cfg, src)
	})

	return ent.expr, ent.err
}

// CompileReader reads the entire source from r and compiles it with
// [Compile].
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (lambda.Expr, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return lambda.Expr{}, ErrReadSource.Wrap(err)
	}

	apply(config{}, opts...).logger.TraceContext(ctx, "read source",
		slog.Int("source_bytes", len(data)),
	)

	return Compile(ctx, string(data), opts...)
}

// ClearCache removes every cached compilation.
func ClearCache() {
	cache.Clear()
}
