package syntax

// The prelude holds the names every compiled expression can refer to. It is
// built once per process and cloned on export so callers may mutate the
// returned map without affecting compilation.

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	exprrt "github.com/expr-lang/expr/vm/runtime"

	"github.com/ardnew/fz/lambda"
)

//nolint:gochecknoglobals
var (
	preludeOnce sync.Once
	preludeMap  map[string]any
)

func prelude() map[string]any {
	preludeOnce.Do(func() {
		preludeMap = map[string]any{
			// Builtin operations as ordinary callables.
			"iter": lambda.P1.Iter().Callable(),
			"next": lambda.P1.Next().Callable(),
			"abs":  lambda.P1.Abs().Callable(),

			// Conversions and collections.
			"len":    length,
			"str":    str,
			"string": str,
			"int":    toInt,
			"float":  toFloat,
			"sum":    sum,
			"min":    minimum,
			"max":    maximum,
			"list":   list,
			"dict":   dict,

			// Strings.
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"trim":  strings.TrimSpace,
			"split": strings.Split,
			"join":  join,

			// Host.
			"env":      os.Getenv,
			"cwd":      getCwd,
			"hostname": getHostname(),
			"platform": getPlatform(),
			"target":   getTarget(),

			"file": map[string]any{
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
				"isSymlink": fileIsSymlink,
			},

			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			// PATH-like lists.
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		}
	})

	return preludeMap
}

// Prelude returns a copy of the names available to every compiled
// expression.
func Prelude() map[string]any { return maps.Clone(prelude()) }

// Names returns the sorted top-level prelude names.
func Names() []string { return slices.Sorted(maps.Keys(prelude())) }

// Lookup returns the keys of the prelude map found at the dot-separated
// path, or nil if path does not name a map. The empty path lists the
// top-level names.
func Lookup(path string) []string {
	if path == "" {
		return Names()
	}

	var cur any = prelude()

	for seg := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		if cur, ok = m[seg]; !ok {
			return nil
		}
	}

	if m, ok := cur.(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// guard converts a panic raised by an expr-lang runtime helper into an
// error.
func guard(err *error, name string) {
	if r := recover(); r != nil {
		*err = lambda.ErrTypeMismatch.With(
			slog.String("func", name),
			slog.String("reason", fmt.Sprint(r)),
		)
	}
}

// ---------------------------------------------------------------------------
// Conversions and collections
// ---------------------------------------------------------------------------

func length(x any) (n int, err error) {
	if s, ok := x.(string); ok {
		return len([]rune(s)), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice:
		return rv.Len(), nil
	default:
		return 0, lambda.ErrTypeMismatch.With(
			slog.String("func", "len"),
			slog.String("type", fmt.Sprintf("%T", x)),
		)
	}
}

func str(x any) string {
	if x == nil {
		return ""
	}

	return fmt.Sprint(x)
}

func toInt(x any) (n int, err error) {
	if s, ok := x.(string); ok {
		n, err = strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, lambda.ErrTypeMismatch.Wrap(err).With(slog.String("func", "int"))
		}

		return n, nil
	}

	defer guard(&err, "int")

	return exprrt.ToInt(x), nil
}

func toFloat(x any) (f float64, err error) {
	if s, ok := x.(string); ok {
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, lambda.ErrTypeMismatch.Wrap(err).With(slog.String("func", "float"))
		}

		return f, nil
	}

	defer guard(&err, "float")

	return exprrt.ToFloat64(x), nil
}

// items flattens a single sequence argument, or returns xs unchanged.
func items(xs []any) []any {
	if len(xs) != 1 {
		return xs
	}

	rv := reflect.ValueOf(xs[0])
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return xs
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

var (
	addExpr  = lambda.P1.Add(lambda.P2)
	lessExpr = lambda.P1.Lt(lambda.P2)
)

// fold combines xs left to right with the lambda operators, so sum, min
// and max accept every operand type the operators do.
func fold(xs []any, init any, step func(acc, x any) (any, error)) (any, error) {
	acc := init

	for _, x := range xs {
		var err error
		if acc, err = step(acc, x); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func sum(xs ...any) (any, error) {
	return fold(items(xs), 0, func(acc, x any) (any, error) {
		return addExpr.Eval(acc, x)
	})
}

func extremum(name string, xs []any, better func(x, acc any) (bool, error)) (any, error) {
	xs = items(xs)
	if len(xs) == 0 {
		return nil, lambda.ErrArgumentCount.With(slog.String("func", name))
	}

	return fold(xs[1:], xs[0], func(acc, x any) (any, error) {
		ok, err := better(x, acc)
		if err != nil || !ok {
			return acc, err
		}

		return x, nil
	})
}

func less(x, y any) (bool, error) {
	v, err := lessExpr.Eval(x, y)
	if err != nil {
		return false, err
	}

	b, _ := v.(bool)

	return b, nil
}

func minimum(xs ...any) (any, error) {
	return extremum("min", xs, less)
}

func maximum(xs ...any) (any, error) {
	return extremum("max", xs, func(x, acc any) (bool, error) { return less(acc, x) })
}

func list(xs ...any) []any { return xs }

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, lambda.ErrArgumentCount.With(
			slog.String("func", "dict"),
			slog.Int("count", len(kv)),
		)
	}

	m := make(map[string]any, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, lambda.ErrTypeMismatch.With(
				slog.String("func", "dict"),
				slog.String("key", fmt.Sprintf("%T", kv[i])),
			)
		}

		m[k] = kv[i+1]
	}

	return m, nil
}

func join(xs any, sep string) (string, error) {
	if ss, ok := xs.([]string); ok {
		return strings.Join(ss, sep), nil
	}

	rv := reflect.ValueOf(xs)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return "", lambda.ErrTypeMismatch.With(
			slog.String("func", "join"),
			slog.String("type", fmt.Sprintf("%T", xs)),
		)
	}

	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = str(rv.Index(i).Interface())
	}

	return strings.Join(parts, sep), nil
}

// ---------------------------------------------------------------------------
// Operators without a lambda counterpart
// ---------------------------------------------------------------------------

func in(x, coll any) (ok bool, err error) {
	if s, isStr := coll.(string); isStr {
		sub, isSub := x.(string)
		if !isSub {
			return false, lambda.ErrTypeMismatch.With(slog.String("func", "in"))
		}

		return strings.Contains(s, sub), nil
	}

	defer guard(&err, "in")

	return exprrt.In(x, coll), nil
}

func matches(s, pattern string) (bool, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(s), nil
}

//nolint:gochecknoglobals
var patterns sync.Map // string -> *regexp.Regexp

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil //nolint:forcetypeassert
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.String("pattern", pattern))
	}

	patterns.Store(pattern, re)

	return re, nil
}

func span(from, to int) []int {
	if to < from {
		return []int{}
	}

	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}

	return out
}

func coalesce(x, y any) any {
	if x == nil {
		return y
	}

	return x
}

// choose selects between two values that have both been evaluated.
func choose(cond bool, x, y any) any {
	if cond {
		return x
	}

	return y
}

// slice returns x[from:to] for strings (by rune), slices and arrays. Nil
// bounds select the start or end.
func slice(x, from, to any) (any, error) {
	if s, ok := x.(string); ok {
		r := []rune(s)

		i, j, err := bounds(from, to, len(r))
		if err != nil {
			return nil, err
		}

		return string(r[i:j]), nil
	}

	rv := reflect.ValueOf(x)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, lambda.ErrTypeMismatch.With(
			slog.String("reason", "not sliceable"),
			slog.String("type", fmt.Sprintf("%T", x)),
		)
	}

	i, j, err := bounds(from, to, rv.Len())
	if err != nil {
		return nil, err
	}

	if rv.Kind() == reflect.Array && !rv.CanAddr() {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}

	return rv.Slice(i, j).Interface(), nil
}

func bounds(from, to any, n int) (i, j int, err error) {
	i, j = 0, n

	if from != nil {
		if i, err = toInt(from); err != nil {
			return 0, 0, err
		}
	}

	if to != nil {
		if j, err = toInt(to); err != nil {
			return 0, 0, err
		}
	}

	if i < 0 {
		i += n
	}

	if j < 0 {
		j += n
	}

	i = max(0, min(i, n))
	j = max(i, min(j, n))

	return i, j, nil
}

// ---------------------------------------------------------------------------
// Host information
// ---------------------------------------------------------------------------

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		o = runtime.GOOS
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		a = runtime.GOARCH
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

// ---------------------------------------------------------------------------
// Filesystem
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// ---------------------------------------------------------------------------
// PATH-like lists (mung)
// ---------------------------------------------------------------------------

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is mungPrefix keeping only the prefix items accepted by
// predicate: a func(string) bool, a one-argument [lambda.Expr] yielding a
// bool, or the name of a file predicate such as "isDir".
func mungPrefixIf(key string, predicate any, prefix ...string) (string, error) {
	keep, err := filterFunc(predicate)
	if err != nil {
		return "", err
	}

	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(keep),
	).String(), nil
}

func filterFunc(predicate any) (func(string) bool, error) {
	switch p := predicate.(type) {
	case func(string) bool:
		return p, nil

	case lambda.Expr:
		return func(s string) bool {
			v, err := p.Eval(s)
			b, _ := v.(bool)

			return err == nil && b
		}, nil

	case string:
		files, _ := prelude()["file"].(map[string]any)
		if fn, ok := files[p].(func(string) bool); ok {
			return fn, nil
		}

		return nil, ErrUnknownName.With(slog.String("name", "file."+p))
	}

	return nil, lambda.ErrTypeMismatch.With(
		slog.String("func", "prefixif"),
		slog.String("predicate", fmt.Sprintf("%T", predicate)),
	)
}

// ---------------------------------------------------------------------------
// Process environment
// ---------------------------------------------------------------------------

// buildProcessEnvMap converts a "KEY=VALUE" string slice to a map.
// If envList is empty, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if len(envList) == 0 {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
