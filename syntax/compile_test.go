package syntax_test

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/syntax"
)

type greeter string

func (g greeter) Upper() string { return strings.ToUpper(string(g)) }

func TestCompileEval(t *testing.T) {
	concat := func(a, b string) string { return a + b }

	tests := []struct {
		src  string
		args []any
		want any
	}{
		{"_1 + 1", []any{1}, 2},
		{"(_1 - _2) ** 2", []any{5, 3}, 4},
		{"_1 / 2", []any{3}, 1.5},
		{"_1 % 3", []any{7}, 1},
		{"-_1", []any{2}, -2},
		{"-3 * _1", []any{2}, -6},
		{"not _1", []any{true}, false},
		{"!_1", []any{false}, true},
		{"_1 < _2 < 3", []any{1, 2}, true},
		{"_1 and _2", []any{true, false}, false},
		{"_1 || _2", []any{true, false}, true},
		{`_1 == "a"`, []any{"a"}, true},
		{"_1 != _2", []any{1, 2}, true},
		{"_1.imag", []any{complex(1, 2)}, 2.0},
		{"_1.x", []any{map[string]any{"x": 1}}, 1},
		{"_1[1]", []any{[]int{4, 5}}, 5},
		{"_1[-1]", []any{[]int{4, 5}}, 5},
		{`_1["k"]`, []any{map[string]int{"k": 3}}, 3},
		{`upper(_1) + "!"`, []any{"hi"}, "HI!"},
		{"_1.upper()", []any{greeter("go")}, "GO"},
		{"_1(_3, _2)", []any{concat, "x", "y"}, "yx"},
		{"next(iter(_1))", []any{[]int{7}}, 7},
		{"abs(_1)", []any{-3}, 3},
		{"len(_1)", []any{"héllo"}, 5},
		{"_1 in [1, 2, 3]", []any{2}, true},
		{"_1 not in [1, 2, 3]", []any{4}, true},
		{`"ell" in _1`, []any{"hello"}, true},
		{`_1 contains "ell"`, []any{"hello"}, true},
		{`_1 startsWith "he"`, []any{"hello"}, true},
		{`_1 matches "^h.*o$"`, []any{"hello"}, true},
		{"1.._1", []any{3}, []int{1, 2, 3}},
		{`_1 ?? "d"`, []any{nil}, "d"},
		{`_1 ? "y" : "n"`, []any{true}, "y"},
		{"_1[1:]", []any{"héllo"}, "éllo"},
		{"_1[:2]", []any{[]int{1, 2, 3}}, []int{1, 2}},
		{`{"a": _1}`, []any{1}, map[string]any{"a": 1}},
		{"[_1, 2]", []any{1}, []any{1, 2}},
		{"sum([_1, 2, 3])", []any{1}, 6},
		{"max(_1, 5)", []any{9}, 9},
		{"min(_1)", []any{[]int{3, 1, 2}}, 1},
		{`int("42") + _1`, []any{1}, 43},
		{`join(_1, "-")`, []any{[]any{"a", 1}}, "a-1"},
		{`path.cat("a", _1)`, []any{"b"}, "a/b"},
		{`_1 | upper()`, []any{"x"}, "X"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := syntax.Compile(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}

			got, err := e.Eval(tt.args...)
			if err != nil {
				t.Fatalf("Eval(%v) error: %v", tt.args, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s = %v (%T), want %v (%T)", tt.src, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCompileString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"_1 + 1", "_1 + 1"},
		{"(_1 - _2) ** 2", "(_1 - _2) ** 2"},
		{"_1 ^ 2", "_1 ** 2"},
		{"-3 * _1", "-3 * _1"},
		{"- _1", "-_1"},
		{"_1.imag", "_1.imag"},
		{`_1["imag"]`, `_1["imag"]`},
		{"next(iter(_1))", "next(iter(_1))"},
		{"abs(_1 - 1)", "abs(_1 - 1)"},
		{"_1(_3, _2)", "_1(_3, _2)"},
		{"upper(_1)", "strings.ToUpper(_1)"},
	}

	for _, tt := range tests {
		e, err := syntax.Compile(t.Context(), tt.src)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", tt.src, err)
		}

		if got := e.String(); got != tt.want {
			t.Errorf("Compile(%q).String() = %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"", syntax.ErrParse},
		{"   ", syntax.ErrParse},
		{"_1 +", syntax.ErrParse},
		{"(_1", syntax.ErrParse},
		{"nope + 1", syntax.ErrUnknownName},
		{"_256", syntax.ErrUnknownName},
		{"_1.Eval", syntax.ErrReservedName},
		{"_1.Add(1)", syntax.ErrReservedName},
		{"map(_1, # + 1)", syntax.ErrUnsupported},
		{"let x = 1; x", syntax.ErrUnsupported},
		{"_1?.x", syntax.ErrUnsupported},
		{"trimPrefix(_1)", syntax.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := syntax.Compile(t.Context(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := syntax.Compile(t.Context(), "_1 +\n  * 2")

	var le *lambda.Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *lambda.Error, got %T: %v", err, err)
	}

	attrs := map[string]slog.Value{}
	for _, a := range le.Attrs() {
		attrs[a.Key] = a.Value
	}

	if line, ok := attrs["line"]; !ok || line.Int64() != 2 {
		t.Errorf("expected line 2, got %v", attrs)
	}

	if _, ok := attrs["column"]; !ok {
		t.Errorf("missing column attribute: %v", attrs)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		src  string
		args []any
		want error
	}{
		{"upper(_1)", []any{1}, lambda.ErrTypeMismatch},
		{"_1 + _2", []any{1}, lambda.ErrArgumentCount},
		{"int(_1)", []any{"x"}, lambda.ErrTypeMismatch},
		{"max([])", nil, lambda.ErrArgumentCount},
		{`_1 matches "("`, []any{"x"}, syntax.ErrParse},
		{`_1 in 3`, []any{1}, lambda.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := syntax.Compile(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}

			if _, err := e.Eval(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("Eval error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWithEnv(t *testing.T) {
	double := func(n int) int { return 2 * n }

	e, err := syntax.Compile(t.Context(), "double(_1) + k",
		syntax.WithEnv(map[string]any{"double": double, "k": 1}))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if got, err := e.Eval(4); err != nil || got != 9 {
		t.Errorf("expected 9, got %v, %v", got, err)
	}

	// Environment names shadow the prelude, including builtin operations.
	e, err = syntax.Compile(t.Context(), "abs(_1)",
		syntax.WithEnv(map[string]any{"abs": double}))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if got, err := e.Eval(-4); err != nil || got != -8 {
		t.Errorf("expected -8, got %v, %v", got, err)
	}
}

func TestWithProcessEnv(t *testing.T) {
	e, err := syntax.Compile(t.Context(), `env("FZ_GREETING") + _1`,
		syntax.WithProcessEnv("FZ_GREETING=hello", "OTHER=x"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if got, err := e.Eval("!"); err != nil || got != "hello!" {
		t.Errorf("expected hello!, got %v, %v", got, err)
	}
}

func TestCache(t *testing.T) {
	syntax.ClearCache()

	a, err := syntax.Compile(t.Context(), "_1 * 2")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	b, err := syntax.Compile(t.Context(), "_1 * 2")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if a != b {
		t.Error("expected cached expression for identical source")
	}

	env := syntax.WithEnv(map[string]any{"k": 1})

	c, _ := syntax.Compile(t.Context(), "_1 * 2", env)
	d, _ := syntax.Compile(t.Context(), "_1 * 2", env)

	if c == d || c == a {
		t.Error("expected cache bypass with environment")
	}

	// Failures are cached too.
	_, err1 := syntax.Compile(t.Context(), "_1 +")
	_, err2 := syntax.Compile(t.Context(), "_1 +")

	if err1 == nil || err1 != err2 {
		t.Errorf("expected the same cached error, got %v and %v", err1, err2)
	}

	syntax.ClearCache()

	c, err = syntax.Compile(t.Context(), "_1 * 2")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if c == a {
		t.Error("expected recompilation after ClearCache")
	}
}

func TestConcurrentCompile(t *testing.T) {
	syntax.ClearCache()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		exprs = map[lambda.Expr]struct{}{}
	)

	for range 32 {
		wg.Go(func() {
			e, err := syntax.Compile(t.Context(), "_1 + _2 * 3")
			if err != nil {
				t.Errorf("Compile error: %v", err)

				return
			}

			mu.Lock()
			exprs[e] = struct{}{}
			mu.Unlock()
		})
	}

	wg.Wait()

	if len(exprs) != 1 {
		t.Errorf("expected one shared expression, got %d", len(exprs))
	}
}

func TestCompileReader(t *testing.T) {
	e, err := syntax.CompileReader(t.Context(), strings.NewReader("_1 + _2\n"))
	if err != nil {
		t.Fatalf("CompileReader error: %v", err)
	}

	if got, err := e.Eval(2, 3); err != nil || got != 5 {
		t.Errorf("expected 5, got %v, %v", got, err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()

	syntax.MustCompile("_1 +")
}
