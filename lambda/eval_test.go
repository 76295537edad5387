package lambda_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/log"
)

func TestCall(t *testing.T) {
	sum := func(a, b int) int { return a + b }

	tests := []struct {
		name string
		expr lambda.Expr
		args []any
		want any
	}{
		{"positional", lambda.F(sum).Call(lambda.P1, lambda.P2), []any{1, 2}, 3},
		{"literal argument", lambda.F(sum).Call(lambda.P1, -1), []any{1}, 0},
		{"alias", lambda.V(sum).Call(lambda.P2, lambda.P2), []any{0, 4}, 8},
		{
			"nested expression argument",
			lambda.F(sum).Call(lambda.P1.Mul(10), lambda.P2.Neg()),
			[]any{2, 5},
			15,
		},
		{
			"slice argument",
			lambda.F(strings.Join).Call(lambda.P1, "-"),
			[]any{[]string{"a", "b"}},
			"a-b",
		},
		{
			"variadic spread",
			lambda.F(fmt.Sprint).Call(lambda.P1, lambda.P2),
			[]any{"x", 1},
			"x1",
		},
		{
			"numeric conversion",
			lambda.F(func(f float64) float64 { return f * 2 }).Call(lambda.P1),
			[]any{3},
			6.0,
		},
		{
			"nil argument",
			lambda.F(func(s []int) int { return len(s) }).Call(lambda.P1),
			[]any{nil},
			0,
		},
		{
			"no result",
			lambda.F(func() {}).Call(),
			nil,
			nil,
		},
		{
			"multiple results",
			lambda.F(func(a int) (int, string) { return a, "x" }).Call(lambda.P1),
			[]any{1},
			[]any{1, "x"},
		},
		{
			"nil error result",
			lambda.F(func(a int) (int, error) { return a + 1, nil }).Call(lambda.P1),
			[]any{1},
			2,
		},
		{
			"call result used as operand",
			lambda.F(sum).Call(lambda.P1, 1).Mul(2),
			[]any{1},
			4,
		},
		{
			"operand used as call result attribute",
			lambda.F(func() complex128 { return 3i }).Call().Attr("imag"),
			nil,
			3.0,
		},
		{
			"method value",
			lambda.F(lambda.P1.Attr("upper")).Call(),
			[]any{upperer("go")},
			"GO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expr.Eval(tt.args...)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s = %v (%T), want %v (%T)",
					tt.expr, got, got, tt.want, tt.want)
			}
		})
	}
}

type upperer string

func (u upperer) Upper() string { return strings.ToUpper(string(u)) }

// The target of a wrapped call may itself be a placeholder, which reorders
// the arguments of whatever callable is supplied at evaluation time.
func TestCallReorder(t *testing.T) {
	var got []any

	record := func(args ...any) { got = append(got, args...) }

	flip := lambda.F(lambda.P1).Call(lambda.P3, lambda.P2)

	if _, err := flip.Eval(record, 1, 2); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if want := []any{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCallExprTarget(t *testing.T) {
	double := lambda.P1.Mul(2)

	// An expression supplied at evaluation time is called with its own
	// placeholders bound to the call's arguments.
	got, err := lambda.F(lambda.P1).Call(lambda.P2).Eval(double, 21)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	// Wrapping an expression directly evaluates it to obtain the callable.
	pick := lambda.F(lambda.P1.Index(lambda.P2)).Call(lambda.P3)

	fns := map[string]any{"inc": func(n int) int { return n + 1 }}

	got, err = pick.Eval(fns, "inc", 9)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestCallKw(t *testing.T) {
	greet := lambda.InvokerFunc(func(args []any, kwargs map[string]any) (any, error) {
		return fmt.Sprintf("%v, %v%v", kwargs["greeting"], args[0], kwargs["punct"]), nil
	})

	e := lambda.F(greet).CallKw(
		map[string]any{"greeting": lambda.P2, "punct": "!"},
		lambda.P1,
	)

	got, err := e.Eval("world", "hello")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if got != "hello, world!" {
		t.Errorf("unexpected result: %v", got)
	}

	// Plain funcs have no keyword parameters.
	_, err = lambda.F(strings.ToUpper).CallKw(map[string]any{"s": "x"}).Eval()
	if !errors.Is(err, lambda.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCallErrors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name string
		expr lambda.Expr
		args []any
		want error
	}{
		{
			"returned error unchanged",
			lambda.F(func() (int, error) { return 0, errBoom }).Call(),
			nil,
			errBoom,
		},
		{
			"invoker error unchanged",
			lambda.F(lambda.InvokerFunc(func([]any, map[string]any) (any, error) {
				return nil, errBoom
			})).Call(),
			nil,
			errBoom,
		},
		{
			"too few arguments",
			lambda.F(strings.Repeat).Call("x"),
			nil,
			lambda.ErrArgumentCount,
		},
		{
			"too many arguments",
			lambda.F(strings.ToUpper).Call("x", "y"),
			nil,
			lambda.ErrArgumentCount,
		},
		{
			"wrong argument type",
			lambda.F(strings.ToUpper).Call(lambda.P1),
			[]any{1},
			lambda.ErrTypeMismatch,
		},
		{
			"not callable",
			lambda.F(lambda.P1).Call(),
			[]any{42},
			lambda.ErrTypeMismatch,
		},
		{
			"nil target",
			lambda.F(lambda.P1).Call(),
			[]any{nil},
			lambda.ErrTypeMismatch,
		},
		{
			"argument error stops call",
			lambda.F(strings.ToUpper).Call(lambda.P2),
			[]any{"x"},
			lambda.ErrArgumentCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.expr.Eval(tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEvaluatorCanceled(t *testing.T) {
	called := false
	e := lambda.F(func() { called = true }).Call()

	ctx, cancel := context.WithCancelCause(t.Context())
	errStop := errors.New("stop")
	cancel(errStop)

	_, err := lambda.NewEvaluator().Eval(ctx, e)
	if !errors.Is(err, errStop) {
		t.Errorf("expected cancellation cause, got %v", err)
	}

	if called {
		t.Error("function called after cancellation")
	}

	// Expressions without calls do not observe the context.
	got, err := lambda.NewEvaluator().Eval(ctx, lambda.P1.Add(1), 1)
	if err != nil || got != 2 {
		t.Errorf("expected 2, got %v, %v", got, err)
	}
}

func TestEvaluatorLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	ev := lambda.NewEvaluator(lambda.WithLogger(logger))

	if _, err := ev.Eval(t.Context(), lambda.P1.Add(1), 1); err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	// One record per node: _1, 1, and the sum.
	if n := strings.Count(buf.String(), `"msg":"eval"`); n != 3 {
		t.Errorf("expected 3 trace records, got %d:\n%s", n, buf.String())
	}

	if !strings.Contains(buf.String(), `"node":"binary"`) {
		t.Errorf("missing binary node record:\n%s", buf.String())
	}
}

func TestCallable(t *testing.T) {
	fn := lambda.P1.Mul(lambda.P2).Callable()

	got, err := fn(6, 7)
	if err != nil || got != 42 {
		t.Errorf("expected 42, got %v, %v", got, err)
	}
}

// One expression may be evaluated concurrently with different arguments.
func TestConcurrentEval(t *testing.T) {
	e := lambda.P1.Mul(lambda.P1).Add(lambda.F(strings.Count).Call("xx", "x"))

	var wg sync.WaitGroup

	for i := range 64 {
		wg.Go(func() {
			got, err := e.Eval(i)
			if err != nil || got != i*i+2 {
				t.Errorf("Eval(%d) = %v, %v", i, got, err)
			}
		})
	}

	wg.Wait()
}

func TestIterNext(t *testing.T) {
	it, err := lambda.P1.Iter().Eval([]int{1, 2})
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	next := lambda.P1.Next()

	for _, want := range []int{1, 2} {
		got, err := next.Eval(it)
		if err != nil || got != want {
			t.Fatalf("expected %d, got %v, %v", want, got, err)
		}
	}

	if _, err := next.Eval(it); !errors.Is(err, lambda.ErrStopIteration) {
		t.Errorf("expected ErrStopIteration, got %v", err)
	}

	// iter of an iterator is the iterator itself.
	same, err := lambda.P1.Iter().Eval(it)
	if err != nil || same != it {
		t.Errorf("iter(iterator) returned %v, %v", same, err)
	}
}

func TestIterKinds(t *testing.T) {
	ch := make(chan int, 2)
	ch <- 4
	ch <- 5
	close(ch)

	tests := []struct {
		name string
		in   any
		want []any
	}{
		{"slice", []string{"a", "b"}, []any{"a", "b"}},
		{"array", [2]int{1, 2}, []any{1, 2}},
		{"string", "hé", []any{"h", "é"}},
		{"map", map[string]int{"k": 1}, []any{[]any{"k", 1}}},
		{"int", 3, []any{0, 1, 2}},
		{"chan", ch, []any{4, 5}},
		{"seq", func(yield func(string) bool) { yield("s") }, []any{"s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := lambda.P1.Iter().Eval(tt.in)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			it, ok := v.(*lambda.Iterator)
			if !ok {
				t.Fatalf("expected *lambda.Iterator, got %T", v)
			}

			var got []any
			for x := range it.All() {
				got = append(got, x)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIteratorStop(t *testing.T) {
	it := lambda.NewIterator(func(yield func(any) bool) {
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	})

	if v, ok := it.Next(); !ok || v != 0 {
		t.Fatalf("expected 0, got %v, %v", v, ok)
	}

	it.Stop()

	if _, ok := it.Next(); ok {
		t.Error("Next succeeded after Stop")
	}
}
