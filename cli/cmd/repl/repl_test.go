package repl

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/fz/lambda"
	"github.com/ardnew/fz/log"
)

func testModel(t *testing.T, args ...any) model {
	t.Helper()

	return newModel(t.Context(), args, NewHistory(""), log.Default())
}

func TestEvaluate(t *testing.T) {
	m := testModel(t, 6, 7, "go")

	tests := []struct {
		input string
		want  string
	}{
		{"_1 * _2", "42"},
		{"upper(_3)", "GO"},
		{"[_1, _2]", "[6 7]"},
		{"_1 > _2", "false"},
		{"path.cat(_3, \"x\")", "go/x"},
	}

	for _, tt := range tests {
		got, err := m.evaluate(tt.input)
		if err != nil {
			t.Errorf("evaluate(%q) error: %v", tt.input, err)

			continue
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := m.evaluate("_4"); !errors.Is(err, lambda.ErrArgumentCount) {
		t.Errorf("expected ErrArgumentCount, got %v", err)
	}

	if _, err := m.evaluate("_1 +"); err == nil {
		t.Error("expected a compile error")
	}
}

func TestSetArgs(t *testing.T) {
	m := testModel(t)

	if got := m.describeArgs(); got != "no arguments bound" {
		t.Errorf("describeArgs() = %q", got)
	}

	if err := m.setArgs("1 [a, b] hello"); err != nil {
		t.Fatalf("setArgs error: %v", err)
	}

	if want := []any{1, []any{"a", "b"}, "hello"}; !reflect.DeepEqual(m.args, want) {
		t.Errorf("args = %#v, want %#v", m.args, want)
	}

	if got, want := m.describeArgs(), "_1=1 _2=[a b] _3=hello"; got != want {
		t.Errorf("describeArgs() = %q, want %q", got, want)
	}

	if err := m.setArgs("[unclosed"); err == nil {
		t.Error("expected a decode error")
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"  1   2 ", []string{"1", "2"}},
		{"[a, b] c", []string{"[a, b]", "c"}},
		{"{k: [1, 2], v: x} y", []string{"{k: [1, 2], v: x}", "y"}},
		{`'a b' "c \" d" e`, []string{"'a b'", `"c \" d"`, "e"}},
		{"'[' x", []string{"'['", "x"}},
		{"[unclosed y", []string{"[unclosed y"}},
	}

	for _, tt := range tests {
		if got := splitArgs(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSetArgsQuoted(t *testing.T) {
	m := testModel(t)

	if err := m.setArgs(`{a: 1, b: [x, y]} 'two words'`); err != nil {
		t.Fatalf("setArgs error: %v", err)
	}

	want := []any{
		map[string]any{"a": 1, "b": []any{"x", "y"}},
		"two words",
	}

	if !reflect.DeepEqual(m.args, want) {
		t.Errorf("args = %#v, want %#v", m.args, want)
	}
}

func TestCycleCompletion(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("upp")
	m.input.SetCursor(3)
	m.refreshMatches(true)

	if len(m.matches) != 1 || m.matches[0].Str != "upper" {
		t.Fatalf("matches = %v, want [upper]", m.matches)
	}

	m = m.cycle(1)

	if got := m.input.Value(); got != "upper" {
		t.Errorf("input = %q, want upper", got)
	}

	// Members of a namespace are offered after the dot.
	m.input.SetValue("path.")
	m.input.SetCursor(5)
	m.refreshMatches(true)

	if len(m.matches) != 3 || m.parent != "path" {
		t.Fatalf("matches = %v under %q, want 3 under path", m.matches, m.parent)
	}

	m = m.cycle(1)
	m = m.cycle(1)

	if got := m.input.Value(); got != "path.cat" || !m.tabActive {
		t.Errorf("input = %q (tab %v), want path.cat", got, m.tabActive)
	}

	m = m.cycle(-1)

	if got := m.input.Value(); got != "path.abs" {
		t.Errorf("input = %q, want path.abs", got)
	}
}

func TestHistoryStep(t *testing.T) {
	h := NewHistory("")
	for _, e := range []HistoryEntry{
		{"_1 + 1", modeEval},
		{"help", modeCtrl},
		{"_1 * 2", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m := newModel(t.Context(), nil, h, log.Default())

	steps := []struct {
		dir      int
		sameMode bool
		line     string
		mode     inputMode
	}{
		{-1, false, "_1 * 2", modeEval},
		{-1, false, "help", modeCtrl},
		{-1, true, "help", modeCtrl}, // no older command
		{1, false, "_1 * 2", modeEval},
		{-1, true, "_1 + 1", modeEval}, // skips the command
		{1, false, "help", modeCtrl},
		{1, false, "_1 * 2", modeEval},
		{1, false, "", modeEval},
	}

	for i, s := range steps {
		m = m.historyStep(s.dir, s.sameMode)

		if got := m.input.Value(); got != s.line || m.mode != s.mode {
			t.Fatalf("step %d: input %q in mode %d, want %q in mode %d",
				i, got, m.mode, s.line, s.mode)
		}
	}

	if m.historyIdx != h.Len() {
		t.Errorf("historyIdx = %d, want %d", m.historyIdx, h.Len())
	}
}

func TestSwitchToModeKeepsInput(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("_1 + ")
	m = m.switchToMode(modeCtrl)

	if m.input.Value() != "" || m.mode != modeCtrl {
		t.Fatalf("ctrl input = %q, mode %d", m.input.Value(), m.mode)
	}

	m.input.SetValue("he")
	m = m.switchToMode(modeEval)

	if got := m.input.Value(); got != "_1 + " {
		t.Errorf("eval input = %q, want %q", got, "_1 + ")
	}

	m = m.switchToMode(modeCtrl)

	if got := m.input.Value(); got != "he" {
		t.Errorf("ctrl input = %q, want he", got)
	}
}

func TestExecuteInput(t *testing.T) {
	m := testModel(t, 2)

	m.input.SetValue("_1 ** 10")

	m, cmd := m.executeInput()
	if cmd == nil {
		t.Fatal("expected output command")
	}

	if m.input.Value() != "" || m.history.Len() != 1 {
		t.Errorf("input %q, history %d after submit", m.input.Value(), m.history.Len())
	}

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("args 3 4")

	m, _ = m.executeInput()

	if want := []any{3, 4}; !reflect.DeepEqual(m.args, want) {
		t.Errorf("args = %#v, want %#v", m.args, want)
	}

	m.input.SetValue("quit")

	m, _ = m.executeInput()
	if !m.quitting {
		t.Error("quit did not stop the model")
	}

	if m.View() != "" {
		t.Errorf("View after quit = %q", m.View())
	}
}

func TestHandleKeyCtrlC(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("abc")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.input.Value() != "" || m.quitting {
		t.Fatalf("first Ctrl+C: input %q, quitting %v", m.input.Value(), m.quitting)
	}

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("second Ctrl+C did not quit")
	}
}

func TestListNames(t *testing.T) {
	got := listNames("path")

	for _, want := range []string{"abs", "cat", "rel", "...string"} {
		if !strings.Contains(got, want) {
			t.Errorf("listNames(path) missing %q:\n%s", want, got)
		}
	}

	if got := listNames("nosuch"); !strings.Contains(got, "no members") {
		t.Errorf("listNames(nosuch) = %q", got)
	}
}
