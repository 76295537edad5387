package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type opError struct{}

func (opError) Error() string { return "type mismatch" }

func (opError) LogValue() slog.Value {
	return slog.GroupValue(slog.String("op", "+"), slog.String("type0", "int"))
}

func prettyText(buf *bytes.Buffer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return slog.New(newPrettyHandler(buf, FormatText, opts))
}

func TestPrettyGroups(t *testing.T) {
	var buf bytes.Buffer

	prettyText(&buf, nil).
		With("a", 1).
		WithGroup("g").
		With("b", true).
		Info("m", "c", "x", slog.Group("sub", "d", 2.5), slog.Group("empty"))

	out := plain(buf.String())

	for _, want := range []string{"level=INFO", "msg=m", "a=1", "g.b=true", "g.c=x", "g.sub.d=2.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}

	if strings.Contains(out, "empty") {
		t.Errorf("empty group written: %s", out)
	}
}

func TestPrettyLogValuer(t *testing.T) {
	var buf bytes.Buffer

	prettyText(&buf, nil).Error("eval failed", slog.Any("error", opError{}))

	out := plain(buf.String())
	if !strings.Contains(out, "error.op=+") || !strings.Contains(out, "error.type0=int") {
		t.Errorf("LogValuer not expanded: %s", out)
	}
}

func TestPrettyReplaceAttr(t *testing.T) {
	var buf bytes.Buffer

	opts := &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "secret" {
				return slog.Attr{}
			}

			if len(groups) == 1 && a.Key == "n" {
				a.Value = slog.Int64Value(a.Value.Int64() * 10)
			}

			return a
		},
	}

	prettyText(&buf, opts).Info("m", "secret", "x", slog.Group("g", slog.Int("n", 4)))

	out := plain(buf.String())
	if strings.Contains(out, "secret") || !strings.Contains(out, "g.n=40") {
		t.Errorf("ReplaceAttr not applied: %s", out)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.InfoContext(t.Context(), "hello", slog.Any("nothing", nil), slog.Bool("ok", false))

	want := "{\n  level: INFO,\n  msg: hello,\n  nothing: null,\n  ok: false\n}\n"
	if got := plain(buf.String()); got != want {
		t.Errorf("unexpected record:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyEnabled(t *testing.T) {
	h := newPrettyHandler(&bytes.Buffer{}, FormatText, &slog.HandlerOptions{})

	if h.Enabled(t.Context(), slog.LevelDebug) || !h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("nil Level should default to Info")
	}
}
