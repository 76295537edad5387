package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func TestMakeDefaults(t *testing.T) {
	l := Make(io.Discard)

	if l.cfg.level != DefaultLevel || l.cfg.format != DefaultFormat ||
		l.cfg.callsite != DefaultCallsite || l.cfg.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: %+v", l.cfg)
	}

	if l.cfg.stamp == nil {
		t.Error("expected timestamps by default")
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		min    Level
		level  Level
		logged bool
	}{
		{LevelTrace, LevelTrace, true},
		{LevelDebug, LevelTrace, false},
		{LevelDebug, LevelDebug, true},
		{LevelInfo, LevelDebug, false},
		{LevelWarn, LevelError, true},
		{LevelError, LevelWarn, false},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		l := Make(&buf, WithLevel(tt.min), WithPretty(false))
		l.log(t.Context(), tt.level, "m", nil)

		if got := buf.Len() > 0; got != tt.logged {
			t.Errorf("min %v, level %v: logged=%v, want %v", tt.min, tt.level, got, tt.logged)
		}

		if got := l.Allows(t.Context(), tt.level); got != tt.logged {
			t.Errorf("min %v, level %v: Allows=%v, want %v", tt.min, tt.level, got, tt.logged)
		}
	}
}

// Every handler the package builds names the trace level.
func TestTraceLabel(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		for _, pretty := range []bool{false, true} {
			var buf bytes.Buffer

			l := Make(&buf, WithLevel(LevelTrace), WithFormat(format), WithPretty(pretty))
			l.TraceContext(t.Context(), "eval")

			out := plain(buf.String())
			if !strings.Contains(out, "TRACE") || strings.Contains(out, "DEBUG-4") {
				t.Errorf("format %v, pretty %v: missing TRACE label: %s", format, pretty, out)
			}
		}
	}
}

func TestLevelLabel(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelTrace + 1, "TRACE+1"},
		{LevelTrace - 2, "TRACE-2"},
		{LevelDebug, "DEBUG"},
		{LevelInfo + 2, "INFO+2"},
		{LevelWarn, "WARN"},
		{LevelError + 4, "ERROR+4"},
	}

	for _, tt := range tests {
		if got := tt.level.label(); got != tt.want {
			t.Errorf("label(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"Debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", LevelDebug + 2},
		{"loud", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"TEXT", FormatText},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStamper(t *testing.T) {
	at := time.Date(2023, 10, 15, 14, 30, 45, 123000000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"rfc3339", "2023-10-15T14:30:45Z"},
		{"RFC-3339", "2023-10-15T14:30:45Z"},
		{"Kitchen", "2:30PM"},
		{"ms", "Oct 15 14:30:45.123"},
		{"2006", "2023"},
	}

	for _, tt := range tests {
		stamp := stamper(tt.layout)
		if stamp == nil {
			t.Fatalf("stamper(%q) = nil", tt.layout)
		}

		if got := stamp(at); got != tt.want {
			t.Errorf("stamper(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}

	for _, layout := range []string{"", "  ", "none", "NONE"} {
		if stamper(layout) != nil {
			t.Errorf("stamper(%q) should omit timestamps", layout)
		}
	}
}

func TestTimestampOmitted(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		l := Make(&buf, WithTimeLayout("none"), WithFormat(FormatText), WithPretty(pretty))
		l.InfoContext(t.Context(), "hello")

		if out := plain(buf.String()); strings.Contains(out, "time=") {
			t.Errorf("pretty %v: unexpected timestamp: %s", pretty, out)
		}
	}
}

func TestCallsite(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		l := Make(&buf, WithCallsite(true), WithPretty(pretty))
		l.WarnContext(t.Context(), "here")

		if out := buf.String(); !strings.Contains(out, "log_test.go") {
			t.Errorf("pretty %v: callsite is not the caller: %s", pretty, out)
		}
	}
}

func TestWrap(t *testing.T) {
	l := Make(io.Discard, WithLevel(LevelDebug))
	w := l.Wrap(WithFormat(FormatText))

	if w.Level() != LevelDebug || w.cfg.format != FormatText {
		t.Errorf("Wrap lost or ignored options: %+v", w.cfg)
	}

	if l.cfg.format != DefaultFormat {
		t.Error("Wrap modified the original logger")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false)).With(slog.String("command", "eval"))
	l.InfoContext(t.Context(), "compiled")

	if !strings.Contains(buf.String(), `"command":"eval"`) {
		t.Errorf("missing attribute: %s", buf.String())
	}
}

func TestZeroLogger(t *testing.T) {
	var l Logger

	l.ErrorContext(t.Context(), "dropped")

	if l.Allows(t.Context(), LevelError) {
		t.Error("zero logger allows records")
	}

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v", l.Level())
	}

	if l.With(slog.Int("k", 1)).Logger != nil {
		t.Error("With on the zero logger made a logger")
	}

	l.Wrap(WithLevel(LevelTrace)).TraceContext(t.Context(), "discarded")
}

func TestConcurrentLogging(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		l := Make(&buf, WithFormat(FormatText), WithPretty(pretty))

		var wg sync.WaitGroup

		for i := range 32 {
			wg.Go(func() {
				l.With(slog.Int("worker", i)).InfoContext(context.Background(), "done")
			})
		}

		wg.Wait()

		if n := strings.Count(buf.String(), "\n"); n != 32 {
			t.Errorf("pretty %v: %d records, want 32", pretty, n)
		}
	}
}

func BenchmarkTraceDisabled(b *testing.B) {
	l := Make(io.Discard)
	ctx := b.Context()

	for b.Loop() {
		l.TraceContext(ctx, "eval", slog.String("node", "binary"))
	}
}

func BenchmarkInfoPretty(b *testing.B) {
	l := Make(io.Discard, WithFormat(FormatText))
	ctx := b.Context()

	for b.Loop() {
		l.InfoContext(ctx, "eval", slog.String("node", "binary"), slog.Int("depth", 3))
	}
}
