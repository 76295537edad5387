package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultFunctions(t *testing.T) {
	saved := Default()
	defer SetDefault(saved)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithPretty(false), WithCallsite(true)))

	tests := []struct {
		level string
		log   func(string, ...slog.Attr)
	}{
		{"TRACE", func(m string, a ...slog.Attr) { TraceContext(t.Context(), m, a...) }},
		{"DEBUG", func(m string, a ...slog.Attr) { DebugContext(t.Context(), m, a...) }},
		{"INFO", func(m string, a ...slog.Attr) { InfoContext(t.Context(), m, a...) }},
		{"WARN", func(m string, a ...slog.Attr) { WarnContext(t.Context(), m, a...) }},
		{"WARN", Warn},
		{"ERROR", Error},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log("message", slog.String("key", "value"))

		out := buf.String()
		for _, want := range []string{`"level":"` + tt.level + `"`, `"key":"value"`, `"msg":"message"`} {
			if !strings.Contains(out, want) {
				t.Errorf("%s: missing %s in %s", tt.level, want, out)
			}
		}

		if !strings.Contains(out, "pkg_test.go") {
			t.Errorf("%s: callsite is not the caller: %s", tt.level, out)
		}
	}
}

func TestConfig(t *testing.T) {
	saved := Default()
	defer SetDefault(saved)

	Config(WithLevel(LevelError))

	if Default().Level() != LevelError {
		t.Errorf("Config did not apply: %v", Default().Level())
	}

	if Default().Allows(context.Background(), LevelWarn) {
		t.Error("default logger allows records below its level")
	}
}
