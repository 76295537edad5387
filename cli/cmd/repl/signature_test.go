package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no function call", "upper", 5, "", 0, false},
		{"first argument", "upper(", 6, "upper", 0, true},
		{"first argument with value", "upper(_1", 8, "upper", 0, true},
		{"second argument", "split(_1,", 9, "split", 1, true},
		{"nested namespace function", "path.cat(_1, ", 13, "path.cat", 1, true},
		{"closed call", "upper(_1)", 9, "", 0, false},
		{"inner call", "join(split(_1", 13, "split", 0, true},
		{"after inner call", "join(split(_1, \",\"), ", 21, "join", 1, true},
		{"commas inside list", "sum([1, 2], ", 12, "sum", 1, true},
		{"list literal", "[1, ", 4, "", 0, false},
		{"grouping parens", "_1 * (2", 7, "", 0, false},
		{"cursor before call", "upper(_1", 3, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		ok     bool
	}{
		{"upper", []string{"string"}, true},
		{"split", []string{"string", "string"}, true},
		{"path.cat", []string{"...string"}, true},
		{"join", []string{"any", "string"}, true},
		{"sum", []string{"...any"}, true},
		{"cwd", []string{}, true},
		{"path", nil, false},
		{"nosuch", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := getSignature(tt.name)
			if ok != tt.ok || !slices.Equal(params, tt.params) {
				t.Errorf("getSignature(%q) = %v, %v, want %v, %v",
					tt.name, params, ok, tt.params, tt.ok)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	got := renderSignatureHint("split", []string{"string", "string"}, 1)

	for _, want := range []string{"split", "(", "string", ")"} {
		if !strings.Contains(got, want) {
			t.Errorf("hint %q missing %q", got, want)
		}
	}
}
