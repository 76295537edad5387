package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal. Text records are
// one line of unquoted key=value pairs. JSON records are indented objects
// with one member per line. Groups, including those produced by
// [slog.LogValuer] values such as evaluation errors, are flattened into
// dotted keys.
type prettyHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	opts   slog.HandlerOptions
	prefix string
	groups []string
	attrs  []slog.Attr
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		w:    w,
		mu:   &sync.Mutex{},
		opts: *opts,
		json: format == FormatJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = c.flatten(c.attrs, c.prefix, c.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())
	levelAt := -1

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key == "" {
			return
		}

		if a.Key == slog.LevelKey {
			levelAt = len(fields)
		}

		fields = append(fields, a)
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.prefix, h.groups, a)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		buf.WriteString("{\n")
	}

	for i, a := range fields {
		color, text := paint(a.Value, h.json)
		if i == levelAt {
			color = levelColor(r.Level)
		}

		switch {
		case !h.json && i > 0:
			buf.WriteByte(' ')
		case h.json && i > 0:
			buf.WriteString(",\n")
		}

		if h.json {
			buf.WriteString("  ")
		}

		buf.WriteString(ansiGray + a.Key + ansiReset)

		if h.json {
			buf.WriteString(": ")
		} else {
			buf.WriteByte('=')
		}

		buf.WriteString(color + text + ansiReset)
	}

	if h.json {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends a to dst with its key qualified by prefix, expanding
// groups member by member.
func (h *prettyHandler) flatten(
	dst []slog.Attr,
	prefix string,
	groups []string,
	a slog.Attr,
) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(groups, a)
			a.Value = a.Value.Resolve()
		}

		if a.Equal(slog.Attr{}) {
			return dst
		}

		a.Key = prefix + a.Key

		return append(dst, a)
	}

	members := a.Value.Group()
	if len(members) == 0 {
		return dst
	}

	if a.Key != "" {
		prefix += a.Key + "."
		groups = append(slices.Clip(groups), a.Key)
	}

	for _, m := range members {
		dst = h.flatten(dst, prefix, groups, m)
	}

	return dst
}

// paint returns the color and text of a value.
func paint(v slog.Value, json bool) (string, string) {
	switch v.Kind() {
	case slog.KindString:
		return ansiCyan, v.String()
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return ansiYellow, v.String()
	case slog.KindBool:
		if v.Bool() {
			return ansiGreen, "true"
		}

		return ansiRed, "false"
	case slog.KindDuration:
		return ansiMagenta, v.String()
	case slog.KindTime:
		return ansiBlue, v.String()
	}

	switch x := v.Any().(type) {
	case nil:
		if json {
			return ansiGray, "null"
		}

		return ansiGray, "nil"
	case error:
		return ansiRed, x.Error()
	}

	return ansiCyan, v.String()
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	case l >= slog.LevelDebug:
		return ansiBlue
	default:
		return ansiMagenta
	}
}
