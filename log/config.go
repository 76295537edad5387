package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeLayout is the timestamp layout of a logger made without
// [WithTimeLayout].
const DefaultTimeLayout = time.RFC3339

// Defaults of a logger made without [WithCallsite] or [WithPretty].
const (
	DefaultCallsite = false
	DefaultPretty   = true
)

// config is immutable once a Logger holds it. Options receive and return
// copies.
type config struct {
	output   io.Writer
	stamp    func(time.Time) string
	level    Level
	format   Format
	callsite bool
	pretty   bool
}

// Option changes one setting of a [Logger].
type Option func(config) config

func defaults(w io.Writer) config {
	if w == nil {
		w = io.Discard
	}

	return config{
		output: w,
		stamp:  stamper(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: DefaultPretty,

		callsite: DefaultCallsite,
	}
}

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithOutput sends records to w, or discards them when w is nil.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel drops records below level.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat selects JSON or text records.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithCallsite adds the file and line of the logging call to each record.
func WithCallsite(enable bool) Option {
	return func(c config) config {
		c.callsite = enable

		return c
	}
}

// WithPretty selects the colorized handlers: unquoted key=value pairs for
// text, indented objects for JSON.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// WithTimeLayout sets the timestamp layout. Names of the [time] package
// layouts are accepted in any case and punctuation ("rfc3339nano",
// "Kitchen"), as are the shorthands "ms", "us" and "ns" for the Stamp
// layouts. Any other string is used as a layout verbatim. A blank layout,
// or "none", omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.stamp = stamper(layout)

		return c
	}
}

var namedLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
	"none":        "",
}

// stamper returns the timestamp formatter for layout. A nil result means
// records carry no time.
func stamper(layout string) func(time.Time) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}

		return -1
	}, layout)

	if std, ok := namedLayouts[key]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return nil
	}

	return func(t time.Time) string { return t.Format(layout) }
}

// replaceAttr renders the built-in time and level attributes. Every handler
// the package builds, pretty or not, runs it.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			return a
		}

		if c.stamp == nil {
			return slog.Attr{}
		}

		return slog.String(slog.TimeKey, c.stamp(t))

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, Level(l).label())
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.callsite,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format != FormatJSON && c.format != FormatText:
		return slog.DiscardHandler
	case c.pretty:
		return newPrettyHandler(c.output, c.format, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}
