package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a record. It extends [slog.Level] with
// [LevelTrace], which the evaluator uses for one record per visited node.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

// ParseLevel returns the level named by s, ignoring case. Besides the five
// names, anything [slog.Level.UnmarshalText] accepts is understood
// ("debug+2"). Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// label is the upper-case name written to records. Levels between the
// named ones keep slog's offset notation relative to the nearest name
// below them, so LevelTrace+1 is "TRACE+1".
func (l Level) label() string {
	base := LevelTrace

	for _, n := range [...]Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace} {
		if l >= n {
			base = n

			break
		}
	}

	name := strings.ToUpper(base.String())

	switch d := int(l - base); {
	case d > 0:
		return name + "+" + strconv.Itoa(d)
	case d < 0:
		return name + strconv.Itoa(d)
	default:
		return name
	}
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatJSON

// ParseFormat returns the format named by s ("json" or "text", any case),
// or [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatText.String():
		return FormatText
	case FormatJSON.String():
		return FormatJSON
	}

	return DefaultFormat
}
