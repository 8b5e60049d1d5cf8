// Package dateutil resolves the front-matter date setting, including the
// "auto" forms that stamp the date of the run.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are named shortcuts for common formats, matched
// case-insensitively.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

type field int

const (
	literal field = iota
	year4
	year2
	monthName
	monthAbbr
	month2
	month1
	day2
	day1
)

// tokens are tried in order, so longer tokens come first.
var tokens = []struct {
	text  string
	field field
}{
	{"YYYY", year4},
	{"MMMM", monthName},
	{"MMM", monthAbbr},
	{"YY", year2},
	{"MM", month2},
	{"DD", day2},
	{"M", month1},
	{"D", day1},
}

type segment struct {
	field field
	text  string // for literal segments
}

// Layout is a parsed date format.
type Layout []segment

// ParseLayout parses a format made of the tokens YYYY, YY, MMMM, MMM, MM,
// M, DD and D. Text in brackets is literal: "[Day] D" keeps "Day". Other
// characters are literal too.
func ParseLayout(format string) (Layout, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout Layout
	addLiteral := func(s string) {
		if s == "" {
			return
		}
		if n := len(layout); n > 0 && layout[n-1].field == literal {
			layout[n-1].text += s
			return
		}
		layout = append(layout, segment{field: literal, text: s})
	}

	rest := format
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			addLiteral(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(rest, tok.text) {
				layout = append(layout, segment{field: tok.field})
				rest = rest[len(tok.text):]
				matched = true
				break
			}
		}
		if !matched {
			addLiteral(rest[:1])
			rest = rest[1:]
		}
	}
	return layout, nil
}

// Format renders t. Month names are English.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, s := range l {
		switch s.field {
		case literal:
			b.WriteString(s.text)
		case year4:
			fmt.Fprintf(&b, "%04d", t.Year())
		case year2:
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case monthName:
			b.WriteString(t.Month().String())
		case monthAbbr:
			b.WriteString(t.Month().String()[:3])
		case month2:
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case month1:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case day2:
			fmt.Fprintf(&b, "%02d", t.Day())
		case day1:
			b.WriteString(strconv.Itoa(t.Day()))
		}
	}
	return b.String()
}

// IsAuto reports whether value asks for the current date: "auto" or
// "auto:FORMAT", case-insensitive. Text such as "Autumn 2024" is literal.
func IsAuto(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower == "auto" || strings.HasPrefix(lower, "auto:")
}

// ResolveDate expands "auto" and "auto:FORMAT" using t; FORMAT may be a
// token pattern or a preset name. Any other value is returned unchanged.
// The caller supplies t, so output stays reproducible.
func ResolveDate(value string, t time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if !IsAuto(value) {
		return value, nil
	}

	format := DefaultDateFormat
	if len(value) > len("auto") {
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := ParseLayout(format)
	if err != nil {
		return "", err
	}
	return layout.Format(t), nil
}
