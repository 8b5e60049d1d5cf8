// Package escape maps raw text to safe Typst markup.
//
// Escaping is pure and referentially transparent: the same input always
// yields the same output and text containing no reserved character is
// returned unchanged. Markup output is always a single line.
package escape

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnsupportedCharacter indicates a character with no safe encoding.
var ErrUnsupportedCharacter = errors.New("unsupported character")

// Context selects the escaping rules for a piece of text.
type Context int

const (
	// InlineContext is Typst markup mode (paragraphs, headings, captions).
	InlineContext Context = iota
	// CodeContext is the body of a Typst string literal ("...").
	CodeContext
	// RawContext passes text through verbatim.
	RawContext
)

// String returns the context name used in error messages.
func (c Context) String() string {
	switch c {
	case InlineContext:
		return "inline"
	case CodeContext:
		return "code"
	case RawContext:
		return "raw"
	default:
		return fmt.Sprintf("Context(%d)", int(c))
	}
}

// markupReserved lists the characters with syntactic meaning anywhere in
// Typst markup. Each is emitted behind a backslash.
const markupReserved = "\\#$*_`<>@[]~"

// UnsupportedCharacterError reports the first character that could not be
// encoded and its byte offset in the input.
type UnsupportedCharacterError struct {
	Rune    rune
	Offset  int
	Context Context
}

func (e *UnsupportedCharacterError) Error() string {
	if e.Rune == utf8.RuneError {
		return fmt.Sprintf("%v: invalid UTF-8 at byte %d", ErrUnsupportedCharacter, e.Offset)
	}
	return fmt.Sprintf("%v: %U at byte %d in %s context", ErrUnsupportedCharacter, e.Rune, e.Offset, e.Context)
}

// Unwrap lets errors.Is match ErrUnsupportedCharacter.
func (e *UnsupportedCharacterError) Unwrap() error {
	return ErrUnsupportedCharacter
}

// Escape returns text encoded for ctx.
func Escape(text string, ctx Context) (string, error) {
	switch ctx {
	case RawContext:
		return text, nil
	case CodeContext:
		return escapeString(text)
	default:
		return escapeMarkup(text)
	}
}

// Markup escapes text for Typst markup mode.
func Markup(text string) (string, error) {
	return escapeMarkup(text)
}

// String returns text as a quoted Typst string literal.
func String(text string) (string, error) {
	s, err := escapeString(text)
	if err != nil {
		return "", err
	}
	return `"` + s + `"`, nil
}

// Label returns the Typst label syntax for an already-sanitized identifier.
func Label(id string) string {
	return "<" + id + ">"
}

func escapeMarkup(text string) (string, error) {
	if !needsMarkupWork(text) {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range text {
		if err := checkRune(text, i, r, InlineContext); err != nil {
			return "", err
		}
		// A line break could start a new block.
		switch r {
		case '\r':
			b.WriteByte(' ')
			continue
		case '\n':
			if i > 0 && text[i-1] == '\r' {
				continue
			}
			b.WriteByte(' ')
			continue
		}
		if needsBackslash(text, i, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// needsBackslash reports whether the rune at text[i] must be escaped.
// Hyphens and slashes only matter when they form a shorthand or comment
// ("--", "-?", "//", "/*").
func needsBackslash(text string, i int, r rune) bool {
	if r >= utf8.RuneSelf {
		return false
	}
	if strings.IndexByte(markupReserved, byte(r)) >= 0 {
		return true
	}
	next := byte(0)
	if i+1 < len(text) {
		next = text[i+1]
	}
	switch r {
	case '-':
		return next == '-' || next == '?'
	case '/':
		return next == '/' || next == '*'
	}
	return false
}

func escapeString(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range text {
		if r == utf8.RuneError || r == 0 {
			if err := checkRune(text, i, r, CodeContext); err != nil {
				return "", err
			}
		}
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// checkRune rejects invalid UTF-8 and NUL everywhere, and any other control
// character except tab and line breaks in markup. Line breaks are folded by
// escapeMarkup.
func checkRune(text string, i int, r rune, ctx Context) error {
	if r == utf8.RuneError {
		if _, size := utf8.DecodeRuneInString(text[i:]); size <= 1 {
			return &UnsupportedCharacterError{Rune: r, Offset: i, Context: ctx}
		}
		return nil
	}
	if r == 0 {
		return &UnsupportedCharacterError{Rune: r, Offset: i, Context: ctx}
	}
	if ctx == InlineContext && unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
		return &UnsupportedCharacterError{Rune: r, Offset: i, Context: ctx}
	}
	return nil
}

func needsMarkupWork(text string) bool {
	for i, r := range text {
		if r == utf8.RuneError || unicode.IsControl(r) && r != '\t' {
			return true
		}
		if needsBackslash(text, i, r) {
			return true
		}
	}
	return false
}

// ProtectLineStart escapes a leading list, enum, term or heading marker
// ("- ", "+ ", "/ ", "== ", "12. ") so a markup fragment placed at the
// start of a line keeps its literal meaning. Leading blanks are kept.
func ProtectLineStart(s string) string {
	rest := strings.TrimLeft(s, " \t")
	if lead := len(s) - len(rest); lead > 0 {
		return s[:lead] + ProtectLineStart(rest)
	}
	endsMarker := func(i int) bool {
		return i == len(s) || s[i] == ' ' || s[i] == '\t'
	}
	if s == "" {
		return s
	}
	switch s[0] {
	case '-', '+', '/':
		if endsMarker(1) {
			return `\` + s
		}
		return s
	case '=':
		i := 0
		for i < len(s) && s[i] == '=' {
			i++
		}
		if endsMarker(i) {
			return `\` + s
		}
		return s
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == '.' && endsMarker(i+1) {
		return s[:i] + `\` + s[i:]
	}
	return s
}
