// Package mathconv translates LaTeX math into Typst math syntax.
//
// The translator covers the LaTeX subset found in technical documentation:
// symbols, scripts, fractions, roots, fonts, accents, text runs, matrices,
// cases and aligned environments. Anything else fails with an
// *UnsupportedError naming the offending token and its byte span.
package mathconv

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentinel errors.
var (
	ErrUnsupportedConstruct = errors.New("unsupported math construct")
	ErrInvalidMacro         = errors.New("invalid math macro")
)

// maxExpansionDepth bounds nested macro expansion.
const maxExpansionDepth = 16

// UnsupportedError reports a construct the translator cannot express.
// Start and End are byte offsets into Formula.
type UnsupportedError struct {
	Token   string
	Start   int
	End     int
	Formula string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v %q at bytes %d-%d of %q: %s",
		ErrUnsupportedConstruct, e.Token, e.Start, e.End, e.Formula, e.Reason)
}

// Unwrap lets errors.Is match ErrUnsupportedConstruct.
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedConstruct
}

type macro struct {
	params int
	body   string
}

// Translator converts formulas using a fixed macro table. It is immutable
// and safe for concurrent use.
type Translator struct {
	macros map[string]macro
}

// New builds a Translator. Macro names may be given with or without the
// leading backslash; bodies may reference arguments as #1 to #9.
// Macros take precedence over built-in commands of the same name.
func New(macros map[string]string) (*Translator, error) {
	t := &Translator{macros: make(map[string]macro, len(macros))}
	for name, body := range macros {
		key := strings.TrimPrefix(name, `\`)
		if key == "" || strings.IndexFunc(key, func(r rune) bool { return !isASCIILetter(r) }) >= 0 {
			return nil, fmt.Errorf("%w: name %q must be letters only", ErrInvalidMacro, name)
		}
		n, err := paramCount(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMacro, name, err)
		}
		t.macros[key] = macro{params: n, body: body}
	}
	return t, nil
}

// Convert translates formula without surrounding delimiters.
func (t *Translator) Convert(formula string) (string, error) {
	if t == nil {
		t = &Translator{}
	}
	if !utf8.ValidString(formula) {
		return "", &UnsupportedError{Formula: formula, Reason: "invalid UTF-8"}
	}
	p := &parser{t: t, src: formula}
	items, _, err := p.sequence(0)
	if err != nil {
		return "", err
	}
	return join(items), nil
}

func paramCount(body string) (int, error) {
	n := 0
	for i := 0; i < len(body); i++ {
		if body[i] != '#' {
			continue
		}
		if i+1 >= len(body) {
			return 0, errors.New("dangling #")
		}
		c := body[i+1]
		switch {
		case c == '#':
			i++
		case c >= '1' && c <= '9':
			n = max(n, int(c-'0'))
			i++
		default:
			return 0, fmt.Errorf("invalid parameter #%c", c)
		}
	}
	return n, nil
}

func substitute(body string, args []string) string {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '#' && i+1 < len(body) {
			c := body[i+1]
			if c == '#' {
				b.WriteByte('#')
				i++
				continue
			}
			if c >= '1' && c <= '9' && int(c-'0') <= len(args) {
				b.WriteString(args[c-'1'])
				i++
				continue
			}
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

// stopSet tells sequence which tokens end the current run.
type stopSet uint8

const (
	stopBrace   stopSet = 1 << iota // }
	stopBracket                     // ]
	stopEnd                         // \end
	stopAmp                         // &
	stopRow                         // \\
)

type parser struct {
	t        *Translator
	src      string
	pos      int
	argDepth int // >0 inside a Typst call argument, where , and ; separate
	depth    int
}

func (p *parser) fail(start, end int, token, reason string) error {
	return &UnsupportedError{Token: token, Start: start, End: end, Formula: p.src, Reason: reason}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		case '%':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

// sequence translates tokens until EOF or a token in stops, which is left
// unconsumed. It reports which stop ended the run, or 0 at EOF.
func (p *parser) sequence(stops stopSet) ([]string, stopSet, error) {
	var items []string
	for {
		p.skipSpace()
		if p.eof() {
			return items, 0, nil
		}
		c := p.src[p.pos]
		switch {
		case c == '}':
			if stops&stopBrace != 0 {
				return items, stopBrace, nil
			}
			return nil, 0, p.fail(p.pos, p.pos+1, "}", "unbalanced closing brace")
		case c == ']' && stops&stopBracket != 0:
			return items, stopBracket, nil
		case c == '&' && stops&stopAmp != 0:
			return items, stopAmp, nil
		case c == '\\':
			name := p.peekCommand()
			if name == "end" && stops&stopEnd != 0 {
				return items, stopEnd, nil
			}
			if name == `\` && stops&stopRow != 0 {
				return items, stopRow, nil
			}
			out, err := p.command()
			if err != nil {
				return nil, 0, err
			}
			items = append(items, out...)
		case c == '^' || c == '_':
			start := p.pos
			p.pos++
			arg, err := p.scriptArg(start)
			if err != nil {
				return nil, 0, err
			}
			items = attach(items, string(c)+arg)
		case c == '\'':
			p.pos++
			items = attach(items, "'")
		case c == '{':
			inner, err := p.group()
			if err != nil {
				return nil, 0, err
			}
			if len(inner) == 0 {
				inner = []string{`""`}
			}
			items = append(items, inner...)
		default:
			item, err := p.atom()
			if err != nil {
				return nil, 0, err
			}
			items = append(items, item)
		}
	}
}

// group translates a brace group; p.pos is at '{'.
func (p *parser) group() ([]string, error) {
	start := p.pos
	p.pos++
	items, stop, err := p.sequence(stopBrace)
	if err != nil {
		return nil, err
	}
	if stop != stopBrace {
		return nil, p.fail(start, start+1, "{", "unclosed group")
	}
	p.pos++
	return items, nil
}

// atom translates one character, or a whole number.
func (p *parser) atom() (string, error) {
	c := p.src[p.pos]
	if c >= '0' && c <= '9' {
		start := p.pos
		for !p.eof() && isDigit(p.src[p.pos]) {
			p.pos++
		}
		if p.pos+1 < len(p.src) && p.src[p.pos] == '.' && isDigit(p.src[p.pos+1]) {
			p.pos++
			for !p.eof() && isDigit(p.src[p.pos]) {
				p.pos++
			}
		}
		return p.src[start:p.pos], nil
	}
	return p.char()
}

// char translates exactly one rune.
func (p *parser) char() (string, error) {
	start := p.pos
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size

	switch {
	case isASCIILetter(r), r >= '0' && r <= '9':
		return string(r), nil
	case r == ',':
		if p.argDepth > 0 {
			return `\,`, nil
		}
		return ",", nil
	case r == ';':
		if p.argDepth > 0 {
			return `\;`, nil
		}
		return ";", nil
	case r == '/':
		return `\/`, nil
	case r == '"':
		return `\"`, nil
	case r == '~':
		return "space.nobreak", nil
	case r == '#':
		return "", p.fail(start, p.pos, "#", "macro parameter outside a macro")
	case strings.ContainsRune("+-=<>()[]|!*.?:&", r):
		return string(r), nil
	case r < utf8.RuneSelf && unicode.IsPrint(r):
		return quote(string(r)), nil
	case r >= utf8.RuneSelf && unicode.IsPrint(r):
		return string(r), nil
	}
	return "", p.fail(start, p.pos, string(r), "control character")
}

// peekCommand returns the name of the command at p.pos without consuming.
func (p *parser) peekCommand() string {
	save := p.pos
	name := p.commandName()
	p.pos = save
	return name
}

// commandName consumes a backslash and its name: a letter run or a
// single other character.
func (p *parser) commandName() string {
	p.pos++ // backslash
	if p.eof() {
		return ""
	}
	start := p.pos
	if isASCIILetter(rune(p.src[p.pos])) {
		for !p.eof() && isASCIILetter(rune(p.src[p.pos])) {
			p.pos++
		}
		return p.src[start:p.pos]
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return p.src[start:p.pos]
}

func (p *parser) command() ([]string, error) {
	start := p.pos
	name := p.commandName()
	if name == "" {
		return nil, p.fail(start, p.pos, `\`, "dangling backslash")
	}
	token := `\` + name

	if m, ok := p.t.macros[name]; ok {
		return p.expand(m, token, start)
	}
	if sym, ok := symbols[name]; ok {
		return []string{sym}, nil
	}
	if sp, ok := spaces[name]; ok {
		return []string{sp}, nil
	}
	if ignored[name] {
		return nil, nil
	}
	if tmpl, ok := fonts[name]; ok {
		arg, err := p.arg(token)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf(tmpl, arg)}, nil
	}
	if fn, ok := accents[name]; ok {
		arg, err := p.arg(token)
		if err != nil {
			return nil, err
		}
		return []string{fn + "(" + arg + ")"}, nil
	}
	if tmpl, ok := textCommands[name]; ok {
		s, err := p.textArg(token)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf(tmpl, quote(s))}, nil
	}
	if definitionCommands[name] {
		return nil, p.fail(start, p.pos, token, "macros must be configured, not defined inline")
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		return p.binary(token, "frac")
	case "binom", "dbinom", "tbinom":
		return p.binary(token, "binom")
	case "sqrt":
		return p.sqrt(token)
	case "left", "right", "middle":
		return p.delimiter(token)
	case "begin":
		return p.environment(start)
	case "end":
		return nil, p.fail(start, p.pos, token, "\\end without matching \\begin")
	case `\`:
		p.skipOptionalBracket()
		return []string{`\`}, nil
	case "operatorname":
		if !p.eof() && p.src[p.pos] == '*' {
			p.pos++
		}
		s, err := p.textArg(token)
		if err != nil {
			return nil, err
		}
		return []string{"op(" + quote(s) + ")"}, nil
	case "overbrace", "underbrace":
		return p.brace(name, token)
	case "overset", "stackrel", "underset":
		return p.stack(name, token)
	case "not":
		return p.negation(start)
	case "pmod":
		arg, err := p.arg(token)
		if err != nil {
			return nil, err
		}
		return []string{"(", `"mod"`, arg, ")"}, nil
	case "boxed":
		arg, err := p.arg(token)
		if err != nil {
			return nil, err
		}
		return []string{"#box(stroke: 0.5pt, inset: 2pt, $" + arg + "$)"}, nil
	case "label", "tag":
		_, err := p.rawArg(token)
		return nil, err
	}
	return nil, p.fail(start, p.pos, token, "unknown command")
}

func (p *parser) expand(m macro, token string, start int) ([]string, error) {
	if p.depth >= maxExpansionDepth {
		return nil, p.fail(start, p.pos, token, "macro expansion too deep")
	}
	args := make([]string, m.params)
	for i := range args {
		a, err := p.rawArg(token)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	sub := &parser{t: p.t, src: substitute(m.body, args), argDepth: p.argDepth, depth: p.depth + 1}
	items, _, err := sub.sequence(0)
	if err != nil {
		var ue *UnsupportedError
		if errors.As(err, &ue) {
			return nil, p.fail(start, p.pos, token, fmt.Sprintf("in expansion: %s %q", ue.Reason, ue.Token))
		}
		return nil, err
	}
	return items, nil
}

// arg translates one argument of a Typst function call.
func (p *parser) arg(token string) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.fail(p.pos, p.pos, token, "missing argument")
	}
	p.argDepth++
	defer func() { p.argDepth-- }()

	var items []string
	var err error
	switch p.src[p.pos] {
	case '{':
		items, err = p.group()
	case '\\':
		items, err = p.command()
	default:
		var s string
		s, err = p.char()
		items = []string{s}
	}
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return `""`, nil
	}
	return join(items), nil
}

// scriptArg translates the operand of ^ or _. start is the operator offset.
func (p *parser) scriptArg(start int) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.fail(start, start+1, p.src[start:start+1], "missing script")
	}
	var items []string
	var err error
	switch p.src[p.pos] {
	case '{':
		items, err = p.group()
	case '\\':
		items, err = p.command()
	default:
		var s string
		s, err = p.char()
		items = []string{s}
	}
	if err != nil {
		return "", err
	}
	switch {
	case len(items) == 0:
		return `""`, nil
	case len(items) == 1 && isAtomic(items[0]):
		return items[0], nil
	}
	return "(" + join(items) + ")", nil
}

// rawArg returns the source text of one argument without translating it.
func (p *parser) rawArg(token string) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.fail(p.pos, p.pos, token, "missing argument")
	}
	start := p.pos
	switch p.src[p.pos] {
	case '{':
		depth := 0
		for p.pos < len(p.src) {
			switch p.src[p.pos] {
			case '\\':
				p.pos++
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					p.pos++
					return p.src[start+1 : p.pos-1], nil
				}
			}
			p.pos++
		}
		return "", p.fail(start, start+1, "{", "unclosed group")
	case '\\':
		return `\` + p.commandName(), nil
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return p.src[start:p.pos], nil
}

// textArg reads a text-mode argument and resolves its character escapes.
func (p *parser) textArg(token string) (string, error) {
	start := p.pos
	raw, err := p.rawArg(token)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '~':
			b.WriteRune(' ')
		case '{', '}':
		case '$':
			return "", p.fail(start, p.pos, "$", "math inside text is not supported")
		case '\\':
			if i+1 < len(raw) && strings.IndexByte(`{}%$#&_ \`, raw[i+1]) >= 0 {
				if raw[i+1] != '\\' {
					b.WriteByte(raw[i+1])
				}
				i++
				continue
			}
			return "", p.fail(start, p.pos, token, "commands inside text are not supported")
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func (p *parser) binary(token, fn string) ([]string, error) {
	a, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	b, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	return []string{fn + "(" + a + ", " + b + ")"}, nil
}

func (p *parser) sqrt(token string) ([]string, error) {
	p.skipSpace()
	var index string
	if !p.eof() && p.src[p.pos] == '[' {
		open := p.pos
		p.pos++
		p.argDepth++
		items, stop, err := p.sequence(stopBracket)
		p.argDepth--
		if err != nil {
			return nil, err
		}
		if stop != stopBracket {
			return nil, p.fail(open, open+1, "[", "unclosed root index")
		}
		p.pos++
		index = join(items)
	}
	x, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	if index == "" {
		return []string{"sqrt(" + x + ")"}, nil
	}
	return []string{"root(" + index + ", " + x + ")"}, nil
}

// delimiter handles \left, \right and \middle. Typst sizes paired
// delimiters itself, so only the delimiter is emitted.
func (p *parser) delimiter(token string) ([]string, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.fail(p.pos, p.pos, token, "missing delimiter")
	}
	switch p.src[p.pos] {
	case '.':
		p.pos++
		return nil, nil
	case '<':
		p.pos++
		return []string{"angle.l"}, nil
	case '>':
		p.pos++
		return []string{"angle.r"}, nil
	case '\\':
		return p.command()
	}
	s, err := p.char()
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func (p *parser) brace(name, token string) ([]string, error) {
	body, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	marker := byte('^')
	if name == "underbrace" {
		marker = '_'
	}
	save := p.pos
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == marker {
		p.pos++
		note, err := p.arg(token)
		if err != nil {
			return nil, err
		}
		return []string{name + "(" + body + ", " + note + ")"}, nil
	}
	p.pos = save
	return []string{name + "(" + body + ")"}, nil
}

func (p *parser) stack(name, token string) ([]string, error) {
	over, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	base, err := p.arg(token)
	if err != nil {
		return nil, err
	}
	op := "^"
	if name == "underset" {
		op = "_"
	}
	return []string{"limits(" + base + ")" + op + "(" + over + ")"}, nil
}

func (p *parser) negation(start int) ([]string, error) {
	p.skipSpace()
	if !p.eof() {
		switch p.src[p.pos] {
		case '=':
			p.pos++
			return []string{"eq.not"}, nil
		case '\\':
			save := p.pos
			if sym, ok := negations[p.commandName()]; ok {
				return []string{sym}, nil
			}
			p.pos = save
		}
	}
	return nil, p.fail(start, p.pos, `\not`, "unsupported negation")
}

func (p *parser) skipOptionalBracket() {
	if p.eof() || p.src[p.pos] != '[' {
		return
	}
	if end := strings.IndexByte(p.src[p.pos:], ']'); end >= 0 {
		p.pos += end + 1
	}
}

// attach appends a script or prime to the last item.
func attach(items []string, suffix string) []string {
	if n := len(items); n > 0 && items[n-1] != "&" && items[n-1] != `\` {
		items[n-1] += suffix
		return items
	}
	return append(items, `""`+suffix)
}

// isAtomic reports whether s can be a script operand without parentheses.
func isAtomic(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return true
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	}) < 0 {
		return true
	}
	open := strings.IndexByte(s, '(')
	return open > 0 && strings.HasSuffix(s, ")") && isIdent(s[:open])
}

func isIdent(s string) bool {
	for _, r := range s {
		if !isASCIILetter(r) && r != '.' {
			return false
		}
	}
	return s != ""
}

// join concatenates items with the spacing Typst needs to keep single
// letters apart and shorthands such as <= or [| from forming.
func join(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 && needsSpace(items[i-1], it) {
			b.WriteByte(' ')
		}
		b.WriteString(it)
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	if (prev == "(" || prev == "[") && !strings.HasPrefix(next, "|") {
		return false
	}
	switch next {
	case ")", ",", `\,`, ";", `\;`:
		return false
	case "]":
		return strings.HasSuffix(prev, "|")
	}
	return true
}

// quote renders s as a Typst string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n', '\r', '\t':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
