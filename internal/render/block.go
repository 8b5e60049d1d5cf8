package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/escape"
	"github.com/alnah/go-typstwriter/internal/numbering"
)

// admonitionKinds are the kinds the preamble's admonition function styles.
var admonitionKinds = map[string]bool{
	"note": true, "info": true, "tip": true, "warning": true, "danger": true,
	"compat": true, "important": true, "caution": true, "todo": true,
}

// blocks renders a block sequence separated by blank lines. Blocks that
// render to nothing, such as footnote definitions, leave no gap.
func (r *renderer) blocks(blocks []doctree.Block, path doctree.Path) (string, error) {
	parts := make([]string, 0, len(blocks))
	for i, b := range blocks {
		s, err := r.block(b, path.Push("block", i))
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func (r *renderer) block(b doctree.Block, p doctree.Path) (string, error) {
	switch n := b.(type) {
	case *doctree.Heading:
		return r.heading(n, p)

	case *doctree.Paragraph:
		s, err := r.inlines(n.Content, p)
		if err != nil {
			return "", err
		}
		return escape.ProtectLineStart(s), nil

	case *doctree.CodeBlock:
		return r.codeBlock(n, p)

	case *doctree.MathBlock:
		return r.math(n.Dialect, n.Text, true, p, n)

	case *doctree.List:
		return r.list(n, p)

	case *doctree.Table:
		return r.table(n, p)

	case *doctree.Admonition:
		return r.admonition(n, p)

	case *doctree.Image:
		return r.blockImage(n, p)

	case *doctree.FootnoteDefinition:
		// emitted after the body, in first-reference order
		return "", nil

	case *doctree.RawMarkup:
		return r.raw(n, p), nil

	case *doctree.BlockQuote:
		body, err := r.blocks(n.Content, p)
		if err != nil {
			return "", err
		}
		return "#quote(block: true)[" + wrapBody(body) + "]", nil

	case *doctree.ThematicBreak:
		return "#line(length: 100%)", nil
	}
	return "", r.fail(p, b, "", fmt.Errorf("%w: unknown block type %T", doctree.ErrMalformed, b))
}

func (r *renderer) heading(h *doctree.Heading, p doctree.Path) (string, error) {
	r.section = doctree.PlainText(h.Content)
	body, err := r.inlines(h.Content, p)
	if err != nil {
		return "", err
	}
	return strings.Repeat("=", h.Level) + " " + body + " " + escape.Label(r.anchors[h].ID), nil
}

func (r *renderer) codeBlock(c *doctree.CodeBlock, p doctree.Path) (string, error) {
	text, err := escape.String(strings.TrimSuffix(c.Text, "\n"))
	if err != nil {
		return "", r.fail(p, c, "", err)
	}
	lang, ok := resolveLanguage(c.Language)
	if !ok {
		r.warns.add(WarnUnknownLanguage, p.String(),
			"unknown code language %q rendered as plain text", c.Language)
	}
	if lang == "" {
		return "#raw(" + text + ", block: true)", nil
	}
	return "#raw(" + text + ", block: true, lang: " + strconv.Quote(lang) + ")", nil
}

func (r *renderer) list(l *doctree.List, p doctree.Path) (string, error) {
	items := make([]string, len(l.Items))
	for i, item := range l.Items {
		s, err := r.blocks(item, p.Push("item", i))
		if err != nil {
			return "", err
		}
		items[i] = s
	}

	if l.Ordered && l.Start > 1 {
		args := []string{"start: " + strconv.Itoa(l.Start) + ","}
		if l.Tight {
			args = append(args, "tight: true,")
		}
		for _, s := range items {
			args = append(args, contentBlock(s)+",")
		}
		return "#enum(\n" + indent(strings.Join(args, "\n")) + "\n)", nil
	}

	marker := "- "
	if l.Ordered {
		marker = "+ "
	}
	sep := "\n"
	if !l.Tight {
		sep = "\n\n"
	}
	for i, s := range items {
		items[i] = marker + indentRest(s)
	}
	return strings.Join(items, sep), nil
}

func (r *renderer) table(t *doctree.Table, p doctree.Path) (string, error) {
	cols := 1
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}

	lines := []string{"columns: " + strconv.Itoa(cols) + ","}
	if spec := alignSpec(t.Align, cols); spec != "" {
		lines = append(lines, "align: "+spec+",")
	}

	ragged := false
	for ri, row := range t.Rows {
		header := ri == 0 && t.Header
		cells := make([]string, cols)
		for ci := range cells {
			if ci >= len(row) {
				cells[ci] = "[]"
				ragged = true
			} else {
				s, err := r.blocks(row[ci], p.Push("row", ri).Push("cell", ci))
				if err != nil {
					return "", err
				}
				cells[ci] = contentBlock(s)
			}
			if header {
				cells[ci] = "strong" + cells[ci]
			}
		}
		line := strings.Join(cells, ", ")
		if header {
			lines = append(lines, "table.header("+line+"),")
		} else {
			lines = append(lines, line+",")
		}
	}
	if ragged {
		r.warns.add(WarnTableRagged, p.String(), "short rows padded to %d columns", cols)
	}

	body := "table(\n" + indent(strings.Join(lines, "\n")) + "\n)"
	num, numbered := r.numbers[t]
	if !numbered {
		return "#" + body, nil
	}
	caption, err := r.caption(r.cfg.Supplements.Table, num, t.Caption, p)
	if err != nil {
		return "", err
	}
	s := "#figure(\n" + indent(body) + ",\n  caption: [" + caption + "],\n  numbering: none,\n)"
	if a, ok := r.anchors[t]; ok {
		s += " " + escape.Label(a.ID)
	}
	return s, nil
}

// alignSpec returns the align argument, or "" when every column uses the
// default alignment.
func alignSpec(align []doctree.Alignment, cols int) string {
	specs := make([]string, cols)
	custom := false
	for i := range specs {
		a := doctree.AlignDefault
		if i < len(align) {
			a = align[i]
		}
		if a == doctree.AlignDefault {
			specs[i] = "auto"
			continue
		}
		specs[i] = a.String()
		custom = true
	}
	if !custom {
		return ""
	}
	if cols == 1 {
		return "(" + specs[0] + ",)"
	}
	return "(" + strings.Join(specs, ", ") + ")"
}

// caption renders "Table 1.2: caption text".
func (r *renderer) caption(supplement string, num numbering.Number, content []doctree.Inline, p doctree.Path) (string, error) {
	label, err := escape.Markup(numbered(supplement, num))
	if err != nil {
		return "", r.fail(p, nil, "", err)
	}
	body, err := r.inlines(content, p)
	if err != nil {
		return "", err
	}
	if body == "" {
		return label, nil
	}
	return label + ": " + body, nil
}

func (r *renderer) admonition(a *doctree.Admonition, p doctree.Path) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(a.Type))
	title, err := escape.Markup(a.Title)
	if err != nil {
		return "", r.fail(p, a, "", err)
	}

	switch {
	case kind == "":
		kind = "note"
	case !admonitionKinds[kind]:
		r.warns.add(WarnUnknownAdmonition, p.String(), "unknown admonition kind %q rendered as note", a.Type)
		prefix, err := escape.Markup(a.Type)
		if err != nil {
			return "", r.fail(p, a, "", err)
		}
		if title == "" {
			title = prefix
		} else {
			title = prefix + ": " + title
		}
		kind = "note"
	}
	if title == "" {
		title = cases.Title(language.English).String(kind)
	}

	body, err := r.blocks(a.Content, p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#admonition(kind: %q, title: [%s])[%s]", kind, title, wrapBody(body)), nil
}

// contentBlock wraps markup in a content block, on separate lines when it
// spans several.
func contentBlock(s string) string {
	if !strings.Contains(s, "\n") {
		return "[" + s + "]"
	}
	return "[" + wrapBody(s) + "]"
}

// wrapBody places a multi-line body on its own indented lines.
func wrapBody(s string) string {
	if s == "" {
		return ""
	}
	return "\n" + indent(s) + "\n"
}

// indent prefixes every non-empty line with two spaces.
func indent(s string) string {
	return "  " + indentRest(s)
}

// indentRest indents every non-empty line but the first.
func indentRest(s string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
