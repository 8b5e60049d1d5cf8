package render

import (
	"fmt"
	"strings"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/escape"
	"github.com/alnah/go-typstwriter/internal/mathconv"
	"github.com/alnah/go-typstwriter/internal/numbering"
	"github.com/alnah/go-typstwriter/internal/refs"
)

// inlines renders an inline sequence. Adjacent text runs are escaped as
// one so shorthands cannot form across node boundaries, and a semicolon
// ends an embedded expression when the next fragment would otherwise
// continue it.
func (r *renderer) inlines(content []doctree.Inline, path doctree.Path) (string, error) {
	var b strings.Builder
	prevExpr := false
	for i := 0; i < len(content); i++ {
		p := path.Push("inline", i)

		var frag string
		var expr bool
		var err error
		if t, ok := content[i].(*doctree.Text); ok {
			run := t.Value
			for i+1 < len(content) {
				next, ok := content[i+1].(*doctree.Text)
				if !ok {
					break
				}
				run += next.Value
				i++
			}
			frag, err = escape.Markup(run)
			if err != nil {
				err = r.fail(p, t, "", err)
			}
		} else {
			frag, expr, err = r.inline(content[i], p)
		}
		if err != nil {
			return "", err
		}

		if prevExpr && (strings.HasPrefix(frag, "(") || strings.HasPrefix(frag, ".")) {
			b.WriteByte(';')
		}
		b.WriteString(frag)
		if frag != "" {
			prevExpr = expr
		}
	}
	return b.String(), nil
}

// inline renders one node. expr reports whether the fragment ends with an
// embedded code expression.
func (r *renderer) inline(in doctree.Inline, p doctree.Path) (frag string, expr bool, err error) {
	switch n := in.(type) {
	case *doctree.Text:
		s, err := escape.Markup(n.Value)
		if err != nil {
			return "", false, r.fail(p, n, "", err)
		}
		return s, false, nil

	case *doctree.Emphasis:
		return r.wrapped("emph", n.Content, p)
	case *doctree.Strong:
		return r.wrapped("strong", n.Content, p)
	case *doctree.Strikethrough:
		return r.wrapped("strike", n.Content, p)

	case *doctree.Code:
		s, err := escape.String(n.Value)
		if err != nil {
			return "", false, r.fail(p, n, "", err)
		}
		return "#raw(" + s + ")", true, nil

	case *doctree.Link:
		u, err := escape.String(n.URL)
		if err != nil {
			return "", false, r.fail(p, n, "", err)
		}
		body, err := r.inlines(n.Content, p)
		if err != nil {
			return "", false, err
		}
		if body == "" {
			return "#link(" + u + ")", true, nil
		}
		return "#link(" + u + ")[" + body + "]", true, nil

	case *doctree.InlineMath:
		s, err := r.math(n.Dialect, n.Text, false, p, n)
		return s, strings.HasPrefix(s, "#"), err

	case *doctree.CrossReference:
		return r.crossReference(n, p)

	case *doctree.FootnoteReference:
		fn := r.footnotes[n.ID]
		ref := escape.Label(fn.anchor.ID + ".ref")
		if r.footEmitted[n.ID] {
			return "#footnote(" + ref + ")", true, nil
		}
		r.footEmitted[n.ID] = true
		return "#footnote(context query(" + escape.Label(fn.anchor.ID) + ").first().value)" + ref, false, nil

	case *doctree.LineBreak:
		return `\ `, false, nil
	case *doctree.SoftBreak:
		return " ", false, nil

	case *doctree.Image:
		s, err := r.inlineImage(n, p)
		return s, !strings.HasSuffix(s, ">"), err

	case *doctree.RawMarkup:
		return r.raw(n, p), false, nil
	}
	return "", false, r.fail(p, in, "", fmt.Errorf("%w: unknown inline type %T", doctree.ErrMalformed, in))
}

func (r *renderer) wrapped(fn string, content []doctree.Inline, p doctree.Path) (string, bool, error) {
	body, err := r.inlines(content, p)
	if err != nil {
		return "", false, err
	}
	return "#" + fn + "[" + body + "]", true, nil
}

func (r *renderer) crossReference(n *doctree.CrossReference, p doctree.Path) (string, bool, error) {
	a, err := r.refs.Resolve(n.Target)
	if err != nil {
		return "", false, r.fail(p, n, n.Target, err)
	}
	text := n.Display
	if text == "" {
		text = r.referenceText(a)
	}
	display, err := escape.Markup(text)
	if err != nil {
		return "", false, r.fail(p, n, n.Target, err)
	}
	return "#link(" + escape.Label(a.ID) + ")[" + display + "]", true, nil
}

// referenceText is the default display of a reference, such as
// "Section 2.1" or "Table 3".
func (r *renderer) referenceText(a refs.Anchor) string {
	s := r.cfg.Supplements
	var supplement string
	switch a.Class {
	case refs.ClassFigure:
		supplement = s.Figure
	case refs.ClassTable:
		supplement = s.Table
	case refs.ClassFootnote:
		supplement = s.Footnote
	default:
		supplement = s.Section
	}
	return numbered(supplement, a.Number)
}

func numbered(supplement string, num numbering.Number) string {
	switch {
	case len(num) == 0:
		return supplement
	case supplement == "":
		return num.String()
	}
	return supplement + " " + num.String()
}

// math translates a formula. With MathFallback set, untranslatable
// formulas are kept verbatim in a raw element and a warning is recorded.
func (r *renderer) math(dialect, text string, block bool, p doctree.Path, n doctree.Node) (string, error) {
	var out string
	var err error
	switch strings.ToLower(dialect) {
	case "", doctree.DialectLaTeX, "tex":
		out, err = r.cfg.Math.Convert(text)
	case "typst":
		out = strings.TrimSpace(text)
	default:
		err = &mathconv.UnsupportedError{Token: dialect, Formula: text, Reason: "unknown math dialect"}
	}

	if err != nil {
		if !r.cfg.MathFallback {
			return "", r.fail(p, n, "", err)
		}
		r.warns.add(WarnMathFallback, p.String(), "formula kept verbatim: %v", err)
		lit, serr := escape.String(text)
		if serr != nil {
			return "", r.fail(p, n, "", serr)
		}
		if block {
			return "#raw(" + lit + `, block: true, lang: "latex")`, nil
		}
		return "#raw(" + lit + `, lang: "latex")`, nil
	}

	if block {
		return "$ " + out + " $", nil
	}
	return "$" + out + "$", nil
}

// raw passes Typst markup through and drops every other format.
func (r *renderer) raw(n *doctree.RawMarkup, p doctree.Path) string {
	if strings.EqualFold(n.Format, "typst") {
		return n.Text
	}
	r.warns.add(WarnRawFormatDropped, p.String(), "raw %q markup dropped", n.Format)
	return ""
}
