package mdtree

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/fileutil"
	"github.com/alnah/go-typstwriter/internal/refs"
)

// `$x^2$` code spans are inline math.
var inlineMath = regexp.MustCompile(`^\$([^$]+)\$$`)

func (c *converter) inlines(parent ast.Node) []doctree.Inline {
	var out []doctree.Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = c.inline(out, n)
	}
	// Escapes are resolved after merging: goldmark may split "\*" across
	// text segments.
	for _, in := range out {
		if t, ok := in.(*doctree.Text); ok {
			t.Value = string(unescape([]byte(t.Value)))
		}
	}
	return out
}

func (c *converter) inline(out []doctree.Inline, n ast.Node) []doctree.Inline {
	switch v := n.(type) {
	case *ast.Text:
		out = appendText(out, string(v.Segment.Value(c.source)))
		switch {
		case v.HardLineBreak():
			out = append(out, &doctree.LineBreak{})
		case v.SoftLineBreak():
			out = append(out, &doctree.SoftBreak{})
		}
		return out
	case *ast.String:
		return appendText(out, string(v.Value))
	case *ast.CodeSpan:
		code := nodeText(v, c.source)
		if m := inlineMath.FindStringSubmatch(code); m != nil {
			return append(out, &doctree.InlineMath{Dialect: doctree.DialectLaTeX, Text: m[1]})
		}
		return append(out, &doctree.Code{Value: code})
	case *ast.Emphasis:
		if v.Level >= 2 {
			return append(out, &doctree.Strong{Content: c.inlines(v)})
		}
		return append(out, &doctree.Emphasis{Content: c.inlines(v)})
	case *east.Strikethrough:
		return append(out, &doctree.Strikethrough{Content: c.inlines(v)})
	case *ast.Link:
		return append(out, c.link(v))
	case *ast.AutoLink:
		label := string(v.Label(c.source))
		dest := string(v.URL(c.source))
		if v.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(dest, "mailto:") {
			dest = "mailto:" + dest
		}
		return append(out, &doctree.Link{URL: dest, Content: []doctree.Inline{&doctree.Text{Value: label}}})
	case *ast.Image:
		return append(out, c.image(v))
	case *ast.RawHTML:
		return append(out, c.rawHTML(v)...)
	case *east.FootnoteLink:
		if id, ok := c.footnotes[v.Index]; ok {
			return append(out, &doctree.FootnoteReference{ID: id})
		}
		return out
	case *east.FootnoteBacklink:
		return out
	case *east.TaskCheckBox:
		if v.IsChecked {
			return appendText(out, "☒ ")
		}
		return appendText(out, "☐ ")
	default:
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			out = c.inline(out, ch)
		}
		return out
	}
}

// appendText merges adjacent text runs.
func appendText(out []doctree.Inline, s string) []doctree.Inline {
	if s == "" {
		return out
	}
	if len(out) > 0 {
		if t, ok := out[len(out)-1].(*doctree.Text); ok {
			t.Value += s
			return out
		}
	}
	return append(out, &doctree.Text{Value: s})
}

// unescape resolves backslash escapes and character references.
func unescape(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// link maps in-document destinations to cross-references:
// "#id", "@ref", "@ref:id" and "page.md#id".
func (c *converter) link(n *ast.Link) doctree.Inline {
	dest := string(n.Destination)
	content := c.inlines(n)
	display := strings.TrimSpace(doctree.PlainText(content))

	target := ""
	switch {
	case dest == "@ref":
		target = refs.DeriveID(display)
	case strings.HasPrefix(dest, "@ref:"):
		target = strings.TrimPrefix(dest, "@ref:")
	case strings.HasPrefix(dest, "#") && len(dest) > 1:
		target = dest[1:]
	default:
		if page, frag, ok := strings.Cut(dest, "#"); ok && frag != "" && isMarkdownPath(page) {
			target = frag
		}
	}
	if target != "" {
		if t, err := url.PathUnescape(target); err == nil {
			target = t
		}
		return &doctree.CrossReference{Target: target, Display: display}
	}

	return &doctree.Link{URL: dest, Content: content}
}

func isMarkdownPath(p string) bool {
	if fileutil.IsURL(p) {
		return false
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func (c *converter) image(n *ast.Image) *doctree.Image {
	return &doctree.Image{
		Source: c.imageSource(string(n.Destination)),
		Alt:    strings.TrimSpace(nodeText(n, c.source)),
	}
}

func (c *converter) htmlImage(img htmlImage) *doctree.Image {
	out := &doctree.Image{Source: c.imageSource(img.src), Alt: img.alt, Anchor: img.id}
	if img.caption != "" {
		out.Caption = []doctree.Inline{&doctree.Text{Value: img.caption}}
	}
	return out
}

// imageSource rewrites a relative image path so that it resolves from the
// output directory.
func (c *converter) imageSource(src string) string {
	if src == "" || fileutil.IsURL(src) || strings.Contains(src, ":") || path.IsAbs(src) || c.outputDir == "" {
		return src
	}
	if unescaped, err := url.PathUnescape(src); err == nil {
		src = unescaped
	}

	abs, err := filepath.Abs(filepath.Join(c.sourceDir, filepath.FromSlash(src)))
	if err != nil {
		return src
	}
	outDir, err := filepath.Abs(c.outputDir)
	if err != nil {
		return src
	}
	rel, err := filepath.Rel(outDir, abs)
	if err != nil {
		return src
	}
	return filepath.ToSlash(rel)
}

func (c *converter) rawHTML(n *ast.RawHTML) []doctree.Inline {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(c.source))
	}
	raw := b.String()

	if isLineBreakTag(raw) {
		return []doctree.Inline{&doctree.LineBreak{}}
	}
	imgs, kind := parseHTMLImages(raw)
	switch kind {
	case htmlComment:
		return nil
	case htmlImages:
		out := make([]doctree.Inline, 0, len(imgs))
		for _, img := range imgs {
			out = append(out, c.htmlImage(img))
		}
		return out
	}
	return []doctree.Inline{&doctree.RawMarkup{Format: "html", Text: raw}}
}

func isLineBreakTag(s string) bool {
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "<br>", "<br/>":
		return true
	}
	return false
}
