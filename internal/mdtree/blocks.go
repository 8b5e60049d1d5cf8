package mdtree

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/alnah/go-typstwriter/doctree"
)

var (
	// > [!NOTE] or > [!WARNING] Custom title
	githubAlert = regexp.MustCompile(`^\[!([A-Za-z][\w-]*)\][ \t]*(.*)$`)

	// > !!! warning "Custom title"
	bangAdmonition = regexp.MustCompile(`^!!![ \t]+([A-Za-z][\w-]*)(?:[ \t]+"([^"]*)")?[ \t]*$`)

	// Table: caption {#tbl-id}
	tableCaption = regexp.MustCompile(`^Table:[ \t]*`)
	trailingID   = regexp.MustCompile(`[ \t]*\{#([^}\s]+)\}[ \t]*$`)
)

// converter walks one goldmark tree.
type converter struct {
	source    []byte
	sourceDir string
	outputDir string
	footnotes map[int]string // footnote index -> label
}

// footnoteRefs maps goldmark's footnote indexes to their labels.
func footnoteRefs(root ast.Node) map[int]string {
	refs := make(map[int]string)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			refs[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
	return refs
}

func (c *converter) blocks(parent ast.Node) []doctree.Block {
	var out []doctree.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if t, isTable := lastBlock(out).(*doctree.Table); isTable && t.Caption == nil {
			if tc, ok := c.tableCaption(n); ok {
				t.Caption, t.Anchor = tc.content, tc.anchor
				continue
			}
		}
		out = append(out, c.block(n)...)
	}
	return out
}

func lastBlock(blocks []doctree.Block) doctree.Block {
	if len(blocks) == 0 {
		return nil
	}
	return blocks[len(blocks)-1]
}

func (c *converter) block(n ast.Node) []doctree.Block {
	switch v := n.(type) {
	case *ast.Heading:
		h := &doctree.Heading{Level: v.Level, Content: c.inlines(v)}
		if id, ok := v.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				h.Anchor = string(b)
			}
		}
		return []doctree.Block{h}
	case *ast.Paragraph, *ast.TextBlock:
		if img := c.standaloneImage(v); img != nil {
			return []doctree.Block{img}
		}
		content := c.inlines(v)
		if len(content) == 0 {
			return nil
		}
		return []doctree.Block{&doctree.Paragraph{Content: content}}
	case *ast.ThematicBreak:
		return []doctree.Block{&doctree.ThematicBreak{}}
	case *ast.CodeBlock:
		return []doctree.Block{&doctree.CodeBlock{Text: linesText(v, c.source)}}
	case *ast.FencedCodeBlock:
		return []doctree.Block{c.fenced(v)}
	case *ast.Blockquote:
		return []doctree.Block{c.blockquote(v)}
	case *ast.List:
		return []doctree.Block{c.list(v)}
	case *ast.HTMLBlock:
		return c.htmlBlock(v)
	case *east.Table:
		return []doctree.Block{c.table(v)}
	case *east.FootnoteList:
		var defs []doctree.Block
		for fn := v.FirstChild(); fn != nil; fn = fn.NextSibling() {
			if f, ok := fn.(*east.Footnote); ok {
				defs = append(defs, &doctree.FootnoteDefinition{ID: string(f.Ref), Content: c.blocks(f)})
			}
		}
		return defs
	default:
		// Unknown extension blocks keep their children.
		return c.blocks(n)
	}
}

func (c *converter) fenced(n *ast.FencedCodeBlock) doctree.Block {
	body := linesText(n, c.source)
	info := ""
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(c.source)))
	}

	lang := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = strings.ToLower(fields[0])
	}
	switch {
	case lang == "math":
		return &doctree.MathBlock{Dialect: doctree.DialectLaTeX, Text: strings.TrimSpace(body)}
	case strings.HasPrefix(lang, "="):
		return &doctree.RawMarkup{Format: strings.TrimPrefix(lang, "="), Text: strings.TrimSuffix(body, "\n")}
	}
	return &doctree.CodeBlock{Language: info, Text: body}
}

func (c *converter) list(n *ast.List) *doctree.List {
	l := &doctree.List{Ordered: n.IsOrdered(), Tight: n.IsTight}
	if l.Ordered {
		l.Start = n.Start
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		l.Items = append(l.Items, c.blocks(item))
	}
	return l
}

func (c *converter) table(n *east.Table) *doctree.Table {
	t := &doctree.Table{}
	for _, a := range n.Alignments {
		t.Align = append(t.Align, alignment(a))
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = true
		}
		var cells []doctree.Cell
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			var content doctree.Cell
			if in := c.inlines(cell); len(in) > 0 {
				content = doctree.Cell{&doctree.Paragraph{Content: in}}
			}
			cells = append(cells, content)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func alignment(a east.Alignment) doctree.Alignment {
	switch a {
	case east.AlignLeft:
		return doctree.AlignLeft
	case east.AlignCenter:
		return doctree.AlignCenter
	case east.AlignRight:
		return doctree.AlignRight
	default:
		return doctree.AlignDefault
	}
}

type captionParts struct {
	content []doctree.Inline
	anchor  string
}

// tableCaption recognizes a "Table: caption {#id}" paragraph.
func (c *converter) tableCaption(n ast.Node) (captionParts, bool) {
	p, ok := n.(*ast.Paragraph)
	if !ok || !tableCaption.MatchString(linesText(p, c.source)) {
		return captionParts{}, false
	}

	content := c.inlines(p)
	if len(content) == 0 {
		return captionParts{}, false
	}
	if first, ok := content[0].(*doctree.Text); ok {
		first.Value = tableCaption.ReplaceAllString(first.Value, "")
	}

	var parts captionParts
	if last, ok := content[len(content)-1].(*doctree.Text); ok {
		if m := trailingID.FindStringSubmatch(last.Value); m != nil {
			parts.anchor = m[1]
			last.Value = last.Value[:len(last.Value)-len(m[0])]
		}
	}
	parts.content = trimText(content)
	return parts, true
}

// blockquote maps alert and "!!!" markers to admonitions.
func (c *converter) blockquote(n *ast.Blockquote) doctree.Block {
	content := c.blocks(n)

	first, ok := n.FirstChild().(*ast.Paragraph)
	if !ok || first.Lines().Len() == 0 {
		return &doctree.BlockQuote{Content: content}
	}
	seg := first.Lines().At(0)
	line := strings.TrimSpace(string(seg.Value(c.source)))

	var kind, title string
	if m := githubAlert.FindStringSubmatch(line); m != nil {
		kind, title = m[1], m[2]
	} else if m := bangAdmonition.FindStringSubmatch(line); m != nil {
		kind, title = m[1], m[2]
	} else {
		return &doctree.BlockQuote{Content: content}
	}

	// Drop the marker line from the first paragraph.
	if len(content) == 0 {
		return &doctree.Admonition{Type: strings.ToLower(kind), Title: strings.TrimSpace(title)}
	}
	if para, ok := content[0].(*doctree.Paragraph); ok {
		rest := afterFirstBreak(para.Content)
		if len(rest) == 0 {
			content = content[1:]
		} else {
			para.Content = rest
		}
	}

	return &doctree.Admonition{
		Type:    strings.ToLower(kind),
		Title:   strings.TrimSpace(title),
		Content: content,
	}
}

// afterFirstBreak returns the inlines after the first line break.
func afterFirstBreak(content []doctree.Inline) []doctree.Inline {
	for i, in := range content {
		switch in.(type) {
		case *doctree.SoftBreak, *doctree.LineBreak:
			return content[i+1:]
		}
	}
	return nil
}

// standaloneImage turns a paragraph holding only an image into a block
// image. The link title becomes the caption.
func (c *converter) standaloneImage(p ast.Node) *doctree.Image {
	var img *ast.Image
	for n := p.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = v
		case *ast.Text:
			if strings.TrimSpace(string(v.Segment.Value(c.source))) != "" {
				return nil
			}
		default:
			return nil
		}
	}
	if img == nil {
		return nil
	}

	out := c.image(img)
	if title := strings.TrimSpace(string(img.Title)); title != "" {
		out.Caption = []doctree.Inline{&doctree.Text{Value: title}}
		if m := trailingID.FindStringSubmatch(title); m != nil {
			out.Anchor = m[1]
			out.Caption = []doctree.Inline{&doctree.Text{Value: strings.TrimSpace(title[:len(title)-len(m[0])])}}
		}
	}
	return out
}

func (c *converter) htmlBlock(n *ast.HTMLBlock) []doctree.Block {
	raw := linesText(n, c.source)
	if n.HasClosure() {
		raw += string(n.ClosureLine.Value(c.source))
	}

	imgs, kind := parseHTMLImages(raw)
	switch kind {
	case htmlComment:
		return nil
	case htmlImages:
		out := make([]doctree.Block, 0, len(imgs))
		for _, img := range imgs {
			out = append(out, c.htmlImage(img))
		}
		return out
	default:
		return []doctree.Block{&doctree.RawMarkup{Format: "html", Text: strings.TrimSpace(raw)}}
	}
}

// trimText trims the outer whitespace of the content and drops text runs
// left empty.
func trimText(content []doctree.Inline) []doctree.Inline {
	if len(content) == 0 {
		return content
	}
	if t, ok := content[0].(*doctree.Text); ok {
		t.Value = strings.TrimLeft(t.Value, " \t")
	}
	if t, ok := content[len(content)-1].(*doctree.Text); ok {
		t.Value = strings.TrimRight(t.Value, " \t")
	}
	out := content[:0]
	for _, in := range content {
		if t, ok := in.(*doctree.Text); ok && t.Value == "" {
			continue
		}
		out = append(out, in)
	}
	return out
}
