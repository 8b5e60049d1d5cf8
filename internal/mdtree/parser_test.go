package mdtree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-typstwriter/doctree"
)

func parsePage(t *testing.T, md string) *doctree.Page {
	t.Helper()
	page, _, err := New(Options{}).Page(Input{Source: "page.md", Content: []byte(md)})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if err := doctree.Validate(&doctree.Document{Pages: []*doctree.Page{page}}); err != nil {
		t.Fatalf("converted tree is malformed: %v", err)
	}
	return page
}

func onlyBlock[T doctree.Block](t *testing.T, page *doctree.Page) T {
	t.Helper()
	if len(page.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %#v", len(page.Blocks), page.Blocks)
	}
	b, ok := page.Blocks[0].(T)
	if !ok {
		t.Fatalf("block is %T", page.Blocks[0])
	}
	return b
}

func TestPage_Headings(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "# Getting Started\n\n## Install {#setup}\n\n## Install\n")
	want := []struct {
		level  int
		text   string
		anchor string
	}{
		{1, "Getting Started", "getting-started"},
		{2, "Install", "setup"},
		{2, "Install", "install"},
	}
	if len(page.Blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(page.Blocks), len(want))
	}
	for i, w := range want {
		h, ok := page.Blocks[i].(*doctree.Heading)
		if !ok {
			t.Fatalf("block %d is %T", i, page.Blocks[i])
		}
		if h.Level != w.level || doctree.PlainText(h.Content) != w.text || h.Anchor != w.anchor {
			t.Errorf("heading %d = (%d, %q, %q), want (%d, %q, %q)",
				i, h.Level, doctree.PlainText(h.Content), h.Anchor, w.level, w.text, w.anchor)
		}
	}
	if page.Title != "Getting Started" {
		t.Errorf("Title = %q, want first heading", page.Title)
	}
}

func TestPage_Inlines(t *testing.T) {
	t.Parallel()

	para := onlyBlock[*doctree.Paragraph](t, parsePage(t,
		"Plain *em* **strong** ~~gone~~ `code` `$x^2$` \\*lit\\* &amp; [site](https://example.com)\nnext"))

	var kinds []string
	for _, in := range para.Content {
		kinds = append(kinds, in.Kind())
	}
	want := []string{
		doctree.KindText, doctree.KindEmphasis, doctree.KindText, doctree.KindStrong,
		doctree.KindText, doctree.KindStrikethrough, doctree.KindText, doctree.KindCode,
		doctree.KindText, doctree.KindInlineMath, doctree.KindText, doctree.KindLink,
		doctree.KindSoftBreak, doctree.KindText,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}

	if m := para.Content[9].(*doctree.InlineMath); m.Text != "x^2" || m.Dialect != doctree.DialectLaTeX {
		t.Errorf("InlineMath = %+v", m)
	}
	if txt := para.Content[10].(*doctree.Text).Value; txt != " *lit* & " {
		t.Errorf("escaped text = %q, want %q", txt, " *lit* & ")
	}
	if l := para.Content[11].(*doctree.Link); l.URL != "https://example.com" {
		t.Errorf("Link.URL = %q", l.URL)
	}
}

func TestPage_CrossReferences(t *testing.T) {
	t.Parallel()

	md := "[](#setup) [see setup](#setup) [Install Guide](@ref) [](@ref setup) [other](other.md#usage) [file](other.md)\n\n" +
		"```\n[x](@ref in-code)\n```\n"
	page := parsePage(t, md)
	para := page.Blocks[0].(*doctree.Paragraph)

	var refs []*doctree.CrossReference
	var links []*doctree.Link
	for _, in := range para.Content {
		switch v := in.(type) {
		case *doctree.CrossReference:
			refs = append(refs, v)
		case *doctree.Link:
			links = append(links, v)
		}
	}

	want := []doctree.CrossReference{
		{Target: "setup", Display: ""},
		{Target: "setup", Display: "see setup"},
		{Target: "install-guide", Display: "Install Guide"},
		{Target: "setup", Display: ""},
		{Target: "usage", Display: "other"},
	}
	if len(refs) != len(want) {
		t.Fatalf("got %d cross-references, want %d", len(refs), len(want))
	}
	for i, w := range want {
		if *refs[i] != w {
			t.Errorf("ref %d = %+v, want %+v", i, *refs[i], w)
		}
	}
	if len(links) != 1 || links[0].URL != "other.md" {
		t.Errorf("links = %+v, want one link to other.md", links)
	}

	code := page.Blocks[1].(*doctree.CodeBlock)
	if code.Text != "[x](@ref in-code)\n" {
		t.Errorf("code block rewritten: %q", code.Text)
	}
}

func TestPage_CodeMathRaw(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "```go title=main.go\nfmt.Println()\n```\n\n```math\n\\frac{a}{b}\n```\n\n```=typst\n#v(1em)\n```\n\n    indented\n")
	if len(page.Blocks) != 4 {
		t.Fatalf("got %d blocks", len(page.Blocks))
	}

	code := page.Blocks[0].(*doctree.CodeBlock)
	if code.Language != "go title=main.go" || code.Text != "fmt.Println()\n" {
		t.Errorf("CodeBlock = %+v", code)
	}
	math := page.Blocks[1].(*doctree.MathBlock)
	if math.Text != `\frac{a}{b}` || math.Dialect != doctree.DialectLaTeX {
		t.Errorf("MathBlock = %+v", math)
	}
	raw := page.Blocks[2].(*doctree.RawMarkup)
	if raw.Format != "typst" || raw.Text != "#v(1em)" {
		t.Errorf("RawMarkup = %+v", raw)
	}
	indented := page.Blocks[3].(*doctree.CodeBlock)
	if indented.Language != "" || indented.Text != "indented\n" {
		t.Errorf("indented CodeBlock = %+v", indented)
	}
}

func TestPage_Lists(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "3. three\n4. four\n\n- [x] done\n- [ ] todo\n")
	ordered := page.Blocks[0].(*doctree.List)
	if !ordered.Ordered || ordered.Start != 3 || len(ordered.Items) != 2 || !ordered.Tight {
		t.Errorf("ordered list = %+v", ordered)
	}

	tasks := page.Blocks[1].(*doctree.List)
	first := tasks.Items[0][0].(*doctree.Paragraph)
	if got := doctree.PlainText(first.Content); got != "☒ done" {
		t.Errorf("task item = %q", got)
	}
}

func TestPage_TableWithCaption(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "| Name | Size |\n|:-----|-----:|\n| a | 1 |\n| b |   |\n\nTable: Sizes of *things* {#tbl-sizes}\n")
	table := onlyBlock[*doctree.Table](t, page)

	if !table.Header || len(table.Rows) != 3 {
		t.Fatalf("table = %+v", table)
	}
	if len(table.Align) != 2 || table.Align[0] != doctree.AlignLeft || table.Align[1] != doctree.AlignRight {
		t.Errorf("Align = %v", table.Align)
	}
	if len(table.Rows[2][1]) != 0 {
		t.Errorf("empty cell = %#v, want no blocks", table.Rows[2][1])
	}
	if table.Anchor != "tbl-sizes" {
		t.Errorf("Anchor = %q", table.Anchor)
	}
	if got := doctree.PlainText(table.Caption); got != "Sizes of things" {
		t.Errorf("Caption = %q", got)
	}
}

func TestPage_Admonitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		md        string
		wantKind  string
		wantTitle string
		wantBody  string
	}{
		{
			name:     "github alert",
			md:       "> [!WARNING]\n> Back up first.\n",
			wantKind: "warning",
			wantBody: "Back up first.",
		},
		{
			name:      "bang marker with title",
			md:        "> !!! tip \"Pro tip\"\n> Use the cache.\n",
			wantKind:  "tip",
			wantTitle: "Pro tip",
			wantBody:  "Use the cache.",
		},
		{
			name:     "marker on its own paragraph",
			md:       "> [!NOTE]\n>\n> Separate paragraph.\n",
			wantKind: "note",
			wantBody: "Separate paragraph.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := onlyBlock[*doctree.Admonition](t, parsePage(t, tt.md))
			if a.Type != tt.wantKind || a.Title != tt.wantTitle {
				t.Errorf("Admonition = (%q, %q), want (%q, %q)", a.Type, a.Title, tt.wantKind, tt.wantTitle)
			}
			if len(a.Content) != 1 {
				t.Fatalf("content = %#v", a.Content)
			}
			if got := doctree.PlainText(a.Content[0].(*doctree.Paragraph).Content); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}

	quote := onlyBlock[*doctree.BlockQuote](t, parsePage(t, "> Just a quote.\n"))
	if len(quote.Content) != 1 {
		t.Errorf("quote content = %#v", quote.Content)
	}
}

func TestPage_Footnotes(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "Claim[^src] and again[^src].\n\n[^src]: The *source*.\n")
	para := page.Blocks[0].(*doctree.Paragraph)

	var ids []string
	for _, in := range para.Content {
		if ref, ok := in.(*doctree.FootnoteReference); ok {
			ids = append(ids, ref.ID)
		}
	}
	if len(ids) != 2 || ids[0] != "src" || ids[1] != "src" {
		t.Errorf("footnote refs = %v", ids)
	}

	def, ok := page.Blocks[len(page.Blocks)-1].(*doctree.FootnoteDefinition)
	if !ok {
		t.Fatalf("last block is %T, want FootnoteDefinition", page.Blocks[len(page.Blocks)-1])
	}
	if def.ID != "src" {
		t.Errorf("definition ID = %q", def.ID)
	}
	if got := doctree.PlainText(def.Content[0].(*doctree.Paragraph).Content); got != "The source." {
		t.Errorf("definition body = %q", got)
	}
}

func TestPage_Images(t *testing.T) {
	t.Parallel()

	page := parsePage(t, "![Logo](img/logo.png \"Company logo {#fig-logo}\")\n\n"+
		"Inline ![icon](icon.svg) here.\n\n"+
		"<figure>\n<img src=\"chart.png\" alt=\"Chart\">\n<figcaption>Growth</figcaption>\n</figure>\n\n"+
		"<!-- hidden -->\n\n"+
		"<div class=\"x\">text</div>\n")

	if len(page.Blocks) != 4 {
		t.Fatalf("got %d blocks: %#v", len(page.Blocks), page.Blocks)
	}

	fig := page.Blocks[0].(*doctree.Image)
	if fig.Source != "img/logo.png" || fig.Alt != "Logo" || fig.Anchor != "fig-logo" || doctree.PlainText(fig.Caption) != "Company logo" {
		t.Errorf("block image = %+v", fig)
	}

	para := page.Blocks[1].(*doctree.Paragraph)
	if img, ok := para.Content[1].(*doctree.Image); !ok || img.Source != "icon.svg" {
		t.Errorf("inline image = %#v", para.Content[1])
	}

	html := page.Blocks[2].(*doctree.Image)
	if html.Source != "chart.png" || html.Alt != "Chart" || doctree.PlainText(html.Caption) != "Growth" {
		t.Errorf("html image = %+v", html)
	}

	raw := page.Blocks[3].(*doctree.RawMarkup)
	if raw.Format != "html" {
		t.Errorf("raw = %+v", raw)
	}
}

func TestPage_ImageRelocation(t *testing.T) {
	t.Parallel()

	p := New(Options{OutputDir: "build"})
	page, _, err := p.Page(Input{
		Source:  filepath.Join("docs", "guide.md"),
		Content: []byte("![a](img/a.png)\n\n![b](https://example.com/b.png)\n"),
	})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if got := page.Blocks[0].(*doctree.Image).Source; got != "../docs/img/a.png" {
		t.Errorf("relocated source = %q", got)
	}
	if got := page.Blocks[1].(*doctree.Image).Source; got != "https://example.com/b.png" {
		t.Errorf("URL source = %q", got)
	}
}

func TestPage_FrontMatter(t *testing.T) {
	t.Parallel()

	md := "---\ntitle: User Guide\nauthor: Ada\nauthors: [Grace]\ndate: \"2024-05-01\"\ntags: [x]\n---\n# Heading\n"
	page, meta, err := New(Options{}).Page(Input{Source: "guide.md", Content: []byte(md)})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if page.Title != "User Guide" || meta.Title != "User Guide" {
		t.Errorf("title = %q / %q", page.Title, meta.Title)
	}
	if len(meta.Authors) != 2 || meta.Authors[0] != "Ada" || meta.Authors[1] != "Grace" {
		t.Errorf("Authors = %v", meta.Authors)
	}
	if meta.Date != "2024-05-01" {
		t.Errorf("Date = %q", meta.Date)
	}

	_, _, err = New(Options{}).Page(Input{Source: "bad.md", Content: []byte("---\ntitle: [unclosed\n---\n")})
	if !errors.Is(err, ErrFrontMatter) {
		t.Errorf("error = %v, want ErrFrontMatter", err)
	}
}

func TestDocument_SharesAnchorsAcrossPages(t *testing.T) {
	t.Parallel()

	doc, err := New(Options{}).Document(context.Background(), []Input{
		{Source: "a.md", Content: []byte("---\ntitle: Manual\n---\n## Usage\n")},
		{Source: "b.md", Content: []byte("---\ndate: 2024\nauthors: [Ada]\n---\n## Usage\n")},
	})
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages", len(doc.Pages))
	}
	a := doc.Pages[0].Blocks[0].(*doctree.Heading).Anchor
	b := doc.Pages[1].Blocks[0].(*doctree.Heading).Anchor
	if a != "usage" || b != "usage-1" {
		t.Errorf("anchors = %q, %q, want usage, usage-1", a, b)
	}
	if doc.Meta.Title != "Manual" || doc.Meta.Date != "2024" || len(doc.Meta.Authors) != 1 {
		t.Errorf("Meta = %+v", doc.Meta)
	}
	if err := doctree.Validate(doc); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDocument_Errors(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{}).Document(context.Background(), nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("error = %v, want ErrNoInput", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Document(ctx, []Input{{Source: "a.md", Content: []byte("x")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestReadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	if err := os.WriteFile(path, []byte("# A"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	inputs, err := ReadFiles([]string{path})
	if err != nil || len(inputs) != 1 || string(inputs[0].Content) != "# A" {
		t.Fatalf("ReadFiles() = %v, %v", inputs, err)
	}
	if _, err := ReadFiles([]string{filepath.Join(dir, "missing.md")}); !errors.Is(err, ErrReadSource) {
		t.Errorf("error = %v, want ErrReadSource", err)
	}
}
