package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-typstwriter/doctree"
)

func TestRender_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block doctree.Block
		want  string
	}{
		{
			name:  "code with language",
			block: &doctree.CodeBlock{Language: "go", Text: "fmt.Println(\"hi\")\n"},
			want:  `#raw("fmt.Println(\"hi\")", block: true, lang: "go")`,
		},
		{
			name:  "plain code",
			block: &doctree.CodeBlock{Language: "text", Text: "$ ls"},
			want:  `#raw("$ ls", block: true)`,
		},
		{
			name: "tight bullet list with nested enum",
			block: &doctree.List{Tight: true, Items: [][]doctree.Block{
				{para(txt("one"))},
				{para(txt("two")), &doctree.List{Ordered: true, Tight: true, Items: [][]doctree.Block{
					{para(txt("a"))}, {para(txt("b"))},
				}}},
			}},
			want: "- one\n- two\n\n  + a\n  + b",
		},
		{
			name: "loose list",
			block: &doctree.List{Items: [][]doctree.Block{
				{para(txt("x"))}, {para(txt("y"))},
			}},
			want: "- x\n\n- y",
		},
		{
			name: "ordered list with start",
			block: &doctree.List{Ordered: true, Start: 3, Tight: true, Items: [][]doctree.Block{
				{para(txt("x"))}, {para(txt("y"))},
			}},
			want: "#enum(\n  start: 3,\n  tight: true,\n  [x],\n  [y],\n)",
		},
		{
			name: "uncaptioned table",
			block: &doctree.Table{Rows: [][]doctree.Cell{
				{cell("a"), cell("b")},
			}},
			want: "#table(\n  columns: 2,\n  [a], [b],\n)",
		},
		{
			name:  "known admonition without title",
			block: &doctree.Admonition{Type: "Warning"},
			want:  `#admonition(kind: "warning", title: [Warning])[]`,
		},
		{
			name:  "admonition with title",
			block: &doctree.Admonition{Type: "tip", Title: "Hint", Content: []doctree.Block{para(txt("Use it."))}},
			want:  "#admonition(kind: \"tip\", title: [Hint])[\n  Use it.\n]",
		},
		{
			name:  "block quote",
			block: &doctree.BlockQuote{Content: []doctree.Block{para(txt("Quoted."))}},
			want:  "#quote(block: true)[\n  Quoted.\n]",
		},
		{
			name:  "thematic break",
			block: &doctree.ThematicBreak{},
			want:  "#line(length: 100%)",
		},
		{
			name:  "display math",
			block: &doctree.MathBlock{Text: `\frac{a}{b}`},
			want:  "$ frac(a, b) $",
		},
		{
			name:  "typst math passes through",
			block: &doctree.MathBlock{Dialect: "typst", Text: " sum_(i=1)^n i "},
			want:  "$ sum_(i=1)^n i $",
		},
		{
			name:  "typst raw markup",
			block: &doctree.RawMarkup{Format: "typst", Text: "#v(1em)"},
			want:  "#v(1em)",
		},
		{
			name:  "plain image",
			block: &doctree.Image{Source: "b.svg"},
			want:  `#image("b.svg")`,
		},
		{
			name:  "paragraph with list-like start",
			block: para(txt("- not a list")),
			want:  `\- not a list`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := mustRender(t, document(&doctree.Page{Blocks: []doctree.Block{tt.block}}), Config{})
			want := "// page: 1\n\n" + tt.want + "\n"
			if out.Text != want {
				t.Errorf("got\n%s\nwant\n%s", out.Text, want)
			}
		})
	}
}

func TestRender_Inlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []doctree.Inline
		want    string
	}{
		{
			name:    "emphasis and strong",
			content: []doctree.Inline{&doctree.Emphasis{Content: []doctree.Inline{txt("a")}}, txt(" "), &doctree.Strong{Content: []doctree.Inline{txt("b")}}},
			want:    "#emph[a] #strong[b]",
		},
		{
			name:    "strikethrough",
			content: []doctree.Inline{&doctree.Strikethrough{Content: []doctree.Inline{txt("old")}}},
			want:    "#strike[old]",
		},
		{
			name:    "link",
			content: []doctree.Inline{&doctree.Link{URL: "https://typst.app", Content: []doctree.Inline{txt("Typst")}}},
			want:    `#link("https://typst.app")[Typst]`,
		},
		{
			name:    "bare link",
			content: []doctree.Inline{&doctree.Link{URL: "https://typst.app"}},
			want:    `#link("https://typst.app")`,
		},
		{
			name:    "code followed by parenthesis",
			content: []doctree.Inline{&doctree.Code{Value: "f"}, txt("(x) calls it")},
			want:    `#raw("f");(x) calls it`,
		},
		{
			name:    "text runs merged before escaping",
			content: []doctree.Inline{txt("a-"), txt("-b")},
			want:    `a\--b`,
		},
		{
			name:    "inline math",
			content: []doctree.Inline{txt("area "), &doctree.InlineMath{Text: `\pi r^2`}},
			want:    "area $pi r^2$",
		},
		{
			name:    "breaks",
			content: []doctree.Inline{txt("a"), &doctree.SoftBreak{}, txt("b"), &doctree.LineBreak{}, txt("c")},
			want:    `a b\ c`,
		},
		{
			name:    "inline image",
			content: []doctree.Inline{txt("icon "), &doctree.Image{Source: "icon.png"}},
			want:    `icon #box(image("icon.png", height: 1em))`,
		},
		{
			name:    "inline raw typst",
			content: []doctree.Inline{&doctree.RawMarkup{Format: "typst", Text: "#sym.arrow"}},
			want:    "#sym.arrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := mustRender(t, document(&doctree.Page{Blocks: []doctree.Block{para(tt.content...)}}), Config{})
			want := "// page: 1\n\n" + tt.want + "\n"
			if out.Text != want {
				t.Errorf("got\n%s\nwant\n%s", out.Text, want)
			}
		})
	}
}

func TestRender_CaptionedTable(t *testing.T) {
	t.Parallel()

	doc := document(page(
		heading(1, "Data", "data"),
		&doctree.Table{
			Align:   []doctree.Alignment{doctree.AlignLeft, doctree.AlignRight},
			Header:  true,
			Rows:    [][]doctree.Cell{{cell("Name"), cell("Qty")}, {cell("apple"), cell("3")}},
			Caption: []doctree.Inline{txt("Fruit")},
			Anchor:  "tbl-fruit",
		},
		para(ref("tbl-fruit")),
	))
	out := mustRender(t, doc, Config{})

	want := `#figure(
  table(
    columns: 2,
    align: (left, right),
    table.header(strong[Name], strong[Qty]),
    [apple], [3],
  ),
  caption: [Table 1.1: Fruit],
  numbering: none,
) <tbl-fruit>`
	assertContains(t, out.Text, want)
	assertContains(t, out.Text, "#link(<tbl-fruit>)[Table 1.1]")
}

func TestRender_TableHeaderStyling(t *testing.T) {
	t.Parallel()

	rows := [][]doctree.Cell{{cell("a"), cell("b")}, {cell("c")}}

	out := mustRender(t, document(page(&doctree.Table{Rows: rows})), Config{})
	if strings.Contains(out.Text, "table.header") || strings.Contains(out.Text, "strong") {
		t.Errorf("table without header carries header styling:\n%s", out.Text)
	}
	assertContains(t, out.Text, "  [a], [b],\n  [c], [],")

	out = mustRender(t, document(page(&doctree.Table{Header: true, Rows: rows})), Config{})
	assertContains(t, out.Text, "  table.header(strong[a], strong[b]),\n  [c], [],")
}

func TestRender_RaggedTable(t *testing.T) {
	t.Parallel()

	doc := document(page(&doctree.Table{Rows: [][]doctree.Cell{
		{cell("a"), cell("b"), cell("c")},
		{cell("d")},
	}}))
	out := mustRender(t, doc, Config{})
	assertContains(t, out.Text, "[d], [], [],")
	if !hasWarning(out.Warnings, WarnTableRagged) {
		t.Errorf("missing %s warning", WarnTableRagged)
	}
}

func TestRender_CaptionedFigure(t *testing.T) {
	t.Parallel()

	doc := document(page(
		heading(1, "Design", ""),
		&doctree.Image{Source: "img/a.png", Alt: "A", Caption: []doctree.Inline{txt("Arch")}, Anchor: "fig-arch"},
	))
	out := mustRender(t, doc, Config{})
	want := "#figure(\n  image(\"img/a.png\", alt: \"A\"),\n  caption: [Figure 1.1: Arch],\n  numbering: none,\n) <fig-arch>"
	assertContains(t, out.Text, want)
}

func TestRender_UnknownLanguageDegrades(t *testing.T) {
	t.Parallel()

	doc := document(page(&doctree.CodeBlock{Language: "brainfuck", Text: "+[>+<-]"}))
	out := mustRender(t, doc, Config{})
	assertContains(t, out.Text, `#raw("+[>+<-]", block: true)`)
	if !hasWarning(out.Warnings, WarnUnknownLanguage) {
		t.Errorf("missing %s warning: %v", WarnUnknownLanguage, out.Warnings)
	}
}

func TestRender_UnknownAdmonitionKeepsKind(t *testing.T) {
	t.Parallel()

	doc := document(page(&doctree.Admonition{
		Type:    "custom-kind",
		Title:   "Careful",
		Content: []doctree.Block{para(txt("Mind the gap."))},
	}))
	out := mustRender(t, doc, Config{})
	assertContains(t, out.Text, `#admonition(kind: "note", title: [custom-kind: Careful])`)
	if !hasWarning(out.Warnings, WarnUnknownAdmonition) {
		t.Errorf("missing %s warning", WarnUnknownAdmonition)
	}
}

func TestRender_RawFormatDropped(t *testing.T) {
	t.Parallel()

	doc := document(page(
		para(txt("before")),
		&doctree.RawMarkup{Format: "html", Text: "<div></div>"},
		para(txt("after")),
	))
	out := mustRender(t, doc, Config{})
	if want := "// page: page.md\n\nbefore\n\nafter\n"; out.Text != want {
		t.Errorf("Render() = %q, want %q", out.Text, want)
	}
	if !hasWarning(out.Warnings, WarnRawFormatDropped) {
		t.Errorf("missing %s warning", WarnRawFormatDropped)
	}
}

func TestRender_InvalidImageSource(t *testing.T) {
	t.Parallel()

	sources := []string{
		"javascript:alert(1)",
		`C:\img\a.png`,
		"file:///etc/passwd",
		"https:///no-host.png",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			_, err := Render(document(page(&doctree.Image{Source: src})), Config{})
			if !errors.Is(err, ErrInvalidImageSource) {
				t.Fatalf("Render() error = %v, want ErrInvalidImageSource", err)
			}
		})
	}
}

func TestRender_UnknownImageFormatWarns(t *testing.T) {
	t.Parallel()

	out := mustRender(t, document(page(&doctree.Image{Source: "scan.tiff"})), Config{})
	if !hasWarning(out.Warnings, WarnImageFormat) {
		t.Errorf("missing %s warning", WarnImageFormat)
	}
}

func TestRender_LineBreaksInTextStayInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block doctree.Block
		want  string
	}{
		{
			name:  "paragraph",
			block: para(txt("first line\n= Not a heading\n- not a list\n\nnot a new paragraph")),
			want:  "first line = Not a heading - not a list  not a new paragraph",
		},
		{
			name:  "paragraph starting with a line break",
			block: para(txt("\n= Not a heading")),
			want:  ` \= Not a heading`,
		},
		{
			name:  "heading",
			block: heading(1, "Title\nsecond", "title"),
			want:  "= Title second <title>",
		},
		{
			name:  "admonition title",
			block: &doctree.Admonition{Type: "note", Title: "a\n- b"},
			want:  `#admonition(kind: "note", title: [a - b])[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := mustRender(t, document(&doctree.Page{Blocks: []doctree.Block{tt.block}}), Config{})
			want := "// page: 1\n\n" + tt.want + "\n"
			if out.Text != want {
				t.Errorf("got\n%q\nwant\n%q", out.Text, want)
			}
		})
	}
}
