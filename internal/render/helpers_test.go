package render

import (
	"strings"
	"testing"

	"github.com/alnah/go-typstwriter/doctree"
)

func txt(s string) *doctree.Text { return &doctree.Text{Value: s} }

func para(content ...doctree.Inline) *doctree.Paragraph {
	return &doctree.Paragraph{Content: content}
}

func heading(level int, text, anchor string) *doctree.Heading {
	return &doctree.Heading{Level: level, Content: []doctree.Inline{txt(text)}, Anchor: anchor}
}

func page(blocks ...doctree.Block) *doctree.Page {
	return &doctree.Page{Source: "page.md", Blocks: blocks}
}

func document(pages ...*doctree.Page) *doctree.Document {
	return &doctree.Document{Pages: pages}
}

func cell(s string) doctree.Cell {
	return doctree.Cell{para(txt(s))}
}

func ref(target string) *doctree.CrossReference {
	return &doctree.CrossReference{Target: target}
}

// mustRender renders doc and fails the test on error.
func mustRender(t *testing.T, doc *doctree.Document, cfg Config) Output {
	t.Helper()
	out, err := Render(doc, cfg)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	return out
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output missing %q\n--- output ---\n%s", want, got)
	}
}

func hasWarning(warns []Warning, kind string) bool {
	for _, w := range warns {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
