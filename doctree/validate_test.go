package doctree

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      *Document
		wantPath string
		wantErr  bool
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "empty document is valid",
			doc:  &Document{},
		},
		{
			name:     "nil page",
			doc:      &Document{Pages: []*Page{nil}},
			wantErr:  true,
			wantPath: "page[0]",
		},
		{
			name: "valid nested tree",
			doc: &Document{Pages: []*Page{{Blocks: []Block{
				&Heading{Level: 1, Content: []Inline{&Text{Value: "Intro"}}},
				&List{Items: [][]Block{{&Paragraph{Content: []Inline{&Strong{Content: []Inline{&Text{Value: "x"}}}}}}}},
				&Table{Rows: [][]Cell{{{&Paragraph{}}}}},
			}}}},
		},
		{
			name:     "heading level zero",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Heading{Level: 0}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name:     "heading level too deep",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Heading{Level: 7}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name:     "nil block",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Paragraph{}, nil}}}},
			wantErr:  true,
			wantPath: "page[0]/block[1]",
		},
		{
			name:     "typed nil heading",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{(*Heading)(nil)}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name: "nil inline inside list item",
			doc: &Document{Pages: []*Page{{Blocks: []Block{
				&List{Items: [][]Block{{&Paragraph{}}, {&Paragraph{Content: []Inline{nil}}}}},
			}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]/item[1]/block[0]/inline[0]",
		},
		{
			name:     "empty list",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&List{}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name:     "table without rows",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Table{}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name: "bad table cell",
			doc: &Document{Pages: []*Page{{Blocks: []Block{
				&Table{Rows: [][]Cell{{{&Paragraph{}}, {nil}}}},
			}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]/row[0]/cell[1]/block[0]",
		},
		{
			name:     "unknown alignment",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Table{Rows: [][]Cell{{}}, Align: []Alignment{9}}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name:     "cross-reference without target",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Paragraph{Content: []Inline{&CrossReference{}}}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]/inline[0]",
		},
		{
			name:     "footnote definition without id",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&FootnoteDefinition{}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
		{
			name:     "image without source",
			doc:      &Document{Pages: []*Page{{Blocks: []Block{&Image{Source: "  "}}}}},
			wantErr:  true,
			wantPath: "page[0]/block[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.doc)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Validate() error = %v, want ErrMalformed", err)
			}
			var treeErr *Error
			if !errors.As(err, &treeErr) {
				t.Fatalf("Validate() error type = %T, want *Error", err)
			}
			if tt.wantPath != "" && treeErr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", treeErr.Path, tt.wantPath)
			}
		})
	}
}

func TestPathPushDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := Path{}.Push("page", 0)
	a := base.Push("block", 1)
	b := base.Push("block", 2)

	if a.String() != "page[0]/block[1]" {
		t.Errorf("a = %q", a.String())
	}
	if b.String() != "page[0]/block[2]" {
		t.Errorf("b = %q", b.String())
	}
	if (Path{}).String() != "document" {
		t.Errorf("empty path = %q, want document", Path{}.String())
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	got := PlainText([]Inline{
		&Text{Value: "Install "},
		&Code{Value: "go"},
		&SoftBreak{},
		&Emphasis{Content: []Inline{&Text{Value: "now"}}},
		&FootnoteReference{ID: "1"},
	})
	if want := "Install go now"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
	if !strings.Contains(PlainText([]Inline{&Link{URL: "u", Content: []Inline{&Text{Value: "site"}}}}), "site") {
		t.Error("PlainText() should include link text")
	}
}
