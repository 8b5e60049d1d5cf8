package mdtree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/yamlutil"
)

// Sentinel errors for Markdown parsing.
var (
	ErrFrontMatter = errors.New("invalid front matter")
	ErrReadSource  = errors.New("failed to read Markdown source")
	ErrNoInput     = errors.New("no Markdown input")
)

// Options configure a Parser.
type Options struct {
	// OutputDir is where the .typ file is written. Relative image paths
	// are rewritten to be relative to it. Empty leaves them unchanged.
	OutputDir string
}

// Input is one Markdown source.
type Input struct {
	Source  string // path, used for page markers and relative images
	Content []byte
}

// Parser converts Markdown pages into one document. A Parser keeps the
// anchors of every page it parsed and is not safe for concurrent use.
type Parser struct {
	md   goldmark.Markdown
	ids  *anchorIDs
	opts Options
}

// New creates a Parser with GFM tables, strikethrough, task lists,
// autolinks and footnotes enabled.
func New(opts Options) *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),    // anchors for every heading
			parser.WithHeadingAttribute(), // ## Title {#id}
		),
	)
	return &Parser{md: md, ids: newAnchorIDs(), opts: opts}
}

// ReadFiles loads Markdown files in order.
func ReadFiles(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- input path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
		}
		inputs = append(inputs, Input{Source: p, Content: data})
	}
	return inputs, nil
}

// Document parses inputs as consecutive pages of one document. Meta
// fields come from the first page whose front matter sets them.
func (p *Parser) Document(ctx context.Context, inputs []Input) (*doctree.Document, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	doc := &doctree.Document{}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, meta, err := p.Page(in)
		if err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, page)
		mergeMeta(&doc.Meta, meta)
	}
	return doc, nil
}

// Page parses a single Markdown source.
func (p *Parser) Page(in Input) (*doctree.Page, doctree.Meta, error) {
	front, body, hasFront := yamlutil.SplitFrontMatter(in.Content)

	var meta doctree.Meta
	page := &doctree.Page{Source: filepath.ToSlash(in.Source)}
	if hasFront && len(strings.TrimSpace(string(front))) > 0 {
		fm, err := parseFrontMatter(front)
		if err != nil {
			return nil, meta, fmt.Errorf("%w in %s: %v", ErrFrontMatter, in.Source, err)
		}
		meta = fm
		page.Title = fm.Title
	}

	source := []byte(preprocess(string(body)))
	pctx := parser.NewContext(parser.WithIDs(p.ids))
	root := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	c := &converter{
		source:    source,
		sourceDir: filepath.Dir(in.Source),
		outputDir: p.opts.OutputDir,
		footnotes: footnoteRefs(root),
	}
	page.Blocks = c.blocks(root)

	if page.Title == "" {
		page.Title = firstHeading(page.Blocks)
	}
	return page, meta, nil
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Author  string   `yaml:"author"`
	Authors []string `yaml:"authors"`
	Date    any      `yaml:"date"`
}

func parseFrontMatter(data []byte) (doctree.Meta, error) {
	var fm frontMatter
	if err := yamlutil.Unmarshal(data, &fm); err != nil {
		return doctree.Meta{}, err
	}

	meta := doctree.Meta{Title: strings.TrimSpace(fm.Title)}
	if fm.Author != "" {
		meta.Authors = append(meta.Authors, strings.TrimSpace(fm.Author))
	}
	for _, a := range fm.Authors {
		if a = strings.TrimSpace(a); a != "" {
			meta.Authors = append(meta.Authors, a)
		}
	}

	switch d := fm.Date.(type) {
	case nil:
	case time.Time:
		meta.Date = d.Format("2006-01-02")
	case string:
		meta.Date = strings.TrimSpace(d)
	default:
		meta.Date = fmt.Sprint(d)
	}
	return meta, nil
}

func mergeMeta(dst *doctree.Meta, src doctree.Meta) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if dst.Date == "" {
		dst.Date = src.Date
	}
}

// firstHeading returns the text of the first level-1 heading, or "".
func firstHeading(blocks []doctree.Block) string {
	for _, b := range blocks {
		if h, ok := b.(*doctree.Heading); ok && h.Level == 1 {
			return doctree.PlainText(h.Content)
		}
	}
	return ""
}

// nodeText concatenates the text segments under n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// linesText joins the raw source lines of a block node.
func linesText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
