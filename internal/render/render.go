// Package render turns a doctree.Document into Typst source.
//
// Rendering is a two-phase walk over the whole tree. The declare pass
// assigns numbers and registers every anchor, so the render pass can
// resolve references to targets that appear later in the document. All
// state lives in one renderer value per call; independent documents may
// be rendered concurrently.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/mathconv"
	"github.com/alnah/go-typstwriter/internal/numbering"
	"github.com/alnah/go-typstwriter/internal/refs"
)

// Sentinel errors raised by the renderer itself.
var (
	ErrUnresolvedFootnote = errors.New("unresolved footnote")
	ErrInvalidImageSource = errors.New("invalid image source")
)

// Supplements are the words placed before numbers in reference texts and
// captions.
type Supplements struct {
	Section  string
	Figure   string
	Table    string
	Footnote string
}

// DefaultSupplements returns the English supplements.
func DefaultSupplements() Supplements {
	return Supplements{Section: "Section", Figure: "Figure", Table: "Table", Footnote: "Footnote"}
}

// Config is the read-only input of one render.
type Config struct {
	Preamble     string
	Title        string
	Authors      []string
	Date         string
	TOC          bool
	TOCDepth     int
	PageBreaks   bool
	Scope        numbering.Scope
	Supplements  Supplements
	Math         *mathconv.Translator
	MathFallback bool
}

// Output is a finished render.
type Output struct {
	Text     string
	Warnings []Warning
}

// Error is a fatal render error positioned in the tree.
type Error struct {
	NodeKind string
	Anchor   string
	Location string
	Section  string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Location)
	if e.NodeKind != "" {
		b.WriteString(" (" + e.NodeKind + ")")
	}
	if e.Section != "" {
		fmt.Fprintf(&b, " in section %q", e.Section)
	}
	if e.Anchor != "" {
		fmt.Fprintf(&b, " anchor %q", e.Anchor)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type renderer struct {
	cfg   Config
	nums  *numbering.Manager
	refs  *refs.Resolver
	warns warnings

	// declare pass results, keyed by node pointer
	numbers map[doctree.Node]numbering.Number
	anchors map[doctree.Node]refs.Anchor

	footnotes   map[string]*footnote
	footOrder   []string  // ids in first-reference order
	inFootnote  *footnote // definition being declared, nil in the body
	footEmitted map[string]bool

	section string // plain text of the innermost heading seen so far
}

type footnote struct {
	def        *doctree.FootnoteDefinition
	defPath    doctree.Path
	referenced bool
	refPath    doctree.Path // first reference
	refSection string
	anchor     refs.Anchor
	nested     []footnoteRef // references made from this definition's body
}

type footnoteRef struct {
	id      string
	path    doctree.Path
	section string
}

// Render produces the Typst source for doc. The tree is validated first;
// any fatal error aborts the render and no partial text is returned.
func Render(doc *doctree.Document, cfg Config) (Output, error) {
	if err := doctree.Validate(doc); err != nil {
		var te *doctree.Error
		if errors.As(err, &te) {
			return Output{}, &Error{NodeKind: te.NodeKind, Location: te.Path, Err: err}
		}
		return Output{}, err
	}
	if cfg.Supplements == (Supplements{}) {
		cfg.Supplements = DefaultSupplements()
	}

	r := &renderer{
		cfg:         cfg,
		nums:        numbering.New(cfg.Scope),
		refs:        refs.New(),
		numbers:     make(map[doctree.Node]numbering.Number),
		anchors:     make(map[doctree.Node]refs.Anchor),
		footnotes:   make(map[string]*footnote),
		footEmitted: make(map[string]bool),
	}

	if err := r.declareDocument(doc); err != nil {
		return Output{}, err
	}
	r.section = ""

	text, err := r.assemble(doc)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: text, Warnings: r.warns.list()}, nil
}

// fail positions err at path.
func (r *renderer) fail(path doctree.Path, n doctree.Node, anchor string, err error) error {
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	kind := ""
	if n != nil {
		kind = n.Kind()
	}
	return &Error{
		NodeKind: kind,
		Anchor:   anchor,
		Location: path.String(),
		Section:  r.section,
		Err:      err,
	}
}
