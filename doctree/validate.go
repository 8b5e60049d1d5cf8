package doctree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed indicates the tree violates the node-variant contract.
var ErrMalformed = errors.New("malformed document tree")

// Error describes where a tree violates its contract.
type Error struct {
	Path     string // e.g. "page[0]/block[3]/item[1]/block[0]"
	NodeKind string
	Reason   string
}

func (e *Error) Error() string {
	if e.NodeKind == "" {
		return fmt.Sprintf("%v at %s: %s", ErrMalformed, e.Path, e.Reason)
	}
	return fmt.Sprintf("%v at %s (%s): %s", ErrMalformed, e.Path, e.NodeKind, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *Error) Unwrap() error {
	return ErrMalformed
}

// Path builds slash-separated tree locations such as "page[0]/block[2]".
type Path []string

// Push returns a copy of p extended with name[i].
func (p Path) Push(name string, i int) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, name+"["+strconv.Itoa(i)+"]")
}

func (p Path) String() string {
	if len(p) == 0 {
		return "document"
	}
	return strings.Join(p, "/")
}

// Validate checks the structural contract the renderer relies on: no nil
// nodes, heading levels in range, non-empty identifiers and well-formed
// lists and tables. It stops at the first violation.
func Validate(doc *Document) error {
	if doc == nil {
		return &Error{Reason: "nil document"}
	}
	for i, pg := range doc.Pages {
		path := Path{}.Push("page", i)
		if pg == nil {
			return &Error{Path: path.String(), Reason: "nil page"}
		}
		if err := validateBlocks(pg.Blocks, path); err != nil {
			return err
		}
	}
	return nil
}

func validateBlocks(blocks []Block, path Path) error {
	for i, b := range blocks {
		if err := validateBlock(b, path.Push("block", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b Block, path Path) error {
	fail := func(reason string) error {
		kind := ""
		if b != nil {
			kind = b.Kind()
		}
		return &Error{Path: path.String(), NodeKind: kind, Reason: reason}
	}

	switch n := b.(type) {
	case nil:
		return fail("nil block")
	case *Heading:
		if n == nil {
			return fail("nil heading")
		}
		if n.Level < 1 || n.Level > MaxHeadingLevel {
			return fail(fmt.Sprintf("heading level %d outside 1..%d", n.Level, MaxHeadingLevel))
		}
		return validateInlines(n.Content, path)
	case *Paragraph:
		if n == nil {
			return fail("nil paragraph")
		}
		return validateInlines(n.Content, path)
	case *CodeBlock:
		if n == nil {
			return fail("nil code block")
		}
	case *MathBlock:
		if n == nil {
			return fail("nil math block")
		}
	case *List:
		if n == nil {
			return fail("nil list")
		}
		if len(n.Items) == 0 {
			return fail("list has no items")
		}
		if n.Start < 0 {
			return fail("negative list start")
		}
		for i, item := range n.Items {
			if err := validateBlocks(item, path.Push("item", i)); err != nil {
				return err
			}
		}
	case *Table:
		if n == nil {
			return fail("nil table")
		}
		if len(n.Rows) == 0 {
			return fail("table has no rows")
		}
		for r, row := range n.Rows {
			rowPath := path.Push("row", r)
			for c, cell := range row {
				if err := validateBlocks(cell, rowPath.Push("cell", c)); err != nil {
					return err
				}
			}
		}
		for _, a := range n.Align {
			if a < AlignDefault || a > AlignRight {
				return fail(fmt.Sprintf("unknown column alignment %d", int(a)))
			}
		}
		return validateInlines(n.Caption, path)
	case *Admonition:
		if n == nil {
			return fail("nil admonition")
		}
		return validateBlocks(n.Content, path)
	case *Image:
		if n == nil {
			return fail("nil image")
		}
		if strings.TrimSpace(n.Source) == "" {
			return fail("image without source")
		}
		return validateInlines(n.Caption, path)
	case *FootnoteDefinition:
		if n == nil {
			return fail("nil footnote definition")
		}
		if n.ID == "" {
			return fail("footnote definition without id")
		}
		return validateBlocks(n.Content, path)
	case *RawMarkup:
		if n == nil {
			return fail("nil raw markup")
		}
	case *BlockQuote:
		if n == nil {
			return fail("nil block quote")
		}
		return validateBlocks(n.Content, path)
	case *ThematicBreak:
		if n == nil {
			return fail("nil thematic break")
		}
	default:
		return fail(fmt.Sprintf("unknown block type %T", b))
	}
	return nil
}

func validateInlines(inlines []Inline, path Path) error {
	for i, n := range inlines {
		if err := validateInline(n, path.Push("inline", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateInline(in Inline, path Path) error {
	fail := func(reason string) error {
		kind := ""
		if in != nil {
			kind = in.Kind()
		}
		return &Error{Path: path.String(), NodeKind: kind, Reason: reason}
	}

	switch n := in.(type) {
	case nil:
		return fail("nil inline")
	case *Text:
		if n == nil {
			return fail("nil text")
		}
	case *Emphasis:
		if n == nil {
			return fail("nil emphasis")
		}
		return validateInlines(n.Content, path)
	case *Strong:
		if n == nil {
			return fail("nil strong")
		}
		return validateInlines(n.Content, path)
	case *Strikethrough:
		if n == nil {
			return fail("nil strikethrough")
		}
		return validateInlines(n.Content, path)
	case *Code:
		if n == nil {
			return fail("nil code span")
		}
	case *Link:
		if n == nil {
			return fail("nil link")
		}
		if n.URL == "" {
			return fail("link without url")
		}
		return validateInlines(n.Content, path)
	case *InlineMath:
		if n == nil {
			return fail("nil inline math")
		}
	case *CrossReference:
		if n == nil {
			return fail("nil cross-reference")
		}
		if n.Target == "" {
			return fail("cross-reference without target")
		}
	case *FootnoteReference:
		if n == nil {
			return fail("nil footnote reference")
		}
		if n.ID == "" {
			return fail("footnote reference without id")
		}
	case *LineBreak:
		if n == nil {
			return fail("nil line break")
		}
	case *SoftBreak:
		if n == nil {
			return fail("nil soft break")
		}
	case *Image:
		if n == nil {
			return fail("nil image")
		}
		if strings.TrimSpace(n.Source) == "" {
			return fail("image without source")
		}
		return validateInlines(n.Caption, path)
	case *RawMarkup:
		if n == nil {
			return fail("nil raw markup")
		}
	default:
		return fail(fmt.Sprintf("unknown inline type %T", in))
	}
	return nil
}
