package render

import (
	"fmt"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/refs"
)

// declareDocument is the first pass: it numbers headings, captioned
// figures and tables, and footnotes, and registers every anchor. The
// resolver is sealed when it returns.
func (r *renderer) declareDocument(doc *doctree.Document) error {
	for _, pg := range doc.Pages {
		r.reserveBlocks(pg.Blocks)
	}

	var defOrder []string
	for i, pg := range doc.Pages {
		if err := r.declareBlocks(pg.Blocks, doctree.Path{}.Push("page", i), &defOrder); err != nil {
			return err
		}
	}

	// A definition's own references count once the definition is
	// referenced; r.footOrder grows while it is walked.
	for i := 0; i < len(r.footOrder); i++ {
		if fn := r.footnotes[r.footOrder[i]]; fn.def != nil {
			for _, ref := range fn.nested {
				r.markReferenced(ref)
			}
		}
	}

	for _, id := range r.footOrder {
		fn := r.footnotes[id]
		if fn.def == nil {
			return &Error{
				NodeKind: doctree.KindFootnoteReference,
				Anchor:   id,
				Location: fn.refPath.String(),
				Section:  fn.refSection,
				Err:      fmt.Errorf("%w: no definition for footnote %q", ErrUnresolvedFootnote, id),
			}
		}
		a, err := r.refs.Declare(refs.FootnoteName(id), refs.ClassFootnote, r.nums.Footnote(),
			doctree.KindFootnoteDefinition, fn.defPath.String())
		if err != nil {
			return r.fail(fn.defPath, fn.def, id, err)
		}
		fn.anchor = a
	}

	for _, id := range defOrder {
		if fn := r.footnotes[id]; !fn.referenced {
			r.warns.add(WarnUnreferencedFootnote, fn.defPath.String(),
				"footnote %q is never referenced and was dropped", id)
		}
	}

	r.refs.Seal()
	return nil
}

func (r *renderer) declareBlocks(blocks []doctree.Block, path doctree.Path, defOrder *[]string) error {
	for i, b := range blocks {
		if err := r.declareBlock(b, path.Push("block", i), defOrder); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) declareBlock(b doctree.Block, path doctree.Path, defOrder *[]string) error {
	switch n := b.(type) {
	case *doctree.Heading:
		num := r.nums.Heading(n.Level)
		plain := doctree.PlainText(n.Content)
		r.section = plain
		r.numbers[n] = num

		var a refs.Anchor
		var err error
		if n.Anchor != "" {
			a, err = r.refs.Declare(n.Anchor, refs.ClassSection, num, n.Kind(), path.String())
		} else {
			a, err = r.refs.DeclareImplicit(refs.DeriveID(plain), refs.ClassSection, num, n.Kind(), path.String())
		}
		if err != nil {
			return r.fail(path, n, n.Anchor, err)
		}
		r.anchors[n] = a
		return r.declareInlines(n.Content, path)

	case *doctree.Paragraph:
		return r.declareInlines(n.Content, path)

	case *doctree.List:
		for i, item := range n.Items {
			if err := r.declareBlocks(item, path.Push("item", i), defOrder); err != nil {
				return err
			}
		}

	case *doctree.Table:
		if len(n.Caption) > 0 || n.Anchor != "" {
			num := r.nums.Table()
			r.numbers[n] = num
			if n.Anchor != "" {
				a, err := r.refs.Declare(n.Anchor, refs.ClassTable, num, n.Kind(), path.String())
				if err != nil {
					return r.fail(path, n, n.Anchor, err)
				}
				r.anchors[n] = a
			}
		}
		for ri, row := range n.Rows {
			for ci, cell := range row {
				if err := r.declareBlocks(cell, path.Push("row", ri).Push("cell", ci), defOrder); err != nil {
					return err
				}
			}
		}
		return r.declareInlines(n.Caption, path)

	case *doctree.Image:
		if len(n.Caption) > 0 || n.Anchor != "" {
			num := r.nums.Figure()
			r.numbers[n] = num
			if n.Anchor != "" {
				a, err := r.refs.Declare(n.Anchor, refs.ClassFigure, num, n.Kind(), path.String())
				if err != nil {
					return r.fail(path, n, n.Anchor, err)
				}
				r.anchors[n] = a
			}
		}
		return r.declareInlines(n.Caption, path)

	case *doctree.Admonition:
		return r.declareBlocks(n.Content, path, defOrder)

	case *doctree.BlockQuote:
		return r.declareBlocks(n.Content, path, defOrder)

	case *doctree.FootnoteDefinition:
		fn := r.footnotes[n.ID]
		if fn == nil {
			fn = &footnote{}
			r.footnotes[n.ID] = fn
		}
		if fn.def != nil {
			return r.fail(path, n, n.ID, fmt.Errorf("%w: footnote %q already defined at %s",
				refs.ErrDuplicateAnchor, n.ID, fn.defPath))
		}
		fn.def = n
		fn.defPath = path
		*defOrder = append(*defOrder, n.ID)

		outer := r.inFootnote
		r.inFootnote = fn
		defer func() { r.inFootnote = outer }()
		return r.declareBlocks(n.Content, path, defOrder)
	}
	return nil
}

// markReferenced records the first reference to a footnote.
func (r *renderer) markReferenced(ref footnoteRef) {
	fn := r.footnotes[ref.id]
	if fn == nil {
		fn = &footnote{}
		r.footnotes[ref.id] = fn
	}
	if fn.referenced {
		return
	}
	fn.referenced = true
	fn.refPath = ref.path
	fn.refSection = ref.section
	r.footOrder = append(r.footOrder, ref.id)
}

func (r *renderer) declareInlines(content []doctree.Inline, path doctree.Path) error {
	for i, in := range content {
		p := path.Push("inline", i)
		switch n := in.(type) {
		case *doctree.FootnoteReference:
			ref := footnoteRef{id: n.ID, path: p, section: r.section}
			if r.inFootnote != nil {
				r.inFootnote.nested = append(r.inFootnote.nested, ref)
				continue
			}
			r.markReferenced(ref)
		case *doctree.Emphasis:
			if err := r.declareInlines(n.Content, p); err != nil {
				return err
			}
		case *doctree.Strong:
			if err := r.declareInlines(n.Content, p); err != nil {
				return err
			}
		case *doctree.Strikethrough:
			if err := r.declareInlines(n.Content, p); err != nil {
				return err
			}
		case *doctree.Link:
			if err := r.declareInlines(n.Content, p); err != nil {
				return err
			}
		case *doctree.Image:
			if n.Anchor != "" {
				a, err := r.refs.Declare(n.Anchor, refs.ClassFigure, nil, n.Kind(), p.String())
				if err != nil {
					return r.fail(p, n, n.Anchor, err)
				}
				r.anchors[n] = a
			}
			if err := r.declareInlines(n.Caption, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// reserveBlocks reserves every explicit anchor and footnote name so that
// implicit heading anchors declared earlier cannot take them.
func (r *renderer) reserveBlocks(blocks []doctree.Block) {
	for _, b := range blocks {
		switch n := b.(type) {
		case *doctree.Heading:
			if n.Anchor != "" {
				r.refs.Reserve(n.Anchor)
			}
			r.reserveInlines(n.Content)
		case *doctree.Paragraph:
			r.reserveInlines(n.Content)
		case *doctree.List:
			for _, item := range n.Items {
				r.reserveBlocks(item)
			}
		case *doctree.Table:
			if n.Anchor != "" {
				r.refs.Reserve(n.Anchor)
			}
			for _, row := range n.Rows {
				for _, cell := range row {
					r.reserveBlocks(cell)
				}
			}
			r.reserveInlines(n.Caption)
		case *doctree.Image:
			if n.Anchor != "" {
				r.refs.Reserve(n.Anchor)
			}
			r.reserveInlines(n.Caption)
		case *doctree.Admonition:
			r.reserveBlocks(n.Content)
		case *doctree.BlockQuote:
			r.reserveBlocks(n.Content)
		case *doctree.FootnoteDefinition:
			r.refs.Reserve(refs.FootnoteName(n.ID))
			r.reserveBlocks(n.Content)
		}
	}
}

func (r *renderer) reserveInlines(content []doctree.Inline) {
	for _, in := range content {
		switch n := in.(type) {
		case *doctree.Emphasis:
			r.reserveInlines(n.Content)
		case *doctree.Strong:
			r.reserveInlines(n.Content)
		case *doctree.Strikethrough:
			r.reserveInlines(n.Content)
		case *doctree.Link:
			r.reserveInlines(n.Content)
		case *doctree.Image:
			if n.Anchor != "" {
				r.refs.Reserve(n.Anchor)
			}
			r.reserveInlines(n.Caption)
		}
	}
}
