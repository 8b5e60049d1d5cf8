package render

import (
	"strconv"
	"strings"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/escape"
)

// defaultTOCDepth is the outline depth when none is configured.
const defaultTOCDepth = 3

// assemble is the render pass. It emits, in order: preamble, front
// matter, outline, pages, and the deferred footnote bodies.
func (r *renderer) assemble(doc *doctree.Document) (string, error) {
	var b strings.Builder

	if pre := strings.TrimSpace(r.cfg.Preamble); pre != "" {
		b.WriteString(pre)
		b.WriteString("\n\n")
	}

	front, err := r.frontMatter(doc.Meta)
	if err != nil {
		return "", err
	}
	if front != "" {
		b.WriteString(front)
		b.WriteString("\n\n")
	}

	if r.cfg.TOC {
		depth := r.cfg.TOCDepth
		if depth <= 0 {
			depth = defaultTOCDepth
		}
		b.WriteString("#outline(depth: " + strconv.Itoa(depth) + ")\n\n")
	}

	for i, pg := range doc.Pages {
		if i > 0 && r.cfg.PageBreaks {
			b.WriteString("#pagebreak(weak: true)\n\n")
		}
		b.WriteString(pageMarker(pg, i))
		b.WriteString("\n\n")

		body, err := r.blocks(pg.Blocks, doctree.Path{}.Push("page", i))
		if err != nil {
			return "", err
		}
		if body != "" {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}

	notes, err := r.footnoteBlock()
	if err != nil {
		return "", err
	}
	b.WriteString(notes)

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func pageMarker(pg *doctree.Page, i int) string {
	name := pg.Source
	if name == "" {
		name = pg.Title
	}
	if name == "" {
		name = strconv.Itoa(i + 1)
	}
	name = strings.Join(strings.Fields(name), " ")
	return "// page: " + name
}

// frontMatter renders document metadata. Settings win over values carried
// by the tree.
func (r *renderer) frontMatter(meta doctree.Meta) (string, error) {
	title := firstNonEmpty(r.cfg.Title, meta.Title)
	authors := r.cfg.Authors
	if len(authors) == 0 {
		authors = meta.Authors
	}
	date := firstNonEmpty(r.cfg.Date, meta.Date)
	if title == "" && len(authors) == 0 && date == "" {
		return "", nil
	}

	var args []string
	var block []string
	if title != "" {
		lit, err := escape.String(title)
		if err != nil {
			return "", r.frontError("title", err)
		}
		args = append(args, "title: "+lit)
		markup, err := escape.Markup(title)
		if err != nil {
			return "", r.frontError("title", err)
		}
		block = append(block, `#text(size: 1.6em, weight: "bold")[`+escape.ProtectLineStart(markup)+"]")
	}
	if len(authors) > 0 {
		lits := make([]string, len(authors))
		names := make([]string, len(authors))
		for i, a := range authors {
			lit, err := escape.String(a)
			if err != nil {
				return "", r.frontError("author", err)
			}
			name, err := escape.Markup(a)
			if err != nil {
				return "", r.frontError("author", err)
			}
			lits[i], names[i] = lit, name
		}
		if len(lits) == 1 {
			args = append(args, "author: ("+lits[0]+",)")
		} else {
			args = append(args, "author: ("+strings.Join(lits, ", ")+")")
		}
		block = append(block, escape.ProtectLineStart(strings.Join(names, ", ")))
	}
	if date != "" {
		markup, err := escape.Markup(date)
		if err != nil {
			return "", r.frontError("date", err)
		}
		block = append(block, escape.ProtectLineStart(markup))
	}

	var b strings.Builder
	if len(args) > 0 {
		b.WriteString("#set document(" + strings.Join(args, ", ") + ")\n")
	}
	b.WriteString("#align(center)[" + wrapBody(strings.Join(block, "\n\n")) + "]")
	return b.String(), nil
}

func (r *renderer) frontError(field string, err error) error {
	return &Error{Location: "document/" + field, Err: err}
}

// footnoteBlock renders referenced footnote bodies as labelled metadata,
// which the footnote markers query.
func (r *renderer) footnoteBlock() (string, error) {
	if len(r.footOrder) == 0 {
		return "", nil
	}
	r.section = ""

	var b strings.Builder
	b.WriteString("// footnotes\n")
	for _, id := range r.footOrder {
		fn := r.footnotes[id]
		body, err := r.blocks(fn.def.Content, fn.defPath)
		if err != nil {
			return "", err
		}
		b.WriteString("#metadata(" + contentBlock(body) + ") " + escape.Label(fn.anchor.ID) + "\n")
	}
	return b.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
