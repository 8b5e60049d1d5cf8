// Package mdtree parses Markdown files into a doctree.Document.
//
// It uses goldmark with the GFM and footnote extensions and adds a few
// conventions on top of CommonMark:
//
//   - YAML front matter (title, author or authors, date) fills Page.Title
//     and Document.Meta.
//   - Fenced ```math blocks and `$...$` code spans become math.
//   - Fenced ```=typst (or =html, =latex) blocks become raw markup.
//   - [text](#id), [text](@ref), [text](@ref id) and [text](page.md#id)
//     become cross-references.
//   - Block quotes opening with "[!NOTE]" or `!!! kind "title"` become
//     admonitions.
//   - A paragraph "Table: caption {#id}" right after a table captions it.
//   - Raw HTML made only of <img> elements becomes images.
//
// Heading anchors are generated once per Parser, so anchors stay unique
// across all pages of a document.
package mdtree
