// Package typstwriter renders documentation trees to Typst source.
//
// # Quick Start
//
// Resolve settings once, then render any number of documents:
//
//	settings, err := typstwriter.ResolveSettings(typstwriter.Options{
//	    Sitename: "Manual",
//	    Version:  "1.2.0",
//	    Platform: typstwriter.PlatformNone,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := typstwriter.Render(doc, settings)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.FileName, []byte(result.Text), 0644) // Manual-1.2.0.typ
//
// The document is a *doctree.Document built by a parser such as the
// Markdown adapter used by the typstwriter command.
//
// # Rendering Model
//
// A render walks the tree twice. The first pass numbers headings,
// captioned figures, captioned tables and footnotes, and declares every
// anchor. The second pass emits markup, so a cross-reference may point at
// a heading that appears later in the document.
//
// Output is emitted in this order:
//
//  1. Preamble (embedded "default" or "compact", or a custom .typ file)
//  2. Front matter (title, authors, date)
//  3. Optional outline
//  4. Pages in document order
//  5. Footnote bodies, in first-reference order
//
// Identical trees and settings always produce byte-identical output.
//
// # Errors and Warnings
//
// Fatal problems abort the render and return a *RenderError positioned in
// the tree; no partial text is returned. Match the cause with errors.Is:
//
//	var re *typstwriter.RenderError
//	if errors.As(err, &re) && errors.Is(err, typstwriter.ErrUnresolvedReference) {
//	    fmt.Println("dangling link at", re.Location)
//	}
//
// Recoverable degradations, such as an unknown code language or admonition
// kind, are returned in Result.Warnings after a successful render.
//
// # Parallel Processing
//
// A render owns all of its state. Use RenderBatch to render independent
// documents, such as versions or translations, concurrently.
package typstwriter
