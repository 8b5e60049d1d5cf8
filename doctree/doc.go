// Package doctree defines the document tree consumed by the Typst writer.
//
// The tree is produced by an external parsing collaborator (see
// internal/mdtree for the bundled Markdown adapter) and is never mutated by
// the renderer. Node variants form a closed set: Block and Inline carry
// unexported marker methods, so only the types declared here can appear in
// a tree, and Go's type system enforces the legal-parent contract (a Table
// cannot be placed in a Paragraph). Image and RawMarkup are legal in both
// positions.
//
// Validate performs the remaining runtime checks (nil nodes, heading
// levels, empty identifiers) and reports violations as *Error values that
// match ErrMalformed.
package doctree
