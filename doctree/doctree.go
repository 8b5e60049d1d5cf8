package doctree

// Node kinds reported by Node.Kind and used in error locations.
const (
	KindHeading            = "Heading"
	KindParagraph          = "Paragraph"
	KindCodeBlock          = "CodeBlock"
	KindMathBlock          = "MathBlock"
	KindList               = "List"
	KindTable              = "Table"
	KindAdmonition         = "Admonition"
	KindImage              = "Image"
	KindFootnoteDefinition = "FootnoteDefinition"
	KindRawMarkup          = "RawMarkup"
	KindBlockQuote         = "BlockQuote"
	KindThematicBreak      = "ThematicBreak"

	KindText              = "Text"
	KindEmphasis          = "Emphasis"
	KindStrong            = "Strong"
	KindStrikethrough     = "Strikethrough"
	KindCode              = "Code"
	KindLink              = "Link"
	KindInlineMath        = "InlineMath"
	KindCrossReference    = "CrossReference"
	KindFootnoteReference = "FootnoteReference"
	KindLineBreak         = "LineBreak"
	KindSoftBreak         = "SoftBreak"
)

// MaxHeadingLevel is the deepest heading level accepted by Validate.
const MaxHeadingLevel = 6

// DialectLaTeX is the only math dialect the renderer translates.
const DialectLaTeX = "latex"

// Node is implemented by every document tree element.
type Node interface {
	Kind() string
}

// Block is a node legal at block level (page bodies, list items, table
// cells, admonition and footnote content).
type Block interface {
	Node
	block()
}

// Inline is a node legal inside paragraphs, headings, links and captions.
type Inline interface {
	Node
	inline()
}

// Document is the root of a parsed documentation tree.
type Document struct {
	Meta  Meta
	Pages []*Page
}

// Meta holds front matter supplied by the parsing collaborator.
// Render settings take precedence over these values when both are set.
type Meta struct {
	Title   string
	Authors []string
	Date    string
}

// Page is one source document within the tree, rendered in order.
type Page struct {
	Source string // origin path, used in page markers and error locations
	Title  string
	Blocks []Block
}

// Alignment is the declared horizontal alignment of a table column.
type Alignment int

// Column alignments.
const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "default"
	}
}

// ---------------------------------------------------------------------------
// Block nodes
// ---------------------------------------------------------------------------

// Heading is a section title. An empty Anchor is derived from the text.
type Heading struct {
	Level   int
	Content []Inline
	Anchor  string
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// CodeBlock is a literal code listing tagged with a language.
type CodeBlock struct {
	Language string
	Text     string
}

// MathBlock is display math in the given dialect.
type MathBlock struct {
	Dialect string
	Text    string
}

// List is an ordered or bullet list. Each item is a block sequence.
type List struct {
	Ordered bool
	Start   int // first number of an ordered list; 0 and 1 both mean 1
	Tight   bool
	Items   [][]Block
}

// Cell is the block content of one table cell.
type Cell []Block

// Table is a grid of cells. When Header is set the first row is the header.
type Table struct {
	Align   []Alignment
	Header  bool
	Rows    [][]Cell
	Caption []Inline
	Anchor  string
}

// Admonition is a styled callout box such as a note or a warning.
// Type is an open set; unknown kinds degrade to a note.
type Admonition struct {
	Type    string
	Title   string
	Content []Block
}

// Image references a picture by path or URL. At block level it becomes a
// figure; at inline level it is placed in the text flow.
type Image struct {
	Source  string
	Caption []Inline
	Alt     string
	Anchor  string
}

// FootnoteDefinition holds the body of footnote ID.
type FootnoteDefinition struct {
	ID      string
	Content []Block
}

// RawMarkup is literal markup for a specific output format. Only the
// "typst" format reaches the output.
type RawMarkup struct {
	Format string
	Text   string
}

// BlockQuote is quoted block content.
type BlockQuote struct {
	Content []Block
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// ---------------------------------------------------------------------------
// Inline nodes
// ---------------------------------------------------------------------------

// Text is a plain text run.
type Text struct {
	Value string
}

// Emphasis is emphasized (italic) content.
type Emphasis struct {
	Content []Inline
}

// Strong is strongly emphasized (bold) content.
type Strong struct {
	Content []Inline
}

// Strikethrough is struck-out content.
type Strikethrough struct {
	Content []Inline
}

// Code is a code span.
type Code struct {
	Value string
}

// Link is a hyperlink to an external URL.
type Link struct {
	URL     string
	Content []Inline
}

// InlineMath is math in running text.
type InlineMath struct {
	Dialect string
	Text    string
}

// CrossReference points at an anchor declared anywhere in the document.
// An empty Display uses the numbered default such as "Section 2.1".
type CrossReference struct {
	Target  string
	Display string
}

// FootnoteReference marks the position of footnote ID.
type FootnoteReference struct {
	ID string
}

// LineBreak is a hard line break.
type LineBreak struct{}

// SoftBreak is a source line break rendered as a space.
type SoftBreak struct{}

func (*Heading) Kind() string            { return KindHeading }
func (*Paragraph) Kind() string          { return KindParagraph }
func (*CodeBlock) Kind() string          { return KindCodeBlock }
func (*MathBlock) Kind() string          { return KindMathBlock }
func (*List) Kind() string               { return KindList }
func (*Table) Kind() string              { return KindTable }
func (*Admonition) Kind() string         { return KindAdmonition }
func (*Image) Kind() string              { return KindImage }
func (*FootnoteDefinition) Kind() string { return KindFootnoteDefinition }
func (*RawMarkup) Kind() string          { return KindRawMarkup }
func (*BlockQuote) Kind() string         { return KindBlockQuote }
func (*ThematicBreak) Kind() string      { return KindThematicBreak }
func (*Text) Kind() string               { return KindText }
func (*Emphasis) Kind() string           { return KindEmphasis }
func (*Strong) Kind() string             { return KindStrong }
func (*Strikethrough) Kind() string      { return KindStrikethrough }
func (*Code) Kind() string               { return KindCode }
func (*Link) Kind() string               { return KindLink }
func (*InlineMath) Kind() string         { return KindInlineMath }
func (*CrossReference) Kind() string     { return KindCrossReference }
func (*FootnoteReference) Kind() string  { return KindFootnoteReference }
func (*LineBreak) Kind() string          { return KindLineBreak }
func (*SoftBreak) Kind() string          { return KindSoftBreak }

func (*Heading) block()            {}
func (*Paragraph) block()          {}
func (*CodeBlock) block()          {}
func (*MathBlock) block()          {}
func (*List) block()               {}
func (*Table) block()              {}
func (*Admonition) block()         {}
func (*Image) block()              {}
func (*FootnoteDefinition) block() {}
func (*RawMarkup) block()          {}
func (*BlockQuote) block()         {}
func (*ThematicBreak) block()      {}

func (*Text) inline()              {}
func (*Emphasis) inline()          {}
func (*Strong) inline()            {}
func (*Strikethrough) inline()     {}
func (*Code) inline()              {}
func (*Link) inline()              {}
func (*InlineMath) inline()        {}
func (*CrossReference) inline()    {}
func (*FootnoteReference) inline() {}
func (*LineBreak) inline()         {}
func (*SoftBreak) inline()         {}
func (*Image) inline()             {}
func (*RawMarkup) inline()         {}

// Compile-time checks that every variant sits in its legal positions.
var (
	_ Block = (*Heading)(nil)
	_ Block = (*Paragraph)(nil)
	_ Block = (*CodeBlock)(nil)
	_ Block = (*MathBlock)(nil)
	_ Block = (*List)(nil)
	_ Block = (*Table)(nil)
	_ Block = (*Admonition)(nil)
	_ Block = (*Image)(nil)
	_ Block = (*FootnoteDefinition)(nil)
	_ Block = (*RawMarkup)(nil)
	_ Block = (*BlockQuote)(nil)
	_ Block = (*ThematicBreak)(nil)

	_ Inline = (*Text)(nil)
	_ Inline = (*Emphasis)(nil)
	_ Inline = (*Strong)(nil)
	_ Inline = (*Strikethrough)(nil)
	_ Inline = (*Code)(nil)
	_ Inline = (*Link)(nil)
	_ Inline = (*InlineMath)(nil)
	_ Inline = (*CrossReference)(nil)
	_ Inline = (*FootnoteReference)(nil)
	_ Inline = (*LineBreak)(nil)
	_ Inline = (*SoftBreak)(nil)
	_ Inline = (*Image)(nil)
	_ Inline = (*RawMarkup)(nil)
)

// PlainText flattens inline content to its visible text, dropping markup.
// Used for implicit anchors and error messages.
func PlainText(content []Inline) string {
	var b []byte
	for _, n := range content {
		b = appendPlain(b, n)
	}
	return string(b)
}

func appendPlain(b []byte, n Inline) []byte {
	switch v := n.(type) {
	case *Text:
		return append(b, v.Value...)
	case *Code:
		return append(b, v.Value...)
	case *Emphasis:
		for _, c := range v.Content {
			b = appendPlain(b, c)
		}
	case *Strong:
		for _, c := range v.Content {
			b = appendPlain(b, c)
		}
	case *Strikethrough:
		for _, c := range v.Content {
			b = appendPlain(b, c)
		}
	case *Link:
		for _, c := range v.Content {
			b = appendPlain(b, c)
		}
	case *InlineMath:
		return append(b, v.Text...)
	case *CrossReference:
		return append(b, v.Display...)
	case *SoftBreak, *LineBreak:
		return append(b, ' ')
	case *Image:
		return append(b, v.Alt...)
	}
	return b
}
