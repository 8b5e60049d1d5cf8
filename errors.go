package typstwriter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/assets"
	"github.com/alnah/go-typstwriter/internal/escape"
	"github.com/alnah/go-typstwriter/internal/mathconv"
	"github.com/alnah/go-typstwriter/internal/refs"
	"github.com/alnah/go-typstwriter/internal/render"
)

// Sentinel errors for render failures.
var (
	ErrMalformedTree            = doctree.ErrMalformed
	ErrUnresolvedReference      = refs.ErrUnresolvedReference
	ErrUnresolvedFootnote       = render.ErrUnresolvedFootnote
	ErrDuplicateAnchor          = refs.ErrDuplicateAnchor
	ErrUnsupportedMathConstruct = mathconv.ErrUnsupportedConstruct
	ErrUnsupportedCharacter     = escape.ErrUnsupportedCharacter
	ErrInvalidImageSource       = render.ErrInvalidImageSource
	ErrInternal                 = errors.New("internal error")
)

// Sentinel errors for settings validation.
var (
	ErrInvalidPlatform       = errors.New("invalid platform")
	ErrInvalidSitename       = errors.New("invalid sitename")
	ErrInvalidVersion        = errors.New("invalid version")
	ErrInvalidTOCDepth       = errors.New("invalid TOC depth")
	ErrInvalidNumberingScope = errors.New("invalid numbering scope")
	ErrInvalidMathMacro      = mathconv.ErrInvalidMacro
	ErrInvalidDate           = errors.New("invalid date")
	ErrPreambleNotFound      = assets.ErrPreambleNotFound
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)

// RenderError is a fatal render failure positioned in the document tree.
type RenderError struct {
	Kind     string // short class such as "unresolved-reference"
	NodeKind string // doctree kind of the offending node
	Anchor   string // anchor or footnote id involved, if any
	Location string // tree path such as "page[1]/block[4]/inline[0]"
	Section  string // text of the nearest enclosing heading
	Err      error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	if e.Location != "" {
		b.WriteString(" at " + e.Location)
	}
	if e.NodeKind != "" {
		b.WriteString(" (" + e.NodeKind + ")")
	}
	if e.Section != "" {
		fmt.Fprintf(&b, " in section %q", e.Section)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// errorKinds classifies render failures, most specific first.
var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrMalformedTree, "malformed-tree"},
	{ErrUnresolvedFootnote, "unresolved-footnote"},
	{ErrUnresolvedReference, "unresolved-reference"},
	{ErrDuplicateAnchor, "duplicate-anchor"},
	{ErrUnsupportedMathConstruct, "unsupported-math"},
	{ErrUnsupportedCharacter, "unsupported-character"},
	{ErrInvalidImageSource, "invalid-image-source"},
}

func classify(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "render"
}

// toRenderError converts an internal render failure to a *RenderError.
func toRenderError(err error) error {
	re := &RenderError{Kind: classify(err), Err: err}
	var pos *render.Error
	if errors.As(err, &pos) {
		re.NodeKind = pos.NodeKind
		re.Anchor = pos.Anchor
		re.Location = pos.Location
		re.Section = pos.Section
		re.Err = pos.Err
	}
	return re
}
