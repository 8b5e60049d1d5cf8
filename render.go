package typstwriter

import (
	"fmt"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/render"
)

// Warning is a non-fatal degradation recorded during a render.
type Warning struct {
	Kind     string // e.g. "unknown-language", "math-fallback"
	Message  string
	Location string // tree path of the node
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s [%s]", w.Location, w.Message, w.Kind)
}

// Warning kinds.
const (
	WarnUnknownLanguage      = render.WarnUnknownLanguage
	WarnUnknownAdmonition    = render.WarnUnknownAdmonition
	WarnMathFallback         = render.WarnMathFallback
	WarnUnreferencedFootnote = render.WarnUnreferencedFootnote
	WarnRawFormatDropped     = render.WarnRawFormatDropped
	WarnTableRagged          = render.WarnTableRagged
	WarnImageFormat          = render.WarnImageFormat
)

// Result is a finished render. Text is owned by the caller.
type Result struct {
	Text     string
	FileName string // OutputName + ".typ"
	Warnings []Warning
}

// Render produces the Typst source for doc. A nil settings value uses
// the defaults of ResolveSettings(Options{}).
// Recovers from internal panics to prevent crashes from propagating to callers.
func Render(doc *doctree.Document, settings *Settings) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if settings == nil {
		if settings, err = ResolveSettings(Options{}); err != nil {
			return nil, err
		}
	}

	out, err := render.Render(doc, settings.renderConfig())
	if err != nil {
		return nil, toRenderError(err)
	}

	var warnings []Warning
	for _, w := range out.Warnings {
		warnings = append(warnings, Warning(w))
	}
	return &Result{
		Text:     out.Text,
		FileName: settings.OutputName() + ".typ",
		Warnings: warnings,
	}, nil
}
