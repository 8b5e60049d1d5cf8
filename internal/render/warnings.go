package render

import "fmt"

// Warning kinds.
const (
	WarnUnknownLanguage      = "unknown-language"
	WarnUnknownAdmonition    = "unknown-admonition"
	WarnMathFallback         = "math-fallback"
	WarnUnreferencedFootnote = "unreferenced-footnote"
	WarnRawFormatDropped     = "raw-format-dropped"
	WarnTableRagged          = "table-ragged"
	WarnImageFormat          = "image-format"
)

// Warning is a non-fatal degradation recorded during a render.
type Warning struct {
	Kind     string
	Message  string
	Location string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s [%s]", w.Location, w.Message, w.Kind)
}

type warnings struct {
	items []Warning
}

func (w *warnings) add(kind, location, format string, args ...any) {
	w.items = append(w.items, Warning{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

func (w *warnings) list() []Warning {
	if len(w.items) == 0 {
		return nil
	}
	return append([]Warning(nil), w.items...)
}
