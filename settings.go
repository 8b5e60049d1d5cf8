package typstwriter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/alnah/go-typstwriter/internal/assets"
	"github.com/alnah/go-typstwriter/internal/dateutil"
	"github.com/alnah/go-typstwriter/internal/mathconv"
	"github.com/alnah/go-typstwriter/internal/numbering"
	"github.com/alnah/go-typstwriter/internal/render"
)

// Compilation platforms.
const (
	PlatformTypst  = "typst"  // managed Typst toolchain
	PlatformNative = "native" // system-installed compiler executable
	PlatformDocker = "docker" // containerized compiler
	PlatformNone   = "none"   // emit markup only
)

// Defaults applied by ResolveSettings.
const (
	DefaultPlatform    = PlatformTypst
	DefaultSitename    = "document"
	DefaultTypst       = "typst"
	DefaultDockerImage = "ghcr.io/typst/typst:latest"
	DefaultTOCDepth    = 3
	MaxTOCDepth        = 6
	MaxNameLength      = 100
)

// Supplements are the words placed before numbers in reference texts and
// captions, such as "Section" in "Section 2.1".
type Supplements struct {
	Section  string
	Figure   string
	Table    string
	Footnote string
}

// DefaultSupplements returns the English supplements.
func DefaultSupplements() Supplements {
	return Supplements(render.DefaultSupplements())
}

// withDefaults fills each empty word from DefaultSupplements.
func (sp Supplements) withDefaults() Supplements {
	def := DefaultSupplements()
	if sp.Section == "" {
		sp.Section = def.Section
	}
	if sp.Figure == "" {
		sp.Figure = def.Figure
	}
	if sp.Table == "" {
		sp.Table = def.Table
	}
	if sp.Footnote == "" {
		sp.Footnote = def.Footnote
	}
	return sp
}

// Options are the caller-supplied inputs of ResolveSettings. The zero
// value is valid and selects every default.
type Options struct {
	Sitename    string // output base name, default "document"
	Version     string // appended to the output name as "<sitename>-<version>"
	Platform    string // typst, native, docker or none
	Typst       string // compiler executable, used with PlatformNative
	DockerImage string // compiler image, used with PlatformDocker

	// Preamble is an embedded preamble name ("default", "compact") or a
	// path to a .typ file whose contents replace the default preamble.
	Preamble  string
	AssetPath string // directory searched for preambles/{name}.typ before the embedded ones

	Title   string
	Authors []string
	Date    string    // literal, "auto" or "auto:FORMAT"
	Now     time.Time // clock for "auto" dates

	TOC            bool
	TOCDepth       int
	PageBreaks     bool
	NumberingScope string // section, chapter or document
	Supplements    Supplements

	MathMacros   map[string]string
	MathFallback bool
}

// Settings is the immutable result of ResolveSettings. It is safe for
// concurrent use by any number of renders.
type Settings struct {
	sitename     string
	version      string
	platform     string
	typst        string
	dockerImage  string
	preamble     string
	title        string
	authors      []string
	date         string
	toc          bool
	tocDepth     int
	pageBreaks   bool
	scope        numbering.Scope
	supplements  Supplements
	macros       map[string]string
	mathFallback bool
	translator   *mathconv.Translator
}

// ResolveSettings validates opts and builds Settings.
func ResolveSettings(opts Options) (*Settings, error) {
	s := &Settings{
		sitename:     strings.TrimSpace(opts.Sitename),
		version:      strings.TrimSpace(opts.Version),
		platform:     strings.ToLower(strings.TrimSpace(opts.Platform)),
		typst:        strings.TrimSpace(opts.Typst),
		dockerImage:  strings.TrimSpace(opts.DockerImage),
		title:        opts.Title,
		authors:      slices.Clone(opts.Authors),
		toc:          opts.TOC,
		tocDepth:     opts.TOCDepth,
		pageBreaks:   opts.PageBreaks,
		supplements:  opts.Supplements,
		macros:       maps.Clone(opts.MathMacros),
		mathFallback: opts.MathFallback,
	}

	if s.sitename == "" {
		s.sitename = DefaultSitename
	}
	if err := validateFileComponent(s.sitename); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSitename, err)
	}
	if s.version != "" {
		if err := validateFileComponent(s.version); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
		}
	}

	if s.platform == "" {
		s.platform = DefaultPlatform
	}
	switch s.platform {
	case PlatformTypst, PlatformNative, PlatformDocker, PlatformNone:
	default:
		return nil, fmt.Errorf("%w: %q (must be typst, native, docker or none)", ErrInvalidPlatform, opts.Platform)
	}
	if s.typst == "" {
		s.typst = DefaultTypst
	}
	if s.dockerImage == "" {
		s.dockerImage = DefaultDockerImage
	}

	if s.tocDepth == 0 {
		s.tocDepth = DefaultTOCDepth
	}
	if s.tocDepth < 1 || s.tocDepth > MaxTOCDepth {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidTOCDepth, opts.TOCDepth, MaxTOCDepth)
	}

	scope, err := numbering.ParseScope(opts.NumberingScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNumberingScope, err)
	}
	s.scope = scope

	s.supplements = s.supplements.withDefaults()

	date, err := resolveDate(opts.Date, opts.Now)
	if err != nil {
		return nil, err
	}
	s.date = date

	if s.translator, err = mathconv.New(s.macros); err != nil {
		return nil, err
	}

	resolver, err := assets.NewResolver(opts.AssetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if s.preamble, err = resolver.Resolve(opts.Preamble); err != nil {
		return nil, err
	}

	return s, nil
}

// resolveDate expands "auto" dates. The clock is never read implicitly.
func resolveDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if !dateutil.IsAuto(value) {
		return value, nil
	}
	if now.IsZero() {
		return "", fmt.Errorf("%w: %q needs Options.Now", ErrInvalidDate, value)
	}
	date, err := dateutil.ResolveDate(value, now)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return date, nil
}

// validateFileComponent rejects values that cannot be a single file name.
func validateFileComponent(v string) error {
	if len(v) > MaxNameLength {
		return fmt.Errorf("too long (%d > %d characters)", len(v), MaxNameLength)
	}
	if v == "." || v == ".." {
		return fmt.Errorf("%q is not a file name", v)
	}
	for _, r := range v {
		if r == '/' || r == '\\' || r == ':' || unicode.IsControl(r) {
			return fmt.Errorf("%q contains %q", v, r)
		}
	}
	return nil
}

// Sitename returns the output base name.
func (s *Settings) Sitename() string { return s.sitename }

// Version returns the version suffix, or "".
func (s *Settings) Version() string { return s.version }

// Platform returns the compilation platform.
func (s *Settings) Platform() string { return s.platform }

// Typst returns the compiler executable used with PlatformNative.
func (s *Settings) Typst() string { return s.typst }

// DockerImage returns the compiler image used with PlatformDocker.
func (s *Settings) DockerImage() string { return s.dockerImage }

// Preamble returns the resolved preamble text.
func (s *Settings) Preamble() string { return s.preamble }

// Title returns the document title override.
func (s *Settings) Title() string { return s.title }

// Authors returns a copy of the author list.
func (s *Settings) Authors() []string { return slices.Clone(s.authors) }

// Date returns the resolved date.
func (s *Settings) Date() string { return s.date }

// TOC reports whether an outline is emitted.
func (s *Settings) TOC() bool { return s.toc }

// TOCDepth returns the outline depth.
func (s *Settings) TOCDepth() int { return s.tocDepth }

// PageBreaks reports whether pages start on a new sheet.
func (s *Settings) PageBreaks() bool { return s.pageBreaks }

// NumberingScope returns the figure and table numbering scope name.
func (s *Settings) NumberingScope() string { return s.scope.String() }

// Supplements returns the reference words.
func (s *Settings) Supplements() Supplements { return s.supplements }

// MathMacros returns a copy of the caller math macros.
func (s *Settings) MathMacros() map[string]string { return maps.Clone(s.macros) }

// MathFallback reports whether untranslatable math degrades to raw text.
func (s *Settings) MathFallback() bool { return s.mathFallback }

// OutputName returns "<sitename>" or "<sitename>-<version>".
func (s *Settings) OutputName() string {
	if s.version == "" {
		return s.sitename
	}
	return s.sitename + "-" + s.version
}

// Compiles reports whether the platform produces a PDF.
func (s *Settings) Compiles() bool { return s.platform != PlatformNone }

func (s *Settings) renderConfig() render.Config {
	return render.Config{
		Preamble:     s.preamble,
		Title:        s.title,
		Authors:      s.authors,
		Date:         s.date,
		TOC:          s.toc,
		TOCDepth:     s.tocDepth,
		PageBreaks:   s.pageBreaks,
		Scope:        s.scope,
		Supplements:  render.Supplements(s.supplements),
		Math:         s.translator,
		MathFallback: s.mathFallback,
	}
}
