package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-typstwriter/internal/assets"
	"github.com/alnah/go-typstwriter/internal/config"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds output naming and compiler flags.
type siteFlags struct {
	sitename    string
	version     string
	platform    string
	typst       string
	dockerImage string
	typstArgs   string
	timeout     string
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title   string
	authors []string
	date    string
}

// layoutFlags holds preamble, outline, and numbering flags.
type layoutFlags struct {
	preamble       string
	assetPath      string
	toc            bool
	tocDepth       int
	pageBreaks     bool
	numberingScope string
}

// mathFlags holds math translation flags.
type mathFlags struct {
	fallback bool
	macros   []string // name=body
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common   commonFlags
	output   string
	workers  int
	separate bool
	watch    bool
	site     siteFlags
	document documentFlags
	layout   layoutFlags
	math     mathFlags

	// changed records flags set on the command line, so that an explicit
	// false or zero still overrides the config file.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSiteFlags adds output naming and compiler flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.sitename, "sitename", "", "output base name (default \"document\")")
	fs.StringVar(&f.version, "doc-version", "", "version appended to the output name")
	fs.StringVar(&f.platform, "platform", "", "compiler platform: typst, native, docker, none")
	fs.StringVar(&f.typst, "typst", "", "typst executable for --platform native")
	fs.StringVar(&f.dockerImage, "docker-image", "", "compiler image for --platform docker")
	fs.StringVar(&f.typstArgs, "typst-args", "", "extra compiler flags, shell-quoted (e.g., '--root .')")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "compile timeout (e.g., 30s, 2m)")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "doc-title", "", "document title (\"\" = front matter or first H1)")
	fs.StringArrayVar(&f.authors, "doc-author", nil, "document author (repeatable)")
	fs.StringVar(&f.date, "doc-date", "", "document date (\"auto\" = today)")
}

// addLayoutFlags adds preamble and numbering flags to a FlagSet.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.StringVar(&f.preamble, "preamble", "", "preamble name (default, compact) or .typ path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched for preambles/{name}.typ")
	fs.BoolVar(&f.toc, "toc", false, "insert a table of contents")
	fs.IntVar(&f.tocDepth, "toc-depth", 0, "max heading depth for the TOC (1-6, default: 3)")
	fs.BoolVar(&f.pageBreaks, "page-breaks", false, "break pages between input files")
	fs.StringVar(&f.numberingScope, "numbering-scope", "", "figure/table numbering: section, chapter, document")
}

// addMathFlags adds math flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.BoolVar(&f.fallback, "math-fallback", false, "render untranslatable math verbatim instead of failing")
	fs.StringArrayVar(&f.macros, "math-macro", nil, "LaTeX macro as name=body, e.g. 'RR=\\mathbb{R}' (repeatable)")
}

// newBuildFlagSet registers every build flag on a new FlagSet.
// Shared by parsing and shell completion.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	fs.BoolVar(&f.separate, "separate", false, "render each input file as its own document")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when an input file changes")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addDocumentFlags(fs, &f.document)
	addLayoutFlags(fs, &f.layout)
	addMathFlags(fs, &f.math)

	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	f.changed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}

// parseMacro splits "name=body". The body may contain '='.
func parseMacro(s string) (name, body string, err error) {
	name, body, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: --math-macro %q (want name=body)", ErrUsage, s)
	}
	return name, body, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *buildFlags, cfg *config.Config) error {
	// Site
	if f.site.sitename != "" {
		cfg.Sitename = f.site.sitename
	}
	if f.site.version != "" {
		cfg.Version = f.site.version
	}
	if f.site.platform != "" {
		cfg.Platform = f.site.platform
	}
	if f.site.typst != "" {
		cfg.Typst = f.site.typst
	}
	if f.site.dockerImage != "" {
		cfg.DockerImage = f.site.dockerImage
	}
	if f.site.typstArgs != "" {
		cfg.TypstArgs = f.site.typstArgs
	}
	if f.site.timeout != "" {
		cfg.Timeout = f.site.timeout
	}

	// Output
	if f.output != "" {
		cfg.Output.Dir = f.output
	}

	// Document
	if f.document.title != "" {
		cfg.Document.Title = f.document.title
	}
	if len(f.document.authors) > 0 {
		cfg.Document.Authors = f.document.authors
	}
	if f.document.date != "" {
		cfg.Document.Date = f.document.date
	}

	// Layout
	if f.layout.preamble != "" {
		setPreamble(cfg, f.layout.preamble)
	}
	if f.layout.assetPath != "" {
		cfg.Assets.BasePath = f.layout.assetPath
	}
	if f.changed["toc"] {
		cfg.TOC.Enabled = f.layout.toc
	}
	if f.layout.tocDepth != 0 {
		cfg.TOC.Depth = f.layout.tocDepth
		if !f.changed["toc"] {
			cfg.TOC.Enabled = true
		}
	}
	if f.changed["page-breaks"] {
		cfg.PageBreaks = f.layout.pageBreaks
	}
	if f.layout.numberingScope != "" {
		cfg.Numbering.Scope = f.layout.numberingScope
	}

	// Math
	if f.changed["math-fallback"] {
		cfg.Math.Fallback = f.math.fallback
	}
	for _, m := range f.math.macros {
		name, body, err := parseMacro(m)
		if err != nil {
			return err
		}
		if cfg.Math.Macros == nil {
			cfg.Math.Macros = make(map[string]string)
		}
		cfg.Math.Macros[name] = body
	}

	return nil
}

// setPreamble stores a preamble value in the matching config field.
func setPreamble(cfg *config.Config, nameOrPath string) {
	if assets.IsFilePath(nameOrPath) {
		cfg.Preamble, cfg.PreambleName = nameOrPath, ""
		return
	}
	cfg.Preamble, cfg.PreambleName = "", nameOrPath
}
