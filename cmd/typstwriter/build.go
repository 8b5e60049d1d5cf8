package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	typstwriter "github.com/alnah/go-typstwriter"
	"github.com/alnah/go-typstwriter/internal/assets"
	"github.com/alnah/go-typstwriter/internal/compile"
	"github.com/alnah/go-typstwriter/internal/config"
	"github.com/alnah/go-typstwriter/internal/fileutil"
	"github.com/alnah/go-typstwriter/internal/hints"
	"github.com/alnah/go-typstwriter/internal/mdtree"
)

// ErrWriteOutput is returned when a .typ file cannot be written.
var ErrWriteOutput = errors.New("failed to write output file")

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// preparedDoc is a parsed document waiting to be rendered.
type preparedDoc struct {
	name string
	job  typstwriter.Job
	err  error
}

// buildResult holds the outcome of one document.
type buildResult struct {
	Name     string
	TypPath  string
	PDFPath  string
	Err      error
	Duration time.Duration

	fileName string // rendered .typ name, relative to the output directory
	text     string
}

// runBuild orchestrates parsing, rendering, writing and compiling.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), logger)

	workers := flags.workers
	if !flags.changed["workers"] && envCfg.Workers > 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	// Configuration: file, then environment, then flags
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Settings errors are shared by every document, so fail fast
	now := env.Now()
	base, err := typstwriter.ResolveSettings(buildOptions(cfg, now))
	if err != nil {
		return withHints(err, cfg.Platform)
	}

	paths, err := resolveInputPaths(positional, cfg)
	if err != nil {
		return err
	}

	outputDir := cfg.Output.Dir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating %s: %v%s", ErrWriteOutput, outputDir, err, hints.ForOutputDirectory())
	}

	compileArgs, err := compile.SplitArgs(cfg.TypstArgs)
	if err != nil {
		return err
	}
	compiler, err := env.NewCompiler(compile.Options{
		Platform:    base.Platform(),
		Typst:       base.Typst(),
		DockerImage: base.DockerImage(),
		Args:        compileArgs,
		Timeout:     cfg.TimeoutDuration(),
	})
	if err != nil {
		return err
	}

	// Files are rediscovered on every build so that watch mode sees new pages
	build := func() error {
		files, err := discoverFiles(paths)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		docs := prepareDocuments(ctx, cfg, base, files, outputDir, flags.separate, now)
		results := renderAll(ctx, docs, workers, logger)
		for i := range results {
			if results[i].Err == nil {
				results[i] = writeAndCompile(ctx, compiler, outputDir, results[i], logger)
			}
		}
		return reportResults(results, flags.common, base.Platform(), env)
	}

	if !flags.watch {
		return build()
	}
	// Failed builds are reported and watching continues
	rebuild := func() {
		if err := build(); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		}
	}
	rebuild()
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", strings.Join(paths, ", "))
	}
	return watchInputs(ctx, paths, logger, rebuild)
}

// loadConfig loads the named config, falling back to TYPSTWRITER_CONFIG,
// then to the defaults.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configCandidates(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configCandidates lists where a config name may be created.
func configCandidates(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.DirName, name+".yaml")}
}

// buildOptions maps the merged config onto library options.
func buildOptions(cfg *config.Config, now time.Time) typstwriter.Options {
	preamble := cfg.PreambleName
	if cfg.Preamble != "" {
		preamble = cfg.Preamble
	}
	return typstwriter.Options{
		Sitename:       cfg.Sitename,
		Version:        cfg.Version,
		Platform:       cfg.Platform,
		Typst:          cfg.Typst,
		DockerImage:    cfg.DockerImage,
		Preamble:       preamble,
		AssetPath:      cfg.Assets.BasePath,
		Title:          cfg.Document.Title,
		Authors:        cfg.Document.Authors,
		Date:           cfg.Document.Date,
		Now:            now,
		TOC:            cfg.TOC.Enabled,
		TOCDepth:       cfg.TOC.Depth,
		PageBreaks:     cfg.PageBreaks,
		NumberingScope: cfg.Numbering.Scope,
		Supplements: typstwriter.Supplements{
			Section:  cfg.Supplements.Section,
			Figure:   cfg.Supplements.Figure,
			Table:    cfg.Supplements.Table,
			Footnote: cfg.Supplements.Footnote,
		},
		MathMacros:   cfg.Math.Macros,
		MathFallback: cfg.Math.Fallback,
	}
}

// prepareDocuments parses files into one document, or one document per
// file when separate is set. Each document gets its own parser so anchors
// only collide within a document.
func prepareDocuments(ctx context.Context, cfg *config.Config, base *typstwriter.Settings, files []string, outputDir string, separate bool, now time.Time) []preparedDoc {
	if !separate {
		doc := preparedDoc{name: base.OutputName()}
		doc.job, doc.err = parseJob(ctx, files, base, outputDir)
		return []preparedDoc{doc}
	}

	docs := make([]preparedDoc, 0, len(files))
	for _, f := range files {
		doc := preparedDoc{name: f}
		opts := buildOptions(cfg, now)
		opts.Sitename = documentName(f)
		settings, err := typstwriter.ResolveSettings(opts)
		if err != nil {
			doc.err = err
		} else {
			doc.job, doc.err = parseJob(ctx, []string{f}, settings, outputDir)
		}
		docs = append(docs, doc)
	}
	return docs
}

func parseJob(ctx context.Context, files []string, settings *typstwriter.Settings, outputDir string) (typstwriter.Job, error) {
	inputs, err := mdtree.ReadFiles(files)
	if err != nil {
		return typstwriter.Job{}, err
	}
	doc, err := mdtree.New(mdtree.Options{OutputDir: outputDir}).Document(ctx, inputs)
	if err != nil {
		return typstwriter.Job{}, err
	}
	return typstwriter.Job{Name: settings.OutputName(), Document: doc, Settings: settings}, nil
}

// renderAll renders the parsed documents concurrently. Results keep the
// order of docs.
func renderAll(ctx context.Context, docs []preparedDoc, workers int, logger *zap.Logger) []buildResult {
	results := make([]buildResult, len(docs))
	var jobs []typstwriter.Job
	var index []int
	for i, d := range docs {
		results[i] = buildResult{Name: d.name, Err: d.err}
		if d.err == nil {
			jobs = append(jobs, d.job)
			index = append(index, i)
		}
	}

	logger.Debug("rendering",
		zap.Int("documents", len(jobs)),
		zap.Int("workers", min(typstwriter.ResolveWorkers(workers), max(len(jobs), 1))),
	)

	for k, r := range typstwriter.RenderBatch(ctx, jobs, workers) {
		i := index[k]
		results[i].Duration = r.Duration
		if r.Err != nil {
			results[i].Err = r.Err
			continue
		}
		logWarnings(logger, results[i].Name, r.Result.Warnings)
		logger.Debug("rendered",
			zap.String("document", results[i].Name),
			zap.Int("warnings", len(r.Result.Warnings)),
			zap.Duration("duration", r.Duration),
		)
		results[i].fileName = r.Result.FileName
		results[i].text = r.Result.Text
	}
	return results
}

// writeAndCompile writes the rendered text atomically, then compiles it.
func writeAndCompile(ctx context.Context, compiler compile.Compiler, outputDir string, res buildResult, logger *zap.Logger) buildResult {
	path := filepath.Join(outputDir, res.fileName)
	if err := fileutil.WriteFileAtomic(path, []byte(res.text), filePermissions); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return res
	}
	res.TypPath = path
	res.text = ""

	start := time.Now()
	pdf, err := compiler.Compile(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.PDFPath = pdf
	if pdf != "" {
		logger.Debug("compiled",
			zap.String("document", res.Name),
			zap.String("pdf", pdf),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return res
}

// countFailed tallies failed documents.
func countFailed(results []buildResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// reportResults prints created files and failures. A single failure is
// returned as is; several are summarized around the first one.
func reportResults(results []buildResult, common commonFlags, platform string, env *Environment) error {
	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			err := withHints(r.Err, platform)
			if firstErr == nil {
				firstErr = err
			}
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Name, err)
			}
		}

		if common.quiet {
			continue
		}
		// A .typ file is still useful when only compilation failed
		if r.TypPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.TypPath)
		}
		if r.PDFPath == "" {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "Created %s (%v)\n", r.PDFPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PDFPath)
		}
	}

	failed := countFailed(results)
	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return firstErr
	default:
		return fmt.Errorf("%d of %d documents failed: %w", failed, len(results), firstErr)
	}
}

// withHints appends actionable hints for known error classes.
func withHints(err error, platform string) error {
	var hint string
	switch {
	case errors.Is(err, compile.ErrCompilerNotFound):
		hint = hints.ForCompilerNotFound(platform)
	case errors.Is(err, compile.ErrTimeout):
		hint = hints.ForTimeout()
	case errors.Is(err, typstwriter.ErrUnsupportedMathConstruct):
		hint = hints.ForMath()
	case errors.Is(err, typstwriter.ErrPreambleNotFound):
		hint = hints.ForPreambleNotFound(assets.Names())
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
