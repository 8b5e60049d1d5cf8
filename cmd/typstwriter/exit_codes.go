package main

import (
	"errors"
	"os"

	typstwriter "github.com/alnah/go-typstwriter"
	"github.com/alnah/go-typstwriter/internal/compile"
	"github.com/alnah/go-typstwriter/internal/config"
	"github.com/alnah/go-typstwriter/internal/mdtree"
)

// Exit codes for the typstwriter CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or settings
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // Input tree, reference, or math errors
	ExitCompile = 5 // Typst compiler errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 5)
	if errors.Is(err, compile.ErrCompile) ||
		errors.Is(err, compile.ErrCompilerNotFound) ||
		errors.Is(err, compile.ErrTimeout) {
		return ExitCompile
	}

	// Render errors (exit 4)
	if errors.Is(err, typstwriter.ErrMalformedTree) ||
		errors.Is(err, typstwriter.ErrUnresolvedReference) ||
		errors.Is(err, typstwriter.ErrUnresolvedFootnote) ||
		errors.Is(err, typstwriter.ErrDuplicateAnchor) ||
		errors.Is(err, typstwriter.ErrUnsupportedMathConstruct) ||
		errors.Is(err, typstwriter.ErrUnsupportedCharacter) ||
		errors.Is(err, typstwriter.ErrInvalidImageSource) ||
		errors.Is(err, mdtree.ErrFrontMatter) {
		return ExitRender
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, typstwriter.ErrInvalidPlatform) ||
		errors.Is(err, typstwriter.ErrInvalidSitename) ||
		errors.Is(err, typstwriter.ErrInvalidVersion) ||
		errors.Is(err, typstwriter.ErrInvalidTOCDepth) ||
		errors.Is(err, typstwriter.ErrInvalidNumberingScope) ||
		errors.Is(err, typstwriter.ErrInvalidMathMacro) ||
		errors.Is(err, typstwriter.ErrInvalidDate) ||
		errors.Is(err, typstwriter.ErrPreambleNotFound) ||
		errors.Is(err, typstwriter.ErrInvalidAssetPath) ||
		errors.Is(err, compile.ErrUnknownPlatform) ||
		errors.Is(err, compile.ErrInvalidArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdtree.ErrReadSource) ||
		errors.Is(err, mdtree.ErrNoInput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
