package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	typstwriter "github.com/alnah/go-typstwriter"
	"github.com/alnah/go-typstwriter/internal/compile"
	"github.com/alnah/go-typstwriter/internal/config"
	"github.com/alnah/go-typstwriter/internal/mdtree"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "unknown error", err: errors.New("boom"), want: ExitGeneral},
		{name: "internal", err: typstwriter.ErrInternal, want: ExitGeneral},

		{name: "usage", err: fmt.Errorf("%w: bad flag", ErrUsage), want: ExitUsage},
		{name: "config parse", err: fmt.Errorf("loading config: %w", config.ErrConfigParse), want: ExitUsage},
		{name: "config not found", err: config.ErrConfigNotFound, want: ExitUsage},
		{name: "invalid platform", err: typstwriter.ErrInvalidPlatform, want: ExitUsage},
		{name: "preamble", err: typstwriter.ErrPreambleNotFound, want: ExitUsage},
		{name: "shell", err: ErrUnsupportedShell, want: ExitUsage},
		{name: "workers", err: ErrInvalidWorkerCount, want: ExitUsage},

		{name: "not exist", err: fmt.Errorf("stat: %w", os.ErrNotExist), want: ExitIO},
		{name: "permission", err: os.ErrPermission, want: ExitIO},
		{name: "read source", err: mdtree.ErrReadSource, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "write output", err: ErrWriteOutput, want: ExitIO},

		{name: "unresolved reference", err: &typstwriter.RenderError{Kind: "unresolved-reference", Err: typstwriter.ErrUnresolvedReference}, want: ExitRender},
		{name: "math", err: typstwriter.ErrUnsupportedMathConstruct, want: ExitRender},
		{name: "malformed", err: typstwriter.ErrMalformedTree, want: ExitRender},
		{name: "front matter", err: mdtree.ErrFrontMatter, want: ExitRender},

		{name: "compile", err: &compile.Error{Path: "a.typ", Err: errors.New("exit status 1")}, want: ExitCompile},
		{name: "compiler not found", err: compile.ErrCompilerNotFound, want: ExitCompile},
		{name: "timeout", err: fmt.Errorf("x: %w", compile.ErrTimeout), want: ExitCompile},
		{name: "batch summary keeps class", err: fmt.Errorf("2 of 3 documents failed: %w", compile.ErrTimeout), want: ExitCompile},
		{name: "compiler arguments", err: fmt.Errorf("%w: bad quote", compile.ErrInvalidArgs), want: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
