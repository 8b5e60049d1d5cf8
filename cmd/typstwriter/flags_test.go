package main

import (
	"errors"
	"io"
	"testing"

	"github.com/alnah/go-typstwriter/internal/config"
)

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseBuildFlags([]string{
		"docs", "extra.md",
		"-o", "out", "-w", "3", "--separate",
		"--doc-author", "Ada", "--doc-author", "Grace",
		"--toc=false", "--math-macro", `RR=\mathbb{R}`,
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseBuildFlags() error = %v", err)
	}

	if len(args) != 2 || args[0] != "docs" || args[1] != "extra.md" {
		t.Errorf("positional = %v", args)
	}
	if f.output != "out" || f.workers != 3 || !f.separate {
		t.Errorf("flags = %+v", f)
	}
	if len(f.document.authors) != 2 || f.document.authors[1] != "Grace" {
		t.Errorf("authors = %v", f.document.authors)
	}
	if !f.changed["toc"] || f.changed["page-breaks"] {
		t.Errorf("changed = %v", f.changed)
	}
}

func TestParseBuildFlags_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := parseBuildFlags([]string{"--workers", "many"}, io.Discard)
	if !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

func TestParseMacro(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantName string
		wantBody string
		wantErr  bool
	}{
		{input: `RR=\mathbb{R}`, wantName: "RR", wantBody: `\mathbb{R}`},
		{input: `\half=\frac{1}{2}`, wantName: `\half`, wantBody: `\frac{1}{2}`},
		{input: `eq=a=b`, wantName: "eq", wantBody: "a=b"},
		{input: "empty=", wantName: "empty", wantBody: ""},
		{input: "novalue", wantErr: true},
		{input: "=body", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			name, body, err := parseMacro(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || body != tt.wantBody {
				t.Errorf("parseMacro() = %q, %q, want %q, %q", name, body, tt.wantName, tt.wantBody)
			}
		})
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		setup func(*config.Config)
		check func(*testing.T, *config.Config)
	}{
		{
			name: "strings override config",
			args: []string{"--sitename", "manual", "--platform", "none", "-o", "dist", "--doc-title", "Manual", "--typst-args", "--root ."},
			setup: func(c *config.Config) {
				c.Sitename = "guide"
				c.Platform = "docker"
				c.TypstArgs = "--ppi 72"
			},
			check: func(t *testing.T, c *config.Config) {
				if c.Sitename != "manual" || c.Platform != "none" || c.Output.Dir != "dist" || c.Document.Title != "Manual" || c.TypstArgs != "--root ." {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name:  "unset flags keep config",
			args:  nil,
			setup: func(c *config.Config) { c.TOC.Enabled = true; c.PageBreaks = true },
			check: func(t *testing.T, c *config.Config) {
				if !c.TOC.Enabled || !c.PageBreaks {
					t.Errorf("config booleans reset: %+v", c)
				}
			},
		},
		{
			name:  "explicit false overrides config",
			args:  []string{"--toc=false", "--page-breaks=false"},
			setup: func(c *config.Config) { c.TOC.Enabled = true; c.PageBreaks = true },
			check: func(t *testing.T, c *config.Config) {
				if c.TOC.Enabled || c.PageBreaks {
					t.Errorf("booleans not overridden: %+v", c)
				}
			},
		},
		{
			name: "toc depth enables toc",
			args: []string{"--toc-depth", "2"},
			check: func(t *testing.T, c *config.Config) {
				if !c.TOC.Enabled || c.TOC.Depth != 2 {
					t.Errorf("toc = %+v", c.TOC)
				}
			},
		},
		{
			name:  "preamble path replaces name",
			args:  []string{"--preamble", "theme/report.typ"},
			setup: func(c *config.Config) { c.PreambleName = "compact" },
			check: func(t *testing.T, c *config.Config) {
				if c.Preamble != "theme/report.typ" || c.PreambleName != "" {
					t.Errorf("preamble = %q / %q", c.Preamble, c.PreambleName)
				}
			},
		},
		{
			name:  "preamble name replaces path",
			args:  []string{"--preamble", "compact"},
			setup: func(c *config.Config) { c.Preamble = "old.typ" },
			check: func(t *testing.T, c *config.Config) {
				if c.Preamble != "" || c.PreambleName != "compact" {
					t.Errorf("preamble = %q / %q", c.Preamble, c.PreambleName)
				}
			},
		},
		{
			name:  "macros merge with config",
			args:  []string{"--math-macro", `RR=\mathbb{R}`, "--math-fallback"},
			setup: func(c *config.Config) { c.Math.Macros = map[string]string{"NN": `\mathbb{N}`} },
			check: func(t *testing.T, c *config.Config) {
				if len(c.Math.Macros) != 2 || c.Math.Macros["RR"] != `\mathbb{R}` || !c.Math.Fallback {
					t.Errorf("math = %+v", c.Math)
				}
			},
		},
		{
			name: "authors replace config",
			args: []string{"--doc-author", "Ada"},
			setup: func(c *config.Config) {
				c.Document.Authors = []string{"Someone", "Else"}
			},
			check: func(t *testing.T, c *config.Config) {
				if len(c.Document.Authors) != 1 || c.Document.Authors[0] != "Ada" {
					t.Errorf("authors = %v", c.Document.Authors)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, _, err := parseBuildFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseBuildFlags() error = %v", err)
			}
			cfg := config.DefaultConfig()
			if tt.setup != nil {
				tt.setup(cfg)
			}
			if err := mergeFlags(f, cfg); err != nil {
				t.Fatalf("mergeFlags() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
