package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolver_LoadPreamble(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatal(err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true without a custom path")
		}
		if _, err := r.LoadPreamble("compact"); err != nil {
			t.Errorf("LoadPreamble() error = %v", err)
		}
	})

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		writePreamble(t, base, "default", "// custom default")

		r, err := NewResolver(base)
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.LoadPreamble("default")
		if err != nil {
			t.Fatal(err)
		}
		if got != "// custom default" {
			t.Errorf("LoadPreamble() = %q, want custom content", got)
		}
	})

	t.Run("falls back to embedded", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.LoadPreamble("compact")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(got, "compact preamble") {
			t.Errorf("LoadPreamble() did not return the embedded compact preamble")
		}
	})

	t.Run("invalid name does not fall back", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.LoadPreamble("a.b"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	custom := filepath.Join(dir, "mine.typ")
	if err := os.WriteFile(custom, []byte("#set text(blue)"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewResolver("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		contains string
		wantErr  error
	}{
		{name: "empty selects default", input: "", contains: "default preamble"},
		{name: "by name", input: "compact", contains: "compact preamble"},
		{name: "by path", input: custom, contains: "#set text(blue)"},
		{name: "missing path", input: filepath.Join(dir, "gone.typ"), wantErr: ErrPreambleNotFound},
		{name: "unknown name", input: "fancy", wantErr: ErrPreambleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Resolve(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"default":         false,
		"house-style":     false,
		"./local.typ":     true,
		"themes/dark":     true,
		"preamble.TYP":    true,
		"/abs/custom.typ": true,
	}
	for in, want := range tests {
		if got := IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}
