package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestLoadPreamble(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "default", input: DefaultPreambleName},
		{name: "compact", input: "compact"},
		{name: "unknown", input: "nonexistent-preamble-xyz", wantErr: ErrPreambleNotFound},
		{name: "empty", input: "", wantErr: ErrInvalidAssetName},
		{name: "traversal", input: "../secret", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadPreamble(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadPreamble(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadPreamble(%q) unexpected error: %v", tt.input, err)
			}
			if content == "" {
				t.Error("LoadPreamble() returned empty content")
			}
		})
	}
}

// Rendered documents call admonition() and rely on "1.1" heading numbers.
func TestEmbeddedPreambles_DefineRenderContract(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadPreamble(name)
			if err != nil {
				t.Fatalf("LoadPreamble(%q) error: %v", name, err)
			}
			for _, want := range []string{
				"#let admonition(kind:",
				`#set heading(numbering: "1.1")`,
			} {
				if !strings.Contains(content, want) {
					t.Errorf("preamble %q missing %q", name, want)
				}
			}
			// Header cells are styled by the renderer; a first-row rule
			// would also bold tables without a header.
			if strings.Contains(content, "where(y: 0)") {
				t.Errorf("preamble %q styles the first table row", name)
			}
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	for _, want := range []string{"compact", "default"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() = %v, missing %q", names, want)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
}
