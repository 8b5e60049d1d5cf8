package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed preambles/*.typ
var preambles embed.FS

// EmbeddedLoader loads preambles compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadPreamble loads an embedded preamble by name.
func (e *EmbeddedLoader) LoadPreamble(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := preambles.ReadFile("preambles/" + name + ".typ")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrPreambleNotFound, name)
	}

	return string(content), nil
}

// Names lists the embedded preamble names in sorted order.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(preambles, "preambles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".typ"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ PreambleLoader = (*EmbeddedLoader)(nil)
