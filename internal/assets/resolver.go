package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver combines a custom and the embedded loader. When a custom
// directory is configured it is tried first, then the embedded preambles.
type Resolver struct {
	custom   PreambleLoader // nil if no custom path configured
	embedded PreambleLoader
}

// NewResolver creates a Resolver. An empty customBasePath uses only the
// embedded preambles. Returns an error if customBasePath is set but invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadPreamble loads a preamble, trying the custom loader first.
func (r *Resolver) LoadPreamble(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadPreamble(name)
	}

	content, err := r.custom.LoadPreamble(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrPreambleNotFound) {
		return "", err
	}

	return r.embedded.LoadPreamble(name)
}

// HasCustomLoader returns true if a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Resolve returns preamble content for a name or a file path. Values with
// a path separator or a .typ extension are read from disk; anything else
// is looked up by name. An empty value selects the default preamble.
func (r *Resolver) Resolve(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultPreambleName
	}
	if !IsFilePath(nameOrPath) {
		return r.LoadPreamble(nameOrPath)
	}

	content, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided preamble path
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrPreambleNotFound, nameOrPath)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// IsFilePath reports whether s names a file rather than a preamble.
func IsFilePath(s string) bool {
	return strings.ContainsRune(s, '/') ||
		strings.ContainsRune(s, filepath.Separator) ||
		strings.EqualFold(filepath.Ext(s), ".typ")
}

// Compile-time interface check.
var _ PreambleLoader = (*Resolver)(nil)
