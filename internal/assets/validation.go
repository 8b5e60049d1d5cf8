package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a preamble name is safe to use as a file
// name: non-empty, no path separators and no dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
