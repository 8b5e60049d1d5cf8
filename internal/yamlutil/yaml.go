// Package yamlutil wraps YAML parsing for config files and Markdown front
// matter, isolating the external dependency.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// document body. ok is false, and body is src, when there is no complete
// front matter block.
func SplitFrontMatter(src []byte) (front, body []byte, ok bool) {
	rest := bytes.TrimPrefix(src, []byte("\ufeff"))
	first, after, found := cutLine(rest)
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t\r"), fence) {
		return nil, src, false
	}

	start := after
	for len(after) > 0 {
		line, next, _ := cutLine(after)
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, fence) || bytes.Equal(trimmed, []byte("...")) {
			front = start[:len(start)-len(after)]
			return front, next, true
		}
		after = next
	}
	return nil, src, false
}

// cutLine splits b after its first newline.
func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, len(b) > 0
}
