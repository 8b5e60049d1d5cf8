package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-typstwriter/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength       = 100  // sitename, version
	MaxPathLength       = 4096 // preamble, typst, directories
	MaxImageLength      = 255  // docker image reference
	MaxTitleLength      = 200  // document title
	MaxAuthorLength     = 100  // one author
	MaxAuthors          = 50
	MaxDateLength       = 30 // "2025-12-31", "auto:DD/MM/YYYY"
	MaxSupplementLength = 30
	MaxMacroNameLength  = 64
	MaxMacroBodyLength  = 1024
	MaxMacros           = 256
	MaxTOCDepth         = 6
)

// DirName is the directory searched under the user config directory.
const DirName = "go-typstwriter"

// Config holds all configuration for document generation.
type Config struct {
	Sitename     string `yaml:"sitename" toml:"sitename"`
	Version      string `yaml:"version" toml:"version"`
	Platform     string `yaml:"platform" toml:"platform"`         // typst, native, docker, none
	Typst        string `yaml:"typst" toml:"typst"`               // compiler executable for native
	DockerImage  string `yaml:"dockerImage" toml:"dockerImage"`   // compiler image for docker
	TypstArgs    string `yaml:"typstArgs" toml:"typstArgs"`       // extra compiler flags, shell-quoted
	Timeout      string `yaml:"timeout" toml:"timeout"`           // compile timeout, e.g. "90s"
	Preamble     string `yaml:"preamble" toml:"preamble"`         // path to a .typ file
	PreambleName string `yaml:"preambleName" toml:"preambleName"` // embedded preamble name
	PageBreaks   bool   `yaml:"pageBreaks" toml:"pageBreaks"`

	Input       InputConfig       `yaml:"input" toml:"input"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Assets      AssetsConfig      `yaml:"assets" toml:"assets"`
	Document    DocumentConfig    `yaml:"document" toml:"document"`
	TOC         TOCConfig         `yaml:"toc" toml:"toc"`
	Math        MathConfig        `yaml:"math" toml:"math"`
	Numbering   NumberingConfig   `yaml:"numbering" toml:"numbering"`
	Supplements SupplementsConfig `yaml:"supplements" toml:"supplements"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir" toml:"dir"` // empty = current directory
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" toml:"basePath"` // empty = embedded preambles only
}

// DocumentConfig overrides front matter metadata.
type DocumentConfig struct {
	Title   string   `yaml:"title" toml:"title"`
	Authors []string `yaml:"authors" toml:"authors"`
	Date    string   `yaml:"date" toml:"date"` // literal, "auto" or "auto:FORMAT"
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Depth   int  `yaml:"depth" toml:"depth"` // 1-6, default 3
}

// MathConfig defines math translation options.
type MathConfig struct {
	Fallback bool              `yaml:"fallback" toml:"fallback"`
	Macros   map[string]string `yaml:"macros" toml:"macros"`
}

// NumberingConfig defines figure and table numbering.
type NumberingConfig struct {
	Scope string `yaml:"scope" toml:"scope"` // section, chapter, document
}

// SupplementsConfig holds localized reference words.
type SupplementsConfig struct {
	Section  string `yaml:"section" toml:"section"`
	Figure   string `yaml:"figure" toml:"figure"`
	Table    string `yaml:"table" toml:"table"`
	Footnote string `yaml:"footnote" toml:"footnote"`
}

// Validate checks field lengths and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"sitename", c.Sitename, MaxNameLength},
		{"version", c.Version, MaxNameLength},
		{"typst", c.Typst, MaxPathLength},
		{"dockerImage", c.DockerImage, MaxImageLength},
		{"typstArgs", c.TypstArgs, MaxPathLength},
		{"preamble", c.Preamble, MaxPathLength},
		{"preambleName", c.PreambleName, MaxNameLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.date", c.Document.Date, MaxDateLength},
		{"supplements.section", c.Supplements.Section, MaxSupplementLength},
		{"supplements.figure", c.Supplements.Figure, MaxSupplementLength},
		{"supplements.table", c.Supplements.Table, MaxSupplementLength},
		{"supplements.footnote", c.Supplements.Footnote, MaxSupplementLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if len(c.Document.Authors) > MaxAuthors {
		return fmt.Errorf("%w: document.authors has %d entries (max %d)", ErrInvalidValue, len(c.Document.Authors), MaxAuthors)
	}
	for i, a := range c.Document.Authors {
		if err := validateFieldLength(fmt.Sprintf("document.authors[%d]", i), a, MaxAuthorLength); err != nil {
			return err
		}
	}

	if c.Platform != "" {
		switch strings.ToLower(c.Platform) {
		case "typst", "native", "docker", "none":
		default:
			return fmt.Errorf("%w: platform %q (must be typst, native, docker or none)", ErrInvalidValue, c.Platform)
		}
	}

	if c.Numbering.Scope != "" {
		switch strings.ToLower(c.Numbering.Scope) {
		case "section", "chapter", "document":
		default:
			return fmt.Errorf("%w: numbering.scope %q (must be section, chapter or document)", ErrInvalidValue, c.Numbering.Scope)
		}
	}

	if c.TOC.Depth != 0 && (c.TOC.Depth < 1 || c.TOC.Depth > MaxTOCDepth) {
		return fmt.Errorf("%w: toc.depth must be between 1 and %d, got %d", ErrInvalidValue, MaxTOCDepth, c.TOC.Depth)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %v", ErrInvalidValue, c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidValue, c.Timeout)
		}
	}

	if c.Preamble != "" && c.PreambleName != "" {
		return fmt.Errorf("%w: preamble and preambleName are mutually exclusive", ErrInvalidValue)
	}

	if len(c.Math.Macros) > MaxMacros {
		return fmt.Errorf("%w: math.macros has %d entries (max %d)", ErrInvalidValue, len(c.Math.Macros), MaxMacros)
	}
	for name, body := range c.Math.Macros {
		if err := validateFieldLength("math.macros key", name, MaxMacroNameLength); err != nil {
			return err
		}
		if err := validateFieldLength("math.macros."+name, body, MaxMacroBodyLength); err != nil {
			return err
		}
	}

	return nil
}

// TimeoutDuration returns the parsed timeout, or 0 when unset.
// It assumes Validate has succeeded.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
// Empty fields defer to the library defaults.
func DefaultConfig() *Config {
	return &Config{
		TOC:       TOCConfig{Enabled: false},
		Numbering: NumberingConfig{Scope: "section"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(configPath))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates config data. ext selects the format:
// ".toml" for TOML, anything else for YAML. Unknown keys are rejected.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	if strings.EqualFold(ext, ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	} else if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, <user config dir>/go-typstwriter/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
