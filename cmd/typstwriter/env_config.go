package main

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-typstwriter/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "TYPSTWRITER_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath  string        // TYPSTWRITER_CONFIG: config file name or path
	Platform    string        // TYPSTWRITER_PLATFORM: typst, native, docker, none
	Typst       string        // TYPSTWRITER_TYPST: compiler executable
	DockerImage string        // TYPSTWRITER_DOCKER_IMAGE: compiler image
	TypstArgs   string        // TYPSTWRITER_TYPST_ARGS: extra compiler flags
	Timeout     time.Duration // TYPSTWRITER_TIMEOUT: compile timeout
	InputDir    string        // TYPSTWRITER_INPUT_DIR: default input directory
	OutputDir   string        // TYPSTWRITER_OUTPUT_DIR: default output directory
	Preamble    string        // TYPSTWRITER_PREAMBLE: preamble name or path
	DocDate     string        // TYPSTWRITER_DOC_DATE: document date
	Workers     int           // TYPSTWRITER_WORKERS: parallel renders
}

// knownEnvVars lists valid TYPSTWRITER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TYPSTWRITER_CONFIG":       true,
	"TYPSTWRITER_PLATFORM":     true,
	"TYPSTWRITER_TYPST":        true,
	"TYPSTWRITER_DOCKER_IMAGE": true,
	"TYPSTWRITER_TYPST_ARGS":   true,
	"TYPSTWRITER_TIMEOUT":      true,
	"TYPSTWRITER_INPUT_DIR":    true,
	"TYPSTWRITER_OUTPUT_DIR":   true,
	"TYPSTWRITER_PREAMBLE":     true,
	"TYPSTWRITER_DOC_DATE":     true,
	"TYPSTWRITER_WORKERS":      true,
}

// loadEnvConfig reads the recognized TYPSTWRITER_* values.
// Malformed durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv("TYPSTWRITER_CONFIG"),
		Platform:    getenv("TYPSTWRITER_PLATFORM"),
		Typst:       getenv("TYPSTWRITER_TYPST"),
		DockerImage: getenv("TYPSTWRITER_DOCKER_IMAGE"),
		TypstArgs:   getenv("TYPSTWRITER_TYPST_ARGS"),
		InputDir:    getenv("TYPSTWRITER_INPUT_DIR"),
		OutputDir:   getenv("TYPSTWRITER_OUTPUT_DIR"),
		Preamble:    getenv("TYPSTWRITER_PREAMBLE"),
		DocDate:     getenv("TYPSTWRITER_DOC_DATE"),
	}

	if timeout := getenv("TYPSTWRITER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("TYPSTWRITER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs unrecognized TYPSTWRITER_* variables.
// Helps catch typos like TYPSTWRITER_PLATFROM.
func warnUnknownEnvVars(environ []string, logger *zap.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment values the config file left empty.
// Precedence: CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Platform != "" && cfg.Platform == "" {
		cfg.Platform = env.Platform
	}
	if env.Typst != "" && cfg.Typst == "" {
		cfg.Typst = env.Typst
	}
	if env.DockerImage != "" && cfg.DockerImage == "" {
		cfg.DockerImage = env.DockerImage
	}
	if env.TypstArgs != "" && cfg.TypstArgs == "" {
		cfg.TypstArgs = env.TypstArgs
	}
	if env.Timeout > 0 && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout.String()
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Preamble != "" && cfg.Preamble == "" && cfg.PreambleName == "" {
		setPreamble(cfg, env.Preamble)
	}
	if env.DocDate != "" && cfg.Document.Date == "" {
		cfg.Document.Date = env.DocDate
	}
}
