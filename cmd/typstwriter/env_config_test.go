package main

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-typstwriter/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"TYPSTWRITER_CONFIG":     "site",
		"TYPSTWRITER_PLATFORM":   "docker",
		"TYPSTWRITER_TIMEOUT":    "2m",
		"TYPSTWRITER_OUTPUT_DIR": "build",
		"TYPSTWRITER_WORKERS":    "4",
		"TYPSTWRITER_TYPST_ARGS": "--root .",
	}
	got := loadEnvConfig(func(k string) string { return vars[k] })

	if got.ConfigPath != "site" || got.Platform != "docker" || got.OutputDir != "build" || got.TypstArgs != "--root ." {
		t.Errorf("loadEnvConfig() = %+v", got)
	}
	if got.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", got.Timeout)
	}
	if got.Workers != 4 {
		t.Errorf("Workers = %d, want 4", got.Workers)
	}
}

func TestLoadEnvConfig_IgnoresMalformedNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{name: "garbage", timeout: "soon", workers: "many"},
		{name: "negative", timeout: "-5s", workers: "-2"},
		{name: "zero", timeout: "0s", workers: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vars := map[string]string{"TYPSTWRITER_TIMEOUT": tt.timeout, "TYPSTWRITER_WORKERS": tt.workers}
			got := loadEnvConfig(func(k string) string { return vars[k] })
			if got.Timeout != 0 || got.Workers != 0 {
				t.Errorf("Timeout = %v, Workers = %d, want zero values", got.Timeout, got.Workers)
			}
		})
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Platform:  "docker",
		Timeout:   30 * time.Second,
		OutputDir: "env-out",
		InputDir:  "env-in",
		Preamble:  "compact",
		DocDate:   "auto",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Platform != "docker" || cfg.Timeout != "30s" || cfg.Output.Dir != "env-out" ||
			cfg.Input.DefaultDir != "env-in" || cfg.PreambleName != "compact" || cfg.Document.Date != "auto" {
			t.Errorf("applyEnvConfig() = %+v", cfg)
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Platform = "native"
		cfg.Output.Dir = "cfg-out"
		cfg.Preamble = "custom/preamble.typ"
		applyEnvConfig(env, cfg)

		if cfg.Platform != "native" || cfg.Output.Dir != "cfg-out" {
			t.Errorf("config values overridden: %+v", cfg)
		}
		if cfg.Preamble != "custom/preamble.typ" || cfg.PreambleName != "" {
			t.Errorf("preamble = %q / %q, want config path kept", cfg.Preamble, cfg.PreambleName)
		}
	})
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	warnUnknownEnvVars([]string{
		"TYPSTWRITER_PLATFROM=docker",
		"TYPSTWRITER_PLATFORM=docker",
		"HOME=/root",
	}, zap.New(core))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(entries), entries)
	}
	if got := entries[0].ContextMap()["name"]; got != "TYPSTWRITER_PLATFROM" {
		t.Errorf("name field = %v, want TYPSTWRITER_PLATFROM", got)
	}
}
