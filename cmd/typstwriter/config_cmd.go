package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-typstwriter/internal/config"
	"github.com/alnah/go-typstwriter/internal/yamlutil"
)

// runConfig prints the effective configuration: the config file with
// TYPSTWRITER_* values applied.
func runConfig(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var name, format string
	fs.StringVarP(&name, "config", "c", "", "config file name or path")
	fs.StringVarP(&format, "format", "f", "yaml", "output format: yaml, toml")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConfigUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg, err := loadConfig(name, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)

	out, err := encodeConfig(cfg, format)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}

// encodeConfig serializes cfg in the requested format.
func encodeConfig(cfg *config.Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yamlutil.Marshal(cfg)
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("%w: --format %q (must be yaml or toml)", ErrUsage, format)
	}
}
