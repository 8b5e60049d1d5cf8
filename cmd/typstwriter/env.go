package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-typstwriter/internal/compile"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the compiler factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	NewCompiler func(compile.Options) (compile.Compiler, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		NewCompiler: compile.New,
	}
}
