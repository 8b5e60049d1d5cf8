package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-typstwriter/internal/compile"
)

// fakeCompiler records compiled paths and writes an empty PDF next to each.
type fakeCompiler struct {
	mu    sync.Mutex
	opts  compile.Options
	calls []string
	err   error
}

func (f *fakeCompiler) Compile(_ context.Context, typPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, typPath)
	if f.err != nil {
		return "", f.err
	}
	if f.opts.Platform == compile.PlatformNone {
		return "", nil
	}
	pdf := strings.TrimSuffix(typPath, ".typ") + ".pdf"
	if err := os.WriteFile(pdf, []byte("%PDF-1.7"), 0o644); err != nil {
		return "", err
	}
	return pdf, nil
}

func (f *fakeCompiler) getCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// testEnv builds an Environment with buffered output, a fixed clock,
// vars as the process environment, and fc as the compiler.
func testEnv(vars map[string]string, fc *fakeCompiler) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			var out []string
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewCompiler: func(opts compile.Options) (compile.Compiler, error) {
			if fc == nil {
				return compile.New(opts)
			}
			fc.mu.Lock()
			fc.opts = opts
			fc.mu.Unlock()
			return fc, nil
		},
	}
	return env, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
