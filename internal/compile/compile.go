package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/alnah/go-typstwriter/internal/fileutil"
)

// Sentinel errors for compilation.
var (
	ErrCompile          = errors.New("typst compilation failed")
	ErrCompilerNotFound = errors.New("compiler not found")
	ErrTimeout          = errors.New("compilation timed out")
	ErrUnknownPlatform  = errors.New("unknown platform")
	ErrInvalidInput     = errors.New("invalid input file")
	ErrInvalidArgs      = errors.New("invalid compiler arguments")
)

// Platforms.
const (
	PlatformTypst  = "typst"
	PlatformNative = "native"
	PlatformDocker = "docker"
	PlatformNone   = "none"
)

// Defaults.
const (
	DefaultTimeout     = 90 * time.Second
	DefaultExecutable  = "typst"
	DefaultDockerImage = "ghcr.io/typst/typst:latest"
	toolchainDir       = "go-typstwriter"
	maxStderr          = 4096
)

// Compiler turns a .typ file into a PDF.
type Compiler interface {
	// Compile returns the PDF path, or "" when nothing was produced.
	Compile(ctx context.Context, typPath string) (string, error)
}

// Options configure New. Zero values select defaults.
type Options struct {
	Platform    string
	Typst       string // executable for PlatformNative
	DockerImage string
	Args        []string // extra flags placed after "compile"
	Timeout     time.Duration
	Runner      Runner
	LookPath    func(string) (string, error)
	CacheDir    string // parent of the managed toolchain; default os.UserCacheDir()
}

// New returns the Compiler for opts.Platform.
func New(opts Options) (Compiler, error) {
	platform := strings.ToLower(strings.TrimSpace(opts.Platform))
	if platform == "" {
		platform = PlatformTypst
	}
	if platform == PlatformNone {
		return NoopCompiler{}, nil
	}
	switch platform {
	case PlatformTypst, PlatformNative, PlatformDocker:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, opts.Platform)
	}

	c := &ProcessCompiler{
		platform: platform,
		typst:    opts.Typst,
		image:    opts.DockerImage,
		args:     slices.Clone(opts.Args),
		timeout:  opts.Timeout,
		runner:   opts.Runner,
		lookPath: opts.LookPath,
		cacheDir: opts.CacheDir,
	}
	if c.typst == "" {
		c.typst = DefaultExecutable
	}
	if c.image == "" {
		c.image = DefaultDockerImage
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.runner == nil {
		c.runner = &ExecRunner{}
	}
	if c.lookPath == nil {
		c.lookPath = exec.LookPath
	}
	if c.cacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			c.cacheDir = dir
		}
	}
	return c, nil
}

// SplitArgs splits a shell-quoted argument string such as
// `--font-path "my fonts" --root .` into compiler arguments.
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		switch name, _, _ := strings.Cut(a, "="); name {
		case "-o", "--output", "-h", "--help":
			return nil, fmt.Errorf("%w: %s is managed by typstwriter", ErrInvalidArgs, name)
		}
	}
	return args, nil
}

// NoopCompiler produces nothing. It backs PlatformNone.
type NoopCompiler struct{}

// Compile returns immediately.
func (NoopCompiler) Compile(context.Context, string) (string, error) {
	return "", nil
}

// ProcessCompiler runs the Typst compiler as a child process.
type ProcessCompiler struct {
	platform string
	typst    string
	image    string
	args     []string
	timeout  time.Duration
	runner   Runner
	lookPath func(string) (string, error)
	cacheDir string
}

// Compile-time interface checks.
var (
	_ Compiler = NoopCompiler{}
	_ Compiler = (*ProcessCompiler)(nil)
)

// Compile writes the PDF next to typPath.
func (c *ProcessCompiler) Compile(ctx context.Context, typPath string) (string, error) {
	if !strings.EqualFold(filepath.Ext(typPath), ".typ") {
		return "", fmt.Errorf("%w: %s (want a .typ file)", ErrInvalidInput, typPath)
	}
	pdfPath, err := fileutil.ReplaceExt(typPath, "pdf")
	if err != nil {
		return "", err
	}

	cmd, err := c.command(typPath, pdfPath)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stderr, err := c.runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %s", ErrTimeout, c.timeout, typPath)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &Error{Path: typPath, Stderr: trimStderr(stderr), Err: err}
	}
	return pdfPath, nil
}

func (c *ProcessCompiler) command(typPath, pdfPath string) (Command, error) {
	dir := filepath.Dir(typPath)
	in, out := filepath.Base(typPath), filepath.Base(pdfPath)
	compileArgs := append(append([]string{"compile"}, c.args...), in, out)

	switch c.platform {
	case PlatformDocker:
		docker, err := c.lookPath("docker")
		if err != nil {
			return Command{}, fmt.Errorf("%w: docker: %v", ErrCompilerNotFound, err)
		}
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return Command{}, fmt.Errorf("resolving output directory: %w", err)
		}
		return Command{
			Dir:  dir,
			Name: docker,
			Args: append([]string{"run", "--rm", "-v", absDir + ":/data", "-w", "/data", c.image}, compileArgs...),
		}, nil
	case PlatformNative:
		exe, err := c.lookPath(c.typst)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s: %v", ErrCompilerNotFound, c.typst, err)
		}
		return Command{Dir: dir, Name: exe, Args: compileArgs}, nil
	default:
		exe, err := c.managedToolchain()
		if err != nil {
			return Command{}, err
		}
		return Command{Dir: dir, Name: exe, Args: compileArgs}, nil
	}
}

// managedToolchain finds typst in the cache toolchain directory, then PATH.
func (c *ProcessCompiler) managedToolchain() (string, error) {
	name := DefaultExecutable
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if c.cacheDir != "" {
		candidate := filepath.Join(c.cacheDir, toolchainDir, "bin", name)
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	exe, err := c.lookPath(DefaultExecutable)
	if err != nil {
		return "", fmt.Errorf("%w: typst: %v", ErrCompilerNotFound, err)
	}
	return exe, nil
}

// Error is a failed compiler run.
type Error struct {
	Path   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%v: %s: %v", ErrCompile, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v\n%s", ErrCompile, e.Path, e.Err, e.Stderr)
}

// Unwrap lets errors.Is match ErrCompile.
func (e *Error) Unwrap() error {
	return ErrCompile
}

func trimStderr(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxStderr {
		s = s[:maxStderr] + "\n[truncated]"
	}
	return s
}
