package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-typstwriter/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string       `json:"status"` // "ready", "warnings", "errors"
	Compilers compilerInfo `json:"compilers"`
	Env       envInfo      `json:"environment"`
	System    systemInfo   `json:"system"`
	Warnings  []string     `json:"warnings,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
}

// compilerInfo holds compiler detection results per platform.
type compilerInfo struct {
	Typst  string `json:"typst,omitempty"`  // typst executable on PATH
	Cached string `json:"cached,omitempty"` // managed toolchain
	Docker string `json:"docker,omitempty"` // docker executable on PATH
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
	Platform  string `json:"typstwriter_platform,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorProbe abstracts the lookups made by runDoctor.
type doctorProbe struct {
	lookPath    func(string) (string, error)
	cacheDir    func() (string, error)
	getenv      func(string) string
	inContainer func() bool
}

func defaultProbe(env *Environment) doctorProbe {
	return doctorProbe{
		lookPath:    exec.LookPath,
		cacheDir:    os.UserCacheDir,
		getenv:      env.Getenv,
		inContainer: hints.IsInContainer,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(defaultProbe(env))

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(p doctorProbe) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Platform: p.getenv("TYPSTWRITER_PLATFORM"),
		},
	}

	checkCompilers(result, p)
	checkEnvironment(result, p)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkCompilers looks for every way of running typst. Only the complete
// absence of a compiler is an error: --platform none still works.
func checkCompilers(result *doctorResult, p doctorProbe) {
	if path, err := p.lookPath("typst"); err == nil {
		result.Compilers.Typst = path
	}
	if dir, err := p.cacheDir(); err == nil {
		name := "typst"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		candidate := filepath.Join(dir, "go-typstwriter", "bin", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			result.Compilers.Cached = candidate
		}
	}
	if path, err := p.lookPath("docker"); err == nil {
		result.Compilers.Docker = path
	}

	c := result.Compilers
	switch {
	case c.Typst == "" && c.Cached == "" && c.Docker == "":
		result.Errors = append(result.Errors,
			"No typst compiler found. Install typst or docker, or build with --platform none")
	case c.Typst == "" && c.Cached == "":
		result.Warnings = append(result.Warnings,
			"typst not found; only --platform docker can compile")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, p doctorProbe) {
	result.Env.Container = p.inContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if p.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && result.Env.Platform == "docker" {
		result.Warnings = append(result.Warnings,
			"TYPSTWRITER_PLATFORM=docker inside a container usually fails; use native")
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Atomic output writes need a writable directory; check temp as a proxy
	f, err := os.CreateTemp("", "typstwriter-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "typstwriter doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Compilers")
	printFound(w, "typst (PATH)", r.Compilers.Typst)
	printFound(w, "typst (managed)", r.Compilers.Cached)
	printFound(w, "docker", r.Compilers.Docker)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printFound(w io.Writer, label, path string) {
	if path == "" {
		fmt.Fprintf(w, "  [--] %s: not found\n", label)
		return
	}
	fmt.Fprintf(w, "  [OK] %s: %s\n", label, path)
}
