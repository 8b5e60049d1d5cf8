// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-typstwriter/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForCompilerNotFound returns hints for a compiler that could not be started
// on the given platform.
func ForCompilerNotFound(platform string) string {
	var hints []string

	switch platform {
	case "docker":
		if IsInContainer() {
			hints = append(hints, "docker is usually unavailable inside containers, use --platform native")
		} else {
			hints = append(hints, "check that docker is installed and its daemon is running")
		}
	default:
		hints = append(hints, "install typst from https://github.com/typst/typst/releases")
		if platform == "native" {
			hints = append(hints, "or point --typst at the executable")
		}
	}

	if inCI() || IsInContainer() {
		hints = append(hints, "use --platform none to write .typ files only")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-typstwriter") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForPreambleNotFound returns hints for preamble not found errors.
func ForPreambleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + ", or pass a path to a .typ file")
}

// ForMath returns a hint for formulas the translator cannot handle.
func ForMath() string {
	return format("define a macro with math.macros or enable --math-fallback")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
