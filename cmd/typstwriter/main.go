package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// GOMAXPROCS follows the container CPU quota before workers are sized.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	logf := func(string, ...interface{}) {}
	if hasVerboseFlag(os.Args[1:]) {
		logf = newLogger(os.Stderr, true, false).Sugar().Debugf
	}
	undo, _ := maxprocs.Set(maxprocs.Logger(logf))

	code := runMain(os.Args, DefaultEnv())
	undo()
	os.Exit(code)
}

// runMain dispatches the command and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "typstwriter %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		// "typstwriter docs/" is shorthand for "typstwriter build docs/"
		if !isCommand(cmd) && looksLikeInput(cmd) {
			err = runBuild(ctx, args[1:], env)
			break
		}
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// commands lists the subcommand names.
var commands = []string{"build", "config", "doctor", "completion", "version", "help"}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	for _, c := range commands {
		if arg == c {
			return true
		}
	}
	return false
}

// looksLikeInput reports whether arg is a Markdown file or an existing
// directory.
func looksLikeInput(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if isMarkdown(arg) {
		return true
	}
	info, err := os.Stat(filepath.Clean(arg))
	return err == nil && info.IsDir()
}

// hasVerboseFlag scans raw arguments for -v or --verbose before flags
// are parsed.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "--verbose" || a == "-v" {
			return true
		}
	}
	return false
}
