package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typstwriter <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Render Markdown files to Typst and compile them")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  doctor      Check that a Typst compiler is available")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'typstwriter help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typstwriter build <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown files into one Typst document, then compile it to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories, in page order")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (.yaml, .yml, .toml)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w, "      --separate            One document per input file")
	fmt.Fprintln(w, "      --watch               Rebuild when an input file changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --sitename <s>        Output base name (default \"document\")")
	fmt.Fprintln(w, "      --doc-version <s>     Appended to the output name: <sitename>-<version>")
	fmt.Fprintln(w, "      --platform <s>        Compiler: typst, native, docker, none")
	fmt.Fprintln(w, "      --typst <path>        Typst executable for --platform native")
	fmt.Fprintln(w, "      --docker-image <s>    Image for --platform docker")
	fmt.Fprintln(w, "      --typst-args <s>      Extra compiler flags, shell-quoted")
	fmt.Fprintln(w, "  -t, --timeout <d>         Compile timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --doc-title <s>       Document title (\"\" = front matter or first H1)")
	fmt.Fprintln(w, "      --doc-author <s>      Author, repeatable")
	fmt.Fprintln(w, "      --doc-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "      --preamble <s>        Preamble name (default, compact) or .typ path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory searched for preambles/{name}.typ")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-depth <n>       Max heading depth (1-6)")
	fmt.Fprintln(w, "      --page-breaks         Break pages between input files")
	fmt.Fprintln(w, "      --numbering-scope <s> Figure/table numbering: section, chapter, document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --math-fallback       Keep untranslatable formulas verbatim")
	fmt.Fprintln(w, "      --math-macro <s>      Macro as name=body, repeatable")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TYPSTWRITER_CONFIG, TYPSTWRITER_PLATFORM, TYPSTWRITER_TYPST,")
	fmt.Fprintln(w, "  TYPSTWRITER_DOCKER_IMAGE, TYPSTWRITER_TYPST_ARGS, TYPSTWRITER_TIMEOUT,")
	fmt.Fprintln(w, "  TYPSTWRITER_INPUT_DIR, TYPSTWRITER_OUTPUT_DIR, TYPSTWRITER_PREAMBLE,")
	fmt.Fprintln(w, "  TYPSTWRITER_DOC_DATE, TYPSTWRITER_WORKERS")
	fmt.Fprintln(w, "  Precedence: flags > config file > environment > defaults")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typstwriter config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after TYPSTWRITER_* variables are applied.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: yaml, toml (default yaml)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typstwriter doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check compilers, environment, and system requirements.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: typstwriter version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: typstwriter help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
