package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Desc     string   // help text
	Bool     bool     // takes no value
	Values   []string // for enum flags
	FileGlob string   // for file flags
	IsDir    bool     // directory completion
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"platform":        {Values: []string{"typst", "native", "docker", "none"}},
	"numbering-scope": {Values: []string{"section", "chapter", "document"}},
	"preamble":        {Values: []string{"default", "compact"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml,*.toml"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlags reads flag definitions from fs, sorted by name, and
// enriches them with flagCompletionMeta.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		meta := flagCompletionMeta[f.Name]
		flags = append(flags, flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			Bool:     f.Value.Type() == "bool",
			Values:   meta.Values,
			FileGlob: meta.FileGlob,
			IsDir:    meta.IsDir,
		})
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}

// buildFlagDefs returns the build command's flags.
func buildFlagDefs() []flagDef {
	return extractFlags(newBuildFlagSet(&buildFlags{}))
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	flags := buildFlagDefs()
	var script string
	switch shell {
	case ShellBash:
		script = bashCompletion(flags)
	case ShellZsh:
		script = zshCompletion(flags)
	case ShellFish:
		script = fishCompletion(flags)
	case ShellPowerShell:
		script = powerShellCompletion(flags)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func bashCompletion(flags []flagDef) string {
	var b strings.Builder
	var all []string
	for _, f := range flags {
		all = append(all, "--"+f.Long)
		if f.Short != "" {
			all = append(all, "-"+f.Short)
		}
	}

	b.WriteString("# bash completion for typstwriter\n")
	b.WriteString("_typstwriter() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\") $(compgen -f -X '!*.@(md|markdown)' -- \"$cur\"))\n", strings.Join(commands, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		names := "--" + f.Long
		if f.Short != "" {
			names += "|-" + f.Short
		}
		switch {
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
		case f.IsDir:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
		case f.FileGlob != "":
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", names)
		}
	}
	b.WriteString("    esac\n\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(all, " "))
	b.WriteString("    else\n")
	b.WriteString("        COMPREPLY=($(compgen -f -- \"$cur\"))\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _typstwriter typstwriter\n")
	return b.String()
}

func zshCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("#compdef typstwriter\n\n")
	b.WriteString("_typstwriter() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s'\n", c)
	}
	b.WriteString("    )\n\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		action := ""
		switch {
		case f.Bool:
		case len(f.Values) > 0:
			action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
		case f.IsDir:
			action = ":directory:_files -/"
		case f.FileGlob != "":
			action = fmt.Sprintf(":file:_files -g '%s'", zshGlob(f.FileGlob))
		default:
			action = ":" + f.Long + ":"
		}
		desc := zshEscape(f.Desc)
		if f.Short != "" {
			fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
		}
	}
	b.WriteString("        '1:command:{_describe command commands}' \\\n")
	b.WriteString("        '*:input:_files -g \"*.(md|markdown)\"'\n")
	b.WriteString("}\n\n")
	b.WriteString("_typstwriter \"$@\"\n")
	return b.String()
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(glob string) string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func fishCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for typstwriter\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c typstwriter -n '__fish_use_subcommand' -a %s\n", c)
	}
	for _, f := range flags {
		fmt.Fprintf(&b, "complete -c typstwriter -l %s", f.Long)
		if f.Short != "" {
			fmt.Fprintf(&b, " -s %s", f.Short)
		}
		switch {
		case f.Bool:
		case len(f.Values) > 0:
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
		case f.IsDir:
			b.WriteString(" -x -a '(__fish_complete_directories)'")
		case f.FileGlob != "":
			b.WriteString(" -r -F")
		default:
			b.WriteString(" -x")
		}
		fmt.Fprintf(&b, " -d '%s'\n", strings.ReplaceAll(f.Desc, "'", "\\'"))
	}
	return b.String()
}

func powerShellCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for typstwriter\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName typstwriter -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $items = @(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s'\n", c)
	}
	for _, f := range flags {
		fmt.Fprintf(&b, "        '--%s'\n", f.Long)
	}
	b.WriteString("    )\n")
	b.WriteString("    $items | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: typstwriter completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(typstwriter completion bash)\"  # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(typstwriter completion zsh)\"   # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        typstwriter completion fish > ~/.config/fish/completions/typstwriter.fish")
	fmt.Fprintln(w, "  PowerShell:  typstwriter completion powershell | Out-String | Invoke-Expression")
}
