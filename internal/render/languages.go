package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// plainTags mark code that is deliberately unhighlighted.
var plainTags = map[string]bool{
	"": true, "text": true, "plain": true, "plaintext": true, "txt": true,
	"output": true, "none": true, "nohighlight": true,
}

// languageAliases cover documentation tags no lexer registry knows.
var languageAliases = map[string]string{
	"jldoctest":     "julia",
	"julia-repl":    "julia",
	"pycon":         "python",
	"console":       "bash",
	"shell-session": "bash",
	"sh":            "bash",
	"shell":         "bash",
	"zsh":           "bash",
}

// typstLanguages maps canonical lexer names (lower case) to the tags
// Typst's raw element highlights.
var typstLanguages = map[string]string{
	"bash":            "bash",
	"batchfile":       "bat",
	"c":               "c",
	"c#":              "cs",
	"c++":             "cpp",
	"clojure":         "clojure",
	"cmake":           "cmake",
	"css":             "css",
	"d":               "d",
	"dart":            "dart",
	"diff":            "diff",
	"docker":          "dockerfile",
	"elixir":          "elixir",
	"erlang":          "erlang",
	"fortran":         "fortran",
	"go":              "go",
	"graphql":         "graphql",
	"groovy":          "groovy",
	"haskell":         "haskell",
	"html":            "html",
	"ini":             "ini",
	"java":            "java",
	"javascript":      "js",
	"json":            "json",
	"julia":           "julia",
	"kotlin":          "kotlin",
	"latex":           "latex",
	"lua":             "lua",
	"makefile":        "makefile",
	"markdown":        "md",
	"matlab":          "matlab",
	"nim":             "nim",
	"nix":             "nix",
	"objective-c":     "objc",
	"ocaml":           "ocaml",
	"perl":            "perl",
	"php":             "php",
	"powershell":      "powershell",
	"protocol buffer": "proto",
	"python":          "python",
	"python 2":        "python",
	"r":               "r",
	"ruby":            "ruby",
	"rust":            "rust",
	"scala":           "scala",
	"scheme":          "scheme",
	"sql":             "sql",
	"swift":           "swift",
	"tex":             "latex",
	"toml":            "toml",
	"typescript":      "ts",
	"typst":           "typst",
	"xml":             "xml",
	"yaml":            "yaml",
	"zig":             "zig",
}

// resolveLanguage maps a code-block tag to a Typst raw language. ok is
// false when the tag names a language Typst cannot highlight; plain tags
// resolve to "" with ok true.
func resolveLanguage(tag string) (lang string, ok bool) {
	key := strings.ToLower(strings.TrimSpace(tag))
	// Info strings such as "go title=main.go" or "{.python}" carry extras.
	if i := strings.IndexAny(key, " \t,"); i >= 0 {
		key = key[:i]
	}
	key = strings.Trim(key, "{}.")

	if plainTags[key] {
		return "", true
	}
	if alias, found := languageAliases[key]; found {
		key = alias
	}
	if lang, found := typstLanguages[key]; found {
		return lang, true
	}
	if lexer := lexers.Get(key); lexer != nil {
		if lang, found := typstLanguages[strings.ToLower(lexer.Config().Name)]; found {
			return lang, true
		}
	}
	return "", false
}
