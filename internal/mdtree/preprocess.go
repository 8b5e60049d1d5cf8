package mdtree

import (
	"regexp"
	"strings"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// [text](@ref anchor): a space is not valid in a link destination.
	refWithTarget = regexp.MustCompile(`\]\(@ref[ \t]+([^)\s]+)[ \t]*\)`)
)

// preprocess normalizes line endings and rewrites reference links outside
// fenced code so goldmark parses them as links.
func preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	if !strings.Contains(content, "@ref") {
		return content
	}

	lines := strings.Split(content, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.TrimSpace(strings.TrimLeft(trimmed, fence[:1])) == "" {
				fence = ""
			}
			continue
		}
		if f := openingFence(trimmed); f != "" {
			fence = f
			continue
		}
		lines[i] = refWithTarget.ReplaceAllString(line, "](@ref:$1)")
	}
	return strings.Join(lines, "\n")
}

// openingFence returns the fence run (``` or ~~~, possibly longer) that
// opens a code block on line, or "".
func openingFence(line string) string {
	for _, c := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == c {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}
