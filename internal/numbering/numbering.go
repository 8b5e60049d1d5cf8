// Package numbering assigns hierarchical section, figure, table and
// footnote numbers in document order.
//
// A Manager is mutated only while the tree is walked once in document
// order. Calling it out of order is a programming error and panics.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Class identifies an independent family of counters.
type Class int

// Numbering classes. Headings are handled by Manager.Heading.
const (
	ClassFigure Class = iota
	ClassTable
	ClassFootnote
)

func (c Class) String() string {
	switch c {
	case ClassFigure:
		return "figure"
	case ClassTable:
		return "table"
	case ClassFootnote:
		return "footnote"
	default:
		return "Class(" + strconv.Itoa(int(c)) + ")"
	}
}

// Scope selects which heading resets figure and table counters.
type Scope int

const (
	// ScopeSection resets at every heading; numbers are prefixed by the
	// enclosing heading number (Figure 2.1.3).
	ScopeSection Scope = iota
	// ScopeChapter resets at level-1 headings (Figure 2.3).
	ScopeChapter
	// ScopeDocument never resets (Figure 7).
	ScopeDocument
)

// ParseScope converts a configuration value to a Scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "section":
		return ScopeSection, nil
	case "chapter":
		return ScopeChapter, nil
	case "document":
		return ScopeDocument, nil
	default:
		return ScopeSection, fmt.Errorf("unknown numbering scope %q (want section, chapter or document)", s)
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeChapter:
		return "chapter"
	case ScopeDocument:
		return "document"
	default:
		return "section"
	}
}

// Number is a hierarchical number such as 2.1.3.
type Number []int

// String joins the parts with dots. An empty Number renders as "".
func (n Number) String() string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

type counterKey struct {
	class  Class
	parent string
}

// Manager holds the counters for one render pass.
type Manager struct {
	scope    Scope
	levels   []int
	deepest  int // deepest heading level seen since the last reset
	counters map[counterKey]int
}

// New creates a Manager with figure and table counters reset per scope.
func New(scope Scope) *Manager {
	return &Manager{
		scope:    scope,
		counters: make(map[counterKey]int),
	}
}

// Heading increments the counter for level and resets every deeper level,
// returning the full hierarchical number (levels [1,2,2,1,2] yield
// 1, 1.1, 1.2, 2, 2.1).
func (m *Manager) Heading(level int) Number {
	if level < 1 {
		panic(fmt.Sprintf("numbering: invalid heading level %d", level))
	}
	for len(m.levels) < level {
		m.levels = append(m.levels, 0)
	}
	m.levels[level-1]++
	for i := level; i < len(m.levels); i++ {
		m.levels[i] = 0
	}
	m.deepest = level

	out := make(Number, level)
	copy(out, m.levels[:level])
	return out
}

// Section returns the number of the innermost enclosing heading, or nil
// before the first heading.
func (m *Manager) Section() Number {
	if m.deepest == 0 {
		return nil
	}
	out := make(Number, m.deepest)
	copy(out, m.levels[:m.deepest])
	return out
}

// Next returns the next value of the (class, parent) counter. Values for
// one pair start at 1 and increase by one on every call.
func (m *Manager) Next(class Class, parent Number) int {
	key := counterKey{class: class, parent: parent.String()}
	prev := m.counters[key]
	next := prev + 1
	if next <= prev {
		panic(fmt.Sprintf("numbering: %s counter for %q overflowed", class, key.parent))
	}
	m.counters[key] = next
	return next
}

// Figure returns the next figure number under the configured scope.
func (m *Manager) Figure() Number {
	return m.scoped(ClassFigure)
}

// Table returns the next table number under the configured scope.
func (m *Manager) Table() Number {
	return m.scoped(ClassTable)
}

// Footnote returns the next document-wide footnote number.
func (m *Manager) Footnote() Number {
	return Number{m.Next(ClassFootnote, nil)}
}

func (m *Manager) scoped(class Class) Number {
	parent := m.parent()
	n := m.Next(class, parent)
	out := make(Number, 0, len(parent)+1)
	out = append(out, parent...)
	return append(out, n)
}

func (m *Manager) parent() Number {
	switch m.scope {
	case ScopeDocument:
		return nil
	case ScopeChapter:
		if len(m.levels) == 0 || m.levels[0] == 0 {
			return nil
		}
		return Number{m.levels[0]}
	default:
		return m.Section()
	}
}
