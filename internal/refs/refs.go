// Package refs maps symbolic anchor names to stable Typst label identifiers.
//
// Anchors are declared in one forward pass over the whole document and
// resolved afterwards, so a reference may precede its target. Identifiers
// are derived from the anchor name alone; regenerating a document after a
// content edit keeps unrelated labels unchanged.
package refs

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-typstwriter/internal/numbering"
)

// Sentinel errors for anchor operations.
var (
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrDuplicateAnchor     = errors.New("duplicate anchor")
	ErrSealed              = errors.New("anchor table sealed")
)

// Class is the kind of element an anchor points at.
type Class int

// Anchor classes.
const (
	ClassSection Class = iota
	ClassFigure
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
		return "section"
	}
}

// Anchor is an immutable declaration record.
type Anchor struct {
	Name     string
	ID       string
	Class    Class
	Number   numbering.Number
	NodeKind string
	Location string
}

// FootnoteName returns the anchor name reserved for footnote id.
func FootnoteName(id string) string {
	return "footnote:" + id
}

// UnresolvedError reports a reference to an anchor that was never declared.
type UnresolvedError struct {
	Name       string
	Suggestion string
}

func (e *UnresolvedError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v: %q (did you mean %q?)", ErrUnresolvedReference, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%v: %q", ErrUnresolvedReference, e.Name)
}

// Unwrap lets errors.Is match ErrUnresolvedReference.
func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolvedReference
}

// Resolver is the anchor table of one render pass. It is not safe for
// concurrent use; each render owns its own Resolver.
type Resolver struct {
	byName   map[string]*Anchor
	ids      map[string]string // label id -> anchor name
	reserved map[string]bool
	order    []string
	sealed   bool
}

// New creates an empty Resolver.
func New() *Resolver {
	return &Resolver{
		byName:   make(map[string]*Anchor),
		ids:      make(map[string]string),
		reserved: make(map[string]bool),
	}
}

// Declare registers name. Declaring the same name twice fails with
// ErrDuplicateAnchor; declaring after Seal fails with ErrSealed.
func (r *Resolver) Declare(name string, class Class, number numbering.Number, nodeKind, location string) (Anchor, error) {
	if r.sealed {
		return Anchor{}, fmt.Errorf("%w: cannot declare %q", ErrSealed, name)
	}
	if prev, ok := r.byName[name]; ok {
		return Anchor{}, fmt.Errorf("%w: %q already declared at %s", ErrDuplicateAnchor, name, prev.Location)
	}
	a := &Anchor{
		Name:     name,
		ID:       r.uniqueID(name),
		Class:    class,
		Number:   append(numbering.Number(nil), number...),
		NodeKind: nodeKind,
		Location: location,
	}
	r.byName[name] = a
	r.ids[a.ID] = name
	r.order = append(r.order, name)
	return *a, nil
}

// Reserve marks name as belonging to an explicit declaration that may
// come later in the pass. DeclareImplicit never picks a reserved name;
// Declare may.
func (r *Resolver) Reserve(name string) {
	r.reserved[name] = true
}

// DeclareImplicit registers an anchor derived from content, such as a
// heading without an explicit anchor. Repeated bases and reserved names
// are disambiguated with "-1", "-2" suffixes in document order, so it
// never fails on duplicates.
func (r *Resolver) DeclareImplicit(base string, class Class, number numbering.Number, nodeKind, location string) (Anchor, error) {
	name := base
	for i := 1; ; i++ {
		if _, taken := r.byName[name]; !taken && !r.reserved[name] {
			break
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
	return r.Declare(name, class, number, nodeKind, location)
}

// Seal ends the declaration phase.
func (r *Resolver) Seal() {
	r.sealed = true
}

// Resolve returns the anchor declared under name.
func (r *Resolver) Resolve(name string) (Anchor, error) {
	if a, ok := r.byName[name]; ok {
		return *a, nil
	}
	return Anchor{}, &UnresolvedError{Name: name, Suggestion: r.suggest(name)}
}

// Lookup reports whether name was declared.
func (r *Resolver) Lookup(name string) (Anchor, bool) {
	a, ok := r.byName[name]
	if !ok {
		return Anchor{}, false
	}
	return *a, true
}

// Names returns declared anchor names in declaration order.
func (r *Resolver) Names() []string {
	return append([]string(nil), r.order...)
}

// uniqueID derives the label for name, appending a hash of the name when
// a different name already produced the same slug.
func (r *Resolver) uniqueID(name string) string {
	id := DeriveID(name)
	if owner, taken := r.ids[id]; taken && owner != name {
		id = fmt.Sprintf("%s-%08x", id, hashName(name))
	}
	return id
}

// DeriveID folds name to a Typst label identifier: accents are stripped,
// letters lower-cased, and runs of characters outside [a-z0-9_.:-]
// collapse to a single hyphen. Names with no usable character fall back
// to a hash.
func DeriveID(name string) string {
	folded, _, err := transform.String(foldChain(), name)
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if isLabelRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	id := strings.Trim(b.String(), "-.:")
	if id == "" {
		return fmt.Sprintf("anchor-%08x", hashName(name))
	}
	return id
}

// foldChain is rebuilt per call: transformers carry state and are not
// safe to share across goroutines.
func foldChain() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFC,
	)
}

func isLabelRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.', r == ':':
		return true
	}
	return false
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// suggest returns the declared name closest to name by edit distance, or
// "" when nothing is reasonably close.
func (r *Resolver) suggest(name string) string {
	if len(r.order) == 0 {
		return ""
	}
	candidates := append([]string(nil), r.order...)
	sort.Strings(candidates)

	best, bestDist := "", len(name)/2+1
	for _, c := range candidates {
		if strings.HasPrefix(c, "footnote:") {
			continue
		}
		if d := levenshtein(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
