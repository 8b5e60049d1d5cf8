package mdtree

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-typstwriter/internal/refs"
)

// anchorIDs generates heading anchors shared by every page of a document.
// It implements goldmark's parser.IDs.
type anchorIDs struct {
	used map[string]bool
}

func newAnchorIDs() *anchorIDs {
	return &anchorIDs{used: make(map[string]bool)}
}

// Generate derives an anchor from heading text, suffixing "-1", "-2" on
// repeats.
func (a *anchorIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := "id"
	if kind == ast.KindHeading && len(value) > 0 {
		base = refs.DeriveID(string(value))
	}
	id := base
	for i := 1; a.used[id]; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	a.used[id] = true
	return []byte(id)
}

// Put reserves an explicit {#id}.
func (a *anchorIDs) Put(value []byte) {
	a.used[string(value)] = true
}
