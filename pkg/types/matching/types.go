// Package matching defines the shared value types of the component-matching
// pipeline: component identities, accepted matches, and the chains that
// group components across documents.
package matching

import (
	"fmt"
	"sort"
)

// ComponentID identifies one component by its document index and position
// inside that document's components array.  Equality and hashing depend only
// on this pair; the cost of the match that introduced a component is carried
// on the Match, never on the identity.
type ComponentID struct {
	Doc       int `json:"doc"`
	Component int `json:"component"`
}

// String renders the identity as "(doc, component)".
func (c ComponentID) String() string {
	return fmt.Sprintf("(%d, %d)", c.Doc, c.Component)
}

// Less imposes a total order on identities: by document, then by component.
func (c ComponentID) Less(other ComponentID) bool {
	if c.Doc != other.Doc {
		return c.Doc < other.Doc
	}
	return c.Component < other.Component
}

// Match is one accepted correspondence between a component of the source
// document and a component of the target document.  Matches are only emitted
// when the assignment solver's optimal pairing cost is at or below the
// configured threshold.
type Match struct {
	SourceDoc  int     `json:"source_doc"`
	TargetDoc  int     `json:"target_doc"`
	SourceComp int     `json:"source_comp"`
	TargetComp int     `json:"target_comp"`
	Cost       float64 `json:"cost"`
}

// Source returns the ComponentID of the match's source side.
func (m Match) Source() ComponentID {
	return ComponentID{Doc: m.SourceDoc, Component: m.SourceComp}
}

// Target returns the ComponentID of the match's target side.
func (m Match) Target() ComponentID {
	return ComponentID{Doc: m.TargetDoc, Component: m.TargetComp}
}

// Chain is a set of components connected transitively through accepted
// matches: the cross-tool alignment of one logical cryptographic asset.
// Chains are finalized once all document pairs are processed and never
// mutated afterward.
type Chain []ComponentID

// Sort orders the chain's members by (doc, component).
func (ch Chain) Sort() {
	sort.Slice(ch, func(i, j int) bool { return ch[i].Less(ch[j]) })
}

// Contains reports whether id is a member of the chain.
func (ch Chain) Contains(id ComponentID) bool {
	for _, m := range ch {
		if m == id {
			return true
		}
	}
	return false
}

// SortChains orders chains deterministically: each chain internally by
// identity, then chains among themselves by their smallest member.
func SortChains(chains []Chain) {
	for _, ch := range chains {
		ch.Sort()
	}
	sort.Slice(chains, func(i, j int) bool {
		a, b := chains[i], chains[j]
		if len(a) == 0 || len(b) == 0 {
			return len(a) > len(b)
		}
		return a[0].Less(b[0])
	})
}

// Document is one inventory document prepared for matching: the ordered tree
// encodings of its components plus the originating file path (possibly empty
// when the document did not come from disk).  A component's index position
// is its identity within the document.
type Document struct {
	Path      string   `json:"path,omitempty"`
	Encodings []string `json:"-"`
}

// Len returns the number of components in the document.
func (d Document) Len() int { return len(d.Encodings) }
