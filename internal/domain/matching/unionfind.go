// Package matching holds the domain model of cross-document component
// matching: clustering accepted pairwise matches into chains of components
// that refer to the same underlying entity across documents.
package matching

import (
	"github.com/SEG-UNIBE/BF-CBOM/pkg/types/matching"
)

// UnionFind is a disjoint-set structure over component identities with path
// compression.  Elements are registered lazily on first use; a component
// never passed to Unite or Find is simply absent from the result, so
// unmatched components do not produce singleton chains.
type UnionFind struct {
	parent map[matching.ComponentID]matching.ComponentID
	rank   map[matching.ComponentID]int
}

// NewUnionFind returns an empty structure.
func NewUnionFind() *UnionFind {
	return &UnionFind{
		parent: make(map[matching.ComponentID]matching.ComponentID),
		rank:   make(map[matching.ComponentID]int),
	}
}

// Find returns the representative of id's set, registering id as its own
// set on first sight.  The walk to the root is iterative; the second pass
// compresses the path so repeated lookups stay near-constant.
func (u *UnionFind) Find(id matching.ComponentID) matching.ComponentID {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		return id
	}

	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[id] != root {
		next := u.parent[id]
		u.parent[id] = root
		id = next
	}
	return root
}

// Unite merges the sets containing a and b, by rank.
func (u *UnionFind) Unite(a, b matching.ComponentID) {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// Len returns the number of registered components.
func (u *UnionFind) Len() int { return len(u.parent) }

// Chains groups all registered components by their set representative and
// returns the groups in the deterministic order defined by
// matching.SortChains.  Components that were registered but never united
// appear as single-element chains; callers that only register via Unite
// therefore never see singletons.
func (u *UnionFind) Chains() []matching.Chain {
	groups := make(map[matching.ComponentID]matching.Chain, len(u.parent))
	for id := range u.parent {
		root := u.Find(id)
		groups[root] = append(groups[root], id)
	}
	chains := make([]matching.Chain, 0, len(groups))
	for _, c := range groups {
		chains = append(chains, c)
	}
	matching.SortChains(chains)
	return chains
}

// ClusterMatches builds the chains induced by a list of accepted matches:
// the two endpoints of every match are united and the resulting sets are
// returned in deterministic order.  Only components that appear in at least
// one match are represented.
func ClusterMatches(matches []matching.Match) []matching.Chain {
	u := NewUnionFind()
	for _, m := range matches {
		u.Unite(m.Source(), m.Target())
	}
	return u.Chains()
}
