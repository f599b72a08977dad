package treesim

import "sort"

// LabelDictionary assigns stable integer identifiers to labels in first-seen
// order.  It is not safe for concurrent mutation; each similarity lookup
// builds and owns its own dictionary.
type LabelDictionary struct {
	ids    map[Label]int
	labels []Label
}

// NewLabelDictionary returns an empty dictionary.
func NewLabelDictionary() *LabelDictionary {
	return &LabelDictionary{ids: make(map[Label]int)}
}

// ID returns the identifier for l, assigning the next free one on first
// sight.
func (d *LabelDictionary) ID(l Label) int {
	if id, ok := d.ids[l]; ok {
		return id
	}
	id := len(d.labels)
	d.ids[l] = id
	d.labels = append(d.labels, l)
	return id
}

// Find returns the identifier for l without assigning one.
func (d *LabelDictionary) Find(l Label) (int, bool) {
	id, ok := d.ids[l]
	return id, ok
}

// Len returns the number of distinct labels registered.
func (d *LabelDictionary) Len() int { return len(d.labels) }

// posting records that a tree contains a label a given number of times.
type posting struct {
	tree  int
	count int
}

// Hit is a single verified similarity result: the index of the candidate
// tree and its exact edit distance to the query.
type Hit struct {
	Candidate int
	Distance  float64
}

// Index is an in-memory inverted-list similarity index over a fixed
// collection of trees.  Lookups convert the query to a label multiset,
// accumulate label overlaps against the indexed trees via the inverted
// lists, discard candidates whose size/overlap lower bound already exceeds
// the distance bound, and verify the survivors with the exact edit distance.
type Index struct {
	dict     *LabelDictionary
	trees    []*Tree
	sets     []map[int]int
	inverted map[int][]posting
}

// NewIndex builds an index over trees.  The slice is retained; callers must
// not mutate the trees afterwards.
func NewIndex(trees []*Tree) *Index {
	ix := &Index{
		dict:     NewLabelDictionary(),
		trees:    trees,
		sets:     make([]map[int]int, len(trees)),
		inverted: make(map[int][]posting),
	}
	for t, tree := range trees {
		set := make(map[int]int, tree.Size())
		for _, l := range tree.Labels {
			set[ix.dict.ID(l)]++
		}
		ix.sets[t] = set
		for id, cnt := range set {
			ix.inverted[id] = append(ix.inverted[id], posting{tree: t, count: cnt})
		}
	}
	return ix
}

// Len returns the number of indexed trees.
func (ix *Index) Len() int { return len(ix.trees) }

// Lookup returns every indexed tree whose exact edit distance to query under
// cm is strictly below bound, sorted by candidate index.  Candidates whose
// label-overlap lower bound (max(|query|,|cand|)-overlap, scaled by the cost
// model's per-operation floor) already reaches the bound are pruned without
// a distance computation; Pruned in the returned stats counts them.
func (ix *Index) Lookup(query *Tree, cm CostModel, bound float64) ([]Hit, LookupStats) {
	var stats LookupStats

	// Label overlap per candidate: sum over shared labels of the smaller
	// occurrence count.
	overlap := make([]int, len(ix.trees))
	qset := make(map[int]int, query.Size())
	for _, l := range query.Labels {
		if id, ok := ix.dict.Find(l); ok {
			qset[id]++
		}
	}
	for id, qcnt := range qset {
		for _, p := range ix.inverted[id] {
			c := qcnt
			if p.count < c {
				c = p.count
			}
			overlap[p.tree] += c
		}
	}

	hits := make([]Hit, 0, len(ix.trees))
	for t, tree := range ix.trees {
		larger := query.Size()
		if tree.Size() > larger {
			larger = tree.Size()
		}
		// Every label present in one multiset but not the other needs at
		// least one edit operation, and no operation costs less than the
		// model's floor.
		if lb := float64(larger-overlap[t]) * cm.Floor(); lb >= bound {
			stats.Pruned++
			continue
		}
		stats.Verified++
		d := Distance(query, tree, cm)
		if d < bound {
			hits = append(hits, Hit{Candidate: t, Distance: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Candidate < hits[j].Candidate })
	return hits, stats
}

// LookupStats reports how a lookup spent its work.
type LookupStats struct {
	// Pruned counts candidates discarded by the lower bound.
	Pruned int
	// Verified counts candidates that required an exact distance.
	Verified int
}

// ScanDistances computes the exact distance from query to every indexed
// tree without pruning.  It exists as the verification baseline for the
// indexed lookup and for callers that need the full distance row.
func (ix *Index) ScanDistances(query *Tree, cm CostModel) []float64 {
	out := make([]float64, len(ix.trees))
	for t, tree := range ix.trees {
		out[t] = Distance(query, tree, cm)
	}
	return out
}
