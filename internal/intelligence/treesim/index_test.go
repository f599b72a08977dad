package treesim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, docs []string) []*Tree {
	t.Helper()
	trees := make([]*Tree, len(docs))
	for i, d := range docs {
		trees[i] = mustEncode(t, d)
	}
	return trees
}

func TestLabelDictionary_AssignsStableIDs(t *testing.T) {
	t.Parallel()

	d := NewLabelDictionary()
	a := Label{Type: LabelValue, Text: `"AES"`}
	b := Label{Type: LabelValue, Text: `"RSA"`}

	assert.Equal(t, 0, d.ID(a))
	assert.Equal(t, 1, d.ID(b))
	assert.Equal(t, 0, d.ID(a)) // repeated lookups keep the first id
	assert.Equal(t, 2, d.Len())

	id, ok := d.Find(b)
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = d.Find(Label{Type: LabelKey, Text: `"AES"`})
	assert.False(t, ok) // type participates in identity
}

func TestIndex_LookupFindsExactAndNearMatches(t *testing.T) {
	t.Parallel()

	trees := encodeAll(t, []string{
		`{"name": "AES", "keySize": 256}`,
		`{"name": "RSA", "keySize": 2048}`,
		`{"name": "AES", "keySize": 128}`,
	})
	ix := NewIndex(trees)
	cm := NewUnitCostModel()

	query := mustEncode(t, `{"name": "AES", "keySize": 256}`)
	hits, _ := ix.Lookup(query, cm, 100000)

	require.Len(t, hits, 3)
	assert.Equal(t, 0, hits[0].Candidate)
	assert.Equal(t, 0.0, hits[0].Distance)
	assert.Greater(t, hits[1].Distance, 0.0)
}

func TestIndex_LookupRespectsStrictBound(t *testing.T) {
	t.Parallel()

	trees := encodeAll(t, []string{
		`{"name": "AES"}`,
		`{"name": "RSA", "padding": "OAEP"}`,
	})
	ix := NewIndex(trees)
	cm := NewUnitCostModel()

	query := mustEncode(t, `{"name": "AES"}`)

	// Distance to tree 0 is 0; to tree 1 it is 3 (one rename, two inserts).
	hits, _ := ix.Lookup(query, cm, 3)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Candidate)

	hits, _ = ix.Lookup(query, cm, 3.5)
	assert.Len(t, hits, 2)
}

func TestIndex_LowerBoundPrunesDissimilarTrees(t *testing.T) {
	t.Parallel()

	trees := encodeAll(t, []string{
		`{"name": "AES"}`,
		`{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6}`,
	})
	ix := NewIndex(trees)
	cm := NewUnitCostModel()

	query := mustEncode(t, `{"name": "AES"}`)

	// Tree 1 shares only the object label, so its lower bound (13-1=12)
	// exceeds a tight bound and it is never verified.
	hits, stats := ix.Lookup(query, cm, 2)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, stats.Pruned)
	assert.Equal(t, 1, stats.Verified)
}

func TestIndex_LabelModelKeepsCheapRenamesUnderTightBound(t *testing.T) {
	t.Parallel()

	trees := encodeAll(t, []string{`{"k": "abc"}`})
	ix := NewIndex(trees)
	cm := NewLabelCostModel()

	// One same-type rename costs 0.5 + 1/3, below a bound of 1.  The raw
	// multiset bound (3-2=1) would discard the candidate; scaled by the
	// label model's 0.5 floor it must survive to verification.
	query := mustEncode(t, `{"k": "abd"}`)
	hits, stats := ix.Lookup(query, cm, 1)

	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Candidate)
	assert.InDelta(t, 0.5+1.0/3.0, hits[0].Distance, 1e-9)
	assert.Equal(t, 0, stats.Pruned)
	assert.Equal(t, 1, stats.Verified)
}

func TestIndex_LookupAgreesWithScan(t *testing.T) {
	t.Parallel()

	docs := []string{
		`{"name": "AES", "keySize": 256, "mode": "GCM"}`,
		`{"name": "AES", "keySize": 128}`,
		`{"name": "RSA", "keySize": 2048, "padding": "OAEP"}`,
		`{"name": "SHA-256", "digestSize": 256}`,
		`[{"inner": true}, null, 3.5]`,
		`{"name": "AES", "keySize": 127}`,
	}
	trees := encodeAll(t, docs)
	ix := NewIndex(trees)
	cm := NewLabelCostModel()

	for qi, q := range docs {
		q := q
		t.Run(fmt.Sprintf("query_%d", qi), func(t *testing.T) {
			t.Parallel()
			query := mustEncode(t, q)
			scan := ix.ScanDistances(query, cm)

			for _, bound := range []float64{0.9, 1, 1.2, 5, 50, 100000} {
				hits, _ := ix.Lookup(query, cm, bound)
				got := make(map[int]float64, len(hits))
				for _, h := range hits {
					got[h.Candidate] = h.Distance
				}
				for cand, d := range scan {
					if d < bound {
						assert.InDelta(t, d, got[cand], 1e-9,
							"bound %v candidate %d missing or wrong", bound, cand)
					} else {
						assert.NotContains(t, got, cand)
					}
				}
			}
		})
	}
}

func TestIndex_EmptyCollection(t *testing.T) {
	t.Parallel()

	ix := NewIndex(nil)
	assert.Equal(t, 0, ix.Len())

	hits, stats := ix.Lookup(mustEncode(t, `{"a": 1}`), NewUnitCostModel(), 10)
	assert.Empty(t, hits)
	assert.Zero(t, stats.Verified)
}
