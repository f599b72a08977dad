package treesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitCostModel_Rename(t *testing.T) {
	t.Parallel()

	m := NewUnitCostModel()
	key := func(s string) Label { return Label{Type: LabelKey, Text: s} }
	val := func(s string) Label { return Label{Type: LabelValue, Text: s} }

	assert.Equal(t, 0.0, m.Rename(val(`"AES"`), val(`"AES"`)))
	assert.Equal(t, 1.0, m.Rename(val(`"AES"`), val(`"RSA"`)))
	assert.Equal(t, SentinelCost, m.Rename(key(`"name":`), val(`"name"`)))
	assert.Equal(t, 1.0, m.Insert(val(`"x"`)))
	assert.Equal(t, 1.0, m.Delete(val(`"x"`)))
}

func TestLabelCostModel_Rename(t *testing.T) {
	t.Parallel()

	m := NewLabelCostModel()
	val := func(s string) Label { return Label{Type: LabelValue, Text: s} }

	assert.Equal(t, 0.0, m.Rename(val(`"AES"`), val(`"AES"`)))

	// "abc" -> "abd": distance 1, max length 3
	got := m.Rename(val("abc"), val("abd"))
	assert.InDelta(t, 0.5+1.0/3.0, got, 1e-12)

	// completely different labels approach 1.5
	got = m.Rename(val("aaaa"), val("bbbb"))
	assert.InDelta(t, 1.5, got, 1e-12)

	// cross-type rename is vetoed by the sentinel
	assert.Equal(t, SentinelCost, m.Rename(Label{Type: LabelObject, Text: "{}"}, val("{}")))

	// quoting is structural, similarity runs over the bare strings
	got = m.Rename(val(`"aes128"`), val(`"aes256"`))
	assert.InDelta(t, 0.5+3.0/6.0, got, 1e-12)

	// key labels compare by key name, without quotes and colon
	a := Label{Type: LabelKey, Text: `"keySize":`}
	b := Label{Type: LabelKey, Text: `"keySizes":`}
	assert.InDelta(t, 0.5+1.0/8.0, m.Rename(a, b), 1e-12)
}

func TestLabelCostModel_RenameBounds(t *testing.T) {
	t.Parallel()

	m := NewLabelCostModel()
	val := func(s string) Label { return Label{Type: LabelValue, Text: s} }

	pairs := [][2]string{
		{"a", "ab"},
		{"kyber768", "kyber1024"},
		{"x", "yyyyyyyy"},
	}
	for _, p := range pairs {
		c := m.Rename(val(p[0]), val(p[1]))
		assert.Greater(t, c, 0.5)
		assert.LessOrEqual(t, c, 1.5)
	}
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}
