package treesim

// SentinelCost is the default cost assigned to renames across label types
// and to unreachable cost-matrix cells.  It is large enough that such pairs
// never survive the acceptance threshold.
const SentinelCost = 1e9

// CostModel prices the three edit operations of the tree edit distance.
// Implementations must be safe for concurrent use.
type CostModel interface {
	// Rename returns the cost of rewriting label a into label b.
	Rename(a, b Label) float64
	// Insert returns the cost of inserting a node with the given label.
	Insert(l Label) float64
	// Delete returns the cost of deleting a node with the given label.
	Delete(l Label) float64
	// Floor returns a lower bound on the cost of any single edit operation
	// that is not a free identical rename.  Index lookups multiply label
	// multiset differences by it to obtain a distance lower bound.
	Floor() float64
}

// UnitCostModel charges unit cost for every structural operation and for
// renames between different labels of the same type.  Renames across label
// types get the sentinel cost so structurally incompatible nodes are never
// matched.
type UnitCostModel struct {
	Sentinel float64
}

// NewUnitCostModel returns a UnitCostModel with the default sentinel cost.
func NewUnitCostModel() *UnitCostModel {
	return &UnitCostModel{Sentinel: SentinelCost}
}

func (m *UnitCostModel) Rename(a, b Label) float64 {
	if a.Type != b.Type {
		return m.Sentinel
	}
	if a.Text == b.Text {
		return 0
	}
	return 1
}

func (m *UnitCostModel) Insert(Label) float64 { return 1 }
func (m *UnitCostModel) Delete(Label) float64 { return 1 }
func (m *UnitCostModel) Floor() float64       { return 1 }

// LabelCostModel refines rename pricing with the textual similarity of the
// two labels: identical labels are free, same-type labels cost 0.5 plus the
// Levenshtein distance normalized by the longer label length (so renames
// range over (0.5, 1.5]), and cross-type renames get the sentinel cost.
type LabelCostModel struct {
	Sentinel float64
}

// NewLabelCostModel returns a LabelCostModel with the default sentinel cost.
func NewLabelCostModel() *LabelCostModel {
	return &LabelCostModel{Sentinel: SentinelCost}
}

func (m *LabelCostModel) Rename(a, b Label) float64 {
	if a.Type != b.Type {
		return m.Sentinel
	}
	if a.Text == b.Text {
		return 0
	}
	at, bt := coreText(a), coreText(b)
	maxLen := len(at)
	if len(bt) > maxLen {
		maxLen = len(bt)
	}
	if maxLen == 0 {
		return 0.5
	}
	return 0.5 + float64(levenshtein(at, bt))/float64(maxLen)
}

// coreText strips the structural quoting from a label so that textual
// similarity is measured over the underlying key or string value, not over
// the encoding's punctuation.
func coreText(l Label) string {
	switch l.Type {
	case LabelKey:
		// `"key":` -> key
		return l.Text[1 : len(l.Text)-2]
	case LabelValue:
		if len(l.Text) >= 2 && l.Text[0] == '"' && l.Text[len(l.Text)-1] == '"' {
			return l.Text[1 : len(l.Text)-1]
		}
	}
	return l.Text
}

func (m *LabelCostModel) Insert(Label) float64 { return 1 }
func (m *LabelCostModel) Delete(Label) float64 { return 1 }

// Floor is 0.5: a non-identical same-type rename costs just above 0.5 while
// insertions and deletions cost 1.
func (m *LabelCostModel) Floor() float64 { return 0.5 }

// levenshtein computes the edit distance between two strings using the
// two-row dynamic program, byte-wise.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			min := sub
			if del < min {
				min = del
			}
			if ins < min {
				min = ins
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
