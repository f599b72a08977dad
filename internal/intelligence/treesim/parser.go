package treesim

import (
	"strings"

	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
)

// LabelType classifies a tree node label by the JSON construct it encodes.
// Cost models charge the sentinel cost for renames across label types.
type LabelType int

const (
	// LabelObject marks an object node ("{}").
	LabelObject LabelType = iota
	// LabelArray marks an array node ("[]").
	LabelArray
	// LabelKey marks an object member key node (`"key":`).
	LabelKey
	// LabelValue marks a scalar leaf: string, number, boolean or null.
	LabelValue
)

// Label is a single tree node label with its classified type and the
// unescaped label text.
type Label struct {
	Type LabelType
	Text string
}

// Equal reports whether two labels have identical type and text.
func (l Label) Equal(o Label) bool {
	return l.Type == o.Type && l.Text == o.Text
}

// Tree is a labeled ordered tree in the postorder array representation used
// by the edit-distance algorithm.  Labels[i] is the label of the i-th node
// in postorder, lld[i] the postorder index of its leftmost leaf descendant,
// and keyroots the postorder indices of all key-root nodes in increasing
// order.
type Tree struct {
	Labels   []Label
	lld      []int
	keyroots []int
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	return len(t.Labels)
}

// parseNode is the temporary linked form used while reading bracket input;
// it is flattened into postorder arrays immediately after parsing.
type parseNode struct {
	label    Label
	children []*parseNode
}

// classifyLabel determines the LabelType of an unescaped label string.
func classifyLabel(text string) LabelType {
	switch {
	case text == "{}":
		return LabelObject
	case text == "[]":
		return LabelArray
	case len(text) >= 3 && text[0] == '"' && strings.HasSuffix(text, `":`):
		return LabelKey
	default:
		return LabelValue
	}
}

// ParseBracket parses a bracket-notation string into its postorder tree
// form.  The input must contain exactly one root node; braces inside labels
// must be escaped with a backslash.
func ParseBracket(s string) (*Tree, error) {
	var (
		root  *parseNode
		stack []*parseNode
		label strings.Builder
	)

	attach := func(n *parseNode) error {
		if len(stack) == 0 {
			if root != nil {
				return apperrors.New(apperrors.ErrCodeBracketParseFailed,
					"bracket input contains more than one root node")
			}
			root = n
			return nil
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return nil, apperrors.New(apperrors.ErrCodeBracketParseFailed,
					"dangling escape at end of bracket input")
			}
			i++
			label.WriteByte(s[i])
		case '{':
			// A node's label ends at its first child's opening brace.
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				if len(parent.children) == 0 {
					text := label.String()
					parent.label = Label{Type: classifyLabel(text), Text: text}
				}
			}
			node := &parseNode{}
			if err := attach(node); err != nil {
				return nil, err
			}
			stack = append(stack, node)
			label.Reset()
		case '}':
			if len(stack) == 0 {
				return nil, apperrors.New(apperrors.ErrCodeBracketParseFailed,
					"unbalanced closing brace in bracket input")
			}
			top := stack[len(stack)-1]
			if len(top.children) == 0 {
				text := label.String()
				top.label = Label{Type: classifyLabel(text), Text: text}
			}
			stack = stack[:len(stack)-1]
			label.Reset()
		default:
			label.WriteByte(c)
		}
	}

	if len(stack) != 0 {
		return nil, apperrors.New(apperrors.ErrCodeBracketParseFailed,
			"unbalanced opening brace in bracket input")
	}
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeBracketParseFailed,
			"bracket input contains no nodes")
	}
	return flatten(root), nil
}

// flatten converts the linked parse tree into postorder arrays and computes
// the leftmost-leaf-descendant and key-root indices required by the
// edit-distance algorithm.
func flatten(root *parseNode) *Tree {
	t := &Tree{}

	var walk func(n *parseNode) int
	walk = func(n *parseNode) int {
		lld := -1
		for _, c := range n.children {
			childLLD := walk(c)
			if lld == -1 {
				lld = childLLD
			}
		}
		idx := len(t.Labels)
		if lld == -1 {
			lld = idx // leaf: its own leftmost leaf descendant
		}
		t.Labels = append(t.Labels, n.label)
		t.lld = append(t.lld, lld)
		return lld
	}
	walk(root)

	// A node is a key root when no proper ancestor shares its leftmost
	// leaf descendant.  In postorder that is exactly the last node for
	// each distinct lld value.
	seen := make(map[int]bool, len(t.lld))
	for i := len(t.lld) - 1; i >= 0; i-- {
		if !seen[t.lld[i]] {
			seen[t.lld[i]] = true
			t.keyroots = append(t.keyroots, i)
		}
	}
	// reverse into increasing order
	for i, j := 0, len(t.keyroots)-1; i < j; i, j = i+1, j-1 {
		t.keyroots[i], t.keyroots[j] = t.keyroots[j], t.keyroots[i]
	}

	return t
}
