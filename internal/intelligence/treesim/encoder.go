// Package treesim implements the tree-similarity engine: JSON-to-bracket
// encoding, bracket-notation parsing, tree edit distance with pluggable cost
// models, an inverted-index similarity lookup, and minimum-cost assignment.
package treesim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
)

// valueKind enumerates the JSON value kinds tracked by the ordered parser.
type valueKind int

const (
	kindObject valueKind = iota
	kindArray
	kindString
	kindNumber
	kindBool
	kindNull
)

// jsonMember is a single object member with its source-order position
// preserved.
type jsonMember struct {
	key   string
	value *jsonValue
}

// jsonValue is an ordered JSON value.  The standard map-based decoding loses
// object member order, so the encoder parses the token stream itself.
type jsonValue struct {
	kind    valueKind
	members []jsonMember
	elems   []*jsonValue
	str     string
	num     json.Number
	boolean bool
}

// parseOrdered decodes a single JSON value from data, preserving object
// member order and raw number text.
func parseOrdered(data []byte) (*jsonValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*jsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseFromToken(dec, tok)
}

func parseFromToken(dec *json.Decoder, tok json.Token) (*jsonValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &jsonValue{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.members = append(obj.members, jsonMember{key: key, value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &jsonValue{kind: kindArray}
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr.elems = append(arr.elems, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return &jsonValue{kind: kindString, str: t}, nil
	case json.Number:
		return &jsonValue{kind: kindNumber, num: t}, nil
	case bool:
		return &jsonValue{kind: kindBool, boolean: t}, nil
	case nil:
		return &jsonValue{kind: kindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// asciiFilter drops every byte outside the 7-bit ASCII range.
func asciiFilter(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 128 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// stripWhitespace removes every whitespace character, including interior
// ones, so that formatting-only differences between documents do not show up
// as label differences.
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeBraces prefixes both curly braces with a backslash so they cannot be
// confused with the structural braces of the bracket notation.
func escapeBraces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// formatNumber renders a JSON number the way downstream labels expect it:
// integral values without a decimal point, everything else in the shortest
// float representation.
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) &&
		f >= math.MinInt64 && f <= math.MaxInt64 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodeValue(v *jsonValue, b *strings.Builder, sortKeys bool) {
	switch v.kind {
	case kindObject:
		b.WriteString(`{\{\}`)
		members := v.members
		if sortKeys {
			members = append([]jsonMember(nil), v.members...)
			sort.SliceStable(members, func(i, j int) bool {
				return members[i].key < members[j].key
			})
		}
		for _, m := range members {
			b.WriteString(`{"`)
			b.WriteString(escapeBraces(asciiFilter(m.key)))
			b.WriteString(`":`)
			encodeValue(m.value, b, sortKeys)
			b.WriteByte('}')
		}
		b.WriteByte('}')
	case kindArray:
		b.WriteString(`{[]`)
		for _, e := range v.elems {
			encodeValue(e, b, sortKeys)
		}
		b.WriteByte('}')
	case kindString:
		b.WriteString(`{"`)
		b.WriteString(escapeBraces(stripWhitespace(asciiFilter(v.str))))
		b.WriteString(`"}`)
	case kindNumber:
		b.WriteByte('{')
		b.WriteString(formatNumber(v.num))
		b.WriteByte('}')
	case kindBool:
		if v.boolean {
			b.WriteString("{True}")
		} else {
			b.WriteString("{False}")
		}
	case kindNull:
		b.WriteString("{null}")
	}
}

// Encode converts a single JSON document into its bracket-notation string.
// Object member order is preserved unless sortKeys is set, in which case
// members are emitted in ascending key order.
func Encode(data []byte, sortKeys bool) (string, error) {
	v, err := parseOrdered(data)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeCBOMParseFailed, "failed to parse JSON document")
	}
	var b strings.Builder
	encodeValue(v, &b, sortKeys)
	return b.String(), nil
}

// EncodeComponents converts a JSON array into one bracket string per array
// element, in array order.  It returns an error when data is not valid JSON
// or its top-level value is not an array.
func EncodeComponents(data []byte, sortKeys bool) ([]string, error) {
	v, err := parseOrdered(data)
	if err != nil {
		if err == io.EOF {
			return nil, apperrors.New(apperrors.ErrCodeCBOMParseFailed, "empty JSON input")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCBOMParseFailed, "failed to parse JSON document")
	}
	if v.kind != kindArray {
		return nil, apperrors.New(apperrors.ErrCodeComponentsMissing, "top-level JSON value is not an array")
	}
	out := make([]string, 0, len(v.elems))
	for _, e := range v.elems {
		var b strings.Builder
		encodeValue(e, &b, sortKeys)
		out = append(out, b.String())
	}
	return out, nil
}
