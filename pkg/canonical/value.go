// Package canonical converts JSON-shaped values into a deterministic,
// order-independent form usable as a grouping key.
//
// The conversion is the single choke point for equality decisions in the
// merge engine: two condition sets are interchangeable exactly when their
// canonical keys are byte-identical. Mappings lose enumeration order
// (pairs are key-sorted), sequences keep it, scalars map to themselves.
package canonical

import (
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the closed set of canonical value shapes.
type Kind int

// The canonical value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// Pair is one key/value entry of a canonical map.
type Pair struct {
	Key   string
	Value Value
}

// Value is a canonicalized JSON-shaped value. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	list  []Value
	pairs []Pair // sorted by Key
}

// Null returns the canonical null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a canonical boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a canonical number.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// String returns a canonical string.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// List returns a canonical ordered sequence.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Map returns a canonical unordered mapping. Pairs are sorted by key, so
// any enumeration order of the same entries produces the same Value.
func Map(pairs ...Pair) Value {
	sorted := append([]Pair(nil), pairs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return Value{kind: KindMap, pairs: sorted}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind {
	return v.kind
}

// Equal reports whether two canonical values are identical.
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// Key renders the value as a deterministic string. Equal values produce
// equal keys and distinct values produce distinct keys, so the result is
// directly usable as a Go map key.
func (v Value) Key() string {
	var sb strings.Builder
	v.encode(&sb)
	return sb.String()
}

func (v Value) encode(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("_")
	case KindBool:
		sb.WriteString("b:")
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString("n:")
		sb.WriteString(strconv.FormatFloat(v.n, 'g', -1, 64))
	case KindString:
		sb.WriteString("s:")
		sb.WriteString(strconv.Quote(v.s))
	case KindList:
		sb.WriteString("[")
		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(",")
			}
			e.encode(sb)
		}
		sb.WriteString("]")
	case KindMap:
		sb.WriteString("{")
		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(p.Key))
			sb.WriteString("=")
			p.Value.encode(sb)
		}
		sb.WriteString("}")
	}
}
