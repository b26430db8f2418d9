package canonical

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

// Canonicalize converts any JSON-shaped Go value into its canonical form.
// It is total over the shapes encoding/json produces (nil, bool, float64,
// string, []any, map[string]any) plus the common Go scalar widenings.
// Anything else returns an error wrapping errors.ErrCanonicalize; the
// caller decides whether that is recoverable (the merge engine falls back
// to a synthetic unique key rather than dropping the record).
func Canonicalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Null(), fmt.Errorf("%w: bad number %q", errors.ErrCanonicalize, x.String())
		}
		return Number(f), nil
	case string:
		return String(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			cv, err := Canonicalize(e)
			if err != nil {
				return Null(), err
			}
			elems[i] = cv
		}
		return List(elems...), nil
	case []string:
		elems := make([]Value, len(x))
		for i, s := range x {
			elems[i] = String(s)
		}
		return List(elems...), nil
	case map[string]any:
		pairs := make([]Pair, 0, len(x))
		for k, e := range x {
			cv, err := Canonicalize(e)
			if err != nil {
				return Null(), err
			}
			pairs = append(pairs, Pair{Key: k, Value: cv})
		}
		return Map(pairs...), nil
	default:
		return Null(), fmt.Errorf("%w: unsupported type %T", errors.ErrCanonicalize, v)
	}
}

// MustCanonicalize is Canonicalize for values known to be well-shaped,
// such as literals in tests.
func MustCanonicalize(v any) Value {
	cv, err := Canonicalize(v)
	if err != nil {
		panic(err)
	}
	return cv
}

// SortedStrings returns a sorted copy of a string slice, for fields whose
// order carries no meaning (presets, merged biome sets).
func SortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
