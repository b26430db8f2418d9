package canonical

import (
	"sort"
)

// subrecordSortFields maps condition keys holding lists of sub-records to
// the field that defines their canonical order. Without this, two lists
// carrying the same requirements in different file order would produce
// different grouping keys.
var subrecordSortFields = map[string]string{
	"pokemon_in_party_requirement": "species",
	"item_requirement":             "id",
}

// PresortConditions returns a copy of a condition set with every
// sub-record list sorted by its designated key field. Values that are not
// sub-record lists pass through untouched. Idempotent: presorting an
// already sorted set is a no-op.
func PresortConditions(conditions map[string]any) map[string]any {
	if conditions == nil {
		return nil
	}
	out := make(map[string]any, len(conditions))
	for k, v := range conditions {
		if field, ok := subrecordSortFields[k]; ok {
			out[k] = presortList(v, field)
		} else {
			out[k] = v
		}
	}
	return out
}

// presortList sorts a list of sub-records by the given field. A missing
// or non-string field sorts as the empty string. Non-list values and
// lists of non-records are returned unchanged.
func presortList(v any, field string) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	sorted := append([]any(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return subrecordSortKey(sorted[i], field) < subrecordSortKey(sorted[j], field)
	})
	return sorted
}

func subrecordSortKey(elem any, field string) string {
	rec, ok := elem.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := rec[field].(string)
	return s
}
