package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// knownConditionKeys have dedicated table columns; anything else lands
// in the Other Conditions column.
var knownConditionKeys = map[string]bool{
	"biomes":                       true,
	"canSeeSky":                    true,
	"timeRange":                    true,
	"isRaining":                    true,
	"isThundering":                 true,
	"key_item":                     true,
	"neededNearbyBlocks":           true,
	"required_cells":               true,
	"required_cores":               true,
	"pokemon_in_party_requirement": true,
	"item_requirement":             true,
}

// formatScalar renders a single JSON scalar for a table cell.
func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return " "
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// formatNumber renders a count-like value without a trailing .0.
func formatNumber(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// itemIcon renders the inline icon markup for a namespaced item id.
// Unqualified ids get no icon.
func itemIcon(itemID string) string {
	if strings.Contains(itemID, ":") {
		return "{{:" + itemID + ".png?nolink&16}}"
	}
	return ""
}

// conditionLink links a condition key to its documentation page.
func (r *Renderer) conditionLink(key, display string) string {
	if display == "" {
		display = key
	}
	return Link(r.cfg.ConditionNamespace+":"+key, display)
}

// itemLink links an item id to its section on the items page.
func (r *Renderer) itemLink(itemID string) string {
	anchor := strings.ReplaceAll(itemID, ":", "_")
	return Link(r.cfg.ItemNamespace+"#"+anchor, itemID)
}

// formatConditionValue renders a condition value for its table cell,
// adding links where the key calls for them.
func (r *Renderer) formatConditionValue(key string, value any) string {
	if value == nil {
		return " "
	}

	// Merged records carry biome sets as []string; raw JSON gives []any.
	if list, ok := value.([]string); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := strings.TrimSpace(item); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return " "
		}
		return CellBreak(parts)
	}

	if list, ok := value.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := strings.TrimSpace(formatScalar(item)); s != "" && s != " " {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return " "
		}
		return CellBreak(parts)
	}

	if s, ok := value.(string); ok && s == "" {
		return " "
	}

	if key == "key_item" {
		itemID := formatScalar(value)
		return strings.TrimSpace(itemIcon(itemID) + " " + r.itemLink(itemID))
	}

	return formatScalar(value)
}

// sortedKeys returns a condition set's keys in stable order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
