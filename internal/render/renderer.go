// Package render turns merged spawn records into DokuWiki pages, with an
// alternate Markdown form for local preview.
//
// Rendering is direct field-to-text formatting: all the interesting
// deduplication has already happened in the merge package, and the
// publication gate downstream only cares that output is line-oriented
// and deterministic.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mythsandlegends/spawnwiki/internal/pokedex"
	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

// Config carries the namespaces and version stamp baked into pages.
type Config struct {
	// Namespace is the base page namespace, e.g.
	// mythsandlegends:datapack:spawn_pool_world.
	Namespace string

	// ConditionNamespace hosts the per-condition documentation pages.
	ConditionNamespace string

	// ContextNamespace hosts the spawn context documentation pages.
	ContextNamespace string

	// ItemNamespace hosts the item documentation page.
	ItemNamespace string

	// Version is the datapack version stamped into every page.
	Version string
}

// Renderer builds pages for one configuration and reference table.
type Renderer struct {
	cfg   Config
	dex   pokedex.Table
	title cases.Caser
}

// New creates a renderer, filling in default namespaces.
func New(cfg Config, dex pokedex.Table) *Renderer {
	if cfg.Namespace == "" {
		cfg.Namespace = "mythsandlegends:datapack:spawn_pool_world"
	}
	if cfg.ConditionNamespace == "" {
		cfg.ConditionNamespace = "mythsandlegends:conditions"
	}
	if cfg.ContextNamespace == "" {
		cfg.ContextNamespace = cfg.ConditionNamespace + ":context"
	}
	if cfg.ItemNamespace == "" {
		cfg.ItemNamespace = "mythsandlegends:items"
	}
	if cfg.Version == "" {
		cfg.Version = "Unknown"
	}
	return &Renderer{cfg: cfg, dex: dex, title: cases.Title(language.Und)}
}

// optionalColumn is a table column that appears only when some merged
// record carries one of its condition keys.
type optionalColumn struct {
	name  string
	keys  []string
	other bool // catch-all column for unrecognized keys and anticonditions
}

// optionalColumns lists the optional columns in display order.
var optionalColumns = []optionalColumn{
	{name: "CanSeeSky", keys: []string{"canSeeSky"}},
	{name: "Time", keys: []string{"timeRange"}},
	{name: "Weather", keys: []string{"isRaining", "isThundering"}},
	{name: "Key Item", keys: []string{"key_item"}},
	{name: "Nearby Blocks", keys: []string{"neededNearbyBlocks"}},
	{name: "Zygarde Cube", keys: []string{"required_cells", "required_cores"}},
	{name: "Party Pokémon", keys: []string{"pokemon_in_party_requirement"}},
	{name: "Required Items", keys: []string{"item_requirement"}},
	{name: "Other Conditions", other: true},
}

// baseColumns always appear.
var baseColumns = []string{"Context", "Level", "Bucket", "Weight", "Biomes"}

var unsafePageChars = regexp.MustCompile(`[^a-z0-9_]+`)

// PageName derives the wiki page id for a species:
// <namespace>:gen<generation>:<sanitized-species>.
func (r *Renderer) PageName(species string) string {
	safe := strings.Trim(unsafePageChars.ReplaceAllString(strings.ToLower(species), "_"), "_")
	if safe == "" {
		safe = "unknown_" + r.dex.Number(species)
	}
	return fmt.Sprintf("%s:gen%s:%s", r.cfg.Namespace, r.dex.Generation(species), safe)
}

// DisplayName renders the species name for headings.
func (r *Renderer) DisplayName(species string) string {
	return r.title.String(species)
}

// Page renders the full DokuWiki document for one species from its
// merged spawn records.
func (r *Renderer) Page(species string, merged []spawn.Record) string {
	name := r.DisplayName(species)
	b := NewBuilder()

	b.Heading(1, fmt.Sprintf("Spawn Data: %s (Gen %s, #%s)", name, r.dex.Generation(species), r.dex.Number(species)))
	b.LF()
	b.Linef("This page details the natural spawning conditions for %s based on the Myths and Legends datapack (Version: %s).", Bold(name), r.cfg.Version)
	b.LF()

	active := r.activeColumns(merged)
	headers := append(append([]string{}, baseColumns...), active...)

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = r.headerCell(h)
	}
	b.TableHeader(headerCells...)

	for _, rec := range merged {
		cells := make([]string, len(headers))
		row := r.rowData(rec, active)
		for i, h := range headers {
			cell, ok := row[h]
			if !ok || cell == "" {
				cell = " "
			}
			cells[i] = cell
		}
		b.TableRow(cells...)
	}

	b.LF()
	b.HorizontalRule()
	b.Linef("Data Version: %s", r.cfg.Version)
	b.Line("//Page last updated automatically.//")
	return b.String()
}

// activeColumns returns the optional column names used by at least one
// merged record, in display order.
func (r *Renderer) activeColumns(merged []spawn.Record) []string {
	var active []string
	for _, col := range optionalColumns {
		if r.columnActive(col, merged) {
			active = append(active, col.name)
		}
	}
	return active
}

func (r *Renderer) columnActive(col optionalColumn, merged []spawn.Record) bool {
	for _, rec := range merged {
		if col.other {
			for key, value := range rec.Condition {
				if !knownConditionKeys[key] && value != nil {
					return true
				}
			}
			if len(rec.Anticondition) > 0 {
				return true
			}
			continue
		}
		for _, key := range col.keys {
			if v, ok := rec.Condition[key]; ok && v != nil {
				return true
			}
		}
	}
	return false
}

// headerCell renders a column header, linking condition columns to their
// documentation pages.
func (r *Renderer) headerCell(name string) string {
	switch name {
	case "Biomes":
		return "Biomes / " + Link("https://docs.google.com/document/d/1iB0EJSc2r6mRJXIo1n3XpHbZ5udwJVnrh2pXdhTyH8c/edit", "Biome Tags")
	case "CanSeeSky":
		return r.conditionLink("canSeeSky", "")
	case "Time":
		return r.conditionLink("timeRange", "Time")
	case "Weather":
		return r.conditionLink("weather", "Weather")
	case "Key Item":
		return r.conditionLink("key_item", "Key Item")
	case "Nearby Blocks":
		return r.conditionLink("neededNearbyBlocks", "Nearby Blocks")
	case "Zygarde Cube":
		return r.conditionLink("zygarde_cube", "Zygarde Cube")
	case "Party Pokémon":
		return r.conditionLink("pokemon_in_party", "Party Pokémon")
	case "Required Items":
		return r.conditionLink("item_requirement", "Required Items")
	default:
		return name
	}
}

// rowData renders every cell a record can populate, keyed by column name.
func (r *Renderer) rowData(rec spawn.Record, active []string) map[string]string {
	row := make(map[string]string, len(baseColumns)+len(active))

	if rec.Context != "" {
		row["Context"] = Link(r.cfg.ContextNamespace+":"+rec.Context, rec.Context)
	}
	row["Level"] = formatScalar(rec.Level)
	row["Bucket"] = rec.Bucket
	row["Biomes"] = r.formatConditionValue("biomes", rec.Condition["biomes"])
	row["Weight"] = r.weightCell(rec)

	for _, name := range active {
		switch name {
		case "CanSeeSky":
			row[name] = r.formatConditionValue("canSeeSky", rec.Condition["canSeeSky"])
		case "Time":
			row[name] = r.formatConditionValue("timeRange", rec.Condition["timeRange"])
		case "Weather":
			row[name] = r.weatherCell(rec)
		case "Key Item":
			row[name] = r.formatConditionValue("key_item", rec.Condition["key_item"])
		case "Nearby Blocks":
			row[name] = r.formatConditionValue("neededNearbyBlocks", rec.Condition["neededNearbyBlocks"])
		case "Zygarde Cube":
			row[name] = r.zygardeCell(rec)
		case "Party Pokémon":
			row[name] = r.partyCell(rec)
		case "Required Items":
			row[name] = r.requiredItemsCell(rec)
		case "Other Conditions":
			row[name] = r.otherConditionsCell(rec)
		}
	}
	return row
}

// weightCell renders weight plus the multiplier clause when present:
// "5 (x2 if [[...|isThundering]]: true)".
func (r *Renderer) weightCell(rec spawn.Record) string {
	weight := formatNumber(rec.Weight)
	wm := rec.WeightMultiplier
	if wm == nil {
		return weight
	}

	var clauses []string
	for _, key := range sortedKeys(wm.Condition) {
		value := wm.Condition[key]
		if value == nil {
			continue
		}
		clauses = append(clauses, r.conditionLink(key, "")+": "+r.formatConditionValue(key, value))
	}

	out := weight + " (x" + formatNumber(wm.Multiplier)
	if len(clauses) > 0 {
		out += " if " + strings.Join(clauses, "; ")
	}
	return out + ")"
}

func (r *Renderer) weatherCell(rec spawn.Record) string {
	var parts []string
	for _, key := range []string{"isRaining", "isThundering"} {
		if v, ok := rec.Condition[key]; ok && v != nil {
			parts = append(parts, r.conditionLink(key, "")+": "+formatScalar(v))
		}
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) zygardeCell(rec spawn.Record) string {
	var parts []string
	if v, ok := rec.Condition["required_cells"]; ok && v != nil {
		parts = append(parts, formatNumber(v)+" Cells")
	}
	if v, ok := rec.Condition["required_cores"]; ok && v != nil {
		parts = append(parts, formatNumber(v)+" Cores")
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, " / ")
}

func (r *Renderer) partyCell(rec spawn.Record) string {
	reqs, _ := rec.Condition["pokemon_in_party_requirement"].([]any)
	var parts []string
	for _, raw := range reqs {
		req, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		species := "?"
		if s, ok := req["species"].(string); ok && s != "" {
			species = s
		}
		count := any(1)
		if c, ok := req["count"]; ok {
			count = c
		}
		parts = append(parts, formatNumber(count)+"x "+species)
	}
	if len(parts) == 0 {
		return " "
	}
	return CellBreak(parts)
}

func (r *Renderer) requiredItemsCell(rec spawn.Record) string {
	reqs, _ := rec.Condition["item_requirement"].([]any)
	var parts []string
	for _, raw := range reqs {
		req, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		itemID := "?"
		if s, ok := req["id"].(string); ok && s != "" {
			itemID = s
		}
		count := any(1)
		if c, ok := req["count"]; ok {
			count = c
		}
		consume := false
		if c, ok := req["consume"].(bool); ok {
			consume = c
		}
		part := strings.TrimSpace(fmt.Sprintf("%s %s x%s (Consumed: %t)",
			itemIcon(itemID), r.itemLink(itemID), formatNumber(count), consume))
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return " "
	}
	return CellBreak(parts)
}

// otherConditionsCell collects every condition without a dedicated
// column, plus the anticondition set rendered as a NOT block.
func (r *Renderer) otherConditionsCell(rec spawn.Record) string {
	var parts []string
	for _, key := range sortedKeys(rec.Condition) {
		value := rec.Condition[key]
		if knownConditionKeys[key] || value == nil {
			continue
		}
		parts = append(parts, r.conditionLink(key, "")+": "+r.formatConditionValue(key, value))
	}
	if len(rec.Anticondition) > 0 {
		parts = append(parts, Bold("NOT:"))
		for _, key := range sortedKeys(rec.Anticondition) {
			value := rec.Anticondition[key]
			if value == nil {
				continue
			}
			parts = append(parts, "  * "+r.conditionLink(key, "")+": "+r.formatConditionValue(key, value))
		}
	}
	if len(parts) == 0 {
		return " "
	}
	return CellBreak(parts)
}
