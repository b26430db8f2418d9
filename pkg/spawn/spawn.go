// Package spawn defines the spawn rule data model read from datapack JSON.
//
// A spawn file holds a list of rule records, each describing when and where
// one species may appear. Condition values are deliberately kept JSON-shaped
// (any); the canonical package owns the typed, order-independent view used
// for merging.
package spawn

import (
	"regexp"
	"strings"
)

// Bucket names the rarity pool a rule draws from (common, rare, ...).
type Bucket = string

// WeightMultiplier scales a rule's weight while its own conditions hold.
type WeightMultiplier struct {
	Multiplier float64        `json:"multiplier"`
	Condition  map[string]any `json:"condition,omitempty"`
}

// Record is one spawn rule instance.
type Record struct {
	ID               string            `json:"id,omitempty"`
	Pokemon          string            `json:"pokemon"`
	Presets          []string          `json:"presets,omitempty"`
	Type             string            `json:"type,omitempty"`
	Context          string            `json:"context,omitempty"`
	Bucket           Bucket            `json:"bucket,omitempty"`
	Level            any               `json:"level,omitempty"`
	Weight           float64           `json:"weight,omitempty"`
	WeightMultiplier *WeightMultiplier `json:"weightMultiplier,omitempty"`
	Condition        map[string]any    `json:"condition,omitempty"`
	Anticondition    map[string]any    `json:"anticondition,omitempty"`
}

// File is the on-disk spawn pool wrapper.
type File struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Spawns  []Record `json:"spawns"`
}

// IsEnabled reports whether the file's records participate in the run.
// A missing enabled flag counts as enabled.
func (f *File) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// speciesPattern is the set of species names accepted from spawn files.
var speciesPattern = regexp.MustCompile(`^[a-z0-9_:-]+$`)

// NormalizeSpecies lowercases and trims a species name and reports
// whether the result is usable as a page key.
func NormalizeSpecies(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || !speciesPattern.MatchString(name) {
		return name, false
	}
	return name, true
}

// Clone returns a copy of the record with its own top-level condition maps,
// so merge output can be modified without touching the input record.
func (r Record) Clone() Record {
	out := r
	if r.Condition != nil {
		out.Condition = make(map[string]any, len(r.Condition))
		for k, v := range r.Condition {
			out.Condition[k] = v
		}
	}
	if r.Anticondition != nil {
		out.Anticondition = make(map[string]any, len(r.Anticondition))
		for k, v := range r.Anticondition {
			out.Anticondition[k] = v
		}
	}
	if r.Presets != nil {
		out.Presets = append([]string(nil), r.Presets...)
	}
	return out
}

// Biomes returns the record's biome tags as a flat list. Spawn files carry
// either a list or a single string under the biomes condition key.
func (r Record) Biomes() []string {
	raw, ok := r.Condition["biomes"]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, b := range v {
			if s, ok := b.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
