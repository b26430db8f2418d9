// Package pokedex loads the species reference table used to decorate
// rendered pages with generation and dex numbers.
package pokedex

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

// Entry is the reference data for one species.
type Entry struct {
	Number     int `json:"pokedex" yaml:"pokedex"`
	Generation int `json:"generation" yaml:"generation"`
}

// Placeholders used when a species has no reference entry. Rendering
// degrades gracefully; it never fails on a missing entry.
const (
	UnknownNumber     = "???"
	UnknownGeneration = "unknown"
)

// Table maps normalized species names to their reference entries.
type Table map[string]Entry

// Load reads a reference table from a JSON or YAML file. Both formats go
// through the YAML decoder, which accepts JSON as a subset.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if len(table) == 0 {
		return nil, errors.NewParseError("yaml", path, "reference table is empty", nil)
	}
	return table, nil
}

// Has reports whether the table has an entry for the species.
func (t Table) Has(species string) bool {
	_, ok := t[species]
	return ok
}

// Generation returns the species' generation as display text, or the
// unknown placeholder.
func (t Table) Generation(species string) string {
	if e, ok := t[species]; ok && e.Generation > 0 {
		return fmt.Sprintf("%d", e.Generation)
	}
	return UnknownGeneration
}

// Number returns the species' dex number as display text, or the unknown
// placeholder.
func (t Table) Number(species string) string {
	if e, ok := t[species]; ok && e.Number > 0 {
		return fmt.Sprintf("%d", e.Number)
	}
	return UnknownNumber
}
