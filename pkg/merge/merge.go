// Package merge folds together spawn records that differ only by their
// biome list.
//
// Two records describing the same rule in different biomes are one rule
// applicable in a wider context: grouping keys are built from every rule
// attribute except the biomes condition, and biome values are unioned
// across each group. The first record seen for a group stays its
// representative, so output is deterministic for a fixed input order.
package merge

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mythsandlegends/spawnwiki/pkg/canonical"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

// AccumulatingKey is the condition attribute unioned across merged
// records instead of participating in the grouping key.
const AccumulatingKey = "biomes"

// group accumulates one merged output record.
type group struct {
	biomes map[string]struct{}
	rep    spawn.Record
}

// Merge deduplicates records sharing a canonical key. Each output record
// is its group's representative with the biomes condition replaced by the
// sorted union of the group's biome tags. Records whose key cannot be
// canonicalized are emitted standalone under a synthetic unique key.
func Merge(ctx context.Context, records []spawn.Record) []spawn.Record {
	groups := make(map[string]*group, len(records))
	var order []string

	for _, rec := range records {
		key, err := Key(rec)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("id", rec.ID).
				Str("species", rec.Pokemon).
				Msg("Record key not canonicalizable, emitting standalone")
			key = uniqueKey(rec)
		}

		g, ok := groups[key]
		if !ok {
			g = &group{biomes: make(map[string]struct{}), rep: rec}
			groups[key] = g
			order = append(order, key)
		}
		for _, b := range rec.Biomes() {
			g.biomes[b] = struct{}{}
		}
	}

	out := make([]spawn.Record, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rec := g.rep.Clone()
		if rec.Condition == nil {
			rec.Condition = make(map[string]any, 1)
		}
		rec.Condition[AccumulatingKey] = sortedSet(g.biomes)
		out = append(out, rec)
	}
	return out
}

// Key builds the canonical grouping key for one record: everything that
// must match for two records to be interchangeable, excluding the
// accumulating biomes condition.
func Key(rec spawn.Record) (string, error) {
	conditions := make(map[string]any, len(rec.Condition))
	for k, v := range rec.Condition {
		if k != AccumulatingKey {
			conditions[k] = v
		}
	}
	conditions = canonical.PresortConditions(conditions)

	var multiplier any
	if rec.WeightMultiplier != nil {
		multiplier = map[string]any{
			"multiplier": rec.WeightMultiplier.Multiplier,
			"condition":  rec.WeightMultiplier.Condition,
		}
	}

	cv, err := canonical.Canonicalize(map[string]any{
		"context":          rec.Context,
		"level":            rec.Level,
		"bucket":           rec.Bucket,
		"weight":           rec.Weight,
		"weightMultiplier": multiplier,
		"condition":        conditions,
		"anticondition":    rec.Anticondition,
		"presets":          canonical.SortedStrings(rec.Presets),
	})
	if err != nil {
		return "", err
	}
	return cv.Key(), nil
}

// uniqueKey synthesizes a key no other record can share, so a record that
// defeats canonicalization still reaches the output un-merged.
func uniqueKey(rec spawn.Record) string {
	if rec.ID != "" {
		return "unique:" + rec.ID
	}
	return "unique:" + uuid.NewString()
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
