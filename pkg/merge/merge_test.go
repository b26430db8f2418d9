package merge_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythsandlegends/spawnwiki/pkg/logging"
	"github.com/mythsandlegends/spawnwiki/pkg/merge"
	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

func record(biomes []any, mutate ...func(*spawn.Record)) spawn.Record {
	r := spawn.Record{
		Pokemon:   "larvesta",
		Context:   "grounded",
		Bucket:    "rare",
		Level:     10.0,
		Weight:    5.0,
		Condition: map[string]any{},
	}
	if biomes != nil {
		r.Condition["biomes"] = biomes
	}
	for _, m := range mutate {
		m(&r)
	}
	return r
}

func TestMergeUnionsBiomes(t *testing.T) {
	// Three identical rules covering different biomes collapse into one
	// with the unioned, sorted, deduplicated biome set.
	records := []spawn.Record{
		record([]any{"forest"}),
		record([]any{"plains"}),
		record([]any{"forest", "swamp"}),
	}

	out := merge.Merge(context.Background(), records)

	require.Len(t, out, 1)
	assert.Equal(t, []string{"forest", "plains", "swamp"}, out[0].Condition["biomes"])
	assert.Equal(t, "larvesta", out[0].Pokemon)
}

func TestMergeDistinguishesConditionPresence(t *testing.T) {
	// A rule with isRaining=true and one without the key are different
	// rules and must not merge.
	records := []spawn.Record{
		record([]any{"forest"}, func(r *spawn.Record) { r.Condition["isRaining"] = true }),
		record([]any{"forest"}),
	}

	out := merge.Merge(context.Background(), records)
	assert.Len(t, out, 2)
}

func TestMergeKeyFields(t *testing.T) {
	base := func() spawn.Record { return record([]any{"forest"}) }
	variants := []struct {
		name   string
		mutate func(*spawn.Record)
	}{
		{"context", func(r *spawn.Record) { r.Context = "submerged" }},
		{"level", func(r *spawn.Record) { r.Level = "5-32" }},
		{"bucket", func(r *spawn.Record) { r.Bucket = "common" }},
		{"weight", func(r *spawn.Record) { r.Weight = 9 }},
		{"multiplier", func(r *spawn.Record) {
			r.WeightMultiplier = &spawn.WeightMultiplier{Multiplier: 2, Condition: map[string]any{"isThundering": true}}
		}},
		{"anticondition", func(r *spawn.Record) { r.Anticondition = map[string]any{"structures": []any{"minecraft:village"}} }},
		{"presets", func(r *spawn.Record) { r.Presets = []string{"legendary"} }},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			a := base()
			b := base()
			v.mutate(&b)
			out := merge.Merge(context.Background(), []spawn.Record{a, b})
			assert.Len(t, out, 2, "field %s must participate in the grouping key", v.name)
		})
	}
}

func TestMergePresetOrderIgnored(t *testing.T) {
	a := record([]any{"forest"}, func(r *spawn.Record) { r.Presets = []string{"a", "b"} })
	b := record([]any{"plains"}, func(r *spawn.Record) { r.Presets = []string{"b", "a"} })
	out := merge.Merge(context.Background(), []spawn.Record{a, b})
	assert.Len(t, out, 1)
}

func TestMergeSubrecordOrderIgnored(t *testing.T) {
	party := func(order ...string) []any {
		list := make([]any, len(order))
		for i, s := range order {
			list[i] = map[string]any{"species": s, "count": 1.0}
		}
		return list
	}
	a := record([]any{"forest"}, func(r *spawn.Record) { r.Condition["pokemon_in_party_requirement"] = party("pikachu", "eevee") })
	b := record([]any{"plains"}, func(r *spawn.Record) { r.Condition["pokemon_in_party_requirement"] = party("eevee", "pikachu") })

	out := merge.Merge(context.Background(), []spawn.Record{a, b})
	assert.Len(t, out, 1)
}

func TestMergeRepresentativeIsFirstSeen(t *testing.T) {
	a := record([]any{"forest"}, func(r *spawn.Record) { r.ID = "first" })
	b := record([]any{"plains"}, func(r *spawn.Record) { r.ID = "second" })
	out := merge.Merge(context.Background(), []spawn.Record{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].ID)
}

func TestMergeSingleStringBiome(t *testing.T) {
	records := []spawn.Record{
		record(nil, func(r *spawn.Record) { r.Condition["biomes"] = "forest" }),
		record([]any{"plains"}),
	}
	out := merge.Merge(context.Background(), records)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"forest", "plains"}, out[0].Condition["biomes"])
}

func TestMergeNilConditionStillGetsBiomeSet(t *testing.T) {
	r := spawn.Record{Pokemon: "mew", Bucket: "rare", Weight: 1}
	out := merge.Merge(context.Background(), []spawn.Record{r})
	require.Len(t, out, 1)
	assert.Equal(t, []string{}, out[0].Condition["biomes"])
}

func TestMergeFallbackOnUncanonicalizableRecord(t *testing.T) {
	log := logging.CaptureForTest(t)

	bad := func() spawn.Record {
		return record([]any{"forest"}, func(r *spawn.Record) {
			r.Condition["callback"] = make(chan int) // defeats canonicalization
		})
	}
	records := []spawn.Record{bad(), bad(), record([]any{"plains"})}

	out := merge.Merge(context.Background(), records)

	// The two broken records are emitted standalone, not merged with
	// each other and not dropped.
	assert.Len(t, out, 3)
	log.AssertContains(t, "not canonicalizable")
}

func TestMergeIdempotent(t *testing.T) {
	records := []spawn.Record{
		record([]any{"forest"}),
		record([]any{"plains"}),
		record([]any{"forest"}, func(r *spawn.Record) { r.Condition["isRaining"] = true }),
		record([]any{"swamp"}, func(r *spawn.Record) { r.Bucket = "common" }),
	}

	once := merge.Merge(context.Background(), records)
	twice := merge.Merge(context.Background(), once)

	require.Equal(t, len(once), len(twice))

	keysOf := func(recs []spawn.Record) []string {
		keys := make([]string, 0, len(recs))
		for _, r := range recs {
			k, err := merge.Key(r)
			require.NoError(t, err)
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	assert.Equal(t, keysOf(once), keysOf(twice))

	for i := range once {
		assert.Equal(t, once[i].Condition["biomes"], twice[i].Condition["biomes"])
	}
}

func TestMergeEveryBiomeAppearsExactlyOnce(t *testing.T) {
	records := []spawn.Record{
		record([]any{"a", "b"}),
		record([]any{"b", "c"}),
		record([]any{"d"}, func(r *spawn.Record) { r.Bucket = "common" }),
	}
	out := merge.Merge(context.Background(), records)

	seen := map[string]int{}
	for _, r := range out {
		for _, b := range r.Condition["biomes"].([]string) {
			seen[b]++
		}
	}
	for b, n := range seen {
		assert.Equal(t, 1, n, "biome %s must appear in exactly one output record", b)
	}
	assert.Len(t, seen, 4)
}
