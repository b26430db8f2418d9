package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythsandlegends/spawnwiki/internal/loader"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	logging.CaptureForTest(t)
	dir := t.TempDir()

	writeFile(t, dir, "articuno.json", `{
	  "enabled": true,
	  "spawns": [
	    {"id": "articuno-1", "pokemon": "Articuno", "bucket": "ultra-rare", "weight": 0.5,
	     "condition": {"biomes": ["#is_snowy"]}}
	  ]
	}`)
	writeFile(t, dir, "nested/zapdos.json", `{
	  "spawns": [
	    {"id": "zapdos-1", "pokemon": "zapdos", "bucket": "ultra-rare", "weight": 0.5},
	    {"id": "zapdos-2", "pokemon": "zapdos", "bucket": "rare", "weight": 2}
	  ]
	}`)
	writeFile(t, dir, "disabled.json", `{"enabled": false, "spawns": [{"pokemon": "mew"}]}`)
	writeFile(t, dir, "broken.json", `{"spawns": [`)
	writeFile(t, dir, "badname.json", `{"spawns": [{"pokemon": "not a name!"}, {"bucket": "rare"}]}`)
	writeFile(t, dir, "notes.txt", "not json, ignored")

	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Species, 2)
	assert.Len(t, result.Species["articuno"], 1)
	assert.Len(t, result.Species["zapdos"], 2)
	assert.Equal(t, 3, result.Records())

	// broken.json and disabled.json are skipped files; badname.json
	// parses but contributes only skipped records.
	assert.Equal(t, 2, result.SkippedFiles)
	assert.Equal(t, 2, result.SkippedRecords)
	assert.Equal(t, 3, result.Files)
}

func TestLoadNormalizesSpeciesNames(t *testing.T) {
	logging.CaptureForTest(t)
	dir := t.TempDir()
	writeFile(t, dir, "mew.json", `{"spawns": [{"pokemon": "  MEW  ", "bucket": "rare", "weight": 1}]}`)

	result, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	require.Contains(t, result.Species, "mew")
	assert.Equal(t, "mew", result.Species["mew"][0].Pokemon)
}

func TestLoadMissingDirIsFatal(t *testing.T) {
	logging.CaptureForTest(t)
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
