package pokedex_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythsandlegends/spawnwiki/internal/pokedex"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "pokedex_data.json", `{
	  "articuno": {"pokedex": 144, "generation": 1},
	  "lugia": {"pokedex": 249, "generation": 2}
	}`)

	table, err := pokedex.Load(path)
	require.NoError(t, err)

	assert.True(t, table.Has("articuno"))
	assert.Equal(t, "144", table.Number("articuno"))
	assert.Equal(t, "2", table.Generation("lugia"))
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "pokedex.yaml", "zygarde:\n  pokedex: 718\n  generation: 6\n")

	table, err := pokedex.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "718", table.Number("zygarde"))
}

func TestMissingEntryDegradesToPlaceholders(t *testing.T) {
	path := writeTemp(t, "pokedex.json", `{"mew": {"pokedex": 151, "generation": 1}}`)
	table, err := pokedex.Load(path)
	require.NoError(t, err)

	assert.False(t, table.Has("missingno"))
	assert.Equal(t, pokedex.UnknownNumber, table.Number("missingno"))
	assert.Equal(t, pokedex.UnknownGeneration, table.Generation("missingno"))
}

func TestLoadErrors(t *testing.T) {
	_, err := pokedex.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	_, err = pokedex.Load(writeTemp(t, "bad.json", `{"broken`))
	assert.Error(t, err)

	_, err = pokedex.Load(writeTemp(t, "empty.json", `{}`))
	assert.Error(t, err)
}
