// Package loader reads spawn pool JSON files from a datapack directory
// tree and groups their records by species.
//
// Per the batch contract, a broken source file never aborts the run: it
// is logged, counted, and skipped. Only an unreadable root directory is
// fatal.
package loader

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

// Result is the outcome of one directory load.
type Result struct {
	// Species maps a normalized species name to its spawn records, in
	// file traversal order.
	Species map[string][]spawn.Record

	// Files is the number of spawn files parsed successfully.
	Files int

	// SkippedFiles counts unreadable, malformed, or disabled files.
	SkippedFiles int

	// SkippedRecords counts records dropped for a missing or invalid
	// species name.
	SkippedRecords int
}

// Records returns the total number of records loaded.
func (r *Result) Records() int {
	n := 0
	for _, recs := range r.Species {
		n += len(recs)
	}
	return n
}

// Load walks dir recursively and parses every *.json spawn file.
func Load(ctx context.Context, dir string) (*Result, error) {
	log := logging.Ctx(ctx)

	result := &Result{Species: make(map[string][]spawn.Record)}

	err := godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: false, // deterministic traversal keeps merge output stable
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			loadFile(ctx, path, result)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable path")
			result.SkippedFiles++
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, errors.WrapIO("walk", dir, err)
	}

	log.Info().
		Int("files", result.Files).
		Int("species", len(result.Species)).
		Int("records", result.Records()).
		Int("skipped_files", result.SkippedFiles).
		Int("skipped_records", result.SkippedRecords).
		Str("dir", dir).
		Msg("Loaded spawn data")

	return result, nil
}

// loadFile parses one spawn file into the result, logging and counting
// anything it has to skip.
func loadFile(ctx context.Context, path string, result *Result) {
	log := logging.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable spawn file")
		result.SkippedFiles++
		return
	}

	var file spawn.File
	if err := json.Unmarshal(data, &file); err != nil {
		log.Warn().
			Err(errors.WrapParse("json", path, err)).
			Str("file", path).
			Msg("Skipping malformed spawn file")
		result.SkippedFiles++
		return
	}

	if !file.IsEnabled() {
		log.Debug().Str("file", path).Msg("Skipping disabled spawn file")
		result.SkippedFiles++
		return
	}

	result.Files++
	for i, rec := range file.Spawns {
		species, ok := spawn.NormalizeSpecies(rec.Pokemon)
		if !ok {
			log.Warn().
				Str("file", path).
				Int("entry", i+1).
				Str("pokemon", rec.Pokemon).
				Msg("Skipping spawn record with missing or invalid species")
			result.SkippedRecords++
			continue
		}
		rec.Pokemon = species
		result.Species[species] = append(result.Species[species], rec)
	}
}
