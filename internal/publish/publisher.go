// Package publish drives the per-species pipeline: merge the loaded
// records, render the page, compare against the published copy and
// write only when the content actually changed.
package publish

import (
	"context"
	"sort"
	"sync"

	"github.com/mythsandlegends/spawnwiki/internal/pokedex"
	"github.com/mythsandlegends/spawnwiki/internal/render"
	"github.com/mythsandlegends/spawnwiki/pkg/errors"
	"github.com/mythsandlegends/spawnwiki/pkg/gate"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
	"github.com/mythsandlegends/spawnwiki/pkg/merge"
	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

// Store is the remote wiki surface the publisher needs.
type Store interface {
	Page(ctx context.Context, name string) (string, error)
	PutPage(ctx context.Context, name, text, summary string, minor bool) error
}

// DefaultConcurrency is how many pages are processed at once.
const DefaultConcurrency = 4

// Config controls one publication run.
type Config struct {
	// Summary is the base edit summary for every write.
	Summary string

	// CommitHash, when set, is appended to the edit summary. Only the
	// first seven characters are used.
	CommitHash string

	// Concurrency bounds simultaneous page round trips. Zero means
	// DefaultConcurrency.
	Concurrency int

	// DryRun renders and compares but never writes.
	DryRun bool
}

// Result tallies one publication run.
type Result struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int

	// FailedPages lists the page names that could not be published.
	FailedPages []string
}

// status of a single page after processing.
type status int

const (
	statusUpdated status = iota
	statusUnchanged
	statusSkipped
	statusFailed
)

type outcome struct {
	species string
	page    string
	status  status
	err     error
}

// Publisher runs the pipeline against one wiki.
type Publisher struct {
	store    Store
	renderer *render.Renderer
	dex      pokedex.Table
	cfg      Config
}

// New creates a publisher.
func New(store Store, renderer *render.Renderer, dex pokedex.Table, cfg Config) *Publisher {
	if cfg.Summary == "" {
		cfg.Summary = "Automated spawn data update"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if len(cfg.CommitHash) > 7 {
		cfg.CommitHash = cfg.CommitHash[:7]
	}
	return &Publisher{store: store, renderer: renderer, dex: dex, cfg: cfg}
}

// summary builds the edit summary for this run.
func (p *Publisher) summary() string {
	if p.cfg.CommitHash != "" {
		return p.cfg.Summary + " (" + p.cfg.CommitHash + ")"
	}
	return p.cfg.Summary
}

// Run processes every species concurrently and returns the tally. The
// error is non-nil only when the run as a whole was cut short; per-page
// failures land in the result.
func (p *Publisher) Run(ctx context.Context, species map[string][]spawn.Record) (*Result, error) {
	logger := logging.FromContext(ctx)

	names := make([]string, 0, len(species))
	for name := range species {
		names = append(names, name)
	}
	sort.Strings(names)

	logger.Info().
		Int("species_count", len(names)).
		Int("concurrency", p.cfg.Concurrency).
		Bool("dry_run", p.cfg.DryRun).
		Msg("Publishing spawn pages")

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Concurrency)
	resultChan := make(chan outcome, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string, records []spawn.Record) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			resultChan <- p.publishSpecies(ctx, name, records)
		}(name, species[name])
	}

	wg.Wait()
	close(resultChan)

	result := &Result{}
	for out := range resultChan {
		switch out.status {
		case statusUpdated:
			result.Updated++
		case statusUnchanged:
			result.Unchanged++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
			result.FailedPages = append(result.FailedPages, out.page)
			logger.Error().Err(out.err).
				Str("species", out.species).
				Str("page", out.page).
				Msg("Page publication failed")
		}
	}
	sort.Strings(result.FailedPages)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// publishSpecies handles one species end to end.
func (p *Publisher) publishSpecies(ctx context.Context, species string, records []spawn.Record) outcome {
	ctx = logging.WithSpecies(ctx, species)
	log := logging.Ctx(ctx)

	if !p.dex.Has(species) {
		log.Warn().Msg("Species missing from reference table, skipping")
		return outcome{species: species, status: statusSkipped}
	}

	page := p.renderer.PageName(species)
	out := outcome{species: species, page: page}

	if err := ctx.Err(); err != nil {
		out.status = statusFailed
		out.err = err
		return out
	}

	merged := merge.Merge(ctx, records)
	rendered := p.renderer.Page(species, merged)

	existing, err := p.store.Page(ctx, page)
	if err != nil {
		if !errors.IsNotFound(err) {
			out.status = statusFailed
			out.err = err
			return out
		}
		existing = ""
	}

	if !gate.ShouldPublish(existing, rendered) {
		log.Debug().Str("page", page).Msg("Content unchanged, skipping write")
		out.status = statusUnchanged
		return out
	}

	log.Debug().Str("page", page).Msg(gate.Diff(existing, rendered))

	if p.cfg.DryRun {
		log.Info().Str("page", page).Msg("Dry run, would update page")
		out.status = statusUpdated
		return out
	}

	if err := p.store.PutPage(ctx, page, rendered, p.summary(), false); err != nil {
		out.status = statusFailed
		out.err = err
		return out
	}

	log.Info().Str("page", page).Int("rule_count", len(merged)).Msg("Page updated")
	out.status = statusUpdated
	return out
}
