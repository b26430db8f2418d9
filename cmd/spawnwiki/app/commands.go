package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mythsandlegends/spawnwiki/internal/dokuwiki"
	"github.com/mythsandlegends/spawnwiki/internal/loader"
	"github.com/mythsandlegends/spawnwiki/internal/pokedex"
	"github.com/mythsandlegends/spawnwiki/internal/publish"
	"github.com/mythsandlegends/spawnwiki/internal/render"
	"github.com/mythsandlegends/spawnwiki/pkg/errors"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
	"github.com/mythsandlegends/spawnwiki/pkg/merge"
)

// NewUpdateCommand creates the update command: load, merge, render and
// publish every species page to the wiki.
func (a *App) NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Publish spawn pages to the wiki",
		Long: `Update loads every spawn pool file, merges equivalent rules per
species, renders the wiki pages and writes the ones whose content
changed. Credentials come from WIKI_USER and WIKI_PASSWORD.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpdate(cmd)
		},
	}

	cmd.Flags().String("data-dir", "", "spawn pool directory (default "+DefaultDataDir+")")
	cmd.Flags().String("pokedex", "", "species reference file (default "+DefaultPokedexFile+")")
	cmd.Flags().String("wiki-url", "", "wiki root URL")
	cmd.Flags().String("namespace", "", "target page namespace")
	cmd.Flags().String("datapack-version", "", "datapack version stamped into pages")
	cmd.Flags().String("summary", "", "edit summary for page writes")
	cmd.Flags().String("commit", "", "git commit hash appended to the edit summary")
	cmd.Flags().Int("concurrency", 0, "concurrent page round trips")
	cmd.Flags().Bool("dry-run", false, "render and compare without writing")

	return cmd
}

func (a *App) runUpdate(cmd *cobra.Command) error {
	cfg := a.config
	if v := mustGetString(cmd, "data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v := mustGetString(cmd, "pokedex"); v != "" {
		cfg.PokedexFile = v
	}
	if v := mustGetString(cmd, "wiki-url"); v != "" {
		cfg.WikiURL = v
	}
	if v := mustGetString(cmd, "namespace"); v != "" {
		cfg.Namespace = v
	}
	if v := mustGetString(cmd, "datapack-version"); v != "" {
		cfg.DatapackVersion = v
	}
	if v := mustGetString(cmd, "summary"); v != "" {
		cfg.Summary = v
	}
	if v := mustGetString(cmd, "commit"); v != "" {
		cfg.CommitHash = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Concurrency = v
	}
	if v := mustGetBool(cmd, "dry-run"); v {
		cfg.DryRun = true
	}

	ctx := logging.WithLogger(cmd.Context(), a.logger)

	dex, loaded, err := a.loadInputs(ctx)
	if err != nil {
		return err
	}

	client, err := dokuwiki.New(dokuwiki.Config{
		URL:      cfg.WikiURL,
		User:     cfg.WikiUser,
		Password: cfg.WikiPassword,
	})
	if err != nil {
		return err
	}

	wikiVersion, err := client.Connect(ctx)
	if err != nil {
		return err
	}
	a.logger.Info().Str("wiki_version", wikiVersion).Str("url", cfg.WikiURL).Msg("Connected to wiki")

	renderer := render.New(render.Config{
		Namespace: cfg.Namespace,
		Version:   cfg.DatapackVersion,
	}, dex)

	publisher := publish.New(client, renderer, dex, publish.Config{
		Summary:     cfg.Summary,
		CommitHash:  cfg.CommitHash,
		Concurrency: cfg.Concurrency,
		DryRun:      cfg.DryRun,
	})

	result, err := publisher.Run(ctx, loaded.Species)
	if err != nil {
		return err
	}

	if err := publish.WriteSummary(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d page(s) failed to publish", result.Failed)
	}
	return nil
}

// NewRenderCommand creates the render command: produce pages locally
// without touching the wiki.
func (a *App) NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [species...]",
		Short: "Render spawn pages locally",
		Long: `Render produces the pages that update would publish, either to
stdout or to files in an output directory. Useful for previewing a
datapack change before it reaches the wiki.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args)
		},
	}

	cmd.Flags().String("data-dir", "", "spawn pool directory (default "+DefaultDataDir+")")
	cmd.Flags().String("pokedex", "", "species reference file (default "+DefaultPokedexFile+")")
	cmd.Flags().String("datapack-version", "", "datapack version stamped into pages")
	cmd.Flags().String("format", "dokuwiki", "output format: dokuwiki, markdown")
	cmd.Flags().String("out", "", "write one file per species into this directory")

	return cmd
}

func (a *App) runRender(cmd *cobra.Command, args []string) error {
	cfg := a.config
	if v := mustGetString(cmd, "data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v := mustGetString(cmd, "pokedex"); v != "" {
		cfg.PokedexFile = v
	}
	if v := mustGetString(cmd, "datapack-version"); v != "" {
		cfg.DatapackVersion = v
	}
	format := mustGetString(cmd, "format")
	outDir := mustGetString(cmd, "out")

	if format != "dokuwiki" && format != "markdown" {
		return fmt.Errorf("%w: unknown format %q", errors.ErrInvalidInput, format)
	}

	ctx := logging.WithLogger(cmd.Context(), a.logger)

	dex, loaded, err := a.loadInputs(ctx)
	if err != nil {
		return err
	}

	renderer := render.New(render.Config{
		Namespace: cfg.Namespace,
		Version:   cfg.DatapackVersion,
	}, dex)

	names := make([]string, 0, len(loaded.Species))
	for name := range loaded.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(args) > 0 {
		names = filterSpecies(names, args)
		if len(names) == 0 {
			return errors.NewNotFoundError("species", fmt.Sprintf("%v", args))
		}
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return errors.WrapIO("create", outDir, err)
		}
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		merged := merge.Merge(ctx, loaded.Species[name])

		var text string
		var ext string
		if format == "markdown" {
			var buf strings.Builder
			if err := renderer.Markdown(&buf, name, merged); err != nil {
				return errors.WrapPage("render", name, err)
			}
			text, ext = buf.String(), "md"
		} else {
			text, ext = renderer.Page(name, merged), "txt"
		}

		if outDir == "" {
			if _, err := fmt.Fprintln(out, text); err != nil {
				return err
			}
			continue
		}

		path := filepath.Join(outDir, name+"."+ext)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return errors.WrapIO("write", path, err)
		}
		a.logger.Info().Str("species", name).Str("file", path).Msg("Page rendered")
	}
	return nil
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "spawnwiki %s (commit %s, built %s)\n", a.version, a.commit, a.date)
			return err
		},
	}
}

// loadInputs reads the species reference table and the spawn pool tree.
func (a *App) loadInputs(ctx context.Context) (pokedex.Table, *loader.Result, error) {
	cfg := a.config

	dex, err := pokedex.Load(cfg.PokedexFile)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info().Int("species_count", len(dex)).Str("file", cfg.PokedexFile).Msg("Loaded species reference")

	loaded, err := loader.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info().
		Int("files", loaded.Files).
		Int("records", loaded.Records()).
		Int("skipped_files", loaded.SkippedFiles).
		Int("skipped_records", loaded.SkippedRecords).
		Str("dir", cfg.DataDir).
		Msg("Loaded spawn pool data")

	return dex, loaded, nil
}

func filterSpecies(names, wanted []string) []string {
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[strings.ToLower(w)] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := set[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
