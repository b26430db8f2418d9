package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/mythsandlegends/spawnwiki/pkg/spawn"
)

var (
	wikiLinkPattern  = regexp.MustCompile(`\[\[[^|\]]*\|([^\]]*)\]\]`)
	wikiMediaPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)
)

// plainCell strips DokuWiki markup from a rendered cell so the same row
// data can feed a Markdown table.
func plainCell(cell string) string {
	cell = wikiLinkPattern.ReplaceAllString(cell, "$1")
	cell = wikiMediaPattern.ReplaceAllString(cell, "")
	cell = strings.ReplaceAll(cell, "**", "")
	cell = strings.ReplaceAll(cell, ` \\ `, "; ")
	cell = strings.Join(strings.Fields(cell), " ")
	if cell == "" {
		return " "
	}
	return cell
}

// Markdown writes the species page as a Markdown document, for local
// preview without a wiki.
func (r *Renderer) Markdown(w io.Writer, species string, merged []spawn.Record) error {
	name := r.DisplayName(species)
	active := r.activeColumns(merged)
	headers := append(append([]string{}, baseColumns...), active...)

	rows := make([][]string, 0, len(merged))
	for _, rec := range merged {
		row := r.rowData(rec, active)
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = plainCell(row[h])
		}
		rows = append(rows, cells)
	}

	doc := md.NewMarkdown(w)
	doc.H1(fmt.Sprintf("Spawn Data: %s (Gen %s, #%s)", name, r.dex.Generation(species), r.dex.Number(species))).
		LF().
		PlainTextf("Natural spawning conditions for %s (Version: %s).", name, r.cfg.Version).
		LF()
	doc.Table(md.TableSet{
		Header: headers,
		Rows:   rows,
	})
	doc.LF().
		HorizontalRule().
		PlainTextf("Data Version: %s", r.cfg.Version)
	return doc.Build()
}
