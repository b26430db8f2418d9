package render

import (
	"fmt"
	"strings"
)

// Builder assembles DokuWiki markup line by line. Modeled as a fluent
// writer so page assembly reads top to bottom.
type Builder struct {
	sb strings.Builder
}

// NewBuilder creates an empty wikitext builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Heading writes a DokuWiki heading. Level 1 is the largest (six equals
// signs); deeper levels shrink down to two.
func (b *Builder) Heading(level int, text string) *Builder {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	marker := strings.Repeat("=", 7-level)
	b.sb.WriteString(marker + " " + text + " " + marker + "\n")
	return b
}

// Line writes one line of text.
func (b *Builder) Line(text string) *Builder {
	b.sb.WriteString(text + "\n")
	return b
}

// Linef writes one formatted line of text.
func (b *Builder) Linef(format string, args ...any) *Builder {
	return b.Line(fmt.Sprintf(format, args...))
}

// LF writes a blank line.
func (b *Builder) LF() *Builder {
	b.sb.WriteString("\n")
	return b
}

// TableHeader writes a header row: ^ a ^ b ^.
func (b *Builder) TableHeader(cells ...string) *Builder {
	b.sb.WriteString("^ " + strings.Join(cells, " ^ ") + " ^\n")
	return b
}

// TableRow writes a data row: | a | b |.
func (b *Builder) TableRow(cells ...string) *Builder {
	b.sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	return b
}

// HorizontalRule writes a separator line.
func (b *Builder) HorizontalRule() *Builder {
	b.sb.WriteString("----\n")
	return b
}

// String returns the assembled document.
func (b *Builder) String() string {
	return b.sb.String()
}

// Link renders an internal wiki link with display text.
func Link(target, text string) string {
	return "[[" + target + "|" + text + "]]"
}

// Bold renders bold text.
func Bold(text string) string {
	return "**" + text + "**"
}

// CellBreak joins parts with DokuWiki's in-cell line break.
func CellBreak(parts []string) string {
	return strings.Join(parts, ` \\ `)
}
