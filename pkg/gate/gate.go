// Package gate decides whether a freshly rendered page differs
// meaningfully from the published one.
//
// Both texts are reduced to a canonical line form before fingerprinting,
// so line ending style and trailing whitespace never trigger a write. The
// package is pure: it performs no I/O and the publisher owns the actual
// write.
package gate

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pmezard/go-difflib/difflib"
)

// Normalize reduces a document to its canonical form: LF line endings,
// no trailing whitespace per line, no leading or trailing blank space
// around the whole document. Idempotent.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Fingerprint returns a content digest of the text as given. Only
// equality of fingerprints is meaningful; callers wanting whitespace
// insensitivity normalize first.
func Fingerprint(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// ShouldPublish reports whether next differs from existing after
// normalization. An absent existing page is passed as the empty string
// and is never an error: publishing then simply creates the page.
func ShouldPublish(existing, next string) bool {
	return Fingerprint(Normalize(existing)) != Fingerprint(Normalize(next))
}

// Diff renders a unified diff of the normalized texts, for edit
// summaries and debug logs. Returns the empty string when the documents
// are equal under normalization.
func Diff(existing, next string) string {
	a := Normalize(existing)
	b := Normalize(next)
	if a == b {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "published",
		ToFile:   "rendered",
		Context:  2,
	})
	if err != nil {
		return "(diff unavailable)"
	}
	return diff
}
