// Package textnorm normalizes free-text entity labels so that lookups and
// similarity scoring are insensitive to case, diacritics and spacing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the label, strips diacritics and collapses runs of
// whitespace into single spaces.
func Normalize(label string) string {
	stripped, _, err := transform.String(stripper, label)
	if err != nil {
		stripped = label
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
