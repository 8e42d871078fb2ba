// Package slug derives the canonical URL identifier of a product from its
// title. The transform is deliberately minimal: no diacritic folding or
// punctuation handling beyond apostrophes, for compatibility with existing
// slugs.
package slug

import "strings"

// Derive returns the canonical slug for a title: lowercased, every space
// replaced with an underscore, every apostrophe removed.
func Derive(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	return s
}
