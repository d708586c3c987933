// ABOUTME: Name normalization for same-person heuristics
// ABOUTME: Lowercases, trims, and drops honorific tokens
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var honorifics = map[string]bool{
	"dr": true, "dr.": true,
	"mr": true, "mr.": true,
	"mrs": true, "mrs.": true,
	"ms": true, "ms.": true,
	"prof": true, "prof.": true,
}

// NormalizeName joins first and last, folds case, and removes honorifics.
func NormalizeName(first, last string) string {
	var parts []string
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	lower := cases.Lower(language.Und).String(strings.Join(parts, " "))

	kept := make([]string, 0, len(parts))
	for _, tok := range strings.Fields(lower) {
		if honorifics[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
