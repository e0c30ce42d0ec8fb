package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/promptguide/internal/ir"
)

// Search returns the techniques whose title, definition or best-use text
// contains q, compared under Unicode case folding. Results keep catalog
// order and are not ranked.
//
// q is trimmed first. Deciding what a blank query means is the caller's
// job; Search itself matches every technique for an empty q.
func Search(cat *ir.Catalog, q string) []ir.Technique {
	// Casers are stateful, so each search gets its own.
	folder := cases.Fold()
	needle := folder.String(norm.NFC.String(strings.TrimSpace(q)))

	var out []ir.Technique
	for _, c := range cat.Categories {
		for _, t := range c.Techniques {
			if matches(folder, needle, t.Title, t.Definition, t.BestUse) {
				out = append(out, t)
			}
		}
	}
	return out
}

// IsBlank reports whether q is empty after trimming.
func IsBlank(q string) bool {
	return strings.TrimSpace(q) == ""
}

func matches(folder cases.Caser, needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(folder.String(f), needle) {
			return true
		}
	}
	return false
}
