package hclutil

import (
	"github.com/agext/levenshtein"
)

// Suggest returns the candidate closest to given, or "" when none is close
// enough to be a plausible typo.
func Suggest(given string, candidates []string) string {
	best := ""
	bestDist := 0
	for _, c := range candidates {
		d := levenshtein.Distance(given, c, nil)
		if d < 3 && (best == "" || d < bestDist) {
			best, bestDist = c, d
		}
	}
	return best
}
