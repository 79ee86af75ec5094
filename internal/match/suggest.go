package match

import (
	"slices"
)

// Suggest returns the candidate closest to name, or false when none is close
// enough to be a plausible misspelling. Candidates equal to name are never
// suggested.
//
// A candidate is close when its folded form equals the folded name, or is
// within one edit per three runes of it (at least one edit).
func Suggest(name string, candidates []string) (string, bool) {
	folded := Fold(name)
	limit := max(1, len([]rune(folded))/3)

	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	best, bestDist := "", limit+1
	for _, c := range sorted {
		if c == name {
			continue
		}

		d := Levenshtein(folded, Fold(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}

// DidYouMean formats the suggestion for name as a message suffix, or returns
// "" when there is none.
func DidYouMean(name string, candidates []string) string {
	if s, ok := Suggest(name, candidates); ok {
		return " (did you mean " + s + "?)"
	}

	return ""
}
