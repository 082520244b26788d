package diagnosis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestionCutoff is the minimum similarity ratio for a candidate to
// be suggested.
const suggestionCutoff = 0.3

// maxSuggestions caps how many close matches are returned.
const maxSuggestions = 5

// Suggest returns up to maxSuggestions candidate names similar to the
// searched name, best match first. Similarity is a normalized
// Levenshtein ratio with Unicode case folding.
func Suggest(searched string, candidates []string) []string {
	if searched == "" || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		name  string
		ratio float64
	}

	matches := make([]scored, 0, len(candidates))
	folded := strings.ToLower(searched)
	for _, candidate := range candidates {
		ratio := similarity(folded, strings.ToLower(candidate))
		if ratio >= suggestionCutoff {
			matches = append(matches, scored{name: candidate, ratio: ratio})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].ratio != matches[b].ratio {
			return matches[a].ratio > matches[b].ratio
		}
		return matches[a].name < matches[b].name
	})

	n := maxSuggestions
	if n > len(matches) {
		n = len(matches)
	}
	out := make([]string, 0, n)
	for _, m := range matches[:n] {
		out = append(out, m.name)
	}
	return out
}

// similarity maps Levenshtein distance to a 0..1 ratio.
func similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}
