// Package fuzzy provides normalized string-similarity helpers shared by the
// extractor and the matcher.
package fuzzy

import (
	"strings"

	"github.com/agext/levenshtein"
)

var params = levenshtein.NewParams()

// Ratio returns the normalized Levenshtein similarity of two strings in
// [0,1], case-insensitive. Two empty strings are identical.
func Ratio(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), params)
}

// PartialRatio returns the best Ratio between the shorter string and any
// equal-length window of the longer one. It rewards a short alias embedded in
// a long utterance the way a full-string ratio cannot.
func PartialRatio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 1
		}
		return 0
	}

	needle := string(ra)
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		s := levenshtein.Similarity(needle, string(rb[i:i+len(ra)]), params)
		if s > best {
			best = s
		}
		if best == 1 {
			break
		}
	}
	return best
}

// BestMatch returns the choice with the highest Ratio against query and its
// score. Ties keep the earlier choice. An empty choice list returns ("", 0).
func BestMatch(query string, choices []string) (string, float64) {
	var (
		bestChoice string
		bestScore  float64
	)
	for _, c := range choices {
		if s := Ratio(query, c); s > bestScore {
			bestChoice, bestScore = c, s
		}
	}
	return bestChoice, bestScore
}
