// Package fuzzy quantifies string similarity tolerant of small misspellings.
package fuzzy

import "github.com/hbollon/go-edlib"

// Similarity returns the Jaro-Winkler similarity of two strings in [0,1].
// Jaro-Winkler rewards common prefixes and tolerates transpositions, which
// suits media titles where users typically get the start right. Empty
// operands carry no signal and return 0. The result is clamped defensively.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	sim := float64(edlib.JaroWinklerSimilarity(a, b))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// BestTokenMatch returns the highest pairwise Similarity across the full
// cross-product of query tokens and candidate tokens, so a multi-word query
// can find its best matching single word inside a multi-word name. Returns 0
// if either token set is empty.
func BestTokenMatch(queryTokens, candidateTokens []string) float64 {
	var best float64
	for _, q := range queryTokens {
		for _, c := range candidateTokens {
			if sim := Similarity(q, c); sim > best {
				best = sim
				if best >= 1 {
					return 1
				}
			}
		}
	}
	return best
}
