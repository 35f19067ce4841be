// Package ngram measures partial textual overlap through character n-gram
// comparison, catching compound words and mid-name matches that exact and
// fuzzy tiers miss.
package ngram

// BigramSimilarity returns the Dice coefficient of the adjacent
// character-pair (bigram) multisets of the two strings:
// 2*|intersection| / (|A|+|B|), in [0,1]. Strings shorter than two runes
// have no bigrams and return 0.
func BigramSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[string(ra[i:i+2])]++
	}

	matches := 0
	for i := 0; i < len(rb)-1; i++ {
		bigram := string(rb[i : i+2])
		if counts[bigram] > 0 {
			counts[bigram]--
			matches++
		}
	}

	total := (len(ra) - 1) + (len(rb) - 1)
	return 2 * float64(matches) / float64(total)
}
