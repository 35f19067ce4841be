// Package textnorm converts human text into comparable forms for relevance
// matching: lowercased, diacritic-folded, punctuation-stripped, and
// optionally stopword-free.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	apostropheRegex    = regexp.MustCompile(`[''\x60\x{2018}\x{2019}\x{02BC}]`)
	specialCharsRegex  = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpaceRegex = regexp.MustCompile(`\s+`)
)

// stopwords are common English function words removed before comparison so
// that matching focuses on meaningful terms.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "and": {},
	"or": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
}

// Query holds the reusable normalized forms of a search term. It is derived
// deterministically from the raw input and carries no hidden state.
type Query struct {
	Normalized       string
	WithoutStopwords string
	Tokens           []string
}

// IsEmpty reports whether the query normalized to nothing useful.
func (q Query) IsEmpty() bool { return q.Normalized == "" }

// NormalizeQuery produces the normalized forms of a raw search term. It never
// fails: input that is empty or reduces to nothing yields an empty Query.
func NormalizeQuery(raw string) Query {
	normalized := Normalize(raw)
	withoutStop := StripStopwords(normalized)
	return Query{
		Normalized:       normalized,
		WithoutStopwords: withoutStop,
		Tokens:           Tokenize(withoutStop),
	}
}

// Normalize lowercases text, folds diacritics to their base letters, strips
// apostrophes (within-word punctuation), replaces remaining special
// characters with spaces, and collapses runs of whitespace. Apostrophes are
// stripped rather than replaced so "Guns N' Roses" and "Guns N Roses" both
// normalize to "guns n roses".
func Normalize(text string) string {
	normalized := strings.ToLower(text)
	normalized = foldDiacritics(normalized)
	normalized = apostropheRegex.ReplaceAllString(normalized, "")
	normalized = specialCharsRegex.ReplaceAllString(normalized, " ")
	normalized = multipleSpaceRegex.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// NormalizeText normalizes arbitrary candidate text and removes stopwords in
// one pass, for comparing item fields against a stopword-free query.
func NormalizeText(text string) string {
	return StripStopwords(Normalize(text))
}

// StripStopwords removes stopword tokens from already-normalized text and
// rejoins the remainder with single spaces. Text consisting only of
// stopwords reduces to the empty string.
func StripStopwords(normalized string) string {
	if normalized == "" {
		return ""
	}
	var kept []string
	for _, token := range strings.Fields(normalized) {
		if _, ok := stopwords[token]; !ok {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

// Tokenize splits normalized text on whitespace, discarding empty tokens.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Fields(text)
}

// IsStopword reports whether the token is on the stopword list.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldDiacritics strips combining marks so accented characters fold to their
// base letters ("Beyoncé" -> "beyonce" after lowercasing).
func foldDiacritics(s string) string {
	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		return folded
	}
	return s
}
