// Package scoring provides tiered textual relevance scoring for media items
// returned by an upstream search.
package scoring

import "fmt"

// Config holds configurable weights and thresholds for the scoring
// algorithm. Primary tier weights must strictly decrease from ExactMatch
// down to Baseline so that stronger relevance signals always dominate; this
// is enforced by Validate.
type Config struct {
	// Primary tier weights, strongest signal first.
	ExactMatch           float64 `mapstructure:"exact_match"`
	ExactMatchNoStop     float64 `mapstructure:"exact_match_no_stop"`
	StartsWithMatch      float64 `mapstructure:"starts_with_match"`
	WordBoundaryMatch    float64 `mapstructure:"word_boundary_match"`
	ReverseContainsMatch float64 `mapstructure:"reverse_contains_match"`
	ContainsMatch        float64 `mapstructure:"contains_match"`
	FuzzyMatchHigh       float64 `mapstructure:"fuzzy_match_high"`
	FuzzyMatchMedium     float64 `mapstructure:"fuzzy_match_medium"`
	NgramMatch           float64 `mapstructure:"ngram_match"`
	Baseline             float64 `mapstructure:"baseline"`

	// Thresholds and scaling bands for the fuzzy and n-gram tiers. A
	// similarity above the high/n-gram threshold scales linearly within
	// the band above the tier's base weight.
	FuzzyHighThreshold   float64 `mapstructure:"fuzzy_high_threshold"`
	FuzzyMediumThreshold float64 `mapstructure:"fuzzy_medium_threshold"`
	NgramThreshold       float64 `mapstructure:"ngram_threshold"`
	FuzzyScaleBand       float64 `mapstructure:"fuzzy_scale_band"`
	NgramScaleBand       float64 `mapstructure:"ngram_scale_band"`

	// ReverseTokenMinLength is the minimum query token length considered
	// for reverse-contains token equality, to avoid single-letter false
	// positives.
	ReverseTokenMinLength int `mapstructure:"reverse_token_min_length"`

	// Secondary field bonuses.
	ArtistExactBonus    float64 `mapstructure:"artist_exact_bonus"`
	ArtistPartialBonus  float64 `mapstructure:"artist_partial_bonus"`
	AlbumFieldBonus     float64 `mapstructure:"album_field_bonus"`
	AuthorExactBonus    float64 `mapstructure:"author_exact_bonus"`
	AuthorPartialBonus  float64 `mapstructure:"author_partial_bonus"`
	NarratorBonus       float64 `mapstructure:"narrator_bonus"`
	CreatorExactBonus   float64 `mapstructure:"creator_exact_bonus"`
	CreatorPartialBonus float64 `mapstructure:"creator_partial_bonus"`
	DescriptionBonus    float64 `mapstructure:"description_bonus"`

	// Status bonuses, additive regardless of the primary tier.
	LibraryBonus  float64 `mapstructure:"library_bonus"`
	FavoriteBonus float64 `mapstructure:"favorite_bonus"`
}

// DefaultConfig returns the default scoring weights.
func DefaultConfig() Config {
	return Config{
		ExactMatch:           100,
		ExactMatchNoStop:     98,
		StartsWithMatch:      90,
		WordBoundaryMatch:    85,
		ReverseContainsMatch: 80,
		ContainsMatch:        70,
		FuzzyMatchHigh:       55,
		FuzzyMatchMedium:     45,
		NgramMatch:           30,
		Baseline:             10,

		FuzzyHighThreshold:   0.85,
		FuzzyMediumThreshold: 0.70,
		NgramThreshold:       0.45,
		FuzzyScaleBand:       10,
		NgramScaleBand:       10,

		ReverseTokenMinLength: 3,

		ArtistExactBonus:    10,
		ArtistPartialBonus:  5,
		AlbumFieldBonus:     4,
		AuthorExactBonus:    10,
		AuthorPartialBonus:  5,
		NarratorBonus:       4,
		CreatorExactBonus:   10,
		CreatorPartialBonus: 5,
		DescriptionBonus:    3,

		LibraryBonus:  5,
		FavoriteBonus: 5,
	}
}

// Validate checks that the config preserves tier ordering so that each tier
// numerically dominates every weaker one, including the scaled fuzzy and
// n-gram bands. A config failing validation is a construction-time error,
// never discovered at scoring time.
func (c Config) Validate() error {
	ordered := []struct {
		name  string
		value float64
	}{
		{"exact_match", c.ExactMatch},
		{"exact_match_no_stop", c.ExactMatchNoStop},
		{"starts_with_match", c.StartsWithMatch},
		{"word_boundary_match", c.WordBoundaryMatch},
		{"reverse_contains_match", c.ReverseContainsMatch},
		{"contains_match", c.ContainsMatch},
		{"fuzzy_match_high", c.FuzzyMatchHigh},
		{"fuzzy_match_medium", c.FuzzyMatchMedium},
		{"ngram_match", c.NgramMatch},
		{"baseline", c.Baseline},
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].value <= ordered[i].value {
			return fmt.Errorf("scoring config: %s (%.2f) must be greater than %s (%.2f)",
				ordered[i-1].name, ordered[i-1].value, ordered[i].name, ordered[i].value)
		}
	}

	if c.Baseline < 0 {
		return fmt.Errorf("scoring config: baseline must not be negative")
	}
	if c.FuzzyMatchHigh+c.FuzzyScaleBand >= c.ContainsMatch {
		return fmt.Errorf("scoring config: fuzzy_match_high plus fuzzy_scale_band must stay below contains_match")
	}
	if c.NgramMatch+c.NgramScaleBand >= c.FuzzyMatchMedium {
		return fmt.Errorf("scoring config: ngram_match plus ngram_scale_band must stay below fuzzy_match_medium")
	}
	if c.FuzzyHighThreshold <= c.FuzzyMediumThreshold {
		return fmt.Errorf("scoring config: fuzzy_high_threshold must be greater than fuzzy_medium_threshold")
	}
	for name, th := range map[string]float64{
		"fuzzy_high_threshold":   c.FuzzyHighThreshold,
		"fuzzy_medium_threshold": c.FuzzyMediumThreshold,
		"ngram_threshold":        c.NgramThreshold,
	} {
		if th <= 0 || th >= 1 {
			return fmt.Errorf("scoring config: %s must be between 0 and 1 exclusive", name)
		}
	}
	if c.ReverseTokenMinLength < 1 {
		return fmt.Errorf("scoring config: reverse_token_min_length must be at least 1")
	}
	return nil
}
