package scoring

import (
	"strings"

	"github.com/tunestream/tunestream/internal/media"
	"github.com/tunestream/tunestream/internal/search/fuzzy"
	"github.com/tunestream/tunestream/internal/search/ngram"
	"github.com/tunestream/tunestream/internal/search/textnorm"
)

// prominenceMidBoost is added to the creator partial bonus for the middle
// band of the podcast name-prominence fallback.
const prominenceMidBoost = 4

// Scorer computes relevance scores for candidate media items against a
// query. It memoizes the normalized form of the last query so scoring N
// candidates for one search term normalizes the term once.
//
// The cache is not synchronized: use one Scorer per in-flight search
// request. Ranking one result set is inherently sequential, so this is the
// natural usage pattern.
type Scorer struct {
	config Config

	cachedQueryString string
	cachedQuery       textnorm.Query
}

// New creates a scorer with the given config. The config should have been
// validated with Config.Validate beforehand.
func New(config Config) *Scorer {
	return &Scorer{config: config}
}

// NewDefault creates a scorer with the default configuration.
func NewDefault() *Scorer {
	return New(DefaultConfig())
}

// ClearCache invalidates the cached query representation. Calling this
// between independent search sessions is optional; ScoreItem rebuilds the
// cache whenever the query changes.
func (s *Scorer) ClearCache() {
	s.cachedQueryString = ""
	s.cachedQuery = textnorm.Query{}
}

// ScoreItem returns the relevance score of one candidate item for the query.
// Higher is more relevant. An empty or punctuation-only query, or an item
// whose name normalizes to nothing, scores 0. Callers sort candidates by
// descending score; sorting and pagination are not this component's concern.
func (s *Scorer) ScoreItem(item media.Item, query string) float64 {
	if query != s.cachedQueryString {
		s.cachedQuery = textnorm.NormalizeQuery(query)
		s.cachedQueryString = query
	}
	q := s.cachedQuery
	if q.IsEmpty() {
		return 0
	}

	nameNorm := textnorm.Normalize(item.ItemName())
	if nameNorm == "" {
		return 0
	}
	nameNoStop := textnorm.StripStopwords(nameNorm)

	score := s.primaryScore(q, nameNorm, nameNoStop)
	score += s.secondaryScore(q, item, nameNoStop)

	if album, ok := item.(media.Album); ok && album.InLibrary {
		score += s.config.LibraryBonus
	}
	if item.IsFavorite() {
		score += s.config.FavoriteBonus
	}
	return score
}

// primaryScore walks the ordered tier chain over the candidate's name.
// The first matching tier wins.
func (s *Scorer) primaryScore(q textnorm.Query, nameNorm, nameNoStop string) float64 {
	c := s.config

	// Tier 1: exact equality, raw or stopword-free.
	if nameNorm == q.Normalized {
		return c.ExactMatch
	}
	if nameNoStop != "" && q.WithoutStopwords != "" && nameNoStop == q.WithoutStopwords {
		return c.ExactMatchNoStop
	}

	// Tier 2: candidate starts with the query.
	if strings.HasPrefix(nameNorm, q.Normalized) ||
		(q.WithoutStopwords != "" && strings.HasPrefix(nameNoStop, q.WithoutStopwords)) {
		return c.StartsWithMatch
	}

	// Tier 3: query begins a word inside the candidate.
	if s.wordBoundaryMatch(q, nameNorm) {
		return c.WordBoundaryMatch
	}

	// Tier 4: the query contains extra words around the candidate's name,
	// e.g. query "the ramones" finding candidate "Ramones".
	if s.reverseContainsMatch(q, nameNorm, nameNoStop) {
		return c.ReverseContainsMatch
	}

	// Tier 5: plain substring containment.
	if strings.Contains(nameNorm, q.Normalized) ||
		(q.WithoutStopwords != "" && strings.Contains(nameNoStop, q.WithoutStopwords)) {
		return c.ContainsMatch
	}

	// Tier 6: whole-string fuzzy similarity, typo tolerant.
	sim := fuzzy.Similarity(q.WithoutStopwords, nameNoStop)
	if sim >= c.FuzzyHighThreshold {
		return c.FuzzyMatchHigh + c.FuzzyScaleBand*scaleAbove(sim, c.FuzzyHighThreshold)
	}
	if sim >= c.FuzzyMediumThreshold {
		return c.FuzzyMatchMedium
	}

	// Tier 7: best token-level fuzzy match. Capped at the medium weight
	// because a single matching word is a weaker signal than a close
	// whole-string match.
	if fuzzy.BestTokenMatch(q.Tokens, textnorm.Tokenize(nameNoStop)) >= c.FuzzyHighThreshold {
		return c.FuzzyMatchMedium
	}

	// Tier 8: bigram overlap for partial and compound-word relevance.
	if overlap := ngram.BigramSimilarity(q.WithoutStopwords, nameNoStop); overlap >= c.NgramThreshold {
		return c.NgramMatch + c.NgramScaleBand*scaleAbove(overlap, c.NgramThreshold)
	}

	// The item was returned by the upstream search, so it carries some
	// relevance even when local re-scoring finds no textual signal.
	return c.Baseline
}

func (s *Scorer) wordBoundaryMatch(q textnorm.Query, nameNorm string) bool {
	if strings.Contains(q.Normalized, " ") {
		return strings.HasPrefix(nameNorm, q.Normalized) ||
			strings.Contains(nameNorm, " "+q.Normalized)
	}
	for _, word := range strings.Fields(nameNorm) {
		if strings.HasPrefix(word, q.Normalized) {
			return true
		}
	}
	return false
}

func (s *Scorer) reverseContainsMatch(q textnorm.Query, nameNorm, nameNoStop string) bool {
	if strings.Contains(q.Normalized, nameNorm) {
		return true
	}
	if nameNoStop == "" {
		return false
	}
	for _, token := range q.Tokens {
		if len([]rune(token)) >= s.config.ReverseTokenMinLength && token == nameNoStop {
			return true
		}
	}
	return false
}

// secondaryScore adds type-specific field bonuses on top of the primary
// tier. Types without secondary fields contribute nothing.
func (s *Scorer) secondaryScore(q textnorm.Query, item media.Item, nameNoStop string) float64 {
	switch v := item.(type) {
	case media.Album:
		return s.artistFieldBonus(q, v.ArtistsString())
	case media.Track:
		bonus := s.artistFieldBonus(q, v.ArtistsString())
		if v.Album != nil && containsQuery(q, v.Album.Name) {
			bonus += s.config.AlbumFieldBonus
		}
		return bonus
	case media.Audiobook:
		bonus := s.authorFieldBonus(q, v.AuthorsString())
		if containsQuery(q, v.NarratorsString()) {
			bonus += s.config.NarratorBonus
		}
		return bonus
	case media.Podcast:
		return s.podcastBonus(q, v.Meta, nameNoStop)
	case media.PodcastEpisode:
		return s.podcastBonus(q, v.Meta, nameNoStop)
	case media.Artist, media.Playlist, media.Radio:
		return 0
	default:
		return 0
	}
}

func (s *Scorer) artistFieldBonus(q textnorm.Query, artists string) float64 {
	norm := textnorm.NormalizeText(artists)
	if norm == "" || q.WithoutStopwords == "" {
		return 0
	}
	if norm == q.WithoutStopwords {
		return s.config.ArtistExactBonus
	}
	if strings.Contains(norm, q.WithoutStopwords) {
		return s.config.ArtistPartialBonus
	}
	return 0
}

func (s *Scorer) authorFieldBonus(q textnorm.Query, authors string) float64 {
	norm := textnorm.NormalizeText(authors)
	if norm == "" || q.WithoutStopwords == "" {
		return 0
	}
	if norm == q.WithoutStopwords {
		return s.config.AuthorExactBonus
	}
	if strings.Contains(norm, q.WithoutStopwords) {
		return s.config.AuthorPartialBonus
	}
	return 0
}

// podcastBonus scans the creator-like metadata fields in order, taking the
// first exact match, else the first partial match. The description field
// adds its own bonus independently. When no metadata bonus fires at all, the
// prominence of the query within the item name itself decides a fallback
// bonus.
func (s *Scorer) podcastBonus(q textnorm.Query, meta media.PodcastMeta, nameNoStop string) float64 {
	if q.WithoutStopwords == "" {
		return 0
	}

	var bonus float64
	partialSeen := false
	for _, field := range meta.CreatorFields() {
		norm := textnorm.NormalizeText(field)
		if norm == "" {
			continue
		}
		if norm == q.WithoutStopwords {
			bonus = s.config.CreatorExactBonus
			break
		}
		if !partialSeen && strings.Contains(norm, q.WithoutStopwords) {
			partialSeen = true
		}
	}
	if bonus == 0 && partialSeen {
		bonus = s.config.CreatorPartialBonus
	}

	if containsQuery(q, meta.Description) {
		bonus += s.config.DescriptionBonus
	}

	if bonus > 0 {
		return bonus
	}
	return s.prominenceFallback(q, nameNoStop)
}

// prominenceFallback rewards queries that make up a large share of the item
// name. Multi-word queries scale in three bands by the ratio of query length
// to name length; single-word queries get the flat description bonus.
func (s *Scorer) prominenceFallback(q textnorm.Query, nameNoStop string) float64 {
	if len(q.Tokens) <= 1 {
		return s.config.DescriptionBonus
	}
	nameLen := len([]rune(nameNoStop))
	if nameLen == 0 {
		return s.config.CreatorPartialBonus
	}
	ratio := float64(len([]rune(q.WithoutStopwords))) / float64(nameLen)
	switch {
	case ratio >= 0.5:
		return s.config.CreatorExactBonus
	case ratio >= 0.3:
		return s.config.CreatorPartialBonus + prominenceMidBoost
	default:
		return s.config.CreatorPartialBonus
	}
}

func containsQuery(q textnorm.Query, text string) bool {
	if q.WithoutStopwords == "" {
		return false
	}
	norm := textnorm.NormalizeText(text)
	return norm != "" && strings.Contains(norm, q.WithoutStopwords)
}

// scaleAbove maps value in [threshold,1] linearly onto [0,1].
func scaleAbove(value, threshold float64) float64 {
	if threshold >= 1 {
		return 0
	}
	scaled := (value - threshold) / (1 - threshold)
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}
