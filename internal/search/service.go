// Package search orchestrates ranked searches: it fetches candidates from
// the music server, re-ranks them locally by relevance, and serves the
// sorted result.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/media"
	"github.com/tunestream/tunestream/internal/search/scoring"
)

// ErrEmptyQuery is returned when a search is requested with a blank query.
var ErrEmptyQuery = errors.New("search: query must not be empty")

// Provider supplies raw candidate items for a query.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]media.Item, error)
}

// Broadcaster sends events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Recorder stores executed searches.
type Recorder interface {
	Record(ctx context.Context, input history.RecordInput) error
}

// Service orchestrates ranked searches.
type Service struct {
	provider    Provider
	scoringCfg  scoring.Config
	fetchLimit  int
	recorder    Recorder
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewService creates a new search service. The scoring config is validated
// once here; scorers built from it per request skip re-validation.
func NewService(provider Provider, scoringCfg scoring.Config, fetchLimit int, logger zerolog.Logger) (*Service, error) {
	if err := scoringCfg.Validate(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if fetchLimit <= 0 {
		fetchLimit = 100
	}
	return &Service{
		provider:   provider,
		scoringCfg: scoringCfg,
		fetchLimit: fetchLimit,
		logger:     logger.With().Str("component", "search").Logger(),
	}, nil
}

// SetRecorder sets the history recorder. Recording failures are logged, not
// surfaced to the caller.
func (s *Service) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// SetBroadcaster sets the WebSocket broadcaster for search events.
func (s *Service) SetBroadcaster(broadcaster Broadcaster) {
	s.broadcaster = broadcaster
}

// RankedItem is one scored candidate.
type RankedItem struct {
	Score float64    `json:"score"`
	Type  media.Type `json:"mediaType"`
	Item  media.Item `json:"item"`
}

// Result is a ranked, paginated search result.
type Result struct {
	Query  string       `json:"query"`
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Items  []RankedItem `json:"items"`
}

// Search fetches candidates for the query and returns them ranked by
// descending relevance. Ties keep the upstream order. Limit and offset
// window the ranked list after sorting.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 || limit > s.fetchLimit {
		limit = s.fetchLimit
	}
	if offset < 0 {
		offset = 0
	}

	startTime := time.Now()

	candidates, err := s.provider.Search(ctx, query, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("search: upstream search failed: %w", err)
	}

	// One scorer per request: the query cache is per-instance state and
	// ranking one result set is sequential anyway.
	scorer := scoring.New(s.scoringCfg)

	ranked := make([]RankedItem, 0, len(candidates))
	for _, item := range candidates {
		ranked = append(ranked, RankedItem{
			Score: scorer.ScoreItem(item, query),
			Type:  item.MediaType(),
			Item:  item,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	total := len(ranked)
	window := ranked
	if offset >= len(window) {
		window = nil
	} else {
		window = window[offset:]
	}
	if len(window) > limit {
		window = window[:limit]
	}

	result := &Result{
		Query:  query,
		Total:  total,
		Offset: offset,
		Items:  window,
	}

	s.recordSearch(ctx, result)
	s.broadcastCompleted(result, time.Since(startTime))

	s.logger.Info().
		Str("query", query).
		Int("candidates", total).
		Int("returned", len(window)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Search completed")

	return result, nil
}

func (s *Service) recordSearch(ctx context.Context, result *Result) {
	if s.recorder == nil {
		return
	}
	input := history.RecordInput{
		Query:       result.Query,
		ResultCount: result.Total,
	}
	if len(result.Items) > 0 && result.Offset == 0 {
		input.TopResultName = result.Items[0].Item.ItemName()
		input.TopResultType = string(result.Items[0].Type)
	}
	if err := s.recorder.Record(ctx, input); err != nil {
		s.logger.Warn().Err(err).Str("query", result.Query).Msg("Failed to record search history")
	}
}

func (s *Service) broadcastCompleted(result *Result, elapsed time.Duration) {
	if s.broadcaster == nil {
		return
	}
	err := s.broadcaster.Broadcast("search:completed", map[string]any{
		"query":     result.Query,
		"total":     result.Total,
		"elapsedMs": elapsed.Milliseconds(),
	})
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to broadcast search event")
	}
}
