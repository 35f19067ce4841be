// Package history records executed searches for later inspection.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service provides search-history bookkeeping.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// Record stores one executed search.
func (s *Service) Record(ctx context.Context, input RecordInput) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (query, result_count, top_result_name, top_result_type, executed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		input.Query,
		input.ResultCount,
		nullString(input.TopResultName),
		nullString(input.TopResultType),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// List returns recorded searches, newest first, with pagination.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_history`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, result_count, top_result_name, top_result_type, executed_at
		 FROM search_history
		 ORDER BY executed_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.PageSize, (opts.Page-1)*opts.PageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0, opts.PageSize)
	for rows.Next() {
		var (
			entry   Entry
			topName sql.NullString
			topType sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.ResultCount, &topName, &topType, &entry.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.TopResultName = topName.String
		entry.TopResultType = topType.String
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return &ListResponse{
		Items:      entries,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalCount: total,
	}, nil
}

// Clear deletes all recorded searches.
func (s *Service) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Prune deletes entries older than the retention window and returns how many
// were removed.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE executed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("Pruned old search history")
	}
	return removed, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
