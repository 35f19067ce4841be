package history

import "time"

// Entry is one recorded search.
type Entry struct {
	ID            int64     `json:"id"`
	Query         string    `json:"query"`
	ResultCount   int       `json:"resultCount"`
	TopResultName string    `json:"topResultName,omitempty"`
	TopResultType string    `json:"topResultType,omitempty"`
	ExecutedAt    time.Time `json:"executedAt"`
}

// RecordInput holds the fields for recording a search.
type RecordInput struct {
	Query         string
	ResultCount   int
	TopResultName string
	TopResultType string
}

// ListOptions controls pagination of the history listing.
type ListOptions struct {
	Page     int
	PageSize int
}

// ListResponse is a paginated history listing.
type ListResponse struct {
	Items      []*Entry `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalCount int64    `json:"totalCount"`
}
