package models

import "time"

// Pagination bounds applied by the search orchestrator.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// DateRange bounds createdAt filtering. Both sides are optional and
// inclusive when present.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// SearchRequest is a faceted search: free text plus structured filters.
// Defaults are applied by the orchestrator, never expected of the caller.
type SearchRequest struct {
	Query     string     `json:"query,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Sentiment string     `json:"sentiment,omitempty"`
	SortBy    string     `json:"sortBy,omitempty"`
	Page      int        `json:"page,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// SearchResponse is the paginated result envelope.
type SearchResponse struct {
	Notes      []Note `json:"notes"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
}
