package models

import "strings"

// Result count bounds offered to users.
const (
	DefaultLimit = 3
	MaxLimit     = 10
)

// SearchQuery is a question to run against the index.
type SearchQuery struct {
	Query      string `json:"query"`
	Provider   string `json:"provider,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	ShowScores *bool  `json:"show_scores,omitempty"`
}

// Validate trims the query, rejects it when blank, and clamps Limit into [1, MaxLimit].
// A zero Limit becomes DefaultLimit.
func (q *SearchQuery) Validate() error {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return ErrEmptyQuery
	}
	q.Limit = ClampLimit(q.Limit, DefaultLimit, MaxLimit)
	return nil
}

// ClampLimit maps n into [1, max], substituting def for non-positive n.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	return n
}
