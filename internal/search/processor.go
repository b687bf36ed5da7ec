package search

import (
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
)

// ProcessQuery trims the question, rejects a blank one with models.ErrEmptyQuery,
// and clamps Limit into [1, maxLimit] with defaultLimit for an unset value.
func ProcessQuery(query *models.SearchQuery, defaultLimit, maxLimit int) error {
	if query == nil {
		return models.ErrEmptyQuery
	}
	query.Query = strings.TrimSpace(query.Query)
	if query.Query == "" {
		return models.ErrEmptyQuery
	}
	query.Provider = strings.ToLower(strings.TrimSpace(query.Provider))
	query.Limit = models.ClampLimit(query.Limit, defaultLimit, maxLimit)
	return nil
}
