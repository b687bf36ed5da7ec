package models

// SearchResult is a single hit: the matching chunk and its cosine similarity to the query.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SearchResponse is the response for a search request. Results are ordered best first.
type SearchResponse struct {
	Query     string          `json:"query"`
	Provider  string          `json:"provider"`
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
}
