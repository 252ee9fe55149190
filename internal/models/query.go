package models

import "fmt"

// SearchQuery represents a search request with optional filters.
type SearchQuery struct {
	Query          string   `json:"query"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
	Category       string   `json:"category,omitempty"`       // restrict to one category
	Tags           []string `json:"tags,omitempty"`           // require all listed tags
	MinScore       float64  `json:"min_score,omitempty"`      // drop results scoring below this
	SemanticWeight float64  `json:"semantic_weight,omitempty"`
	KeywordWeight  float64  `json:"keyword_weight,omitempty"` // 0 leaves keyword fusion off
	FuzzyEnabled   bool     `json:"fuzzy_enabled,omitempty"`  // enable fuzzy matching for typo tolerance
}

// Validate ensures the search query has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes limit, offset,
// and weights. When both weights are zero the query runs purely semantic.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = 5
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.SemanticWeight < 0 {
		q.SemanticWeight = 0
	}
	if q.KeywordWeight < 0 {
		q.KeywordWeight = 0
	}
	if q.SemanticWeight == 0 && q.KeywordWeight == 0 {
		q.SemanticWeight = 1.0
	}
	return nil
}
