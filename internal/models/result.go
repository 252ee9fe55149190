package models

// SearchResult represents a single search hit with its article and scores.
type SearchResult struct {
	Article       *Article `json:"article"`
	Score         float64  `json:"score"`
	SemanticScore float64  `json:"semantic_score"`
	KeywordScore  float64  `json:"keyword_score,omitempty"`
	// RelevanceBreakdown itemizes how the semantic relevance score was built.
	// Only set for hits that had a semantic candidate; keyword-only hits carry nil.
	RelevanceBreakdown *RelevanceBreakdown `json:"relevance_breakdown,omitempty"`
	Snippet            string              `json:"snippet,omitempty"`
	Rank               int                 `json:"rank"`
}

// RelevanceBreakdown itemizes the terms of a relevance score: the semantic
// base plus each engagement boost. Final carries the clamp into [0, 1], so
// the individual terms can sum past it.
type RelevanceBreakdown struct {
	Base            float64 `json:"base"`
	HelpfulBoost    float64 `json:"helpful_boost"`
	PopularityBoost float64 `json:"popularity_boost"`
	PinnedBoost     float64 `json:"pinned_boost"`
	Final           float64 `json:"final"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"` // matches before pagination
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	// Suggestions contains "Did you mean?" spelling suggestions when typos are detected.
	// Only populated when FuzzyEnabled is true and misspelled terms are found.
	Suggestions []string `json:"suggestions,omitempty"`
	// AutoFuzzy indicates that fuzzy search was automatically enabled because the
	// initial exact search returned no results.
	AutoFuzzy bool `json:"auto_fuzzy,omitempty"`
}
