// Package models defines core data structures for articles, queries, and search results.
package models

import "time"

// Article is a single help-center entry: a question, its answer, and the
// engagement signals readers have left on it.
type Article struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Category        string    `json:"category,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	HelpfulCount    int       `json:"helpful_count"`
	NotHelpfulCount int       `json:"not_helpful_count"`
	ViewCount       int       `json:"view_count"`
	Pinned          bool      `json:"pinned"`
	Source          string    `json:"source,omitempty"` // file the article was loaded from
	Embedding       []float64 `json:"-"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// HelpfulRatio returns the percentage of votes that were helpful, in [0, 100],
// or nil when the article has no votes at all. The distinction matters for
// relevance scoring: zero helpful votes out of many is a real signal, no votes
// is no signal.
func (a *Article) HelpfulRatio() *float64 {
	total := a.HelpfulCount + a.NotHelpfulCount
	if total <= 0 {
		return nil
	}
	ratio := float64(a.HelpfulCount) / float64(total) * 100
	return &ratio
}

// Text returns the question and answer joined, the form fed to the embedder
// and the keyword index.
func (a *Article) Text() string {
	if a.Question == "" {
		return a.Answer
	}
	if a.Answer == "" {
		return a.Question
	}
	return a.Question + "\n\n" + a.Answer
}
