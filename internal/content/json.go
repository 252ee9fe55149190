package content

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/hyperjump/oshiete/internal/models"
)

// jsonArticle mirrors the exported article JSON shape, minus server-managed
// fields like timestamps and source.
type jsonArticle struct {
	ID              string   `json:"id"`
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	HelpfulCount    int      `json:"helpful_count"`
	NotHelpfulCount int      `json:"not_helpful_count"`
	ViewCount       int      `json:"view_count"`
	Pinned          bool     `json:"pinned"`
}

// parseJSON parses a .json file holding either a single article object or an
// array of articles. Entries with neither question nor answer are skipped.
func parseJSON(raw []byte) ([]*models.Article, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty JSON file")
	}

	var entries []jsonArticle
	if trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
	} else {
		var single jsonArticle
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("parse JSON object: %w", err)
		}
		entries = []jsonArticle{single}
	}

	articles := make([]*models.Article, 0, len(entries))
	for _, e := range entries {
		if e.Question == "" && e.Answer == "" {
			continue
		}
		articles = append(articles, &models.Article{
			ID:              e.ID,
			Question:        e.Question,
			Answer:          e.Answer,
			Category:        e.Category,
			Tags:            e.Tags,
			HelpfulCount:    e.HelpfulCount,
			NotHelpfulCount: e.NotHelpfulCount,
			ViewCount:       e.ViewCount,
			Pinned:          e.Pinned,
		})
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles in JSON file")
	}
	return articles, nil
}
