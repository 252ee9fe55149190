// Package cli provides output formatting for the oshiete command.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/search"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms for %q\n", response.Total, response.QueryTime, response.Query)
	if response.AutoFuzzy {
		fmt.Fprintln(w, "(no exact matches; fuzzy matching was enabled automatically)")
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
	}
	fmt.Fprintln(w)
	for _, result := range response.Results {
		writeOneResult(w, result)
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.4f (Semantic: %.4f, Keyword: %.4f)\n",
		result.Rank, result.Score, result.SemanticScore, result.KeywordScore)
	fmt.Fprintf(w, "ID: %s\n", result.Article.ID)
	fmt.Fprintf(w, "Q: %s\n", Truncate(result.Article.Question, 120))
	if result.Article.Category != "" || len(result.Article.Tags) > 0 {
		parts := make([]string, 0, 2)
		if result.Article.Category != "" {
			parts = append(parts, "Category: "+result.Article.Category)
		}
		if len(result.Article.Tags) > 0 {
			parts = append(parts, "Tags: "+strings.Join(result.Article.Tags, ", "))
		}
		fmt.Fprintln(w, strings.Join(parts, " | "))
	}
	fmt.Fprintf(w, "\n%s\n", result.Snippet)
	fmt.Fprintln(w)
}

// PrintSearchResults prints search results to stdout in text format (backward compatible).
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

// WriteStats writes corpus statistics to w in the given format.
func WriteStats(w io.Writer, stats *search.Stats, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	default:
		writeStatsText(w, stats)
		return nil
	}
}

func writeStatsText(w io.Writer, stats *search.Stats) {
	fmt.Fprintf(w, "Articles:      %d\n", stats.Articles)
	fmt.Fprintf(w, "Vector index:  %d vectors, %d dimensions\n", stats.VectorSize, stats.Dimensions)
	fmt.Fprintf(w, "Keyword index: %d documents\n", stats.KeywordDocs)
	if len(stats.Categories) > 0 {
		fmt.Fprintln(w, "Categories:")
		for _, c := range sortedCounts(stats.Categories) {
			fmt.Fprintf(w, "  %s: %d\n", c.name, c.count)
		}
	}
	if len(stats.Tags) > 0 {
		fmt.Fprintln(w, "Tags:")
		for _, c := range sortedCounts(stats.Tags) {
			fmt.Fprintf(w, "  %s: %d\n", c.name, c.count)
		}
	}
	if len(stats.TopViewed) > 0 {
		fmt.Fprintln(w, "Top viewed:")
		for i, a := range stats.TopViewed {
			fmt.Fprintf(w, "  %d. %s (%d views)\n", i+1, TruncateWords(a.Question, 12), a.ViewCount)
		}
	}
}

type nameCount struct {
	name  string
	count int
}

// sortedCounts orders map entries by count descending, then name, so text
// output is stable across runs.
func sortedCounts(m map[string]int) []nameCount {
	out := make([]nameCount, 0, len(m))
	for name, count := range m {
		out = append(out, nameCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
