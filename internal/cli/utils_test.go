package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/search"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "reset password",
		QueryTime: 42,
		Total:     1,
		Results: []*models.SearchResult{
			{
				Rank:          1,
				Score:         0.91,
				SemanticScore: 0.95,
				KeywordScore:  0.5,
				Snippet:       "Open Settings and click Reset Password...",
				Article: &models.Article{
					ID:       "faq-reset",
					Question: "How do I reset my password?",
					Answer:   "Open Settings and click Reset Password.",
					Category: "account",
					Tags:     []string{"password", "login"},
				},
			},
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := sampleResponse()
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	out := buf.String()
	if out == "" {
		t.Fatal("expected non-empty JSON output")
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.Query != response.Query || decoded.QueryTime != response.QueryTime {
		t.Errorf("decoded query=%q query_time=%d, want query=%q query_time=%d",
			decoded.Query, decoded.QueryTime, response.Query, response.QueryTime)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].Article.ID != "faq-reset" {
		t.Errorf("decoded results: want one result with id faq-reset, got %+v", decoded.Results)
	}
}

func TestWriteSearchResults_JSON_empty(t *testing.T) {
	response := &models.SearchResponse{Query: "q"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("empty response JSON decode: %v", err)
	}
	if decoded.Total != 0 || len(decoded.Results) != 0 {
		t.Errorf("expected empty response, got total=%d results=%d", decoded.Total, len(decoded.Results))
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"Found 1 results",
		"42ms",
		"Rank: 1",
		"ID: faq-reset",
		"How do I reset my password?",
		"Category: account",
		"Tags: password, login",
		"Open Settings and click Reset Password...",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_text_suggestions(t *testing.T) {
	response := sampleResponse()
	response.AutoFuzzy = true
	response.Suggestions = []string{"password"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fuzzy matching was enabled automatically") {
		t.Errorf("expected auto-fuzzy note in output:\n%s", out)
	}
	if !strings.Contains(out, "Did you mean: password?") {
		t.Errorf("expected suggestion line in output:\n%s", out)
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	response := &models.SearchResponse{Query: "x"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, SearchOutputFormat("unknown")); err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteStats_text(t *testing.T) {
	stats := &search.Stats{
		Articles:    3,
		Categories:  map[string]int{"billing": 2, "account": 1},
		Tags:        map[string]int{"invoices": 2, "password": 1},
		VectorSize:  3,
		Dimensions:  8,
		KeywordDocs: 3,
		TopViewed: []*models.Article{
			{ID: "a", Question: "How do I download an invoice?", ViewCount: 900},
		},
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, stats, OutputText); err != nil {
		t.Fatalf("WriteStats(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"Articles:      3",
		"3 vectors, 8 dimensions",
		"3 documents",
		"billing: 2",
		"account: 1",
		"invoices: 2",
		"1. How do I download an invoice? (900 views)",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("stats output missing %q:\n%s", sub, out)
		}
	}
	// Higher counts come first.
	if strings.Index(out, "billing: 2") > strings.Index(out, "account: 1") {
		t.Errorf("expected billing before account:\n%s", out)
	}
}

func TestWriteStats_JSON(t *testing.T) {
	stats := &search.Stats{Articles: 2, Dimensions: 4}
	var buf bytes.Buffer
	if err := WriteStats(&buf, stats, OutputJSON); err != nil {
		t.Fatalf("WriteStats(json): %v", err)
	}
	var decoded search.Stats
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("stats JSON decode: %v", err)
	}
	if decoded.Articles != 2 || decoded.Dimensions != 4 {
		t.Errorf("decoded stats = %+v", decoded)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 5, ""},
		{"short", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"maxLen zero", "ab", 0, "ab"},
		{"maxLen negative", "ab", -1, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}

func TestPrintSearchResults(t *testing.T) {
	response := &models.SearchResponse{Query: "print test", QueryTime: 1}
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
		_ = w.Close()
	}()
	PrintSearchResults(response)
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "Found 0 results") {
		t.Errorf("PrintSearchResults should write to stdout; got %q", out)
	}
}
