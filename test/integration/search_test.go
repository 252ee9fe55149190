// Package integration exercises the pipeline from content files on disk to
// ranked search results.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/content"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/indexer"
	"github.com/hyperjump/oshiete/internal/keyword"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/ranking"
	"github.com/hyperjump/oshiete/internal/search"
	"github.com/hyperjump/oshiete/internal/store"
	"github.com/hyperjump/oshiete/internal/vector"
)

func TestIntegration_FilesToSearch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "reset-password.md"), `---
id: faq-reset
question: How do I reset my password?
category: account
tags: [password, login]
view_count: 120
---

Open Settings, choose Security, and click Reset password.
`)
	writeFile(t, filepath.Join(dir, "billing.json"), `[
  {"id": "faq-invoice", "question": "How do I download an invoice?", "answer": "Open Billing and click Download PDF.", "category": "billing", "tags": ["invoices"]},
  {"id": "faq-refund", "question": "How do I get a refund?", "answer": "Annual plans qualify within 30 days of purchase.", "category": "billing", "tags": ["refunds"]}
]`)

	st := store.New()
	defer st.Close()

	embedder := embedding.NewMockEmbedder(8)
	defer embedder.Close()

	vecIndex, err := vector.NewMemoryIndex(8)
	if err != nil {
		t.Fatal(err)
	}
	defer vecIndex.Close()

	kwIndex, err := keyword.NewBleveIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer kwIndex.Close()

	searchCfg := &config.SearchConfig{
		DefaultLimit:   5,
		MaxLimit:       50,
		TopKCandidates: 20,
		QuestionBoost:  2.0,
	}
	engine := search.NewEngine(st, embedder, vecIndex, kwIndex, ranking.NewScorer(nil), searchCfg)
	idx := indexer.NewIndexer(st, embedder, vecIndex, kwIndex, content.NewLoader(nil))
	ctx := context.Background()

	n, err := idx.IndexDirectory(ctx, dir, true)
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 articles indexed, got %d", n)
	}

	resp, err := engine.Search(ctx, &models.SearchQuery{
		Query: "download an invoice", Limit: 5, SemanticWeight: 0.5, KeywordWeight: 0.5,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total < 1 {
		t.Fatalf("expected at least 1 result, got %d", resp.Total)
	}
	if !containsID(resp, "faq-invoice") {
		t.Errorf("expected faq-invoice in results, got %v", resultIDs(resp))
	}

	resp, err = engine.Search(ctx, &models.SearchQuery{
		Query: "invoice", Limit: 5, Category: "billing", SemanticWeight: 0.5, KeywordWeight: 0.5,
	})
	if err != nil {
		t.Fatalf("Search with category: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 billing results, got %d (%v)", resp.Total, resultIDs(resp))
	}
	for _, r := range resp.Results {
		if r.Article.Category != "billing" {
			t.Errorf("article %q has category %q, want billing", r.Article.ID, r.Article.Category)
		}
	}

	// Dropping a source file removes every article it contributed.
	removed, err := idx.RemoveSource(ctx, filepath.Join(dir, "billing.json"))
	if err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 articles removed, got %d", removed)
	}
	resp, err = engine.Search(ctx, &models.SearchQuery{
		Query: "invoice", Limit: 5, Category: "billing", SemanticWeight: 0.5, KeywordWeight: 0.5,
	})
	if err != nil {
		t.Fatalf("Search after removal: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("expected no billing results after removal, got %d (%v)", resp.Total, resultIDs(resp))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func containsID(resp *models.SearchResponse, id string) bool {
	for _, r := range resp.Results {
		if r.Article != nil && r.Article.ID == id {
			return true
		}
	}
	return false
}

func resultIDs(resp *models.SearchResponse) []string {
	ids := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Article != nil {
			ids = append(ids, r.Article.ID)
		}
	}
	return ids
}
