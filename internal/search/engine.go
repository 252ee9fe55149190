// Package search provides the article retrieval pipeline.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/keyword"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/ranking"
	"github.com/hyperjump/oshiete/internal/store"
	"github.com/hyperjump/oshiete/internal/vector"
	"github.com/hyperjump/oshiete/pkg/metrics"
)

// Engine answers help-center queries. The pipeline embeds the query, pulls
// top-K candidates from the vector index, scores each candidate's relevance
// (semantic similarity plus engagement boosts), optionally fuses in keyword
// scores, then filters, sorts, and paginates.
type Engine struct {
	store        *store.Store
	embedder     embedding.Embedder
	vectorIndex  vector.Index
	keywordIndex keyword.KeywordIndex
	scorer       *ranking.Scorer
	spellChecker *keyword.SpellChecker // optional; set via WithSpellChecker
	config       *config.SearchConfig
}

// NewEngine creates a search engine with the given dependencies. A nil scorer
// falls back to the default relevance weights.
func NewEngine(
	st *store.Store,
	embedder embedding.Embedder,
	vectorIndex vector.Index,
	keywordIndex keyword.KeywordIndex,
	scorer *ranking.Scorer,
	cfg *config.SearchConfig,
) *Engine {
	if scorer == nil {
		scorer = ranking.NewScorer(nil)
	}
	return &Engine{
		store:        st,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		scorer:       scorer,
		config:       cfg,
	}
}

// WithSpellChecker enables "Did you mean?" suggestions. The keyword index must
// expose its term dictionary; anything else leaves suggestions off.
func (e *Engine) WithSpellChecker() {
	if dict, ok := e.keywordIndex.(keyword.TermDictionary); ok {
		e.spellChecker = keyword.NewSpellChecker(dict)
	}
}

// Search runs the retrieval pipeline and returns ranked results.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query); err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	candidates := e.config.TopKCandidates
	if candidates <= 0 {
		candidates = 50
	}

	var (
		vectorResults  []*vector.Result
		keywordResults []*keyword.KeywordResult
		errChan        = make(chan error, 2)
		wg             sync.WaitGroup
	)

	if query.SemanticWeight > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryEmbedding, err := e.embedder.Embed(ctx, query.Query)
			if err != nil {
				errChan <- fmt.Errorf("embedding failed: %w", err)
				return
			}
			results, err := e.vectorIndex.Search(ctx, queryEmbedding, candidates)
			if err != nil {
				errChan <- fmt.Errorf("vector search failed: %w", err)
				return
			}
			vectorResults = results
		}()
	}

	if query.KeywordWeight > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opts := &keyword.SearchOptions{
				QuestionBoost: e.config.QuestionBoost,
				FuzzyEnabled:  query.FuzzyEnabled,
			}
			results, err := e.keywordIndex.Search(ctx, query.Query, candidates, opts)
			if err != nil {
				errChan <- fmt.Errorf("keyword search failed: %w", err)
				return
			}
			keywordResults = results
		}()
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	// The semantic leg's contribution is the relevance score: similarity plus
	// the article's engagement boosts. Candidates missing from the store are
	// stale vector entries and drop out here.
	similarity := make(map[string]float64, len(vectorResults))
	relevance := make(map[string]float64, len(vectorResults))
	for _, r := range vectorResults {
		a, err := e.store.Get(r.ID)
		if err != nil {
			continue
		}
		similarity[r.ID] = r.Score
		relevance[r.ID] = e.scorer.ScoreArticle(r.Score, a)
	}

	keywordScores := NormalizeKeywordScores(keywordResults)
	fused := Fuse(relevance, keywordScores, query.SemanticWeight, query.KeywordWeight)

	if allowed := e.store.FilterIDs(query.Category, query.Tags); allowed != nil {
		filtered := fused[:0]
		for _, r := range fused {
			if _, ok := allowed[r.ID]; ok {
				filtered = append(filtered, r)
			}
		}
		fused = filtered
	}

	minScore := query.MinScore
	if minScore <= 0 {
		minScore = e.config.MinScore
	}
	if minScore > 0 {
		filtered := fused[:0]
		for _, r := range fused {
			if r.Score >= minScore {
				filtered = append(filtered, r)
			}
		}
		fused = filtered
	}

	start := query.Offset
	end := query.Offset + query.Limit
	if start > len(fused) {
		start = len(fused)
	}
	if end > len(fused) {
		end = len(fused)
	}
	paged := fused[start:end]

	response := &models.SearchResponse{
		Results:   make([]*models.SearchResult, 0, len(paged)),
		Total:     len(fused),
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
	}
	for i, fr := range paged {
		a, err := e.store.Get(fr.ID)
		if err != nil {
			continue
		}
		result := &models.SearchResult{
			Article:       a,
			Score:         fr.Score,
			SemanticScore: similarity[fr.ID],
			KeywordScore:  fr.KeywordScore,
			Snippet:       Snippet(a.Answer, snippetLength),
			Rank:          start + i + 1,
		}
		if sim, ok := similarity[fr.ID]; ok {
			result.RelevanceBreakdown = relevanceBreakdown(e.scorer, sim, a)
		}
		response.Results = append(response.Results, result)
	}

	if query.FuzzyEnabled && e.spellChecker != nil {
		response.Suggestions = e.spellChecker.GetTopSuggestions(query.Query, 3)
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(startTime).Seconds())
	return response, nil
}

// relevanceBreakdown itemizes a hit's relevance terms for the response.
// Keyword-only hits never get one: their fusion carried no boosts, so a
// breakdown would claim contributions that were never applied.
func relevanceBreakdown(s *ranking.Scorer, semanticScore float64, a *models.Article) *models.RelevanceBreakdown {
	bd := s.ScoreArticleWithBreakdown(semanticScore, a)
	return &models.RelevanceBreakdown{
		Base:            bd.Base,
		HelpfulBoost:    bd.HelpfulBoost,
		PopularityBoost: bd.PopularityBoost,
		PinnedBoost:     bd.PinnedBoost,
		Final:           bd.Final,
	}
}

// Stats summarizes the indexed corpus for the stats command.
type Stats struct {
	Articles    int               `json:"articles"`
	Categories  map[string]int    `json:"categories"`
	Tags        map[string]int    `json:"tags"`
	VectorSize  int               `json:"vector_size"`
	Dimensions  int               `json:"dimensions"`
	KeywordDocs uint64            `json:"keyword_docs"`
	TopViewed   []*models.Article `json:"top_viewed,omitempty"`
}

// Stats reports corpus and index counts, with the topViewed most-viewed
// articles included for display.
func (e *Engine) Stats(topViewed int) *Stats {
	st := &Stats{
		Articles:   e.store.Count(),
		Categories: e.store.CategoryCounts(),
		Tags:       e.store.TagCounts(),
		VectorSize: e.vectorIndex.Size(),
		Dimensions: e.vectorIndex.Dimensions(),
		TopViewed:  e.store.TopViewed(topViewed),
	}
	if docs, err := e.keywordIndex.DocCount(); err == nil {
		st.KeywordDocs = docs
	}
	return st
}
