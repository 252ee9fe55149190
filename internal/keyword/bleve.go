// Package keyword provides the Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/oshiete/internal/models"
)

// BleveIndex implements KeywordIndex using an in-memory Bleve index.
type BleveIndex struct {
	index bleve.Index
}

// bleveArticle is the shape actually indexed: just the text fields, so
// engagement counters and timestamps don't leak into the term dictionary.
type bleveArticle struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// NewBleveIndex creates an in-memory Bleve index. Articles live for the
// process lifetime only; the loader repopulates the index on startup.
func NewBleveIndex() (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Use standard analyzer (lowercase + tokenize, no stemming) so queries like "billing"
	// match the exact word; English analyzer stems e.g. "billing" -> "bill", which makes
	// exact-term lookups and the spell checker unreliable.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("question", textFieldMapping)
	docMapping.AddFieldMappingsAt("answer", textFieldMapping)
	docMapping.AddFieldMappingsAt("tags", textFieldMapping)
	categoryFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)
	im.AddDocumentMapping("article", docMapping)
	im.DefaultType = "article"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes an article's text fields under its ID.
func (b *BleveIndex) Index(ctx context.Context, a *models.Article) error {
	return b.index.Index(a.ID, &bleveArticle{
		Question: a.Question,
		Answer:   a.Answer,
		Category: a.Category,
		Tags:     a.Tags,
	})
}

// Search runs a match query and returns up to limit results.
// When opts is nil or QuestionBoost <= 1, a single match over all fields is used.
// When opts.QuestionBoost > 1, separate question and answer queries are merged with
// additive scoring and a term coverage penalty, so articles whose question matches
// the query rank above articles that only mention the terms in passing.
// When opts.FuzzyEnabled is true, fuzzy matching is used for typo tolerance.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	questionBoost := 1.0
	fuzzyEnabled := false
	fuzziness := 2 // default fuzziness level
	if opts != nil {
		if opts.QuestionBoost > 0 {
			questionBoost = opts.QuestionBoost
		}
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	if questionBoost <= 1.0 {
		return b.searchSingle(ctx, query, limit, fuzzyEnabled, fuzziness)
	}
	return b.searchWithBoosts(ctx, query, limit, questionBoost, fuzzyEnabled, fuzziness)
}

// searchSingle runs one MatchQuery over all fields.
// When fuzzyEnabled is true, uses FuzzyQuery for each term with the specified fuzziness.
func (b *BleveIndex) searchSingle(ctx context.Context, query string, limit int, fuzzyEnabled bool, fuzziness int) ([]*KeywordResult, error) {
	var q blevequery.Query
	if fuzzyEnabled {
		q = b.buildFuzzyQuery(query, fuzziness, "")
	} else {
		q = bleve.NewMatchQuery(query)
	}
	search := bleve.NewSearchRequest(q)
	search.Size = limit
	results, err := b.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// searchWithBoosts runs smart multi-term search with:
// 1. Additive scoring: score = (questionScore * questionBoost) + answerScore
// 2. Term coverage penalty: articles matching fewer query terms are penalized
// When fuzzyEnabled is true, uses FuzzyQuery for typo tolerance.
func (b *BleveIndex) searchWithBoosts(ctx context.Context, query string, limit int, questionBoost float64, fuzzyEnabled bool, fuzziness int) ([]*KeywordResult, error) {
	// Request enough from each so merged top "limit" is correct (same article can appear in both).
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}

	terms := tokenizeQuery(query)
	numTerms := len(terms)

	var questionQuery, answerQuery blevequery.Query
	if fuzzyEnabled {
		questionQuery = b.buildFuzzyQuery(query, fuzziness, "question")
		answerQuery = b.buildFuzzyQuery(query, fuzziness, "answer")
	} else {
		qq := bleve.NewMatchQuery(query)
		qq.SetField("question")
		questionQuery = qq
		aq := bleve.NewMatchQuery(query)
		aq.SetField("answer")
		answerQuery = aq
	}
	questionReq := bleve.NewSearchRequest(questionQuery)
	questionReq.Size = reqSize

	answerReq := bleve.NewSearchRequest(answerQuery)
	answerReq.Size = reqSize

	questionResults, err := b.index.Search(questionReq)
	if err != nil {
		return nil, fmt.Errorf("Bleve question search failed: %w", err)
	}
	answerResults, err := b.index.Search(answerReq)
	if err != nil {
		return nil, fmt.Errorf("Bleve answer search failed: %w", err)
	}

	// Collect question and answer scores separately for additive merge
	questionScores := make(map[string]float64)
	answerScores := make(map[string]float64)

	for _, hit := range questionResults.Hits {
		questionScores[hit.ID] = hit.Score * questionBoost
	}
	for _, hit := range answerResults.Hits {
		answerScores[hit.ID] = hit.Score
	}

	// For multi-term queries, count how many terms each article matches
	termCoverage := make(map[string]int)
	if numTerms > 1 {
		termCoverage = b.calculateTermCoverage(terms, reqSize, fuzzyEnabled, fuzziness)
	}

	// Merge scores: ADDITIVE (question + answer) * termCoverageMultiplier
	scores := make(map[string]float64)
	allIDs := make(map[string]struct{})
	for id := range questionScores {
		allIDs[id] = struct{}{}
	}
	for id := range answerScores {
		allIDs[id] = struct{}{}
	}

	for id := range allIDs {
		// Additive: question + answer (both can contribute)
		baseScore := questionScores[id] + answerScores[id]

		// Term coverage multiplier: PENALIZE articles that don't match all terms
		// Formula: (matched/total)^2 - this heavily penalizes partial matches
		// - 2/2 terms: (1.0)^2 = 1.0 (no penalty)
		// - 1/2 terms: (0.5)^2 = 0.25 (75% penalty!)
		// - 1/3 terms: (0.33)^2 = 0.11 (89% penalty!)
		// This ensures articles matching ALL query terms rank higher than partial matches
		termCoverageMultiplier := 1.0
		if numTerms > 1 {
			matched := termCoverage[id]
			if matched == 0 {
				matched = 1 // at least matched once to be in results
			}
			coverage := float64(matched) / float64(numTerms)
			termCoverageMultiplier = coverage * coverage // squared penalty
		}

		scores[id] = baseScore * termCoverageMultiplier
	}

	// Sort by score desc and take top limit
	type scored struct {
		id    string
		score float64
	}
	merged := make([]scored, 0, len(scores))
	for id, score := range scores {
		merged = append(merged, scored{id: id, score: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].id < merged[j].id
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	out := make([]*KeywordResult, len(merged))
	for i, s := range merged {
		out[i] = &KeywordResult{ID: s.id, Score: s.score}
	}
	return out, nil
}

// tokenizeQuery splits query into lowercase terms, filtering out empty strings.
func tokenizeQuery(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" {
			terms = append(terms, w)
		}
	}
	return terms
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries for each term in the query.
// If field is empty, searches all fields; otherwise restricts to the specified field.
func (b *BleveIndex) buildFuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 0 {
		// Fallback to match query for empty terms
		mq := bleve.NewMatchQuery(queryStr)
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}

	if len(terms) == 1 {
		fq := bleve.NewFuzzyQuery(terms[0])
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		return fq
	}

	// Multiple terms: disjunction matches if any term matches (OR semantics),
	// mimicking MatchQuery behavior.
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// calculateTermCoverage counts how many unique query terms each article matches.
// When fuzzyEnabled is true, uses FuzzyQuery for each term.
func (b *BleveIndex) calculateTermCoverage(terms []string, reqSize int, fuzzyEnabled bool, fuzziness int) map[string]int {
	coverage := make(map[string]int)
	for _, term := range terms {
		var q blevequery.Query
		if fuzzyEnabled {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetFuzziness(fuzziness)
			q = fq
		} else {
			q = bleve.NewMatchQuery(term)
		}
		req := bleve.NewSearchRequest(q)
		req.Size = reqSize
		results, err := b.index.Search(req)
		if err != nil {
			continue
		}
		for _, hit := range results.Hits {
			coverage[hit.ID]++
		}
	}
	return coverage
}

// Delete removes an article from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of articles in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// GetTermDocFrequency returns the number of articles containing the given term.
func (b *BleveIndex) GetTermDocFrequency(term string) (int, error) {
	q := bleve.NewMatchQuery(term)
	req := bleve.NewSearchRequest(q)
	req.Size = 1
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to search for term frequency: %w", err)
	}
	return int(results.Total), nil
}

// GetAllTerms returns all unique terms from the question and answer dictionaries.
// This is used for spell checking.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	terms := make([]string, 0)
	seen := make(map[string]struct{})

	for _, field := range []string{"question", "answer"} {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			continue
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				terms = append(terms, entry.Term)
				seen[entry.Term] = struct{}{}
			}
		}
		dict.Close()
	}

	return terms, nil
}

// ContainsTerm checks if a term exists in the index.
func (b *BleveIndex) ContainsTerm(term string) (bool, error) {
	freq, err := b.GetTermDocFrequency(term)
	if err != nil {
		return false, err
	}
	return freq > 0, nil
}

// GetTermFrequency returns the document frequency for a term.
// This is an alias for GetTermDocFrequency to satisfy the TermDictionary interface.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	return b.GetTermDocFrequency(term)
}
