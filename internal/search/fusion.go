package search

import (
	"sort"

	"github.com/hyperjump/oshiete/internal/keyword"
)

// FusedResult holds an article ID and its combined score legs.
type FusedResult struct {
	ID            string
	Score         float64
	SemanticScore float64 // relevance-scored semantic leg
	KeywordScore  float64 // max-normalized keyword leg
}

// NormalizeKeywordScores normalizes BM25 scores to [0,1] by max.
func NormalizeKeywordScores(results []*keyword.KeywordResult) map[string]float64 {
	normalized := make(map[string]float64, len(results))
	if len(results) == 0 {
		return normalized
	}
	maxScore := results[0].Score
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	for _, r := range results {
		if maxScore > 0 {
			normalized[r.ID] = r.Score / maxScore
		} else {
			normalized[r.ID] = 0
		}
	}
	return normalized
}

// Fuse merges the semantic and keyword score maps with weights. Results come
// back sorted by score descending; equal scores order by article ID so ranking
// is deterministic.
func Fuse(semanticScores, keywordScores map[string]float64, semanticWeight, keywordWeight float64) []*FusedResult {
	scoreMap := make(map[string]*FusedResult, len(semanticScores))
	for id, score := range semanticScores {
		scoreMap[id] = &FusedResult{
			ID:            id,
			SemanticScore: score,
		}
	}
	for id, score := range keywordScores {
		if result, exists := scoreMap[id]; exists {
			result.KeywordScore = score
		} else {
			scoreMap[id] = &FusedResult{
				ID:           id,
				KeywordScore: score,
			}
		}
	}
	results := make([]*FusedResult, 0, len(scoreMap))
	for _, result := range scoreMap {
		result.Score = (semanticWeight * result.SemanticScore) + (keywordWeight * result.KeywordScore)
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	return results
}
