// Package ranking blends semantic similarity with engagement signals into the
// final relevance score used to order search results.
package ranking

import (
	"math"

	"github.com/hyperjump/oshiete/internal/models"
)

// CalculateRelevanceScore combines a semantic similarity score with engagement
// signals into a single relevance score in [0, 1], using the default weights.
//
// The base is semanticScore. Three additive boosts follow, each capped so the
// combined boost never exceeds 0.35:
//   - helpful ratio: (ratio/100) * 0.1 when helpfulRatio is non-nil and > 0.
//     A nil ratio means the article has no votes; a present 0 is a real rating
//     that contributes nothing. Ratios outside [0, 100] are clamped first.
//   - popularity: min(ln(viewCount+1) * 0.05, 0.1) when viewCount > 0. The log
//     flattens quickly; anything past a handful of views sits at the cap.
//   - pinned: a flat 0.15 for editorially pinned articles.
//
// The sum is clamped into [0, 1]. Every term is monotonically non-decreasing
// in its input, and the function never fails for any numeric input.
func CalculateRelevanceScore(semanticScore float64, helpfulRatio *float64, viewCount int, pinned bool) float64 {
	return defaultScorer.Calculate(semanticScore, helpfulRatio, viewCount, pinned)
}

var defaultScorer = NewScorer(nil)

// Scorer computes relevance scores with a fixed set of boost weights.
// The zero-cost construction makes it cheap to hold one per engine.
type Scorer struct {
	config *RelevanceConfig
	boosts []Boost
}

// NewScorer creates a Scorer bound to config. A nil config uses the defaults;
// zero fields are backfilled.
func NewScorer(config *RelevanceConfig) *Scorer {
	if config == nil {
		config = DefaultRelevanceConfig()
	}
	config.ApplyDefaults()
	return &Scorer{
		config: config,
		boosts: DefaultBoosts(config),
	}
}

// Config returns the scorer's relevance configuration.
func (s *Scorer) Config() *RelevanceConfig {
	return s.config
}

// Calculate applies the boost chain to semanticScore and clamps the result
// into [0, 1]. See CalculateRelevanceScore for the term-by-term behavior.
func (s *Scorer) Calculate(semanticScore float64, helpfulRatio *float64, viewCount int, pinned bool) float64 {
	score := semanticScore
	score += s.helpfulBoost(helpfulRatio)
	score += s.popularityBoost(viewCount)
	score += s.pinnedBoost(pinned)
	return clampUnit(score)
}

// ScoreArticle computes the relevance score for an article given its semantic
// similarity to the query, reading the engagement signals off the article.
func (s *Scorer) ScoreArticle(semanticScore float64, a *models.Article) float64 {
	if a == nil {
		return clampUnit(semanticScore)
	}
	score := semanticScore
	for _, b := range s.boosts {
		score = b.Apply(a, score)
	}
	return clampUnit(score)
}

// ScoreBreakdown itemizes one relevance computation for debug output.
type ScoreBreakdown struct {
	Base            float64 `json:"base"`
	HelpfulBoost    float64 `json:"helpful_boost"`
	PopularityBoost float64 `json:"popularity_boost"`
	PinnedBoost     float64 `json:"pinned_boost"`
	Final           float64 `json:"final"`
}

// ScoreArticleWithBreakdown is ScoreArticle plus the per-boost contributions.
// Final carries the clamp, so the itemized terms can sum past it.
func (s *Scorer) ScoreArticleWithBreakdown(semanticScore float64, a *models.Article) *ScoreBreakdown {
	bd := &ScoreBreakdown{Base: semanticScore}
	if a != nil {
		bd.HelpfulBoost = s.helpfulBoost(a.HelpfulRatio())
		bd.PopularityBoost = s.popularityBoost(a.ViewCount)
		bd.PinnedBoost = s.pinnedBoost(a.Pinned)
	}
	bd.Final = clampUnit(bd.Base + bd.HelpfulBoost + bd.PopularityBoost + bd.PinnedBoost)
	return bd
}

func (s *Scorer) helpfulBoost(ratio *float64) float64 {
	if ratio == nil || *ratio <= 0 {
		return 0
	}
	r := math.Min(*ratio, 100)
	return (r / 100) * s.config.HelpfulWeight
}

func (s *Scorer) popularityBoost(viewCount int) float64 {
	if viewCount <= 0 {
		return 0
	}
	return math.Min(math.Log(float64(viewCount)+1)*s.config.PopularityScale, s.config.PopularityCap)
}

func (s *Scorer) pinnedBoost(pinned bool) float64 {
	if !pinned {
		return 0
	}
	return s.config.PinnedBoost
}

// clampUnit clamps score into [0, 1]. The upper clamp is the boost cap from
// the scoring model; the lower clamp keeps a negative cosine from producing a
// negative rank, which downstream sorting has no use for.
func clampUnit(score float64) float64 {
	return math.Max(0, math.Min(1, score))
}
