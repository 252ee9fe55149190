package ranking

import (
	"math"

	"github.com/hyperjump/oshiete/internal/models"
)

// Boost is one additive adjustment in the relevance chain. Apply returns the
// running score plus this boost's contribution for the article; it never
// subtracts. Name identifies the boost in logs and breakdowns.
type Boost interface {
	Apply(a *models.Article, score float64) float64
	Name() string
}

// HelpfulnessBoost rewards articles whose readers voted them helpful. The
// contribution is (ratio/100) * weight, at most the full weight for a 100%
// helpful article. Articles with no votes at all get nothing.
type HelpfulnessBoost struct {
	config *RelevanceConfig
}

// NewHelpfulnessBoost creates a HelpfulnessBoost.
func NewHelpfulnessBoost(config *RelevanceConfig) *HelpfulnessBoost {
	return &HelpfulnessBoost{config: config}
}

// Name returns the boost name.
func (b *HelpfulnessBoost) Name() string {
	return "helpfulness"
}

// Apply adds the helpful-ratio contribution to score.
func (b *HelpfulnessBoost) Apply(a *models.Article, score float64) float64 {
	ratio := a.HelpfulRatio()
	if ratio == nil || *ratio <= 0 {
		return score
	}
	r := math.Min(*ratio, 100)
	return score + (r/100)*b.config.HelpfulWeight
}

// PopularityBoost rewards frequently viewed articles on a log scale, capped so
// a viral article cannot bury a better semantic match. The cap is reached at a
// handful of views, which keeps the boost a tie-breaker rather than a ranking.
type PopularityBoost struct {
	config *RelevanceConfig
}

// NewPopularityBoost creates a PopularityBoost.
func NewPopularityBoost(config *RelevanceConfig) *PopularityBoost {
	return &PopularityBoost{config: config}
}

// Name returns the boost name.
func (b *PopularityBoost) Name() string {
	return "popularity"
}

// Apply adds min(ln(views+1) * scale, cap) to score. Zero views adds nothing.
func (b *PopularityBoost) Apply(a *models.Article, score float64) float64 {
	if a.ViewCount <= 0 {
		return score
	}
	boost := math.Min(math.Log(float64(a.ViewCount)+1)*b.config.PopularityScale, b.config.PopularityCap)
	return score + boost
}

// PinnedBoost adds a flat editorial bump for articles the support team pinned.
type PinnedBoost struct {
	config *RelevanceConfig
}

// NewPinnedBoost creates a PinnedBoost.
func NewPinnedBoost(config *RelevanceConfig) *PinnedBoost {
	return &PinnedBoost{config: config}
}

// Name returns the boost name.
func (b *PinnedBoost) Name() string {
	return "pinned"
}

// Apply adds the pinned bump when the article is pinned.
func (b *PinnedBoost) Apply(a *models.Article, score float64) float64 {
	if !a.Pinned {
		return score
	}
	return score + b.config.PinnedBoost
}

// DefaultBoosts returns the standard boost chain in application order:
// helpfulness, popularity, pinned. The order is fixed so breakdowns and logs
// stay comparable across queries.
func DefaultBoosts(config *RelevanceConfig) []Boost {
	return []Boost{
		NewHelpfulnessBoost(config),
		NewPopularityBoost(config),
		NewPinnedBoost(config),
	}
}

// ApplyBoosts runs a boost chain over a base score.
func ApplyBoosts(a *models.Article, baseScore float64, boosts []Boost) float64 {
	score := baseScore
	for _, b := range boosts {
		score = b.Apply(a, score)
	}
	return score
}
