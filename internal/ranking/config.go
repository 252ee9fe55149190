package ranking

// RelevanceConfig holds the weights for the engagement boosts layered on top
// of semantic similarity.
type RelevanceConfig struct {
	HelpfulWeight   float64 `yaml:"helpful_weight"`   // default: 0.1
	PopularityScale float64 `yaml:"popularity_scale"` // default: 0.05
	PopularityCap   float64 `yaml:"popularity_cap"`   // default: 0.1
	PinnedBoost     float64 `yaml:"pinned_boost"`     // default: 0.15
}

// DefaultRelevanceConfig returns the default relevance configuration.
// The caps keep the combined boosts at 0.35, so engagement can break ties
// between similar answers but never outvote semantic similarity.
func DefaultRelevanceConfig() *RelevanceConfig {
	return &RelevanceConfig{
		HelpfulWeight:   0.1,
		PopularityScale: 0.05,
		PopularityCap:   0.1,
		PinnedBoost:     0.15,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RelevanceConfig) ApplyDefaults() {
	defaults := DefaultRelevanceConfig()

	if c.HelpfulWeight == 0 {
		c.HelpfulWeight = defaults.HelpfulWeight
	}
	if c.PopularityScale == 0 {
		c.PopularityScale = defaults.PopularityScale
	}
	if c.PopularityCap == 0 {
		c.PopularityCap = defaults.PopularityCap
	}
	if c.PinnedBoost == 0 {
		c.PinnedBoost = defaults.PinnedBoost
	}
}
