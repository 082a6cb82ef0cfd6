// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"fmt"
	"strings"
)

// Strategy names a ranking configuration. The set is closed.
type Strategy string

const (
	// StrategyBalanced blends all signals with the configured weights.
	StrategyBalanced Strategy = "balanced"

	// StrategySemantic favors similarity to the interest profile.
	StrategySemantic Strategy = "semantic"

	// StrategyQuality favors the item's quality score.
	StrategyQuality Strategy = "quality"

	// StrategyEnsemble merges the other three by rank voting.
	StrategyEnsemble Strategy = "ensemble"
)

// strategyAliases maps legacy request names onto the closed set. They are
// only honored at parse time and never produced as output.
var strategyAliases = map[string]Strategy{
	"fast":    StrategySemantic,
	"smart":   StrategyEnsemble,
	"unified": StrategyBalanced,
}

// Strategies lists the valid strategies in display order.
func Strategies() []Strategy {
	return []Strategy{StrategyBalanced, StrategySemantic, StrategyQuality, StrategyEnsemble}
}

// Valid reports whether s is one of the closed set.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyBalanced, StrategySemantic, StrategyQuality, StrategyEnsemble:
		return true
	}
	return false
}

// ParseStrategy resolves a request value. Empty input yields fallback.
func ParseStrategy(name string, fallback Strategy) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fallback, nil
	}
	if s := Strategy(name); s.Valid() {
		return s, nil
	}
	if s, ok := strategyAliases[name]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, name)
}

// DefaultWeights returns the built-in blend weights of a single-run
// strategy. Anything else gets the balanced weights.
func DefaultWeights(s Strategy) Weights {
	switch s {
	case StrategySemantic:
		return Weights{Similarity: 0.7, Quality: 0.1, Freshness: 0.1, Diversity: 0.1}
	case StrategyQuality:
		return Weights{Similarity: 0.15, Quality: 0.6, Freshness: 0.1, Diversity: 0.15}
	default:
		return Weights{Similarity: 0.4, Quality: 0.25, Freshness: 0.15, Diversity: 0.2}
	}
}

// WeightsFor returns the configured blend weights of a single-run strategy,
// falling back to DefaultWeights when none or only zeros are configured.
// The diversity override, when set, replaces the diversity weight before
// normalization.
func (c *Config) WeightsFor(s Strategy, diversity *float64) Weights {
	w, ok := c.Weights[s]
	if !ok || w.Sum() <= 0 {
		w = DefaultWeights(s)
	}
	if diversity != nil {
		w.Diversity = *diversity
	}
	return w.Normalize()
}

// TrustFor returns the ensemble trust weight of a member strategy.
func (c *Config) TrustFor(s Strategy) float64 {
	if t, ok := c.Trust[s]; ok && t > 0 {
		return t
	}
	return 1
}

// ensembleMembers are the strategies an ensemble request runs.
var ensembleMembers = []Strategy{StrategySemantic, StrategyQuality, StrategyBalanced}
