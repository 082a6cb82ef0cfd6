// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"fmt"
	"time"
)

// Config contains the engine's orchestration settings. Signal math lives in
// the reranking package's own config.
type Config struct {
	// DefaultStrategy is used when a request names none.
	DefaultStrategy Strategy `json:"default_strategy"`

	// DefaultLimit is the result count when a request sets none.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps a request's limit and page size.
	// Default: 100.
	MaxLimit int `json:"max_limit"`

	// MaxCandidates is how many of the user's newest items are scored.
	// Default: 500.
	MaxCandidates int `json:"max_candidates"`

	// QualityThreshold is the minimum quality when a request sets none.
	// Default: 1.
	QualityThreshold int `json:"quality_threshold"`

	// Weights are the blend weights of each single-run strategy. They are
	// normalized at runtime, so they don't need to sum to 1.0. A missing or
	// all-zero entry uses DefaultWeights.
	Weights map[Strategy]Weights `json:"weights"`

	// Trust weighs each member strategy's vote in the ensemble.
	// Missing or non-positive entries count as 1.
	Trust map[Strategy]float64 `json:"trust"`

	// QueryBlend is how much of the query embedding is mixed into the
	// interest vector when a request carries a title or description.
	// 0 ignores the query, 1 replaces the profile.
	// Default: 0.5.
	QueryBlend float64 `json:"query_blend"`

	// AggregateTTL is the cache TTL of dashboard and other aggregate lists.
	// Default: 20m.
	AggregateTTL time.Duration `json:"aggregate_ttl"`

	// InteractiveTTL is the cache TTL of interactive per-project lists.
	// Zero disables caching for them.
	InteractiveTTL time.Duration `json:"interactive_ttl"`

	// FanOutLimit bounds dashboard branch concurrency.
	// Default: 4.
	FanOutLimit int `json:"fan_out_limit"`

	// DashboardLimit is the number of recommendations on the dashboard.
	// Default: 5.
	DashboardLimit int `json:"dashboard_limit"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultStrategy:  StrategyBalanced,
		DefaultLimit:     10,
		MaxLimit:         100,
		MaxCandidates:    500,
		QualityThreshold: 1,
		Weights: map[Strategy]Weights{
			StrategyBalanced: DefaultWeights(StrategyBalanced),
			StrategySemantic: DefaultWeights(StrategySemantic),
			StrategyQuality:  DefaultWeights(StrategyQuality),
		},
		Trust: map[Strategy]float64{
			StrategySemantic: 1,
			StrategyQuality:  1,
			StrategyBalanced: 1,
		},
		QueryBlend:     0.5,
		AggregateTTL:   20 * time.Minute,
		InteractiveTTL: 0,
		FanOutLimit:    4,
		DashboardLimit: 5,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !c.DefaultStrategy.Valid() {
		return fmt.Errorf("default_strategy %q is not a known strategy", c.DefaultStrategy)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.MaxCandidates < c.MaxLimit {
		return fmt.Errorf("max_candidates must be >= max_limit, got %d", c.MaxCandidates)
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 10 {
		return fmt.Errorf("quality_threshold must be in [0, 10], got %d", c.QualityThreshold)
	}
	for s, w := range c.Weights {
		if !s.Valid() || s == StrategyEnsemble {
			return fmt.Errorf("weights given for %q, which is not a single-run strategy", s)
		}
		if w.Similarity < 0 || w.Quality < 0 || w.Freshness < 0 || w.Diversity < 0 {
			return fmt.Errorf("%s weights must be non-negative, got %+v", s, w)
		}
	}
	if c.QueryBlend < 0 || c.QueryBlend > 1 {
		return fmt.Errorf("query_blend must be in [0, 1], got %f", c.QueryBlend)
	}
	if c.AggregateTTL < 0 || c.InteractiveTTL < 0 {
		return fmt.Errorf("cache TTLs must be non-negative")
	}
	if c.FanOutLimit < 1 {
		return fmt.Errorf("fan_out_limit must be positive, got %d", c.FanOutLimit)
	}
	if c.DashboardLimit < 1 || c.DashboardLimit > c.MaxLimit {
		return fmt.Errorf("dashboard_limit must be in [1, max_limit], got %d", c.DashboardLimit)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Weights = make(map[Strategy]Weights, len(c.Weights))
	for k, v := range c.Weights {
		out.Weights[k] = v
	}
	out.Trust = make(map[Strategy]float64, len(c.Trust))
	for k, v := range c.Trust {
		out.Trust[k] = v
	}
	return &out
}
