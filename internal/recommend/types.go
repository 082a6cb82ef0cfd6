// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"context"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
)

// Profile is a user's interest vector.
type Profile struct {
	// UserID is the profile owner.
	UserID int64 `json:"user_id"`

	// Vector is the quality-weighted mean of the user's embeddings, L2
	// normalized.
	Vector []float64 `json:"vector"`

	// ItemCount is the number of items that contributed.
	ItemCount int `json:"item_count"`

	// BuiltAt is when the vector was computed.
	BuiltAt time.Time `json:"built_at"`
}

// Scored is a candidate's cosine similarity to the interest vector.
type Scored struct {
	ContentID  int64   `json:"content_id"`
	Similarity float64 `json:"similarity"`
}

// Signals is the per-signal breakdown of a blended score. Every signal is
// in [0, 1].
type Signals struct {
	Similarity float64 `json:"similarity"`
	Quality    float64 `json:"quality"`
	Freshness  float64 `json:"freshness"`
	Diversity  float64 `json:"diversity"`

	// Ensemble is the vote total when the item came from the ensemble.
	Ensemble float64 `json:"ensemble,omitempty"`
}

// Recommendation is one ranked item.
type Recommendation struct {
	// ContentID is the corpus item ID.
	ContentID int64 `json:"id"`

	Title string `json:"title"`
	URL   string `json:"url"`

	// Similarity is the raw cosine similarity (-1..1), 0 when unscored.
	Similarity float64 `json:"similarity"`

	// Score is the blended score (0..1).
	Score float64 `json:"score"`

	// Quality is the item's 1-10 quality score.
	Quality int `json:"quality"`

	// Reason is a human readable explanation.
	Reason string `json:"reason"`

	Signals Signals `json:"signals"`

	// Confidence is 0..1; capped at 0.5 without an interest profile.
	Confidence float64 `json:"confidence"`

	Strategy Strategy `json:"strategy"`

	Tags []string `json:"tags,omitempty"`
}

// Weights are the blend weights of the four signals. They are normalized
// before use, so they need not sum to 1.
type Weights struct {
	Similarity float64 `json:"similarity"`
	Quality    float64 `json:"quality"`
	Freshness  float64 `json:"freshness"`
	Diversity  float64 `json:"diversity"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Similarity + w.Quality + w.Freshness + w.Diversity
}

// Normalize returns a copy whose weights sum to 1. All-zero weights become
// the balanced defaults.
func (w Weights) Normalize() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights(StrategyBalanced).Normalize()
	}
	return Weights{
		Similarity: w.Similarity / sum,
		Quality:    w.Quality / sum,
		Freshness:  w.Freshness / sum,
		Diversity:  w.Diversity / sum,
	}
}

// RankInput is everything one ranking pass needs.
type RankInput struct {
	// Candidates is the pool to rank.
	Candidates []corpus.Item

	// Similarities maps content ID to cosine similarity. Missing IDs are
	// unscored.
	Similarities map[int64]float64

	// Limit is the number of results wanted.
	Limit int

	// QualityThreshold excludes items rated below it (0 disables).
	QualityThreshold int

	// Topics, when non-empty, requires a tag or key concept match.
	Topics []string

	Weights Weights

	// Strategy labels the output.
	Strategy Strategy

	// Now anchors freshness.
	Now time.Time

	// ProfileAvailable is false when no interest vector could be built.
	ProfileAvailable bool
}

// StrategyResult is one ranked list fed to the ensemble.
type StrategyResult struct {
	Name  Strategy
	Trust float64
	Items []Recommendation
}

// ProfileSource builds and caches interest profiles.
type ProfileSource interface {
	// Build returns nil, nil when the user has no embedded content.
	Build(ctx context.Context, userID int64) (*Profile, error)
	Invalidate(ctx context.Context, userID int64) error
}

// SimilarityScorer scores candidates against an interest vector.
type SimilarityScorer interface {
	Score(profile []float64, candidates []corpus.Item) []Scored
}

// Ranker turns scored candidates into a ranked list.
type Ranker interface {
	Rank(ctx context.Context, in RankInput) []Recommendation
}

// Combiner merges several ranked lists into one.
type Combiner interface {
	Combine(lists []StrategyResult, limit int) []Recommendation
}
