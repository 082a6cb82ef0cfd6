// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package reranking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
)

// ReasonBackfill marks items added to fill a short list regardless of
// similarity.
const ReasonBackfill = "backfill"

// Config holds the signal and diversity parameters.
type Config struct {
	// OverlapThreshold is the tag Jaccard overlap above which an item is
	// deferred behind more diverse ones.
	// Default: 0.6.
	OverlapThreshold float64

	// FreshnessFullDays is the age up to which freshness is 1.
	// Default: 7.
	FreshnessFullDays int

	// FreshnessDecayDays is the age at which freshness reaches the floor.
	// Default: 90.
	FreshnessDecayDays int

	// FreshnessFloor is the freshness of old content.
	// Default: 0.1.
	FreshnessFloor float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		OverlapThreshold:   0.6,
		FreshnessFullDays:  7,
		FreshnessDecayDays: 90,
		FreshnessFloor:     0.1,
	}
}

// Ranker is the multi-signal ranker. One instance serves every strategy;
// strategies differ only in RankInput.Weights.
type Ranker struct {
	cfg Config
}

// NewRanker creates a Ranker. Out-of-range settings fall back to defaults.
//
//nolint:gocritic // hugeParam: config copied once at construction
func NewRanker(cfg Config) *Ranker {
	def := DefaultConfig()
	if cfg.OverlapThreshold <= 0 || cfg.OverlapThreshold > 1 {
		cfg.OverlapThreshold = def.OverlapThreshold
	}
	if cfg.FreshnessFullDays < 0 || cfg.FreshnessDecayDays <= cfg.FreshnessFullDays {
		cfg.FreshnessFullDays = def.FreshnessFullDays
		cfg.FreshnessDecayDays = def.FreshnessDecayDays
	}
	if cfg.FreshnessFloor < 0 || cfg.FreshnessFloor > 1 {
		cfg.FreshnessFloor = def.FreshnessFloor
	}
	return &Ranker{cfg: cfg}
}

// candidate is a corpus item being ranked.
type candidate struct {
	item     *corpus.Item
	tags     map[string]struct{}
	sim      float64
	scored   bool
	signals  recommend.Signals
	score    float64
	backfill bool
}

// Freshness returns 1 up to FreshnessFullDays, then decays linearly to
// FreshnessFloor at FreshnessDecayDays and stays there.
func (r *Ranker) Freshness(savedAt, now time.Time) float64 {
	age := now.Sub(savedAt).Hours() / 24
	full := float64(r.cfg.FreshnessFullDays)
	decay := float64(r.cfg.FreshnessDecayDays)
	switch {
	case age <= full:
		return 1
	case age >= decay:
		return r.cfg.FreshnessFloor
	}
	return 1 - (1-r.cfg.FreshnessFloor)*(age-full)/(decay-full)
}

// QualitySignal maps a 1-10 quality score onto [0, 1].
func QualitySignal(q int) float64 {
	return clamp01(float64(q-1) / 9)
}

// SimilaritySignal maps a cosine similarity onto [0, 1].
func SimilaritySignal(s float64) float64 {
	return clamp01((s + 1) / 2)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func blend(w recommend.Weights, s recommend.Signals) float64 {
	return w.Similarity*s.Similarity + w.Quality*s.Quality + w.Freshness*s.Freshness + w.Diversity*s.Diversity
}

// ranksBefore orders by score, then quality, then newer, then lower id.
func ranksBefore(a, b *candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.item.QualityScore != b.item.QualityScore {
		return a.item.QualityScore > b.item.QualityScore
	}
	if !a.item.SavedAt.Equal(b.item.SavedAt) {
		return a.item.SavedAt.After(b.item.SavedAt)
	}
	return a.item.ID < b.item.ID
}

// matchesTopics reports whether the item carries a tag or key concept in
// topics. An empty topic list matches everything.
func matchesTopics(item *corpus.Item, topics map[string]struct{}) bool {
	if len(topics) == 0 {
		return true
	}
	for _, l := range item.Labels() {
		if _, ok := topics[l]; ok {
			return true
		}
	}
	return false
}

// Rank scores, diversifies and truncates the candidates. From at least
// Limit eligible candidates it returns exactly Limit items; otherwise all
// eligible items followed by the highest-quality ineligible ones, so the
// result is min(Limit, len(Candidates)) long. The output is ordered by
// descending blended score.
//
//nolint:gocritic // hugeParam: RankInput is passed by value to keep it immutable
func (r *Ranker) Rank(_ context.Context, in recommend.RankInput) []recommend.Recommendation {
	if len(in.Candidates) == 0 {
		return []recommend.Recommendation{}
	}
	limit := in.Limit
	if limit <= 0 || limit > len(in.Candidates) {
		limit = len(in.Candidates)
	}

	weights := in.Weights
	if !in.ProfileAvailable {
		weights.Similarity = 0
	}
	weights = weights.Normalize()

	topics := make(map[string]struct{}, len(in.Topics))
	for _, t := range in.Topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			topics[t] = struct{}{}
		}
	}

	var eligible, rest []*candidate
	for i := range in.Candidates {
		item := &in.Candidates[i]
		c := &candidate{item: item, tags: tagSet(item.Tags)}
		c.sim, c.scored = in.Similarities[item.ID]
		c.signals = recommend.Signals{
			Quality:   QualitySignal(item.QualityScore),
			Freshness: r.Freshness(item.SavedAt, in.Now),
			Diversity: 1,
		}
		if c.scored && in.ProfileAvailable {
			c.signals.Similarity = SimilaritySignal(c.sim)
		}
		c.score = blend(weights, c.signals)

		if item.QualityScore >= in.QualityThreshold && matchesTopics(item, topics) {
			eligible = append(eligible, c)
		} else {
			rest = append(rest, c)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool { return ranksBefore(eligible[i], eligible[j]) })
	accepted := r.diversify(eligible, limit, weights)

	if len(accepted) < limit {
		sort.SliceStable(rest, func(i, j int) bool {
			a, b := rest[i].item, rest[j].item
			if a.QualityScore != b.QualityScore {
				return a.QualityScore > b.QualityScore
			}
			if !a.SavedAt.Equal(b.SavedAt) {
				return a.SavedAt.After(b.SavedAt)
			}
			return a.ID < b.ID
		})
		for _, c := range rest {
			if len(accepted) == limit {
				break
			}
			c.backfill = true
			accept(c, accepted, weights)
			accepted = append(accepted, c)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool { return ranksBefore(accepted[i], accepted[j]) })

	out := make([]recommend.Recommendation, len(accepted))
	for i, c := range accepted {
		out[i] = r.recommendation(c, in, topics)
	}
	return out
}

//nolint:gocritic // hugeParam: read-only view of the caller's input
func (r *Ranker) recommendation(c *candidate, in recommend.RankInput, topics map[string]struct{}) recommend.Recommendation {
	rec := recommend.Recommendation{
		ContentID: c.item.ID,
		Title:     c.item.Title,
		URL:       c.item.URL,
		Score:     c.score,
		Quality:   c.item.QualityScore,
		Signals:   c.signals,
		Strategy:  in.Strategy,
		Tags:      append([]string(nil), c.item.Tags...),
	}
	if c.scored && in.ProfileAvailable {
		rec.Similarity = c.sim
	}
	rec.Confidence = confidence(c, in.ProfileAvailable)
	if c.backfill {
		rec.Reason = ReasonBackfill
	} else {
		rec.Reason = reason(c, in.ProfileAvailable, topics)
	}
	return rec
}

// confidence is the mean of the signals the score rests on. Without a
// similarity signal it is capped at 0.5.
func confidence(c *candidate, profile bool) float64 {
	s := c.signals
	if c.scored && profile {
		return (s.Similarity + s.Quality + s.Freshness + s.Diversity) / 4
	}
	conf := (s.Quality + s.Freshness + s.Diversity) / 3
	if conf > 0.5 {
		conf = 0.5
	}
	return conf
}

func reason(c *candidate, profile bool, topics map[string]struct{}) string {
	var parts []string
	switch {
	case c.scored && profile:
		parts = append(parts, fmt.Sprintf("%.0f%% match with your interests", c.sim*100))
	case profile:
		parts = append(parts, "not yet analyzed, ranked by quality")
	default:
		parts = append(parts, "ranked by quality and freshness (no interest profile yet)")
	}
	if c.item.QualityScore >= 8 {
		parts = append(parts, fmt.Sprintf("high quality (%d/10)", c.item.QualityScore))
	}
	if c.signals.Freshness >= 1 {
		parts = append(parts, "recently saved")
	}
	if len(topics) > 0 {
		for _, l := range c.item.Labels() {
			if _, ok := topics[l]; ok {
				parts = append(parts, "covers "+l)
				break
			}
		}
	}
	return strings.Join(parts, "; ")
}
