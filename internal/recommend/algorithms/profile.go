// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/cache"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
)

// ItemSource provides a user's best embedded items.
type ItemSource interface {
	TopQualityItems(ctx context.Context, userID int64, limit int) ([]corpus.Item, error)
}

// ProfileOptions configures a ProfileBuilder.
type ProfileOptions struct {
	// MaxItems is how many top-quality items contribute.
	// Default: 50.
	MaxItems int

	// TTL is how long a built profile is cached.
	// Default: 1h.
	TTL time.Duration

	// Cache stores built profiles. Nil disables caching.
	Cache cache.Store
}

// ProfileBuilder computes a user's interest vector as the quality-weighted
// mean of their best item embeddings, normalized to unit length.
type ProfileBuilder struct {
	items    ItemSource
	cache    cache.Store
	maxItems int
	ttl      time.Duration
	logger   zerolog.Logger

	// now is the clock used for BuiltAt.
	now func() time.Time
}

// NewProfileBuilder creates a builder over items.
func NewProfileBuilder(items ItemSource, opts ProfileOptions) *ProfileBuilder {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 50
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	return &ProfileBuilder{
		items:    items,
		cache:    opts.Cache,
		maxItems: opts.MaxItems,
		ttl:      opts.TTL,
		logger:   logging.Component("profile_builder"),
		now:      time.Now,
	}
}

func profileKey(userID int64) string {
	return fmt.Sprintf("profile:%d", userID)
}

// Build returns the user's profile, or nil without an error when the user
// has no embedded content. Cache failures fall back to recomputing.
func (b *ProfileBuilder) Build(ctx context.Context, userID int64) (*recommend.Profile, error) {
	if p, ok := b.cached(ctx, userID); ok {
		metrics.ProfileBuilds.WithLabelValues("cache").Inc()
		if p.ItemCount == 0 {
			return nil, nil
		}
		return p, nil
	}

	items, err := b.items.TopQualityItems(ctx, userID, b.maxItems)
	if err != nil {
		return nil, fmt.Errorf("load profile items: %w", err)
	}

	p := b.compute(userID, items)
	if b.cache != nil {
		if err := cache.SetJSON(ctx, b.cache, profileKey(userID), p, b.ttl); err != nil {
			b.logger.Warn().Err(err).Int64("user_id", userID).Msg("profile cache write failed")
		}
	}
	if p.ItemCount == 0 {
		metrics.ProfileBuilds.WithLabelValues("empty").Inc()
		return nil, nil
	}
	metrics.ProfileBuilds.WithLabelValues("built").Inc()
	return p, nil
}

func (b *ProfileBuilder) cached(ctx context.Context, userID int64) (*recommend.Profile, bool) {
	if b.cache == nil {
		return nil, false
	}
	var p recommend.Profile
	ok, err := cache.GetJSON(ctx, b.cache, profileKey(userID), &p)
	if err != nil {
		b.logger.Warn().Err(err).Int64("user_id", userID).Msg("profile cache read failed")
		return nil, false
	}
	return &p, ok
}

// compute returns a profile with ItemCount 0 when no vector can be built.
func (b *ProfileBuilder) compute(userID int64, items []corpus.Item) *recommend.Profile {
	p := &recommend.Profile{UserID: userID, BuiltAt: b.now().UTC()}

	var sum []float64
	used := 0
	for i := range items {
		emb := items[i].Embedding
		if len(emb) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(emb))
		} else if len(emb) != len(sum) {
			b.logger.Warn().
				Int64("user_id", userID).
				Int64("content_id", items[i].ID).
				Int("dim", len(emb)).
				Int("want", len(sum)).
				Msg("skipping embedding with mismatched dimension")
			continue
		}

		w := float64(items[i].QualityScore)
		if w < 1 {
			w = 1
		}
		for j, v := range emb {
			sum[j] += w * float64(v)
		}
		used++
	}

	if used == 0 || !normalize(sum) {
		return p
	}
	p.Vector = sum
	p.ItemCount = used
	return p
}

// Invalidate drops the cached profile.
func (b *ProfileBuilder) Invalidate(ctx context.Context, userID int64) error {
	if b.cache == nil {
		return nil
	}
	if err := b.cache.Delete(ctx, profileKey(userID)); err != nil {
		return fmt.Errorf("invalidate profile %d: %w", userID, err)
	}
	return nil
}

// normalize scales v to unit length in place. It reports false when v has
// no direction.
func normalize(v []float64) bool {
	n := floats.Norm(v, 2)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	floats.Scale(1/n, v)
	return true
}

var _ recommend.ProfileSource = (*ProfileBuilder)(nil)
