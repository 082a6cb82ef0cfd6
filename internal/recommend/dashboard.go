// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
)

// Dashboard branch names, reported in Dashboard.Degraded.
const (
	BranchProfile         = "profile"
	BranchQuota           = "quota"
	BranchStats           = "stats"
	BranchRecommendations = "recommendations"
)

// ProfileSummary describes a user's interest profile without the vector.
type ProfileSummary struct {
	Available bool       `json:"available"`
	ItemCount int        `json:"item_count"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
}

// Dashboard aggregates a user's overview.
type Dashboard struct {
	UserID          int64            `json:"user_id"`
	Profile         ProfileSummary   `json:"profile"`
	Quota           *quota.Usage     `json:"quota,omitempty"`
	Stats           corpus.Stats     `json:"stats"`
	Recommendations []Recommendation `json:"recommendations"`

	// Degraded lists the branches that failed and hold a default value.
	Degraded    []string  `json:"degraded,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Dashboard fans out over the profile summary, quota usage, corpus stats
// and top recommendations with bounded concurrency. A failing branch
// degrades to its zero value and is listed in Degraded; the call itself
// only fails when ctx is done.
func (e *Engine) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	d := &Dashboard{UserID: userID, Recommendations: []Recommendation{}, GeneratedAt: e.now().UTC()}
	log := logging.Ctx(ctx)

	var mu sync.Mutex
	degrade := func(branch string, err error) {
		log.Warn().Err(err).Str("branch", branch).Int64("user_id", userID).Msg("dashboard branch degraded")
		metrics.DashboardBranchFailures.WithLabelValues(branch).Inc()
		mu.Lock()
		d.Degraded = append(d.Degraded, branch)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(e.config.FanOutLimit)

	g.Go(func() error {
		p, err := e.profiles.Build(ctx, userID)
		if err != nil {
			degrade(BranchProfile, err)
			return nil
		}
		if p != nil {
			builtAt := p.BuiltAt
			d.Profile = ProfileSummary{Available: true, ItemCount: p.ItemCount, BuiltAt: &builtAt}
		}
		return nil
	})

	if e.quota != nil {
		g.Go(func() error {
			u, err := e.quota.Usage(ctx, quota.UserSubject(userID))
			if err != nil {
				degrade(BranchQuota, err)
				return nil
			}
			d.Quota = &u
			return nil
		})
	}

	g.Go(func() error {
		st, err := e.corpus.Stats(ctx, userID)
		if err != nil {
			degrade(BranchStats, err)
			return nil
		}
		d.Stats = st
		return nil
	})

	g.Go(func() error {
		resp, err := e.Recommend(ctx, &Request{UserID: userID, Limit: e.config.DashboardLimit})
		if err != nil {
			degrade(BranchRecommendations, err)
			return nil
		}
		d.Recommendations = resp.Items
		return nil
	})

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(d.Degraded)
	return d, nil
}
