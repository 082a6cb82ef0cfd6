// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/cache"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

const (
	resultKeyPrefix = "rec"

	// minGenerationTTL keeps generation counters alive well past any list
	// written under them.
	minGenerationTTL = 24 * time.Hour
)

// cacheParams is the hashed identity of a cached list. Generation counters
// are part of it, so bumping one makes every older key unreachable.
type cacheParams struct {
	UserID           int64    `json:"u"`
	Title            string   `json:"t"`
	Description      string   `json:"d"`
	Technologies     []string `json:"tech"`
	ProjectID        int64    `json:"p"`
	Limit            int      `json:"l"`
	QualityThreshold int      `json:"q"`
	DiversityWeight  *float64 `json:"dw"`
	Page             int      `json:"pg"`
	PageSize         int      `json:"ps"`
	Strategy         Strategy `json:"s"`
	UserGen          int64    `json:"ug"`
	ProfileGen       int64    `json:"pfg"`
	ProjectGen       int64    `json:"pjg"`
}

// cachedResponse is the stored value.
type cachedResponse struct {
	Response Response  `json:"response"`
	CachedAt time.Time `json:"cached_at"`
}

// ResultCache caches final recommendation responses. Backend errors are
// logged and treated as misses; callers never see them.
type ResultCache struct {
	store          cache.Store
	aggregateTTL   time.Duration
	interactiveTTL time.Duration
	logger         zerolog.Logger

	// now is the clock used for CachedAt.
	now func() time.Time
}

// NewResultCache creates a cache over store.
func NewResultCache(store cache.Store, aggregateTTL, interactiveTTL time.Duration) *ResultCache {
	return &ResultCache{
		store:          store,
		aggregateTTL:   aggregateTTL,
		interactiveTTL: interactiveTTL,
		logger:         logging.Component("recommend_cache"),
		now:            time.Now,
	}
}

func userGenKey(userID int64) string       { return fmt.Sprintf("gen:user:%d", userID) }
func profileGenKey(userID int64) string    { return fmt.Sprintf("gen:profile:%d", userID) }
func projectGenKey(projectID int64) string { return fmt.Sprintf("gen:project:%d", projectID) }

// generationTTL is the lifetime of a new generation counter.
func (c *ResultCache) generationTTL() time.Duration {
	ttl := 2 * c.aggregateTTL
	if c.interactiveTTL*2 > ttl {
		ttl = 2 * c.interactiveTTL
	}
	if ttl < minGenerationTTL {
		ttl = minGenerationTTL
	}
	return ttl
}

// TTL returns the lifetime of a list for the request kind.
func (c *ResultCache) TTL(interactive bool) time.Duration {
	if interactive {
		return c.interactiveTTL
	}
	return c.aggregateTTL
}

func (c *ResultCache) generation(ctx context.Context, key string) int64 {
	n, err := c.store.Counter(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("generation read failed")
		return 0
	}
	return n
}

// Key builds the cache key for a resolved request.
func (c *ResultCache) Key(ctx context.Context, req *Request, strategy Strategy, limit, threshold int) string {
	p := cacheParams{
		UserID:           req.UserID,
		Title:            normalizeText(req.Title),
		Description:      normalizeText(req.Description),
		Technologies:     normalizeTopics(req.Technologies),
		ProjectID:        req.ProjectID,
		Limit:            limit,
		QualityThreshold: threshold,
		DiversityWeight:  req.DiversityWeight,
		Page:             req.Page,
		PageSize:         req.PageSize,
		Strategy:         strategy,
		UserGen:          c.generation(ctx, userGenKey(req.UserID)),
		ProfileGen:       c.generation(ctx, profileGenKey(req.UserID)),
	}
	if req.ProjectID > 0 {
		p.ProjectGen = c.generation(ctx, projectGenKey(req.ProjectID))
	}
	return cache.GenerateKey(resultKeyPrefix, p)
}

// Get returns a cached response marked as cached.
func (c *ResultCache) Get(ctx context.Context, key string) (*Response, bool) {
	var v cachedResponse
	ok, err := cache.GetJSON(ctx, c.store, key, &v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		metrics.RecordCacheLookup("result", false)
		return nil, false
	}
	metrics.RecordCacheLookup("result", ok)
	if !ok {
		return nil, false
	}
	resp := v.Response
	resp.Cached = true
	cachedAt := v.CachedAt
	resp.CachedAt = &cachedAt
	return &resp, true
}

// Put stores resp for ttl. A zero ttl stores nothing.
func (c *ResultCache) Put(ctx context.Context, key string, resp *Response, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	v := cachedResponse{Response: *resp, CachedAt: c.now().UTC()}
	v.Response.Cached = false
	v.Response.CachedAt = nil
	if err := cache.SetJSON(ctx, c.store, key, v, ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
	}
}

func (c *ResultCache) bump(ctx context.Context, key string) {
	if _, err := c.store.Incr(ctx, key, c.generationTTL()); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("generation bump failed")
	}
}

// InvalidateUser makes every cached list of the user unreachable. Called
// when corpus content is added, edited or deleted.
func (c *ResultCache) InvalidateUser(ctx context.Context, userID int64) {
	c.bump(ctx, userGenKey(userID))
}

// InvalidateProfile is called when the user's derived profile changed.
func (c *ResultCache) InvalidateProfile(ctx context.Context, userID int64) {
	c.bump(ctx, profileGenKey(userID))
}

// InvalidateProject is called when a project or its tasks changed.
func (c *ResultCache) InvalidateProject(ctx context.Context, projectID int64) {
	c.bump(ctx, projectGenKey(projectID))
}
