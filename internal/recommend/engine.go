// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/enrichment"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// noCandidatesMessage is shown when the user has nothing saved yet.
const noCandidatesMessage = "No saved content yet. Save articles or resources to get recommendations."

// AIGateway is the quota-gated AI provider. enrichment.Gateway implements it.
type AIGateway interface {
	Embed(ctx context.Context, userID int64, text string) ([]float32, error)
	Enrich(ctx context.Context, userID int64, in enrichment.Input) (*enrichment.Metadata, error)
}

// QuotaReporter reports a subject's quota usage for the dashboard.
type QuotaReporter interface {
	Usage(ctx context.Context, subject quota.Subject) (quota.Usage, error)
}

// Dependencies are the collaborators of an Engine. Corpus, Profiles,
// Scorer, Ranker and Combiner are required.
type Dependencies struct {
	Corpus   corpus.Store
	Profiles ProfileSource
	Scorer   SimilarityScorer
	Ranker   Ranker
	Combiner Combiner

	// Cache stores final responses. Nil disables result caching.
	Cache *ResultCache

	// AI embeds queries and enriches ingested content. Nil skips both.
	AI AIGateway

	// Quota feeds the dashboard's usage branch. Nil leaves it empty.
	Quota QuotaReporter
}

// Engine orchestrates profile building, scoring, ranking and caching.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	corpus   corpus.Store
	profiles ProfileSource
	scorer   SimilarityScorer
	ranker   Ranker
	combiner Combiner
	cache    *ResultCache
	ai       AIGateway
	quota    QuotaReporter

	// now is the clock; tests replace it.
	now func() time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Corpus == nil || deps.Profiles == nil || deps.Scorer == nil || deps.Ranker == nil || deps.Combiner == nil {
		return nil, errors.New("recommend: corpus, profiles, scorer, ranker and combiner are required")
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		corpus:   deps.Corpus,
		profiles: deps.Profiles,
		scorer:   deps.Scorer,
		ranker:   deps.Ranker,
		combiner: deps.Combiner,
		cache:    deps.Cache,
		ai:       deps.AI,
		quota:    deps.Quota,
		now:      time.Now,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// resolved is a request after defaults and limits were applied.
type resolved struct {
	strategy  Strategy
	limit     int
	pageSize  int
	threshold int
	ttl       time.Duration
}

func (e *Engine) resolve(req *Request) (resolved, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return resolved{}, fmt.Errorf("%w: %w", ErrInvalidRequest, verr)
	}
	strategy, err := ParseStrategy(req.Strategy, e.config.DefaultStrategy)
	if err != nil {
		return resolved{}, err
	}

	r := resolved{strategy: strategy, limit: req.Limit, threshold: req.QualityThreshold}
	if r.limit == 0 {
		r.limit = e.config.DefaultLimit
		if req.Page > 0 {
			r.limit = e.config.MaxLimit
		}
	}
	if r.limit > e.config.MaxLimit {
		r.limit = e.config.MaxLimit
	}
	if req.Page > 0 {
		r.pageSize = req.PageSize
		if r.pageSize == 0 {
			r.pageSize = e.config.DefaultLimit
		}
		if r.pageSize > e.config.MaxLimit {
			r.pageSize = e.config.MaxLimit
		}
	}
	if r.threshold == 0 {
		r.threshold = e.config.QualityThreshold
	}
	if e.cache != nil {
		r.ttl = e.cache.TTL(req.Interactive)
	}
	return r, nil
}

// Recommend ranks the user's saved content for the request.
//
// An empty corpus is not an error: the response carries an empty list and
// a message. A missing profile or an unavailable query embedding degrade
// to profile-only or quality ordering and are reported as notices.
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Response, error) {
	start := e.now()
	log := logging.Ctx(ctx).With().Str("component", "recommend").Int64("user_id", req.UserID).Logger()

	r, err := e.resolve(req)
	if err != nil {
		metrics.RecordRecommend("unknown", "invalid", time.Since(start))
		return nil, err
	}

	var key string
	if e.cache != nil && r.ttl > 0 {
		key = e.cache.Key(ctx, req, r.strategy, r.limit, r.threshold)
		if resp, ok := e.cache.Get(ctx, key); ok {
			resp.Metadata.RequestID = logging.RequestIDFromContext(ctx)
			resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
			metrics.RecordRecommend(string(r.strategy), "cached", time.Since(start))
			return resp, nil
		}
	}

	resp, err := e.compute(ctx, req, r, &log)
	if err != nil {
		metrics.RecordRecommend(string(r.strategy), "error", time.Since(start))
		log.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}
	resp.Metadata.RequestID = logging.RequestIDFromContext(ctx)

	outcome := "ok"
	if len(resp.Items) == 0 && resp.Message != "" {
		outcome = "empty"
	} else if key != "" {
		e.cache.Put(ctx, key, resp, r.ttl)
	}
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	metrics.RecordRecommend(string(r.strategy), outcome, time.Since(start))

	log.Debug().
		Str("strategy", string(r.strategy)).
		Int("items", len(resp.Items)).
		Int("candidates", resp.Metadata.CandidateCount).
		Bool("profile", resp.Metadata.ProfileAvailable).
		Msg("recommendations computed")
	return resp, nil
}

func (e *Engine) compute(ctx context.Context, req *Request, r resolved, log *zerolog.Logger) (*Response, error) {
	resp := &Response{Items: []Recommendation{}, Metadata: Metadata{Strategy: r.strategy}}

	profile, err := e.profiles.Build(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}
	var vector []float64
	if profile != nil {
		vector = profile.Vector
	}

	if q := req.query(); q != "" && e.ai != nil && e.config.QueryBlend > 0 {
		blended, notice, wait := e.blendQuery(ctx, req.UserID, q, vector, log)
		if notice != "" {
			resp.Metadata.Notices = append(resp.Metadata.Notices, notice)
			resp.Metadata.QuotaWaitSeconds = wait
		} else {
			vector = blended
			resp.Metadata.QueryBlended = true
		}
	}

	candidates, err := e.corpus.Candidates(ctx, req.UserID, e.config.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	resp.Metadata.CandidateCount = len(candidates)
	metrics.RecommendCandidates.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		resp.Message = noCandidatesMessage
		return resp, nil
	}

	sims := make(map[int64]float64, len(candidates))
	if vector != nil {
		for _, s := range e.scorer.Score(vector, candidates) {
			sims[s.ContentID] = s.Similarity
		}
	}
	resp.Metadata.ProfileAvailable = len(sims) > 0
	if !resp.Metadata.ProfileAvailable {
		resp.Metadata.Notices = append(resp.Metadata.Notices, "No interest profile yet; ranked by quality and freshness.")
	}

	in := RankInput{
		Candidates:       candidates,
		Similarities:     sims,
		Limit:            r.limit,
		QualityThreshold: r.threshold,
		Topics:           normalizeTopics(req.Technologies),
		Now:              e.now(),
		ProfileAvailable: resp.Metadata.ProfileAvailable,
	}

	var items []Recommendation
	if r.strategy == StrategyEnsemble {
		lists := make([]StrategyResult, 0, len(ensembleMembers))
		for _, s := range ensembleMembers {
			in.Strategy = s
			in.Weights = e.config.WeightsFor(s, req.DiversityWeight)
			lists = append(lists, StrategyResult{Name: s, Trust: e.config.TrustFor(s), Items: e.ranker.Rank(ctx, in)})
		}
		items = e.combiner.Combine(lists, r.limit)
		resp.Metadata.Strategies = append([]Strategy(nil), ensembleMembers...)
	} else {
		in.Strategy = r.strategy
		in.Weights = e.config.WeightsFor(r.strategy, req.DiversityWeight)
		items = e.ranker.Rank(ctx, in)
	}

	resp.Items, resp.Pagination = paginate(items, req.Page, r.pageSize)
	return resp, nil
}

// blendQuery embeds the request text and mixes it into the interest vector.
// It returns a notice instead of a vector when the embedding is unavailable,
// plus the quota wait in seconds when the quota is the reason.
func (e *Engine) blendQuery(ctx context.Context, userID int64, text string, profile []float64, log *zerolog.Logger) ([]float64, string, int64) {
	emb, err := e.ai.Embed(ctx, userID, text)
	if err != nil {
		var exceeded *quota.ExceededError
		switch {
		case errors.As(err, &exceeded):
			wait := int64(math.Ceil(exceeded.Wait.Seconds()))
			return nil, fmt.Sprintf("AI quota %s; query ignored, retry in %s", exceeded.State, exceeded.Wait.Round(time.Second)), wait
		case errors.Is(err, enrichment.ErrNoCredential):
			return nil, "No AI credential configured; ranked by saved content only.", 0
		default:
			log.Warn().Err(err).Msg("query embedding failed, using profile only")
			return nil, "Query embedding unavailable; ranked by saved content only.", 0
		}
	}

	query := make([]float64, len(emb))
	for i, v := range emb {
		query[i] = float64(v)
	}
	if !normalize(query) {
		return nil, "Query embedding was empty; ranked by saved content only.", 0
	}
	if profile == nil {
		return query, "", 0
	}
	if len(profile) != len(query) {
		log.Warn().Int("profile_dim", len(profile)).Int("query_dim", len(query)).Msg("query embedding dimension mismatch")
		return nil, "Query embedding dimension mismatch; ranked by saved content only.", 0
	}

	w := e.config.QueryBlend
	out := make([]float64, len(profile))
	floats.ScaleTo(out, 1-w, profile)
	floats.AddScaled(out, w, query)
	if !normalize(out) {
		return nil, "Query cancels out the interest profile; ranked by saved content only.", 0
	}
	return out, "", 0
}

// normalize scales v to unit length in place. It reports false for a zero
// vector.
func normalize(v []float64) bool {
	n := floats.Norm(v, 2)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	floats.Scale(1/n, v)
	return true
}

// OnContentChanged invalidates the user's profile and cached lists. It
// matches corpus.ChangeFunc so it can be registered on a corpus.Notifying.
func (e *Engine) OnContentChanged(ctx context.Context, userID int64) {
	if err := e.profiles.Invalidate(ctx, userID); err != nil {
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("profile invalidation failed")
	}
	if e.cache != nil {
		e.cache.InvalidateUser(ctx, userID)
		e.cache.InvalidateProfile(ctx, userID)
	}
}

// OnProfileChanged invalidates the user's derived profile and the lists
// computed from it.
func (e *Engine) OnProfileChanged(ctx context.Context, userID int64) {
	if err := e.profiles.Invalidate(ctx, userID); err != nil {
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("profile invalidation failed")
	}
	if e.cache != nil {
		e.cache.InvalidateProfile(ctx, userID)
	}
}

// OnProjectChanged invalidates lists cached for a project.
func (e *Engine) OnProjectChanged(ctx context.Context, projectID int64) {
	if e.cache != nil {
		e.cache.InvalidateProject(ctx, projectID)
	}
}
