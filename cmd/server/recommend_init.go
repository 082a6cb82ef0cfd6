// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package main

import (
	"fmt"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/cache"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/config"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/enrichment"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend/algorithms"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend/reranking"
)

// Managers are the credential and quota managers, wired to each other.
type Managers struct {
	Credentials *credentials.Manager
	Quota       *quota.Manager
}

// initManagers builds the quota and credential managers. They reference
// each other: storing or deleting a key resets the user's quota state, and
// quota transitions are mirrored onto the stored key status.
func initManagers(cfg *config.Config, stores *Stores, validator credentials.KeyValidator) (*Managers, error) {
	enc, err := credentials.NewEncryptor(cfg.Security.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("init credential encryptor: %w", err)
	}
	if err := enc.SelfTest(); err != nil {
		return nil, err
	}

	qm := quota.NewManager(quota.Options{
		UserLimits: quota.Limits{
			Minute: cfg.Quota.MinuteLimit,
			Day:    cfg.Quota.DayLimit,
			Month:  cfg.Quota.MonthLimit,
		},
		DefaultLimits: quota.Limits{
			Minute: cfg.Quota.DefaultMinuteLimit,
			Day:    cfg.Quota.DefaultDayLimit,
			Month:  cfg.Quota.DefaultMonthLimit,
		},
		Store: stores.Quota,
	})

	opts := credentials.Options{
		MinLength:       cfg.Credentials.MinLength,
		MaxLength:       cfg.Credentials.MaxLength,
		AllowedPrefixes: cfg.Credentials.AllowedPrefixes,
		Hooks:           qm,
	}
	if cfg.Credentials.LiveValidation && validator != nil {
		opts.Validator = validator
	}
	cm := credentials.NewManager(stores.Credentials, enc, opts)
	qm.SetObserver(quota.NewCredentialSync(cm))

	return &Managers{Credentials: cm, Quota: qm}, nil
}

// initEnrichment builds the AI gateway, or returns nil when enrichment is
// disabled. The client is returned separately so it can double as the
// credential manager's live key validator.
func initEnrichment(cfg *config.Config) *enrichment.OpenAIClient {
	if !cfg.Enrichment.Enabled {
		logging.Info().Msg("AI enrichment disabled (ENRICHMENT_ENABLED=false), content is saved without embeddings")
		return nil
	}
	return enrichment.NewOpenAIClient(enrichment.OpenAIOptions{
		BaseURL:        cfg.Enrichment.BaseURL,
		EmbeddingModel: cfg.Enrichment.EmbeddingModel,
		ChatModel:      cfg.Enrichment.ChatModel,
		Dimensions:     cfg.Recommend.EmbeddingDimension,
	})
}

func newGateway(cfg *config.Config, client *enrichment.OpenAIClient, m *Managers) *enrichment.Gateway {
	return enrichment.NewGateway(client, m.Credentials, m.Quota, enrichment.Options{
		DefaultAPIKey:       cfg.Enrichment.DefaultAPIKey,
		Timeout:             cfg.Enrichment.Timeout,
		RequestsPerSecond:   cfg.Enrichment.RequestsPerSecond,
		Burst:               cfg.Enrichment.Burst,
		BreakerFailures:     cfg.Enrichment.BreakerFailures,
		BreakerOpenDuration: cfg.Enrichment.BreakerOpenDuration,
	})
}

// buildEngineConfig maps the flat config section onto the engine config.
func buildEngineConfig(cfg *config.Config) (*recommend.Config, error) {
	rc := cfg.Recommend
	strategy, err := recommend.ParseStrategy(rc.DefaultStrategy, recommend.StrategyBalanced)
	if err != nil {
		return nil, err
	}

	ec := recommend.DefaultConfig()
	ec.DefaultStrategy = strategy
	ec.DefaultLimit = rc.DefaultLimit
	ec.MaxLimit = rc.MaxLimit
	ec.MaxCandidates = rc.MaxCandidates
	ec.QualityThreshold = rc.QualityThreshold
	ec.Weights = map[recommend.Strategy]recommend.Weights{
		recommend.StrategyBalanced: {
			Similarity: rc.WeightSimilarity,
			Quality:    rc.WeightQuality,
			Freshness:  rc.WeightFreshness,
			Diversity:  rc.WeightDiversity,
		},
		recommend.StrategySemantic: engineWeights(rc.SemanticWeights),
		recommend.StrategyQuality:  engineWeights(rc.QualityWeights),
	}
	ec.Trust = map[recommend.Strategy]float64{
		recommend.StrategySemantic: rc.TrustSemantic,
		recommend.StrategyQuality:  rc.TrustQuality,
		recommend.StrategyBalanced: rc.TrustBalanced,
	}
	ec.QueryBlend = rc.QueryBlend
	ec.AggregateTTL = rc.AggregateTTL
	ec.InteractiveTTL = rc.InteractiveTTL
	ec.FanOutLimit = rc.FanOutLimit
	ec.DashboardLimit = rc.DashboardLimit

	if err := ec.Validate(); err != nil {
		return nil, err
	}
	return ec, nil
}

func engineWeights(w config.StrategyWeights) recommend.Weights {
	return recommend.Weights{
		Similarity: w.Similarity,
		Quality:    w.Quality,
		Freshness:  w.Freshness,
		Diversity:  w.Diversity,
	}
}

func buildRankerConfig(cfg *config.Config) reranking.Config {
	return reranking.Config{
		OverlapThreshold:   cfg.Recommend.OverlapThreshold,
		FreshnessFullDays:  cfg.Recommend.FreshnessFullDays,
		FreshnessDecayDays: cfg.Recommend.FreshnessDecayDays,
		FreshnessFloor:     cfg.Recommend.FreshnessFloor,
	}
}

// initRecommend builds the engine over the change-notifying corpus and
// registers its invalidation hook, so every save or delete drops the
// owner's profile and cached lists.
func initRecommend(cfg *config.Config, items *corpus.Notifying, store cache.Store, gateway *enrichment.Gateway, qm *quota.Manager) (*recommend.Engine, error) {
	engineCfg, err := buildEngineConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}

	deps := recommend.Dependencies{
		Corpus: items,
		Profiles: algorithms.NewProfileBuilder(items, algorithms.ProfileOptions{
			MaxItems: cfg.Recommend.ProfileMaxItems,
			TTL:      cfg.Recommend.ProfileTTL,
			Cache:    store,
		}),
		Scorer:   algorithms.NewScorer(),
		Ranker:   reranking.NewRanker(buildRankerConfig(cfg)),
		Combiner: reranking.NewEnsemble(),
		Cache:    recommend.NewResultCache(store, engineCfg.AggregateTTL, engineCfg.InteractiveTTL),
		Quota:    qm,
	}
	if gateway != nil {
		deps.AI = gateway
	}

	engine, err := recommend.NewEngine(engineCfg, deps, logging.Component("recommend"))
	if err != nil {
		return nil, err
	}
	items.OnChange(engine.OnContentChanged)

	logging.Info().
		Str("default_strategy", string(engineCfg.DefaultStrategy)).
		Int("max_candidates", engineCfg.MaxCandidates).
		Bool("ai", deps.AI != nil).
		Msg("Recommendation engine initialized")
	return engine, nil
}
