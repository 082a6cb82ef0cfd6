// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package config

import (
	"fmt"
	"math"
	"strings"
)

// minEncryptionSecretLength matches the credential encryptor's requirement.
const minEncryptionSecretLength = 32

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateSecurity,
		c.validateDatabase,
		c.validateRedis,
		c.validateRecommend,
		c.validateQuota,
		c.validateCredentials,
		c.validateEnrichment,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if len(s.EncryptionSecret) < minEncryptionSecretLength {
		return fmt.Errorf("ENCRYPTION_SECRET must be at least %d characters", minEncryptionSecretLength)
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs <= 0 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("rate limit requests and window must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
	}
	if c.Database.GCInterval < 0 {
		return fmt.Errorf("BADGER_GC_INTERVAL must not be negative")
	}
	if c.Database.GCInterval > 0 && (c.Database.GCDiscardRatio <= 0 || c.Database.GCDiscardRatio >= 1) {
		return fmt.Errorf("BADGER_GC_RATIO must be between 0 and 1, got %v", c.Database.GCDiscardRatio)
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required when REDIS_ENABLED=true")
	}
	if c.Redis.OpTimeout <= 0 {
		return fmt.Errorf("REDIS_OP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch strings.ToLower(r.DefaultStrategy) {
	case "balanced", "semantic", "quality", "ensemble", "fast", "smart", "unified":
	default:
		return fmt.Errorf("recommend.default_strategy %q is not a known strategy", r.DefaultStrategy)
	}
	if r.DefaultLimit <= 0 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend.default_limit must be positive and <= max_limit, got %d/%d", r.DefaultLimit, r.MaxLimit)
	}
	if r.MaxCandidates < r.MaxLimit {
		return fmt.Errorf("recommend.max_candidates must be >= max_limit, got %d", r.MaxCandidates)
	}
	if r.EmbeddingDimension <= 0 || r.ProfileMaxItems <= 0 || r.FanOutLimit <= 0 || r.DashboardLimit <= 0 {
		return fmt.Errorf("recommend.embedding_dimension, profile_max_items, fan_out_limit and dashboard_limit must be positive")
	}
	if r.ProfileTTL <= 0 || r.AggregateTTL <= 0 || r.InteractiveTTL < 0 {
		return fmt.Errorf("recommend TTLs must not be negative and profile/aggregate TTLs must be positive")
	}
	if r.QualityThreshold < 1 || r.QualityThreshold > 10 {
		return fmt.Errorf("recommend.quality_threshold must be between 1 and 10, got %d", r.QualityThreshold)
	}
	if r.FreshnessFullDays < 0 || r.FreshnessDecayDays <= r.FreshnessFullDays {
		return fmt.Errorf("recommend.freshness_decay_days must exceed freshness_full_days")
	}
	for name, v := range map[string]float64{
		"overlap_threshold": r.OverlapThreshold,
		"freshness_floor":   r.FreshnessFloor,
		"query_blend":       r.QueryBlend,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("recommend.%s must be between 0 and 1, got %f", name, v)
		}
	}
	for name, w := range map[string]StrategyWeights{
		"balanced": {r.WeightSimilarity, r.WeightQuality, r.WeightFreshness, r.WeightDiversity},
		"semantic": r.SemanticWeights,
		"quality":  r.QualityWeights,
	} {
		if err := w.validate(name); err != nil {
			return err
		}
	}
	if r.TrustSemantic < 0 || r.TrustQuality < 0 || r.TrustBalanced < 0 {
		return fmt.Errorf("recommend trust weights must not be negative")
	}
	return nil
}

func (c *Config) validateQuota() error {
	q := c.Quota
	if q.MinuteLimit <= 0 || q.DayLimit < q.MinuteLimit || q.MonthLimit < q.DayLimit {
		return fmt.Errorf("quota limits must satisfy 0 < minute <= day <= month, got %d/%d/%d",
			q.MinuteLimit, q.DayLimit, q.MonthLimit)
	}
	if q.DefaultMinuteLimit <= 0 || q.DefaultDayLimit < q.DefaultMinuteLimit || q.DefaultMonthLimit < q.DefaultDayLimit {
		return fmt.Errorf("default credential quota limits must satisfy 0 < minute <= day <= month, got %d/%d/%d",
			q.DefaultMinuteLimit, q.DefaultDayLimit, q.DefaultMonthLimit)
	}
	return nil
}

func (c *Config) validateCredentials() error {
	cr := c.Credentials
	if cr.MinLength <= 0 || cr.MaxLength < cr.MinLength {
		return fmt.Errorf("credentials.min_length must be positive and <= max_length, got %d/%d", cr.MinLength, cr.MaxLength)
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	e := c.Enrichment
	if !e.Enabled {
		return nil
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("ENRICHMENT_TIMEOUT must be positive")
	}
	if e.RequestsPerSecond <= 0 || e.Burst <= 0 {
		return fmt.Errorf("enrichment rate and burst must be positive")
	}
	if e.EmbeddingModel == "" || e.ChatModel == "" {
		return fmt.Errorf("enrichment models must be set")
	}
	return nil
}

func (w StrategyWeights) validate(strategy string) error {
	var sum float64
	for _, v := range []float64{w.Similarity, w.Quality, w.Freshness, w.Diversity} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("recommend %s weights must not be negative", strategy)
		}
		sum += v
	}
	if sum == 0 {
		return fmt.Errorf("recommend %s weights must not all be zero", strategy)
	}
	return nil
}
