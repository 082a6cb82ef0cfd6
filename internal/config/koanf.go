// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fuze/config.yaml",
	"/etc/fuze/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration. Load layers the config file
// and environment on top of it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:           "/data/fuze",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Redis: RedisConfig{
			Enabled:         false,
			URL:             "redis://127.0.0.1:6379/0",
			KeyPrefix:       "fuze:",
			DialTimeout:     2 * time.Second,
			OpTimeout:       250 * time.Millisecond,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			LocalTTL:        5 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultStrategy:    "balanced",
			DefaultLimit:       10,
			MaxLimit:           100,
			MaxCandidates:      500,
			EmbeddingDimension: 384,
			ProfileMaxItems:    50,
			ProfileTTL:         time.Hour,
			AggregateTTL:       20 * time.Minute,
			InteractiveTTL:     0,
			QualityThreshold:   1,
			OverlapThreshold:   0.6,
			FreshnessFullDays:  7,
			FreshnessDecayDays: 90,
			FreshnessFloor:     0.1,
			QueryBlend:         0.5,
			FanOutLimit:        4,
			DashboardLimit:     5,
			WeightSimilarity:   0.4,
			WeightQuality:      0.25,
			WeightFreshness:    0.15,
			WeightDiversity:    0.2,
			SemanticWeights: StrategyWeights{
				Similarity: 0.7,
				Quality:    0.1,
				Freshness:  0.1,
				Diversity:  0.1,
			},
			QualityWeights: StrategyWeights{
				Similarity: 0.15,
				Quality:    0.6,
				Freshness:  0.1,
				Diversity:  0.15,
			},
			TrustSemantic:      1.0,
			TrustQuality:       1.0,
			TrustBalanced:      1.0,
		},
		Quota: QuotaConfig{
			MinuteLimit:        15,
			DayLimit:           1500,
			MonthLimit:         45000,
			DefaultMinuteLimit: 60,
			DefaultDayLimit:    10000,
			DefaultMonthLimit:  300000,
		},
		Credentials: CredentialsConfig{
			MinLength:       20,
			MaxLength:       256,
			AllowedPrefixes: []string{"sk-", "AIza"},
		},
		Enrichment: EnrichmentConfig{
			Enabled:             true,
			EmbeddingModel:      "text-embedding-3-small",
			ChatModel:           "gpt-4o-mini",
			Timeout:             15 * time.Second,
			RequestsPerSecond:   5,
			Burst:               10,
			BreakerFailures:     5,
			BreakerOpenDuration: 30 * time.Second,
		},
	}
}

// Load builds the configuration from three layers, later ones winning:
//  1. Default()
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. mapped environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"credentials.allowed_prefixes",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot leak
// into the configuration.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"encryption_secret":   "security.encryption_secret",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"badger_path":        "database.path",
	"badger_in_memory":   "database.in_memory",
	"badger_gc_interval": "database.gc_interval",
	"badger_gc_ratio":    "database.gc_discard_ratio",

	"redis_enabled":          "redis.enabled",
	"redis_url":              "redis.url",
	"redis_key_prefix":       "redis.key_prefix",
	"redis_dial_timeout":     "redis.dial_timeout",
	"redis_op_timeout":       "redis.op_timeout",
	"redis_breaker_failures": "redis.breaker_failures",
	"redis_breaker_timeout":  "redis.breaker_timeout",
	"cache_local_ttl":        "redis.local_ttl",

	"recommend_default_strategy":    "recommend.default_strategy",
	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_max_candidates":      "recommend.max_candidates",
	"recommend_embedding_dimension": "recommend.embedding_dimension",
	"recommend_profile_max_items":   "recommend.profile_max_items",
	"recommend_profile_ttl":         "recommend.profile_ttl",
	"recommend_aggregate_ttl":       "recommend.aggregate_ttl",
	"recommend_interactive_ttl":     "recommend.interactive_ttl",
	"recommend_quality_threshold":   "recommend.quality_threshold",
	"recommend_overlap_threshold":   "recommend.overlap_threshold",
	"recommend_freshness_full_days": "recommend.freshness_full_days",
	"recommend_freshness_days":      "recommend.freshness_decay_days",
	"recommend_freshness_floor":     "recommend.freshness_floor",
	"recommend_query_blend":         "recommend.query_blend",
	"recommend_fan_out_limit":       "recommend.fan_out_limit",
	"recommend_dashboard_limit":     "recommend.dashboard_limit",
	"recommend_weight_similarity":   "recommend.weight_similarity",
	"recommend_weight_quality":      "recommend.weight_quality",
	"recommend_weight_freshness":    "recommend.weight_freshness",
	"recommend_weight_diversity":    "recommend.weight_diversity",

	"recommend_semantic_weight_similarity": "recommend.semantic.weight_similarity",
	"recommend_semantic_weight_quality":    "recommend.semantic.weight_quality",
	"recommend_semantic_weight_freshness":  "recommend.semantic.weight_freshness",
	"recommend_semantic_weight_diversity":  "recommend.semantic.weight_diversity",
	"recommend_quality_weight_similarity":  "recommend.quality.weight_similarity",
	"recommend_quality_weight_quality":     "recommend.quality.weight_quality",
	"recommend_quality_weight_freshness":   "recommend.quality.weight_freshness",
	"recommend_quality_weight_diversity":   "recommend.quality.weight_diversity",

	"recommend_trust_semantic":      "recommend.trust_semantic",
	"recommend_trust_quality":       "recommend.trust_quality",
	"recommend_trust_balanced":      "recommend.trust_balanced",

	"quota_minute_limit":         "quota.minute_limit",
	"quota_day_limit":            "quota.day_limit",
	"quota_month_limit":          "quota.month_limit",
	"quota_default_minute_limit": "quota.default_minute_limit",
	"quota_default_day_limit":    "quota.default_day_limit",
	"quota_default_month_limit":  "quota.default_month_limit",

	"credential_min_length":      "credentials.min_length",
	"credential_max_length":      "credentials.max_length",
	"credential_prefixes":        "credentials.allowed_prefixes",
	"credential_live_validation": "credentials.live_validation",

	"enrichment_enabled":         "enrichment.enabled",
	"enrichment_default_api_key": "enrichment.default_api_key",
	"openai_api_key":             "enrichment.default_api_key",
	"openai_base_url":            "enrichment.base_url",
	"enrichment_embedding_model": "enrichment.embedding_model",
	"enrichment_chat_model":      "enrichment.chat_model",
	"enrichment_timeout":         "enrichment.timeout",
	"enrichment_rps":             "enrichment.requests_per_second",
	"enrichment_burst":           "enrichment.burst",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
