// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Security    SecurityConfig    `koanf:"security"`
	Database    DatabaseConfig    `koanf:"database"`
	Redis       RedisConfig       `koanf:"redis"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Quota       QuotaConfig       `koanf:"quota"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Enrichment  EnrichmentConfig  `koanf:"enrichment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds secret material and HTTP protection settings.
type SecurityConfig struct {
	// EncryptionSecret is the server-wide secret the credential encryption key
	// is derived from. Every instance must share it.
	EncryptionSecret string `koanf:"encryption_secret"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig configures the embedded BadgerDB used for corpus, credential
// and quota state.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often the value log is compacted (0 disables).
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// RedisConfig configures the shared (L2) cache tier. When disabled, or when
// the server is unreachable, the in-process tier serves alone.
type RedisConfig struct {
	Enabled         bool          `koanf:"enabled"`
	URL             string        `koanf:"url"`
	KeyPrefix       string        `koanf:"key_prefix"`
	DialTimeout     time.Duration `koanf:"dial_timeout"`
	OpTimeout       time.Duration `koanf:"op_timeout"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	LocalTTL        time.Duration `koanf:"local_ttl"`
}

// RecommendConfig holds ranking engine settings.
type RecommendConfig struct {
	DefaultStrategy    string        `koanf:"default_strategy"`
	DefaultLimit       int           `koanf:"default_limit"`
	MaxLimit           int           `koanf:"max_limit"`
	MaxCandidates      int           `koanf:"max_candidates"`
	EmbeddingDimension int           `koanf:"embedding_dimension"`
	ProfileMaxItems    int           `koanf:"profile_max_items"`
	ProfileTTL         time.Duration `koanf:"profile_ttl"`
	AggregateTTL       time.Duration `koanf:"aggregate_ttl"`
	InteractiveTTL     time.Duration `koanf:"interactive_ttl"`
	QualityThreshold   int           `koanf:"quality_threshold"`
	OverlapThreshold   float64       `koanf:"overlap_threshold"`
	FreshnessFullDays  int           `koanf:"freshness_full_days"`
	FreshnessDecayDays int           `koanf:"freshness_decay_days"`
	FreshnessFloor     float64       `koanf:"freshness_floor"`
	QueryBlend         float64       `koanf:"query_blend"`
	FanOutLimit        int           `koanf:"fan_out_limit"`
	DashboardLimit     int           `koanf:"dashboard_limit"`

	// Weight* are the balanced strategy's blend weights.
	WeightSimilarity float64 `koanf:"weight_similarity"`
	WeightQuality    float64 `koanf:"weight_quality"`
	WeightFreshness  float64 `koanf:"weight_freshness"`
	WeightDiversity  float64 `koanf:"weight_diversity"`

	SemanticWeights StrategyWeights `koanf:"semantic"`
	QualityWeights  StrategyWeights `koanf:"quality"`

	TrustSemantic float64 `koanf:"trust_semantic"`
	TrustQuality  float64 `koanf:"trust_quality"`
	TrustBalanced float64 `koanf:"trust_balanced"`
}

// StrategyWeights are one ranking strategy's signal blend weights. They are
// normalized at runtime.
type StrategyWeights struct {
	Similarity float64 `koanf:"weight_similarity"`
	Quality    float64 `koanf:"weight_quality"`
	Freshness  float64 `koanf:"weight_freshness"`
	Diversity  float64 `koanf:"weight_diversity"`
}

// QuotaConfig holds per-subject call limits. The Default* limits apply to the
// shared server credential and are tracked separately from user keys.
type QuotaConfig struct {
	MinuteLimit int64 `koanf:"minute_limit"`
	DayLimit    int64 `koanf:"day_limit"`
	MonthLimit  int64 `koanf:"month_limit"`

	DefaultMinuteLimit int64 `koanf:"default_minute_limit"`
	DefaultDayLimit    int64 `koanf:"default_day_limit"`
	DefaultMonthLimit  int64 `koanf:"default_month_limit"`
}

// CredentialsConfig holds API key format rules.
type CredentialsConfig struct {
	MinLength       int      `koanf:"min_length"`
	MaxLength       int      `koanf:"max_length"`
	AllowedPrefixes []string `koanf:"allowed_prefixes"`
	LiveValidation  bool     `koanf:"live_validation"`
}

// EnrichmentConfig configures the AI provider used for embeddings and
// metadata enrichment.
type EnrichmentConfig struct {
	Enabled             bool          `koanf:"enabled"`
	DefaultAPIKey       string        `koanf:"default_api_key"`
	BaseURL             string        `koanf:"base_url"`
	EmbeddingModel      string        `koanf:"embedding_model"`
	ChatModel           string        `koanf:"chat_model"`
	Timeout             time.Duration `koanf:"timeout"`
	RequestsPerSecond   float64       `koanf:"requests_per_second"`
	Burst               int           `koanf:"burst"`
	BreakerFailures     uint32        `koanf:"breaker_failures"`
	BreakerOpenDuration time.Duration `koanf:"breaker_open_duration"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
