// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("Recommend.DefaultLimit = %d, want 10", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.ProfileTTL != time.Hour {
		t.Errorf("Recommend.ProfileTTL = %v, want 1h", cfg.Recommend.ProfileTTL)
	}
	if cfg.Recommend.WeightSimilarity != 0.4 || cfg.Recommend.WeightDiversity != 0.2 {
		t.Errorf("unexpected default weights: %+v", cfg.Recommend)
	}
	if cfg.Quota.MinuteLimit != 15 || cfg.Quota.DayLimit != 1500 || cfg.Quota.MonthLimit != 45000 {
		t.Errorf("unexpected quota defaults: %+v", cfg.Quota)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}

	// Defaults alone are not valid: the encryption secret has no default.
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without encryption secret")
	}
	cfg.Security.EncryptionSecret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults with secret should validate: %v", err)
	}
}

func TestLoadEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("ENCRYPTION_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUOTA_MINUTE_LIMIT", "5")
	t.Setenv("RECOMMEND_AGGREGATE_TTL", "25m")
	t.Setenv("CREDENTIAL_PREFIXES", "sk-, AIza ,gsk_")
	t.Setenv("RECOMMEND_SEMANTIC_WEIGHT_SIMILARITY", "0.9")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Quota.MinuteLimit != 5 {
		t.Errorf("Quota.MinuteLimit = %d, want 5", cfg.Quota.MinuteLimit)
	}
	if cfg.Recommend.AggregateTTL != 25*time.Minute {
		t.Errorf("Recommend.AggregateTTL = %v, want 25m", cfg.Recommend.AggregateTTL)
	}
	if got := strings.Join(cfg.Credentials.AllowedPrefixes, "|"); got != "sk-|AIza|gsk_" {
		t.Errorf("AllowedPrefixes = %q", got)
	}
	if cfg.Quota.DayLimit != 1500 {
		t.Errorf("Quota.DayLimit = %d, want default 1500", cfg.Quota.DayLimit)
	}
	if cfg.Recommend.SemanticWeights.Similarity != 0.9 {
		t.Errorf("SemanticWeights.Similarity = %f, want 0.9", cfg.Recommend.SemanticWeights.Similarity)
	}
	if cfg.Recommend.QualityWeights.Quality != 0.6 {
		t.Errorf("QualityWeights.Quality = %f, want default 0.6", cfg.Recommend.QualityWeights.Quality)
	}
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8888
security:
  encryption_secret: "` + testSecret + `"
recommend:
  default_strategy: ensemble
  weight_quality: 0.5
  quality:
    weight_freshness: 0.3
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultStrategy != "ensemble" {
		t.Errorf("DefaultStrategy = %q, want ensemble", cfg.Recommend.DefaultStrategy)
	}
	if cfg.Recommend.WeightQuality != 0.5 {
		t.Errorf("WeightQuality = %f, want 0.5", cfg.Recommend.WeightQuality)
	}
	if w := cfg.Recommend.QualityWeights; w.Freshness != 0.3 || w.Quality != 0.6 {
		t.Errorf("QualityWeights = %+v, want freshness 0.3 over defaults", w)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("env should override file: Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Security.EncryptionSecret = "short" }, "ENCRYPTION_SECRET"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad strategy", func(c *Config) { c.Recommend.DefaultStrategy = "magic" }, "default_strategy"},
		{"zero weights", func(c *Config) {
			c.Recommend.WeightSimilarity, c.Recommend.WeightQuality = 0, 0
			c.Recommend.WeightFreshness, c.Recommend.WeightDiversity = 0, 0
		}, "all be zero"},
		{"negative weight", func(c *Config) { c.Recommend.WeightQuality = -1 }, "negative"},
		{"zero semantic weights", func(c *Config) { c.Recommend.SemanticWeights = StrategyWeights{} }, "semantic weights must not all be zero"},
		{"negative quality weight", func(c *Config) { c.Recommend.QualityWeights.Freshness = -0.1 }, "quality weights must not be negative"},
		{"quota order", func(c *Config) { c.Quota.DayLimit = 10 }, "quota limits"},
		{"freshness window", func(c *Config) { c.Recommend.FreshnessDecayDays = 7 }, "freshness_decay_days"},
		{"redis without url", func(c *Config) { c.Redis.Enabled = true; c.Redis.URL = "" }, "REDIS_URL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"in memory db without path", func(c *Config) { c.Database.Path = ""; c.Database.InMemory = true }, ""},
		{"gc ratio out of range", func(c *Config) { c.Database.GCDiscardRatio = 1.5 }, "BADGER_GC_RATIO"},
		{"gc disabled ignores ratio", func(c *Config) { c.Database.GCInterval = 0; c.Database.GCDiscardRatio = 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Security.EncryptionSecret = testSecret
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if s.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", s.Addr())
	}
}
