// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable is returned by a backend that cannot be reached. Callers
// above the cache layer never see it: Tiered converts it into a miss.
var ErrUnavailable = errors.New("cache backend unavailable")

// Store is a byte-oriented TTL key/value store with atomic counters.
// Local, RedisStore and Tiered implement it.
type Store interface {
	// Get returns the value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Incr atomically increments the counter at key and returns the new value.
	// A new counter expires after ttl (0 = never).
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Counter returns the current counter value, 0 when absent.
	Counter(ctx context.Context, key string) (int64, error)
}

// GenerateKey creates a compact, deterministic key from a prefix and any
// JSON-serializable parameters.
//
//	key := cache.GenerateKey("rec", params) // "rec:3f9a..."
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}

// GetJSON reads and decodes a JSON value. Decode failures are reported as
// errors so the caller can treat them as a miss.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value as JSON and stores it.
func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}
