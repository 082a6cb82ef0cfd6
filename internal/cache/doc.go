// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package cache provides the two-tier cache behind interest profiles,
recommendation lists and invalidation generation counters.

# Tiers

  - Local (L1): in-process map with per-entry TTL and a janitor goroutine
  - RedisStore (L2): go-redis client guarded by a gobreaker circuit breaker
  - Tiered: composes both behind the Store interface

Tiered swallows backend failures. A Redis outage degrades to local-only
caching and never fails a request; failures are counted in
fuze_cache_backend_errors_total.

# Keys

GenerateKey hashes JSON-encoded parameters into a compact key:

	key := cache.GenerateKey("rec", struct {
	    UserID int64
	    Limit  int
	}{42, 10})

Values are raw bytes; GetJSON and SetJSON encode with goccy/go-json.
*/
package cache
