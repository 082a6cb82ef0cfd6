// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are registered with the default registry through promauto at
package init. Groups:
  - fuze_recommend_*: engine latency, outcomes, candidate counts, profile builds
  - fuze_cache_*: hits and misses per tier (l1, l2), swallowed backend errors
  - fuze_quota_*: check decisions, state transitions, recorded calls
  - fuze_credential_*: credential store operations
  - fuze_enrichment_*: AI provider calls and latency
  - fuze_circuit_breaker_*: gobreaker state per breaker name
  - fuze_api_*: HTTP traffic

Label values are bounded sets (strategy names, tiers, states); user IDs are
never used as labels.
*/
package metrics
