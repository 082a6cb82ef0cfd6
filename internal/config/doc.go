// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package config loads and validates Fuze configuration.

Configuration is layered with Koanf v2:

 1. Built-in defaults (Default)
 2. Optional YAML file: CONFIG_PATH, then config.yaml, config.yml, /etc/fuze/config.yaml
 3. Environment variables, through an explicit mapping table

Environment variables only take effect when they appear in the mapping
table, for example:

	ENCRYPTION_SECRET       -> security.encryption_secret
	QUOTA_MINUTE_LIMIT      -> quota.minute_limit
	RECOMMEND_AGGREGATE_TTL -> recommend.aggregate_ttl
	REDIS_URL               -> redis.url
	OPENAI_API_KEY          -> enrichment.default_api_key

Comma-separated values are accepted for list settings (CORS_ORIGINS,
CREDENTIAL_PREFIXES). Durations use Go syntax ("20m", "1h").

Load fails when Validate rejects the result; the server refuses to start
without an encryption secret of at least 32 characters.
*/
package config
