// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package main is the entry point for the Fuze recommendation server.

Fuze ranks a user's saved content (articles, tutorials, docs) against their
interest profile and current task, and enriches newly saved content with
AI-generated tags, quality scores and embeddings.

# Application Architecture

	RootSupervisor ("fuze")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── badger-gc (on-disk mode only)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Storage: BadgerDB for corpus, credentials and quota state
 4. Cache: in-process tier plus optional Redis tier
 5. Credentials and quota managers, wired to each other
 6. AI gateway (OpenAI-compatible provider), when enabled
 7. Recommendation engine, subscribed to corpus changes
 8. HTTP: chi router with request ID, CORS, rate limits and metrics
 9. Supervisor tree: suture v4

# Configuration

Priority: environment variables > config file > defaults.

	HTTP_PORT=8080
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console
	ENCRYPTION_SECRET=<32+ chars>  # required; derives the credential key
	BADGER_PATH=/data/fuze         # or BADGER_IN_MEMORY=true
	REDIS_ENABLED=true
	REDIS_URL=redis://redis:6379/0
	OPENAI_API_KEY=<key>           # shared fallback key, optional
	RECOMMEND_DEFAULT_STRATEGY=balanced

A missing Redis or AI provider never stops the server: the cache falls back
to the in-process tier and content is saved without enrichment.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server stops
accepting connections and drains in-flight requests for
HTTP_SHUTDOWN_TIMEOUT, then the caches and database are closed.
*/
package main
