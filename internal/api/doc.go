// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package api is the HTTP transport over the recommendation engine, the
credential store and the quota manager.

It is deliberately thin: handlers decode a body, call one service method
and map the result or error onto the response envelope. Business rules
live in the services.

# Routes

	POST   /api/v1/recommendations               ranked recommendations
	POST   /api/v1/invalidations                 content/profile/project cache invalidation
	GET    /api/v1/users/{userID}/dashboard      aggregate overview
	GET    /api/v1/users/{userID}/quota          AI quota usage
	POST   /api/v1/users/{userID}/items          save, enrich and embed content
	PUT    /api/v1/users/{userID}/credential     store an AI provider key
	GET    /api/v1/users/{userID}/credential     masked key info
	DELETE /api/v1/users/{userID}/credential     remove the key
	GET    /health                               liveness and dependency status
	GET    /metrics                              Prometheus exposition

# Response Envelope

Every JSON response uses APIResponse:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}, "meta": {...}}

# Error Mapping

	validation failure            400 VALIDATION_ERROR
	malformed body, bad strategy  400 BAD_REQUEST
	bad key format                400 INVALID_API_KEY
	key refused by provider       422 API_KEY_REJECTED
	no stored key                 404 NOT_FOUND
	AI quota exhausted            429 QUOTA_EXCEEDED with Retry-After
	engine timeout                504 TIMEOUT
	anything else                 500 INTERNAL_ERROR (details logged, not returned)

An empty corpus is not an error: recommendations answer 200 with an empty
list and a message.

# Middleware

RequestID, RealIP, Recoverer, CORS (go-chi/cors) and Prometheus metrics
apply globally. API routes are rate limited per client IP with
go-chi/httprate; write routes carry a stricter limit.
*/
package api
