// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package enrichment is the quota-gated path to the AI provider.

Gateway.Embed and Gateway.Enrich run every call through the same steps:

 1. Resolve a credential: the user's own key (charged to the user subject)
    or the shared default key (charged to quota.DefaultSubject).
 2. quota.Check. A denied check returns *quota.ExceededError with the wait.
 3. Call the provider under a timeout, an outbound rate.Limiter and a
    gobreaker circuit breaker.
 4. On success only: quota.Record and credentials Touch.

A 401 or 403 from the provider marks the user's key invalid. Timeouts and
other failures are returned to the caller and never counted against the
quota; callers fall back to profile-only ranking.

OpenAIClient implements Client on github.com/openai/openai-go/v2.
*/
package enrichment
