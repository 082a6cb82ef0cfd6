// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package recommend ranks a user's saved content by semantic similarity to
// their interests, content quality and freshness.
//
// # Pipeline
//
//	Request -> validate -> strategy -> ResultCache lookup
//	        -> ProfileSource.Build (interest vector)
//	        -> optional query embedding blended into the vector
//	        -> corpus candidates -> SimilarityScorer
//	        -> Ranker (one run) or Ranker x3 + Combiner (ensemble)
//	        -> pagination -> ResultCache write -> Response
//
// # Strategies
//
// The set is closed: balanced, semantic, quality and ensemble. The legacy
// names fast, smart and unified are accepted by ParseStrategy and mapped to
// semantic, ensemble and balanced. Each single-run strategy is the same
// ranker with a different weight set; ensemble merges the three by
// reciprocal-rank voting.
//
// # Degradation
//
// A user without embedded content has no profile, and ranking falls back
// to quality and freshness. A query that cannot be embedded (no credential,
// quota exhausted, provider down) is reported as a notice, with the quota
// wait when relevant, and ranking proceeds on the profile alone. Cache
// backend errors are treated as misses.
//
// # Invalidation
//
// Cached lists are keyed by user, profile and project generation counters.
// OnContentChanged, OnProfileChanged and OnProjectChanged bump them, which
// makes every older list unreachable without scanning keys.
//
// Concrete profile building and scoring live in package algorithms; ranking
// and ensemble merging in package reranking. cmd/server wires them.
package recommend
