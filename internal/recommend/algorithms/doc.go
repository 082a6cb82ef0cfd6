// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package algorithms implements the vector math behind recommendations.
//
// # Interest Profiles
//
// ProfileBuilder implements recommend.ProfileSource. A profile is the mean
// of the user's top-quality item embeddings, each weighted by its quality
// score, scaled to unit length:
//
//	v = normalize( sum(q_i * e_i) )
//
// Embeddings whose dimension differs from the first one seen are skipped.
// A user with no embedded items has no profile (nil, no error). Built
// profiles are cached in a cache.Store until their TTL expires or
// Invalidate is called.
//
// # Similarity
//
// Scorer implements recommend.SimilarityScorer. It scores a whole
// candidate batch in one matrix-vector product, so latency is linear in the
// batch size. Cosine is exported for callers comparing two vectors.
//
// # Thread Safety
//
// Both types are safe for concurrent use.
package algorithms
