// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package reranking turns scored candidates into ranked recommendation
// lists.
//
// # Multi-Signal Ranking
//
// Ranker implements recommend.Ranker. Each candidate gets four signals in
// [0, 1]:
//
//	similarity  (cosine + 1) / 2, 0 when the item was not scored
//	quality     (q - 1) / 9
//	freshness   1 up to 7 days, linear to 0.1 at 90 days, 0.1 after
//	diversity   1 - max tag Jaccard overlap with already accepted items
//
// The blended score is the weighted sum with weights normalized to 1.
// Without an interest profile the similarity weight is dropped and the rest
// renormalized.
//
// Selection is greedy in pre-score order. An item overlapping an accepted
// one by more than OverlapThreshold is deferred and only used when the
// list would otherwise be short. If fewer items pass the quality threshold
// and topic filter than requested, the highest-quality remaining items are
// added with reason "backfill". The list is never shorter than
// min(limit, candidates).
//
// # Ensemble
//
// Ensemble implements recommend.Combiner with trust-weighted reciprocal
// rank voting. It is idempotent: combining copies of one list returns that
// list.
//
// # Usage Example
//
//	ranker := reranking.NewRanker(reranking.DefaultConfig())
//	list := ranker.Rank(ctx, recommend.RankInput{
//	    Candidates:       items,
//	    Similarities:     sims,
//	    Limit:            10,
//	    QualityThreshold: 1,
//	    Weights:          cfg.WeightsFor(recommend.StrategyBalanced, nil),
//	    Now:              time.Now(),
//	    ProfileAvailable: true,
//	})
package reranking
