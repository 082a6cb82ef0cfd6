// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package reranking

import (
	"sort"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
)

// Ensemble merges ranked lists by reciprocal-rank voting. An item at
// 1-based position p of a list with trust t receives t/p votes.
//
// Reference:
// Cormack, G. V., Clarke, C. L. A., & Buettcher, S. (2009). "Reciprocal Rank
// Fusion Outperforms Condorcet and Individual Rank Learning Methods." SIGIR 2009.
type Ensemble struct{}

// NewEnsemble creates an Ensemble.
func NewEnsemble() *Ensemble {
	return &Ensemble{}
}

// ballot accumulates one item's votes.
type ballot struct {
	rep   recommend.Recommendation
	trust float64
	votes float64
	first int
}

// Combine merges lists and returns at most limit items (0 = all), sorted by
// vote total. Ties go to the item with the higher score in the
// highest-trust list containing it, then to first appearance. Each output
// item is the copy from that highest-trust list, with Strategy set to
// ensemble and the vote total in Signals.Ensemble. Merging identical lists
// reproduces the list.
func (e *Ensemble) Combine(lists []recommend.StrategyResult, limit int) []recommend.Recommendation {
	ballots := make(map[int64]*ballot)
	order := 0

	for _, list := range lists {
		trust := list.Trust
		if trust <= 0 {
			trust = 1
		}
		for pos := range list.Items {
			item := list.Items[pos]
			b, ok := ballots[item.ContentID]
			if !ok {
				b = &ballot{rep: item, trust: trust, first: order}
				ballots[item.ContentID] = b
				order++
			} else if trust > b.trust {
				b.rep = item
				b.trust = trust
			}
			b.votes += trust / float64(pos+1)
		}
	}

	merged := make([]*ballot, 0, len(ballots))
	for _, b := range ballots {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.votes != b.votes {
			return a.votes > b.votes
		}
		if a.rep.Score != b.rep.Score {
			return a.rep.Score > b.rep.Score
		}
		return a.first < b.first
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	out := make([]recommend.Recommendation, len(merged))
	for i, b := range merged {
		rec := b.rep
		rec.Strategy = recommend.StrategyEnsemble
		rec.Signals.Ensemble = b.votes
		out[i] = rec
	}
	return out
}

var (
	_ recommend.Ranker   = (*Ranker)(nil)
	_ recommend.Combiner = (*Ensemble)(nil)
)
