// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package reranking

import (
	"strings"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
)

// diversify greedily selects up to limit candidates from a sorted list.
// A candidate whose tag overlap with the already accepted ones exceeds the
// threshold is deferred; deferred candidates fill any remaining slots in
// their original order.
func (r *Ranker) diversify(sorted []*candidate, limit int, w recommend.Weights) []*candidate {
	accepted := make([]*candidate, 0, limit)
	var deferred []*candidate

	for _, c := range sorted {
		if len(accepted) == limit {
			break
		}
		if maxOverlap(c, accepted) > r.cfg.OverlapThreshold {
			deferred = append(deferred, c)
			continue
		}
		accept(c, accepted, w)
		accepted = append(accepted, c)
	}

	for _, c := range deferred {
		if len(accepted) == limit {
			break
		}
		accept(c, accepted, w)
		accepted = append(accepted, c)
	}
	return accepted
}

// accept sets the candidate's diversity signal against the items accepted
// so far and recomputes its blended score.
func accept(c *candidate, accepted []*candidate, w recommend.Weights) {
	c.signals.Diversity = 1 - maxOverlap(c, accepted)
	c.score = blend(w, c.signals)
}

func maxOverlap(c *candidate, accepted []*candidate) float64 {
	highest := 0.0
	for _, a := range accepted {
		if sim := jaccard(c.tags, a.tags); sim > highest {
			highest = sim
		}
	}
	return highest
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// jaccard computes the Jaccard similarity of two tag sets. Two untagged
// items do not overlap.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Jaccard returns the case-insensitive Jaccard similarity of two tag lists.
func Jaccard(a, b []string) float64 {
	return jaccard(tagSet(a), tagSet(b))
}
