// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package algorithms

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
)

// Scorer computes cosine similarity between an interest vector and a batch
// of candidates. Candidates are packed into one row-major matrix and scored
// with a single matrix-vector product.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns one entry per embedded candidate whose dimension matches
// the profile. Unembedded or mismatched candidates are skipped, not scored
// as zero. An empty or zero profile yields no scores.
func (s *Scorer) Score(profile []float64, candidates []corpus.Item) []recommend.Scored {
	dim := len(profile)
	if dim == 0 {
		return nil
	}
	pnorm := floats.Norm(profile, 2)
	if pnorm == 0 {
		return nil
	}

	rows := make([]int, 0, len(candidates))
	for i := range candidates {
		if len(candidates[i].Embedding) == dim {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	data := make([]float64, len(rows)*dim)
	for r, idx := range rows {
		row := data[r*dim : (r+1)*dim]
		for j, v := range candidates[idx].Embedding {
			row[j] = float64(v)
		}
	}
	m := mat.NewDense(len(rows), dim, data)

	var dots mat.VecDense
	dots.MulVec(m, mat.NewVecDense(dim, profile))

	out := make([]recommend.Scored, len(rows))
	for r, idx := range rows {
		sim := 0.0
		if rn := floats.Norm(m.RawRowView(r), 2); rn > 0 {
			sim = clamp(dots.AtVec(r) / (rn * pnorm))
		}
		out[r] = recommend.Scored{ContentID: candidates[idx].ID, Similarity: sim}
	}
	return out
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Vectors of
// different length or zero vectors give 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(a, b) / (na * nb))
}

// clamp bounds rounding error.
func clamp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

var _ recommend.SimilarityScorer = (*Scorer)(nil)
