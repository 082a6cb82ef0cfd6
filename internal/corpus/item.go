// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package corpus

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when an item does not exist for the user.
var ErrNotFound = errors.New("content item not found")

// Item is a piece of content a user has saved.
type Item struct {
	// ID is assigned by the store on first Put.
	ID int64 `json:"id"`

	// UserID owns the item. Items are never shared between users.
	UserID int64 `json:"user_id"`

	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`

	// Embedding is empty until the item has been embedded.
	Embedding []float32 `json:"embedding,omitempty"`

	// QualityScore is 1-10; 0 means not yet rated.
	QualityScore int `json:"quality_score"`

	// Tags compare case-insensitively.
	Tags []string `json:"tags"`

	SavedAt time.Time `json:"saved_at"`

	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// Enrichment holds AI-derived classification.
type Enrichment struct {
	ContentType string    `json:"content_type,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	KeyConcepts []string  `json:"key_concepts,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	EnrichedAt  time.Time `json:"enriched_at"`
}

// Embedded reports whether the item carries an embedding.
func (i *Item) Embedded() bool {
	return len(i.Embedding) > 0
}

// Labels returns the lowercased tags and key concepts, used for topic
// matching.
func (i *Item) Labels() []string {
	out := make([]string, 0, len(i.Tags)+4)
	for _, t := range i.Tags {
		out = append(out, strings.ToLower(strings.TrimSpace(t)))
	}
	if i.Enrichment != nil {
		for _, c := range i.Enrichment.KeyConcepts {
			out = append(out, strings.ToLower(strings.TrimSpace(c)))
		}
	}
	return out
}

// TagCount is a tag and how many of the user's items carry it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes a user's corpus.
type Stats struct {
	Total          int        `json:"total"`
	Embedded       int        `json:"embedded"`
	Enriched       int        `json:"enriched"`
	AverageQuality float64    `json:"average_quality"`
	TopTags        []TagCount `json:"top_tags"`
	LastSavedAt    *time.Time `json:"last_saved_at,omitempty"`
}

// Store holds users' saved content.
type Store interface {
	// TopQualityItems returns up to limit embedded items, highest quality
	// first, newest first among equal quality.
	TopQualityItems(ctx context.Context, userID int64, limit int) ([]Item, error)

	// Candidates returns up to limit of the user's items, newest first.
	Candidates(ctx context.Context, userID int64, limit int) ([]Item, error)

	Get(ctx context.Context, userID, id int64) (*Item, error)

	// Put inserts or replaces an item, assigning an ID when it is zero.
	Put(ctx context.Context, item *Item) error

	Delete(ctx context.Context, userID, id int64) error

	Stats(ctx context.Context, userID int64) (Stats, error)
}

// topQuality filters to embedded items and orders them for profiling.
func topQuality(items []Item, limit int) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		if items[i].Embedded() {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].QualityScore != out[b].QualityScore {
			return out[a].QualityScore > out[b].QualityScore
		}
		return out[a].SavedAt.After(out[b].SavedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func newestFirst(items []Item, limit int) []Item {
	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].SavedAt.Equal(items[b].SavedAt) {
			return items[a].SavedAt.After(items[b].SavedAt)
		}
		return items[a].ID > items[b].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

const topTagCount = 10

func computeStats(items []Item) Stats {
	var s Stats
	counts := make(map[string]int)
	var qualitySum, rated int
	for i := range items {
		it := &items[i]
		s.Total++
		if it.Embedded() {
			s.Embedded++
		}
		if it.Enrichment != nil {
			s.Enriched++
		}
		if it.QualityScore > 0 {
			qualitySum += it.QualityScore
			rated++
		}
		seen := make(map[string]struct{}, len(it.Tags))
		for _, t := range it.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if _, dup := seen[t]; dup || t == "" {
				continue
			}
			seen[t] = struct{}{}
			counts[t]++
		}
		if s.LastSavedAt == nil || it.SavedAt.After(*s.LastSavedAt) {
			saved := it.SavedAt
			s.LastSavedAt = &saved
		}
	}
	if rated > 0 {
		s.AverageQuality = float64(qualitySum) / float64(rated)
	}

	s.TopTags = make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		s.TopTags = append(s.TopTags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(s.TopTags, func(a, b int) bool {
		if s.TopTags[a].Count != s.TopTags[b].Count {
			return s.TopTags[a].Count > s.TopTags[b].Count
		}
		return s.TopTags[a].Tag < s.TopTags[b].Tag
	})
	if len(s.TopTags) > topTagCount {
		s.TopTags = s.TopTags[:topTagCount]
	}
	return s
}

func cloneItem(it *Item) Item {
	c := *it
	c.Embedding = append([]float32(nil), it.Embedding...)
	c.Tags = append([]string(nil), it.Tags...)
	if it.Enrichment != nil {
		e := *it.Enrichment
		e.KeyConcepts = append([]string(nil), it.Enrichment.KeyConcepts...)
		c.Enrichment = &e
	}
	return c
}
