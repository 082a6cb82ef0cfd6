// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"sort"
	"strings"
	"time"
)

// Request is a recommendation query.
type Request struct {
	// UserID owns the corpus and interest profile.
	UserID int64 `json:"user_id" validate:"required,gt=0"`

	// Title and Description describe what the user is working on. When
	// present they are embedded and blended into the interest vector.
	Title       string `json:"title" validate:"max=500"`
	Description string `json:"description" validate:"max=5000"`

	// Technologies is a comma separated topic list. Items must carry at
	// least one matching tag or key concept.
	Technologies string `json:"technologies" validate:"max=1000"`

	// ProjectID scopes cache invalidation to a project (0 = none).
	ProjectID int64 `json:"project_id" validate:"gte=0"`

	// Limit is the number of recommendations (0 = configured default).
	Limit int `json:"limit" validate:"gte=0,lte=1000"`

	// Strategy is a strategy name or legacy alias (empty = default).
	Strategy string `json:"strategy" validate:"omitempty,oneof=balanced semantic quality ensemble fast smart unified"`

	// QualityThreshold overrides the minimum quality (0 = default).
	QualityThreshold int `json:"quality_threshold" validate:"gte=0,lte=10"`

	// DiversityWeight overrides the diversity blend weight.
	DiversityWeight *float64 `json:"diversity_weight,omitempty" validate:"omitempty,gte=0,lte=1"`

	// Page is 1-based; 0 disables pagination.
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"page_size" validate:"gte=0,lte=1000"`

	// Interactive marks per-project requests from the editor, which use
	// the interactive cache TTL.
	Interactive bool `json:"interactive"`
}

// Pagination describes a page of results.
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	RequestID        string     `json:"request_id,omitempty"`
	Strategy         Strategy   `json:"strategy"`
	ProfileAvailable bool       `json:"profile_available"`
	QueryBlended     bool       `json:"query_blended"`
	CandidateCount   int        `json:"candidate_count"`
	Notices          []string   `json:"notices,omitempty"`
	QuotaWaitSeconds int64      `json:"quota_wait_seconds,omitempty"`
	LatencyMS        int64      `json:"latency_ms"`
	Strategies       []Strategy `json:"strategies,omitempty"`
}

// Response is the result of Recommend.
type Response struct {
	Items      []Recommendation `json:"recommendations"`
	Cached     bool             `json:"cached"`
	CachedAt   *time.Time       `json:"cached_at,omitempty"`
	Pagination *Pagination      `json:"pagination,omitempty"`
	Metadata   Metadata         `json:"metadata"`
	Message    string           `json:"message,omitempty"`
}

// normalizeText trims, lowercases and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizeTopics splits a comma separated list and returns it trimmed,
// lowercased, de-duplicated and sorted.
func normalizeTopics(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		t := normalizeText(part)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// query returns the text to embed for the request, empty when there is
// nothing beyond the profile to go on.
func (r *Request) query() string {
	parts := make([]string, 0, 3)
	if t := strings.TrimSpace(r.Title); t != "" {
		parts = append(parts, t)
	}
	if d := strings.TrimSpace(r.Description); d != "" {
		parts = append(parts, d)
	}
	if len(parts) == 0 {
		return ""
	}
	if r.Technologies != "" {
		parts = append(parts, strings.Join(normalizeTopics(r.Technologies), ", "))
	}
	return strings.Join(parts, "\n")
}

// paginate slices items for the requested page.
func paginate(items []Recommendation, page, pageSize int) ([]Recommendation, *Pagination) {
	if page <= 0 {
		return items, nil
	}
	p := &Pagination{Page: page, PageSize: pageSize, Total: len(items)}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Recommendation{}, p
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	p.HasMore = end < len(items)
	return items[start:end], p
}
