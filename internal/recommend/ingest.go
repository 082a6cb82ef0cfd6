// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/enrichment"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// defaultQuality is assigned to content that could not be rated.
const defaultQuality = 5

// IngestRequest is a piece of content the user saves.
type IngestRequest struct {
	UserID      int64    `json:"user_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,notblank,max=500"`
	URL         string   `json:"url" validate:"omitempty,url,max=2048"`
	Description string   `json:"description" validate:"max=20000"`
	Tags        []string `json:"tags" validate:"max=32,dive,max=64"`

	// QualityScore is kept when set; otherwise the AI rating (or a neutral
	// default) is used.
	QualityScore int `json:"quality_score" validate:"gte=0,lte=10"`
}

// IngestResult reports what happened to saved content.
type IngestResult struct {
	Item     *corpus.Item `json:"item"`
	Enriched bool         `json:"enriched"`
	Embedded bool         `json:"embedded"`
	Notices  []string     `json:"notices,omitempty"`
}

// Ingest enriches and embeds content through the AI gateway and saves it to
// the corpus. AI failures never block the save: the item is stored with the
// caller's tags and a neutral quality and reported through notices.
func (e *Engine) Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, verr)
	}
	log := logging.Ctx(ctx).With().Str("component", "recommend").Int64("user_id", req.UserID).Logger()

	item := &corpus.Item{
		UserID:       req.UserID,
		Title:        strings.TrimSpace(req.Title),
		URL:          strings.TrimSpace(req.URL),
		Description:  strings.TrimSpace(req.Description),
		QualityScore: req.QualityScore,
		Tags:         append([]string(nil), req.Tags...),
		SavedAt:      e.now().UTC(),
	}
	res := &IngestResult{Item: item}

	if e.ai != nil {
		input := enrichment.Input{Title: item.Title, URL: item.URL, Description: item.Description}

		meta, err := e.ai.Enrich(ctx, req.UserID, input)
		if err != nil {
			res.Notices = append(res.Notices, ingestNotice("enrichment", err))
			log.Debug().Err(err).Msg("content enrichment skipped")
		} else {
			applyMetadata(item, meta, e.now())
			res.Enriched = true
		}

		emb, err := e.ai.Embed(ctx, req.UserID, embeddingText(item))
		if err != nil {
			res.Notices = append(res.Notices, ingestNotice("embedding", err))
			log.Debug().Err(err).Msg("content embedding skipped")
		} else if len(emb) > 0 {
			item.Embedding = emb
			res.Embedded = true
		}
	}

	if item.QualityScore == 0 {
		item.QualityScore = defaultQuality
	}
	if err := e.corpus.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("save content: %w", err)
	}
	return res, nil
}

func applyMetadata(item *corpus.Item, meta *enrichment.Metadata, now time.Time) {
	if item.QualityScore == 0 {
		item.QualityScore = meta.QualityScore
	}
	item.Tags = mergeTags(item.Tags, meta.Tags)
	item.Enrichment = &corpus.Enrichment{
		ContentType: meta.ContentType,
		Difficulty:  meta.Difficulty,
		KeyConcepts: meta.KeyConcepts,
		Summary:     meta.Summary,
		EnrichedAt:  now.UTC(),
	}
}

// mergeTags appends extra to tags, skipping case-insensitive duplicates.
func mergeTags(tags, extra []string) []string {
	seen := make(map[string]struct{}, len(tags)+len(extra))
	out := make([]string, 0, len(tags)+len(extra))
	for _, list := range [][]string{tags, extra} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			k := strings.ToLower(t)
			if k == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// embeddingText is the text an item is embedded from.
func embeddingText(item *corpus.Item) string {
	parts := []string{item.Title}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if item.Enrichment != nil && item.Enrichment.Summary != "" {
		parts = append(parts, item.Enrichment.Summary)
	}
	if len(item.Tags) > 0 {
		parts = append(parts, strings.Join(item.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

func ingestNotice(step string, err error) string {
	var exceeded *quota.ExceededError
	switch {
	case errors.As(err, &exceeded):
		return fmt.Sprintf("%s skipped: AI quota %s, retry in %s", step, exceeded.State, exceeded.Wait.Round(time.Second))
	case errors.Is(err, enrichment.ErrNoCredential):
		return fmt.Sprintf("%s skipped: no AI credential configured", step)
	default:
		return fmt.Sprintf("%s unavailable", step)
	}
}
