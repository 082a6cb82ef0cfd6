// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"net/http"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req recommend.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(rw, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()
	ctx = logging.ContextWithUserID(ctx, req.UserID)

	resp, err := h.recommender.Recommend(ctx, &req)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(resp)
}

// Dashboard handles GET /api/v1/users/{userID}/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	d, err := h.recommender.Dashboard(logging.ContextWithUserID(ctx, userID), userID)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(d)
}

// IngestItem handles POST /api/v1/users/{userID}/items. The path user wins
// over any user_id in the body.
func (h *Handler) IngestItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	var req recommend.IngestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(rw, err)
		return
	}
	req.UserID = userID

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.recommender.Ingest(logging.ContextWithUserID(ctx, userID), &req)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Created(res)
}

// Invalidate handles POST /api/v1/invalidations, the hook other services
// call when a user's content, profile or a project changes outside this
// process.
func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req InvalidationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(rw, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeServiceError(rw, verr)
		return
	}

	ctx := r.Context()
	switch req.Scope {
	case ScopeContent:
		h.recommender.OnContentChanged(ctx, req.UserID)
	case ScopeProfile:
		h.recommender.OnProfileChanged(ctx, req.UserID)
	case ScopeProject:
		h.recommender.OnProjectChanged(ctx, req.ProjectID)
	}
	logging.Ctx(ctx).Info().
		Str("scope", req.Scope).
		Int64("user_id", req.UserID).
		Int64("project_id", req.ProjectID).
		Msg("cache invalidated")
	rw.Accepted(req)
}

// Quota handles GET /api/v1/users/{userID}/quota.
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if h.quota == nil {
		rw.ServiceUnavailable("Quota tracking is not configured")
		return
	}

	u, err := h.quota.Usage(r.Context(), quota.UserSubject(userID))
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(u)
}
