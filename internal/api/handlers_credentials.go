// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"net/http"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// PutCredential handles PUT /api/v1/users/{userID}/credential. The key is
// validated, encrypted and stored; only the masked form is returned.
func (h *Handler) PutCredential(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	var req CredentialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(rw, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeServiceError(rw, verr)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	info, err := h.credentials.Store(ctx, userID, req.APIKey, req.Name)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(info)
}

// GetCredential handles GET /api/v1/users/{userID}/credential.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	info, err := h.credentials.Info(r.Context(), userID)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(info)
}

// DeleteCredential handles DELETE /api/v1/users/{userID}/credential.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if err := h.credentials.Delete(r.Context(), userID); err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.NoContent()
}
