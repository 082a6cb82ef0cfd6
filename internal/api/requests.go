// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// maxBodyBytes caps request bodies. Ingested descriptions are the largest
// legitimate payload.
const maxBodyBytes = 1 << 20

// CredentialRequest is the body of PUT /users/{userID}/credential.
type CredentialRequest struct {
	APIKey string `json:"api_key" validate:"required,notblank,max=256"`
	Name   string `json:"name" validate:"max=64"`
}

// Invalidation scopes.
const (
	ScopeContent = "content"
	ScopeProfile = "profile"
	ScopeProject = "project"
)

// InvalidationRequest is the body of POST /invalidations. UserID is required
// for the content and profile scopes, ProjectID for the project scope.
type InvalidationRequest struct {
	Scope     string `json:"scope" validate:"required,oneof=content profile project"`
	UserID    int64  `json:"user_id" validate:"required_unless=Scope project,gte=0"`
	ProjectID int64  `json:"project_id" validate:"required_if=Scope project,gte=0"`
}

// errBadBody marks decode failures so handlers answer 400.
var errBadBody = errors.New("invalid request body")

// decodeJSON reads a single JSON object from the body into dst. Unknown
// fields are rejected so typos in option names fail loudly.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: body is empty", errBadBody)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", errBadBody, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadBody)
	}
	return nil
}

// userIDParam parses the {userID} path segment.
func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID %q", raw)
	}
	return id, nil
}
