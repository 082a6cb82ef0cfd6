// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend

import "errors"

var (
	// ErrNoProfile is informational: the user has no embedded content, so
	// ranking falls back to quality ordering.
	ErrNoProfile = errors.New("no interest profile available")

	// ErrNoCandidates means the user's corpus is empty. Recommend reports it
	// as an empty list with a message, not as an error.
	ErrNoCandidates = errors.New("no candidate content")

	// ErrInvalidRequest marks client errors. Validation failures wrap it
	// together with a *validation.RequestValidationError.
	ErrInvalidRequest = errors.New("invalid recommendation request")
)
