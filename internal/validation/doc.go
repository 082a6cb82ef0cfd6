// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// reflection so repeated validation of the same request type is cheap.
// Errors name fields by their json tag, so a client that sent
// {"user_id": 0} is told "user_id must be greater than 0".
//
// # Usage
//
//	type IngestRequest struct {
//	    UserID int64  `json:"user_id" validate:"required,gt=0"`
//	    Title  string `json:"title" validate:"required,notblank,max=500"`
//	    URL    string `json:"url" validate:"omitempty,url,max=2048"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Tags
//
//   - notblank: string must contain a non-whitespace character
//
// # API Error Integration
//
// ToAPIError produces the VALIDATION_ERROR body:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "title is required",
//	    "details": {"field": "title", "tag": "required", "value": ""}
//	}
//
// Multiple failures are joined in the message and listed under
// details.fields.
package validation
