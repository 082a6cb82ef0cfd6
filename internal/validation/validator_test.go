// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type saveRequest struct {
	UserID   int64    `json:"user_id" validate:"required,gt=0"`
	Title    string   `json:"title" validate:"required,notblank,max=20"`
	URL      string   `json:"url,omitempty" validate:"omitempty,url"`
	Strategy string   `json:"strategy" validate:"omitempty,oneof=balanced semantic"`
	Quality  int      `json:"quality_score" validate:"gte=0,lte=10"`
	Tags     []string `json:"tags" validate:"max=2,dive,max=5"`
	Internal string   `json:"-" validate:"max=3"`
	NoTag    int      `validate:"lte=1"`
}

func validRequest() saveRequest {
	return saveRequest{UserID: 1, Title: "Go tips", URL: "https://go.dev/doc", Strategy: "semantic", Quality: 7, Tags: []string{"go"}}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *saveRequest)
	}{
		{"complete", func(*saveRequest) {}},
		{"optional fields empty", func(r *saveRequest) { r.URL, r.Strategy, r.Tags = "", "", nil }},
		{"bounds", func(r *saveRequest) { r.Quality = 10; r.Tags = []string{"a", "bcdef"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			if err := ValidateStruct(&r); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *saveRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"missing user", func(r *saveRequest) { r.UserID = 0 }, "user_id", "required", "user_id is required"},
		{"negative user", func(r *saveRequest) { r.UserID = -4 }, "user_id", "gt", "user_id must be greater than 0"},
		{"blank title", func(r *saveRequest) { r.Title = "   " }, "title", "notblank", "title must not be blank"},
		{"long title", func(r *saveRequest) { r.Title = strings.Repeat("x", 21) }, "title", "max", "title must be at most 20 characters"},
		{"bad url", func(r *saveRequest) { r.URL = "not a url" }, "url", "url", "url must be a valid URL"},
		{"unknown strategy", func(r *saveRequest) { r.Strategy = "random" }, "strategy", "oneof", "strategy must be one of: balanced, semantic"},
		{"quality too high", func(r *saveRequest) { r.Quality = 11 }, "quality_score", "lte", "quality_score must be less than or equal to 10"},
		{"too many tags", func(r *saveRequest) { r.Tags = []string{"a", "b", "c"} }, "tags", "max", "tags must be at most 2 entries"},
		{"long tag", func(r *saveRequest) { r.Tags = []string{"golang"} }, "tags[0]", "max", "tags[0] must be at most 5 characters"},
		{"untagged field", func(r *saveRequest) { r.NoTag = 2 }, "NoTag", "lte", "NoTag must be less than or equal to 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			verr := ValidateStruct(&r)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	verr := ValidateStruct(42)
	if verr == nil || verr.Errors()[0].Field() != "unknown" {
		t.Errorf("ValidateStruct(42) = %v", verr)
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	r := validRequest()
	r.Title = ""

	apiErr := ValidateStruct(&r).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if apiErr.Message != "title is required" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "title" || apiErr.Details["tag"] != "required" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	r := validRequest()
	r.UserID = 0
	r.Quality = -1

	verr := ValidateStruct(&r)
	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("details = %v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "user_id is required") || !strings.Contains(apiErr.Message, "quality_score") {
		t.Errorf("message = %q", apiErr.Message)
	}
	if verr.Error() != apiErr.Message {
		t.Errorf("Error() = %q, want %q", verr.Error(), apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty error message")
	}
}
