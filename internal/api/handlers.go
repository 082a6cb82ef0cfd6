// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// Recommender is the engine surface the transport needs.
type Recommender interface {
	Recommend(ctx context.Context, req *recommend.Request) (*recommend.Response, error)
	Dashboard(ctx context.Context, userID int64) (*recommend.Dashboard, error)
	Ingest(ctx context.Context, req *recommend.IngestRequest) (*recommend.IngestResult, error)
	OnContentChanged(ctx context.Context, userID int64)
	OnProfileChanged(ctx context.Context, userID int64)
	OnProjectChanged(ctx context.Context, projectID int64)
}

// CredentialService stores and reports user API keys. Plaintext never
// crosses this interface outward.
type CredentialService interface {
	Store(ctx context.Context, userID int64, apiKey, name string) (*credentials.Info, error)
	Info(ctx context.Context, userID int64) (*credentials.Info, error)
	Delete(ctx context.Context, userID int64) error
}

// QuotaReporter exposes quota usage.
type QuotaReporter interface {
	Usage(ctx context.Context, subject quota.Subject) (quota.Usage, error)
}

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

// Dependencies are the services a Handler serves.
type Dependencies struct {
	Recommender Recommender
	Credentials CredentialService
	Quota       QuotaReporter

	// Checks are run by /health, keyed by component name.
	Checks map[string]HealthCheck

	// RequestTimeout bounds engine calls. Default: 10s.
	RequestTimeout time.Duration

	Version string
}

// Handler holds the HTTP handlers.
type Handler struct {
	recommender Recommender
	credentials CredentialService
	quota       QuotaReporter
	checks      map[string]HealthCheck
	timeout     time.Duration
	version     string
	startTime   time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		recommender: deps.Recommender,
		credentials: deps.Credentials,
		quota:       deps.Quota,
		checks:      deps.Checks,
		timeout:     timeout,
		version:     version,
		startTime:   time.Now(),
	}
}

// writeServiceError maps domain errors onto status codes. Anything
// unrecognized is logged and reported as a bare 500 so internals never leak.
func writeServiceError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	var exceeded *quota.ExceededError

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.Is(err, errBadBody), errors.Is(err, recommend.ErrInvalidRequest):
		rw.BadRequest(err.Error())
	case errors.Is(err, credentials.ErrInvalidFormat):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidAPIKey, err.Error())
	case errors.Is(err, credentials.ErrRejectedByProvider):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeAPIKeyRejected, "The AI provider rejected this API key")
	case errors.Is(err, credentials.ErrNotFound):
		rw.NotFound("No API key stored")
	case errors.As(err, &exceeded):
		rw.w.Header().Set("Retry-After", strconv.FormatInt(int64(math.Ceil(exceeded.Wait.Seconds())), 10))
		rw.ErrorWithDetails(http.StatusTooManyRequests, ErrCodeQuotaExceeded, "AI quota exhausted",
			map[string]interface{}{"state": exceeded.State, "retry_after_seconds": int64(math.Ceil(exceeded.Wait.Seconds()))})
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "The request took too long")
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("request canceled")
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).Str("path", rw.r.URL.Path).Msg("request failed")
		rw.InternalError("Internal server error")
	}
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// NotFound answers unmatched routes in the standard envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).NotFound("Route not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}
