// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/breaker"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
)

var (
	// ErrNoCredential means the user has no usable key and no default key
	// is configured.
	ErrNoCredential = errors.New("no AI credential available")

	// ErrUnavailable wraps breaker rejections and outbound limiter failures.
	ErrUnavailable = errors.New("AI provider unavailable")
)

// CredentialSource hands out plaintext keys.
type CredentialSource interface {
	Retrieve(ctx context.Context, userID int64) (string, bool)
	Touch(ctx context.Context, userID int64) error
}

// QuotaGate is the subset of quota.Manager the gateway needs.
type QuotaGate interface {
	Check(ctx context.Context, subject quota.Subject) (quota.Decision, error)
	Record(ctx context.Context, subject quota.Subject) error
	KeyStored(ctx context.Context, userID int64) error
	MarkKeyInvalid(ctx context.Context, userID int64) error
}

// Options configures a Gateway.
type Options struct {
	DefaultAPIKey       string
	Timeout             time.Duration
	RequestsPerSecond   float64
	Burst               int
	BreakerFailures     uint32
	BreakerOpenDuration time.Duration
}

// Gateway is the single path to the AI provider. Every call is charged to
// exactly one quota subject and counted only when it succeeds.
type Gateway struct {
	client  Client
	creds   CredentialSource
	quota   QuotaGate
	opts    Options
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

// NewGateway creates a Gateway.
func NewGateway(client Client, creds CredentialSource, gate QuotaGate, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	return &Gateway{
		client:  client,
		creds:   creds,
		quota:   gate,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		cb: breaker.New[any](breaker.Settings{
			Name:                "ai_provider",
			ConsecutiveFailures: opts.BreakerFailures,
			OpenTimeout:         opts.BreakerOpenDuration,
			IsSuccessful: func(err error) bool {
				// a bad user key or a caller cancellation says nothing about
				// the provider's health
				return err == nil || errors.Is(err, ErrAuth) || errors.Is(err, context.Canceled)
			},
		}),
		logger: logging.Component("enrichment"),
	}
}

// ValidateKey checks a key with the provider without touching any quota.
// It implements credentials.KeyValidator.
func (g *Gateway) ValidateKey(ctx context.Context, apiKey string) error {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	return g.client.ValidateKey(ctx, apiKey)
}

// Embed returns the embedding of text using the caller's quota.
func (g *Gateway) Embed(ctx context.Context, userID int64, text string) ([]float32, error) {
	return call(ctx, g, userID, "embed", func(ctx context.Context, key string) ([]float32, error) {
		return g.client.Embed(ctx, key, text)
	})
}

// Enrich returns AI metadata for in using the caller's quota.
func (g *Gateway) Enrich(ctx context.Context, userID int64, in Input) (*Metadata, error) {
	return call(ctx, g, userID, "analyze", func(ctx context.Context, key string) (*Metadata, error) {
		return g.client.Analyze(ctx, key, in)
	})
}

type resolved struct {
	key     string
	subject quota.Subject
}

// resolve picks the credential and subject for userID: the user's own key
// when one is usable, otherwise the shared default key.
func (g *Gateway) resolve(ctx context.Context, userID int64) (resolved, error) {
	if userID > 0 {
		if key, ok := g.creds.Retrieve(ctx, userID); ok {
			return resolved{key: key, subject: quota.UserSubject(userID)}, nil
		}
	}
	if g.opts.DefaultAPIKey != "" {
		return resolved{key: g.opts.DefaultAPIKey, subject: quota.DefaultSubject}, nil
	}
	return resolved{}, ErrNoCredential
}

func (g *Gateway) admit(ctx context.Context, r resolved) error {
	d, err := g.quota.Check(ctx, r.subject)
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}
	// A usable key with no quota record means the quota state was lost
	// (e.g. in-memory state after a restart). Re-register it.
	if d.State == quota.StateNoKey && !r.subject.Shared {
		if err := g.quota.KeyStored(ctx, r.subject.UserID); err != nil {
			return fmt.Errorf("quota register: %w", err)
		}
		if d, err = g.quota.Check(ctx, r.subject); err != nil {
			return fmt.Errorf("quota check: %w", err)
		}
	}
	return d.Err(r.subject)
}

func call[T any](ctx context.Context, g *Gateway, userID int64, kind string, fn func(context.Context, string) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	r, err := g.resolve(ctx, userID)
	if err != nil {
		return zero, err
	}
	if err := g.admit(ctx, r); err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("%w: outbound limiter: %w", ErrUnavailable, err)
	}

	out, err := g.cb.Execute(func() (any, error) {
		return fn(ctx, r.key)
	})
	metrics.RecordEnrichment(kind, time.Since(start), err)
	if err != nil {
		return zero, g.failed(ctx, r, kind, err)
	}

	// counted only after success
	if err := g.quota.Record(ctx, r.subject); err != nil {
		g.logger.Error().Err(err).Str("subject", r.subject.String()).Msg("failed to record quota usage")
	}
	if !r.subject.Shared {
		if err := g.creds.Touch(ctx, r.subject.UserID); err != nil {
			g.logger.Warn().Err(err).Int64("user_id", r.subject.UserID).Msg("failed to update key last_used")
		}
	}
	return out.(T), nil
}

func (g *Gateway) failed(ctx context.Context, r resolved, kind string, err error) error {
	log := logging.Ctx(ctx).With().Str("subject", r.subject.String()).Str("kind", kind).Logger()

	switch {
	case breaker.IsRejected(err):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.Is(err, ErrAuth):
		if !r.subject.Shared {
			if mErr := g.quota.MarkKeyInvalid(ctx, r.subject.UserID); mErr != nil {
				log.Error().Err(mErr).Msg("failed to mark key invalid")
			}
		}
		log.Warn().Err(err).Msg("AI provider rejected credential")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Dur("timeout", g.opts.Timeout).Msg("AI call timed out")
	default:
		log.Warn().Err(err).Msg("AI call failed")
	}
	return fmt.Errorf("%s: %w", kind, err)
}
