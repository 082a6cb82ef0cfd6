// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package breaker builds sony/gobreaker circuit breakers wired to Fuze
// logging and metrics. The Redis cache tier and the AI provider client each
// own one.
package breaker

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

// Settings configures New.
type Settings struct {
	Name string

	// ConsecutiveFailures opens the circuit. Default 5.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before a half-open trial request.
	// Default 30s.
	OpenTimeout time.Duration

	// HalfOpenRequests is the number of trial requests allowed while half-open. Default 1.
	HalfOpenRequests uint32

	// IsSuccessful classifies errors that should not count as failures
	// (for example a cache miss or a client error). Nil counts every error.
	IsSuccessful func(err error) bool
}

// New returns a breaker that opens after a run of consecutive failures and
// reports its state transitions.
func New[T any](s Settings) *gobreaker.CircuitBreaker[T] {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	threshold := s.ConsecutiveFailures

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenRequests,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: s.IsSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(metrics.BreakerStateValue(to.String()))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// IsRejected reports whether err means the breaker refused the call without
// running it.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
