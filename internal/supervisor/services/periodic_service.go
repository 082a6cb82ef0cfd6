// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
)

// Task is one unit of periodic maintenance work.
type Task func(ctx context.Context) error

// PeriodicConfig configures a PeriodicService.
type PeriodicConfig struct {
	// Name identifies the service in supervisor events and logs.
	Name string

	// Interval between runs. Must be positive.
	Interval time.Duration

	// RunOnStart runs the task once before the first tick.
	RunOnStart bool

	// Timeout bounds a single run (0 = Interval).
	Timeout time.Duration
}

// PeriodicService runs a Task on a ticker under suture, for example the
// Badger value-log GC. A failed run is logged and retried on the next tick;
// it never crashes the service, so the supervisor's failure budget is kept
// for real faults.
type PeriodicService struct {
	task   Task
	config PeriodicConfig
	logger zerolog.Logger

	// runs counts completed runs, successful or not. Tests read it.
	runs chan struct{}
}

// NewPeriodicService creates a PeriodicService.
func NewPeriodicService(task Task, cfg PeriodicConfig) *PeriodicService {
	if cfg.Name == "" {
		cfg.Name = "periodic"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &PeriodicService{
		task:   task,
		config: cfg,
		logger: logging.Component(cfg.Name),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		// nothing to schedule; don't let suture restart us in a loop
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Debug().
		Dur("interval", s.config.Interval).
		Bool("run_on_start", s.config.RunOnStart).
		Msg("periodic task scheduled")

	if s.config.RunOnStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.task(runCtx)
	switch {
	case err == nil:
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task complete")
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// shutting down
	default:
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic task failed")
	}

	if s.runs != nil {
		select {
		case s.runs <- struct{}{}:
		default:
		}
	}
}

// String implements fmt.Stringer.
func (s *PeriodicService) String() string {
	return s.config.Name
}
