// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Uptime     float64                    `json:"uptime_seconds"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Degraded   []string                   `json:"degraded,omitempty"`
}

// Health handles GET /health. The process answers 200 while it can serve;
// failing optional dependencies (the shared cache tier) only mark it
// degraded because every path falls back around them.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:     "healthy",
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: make(map[string]ComponentHealth, len(h.checks)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	for name, check := range h.checks {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			c := ComponentHealth{Status: "up"}
			if err := check(ctx); err != nil {
				c = ComponentHealth{Status: "down", Error: err.Error()}
			}
			mu.Lock()
			status.Components[name] = c
			if c.Status == "down" {
				status.Degraded = append(status.Degraded, name)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(status.Degraded) > 0 {
		status.Status = "degraded"
		sort.Strings(status.Degraded)
	}
	NewResponseWriter(w, r).Success(status)
}
