// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/api"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/config"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/database"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/enrichment"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/supervisor"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Fuze recommendation service")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === STORAGE ===

	stores, err := initStores(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	caches := initCaches(ctx, cfg)
	defer caches.Close()

	// === SERVICES ===

	client := initEnrichment(cfg)
	var validator credentials.KeyValidator
	if client != nil {
		validator = client
	}

	managers, err := initManagers(cfg, stores, validator)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize credential and quota managers")
	}

	var gateway *enrichment.Gateway
	if client != nil {
		gateway = newGateway(cfg, client, managers)
	}

	items := corpus.NewNotifying(stores.Corpus)
	engine, err := initRecommend(cfg, items, caches.Tiered, gateway, managers.Quota)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	// === HTTP ===

	checks := map[string]api.HealthCheck{
		"database": stores.Ping,
	}
	if caches.Redis != nil {
		checks["redis"] = caches.Redis.Ping
	}

	handler := api.NewHandler(api.Dependencies{
		Recommender: engine,
		Credentials: managers.Credentials,
		Quota:       managers.Quota,
		Checks:      checks,
		Version:     version,
	})

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if len(cfg.Security.CORSOrigins) == 1 && cfg.Security.CORSOrigins[0] == "*" && cfg.Server.IsProduction() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) in production")
	}
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, mw),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Database.GCInterval > 0 && !cfg.Database.InMemory {
		tree.AddMaintenanceService(services.NewPeriodicService(func(context.Context) error {
			return database.RunGC(stores.DB, cfg.Database.GCDiscardRatio)
		}, services.PeriodicConfig{
			Name:     "badger-gc",
			Interval: cfg.Database.GCInterval,
		}))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh yields exactly one value and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	stop()
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
