// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/cache"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/config"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/database"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
)

// Stores holds everything persisted in Badger.
type Stores struct {
	DB          *badger.DB
	Corpus      *corpus.BadgerStore
	Credentials *credentials.BadgerRepository
	Quota       *quota.BadgerStateStore
}

// Close releases the item sequence and closes the DB.
func (s *Stores) Close() error {
	var errs []error
	if err := s.Corpus.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Ping reports whether the DB is still usable.
func (s *Stores) Ping(_ context.Context) error {
	if s.DB.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func initStores(cfg *config.Config) (*Stores, error) {
	db, err := database.Open(database.Options{
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		return nil, err
	}

	items, err := corpus.NewBadgerStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init corpus store: %w", err)
	}

	return &Stores{
		DB:          db,
		Corpus:      items,
		Credentials: credentials.NewBadgerRepository(db),
		Quota:       quota.NewBadgerStateStore(db),
	}, nil
}

// Caches holds the tiered result cache and its parts.
type Caches struct {
	Local  *cache.Local
	Redis  *cache.RedisStore // nil when disabled or unreachable at startup
	Tiered *cache.Tiered
}

// Close stops the local janitor and closes the Redis client.
func (c *Caches) Close() {
	c.Local.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
}

// initCaches builds the in-process tier and, when enabled, the shared
// Redis tier. An unreachable Redis is not fatal: the service starts on the
// local tier alone and /health reports it degraded.
func initCaches(ctx context.Context, cfg *config.Config) *Caches {
	local := cache.NewLocal(cfg.Redis.LocalTTL)
	c := &Caches{Local: local}

	if !cfg.Redis.Enabled {
		logging.Info().Msg("Shared cache disabled (REDIS_ENABLED=false), using in-process cache only")
		c.Tiered = cache.NewTiered(local, nil, cfg.Redis.LocalTTL)
		return c
	}

	rs, err := cache.NewRedisStore(cache.RedisOptions{
		URL:             cfg.Redis.URL,
		KeyPrefix:       cfg.Redis.KeyPrefix,
		DialTimeout:     cfg.Redis.DialTimeout,
		OpTimeout:       cfg.Redis.OpTimeout,
		BreakerFailures: cfg.Redis.BreakerFailures,
		BreakerTimeout:  cfg.Redis.BreakerTimeout,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Invalid Redis configuration, using in-process cache only")
		c.Tiered = cache.NewTiered(local, nil, cfg.Redis.LocalTTL)
		return c
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Msg("Redis unreachable at startup, continuing degraded")
	} else {
		logging.Info().Str("prefix", cfg.Redis.KeyPrefix).Msg("Shared Redis cache connected")
	}

	// Keep the client even when the first ping failed; the breaker lets it
	// recover once Redis comes back.
	c.Redis = rs
	c.Tiered = cache.NewTiered(local, rs, cfg.Redis.LocalTTL)
	return c
}
