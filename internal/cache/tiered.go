// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

// Tiered layers the in-process store over an optional shared store.
//
// Reads try L1, then L2 (populating L1 on an L2 hit). Writes and deletes go
// to both. Counters are authoritative in L2 and mirrored into L1 so that an
// L2 outage continues from the last known value. Increments made while L2 is
// down are replayed into L2 once it answers again, and counter reads return
// the larger of the two tiers: counters only grow. Tiered never returns an
// error: backend failures are logged and behave as misses.
type Tiered struct {
	l1       *Local
	l2       Store
	localTTL time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	pending map[string]pendingIncr
}

// pendingIncr is a counter increment L2 has not seen yet.
type pendingIncr struct {
	n   int64
	ttl time.Duration
}

// NewTiered creates a tiered store. l2 may be nil, in which case L1 serves
// alone and honours the full TTL of every write. With an L2 present, L1
// copies live at most localTTL.
func NewTiered(l1 *Local, l2 Store, localTTL time.Duration) *Tiered {
	return &Tiered{
		l1:       l1,
		l2:       l2,
		localTTL: localTTL,
		logger:   logging.Component("cache"),
		pending:  make(map[string]pendingIncr),
	}
}

// Get implements Store.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, _ := t.l1.Get(ctx, key); ok {
		metrics.RecordCacheLookup("l1", true)
		return v, true, nil
	}
	metrics.RecordCacheLookup("l1", false)

	if t.l2 == nil {
		return nil, false, nil
	}
	v, ok, err := t.l2.Get(ctx, key)
	if err != nil {
		t.logger.Debug().Err(err).Str("key", key).Msg("shared cache read failed, treating as miss")
		return nil, false, nil
	}
	metrics.RecordCacheLookup("l2", ok)
	if ok {
		_ = t.l1.Set(ctx, key, v, t.localTTL)
	}
	return v, ok, nil
}

// Set implements Store.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_ = t.l1.Set(ctx, key, value, t.l1TTL(ttl))
	if t.l2 != nil {
		if err := t.l2.Set(ctx, key, value, ttl); err != nil {
			t.logger.Debug().Err(err).Str("key", key).Msg("shared cache write failed")
		}
	}
	return nil
}

// Delete implements Store.
func (t *Tiered) Delete(ctx context.Context, keys ...string) error {
	_ = t.l1.Delete(ctx, keys...)
	if t.l2 != nil {
		if err := t.l2.Delete(ctx, keys...); err != nil {
			t.logger.Warn().Err(err).Strs("keys", keys).Msg("shared cache delete failed")
		}
	}
	return nil
}

// Incr implements Store.
func (t *Tiered) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if t.l2 != nil {
		if err := t.replay(ctx); err == nil {
			n, err := t.l2.Incr(ctx, key, ttl)
			if err == nil {
				if local, _ := t.l1.Counter(ctx, key); local > n {
					n = t.raise(ctx, key, n, local, ttl)
				}
				t.l1.SetCounter(key, n, ttl)
				return n, nil
			}
			t.logger.Warn().Err(err).Str("key", key).Msg("shared counter increment failed, using local counter")
		}
		t.mu.Lock()
		p := t.pending[key]
		p.n++
		p.ttl = ttl
		t.pending[key] = p
		t.mu.Unlock()
	}
	return t.l1.Incr(ctx, key, ttl)
}

// Counter implements Store.
func (t *Tiered) Counter(ctx context.Context, key string) (int64, error) {
	local, _ := t.l1.Counter(ctx, key)
	if t.l2 == nil {
		return local, nil
	}
	if err := t.replay(ctx); err != nil {
		return local, nil
	}
	n, err := t.l2.Counter(ctx, key)
	if err != nil {
		t.logger.Debug().Err(err).Str("key", key).Msg("shared counter read failed, using local counter")
		return local, nil
	}
	if local > n {
		return t.raise(ctx, key, n, local, t.l1.remaining(key)), nil
	}
	if n > local {
		t.l1.SetCounter(key, n, 0)
	}
	return n, nil
}

// replay pushes increments recorded during an L2 outage. It stops at the
// first failure and keeps what was not delivered.
func (t *Tiered) replay(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, p := range t.pending {
		for p.n > 0 {
			n, err := t.l2.Incr(ctx, key, p.ttl)
			if err != nil {
				t.pending[key] = p
				return err
			}
			p.n--
			if local, _ := t.l1.Counter(ctx, key); n > local {
				t.l1.SetCounter(key, n, p.ttl)
			}
		}
		delete(t.pending, key)
		t.logger.Info().Str("key", key).Msg("replayed local counter increments to shared cache")
	}
	return nil
}

// raise lifts the L2 counter from shared to at least local. A failed write
// leaves L2 behind but the caller still sees local.
func (t *Tiered) raise(ctx context.Context, key string, shared, local int64, ttl time.Duration) int64 {
	for shared < local {
		n, err := t.l2.Incr(ctx, key, ttl)
		if err != nil {
			t.logger.Debug().Err(err).Str("key", key).Msg("shared counter catch-up failed")
			return local
		}
		shared = n
	}
	if shared > local {
		t.l1.SetCounter(key, shared, ttl)
	}
	return shared
}

func (t *Tiered) l1TTL(ttl time.Duration) time.Duration {
	if t.l2 != nil && t.localTTL > 0 && t.localTTL < ttl {
		return t.localTTL
	}
	return ttl
}

var _ Store = (*Tiered)(nil)
