// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time // zero = no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats tracks in-process cache efficiency.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Local is the in-process tier: a mutex-guarded map with per-entry expiry and
// a background janitor. It never returns errors.
type Local struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   Stats

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewLocal creates a Local store whose janitor sweeps expired entries every
// cleanupInterval. Call Close to stop the janitor.
func NewLocal(cleanupInterval time.Duration) *Local {
	l := &Local{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	l.stats.LastCleanup = l.now()
	if cleanupInterval > 0 {
		go l.cleanupLoop(cleanupInterval)
	}
	return l
}

// Get implements Store.
func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := l.now()

	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()

	if ok && e.expired(now) {
		l.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, still := l.entries[key]; still && cur.expired(now) {
			delete(l.entries, key)
			l.stats.Evictions++
		}
		l.mu.Unlock()
		ok = false
	}

	l.mu.Lock()
	if ok {
		l.stats.Hits++
	} else {
		l.stats.Misses++
	}
	l.mu.Unlock()

	if !ok {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set implements Store.
func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	buf := make([]byte, len(value))
	copy(buf, value)

	l.mu.Lock()
	l.entries[key] = entry{data: buf, expiresAt: l.now().Add(ttl)}
	l.stats.TotalKeys = int64(len(l.entries))
	l.mu.Unlock()
	return nil
}

// Delete implements Store.
func (l *Local) Delete(_ context.Context, keys ...string) error {
	l.mu.Lock()
	for _, k := range keys {
		if _, ok := l.entries[k]; ok {
			delete(l.entries, k)
			l.stats.Evictions++
		}
	}
	l.stats.TotalKeys = int64(len(l.entries))
	l.mu.Unlock()
	return nil
}

// Incr implements Store.
func (l *Local) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	var n int64
	if ok && !e.expired(now) {
		n, _ = strconv.ParseInt(string(e.data), 10, 64)
	} else {
		e = entry{}
		if ttl > 0 {
			e.expiresAt = now.Add(ttl)
		}
	}
	n++
	e.data = []byte(strconv.FormatInt(n, 10))
	l.entries[key] = e
	l.stats.TotalKeys = int64(len(l.entries))
	return n, nil
}

// SetCounter overwrites a counter with a value observed elsewhere. An
// existing expiry is kept; a new counter expires after ttl (0 = never).
func (l *Local) SetCounter(key string, n int64, ttl time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.expired(now) {
		e = entry{}
		if ttl > 0 {
			e.expiresAt = now.Add(ttl)
		}
	}
	e.data = []byte(strconv.FormatInt(n, 10))
	l.entries[key] = e
	l.stats.TotalKeys = int64(len(l.entries))
}

// Counter implements Store.
func (l *Local) Counter(_ context.Context, key string) (int64, error) {
	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok || e.expired(l.now()) {
		return 0, nil
	}
	n, _ := strconv.ParseInt(string(e.data), 10, 64)
	return n, nil
}

// remaining returns how long key has left, 0 when absent or without expiry.
func (l *Local) remaining(key string) time.Duration {
	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	if d := e.expiresAt.Sub(l.now()); d > 0 {
		return d
	}
	return 0
}

// Clear drops every entry.
func (l *Local) Clear() {
	l.mu.Lock()
	l.stats.Evictions += int64(len(l.entries))
	l.entries = make(map[string]entry)
	l.stats.TotalKeys = 0
	l.mu.Unlock()
}

// Stats returns a snapshot of the counters.
func (l *Local) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Close stops the janitor. Safe to call more than once.
func (l *Local) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Local) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *Local) cleanup() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if e.expired(now) {
			delete(l.entries, k)
			l.stats.Evictions++
		}
	}
	l.stats.TotalKeys = int64(len(l.entries))
	l.stats.LastCleanup = now
}

var _ Store = (*Local)(nil)
