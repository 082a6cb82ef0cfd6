// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLocal(t *testing.T) (*Local, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLocal(0)
	l.now = clock.Now
	t.Cleanup(l.Close)
	return l, clock
}

func TestLocalBasicOperations(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLocal(t)

	if err := l.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := l.Get(ctx, "key1")
	if err != nil || !ok || string(v) != "value1" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if _, ok, _ := l.Get(ctx, "missing"); ok {
		t.Error("expected miss for missing key")
	}

	_ = l.Delete(ctx, "key1", "never-set")
	if _, ok, _ := l.Get(ctx, "key1"); ok {
		t.Error("expected miss after delete")
	}

	stats := l.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 1 hit and 2 misses", stats)
	}
}

func TestLocalSetCopiesValue(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLocal(t)

	buf := []byte("abc")
	_ = l.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'z'

	v, _, _ := l.Get(ctx, "k")
	if string(v) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", v)
	}
}

func TestLocalExpiration(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLocal(t)

	_ = l.Set(ctx, "k", []byte("v"), 100*time.Millisecond)
	if _, ok, _ := l.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	clock.Advance(150 * time.Millisecond)
	if _, ok, _ := l.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
	if l.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", l.Stats().Evictions)
	}
}

func TestLocalNonPositiveTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLocal(t)

	_ = l.Set(ctx, "k", []byte("v"), 0)
	if _, ok, _ := l.Get(ctx, "k"); ok {
		t.Error("zero TTL should not store")
	}
}

func TestLocalCounters(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLocal(t)

	for want := int64(1); want <= 3; want++ {
		n, err := l.Incr(ctx, "gen", time.Minute)
		if err != nil || n != want {
			t.Fatalf("Incr = %d, %v, want %d", n, err, want)
		}
	}
	if n, _ := l.Counter(ctx, "gen"); n != 3 {
		t.Errorf("Counter = %d, want 3", n)
	}

	// Expiry is fixed at creation, later increments do not extend it.
	clock.Advance(61 * time.Second)
	if n, _ := l.Counter(ctx, "gen"); n != 0 {
		t.Errorf("Counter after expiry = %d, want 0", n)
	}
	if n, _ := l.Incr(ctx, "gen", 0); n != 1 {
		t.Errorf("Incr after expiry = %d, want 1", n)
	}

	l.SetCounter("gen", 41, 0)
	if n, _ := l.Incr(ctx, "gen", 0); n != 42 {
		t.Errorf("Incr after SetCounter = %d, want 42", n)
	}
}

func TestLocalCleanupAndClear(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLocal(t)

	_ = l.Set(ctx, "short", []byte("v"), time.Second)
	_ = l.Set(ctx, "long", []byte("v"), time.Hour)
	clock.Advance(2 * time.Second)
	l.cleanup()

	if got := l.Stats().TotalKeys; got != 1 {
		t.Errorf("TotalKeys after cleanup = %d, want 1", got)
	}
	l.Clear()
	if got := l.Stats().TotalKeys; got != 0 {
		t.Errorf("TotalKeys after Clear = %d, want 0", got)
	}
}

func TestLocalConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(time.Millisecond)
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			for j := 0; j < 100; j++ {
				_ = l.Set(ctx, key, []byte("v"), time.Second)
				_, _, _ = l.Get(ctx, key)
				_, _ = l.Incr(ctx, "counter", 0)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := l.Counter(ctx, "counter"); n != 2000 {
		t.Errorf("counter = %d, want 2000", n)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		UserID int64
		Limit  int
	}
	a := GenerateKey("rec", params{1, 10})
	b := GenerateKey("rec", params{1, 10})
	c := GenerateKey("rec", params{1, 11})

	if a != b {
		t.Error("same params should produce the same key")
	}
	if a == c {
		t.Error("different params should produce different keys")
	}
	if len(a) != len("rec:")+32 {
		t.Errorf("unexpected key length %d for %q", len(a), a)
	}
}

func TestStatsHitRate(t *testing.T) {
	if (Stats{}).HitRate() != 0 {
		t.Error("empty stats should have 0 hit rate")
	}
	if got := (Stats{Hits: 3, Misses: 1}).HitRate(); got != 75 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}
