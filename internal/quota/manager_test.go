// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/database"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newTestManager(t *testing.T, opts Options, start time.Time) (*Manager, *testClock) {
	t.Helper()
	if opts.UserLimits == (Limits{}) {
		opts.UserLimits = Limits{Minute: 15, Day: 1500, Month: 45000}
	}
	if opts.DefaultLimits == (Limits{}) {
		opts.DefaultLimits = Limits{Minute: 60, Day: 10000, Month: 300000}
	}
	clock := &testClock{now: start}
	m := NewManager(opts)
	m.now = clock.Now
	return m, clock
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions []string
}

func (r *recordingObserver) StateChanged(_ context.Context, s Subject, from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, s.String()+":"+string(from)+"->"+string(to))
}

func (r *recordingObserver) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.transitions...)
}

func mustCheck(t *testing.T, m *Manager, s Subject) Decision {
	t.Helper()
	d, err := m.Check(context.Background(), s)
	if err != nil {
		t.Fatalf("Check(%s): %v", s, err)
	}
	return d
}

func TestMinuteLimitAndRecovery(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{}, time.Date(2026, 3, 10, 12, 0, 30, 0, time.UTC))
	user := UserSubject(1)
	_ = m.KeyStored(ctx, 1)

	for i := 0; i < 15; i++ {
		if d := mustCheck(t, m, user); !d.Allowed {
			t.Fatalf("call %d should be allowed, state %s", i+1, d.State)
		}
		if err := m.Record(ctx, user); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	d := mustCheck(t, m, user)
	if d.Allowed || d.State != StateRateLimited {
		t.Fatalf("after 15 calls: allowed=%v state=%s", d.Allowed, d.State)
	}
	if d.Wait != 30*time.Second {
		t.Errorf("Wait = %v, want 30s", d.Wait)
	}
	if err := d.Err(user); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Decision.Err = %v", err)
	}

	clock.Set(time.Date(2026, 3, 10, 12, 1, 0, 0, time.UTC))
	d = mustCheck(t, m, user)
	if !d.Allowed || d.State != StateActive {
		t.Errorf("after rollover: allowed=%v state=%s", d.Allowed, d.State)
	}
	if d.Usage.Minute.Count != 0 || d.Usage.Day.Count != 15 {
		t.Errorf("usage after rollover = %+v", d.Usage)
	}
}

func TestDailyLimit(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{UserLimits: Limits{Minute: 100, Day: 3, Month: 10}},
		time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC))
	user := UserSubject(2)
	_ = m.KeyStored(ctx, 2)

	for i := 0; i < 3; i++ {
		_ = m.Record(ctx, user)
	}
	d := mustCheck(t, m, user)
	if d.Allowed || d.State != StateQuotaExceeded {
		t.Fatalf("state = %s, allowed = %v", d.State, d.Allowed)
	}
	if d.Wait != 2*time.Hour {
		t.Errorf("Wait = %v, want 2h", d.Wait)
	}

	clock.Set(time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC))
	if d := mustCheck(t, m, user); !d.Allowed {
		t.Errorf("new day should allow calls, state %s", d.State)
	}
}

func TestMonthlyLimitCrossesMonthBoundary(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{UserLimits: Limits{Month: 2}},
		time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC))
	user := UserSubject(3)
	_ = m.KeyStored(ctx, 3)
	_ = m.Record(ctx, user)
	_ = m.Record(ctx, user)

	d := mustCheck(t, m, user)
	if d.State != StateQuotaExceeded || d.Wait != time.Hour {
		t.Fatalf("state=%s wait=%v", d.State, d.Wait)
	}
	clock.Set(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if d := mustCheck(t, m, user); !d.Allowed {
		t.Errorf("new month should allow calls, state %s", d.State)
	}
}

func TestWaitIsLatestExhaustedBoundary(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{UserLimits: Limits{Minute: 2, Day: 2, Month: 100}},
		time.Date(2026, 3, 10, 12, 0, 10, 0, time.UTC))
	user := UserSubject(4)
	_ = m.KeyStored(ctx, 4)
	_ = m.Record(ctx, user)
	_ = m.Record(ctx, user)

	d := mustCheck(t, m, user)
	want := 12*time.Hour - 10*time.Second
	if d.State != StateQuotaExceeded || d.Wait != want {
		t.Errorf("state=%s wait=%v, want quota_exceeded %v", d.State, d.Wait, want)
	}
}

func TestSubjectsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{
		UserLimits:    Limits{Minute: 1},
		DefaultLimits: Limits{Minute: 2},
	}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	if d := mustCheck(t, m, UserSubject(5)); d.Allowed || d.State != StateNoKey {
		t.Errorf("user without key: allowed=%v state=%s", d.Allowed, d.State)
	}
	if d := mustCheck(t, m, DefaultSubject); !d.Allowed || d.State != StateActive {
		t.Errorf("default subject: allowed=%v state=%s", d.Allowed, d.State)
	}

	_ = m.KeyStored(ctx, 5)
	_ = m.Record(ctx, DefaultSubject)
	if d := mustCheck(t, m, UserSubject(5)); !d.Allowed || d.Usage.Minute.Count != 0 {
		t.Errorf("default usage leaked into user subject: %+v", d)
	}
	if d := mustCheck(t, m, DefaultSubject); !d.Allowed || d.Usage.Minute.Limit != 2 {
		t.Errorf("default subject should use its own limits: %+v", d.Usage)
	}

	_ = m.Record(ctx, UserSubject(5))
	if d := mustCheck(t, m, UserSubject(5)); d.State != StateRateLimited {
		t.Errorf("user state = %s", d.State)
	}
	if d := mustCheck(t, m, UserSubject(6)); d.Usage.Minute.Count != 0 {
		t.Errorf("other user affected: %+v", d.Usage)
	}
}

func TestCredentialTransitions(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	m, _ := newTestManager(t, Options{Observer: obs}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	user := UserSubject(7)

	_ = m.KeyStored(ctx, 7)
	_ = m.MarkKeyInvalid(ctx, 7)
	d := mustCheck(t, m, user)
	if d.Allowed || d.State != StateInvalid || d.Wait != 0 {
		t.Errorf("invalid key decision = %+v", d)
	}
	_ = m.KeyStored(ctx, 7)
	_ = m.KeyRemoved(ctx, 7)
	if d := mustCheck(t, m, user); d.State != StateNoKey {
		t.Errorf("state after removal = %s", d.State)
	}

	want := []string{
		"user:7:no_key->active",
		"user:7:active->invalid",
		"user:7:invalid->active",
		"user:7:active->no_key",
	}
	got := obs.all()
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRecordSerializedPerSubject(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{UserLimits: Limits{Minute: 1 << 30, Day: 1 << 30, Month: 1 << 30}},
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	user := UserSubject(8)
	_ = m.KeyStored(ctx, 8)

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_ = m.Record(ctx, user)
			}
		}()
	}
	wg.Wait()

	u, err := m.Usage(ctx, user)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if u.Minute.Count != 500 || u.Day.Count != 500 || u.Month.Count != 500 {
		t.Errorf("lost updates: %+v", u)
	}
}

func TestClockSkewDoesNotReset(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{}, time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC))
	user := UserSubject(9)
	_ = m.KeyStored(ctx, 9)
	_ = m.Record(ctx, user)

	clock.Set(time.Date(2026, 3, 10, 12, 4, 0, 0, time.UTC))
	u, _ := m.Usage(ctx, user)
	if u.Minute.Count != 1 {
		t.Errorf("minute count after clock moved back = %d, want 1", u.Minute.Count)
	}
}

func TestUsageRemaining(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	_ = m.KeyStored(ctx, 10)
	for i := 0; i < 4; i++ {
		_ = m.Record(ctx, UserSubject(10))
	}
	u, _ := m.Usage(ctx, UserSubject(10))
	if u.Minute.Remaining != 11 || u.Day.Remaining != 1496 || u.Month.Remaining != 44996 {
		t.Errorf("remaining = %d/%d/%d", u.Minute.Remaining, u.Day.Remaining, u.Month.Remaining)
	}
	if !u.Minute.ResetAt.Equal(time.Date(2026, 3, 10, 12, 1, 0, 0, time.UTC)) {
		t.Errorf("minute reset = %v", u.Minute.ResetAt)
	}
	if !u.Month.ResetAt.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month reset = %v", u.Month.ResetAt)
	}
}

func TestWindowBoundaries(t *testing.T) {
	at := time.Date(2026, 12, 31, 23, 59, 45, 500, time.UTC)
	tests := []struct {
		w         Window
		wantStart time.Time
		wantEnd   time.Time
	}{
		{Minute, time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Day, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Month, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.w.String(), func(t *testing.T) {
			start := tt.w.Start(at)
			if !start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", start, tt.wantStart)
			}
			if end := tt.w.End(start); !end.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestBadgerStatePersists(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer db.Close()

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	first, _ := newTestManager(t, Options{Store: NewBadgerStateStore(db)}, start)
	_ = first.KeyStored(ctx, 11)
	_ = first.Record(ctx, UserSubject(11))

	second, _ := newTestManager(t, Options{Store: NewBadgerStateStore(db)}, start)
	u, err := second.Usage(ctx, UserSubject(11))
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if u.State != StateActive || u.Day.Count != 1 {
		t.Errorf("persisted usage = %+v", u)
	}
}

func TestCredentialSync(t *testing.T) {
	ctx := context.Background()
	enc, _ := credentials.NewEncryptor("0123456789abcdef0123456789abcdef")
	creds := credentials.NewManager(credentials.NewMemoryRepository(), enc, credentials.Options{})

	m, _ := newTestManager(t, Options{UserLimits: Limits{Minute: 1}}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	m.SetObserver(NewCredentialSync(creds))
	creds.SetHooks(m)

	if _, err := creds.Store(ctx, 12, "sk-test0123456789abcdefghij", ""); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if d := mustCheck(t, m, UserSubject(12)); !d.Allowed {
		t.Fatalf("stored key should activate quota, state %s", d.State)
	}

	_ = m.Record(ctx, UserSubject(12))
	info, _ := creds.Info(ctx, 12)
	if info.Status != credentials.StatusRateLimited {
		t.Errorf("credential status = %s, want rate_limited", info.Status)
	}

	_ = m.MarkKeyInvalid(ctx, 12)
	if _, ok := creds.Retrieve(ctx, 12); ok {
		t.Error("invalid key should not be retrievable")
	}

	_ = creds.Delete(ctx, 12)
	if d := mustCheck(t, m, UserSubject(12)); d.State != StateNoKey {
		t.Errorf("state after delete = %s", d.State)
	}
}

func TestExceededError(t *testing.T) {
	err := error(&ExceededError{Subject: UserSubject(1), State: StateRateLimited, Wait: 30 * time.Second})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Error("ExceededError should match ErrQuotaExceeded")
	}
	var ee *ExceededError
	if !errors.As(err, &ee) || ee.Wait != 30*time.Second {
		t.Errorf("errors.As = %+v", ee)
	}
	if err.Error() != "quota exceeded for user:1 (rate_limited): retry in 30s" {
		t.Errorf("Error() = %q", err.Error())
	}
}
