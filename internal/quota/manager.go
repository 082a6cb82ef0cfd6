// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

// ErrQuotaExceeded is matched by every ExceededError.
var ErrQuotaExceeded = errors.New("quota exceeded")

// ExceededError reports a blocked call and how long until one is allowed.
type ExceededError struct {
	Subject Subject
	State   State
	Wait    time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (%s): retry in %s", e.Subject, e.State, e.Wait.Round(time.Second))
}

// Is makes errors.Is(err, ErrQuotaExceeded) succeed.
func (e *ExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// Observer is told about every state transition. Calls happen after the
// subject lock is released.
type Observer interface {
	StateChanged(ctx context.Context, subject Subject, from, to State)
}

// WindowUsage is the count, limit and reset time of one window.
type WindowUsage struct {
	Count     int64     `json:"count"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Usage is a snapshot of a subject's quota.
type Usage struct {
	Subject string      `json:"subject"`
	State   State       `json:"state"`
	Minute  WindowUsage `json:"minute"`
	Day     WindowUsage `json:"day"`
	Month   WindowUsage `json:"month"`
}

// Decision is the result of Check.
type Decision struct {
	Allowed bool          `json:"allowed"`
	State   State         `json:"state"`
	Wait    time.Duration `json:"wait"`
	Usage   Usage         `json:"usage"`
}

// Err returns nil when the call is allowed and an *ExceededError otherwise.
func (d Decision) Err(subject Subject) error {
	if d.Allowed {
		return nil
	}
	return &ExceededError{Subject: subject, State: d.State, Wait: d.Wait}
}

// Options configures a Manager.
type Options struct {
	UserLimits    Limits
	DefaultLimits Limits
	Store         StateStore
	Observer      Observer
}

// Manager decides whether an AI call may proceed and counts successful
// calls. It holds one lock per subject so concurrent Record calls for the
// same user never lose updates.
type Manager struct {
	opts   Options
	store  StateStore
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a Manager. A nil store means in-memory state.
func NewManager(opts Options) *Manager {
	store := opts.Store
	if store == nil {
		store = NewMemoryStateStore()
	}
	return &Manager{
		opts:   opts,
		store:  store,
		logger: logging.Component("quota"),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetObserver replaces the transition observer.
func (m *Manager) SetObserver(o Observer) {
	m.mu.Lock()
	m.opts.Observer = o
	m.mu.Unlock()
}

func (m *Manager) lock(subject Subject) func() {
	key := subject.String()
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (m *Manager) limits(subject Subject) Limits {
	if subject.Shared {
		return m.opts.DefaultLimits
	}
	return m.opts.UserLimits
}

type transition struct {
	from, to State
}

// mutate loads, rolls and evaluates the subject's entry under its lock,
// applies fn, and persists the result. The observer runs after unlock.
func (m *Manager) mutate(ctx context.Context, subject Subject, fn func(e *Entry)) (*Entry, error) {
	unlock := m.lock(subject)

	entry, err := m.load(ctx, subject)
	if err != nil {
		unlock()
		return nil, err
	}
	now := m.now().UTC()
	m.roll(entry, now)
	if fn != nil {
		fn(entry)
	}

	var changed *transition
	next := m.evaluate(subject, entry)
	if next != entry.State {
		changed = &transition{from: entry.State, to: next}
		entry.State = next
	}
	entry.UpdatedAt = now

	if err := m.store.Save(ctx, entry); err != nil {
		unlock()
		return nil, fmt.Errorf("save quota entry: %w", err)
	}
	unlock()

	if changed != nil {
		m.notify(ctx, subject, changed.from, changed.to)
	}
	return entry, nil
}

func (m *Manager) load(ctx context.Context, subject Subject) (*Entry, error) {
	entry, err := m.store.Load(ctx, subject)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, ErrEntryNotFound) {
		return nil, fmt.Errorf("load quota entry: %w", err)
	}
	initial := StateNoKey
	if subject.Shared {
		initial = StateActive
	}
	return &Entry{Subject: subject.String(), Credential: initial, State: initial}, nil
}

// roll resets each counter whose window has ended. A counter whose start
// lies in the future (clock moved backwards) is left alone.
func (m *Manager) roll(e *Entry, now time.Time) {
	for _, w := range []Window{Minute, Day, Month} {
		c := e.counter(w)
		start := w.Start(now)
		if c.Start.Before(start) {
			c.Start = start
			c.Count = 0
		}
	}
}

func (m *Manager) evaluate(subject Subject, e *Entry) State {
	if e.Credential != StateActive {
		return e.Credential
	}
	l := m.limits(subject)
	if exhausted(e.Day.Count, l.Day) || exhausted(e.Month.Count, l.Month) {
		return StateQuotaExceeded
	}
	if exhausted(e.Minute.Count, l.Minute) {
		return StateRateLimited
	}
	return StateActive
}

func exhausted(count, limit int64) bool {
	return limit > 0 && count >= limit
}

func (m *Manager) notify(ctx context.Context, subject Subject, from, to State) {
	metrics.QuotaTransitions.WithLabelValues(string(from), string(to)).Inc()
	logging.Ctx(ctx).Info().
		Str("subject", subject.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("quota state changed")

	m.mu.Lock()
	o := m.opts.Observer
	m.mu.Unlock()
	if o != nil {
		o.StateChanged(ctx, subject, from, to)
	}
}

// Check reports whether a new AI call for subject may proceed now. When it
// may not, Wait is the time until the last exhausted window rolls over,
// which is the first moment a call is permitted again. This is deliberately
// not the nearest boundary: with the minute and day windows both exhausted,
// the minute rollover alone would still deny the call. Check never consumes
// quota.
func (m *Manager) Check(ctx context.Context, subject Subject) (Decision, error) {
	entry, err := m.mutate(ctx, subject, nil)
	if err != nil {
		return Decision{}, err
	}
	now := m.now().UTC()
	d := Decision{
		Allowed: entry.State == StateActive,
		State:   entry.State,
		Usage:   m.usage(subject, entry),
	}
	if entry.State == StateRateLimited || entry.State == StateQuotaExceeded {
		d.Wait = m.wait(subject, entry, now)
	}
	metrics.QuotaDecisions.WithLabelValues(subject.Kind(), string(d.State)).Inc()
	return d, nil
}

func (m *Manager) wait(subject Subject, e *Entry, now time.Time) time.Duration {
	l := m.limits(subject)
	var wait time.Duration
	for _, w := range []Window{Minute, Day, Month} {
		c := e.counter(w)
		if !exhausted(c.Count, l.of(w)) {
			continue
		}
		if d := w.End(c.Start).Sub(now); d > wait {
			wait = d
		}
	}
	return wait
}

// Record counts one successful call against every window. Call it only
// after the AI call has completed successfully.
func (m *Manager) Record(ctx context.Context, subject Subject) error {
	_, err := m.mutate(ctx, subject, func(e *Entry) {
		e.Minute.Count++
		e.Day.Count++
		e.Month.Count++
	})
	if err != nil {
		return err
	}
	metrics.QuotaRecorded.WithLabelValues(subject.Kind()).Inc()
	return nil
}

// Usage returns the current counts, limits, resets and state.
func (m *Manager) Usage(ctx context.Context, subject Subject) (Usage, error) {
	entry, err := m.mutate(ctx, subject, nil)
	if err != nil {
		return Usage{}, err
	}
	return m.usage(subject, entry), nil
}

func (m *Manager) usage(subject Subject, e *Entry) Usage {
	l := m.limits(subject)
	build := func(w Window) WindowUsage {
		c := e.counter(w)
		limit := l.of(w)
		u := WindowUsage{Count: c.Count, Limit: limit, ResetAt: w.End(c.Start)}
		if limit > 0 {
			u.Remaining = max(limit-c.Count, 0)
		}
		return u
	}
	return Usage{
		Subject: subject.String(),
		State:   e.State,
		Minute:  build(Minute),
		Day:     build(Day),
		Month:   build(Month),
	}
}

func (m *Manager) setCredential(ctx context.Context, subject Subject, s State) error {
	_, err := m.mutate(ctx, subject, func(e *Entry) {
		e.Credential = s
	})
	return err
}

// KeyStored moves the user from no_key (or invalid) to active. Counters are
// kept: replacing a key does not reset usage within the current windows.
func (m *Manager) KeyStored(ctx context.Context, userID int64) error {
	return m.setCredential(ctx, UserSubject(userID), StateActive)
}

// KeyRemoved moves the user to no_key.
func (m *Manager) KeyRemoved(ctx context.Context, userID int64) error {
	return m.setCredential(ctx, UserSubject(userID), StateNoKey)
}

// MarkKeyInvalid moves the user to invalid after the provider rejected the
// key. Only a new KeyStored leaves this state.
func (m *Manager) MarkKeyInvalid(ctx context.Context, userID int64) error {
	return m.setCredential(ctx, UserSubject(userID), StateInvalid)
}

var _ credentials.Hooks = (*Manager)(nil)
