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

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrEntryNotFound is returned by a StateStore for an unknown subject.
var ErrEntryNotFound = errors.New("quota entry not found")

// Counter is the call count of one window and the start of that window.
type Counter struct {
	Start time.Time `json:"start"`
	Count int64     `json:"count"`
}

// Entry is the persisted quota state of one subject.
//
// Credential is the key-level state (no_key, active or invalid) driven by
// credential events. State is the last effective state reported, used to
// detect transitions.
type Entry struct {
	Subject    string    `json:"subject"`
	Credential State     `json:"credential"`
	State      State     `json:"state"`
	Minute     Counter   `json:"minute"`
	Day        Counter   `json:"day"`
	Month      Counter   `json:"month"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e *Entry) counter(w Window) *Counter {
	switch w {
	case Minute:
		return &e.Minute
	case Day:
		return &e.Day
	default:
		return &e.Month
	}
}

// StateStore persists quota entries. Callers serialize access per subject.
type StateStore interface {
	Load(ctx context.Context, subject Subject) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
}

// MemoryStateStore keeps entries in process memory.
type MemoryStateStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStateStore creates an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]Entry)}
}

// Load implements StateStore.
func (m *MemoryStateStore) Load(_ context.Context, subject Subject) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[subject.String()]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &e, nil
}

// Save implements StateStore.
func (m *MemoryStateStore) Save(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	m.entries[entry.Subject] = *entry
	m.mu.Unlock()
	return nil
}

// BadgerStateStore persists entries under "quota:<subject>".
type BadgerStateStore struct {
	db *badger.DB
}

// NewBadgerStateStore wraps an open BadgerDB.
func NewBadgerStateStore(db *badger.DB) *BadgerStateStore {
	return &BadgerStateStore{db: db}
}

func stateKey(subject string) []byte {
	return []byte("quota:" + subject)
}

// Load implements StateStore.
func (b *BadgerStateStore) Load(_ context.Context, subject Subject) (*Entry, error) {
	var e Entry
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey(subject.String()))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("get quota entry: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Save implements StateStore.
func (b *BadgerStateStore) Save(_ context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal quota entry: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey(entry.Subject), data)
	})
}

var (
	_ StateStore = (*MemoryStateStore)(nil)
	_ StateStore = (*BadgerStateStore)(nil)
)
