// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package credentials

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a user has no stored key.
var ErrNotFound = errors.New("credential not found")

// Repository persists credential records, one per user.
type Repository interface {
	Get(ctx context.Context, userID int64) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryRepository is an in-process Repository for tests and ephemeral runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]Record
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[int64]Record)}
}

// Get implements Repository.
func (m *MemoryRepository) Get(_ context.Context, userID int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Put implements Repository.
func (m *MemoryRepository) Put(_ context.Context, rec *Record) error {
	m.mu.Lock()
	m.records[rec.UserID] = *rec
	m.mu.Unlock()
	return nil
}

// Delete implements Repository.
func (m *MemoryRepository) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.records, userID)
	m.mu.Unlock()
	return nil
}

const credentialKeyPrefix = "cred:"

// BadgerRepository stores records as JSON under "cred:<user_id>".
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository wraps an open BadgerDB.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func credentialKey(userID int64) []byte {
	return []byte(credentialKeyPrefix + strconv.FormatInt(userID, 10))
}

// Get implements Repository.
func (b *BadgerRepository) Get(_ context.Context, userID int64) (*Record, error) {
	var rec Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(credentialKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Put implements Repository.
func (b *BadgerRepository) Put(_ context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(credentialKey(rec.UserID), data)
	})
}

// Delete implements Repository.
func (b *BadgerRepository) Delete(_ context.Context, userID int64) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(credentialKey(userID))
	})
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*BadgerRepository)(nil)
)
