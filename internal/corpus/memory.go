// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package corpus

import (
	"context"
	"sync"
)

// MemoryStore keeps items in process memory. Returned items are copies.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]map[int64]Item
	nextID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]map[int64]Item)}
}

func (m *MemoryStore) snapshot(userID int64) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]Item, 0, len(m.users[userID]))
	for _, it := range m.users[userID] {
		items = append(items, cloneItem(&it))
	}
	return items
}

// TopQualityItems implements Store.
func (m *MemoryStore) TopQualityItems(_ context.Context, userID int64, limit int) ([]Item, error) {
	return topQuality(m.snapshot(userID), limit), nil
}

// Candidates implements Store.
func (m *MemoryStore) Candidates(_ context.Context, userID int64, limit int) ([]Item, error) {
	return newestFirst(m.snapshot(userID), limit), nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, userID, id int64) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.users[userID][id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneItem(&it)
	return &c, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		m.nextID++
		item.ID = m.nextID
	} else if item.ID > m.nextID {
		m.nextID = item.ID
	}
	if m.users[item.UserID] == nil {
		m.users[item.UserID] = make(map[int64]Item)
	}
	m.users[item.UserID][item.ID] = cloneItem(item)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID][id]; !ok {
		return ErrNotFound
	}
	delete(m.users[userID], id)
	return nil
}

// Stats implements Store.
func (m *MemoryStore) Stats(_ context.Context, userID int64) (Stats, error) {
	return computeStats(m.snapshot(userID)), nil
}

var _ Store = (*MemoryStore)(nil)
