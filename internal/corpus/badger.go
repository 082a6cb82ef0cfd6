// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	itemKeyPrefix = "item:"
	sequenceKey   = "seq:item"

	// sequenceBandwidth is how many IDs are leased from Badger at a time.
	sequenceBandwidth = 100
)

// BadgerStore persists items as JSON under "item:<user>:<id>" with
// zero-padded numbers, so a prefix scan yields one user's items.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerStore wraps an open BadgerDB. Close releases the ID sequence.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("acquire item sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// Close releases unused leased IDs.
func (b *BadgerStore) Close() error {
	return b.seq.Release()
}

func userPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", itemKeyPrefix, userID))
}

func itemKey(userID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", itemKeyPrefix, userID, id))
}

func (b *BadgerStore) scan(userID int64) ([]Item, error) {
	var items []Item
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = userPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var item Item
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode item %s: %w", it.Item().Key(), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// TopQualityItems implements Store.
func (b *BadgerStore) TopQualityItems(_ context.Context, userID int64, limit int) ([]Item, error) {
	items, err := b.scan(userID)
	if err != nil {
		return nil, err
	}
	return topQuality(items, limit), nil
}

// Candidates implements Store.
func (b *BadgerStore) Candidates(_ context.Context, userID int64, limit int) ([]Item, error) {
	items, err := b.scan(userID)
	if err != nil {
		return nil, err
	}
	return newestFirst(items, limit), nil
}

// Get implements Store.
func (b *BadgerStore) Get(_ context.Context, userID, id int64) (*Item, error) {
	var item Item
	err := b.db.View(func(txn *badger.Txn) error {
		bi, err := txn.Get(itemKey(userID, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return bi.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Put implements Store.
func (b *BadgerStore) Put(_ context.Context, item *Item) error {
	if item.ID == 0 {
		n, err := b.seq.Next()
		if err != nil {
			return fmt.Errorf("next item id: %w", err)
		}
		// Sequences start at 0; IDs start at 1.
		item.ID = int64(n) + 1
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(itemKey(item.UserID, item.ID), data)
	})
}

// Delete implements Store.
func (b *BadgerStore) Delete(_ context.Context, userID, id int64) error {
	return b.db.Update(func(txn *badger.Txn) error {
		key := itemKey(userID, id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Stats implements Store.
func (b *BadgerStore) Stats(_ context.Context, userID int64) (Stats, error) {
	items, err := b.scan(userID)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(items), nil
}

var _ Store = (*BadgerStore)(nil)
