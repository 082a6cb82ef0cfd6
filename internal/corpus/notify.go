// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package corpus

import (
	"context"
	"sync"
)

// ChangeFunc is called after a user's corpus changed.
type ChangeFunc func(ctx context.Context, userID int64)

// Notifying wraps a Store and reports successful writes to registered
// hooks. The recommendation engine uses it to invalidate profiles and
// cached lists.
type Notifying struct {
	Store

	mu    sync.RWMutex
	hooks []ChangeFunc
}

// NewNotifying wraps store.
func NewNotifying(store Store) *Notifying {
	return &Notifying{Store: store}
}

// OnChange registers a hook.
func (n *Notifying) OnChange(fn ChangeFunc) {
	n.mu.Lock()
	n.hooks = append(n.hooks, fn)
	n.mu.Unlock()
}

func (n *Notifying) notify(ctx context.Context, userID int64) {
	n.mu.RLock()
	hooks := n.hooks
	n.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, userID)
	}
}

// Put implements Store.
func (n *Notifying) Put(ctx context.Context, item *Item) error {
	if err := n.Store.Put(ctx, item); err != nil {
		return err
	}
	n.notify(ctx, item.UserID)
	return nil
}

// Delete implements Store.
func (n *Notifying) Delete(ctx context.Context, userID, id int64) error {
	if err := n.Store.Delete(ctx, userID, id); err != nil {
		return err
	}
	n.notify(ctx, userID)
	return nil
}

var _ Store = (*Notifying)(nil)
