// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package credentials

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const validKey = "sk-test0123456789abcdefghij"

type recordingHooks struct {
	mu      sync.Mutex
	stored  []int64
	removed []int64
}

func (h *recordingHooks) KeyStored(_ context.Context, userID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stored = append(h.stored, userID)
	return nil
}

func (h *recordingHooks) KeyRemoved(_ context.Context, userID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = append(h.removed, userID)
	return nil
}

type validatorFunc func(ctx context.Context, key string) error

func (f validatorFunc) ValidateKey(ctx context.Context, key string) error { return f(ctx, key) }

func newTestManager(t *testing.T, repo Repository, opts Options) *Manager {
	t.Helper()
	enc, err := NewEncryptor("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewEncryptor: %v", err)
	}
	if opts.AllowedPrefixes == nil {
		opts.AllowedPrefixes = []string{"sk-", "AIza"}
	}
	return NewManager(repo, enc, opts)
}

func TestValidateFormat(t *testing.T) {
	m := newTestManager(t, NewMemoryRepository(), Options{})

	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"openai style", validKey, true},
		{"google style", "AIzaSyA1234567890abcdefghij", true},
		{"empty", "", false},
		{"blank", "    ", false},
		{"too short", "sk-short", false},
		{"inner whitespace", "sk-abc def0123456789abcdef", false},
		{"unknown prefix", "xx-0123456789abcdefghijklm", false},
		{"bad character", "sk-0123456789abcdef$ghijkl", false},
		{"too long", "sk-" + string(make([]byte, 300)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateFormat(tt.key)
			if tt.valid && err != nil {
				t.Errorf("ValidateFormat(%q) = %v, want nil", tt.key, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ValidateFormat(%q) = %v, want ErrInvalidFormat", tt.key, err)
			}
		})
	}
}

func TestStoreAndRetrieve(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	repo := NewMemoryRepository()
	m := newTestManager(t, repo, Options{Hooks: hooks})

	info, err := m.Store(ctx, 7, "  "+validKey+"  ", "work key")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if info.Status != StatusActive || info.Name != "work key" || info.Masked != "****...ghij" {
		t.Errorf("unexpected info %+v", info)
	}

	rec, _ := repo.Get(ctx, 7)
	if rec.Encrypted == validKey || rec.Hash != Hash(validKey) {
		t.Errorf("record must hold ciphertext and hash, got %+v", rec)
	}

	got, ok := m.Retrieve(ctx, 7)
	if !ok || got != validKey {
		t.Fatalf("Retrieve = %q, %v", got, ok)
	}
	if len(hooks.stored) != 1 || hooks.stored[0] != 7 {
		t.Errorf("KeyStored hook calls = %v", hooks.stored)
	}
}

func TestStorePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewMemoryRepository(), Options{})
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	first, _ := m.Store(ctx, 1, validKey, "")
	clock = clock.Add(48 * time.Hour)
	second, err := m.Store(ctx, 1, "AIzaSyA1234567890abcdefghij", "replacement")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("UpdatedAt should advance")
	}
	if first.Name != "default" {
		t.Errorf("empty name should default, got %q", first.Name)
	}
}

func TestStoreRejections(t *testing.T) {
	ctx := context.Background()
	providerErr := errors.New("401 unauthorized")
	m := newTestManager(t, NewMemoryRepository(), Options{
		Validator: validatorFunc(func(context.Context, string) error { return providerErr }),
	})

	if _, err := m.Store(ctx, 1, "bad", ""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("format err = %v", err)
	}
	_, err := m.Store(ctx, 1, validKey, "")
	if !errors.Is(err, ErrRejectedByProvider) || !errors.Is(err, providerErr) {
		t.Errorf("live validation err = %v", err)
	}
	if _, ok := m.Retrieve(ctx, 1); ok {
		t.Error("rejected key must not be stored")
	}
}

func TestRetrieveNeverFails(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := newTestManager(t, repo, Options{})

	if _, ok := m.Retrieve(ctx, 99); ok {
		t.Error("absent key should report false")
	}

	_, _ = m.Store(ctx, 1, validKey, "")
	rec, _ := repo.Get(ctx, 1)
	rec.Encrypted = "Y29ycnVwdGVkLWNpcGhlcnRleHQtdGhhdC1pcy1sb25nLWVub3VnaA=="
	_ = repo.Put(ctx, rec)
	if got, ok := m.Retrieve(ctx, 1); ok || got != "" {
		t.Errorf("corrupt ciphertext Retrieve = %q, %v", got, ok)
	}
}

func TestRetrieveHashMismatchStillReturnsKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := newTestManager(t, repo, Options{})

	_, _ = m.Store(ctx, 1, validKey, "")
	rec, _ := repo.Get(ctx, 1)
	rec.Hash = "0000"
	_ = repo.Put(ctx, rec)

	if got, ok := m.Retrieve(ctx, 1); !ok || got != validKey {
		t.Errorf("Retrieve = %q, %v; want key despite mismatch", got, ok)
	}
}

func TestStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	m := newTestManager(t, NewMemoryRepository(), Options{Hooks: hooks})

	_, _ = m.Store(ctx, 1, validKey, "")

	if err := m.SetStatus(ctx, 1, StatusRateLimited); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, ok := m.Retrieve(ctx, 1); !ok {
		t.Error("rate limited key should still be retrievable")
	}

	_ = m.SetStatus(ctx, 1, StatusInvalid)
	if _, ok := m.Retrieve(ctx, 1); ok {
		t.Error("invalid key should not be handed out")
	}
	if err := m.SetStatus(ctx, 1, Status("bogus")); err == nil {
		t.Error("unknown status should be rejected")
	}
	if err := m.SetStatus(ctx, 404, StatusActive); err != nil {
		t.Errorf("SetStatus on missing key = %v, want nil", err)
	}

	if err := m.Touch(ctx, 1); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	info, _ := m.Info(ctx, 1)
	if info.LastUsed == nil {
		t.Error("Touch should set LastUsed")
	}

	if err := m.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Info(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info after delete err = %v", err)
	}
	if len(hooks.removed) != 1 {
		t.Errorf("KeyRemoved hook calls = %v", hooks.removed)
	}
}

func TestBadgerRepository(t *testing.T) {
	ctx := context.Background()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer db.Close()

	repo := NewBadgerRepository(db)
	m := newTestManager(t, repo, Options{})

	if _, err := repo.Get(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty repo err = %v", err)
	}
	if _, err := m.Store(ctx, 5, validKey, "badger"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got, ok := m.Retrieve(ctx, 5); !ok || got != validKey {
		t.Fatalf("Retrieve = %q, %v", got, ok)
	}
	if err := m.Delete(ctx, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
}
