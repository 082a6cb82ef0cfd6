// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

var (
	// ErrInvalidFormat wraps every format validation failure.
	ErrInvalidFormat = errors.New("invalid API key format")

	// ErrRejectedByProvider is returned when live validation refuses the key.
	ErrRejectedByProvider = errors.New("API key rejected by provider")
)

// KeyValidator checks a key against the provider before it is stored.
type KeyValidator interface {
	ValidateKey(ctx context.Context, apiKey string) error
}

// Hooks receives credential lifecycle events. The quota manager implements
// it to move a user between no_key, active and invalid.
type Hooks interface {
	KeyStored(ctx context.Context, userID int64) error
	KeyRemoved(ctx context.Context, userID int64) error
}

// Options configures a Manager.
type Options struct {
	MinLength       int
	MaxLength       int
	AllowedPrefixes []string

	// Validator performs optional live validation on Store.
	Validator KeyValidator

	// Hooks is notified after successful Store and Delete.
	Hooks Hooks
}

// Manager is the encrypted credential store: it validates, encrypts and
// persists user API keys, and hands plaintext back only to trusted callers.
type Manager struct {
	repo   Repository
	enc    *Encryptor
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a Manager.
func NewManager(repo Repository, enc *Encryptor, opts Options) *Manager {
	if opts.MinLength <= 0 {
		opts.MinLength = 20
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = 256
	}
	return &Manager{
		repo:   repo,
		enc:    enc,
		opts:   opts,
		logger: logging.Component("credentials"),
		now:    time.Now,
	}
}

// SetHooks attaches lifecycle hooks after construction. The quota manager
// and credential manager reference each other, so one side is wired late.
func (m *Manager) SetHooks(h Hooks) {
	m.opts.Hooks = h
}

// ValidateFormat checks a key without contacting the provider.
func (m *Manager) ValidateFormat(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidFormat)
	}
	if strings.ContainsAny(apiKey, " \t\r\n") {
		return fmt.Errorf("%w: key contains whitespace", ErrInvalidFormat)
	}
	if len(apiKey) < m.opts.MinLength {
		return fmt.Errorf("%w: key must be at least %d characters", ErrInvalidFormat, m.opts.MinLength)
	}
	if len(apiKey) > m.opts.MaxLength {
		return fmt.Errorf("%w: key must be at most %d characters", ErrInvalidFormat, m.opts.MaxLength)
	}
	for _, r := range apiKey {
		if !isKeyRune(r) {
			return fmt.Errorf("%w: key contains unsupported character %q", ErrInvalidFormat, r)
		}
	}
	if len(m.opts.AllowedPrefixes) == 0 {
		return nil
	}
	for _, p := range m.opts.AllowedPrefixes {
		if strings.HasPrefix(apiKey, p) {
			return nil
		}
	}
	return fmt.Errorf("%w: key must start with one of %s", ErrInvalidFormat, strings.Join(m.opts.AllowedPrefixes, ", "))
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r == '.'
}

// Store validates, encrypts and persists a key for userID, replacing any
// previous one. The original creation time survives replacement.
func (m *Manager) Store(ctx context.Context, userID int64, apiKey, name string) (*Info, error) {
	apiKey = strings.TrimSpace(apiKey)
	if err := m.ValidateFormat(apiKey); err != nil {
		metrics.CredentialOperations.WithLabelValues("store", "invalid_format").Inc()
		return nil, err
	}

	if m.opts.Validator != nil {
		if err := m.opts.Validator.ValidateKey(ctx, apiKey); err != nil {
			metrics.CredentialOperations.WithLabelValues("store", "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrRejectedByProvider, err)
		}
	}

	encrypted, err := m.enc.Encrypt(apiKey)
	if err != nil {
		metrics.CredentialOperations.WithLabelValues("store", "error").Inc()
		return nil, fmt.Errorf("encrypt credential: %w", err)
	}

	now := m.now().UTC()
	rec := &Record{
		UserID:    userID,
		Encrypted: encrypted,
		Hash:      Hash(apiKey),
		Hint:      Mask(apiKey),
		Name:      strings.TrimSpace(name),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev, err := m.repo.Get(ctx, userID); err == nil {
		rec.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load existing credential: %w", err)
	}
	if rec.Name == "" {
		rec.Name = "default"
	}

	if err := m.repo.Put(ctx, rec); err != nil {
		metrics.CredentialOperations.WithLabelValues("store", "error").Inc()
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	metrics.CredentialOperations.WithLabelValues("store", "ok").Inc()
	logging.Ctx(ctx).Info().Int64("user_id", userID).Str("key", rec.Hint).Msg("API key stored")

	if h := m.opts.Hooks; h != nil {
		if err := h.KeyStored(ctx, userID); err != nil {
			m.logger.Warn().Err(err).Int64("user_id", userID).Msg("key stored hook failed")
		}
	}
	return rec.info(), nil
}

// Retrieve returns the plaintext key for userID. It never fails: a missing,
// unusable or undecryptable key is reported as ("", false) and logged.
// A verification hash mismatch is logged as a warning but the decrypted
// key is still returned.
func (m *Manager) Retrieve(ctx context.Context, userID int64) (string, bool) {
	rec, err := m.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load credential")
			metrics.CredentialOperations.WithLabelValues("retrieve", "error").Inc()
		}
		return "", false
	}
	if !rec.Status.Usable() {
		metrics.CredentialOperations.WithLabelValues("retrieve", "unusable").Inc()
		return "", false
	}

	plaintext, err := m.enc.Decrypt(rec.Encrypted)
	if err != nil {
		m.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to decrypt stored API key")
		metrics.CredentialOperations.WithLabelValues("retrieve", "decrypt_failure").Inc()
		return "", false
	}
	if Hash(plaintext) != rec.Hash {
		m.logger.Warn().Int64("user_id", userID).Msg("API key verification hash mismatch")
		metrics.CredentialOperations.WithLabelValues("retrieve", "hash_mismatch").Inc()
	} else {
		metrics.CredentialOperations.WithLabelValues("retrieve", "ok").Inc()
	}
	return plaintext, true
}

// Info returns the masked view of the stored key, or ErrNotFound.
func (m *Manager) Info(ctx context.Context, userID int64) (*Info, error) {
	rec, err := m.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rec.info(), nil
}

// Delete removes the user's key. Deleting a missing key is not an error.
func (m *Manager) Delete(ctx context.Context, userID int64) error {
	if err := m.repo.Delete(ctx, userID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete credential: %w", err)
	}
	metrics.CredentialOperations.WithLabelValues("delete", "ok").Inc()
	logging.Ctx(ctx).Info().Int64("user_id", userID).Msg("API key removed")

	if h := m.opts.Hooks; h != nil {
		if err := h.KeyRemoved(ctx, userID); err != nil {
			m.logger.Warn().Err(err).Int64("user_id", userID).Msg("key removed hook failed")
		}
	}
	return nil
}

// SetStatus updates the stored status. Missing keys are ignored.
func (m *Manager) SetStatus(ctx context.Context, userID int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown credential status %q", status)
	}
	return m.update(ctx, userID, func(rec *Record) bool {
		if rec.Status == status {
			return false
		}
		rec.Status = status
		return true
	})
}

// Touch records a successful use of the key.
func (m *Manager) Touch(ctx context.Context, userID int64) error {
	return m.update(ctx, userID, func(rec *Record) bool {
		now := m.now().UTC()
		rec.LastUsed = &now
		return true
	})
}

func (m *Manager) update(ctx context.Context, userID int64, fn func(*Record) bool) error {
	rec, err := m.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if !fn(rec) {
		return nil
	}
	rec.UpdatedAt = m.now().UTC()
	if err := m.repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}
