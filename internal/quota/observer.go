// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package quota

import (
	"context"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/credentials"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
)

// StatusSetter updates the stored status of a user's key.
type StatusSetter interface {
	SetStatus(ctx context.Context, userID int64, status credentials.Status) error
}

// CredentialSync mirrors quota transitions of user subjects onto the stored
// credential status, so the credential endpoints report what the quota
// manager enforces.
type CredentialSync struct {
	setter StatusSetter
}

// NewCredentialSync creates an Observer writing through setter.
func NewCredentialSync(setter StatusSetter) *CredentialSync {
	return &CredentialSync{setter: setter}
}

// StateChanged implements Observer.
func (c *CredentialSync) StateChanged(ctx context.Context, subject Subject, _, to State) {
	if subject.Shared {
		return
	}
	status, ok := credentialStatus(to)
	if !ok {
		return
	}
	if err := c.setter.SetStatus(ctx, subject.UserID, status); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Int64("user_id", subject.UserID).
			Str("status", string(status)).
			Msg("failed to sync credential status")
	}
}

func credentialStatus(s State) (credentials.Status, bool) {
	switch s {
	case StateActive:
		return credentials.StatusActive, true
	case StateRateLimited:
		return credentials.StatusRateLimited, true
	case StateQuotaExceeded:
		return credentials.StatusQuotaExceeded, true
	case StateInvalid:
		return credentials.StatusInvalid, true
	default:
		// no_key has no stored record to update.
		return "", false
	}
}

var _ Observer = (*CredentialSync)(nil)
