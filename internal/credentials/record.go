// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package credentials

import (
	"time"
)

// Status is the lifecycle state of a stored key.
type Status string

const (
	StatusActive        Status = "active"
	StatusRateLimited   Status = "rate_limited"
	StatusQuotaExceeded Status = "quota_exceeded"
	StatusExpired       Status = "expired"
	StatusInvalid       Status = "invalid"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusRateLimited, StatusQuotaExceeded, StatusExpired, StatusInvalid:
		return true
	default:
		return false
	}
}

// Usable reports whether a key in this status may be handed to the AI
// provider. Rate-limited and exhausted keys stay usable: the quota manager
// decides when they can be called again.
func (s Status) Usable() bool {
	return s != StatusInvalid && s != StatusExpired
}

// Record is the persisted form of a user's API key. The plaintext never
// appears here.
type Record struct {
	UserID    int64      `json:"user_id"`
	Encrypted string     `json:"encrypted"`
	Hash      string     `json:"hash"`
	Hint      string     `json:"hint"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// Info is the caller-facing view of a stored key.
type Info struct {
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Masked    string     `json:"masked"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

func (r *Record) info() *Info {
	return &Info{
		UserID:    r.UserID,
		Name:      r.Name,
		Masked:    r.Hint,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		LastUsed:  r.LastUsed,
	}
}
