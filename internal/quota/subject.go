// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package quota

import (
	"strconv"
	"time"
)

// Subject identifies whose counters a call is charged to. A user's own key
// and the shared default key are always tracked apart, even for the same
// user.
type Subject struct {
	UserID int64
	Shared bool
}

// DefaultSubject is the shared server credential.
var DefaultSubject = Subject{Shared: true}

// UserSubject returns the subject for a user's own key.
func UserSubject(userID int64) Subject {
	return Subject{UserID: userID}
}

// Kind is "default" or "user"; used as a metrics label.
func (s Subject) Kind() string {
	if s.Shared {
		return "default"
	}
	return "user"
}

func (s Subject) String() string {
	if s.Shared {
		return "default"
	}
	return "user:" + strconv.FormatInt(s.UserID, 10)
}

// State is the quota state of a subject.
type State string

const (
	StateNoKey         State = "no_key"
	StateActive        State = "active"
	StateRateLimited   State = "rate_limited"
	StateQuotaExceeded State = "quota_exceeded"
	StateInvalid       State = "invalid"
)

// Limits caps calls per calendar window. A non-positive limit disables that
// window.
type Limits struct {
	Minute int64 `json:"minute"`
	Day    int64 `json:"day"`
	Month  int64 `json:"month"`
}

// Window is one of the three calendar-aligned counting periods.
type Window int

const (
	Minute Window = iota
	Day
	Month
)

func (w Window) String() string {
	switch w {
	case Minute:
		return "minute"
	case Day:
		return "day"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// Start returns the beginning of the window containing t, in UTC.
func (w Window) Start(t time.Time) time.Time {
	t = t.UTC()
	switch w {
	case Minute:
		return t.Truncate(time.Minute)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// End returns the first instant after the window that starts at start.
func (w Window) End(start time.Time) time.Time {
	switch w {
	case Minute:
		return start.Add(time.Minute)
	case Day:
		return start.AddDate(0, 0, 1)
	default:
		return start.AddDate(0, 1, 0)
	}
}

func (l Limits) of(w Window) int64 {
	switch w {
	case Minute:
		return l.Minute
	case Day:
		return l.Day
	default:
		return l.Month
	}
}
