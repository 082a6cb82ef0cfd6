// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package quota gates AI enrichment calls behind per-subject call limits.

Each subject (a user's own key, or the shared default key) has three
counters aligned to UTC calendar windows: the current minute, day and month.
A counter resets exactly once when the clock crosses its window boundary.

# States

	no_key ──KeyStored──▶ active ──minute limit──▶ rate_limited
	                        │  ▲                        │
	                        │  └────minute rollover─────┘
	                        └──day/month limit──▶ quota_exceeded
	                                                  │
	                          day/month rollover ─────┘
	any ──MarkKeyInvalid──▶ invalid      any ──KeyRemoved──▶ no_key

Recovery from rate_limited and quota_exceeded needs no reset call: the next
Check after the boundary sees fresh counters.

# Usage

	d, err := mgr.Check(ctx, quota.UserSubject(userID))
	if err != nil {
	    return err
	}
	if !d.Allowed {
	    return d.Err(quota.UserSubject(userID)) // *ExceededError with Wait
	}
	if err := callProvider(ctx); err != nil {
	    return err // failures are never counted
	}
	_ = mgr.Record(ctx, quota.UserSubject(userID))

Record takes the subject lock, so concurrent calls for one user never lose
increments. State lives in a StateStore (memory or BadgerDB).
*/
package quota
