// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package corpus stores the content items users save, with their embeddings,
// quality scores and tags. MemoryStore serves tests and ephemeral runs;
// BadgerStore persists to BadgerDB. Notifying wraps either and reports
// writes so derived data (profiles, cached recommendation lists) can be
// invalidated.
package corpus
