// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package logging provides the zerolog-based structured logger used by every
// Fuze component.
//
// JSON output is the default; console output is meant for development.
// Request-scoped fields (request_id, correlation_id, user_id) travel in the
// context and are attached by Ctx:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Ctx(ctx).Warn().Err(err).Msg("cache backend unavailable")
//
// Components create a child logger once and keep it:
//
//	logger := logging.Component("recommend")
//
// SlogHandler bridges zerolog to log/slog for libraries (sutureslog) that
// only accept an *slog.Logger.
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging
