// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package services adapts long-running components to suture's
context-aware Serve pattern.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server, converting ListenAndServe into Serve
  - Drains in-flight requests for a configurable timeout on shutdown

Periodic Task (PeriodicService):
  - Runs a function on a ticker, each run bounded by a timeout
  - Failed runs are logged and retried on the next tick
  - Used for the Badger value-log GC

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
