// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package npipe provides an asynchronous, client-side named-pipe endpoint:
// it opens an existing pipe for one direction, issues non-blocking
// read/write/peek operations against it, and correlates their completion
// into plain synchronous results with an explicit error taxonomy.
//
// # Result semantics
//
//   - nil error: the operation delivered data or a transferred count.
//   - [ErrNoData]: the read side has zero bytes queued right now. This is
//     control flow, not a failure — return immediately, poll again later.
//   - [ErrTimeout]: a bounded completion wait expired; the in-flight
//     operation was cancelled and the endpoint remains usable.
//   - anything else: a terminal, typed answer for this call (see errors.go).
//
// Every [Endpoint] operation is synchronous from the caller's perspective.
// Internally a pending operation parks on the endpoint's completion context
// until the transfer settles, so "synchronous" never means a polling loop —
// except for the one distinguished no-data case, which stays truly
// non-blocking.
//
// # Retry is the caller's job
//
// The package never retries anything. Deciding when to poll a pipe that has
// no data is left above this layer; [ReadWait], [Relay], [RetryPolicy], and
// [Backoff] are ready-made cadences for callers that want one.
//
// # Ownership and ordering
//
// Each endpoint is unidirectional and exclusively owns its handle, buffer,
// and completion context. Operations on one endpoint are strictly
// sequential: the completion context is a single-slot resource, and an
// overlapping call is rejected with [ErrBusy].
//
// This package opens pipe clients only; creating the server side belongs to
// the peer process (or a test harness — see the examples package).
package npipe
