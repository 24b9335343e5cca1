// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the read buffer capacity an endpoint is opened with
// unless [WithBufferSize] overrides it.
const DefaultBufferSize = 2048

// Endpoint is one side (read or write) of a unidirectional named-pipe
// connection. It exclusively owns its pipe handle, its read buffer, and a
// single completion context; none of the three is ever shared.
//
// Lifecycle: created by [Open]; I/O capability ends at [Endpoint.Close];
// memory and the wait primitive are reclaimed at [Endpoint.Release] or, if
// the owner forgets, by a scope-exit cleanup registered at open time. Both
// paths are idempotent in any order.
//
// Concurrency: operations on one endpoint are strictly sequential. The
// completion context is a single-slot resource reset at the start of every
// call; an overlapping call is rejected with ErrBusy rather than corrupting
// the slot.
type Endpoint struct {
	name string
	dir  Direction
	drv  opDriver

	// buf is reused across reads and holds at most one in-flight read's
	// result at a time. Reads are issued with capacity minus one byte, the
	// last byte staying reserved as a text terminator slot; binary callers
	// rely on the returned length.
	buf []byte

	waitTimeout time.Duration
	log         *slog.Logger

	busy     atomic.Bool
	closed   bool
	released bool
	cleanup  runtime.Cleanup
}

// Option configures an endpoint at open time.
type Option func(*options)

type options struct {
	bufSize     int
	waitTimeout time.Duration
	log         *slog.Logger
}

// WithBufferSize sets the read buffer capacity. The capacity must exceed one
// byte (one payload byte plus the reserved terminator slot); anything else
// fails Open with ErrInvalidArgument.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufSize = n }
}

// WithWaitTimeout bounds the blocking wait on a pending operation. Zero (the
// default) waits indefinitely, matching the baseline design; a positive d
// turns a stalled peer into ErrTimeout instead of a hung caller.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) { o.waitTimeout = d }
}

// WithLogger routes the endpoint's diagnostics (the best-effort mode
// adjustment failure, teardown anomalies) to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open acquires a client handle on an existing named pipe for one direction.
// It never creates the server side.
//
// Failure modes, in acquisition order:
//   - ErrInvalidArgument: bad direction or option; nothing acquired.
//   - ErrOpenFailed: the handle could not be acquired; nothing allocated.
//   - ErrResourceExhausted: the completion context could not be allocated;
//     the handle was released before returning.
//
// After acquisition the endpoint attempts a best-effort switch to
// message-oriented, non-blocking reads. Failure of that switch is logged at
// debug level and ignored: the endpoint is returned usable, and downstream
// operations tolerate a pipe left in blocking mode.
func Open(name string, dir Direction, opts ...Option) (*Endpoint, error) {
	if !dir.valid() {
		return nil, newOpError("open", name, ErrInvalidArgument, fmt.Errorf("direction %d", dir))
	}
	o := options{bufSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufSize <= 1 {
		return nil, newOpError("open", name, ErrInvalidArgument, fmt.Errorf("buffer size %d", o.bufSize))
	}

	drv, err := openSysDriver(name, dir)
	if err != nil {
		return nil, err
	}
	e := newEndpoint(name, dir, drv, o)

	if err := drv.AdjustMode(); err != nil {
		e.log.Debug("npipe: pipe mode adjustment failed, continuing in blocking mode",
			"pipe", name, "error", err)
	}
	return e, nil
}

// newEndpoint wires a driver into an endpoint and registers the scope-exit
// teardown. The cleanup argument is the driver, not the endpoint, so the
// cleanup cannot keep the endpoint reachable.
func newEndpoint(name string, dir Direction, drv opDriver, o options) *Endpoint {
	e := &Endpoint{
		name:        name,
		dir:         dir,
		drv:         drv,
		buf:         make([]byte, o.bufSize),
		waitTimeout: o.waitTimeout,
		log:         o.log,
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.cleanup = runtime.AddCleanup(e, releaseDriver, drv)
	return e
}

// releaseDriver is the owner-scope-exit path: wait primitive first, then the
// handle, each tolerant of an earlier explicit Close or Release.
func releaseDriver(drv opDriver) {
	_ = drv.ReleaseWait()
	_ = drv.CloseHandle()
}

// Name returns the pipe identifier the endpoint was opened with.
func (e *Endpoint) Name() string { return e.name }

// Direction returns the endpoint's fixed transfer direction.
func (e *Endpoint) Direction() Direction { return e.dir }

// SetWaitTimeout replaces the bound on pending-operation waits. Zero or less
// restores the indefinite wait.
func (e *Endpoint) SetWaitTimeout(d time.Duration) { e.waitTimeout = d }

// Write pushes p down a write endpoint and returns the transferred count.
//
// Partial writes are possible and surfaced, never silently retried:
// 0 <= n <= len(p) on success. A pending write parks on the completion
// context until it settles (bounded by the wait timeout, if one is set).
func (e *Endpoint) Write(p []byte) (int, error) {
	if e.dir != DirectionWrite {
		return 0, newOpError("write", e.name, ErrWrongDirection, nil)
	}
	if !e.busy.CompareAndSwap(false, true) {
		return 0, newOpError("write", e.name, ErrBusy, nil)
	}
	defer e.busy.Store(false)
	if e.closed {
		return 0, newOpError("write", e.name, ErrClosed, nil)
	}
	return e.complete("write", func() (Disposition, int, error) {
		return e.drv.IssueWrite(p)
	})
}

// Read pulls whatever the pipe has queued, up to the buffer capacity minus
// the reserved terminator byte, and returns a copy of exactly the bytes
// transferred. The returned slice is owned by the caller.
//
// Zero bytes queued under non-blocking behavior yields ErrNoData — a valid
// outcome, not a failure (see [IsNoData], [IsNonFailure]). On a pipe left in
// blocking mode the call instead parks until data arrives or the wait
// timeout expires.
func (e *Endpoint) Read() ([]byte, error) {
	if e.dir != DirectionRead {
		return nil, newOpError("read", e.name, ErrWrongDirection, nil)
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, newOpError("read", e.name, ErrBusy, nil)
	}
	defer e.busy.Store(false)
	if e.closed {
		return nil, newOpError("read", e.name, ErrClosed, nil)
	}
	n, err := e.complete("read", func() (Disposition, int, error) {
		return e.drv.IssueRead(e.buf[:len(e.buf)-1])
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// A zero-length transfer and an empty queue are the same answer.
		return nil, ErrNoData
	}
	out := make([]byte, n)
	copy(out, e.buf[:n])
	return out, nil
}

// Peek reports how many bytes are currently queued on a read endpoint
// without consuming them and without blocking. It is a pure query: the
// completion context is not touched.
//
// A peer that has closed the pipe surfaces as ErrIO with the platform code,
// never as a zero count.
func (e *Endpoint) Peek() (int, error) {
	if e.dir != DirectionRead {
		return 0, newOpError("peek", e.name, ErrWrongDirection, nil)
	}
	if !e.busy.CompareAndSwap(false, true) {
		return 0, newOpError("peek", e.name, ErrBusy, nil)
	}
	defer e.busy.Store(false)
	if e.closed {
		return 0, newOpError("peek", e.name, ErrClosed, nil)
	}
	n, err := e.drv.Peek()
	if err != nil {
		return 0, newOpError("peek", e.name, ErrIO, err)
	}
	return n, nil
}

// Close ends the endpoint's I/O capability by releasing the pipe handle.
// The buffer and the completion context stay alive until Release.
//
// Close is idempotent and always returns nil; closing an already-closed
// endpoint is a no-op, never an error.
func (e *Endpoint) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.drv.CloseHandle(); err != nil {
		e.log.Debug("npipe: handle release failed", "pipe", e.name, "error", err)
	}
	return nil
}

// Release tears the endpoint down: the completion context's wait primitive
// first, then the handle if Close has not already run. It tolerates any
// subset having been released before and stops the scope-exit cleanup, so
// explicit teardown and owner-scope exit never double-release.
func (e *Endpoint) Release() error {
	if e.released {
		return nil
	}
	e.released = true
	e.cleanup.Stop()
	if err := e.drv.ReleaseWait(); err != nil {
		e.log.Debug("npipe: wait primitive release failed", "pipe", e.name, "error", err)
	}
	return e.Close()
}

// String renders the endpoint for diagnostics as
// "npipe.Endpoint: 0x<handle> (read|write)".
func (e *Endpoint) String() string {
	return fmt.Sprintf("npipe.Endpoint: 0x%x (%s)", e.drv.Identity(), e.dir)
}
