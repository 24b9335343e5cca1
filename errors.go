// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import (
	"errors"
	"fmt"
)

// npipe classifies every failure into a small set of sentinel kinds and
// returns them wrapped in an owned [*OpError] value; nothing is reported
// through shared state and nothing OS-reported escapes as a panic.
//
// Mental model:
//   - ErrNoData / ErrTimeout: expected control flow. Keep the endpoint,
//     decide your own poll cadence.
//   - everything else: a terminal answer for this call. The endpoint itself
//     stays valid except where the kind says otherwise (ErrClosed).

// ErrInvalidArgument means a direction or option was rejected before any
// resource was acquired.
var ErrInvalidArgument = errors.New("npipe: invalid argument")

// ErrOpenFailed means the pipe handle could not be acquired (pipe absent,
// access denied, all instances busy). Nothing was allocated.
var ErrOpenFailed = errors.New("npipe: open failed")

// ErrResourceExhausted means the completion context could not be allocated
// after the handle was acquired. The handle was released before this error
// propagated, so no handle leaks from a partial construction.
var ErrResourceExhausted = errors.New("npipe: resource exhausted")

// ErrWrongDirection means the operation was invoked against an endpoint not
// opened for that direction (read on a write endpoint, or vice versa).
var ErrWrongDirection = errors.New("npipe: wrong direction")

// ErrIO means a read, write, or peek failed terminally after being issued,
// including peer-closed conditions. The platform code on the wrapping
// [*OpError] distinguishes the cause.
var ErrIO = errors.New("npipe: i/o failure")

// ErrNoData means the read side has zero bytes queued right now under
// non-blocking behavior. It is a valid outcome, not a failure: retry later.
// Linux analogy: EAGAIN/EWOULDBLOCK.
var ErrNoData = errors.New("npipe: no data now")

// ErrBusy means a second operation was issued on an endpoint whose single
// completion slot is still armed by an unresolved call.
var ErrBusy = errors.New("npipe: operation already in flight")

// ErrClosed means the endpoint's I/O capability was ended by Close (or
// Release) before the operation was issued.
var ErrClosed = errors.New("npipe: endpoint closed")

// ErrTimeout means a bounded completion wait expired. The in-flight
// operation was cancelled and drained; the endpoint remains usable.
var ErrTimeout = errors.New("npipe: completion wait timed out")

// OpError carries one operation's failure: which operation, against which
// pipe, the taxonomy kind, and — when the OS reported one — the platform
// failure code plus the underlying cause.
//
// OpError matches both its Kind and its cause under [errors.Is].
type OpError struct {
	// Op is the failing operation: "open", "read", "write", or "peek".
	Op string
	// Name is the pipe identifier the endpoint was opened with.
	Name string
	// Code is the platform failure code, or zero when not applicable.
	Code uint32
	// Kind is the taxonomy sentinel (ErrOpenFailed, ErrIO, ...).
	Kind error
	// Err is the underlying cause, possibly nil.
	Err error
}

func (e *OpError) Error() string {
	s := "npipe: " + e.Op
	if e.Name != "" {
		s += " " + e.Name
	}
	if e.Code != 0 {
		s += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	if e.Kind != nil {
		return s + ": " + e.Kind.Error()
	}
	return s
}

func (e *OpError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// newOpError builds an owned error value for one failed call. The platform
// code is extracted from cause when the OS supplied one.
func newOpError(op, name string, kind, cause error) *OpError {
	return &OpError{Op: op, Name: name, Code: platformCode(cause), Kind: kind, Err: cause}
}

// IsNoData reports whether err carries the no-data-now semantic.
// It returns true for ErrNoData and wrappers (via errors.Is).
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// IsTimeout reports whether err carries the bounded-wait-expired semantic.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
