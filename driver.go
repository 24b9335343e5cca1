// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import "time"

// Disposition classifies the immediate outcome of issuing an asynchronous
// operation. Every issued read or write resolves through exactly one of the
// three ways:
//
//	DispositionDone:    completed synchronously; the count is final.
//	DispositionPending: queued by the OS; await the completion context for
//	                    the final count.
//	DispositionFailed:  terminal; no retry is attempted internally.
type Disposition uint8

const (
	DispositionFailed Disposition = iota
	DispositionDone
	DispositionPending
)

func (d Disposition) String() string {
	switch d {
	case DispositionDone:
		return "Done"
	case DispositionPending:
		return "Pending"
	default:
		return "Failed"
	}
}

// opDriver is the per-endpoint asynchronous operation surface. Exactly one
// driver backs one endpoint: it owns the OS pipe handle and the completion
// context's wait primitive, and is never shared.
//
// The platform implementation lives in sys_windows.go; non-Windows builds
// carry a stub whose open fails (named pipes are a Windows facility here).
type opDriver interface {
	// Arm clears completion state before a new operation: any prior pending
	// signal is reset and the transfer offsets are zeroed (pipes are not
	// seek-addressable, so offsets are always zero).
	Arm() error

	// IssueRead starts an asynchronous read into buf. On DispositionDone n
	// is the final transferred count. A read against an empty pipe in
	// no-wait mode fails with ErrNoData.
	IssueRead(buf []byte) (d Disposition, n int, err error)

	// IssueWrite starts an asynchronous write of data. Partial acceptance
	// is legal: on DispositionDone, 0 <= n <= len(data).
	IssueWrite(data []byte) (d Disposition, n int, err error)

	// Await blocks until the armed pending operation settles, then returns
	// the final transferred count. A timeout of zero or less waits
	// indefinitely. On expiry the operation is cancelled and drained so the
	// completion slot is safe to rearm, and ErrTimeout is returned.
	Await(timeout time.Duration) (n int, err error)

	// Peek reports how many bytes are queued on the read side without
	// consuming them and without touching the completion context.
	Peek() (int, error)

	// AdjustMode switches the pipe to message-oriented, non-blocking reads.
	// Best effort: on failure the pipe stays in whatever mode the server
	// created it with, and every other method must keep working.
	AdjustMode() error

	// CloseHandle releases the pipe handle. Safe to call repeatedly.
	CloseHandle() error

	// ReleaseWait releases the completion context's wait primitive.
	// Safe to call repeatedly.
	ReleaseWait() error

	// Identity is the OS identity of the handle, for diagnostics only.
	Identity() uintptr
}
