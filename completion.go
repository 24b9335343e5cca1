// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import "errors"

// The completion protocol turns the OS's "done / pending / failed" answer
// into one synchronous result per call.
//
// Discipline, in order, for every read and write:
//  1. Arm: the prior pending signal is cleared and the transfer offsets are
//     zeroed before anything is issued. The completion context is a
//     single-slot resource, so this reset is what makes calls sequential.
//  2. Issue: the operation is started asynchronously.
//  3. Settle:
//     - Done: the transferred count was available without waiting.
//     - Pending: park on the completion context until it signals, then
//       fetch the final count. With a wait timeout set, expiry cancels the
//       operation and surfaces ErrTimeout; without one the wait is
//       unbounded, matching the baseline design.
//     - Failed: terminal, no internal retry. A no-wait read against an
//       empty pipe is the one distinguished case: it passes through as
//       ErrNoData rather than being coalesced into ErrIO.
//
// Keeping the pending state internal means every public call looks
// synchronous while the no-data case stays truly non-blocking.
func (e *Endpoint) complete(op string, issue func() (Disposition, int, error)) (int, error) {
	if err := e.drv.Arm(); err != nil {
		return 0, newOpError(op, e.name, ErrIO, err)
	}
	d, n, err := issue()
	switch d {
	case DispositionDone:
		return n, nil
	case DispositionPending:
		n, err = e.drv.Await(e.waitTimeout)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return 0, newOpError(op, e.name, ErrTimeout, nil)
			}
			return 0, newOpError(op, e.name, ErrIO, err)
		}
		return n, nil
	default:
		if errors.Is(err, ErrNoData) {
			return 0, ErrNoData
		}
		return 0, newOpError(op, e.name, ErrIO, err)
	}
}
