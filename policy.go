// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import "runtime"

// Op identifies where a semantic signal (ErrNoData / ErrTimeout) came from.
//
// This is intentionally coarse-grained: it lets a policy treat, say, a dry
// source differently from a saturated sink inside [Relay].
type Op uint8

const (
	OpRead Op = iota
	OpWrite
	OpPeek

	OpRelayRead
	OpRelayWrite
)

func (op Op) String() string {
	switch op {
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	case OpPeek:
		return "Peek"
	case OpRelayRead:
		return "RelayRead"
	case OpRelayWrite:
		return "RelayWrite"
	default:
		return "Op(unknown)"
	}
}

// PolicyAction tells a polling helper whether it should return to the caller
// or attempt the operation again.
type PolicyAction uint8

const (
	// PolicyReturn means: return immediately to the caller.
	PolicyReturn PolicyAction = iota

	// PolicyRetry means: do not return; retry after Yield(op).
	// This is how ErrNoData is mapped to blocking-ish behavior.
	PolicyRetry
)

// RetryPolicy customizes how polling helpers ([ReadWait], [WriteFull],
// [Relay]) react to npipe's semantic signals.
//
// Contract expectations:
//   - OnNoData / OnTimeout are only consulted for the matching signal.
//   - If PolicyRetry is returned, the helper calls Yield(op) and retries.
//   - If Yield(op) does not actually wait, the helper may spin.
type RetryPolicy interface {
	Yield(op Op)
	OnNoData(op Op) PolicyAction
	OnTimeout(op Op) PolicyAction
}

// PolicyFunc is a convenience implementation for callers that want to inject
// behavior without defining a struct type.
//
// Default behaviors when fields are nil:
//   - YieldFunc: calls runtime.Gosched() to yield the processor
//   - NoDataFunc: returns PolicyReturn (caller handles ErrNoData)
//   - TimeoutFunc: returns PolicyReturn (caller handles ErrTimeout)
type PolicyFunc struct {
	YieldFunc   func(op Op)
	NoDataFunc  func(op Op) PolicyAction
	TimeoutFunc func(op Op) PolicyAction
}

func (p PolicyFunc) Yield(op Op) {
	if p.YieldFunc != nil {
		p.YieldFunc(op)
		return
	}
	runtime.Gosched()
}

func (p PolicyFunc) OnNoData(op Op) PolicyAction {
	if p.NoDataFunc != nil {
		return p.NoDataFunc(op)
	}
	return PolicyReturn
}

func (p PolicyFunc) OnTimeout(op Op) PolicyAction {
	if p.TimeoutFunc != nil {
		return p.TimeoutFunc(op)
	}
	return PolicyReturn
}

// ReturnPolicy is the simplest policy: never waits and never retries.
// It preserves the package's non-blocking semantics unchanged.
type ReturnPolicy struct{}

func (ReturnPolicy) Yield(Op) {}

func (ReturnPolicy) OnNoData(Op) PolicyAction { return PolicyReturn }

func (ReturnPolicy) OnTimeout(Op) PolicyAction { return PolicyReturn }

// YieldPolicy is a ready-to-use policy with the common mapping:
//
//   - ErrNoData: yield and retry (poll until data arrives)
//   - ErrTimeout: return immediately (a bounded wait expired for a reason)
//
// Default Yield behavior: runtime.Gosched().
type YieldPolicy struct {
	// YieldFunc is invoked before each retry. It may spin, park, sleep,
	// or run an event-loop tick.
	YieldFunc func(op Op)
}

func (p YieldPolicy) Yield(op Op) {
	if p.YieldFunc != nil {
		p.YieldFunc(op)
		return
	}
	runtime.Gosched()
}

func (YieldPolicy) OnNoData(Op) PolicyAction { return PolicyRetry }

func (YieldPolicy) OnTimeout(Op) PolicyAction { return PolicyReturn }

// BackoffPolicy retries ErrNoData on a [Backoff] cadence instead of a bare
// processor yield, the usual choice for a peer that produces messages at
// human or frame rate rather than continuously.
type BackoffPolicy struct {
	Backoff Backoff
}

func (p *BackoffPolicy) Yield(Op) { p.Backoff.Wait() }

func (*BackoffPolicy) OnNoData(Op) PolicyAction { return PolicyRetry }

func (*BackoffPolicy) OnTimeout(Op) PolicyAction { return PolicyReturn }
