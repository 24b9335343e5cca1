// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

// Outcome classifies an operation result for callers that prefer a compact
// switch over a chain of predicates.
//
// OutcomeOK:      success; data (or the requested count) was delivered.
// OutcomeNoData:  zero bytes queued right now; poll again later.
// OutcomeTimeout: the bounded completion wait expired; the endpoint is
//                 still usable.
// OutcomeFailure: any other error.
type Outcome uint8

const (
	OutcomeFailure Outcome = iota
	OutcomeOK
	OutcomeNoData
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeNoData:
		return "NoData"
	case OutcomeTimeout:
		return "Timeout"
	default:
		return "Failure"
	}
}

// IsSemantic reports whether err is one of npipe's control-flow signals:
// ErrNoData or ErrTimeout (including wrapped forms).
func IsSemantic(err error) bool { return IsNoData(err) || IsTimeout(err) }

// IsNonFailure reports whether err should be treated as a non-failure in
// polling control flow: nil, ErrNoData, or ErrTimeout.
//
// Typical usage: decide whether to keep an endpoint alive without logging an
// error or tearing it down.
func IsNonFailure(err error) bool { return err == nil || IsSemantic(err) }

// Classify maps err to an Outcome.
//
// Note: classification depends solely on the error value the caller passes;
// standard library sentinels are not reinterpreted.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if IsNoData(err) {
		return OutcomeNoData
	}
	if IsTimeout(err) {
		return OutcomeTimeout
	}
	return OutcomeFailure
}
