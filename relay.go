// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import "io"

// ReadWait reads from e, consulting policy when the pipe reports no data or
// a bounded wait expires. With a nil policy it is identical to e.Read().
//
// A PolicyRetry decision calls policy.Yield(OpRead) and reissues the read;
// PolicyReturn hands the semantic error back unchanged. Terminal failures
// are returned immediately regardless of policy.
func ReadWait(e *Endpoint, policy RetryPolicy) ([]byte, error) {
	if policy == nil {
		return e.Read()
	}
	for {
		b, err := e.Read()
		switch {
		case err == nil:
			return b, nil
		case IsNoData(err):
			if policy.OnNoData(OpRead) == PolicyRetry {
				policy.Yield(OpRead)
				continue
			}
			return nil, err
		case IsTimeout(err):
			if policy.OnTimeout(OpRead) == PolicyRetry {
				policy.Yield(OpRead)
				continue
			}
			return nil, err
		default:
			return nil, err
		}
	}
}

// WriteFull writes all of p to e, reissuing after partial acceptance.
//
// A write that accepts zero bytes without failing (a no-wait pipe with a
// full buffer) is surfaced through policy as a no-data-style boundary:
// PolicyRetry yields and reissues, PolicyReturn stops with the bytes written
// so far and ErrNoData. A nil policy never retries zero progress.
//
// This is deliberately a helper above the core: Endpoint.Write itself always
// surfaces partial writes and never retries.
func WriteFull(e *Endpoint, p []byte, policy RetryPolicy) (int, error) {
	written := 0
	for written < len(p) {
		n, err := e.Write(p[written:])
		written += n
		if err != nil {
			if IsTimeout(err) && policy != nil && policy.OnTimeout(OpWrite) == PolicyRetry {
				policy.Yield(OpWrite)
				continue
			}
			return written, err
		}
		if n == 0 {
			if policy != nil && policy.OnNoData(OpWrite) == PolicyRetry {
				policy.Yield(OpWrite)
				continue
			}
			return written, ErrNoData
		}
	}
	return written, nil
}

// Relay pumps bytes from a read endpoint to a write endpoint until the
// source reports no data with a returning policy, either side fails, or the
// sink stops accepting bytes.
//
// Semantic boundaries are consulted per side: the source's ErrNoData goes
// through policy as OpRelayRead, the sink's zero-progress writes as
// OpRelayWrite. On a PolicyReturn decision Relay stops with the count moved
// so far and ErrNoData, so the caller can distinguish "drained for now"
// from a terminal failure with [IsNoData].
//
// Bytes read are always pushed to dst before Relay returns; a sink that
// stops mid-chunk with PolicyReturn surfaces io.ErrShortWrite.
func Relay(dst, src *Endpoint, policy RetryPolicy) (int64, error) {
	if policy == nil {
		policy = ReturnPolicy{}
	}
	var moved int64
	for {
		b, err := src.Read()
		if err != nil {
			switch {
			case IsNoData(err):
				if policy.OnNoData(OpRelayRead) == PolicyRetry {
					policy.Yield(OpRelayRead)
					continue
				}
				return moved, ErrNoData
			case IsTimeout(err):
				if policy.OnTimeout(OpRelayRead) == PolicyRetry {
					policy.Yield(OpRelayRead)
					continue
				}
				return moved, err
			default:
				return moved, err
			}
		}

		off := 0
		for off < len(b) {
			n, werr := dst.Write(b[off:])
			off += n
			moved += int64(n)
			if werr != nil {
				if IsTimeout(werr) && policy.OnTimeout(OpRelayWrite) == PolicyRetry {
					policy.Yield(OpRelayWrite)
					continue
				}
				return moved, werr
			}
			if n == 0 {
				if policy.OnNoData(OpRelayWrite) == PolicyRetry {
					policy.Yield(OpRelayWrite)
					continue
				}
				return moved, io.ErrShortWrite
			}
		}
	}
}
