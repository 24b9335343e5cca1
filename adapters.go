// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import "io"

// A write [Endpoint] already satisfies io.Writer and io.Closer: Write has the
// standard signature and partial writes follow the standard contract. The
// read side differs (Read() returns the endpoint's owned result), so Reader
// bridges it for code written against the standard interfaces.

// Reader returns an io.ReadCloser view of a read endpoint.
//
// Each underlying transfer is drained across as many Read calls as the
// caller's buffer needs. The non-blocking semantic passes through unchanged:
// with nothing buffered and nothing queued, Read returns (0, ErrNoData), so
// callers keep classifying with [IsNoData] / [IsNonFailure]. Close closes
// the endpoint (idempotently); Release stays the owner's job.
func (e *Endpoint) Reader() io.ReadCloser {
	return &endpointReader{e: e}
}

type endpointReader struct {
	e       *Endpoint
	pending []byte
}

func (r *endpointReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.pending) == 0 {
		b, err := r.e.Read()
		if err != nil {
			return 0, err
		}
		r.pending = b
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *endpointReader) Close() error { return r.e.Close() }
