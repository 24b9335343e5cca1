// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import (
	"math/rand/v2"
	"time"
)

const (
	// DefaultPollBase is the tuned base duration between polls of a pipe
	// that reported no data (1ms, the expected scale of a local peer
	// producing its next message).
	DefaultPollBase = time.Millisecond

	// DefaultPollMax is the default ceiling for one poll interval (250ms).
	DefaultPollMax = 250 * time.Millisecond
)

// Backoff implements a linear block-based back-off with jitter, designed for
// polling a read endpoint past an ErrNoData boundary.
//
// Zero-value is ready to use: a freshly declared Backoff{} polls at
// DefaultPollBase growing toward DefaultPollMax.
//
// The algorithm groups waits into blocks: in block n it performs n sleeps of
// duration base × n, capped at max. Jitter (±12.5%) is applied so many
// pollers against the same server do not wake in lockstep.
type Backoff struct {
	n    int // block counter (1-indexed)
	i    int // wait within the current block
	base time.Duration
	max  time.Duration
}

// Wait sleeps for the current interval and advances the progression.
func (b *Backoff) Wait() {
	time.Sleep(jitter(b.next()))
	b.i++
	if b.i >= b.n {
		b.i = 0
		b.n++
	}
}

// next returns the unjittered interval for the current block, initializing
// defaults on first use.
func (b *Backoff) next() time.Duration {
	if b.n == 0 {
		b.n = 1
		if b.base <= 0 {
			b.base = DefaultPollBase
		}
		if b.max <= 0 {
			b.max = DefaultPollMax
		}
	}
	d := time.Duration(b.n) * b.base
	if d > b.max {
		d = b.max
	}
	return d
}

func jitter(d time.Duration) time.Duration {
	// ±12.5%
	f := int64(d) / 8
	if f <= 0 {
		return d
	}
	return d + time.Duration(rand.Int64N(2*f)-f)
}

// SetBase configures the initial interval and linear scaling factor.
func (b *Backoff) SetBase(d time.Duration) { b.base = d }

// SetMax configures the maximum allowed interval.
func (b *Backoff) SetMax(d time.Duration) { b.max = d }

// Reset restores the progression to block 1, for reuse after data arrived.
func (b *Backoff) Reset() { b.n = 0; b.i = 0 }

// Block returns the current progression block.
func (b *Backoff) Block() int {
	if b.n == 0 {
		return 1
	}
	return b.n
}

// Duration returns the current interval without jitter. For a zero-value
// Backoff it returns DefaultPollBase.
func (b *Backoff) Duration() time.Duration {
	n := b.n
	if n == 0 {
		n = 1
	}
	base := b.base
	if base <= 0 {
		base = DefaultPollBase
	}
	d := time.Duration(n) * base
	max := b.max
	if max <= 0 {
		max = DefaultPollMax
	}
	if d > max {
		return max
	}
	return d
}
