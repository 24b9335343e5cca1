// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// countingPolicy retries everything and records each yield.
type countingPolicy struct {
	yields []Op
}

func (p *countingPolicy) Yield(op Op) { p.yields = append(p.yields, op) }

func (p *countingPolicy) OnNoData(Op) PolicyAction { return PolicyRetry }

func (p *countingPolicy) OnTimeout(Op) PolicyAction { return PolicyRetry }

func TestReadWait_NilPolicyPassesThrough(t *testing.T) {
	f := &fakeDriver{steps: []fakeStep{{d: DispositionFailed, err: ErrNoData}}}
	e := newTestEndpoint(DirectionRead, f)
	if _, err := ReadWait(e, nil); !IsNoData(err) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if f.next != 1 {
		t.Fatalf("driver issued %d times, want 1", f.next)
	}
}

func TestReadWait_RetriesUntilData(t *testing.T) {
	f := &fakeDriver{steps: []fakeStep{
		{d: DispositionFailed, err: ErrNoData},
		{d: DispositionFailed, err: ErrNoData},
		{d: DispositionDone, n: 4, data: []byte("ping")},
	}}
	e := newTestEndpoint(DirectionRead, f)
	p := &countingPolicy{}

	got, err := ReadWait(e, p)
	if err != nil || !bytes.Equal(got, []byte("ping")) {
		t.Fatalf("ReadWait = %q, %v; want ping, nil", got, err)
	}
	if len(p.yields) != 2 {
		t.Fatalf("yields = %d, want 2", len(p.yields))
	}
	for _, op := range p.yields {
		if op != OpRead {
			t.Fatalf("yielded op = %v, want OpRead", op)
		}
	}
}

func TestReadWait_ReturnPolicyStopsImmediately(t *testing.T) {
	f := &fakeDriver{steps: []fakeStep{{d: DispositionFailed, err: ErrNoData}}}
	e := newTestEndpoint(DirectionRead, f)
	if _, err := ReadWait(e, ReturnPolicy{}); !IsNoData(err) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestReadWait_TerminalFailureIgnoresPolicy(t *testing.T) {
	cause := errors.New("pipe ended")
	f := &fakeDriver{steps: []fakeStep{{d: DispositionFailed, err: cause}}}
	e := newTestEndpoint(DirectionRead, f)
	p := &countingPolicy{}
	if _, err := ReadWait(e, p); !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if len(p.yields) != 0 {
		t.Fatalf("policy consulted for a terminal failure")
	}
}

func TestWriteFull_ReissuesAfterPartialProgress(t *testing.T) {
	f := &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2},
		{d: DispositionDone, n: 2},
	}}
	e := newTestEndpoint(DirectionWrite, f)

	n, err := WriteFull(e, []byte("ping"), nil)
	if err != nil || n != 4 {
		t.Fatalf("WriteFull = %d, %v; want 4, nil", n, err)
	}
	if len(f.writes) != 2 || !bytes.Equal(f.writes[1], []byte("ng")) {
		t.Fatalf("second issue wrote %q, want the remaining \"ng\"", f.writes)
	}
}

func TestWriteFull_ZeroProgress(t *testing.T) {
	t.Run("NilPolicyStops", func(t *testing.T) {
		f := &fakeDriver{steps: []fakeStep{
			{d: DispositionDone, n: 2},
			{d: DispositionDone, n: 0},
		}}
		e := newTestEndpoint(DirectionWrite, f)
		n, err := WriteFull(e, []byte("ping"), nil)
		if n != 2 || !IsNoData(err) {
			t.Fatalf("WriteFull = %d, %v; want 2, ErrNoData", n, err)
		}
	})

	t.Run("RetryPolicyFinishes", func(t *testing.T) {
		f := &fakeDriver{steps: []fakeStep{
			{d: DispositionDone, n: 0},
			{d: DispositionDone, n: 4},
		}}
		e := newTestEndpoint(DirectionWrite, f)
		p := &countingPolicy{}
		n, err := WriteFull(e, []byte("ping"), p)
		if err != nil || n != 4 {
			t.Fatalf("WriteFull = %d, %v; want 4, nil", n, err)
		}
		if len(p.yields) != 1 || p.yields[0] != OpWrite {
			t.Fatalf("yields = %v, want one OpWrite", p.yields)
		}
	})
}

func TestRelay_MovesBytesUntilDry(t *testing.T) {
	src := newTestEndpoint(DirectionRead, &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2, data: []byte("pi")},
		{d: DispositionDone, n: 2, data: []byte("ng")},
		{d: DispositionFailed, err: ErrNoData},
	}})
	sink := &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2},
		{d: DispositionDone, n: 2},
	}}
	dst := newTestEndpoint(DirectionWrite, sink)

	moved, err := Relay(dst, src, ReturnPolicy{})
	if moved != 4 || !IsNoData(err) {
		t.Fatalf("Relay = %d, %v; want 4, ErrNoData", moved, err)
	}
	if got := bytes.Join(sink.writes, nil); !bytes.Equal(got, []byte("ping")) {
		t.Fatalf("sink received %q, want %q", got, "ping")
	}
}

func TestRelay_NilPolicyDefaultsToReturn(t *testing.T) {
	src := newTestEndpoint(DirectionRead, &fakeDriver{steps: []fakeStep{
		{d: DispositionFailed, err: ErrNoData},
	}})
	dst := newTestEndpoint(DirectionWrite, &fakeDriver{})
	moved, err := Relay(dst, src, nil)
	if moved != 0 || !IsNoData(err) {
		t.Fatalf("Relay = %d, %v; want 0, ErrNoData", moved, err)
	}
}

func TestRelay_SinkStall(t *testing.T) {
	src := newTestEndpoint(DirectionRead, &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 4, data: []byte("ping")},
	}})
	dst := newTestEndpoint(DirectionWrite, &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2},
		{d: DispositionDone, n: 0},
	}})

	moved, err := Relay(dst, src, ReturnPolicy{})
	if moved != 2 || !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("Relay = %d, %v; want 2, io.ErrShortWrite", moved, err)
	}
}

func TestRelay_SourceFailurePropagates(t *testing.T) {
	cause := errors.New("pipe ended")
	src := newTestEndpoint(DirectionRead, &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2, data: []byte("pi")},
		{d: DispositionFailed, err: cause},
	}})
	dst := newTestEndpoint(DirectionWrite, &fakeDriver{steps: []fakeStep{
		{d: DispositionDone, n: 2},
	}})

	moved, err := Relay(dst, src, ReturnPolicy{})
	if moved != 2 || !errors.Is(err, ErrIO) {
		t.Fatalf("Relay = %d, %v; want 2, ErrIO", moved, err)
	}
}
