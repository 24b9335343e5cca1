// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package npipe

import (
	"errors"
	"time"

	"golang.org/x/sys/windows"
)

// winDriver backs one endpoint with Win32 overlapped pipe I/O: a pipe handle
// opened FILE_FLAG_OVERLAPPED plus one OVERLAPPED descriptor whose manual-
// reset event is the completion context's wait primitive.
type winDriver struct {
	handle windows.Handle
	ov     windows.Overlapped
}

// openSysDriver acquires a client handle on an existing pipe, then the
// completion event. Acquisition is strictly ordered so every failure exit
// releases exactly what was acquired: a CreateFile failure allocates
// nothing, an event failure closes the handle before returning.
func openSysDriver(name string, dir Direction) (opDriver, error) {
	path, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, newOpError("open", name, ErrInvalidArgument, err)
	}
	// Read endpoints additionally request attribute-write rights: the
	// no-wait mode adjustment is SetNamedPipeHandleState, which is denied
	// on a handle holding GENERIC_READ alone.
	access := uint32(windows.GENERIC_READ | windows.FILE_WRITE_ATTRIBUTES)
	if dir == DirectionWrite {
		access = windows.GENERIC_WRITE
	}
	// Exclusive (no sharing), existing pipe only, overlapped-capable.
	h, err := windows.CreateFile(path, access, 0, nil,
		windows.OPEN_EXISTING, windows.FILE_FLAG_OVERLAPPED, 0)
	if err != nil {
		return nil, newOpError("open", name, ErrOpenFailed, err)
	}
	// Manual-reset, initially unsignaled: the event outlives each wait and
	// is rearmed per operation.
	ev, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		_ = windows.CloseHandle(h)
		return nil, newOpError("open", name, ErrResourceExhausted, err)
	}
	d := &winDriver{handle: h}
	d.ov.HEvent = ev
	return d, nil
}

func (d *winDriver) Arm() error {
	d.ov.Internal = 0
	d.ov.InternalHigh = 0
	d.ov.Offset = 0
	d.ov.OffsetHigh = 0
	return windows.ResetEvent(d.ov.HEvent)
}

func (d *winDriver) IssueRead(buf []byte) (Disposition, int, error) {
	var done uint32
	err := windows.ReadFile(d.handle, buf, &done, &d.ov)
	if err == nil {
		return DispositionDone, int(done), nil
	}
	switch err {
	case windows.ERROR_IO_PENDING:
		return DispositionPending, 0, nil
	case windows.ERROR_NO_DATA:
		// PIPE_NOWAIT read against an empty pipe.
		return DispositionFailed, 0, ErrNoData
	}
	return DispositionFailed, 0, err
}

func (d *winDriver) IssueWrite(data []byte) (Disposition, int, error) {
	var done uint32
	err := windows.WriteFile(d.handle, data, &done, &d.ov)
	if err == nil {
		return DispositionDone, int(done), nil
	}
	if err == windows.ERROR_IO_PENDING {
		return DispositionPending, 0, nil
	}
	// ERROR_NO_DATA on the write side means the pipe is being closed;
	// that is terminal here, not a no-data signal.
	return DispositionFailed, 0, err
}

func (d *winDriver) Await(timeout time.Duration) (int, error) {
	var done uint32
	if timeout <= 0 {
		if err := windows.GetOverlappedResult(d.handle, &d.ov, &done, true); err != nil {
			return int(done), err
		}
		return int(done), nil
	}

	ms := uint32(timeout / time.Millisecond)
	if ms == 0 {
		ms = 1
	}
	s, err := windows.WaitForSingleObject(d.ov.HEvent, ms)
	switch s {
	case windows.WAIT_OBJECT_0:
		if err := windows.GetOverlappedResult(d.handle, &d.ov, &done, false); err != nil {
			return int(done), err
		}
		return int(done), nil
	case uint32(windows.WAIT_TIMEOUT):
		// Cancel and drain so the completion slot is safe to rearm; the
		// kernel may still be writing into the OVERLAPPED until then.
		_ = windows.CancelIoEx(d.handle, &d.ov)
		_ = windows.GetOverlappedResult(d.handle, &d.ov, &done, true)
		return 0, ErrTimeout
	default:
		if err == nil {
			err = windows.ERROR_GEN_FAILURE
		}
		return 0, err
	}
}

func (d *winDriver) Peek() (int, error) {
	var avail uint32
	if err := windows.PeekNamedPipe(d.handle, nil, 0, nil, &avail, nil); err != nil {
		return 0, err
	}
	return int(avail), nil
}

func (d *winDriver) AdjustMode() error {
	mode := uint32(windows.PIPE_READMODE_MESSAGE | windows.PIPE_NOWAIT)
	return windows.SetNamedPipeHandleState(d.handle, &mode, nil, nil)
}

func (d *winDriver) CloseHandle() error {
	if d.handle == windows.InvalidHandle {
		return nil
	}
	h := d.handle
	d.handle = windows.InvalidHandle
	return windows.CloseHandle(h)
}

func (d *winDriver) ReleaseWait() error {
	if d.ov.HEvent == 0 {
		return nil
	}
	ev := d.ov.HEvent
	d.ov.HEvent = 0
	return windows.CloseHandle(ev)
}

func (d *winDriver) Identity() uintptr { return uintptr(d.handle) }

// platformCode extracts the Win32 failure code carried by err, or zero when
// err holds none.
func platformCode(err error) uint32 {
	var errno windows.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
