// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !windows

package npipe

import "errors"

// Named pipes of the form this package opens are a Windows facility. Other
// platforms compile (so the semantics, policies, and helpers stay usable in
// portable code and tests) but cannot acquire a handle.
func openSysDriver(name string, _ Direction) (opDriver, error) {
	return nil, newOpError("open", name, ErrOpenFailed, errors.ErrUnsupported)
}

func platformCode(error) uint32 { return 0 }
