// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package npipe

import (
	"fmt"
	"strings"
)

// Direction is the one transfer direction an endpoint supports. It is fixed
// at open time and immutable for the endpoint's life; a pipe pair that needs
// both directions uses two endpoints.
type Direction uint8

const (
	// DirectionRead opens the client side for reading and peeking.
	DirectionRead Direction = iota + 1
	// DirectionWrite opens the client side for writing.
	DirectionWrite
)

func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "read"
	case DirectionWrite:
		return "write"
	default:
		return "Direction(invalid)"
	}
}

func (d Direction) valid() bool {
	return d == DirectionRead || d == DirectionWrite
}

// ParseDirection maps a host-facing mode string to a Direction. Accepted,
// case-insensitively: "r", "read", "w", "write". Anything else fails with
// ErrInvalidArgument.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "r", "read":
		return DirectionRead, nil
	case "w", "write":
		return DirectionWrite, nil
	default:
		return 0, &OpError{Op: "open", Kind: ErrInvalidArgument, Err: fmt.Errorf("direction %q", s)}
	}
}
