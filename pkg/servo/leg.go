// Package servo drives the four leg actuators of the dog.
//
// A LegServo applies trim, per-motion compensation, clamping and right-side
// mirroring before handing a physical angle to a Driver. Gait code can then be
// written as if all four legs moved symmetrically.
package servo

import (
	"fmt"
	"strings"
)

// Leg identifies one of the four legs.
type Leg int

// Legs in channel order.
const (
	LeftFront Leg = iota
	RightFront
	LeftBack
	RightBack
)

// Count is the number of legs.
const Count = 4

// Unattached is the channel value of a leg with no actuator.
const Unattached = -1

// Legs returns all legs in channel order.
func Legs() [Count]Leg {
	return [Count]Leg{LeftFront, RightFront, LeftBack, RightBack}
}

// String returns the short leg name (LF, RF, LB, RB).
func (l Leg) String() string {
	switch l {
	case LeftFront:
		return "LF"
	case RightFront:
		return "RF"
	case LeftBack:
		return "LB"
	case RightBack:
		return "RB"
	default:
		return fmt.Sprintf("Leg(%d)", int(l))
	}
}

// Valid reports whether l names one of the four legs.
func (l Leg) Valid() bool {
	return l >= LeftFront && l <= RightBack
}

// Mirrored reports whether the leg is on the right side, whose angles are reflected.
func (l Leg) Mirrored() bool {
	return l == RightFront || l == RightBack
}

// ParseLeg accepts a short name (lf), a long name (left_front) or an index (0-3).
func ParseLeg(s string) (Leg, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "left_front", "0":
		return LeftFront, nil
	case "rf", "right_front", "1":
		return RightFront, nil
	case "lb", "left_back", "2":
		return LeftBack, nil
	case "rb", "right_back", "3":
		return RightBack, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLeg, s)
}
