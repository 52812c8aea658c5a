// Package action holds the motion command queue and the executor that
// drains it.
//
// Producers turn commands into Requests and enqueue them; a single Executor
// dequeues and runs them one at a time against the gait engine, and tracks
// idle time to rest the dog and rotate idle emotions when nothing arrives.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a motion primitive.
type Kind int

// Action kinds. Values are stable and appear in logs and the HTTP API.
const (
	KindWalk Kind = iota + 1
	KindWalkBack
	KindTurnLeft
	KindTurnRight
	KindSit
	KindLie
	KindJump
	KindBow
	KindDance
	KindWaveRightFoot
	KindDance4Feet
	KindSwing
	KindStretch
	KindScratch
	KindLegacyWalk
	KindLegacyTurn
	KindLegacyJump
	KindLegacyBend
	KindHome
	KindDelay
	KindHappyJump
	KindStop
	KindEmotion
)

var kindNames = map[Kind]string{
	KindWalk:          "walk_forward",
	KindWalkBack:      "walk_backward",
	KindTurnLeft:      "turn_left",
	KindTurnRight:     "turn_right",
	KindSit:           "sit_down",
	KindLie:           "lie_down",
	KindJump:          "jump",
	KindBow:           "bow",
	KindDance:         "dance",
	KindWaveRightFoot: "wave_right_foot",
	KindDance4Feet:    "dance_4_feet",
	KindSwing:         "swing",
	KindStretch:       "stretch",
	KindScratch:       "scratch",
	KindLegacyWalk:    "legacy_walk",
	KindLegacyTurn:    "legacy_turn",
	KindLegacyJump:    "legacy_jump",
	KindLegacyBend:    "legacy_bend",
	KindHome:          "home",
	KindDelay:         "delay",
	KindHappyJump:     "happy_jump",
	KindStop:          "stop",
	KindEmotion:       "emotion",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Queueable reports whether k can be placed on the queue. Stop is handled
// by the controller and never queued.
func (k Kind) Queueable() bool {
	return k.Valid() && k != KindStop
}

// ParseKind resolves a kind from its name or number.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if k := Kind(n); k.Valid() {
			return k, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, n)
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every queueable kind in numeric order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindWalk; k <= KindEmotion; k++ {
		if k.Queueable() {
			out = append(out, k)
		}
	}
	return out
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name or number.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
