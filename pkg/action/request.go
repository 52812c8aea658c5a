package action

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/teslashibe/go-kiki/pkg/emotions"
)

// Parameter limits accepted on the queue.
const (
	MaxSteps = 20
	MaxSpeed = 10000
)

// Request is one queued motion command. It is passed by value and consumed
// exactly once by the executor.
type Request struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Steps     int            `json:"steps"`
	Speed     int            `json:"speed"`
	Direction int            `json:"direction,omitempty"`
	Amount    int            `json:"amount,omitempty"`
	Emotion   emotions.Label `json:"emotion,omitempty"`
}

// NewRequest creates a request with a fresh ID.
func NewRequest(kind Kind, steps, speed int) Request {
	return Request{
		ID:    uuid.NewString(),
		Kind:  kind,
		Steps: steps,
		Speed: speed,
	}
}

// WithDirection returns a copy of r with direction set.
func (r Request) WithDirection(dir int) Request {
	r.Direction = dir
	return r
}

// EmotionRequest creates a queued display change.
func EmotionRequest(label emotions.Label) Request {
	r := NewRequest(KindEmotion, 0, 0)
	r.Emotion = label
	return r
}

// Validate checks that r can be queued.
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}
	if !r.Kind.Queueable() {
		return fmt.Errorf("%w: %s cannot be queued", ErrInvalidParam, r.Kind)
	}
	if r.Steps < 0 || r.Steps > MaxSteps {
		return fmt.Errorf("%w: steps %d outside 0..%d", ErrInvalidParam, r.Steps, MaxSteps)
	}
	if r.Speed < 0 || r.Speed > MaxSpeed {
		return fmt.Errorf("%w: speed %d outside 0..%d", ErrInvalidParam, r.Speed, MaxSpeed)
	}
	if r.Direction < -1 || r.Direction > 1 {
		return fmt.Errorf("%w: direction %d outside -1..1", ErrInvalidParam, r.Direction)
	}
	if r.Kind == KindEmotion {
		if _, err := emotions.Parse(string(r.Emotion)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
	}
	return nil
}

// String formats the request for logs.
func (r Request) String() string {
	if r.Kind == KindEmotion {
		return fmt.Sprintf("%s(%s)", r.Kind, r.Emotion)
	}
	return fmt.Sprintf("%s(%d,%d)", r.Kind, r.Steps, r.Speed)
}
