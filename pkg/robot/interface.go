// Package robot composes the dog: gait engine, action queue and executor,
// emotion display, touch sensor and calibration.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use.
package robot

import (
	"context"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

// FastPath runs motions immediately on the gait engine, bypassing the queue.
// Calls block until the motion completes.
type FastPath interface {
	Do(ctx context.Context, r action.Request, mood emotions.Label) error
	RunSequence(ctx context.Context, name string) error
	TestServo(ctx context.Context, leg servo.Leg, angle int) error
}

// QueuedPath places motions on the action queue and returns once accepted.
type QueuedPath interface {
	Enqueue(ctx context.Context, r action.Request) (action.Request, error)
	QueueSequence(ctx context.Context, name string) ([]action.Request, error)
	QueueCommand(ctx context.Context, name string, p1, p2 int) ([]action.Request, error)
}

// Stopper flushes pending motions and returns the dog home.
type Stopper interface {
	Stop() error
}

// DisplayController drives the emotion display.
type DisplayController interface {
	SetEmotion(name string) error
	SetEmojiMode(mode string) error
}

// TouchController enables the touch sensor and delivers touches.
type TouchController interface {
	SetTouchEnabled(enabled bool)
	TouchEnabled() bool
	Touch(ctx context.Context) error
}

// TrimController reads and writes leg calibration.
type TrimController interface {
	Trims() settings.Trims
	SetTrims(t settings.Trims) error
}

// StatusReporter reports the controller state.
type StatusReporter interface {
	Status() Status
}

// EventSource delivers controller events to subscribers.
type EventSource interface {
	Subscribe(fn func(Event))
}

// Kiki is the composite interface used by the command surfaces.
type Kiki interface {
	FastPath
	QueuedPath
	Stopper
	DisplayController
	TouchController
	TrimController
	StatusReporter
	EventSource
}

// Ensure Controller implements Kiki
var _ Kiki = (*Controller)(nil)
