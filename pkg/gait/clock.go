package gait

import (
	"sync"
	"time"
)

// Clock is the time source of the engine. Gaits only ever block through Sleep,
// so a fake clock runs every primitive instantly.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}

// FakeClock is a virtual clock that advances when slept on.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	slept   time.Duration
	sleeps  int
	onSleep func(d time.Duration)
}

// NewFakeClock creates a fake clock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the virtual time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances virtual time by d without blocking.
func (c *FakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	if d > 0 {
		c.now = c.now.Add(d)
		c.slept += d
	}
	c.sleeps++
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(d)
	}
}

// OnSleep registers a hook run after every Sleep. Tests use it to inject
// events (such as a stop) in the middle of a gait.
func (c *FakeClock) OnSleep(fn func(d time.Duration)) {
	c.mu.Lock()
	c.onSleep = fn
	c.mu.Unlock()
}

// Slept returns the total virtual time slept.
func (c *FakeClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}

// Sleeps returns how many times Sleep was called.
func (c *FakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}
