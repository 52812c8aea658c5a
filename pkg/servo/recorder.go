package servo

import (
	"context"
	"sync"
)

// Write is one recorded driver command.
type Write struct {
	Channel int
	Angle   float64
}

// Recorder is an in-memory Driver. It backs the "sim" driver and tests.
type Recorder struct {
	mu     sync.Mutex
	writes []Write
	last   map[int]float64
	closed bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{last: make(map[int]float64)}
}

// SetAngle records the command.
func (r *Recorder) SetAngle(_ context.Context, channel int, angle float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, Write{Channel: channel, Angle: angle})
	r.last[channel] = angle
	return nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Writes returns a copy of every recorded command.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Write, len(r.writes))
	copy(out, r.writes)
	return out
}

// Last returns the last angle written to channel.
func (r *Recorder) Last(channel int) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.last[channel]
	return a, ok
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

// Reset forgets all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.writes = nil
	r.last = make(map[int]float64)
	r.mu.Unlock()
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
