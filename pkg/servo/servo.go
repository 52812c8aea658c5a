package servo

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Physical angle limits in degrees.
const (
	MinAngle = 0.0
	MaxAngle = 180.0
)

// writeTimeout bounds a single driver write.
const writeTimeout = 200 * time.Millisecond

// clamp restricts v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LegServo wraps one leg actuator.
//
// Writes to an unattached leg are silent no-ops: robots with fewer legs are a
// valid configuration. Driver errors are logged and swallowed.
type LegServo struct {
	leg    Leg
	driver Driver
	log    *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	channel      int
	trim         int
	compensation int
	position     float64 // nominal angle last requested by gait code
	commanded    float64 // physical angle last sent to the driver

	limit     int // degrees per second, 0 = off
	lastWrite time.Time
}

// Option configures a LegServo.
type Option func(*LegServo)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *LegServo) { s.log = l }
}

// WithNow sets the time source used by the rate limiter. nil keeps time.Now.
func WithNow(now func() time.Time) Option {
	return func(s *LegServo) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a detached leg servo backed by driver.
func New(leg Leg, driver Driver, opts ...Option) *LegServo {
	s := &LegServo{
		leg:       leg,
		driver:    driver,
		log:       slog.Default(),
		now:       time.Now,
		channel:   Unattached,
		position:  90,
		commanded: 90,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Leg returns which leg this servo drives.
func (s *LegServo) Leg() Leg {
	return s.leg
}

// Attach binds the servo to a driver channel. Unattached (-1) detaches.
func (s *LegServo) Attach(channel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channel < 0 {
		channel = Unattached
	}
	s.channel = channel
	s.lastWrite = time.Time{}
}

// Detach releases the actuator. Subsequent writes are no-ops.
func (s *LegServo) Detach() {
	s.Attach(Unattached)
}

// Attached reports whether the servo has a channel.
func (s *LegServo) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel != Unattached
}

// Channel returns the bound channel, or Unattached.
func (s *LegServo) Channel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// SetTrim sets the permanent calibration offset in degrees.
func (s *LegServo) SetTrim(trim int) {
	s.mu.Lock()
	s.trim = trim
	s.mu.Unlock()
}

// Trim returns the calibration offset.
func (s *LegServo) Trim() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trim
}

// SetCompensation sets the per-motion bias applied on top of trim.
func (s *LegServo) SetCompensation(deg int) {
	s.mu.Lock()
	s.compensation = deg
	s.mu.Unlock()
}

// EnableLimiter caps movement to degPerSec (at least one degree per write).
func (s *LegServo) EnableLimiter(degPerSec int) {
	s.mu.Lock()
	s.limit = degPerSec
	s.mu.Unlock()
}

// DisableLimiter removes the speed cap.
func (s *LegServo) DisableLimiter() {
	s.EnableLimiter(0)
}

// Physical returns the actuator angle for nominal angle a on leg l:
// clamp(a+compensation+trim, 0, 180), reflected as 180-x on right-side legs.
func Physical(l Leg, a float64, compensation, trim int) float64 {
	angle := clamp(a+float64(compensation+trim), MinAngle, MaxAngle)
	if l.Mirrored() {
		angle = MaxAngle - angle
	}
	return angle
}

// SetPosition commands the leg to nominal angle a.
func (s *LegServo) SetPosition(a float64) {
	s.mu.Lock()
	if s.channel == Unattached {
		s.mu.Unlock()
		return
	}

	target := Physical(s.leg, a, s.compensation, s.trim)
	target = s.limitLocked(target)
	s.position = a
	s.commanded = target
	channel := s.channel
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.driver.SetAngle(ctx, channel, target); err != nil {
		s.log.Warn("⚠️ servo write failed", "leg", s.leg.String(), "channel", channel, "angle", target, "error", err)
	}
}

// limitLocked applies the rate limiter to a physical target.
func (s *LegServo) limitLocked(target float64) float64 {
	now := s.now()
	last := s.lastWrite
	s.lastWrite = now
	if s.limit <= 0 || last.IsZero() {
		return target
	}

	step := math.Max(1, float64(now.Sub(last).Milliseconds())*float64(s.limit)/1000)
	diff := target - s.commanded
	if math.Abs(diff) <= step {
		return target
	}
	if diff < 0 {
		return s.commanded - step
	}
	return s.commanded + step
}

// Position returns the nominal angle last requested.
func (s *LegServo) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Commanded returns the physical angle last sent to the driver.
func (s *LegServo) Commanded() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commanded
}
