package gait

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-kiki/pkg/servo"
)

// waitSlice bounds how long a single wait can run before re-checking for an interrupt.
const waitSlice = 50 * time.Millisecond

// Config configures an Engine.
type Config struct {
	Clock  Clock
	Logger *slog.Logger
}

// Engine owns the four leg servos and runs one primitive at a time.
//
// The fast path and the action executor share one Engine; the engine lock
// guarantees that their servo writes never interleave.
type Engine struct {
	mu    sync.Mutex
	legs  [servo.Count]*servo.LegServo
	clock Clock
	log   *slog.Logger

	interrupted atomic.Bool
	resting     atomic.Bool
	running     atomic.Value // string: name of the running primitive
}

// New creates an engine over attached leg servos.
func New(legs [servo.Count]*servo.LegServo, cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	e := &Engine{
		legs:  legs,
		clock: cfg.Clock,
		log:   cfg.Logger,
	}
	e.running.Store("")
	return e
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock {
	return e.clock
}

// run executes a primitive under the engine lock.
func (e *Engine) run(name string, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running.Store(name)
	defer e.running.Store("")
	fn()
}

// Interrupt stops the running primitive at its next phase boundary, waits
// for it to return, then runs fn with the engine exclusively held.
// Primitives that start while an interrupt is pending return immediately.
func (e *Engine) Interrupt(fn func()) {
	e.interrupted.Store(true)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interrupted.Store(false)
	if fn != nil {
		e.running.Store("interrupt")
		defer e.running.Store("")
		fn()
	}
}

// Halt interrupts the running primitive and stands the robot up.
func (e *Engine) Halt() {
	e.Interrupt(e.standUp)
}

// halted reports whether the current primitive should bail out.
func (e *Engine) halted() bool {
	return e.interrupted.Load()
}

// Running returns the name of the running primitive, or "".
func (e *Engine) Running() string {
	return e.running.Load().(string)
}

// Resting reports whether the robot was left standing at rest.
func (e *Engine) Resting() bool {
	return e.resting.Load()
}

// ============================================================
// Low-level servo helpers (caller holds e.mu)
// ============================================================

// write sets one leg without waiting.
func (e *Engine) write(leg servo.Leg, angle float64) {
	if !leg.Valid() || e.halted() {
		return
	}
	if s := e.legs[leg]; s != nil {
		s.SetPosition(angle)
	}
}

// wait sleeps for d unless interrupted.
func (e *Engine) wait(d time.Duration) {
	for d > 0 && !e.halted() {
		slice := d
		if slice > waitSlice {
			slice = waitSlice
		}
		e.clock.Sleep(slice)
		d -= slice
	}
}

// waitMs sleeps for ms milliseconds.
func (e *Engine) waitMs(ms int) {
	e.wait(time.Duration(ms) * time.Millisecond)
}

// set writes one leg then waits delay milliseconds.
func (e *Engine) set(leg servo.Leg, angle float64, delay int) {
	e.write(leg, angle)
	e.waitMs(delay)
}

// pose writes LF, RF, LB without delay then RB followed by delay milliseconds.
func (e *Engine) pose(lf, rf, lb, rb float64, delay int) {
	e.set(servo.LeftFront, lf, 0)
	e.set(servo.RightFront, rf, 0)
	e.set(servo.LeftBack, lb, 0)
	e.set(servo.RightBack, rb, delay)
}

// writeAll sets every leg of p.
func (e *Engine) writeAll(p Pose) {
	for _, leg := range servo.Legs() {
		e.write(leg, p[leg])
	}
}

// ============================================================
// Pose queries and calibration
// ============================================================

// Positions returns the nominal angle of every leg.
func (e *Engine) Positions() Pose {
	var p Pose
	for _, leg := range servo.Legs() {
		if s := e.legs[leg]; s != nil {
			p[leg] = s.Position()
		}
	}
	return p
}

// Commanded returns the physical angle last sent to every leg.
func (e *Engine) Commanded() Pose {
	var p Pose
	for _, leg := range servo.Legs() {
		if s := e.legs[leg]; s != nil {
			p[leg] = s.Commanded()
		}
	}
	return p
}

// SetTrims applies calibration offsets in LF, RF, LB, RB order.
func (e *Engine) SetTrims(trims [servo.Count]int) {
	for _, leg := range servo.Legs() {
		if s := e.legs[leg]; s != nil {
			s.SetTrim(trims[leg])
		}
	}
}

// Trims returns the calibration offsets in LF, RF, LB, RB order.
func (e *Engine) Trims() [servo.Count]int {
	var t [servo.Count]int
	for _, leg := range servo.Legs() {
		if s := e.legs[leg]; s != nil {
			t[leg] = s.Trim()
		}
	}
	return t
}

// EnableLimiter caps every attached leg to degPerSec.
func (e *Engine) EnableLimiter(degPerSec int) {
	for _, s := range e.legs {
		if s != nil && s.Attached() {
			s.EnableLimiter(degPerSec)
		}
	}
}

// DisableLimiter removes the speed cap from every leg.
func (e *Engine) DisableLimiter() {
	for _, s := range e.legs {
		if s != nil {
			s.DisableLimiter()
		}
	}
}

// ============================================================
// Direct moves
// ============================================================

// SetAngle moves a single leg and holds for hold milliseconds.
func (e *Engine) SetAngle(leg servo.Leg, angle float64, hold int) {
	e.run("set_angle", func() {
		e.log.Debug("set angle", "leg", leg.String(), "angle", angle)
		e.set(leg, angle, hold)
	})
}

// Wait holds the current pose for ms milliseconds.
func (e *Engine) Wait(ms int) {
	e.run("delay", func() {
		e.waitMs(ms)
	})
}

// MoveToPosition moves all legs to target over d, interpolating every 10ms
// when d is longer than one tick.
func (e *Engine) MoveToPosition(target Pose, d time.Duration) {
	e.run("move_to_position", func() {
		e.moveTo(target, d)
	})
}

func (e *Engine) moveTo(target Pose, d time.Duration) {
	e.resting.Store(false)

	traj := NewTrajectory(e.Positions(), target, d)
	if traj.Smooth() {
		steps := traj.Steps()
		for _, p := range steps[:len(steps)-1] {
			if e.halted() {
				return
			}
			e.writeAll(p)
			e.wait(tick)
		}
	} else {
		e.writeAll(target)
		e.wait(d)
	}
	e.writeAll(target)
}

// ============================================================
// Home
// ============================================================

// Home stands the robot up at 90° on every leg.
func (e *Engine) Home() {
	e.run("home", e.standUp)
}

// StandUp is an alias of Home.
func (e *Engine) StandUp() {
	e.Home()
}

func (e *Engine) standUp() {
	e.pose(90, 90, 90, 90, 0)
	e.waitMs(500)
	if e.halted() {
		return
	}
	e.resting.Store(true)
	e.waitMs(200)
}
