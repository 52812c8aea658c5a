// Package gait is the dog's motion primitive library.
//
// Every primitive is a fixed table of four-leg angle sets interleaved with
// timed delays, ending in a documented pose (standing at 90° unless noted).
// Primitives run one at a time on an Engine and can be interrupted between
// phases.
package gait

import (
	"math"
	"time"

	"github.com/teslashibe/go-kiki/pkg/servo"
)

// Pose is a nominal angle for each leg, indexed by servo.Leg.
type Pose [servo.Count]float64

// Stand is the home/resting pose.
var Stand = Pose{90, 90, 90, 90}

// tick is the interpolation period of MoveToPosition.
const tick = 10 * time.Millisecond

// ============================================================
// Trajectory - timed-step generator for smooth moves
// ============================================================

// Trajectory is a linear transition between two poses sampled every tick.
type Trajectory struct {
	start    Pose
	end      Pose
	duration time.Duration
}

// NewTrajectory creates a transition from start to end over d.
func NewTrajectory(start, end Pose, d time.Duration) Trajectory {
	return Trajectory{start: start, end: end, duration: d}
}

// Duration returns the transition duration.
func (t Trajectory) Duration() time.Duration {
	return t.duration
}

// Smooth reports whether the move is long enough to be interpolated.
func (t Trajectory) Smooth() bool {
	return t.duration > tick
}

// Evaluate returns the pose at offset at since the move started.
func (t Trajectory) Evaluate(at time.Duration) Pose {
	if at >= t.duration || t.duration <= 0 {
		return t.end
	}
	alpha := at.Seconds() / t.duration.Seconds()

	var p Pose
	for i := range p {
		p[i] = lerp(t.start[i], t.end[i], alpha)
	}
	return p
}

// IsComplete returns true when the transition is done.
func (t Trajectory) IsComplete(at time.Duration) bool {
	return at >= t.duration
}

// Steps returns the intermediate poses, one per tick, followed by the exact
// end pose. Each intermediate pose is held for one tick; the final snap
// removes accumulated rounding.
func (t Trajectory) Steps() []Pose {
	if !t.Smooth() {
		return []Pose{t.end}
	}

	n := int(math.Ceil(float64(t.duration) / float64(tick)))
	steps := make([]Pose, 0, n+1)
	for i := 1; i <= n; i++ {
		steps = append(steps, t.Evaluate(time.Duration(i)*tick))
	}
	return append(steps, t.end)
}

// lerp performs linear interpolation.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
