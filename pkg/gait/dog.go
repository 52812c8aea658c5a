package gait

import (
	"github.com/teslashibe/go-kiki/pkg/servo"
)

const (
	lf = servo.LeftFront
	rf = servo.RightFront
	lb = servo.LeftBack
	rb = servo.RightBack
)

// ============================================================
// Locomotion
// ============================================================

// Walk moves forward with a diagonal-pair gait: LF+RB swing to 30° while
// RF+LB swing to 150°, back to neutral, then the diagonals swap roles.
// speed is the per-phase delay in milliseconds. Ends standing.
func (e *Engine) Walk(steps, speed int) {
	e.run("walk", func() {
		e.log.Debug("🐕 walk forward", "steps", steps, "speed", speed)
		e.diagonalWalk(steps, speed, 30, 150)
	})
}

// WalkBack is Walk with every excursion reflected around 90° (30↔150).
func (e *Engine) WalkBack(steps, speed int) {
	e.run("walk_back", func() {
		e.log.Debug("🐕 walk backward", "steps", steps, "speed", speed)
		e.diagonalWalk(steps, speed, 150, 30)
	})
}

func (e *Engine) diagonalWalk(steps, speed int, near, far float64) {
	e.standUp()
	e.waitMs(120)

	for i := 0; i < steps && !e.halted(); i++ {
		e.set(lf, near, 0)
		e.set(rb, near, speed)
		e.set(rf, far, 0)
		e.set(lb, far, speed)

		e.set(lf, 90, 0)
		e.set(rb, 90, speed)
		e.set(rf, 90, 0)
		e.set(lb, 90, speed)

		e.set(rf, near, 0)
		e.set(lb, near, speed)
		e.set(lf, far, 0)
		e.set(rb, far, speed)

		e.set(rf, 90, 0)
		e.set(lb, 90, speed)
		e.set(lf, 90, 0)
		e.set(rb, 90, speed)
	}
}

// TurnLeft turns in place: RF+LB lead, then LF+RB, with a 45°/135° excursion.
// Ends standing.
func (e *Engine) TurnLeft(steps, speed int) {
	e.run("turn_left", func() {
		e.log.Debug("🐕 turn left", "steps", steps, "speed", speed)
		e.turn(steps, speed, [2]servo.Leg{rf, lb}, [2]servo.Leg{lf, rb})
	})
}

// TurnRight turns in place: LF+RB lead, then RF+LB. Ends standing.
func (e *Engine) TurnRight(steps, speed int) {
	e.run("turn_right", func() {
		e.log.Debug("🐕 turn right", "steps", steps, "speed", speed)
		e.turn(steps, speed, [2]servo.Leg{lf, rb}, [2]servo.Leg{rf, lb})
	})
}

// turn drives each diagonal pair {front, back} to 45/135 then back to 90.
func (e *Engine) turn(steps, speed int, first, second [2]servo.Leg) {
	e.standUp()
	e.waitMs(500)

	for i := 0; i < steps && !e.halted(); i++ {
		e.set(first[0], 45, 0)
		e.set(first[1], 135, speed)
		e.set(second[0], 45, 0)
		e.set(second[1], 135, speed)

		e.set(first[0], 90, 0)
		e.set(first[1], 90, speed)
		e.set(second[0], 90, 0)
		e.set(second[1], 90, speed)
	}
}

// ============================================================
// Postures
// ============================================================

// SitDown keeps the front legs at 90° and drops the back legs to 30°.
// Ends sitting.
func (e *Engine) SitDown(delay int) {
	e.run("sit", func() {
		e.log.Debug("🐕 sit down", "delay", delay)
		e.sit(delay)
	})
}

func (e *Engine) sit(delay int) {
	e.resting.Store(false)
	e.pose(90, 90, 30, 30, delay)
}

// LieDown lowers all legs to 5° and holds for a second. Ends lying.
func (e *Engine) LieDown(delay int) {
	e.run("lie", func() {
		e.log.Debug("🐕 lie down", "delay", delay)
		e.resting.Store(false)
		e.pose(5, 5, 5, 5, delay)
		e.waitMs(1000)
	})
}

// Jump crouches to 60°, extends to 120°, holds, then stands.
func (e *Engine) Jump(delay int) {
	e.run("jump", func() {
		e.log.Debug("🐕 jump", "delay", delay)
		e.jump(delay)
	})
}

func (e *Engine) jump(delay int) {
	e.pose(60, 60, 60, 60, delay)
	e.pose(120, 120, 120, 120, 100)
	e.waitMs(300)
	e.standUp()
}

// Bow drops the front legs to 0° with the back legs at 90°, holds for
// delay milliseconds, then stands.
func (e *Engine) Bow(delay int) {
	e.run("bow", func() {
		e.log.Debug("🐕 bow", "delay", delay)
		e.bow(delay)
	})
}

func (e *Engine) bow(delay int) {
	e.pose(0, 0, 90, 90, 100)
	e.waitMs(delay)
	e.standUp()
}

// ============================================================
// Tricks
// ============================================================

// Dance leans left, leans right, crouches and pops up, per cycle.
// The phase timing is fixed; speed is accepted for symmetry with other tricks.
// Ends standing.
func (e *Engine) Dance(cycles, speed int) {
	e.run("dance", func() {
		e.log.Debug("🐕 dance", "cycles", cycles, "speed", speed)
		for i := 0; i < cycles && !e.halted(); i++ {
			e.pose(60, 120, 60, 120, 200)
			e.pose(120, 60, 120, 60, 200)
			e.pose(75, 75, 105, 105, 150)
			e.waitMs(100)
			e.pose(105, 105, 75, 75, 150)
		}
		e.standUp()
	})
}

// WaveRightFoot sweeps the right front leg 90°→0°→90° in 5° steps of 8ms.
// speed is the pause at each end of a wave. Ends standing.
func (e *Engine) WaveRightFoot(waves, speed int) {
	e.run("wave", func() {
		e.log.Debug("🐕 wave right foot", "waves", waves, "speed", speed)
		e.pose(90, 90, 90, 90, 300)
		for i := 0; i < waves && !e.halted(); i++ {
			for a := 90; a >= 0; a -= 5 {
				e.set(rf, float64(a), 8)
			}
			e.waitMs(speed)
			for a := 0; a <= 90; a += 5 {
				e.set(rf, float64(a), 8)
			}
			e.waitMs(speed)
		}
		e.standUp()
	})
}

// Dance4Feet swings all feet forward, backward and back to center per cycle.
// Ends standing.
func (e *Engine) Dance4Feet(cycles, speed int) {
	e.run("dance_4_feet", func() {
		e.log.Debug("🐕 dance 4 feet", "cycles", cycles, "speed", speed)
		e.standUp()
		e.waitMs(200)
		for i := 0; i < cycles && !e.halted(); i++ {
			e.pose(60, 60, 60, 60, speed)
			e.waitMs(400)
			e.pose(120, 120, 120, 120, speed)
			e.waitMs(400)
			e.pose(90, 90, 90, 90, speed)
			e.waitMs(200)
		}
		e.standUp()
		e.waitMs(500)
	})
}

// Swing leans down to 31°, then rocks front/back pairs with the
// complementary 110-i formula, one degree per speed milliseconds.
// Ends sitting.
func (e *Engine) Swing(cycles, speed int) {
	e.run("swing", func() {
		e.log.Debug("🐕 swing", "cycles", cycles, "speed", speed)
		e.standUp()
		e.waitMs(500)

		for i := 90; i > 30 && !e.halted(); i-- {
			a := float64(i)
			e.pose(a, a, a, a, 0)
			e.waitMs(speed)
		}
		for c := 0; c < cycles && !e.halted(); c++ {
			for i := 30; i < 90; i++ {
				a := float64(i)
				e.pose(a, 110-a, a, 110-a, 0)
				e.waitMs(speed)
			}
			for i := 90; i > 30; i-- {
				a := float64(i)
				e.pose(a, 110-a, a, 110-a, 0)
				e.waitMs(speed)
			}
		}
		e.sit(0)
	})
}

// Stretch bends the front legs down to 11° and back, then raises the back
// legs to 169° and back, one degree per speed milliseconds. Ends standing
// without a hold.
func (e *Engine) Stretch(cycles, speed int) {
	e.run("stretch", func() {
		e.log.Debug("🐕 stretch", "cycles", cycles, "speed", speed)
		e.pose(90, 90, 90, 90, 80)
		for c := 0; c < cycles && !e.halted(); c++ {
			for j := 90; j > 10; j-- {
				e.pose(float64(j), float64(j), 90, 90, speed)
			}
			for j := 10; j < 90; j++ {
				e.pose(float64(j), float64(j), 90, 90, speed)
			}
			for j := 90; j < 170; j++ {
				e.pose(90, 90, float64(j), float64(j), speed)
			}
			for j := 170; j > 90; j-- {
				e.pose(90, 90, float64(j), float64(j), speed)
			}
		}
		// The sweeps stop one degree short of 90.
		e.pose(90, 90, 90, 90, 0)
	})
}

// Scratch sits, then kicks the right back leg between 110° and 60°
// scratches times, speed milliseconds per stroke. Ends sitting.
func (e *Engine) Scratch(scratches, speed int) {
	e.run("scratch", func() {
		e.log.Debug("🐕 scratch", "scratches", scratches, "speed", speed)
		e.sit(300)
		for i := 0; i < scratches && !e.halted(); i++ {
			e.set(rb, 110, speed)
			e.set(rb, 60, speed)
		}
		e.sit(speed)
	})
}
