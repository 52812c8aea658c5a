package gait

// Directions for the legacy motions.
const (
	Forward  = 1
	Backward = -1
	Left     = 1
	Right    = -1
)

// LegacyWalk walks forward when dir is Forward, backward otherwise.
// period is a full gait cycle; each phase gets a quarter of it.
func (e *Engine) LegacyWalk(steps, period, dir int) {
	e.log.Debug("legacy walk", "steps", steps, "period", period, "dir", dir)
	if dir == Forward {
		e.Walk(steps, period/4)
		return
	}
	e.WalkBack(steps, period/4)
}

// LegacyTurn turns left when dir is Left, right otherwise.
func (e *Engine) LegacyTurn(steps, period, dir int) {
	e.log.Debug("legacy turn", "steps", steps, "period", period, "dir", dir)
	if dir == Left {
		e.TurnLeft(steps, period/4)
		return
	}
	e.TurnRight(steps, period/4)
}

// LegacyJump jumps once with a crouch of half the period. steps is ignored.
func (e *Engine) LegacyJump(steps, period int) {
	e.log.Debug("legacy jump", "steps", steps, "period", period)
	e.Jump(period / 2)
}

// LegacyBend bows for period milliseconds. steps and dir are ignored.
func (e *Engine) LegacyBend(steps, period, dir int) {
	e.log.Debug("legacy bend", "steps", steps, "period", period, "dir", dir)
	e.Bow(period)
}
