package action

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/gait"
)

// Motions is the primitive library the executor drives.
type Motions interface {
	Walk(steps, speed int)
	WalkBack(steps, speed int)
	TurnLeft(steps, speed int)
	TurnRight(steps, speed int)
	SitDown(delay int)
	LieDown(delay int)
	Jump(delay int)
	Bow(delay int)
	Dance(cycles, speed int)
	WaveRightFoot(waves, speed int)
	Dance4Feet(cycles, speed int)
	Swing(cycles, speed int)
	Stretch(cycles, speed int)
	Scratch(scratches, speed int)
	LegacyWalk(steps, period, dir int)
	LegacyTurn(steps, period, dir int)
	LegacyJump(steps, period int)
	LegacyBend(steps, period, dir int)
	Home()
	Wait(ms int)
}

var _ Motions = (*gait.Engine)(nil)

// Dispatch runs r on m. Behaviours with an emotion show it on d before the
// motion and reset to neutral after. d may be nil.
//
// Unknown kinds are logged and ignored; the returned error lets callers
// report them.
func Dispatch(m Motions, d emotions.Display, r Request, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	show := func(label emotions.Label) {
		if d != nil {
			d.SetEmotion(label)
		}
	}

	switch r.Kind {
	case KindWalk:
		m.Walk(r.Steps, r.Speed)
	case KindWalkBack:
		m.WalkBack(r.Steps, r.Speed)
	case KindTurnLeft:
		m.TurnLeft(r.Steps, r.Speed)
	case KindTurnRight:
		m.TurnRight(r.Steps, r.Speed)
	case KindSit:
		m.SitDown(r.Speed)
	case KindLie:
		m.LieDown(r.Speed)
	case KindJump:
		show(emotions.Angry)
		m.Jump(r.Speed)
		show(emotions.Neutral)
	case KindBow:
		m.Bow(r.Speed)
	case KindDance:
		m.Dance(r.Steps, r.Speed)
	case KindWaveRightFoot:
		m.WaveRightFoot(r.Steps, r.Speed)
	case KindDance4Feet:
		m.Dance4Feet(r.Steps, r.Speed)
	case KindSwing:
		m.Swing(r.Steps, r.Speed)
	case KindStretch:
		show(emotions.Sleepy)
		m.Stretch(r.Steps, r.Speed)
		show(emotions.Neutral)
	case KindScratch:
		m.Scratch(r.Steps, r.Speed)
	case KindLegacyWalk:
		m.LegacyWalk(r.Steps, r.Speed, r.Direction)
	case KindLegacyTurn:
		m.LegacyTurn(r.Steps, r.Speed, r.Direction)
	case KindLegacyJump:
		show(emotions.Angry)
		m.LegacyJump(r.Steps, r.Speed)
		show(emotions.Neutral)
	case KindLegacyBend:
		m.LegacyBend(r.Steps, r.Speed, r.Direction)
	case KindHome:
		m.Home()
	case KindDelay:
		m.Wait(r.Speed)
	case KindHappyJump:
		show(emotions.Happy)
		m.Jump(r.Speed)
		show(emotions.Neutral)
	case KindEmotion:
		show(r.Emotion)
	default:
		logger.Warn("⚠️ unknown action kind, ignoring", "kind", int(r.Kind), "id", r.ID)
		return fmt.Errorf("%w: %s", ErrUnknownKind, r.Kind)
	}
	return nil
}
