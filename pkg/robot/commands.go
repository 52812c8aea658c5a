package robot

import (
	"slices"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
)

// command maps a web action name to a queued request. p1 is usually a
// count and p2 a speed or delay.
type command struct {
	mood  emotions.Label
	build func(p1, p2 int) action.Request
}

func counted(kind action.Kind) func(p1, p2 int) action.Request {
	return func(p1, p2 int) action.Request { return action.NewRequest(kind, p1, p2) }
}

func timed(kind action.Kind) func(p1, p2 int) action.Request {
	return func(_, p2 int) action.Request { return action.NewRequest(kind, 1, p2) }
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// commands are the single-request web actions. Names match exactly.
var commands = map[string]command{
	"walk_forward":    {build: counted(action.KindWalk)},
	"walk":            {build: counted(action.KindWalk)},
	"walk_back":       {build: counted(action.KindWalkBack)},
	"walk_backward":   {build: counted(action.KindWalkBack)},
	"turn_left":       {build: func(p1, p2 int) action.Request { return action.NewRequest(action.KindTurnLeft, abs(p1), p2) }},
	"turn_right":      {build: counted(action.KindTurnRight)},
	"sit":             {build: timed(action.KindSit)},
	"sit_down":        {build: timed(action.KindSit)},
	"lie":             {build: timed(action.KindLie)},
	"lie_down":        {build: timed(action.KindLie)},
	"bow":             {build: timed(action.KindBow)},
	"jump":            {mood: emotions.Angry, build: timed(action.KindJump)},
	"dance":           {mood: emotions.Happy, build: counted(action.KindDance)},
	"wave":            {build: counted(action.KindWaveRightFoot)},
	"wave_right_foot": {build: counted(action.KindWaveRightFoot)},
	"dance_4_feet":    {mood: emotions.Happy, build: counted(action.KindDance4Feet)},
	"swing":           {mood: emotions.Happy, build: counted(action.KindSwing)},
	"stretch":         {mood: emotions.Sleepy, build: counted(action.KindStretch)},
	"scratch":         {build: counted(action.KindScratch)},
	"home": {build: func(int, int) action.Request {
		return action.NewRequest(action.KindHome, 1, 500)
	}},
	// turn picks the direction from the sign of p1.
	"turn": {build: func(p1, p2 int) action.Request {
		if p1 < 0 {
			return action.NewRequest(action.KindTurnLeft, -p1, p2)
		}
		return action.NewRequest(action.KindTurnRight, p1, p2)
	}},
}

// Commands returns every web action name, including sequences and stop.
func Commands() []string {
	names := make([]string, 0, len(commands)+len(queuedSequences)+1)
	for name := range commands {
		names = append(names, name)
	}
	names = append(names, QueuedSequences()...)
	names = append(names, "stop")
	slices.Sort(names)
	return names
}
