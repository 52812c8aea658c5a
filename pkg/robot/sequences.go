package robot

import (
	"slices"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
)

// Sequence is a named series of primitives shown under one mood. The mood is
// set before the first step and reset to neutral after the last.
type Sequence struct {
	Name  string
	Mood  emotions.Label
	Steps []action.Request
}

func step(kind action.Kind, steps, speed int) action.Request {
	return action.Request{Kind: kind, Steps: steps, Speed: speed}
}

// fastSequences run inline on the tool path.
var fastSequences = map[string]Sequence{
	"defend": {"defend", emotions.Shocked, []action.Request{
		step(action.KindWalkBack, 1, 100),
		step(action.KindSit, 1, 3000),
		step(action.KindLie, 1, 1500),
		step(action.KindDelay, 0, 3000),
		step(action.KindHome, 1, 0),
	}},
	"attack": {"attack", emotions.Angry, []action.Request{
		step(action.KindWalk, 2, 100),
		step(action.KindJump, 1, 200),
		step(action.KindBow, 1, 1000),
	}},
	"celebrate": {"celebrate", emotions.Happy, []action.Request{
		step(action.KindDance, 2, 200),
		step(action.KindWaveRightFoot, 3, 50),
		step(action.KindSwing, 4, 10),
	}},
	"greet": {"greet", emotions.Happy, []action.Request{
		step(action.KindHome, 1, 0),
		step(action.KindWaveRightFoot, 5, 50),
		step(action.KindBow, 1, 2000),
	}},
	"retreat": {"retreat", emotions.Scared, []action.Request{
		step(action.KindWalkBack, 3, 100),
		step(action.KindTurnRight, 4, 150),
		step(action.KindWalk, 2, 100),
	}},
	"search": {"search", emotions.Surprised, []action.Request{
		step(action.KindTurnLeft, 2, 150),
		step(action.KindTurnRight, 4, 150),
		step(action.KindTurnLeft, 2, 150),
		step(action.KindWalk, 2, 150),
	}},
}

// queuedSequences are enqueued back to back by the web surface.
var queuedSequences = map[string]Sequence{
	"defend": {"defend", emotions.Shocked, []action.Request{
		step(action.KindWalkBack, 1, 100),
		step(action.KindSit, 1, 3000),
		step(action.KindLie, 1, 1500),
		step(action.KindDelay, 0, 3000),
		step(action.KindHome, 1, 500),
	}},
	"greet": {"greet", emotions.Happy, []action.Request{
		step(action.KindHome, 1, 500),
		step(action.KindWaveRightFoot, 3, 150),
		step(action.KindBow, 2, 150),
	}},
	"attack": {"attack", emotions.Angry, []action.Request{
		step(action.KindWalk, 2, 100),
		step(action.KindJump, 2, 200),
		step(action.KindBow, 1, 150),
	}},
	"celebrate": {"celebrate", emotions.Happy, []action.Request{
		step(action.KindDance, 2, 200),
		step(action.KindWaveRightFoot, 5, 100),
		step(action.KindSwing, 3, 10),
	}},
	"retreat": {"retreat", emotions.Scared, []action.Request{
		step(action.KindWalkBack, 3, 100),
		step(action.KindTurnLeft, 2, 150),
		step(action.KindWalkBack, 2, 80),
	}},
	"search": {"search", emotions.Scared, []action.Request{
		step(action.KindTurnLeft, 2, 150),
		step(action.KindTurnRight, 4, 150),
		step(action.KindTurnLeft, 2, 150),
		step(action.KindWalk, 3, 120),
	}},
}

func sequenceNames(m map[string]Sequence) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FastSequences returns the names of the inline sequences.
func FastSequences() []string {
	return sequenceNames(fastSequences)
}

// QueuedSequences returns the names of the queued sequences.
func QueuedSequences() []string {
	return sequenceNames(queuedSequences)
}

// LookupSequence returns a copy of a sequence table.
func LookupSequence(name string, queued bool) (Sequence, bool) {
	table := fastSequences
	if queued {
		table = queuedSequences
	}
	seq, ok := table[name]
	if !ok {
		return Sequence{}, false
	}
	seq.Steps = slices.Clone(seq.Steps)
	return seq, true
}
