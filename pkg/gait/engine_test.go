package gait

import (
	"math"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/servo"
)

// testEngine creates an engine on a recorder with legs on channels 0-3.
func testEngine(t *testing.T) (*Engine, *servo.Recorder, *FakeClock) {
	t.Helper()
	rec := servo.NewRecorder()
	clock := NewFakeClock(time.Unix(0, 0))
	legs := servo.NewLegs(rec, [servo.Count]int{0, 1, 2, 3}, log.Nop(), clock.Now)
	e := New(legs, Config{Clock: clock, Logger: log.Nop()})
	return e, rec, clock
}

func assertPose(t *testing.T, name string, got, want Pose) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestWalk_TwoSteps(t *testing.T) {
	e, rec, clock := testEngine(t)

	e.Walk(2, 150)

	writes := rec.Writes()
	// stand (4 writes) + 2 steps * 4 sub-phases * 4 writes
	if len(writes) != 4+2*16 {
		t.Fatalf("writes: got %d, want %d", len(writes), 4+2*16)
	}

	// First sub-phase: LF 30, RB 30 (mirrored to 150), RF 150 (mirrored to 30), LB 150.
	want := []servo.Write{{Channel: 0, Angle: 30}, {Channel: 3, Angle: 150}, {Channel: 1, Angle: 30}, {Channel: 2, Angle: 150}}
	for i, w := range want {
		if writes[4+i] != w {
			t.Errorf("write %d: got %+v, want %+v", 4+i, writes[4+i], w)
		}
	}

	assertPose(t, "final pose", e.Positions(), Stand)

	// stand 700ms + settle 120ms + 2 steps * 8 delayed writes * 150ms
	if got, want := clock.Slept(), 3220*time.Millisecond; got != want {
		t.Errorf("slept: got %v, want %v", got, want)
	}
}

func TestWalkBack_ReflectsAngles(t *testing.T) {
	e, rec, _ := testEngine(t)

	e.WalkBack(1, 100)

	first := rec.Writes()[4]
	if first.Channel != 0 || first.Angle != 150 {
		t.Errorf("first step: got %+v, want LF at 150", first)
	}
	assertPose(t, "final pose", e.Positions(), Stand)
}

func TestTurn_Order(t *testing.T) {
	e, rec, _ := testEngine(t)
	e.TurnLeft(1, 100)
	left := rec.Writes()[4:8]

	rec.Reset()
	e.TurnRight(1, 100)
	right := rec.Writes()[4:8]

	// Left leads with RF (channel 1), right with LF (channel 0).
	if left[0].Channel != 1 || right[0].Channel != 0 {
		t.Errorf("leading legs: left %d, right %d", left[0].Channel, right[0].Channel)
	}
	// Nominal 45° on RF is sent mirrored.
	if left[0].Angle != 135 {
		t.Errorf("RF at 45: got %v, want 135", left[0].Angle)
	}
	assertPose(t, "final pose", e.Positions(), Stand)
}

func TestPrimitives_ZeroRepetitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(e *Engine)
		want Pose
	}{
		{"walk", func(e *Engine) { e.Walk(0, 150) }, Stand},
		{"walk_back", func(e *Engine) { e.WalkBack(0, 150) }, Stand},
		{"turn_left", func(e *Engine) { e.TurnLeft(0, 150) }, Stand},
		{"turn_right", func(e *Engine) { e.TurnRight(0, 150) }, Stand},
		{"dance", func(e *Engine) { e.Dance(0, 200) }, Stand},
		{"wave", func(e *Engine) { e.WaveRightFoot(0, 50) }, Stand},
		{"dance_4_feet", func(e *Engine) { e.Dance4Feet(0, 300) }, Stand},
		{"stretch", func(e *Engine) { e.Stretch(0, 15) }, Stand},
		{"swing", func(e *Engine) { e.Swing(0, 6) }, Pose{90, 90, 30, 30}},
		{"scratch", func(e *Engine) { e.Scratch(0, 50) }, Pose{90, 90, 30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := testEngine(t)
			e.MoveToPosition(Pose{10, 20, 30, 40}, 0)
			tt.run(e)
			assertPose(t, "terminal pose", e.Positions(), tt.want)
		})
	}
}

func TestPostures(t *testing.T) {
	e, _, clock := testEngine(t)

	e.SitDown(500)
	assertPose(t, "sit", e.Positions(), Pose{90, 90, 30, 30})

	e.LieDown(1000)
	assertPose(t, "lie", e.Positions(), Pose{5, 5, 5, 5})

	before := clock.Slept()
	e.Bow(2000)
	assertPose(t, "bow ends standing", e.Positions(), Stand)
	// 100ms settle + 2000ms hold + 700ms stand
	if got := clock.Slept() - before; got != 2800*time.Millisecond {
		t.Errorf("bow duration: got %v, want 2.8s", got)
	}

	e.Jump(200)
	assertPose(t, "jump ends standing", e.Positions(), Stand)
}

func TestStretch_EndsStandingWithoutHold(t *testing.T) {
	e, _, clock := testEngine(t)

	e.Stretch(1, 15)

	assertPose(t, "final pose", e.Positions(), Stand)
	// 80ms settle + 4 sweeps of 80 one-degree steps at 15ms
	if got, want := clock.Slept(), (80+320*15)*time.Millisecond; got != want {
		t.Errorf("slept: got %v, want %v", got, want)
	}
}

func TestWaveRightFoot_OnlyMovesRightFront(t *testing.T) {
	e, rec, _ := testEngine(t)

	e.WaveRightFoot(1, 50)

	writes := rec.Writes()
	// prep pose (4), 19 down + 19 up on RF, stand (4)
	if len(writes) != 4+38+4 {
		t.Fatalf("writes: got %d, want %d", len(writes), 46)
	}
	for _, w := range writes[4:42] {
		if w.Channel != 1 {
			t.Fatalf("wave touched channel %d", w.Channel)
		}
	}
	// RF nominal 0 is physical 180.
	if writes[4+18].Angle != 180 {
		t.Errorf("bottom of wave: got %v, want 180", writes[4+18].Angle)
	}
}

func TestSwing_ComplementaryPairs(t *testing.T) {
	e, rec, _ := testEngine(t)

	e.Swing(1, 1)

	// stand (4) + 60 lean poses (240); first rocking pose is i=30: LF 30, RF 80.
	writes := rec.Writes()
	first := writes[4+240 : 4+244]
	if first[0].Angle != 30 {
		t.Errorf("LF: got %v, want 30", first[0].Angle)
	}
	if first[1].Angle != 180-80 {
		t.Errorf("RF: got %v, want 100 (mirrored 110-30)", first[1].Angle)
	}
	assertPose(t, "ends sitting", e.Positions(), Pose{90, 90, 30, 30})
}

func TestHome_Idempotent(t *testing.T) {
	e, _, _ := testEngine(t)
	e.LieDown(100)

	e.Home()
	once := e.Positions()
	e.Home()

	assertPose(t, "home twice", e.Positions(), once)
	assertPose(t, "home", once, Stand)
	if !e.Resting() {
		t.Error("expected resting after home")
	}
}

func TestMoveToPosition_Interpolates(t *testing.T) {
	e, rec, clock := testEngine(t)
	target := Pose{0, 180, 45, 135}

	e.MoveToPosition(target, 100*time.Millisecond)

	// 10 ticks of 4 legs plus the final snap
	if got := rec.Len(); got != 44 {
		t.Errorf("writes: got %d, want 44", got)
	}
	if got := clock.Slept(); got != 100*time.Millisecond {
		t.Errorf("slept: got %v, want 100ms", got)
	}
	assertPose(t, "target", e.Positions(), target)
	if e.Resting() {
		t.Error("move should clear resting")
	}

	// First step on LF is a tenth of the way from 90 to 0.
	if first := rec.Writes()[0]; !approx(first.Angle, 81) {
		t.Errorf("first LF step: got %v, want 81", first.Angle)
	}
}

func TestMoveToPosition_ShortMoveSnaps(t *testing.T) {
	e, rec, clock := testEngine(t)

	e.MoveToPosition(Pose{10, 10, 10, 10}, 5*time.Millisecond)

	if got := rec.Len(); got != 8 {
		t.Errorf("writes: got %d, want 8 (set + snap)", got)
	}
	if got := clock.Slept(); got != 5*time.Millisecond {
		t.Errorf("slept: got %v, want 5ms", got)
	}
}

func TestTrajectory_Steps(t *testing.T) {
	traj := NewTrajectory(Stand, Pose{100, 80, 90, 90}, 25*time.Millisecond)
	steps := traj.Steps()

	// ceil(25/10) = 3 samples plus the snap
	if len(steps) != 4 {
		t.Fatalf("steps: got %d, want 4", len(steps))
	}
	if !approx(steps[0][0], 94) {
		t.Errorf("first sample: got %v, want 94", steps[0][0])
	}
	assertPose(t, "snap", steps[len(steps)-1], Pose{100, 80, 90, 90})
	if !traj.IsComplete(25 * time.Millisecond) {
		t.Error("expected complete at duration")
	}

	if got := NewTrajectory(Stand, Stand, tick).Steps(); len(got) != 1 {
		t.Errorf("single tick move: got %d steps, want 1", len(got))
	}
}

func TestLegacy(t *testing.T) {
	e, rec, _ := testEngine(t)

	e.LegacyWalk(1, 600, Backward)
	if w := rec.Writes()[4]; w.Channel != 0 || w.Angle != 150 {
		t.Errorf("legacy walk backward: got %+v", w)
	}

	rec.Reset()
	e.LegacyTurn(1, 400, Left)
	if w := rec.Writes()[4]; w.Channel != 1 {
		t.Errorf("legacy turn left should lead with RF, got channel %d", w.Channel)
	}

	e.LegacyBend(1, 1000, 0)
	assertPose(t, "bend", e.Positions(), Stand)
}

func TestHalt_InterruptsBetweenPhases(t *testing.T) {
	e, rec, clock := testEngine(t)

	started := make(chan struct{})
	var once sync.Once
	clock.OnSleep(func(time.Duration) {
		once.Do(func() {
			close(started)
			for !e.halted() {
				runtime.Gosched()
			}
		})
	})

	done := make(chan struct{})
	go func() {
		e.Walk(10, 150)
		close(done)
	}()

	<-started
	e.Halt()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("walk did not return after halt")
	}

	// Initial stand (4) and the halt's stand (4); no step was taken.
	if got := rec.Len(); got != 8 {
		t.Errorf("writes: got %d, want 8", got)
	}
	assertPose(t, "halted pose", e.Positions(), Stand)
	if e.Running() != "" {
		t.Errorf("Running: got %q, want empty", e.Running())
	}
}

func TestTrims(t *testing.T) {
	e, rec, _ := testEngine(t)

	e.SetTrims([servo.Count]int{1, -2, 3, -4})
	if got := e.Trims(); got != [servo.Count]int{1, -2, 3, -4} {
		t.Errorf("Trims: got %v", got)
	}

	e.Home()
	got := e.Commanded()
	want := Pose{91, 180 - 88, 93, 180 - 86}
	assertPose(t, "trimmed home", got, want)
	if rec.Len() == 0 {
		t.Error("expected writes")
	}
}
