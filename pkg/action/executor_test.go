package action

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/teslashibe/go-kiki/internal/log"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/gait"
	"github.com/teslashibe/go-kiki/pkg/servo"
)

func TestDispatch_EmotionBrackets(t *testing.T) {
	tests := []struct {
		kind     Kind
		call     string
		emotions []emotions.Label
	}{
		{KindJump, "jump(200)", []emotions.Label{emotions.Angry, emotions.Neutral}},
		{KindLegacyJump, "legacy_jump(1,200)", []emotions.Label{emotions.Angry, emotions.Neutral}},
		{KindHappyJump, "jump(200)", []emotions.Label{emotions.Happy, emotions.Neutral}},
		{KindStretch, "stretch(1,200)", []emotions.Label{emotions.Sleepy, emotions.Neutral}},
		{KindWalk, "walk(1,200)", nil},
		{KindSit, "sit(200)", nil},
		{KindDelay, "wait(200)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m := &mockMotions{}
			d := emotions.NewRecorder()

			if err := Dispatch(m, d, NewRequest(tt.kind, 1, 200), log.Nop()); err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if calls := m.Calls(); len(calls) != 1 || calls[0] != tt.call {
				t.Errorf("calls: got %v, want [%s]", calls, tt.call)
			}
			if got := d.Labels(); !slices.Equal(got, tt.emotions) {
				t.Errorf("emotions: got %v, want %v", got, tt.emotions)
			}
		})
	}
}

func TestDispatch_Legacy(t *testing.T) {
	m := &mockMotions{}
	_ = Dispatch(m, nil, NewRequest(KindLegacyTurn, 4, 2000).WithDirection(-1), nil)
	_ = Dispatch(m, nil, NewRequest(KindLegacyWalk, 4, 1000).WithDirection(1), nil)

	want := []string{"legacy_turn(4,2000,-1)", "legacy_walk(4,1000,1)"}
	if got := m.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls: got %v, want %v", got, want)
	}
}

func TestDispatch_UnknownKindIsNoop(t *testing.T) {
	m := &mockMotions{}
	err := Dispatch(m, nil, Request{Kind: Kind(77)}, log.Nop())
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got %v, want ErrUnknownKind", err)
	}
	if len(m.Calls()) != 0 {
		t.Errorf("unexpected calls: %v", m.Calls())
	}
}

func TestDispatch_Emotion(t *testing.T) {
	d := emotions.NewRecorder()
	if err := Dispatch(&mockMotions{}, d, EmotionRequest(emotions.Shocked), nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if d.Last() != emotions.Shocked {
		t.Errorf("got %q, want shocked", d.Last())
	}
}

func testExecutorConfig(events *eventLog) ExecutorConfig {
	return ExecutorConfig{
		PollInterval:     5 * time.Millisecond,
		IdleThreshold:    4,
		IdleEmotionEvery: 2,
		SettleDelay:      time.Millisecond,
		Rand:             func(int) int { return 2 },
		Logger:           log.Nop(),
		OnEvent:          events.add,
	}
}

func newTestExecutor(m Motions, d emotions.Display, events *eventLog) (*Queue, *Executor) {
	q := NewQueue(QueueConfig{Capacity: 10})
	return q, NewExecutor(q, m, d, testExecutorConfig(events))
}

func TestExecutor_RunsInOrderWithoutOverlap(t *testing.T) {
	m := &mockMotions{delay: 5 * time.Millisecond}
	events := &eventLog{}
	q, x := newTestExecutor(m, nil, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = q.Enqueue(ctx, NewRequest(KindWalk, 3, 100))
	_ = q.Enqueue(ctx, NewRequest(KindTurnLeft, 2, 100))
	_ = q.Enqueue(ctx, NewRequest(KindJump, 1, 200))

	done := make(chan error, 1)
	go func() { done <- x.Run(ctx) }()

	if !waitFor(func() bool { return len(m.Calls()) == 3 && !x.InProgress() }, 2*time.Second) {
		t.Fatalf("calls: got %v", m.Calls())
	}

	want := []string{"walk(3,100)", "turn_left(2,100)", "jump(200)"}
	if got := m.Calls(); !slices.Equal(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
	if m.MaxActive() != 1 {
		t.Errorf("overlapping actions: max active %d", m.MaxActive())
	}
	if events.count(EventStarted) != 3 || events.count(EventCompleted) != 3 {
		t.Errorf("events: %v", events.types())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("executor did not stop")
	}
	if x.State().Executed != 3 {
		t.Errorf("Executed: got %d, want 3", x.State().Executed)
	}
}

func TestExecutor_IdleMode(t *testing.T) {
	m := &mockMotions{}
	d := emotions.NewRecorder()
	events := &eventLog{}

	// Capture the executor state as each action starts.
	var x *Executor
	started := make(chan State, 1)
	cfg := testExecutorConfig(events)
	cfg.OnEvent = func(ev Event) {
		events.add(ev)
		if ev.Type == EventStarted {
			started <- x.State()
		}
	}
	q := NewQueue(QueueConfig{Capacity: 10})
	x = NewExecutor(q, m, d, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = x.Run(ctx) }()

	// Threshold reached: rest once and show an idle emotion.
	if !waitFor(func() bool { return x.State().IdleMode }, 2*time.Second) {
		t.Fatal("idle mode not entered")
	}
	if !waitFor(func() bool { return events.count(EventIdleEmotion) >= 2 }, 2*time.Second) {
		t.Fatalf("idle emotions not rotated: %v", events.types())
	}

	if got := events.count(EventIdleEntered); got != 1 {
		t.Errorf("idle_entered: got %d, want 1", got)
	}
	if calls := m.Calls(); len(calls) != 1 || calls[0] != "lie(1500)" {
		t.Errorf("rest: got %v, want [lie(1500)]", calls)
	}
	if d.Last() != emotions.IdleSet[2] {
		t.Errorf("idle emotion: got %q, want %q", d.Last(), emotions.IdleSet[2])
	}

	// The next command clears idle mode.
	_ = q.Enqueue(ctx, NewRequest(KindHome, 1, 500))
	select {
	case s := <-started:
		if s.IdleMode || s.IdleTicks != 0 || s.IdleEmojiTick != 0 || !s.InProgress {
			t.Errorf("state at start: %+v", s)
		}
		if s.Current == nil || s.Current.Kind != KindHome {
			t.Errorf("current: got %+v, want home", s.Current)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("home not started")
	}
}

func TestExecutor_StopsOnQueueClose(t *testing.T) {
	q, x := newTestExecutor(&mockMotions{}, nil, &eventLog{})

	done := make(chan error, 1)
	go func() { done <- x.Run(context.Background()) }()

	waitFor(x.Running, time.Second)
	q.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("executor did not stop on close")
	}
}

func TestExecutor_UnknownKindContinues(t *testing.T) {
	m := &mockMotions{}
	events := &eventLog{}
	q, x := newTestExecutor(m, nil, events)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bypass Validate to simulate a corrupted request.
	_ = q.Enqueue(ctx, Request{ID: "bad", Kind: Kind(55)})
	_ = q.Enqueue(ctx, NewRequest(KindBow, 1, 100))
	go func() { _ = x.Run(ctx) }()

	if !waitFor(func() bool { return slices.Contains(m.Calls(), "bow(100)") }, 2*time.Second) {
		t.Fatalf("executor stalled: %v", m.Calls())
	}
	if events.count(EventFailed) != 1 {
		t.Errorf("action_failed: %v", events.types())
	}
}

// A stop that lands between Dequeue and dispatch must win.
func TestExecutor_SkipsRequestFlushedAfterDequeue(t *testing.T) {
	m := &mockMotions{}
	events := &eventLog{}
	q, x := newTestExecutor(m, nil, events)
	ctx := context.Background()

	_ = q.Enqueue(ctx, NewRequest(KindWalk, 3, 100))
	r, err := q.Dequeue(ctx, time.Second)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	q.Reset()
	x.execute(r)

	if calls := m.Calls(); len(calls) != 0 {
		t.Errorf("flushed request ran: %v", calls)
	}
	if events.count(EventSkipped) != 1 || events.count(EventStarted) != 0 {
		t.Errorf("events: %v", events.types())
	}
	if st := x.State(); st.Executed != 0 || st.InProgress {
		t.Errorf("state: %+v", st)
	}

	_ = q.Enqueue(ctx, NewRequest(KindBow, 1, 100))
	r, _ = q.Dequeue(ctx, time.Second)
	x.execute(r)
	if calls := m.Calls(); !slices.Equal(calls, []string{"bow(100)"}) {
		t.Errorf("calls: got %v, want [bow(100)]", calls)
	}
}

func TestExecutor_RejectsSecondRun(t *testing.T) {
	_, x := newTestExecutor(&mockMotions{}, nil, &eventLog{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = x.Run(ctx) }()
	if !waitFor(x.Running, time.Second) {
		t.Fatal("executor not running")
	}
	if err := x.Run(ctx); err == nil {
		t.Error("expected error from second Run")
	}
}

// The executor drives the real gait engine end to end.
func TestExecutor_WithGaitEngine(t *testing.T) {
	rec := servo.NewRecorder()
	clock := gait.NewFakeClock(time.Unix(0, 0))
	legs := servo.NewLegs(rec, [servo.Count]int{0, 1, 2, 3}, log.Nop(), clock.Now)
	engine := gait.New(legs, gait.Config{Clock: clock, Logger: log.Nop()})

	events := &eventLog{}
	cfg := testExecutorConfig(events)
	cfg.IdleThreshold = 1000
	q := NewQueue(QueueConfig{Capacity: 10})
	x := NewExecutor(q, engine, nil, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = q.Enqueue(ctx, NewRequest(KindWalk, 2, 150))
	go func() { _ = x.Run(ctx) }()

	if !waitFor(func() bool { return events.count(EventCompleted) == 1 }, 2*time.Second) {
		t.Fatalf("walk not completed: %v", events.types())
	}
	if got := engine.Positions(); got != gait.Stand {
		t.Errorf("final pose: got %v, want stand", got)
	}
	if rec.Len() != 36 {
		t.Errorf("writes: got %d, want 36", rec.Len())
	}
}
