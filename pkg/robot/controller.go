package robot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-kiki/pkg/action"
	"github.com/teslashibe/go-kiki/pkg/emotions"
	"github.com/teslashibe/go-kiki/pkg/gait"
	"github.com/teslashibe/go-kiki/pkg/servo"
	"github.com/teslashibe/go-kiki/pkg/settings"
)

// Controller event types, in addition to the executor's.
const (
	EventQueued     = "action_queued"
	EventStopped    = "stopped"
	EventEmotion    = "emotion"
	EventEmojiMode  = "emoji_mode"
	EventTouch      = "touch"
	EventTrims      = "trims"
	EventFastAction = "fast_action"
)

// Event is a controller or executor transition, as broadcast to clients.
type Event struct {
	Type    string          `json:"type"`
	Request *action.Request `json:"request,omitempty"`
	Emotion emotions.Label  `json:"emotion,omitempty"`
	Message string          `json:"message,omitempty"`
	Time    time.Time       `json:"time"`
}

// Config configures a Controller.
type Config struct {
	Queue    action.QueueConfig
	Executor action.ExecutorConfig

	// DisableQueue runs without a queue and executor. Queued operations
	// then fail with action.ErrNotInitialized; the fast path still works.
	DisableQueue bool

	// Touch enables the touch sensor at startup.
	Touch bool
	// TouchJumpDelay is the crouch delay of the touch-triggered jump.
	TouchJumpDelay int

	Logger *slog.Logger
}

// Status is a snapshot of the whole dog.
type Status struct {
	Ready         bool               `json:"ready"`
	State         string             `json:"state"`
	InProgress    bool               `json:"in_progress"`
	IdleMode      bool               `json:"idle_mode"`
	IdleTicks     int                `json:"idle_ticks"`
	QueueDepth    int                `json:"queue_depth"`
	QueueCapacity int                `json:"queue_capacity"`
	Current       *action.Request    `json:"current,omitempty"`
	Running       string             `json:"running,omitempty"`
	Executed      uint64             `json:"executed"`
	TouchEnabled  bool               `json:"touch_enabled"`
	EmojiMode     bool               `json:"emoji_mode"`
	Emotion       emotions.Label     `json:"emotion"`
	Positions     map[string]float64 `json:"positions"`
	Trims         settings.Trims     `json:"trims"`
}

// Controller is the composition root of the dog.
type Controller struct {
	engine   *gait.Engine
	display  *emotions.Tracker
	store    settings.Store
	queue    *action.Queue
	executor *action.Executor
	cfg      Config
	log      *slog.Logger

	touch   atomic.Bool
	stopGen atomic.Uint64

	mu          sync.RWMutex
	subscribers []func(Event)
}

// New creates a controller. display and store may be nil. A nil engine
// yields a degraded controller whose commands report action.ErrNotInitialized.
//
// Saved trims are loaded and applied, and an initial home request is queued
// so the dog stands up as soon as Run starts.
func New(engine *gait.Engine, display emotions.Display, store settings.Store, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TouchJumpDelay <= 0 {
		cfg.TouchJumpDelay = 200
	}
	if store == nil {
		store = settings.NewMemoryStore(settings.Trims{})
	}

	c := &Controller{
		engine:  engine,
		display: emotions.NewTracker(display),
		store:   store,
		cfg:     cfg,
		log:     cfg.Logger,
	}
	c.touch.Store(cfg.Touch)
	c.display.OnChange(func(label emotions.Label) {
		c.emit(Event{Type: EventEmotion, Emotion: label})
	})

	if engine == nil {
		c.log.Error("❌ no gait engine, controller not initialized")
		return c
	}

	if trims, err := store.LoadTrims(); err != nil {
		c.log.Warn("⚠️ failed to load trims, using zero", "error", err)
	} else {
		engine.SetTrims(trims.Array())
	}

	if cfg.DisableQueue {
		c.log.Warn("⚠️ action queue disabled, queued commands unavailable")
		return c
	}

	execCfg := cfg.Executor
	if execCfg.Logger == nil {
		execCfg.Logger = cfg.Logger
	}
	execCfg.OnEvent = c.forward
	c.queue = action.NewQueue(cfg.Queue)
	c.executor = action.NewExecutor(c.queue, engine, c.display, execCfg)

	c.log.Info("🏠 queuing initial home")
	if err := c.queue.Enqueue(context.Background(), action.NewRequest(action.KindHome, 1, 1000)); err != nil {
		c.log.Warn("⚠️ failed to queue initial home", "error", err)
	}
	return c
}

// Run drives the executor until ctx is cancelled. It returns
// action.ErrNotInitialized when the queue is disabled.
func (c *Controller) Run(ctx context.Context) error {
	if c == nil || c.executor == nil {
		return action.ErrNotInitialized
	}
	return c.executor.Run(ctx)
}

// Close stops accepting queued requests.
func (c *Controller) Close() {
	if c != nil && c.queue != nil {
		c.queue.Close()
	}
}

// Engine returns the gait engine.
func (c *Controller) Engine() *gait.Engine {
	return c.engine
}

// ============================================================
// Events
// ============================================================

// Subscribe registers fn for every controller event. fn must not block.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	c.mu.RLock()
	subs := c.subscribers
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// forward converts executor events.
func (c *Controller) forward(ev action.Event) {
	c.emit(Event{
		Type:    ev.Type,
		Request: ev.Request,
		Emotion: ev.Emotion,
		Message: ev.Error,
		Time:    ev.Time,
	})
}

// ============================================================
// Fast path
// ============================================================

// Do runs r immediately on the gait engine. A non-empty mood is shown
// before the motion and left on the display afterwards.
func (c *Controller) Do(ctx context.Context, r action.Request, mood emotions.Label) error {
	if c == nil || c.engine == nil {
		return action.ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.Kind.Valid() || r.Kind == action.KindStop {
		return fmt.Errorf("%w: %s", action.ErrUnknownKind, r.Kind)
	}

	c.log.Info("⚡ fast action", "action", r.String())
	if mood != "" {
		c.display.SetEmotion(mood)
	}
	c.emit(Event{Type: EventFastAction, Request: &r})
	return action.Dispatch(c.engine, nil, r, c.log)
}

// RunSequence runs a named sequence inline. A stop between steps ends it
// early with ErrInterrupted.
func (c *Controller) RunSequence(ctx context.Context, name string) error {
	if c == nil || c.engine == nil {
		return action.ErrNotInitialized
	}
	seq, ok := LookupSequence(name, false)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSequence, name)
	}

	gen := c.stopGen.Load()
	c.log.Info("🎬 sequence", "name", name, "steps", len(seq.Steps))
	if seq.Mood != "" {
		c.display.SetEmotion(seq.Mood)
	}

	var err error
	for _, r := range seq.Steps {
		if c.stopGen.Load() != gen {
			err = ErrInterrupted
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}
		if derr := action.Dispatch(c.engine, nil, r, c.log); derr != nil {
			c.log.Warn("⚠️ sequence step failed", "name", name, "action", r.String(), "error", derr)
			c.emit(Event{Type: action.EventFailed, Request: &r, Message: derr.Error()})
		}
	}

	if seq.Mood != "" {
		c.display.SetEmotion(emotions.Neutral)
	}
	return err
}

// TestServo moves one leg to angle and holds it for 500ms.
func (c *Controller) TestServo(ctx context.Context, leg servo.Leg, angle int) error {
	if c == nil || c.engine == nil {
		return action.ErrNotInitialized
	}
	if !leg.Valid() {
		return fmt.Errorf("%w: %d", servo.ErrUnknownLeg, int(leg))
	}
	if angle < 0 || angle > 180 {
		return fmt.Errorf("%w: %d", ErrAngleRange, angle)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("🔧 testing servo", "leg", leg.String(), "angle", angle)
	c.engine.SetAngle(leg, float64(angle), 500)
	return nil
}

// ============================================================
// Queued path
// ============================================================

// Enqueue validates r, assigns an ID if missing and queues it.
func (c *Controller) Enqueue(ctx context.Context, r action.Request) (action.Request, error) {
	if c == nil || c.queue == nil {
		return r, action.ErrNotInitialized
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if err := c.queue.Enqueue(ctx, r); err != nil {
		c.log.Warn("⚠️ request not queued", "action", r.String(), "error", err)
		return r, err
	}
	c.log.Debug("📥 queued", "id", r.ID, "action", r.String(), "depth", c.queue.Len())
	c.emit(Event{Type: EventQueued, Request: &r})
	return r, nil
}

// QueueSequence shows the sequence mood, queues every step and a trailing
// reset to neutral.
func (c *Controller) QueueSequence(ctx context.Context, name string) ([]action.Request, error) {
	if c == nil || c.queue == nil {
		return nil, action.ErrNotInitialized
	}
	seq, ok := LookupSequence(name, true)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSequence, name)
	}

	if seq.Mood != "" {
		c.display.SetEmotion(seq.Mood)
	}
	steps := seq.Steps
	if seq.Mood != "" {
		steps = append(steps, action.EmotionRequest(emotions.Neutral))
	}

	queued := make([]action.Request, 0, len(steps))
	for _, r := range steps {
		r, err := c.Enqueue(ctx, r)
		if err != nil {
			return queued, err
		}
		queued = append(queued, r)
	}
	c.log.Info("🎬 sequence queued", "name", name, "steps", len(queued))
	return queued, nil
}

// QueueCommand maps a web action name to queued requests. Sequence names
// queue the whole sequence and "stop" stops.
func (c *Controller) QueueCommand(ctx context.Context, name string, p1, p2 int) ([]action.Request, error) {
	if name == "stop" {
		return nil, c.Stop()
	}
	if _, ok := queuedSequences[name]; ok {
		return c.QueueSequence(ctx, name)
	}

	cmd, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if c == nil || c.queue == nil {
		return nil, action.ErrNotInitialized
	}
	if cmd.mood != "" {
		c.display.SetEmotion(cmd.mood)
	}
	r, err := c.Enqueue(ctx, cmd.build(p1, p2))
	if err != nil {
		return nil, err
	}
	return []action.Request{r}, nil
}

// ============================================================
// Stop
// ============================================================

// Stop discards every queued request, interrupts the running primitive at
// its next phase boundary and returns home.
func (c *Controller) Stop() error {
	if c == nil || c.engine == nil {
		return action.ErrNotInitialized
	}
	c.stopGen.Add(1)

	dropped := 0
	if c.queue != nil {
		dropped = c.queue.Reset()
	}
	running := c.engine.Running()
	c.engine.Halt()

	c.log.Info("🛑 stopped", "dropped", dropped, "interrupted", running)
	c.emit(Event{Type: EventStopped, Message: fmt.Sprintf("dropped %d", dropped)})
	return nil
}

// ============================================================
// Display
// ============================================================

// SetEmotion shows a label from the vocabulary.
func (c *Controller) SetEmotion(name string) error {
	label, err := emotions.Parse(name)
	if err != nil {
		return err
	}
	c.display.SetEmotion(label)
	return nil
}

// SetEmojiMode switches emoji mode: "gif" and "otto" turn it on, anything
// else off. The display is reset to neutral either way.
func (c *Controller) SetEmojiMode(mode string) error {
	on := emotions.ParseEmojiMode(mode)
	if err := emotions.SetEmojiMode(c.display, on); err != nil {
		return err
	}
	c.log.Info("🎭 emoji mode", "mode", mode, "on", on)
	c.emit(Event{Type: EventEmojiMode, Message: mode})
	return nil
}

// Emotion returns the last label shown.
func (c *Controller) Emotion() emotions.Label {
	return c.display.Current()
}

// ============================================================
// Touch
// ============================================================

// SetTouchEnabled enables or disables the touch sensor.
func (c *Controller) SetTouchEnabled(enabled bool) {
	c.touch.Store(enabled)
	c.log.Info("🖐️ touch sensor", "enabled", enabled)
}

// TouchEnabled reports whether touches trigger a jump.
func (c *Controller) TouchEnabled() bool {
	return c.touch.Load()
}

// Touch handles a touch-sensor event: a happy jump when enabled.
func (c *Controller) Touch(ctx context.Context) error {
	if !c.TouchEnabled() {
		c.log.Debug("touch ignored, sensor disabled")
		return nil
	}
	c.emit(Event{Type: EventTouch})
	_, err := c.Enqueue(ctx, action.NewRequest(action.KindHappyJump, 1, c.cfg.TouchJumpDelay))
	return err
}

// ============================================================
// Calibration
// ============================================================

// Trims returns the applied trims.
func (c *Controller) Trims() settings.Trims {
	if c == nil || c.engine == nil {
		return settings.Trims{}
	}
	return settings.TrimsFromArray(c.engine.Trims())
}

// SetTrims persists and applies new trims.
func (c *Controller) SetTrims(t settings.Trims) error {
	if c == nil || c.engine == nil {
		return action.ErrNotInitialized
	}
	if err := c.store.SaveTrims(t); err != nil {
		return err
	}
	c.engine.SetTrims(t.Array())
	c.log.Info("🔧 trims updated", "lf", t.LeftFront, "rf", t.RightFront, "lb", t.LeftBack, "rb", t.RightBack)
	c.emit(Event{Type: EventTrims})
	return nil
}

// ============================================================
// Status
// ============================================================

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	s := Status{
		Ready:        c.executor != nil,
		State:        "degraded",
		TouchEnabled: c.TouchEnabled(),
		EmojiMode:    emotions.EmojiModeOf(c.display),
		Emotion:      c.display.Current(),
		Trims:        c.Trims(),
		Positions:    make(map[string]float64, servo.Count),
	}
	if c.executor != nil {
		st := c.executor.State()
		s.State = "ready"
		s.InProgress = st.InProgress
		s.IdleMode = st.IdleMode
		s.IdleTicks = st.IdleTicks
		s.Current = st.Current
		s.Executed = st.Executed
		s.QueueDepth = c.queue.Len()
		s.QueueCapacity = c.queue.Cap()
		switch {
		case st.InProgress:
			s.State = "busy"
		case st.IdleMode:
			s.State = "idle"
		}
	}
	if c.engine == nil {
		return s
	}
	s.Running = c.engine.Running()
	pos := c.engine.Positions()
	for _, leg := range servo.Legs() {
		s.Positions[leg.String()] = pos[leg]
	}
	return s
}

// Pending returns the queued requests, oldest first.
func (c *Controller) Pending() []action.Request {
	if c == nil || c.queue == nil {
		return nil
	}
	return c.queue.Pending()
}
