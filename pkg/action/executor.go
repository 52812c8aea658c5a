package action

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/teslashibe/go-kiki/pkg/emotions"
)

// Event types emitted by the executor.
const (
	EventStarted     = "action_started"
	EventCompleted   = "action_completed"
	EventFailed      = "action_failed"
	EventSkipped     = "action_skipped"
	EventIdleEntered = "idle_entered"
	EventIdleEmotion = "idle_emotion"
)

// Event reports an executor transition.
type Event struct {
	Type    string         `json:"type"`
	Request *Request       `json:"request,omitempty"`
	Emotion emotions.Label `json:"emotion,omitempty"`
	Error   string         `json:"error,omitempty"`
	Time    time.Time      `json:"time"`
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// PollInterval is how long a dequeue waits before counting an idle tick.
	PollInterval time.Duration
	// IdleThreshold is the number of idle ticks before idle mode.
	IdleThreshold int
	// IdleEmotionEvery is the number of idle ticks between idle emotions.
	IdleEmotionEvery int
	// IdleRestDelay is the lie-down delay when entering idle mode.
	IdleRestDelay time.Duration
	// SettleDelay is the pause after each completed request.
	SettleDelay time.Duration

	// Rand returns a value in [0, n). Defaults to math/rand/v2.
	Rand    func(n int) int
	Logger  *slog.Logger
	OnEvent func(Event)
}

// DefaultExecutorConfig returns the stock timings: 1s poll, idle after 120 ticks.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		PollInterval:     time.Second,
		IdleThreshold:    120,
		IdleEmotionEvery: 10,
		IdleRestDelay:    1500 * time.Millisecond,
		SettleDelay:      20 * time.Millisecond,
	}
}

// State is a snapshot of the executor.
type State struct {
	InProgress    bool     `json:"in_progress"`
	IdleTicks     int      `json:"idle_ticks"`
	IdleMode      bool     `json:"idle_mode"`
	IdleEmojiTick int      `json:"idle_emoji_tick"`
	Current       *Request `json:"current,omitempty"`
	Executed      uint64   `json:"executed"`
}

// Executor drains a Queue one request at a time.
//
// State is only mutated by the goroutine running Run; State() returns a
// copy for everyone else.
type Executor struct {
	queue   *Queue
	motions Motions
	display emotions.Display
	cfg     ExecutorConfig
	log     *slog.Logger

	mu      sync.RWMutex
	state   State
	running bool
}

// NewExecutor creates an executor. display may be nil.
func NewExecutor(q *Queue, m Motions, display emotions.Display, cfg ExecutorConfig) *Executor {
	def := DefaultExecutorConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = def.IdleThreshold
	}
	if cfg.IdleEmotionEvery <= 0 {
		cfg.IdleEmotionEvery = def.IdleEmotionEvery
	}
	if cfg.IdleRestDelay <= 0 {
		cfg.IdleRestDelay = def.IdleRestDelay
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.IntN
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Executor{
		queue:   q,
		motions: m,
		display: display,
		cfg:     cfg,
		log:     cfg.Logger,
	}
}

// Run executes requests until ctx is cancelled or the queue is closed and
// drained. It returns nil on a clean shutdown.
func (x *Executor) Run(ctx context.Context) error {
	x.mu.Lock()
	if x.running {
		x.mu.Unlock()
		return errors.New("action: executor already running")
	}
	x.running = true
	x.mu.Unlock()

	defer func() {
		x.mu.Lock()
		x.running = false
		x.mu.Unlock()
	}()

	x.log.Info("🚀 executor started", "poll", x.cfg.PollInterval, "capacity", x.queue.Cap())

	for {
		r, err := x.queue.Dequeue(ctx, x.cfg.PollInterval)
		switch {
		case err == nil:
			x.execute(r)
			if !sleepCtx(ctx, x.cfg.SettleDelay) {
				x.log.Info("🛑 executor stopped")
				return nil
			}
		case errors.Is(err, ErrPollTimeout):
			x.idleTick()
		case errors.Is(err, ErrQueueClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			x.log.Info("🛑 executor stopped")
			return nil
		default:
			return err
		}
	}
}

// execute runs one request.
func (x *Executor) execute(r Request) {
	if x.queue.Stale() {
		x.log.Info("⏭️ action flushed by stop", "id", r.ID, "action", r.String())
		x.emit(Event{Type: EventSkipped, Request: &r})
		return
	}

	x.mu.Lock()
	x.state.InProgress = true
	x.state.IdleTicks = 0
	x.state.IdleMode = false
	x.state.IdleEmojiTick = 0
	x.state.Current = &r
	x.mu.Unlock()

	x.log.Debug("▶️ action started", "id", r.ID, "action", r.String())
	x.emit(Event{Type: EventStarted, Request: &r})

	err := Dispatch(x.motions, x.display, r, x.log)

	x.mu.Lock()
	x.state.InProgress = false
	x.state.Current = nil
	x.state.Executed++
	x.mu.Unlock()

	if err != nil {
		x.emit(Event{Type: EventFailed, Request: &r, Error: err.Error()})
		return
	}
	x.log.Debug("✅ action completed", "id", r.ID, "action", r.String())
	x.emit(Event{Type: EventCompleted, Request: &r})
}

// idleTick accounts for one poll interval without a request.
func (x *Executor) idleTick() {
	x.mu.Lock()
	x.state.IdleTicks++

	if x.state.IdleMode {
		x.state.IdleEmojiTick++
		due := x.state.IdleEmojiTick >= x.cfg.IdleEmotionEvery
		if due {
			x.state.IdleEmojiTick = 0
		}
		x.mu.Unlock()

		if due {
			x.idleEmotion(EventIdleEmotion)
		}
		return
	}

	enter := x.state.IdleTicks >= x.cfg.IdleThreshold
	if enter {
		x.state.IdleMode = true
		x.state.IdleEmojiTick = 0
	}
	ticks := x.state.IdleTicks
	x.mu.Unlock()

	if !enter {
		return
	}
	x.log.Info("💤 entering idle mode", "idle_ticks", ticks)
	x.motions.LieDown(int(x.cfg.IdleRestDelay.Milliseconds()))
	x.idleEmotion(EventIdleEntered)
}

// idleEmotion shows a random emotion from the idle set.
func (x *Executor) idleEmotion(eventType string) {
	label := emotions.IdleSet[x.cfg.Rand(len(emotions.IdleSet))]
	if x.display != nil {
		x.display.SetEmotion(label)
	}
	x.log.Debug("🎭 idle emotion", "label", label.String())
	x.emit(Event{Type: eventType, Emotion: label})
}

func (x *Executor) emit(ev Event) {
	if x.cfg.OnEvent == nil {
		return
	}
	ev.Time = time.Now()
	x.cfg.OnEvent(ev)
}

// State returns a snapshot of the executor state.
func (x *Executor) State() State {
	x.mu.RLock()
	defer x.mu.RUnlock()
	s := x.state
	if s.Current != nil {
		cur := *s.Current
		s.Current = &cur
	}
	return s
}

// InProgress reports whether a request is being executed.
func (x *Executor) InProgress() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.state.InProgress
}

// Running reports whether Run is active.
func (x *Executor) Running() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.running
}

// sleepCtx sleeps for d, returning false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
