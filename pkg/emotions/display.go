package emotions

import (
	"log/slog"
	"sync"
)

// ============================================================
// LogDisplay - headless display
// ============================================================

// LogDisplay logs every emotion. It is the display of headless builds.
type LogDisplay struct {
	log   *slog.Logger
	mu    sync.Mutex
	emoji bool
}

var (
	_ Display          = (*LogDisplay)(nil)
	_ EmojiModeCapable = (*LogDisplay)(nil)
)

// NewLogDisplay creates a display that writes to logger.
func NewLogDisplay(logger *slog.Logger) *LogDisplay {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDisplay{log: logger}
}

// SetEmotion logs the label.
func (d *LogDisplay) SetEmotion(label Label) {
	d.log.Info("🎭 emotion", "label", label.String(), "emoji_mode", d.EmojiMode())
}

// SetEmojiMode toggles emoji rendering.
func (d *LogDisplay) SetEmojiMode(on bool) {
	d.mu.Lock()
	d.emoji = on
	d.mu.Unlock()
}

// EmojiMode reports whether emoji rendering is on.
func (d *LogDisplay) EmojiMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emoji
}

// ============================================================
// Tracker - remembers the current emotion
// ============================================================

// Tracker forwards to an inner display and remembers the last label.
// AsEmojiModeCapable sees through it to the inner display.
type Tracker struct {
	inner Display

	mu       sync.RWMutex
	current  Label
	onChange func(Label)
}

var _ Display = (*Tracker)(nil)

// NewTracker wraps inner, which may be nil.
func NewTracker(inner Display) *Tracker {
	return &Tracker{inner: inner, current: Neutral}
}

// OnChange registers a callback invoked after every SetEmotion.
func (t *Tracker) OnChange(fn func(Label)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// SetEmotion records label then forwards it.
func (t *Tracker) SetEmotion(label Label) {
	t.mu.Lock()
	t.current = label
	cb := t.onChange
	t.mu.Unlock()

	if t.inner != nil {
		t.inner.SetEmotion(label)
	}
	if cb != nil {
		cb(label)
	}
}

// Current returns the last label shown.
func (t *Tracker) Current() Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Unwrap returns the wrapped display.
func (t *Tracker) Unwrap() Display {
	return t.inner
}

// ============================================================
// Recorder - test display
// ============================================================

// Recorder is a Display that records every label. It does not implement
// EmojiModeCapable; wrap it with WithEmojiMode for that.
type Recorder struct {
	mu     sync.Mutex
	labels []Label
}

var _ Display = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetEmotion records label.
func (r *Recorder) SetEmotion(label Label) {
	r.mu.Lock()
	r.labels = append(r.labels, label)
	r.mu.Unlock()
}

// Labels returns a copy of every recorded label.
func (r *Recorder) Labels() []Label {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// Last returns the most recent label, or "".
func (r *Recorder) Last() Label {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.labels) == 0 {
		return ""
	}
	return r.labels[len(r.labels)-1]
}

// Reset forgets all recorded labels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.labels = nil
	r.mu.Unlock()
}

// EmojiRecorder is a Recorder that also supports emoji mode.
type EmojiRecorder struct {
	*Recorder

	mu    sync.Mutex
	emoji bool
}

var _ EmojiModeCapable = (*EmojiRecorder)(nil)

// WithEmojiMode adds the emoji-mode capability to r.
func WithEmojiMode(r *Recorder) *EmojiRecorder {
	return &EmojiRecorder{Recorder: r}
}

// SetEmojiMode records the mode.
func (r *EmojiRecorder) SetEmojiMode(on bool) {
	r.mu.Lock()
	r.emoji = on
	r.mu.Unlock()
}

// EmojiMode returns the recorded mode.
func (r *EmojiRecorder) EmojiMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emoji
}

// ============================================================
// Multi - fan-out display
// ============================================================

type multi struct {
	displays []Display
}

func (m *multi) SetEmotion(label Label) {
	for _, d := range m.displays {
		d.SetEmotion(label)
	}
}

// emojiMulti is a multi with at least one emoji-capable child.
type emojiMulti struct {
	*multi
}

func (m *emojiMulti) SetEmojiMode(on bool) {
	for _, d := range m.displays {
		if c, ok := AsEmojiModeCapable(d); ok {
			c.SetEmojiMode(on)
		}
	}
}

func (m *emojiMulti) EmojiMode() bool {
	for _, d := range m.displays {
		if c, ok := AsEmojiModeCapable(d); ok && c.EmojiMode() {
			return true
		}
	}
	return false
}

// NewMulti returns a display that forwards to every non-nil display.
// The result is emoji-mode capable when any child is.
func NewMulti(displays ...Display) Display {
	m := &multi{}
	capable := false
	for _, d := range displays {
		if d == nil {
			continue
		}
		m.displays = append(m.displays, d)
		if _, ok := AsEmojiModeCapable(d); ok {
			capable = true
		}
	}
	if capable {
		return &emojiMulti{multi: m}
	}
	return m
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Label)

// SetEmotion calls f.
func (f DisplayFunc) SetEmotion(label Label) {
	f(label)
}
