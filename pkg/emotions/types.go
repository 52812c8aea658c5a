// Package emotions is the emotion-display side channel of the dog.
//
// Behaviours report a label from a small fixed vocabulary to a Display.
// Calls are fire-and-forget: a display never blocks or fails a motion.
// Displays that can render animated emoji additionally implement
// EmojiModeCapable, found through AsEmojiModeCapable.
package emotions

// Label is an emotion name understood by displays.
type Label string

// The emotion vocabulary.
const (
	Neutral   Label = "neutral"
	Happy     Label = "happy"
	Angry     Label = "angry"
	Sleepy    Label = "sleepy"
	Scared    Label = "scared"
	Shocked   Label = "shocked"
	Surprised Label = "surprised"
	Winking   Label = "winking"
	Cool      Label = "cool"
)

// IdleSet is the pool the executor draws from while resting.
var IdleSet = []Label{Happy, Winking, Cool, Sleepy, Surprised}

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// Display shows an emotion. Implementations must return promptly.
type Display interface {
	SetEmotion(label Label)
}

// EmojiModeCapable is implemented by displays that can switch between
// static faces and animated emoji.
type EmojiModeCapable interface {
	SetEmojiMode(on bool)
	EmojiMode() bool
}

// Wrapper is implemented by displays that decorate another display.
type Wrapper interface {
	Unwrap() Display
}

// AsEmojiModeCapable returns the emoji-mode capability of d or of the first
// display it wraps that has one.
func AsEmojiModeCapable(d Display) (EmojiModeCapable, bool) {
	for d != nil {
		if c, ok := d.(EmojiModeCapable); ok {
			return c, true
		}
		w, ok := d.(Wrapper)
		if !ok {
			return nil, false
		}
		d = w.Unwrap()
	}
	return nil, false
}

// EmojiModeOf reports whether d is currently in emoji mode.
func EmojiModeOf(d Display) bool {
	if c, ok := AsEmojiModeCapable(d); ok {
		return c.EmojiMode()
	}
	return false
}

// SetEmojiMode switches d into or out of emoji mode and resets it to neutral.
//
// A display without the capability falls back to neutral when asked to turn
// the mode off, and reports ErrEmojiModeUnsupported when asked to turn it on.
func SetEmojiMode(d Display, on bool) error {
	c, ok := AsEmojiModeCapable(d)
	if !ok {
		if on {
			return ErrEmojiModeUnsupported
		}
		if d != nil {
			d.SetEmotion(Neutral)
		}
		return nil
	}
	c.SetEmojiMode(on)
	d.SetEmotion(Neutral)
	return nil
}

// ParseEmojiMode maps the mode names accepted by the control surfaces:
// "gif" and "otto" enable emoji mode, anything else disables it.
func ParseEmojiMode(mode string) bool {
	return mode == "gif" || mode == "otto"
}
