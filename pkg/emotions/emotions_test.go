package emotions

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"happy", Happy, false},
		{"  Sleepy ", Sleepy, false},
		{"COOL", Cool, false},
		{"grumpy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Parse(%q): got err %v, want ErrNotFound", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistry_Vocabulary(t *testing.T) {
	r := NewRegistry()
	if r.Count() != 9 {
		t.Errorf("Count: got %d, want 9", r.Count())
	}

	list := r.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Label >= list[i].Label {
			t.Errorf("List not sorted at %d: %q >= %q", i, list[i-1].Label, list[i].Label)
		}
	}

	for _, l := range IdleSet {
		if _, err := r.Get(l); err != nil {
			t.Errorf("idle label %q not registered: %v", l, err)
		}
	}
}

func TestAsEmojiModeCapable(t *testing.T) {
	plain := NewRecorder()
	if _, ok := AsEmojiModeCapable(plain); ok {
		t.Error("plain recorder should not be emoji capable")
	}

	capable := WithEmojiMode(NewRecorder())
	if _, ok := AsEmojiModeCapable(capable); !ok {
		t.Error("emoji recorder should be capable")
	}

	// Seen through a tracker.
	if _, ok := AsEmojiModeCapable(NewTracker(capable)); !ok {
		t.Error("tracker should expose inner capability")
	}
	if _, ok := AsEmojiModeCapable(NewTracker(plain)); ok {
		t.Error("tracker over plain display should not be capable")
	}
	if _, ok := AsEmojiModeCapable(NewTracker(nil)); ok {
		t.Error("empty tracker should not be capable")
	}
	if _, ok := AsEmojiModeCapable(nil); ok {
		t.Error("nil display should not be capable")
	}
}

func TestSetEmojiMode(t *testing.T) {
	t.Run("capable", func(t *testing.T) {
		rec := WithEmojiMode(NewRecorder())
		tracker := NewTracker(rec)
		tracker.SetEmotion(Happy)

		if err := SetEmojiMode(tracker, true); err != nil {
			t.Fatalf("SetEmojiMode: %v", err)
		}
		if !rec.EmojiMode() {
			t.Error("expected emoji mode on")
		}
		if tracker.Current() != Neutral {
			t.Errorf("Current: got %q, want neutral", tracker.Current())
		}

		if err := SetEmojiMode(tracker, false); err != nil {
			t.Fatalf("SetEmojiMode(false): %v", err)
		}
		if rec.EmojiMode() {
			t.Error("expected emoji mode off")
		}
	})

	t.Run("not capable", func(t *testing.T) {
		rec := NewRecorder()

		err := SetEmojiMode(rec, true)
		if !errors.Is(err, ErrEmojiModeUnsupported) {
			t.Errorf("turn on: got %v, want ErrEmojiModeUnsupported", err)
		}
		if len(rec.Labels()) != 0 {
			t.Errorf("turn on should not touch the display, got %v", rec.Labels())
		}

		if err := SetEmojiMode(rec, false); err != nil {
			t.Errorf("turn off: %v", err)
		}
		if rec.Last() != Neutral {
			t.Errorf("fallback: got %q, want neutral", rec.Last())
		}
	})
}

func TestParseEmojiMode(t *testing.T) {
	tests := map[string]bool{
		"gif":    true,
		"otto":   true,
		"static": false,
		"":       false,
		"GIF":    false,
	}
	for in, want := range tests {
		if got := ParseEmojiMode(in); got != want {
			t.Errorf("ParseEmojiMode(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestTracker_OnChange(t *testing.T) {
	rec := NewRecorder()
	tracker := NewTracker(rec)

	var seen []Label
	tracker.OnChange(func(l Label) { seen = append(seen, l) })

	tracker.SetEmotion(Angry)
	tracker.SetEmotion(Neutral)

	if len(seen) != 2 || seen[0] != Angry || seen[1] != Neutral {
		t.Errorf("OnChange: got %v", seen)
	}
	if got := rec.Labels(); len(got) != 2 {
		t.Errorf("inner labels: got %v", got)
	}
	if tracker.Current() != Neutral {
		t.Errorf("Current: got %q", tracker.Current())
	}
}

func TestLogDisplay(t *testing.T) {
	d := NewLogDisplay(nil)
	d.SetEmotion(Happy)
	if d.EmojiMode() {
		t.Error("emoji mode should start off")
	}
	d.SetEmojiMode(true)
	if !d.EmojiMode() {
		t.Error("emoji mode should be on")
	}
}

func TestNewMulti(t *testing.T) {
	a := NewRecorder()
	b := WithEmojiMode(NewRecorder())

	var fn []Label
	m := NewMulti(a, nil, b, DisplayFunc(func(l Label) { fn = append(fn, l) }))
	m.SetEmotion(Cool)

	if a.Last() != Cool || b.Last() != Cool || len(fn) != 1 {
		t.Errorf("fan-out: a=%q b=%q fn=%v", a.Last(), b.Last(), fn)
	}

	c, ok := AsEmojiModeCapable(m)
	if !ok {
		t.Fatal("multi with a capable child should be capable")
	}
	c.SetEmojiMode(true)
	if !b.EmojiMode() || !c.EmojiMode() {
		t.Error("emoji mode not forwarded")
	}

	if _, ok := AsEmojiModeCapable(NewMulti(a)); ok {
		t.Error("multi without capable children should not be capable")
	}
}
