package action

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/teslashibe/go-kiki/pkg/emotions"
)

func TestKind_Numbering(t *testing.T) {
	tests := []struct {
		kind Kind
		num  int
		name string
	}{
		{KindWalk, 1, "walk_forward"},
		{KindScratch, 14, "scratch"},
		{KindLegacyWalk, 15, "legacy_walk"},
		{KindHome, 19, "home"},
		{KindDelay, 20, "delay"},
		{KindHappyJump, 21, "happy_jump"},
		{KindStop, 22, "stop"},
		{KindEmotion, 23, "emotion"},
	}
	for _, tt := range tests {
		if int(tt.kind) != tt.num {
			t.Errorf("%s: got %d, want %d", tt.name, int(tt.kind), tt.num)
		}
		if tt.kind.String() != tt.name {
			t.Errorf("String(%d): got %q, want %q", tt.num, tt.kind.String(), tt.name)
		}
	}
	if got := Kind(99).String(); got != "unknown(99)" {
		t.Errorf("unknown kind: got %q", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"walk_forward", KindWalk, false},
		{" Dance_4_Feet ", KindDance4Feet, false},
		{"7", KindJump, false},
		{"0", 0, true},
		{"fly", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownKind) {
				t.Errorf("ParseKind(%q): got err %v, want ErrUnknownKind", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q): got %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestKinds_ExcludesStop(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 22 {
		t.Errorf("Kinds: got %d, want 22", len(kinds))
	}
	for _, k := range kinds {
		if k == KindStop {
			t.Error("stop must not be queueable")
		}
	}
}

func TestKind_JSON(t *testing.T) {
	r := Request{ID: "x", Kind: KindTurnLeft, Steps: 2, Speed: 150}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != KindTurnLeft {
		t.Errorf("Kind: got %v, want turn_left (json %s)", got.Kind, data)
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"valid walk", NewRequest(KindWalk, 3, 150), nil},
		{"valid delay", NewRequest(KindDelay, 0, 3000), nil},
		{"valid emotion", EmotionRequest(emotions.Happy), nil},
		{"unknown kind", NewRequest(Kind(42), 1, 1), ErrUnknownKind},
		{"stop", NewRequest(KindStop, 0, 0), ErrInvalidParam},
		{"negative steps", NewRequest(KindWalk, -1, 100), ErrInvalidParam},
		{"too many steps", NewRequest(KindWalk, MaxSteps+1, 100), ErrInvalidParam},
		{"speed too high", NewRequest(KindBow, 1, MaxSpeed+1), ErrInvalidParam},
		{"bad direction", NewRequest(KindLegacyWalk, 1, 1000).WithDirection(2), ErrInvalidParam},
		{"bad emotion", EmotionRequest("grumpy"), ErrInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRequest_UniqueIDs(t *testing.T) {
	a := NewRequest(KindHome, 1, 500)
	b := NewRequest(KindHome, 1, 500)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs: %q, %q", a.ID, b.ID)
	}
}
