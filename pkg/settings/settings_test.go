package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-kiki/pkg/servo"
)

// testStore creates a store in a temporary directory.
func testStore(t *testing.T) *FileStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "trims.yaml")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestFileStore_MissingFile(t *testing.T) {
	store := testStore(t)

	trims, err := store.LoadTrims()
	if err != nil {
		t.Fatalf("LoadTrims: %v", err)
	}
	if trims != (Trims{}) {
		t.Errorf("expected zero trims, got %+v", trims)
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store := testStore(t)
	want := Trims{LeftFront: 3, RightFront: -4, LeftBack: 0, RightBack: 12}

	if err := store.SaveTrims(want); err != nil {
		t.Fatalf("SaveTrims: %v", err)
	}

	// A fresh store on the same path sees the saved values.
	reopened, err := NewFileStore(store.Path())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := reopened.LoadTrims()
	if err != nil {
		t.Fatalf("LoadTrims: %v", err)
	}
	if got != want {
		t.Errorf("LoadTrims: got %+v, want %+v", got, want)
	}

	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	store := testStore(t)
	if err := os.WriteFile(store.Path(), []byte("trims: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadTrims(); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveTrims_RejectsOutOfRange(t *testing.T) {
	stores := map[string]Store{
		"file":   testStore(t),
		"memory": NewMemoryStore(Trims{}),
	}
	for name, store := range stores {
		err := store.SaveTrims(Trims{RightBack: MaxTrim + 1})
		if !errors.Is(err, ErrTrimRange) {
			t.Errorf("%s: got %v, want ErrTrimRange", name, err)
		}
	}
}

func TestTrims_Array(t *testing.T) {
	tr := Trims{LeftFront: 1, RightFront: 2, LeftBack: 3, RightBack: 4}
	if got := tr.Array(); got != [servo.Count]int{1, 2, 3, 4} {
		t.Errorf("Array: got %v", got)
	}
	if got := TrimsFromArray(tr.Array()); got != tr {
		t.Errorf("TrimsFromArray: got %+v", got)
	}
	if got := tr.With(servo.LeftBack, -7); got.LeftBack != -7 || got.LeftFront != 1 {
		t.Errorf("With: got %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(Trims{LeftFront: 5})
	got, _ := s.LoadTrims()
	if got.LeftFront != 5 {
		t.Errorf("initial: got %+v", got)
	}
	_ = s.SaveTrims(Trims{RightBack: 2})
	if s.Saves() != 1 {
		t.Errorf("Saves: got %d", s.Saves())
	}
}
