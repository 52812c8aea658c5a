// Package settings persists the dog's calibration between runs.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-kiki/pkg/servo"
)

// MaxTrim bounds a single trim offset in degrees.
const MaxTrim = 90

// ErrTrimRange is returned for a trim outside ±MaxTrim.
var ErrTrimRange = errors.New("settings: trim out of range")

// Trims are the per-leg calibration offsets in degrees.
type Trims struct {
	LeftFront  int `yaml:"left_front" json:"left_front"`
	RightFront int `yaml:"right_front" json:"right_front"`
	LeftBack   int `yaml:"left_back" json:"left_back"`
	RightBack  int `yaml:"right_back" json:"right_back"`
}

// Array returns the trims in LF, RF, LB, RB order.
func (t Trims) Array() [servo.Count]int {
	return [servo.Count]int{t.LeftFront, t.RightFront, t.LeftBack, t.RightBack}
}

// TrimsFromArray builds Trims from LF, RF, LB, RB order.
func TrimsFromArray(a [servo.Count]int) Trims {
	return Trims{LeftFront: a[0], RightFront: a[1], LeftBack: a[2], RightBack: a[3]}
}

// With returns a copy of t with one leg's trim replaced.
func (t Trims) With(leg servo.Leg, trim int) Trims {
	a := t.Array()
	if leg.Valid() {
		a[leg] = trim
	}
	return TrimsFromArray(a)
}

// Validate checks every trim is within range.
func (t Trims) Validate() error {
	for _, leg := range servo.Legs() {
		if v := t.Array()[leg]; v < -MaxTrim || v > MaxTrim {
			return fmt.Errorf("%w: %s=%d", ErrTrimRange, leg, v)
		}
	}
	return nil
}

// Store loads and saves trims.
type Store interface {
	// LoadTrims returns the saved trims, or zero trims if none were saved.
	LoadTrims() (Trims, error)

	// SaveTrims persists trims.
	SaveTrims(t Trims) error
}

// ============================================================
// FileStore
// ============================================================

// FileStore implements Store using a YAML file.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

// fileData is the YAML structure of the settings file.
type fileData struct {
	Version   int    `yaml:"version"`
	UpdatedAt string `yaml:"updated_at"`
	Trims     Trims  `yaml:"trims"`
}

const currentVersion = 1

// NewFileStore creates a store at path. The file is created on first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("settings: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the settings file path.
func (s *FileStore) Path() string {
	return s.path
}

// LoadTrims reads the trims from disk.
func (s *FileStore) LoadTrims() (Trims, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Trims{}, nil
	}
	if err != nil {
		return Trims{}, fmt.Errorf("failed to read file: %w", err)
	}

	var stored fileData
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return Trims{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return stored.Trims, nil
}

// SaveTrims writes the trims to disk atomically.
func (s *FileStore) SaveTrims(t Trims) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(fileData{
		Version:   currentVersion,
		UpdatedAt: time.Now().Format(time.RFC3339),
		Trims:     t,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// ============================================================
// MemoryStore
// ============================================================

// MemoryStore keeps trims in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	trims Trims
	saves int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding initial.
func NewMemoryStore(initial Trims) *MemoryStore {
	return &MemoryStore{trims: initial}
}

// LoadTrims returns the stored trims.
func (s *MemoryStore) LoadTrims() (Trims, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trims, nil
}

// SaveTrims stores trims.
func (s *MemoryStore) SaveTrims(t Trims) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trims = t
	s.saves++
	return nil
}

// Saves returns how many times SaveTrims succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
