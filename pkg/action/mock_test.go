package action

import (
	"fmt"
	"sync"
	"time"

	"github.com/teslashibe/go-kiki/pkg/emotions"
)

// mockMotions records every primitive call.
type mockMotions struct {
	mu        sync.Mutex
	calls     []string
	delay     time.Duration
	active    int
	maxActive int
}

func (m *mockMotions) record(format string, args ...any) {
	m.mu.Lock()
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
	d := m.delay
	m.mu.Unlock()

	time.Sleep(d)

	m.mu.Lock()
	m.active--
	m.mu.Unlock()
}

func (m *mockMotions) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockMotions) MaxActive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

func (m *mockMotions) Walk(steps, speed int)          { m.record("walk(%d,%d)", steps, speed) }
func (m *mockMotions) WalkBack(steps, speed int)      { m.record("walk_back(%d,%d)", steps, speed) }
func (m *mockMotions) TurnLeft(steps, speed int)      { m.record("turn_left(%d,%d)", steps, speed) }
func (m *mockMotions) TurnRight(steps, speed int)     { m.record("turn_right(%d,%d)", steps, speed) }
func (m *mockMotions) SitDown(delay int)              { m.record("sit(%d)", delay) }
func (m *mockMotions) LieDown(delay int)              { m.record("lie(%d)", delay) }
func (m *mockMotions) Jump(delay int)                 { m.record("jump(%d)", delay) }
func (m *mockMotions) Bow(delay int)                  { m.record("bow(%d)", delay) }
func (m *mockMotions) Dance(cycles, speed int)        { m.record("dance(%d,%d)", cycles, speed) }
func (m *mockMotions) WaveRightFoot(waves, speed int) { m.record("wave(%d,%d)", waves, speed) }
func (m *mockMotions) Dance4Feet(cycles, speed int)   { m.record("dance4(%d,%d)", cycles, speed) }
func (m *mockMotions) Swing(cycles, speed int)        { m.record("swing(%d,%d)", cycles, speed) }
func (m *mockMotions) Stretch(cycles, speed int)      { m.record("stretch(%d,%d)", cycles, speed) }
func (m *mockMotions) Scratch(n, speed int)           { m.record("scratch(%d,%d)", n, speed) }
func (m *mockMotions) LegacyWalk(steps, period, dir int) {
	m.record("legacy_walk(%d,%d,%d)", steps, period, dir)
}
func (m *mockMotions) LegacyTurn(steps, period, dir int) {
	m.record("legacy_turn(%d,%d,%d)", steps, period, dir)
}
func (m *mockMotions) LegacyJump(steps, period int) { m.record("legacy_jump(%d,%d)", steps, period) }
func (m *mockMotions) LegacyBend(steps, period, dir int) {
	m.record("legacy_bend(%d,%d,%d)", steps, period, dir)
}
func (m *mockMotions) Home()       { m.record("home") }
func (m *mockMotions) Wait(ms int) { m.record("wait(%d)", ms) }

var _ Motions = (*mockMotions)(nil)

// eventLog collects executor events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Type
	}
	return out
}

func (l *eventLog) count(typ string) int {
	n := 0
	for _, t := range l.types() {
		if t == typ {
			n++
		}
	}
	return n
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

var _ emotions.Display = (*emotions.Recorder)(nil)
