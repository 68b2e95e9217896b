package logic

import (
	"errors"
	"testing"
	"time"
)

// memStore is an in-memory Store for controller tests.
type memStore struct {
	st       PersistedState
	valid    bool
	saves    int
	loadErr  error
	saveErr  error
	minsOnly []int // SaveMinutes calls
}

func (m *memStore) Save(st PersistedState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if !st.Locked {
		// Unlock persists flag+minutes, timestamp untouched
		m.st.Locked = false
		m.st.RemainingMinutes = st.RemainingMinutes
	} else {
		m.st = st
	}
	m.valid = true
	m.saves++
	return nil
}

func (m *memStore) SaveMinutes(minutes int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.st.RemainingMinutes = minutes
	m.minsOnly = append(m.minsOnly, minutes)
	return nil
}

func (m *memStore) Load() (PersistedState, bool, error) {
	if m.loadErr != nil {
		return PersistedState{}, false, m.loadErr
	}
	return m.st, m.valid, nil
}

// recordActuator records positions for controller tests.
type recordActuator struct {
	positions []Position
	err       error
}

func (a *recordActuator) SetPosition(pos Position) error {
	if a.err != nil {
		return a.err
	}
	a.positions = append(a.positions, pos)
	return nil
}

func (a *recordActuator) last() Position {
	if len(a.positions) == 0 {
		return ""
	}
	return a.positions[len(a.positions)-1]
}

var testTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, minutes int) (*Controller, *recordActuator, *memStore) {
	t.Helper()
	act := &recordActuator{}
	st := &memStore{}
	c, err := NewController(act, st, minutes)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, act, st
}

func TestNewControllerRejectsBadDuration(t *testing.T) {
	for _, minutes := range []int{0, -1, 100, 150} {
		if _, err := NewController(&recordActuator{}, &memStore{}, minutes); err == nil {
			t.Errorf("minutes=%d: expected error", minutes)
		}
	}
}

func TestTryLock(t *testing.T) {
	c, act, st := newTestController(t, 15)

	event, err := c.TryLock(1000, testTime)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if event == nil {
		t.Fatal("expected lock event")
	}
	if event.Type != EventLocked {
		t.Errorf("event type: got %s, want %s", event.Type, EventLocked)
	}
	if event.RemainingMinutes != 15 {
		t.Errorf("event remaining: got %d, want 15", event.RemainingMinutes)
	}
	if !c.Locked() {
		t.Error("controller should be locked")
	}
	if c.Remaining() != 15 {
		t.Errorf("remaining: got %d, want 15", c.Remaining())
	}
	if act.last() != PositionLock {
		t.Errorf("actuator: got %s, want %s", act.last(), PositionLock)
	}
	if !st.st.Locked || st.st.RemainingMinutes != 15 || st.st.LockedAt != 1000 {
		t.Errorf("persisted state: got %+v", st.st)
	}
}

func TestTryLockWhileLockedIsNoop(t *testing.T) {
	c, act, st := newTestController(t, 15)
	c.TryLock(1000, testTime)

	saves := st.saves
	event, err := c.TryLock(2000, testTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if event != nil {
		t.Error("expected no event when already locked")
	}
	if st.saves != saves {
		t.Error("no-op lock must not persist")
	}
	if st.st.LockedAt != 1000 {
		t.Errorf("timestamp rewritten: got %d, want 1000", st.st.LockedAt)
	}
	if len(act.positions) != 1 {
		t.Errorf("actuator driven again: %v", act.positions)
	}
}

func TestCountdownUnlocksExactlyOnceAtZero(t *testing.T) {
	for _, minutes := range []int{1, 2, 15, 99} {
		c, act, _ := newTestController(t, minutes)
		c.TryLock(1000, testTime)

		unlocks := 0
		for i := 0; i < minutes; i++ {
			event, err := c.Tick(testTime.Add(time.Duration(i+1) * time.Minute))
			if err != nil {
				t.Fatalf("minutes=%d tick %d: %v", minutes, i, err)
			}
			if event != nil && event.Type == EventUnlocked {
				unlocks++
			}
			if c.Remaining() < 0 {
				t.Fatalf("minutes=%d: remaining went below zero", minutes)
			}
		}

		if unlocks != 1 {
			t.Errorf("minutes=%d: got %d unlock events, want exactly 1", minutes, unlocks)
		}
		if c.Locked() {
			t.Errorf("minutes=%d: still locked after countdown", minutes)
		}
		if act.last() != PositionUnlock {
			t.Errorf("minutes=%d: actuator at %s, want %s", minutes, act.last(), PositionUnlock)
		}
	}
}

func TestTickPersistsMinutesOnly(t *testing.T) {
	c, _, st := newTestController(t, 15)
	c.TryLock(1000, testTime)

	if _, err := c.Tick(testTime.Add(time.Minute)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(st.minsOnly) != 1 || st.minsOnly[0] != 14 {
		t.Errorf("SaveMinutes calls: got %v, want [14]", st.minsOnly)
	}
	if st.st.LockedAt != 1000 {
		t.Errorf("tick disturbed timestamp: %d", st.st.LockedAt)
	}
}

func TestTickWhileUnlockedIsNoop(t *testing.T) {
	c, _, st := newTestController(t, 15)
	event, err := c.Tick(testTime)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if event != nil {
		t.Error("expected no event")
	}
	if len(st.minsOnly) != 0 {
		t.Error("unlocked tick must not persist")
	}
}

func TestUnlockIdempotent(t *testing.T) {
	c, act, _ := newTestController(t, 15)
	c.TryLock(1000, testTime)

	event, err := c.Unlock(testTime)
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if event == nil || event.Type != EventUnlocked {
		t.Fatalf("expected unlock event, got %+v", event)
	}

	// Second unlock: no event, still drives actuator and persists
	event, err = c.Unlock(testTime)
	if err != nil {
		t.Fatalf("second Unlock: %v", err)
	}
	if event != nil {
		t.Error("expected no event on repeated unlock")
	}
	if c.Locked() || c.Remaining() != 0 {
		t.Errorf("state after unlock: locked=%v remaining=%d", c.Locked(), c.Remaining())
	}
	if act.last() != PositionUnlock {
		t.Errorf("actuator: got %s", act.last())
	}
}

func TestSetDuration(t *testing.T) {
	c, _, _ := newTestController(t, 15)

	if err := c.SetDuration(42); err != nil {
		t.Fatalf("SetDuration(42): %v", err)
	}
	if c.Configured() != 42 {
		t.Errorf("configured: got %d, want 42", c.Configured())
	}

	for _, minutes := range []int{0, -5, 100, 150} {
		if err := c.SetDuration(minutes); err == nil {
			t.Errorf("SetDuration(%d): expected error", minutes)
		}
	}
	if c.Configured() != 42 {
		t.Errorf("rejected command changed state: configured=%d", c.Configured())
	}
}

func TestRecoverOnBootElapsedTime(t *testing.T) {
	// Powered off locked with 10 minutes left at T; powered on at T+420s.
	const lockedAt = 100000
	st := &memStore{st: PersistedState{Locked: true, RemainingMinutes: 10, LockedAt: lockedAt}, valid: true}
	act := &recordActuator{}
	c, err := NewController(act, st, 15)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	event, err := c.RecoverOnBoot(lockedAt+420, testTime)
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event == nil || event.Type != EventLocked {
		t.Fatalf("expected locked event, got %+v", event)
	}
	if !c.Locked() {
		t.Error("should resume locked")
	}
	if c.Remaining() != 3 {
		t.Errorf("remaining: got %d, want 3", c.Remaining())
	}
	if act.last() != PositionLock {
		t.Errorf("actuator: got %s, want %s", act.last(), PositionLock)
	}

	// Adjusted state re-persisted with a fresh timestamp
	if st.st.RemainingMinutes != 3 {
		t.Errorf("persisted remaining: got %d, want 3", st.st.RemainingMinutes)
	}
	if st.st.LockedAt != lockedAt+420 {
		t.Errorf("persisted timestamp: got %d, want %d", st.st.LockedAt, lockedAt+420)
	}
}

func TestRecoverOnBootExpired(t *testing.T) {
	st := &memStore{st: PersistedState{Locked: true, RemainingMinutes: 10, LockedAt: 100000}, valid: true}
	act := &recordActuator{}
	c, _ := NewController(act, st, 15)

	event, err := c.RecoverOnBoot(100000+601, testTime)
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event == nil || event.Type != EventUnlocked {
		t.Fatalf("expected unlock event, got %+v", event)
	}
	if c.Locked() {
		t.Error("should be unlocked")
	}
	if act.last() != PositionUnlock {
		t.Errorf("actuator: got %s", act.last())
	}
	if st.st.Locked {
		t.Error("unlock not persisted")
	}
}

func TestRecoverOnBootIdempotent(t *testing.T) {
	const lockedAt = 100000
	st := &memStore{st: PersistedState{Locked: true, RemainingMinutes: 10, LockedAt: lockedAt}, valid: true}
	c, _ := NewController(&recordActuator{}, st, 15)

	now := uint32(lockedAt + 420)
	if _, err := c.RecoverOnBoot(now, testTime); err != nil {
		t.Fatalf("first RecoverOnBoot: %v", err)
	}
	first := c.Remaining()

	// Same persisted state, same clock reading: no double-decrement
	if _, err := c.RecoverOnBoot(now, testTime); err != nil {
		t.Fatalf("second RecoverOnBoot: %v", err)
	}
	if c.Remaining() != first {
		t.Errorf("remaining changed on repeat recovery: %d -> %d", first, c.Remaining())
	}
	if !c.Locked() {
		t.Error("should still be locked")
	}
}

func TestRecoverOnBootNoValidState(t *testing.T) {
	st := &memStore{valid: false}
	act := &recordActuator{}
	c, _ := NewController(act, st, 15)

	event, err := c.RecoverOnBoot(100000, testTime)
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event != nil {
		t.Errorf("expected no event, got %+v", event)
	}
	if c.Locked() {
		t.Error("should fall back to unlocked")
	}
	if act.last() != PositionUnlock {
		t.Errorf("actuator: got %s", act.last())
	}
}

func TestRecoverOnBootClockWentBackwards(t *testing.T) {
	st := &memStore{st: PersistedState{Locked: true, RemainingMinutes: 10, LockedAt: 100000}, valid: true}
	c, _ := NewController(&recordActuator{}, st, 15)

	// Clock reads earlier than the lock timestamp: no time credited
	if _, err := c.RecoverOnBoot(99000, testTime); err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if c.Remaining() != 10 {
		t.Errorf("remaining: got %d, want 10", c.Remaining())
	}
}

func TestRecoverOnBootLoadError(t *testing.T) {
	st := &memStore{loadErr: errors.New("device failure")}
	c, _ := NewController(&recordActuator{}, st, 15)

	if _, err := c.RecoverOnBoot(100000, testTime); err == nil {
		t.Error("expected error from device failure")
	}
}

func TestDisplayMinutes(t *testing.T) {
	c, _, _ := newTestController(t, 15)

	if got := c.DisplayMinutes(); got != 0 {
		t.Errorf("unlocked display: got %d, want 0", got)
	}

	c.TryLock(1000, testTime)
	if got := c.DisplayMinutes(); got != 15 {
		t.Errorf("locked display: got %d, want 15", got)
	}
}

func TestCounts(t *testing.T) {
	c, _, _ := newTestController(t, 2)
	c.TryLock(1000, testTime)
	c.Tick(testTime.Add(time.Minute))
	c.Tick(testTime.Add(2 * time.Minute))

	counts := c.Counts()
	if counts.Locks != 1 {
		t.Errorf("locks: got %d, want 1", counts.Locks)
	}
	if counts.Unlocks != 1 {
		t.Errorf("unlocks: got %d, want 1", counts.Unlocks)
	}
	if counts.MinuteTicks != 2 {
		t.Errorf("minute ticks: got %d, want 2", counts.MinuteTicks)
	}
}
