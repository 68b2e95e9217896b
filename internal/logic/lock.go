package logic

import (
	"fmt"
	"time"
)

// Position is a named actuator position.
type Position string

const (
	PositionLock   Position = "LOCK"
	PositionUnlock Position = "UNLOCK"
)

// Actuator drives the physical lock.
type Actuator interface {
	SetPosition(pos Position) error
}

// Store persists lock state across power loss.
// Save writes the full record; SaveMinutes touches only the remaining-minutes
// byte so a minute tick does not disturb the lock timestamp. Load returns
// ok=false when no valid prior state exists (never written, or the stored
// bytes fail validation); err is reserved for device failures.
type Store interface {
	Save(st PersistedState) error
	SaveMinutes(minutes int) error
	Load() (st PersistedState, ok bool, err error)
}

// Controller is the lock state machine. It owns the locked flag and the
// remaining minutes, drives the actuator, and persists every
// state-affecting transition. Not safe for concurrent use — it belongs to
// the control loop.
type Controller struct {
	actuator   Actuator
	store      Store
	locked     bool
	remaining  int
	configured int
	counts     EventCounts
}

// NewController creates a controller in the UNLOCKED state with the given
// default lock duration. The duration must be within [MinDuration, MaxDuration].
func NewController(actuator Actuator, store Store, configuredMinutes int) (*Controller, error) {
	c := &Controller{actuator: actuator, store: store}
	if err := c.SetDuration(configuredMinutes); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDuration sets the lock duration applied on the next lock.
// Values outside [MinDuration, MaxDuration] are rejected without changing state.
func (c *Controller) SetDuration(minutes int) error {
	if minutes < MinDuration || minutes > MaxDuration {
		return fmt.Errorf("lock duration %d out of range [%d,%d]", minutes, MinDuration, MaxDuration)
	}
	c.configured = minutes
	return nil
}

// TryLock locks the box: remaining time is set to the configured duration,
// the actuator is driven to LOCK, and {locked, remaining, rtcNow} is
// persisted. A no-op (nil event, nil error) when already locked.
func (c *Controller) TryLock(rtcNow uint32, at time.Time) (*Event, error) {
	if c.locked {
		return nil, nil
	}

	c.locked = true
	c.remaining = c.configured

	if err := c.actuator.SetPosition(PositionLock); err != nil {
		return nil, fmt.Errorf("drive actuator to lock: %w", err)
	}
	if err := c.store.Save(PersistedState{Locked: true, RemainingMinutes: c.remaining, LockedAt: rtcNow}); err != nil {
		return nil, fmt.Errorf("persist lock state: %w", err)
	}

	c.counts.Locks++
	return &Event{Timestamp: at, Type: EventLocked, RemainingMinutes: c.remaining}, nil
}

// Tick handles one whole-minute boundary while locked: the remaining time
// is decremented and persisted, and the box unlocks when it reaches zero.
// A no-op when unlocked.
func (c *Controller) Tick(at time.Time) (*Event, error) {
	if !c.locked {
		return nil, nil
	}

	c.remaining--
	c.counts.MinuteTicks++

	if c.remaining <= 0 {
		return c.Unlock(at)
	}

	if err := c.store.SaveMinutes(c.remaining); err != nil {
		return nil, fmt.Errorf("persist remaining time: %w", err)
	}
	return nil, nil
}

// Unlock drives the actuator to UNLOCK and persists {unlocked, 0}.
// Valid from any state and idempotent; an event is returned only on an
// actual LOCKED -> UNLOCKED transition.
func (c *Controller) Unlock(at time.Time) (*Event, error) {
	wasLocked := c.locked
	c.locked = false
	c.remaining = 0

	if err := c.actuator.SetPosition(PositionUnlock); err != nil {
		return nil, fmt.Errorf("drive actuator to unlock: %w", err)
	}
	if err := c.store.Save(PersistedState{Locked: false, RemainingMinutes: 0}); err != nil {
		return nil, fmt.Errorf("persist unlock state: %w", err)
	}

	if !wasLocked {
		return nil, nil
	}
	c.counts.Unlocks++
	return &Event{Timestamp: at, Type: EventUnlocked, RemainingMinutes: 0}, nil
}

// RecoverOnBoot restores the persisted state, crediting the real time that
// elapsed while powered off. With no valid prior state the box comes up
// unlocked. With leftover minutes the adjusted value is re-persisted along
// with a fresh timestamp, so a second power loss does not replay the same
// elapsed-time subtraction. Idempotent: recovering again with the same
// clock reading yields the same state.
func (c *Controller) RecoverOnBoot(rtcNow uint32, at time.Time) (*Event, error) {
	st, ok, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load persisted state: %w", err)
	}
	if !ok || !st.Locked {
		return c.Unlock(at)
	}

	elapsed := int64(rtcNow) - int64(st.LockedAt)
	if elapsed < 0 {
		// Clock moved backwards since the lock; count no elapsed time.
		elapsed = 0
	}
	adjusted := st.RemainingMinutes - int(elapsed/60)
	if adjusted <= 0 {
		c.locked = true // so Unlock reports the transition
		return c.Unlock(at)
	}

	c.locked = true
	c.remaining = adjusted

	if err := c.actuator.SetPosition(PositionLock); err != nil {
		return nil, fmt.Errorf("drive actuator to lock: %w", err)
	}
	if err := c.store.Save(PersistedState{Locked: true, RemainingMinutes: adjusted, LockedAt: rtcNow}); err != nil {
		return nil, fmt.Errorf("persist recovered state: %w", err)
	}

	return &Event{Timestamp: at, Type: EventLocked, RemainingMinutes: adjusted}, nil
}

// Locked returns whether the box is currently locked.
func (c *Controller) Locked() bool {
	return c.locked
}

// State returns the current state as a State value.
func (c *Controller) State() State {
	return StateOf(c.locked)
}

// Remaining returns the remaining lock time in minutes (0 while unlocked).
func (c *Controller) Remaining() int {
	return c.remaining
}

// Configured returns the configured lock duration in minutes.
func (c *Controller) Configured() int {
	return c.configured
}

// DisplayMinutes returns the value for the two-digit display: the remaining
// minutes clamped to 0-99, or 0 while unlocked.
func (c *Controller) DisplayMinutes() int {
	if !c.locked {
		return 0
	}
	if c.remaining < 0 {
		return 0
	}
	if c.remaining > 99 {
		return 99
	}
	return c.remaining
}

// Counts returns the transition counts since startup.
func (c *Controller) Counts() EventCounts {
	return c.counts
}
