// Package logic contains pure business logic for the time-locked box.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time / unix-seconds parameters.
package logic

import "time"

// State represents the logical state of the box lock.
type State string

const (
	StateLocked   State = "LOCKED"
	StateUnlocked State = "UNLOCKED"
)

// StateOf converts the internal locked flag to a State.
func StateOf(locked bool) State {
	if locked {
		return StateLocked
	}
	return StateUnlocked
}

// EventType represents a lock state transition event.
type EventType string

const (
	EventLocked   EventType = "LOCKED"
	EventUnlocked EventType = "UNLOCKED"
)

// Event represents a lock transition to be published.
type Event struct {
	Timestamp        time.Time
	Type             EventType
	RemainingMinutes int
}

// PersistedState is the durable portion of the lock state.
// LockedAt is the RTC reading (unix seconds) captured when the box locked;
// it is meaningless while Locked is false.
type PersistedState struct {
	Locked           bool
	RemainingMinutes int
	LockedAt         uint32
}

// Edge is the debounced switch transition for one sample.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeClosed
	EdgeOpened
)

// EventCounts tracks the number of each transition since startup.
type EventCounts struct {
	Locks       int
	Unlocks     int
	MinuteTicks int
}

// MinDuration and MaxDuration bound the configurable lock duration
// (and the single persisted minutes byte).
const (
	MinDuration = 1
	MaxDuration = 99
)
