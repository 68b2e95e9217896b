package logic

import "time"

// Ticker converts wall-clock samples into whole-second and whole-minute
// boundary counts for the decimal-point blink and the countdown decrement.
// Boundaries are measured from the moment of the last Reset (the lock
// event), so the first minute tick lands one full minute after locking.
type Ticker struct {
	lastSecond        time.Time
	secondsIntoMinute int
}

// NewTicker creates a ticker with boundaries measured from start.
func NewTicker(start time.Time) *Ticker {
	return &Ticker{lastSecond: start}
}

// Reset re-anchors the second and minute boundaries at now.
func (t *Ticker) Reset(now time.Time) {
	t.lastSecond = now
	t.secondsIntoMinute = 0
}

// Advance returns how many whole seconds and whole minutes elapsed since
// the previous call. Both are usually 0 or 1; larger values mean the loop
// stalled and the caller should apply each boundary in turn.
func (t *Ticker) Advance(now time.Time) (seconds, minutes int) {
	for now.Sub(t.lastSecond) >= time.Second {
		t.lastSecond = t.lastSecond.Add(time.Second)
		seconds++
		t.secondsIntoMinute++
		if t.secondsIntoMinute >= 60 {
			t.secondsIntoMinute = 0
			minutes++
		}
	}
	return seconds, minutes
}
