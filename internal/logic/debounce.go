package logic

import "time"

// Debouncer filters the raw lid-switch samples into stable transitions.
// A single early bounce resets the stability timer; output edges are
// consumed once per transition, never re-emitted while the switch is held.
type Debouncer struct {
	debounceDuration time.Duration
	stable           bool // true = lid closed
	baselined        bool
	pending          bool
	hasPending       bool
	pendingSince     time.Time
}

// NewDebouncer creates a debouncer with the given stability window.
func NewDebouncer(debounceDuration time.Duration) *Debouncer {
	return &Debouncer{debounceDuration: debounceDuration}
}

// Process takes a raw switch sample and returns the edge it produced, if any.
// No edges are emitted until a baseline is established, so a lid that starts
// closed at boot does not fire a spurious EdgeClosed.
func (d *Debouncer) Process(raw bool, now time.Time) Edge {
	if !d.baselined {
		if !d.hasPending || d.pending != raw {
			// Start (or restart) observing
			d.pending = raw
			d.hasPending = true
			d.pendingSince = now
			return EdgeNone
		}
		if now.Sub(d.pendingSince) >= d.debounceDuration {
			d.stable = raw
			d.baselined = true
			d.hasPending = false
		}
		return EdgeNone
	}

	if raw == d.stable {
		// No change from stable state, clear any pending bounce
		d.hasPending = false
		return EdgeNone
	}

	if !d.hasPending || d.pending != raw {
		d.pending = raw
		d.hasPending = true
		d.pendingSince = now
		return EdgeNone
	}

	if now.Sub(d.pendingSince) >= d.debounceDuration {
		d.stable = raw
		d.hasPending = false
		if raw {
			return EdgeClosed
		}
		return EdgeOpened
	}

	return EdgeNone
}

// Baselined returns whether the debouncer has established a baseline.
func (d *Debouncer) Baselined() bool {
	return d.baselined
}

// Closed returns the current stable switch state (true = lid closed).
func (d *Debouncer) Closed() bool {
	return d.stable
}
