// Package clock abstracts the real-time clock. The control loop only ever
// sees unix seconds as uint32 — the same width the persistence layer
// stores — so a reading that no longer fits is surfaced as an error
// instead of wrapping silently.
package clock

// Clock is the real-time clock capability the box depends on.
type Clock interface {
	// Now returns the current time as unix seconds.
	Now() (uint32, error)

	// IsRunning reports whether the clock holds trusted time (i.e. it has
	// been set at some point and is ticking).
	IsRunning() (bool, error)

	// SetTime sets the clock to the given unix seconds.
	SetTime(t uint32) error
}
