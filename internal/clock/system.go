package clock

import (
	"fmt"
	"math"
	"time"
)

// System reads the operating system clock (kept by the Pi's hwclock/NTP).
// The clock counts as running once it is at or past floor — a reading
// before the floor means it was never set and still holds the epoch-ish
// default from early boot.
type System struct {
	floor uint32
}

// NewSystem creates a System clock with the given plausibility floor
// (typically the build timestamp).
func NewSystem(floor uint32) *System {
	return &System{floor: floor}
}

// Now returns the current unix time.
func (s *System) Now() (uint32, error) {
	u := time.Now().Unix()
	if u < 0 || u > math.MaxUint32 {
		return 0, fmt.Errorf("system time %d outside uint32 range", u)
	}
	return uint32(u), nil
}

// IsRunning reports whether the system clock holds plausible time.
func (s *System) IsRunning() (bool, error) {
	now, err := s.Now()
	if err != nil {
		return false, err
	}
	return now >= s.floor, nil
}
