//go:build !linux

package clock

import "errors"

// SetTime is not supported on non-Linux platforms.
func (s *System) SetTime(t uint32) error {
	return errors.New("clock: setting system time requires Linux")
}
