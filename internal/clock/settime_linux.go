//go:build linux

package clock

import (
	"fmt"
	"syscall"
	"time"
)

// SetTime sets the operating system clock. Requires CAP_SYS_TIME.
func (s *System) SetTime(t uint32) error {
	tv := syscall.NsecToTimeval(int64(t) * int64(time.Second))
	if err := syscall.Settimeofday(&tv); err != nil {
		return fmt.Errorf("settimeofday: %w", err)
	}
	return nil
}
