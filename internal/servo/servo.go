// Package servo drives the lock actuator: a hobby servo moved between two
// named positions by 50 Hz pulses on a GPIO line.
package servo

import (
	"time"

	"github.com/sweeney/timebox/internal/logic"
)

// Actuator moves the lock between its named positions.
// Implementations satisfy logic.Actuator plus resource release.
type Actuator interface {
	SetPosition(pos logic.Position) error
	Close() error
}

// DefaultPinServo is the servo signal pin (BCM numbering).
const DefaultPinServo = 18

// Servo pulse timing. A 1.0 ms pulse parks the horn at the unlock stop,
// 2.0 ms at the lock stop; pulseCount frames at 20 ms give the horn time
// to travel before the signal stops.
const (
	framePeriod = 20 * time.Millisecond
	pulseUnlock = 1000 * time.Microsecond
	pulseLock   = 2000 * time.Microsecond
	pulseCount  = 40
)
