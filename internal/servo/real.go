//go:build linux

package servo

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/timebox/internal/logic"
)

// RealActuator bit-bangs servo pulses on a GPIO line through the Linux
// GPIO character device. SetPosition blocks for the travel burst
// (pulseCount frames, ~0.8 s); that happens only on lock/unlock events,
// never on the refresh path.
type RealActuator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealActuator creates an actuator on the given pin.
func NewRealActuator(pin int) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request servo pin %d: %w", pin, err)
	}

	return &RealActuator{chip: chip, line: line}, nil
}

// SetPosition sends a burst of position pulses to move the horn.
func (a *RealActuator) SetPosition(pos logic.Position) error {
	width, err := pulseFor(pos)
	if err != nil {
		return err
	}

	for i := 0; i < pulseCount; i++ {
		if err := a.line.SetValue(1); err != nil {
			return fmt.Errorf("servo pulse high: %w", err)
		}
		time.Sleep(width)
		if err := a.line.SetValue(0); err != nil {
			return fmt.Errorf("servo pulse low: %w", err)
		}
		time.Sleep(framePeriod - width)
	}
	return nil
}

// Close releases the servo line, leaving it low (no pulses, horn holds by
// friction / the lock's detent).
func (a *RealActuator) Close() error {
	var errs []error

	if a.line != nil {
		a.line.SetValue(0)
		if err := a.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close servo pin: %w", err))
		}
	}
	if a.chip != nil {
		if err := a.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func pulseFor(pos logic.Position) (time.Duration, error) {
	switch pos {
	case logic.PositionLock:
		return pulseLock, nil
	case logic.PositionUnlock:
		return pulseUnlock, nil
	default:
		return 0, fmt.Errorf("unknown servo position %q", pos)
	}
}
