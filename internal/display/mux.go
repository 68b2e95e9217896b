package display

import "time"

// Digit positions on the shared segment lines.
const (
	DigitTens = 0
	DigitOnes = 1
)

// Pins is the raw output boundary the multiplexer drives.
type Pins interface {
	// SetSegments applies a segment pattern to the shared segment lines.
	SetSegments(p Pattern) error

	// EnableDigit turns one digit position's enable line on or off.
	EnableDigit(pos int, on bool) error

	// SetDecimalPoint turns the decimal-point output on or off.
	SetDecimalPoint(on bool) error

	// Close releases the output lines.
	Close() error
}

// Driver is the display surface the control loop sees.
type Driver interface {
	Refresh(f Frame, decimalPoint bool) error
	Blank() error
	Close() error
}

// DefaultHold is how long each digit stays lit per refresh. Long enough
// for persistence of vision at the loop's refresh rate, short enough not
// to perceptibly stall switch and command handling.
const DefaultHold = 4 * time.Millisecond

// Mux time-slices the two digit positions on the shared segment lines.
// The busy-wait hold is the digit's illumination time, so it stays a
// plain sleep; tests inject a no-op sleep.
type Mux struct {
	pins  Pins
	hold  time.Duration
	sleep func(time.Duration)
}

// NewMux creates a multiplexer over the given pins with the given
// per-digit hold.
func NewMux(pins Pins, hold time.Duration) *Mux {
	return &Mux{pins: pins, hold: hold, sleep: time.Sleep}
}

// SetSleep replaces the hold sleep function. For tests.
func (m *Mux) SetSleep(sleep func(time.Duration)) {
	m.sleep = sleep
}

// Refresh lights each digit in turn for the hold duration and applies the
// decimal-point state.
func (m *Mux) Refresh(f Frame, decimalPoint bool) error {
	if err := m.pins.SetDecimalPoint(decimalPoint); err != nil {
		return err
	}

	digits := [2]int{f.Tens, f.Ones}
	for pos, digit := range digits {
		if err := m.pins.SetSegments(Encode(digit)); err != nil {
			return err
		}
		if err := m.pins.EnableDigit(pos, true); err != nil {
			return err
		}
		m.sleep(m.hold)
		if err := m.pins.EnableDigit(pos, false); err != nil {
			return err
		}
	}
	return nil
}

// Blank turns every output off.
func (m *Mux) Blank() error {
	if err := m.pins.SetDecimalPoint(false); err != nil {
		return err
	}
	if err := m.pins.SetSegments(0); err != nil {
		return err
	}
	for pos := DigitTens; pos <= DigitOnes; pos++ {
		if err := m.pins.EnableDigit(pos, false); err != nil {
			return err
		}
	}
	return nil
}

// Close blanks the display and releases the pins.
func (m *Mux) Close() error {
	if err := m.Blank(); err != nil {
		m.pins.Close()
		return err
	}
	return m.pins.Close()
}
