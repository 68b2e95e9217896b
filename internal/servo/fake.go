package servo

import "github.com/sweeney/timebox/internal/logic"

// FakeActuator records positions for test assertions.
type FakeActuator struct {
	// Positions contains every SetPosition call in order.
	Positions []logic.Position

	// Err, if set, will be returned by SetPosition.
	Err error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeActuator creates a FakeActuator.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// SetPosition records the requested position.
func (f *FakeActuator) SetPosition(pos logic.Position) error {
	if f.Err != nil {
		return f.Err
	}
	f.Positions = append(f.Positions, pos)
	return nil
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent position, or "" if none.
func (f *FakeActuator) Last() logic.Position {
	if len(f.Positions) == 0 {
		return ""
	}
	return f.Positions[len(f.Positions)-1]
}
