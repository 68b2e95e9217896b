package display

import "fmt"

// PinOp records a single operation against FakePins.
type PinOp struct {
	// Kind is "segments", "digit", or "dp".
	Kind string

	// Pattern is set for "segments" ops.
	Pattern Pattern

	// Pos and On are set for "digit" ops; On alone for "dp" ops.
	Pos int
	On  bool
}

// FakePins records every output operation for test assertions.
type FakePins struct {
	Ops    []PinOp
	Err    error
	Closed bool
}

// NewFakePins creates a FakePins.
func NewFakePins() *FakePins {
	return &FakePins{}
}

// SetSegments records the applied pattern.
func (f *FakePins) SetSegments(p Pattern) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, PinOp{Kind: "segments", Pattern: p})
	return nil
}

// EnableDigit records the digit-enable change.
func (f *FakePins) EnableDigit(pos int, on bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, PinOp{Kind: "digit", Pos: pos, On: on})
	return nil
}

// SetDecimalPoint records the decimal-point change.
func (f *FakePins) SetDecimalPoint(on bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, PinOp{Kind: "dp", On: on})
	return nil
}

// Close marks the pins as closed.
func (f *FakePins) Close() error {
	f.Closed = true
	return nil
}

// FakeDriver records refreshed frames for loop-level tests.
type FakeDriver struct {
	Frames  []Frame
	Decimal []bool
	Blanked bool
	Closed  bool
	Err     error
}

// NewFakeDriver creates a FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Refresh records the frame and decimal-point state.
func (f *FakeDriver) Refresh(fr Frame, decimalPoint bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Frames = append(f.Frames, fr)
	f.Decimal = append(f.Decimal, decimalPoint)
	return nil
}

// Blank records that the display was blanked.
func (f *FakeDriver) Blank() error {
	if f.Err != nil {
		return f.Err
	}
	f.Blanked = true
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// LastFrame returns the most recently refreshed frame.
func (f *FakeDriver) LastFrame() (Frame, error) {
	if len(f.Frames) == 0 {
		return Frame{}, fmt.Errorf("no frames refreshed")
	}
	return f.Frames[len(f.Frames)-1], nil
}
