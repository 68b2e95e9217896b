package gpio

import "errors"

// FakeSwitch is a test double that returns scripted switch samples.
type FakeSwitch struct {
	// Samples contains scripted closed-states to return.
	// Each call to Read() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeSwitch creates a FakeSwitch with the given samples.
func NewFakeSwitch(samples []bool) *FakeSwitch {
	return &FakeSwitch{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSwitch) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the switch as closed.
func (f *FakeSwitch) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the switch to the beginning of samples.
func (f *FakeSwitch) Reset() {
	f.index = 0
	f.Closed = false
}
