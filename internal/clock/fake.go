package clock

// Fake is a scripted Clock for tests.
type Fake struct {
	// Unix is the current time returned by Now.
	Unix uint32

	// Running controls IsRunning.
	Running bool

	// NowError, if set, will be returned by Now.
	NowError error

	// SetCalls records every SetTime call.
	SetCalls []uint32

	// SetError, if set, will be returned by SetTime.
	SetError error
}

// NewFake creates a running fake clock at the given unix time.
func NewFake(unix uint32) *Fake {
	return &Fake{Unix: unix, Running: true}
}

// Now returns the scripted time.
func (f *Fake) Now() (uint32, error) {
	if f.NowError != nil {
		return 0, f.NowError
	}
	return f.Unix, nil
}

// IsRunning returns the scripted running state.
func (f *Fake) IsRunning() (bool, error) {
	return f.Running, nil
}

// SetTime records the call and adopts the new time.
func (f *Fake) SetTime(t uint32) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.SetCalls = append(f.SetCalls, t)
	f.Unix = t
	f.Running = true
	return nil
}

// Advance moves the fake clock forward by the given seconds.
func (f *Fake) Advance(seconds uint32) {
	f.Unix += seconds
}
