//go:build !linux

package display

import "errors"

// RealPins is not available on non-Linux platforms.
type RealPins struct{}

// NewRealPins returns an error on non-Linux platforms.
func NewRealPins(cfg PinConfig) (*RealPins, error) {
	return nil, errors.New("display: not supported on this platform (requires Linux)")
}

func (p *RealPins) SetSegments(pat Pattern) error { return errors.New("display: not supported") }

func (p *RealPins) EnableDigit(pos int, on bool) error { return errors.New("display: not supported") }

func (p *RealPins) SetDecimalPoint(on bool) error { return errors.New("display: not supported") }

func (p *RealPins) Close() error { return nil }
