//go:build linux

package display

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPins drives the display outputs through the Linux GPIO character
// device. Common-anode polarity: a segment (and the decimal point) is lit
// when its line is driven low; a digit is enabled when its anode line is
// driven high.
type RealPins struct {
	chip     *gpiocdev.Chip
	segments [7]*gpiocdev.Line
	digits   [2]*gpiocdev.Line
	dp       *gpiocdev.Line
}

// NewRealPins requests all display lines as outputs in their off state
// (segments and decimal point high, digit enables low).
func NewRealPins(cfg PinConfig) (*RealPins, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPins{chip: chip}
	closeAll := func() {
		for _, l := range p.segments {
			if l != nil {
				l.Close()
			}
		}
		for _, l := range p.digits {
			if l != nil {
				l.Close()
			}
		}
		if p.dp != nil {
			p.dp.Close()
		}
		chip.Close()
	}

	for i, pin := range cfg.Segments {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(1))
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("request segment pin %d: %w", pin, err)
		}
		p.segments[i] = line
	}

	for i, pin := range [2]int{cfg.DigitTens, cfg.DigitOnes} {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("request digit pin %d: %w", pin, err)
		}
		p.digits[i] = line
	}

	dp, err := chip.RequestLine(cfg.DecimalPoint, gpiocdev.AsOutput(1))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("request decimal point pin %d: %w", cfg.DecimalPoint, err)
	}
	p.dp = dp

	return p, nil
}

// SetSegments applies a pattern to the segment lines (lit = low).
func (p *RealPins) SetSegments(pat Pattern) error {
	for i, line := range p.segments {
		v := 1
		if pat.Segment(i) {
			v = 0
		}
		if err := line.SetValue(v); err != nil {
			return fmt.Errorf("set segment %d: %w", i, err)
		}
	}
	return nil
}

// EnableDigit drives a digit's anode line (enabled = high).
func (p *RealPins) EnableDigit(pos int, on bool) error {
	if pos < 0 || pos >= len(p.digits) {
		return fmt.Errorf("digit position %d out of range", pos)
	}
	v := 0
	if on {
		v = 1
	}
	if err := p.digits[pos].SetValue(v); err != nil {
		return fmt.Errorf("enable digit %d: %w", pos, err)
	}
	return nil
}

// SetDecimalPoint drives the decimal-point line (lit = low).
func (p *RealPins) SetDecimalPoint(on bool) error {
	v := 1
	if on {
		v = 0
	}
	if err := p.dp.SetValue(v); err != nil {
		return fmt.Errorf("set decimal point: %w", err)
	}
	return nil
}

// Close releases all display lines, leaving everything off.
func (p *RealPins) Close() error {
	var errs []error

	for i, line := range p.segments {
		if line == nil {
			continue
		}
		line.SetValue(1)
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close segment %d: %w", i, err))
		}
	}
	for i, line := range p.digits {
		if line == nil {
			continue
		}
		line.SetValue(0)
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close digit %d: %w", i, err))
		}
	}
	if p.dp != nil {
		p.dp.SetValue(1)
		if err := p.dp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close decimal point: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
