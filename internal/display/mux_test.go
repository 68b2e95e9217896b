package display

import (
	"testing"
	"time"
)

func newTestMux(pins *FakePins) (*Mux, *[]time.Duration) {
	m := NewMux(pins, DefaultHold)
	var sleeps []time.Duration
	m.SetSleep(func(d time.Duration) {
		sleeps = append(sleeps, d)
	})
	return m, &sleeps
}

func TestRefreshSequence(t *testing.T) {
	pins := NewFakePins()
	m, sleeps := newTestMux(pins)

	if err := m.Refresh(FrameFor(42), true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	want := []PinOp{
		{Kind: "dp", On: true},
		{Kind: "segments", Pattern: Encode(4)},
		{Kind: "digit", Pos: DigitTens, On: true},
		{Kind: "digit", Pos: DigitTens, On: false},
		{Kind: "segments", Pattern: Encode(2)},
		{Kind: "digit", Pos: DigitOnes, On: true},
		{Kind: "digit", Pos: DigitOnes, On: false},
	}
	if len(pins.Ops) != len(want) {
		t.Fatalf("ops: got %d, want %d (%+v)", len(pins.Ops), len(want), pins.Ops)
	}
	for i, op := range want {
		if pins.Ops[i] != op {
			t.Errorf("op %d: got %+v, want %+v", i, pins.Ops[i], op)
		}
	}

	// One hold per digit
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps: got %d, want 2", len(*sleeps))
	}
	for i, d := range *sleeps {
		if d != DefaultHold {
			t.Errorf("sleep %d: got %v, want %v", i, d, DefaultHold)
		}
	}
}

func TestRefreshDigitsNeverSimultaneous(t *testing.T) {
	pins := NewFakePins()
	m, _ := newTestMux(pins)

	if err := m.Refresh(FrameFor(88), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	enabled := map[int]bool{}
	for _, op := range pins.Ops {
		if op.Kind != "digit" {
			continue
		}
		enabled[op.Pos] = op.On
		count := 0
		for _, on := range enabled {
			if on {
				count++
			}
		}
		if count > 1 {
			t.Fatalf("both digits enabled at once: %+v", pins.Ops)
		}
	}
}

func TestRefreshDecimalPoint(t *testing.T) {
	pins := NewFakePins()
	m, _ := newTestMux(pins)

	m.Refresh(FrameFor(1), false)
	if pins.Ops[0] != (PinOp{Kind: "dp", On: false}) {
		t.Errorf("dp op: got %+v", pins.Ops[0])
	}

	pins.Ops = nil
	m.Refresh(FrameFor(1), true)
	if pins.Ops[0] != (PinOp{Kind: "dp", On: true}) {
		t.Errorf("dp op: got %+v", pins.Ops[0])
	}
}

func TestBlank(t *testing.T) {
	pins := NewFakePins()
	m, sleeps := newTestMux(pins)

	if err := m.Blank(); err != nil {
		t.Fatalf("Blank: %v", err)
	}

	if len(*sleeps) != 0 {
		t.Error("blank must not hold")
	}

	var sawSegmentsOff, sawDPOff bool
	digitsOff := map[int]bool{}
	for _, op := range pins.Ops {
		switch op.Kind {
		case "segments":
			sawSegmentsOff = op.Pattern == 0
		case "dp":
			sawDPOff = !op.On
		case "digit":
			digitsOff[op.Pos] = !op.On
		}
	}
	if !sawSegmentsOff || !sawDPOff || !digitsOff[DigitTens] || !digitsOff[DigitOnes] {
		t.Errorf("blank incomplete: %+v", pins.Ops)
	}
}

func TestCloseBlanksAndReleases(t *testing.T) {
	pins := NewFakePins()
	m, _ := newTestMux(pins)

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pins.Closed {
		t.Error("pins not released")
	}
}
