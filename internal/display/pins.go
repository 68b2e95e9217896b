package display

// PinConfig names the BCM pins the display is wired to.
type PinConfig struct {
	// Segments are the seven segment lines in order a-g.
	Segments [7]int

	// DigitTens and DigitOnes drive the common-anode transistors for the
	// two digit positions.
	DigitTens int
	DigitOnes int

	// DecimalPoint is the "alive and counting" indicator.
	DecimalPoint int
}

// DefaultPins is the display wiring on the reference build.
var DefaultPins = PinConfig{
	Segments:     [7]int{5, 6, 13, 19, 26, 21, 20},
	DigitTens:    23,
	DigitOnes:    24,
	DecimalPoint: 25,
}
