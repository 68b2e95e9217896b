// Package display drives the two-digit seven-segment display: a fixed
// segment encoding table, a persistence-of-vision multiplexer, and the
// real/fake pin implementations behind it.
package display

// Pattern is a 7-bit segment pattern, one bit per segment a-g
// (bit 0 = a ... bit 6 = g). A set bit means the segment is lit; the
// common-anode polarity inversion (lit = line driven low) happens at the
// pin layer, not here.
type Pattern byte

// segmentTable maps digits 0-9 to their segment patterns.
var segmentTable = [10]Pattern{
	0x3F, // 0: abcdef
	0x06, // 1: bc
	0x5B, // 2: abdeg
	0x4F, // 3: abcdg
	0x66, // 4: bcfg
	0x6D, // 5: acdfg
	0x7D, // 6: acdefg
	0x07, // 7: abc
	0x7F, // 8: abcdefg
	0x6F, // 9: abcdfg
}

// Encode returns the segment pattern for a digit 0-9.
// Out-of-range digits render blank.
func Encode(digit int) Pattern {
	if digit < 0 || digit > 9 {
		return 0
	}
	return segmentTable[digit]
}

// Segment reports whether segment i (0 = a ... 6 = g) is lit in p.
func (p Pattern) Segment(i int) bool {
	return p&(1<<uint(i)) != 0
}

// Frame is one display refresh worth of digits.
type Frame struct {
	Tens int
	Ones int
}

// FrameFor splits a minute count into display digits, clamped to 0-99.
func FrameFor(minutes int) Frame {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 99 {
		minutes = 99
	}
	return Frame{Tens: minutes / 10, Ones: minutes % 10}
}
