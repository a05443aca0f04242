package byteset

// ShiftJISLead returns a Matcher for the lead byte of a two-byte Shift-JIS
// character, as used by the scenario textout scanner: 0x81-0x9F and
// 0xE0-0xEF.
func ShiftJISLead() Matcher {
	return Or(
		Ranges(Range{Lo: 0x81, Hi: 0x9f}),
		Ranges(Range{Lo: 0xe0, Hi: 0xef}),
	).Optimize()
}

// DoubleByteLead is an alias for ShiftJISLead kept distinct so call sites
// can express intent (textout scanning vs. generic two-byte detection)
// without reaching past the package boundary for the same Matcher twice.
func DoubleByteLead() Matcher {
	return ShiftJISLead()
}

// TextoutDelimiters returns a Matcher for the bytes that terminate a
// Textout element at top nesting: '#', '$', '\n', '@', '!'.
func TextoutDelimiters() Matcher {
	return Or(
		Exactly('#'),
		Exactly('$'),
		Exactly('\n'),
		Exactly('@'),
		Exactly('!'),
	).Optimize()
}
