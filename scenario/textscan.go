package scenario

import "github.com/rlvm-project/rlvm/byteset"

var textoutDelimiters = byteset.TextoutDelimiters()
var doubleByteLead = byteset.DoubleByteLead()

// scanTextout consumes a Textout run starting at data[0], stopping at the
// first delimiter byte (`# $ \n @ !`) or end of data. There is no escape
// or quote handling: a delimiter byte inside `"..."` also ends the run. Shift-JIS
// lead bytes (0x81-0x9F, 0xE0-0xEF) pull their trail byte along
// unconditionally, so a trail byte that happens to equal a delimiter byte
// does not end the run early.
func scanTextout(data []byte) (text []byte, consumed int) {
	i := 0
	for i < len(data) {
		b := data[i]
		if doubleByteLead.Match(b) {
			if i+1 < len(data) {
				i += 2
				continue
			}
			i++
			continue
		}
		if textoutDelimiters.Match(b) {
			break
		}
		i++
	}
	return data[:i], i
}
