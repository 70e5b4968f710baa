// Package awascii implements the 6-bit AwaSCII character set and its
// bidirectional mapping to ASCII.
package awascii

// AwaSCII is a 6-bit character code in the range [0, 63].
type AwaSCII uint8

// toASCII is the fixed 64-entry lookup table from AwaSCII ordinal to ASCII byte.
var toASCII = [64]byte{
	'A', 'W', 'a', 'w', 'J', 'E', 'L', 'Y', 'H', 'O', 'S', 'I', 'U', 'M', 'j', 'e',
	'l', 'y', 'h', 'o', 's', 'i', 'u', 'm', 'P', 'C', 'N', 'T', 'p', 'c', 'n', 't',
	'B', 'D', 'F', 'G', 'R', 'b', 'd', 'f', 'g', 'r', '0', '1', '2', '3', '4', '5',
	'6', '7', '8', '9', ' ', '.', ',', '!', '`', '(', ')', '~', '_', '/', ';', '\n',
}

// fromASCII maps an ASCII byte to its AwaSCII ordinal + 1, 0 meaning "not representable".
var fromASCII [128]uint8

func init() {
	for awa, ascii := range toASCII {
		fromASCII[ascii] = uint8(awa) + 1
	}
}

// New constructs an AwaSCII value, failing if it does not fit in 6 bits.
func New(v uint8) (AwaSCII, bool) {
	if v >= 64 {
		return 0, false
	}
	return AwaSCII(v), true
}

// FromASCII converts an ASCII byte into AwaSCII, returning false if the byte
// has no AwaSCII representation.
func FromASCII(b byte) (AwaSCII, bool) {
	if b >= 128 {
		return 0, false
	}
	idx := fromASCII[b]
	if idx == 0 {
		return 0, false
	}
	return AwaSCII(idx - 1), true
}

// ToASCII returns the ASCII byte this AwaSCII character represents.
func (a AwaSCII) ToASCII() byte {
	return toASCII[a]
}

// String renders the character as its ASCII representative.
func (a AwaSCII) String() string {
	return string(rune(a.ToASCII()))
}
