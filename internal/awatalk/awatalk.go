// Package awatalk extracts the hidden bitstream from AwaTalk prose
// (spec.md §4.6): case-insensitive " awa" and "wa" runs encode 0 and 1 bits,
// everything else is narrative filler and is skipped.
package awatalk

import (
	"github.com/pkg/errors"

	"awa5/internal/bitcode"
)

// ErrNoHeader is returned when the source does not begin with "awa"
// (case-insensitive).
var ErrNoHeader = errors.New("awatalk: missing \"awa\" header")

const head = "awa"
const zeroPattern = " awa"
const onePattern = "wa"

// matcher advances through a fixed byte pattern one input byte at a time,
// case-insensitively. A mismatched byte is simply ignored; the matcher does
// not restart, since AwaTalk interleaves pattern characters with arbitrary
// prose.
type matcher struct {
	pattern string
	index   int
}

func newMatcher(pattern string) matcher {
	return matcher{pattern: pattern}
}

// push reports whether b completes the pattern.
func (m *matcher) push(b byte) bool {
	if eqFold(m.pattern[m.index], b) {
		m.index++
		return m.index == len(m.pattern)
	}
	return false
}

func (m *matcher) reset() {
	m.index = 0
}

func eqFold(a, b byte) bool {
	return lower(a) == lower(b)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Extract strips the "awa" header and decodes the remaining prose into a
// packed bit buffer, returning the buffer and the number of meaningful bits.
// Any byte that extends neither the zero nor the one pattern is skipped.
func Extract(src []byte) ([]byte, int, error) {
	if len(src) < len(head) {
		return nil, 0, ErrNoHeader
	}
	for i := 0; i < len(head); i++ {
		if !eqFold(src[i], head[i]) {
			return nil, 0, ErrNoHeader
		}
	}
	body := src[len(head):]

	w := bitcode.NewWriter()
	zero, one := newMatcher(zeroPattern), newMatcher(onePattern)
	for _, b := range body {
		matched := false
		if zero.push(b) {
			w.WriteBits(0, 1)
			matched = true
		} else if one.push(b) {
			w.WriteBits(1, 1)
			matched = true
		}
		if matched {
			zero.reset()
			one.reset()
		}
	}
	return w.Bytes(), w.BitLen(), nil
}
