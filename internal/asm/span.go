// Package asm assembles AwaTism mnemonic source into a Program: a line
// parser, a small macro table (`!chr`, `!str`, `!include`), and the span
// tracking both use to report diagnostics (spec.md §6).
package asm

import (
	"fmt"
	"strconv"

	"awa5/internal/awaerr"
	"awa5/internal/awascii"
	"awa5/internal/bitcode"
)

// Span is a half-open byte range within one line of one source file.
type Span struct {
	File  string
	Line  int
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d..%d", s.File, s.Line, s.Start, s.End)
}

func (s Span) err(msg string) error {
	return awaerr.New(awaerr.AssemblyError, msg).WithSpan(s.File, s.Line, s.Start)
}

// Spanned pairs a byte slice with the Span it was read from, so every
// split/trim keeps error messages pointing at the right column.
type Spanned struct {
	Item []byte
	Span Span
}

func fromLine(file string, line int, raw []byte) Spanned {
	return Spanned{Item: raw, Span: Span{File: file, Line: line, Start: 0, End: len(raw)}}
}

func isAsciiSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func (s Spanned) splitAt(mid int) (Spanned, Spanned) {
	left := Spanned{Item: s.Item[:mid], Span: Span{File: s.Span.File, Line: s.Span.Line, Start: s.Span.Start, End: s.Span.Start + mid}}
	right := Spanned{Item: s.Item[mid:], Span: Span{File: s.Span.File, Line: s.Span.Line, Start: s.Span.Start + mid, End: s.Span.End}}
	return left, right
}

// SplitAtChar splits at the first occurrence of c, dropping c itself from
// the remainder (like the original's split_at_char); if c is absent the
// remainder is empty.
func (s Spanned) SplitAtChar(c byte) (before, after Spanned) {
	mid := 0
	for mid < len(s.Item) && s.Item[mid] != c {
		mid++
	}
	before, after = s.splitAt(mid)
	if mid < len(s.Item) {
		_, after = after.splitAt(1)
	}
	return before, after
}

// SplitAtWhitespace splits at the first ASCII whitespace byte, or at the
// end of the slice if there is none.
func (s Spanned) SplitAtWhitespace() (before, after Spanned) {
	mid := 0
	for mid < len(s.Item) && !isAsciiSpace(s.Item[mid]) {
		mid++
	}
	return s.splitAt(mid)
}

func (s *Spanned) TrimStart() {
	n := 0
	for n < len(s.Item) && isAsciiSpace(s.Item[n]) {
		n++
	}
	_, right := s.splitAt(n)
	*s = right
}

func (s *Spanned) TrimEnd() {
	n := len(s.Item)
	for n > 0 && isAsciiSpace(s.Item[n-1]) {
		n--
	}
	left, _ := s.splitAt(n)
	*s = left
}

func (s *Spanned) Trim() {
	s.TrimStart()
	s.TrimEnd()
}

func (s Spanned) IsEmpty() bool { return len(s.Item) == 0 }

func (s Spanned) First() (byte, bool) {
	if len(s.Item) == 0 {
		return 0, false
	}
	return s.Item[0], true
}

// ParseI8 parses the whole span as a signed 8-bit decimal, the operand
// width of Blow (spec.md §3.3).
func (s Spanned) ParseI8() (int8, error) {
	n, err := strconv.ParseInt(string(s.Item), 10, 8)
	if err != nil {
		return 0, s.Span.err(err.Error())
	}
	return int8(n), nil
}

// ParseU5 parses the whole span as a 5-bit decimal, the operand width of
// Submerge/Surround/Label/Jump.
func (s Spanned) ParseU5() (bitcode.U5, error) {
	u, err := bitcode.ParseU5(string(s.Item))
	if err != nil {
		return 0, s.Span.err(err.Error())
	}
	return u, nil
}

// awaNewline is the AwaSCII ordinal whose ASCII rendering is '\n' (the
// table's last entry), used by the `\n` escape inside `!chr`/`!str`.
const awaNewline = 63

// TakeAwascii pops one AwaSCII character off the *end* of the remaining
// span (so repeated calls in a loop build a chain whose Blow order comes
// out front-to-back once Surround wraps it, since the last Blow ends up on
// top and Surround keeps top-first order). A literal `\n`
// (backslash then 'n') pops as one newline character; ok is false once
// the span is exhausted.
func (s *Spanned) TakeAwascii() (c awascii.AwaSCII, ok bool, err error) {
	n := len(s.Item)
	if n == 0 {
		return 0, false, nil
	}
	if n >= 2 && s.Item[n-1] == 'n' && s.Item[n-2] == '\\' {
		left, _ := s.splitAt(n - 2)
		*s = left
		return awascii.AwaSCII(awaNewline), true, nil
	}
	left, right := s.splitAt(n - 1)
	last := s.Item[n-1]
	c, conv := awascii.FromASCII(last)
	if !conv {
		return 0, false, right.Span.err("invalid AwaSCII character")
	}
	*s = left
	return c, true, nil
}
