package asm

import (
	"path/filepath"

	"awa5/internal/bitcode"
)

// Macro expands one `!name ...` line into zero or more AwaTisms. dir is
// the directory of the file the line came from, for `!include` to
// resolve a relative path against.
type Macro func(l *Loader, dir string, input Spanned) ([]bitcode.Instr, error)

// MacroTable maps macro names to their expansion function.
type MacroTable map[string]Macro

// DefaultMacroTable registers the three macros spec.md's assembler
// surface names: `chr`, `str`, `include`.
func DefaultMacroTable() MacroTable {
	return MacroTable{
		"chr":     chrMacro,
		"str":     strMacro,
		"include": includeMacro,
	}
}

// chrMacro expands `!chr 'c'` into a single Blow of c's AwaSCII ordinal.
// `\n` is accepted as an escape for the newline character.
func chrMacro(_ *Loader, _ string, input Spanned) ([]bitcode.Instr, error) {
	begin, rest := input.SplitAtChar('\'')
	if !begin.IsEmpty() {
		return nil, begin.Span.err("expected opening '")
	}
	inner, end := rest.SplitAtChar('\'')
	if !end.IsEmpty() {
		return nil, end.Span.err("expected closing ' with nothing after it")
	}
	c, ok, err := inner.TakeAwascii()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, inner.Span.err("empty character literal")
	}
	return []bitcode.Instr{bitcode.Blow(int8(c))}, nil
}

// awastiiChunk is the largest number of leaves one Surround can gather in
// a single pass (spec.md §3.3's 5-bit operand width: 0..31).
const awastiiChunk = 31

// strMacro expands `!str "..."` into the Blow/Surround/Merge sequence
// that builds one Double chain holding the string's characters in
// order, chunked every 31 characters the way Surround's operand width
// forces (mirrors original_source's macros::str).
func strMacro(_ *Loader, _ string, input Spanned) ([]bitcode.Instr, error) {
	begin, rest := input.SplitAtChar('"')
	if !begin.IsEmpty() {
		return nil, begin.Span.err("expected opening \"")
	}
	inner, end := rest.SplitAtChar('"')
	if !end.IsEmpty() {
		return nil, end.Span.err("expected closing \" with nothing after it")
	}

	var out []bitcode.Instr
	count := 0
	anyChunk := false
	for {
		c, ok, err := inner.TakeAwascii()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, bitcode.Blow(int8(c)))
		count++
		if count == awastiiChunk {
			out = append(out, bitcode.Surround(bitcode.MustU5(awastiiChunk)))
			if anyChunk {
				out = append(out, bitcode.Merge())
			}
			anyChunk = true
			count = 0
		}
	}
	if count > 1 {
		out = append(out, bitcode.Surround(bitcode.MustU5(uint8(count))))
	}
	// A lone trailing character (count == 1) needs no Surround of its
	// own: Merge folds a bare Single straight into the preceding Double.
	if count > 0 && anyChunk {
		out = append(out, bitcode.Merge())
	}
	return out, nil
}

// includeMacro expands `!include <path>` by loading path, resolved
// relative to dir, and splicing its instructions in place.
func includeMacro(l *Loader, dir string, input Spanned) ([]bitcode.Instr, error) {
	begin, rest := input.SplitAtChar('<')
	if !begin.IsEmpty() {
		return nil, begin.Span.err("expected opening <")
	}
	path, end := rest.SplitAtChar('>')
	if !end.IsEmpty() {
		return nil, end.Span.err("expected closing > with nothing after it")
	}
	return l.loadFile(filepath.Join(dir, string(path.Item)))
}
