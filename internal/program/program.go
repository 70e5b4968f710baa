// Package program holds a decoded AwaTism instruction stream together with
// its label table.
package program

import (
	"awa5/internal/bitcode"
)

// Labels has 32 slots, one per possible u5 label value (spec.md §3.3).
const numLabels = 32

// Program is a sequence of instructions plus a label table resolving each
// label number to the instruction index that follows its Label instruction.
type Program struct {
	instrs []bitcode.Instr
	labels [numLabels]int // 0 means "no such label", else pc+1
}

// New returns an empty program.
func New() *Program {
	return &Program{}
}

// WithCapacity returns an empty program whose instruction slice is
// preallocated for n instructions.
func WithCapacity(n int) *Program {
	return &Program{instrs: make([]bitcode.Instr, 0, n)}
}

// FromInstrs builds a program from an already-decoded instruction list,
// populating the label table as it goes.
func FromInstrs(instrs []bitcode.Instr) *Program {
	p := WithCapacity(len(instrs))
	for _, instr := range instrs {
		p.Push(instr)
	}
	return p
}

// FromBitstreamPadded decodes a program from a bit buffer with no explicit
// length, treating a trailing run of zero bits as padding (spec.md §4.7).
func FromBitstreamPadded(buf []byte) (*Program, error) {
	instrs, err := bitcode.DecodeAllPadded(buf)
	if err != nil {
		return nil, err
	}
	return FromInstrs(instrs), nil
}

// FromBitstreamWithLength decodes exactly length bits, erroring on any
// unknown opcode or truncated instruction within that span.
func FromBitstreamWithLength(buf []byte, length int) (*Program, error) {
	if length == 0 {
		return New(), nil
	}
	instrs, err := bitcode.DecodeAll(buf, length)
	if err != nil {
		return nil, err
	}
	return FromInstrs(instrs), nil
}

// Len reports the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.instrs)
}

// IsEmpty reports whether the program has no instructions.
func (p *Program) IsEmpty() bool {
	return len(p.instrs) == 0
}

// At returns the instruction at pc, and whether pc was in bounds.
func (p *Program) At(pc int) (bitcode.Instr, bool) {
	if pc < 0 || pc >= len(p.instrs) {
		return bitcode.Instr{}, false
	}
	return p.instrs[pc], true
}

// Push appends an instruction to the program, recording its position in the
// label table if it is a Label instruction.
func (p *Program) Push(instr bitcode.Instr) {
	p.instrs = append(p.instrs, instr)
	if instr.Op == bitcode.OpLabel {
		p.labels[instr.U5] = len(p.instrs)
	}
}

// Label resolves a label number to the instruction index to continue at.
// ok is false if no Label instruction with that number was ever pushed.
func (p *Program) Label(n bitcode.U5) (pc int, ok bool) {
	v := p.labels[n]
	if v == 0 {
		return 0, false
	}
	return v, true
}

// Instrs returns the underlying instruction slice. Callers must not mutate it.
func (p *Program) Instrs() []bitcode.Instr {
	return p.instrs
}
