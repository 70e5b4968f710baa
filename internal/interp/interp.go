// Package interp runs a decoded Program one AwaTism at a time against an
// Abyss (spec.md §4.2, §4.4). It never inspects bytecode bits directly —
// that is bitcode/program's job — only bitcode.Instr values already
// resolved to an opcode and operand.
package interp

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"awa5/internal/abyss"
	"awa5/internal/awaerr"
	"awa5/internal/awascii"
	"awa5/internal/bitcode"
	"awa5/internal/program"
)

// ContinueKind is the reason execution moves to a particular next
// instruction, mirroring original_source's ContinueAt enum.
type ContinueKind int

const (
	ContinueNext ContinueKind = iota
	ContinueSkip
	ContinueLabel
	ContinueHalt
)

// ContinueAt is the result of executing one instruction: where to go next.
type ContinueAt struct {
	Kind  ContinueKind
	Label bitcode.U5 // valid only when Kind == ContinueLabel
}

// Interpreter holds the mutable state one Program execution needs: the
// Abyss, buffered I/O, and scratch buffers reused across Step calls so a
// long-running program doesn't allocate per instruction.
type Interpreter struct {
	Abyss abyss.Interface

	input  *bufio.Reader
	output *bufio.Writer

	// RunID tags this execution for diagnostics and the debugger's status
	// line — one per Interpreter, not per instruction.
	RunID uuid.UUID

	ioBuffer strings.Builder
}

// New builds an Interpreter over the given Abyss, reading Read/ReadNum
// input lines from input and writing Print/PrintNum output to output.
func New(store abyss.Interface, input io.Reader, output io.Writer) *Interpreter {
	return &Interpreter{
		Abyss:  store,
		input:  bufio.NewReader(input),
		output: bufio.NewWriter(output),
		RunID:  uuid.New(),
	}
}

// Run executes program from instruction 0 until it halts or errors,
// flushing any buffered output before returning.
func (in *Interpreter) Run(p *program.Program) error {
	defer in.output.Flush()
	pc := 0
	for {
		instr, ok := p.At(pc)
		if !ok {
			return nil
		}
		cont, err := in.Step(instr)
		if err != nil {
			return err
		}
		switch cont.Kind {
		case ContinueHalt:
			return nil
		case ContinueNext:
			pc++
		case ContinueSkip:
			pc += 2
		case ContinueLabel:
			target, ok := p.Label(cont.Label)
			if !ok {
				return awaerr.UnknownLabelErr(uint8(cont.Label))
			}
			pc = target
		}
	}
}

// Step executes one instruction and reports where to continue. Every
// precondition failure the Abyss reports as a bare bool is converted here
// into a *awaerr.AwaError carrying the shortfall spec.md §7 names.
func (in *Interpreter) Step(instr bitcode.Instr) (ContinueAt, error) {
	switch instr.Op {
	case bitcode.OpNoOp:
		// nothing to do

	case bitcode.OpPrint:
		if err := in.doPrint(); err != nil {
			return ContinueAt{}, err
		}

	case bitcode.OpPrintNum:
		if err := in.doPrintNum(); err != nil {
			return ContinueAt{}, err
		}

	case bitcode.OpRead:
		if err := in.doRead(); err != nil {
			return ContinueAt{}, err
		}

	case bitcode.OpReadNum:
		if err := in.doReadNum(); err != nil {
			return ContinueAt{}, err
		}

	case bitcode.OpTerminate:
		return ContinueAt{Kind: ContinueHalt}, nil

	case bitcode.OpBlow:
		in.Abyss.Blow(abyss.Value(instr.I8))

	case bitcode.OpSubmerge:
		if !in.Abyss.Submerge(int(instr.U5)) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(int64(instr.U5))
		}

	case bitcode.OpPop:
		if !in.Abyss.Pop() {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(1)
		}

	case bitcode.OpDuplicate:
		if !in.Abyss.Duplicate() {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(1)
		}

	case bitcode.OpSurround:
		if !in.Abyss.Surround(int(instr.U5)) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(int64(instr.U5))
		}

	case bitcode.OpMerge:
		if !in.Abyss.Merge() {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}

	case bitcode.OpAdd:
		if !in.Abyss.CombineSingle(func(top, beneath abyss.Value) abyss.Value { return top + beneath }) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}

	case bitcode.OpSubtract:
		if !in.Abyss.CombineSingle(func(top, beneath abyss.Value) abyss.Value { return top - beneath }) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}

	case bitcode.OpMultiply:
		if !in.Abyss.CombineSingle(func(top, beneath abyss.Value) abyss.Value { return top * beneath }) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}

	case bitcode.OpDivide:
		// Swapped relative to every other combine opcode — see DESIGN.md
		// and SPEC_FULL.md's Open Question Decisions for why.
		remainder := func(top, beneath abyss.Value) abyss.Value { return beneath % top }
		quotient := func(top, beneath abyss.Value) abyss.Value { return beneath / top }
		if !in.Abyss.CombineDouble(remainder, quotient) {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}

	case bitcode.OpCount:
		if !in.Abyss.Count() {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(1)
		}

	case bitcode.OpLabel:
		// no-op at execution time; Program already indexed it

	case bitcode.OpJump:
		return ContinueAt{Kind: ContinueLabel, Label: instr.U5}, nil

	case bitcode.OpEqualTo:
		eq, ok := in.Abyss.Test(func(top, beneath abyss.Value) bool { return top == beneath })
		if !ok {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}
		if !eq {
			return ContinueAt{Kind: ContinueSkip}, nil
		}

	case bitcode.OpLessThan:
		lt, ok := in.Abyss.Test(func(top, beneath abyss.Value) bool { return top < beneath })
		if !ok {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}
		if !lt {
			return ContinueAt{Kind: ContinueSkip}, nil
		}

	case bitcode.OpGreaterThan:
		gt, ok := in.Abyss.Test(func(top, beneath abyss.Value) bool { return top > beneath })
		if !ok {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(2)
		}
		if !gt {
			return ContinueAt{Kind: ContinueSkip}, nil
		}

	case bitcode.OpDoublePop:
		if !in.Abyss.DoublePop() {
			return ContinueAt{}, awaerr.NotEnoughBubblesErr(1)
		}

	default:
		return ContinueAt{}, awaerr.New(awaerr.UnknownOpcode, "unhandled opcode in Step")
	}
	return ContinueAt{Kind: ContinueNext}, nil
}

// doPrint consumes the top bubble as a run of AwaSCII leaves and writes
// their ASCII representation.
func (in *Interpreter) doPrint() error {
	in.ioBuffer.Reset()
	ok, err := in.Abyss.Consume(func(v abyss.Value) error {
		if v < 0 || v >= 64 {
			return awaerr.OutOfBoundsErr(int64(v))
		}
		c, _ := awascii.New(uint8(v))
		in.ioBuffer.WriteByte(c.ToASCII())
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return awaerr.NotEnoughBubblesErr(1)
	}
	return in.flushBuffer()
}

// doPrintNum consumes the top bubble as a run of leaves and writes their
// decimal values separated by single spaces (spec.md §4.4).
func (in *Interpreter) doPrintNum() error {
	in.ioBuffer.Reset()
	first := true
	ok, err := in.Abyss.Consume(func(v abyss.Value) error {
		if !first {
			in.ioBuffer.WriteByte(' ')
		}
		first = false
		in.ioBuffer.WriteString(strconv.FormatInt(v, 10))
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return awaerr.NotEnoughBubblesErr(1)
	}
	return in.flushBuffer()
}

func (in *Interpreter) flushBuffer() error {
	if _, err := in.output.WriteString(in.ioBuffer.String()); err != nil {
		return awaerr.Wrap(awaerr.IOError, err, "write failed")
	}
	if err := in.output.Flush(); err != nil {
		return awaerr.Wrap(awaerr.IOError, err, "flush failed")
	}
	return nil
}

// doRead reads one line and pushes its AwaSCII-representable characters
// (including a trailing newline) as a Double. A read at EOF that returns no
// bytes at all pushes nothing, per spec.md §9's Read-on-empty-input
// decision; a line whose bytes are all unrepresentable pushes Single{0},
// BlowAwascii's empty-input rule.
func (in *Interpreter) doRead() error {
	line, hasData, err := in.readLine()
	if err != nil {
		return err
	}
	if !hasData {
		return nil
	}
	in.Abyss.BlowAwascii(parseAwasciiInput(line))
	return nil
}

// doReadNum reads one line and pushes the unsigned decimal number at its
// start (0 if the line starts with a non-digit). An empty/EOF read is
// NoNumber, matching original_source's "count == 0" check.
func (in *Interpreter) doReadNum() error {
	line, hasData, err := in.readLine()
	if err != nil {
		return err
	}
	if !hasData {
		return awaerr.New(awaerr.NoNumber, "no input line available")
	}
	in.Abyss.Blow(parseNumberInput(line))
	return nil
}

// readLine reads one line from input. hasData is false only when the
// stream was already at EOF with nothing left to read; a genuine I/O
// error (distinct from EOF) is returned as an *awaerr.AwaError.
func (in *Interpreter) readLine() (line string, hasData bool, err error) {
	line, ioErr := in.input.ReadString('\n')
	if ioErr != nil && ioErr != io.EOF {
		return "", false, awaerr.Wrap(awaerr.IOError, ioErr, "read failed")
	}
	if len(line) == 0 {
		return "", false, nil
	}
	return line, true, nil
}

// parseAwasciiInput converts every ASCII byte in src with an AwaSCII
// representation into a Value, dropping everything else (spec.md §3.2).
func parseAwasciiInput(src string) []abyss.Value {
	out := make([]abyss.Value, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		if b >= 128 {
			continue
		}
		c, ok := awascii.FromASCII(b)
		if !ok {
			continue
		}
		out = append(out, abyss.Value(c))
	}
	return out
}

// parseNumberInput accumulates leading decimal digits of src into a Value,
// stopping at the first non-digit (no sign handling, matching
// original_source's parse_number_input).
func parseNumberInput(src string) abyss.Value {
	var result abyss.Value
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c < '0' || c > '9' {
			break
		}
		result = result*10 + abyss.Value(c-'0')
	}
	return result
}
