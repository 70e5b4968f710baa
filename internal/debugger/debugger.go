// Package debugger drives an Interpreter one instruction at a time through
// a Cursor, the textual surface spec.md §6 names: single-letter commands
// `s`, `s N`, `r`, `b`, `b N`, `b ±N`, `q`. It does not implement the
// teacher's full TUI panel layout — spec.md §1 explicitly scopes that out —
// only the REPL loop and breakpoint bookkeeping it drives.
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"awa5/internal/awaerr"
	"awa5/internal/bitcode"
	"awa5/internal/interp"
	"awa5/internal/program"
)

// State is the debugger's run mode, mirroring the teacher's DebugState but
// trimmed to what a flat, call-free instruction stream can distinguish —
// AWA5.0 has no function-call construct (spec.md's Non-goals), so there is
// no call stack and therefore no StepOver/StepOut: every step is a step
// into the next instruction.
type State int

const (
	Paused State = iota
	Running
	Terminated
)

// Breakpoint is a single stop point, keyed by program counter.
type Breakpoint struct {
	ID      int
	PC      int
	Enabled bool
	Hits    int
}

// Session holds one debugging session: the interpreter, the program being
// stepped, and the breakpoint/REPL state around it.
type Session struct {
	Interp  *interp.Interpreter
	Program *program.Program
	pc      int
	halted  bool

	breakpoints map[int]*Breakpoint
	nextBPID    int
	state       State

	in          *bufio.Reader
	out         io.Writer
	diagnostics []string
	colorize    bool

	// LastErr is set when the last Step call returned an interpreter
	// error; the session stays alive so the error can be inspected, per
	// spec.md §7's "debugger keeps the session alive" policy.
	LastErr error
}

// NewSession builds a paused session at pc 0.
func NewSession(in *interp.Interpreter, p *program.Program, cmdIn io.Reader, out io.Writer) *Session {
	return &Session{
		Interp:      in,
		Program:     p,
		breakpoints: make(map[int]*Breakpoint),
		nextBPID:    1,
		state:       Paused,
		in:          bufio.NewReader(cmdIn),
		out:         out,
		colorize:    isatty.IsTerminal(fileDescriptor(out)),
	}
}

// fileDescriptor extracts a file descriptor from out if it has one; used
// only to decide whether to colorize the current-instruction marker.
func fileDescriptor(out io.Writer) uintptr {
	type fdAware interface{ Fd() uintptr }
	if f, ok := out.(fdAware); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// AddBreakpoint sets a breakpoint at pc, returning its ID.
func (s *Session) AddBreakpoint(pc int) int {
	id := s.nextBPID
	s.nextBPID++
	s.breakpoints[pc] = &Breakpoint{ID: id, PC: pc, Enabled: true}
	return id
}

// atBreakpoint reports whether pc has an enabled breakpoint, recording a hit.
func (s *Session) atBreakpoint(pc int) bool {
	bp, ok := s.breakpoints[pc]
	if !ok || !bp.Enabled {
		return false
	}
	bp.Hits++
	return true
}

// Step executes exactly one instruction, advancing pc per the interpreter's
// ContinueAt. It reports false once the program halts.
func (s *Session) Step() bool {
	if s.halted {
		return false
	}
	instr, ok := s.Program.At(s.pc)
	if !ok {
		s.halted = true
		return false
	}
	cont, err := s.Interp.Step(instr)
	if err != nil {
		s.LastErr = err
		s.log(err.Error())
		s.halted = true
		return false
	}
	switch cont.Kind {
	case interp.ContinueHalt:
		s.halted = true
		return false
	case interp.ContinueSkip:
		s.pc += 2
	case interp.ContinueLabel:
		target, ok := s.Program.Label(cont.Label)
		if !ok {
			s.LastErr = awaerr.UnknownLabelErr(uint8(cont.Label))
			s.log(s.LastErr.Error())
			s.halted = true
			return false
		}
		s.pc = target
	default:
		s.pc++
	}
	return true
}

// StepN steps up to n instructions, stopping early on halt, error, or a
// breakpoint hit after the first step.
func (s *Session) StepN(n int) {
	for i := 0; i < n; i++ {
		if !s.Step() {
			return
		}
		if s.atBreakpoint(s.pc) {
			return
		}
	}
}

// Run executes until halt, error, or a breakpoint is hit.
func (s *Session) Run() {
	for s.Step() {
		if s.atBreakpoint(s.pc) {
			return
		}
	}
}

// log appends to the session's diagnostics panel (spec.md §7's "debugger
// prints diagnostics to its Diagnostics panel and keeps the session alive").
func (s *Session) log(msg string) {
	s.diagnostics = append(s.diagnostics, msg)
}

// Current returns the instruction at pc, and whether one is available; none
// is once the session has halted.
func (s *Session) Current() (bitcode.Instr, bool) {
	if s.halted {
		return bitcode.Instr{}, false
	}
	return s.Program.At(s.pc)
}

// REPL runs the interactive command loop until 'q' or the command stream
// closes.
func (s *Session) REPL() {
	s.showCurrent()
	for s.state != Terminated {
		fmt.Fprint(s.out, "(awa-debug) ")
		line, err := s.in.ReadString('\n')
		if err != nil {
			return
		}
		s.execute(strings.TrimSpace(line))
	}
}

func (s *Session) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "s":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		s.StepN(n)
		s.showCurrent()

	case "r":
		s.Run()
		s.showCurrent()

	case "b":
		switch {
		case len(fields) == 1:
			s.printBreakpoints()
		case strings.HasPrefix(fields[1], "+") || strings.HasPrefix(fields[1], "-"):
			if offset, err := strconv.Atoi(fields[1]); err == nil {
				id := s.AddBreakpoint(s.pc + offset)
				fmt.Fprintf(s.out, "breakpoint %d at pc %d\n", id, s.pc+offset)
			}
		default:
			if target, err := strconv.Atoi(fields[1]); err == nil {
				id := s.AddBreakpoint(target)
				fmt.Fprintf(s.out, "breakpoint %d at pc %d\n", id, target)
			}
		}

	case "q":
		s.state = Terminated

	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", fields[0])
	}
}

func (s *Session) printBreakpoints() {
	if len(s.breakpoints) == 0 {
		fmt.Fprintln(s.out, "no breakpoints")
		return
	}
	for _, bp := range s.breakpoints {
		fmt.Fprintf(s.out, "  %d: pc %d (hits %d)\n", bp.ID, bp.PC, bp.Hits)
	}
}

func (s *Session) showCurrent() {
	if s.LastErr != nil {
		fmt.Fprintf(s.out, "error: %s\n", s.LastErr.Error())
		return
	}
	instr, ok := s.Current()
	if !ok {
		fmt.Fprintln(s.out, "(halted)")
		return
	}
	if s.colorize {
		fmt.Fprintf(s.out, "\x1b[36m%4d:\x1b[0m %s\n", s.pc, instr.String())
	} else {
		fmt.Fprintf(s.out, "%4d: %s\n", s.pc, instr.String())
	}
}
