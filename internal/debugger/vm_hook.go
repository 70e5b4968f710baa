// internal/debugger/vm_hook.go
package debugger

import (
	"fmt"
	"io"

	"awa5/internal/bitcode"
)

// TraceHook observes every instruction a Session executes, independent of
// the interactive REPL — RunTraced uses it to print a trace without
// stopping at breakpoints. The teacher's call-stack-aware
// OnInstruction/OnCall/OnReturn hook had no analogue here: AWA5.0 has no
// function-call construct, so there is no call stack to track and no
// step-over/step-out distinction to make (every step is a step into the
// next instruction). What survives is the one idea with a referent in
// this domain: a callback fired once per executed instruction.
type TraceHook interface {
	OnStep(pc int, instr bitcode.Instr)
}

// WriterTrace is a TraceHook that writes one line per instruction to out.
type WriterTrace struct {
	out io.Writer
}

// NewWriterTrace builds a TraceHook writing to out.
func NewWriterTrace(out io.Writer) *WriterTrace {
	return &WriterTrace{out: out}
}

func (t *WriterTrace) OnStep(pc int, instr bitcode.Instr) {
	fmt.Fprintf(t.out, "%4d: %s\n", pc, instr.String())
}

// RunTraced runs the session to completion, calling hook.OnStep before
// each instruction.
func (s *Session) RunTraced(hook TraceHook) {
	for {
		instr, ok := s.Current()
		if !ok {
			return
		}
		hook.OnStep(s.pc, instr)
		if !s.Step() {
			return
		}
	}
}
