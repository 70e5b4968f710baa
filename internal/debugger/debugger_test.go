package debugger

import (
	"strings"
	"testing"

	"awa5/internal/abyss"
	"awa5/internal/bitcode"
	"awa5/internal/interp"
	"awa5/internal/program"
)

func newTestSession(t *testing.T, instrs []bitcode.Instr, cmds string) (*Session, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	in := interp.New(abyss.New(), strings.NewReader(""), &out)
	p := program.FromInstrs(instrs)
	return NewSession(in, p, strings.NewReader(cmds), &out), &out
}

func TestStepAdvancesAndReportsHalt(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Terminate(),
	}, "")
	if !s.Step() {
		t.Fatalf("expected first Step to succeed")
	}
	if s.Step() {
		t.Fatalf("expected Step on Terminate to report halt")
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("expected no current instruction once halted")
	}
}

func TestStepNStopsAtBreakpoint(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Blow(3), bitcode.Terminate(),
	}, "")
	s.AddBreakpoint(2)
	s.StepN(10)
	if s.pc != 2 {
		t.Fatalf("expected StepN to stop at pc 2, got %d", s.pc)
	}
	bp := s.breakpoints[2]
	if bp.Hits != 1 {
		t.Fatalf("expected 1 hit, got %d", bp.Hits)
	}
}

func TestRunStopsAtBreakpointThenFinishes(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Terminate(),
	}, "")
	s.AddBreakpoint(1)
	s.Run()
	if s.pc != 1 {
		t.Fatalf("expected Run to stop at breakpoint pc 1, got %d", s.pc)
	}
	s.Run()
	if !s.halted {
		t.Fatalf("expected second Run to drain to halt")
	}
}

func TestUnknownLabelHaltsWithError(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Jump(bitcode.MustU5(7)),
	}, "")
	if s.Step() {
		t.Fatalf("expected Step to report halt on unknown label")
	}
	if s.LastErr == nil {
		t.Fatalf("expected LastErr to be set")
	}
}

func TestExecuteStepCommandWithCount(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Blow(3), bitcode.Terminate(),
	}, "")
	s.execute("s 2")
	if s.pc != 2 {
		t.Fatalf("expected 's 2' to advance pc to 2, got %d", s.pc)
	}
}

func TestExecuteBreakpointCommands(t *testing.T) {
	s, out := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Terminate(),
	}, "")
	s.execute("b 1")
	if len(s.breakpoints) != 1 {
		t.Fatalf("expected one breakpoint, got %d", len(s.breakpoints))
	}
	out.Reset()
	s.execute("b")
	if !strings.Contains(out.String(), "pc 1") {
		t.Fatalf("expected breakpoint listing to mention pc 1, got %q", out.String())
	}
}

func TestExecuteRelativeBreakpoint(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Blow(3), bitcode.Terminate(),
	}, "")
	s.pc = 1
	s.execute("b +1")
	found := false
	for _, bp := range s.breakpoints {
		if bp.PC == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a breakpoint at pc 2 from 'b +1' at pc 1")
	}
}

func TestExecuteQuitTerminates(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{bitcode.Terminate()}, "")
	s.execute("q")
	if s.state != Terminated {
		t.Fatalf("expected state Terminated after 'q'")
	}
}

func TestREPLDrivesStepsFromCommandStream(t *testing.T) {
	s, out := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Terminate(),
	}, "s\ns\nq\n")
	s.REPL()
	if s.state != Terminated {
		t.Fatalf("expected REPL to terminate on 'q'")
	}
	if !strings.Contains(out.String(), "(awa-debug) ") {
		t.Fatalf("expected prompt text in output, got %q", out.String())
	}
}

func TestREPLEndsWhenCommandStreamCloses(t *testing.T) {
	s, _ := newTestSession(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Terminate(),
	}, "s\n")
	s.REPL()
	if s.state == Terminated {
		t.Fatalf("stream closing should just return, not set Terminated")
	}
}
