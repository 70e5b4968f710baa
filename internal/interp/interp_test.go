package interp

import (
	"strings"
	"testing"

	"awa5/internal/abyss"
	"awa5/internal/bitcode"
	"awa5/internal/program"
)

func run(t *testing.T, instrs []bitcode.Instr, input string) string {
	t.Helper()
	var out strings.Builder
	in := New(abyss.New(), strings.NewReader(input), &out)
	if err := in.Run(program.FromInstrs(instrs)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

// S2: blo 2 blo 3 4dd pr1 trm -> stdout "5"
func TestAddPrintsSum(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Blow(2), bitcode.Blow(3), bitcode.Add(), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "5" {
		t.Fatalf("got %q, want %q", got, "5")
	}
}

// S3: blo 7 dpl pop pr1 trm -> stdout "7"
func TestDuplicatePop(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Blow(7), bitcode.Duplicate(), bitcode.Pop(), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "7" {
		t.Fatalf("got %q, want %q", got, "7")
	}
}

// S4: blo 1 blo 2 blo 3 srn 3 cnt pr1 trm -> stdout "3"
func TestSurroundCount(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.Blow(3),
		bitcode.Surround(bitcode.MustU5(3)), bitcode.Count(), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "3" {
		t.Fatalf("got %q, want %q", got, "3")
	}
}

// S5: blo 1 blo 2 lss trm blo 9 pr1 trm -> stdout "9"
// 2<1 is false relative to top/beneath as pushed: top=2, beneath=1, so
// "2 < 1" is false, the following trm is skipped, blo 9/pr1/trm run.
func TestLessThanSkipsOnFalse(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Blow(1), bitcode.Blow(2), bitcode.LessThan(), bitcode.Terminate(),
		bitcode.Blow(9), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "9" {
		t.Fatalf("got %q, want %q", got, "9")
	}
}

// S5 alt: blo 2 blo 1 gr8 blo 9 pr1 trm -> stdout "": top=1, beneath=2, so
// "1 > 2" is false, blo 9 is skipped, and pr1 then fails with
// NotEnoughBubbles (non-zero exit).
func TestGreaterThanSkipsThenErrors(t *testing.T) {
	var out strings.Builder
	in := New(abyss.New(), strings.NewReader(""), &out)
	p := program.FromInstrs([]bitcode.Instr{
		bitcode.Blow(2), bitcode.Blow(1), bitcode.GreaterThan(),
		bitcode.Blow(9), bitcode.PrintNum(), bitcode.Terminate(),
	})
	err := in.Run(p)
	if err == nil {
		t.Fatalf("expected NotEnoughBubbles error")
	}
	if out.String() != "" {
		t.Fatalf("got %q, want empty", out.String())
	}
}

// S6: blo 7 blo 2 div pr1 trm -> stdout "1 3": a Double holding
// {quotient=3, remainder=1}, remainder printed first.
func TestDivideProducesRemainderThenQuotient(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Blow(7), bitcode.Blow(2), bitcode.Divide(), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "1 3" {
		t.Fatalf("got %q, want %q", got, "1 3")
	}
}

func TestJumpToLabel(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.Jump(bitcode.MustU5(1)),
		bitcode.Blow(0), bitcode.PrintNum(), bitcode.Terminate(), // skipped
		bitcode.Label(bitcode.MustU5(1)),
		bitcode.Blow(4), bitcode.PrintNum(), bitcode.Terminate(),
	}, "")
	if got != "4" {
		t.Fatalf("got %q, want %q", got, "4")
	}
}

func TestReadNumParsesLeadingDigits(t *testing.T) {
	got := run(t, []bitcode.Instr{
		bitcode.ReadNum(), bitcode.PrintNum(), bitcode.Terminate(),
	}, "42abc\n")
	if got != "42" {
		t.Fatalf("got %q, want %q", got, "42")
	}
}

func TestReadOnEmptyInputPushesNothing(t *testing.T) {
	var out strings.Builder
	in := New(abyss.New(), strings.NewReader(""), &out)
	p := program.FromInstrs([]bitcode.Instr{
		bitcode.Read(), bitcode.PrintNum(), bitcode.Terminate(),
	})
	if err := in.Run(p); err == nil {
		t.Fatalf("expected NotEnoughBubbles from PrintNum on an empty Abyss")
	}
}

func TestUnknownLabelErrors(t *testing.T) {
	var out strings.Builder
	in := New(abyss.New(), strings.NewReader(""), &out)
	p := program.FromInstrs([]bitcode.Instr{bitcode.Jump(bitcode.MustU5(5))})
	if err := in.Run(p); err == nil {
		t.Fatalf("expected unknown label error")
	}
}
