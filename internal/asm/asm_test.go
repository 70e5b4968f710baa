package asm

import (
	"strings"
	"testing"

	"awa5/internal/abyss"
	"awa5/internal/bitcode"
	"awa5/internal/interp"
	"awa5/internal/program"
)

func assemble(t *testing.T, src string) []bitcode.Instr {
	t.Helper()
	l := NewLoader()
	instrs, err := l.Lines("test.tism", []byte(src))
	if err != nil {
		t.Fatalf("Lines(%q): %v", src, err)
	}
	return instrs
}

func TestMnemonicLines(t *testing.T) {
	got := assemble(t, "blo 5\nprn\ntrm\n")
	want := []bitcode.Instr{bitcode.Blow(5), bitcode.Print(), bitcode.Terminate()}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instr %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommentsAndBlankLinesSkipped(t *testing.T) {
	got := assemble(t, "; a comment\n\ntrm\n  ; indented comment\n")
	if len(got) != 1 || got[0] != bitcode.Terminate() {
		t.Fatalf("got %v", got)
	}
}

func TestUnknownMnemonicErrors(t *testing.T) {
	if _, err := NewLoader().Lines("f", []byte("bogus\n")); err == nil {
		t.Fatalf("expected error for unknown mnemonic")
	}
}

func TestChrMacro(t *testing.T) {
	got := assemble(t, "!chr 'A'\n")
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	want := bitcode.Blow(int8(mustAwascii(t, 'A')))
	if got[0] != want {
		t.Fatalf("got %v, want %v", got[0], want)
	}
}

func TestStrMacroSingleChunk(t *testing.T) {
	// "AB": two Blow, one Surround(2), no Merge (nothing to merge into).
	got := assemble(t, `!str "AB"`+"\n")
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	if got[2] != bitcode.Surround(bitcode.MustU5(2)) {
		t.Fatalf("expected a trailing Surround(2), got %v", got[2])
	}
}

func TestStrMacroEmptyString(t *testing.T) {
	got := assemble(t, `!str ""`+"\n")
	if len(got) != 0 {
		t.Fatalf("got %v, want no instructions", got)
	}
}

// S1: !str "A" / prn / trm, one per line -> stdout "A"
func TestStrMacroEndToEnd(t *testing.T) {
	instrs := assemble(t, `!str "A"`+"\nprn\ntrm\n")
	var out strings.Builder
	in := interp.New(abyss.New(), strings.NewReader(""), &out)
	p := program.FromInstrs(instrs)
	if err := in.Run(p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "A" {
		t.Fatalf("got %q, want %q", out.String(), "A")
	}
}

func TestIncludeMacroSplicesInstructions(t *testing.T) {
	l := NewLoader()
	l.Macros["include"] = func(_ *Loader, _ string, _ Spanned) ([]bitcode.Instr, error) {
		return []bitcode.Instr{bitcode.NoOp(), bitcode.NoOp()}, nil
	}
	got, err := l.Lines("f", []byte("!include <anything>\ntrm\n"))
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []bitcode.Instr{bitcode.NoOp(), bitcode.NoOp(), bitcode.Terminate()}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func mustAwascii(t *testing.T, ascii byte) byte {
	t.Helper()
	sp := Spanned{Item: []byte{ascii}}
	c, ok, err := sp.TakeAwascii()
	if err != nil || !ok {
		t.Fatalf("TakeAwascii(%q): ok=%v err=%v", ascii, ok, err)
	}
	return byte(c)
}
