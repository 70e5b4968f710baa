package commands

import (
	"flag"
	"fmt"
)

// EchoCommand loads a program and re-prints it as line-numbered AwaTism
// assembly text, without running it — a roundtrip sanity check for a
// .bin/.awa file (original_source's Commands::Echo).
func EchoCommand(args []string) error {
	fs := flag.NewFlagSet("echo", flag.ExitOnError)
	format := fs.String("format", "", "source format: awatalk|awatism|binary")
	fs.StringVar(format, "f", "", "shorthand for --format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: awa echo [--format awatalk|awatism|binary] <file|->")
	}

	p, err := LoadProgram(fs.Arg(0), *format)
	if err != nil {
		return err
	}

	digits := decimalDigits(p.Len())
	for i, instr := range p.Instrs() {
		fmt.Printf("%*d %s\n", digits, i+1, instr.String())
	}
	return nil
}

// decimalDigits is the column width the teacher's line-numbered listings
// use, one per digit of n (minimum 1).
func decimalDigits(n int) int {
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}
	return digits
}
