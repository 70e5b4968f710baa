package commands

import (
	"flag"
	"fmt"
	"os"

	"awa5/internal/abyss"
	"awa5/internal/awaerr"
	"awa5/internal/interp"
	"awa5/internal/program"
)

// RunCommand loads a program and executes it against a fresh Abyss,
// reading from stdin and writing to stdout. -v traces every instruction
// to stderr before it runs (original_source's Commands::Run). --buffered
// runs against the write-back Buffered wrapper (spec.md §4.3) instead of
// the plain Store, exercising its fast paths on a real program.
func RunCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	format := fs.String("format", "", "source format: awatalk|awatism|binary")
	fs.StringVar(format, "f", "", "shorthand for --format")
	verbose := fs.Bool("v", false, "print every instruction before it is executed")
	buffered := fs.Bool("buffered", false, "run against the write-back buffered Abyss")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: awa run [--format awatalk|awatism|binary] [-v] [--buffered] <file|->")
	}

	p, err := LoadProgram(fs.Arg(0), *format)
	if err != nil {
		return err
	}

	in := interp.New(newAbyss(*buffered), os.Stdin, os.Stdout)
	if *verbose {
		return runVerbose(in, p)
	}
	return in.Run(p)
}

// newAbyss builds the backing Abyss a verb runs against: the plain Store,
// or Store wrapped in Buffered when --buffered is given.
func newAbyss(buffered bool) abyss.Interface {
	store := abyss.New()
	if !buffered {
		return store
	}
	return abyss.NewBuffered(store)
}

// runVerbose re-implements Interpreter.Run's dispatch loop one level up
// so each instruction can be traced to stderr before it executes.
func runVerbose(in *interp.Interpreter, p *program.Program) error {
	digits := decimalDigits(p.Len())
	pc := 0
	for {
		instr, ok := p.At(pc)
		if !ok {
			return nil
		}
		fmt.Fprintf(os.Stderr, "%*d %s\n", digits, pc+1, instr.String())
		cont, err := in.Step(instr)
		if err != nil {
			return err
		}
		switch cont.Kind {
		case interp.ContinueHalt:
			return nil
		case interp.ContinueSkip:
			pc += 2
		case interp.ContinueLabel:
			target, ok := p.Label(cont.Label)
			if !ok {
				return awaerr.UnknownLabelErr(uint8(cont.Label))
			}
			pc = target
		default:
			pc++
		}
	}
}
