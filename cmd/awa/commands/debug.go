package commands

import (
	"flag"
	"fmt"
	"os"

	"awa5/internal/debugger"
	"awa5/internal/interp"
)

// DebugCommand loads a program and drives it through an interactive
// debugger.Session (spec.md §6's minimal `s`/`s N`/`r`/`b`/`b N`/`b ±N`/`q`
// surface), reading commands from stdin and printing to stdout. --buffered
// debugs against the write-back Buffered Abyss instead of the plain Store.
func DebugCommand(args []string) error {
	fs := flag.NewFlagSet("debug", flag.ExitOnError)
	format := fs.String("format", "", "source format: awatalk|awatism|binary")
	fs.StringVar(format, "f", "", "shorthand for --format")
	buffered := fs.Bool("buffered", false, "debug against the write-back buffered Abyss")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: awa debug [--format awatalk|awatism|binary] [--buffered] <file|->")
	}

	p, err := LoadProgram(fs.Arg(0), *format)
	if err != nil {
		return err
	}

	in := interp.New(newAbyss(*buffered), os.Stdin, os.Stdout)
	fmt.Printf("awa debug: %d instructions loaded, run id %s\n", p.Len(), in.RunID)
	session := debugger.NewSession(in, p, os.Stdin, os.Stdout)
	session.REPL()
	return nil
}
