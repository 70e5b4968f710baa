package commands

import (
	"flag"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildCommand loads a program from source and writes it out as packed
// binary AwaTism bitcode, the format `run --format binary` reads back
// (original_source's Commands::Build). -o only makes sense for a single
// source file; given more than one, each is built to its own derived
// path (out.go's sibling-path rule in writeProgram) and the builds
// run concurrently.
func BuildCommand(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	format := fs.String("format", "", "source format: awatalk|awatism|binary")
	fs.StringVar(format, "f", "", "shorthand for --format")
	out := fs.String("o", "", "output path (\"-\" for stdout); only valid with a single source file")
	force := fs.Bool("F", false, "overwrite the output file if it exists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: awa build [--format awatalk|awatism|binary] [-o path] [-F] <file|-> [file...]")
	}
	if fs.NArg() > 1 && *out != "" {
		return fmt.Errorf("-o can't be used when building more than one file")
	}

	if fs.NArg() == 1 {
		source := fs.Arg(0)
		p, err := LoadProgram(source, *format)
		if err != nil {
			return err
		}
		return writeProgram(p, source, *out, *force)
	}

	var g errgroup.Group
	for i := 0; i < fs.NArg(); i++ {
		source := fs.Arg(i)
		g.Go(func() error {
			p, err := LoadProgram(source, *format)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			if err := writeProgram(p, source, "", *force); err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			return nil
		})
	}
	return g.Wait()
}
