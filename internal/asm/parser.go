package asm

import (
	"bytes"
	"os"
	"path/filepath"

	"awa5/internal/awaerr"
	"awa5/internal/bitcode"
	"awa5/internal/program"
)

// Loader turns AwaTism mnemonic source into a Program. It carries the
// macro table so `!include` can recurse with the caller's set of macros.
//
// Unlike original_source's parser::file, which resolves !include by
// temporarily chdir-ing the whole process into the including file's
// directory, Loader threads the including file's directory through each
// call instead. A process-wide chdir is a global mutable side effect —
// harmless for a single sequential parse, but unsafe the moment two
// files are loaded concurrently, which cmd/awa's batch build does via
// errgroup. Resolving relative to an explicit dir avoids that race
// entirely and needs no restore-on-exit bookkeeping.
type Loader struct {
	Macros MacroTable
}

// NewLoader builds a Loader with the default chr/str/include macros.
func NewLoader() *Loader {
	return &Loader{Macros: DefaultMacroTable()}
}

// LoadFile reads path and assembles it into a Program.
func (l *Loader) LoadFile(path string) (*program.Program, error) {
	instrs, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}
	return program.FromInstrs(instrs), nil
}

// LoadSource assembles src as if it were read from file (used for stdin,
// where there is no real path to stat).
func (l *Loader) LoadSource(file string, src []byte) (*program.Program, error) {
	instrs, err := l.Lines(file, src)
	if err != nil {
		return nil, err
	}
	return program.FromInstrs(instrs), nil
}

func (l *Loader) loadFile(path string) ([]bitcode.Instr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, awaerr.Wrap(awaerr.IOError, err, "reading "+path)
	}
	return l.Lines(path, data)
}

// Lines assembles src, a whole file's contents attributed to file, into
// its instruction sequence.
func (l *Loader) Lines(file string, src []byte) ([]bitcode.Instr, error) {
	var buf []bitcode.Instr
	dir := filepath.Dir(file)
	lineNo := 0
	for _, raw := range bytes.Split(src, []byte{'\n'}) {
		lineNo++
		if err := l.pushLine(&buf, dir, fromLine(file, lineNo, raw)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// pushLine dispatches one source line: blank/`;`-comment lines are
// skipped, `!name ...` lines run a macro, everything else is one
// AwaTism mnemonic.
func (l *Loader) pushLine(buf *[]bitcode.Instr, dir string, line Spanned) error {
	line.TrimStart()
	c, ok := line.First()
	if !ok || c == ';' {
		return nil
	}
	if c == '!' {
		instrs, err := l.runMacro(dir, line)
		if err != nil {
			return err
		}
		*buf = append(*buf, instrs...)
		return nil
	}
	instr, err := Mnemonic(line)
	if err != nil {
		return err
	}
	*buf = append(*buf, instr)
	return nil
}

func (l *Loader) runMacro(dir string, line Spanned) ([]bitcode.Instr, error) {
	_, rest := line.splitAt(1) // drop leading '!'
	name, input := rest.SplitAtWhitespace()
	input.Trim()
	fn, ok := l.Macros[string(name.Item)]
	if !ok {
		return nil, name.Span.err("unknown macro: !" + string(name.Item))
	}
	return fn(l, dir, input)
}

// Mnemonic parses one non-macro, non-comment line into its AwaTism
// (spec.md §3.3's 23-instruction set).
func Mnemonic(line Spanned) (bitcode.Instr, error) {
	name, arg := line.SplitAtWhitespace()
	arg.Trim()
	switch string(name.Item) {
	case "nop":
		return bitcode.NoOp(), nil
	case "prn":
		return bitcode.Print(), nil
	case "pr1":
		return bitcode.PrintNum(), nil
	case "red":
		return bitcode.Read(), nil
	case "r3d":
		return bitcode.ReadNum(), nil
	case "trm":
		return bitcode.Terminate(), nil
	case "blo":
		v, err := arg.ParseI8()
		if err != nil {
			return bitcode.Instr{}, err
		}
		return bitcode.Blow(v), nil
	case "sbm":
		u, err := arg.ParseU5()
		if err != nil {
			return bitcode.Instr{}, err
		}
		return bitcode.Submerge(u), nil
	case "pop":
		return bitcode.Pop(), nil
	case "dpl":
		return bitcode.Duplicate(), nil
	case "srn":
		u, err := arg.ParseU5()
		if err != nil {
			return bitcode.Instr{}, err
		}
		return bitcode.Surround(u), nil
	case "mrg":
		return bitcode.Merge(), nil
	case "4dd":
		return bitcode.Add(), nil
	case "sub":
		return bitcode.Subtract(), nil
	case "mul":
		return bitcode.Multiply(), nil
	case "div":
		return bitcode.Divide(), nil
	case "cnt":
		return bitcode.Count(), nil
	case "lbl":
		u, err := arg.ParseU5()
		if err != nil {
			return bitcode.Instr{}, err
		}
		return bitcode.Label(u), nil
	case "jmp":
		u, err := arg.ParseU5()
		if err != nil {
			return bitcode.Instr{}, err
		}
		return bitcode.Jump(u), nil
	case "eql":
		return bitcode.EqualTo(), nil
	case "lss":
		return bitcode.LessThan(), nil
	case "gr8":
		return bitcode.GreaterThan(), nil
	case "p0p":
		return bitcode.DoublePop(), nil
	default:
		return bitcode.Instr{}, name.Span.err("unknown identifier: " + string(name.Item))
	}
}
