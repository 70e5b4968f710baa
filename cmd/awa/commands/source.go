// Package commands implements the CLI's four verbs (spec.md §6): echo,
// build, run, debug. Each takes a source path (or "-" for stdin) and an
// optional explicit format, grounded on the teacher's cmd/sentra/commands
// function-per-verb style and on original_source's Source/Out CLI glue.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"awa5/internal/asm"
	"awa5/internal/awaerr"
	"awa5/internal/awatalk"
	"awa5/internal/program"
)

// Format names a source encoding (spec.md §6's --format values).
type Format string

const (
	FormatAwaTalk Format = "awatalk"
	FormatAwaTism Format = "awatism"
	FormatBinary  Format = "binary"
)

// parseFormat accepts the long name or the short alias original_source's
// SourceFormat offers ("awa", "tism", "bin").
func parseFormat(s string) (Format, bool) {
	switch s {
	case "awatalk", "awa":
		return FormatAwaTalk, true
	case "awatism", "tism":
		return FormatAwaTism, true
	case "binary", "bin":
		return FormatBinary, true
	default:
		return "", false
	}
}

func formatFromExtension(path string) (Format, bool) {
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "awa":
		return FormatAwaTalk, true
	case "tism":
		return FormatAwaTism, true
	case "bin":
		return FormatBinary, true
	default:
		return "", false
	}
}

// readSourceBytes reads the raw bytes of path, or of stdin when path is
// "-". Reading source from an interactive terminal is refused, whatever
// the format, the same way original_source refuses it.
func readSourceBytes(path string) ([]byte, error) {
	if path == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return nil, awaerr.New(awaerr.IOError, "refusing to read source from an interactive terminal")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, awaerr.Wrap(awaerr.IOError, err, "reading stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, awaerr.Wrap(awaerr.IOError, err, "reading "+path)
	}
	return data, nil
}

// resolveFormat picks the format to parse path's bytes as: the explicit
// flag if given, else the file extension, else an "awa" header sniff
// (never for stdin, which must be explicit).
func resolveFormat(path string, explicit Format, data []byte) (Format, error) {
	if explicit != "" {
		return explicit, nil
	}
	if path != "-" {
		if f, ok := formatFromExtension(path); ok {
			return f, nil
		}
		if len(data) >= 3 && strings.EqualFold(string(data[:3]), "awa") {
			return FormatAwaTalk, nil
		}
	}
	return "", awaerr.New(awaerr.UnknownFormat, "couldn't infer file format, specify with --format")
}

// LoadProgram reads path (or stdin for "-") and assembles/decodes it into
// a Program according to format (empty string means auto-detect).
func LoadProgram(path string, format string) (*program.Program, error) {
	data, err := readSourceBytes(path)
	if err != nil {
		return nil, err
	}
	var explicit Format
	if format != "" {
		f, ok := parseFormat(format)
		if !ok {
			return nil, awaerr.New(awaerr.UnknownFormat, fmt.Sprintf("unknown format %q", format))
		}
		explicit = f
	}
	resolved, err := resolveFormat(path, explicit, data)
	if err != nil {
		return nil, err
	}
	switch resolved {
	case FormatAwaTalk:
		bits, length, err := awatalk.Extract(data)
		if err != nil {
			return nil, err
		}
		return program.FromBitstreamWithLength(bits, length)
	case FormatAwaTism:
		loader := asm.NewLoader()
		name := path
		if name == "-" {
			name = "<stdin>"
		}
		return loader.LoadSource(name, data)
	case FormatBinary:
		return program.FromBitstreamPadded(data)
	default:
		return nil, awaerr.New(awaerr.UnknownFormat, "unreachable format")
	}
}
