package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"awa5/internal/awaerr"
	"awa5/internal/bitcode"
	"awa5/internal/program"
)

// writeProgram packs p into binary AwaTism bitcode and writes it to out
// (or derives a path from source when out is empty), refusing to
// overwrite an existing file unless force is set, mirroring
// original_source's Out::write.
func writeProgram(p *program.Program, source, out string, force bool) error {
	buf, bits := bitcode.Encode(p.Instrs())

	if out == "-" {
		if _, err := os.Stdout.Write(buf); err != nil {
			return awaerr.Wrap(awaerr.IOError, err, "writing stdout")
		}
		return nil
	}

	target := out
	if target == "" {
		if source == "-" {
			target = "out.bin"
		} else {
			target = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
		}
	}
	if target == source {
		target += ".bin"
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return awaerr.Wrap(awaerr.IOError, err, "opening "+target)
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return awaerr.Wrap(awaerr.IOError, err, "writing "+target)
	}

	size := (bits + 7) / 8
	fmt.Printf("wrote %s: %d instructions, %s\n", target, p.Len(), humanize.Bytes(uint64(size)))
	return nil
}
