// cmd/awa is the toolchain's CLI front end: echo, build, run, debug
// (spec.md §6), dispatched the way the teacher's cmd/sentra/main.go
// switches on os.Args[1] rather than pulling in a flag-parsing framework.
package main

import (
	"fmt"
	"os"

	"awa5/cmd/awa/commands"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "echo":
		err = commands.EchoCommand(os.Args[2:])
	case "build":
		err = commands.BuildCommand(os.Args[2:])
	case "run":
		err = commands.RunCommand(os.Args[2:])
	case "debug":
		err = commands.DebugCommand(os.Args[2:])
	case "help", "--help", "-h":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "awa: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "awa: %s\n", err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("awa - AWA5.0 toolchain")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  awa echo  [--format awatalk|awatism|binary] <file|->")
	fmt.Println("  awa build [--format ...] [-o path] [-F] <file|-> [file...]")
	fmt.Println("  awa run   [--format ...] [-v] [--buffered] <file|->")
	fmt.Println("  awa debug [--format ...] [--buffered] <file|->")
	fmt.Println()
	fmt.Println("Flags must come before the source path(s).")
}
