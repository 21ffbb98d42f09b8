// jassc is a front-end compiler for a JASS-like scripting language: it
// parses, type-checks, and emits bytecode for one or more source files
// (§6).
package main

import (
	"context"
	"os"

	"github.com/go-jass/jassc/internal/cli"
	"github.com/go-jass/jassc/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Compile(),
	cmd.Disasm(),
}

// isSubcommand reports whether name matches a registered sub-command, so
// that "jassc file.j" (the bare §6 CLI contract) and "jassc compile file.j"
// both work: the former is dispatched as an implicit "compile".
func isSubcommand(name string) bool {
	for _, c := range commands {
		if c.FlagSet().Name() == name {
			return true
		}
	}

	return name == "help"
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 && !isSubcommand(args[0]) {
		args = append([]string{"compile"}, args...)
	}

	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(args)

	os.Exit(result)
}
