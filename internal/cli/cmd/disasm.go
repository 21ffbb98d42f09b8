package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-jass/jassc/internal/cli"
	"github.com/go-jass/jassc/internal/disasm"
	"github.com/go-jass/jassc/internal/log"
)

// Disasm is a small stand-in for the out-of-core external process reader
// described by §6: it reads a raw bytecode file from disk rather than
// another process's address space, and pipes it through the disassembler's
// public entry point.
//
//	jassc disasm FILE.bc
func Disasm() cli.Command {
	return new(disasmCmd)
}

type disasmCmd struct{}

func (disasmCmd) Description() string {
	return "disassemble a raw bytecode file"
}

func (disasmCmd) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `disasm file.bc

Read a raw bytecode file and print its decoded instructions.`)

	return err
}

func (disasmCmd) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

func (disasmCmd) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if len(args) != 1 {
		logger.Error("disasm: expected exactly one file argument")
		return 1
	}

	buf, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read failed", "file", args[0], "err", err)
		return 1
	}

	if err := disasm.Fprint(out, buf); err != nil {
		logger.Error("write failed", "err", err)
		return 1
	}

	return 0
}
