package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-jass/jassc/internal/cli"
	"github.com/go-jass/jassc/internal/compiler"
	"github.com/go-jass/jassc/internal/log"
)

// Compile is the command that parses source files and prints the compiled
// symbol table, string pool, and instruction list.
//
//	jassc compile FILE.j [FILE2.j...]
func Compile() cli.Command {
	return new(compileCmd)
}

type compileCmd struct {
	debug bool
}

func (compileCmd) Description() string {
	return "compile source files into bytecode"
}

func (compileCmd) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `compile file.j [file2.j...]

Compile one or more source files, concatenated, into bytecode. Prints the
symbol table, the string pool, and the decoded instruction list.`)

	return err
}

func (c *compileCmd) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	return fs
}

// Run reads args as source files, concatenates them with '\n' (§6), and
// compiles the result. On success it writes the three tabular sections and
// the end-of-input trailer; on failure it writes the lexer's final
// position and returns non-zero.
func (c *compileCmd) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if c.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		logger.Error("compile: no input files")
		return 1
	}

	var src bytes.Buffer

	for i, fn := range args {
		if i > 0 {
			src.WriteByte('\n')
		}

		bs, err := os.ReadFile(fn)
		if err != nil {
			logger.Error("read failed", "file", fn, "err", err)
			return 1
		}

		src.Write(bs)
	}

	comp := compiler.New(src.Bytes())

	result, err := comp.Compile()
	if err != nil {
		logger.Error("compile failed", "err", err)

		pos := comp.Pos()
		fmt.Fprintf(out, "end %d:%d\n", pos.Line, pos.Col)

		return 1
	}

	if err := compiler.Report(out, result); err != nil {
		logger.Error("write failed", "err", err)
		return 1
	}

	return 0
}
