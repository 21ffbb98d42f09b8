// Package disasm implements the disassembler of §4.7: it reads a raw byte
// buffer as a sequence of 8-byte instructions and renders each with the
// mnemonic of its opcode. It is the public entry point an external
// process-memory reader (§6, "external process reader") drives.
package disasm

import (
	"fmt"
	"io"

	"github.com/go-jass/jassc/internal/bytecode"
)

// Line is one decoded (or unrecognised) instruction at a given index.
type Line struct {
	Index       int
	Instruction bytecode.Instruction
	Valid       bool
}

// Decode reads buf eight bytes at a time and returns one Line per complete
// instruction. Any trailing partial instruction (fewer than 8 bytes) is
// dropped silently. Lines are numbered from zero.
func Decode(buf []byte) []Line {
	n := len(buf) / bytecode.Size

	lines := make([]Line, 0, n)

	for i := 0; i < n; i++ {
		rec := buf[i*bytecode.Size : (i+1)*bytecode.Size]
		inst := bytecode.Decode(rec)

		lines = append(lines, Line{
			Index:       i,
			Instruction: inst,
			Valid:       bytecode.Valid(inst.Op),
		})
	}

	return lines
}

// Fprint writes one display line per decoded instruction to out, in the
// order described by Decode. Unrecognised opcodes print the raw byte
// fields followed by the "invalid" marker rather than failing.
func Fprint(out io.Writer, buf []byte) error {
	for _, l := range Decode(buf) {
		if !l.Valid {
			_, err := fmt.Fprintf(out, "%04d: r3=%d r2=%d r1=%d op=%#02x arg=%d invalid\n",
				l.Index, l.Instruction.R3, l.Instruction.R2, l.Instruction.R1,
				byte(l.Instruction.Op), l.Instruction.Arg)
			if err != nil {
				return err
			}

			continue
		}

		if _, err := fmt.Fprintf(out, "%04d: %s\n", l.Index, l.Instruction); err != nil {
			return err
		}
	}

	return nil
}
