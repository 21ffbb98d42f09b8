package compiler

import (
	"fmt"
	"io"

	"github.com/go-jass/jassc/internal/disasm"
	"github.com/go-jass/jassc/internal/types"
)

// Report writes the three tabular sections described by §6's CLI contract —
// symbol table, string pool, instruction list — followed by the
// "end <line>:<col>" trailer, to out.
func Report(out io.Writer, r *Result) error {
	if err := reportSymbols(out, r); err != nil {
		return err
	}

	if err := reportStrings(out, r); err != nil {
		return err
	}

	if err := reportCode(out, r); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "end %d:%d\n", r.EndPosition.Line, r.EndPosition.Col)

	return err
}

func reportSymbols(out io.Writer, r *Result) error {
	if _, err := fmt.Fprintln(out, "SYMBOLS"); err != nil {
		return err
	}

	for i, name := range r.Symbols.All() {
		id := types.SymbolID(i)
		line := fmt.Sprintf("%d\t%s", i, name)

		if t, ok := r.Types.LookupID(id); ok {
			line += fmt.Sprintf("\ttype=%s kind=%s array=%t", t.Name, t.Kind, t.IsArray)
		}

		if rec, native, ok := r.Functions.Resolve(id); ok {
			kind := "jass"
			if native {
				kind = "native"
			}

			ret := "nothing"
			if rec.Returns != nil {
				ret = rec.Returns.Name
			}

			line += fmt.Sprintf("\tfunc(%s) params=%d returns=%s", kind, len(rec.Params), ret)
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	return nil
}

func reportStrings(out io.Writer, r *Result) error {
	if _, err := fmt.Fprintln(out, "STRINGS"); err != nil {
		return err
	}

	for i, s := range r.Strings.All() {
		if _, err := fmt.Fprintf(out, "%d\t%q\n", i, s); err != nil {
			return err
		}
	}

	return nil
}

func reportCode(out io.Writer, r *Result) error {
	if _, err := fmt.Fprintln(out, "CODE"); err != nil {
		return err
	}

	var buf []byte

	for _, inst := range r.Code {
		enc := inst.Encode()
		buf = append(buf, enc[:]...)
	}

	return disasm.Fprint(out, buf)
}
