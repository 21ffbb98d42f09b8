// Package compiler implements the recursive-descent parser that is
// simultaneously a type-checker, symbol-table builder, register allocator,
// and bytecode emitter (spec §4.2-§4.6).
package compiler

import (
	"github.com/go-jass/jassc/internal/bytecode"
	"github.com/go-jass/jassc/internal/lexer"
	"github.com/go-jass/jassc/internal/token"
	"github.com/go-jass/jassc/internal/types"
)

// Result is the in-memory artefact produced by a successful compilation:
// the instruction list plus the two side tables it references by index.
type Result struct {
	Symbols     *types.Symbols
	Types       *types.Types
	Functions   *types.Functions
	Variables   *types.Variables
	Strings     *types.Strings
	Code        []bytecode.Instruction
	EndPosition token.Position
}

// Compiler drives one compilation: it owns the lexer, the registries, the
// emitted instruction list, the register allocator, and the label/loop
// bookkeeping for control flow.
type Compiler struct {
	lex *lexer.Lexer

	symbols   *types.Symbols
	typeTab   *types.Types
	functions *types.Functions
	variables *types.Variables
	strings   *types.Strings

	code []bytecode.Instruction

	reg      byte // next register to allocate, 1..255
	label    uint32
	loops    []uint32 // stack of active loop label ids, for exitwhen
	funcName string   // display name of the function currently being compiled, for diagnostics
}

// New creates a Compiler over src, a single concatenated source stream
// (§6: multiple files are joined with '\n' before compilation begins).
func New(src []byte) *Compiler {
	symbols := types.NewSymbols()

	return &Compiler{
		lex:       lexer.New(src),
		symbols:   symbols,
		typeTab:   types.NewTypes(symbols),
		functions: types.NewFunctions(),
		variables: types.NewVariables(),
		strings:   types.NewStrings(),
		reg:       1,
	}
}

// Compile runs the file driver (§4.6) to completion and returns the
// resulting artefact, or the first error encountered.
func (c *Compiler) Compile() (*Result, error) {
	if err := c.file(); err != nil {
		return nil, err
	}

	return &Result{
		Symbols:     c.symbols,
		Types:       c.typeTab,
		Functions:   c.functions,
		Variables:   c.variables,
		Strings:     c.strings,
		Code:        c.code,
		EndPosition: c.lex.Pos(),
	}, nil
}

// Pos returns the lexer's current position, used by the caller to report a
// failure location (§7: "the driver reports the lexer's current (line,
// col)").
func (c *Compiler) Pos() token.Position {
	return c.lex.Pos()
}

// emit appends an instruction and returns its index in the code array.
func (c *Compiler) emit(i bytecode.Instruction) int {
	c.code = append(c.code, i)
	return len(c.code) - 1
}

// allocReg returns the next destination register, advancing the
// monotonic 1..255 counter with wraparound (§4.4, §9 "Register counter
// wraparound" — 0 is reserved for the call-result register).
func (c *Compiler) allocReg() byte {
	r := c.reg

	if c.reg == 255 {
		c.reg = 1
	} else {
		c.reg++
	}

	return r
}

// newLabel allocates a fresh, monotonically increasing label id. Ids start
// at 1, so a jump argument of 0 always means "not yet back-patched".
func (c *Compiler) newLabel() uint32 {
	c.label++
	return c.label
}

// next/peek wrap the lexer, translating lexer.Error into a compiler
// LexError so all compiler-surfaced errors share the wrapped-error
// hierarchy in errors.go.
func (c *Compiler) next() (token.Token, error) {
	tok, err := c.lex.Next()
	if err != nil {
		return token.Token{}, wrapLexErr(err)
	}
	return tok, nil
}

func (c *Compiler) peek() (token.Token, error) {
	tok, err := c.lex.Peek()
	if err != nil {
		return token.Token{}, wrapLexErr(err)
	}
	return tok, nil
}

func wrapLexErr(err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return &LexError{Pos: le.Pos, Err: le}
	}
	return err
}

// expect consumes and returns the next token, failing with a SyntaxError
// unless its kind is k.
func (c *Compiler) expect(k token.Kind, want string) (token.Token, error) {
	tok, err := c.next()
	if err != nil {
		return token.Token{}, err
	}

	if tok.Kind != k {
		return token.Token{}, &SyntaxError{Pos: tok.Pos, Want: want, Got: tok}
	}

	return tok, nil
}
