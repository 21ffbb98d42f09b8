package compiler

import (
	"errors"
	"fmt"

	"github.com/go-jass/jassc/internal/token"
)

// Sentinel errors used with errors.Is to classify a failure by kind,
// independent of its concrete type or position. These mirror §7's error
// kinds: Lexical, Syntactic, Semantic-resolution, Semantic-typing,
// Capacity.
var (
	ErrLexical    = errors.New("lexical error")
	ErrSyntax     = errors.New("syntax error")
	ErrResolution = errors.New("resolution error")
	ErrTyping     = errors.New("typing error")
	ErrCapacity   = errors.New("capacity error")
)

// LexError wraps a failure reported by the lexer (unterminated literal or
// block comment, malformed number, invalid byte).
type LexError struct {
	Pos token.Position
	Err error
}

func (e *LexError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Err) }
func (e *LexError) Unwrap() error { return e.Err }
func (e *LexError) Is(target error) bool { return target == ErrLexical }

// SyntaxError reports an unexpected token for the current production.
type SyntaxError struct {
	Pos  token.Position
	Want string
	Got  token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Pos, e.Want, e.Got)
}
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// ResolutionError reports an unknown type, variable, or function, or a
// duplicate function definition.
type ResolutionError struct {
	Pos token.Position
	Msg string
}

func (e *ResolutionError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }
func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// TypingError reports a static type mismatch: operand types, condition
// type, argument arity or assignability, return-value presence, or
// array/scalar confusion.
type TypingError struct {
	Pos token.Position
	Msg string
}

func (e *TypingError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }
func (e *TypingError) Is(target error) bool { return target == ErrTyping }

// CapacityError reports exceeding a fixed structural limit (currently: more
// than 256 parameters on a function).
type CapacityError struct {
	Pos token.Position
	Msg string
}

func (e *CapacityError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }
func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }
