// Package lexer converts a byte stream into a stream of tokens with one
// token of look-ahead. It tracks byte, line, and column position so the
// parser can report failure locations.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/go-jass/jassc/internal/token"
)

// Error is returned by the lexer. It always carries the position at which
// the failure was detected.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lexer reads a byte slice and produces Tokens. It is not safe for
// concurrent use; a Lexer has exactly one owner.
type Lexer struct {
	src []byte
	off int // index of the next unread byte

	pos   token.Position // position of the next unread byte
	ahead *token.Token    // one-token look-ahead cache
}

// New creates a Lexer over src.
func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Pos returns the lexer's current position (that of the next byte to be
// consumed).
func (l *Lexer) Pos() token.Position {
	return l.pos
}

// Peek returns the next token without consuming it. Calling Peek twice in a
// row returns the same token.
func (l *Lexer) Peek() (token.Token, error) {
	if l.ahead != nil {
		return *l.ahead, nil
	}

	tok, err := l.scan()
	if err != nil {
		return token.Token{}, err
	}

	l.ahead = &tok

	return tok, nil
}

// Next returns and consumes the next token.
func (l *Lexer) Next() (token.Token, error) {
	if l.ahead != nil {
		tok := *l.ahead
		l.ahead = nil

		return tok, nil
	}

	return l.scan()
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &Error{Pos: l.pos, Msg: fmt.Sprintf(format, args...)}
}

// byteAt returns the byte at offset i past the read cursor without consuming
// anything, or 0 if past the end of input.
func (l *Lexer) byteAt(i int) byte {
	if l.off+i >= len(l.src) {
		return 0
	}
	return l.src[l.off+i]
}

// advance consumes n bytes, updating the byte/line/col counters.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		b := l.src[l.off]
		l.off++
		l.pos.Byte++

		if b == '\n' {
			l.pos.Line++
			l.pos.Col = 0
		} else {
			l.pos.Col++
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isIdentStop reports whether b ends a running identifier, per §4.2: an
// identifier continues while the next byte is not whitespace, ',', '(',
// ')', '=', '/', '*', '+', '-', '[', ']'.
func isIdentStop(b byte) bool {
	switch b {
	case 0, ' ', '\t', '\r', '\n', ',', '(', ')', '=', '/', '*', '+', '-', '[', ']':
		return true
	default:
		return false
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		b := l.byteAt(0)

		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance(1)
		case b == '/' && l.byteAt(1) == '/':
			l.advance(2)
			for {
				b := l.byteAt(0)
				if b == 0 {
					return nil
				}
				if b == '\n' || b == '\r' {
					l.advance(1)
					break
				}
				l.advance(1)
			}
		case b == '/' && l.byteAt(1) == '*':
			l.advance(2)
			for {
				if l.byteAt(0) == 0 {
					return l.errorf("unterminated block comment")
				}
				if l.byteAt(0) == '*' && l.byteAt(1) == '/' {
					l.advance(2)
					break
				}
				l.advance(1)
			}
		default:
			return nil
		}
	}
}

// scan reads and returns the next token, updating the lexer's position as
// it commits bytes.
func (l *Lexer) scan() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.pos
	b := l.byteAt(0)

	if b == 0 {
		return token.Token{Kind: token.EOS, Pos: start}, nil
	}

	switch {
	case b == '=' && l.byteAt(1) == '=':
		l.advance(2)
		return token.Token{Kind: token.Eq, Pos: start}, nil
	case b == '!' && l.byteAt(1) == '=':
		l.advance(2)
		return token.Token{Kind: token.NotEq, Pos: start}, nil
	case b == '<' && l.byteAt(1) == '=':
		l.advance(2)
		return token.Token{Kind: token.LesEq, Pos: start}, nil
	case b == '>' && l.byteAt(1) == '=':
		l.advance(2)
		return token.Token{Kind: token.GreEq, Pos: start}, nil
	case b == '=':
		l.advance(1)
		return token.Token{Kind: token.Assign, Pos: start}, nil
	case b == '!':
		l.advance(1)
		return token.Token{Kind: token.Not, Pos: start}, nil
	case b == '<':
		l.advance(1)
		return token.Token{Kind: token.Less, Pos: start}, nil
	case b == '>':
		l.advance(1)
		return token.Token{Kind: token.Greater, Pos: start}, nil
	case b == '+':
		l.advance(1)
		return token.Token{Kind: token.Add, Pos: start}, nil
	case b == '-':
		l.advance(1)
		return token.Token{Kind: token.Sub, Pos: start}, nil
	case b == '*':
		l.advance(1)
		return token.Token{Kind: token.Mul, Pos: start}, nil
	case b == '/':
		l.advance(1)
		return token.Token{Kind: token.Div, Pos: start}, nil
	case b == '(':
		l.advance(1)
		return token.Token{Kind: token.Lparen, Pos: start}, nil
	case b == ')':
		l.advance(1)
		return token.Token{Kind: token.Rparen, Pos: start}, nil
	case b == '[':
		l.advance(1)
		return token.Token{Kind: token.Lbracket, Pos: start}, nil
	case b == ']':
		l.advance(1)
		return token.Token{Kind: token.Rbracket, Pos: start}, nil
	case b == ',':
		l.advance(1)
		return token.Token{Kind: token.Comma, Pos: start}, nil
	case b == '"':
		return l.readString(start)
	case b == '\'':
		return l.readQuoted(start)
	case isDigit(b):
		return l.readNumber(start)
	case isIdentStart(b):
		return l.readIdent(start)
	default:
		return token.Token{}, l.errorf("invalid char %q", b)
	}
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	l.advance(1) // opening quote

	var buf []byte

	for {
		b := l.byteAt(0)
		if b == 0 {
			return token.Token{}, &Error{Pos: start, Msg: "unterminated string literal"}
		}
		if b == '"' {
			l.advance(1)
			return token.Token{Kind: token.Str, Pos: start, Str: string(buf)}, nil
		}
		buf = append(buf, b)
		l.advance(1)
	}
}

// readQuoted reads the packed four-byte single-quote literal: the integer
// value is b0*255^3 + b1*255^2 + b2*255 + b3, using raw byte values (255,
// not 256 — see §4.2 and DESIGN.md).
func (l *Lexer) readQuoted(start token.Position) (token.Token, error) {
	l.advance(1) // opening quote

	var bs [4]byte

	for i := 0; i < 4; i++ {
		b := l.byteAt(0)
		if b == 0 || b == '\'' {
			return token.Token{}, &Error{Pos: start, Msg: "single-quote literal must contain exactly four bytes"}
		}
		bs[i] = b
		l.advance(1)
	}

	if l.byteAt(0) != '\'' {
		return token.Token{}, &Error{Pos: start, Msg: "single-quote literal must contain exactly four bytes"}
	}
	l.advance(1)

	val := int64(bs[0])*255*255*255 + int64(bs[1])*255*255 + int64(bs[2])*255 + int64(bs[3])

	return token.Token{Kind: token.SingleQuote, Pos: start, Int: val}, nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	var digits []byte

	for isDigit(l.byteAt(0)) {
		digits = append(digits, l.byteAt(0))
		l.advance(1)
	}

	if l.byteAt(0) == '.' && isDigit(l.byteAt(1)) {
		digits = append(digits, '.')
		l.advance(1)

		for isDigit(l.byteAt(0)) {
			digits = append(digits, l.byteAt(0))
			l.advance(1)
		}

		f, err := strconv.ParseFloat(string(digits), 64)
		if err != nil {
			return token.Token{}, &Error{Pos: start, Msg: "malformed real literal: " + err.Error()}
		}

		return token.Token{Kind: token.Real, Pos: start, Real: f}, nil
	}

	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return token.Token{}, &Error{Pos: start, Msg: "malformed integer literal: " + err.Error()}
	}

	return token.Token{Kind: token.Int, Pos: start, Int: n}, nil
}

func (l *Lexer) readIdent(start token.Position) (token.Token, error) {
	var buf []byte

	for !isIdentStop(l.byteAt(0)) {
		buf = append(buf, l.byteAt(0))
		l.advance(1)
	}

	name := string(buf)

	if kind, ok := token.Lookup(name); ok {
		return token.Token{Kind: kind, Pos: start, Name: name}, nil
	}

	return token.Token{Kind: token.Name, Pos: start, Name: name}, nil
}
