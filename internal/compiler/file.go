package compiler

import "github.com/go-jass/jassc/internal/token"

// file implements the top-level grammar of §4.6:
//
//	file       := declaration* EOS
//	declaration:= globals-block | type-decl | native-decl | function-decl
func (c *Compiler) file() error {
	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.EOS:
			return nil
		case token.Globals:
			if err := c.globalsBlock(); err != nil {
				return err
			}
		case token.Type:
			if err := c.typeDecl(); err != nil {
				return err
			}
		case token.Native:
			if err := c.functionDecl(true); err != nil {
				return err
			}
		case token.Constant:
			// "constant native ..." head: the leading qualifier carries no
			// bytecode effect of its own (§4.5's state-machine note);
			// consume it, then let functionDecl consume "native" itself.
			if _, err := c.next(); err != nil {
				return err
			}

			next, err := c.peek()
			if err != nil {
				return err
			}

			if next.Kind != token.Native {
				return &SyntaxError{Pos: next.Pos, Want: "'native'", Got: next}
			}

			if err := c.functionDecl(true); err != nil {
				return err
			}
		case token.Function:
			if err := c.functionDecl(false); err != nil {
				return err
			}
		default:
			return &SyntaxError{Pos: tok.Pos, Want: "declaration", Got: tok}
		}
	}
}
