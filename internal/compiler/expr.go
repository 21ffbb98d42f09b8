package compiler

import (
	"github.com/go-jass/jassc/internal/bytecode"
	"github.com/go-jass/jassc/internal/token"
	"github.com/go-jass/jassc/internal/types"
)

// value is the result of compiling an expression: the register holding it
// and its static type.
type value struct {
	reg byte
	typ *types.TypeRecord
}

func (c *Compiler) primitive(name string) *types.TypeRecord {
	t, ok := c.typeTab.Lookup(name)
	if !ok {
		panic("compiler: primitive type not bootstrapped: " + name)
	}
	return t
}

// expression implements precedence-climbing recursive descent, per §4.4.
// minPriority is the minimum binary-operator priority the caller is
// willing to consume.
func (c *Compiler) expression(minPriority int) (value, error) {
	left, err := c.unary()
	if err != nil {
		return value{}, err
	}

	for {
		tok, err := c.peek()
		if err != nil {
			return value{}, err
		}

		if !tok.Kind.IsBinOp() || tok.Kind.Priority() <= minPriority {
			return left, nil
		}

		priority := tok.Kind.Priority()

		if _, err := c.next(); err != nil {
			return value{}, err
		}

		right, err := c.expression(priority)
		if err != nil {
			return value{}, err
		}

		left, err = c.combine(tok, left, right)
		if err != nil {
			return value{}, err
		}
	}
}

// unary handles the unary '-' prefix and falls through to primary.
func (c *Compiler) unary() (value, error) {
	tok, err := c.peek()
	if err != nil {
		return value{}, err
	}

	switch tok.Kind {
	case token.Sub:
		if _, err := c.next(); err != nil {
			return value{}, err
		}

		operand, err := c.unary()
		if err != nil {
			return value{}, err
		}

		// Negate is emitted on a freshly allocated register rather than on
		// the operand register; only the r1 field is used, the operand
		// register is not transferred into the instruction at all (§4.4,
		// §9 Open Questions).
		dst := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.Negate, R1: dst})

		return value{reg: dst, typ: operand.typ}, nil

	case token.Not:
		if _, err := c.next(); err != nil {
			return value{}, err
		}

		operand, err := c.unary()
		if err != nil {
			return value{}, err
		}

		if operand.typ.Kind != bytecode.KindBoolean {
			return value{}, &TypingError{Pos: tok.Pos, Msg: "'not' requires a boolean operand"}
		}

		dst := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.Not, R1: dst})

		return value{reg: dst, typ: operand.typ}, nil

	default:
		return c.primary()
	}
}

func (c *Compiler) primary() (value, error) {
	tok, err := c.next()
	if err != nil {
		return value{}, err
	}

	switch tok.Kind {
	case token.Str:
		idx := c.strings.Intern(tok.Str)
		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindString), Arg: uint32(idx)})
		return value{reg: r, typ: c.primitive("string")}, nil

	case token.Null:
		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindNull), Arg: 0})
		return value{reg: r, typ: c.primitive("null")}, nil

	case token.True, token.False:
		r := c.allocReg()
		bit := uint32(0)
		if tok.Kind == token.True {
			bit = 1
		}
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindBoolean), Arg: bit})
		return value{reg: r, typ: c.primitive("boolean")}, nil

	case token.Int:
		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindInteger), Arg: bytecode.IntImmediate(tok.Int)})
		return value{reg: r, typ: c.primitive("integer")}, nil

	case token.Real:
		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindReal), Arg: bytecode.RealImmediate(float32(tok.Real))})
		return value{reg: r, typ: c.primitive("real")}, nil

	case token.SingleQuote:
		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.SetRegLiteral, R1: r, R2: byte(bytecode.KindInteger), Arg: bytecode.IntImmediate(tok.Int)})
		return value{reg: r, typ: c.primitive("integer")}, nil

	case token.Lparen:
		v, err := c.expression(0)
		if err != nil {
			return value{}, err
		}
		if _, err := c.expect(token.Rparen, "')'"); err != nil {
			return value{}, err
		}
		return v, nil

	case token.Name:
		return c.nameExpr(tok)

	default:
		return value{}, &SyntaxError{Pos: tok.Pos, Want: "expression", Got: tok}
	}
}

// nameExpr handles the three name-led primaries: function call, array
// access, and plain variable reference.
func (c *Compiler) nameExpr(name token.Token) (value, error) {
	next, err := c.peek()
	if err != nil {
		return value{}, err
	}

	if next.Kind == token.Lparen {
		ret, err := c.call(name)
		if err != nil {
			return value{}, err
		}

		r := c.allocReg()
		c.emit(bytecode.Instruction{Op: bytecode.Move, R1: r, R2: 0})

		return value{reg: r, typ: ret}, nil
	}

	sym, ok := c.symbols.Lookup(name.Name)
	if !ok {
		return value{}, &ResolutionError{Pos: name.Pos, Msg: "unknown variable: " + name.Name}
	}

	vt, ok := c.variables.Get(sym)
	if !ok {
		return value{}, &ResolutionError{Pos: name.Pos, Msg: "unknown variable: " + name.Name}
	}

	if next.Kind == token.Lbracket {
		if !vt.IsArray {
			return value{}, &TypingError{Pos: name.Pos, Msg: name.Name + " is not an array"}
		}

		if _, err := c.next(); err != nil {
			return value{}, err
		}

		idx, err := c.expression(0)
		if err != nil {
			return value{}, err
		}

		if _, err := c.expect(token.Rbracket, "']'"); err != nil {
			return value{}, err
		}

		r := c.allocReg()
		c.emit(bytecode.Instruction{
			Op: bytecode.SetRegVarArray, R1: r, R2: idx.reg, R3: byte(vt.Kind), Arg: uint32(sym),
		})

		elem := *vt
		elem.IsArray = false

		return value{reg: r, typ: &elem}, nil
	}

	if vt.IsArray {
		return value{}, &TypingError{Pos: name.Pos, Msg: name.Name + " is an array and must be indexed"}
	}

	r := c.allocReg()
	c.emit(bytecode.Instruction{Op: bytecode.SetRegVar, R1: r, R2: byte(vt.Kind), Arg: uint32(sym)})

	return value{reg: r, typ: vt}, nil
}

// binopTable maps a binary operator token kind to its opcode, a total
// table lookup rather than chained conditionals (§9 "Binary-operator
// dispatch").
var binopTable = map[token.Kind]bytecode.Op{
	token.And:     bytecode.And,
	token.Or:      bytecode.Or,
	token.Eq:      bytecode.Equal,
	token.NotEq:   bytecode.Notequal,
	token.LesEq:   bytecode.Lesserequal,
	token.GreEq:   bytecode.Greaterequal,
	token.Less:    bytecode.Lesser,
	token.Greater: bytecode.Greater,
	token.Add:     bytecode.Add,
	token.Sub:     bytecode.Sub,
	token.Mul:     bytecode.Mul,
	token.Div:     bytecode.Div,
}

func (c *Compiler) widenToReal(v value) value {
	c.emit(bytecode.Instruction{Op: bytecode.IntToReal, R1: v.reg})
	return value{reg: v.reg, typ: c.primitive("real")}
}

// combine type-checks and emits the instruction for a binary operator
// applied to left and right, per §4.4's combination rules.
func (c *Compiler) combine(op token.Token, left, right value) (value, error) {
	opcode, ok := binopTable[op.Kind]
	if !ok {
		return value{}, &SyntaxError{Pos: op.Pos, Want: "binary operator", Got: op}
	}

	var result *types.TypeRecord

	switch op.Kind {
	case token.Add, token.Sub, token.Mul, token.Div:
		if !isNumeric(left.typ) || !isNumeric(right.typ) {
			return value{}, &TypingError{Pos: op.Pos, Msg: "arithmetic operator requires numeric operands"}
		}

		if left.typ.Kind == bytecode.KindInteger && right.typ.Kind == bytecode.KindReal {
			left = c.widenToReal(left)
		} else if right.typ.Kind == bytecode.KindInteger && left.typ.Kind == bytecode.KindReal {
			right = c.widenToReal(right)
		}

		if left.typ.Kind == bytecode.KindReal || right.typ.Kind == bytecode.KindReal {
			result = c.primitive("real")
		} else {
			result = c.primitive("integer")
		}

	case token.Eq, token.NotEq:
		if left.typ.Kind != right.typ.Kind && left.typ.Name != "null" && right.typ.Name != "null" {
			return value{}, &TypingError{Pos: op.Pos, Msg: "comparison operands must share a base kind"}
		}
		result = c.primitive("boolean")

	case token.LesEq, token.GreEq, token.Less, token.Greater:
		if !isNumeric(left.typ) || !isNumeric(right.typ) {
			return value{}, &TypingError{Pos: op.Pos, Msg: "ordering operator requires numeric operands"}
		}

		if left.typ.Kind == bytecode.KindInteger && right.typ.Kind == bytecode.KindReal {
			left = c.widenToReal(left)
		} else if right.typ.Kind == bytecode.KindInteger && left.typ.Kind == bytecode.KindReal {
			right = c.widenToReal(right)
		}

		result = c.primitive("boolean")

	case token.And, token.Or:
		if left.typ.Kind != bytecode.KindBoolean || right.typ.Kind != bytecode.KindBoolean {
			return value{}, &TypingError{Pos: op.Pos, Msg: "'and'/'or' require boolean operands"}
		}
		result = c.primitive("boolean")
	}

	dst := c.allocReg()
	c.emit(bytecode.Instruction{Op: opcode, R1: dst, R2: left.reg, R3: right.reg})

	return value{reg: dst, typ: result}, nil
}

func isNumeric(t *types.TypeRecord) bool {
	return t.Kind == bytecode.KindInteger || t.Kind == bytecode.KindReal
}
