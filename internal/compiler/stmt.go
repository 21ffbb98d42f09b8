package compiler

import (
	"github.com/go-jass/jassc/internal/bytecode"
	"github.com/go-jass/jassc/internal/token"
	"github.com/go-jass/jassc/internal/types"
)

// arrayableBaseKinds lists the base kinds an "array" declaration may use,
// per §4.5.
var arrayableBaseKinds = map[bytecode.Kind]bool{
	bytecode.KindInteger: true,
	bytecode.KindReal:    true,
	bytecode.KindString:  true,
	bytecode.KindBoolean: true,
	bytecode.KindHandle:  true,
}

// globalsBlock compiles the sequence of variable declarations between
// "globals" and "endglobals".
func (c *Compiler) globalsBlock() error {
	if _, err := c.next(); err != nil { // consume "globals"
		return err
	}

	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}

		if tok.Kind == token.Endglobals {
			_, err := c.next()
			return err
		}

		if err := c.varDecl(0); err != nil {
			return err
		}
	}
}

// varDecl compiles one variable declaration. forceQualifier, when non-zero,
// overrides the declaration opcode after consuming any leading
// "constant"/"local" keyword (used for local declarations, which are
// always Local regardless of a leading keyword); pass 0 to let a leading
// "constant"/"local" keyword decide the opcode, defaulting to Global.
func (c *Compiler) varDecl(forceQualifier bytecode.Op) error {
	qualifier := bytecode.Global

	tok, err := c.peek()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case token.Constant:
		qualifier = bytecode.Constant
		if _, err := c.next(); err != nil {
			return err
		}
	case token.Local:
		qualifier = bytecode.Local
		if _, err := c.next(); err != nil {
			return err
		}
	}

	if forceQualifier != 0 {
		qualifier = forceQualifier
	}

	typeName, err := c.expect(token.Name, "type name")
	if err != nil {
		return err
	}

	typ, ok := c.typeTab.Lookup(typeName.Name)
	if !ok {
		return &ResolutionError{Pos: typeName.Pos, Msg: "unknown type: " + typeName.Name}
	}

	isArray := false

	peeked, err := c.peek()
	if err != nil {
		return err
	}

	if peeked.Kind == token.Array {
		if !arrayableBaseKinds[typ.Kind] {
			return &TypingError{Pos: peeked.Pos, Msg: "array base kind not permitted: " + typeName.Name}
		}

		isArray = true

		if _, err := c.next(); err != nil {
			return err
		}
	}

	nameTok, err := c.expect(token.Name, "variable name")
	if err != nil {
		return err
	}

	sym := c.symbols.Intern(nameTok.Name)

	varType := typ
	if isArray {
		arrType := *typ
		arrType.IsArray = true
		varType = &arrType
	}

	c.variables.Set(sym, varType)
	c.emit(bytecode.Instruction{Op: qualifier, R1: byte(typ.Kind), Arg: uint32(sym)})

	peeked, err = c.peek()
	if err != nil {
		return err
	}

	if peeked.Kind == token.Assign {
		if isArray {
			return &TypingError{Pos: peeked.Pos, Msg: "array declaration may not have an initialiser"}
		}

		if _, err := c.next(); err != nil {
			return err
		}

		v, err := c.expression(0)
		if err != nil {
			return err
		}

		if ok, widen := c.typeTab.Assignable(v.typ, varType); !ok {
			return &TypingError{Pos: nameTok.Pos, Msg: "initialiser type not assignable to " + nameTok.Name}
		} else if widen {
			v = c.widenToReal(v)
		}

		c.emit(bytecode.Instruction{Op: bytecode.SetVar, R1: v.reg, Arg: uint32(sym)})
	}

	return nil
}

// typeDecl compiles "type N extends B".
func (c *Compiler) typeDecl() error {
	if _, err := c.next(); err != nil { // consume "type"
		return err
	}

	nameTok, err := c.expect(token.Name, "type name")
	if err != nil {
		return err
	}

	if _, err := c.expect(token.Extends, "'extends'"); err != nil {
		return err
	}

	baseTok, err := c.expect(token.Name, "base type name")
	if err != nil {
		return err
	}

	derivedID, err := c.typeTab.Declare(nameTok.Name, baseTok.Name)
	if err != nil {
		return &ResolutionError{Pos: baseTok.Pos, Msg: err.Error()}
	}

	baseID, _ := c.symbols.Lookup(baseTok.Name)

	c.emit(bytecode.Instruction{Op: bytecode.Type, Arg: uint32(derivedID)})
	c.emit(bytecode.Instruction{Op: bytecode.Extends, Arg: uint32(baseID)})

	return nil
}

// functionDecl compiles a "function" or "native" head, and, for a
// user-defined function, its locals and body.
func (c *Compiler) functionDecl(native bool) error {
	if _, err := c.next(); err != nil { // consume "function"/"native"
		return err
	}

	nameTok, err := c.expect(token.Name, "function name")
	if err != nil {
		return err
	}

	sym := c.symbols.Intern(nameTok.Name)

	if c.functions.Declared(sym) {
		return &ResolutionError{Pos: nameTok.Pos, Msg: "duplicate function definition: " + nameTok.Name}
	}

	if _, err := c.expect(token.Takes, "'takes'"); err != nil {
		return err
	}

	params, err := c.paramList()
	if err != nil {
		return err
	}

	if _, err := c.expect(token.Returns, "'returns'"); err != nil {
		return err
	}

	retTok, err := c.next()
	if err != nil {
		return err
	}

	var ret *types.TypeRecord

	if retTok.Kind != token.Nothing {
		if retTok.Kind != token.Name {
			return &SyntaxError{Pos: retTok.Pos, Want: "return type or 'nothing'", Got: retTok}
		}

		var ok bool

		ret, ok = c.typeTab.Lookup(retTok.Name)
		if !ok {
			return &ResolutionError{Pos: retTok.Pos, Msg: "unknown type: " + retTok.Name}
		}
	}

	rec := &types.FunctionRecord{Name: nameTok.Name, Params: params, Returns: ret}

	if native {
		c.functions.DeclareNative(sym, rec)
		c.emit(bytecode.Instruction{Op: bytecode.Function, Arg: uint32(sym)})

		return nil
	}

	c.functions.DeclareJass(sym, rec)
	c.emit(bytecode.Instruction{Op: bytecode.Function, Arg: uint32(sym)})

	for _, p := range params {
		psym := c.symbols.Intern(p.Name)
		c.variables.Set(psym, p.Type)
		c.emit(bytecode.Instruction{Op: bytecode.Funcarg, R1: byte(p.Type.Kind), R2: byte(p.Ord), Arg: uint32(psym)})
	}

	prevFunc := c.funcName
	c.funcName = nameTok.Name
	defer func() { c.funcName = prevFunc }()

	// Local declarations precede the body.
	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}

		if tok.Kind != token.Local {
			break
		}

		if err := c.varDecl(bytecode.Local); err != nil {
			return err
		}
	}

	if err := c.chunk(rec); err != nil {
		return err
	}

	_, err = c.expect(token.Endfunction, "'endfunction'")

	if err != nil {
		return err
	}

	c.emit(bytecode.Instruction{Op: bytecode.Endfunction})

	return nil
}

// paramList compiles the "nothing" or comma-separated parameter list of a
// function head. At most 256 parameters are permitted (§7 Capacity).
func (c *Compiler) paramList() ([]types.FunctionParam, error) {
	tok, err := c.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.Nothing {
		_, err := c.next()
		return nil, err
	}

	var params []types.FunctionParam

	for {
		typeTok, err := c.expect(token.Name, "parameter type")
		if err != nil {
			return nil, err
		}

		typ, ok := c.typeTab.Lookup(typeTok.Name)
		if !ok {
			return nil, &ResolutionError{Pos: typeTok.Pos, Msg: "unknown type: " + typeTok.Name}
		}

		nameTok, err := c.expect(token.Name, "parameter name")
		if err != nil {
			return nil, err
		}

		if len(params) >= 256 {
			return nil, &CapacityError{Pos: nameTok.Pos, Msg: "function has more than 256 parameters"}
		}

		params = append(params, types.FunctionParam{Name: nameTok.Name, Type: typ, Ord: len(params)})

		next, err := c.peek()
		if err != nil {
			return nil, err
		}

		if next.Kind != token.Comma {
			return params, nil
		}

		if _, err := c.next(); err != nil {
			return nil, err
		}
	}
}

// chunk compiles a sequence of statements terminated by one of
// endfunction/endloop/else/elseif/endif, per §4.5.
func (c *Compiler) chunk(fn *types.FunctionRecord) error {
	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.Endfunction, token.Endloop, token.Else, token.Elseif, token.Endif:
			return nil
		case token.Set:
			if err := c.setStmt(); err != nil {
				return err
			}
		case token.Call:
			if err := c.callStmt(); err != nil {
				return err
			}
		case token.Return:
			if err := c.returnStmt(fn); err != nil {
				return err
			}
		case token.Loop:
			if err := c.loopStmt(fn); err != nil {
				return err
			}
		case token.Exitwhen:
			if err := c.exitwhenStmt(); err != nil {
				return err
			}
		case token.If:
			if err := c.ifStmt(fn); err != nil {
				return err
			}
		default:
			return &SyntaxError{Pos: tok.Pos, Want: "statement", Got: tok}
		}
	}
}

func (c *Compiler) resolveVar(tok token.Token) (types.SymbolID, *types.TypeRecord, error) {
	sym, ok := c.symbols.Lookup(tok.Name)
	if !ok {
		return 0, nil, &ResolutionError{Pos: tok.Pos, Msg: "unknown variable: " + tok.Name}
	}

	vt, ok := c.variables.Get(sym)
	if !ok {
		return 0, nil, &ResolutionError{Pos: tok.Pos, Msg: "unknown variable: " + tok.Name}
	}

	return sym, vt, nil
}

// setStmt compiles "set var = expr" and "set var[i] = expr".
func (c *Compiler) setStmt() error {
	if _, err := c.next(); err != nil { // consume "set"
		return err
	}

	nameTok, err := c.expect(token.Name, "variable name")
	if err != nil {
		return err
	}

	sym, vt, err := c.resolveVar(nameTok)
	if err != nil {
		return err
	}

	peeked, err := c.peek()
	if err != nil {
		return err
	}

	if peeked.Kind == token.Lbracket {
		if !vt.IsArray {
			return &TypingError{Pos: nameTok.Pos, Msg: nameTok.Name + " is not an array"}
		}

		if _, err := c.next(); err != nil {
			return err
		}

		idx, err := c.expression(0)
		if err != nil {
			return err
		}

		if _, err := c.expect(token.Rbracket, "']'"); err != nil {
			return err
		}

		if _, err := c.expect(token.Assign, "'='"); err != nil {
			return err
		}

		v, err := c.expression(0)
		if err != nil {
			return err
		}

		elem := *vt
		elem.IsArray = false

		if ok, widen := c.typeTab.Assignable(v.typ, &elem); !ok {
			return &TypingError{Pos: nameTok.Pos, Msg: "assigned value not assignable to " + nameTok.Name}
		} else if widen {
			v = c.widenToReal(v)
		}

		c.emit(bytecode.Instruction{Op: bytecode.SetVarArray, R1: idx.reg, R2: v.reg, Arg: uint32(sym)})

		return nil
	}

	if vt.IsArray {
		return &TypingError{Pos: nameTok.Pos, Msg: nameTok.Name + " is an array and must be indexed"}
	}

	if _, err := c.expect(token.Assign, "'='"); err != nil {
		return err
	}

	v, err := c.expression(0)
	if err != nil {
		return err
	}

	if ok, widen := c.typeTab.Assignable(v.typ, vt); !ok {
		return &TypingError{Pos: nameTok.Pos, Msg: "assigned value not assignable to " + nameTok.Name}
	} else if widen {
		v = c.widenToReal(v)
	}

	c.emit(bytecode.Instruction{Op: bytecode.SetVar, R1: v.reg, Arg: uint32(sym)})

	return nil
}

// callStmt compiles "call name(args)" as a statement (result discarded).
func (c *Compiler) callStmt() error {
	if _, err := c.next(); err != nil { // consume "call"
		return err
	}

	nameTok, err := c.expect(token.Name, "function name")
	if err != nil {
		return err
	}

	_, err = c.call(nameTok)

	return err
}

// call compiles the shared call protocol (§4.5): evaluate and Push each
// argument in source order, type-checking against the parameter list, then
// emit the dispatch opcode and Popn. Returns the function's return type
// (nil for a void function).
func (c *Compiler) call(nameTok token.Token) (*types.TypeRecord, error) {
	if _, err := c.expect(token.Lparen, "'('"); err != nil {
		return nil, err
	}

	sym, ok := c.symbols.Lookup(nameTok.Name)
	if !ok {
		return nil, &ResolutionError{Pos: nameTok.Pos, Msg: "unknown function: " + nameTok.Name}
	}

	rec, native, ok := c.functions.Resolve(sym)
	if !ok {
		return nil, &ResolutionError{Pos: nameTok.Pos, Msg: "unknown function: " + nameTok.Name}
	}

	var args []value

	tok, err := c.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind != token.Rparen {
		for {
			v, err := c.expression(0)
			if err != nil {
				return nil, err
			}

			args = append(args, v)

			next, err := c.peek()
			if err != nil {
				return nil, err
			}

			if next.Kind != token.Comma {
				break
			}

			if _, err := c.next(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := c.expect(token.Rparen, "')'"); err != nil {
		return nil, err
	}

	if len(args) != len(rec.Params) {
		return nil, &TypingError{Pos: nameTok.Pos, Msg: "argument count mismatch calling " + nameTok.Name}
	}

	for i, arg := range args {
		param := rec.Params[i]

		ok, widen := c.typeTab.Assignable(arg.typ, param.Type)
		if !ok {
			return nil, &TypingError{Pos: nameTok.Pos, Msg: "argument not assignable to parameter " + param.Name}
		}

		if widen {
			arg = c.widenToReal(arg)
		}

		c.emit(bytecode.Instruction{Op: bytecode.Push, R1: arg.reg})
	}

	op := bytecode.Calljass
	if native {
		op = bytecode.Callnative
	}

	c.emit(bytecode.Instruction{Op: op, Arg: uint32(sym)})
	c.emit(bytecode.Instruction{Op: bytecode.Popn, R1: byte(len(args))})

	return rec.Returns, nil
}

// returnStmt compiles "return" [expr].
func (c *Compiler) returnStmt(fn *types.FunctionRecord) error {
	tok, err := c.next() // consume "return"
	if err != nil {
		return err
	}

	next, err := c.peek()
	if err != nil {
		return err
	}

	hasExpr := next.Kind != token.Endfunction && next.Kind != token.Endloop &&
		next.Kind != token.Else && next.Kind != token.Elseif && next.Kind != token.Endif

	if fn.Returns == nil && hasExpr {
		return &TypingError{Pos: tok.Pos, Msg: "return with value in function declared to return nothing"}
	}

	if fn.Returns != nil && !hasExpr {
		return &TypingError{Pos: tok.Pos, Msg: "return without value in function declared to return a value"}
	}

	if hasExpr {
		v, err := c.expression(0)
		if err != nil {
			return err
		}

		if ok, widen := c.typeTab.Assignable(v.typ, fn.Returns); !ok {
			return &TypingError{Pos: tok.Pos, Msg: "return value not assignable to declared return type"}
		} else if widen {
			v = c.widenToReal(v)
		}

		c.emit(bytecode.Instruction{Op: bytecode.Move, R1: 0, R2: v.reg})
	}

	c.emit(bytecode.Instruction{Op: bytecode.Return})

	return nil
}

// loopStmt compiles "loop ... endloop", per §4.5.
func (c *Compiler) loopStmt(fn *types.FunctionRecord) error {
	if _, err := c.next(); err != nil { // consume "loop"
		return err
	}

	id := c.newLabel()
	c.emit(bytecode.Instruction{Op: bytecode.Label, Arg: id})
	c.loops = append(c.loops, id)

	if err := c.chunk(fn); err != nil {
		return err
	}

	c.loops = c.loops[:len(c.loops)-1]

	_, err := c.expect(token.Endloop, "'endloop'")

	return err
}

// exitwhenStmt compiles "exitwhen expr".
func (c *Compiler) exitwhenStmt() error {
	tok, err := c.next() // consume "exitwhen"
	if err != nil {
		return err
	}

	if len(c.loops) == 0 {
		return &SyntaxError{Pos: tok.Pos, Want: "'exitwhen' inside a loop", Got: tok}
	}

	cond, err := c.expression(0)
	if err != nil {
		return err
	}

	if cond.typ.Kind != bytecode.KindBoolean {
		return &TypingError{Pos: tok.Pos, Msg: "'exitwhen' requires a boolean expression"}
	}

	top := c.loops[len(c.loops)-1]
	c.emit(bytecode.Instruction{Op: bytecode.Jumpiftrue, R1: cond.reg, Arg: top})

	return nil
}

// ifStmt compiles "if cond then ... [elseif cond then ...]* [else ...]?
// endif" using the back-patch protocol of §4.5.
func (c *Compiler) ifStmt(fn *types.FunctionRecord) error {
	if _, err := c.next(); err != nil { // consume "if"
		return err
	}

	elseTarget, err := c.ifBranch(fn)
	if err != nil {
		return err
	}

	var endTargets []int

	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}

		if tok.Kind != token.Elseif {
			break
		}

		if _, err := c.next(); err != nil {
			return err
		}

		endIdx := c.emit(bytecode.Instruction{Op: bytecode.Jump, Arg: 0})
		endTargets = append(endTargets, endIdx)

		l := c.newLabel()
		c.emit(bytecode.Instruction{Op: bytecode.Label, Arg: l})
		c.code[elseTarget].Arg = l

		elseTarget, err = c.ifBranch(fn)
		if err != nil {
			return err
		}
	}

	hasElse := false

	tok, err := c.peek()
	if err != nil {
		return err
	}

	if tok.Kind == token.Else {
		hasElse = true

		if _, err := c.next(); err != nil {
			return err
		}

		endIdx := c.emit(bytecode.Instruction{Op: bytecode.Jump, Arg: 0})
		endTargets = append(endTargets, endIdx)

		l := c.newLabel()
		c.emit(bytecode.Instruction{Op: bytecode.Label, Arg: l})
		c.code[elseTarget].Arg = l

		if err := c.chunk(fn); err != nil {
			return err
		}
	}

	if _, err := c.expect(token.Endif, "'endif'"); err != nil {
		return err
	}

	lend := c.newLabel()
	c.emit(bytecode.Instruction{Op: bytecode.Label, Arg: lend})

	for _, idx := range endTargets {
		c.code[idx].Arg = lend
	}

	if !hasElse {
		c.code[elseTarget].Arg = lend
	}

	return nil
}

// ifBranch compiles one condition+"then"+chunk and returns the index of
// the Jumpiffalse instruction whose target is still pending back-patch.
func (c *Compiler) ifBranch(fn *types.FunctionRecord) (int, error) {
	cond, err := c.expression(0)
	if err != nil {
		return 0, err
	}

	if cond.typ.Kind != bytecode.KindBoolean {
		return 0, &TypingError{Pos: c.Pos(), Msg: "'if'/'elseif' condition must be boolean"}
	}

	if _, err := c.expect(token.Then, "'then'"); err != nil {
		return 0, err
	}

	elseIdx := c.emit(bytecode.Instruction{Op: bytecode.Jumpiffalse, R1: cond.reg, Arg: 0})

	if err := c.chunk(fn); err != nil {
		return 0, err
	}

	return elseIdx, nil
}
