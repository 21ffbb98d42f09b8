package compiler

import (
	"errors"
	"testing"

	"github.com/go-jass/jassc/internal/bytecode"
)

func compileOK(t *testing.T, src string) *Result {
	t.Helper()

	c := New([]byte(src))

	r, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected compile error: %v (at %s)", err, c.Pos())
	}

	return r
}

func opsOf(r *Result) []bytecode.Op {
	ops := make([]bytecode.Op, len(r.Code))
	for i, inst := range r.Code {
		ops[i] = inst.Op
	}
	return ops
}

func assertOps(t *testing.T, r *Result, want ...bytecode.Op) {
	t.Helper()

	got := opsOf(r)

	if len(got) != len(want) {
		t.Fatalf("got %d instructions %v, want %d %v", len(got), got, len(want), want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d: got %s, want %s (full: %v)", i, bytecode.Mnemonic(got[i]), bytecode.Mnemonic(want[i]), got)
		}
	}
}

// Scenario 1 (§8): two type declarations extending a chain down to a
// primitive, each emitting Type then Extends.
func TestScenarioTypeExtends(t *testing.T) {
	r := compileOK(t, "type agent extends handle\ntype event extends agent")

	assertOps(t, r, bytecode.Type, bytecode.Extends, bytecode.Type, bytecode.Extends)

	agentSym, _ := r.Symbols.Lookup("agent")
	eventSym, _ := r.Symbols.Lookup("event")

	if r.Code[0].Arg != uint32(agentSym) {
		t.Errorf("Type(agent) arg = %d, want %d", r.Code[0].Arg, agentSym)
	}

	if r.Code[2].Arg != uint32(eventSym) {
		t.Errorf("Type(event) arg = %d, want %d", r.Code[2].Arg, eventSym)
	}

	agentType, _ := r.Types.Lookup("agent")
	eventType, _ := r.Types.Lookup("event")
	handleType, _ := r.Types.Lookup("handle")

	if agentType.Kind != handleType.Kind || eventType.Kind != handleType.Kind {
		t.Errorf("derived types do not carry the primitive's base kind")
	}
}

// Scenario 2 (§8): operator precedence, 10 * b evaluated before + 5.
func TestScenarioPrecedence(t *testing.T) {
	src := "globals\n constant integer b = 20\n constant integer a = 5 + 10 * b\n endglobals"
	r := compileOK(t, src)

	assertOps(t, r,
		bytecode.Constant, bytecode.SetRegLiteral, bytecode.SetVar, // constant integer b = 20
		bytecode.Constant, // constant integer a = ...
		bytecode.SetRegLiteral, // 5
		bytecode.SetRegLiteral, // 10
		bytecode.SetRegVar,     // b
		bytecode.Mul,           // 10 * b
		bytecode.Add,           // 5 + (10*b)
		bytecode.SetVar,        // a = ...
	)
}

// Scenario 4 (§8): nested loops with exitwhen.
func TestScenarioNestedLoops(t *testing.T) {
	src := "function M takes nothing returns nothing\n" +
		" loop loop exitwhen 1==1 endloop exitwhen true endloop\n" +
		"endfunction"

	r := compileOK(t, src)

	ops := opsOf(r)

	// Function, Label(outer), Label(inner), lit, lit, Equal, Jumpiftrue,
	// Label(end-of-inner... none, inner loop just ends), exitwhen true,
	// Jumpiftrue, Endfunction.
	want := []bytecode.Op{
		bytecode.Function,
		bytecode.Label,
		bytecode.Label,
		bytecode.SetRegLiteral, bytecode.SetRegLiteral, bytecode.Equal, bytecode.Jumpiftrue,
		bytecode.SetRegLiteral, bytecode.Jumpiftrue,
		bytecode.Endfunction,
	}

	if len(ops) != len(want) {
		t.Fatalf("got %d ops %v, want %d %v", len(ops), ops, len(want), want)
	}

	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: got %s, want %s", i, bytecode.Mnemonic(ops[i]), bytecode.Mnemonic(want[i]))
		}
	}

	// Every Jumpiftrue targets a label id that is the argument of exactly
	// one Label instruction (§8 "Label back-patching").
	labels := map[uint32]int{}
	for _, inst := range r.Code {
		if inst.Op == bytecode.Label {
			labels[inst.Arg]++
		}
	}

	for _, inst := range r.Code {
		if inst.Op == bytecode.Jumpiftrue {
			if labels[inst.Arg] != 1 {
				t.Errorf("Jumpiftrue target %d does not label exactly one instruction (count=%d)", inst.Arg, labels[inst.Arg])
			}
		}
	}
}

// Scenario 5 (§8): if/elseif/else back-patching.
func TestScenarioIfElseifElse(t *testing.T) {
	src := "function F takes nothing returns nothing\n" +
		" local integer i\n" +
		" if true then set i = 5 elseif false then set i = 10 else set i = 7 endif\n" +
		"endfunction"

	r := compileOK(t, src)

	jumpiffalse := 0
	jump := 0
	label := 0

	for _, inst := range r.Code {
		switch inst.Op {
		case bytecode.Jumpiffalse:
			jumpiffalse++

			if inst.Arg == 0 {
				t.Errorf("unresolved Jumpiffalse (arg still 0)")
			}
		case bytecode.Jump:
			jump++

			if inst.Arg == 0 {
				t.Errorf("unresolved Jump (arg still 0)")
			}
		case bytecode.Label:
			label++
		}
	}

	if jumpiffalse != 2 {
		t.Errorf("got %d Jumpiffalse, want 2 (one per condition)", jumpiffalse)
	}

	if jump != 2 {
		t.Errorf("got %d Jump, want 2 (tail of each non-last branch)", jump)
	}

	if label != 3 {
		t.Errorf("got %d Label, want 3 (one between branches x2, one at end)", label)
	}
}

// Scenario 6 (§8): implicit IntToReal widening on a return.
func TestScenarioImplicitWidening(t *testing.T) {
	src := "function G takes integer x returns real\n return x\n endfunction"

	r := compileOK(t, src)

	found := false
	for _, inst := range r.Code {
		if inst.Op == bytecode.IntToReal {
			found = true
		}
	}

	if !found {
		t.Error("expected an IntToReal instruction widening the returned integer")
	}
}

// TestGlobalArrayDeclaration checks that an array declaration emits just
// the declaration instruction (no SetVar, since array declarations may not
// carry an initialiser) and registers the variable's type with IsArray set.
func TestGlobalArrayDeclaration(t *testing.T) {
	r := compileOK(t, "globals\n integer array a\n endglobals")

	assertOps(t, r, bytecode.Global)

	sym, ok := r.Symbols.Lookup("a")
	if !ok {
		t.Fatal("symbol \"a\" not interned")
	}

	vt, ok := r.Variables.Get(sym)
	if !ok {
		t.Fatal("variable \"a\" not registered")
	}

	if !vt.IsArray {
		t.Error("declared array variable has IsArray=false")
	}
}

// TestArrayWriteAndRead compiles a write through an array element followed
// by a read of an array element into a scalar local. Both sides must
// type-check against the array's scalar element kind, not the array-flagged
// declaration record (§4.5 "set var[i] = expr" / array access in
// expressions).
func TestArrayWriteAndRead(t *testing.T) {
	src := "globals\n integer array a\n endglobals\n" +
		"function F takes nothing returns nothing\n" +
		" local integer x\n" +
		" set a[0] = 5\n" +
		" set x = a[0]\n" +
		"endfunction"

	r := compileOK(t, src)

	assertOps(t, r,
		bytecode.Global,  // integer array a
		bytecode.Function, // F
		bytecode.Local,    // local integer x
		bytecode.SetRegLiteral, bytecode.SetRegLiteral, bytecode.SetVarArray, // set a[0] = 5
		bytecode.SetRegLiteral, bytecode.SetRegVarArray, bytecode.SetVar, // set x = a[0]
		bytecode.Endfunction,
	)
}

func TestCallProtocol(t *testing.T) {
	src := "native N takes integer x returns nothing\n" +
		"function F takes nothing returns nothing\n" +
		" call N(1)\n" +
		"endfunction"

	r := compileOK(t, src)

	ops := opsOf(r)

	want := []bytecode.Op{
		bytecode.Function, // N
		bytecode.Function, // F
		bytecode.SetRegLiteral, bytecode.Push, bytecode.Callnative, bytecode.Popn,
		bytecode.Endfunction,
	}

	if len(ops) != len(want) {
		t.Fatalf("got %d ops %v, want %d %v", len(ops), ops, len(want), want)
	}

	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: got %s, want %s", i, bytecode.Mnemonic(ops[i]), bytecode.Mnemonic(want[i]))
		}
	}
}

func TestDuplicateFunctionIsResolutionError(t *testing.T) {
	src := "function F takes nothing returns nothing\nendfunction\n" +
		"function F takes nothing returns nothing\nendfunction"

	c := New([]byte(src))

	_, err := c.Compile()
	if err == nil {
		t.Fatal("expected an error for a duplicate function definition")
	}

	if !errors.Is(err, ErrResolution) {
		t.Errorf("got %v, want an error classified as ErrResolution", err)
	}
}

func TestTooManyParametersIsCapacityError(t *testing.T) {
	src := "function F takes "

	for i := 0; i < 257; i++ {
		if i > 0 {
			src += ", "
		}
		src += "integer p" + itoa(i)
	}

	src += " returns nothing\nendfunction"

	c := New([]byte(src))

	_, err := c.Compile()
	if err == nil {
		t.Fatal("expected an error for more than 256 parameters")
	}

	if !errors.Is(err, ErrCapacity) {
		t.Errorf("got %v, want an error classified as ErrCapacity", err)
	}
}

func TestExitwhenOutsideLoopIsSyntaxError(t *testing.T) {
	src := "function F takes nothing returns nothing\n exitwhen true\n endfunction"

	c := New([]byte(src))

	_, err := c.Compile()
	if err == nil {
		t.Fatal("expected an error for exitwhen outside a loop")
	}

	if !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want an error classified as ErrSyntax", err)
	}
}

func TestRegisterWraparound(t *testing.T) {
	c := New(nil)

	var last byte

	for i := 0; i < 300; i++ {
		last = c.allocReg()
	}

	if last == 0 {
		t.Error("register allocator must never hand out register 0 (reserved for call results)")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [8]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
