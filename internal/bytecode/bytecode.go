// Package bytecode defines the instruction set emitted by the compiler: the
// opcode enumeration, the value-kind enumeration, and the fixed 8-byte
// on-the-wire encoding of a single instruction.
package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Op is an instruction opcode. The numeric values are frozen; they are part
// of the wire format and must never be renumbered.
type Op byte

const (
	Minlimit Op = 0x00
	Endprogram Op = 0x01
	Oldjump Op = 0x02
	Function Op = 0x03
	Endfunction Op = 0x04
	Local Op = 0x05
	Global Op = 0x06
	Constant Op = 0x07
	Funcarg Op = 0x08
	Extends Op = 0x09
	Type Op = 0x0A
	Popn Op = 0x0B
	SetRegLiteral Op = 0x0C
	Move Op = 0x0D
	SetRegVar Op = 0x0E
	SetRegCode Op = 0x0F
	SetRegVarArray Op = 0x10
	SetVar Op = 0x11
	SetVarArray Op = 0x12
	Push Op = 0x13
	Pop Op = 0x14
	Callnative Op = 0x15
	Calljass Op = 0x16
	IntToReal Op = 0x17
	And Op = 0x18
	Or Op = 0x19
	Equal Op = 0x1A
	Notequal Op = 0x1B
	Lesserequal Op = 0x1C
	Greaterequal Op = 0x1D
	Lesser Op = 0x1E
	Greater Op = 0x1F
	Add Op = 0x20
	Sub Op = 0x21
	Mul Op = 0x22
	Div Op = 0x23
	Mod Op = 0x24
	Negate Op = 0x25
	Not Op = 0x26
	Return Op = 0x27
	Label Op = 0x28
	Jumpiftrue Op = 0x29
	Jumpiffalse Op = 0x2A
	Jump Op = 0x2B
	Maxlimit Op = 0x2C
)

// mnemonics maps each recognised opcode to its display name. Anything
// outside this table is "unrecognised" per §4.1.
var mnemonics = map[Op]string{
	Minlimit: "Minlimit", Endprogram: "Endprogram", Oldjump: "Oldjump",
	Function: "Function", Endfunction: "Endfunction", Local: "Local",
	Global: "Global", Constant: "Constant", Funcarg: "Funcarg",
	Extends: "Extends", Type: "Type", Popn: "Popn",
	SetRegLiteral: "SetRegLiteral", Move: "Move", SetRegVar: "SetRegVar",
	SetRegCode: "SetRegCode", SetRegVarArray: "SetRegVarArray",
	SetVar: "SetVar", SetVarArray: "SetVarArray", Push: "Push", Pop: "Pop",
	Callnative: "Callnative", Calljass: "Calljass", IntToReal: "IntToReal",
	And: "And", Or: "Or", Equal: "Equal", Notequal: "Notequal",
	Lesserequal: "Lesserequal", Greaterequal: "Greaterequal", Lesser: "Lesser",
	Greater: "Greater", Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div",
	Mod: "Mod", Negate: "Negate", Not: "Not", Return: "Return", Label: "Label",
	Jumpiftrue: "Jumpiftrue", Jumpiffalse: "Jumpiffalse", Jump: "Jump",
	Maxlimit: "Maxlimit",
}

// Mnemonic returns op's display name, or "invalid" if op is not in the
// frozen enumeration.
func Mnemonic(op Op) string {
	if m, ok := mnemonics[op]; ok {
		return m
	}
	return "invalid"
}

// Valid reports whether op is a recognised opcode.
func Valid(op Op) bool {
	_, ok := mnemonics[op]
	return ok
}

// Kind is the low-level value category of a bytecode operand, distinct from
// a user-level type name.
type Kind byte

const (
	KindNothing Kind = iota
	KindNull
	KindCode
	KindInteger
	KindReal
	KindString
	KindHandle
	KindBoolean
)

var kindNames = [...]string{
	"nothing", "null", "code", "integer", "real", "string", "handle", "boolean",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// LookupKind returns the Kind named by name, or (0, false) if name does not
// name one of the eight value kinds.
func LookupKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Instruction is one decoded 8-byte bytecode record.
type Instruction struct {
	R3  byte
	R2  byte
	R1  byte
	Op  Op
	Arg uint32
}

// Size is the fixed width, in bytes, of one encoded instruction.
const Size = 8

// Encode returns the instruction's wire form as an 8-byte array. The
// first four bytes are, in file order, r3, r2, r1, op; the last four are
// the little-endian argument.
func (i Instruction) Encode() [Size]byte {
	var buf [Size]byte

	buf[0] = i.R3
	buf[1] = i.R2
	buf[2] = i.R1
	buf[3] = byte(i.Op)
	binary.LittleEndian.PutUint32(buf[4:], i.Arg)

	return buf
}

// Decode reads one 8-byte record from buf, which must be exactly Size bytes
// long, and reverses Encode.
func Decode(buf []byte) Instruction {
	return Instruction{
		R3:  buf[0],
		R2:  buf[1],
		R1:  buf[2],
		Op:  Op(buf[3]),
		Arg: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s(r3=%d, r2=%d, r1=%d, arg=%d)", Mnemonic(i.Op), i.R3, i.R2, i.R1, i.Arg)
}

// immediate bit-pattern helpers, per §4.1.

// IntImmediate returns the 32-bit two's-complement truncation of an integer
// literal's value, for use as a SetRegLiteral argument of integer kind.
func IntImmediate(v int64) uint32 {
	return uint32(v)
}

// RealImmediate returns the IEEE-754 binary32 bit pattern of v, for use as a
// SetRegLiteral argument of real kind.
func RealImmediate(v float32) uint32 {
	return math.Float32bits(v)
}
