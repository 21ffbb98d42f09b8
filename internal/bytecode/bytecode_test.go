package bytecode

import "testing"

func TestRoundTrip(t *testing.T) {
	tests := []Instruction{
		{R3: 1, R2: 2, R1: 3, Op: Add, Arg: 0},
		{R3: 0, R2: 0, R1: 7, Op: SetRegLiteral, Arg: 0xdeadbeef},
		{R3: 0, R2: 0, R1: 0, Op: Endfunction, Arg: 0},
		{R3: 0, R2: 0, R1: 0, Op: Jump, Arg: 42},
	}

	for _, want := range tests {
		enc := want.Encode()
		got := Decode(enc[:])

		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	inst := Instruction{R3: 0xAA, R2: 0xBB, R1: 0xCC, Op: Add, Arg: 0x01020304}
	enc := inst.Encode()

	want := [8]byte{0xAA, 0xBB, 0xCC, byte(Add), 0x04, 0x03, 0x02, 0x01}
	if enc != want {
		t.Errorf("Encode() = %x, want %x", enc, want)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	inst := Decode([]byte{0, 0, 0, 0xFF, 0, 0, 0, 0})

	if Valid(inst.Op) {
		t.Fatalf("expected opcode 0xFF to be invalid")
	}

	if Mnemonic(inst.Op) != "invalid" {
		t.Errorf("Mnemonic() = %q, want %q", Mnemonic(inst.Op), "invalid")
	}
}

func TestAllOpcodesInRangeAreValid(t *testing.T) {
	for op := Minlimit; op <= Maxlimit; op++ {
		if !Valid(op) {
			t.Errorf("opcode %#02x in [Minlimit, Maxlimit] is not recognised", byte(op))
		}
	}
}

func TestLookupKind(t *testing.T) {
	for _, name := range []string{"nothing", "null", "code", "integer", "real", "string", "handle", "boolean"} {
		k, ok := LookupKind(name)
		if !ok {
			t.Fatalf("LookupKind(%q) not found", name)
		}

		if k.String() != name {
			t.Errorf("Kind(%q).String() = %q, want %q", name, k.String(), name)
		}
	}

	if _, ok := LookupKind("nope"); ok {
		t.Errorf("LookupKind(%q) unexpectedly found", "nope")
	}
}
