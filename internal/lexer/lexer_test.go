package lexer

import (
	"testing"

	"github.com/go-jass/jassc/internal/token"
)

func tokenKinds(t *testing.T, src string) []token.Kind {
	t.Helper()

	l := New([]byte(src))

	var kinds []token.Kind

	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}

		kinds = append(kinds, tok.Kind)

		if tok.Kind == token.EOS {
			return kinds
		}
	}
}

func TestKeywordsAndPunctuation(t *testing.T) {
	got := tokenKinds(t, "globals endglobals function endfunction ( ) [ ] , = == != <= >= < > + - * /")

	want := []token.Kind{
		token.Globals, token.Endglobals, token.Function, token.Endfunction,
		token.Lparen, token.Rparen, token.Lbracket, token.Rbracket, token.Comma,
		token.Assign, token.Eq, token.NotEq, token.LesEq, token.GreEq,
		token.Less, token.Greater, token.Add, token.Sub, token.Mul, token.Div,
		token.EOS,
	}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNameVersusKeyword(t *testing.T) {
	l := New([]byte("functionality"))

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != token.Name || tok.Name != "functionality" {
		t.Errorf("got %+v, want Name(functionality)", tok)
	}
}

func TestLineComment(t *testing.T) {
	got := tokenKinds(t, "globals // endglobals\nendglobals")

	want := []token.Kind{token.Globals, token.Endglobals, token.EOS}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBlockComment(t *testing.T) {
	l := New([]byte("/* comment\nspanning lines */true"))

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != token.True {
		t.Errorf("got %s, want True", tok.Kind)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New([]byte("/* never closes"))

	if _, err := l.Next(); err == nil {
		t.Fatal("expected error for unterminated block comment")
	}
}

func TestDivisionNotComment(t *testing.T) {
	got := tokenKinds(t, "a / b")
	want := []token.Kind{token.Name, token.Div, token.Name, token.EOS}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestIntegerLiteral(t *testing.T) {
	l := New([]byte("12345"))

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != token.Int || tok.Int != 12345 {
		t.Errorf("got %+v, want Int(12345)", tok)
	}
}

func TestRealLiteral(t *testing.T) {
	l := New([]byte("3.14"))

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != token.Real || tok.Real != 3.14 {
		t.Errorf("got %+v, want Real(3.14)", tok)
	}
}

func TestStringLiteral(t *testing.T) {
	l := New([]byte(`"hello, world"`))

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != token.Str || tok.Str != "hello, world" {
		t.Errorf("got %+v, want Str(hello, world)", tok)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New([]byte(`"never closes`))

	if _, err := l.Next(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

// TestSingleQuoteLiteral matches §8 scenario 3: the multiplier is 255, not
// 256, applied to the raw ASCII byte values.
func TestSingleQuoteLiteral(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"'1234'", 815_751_682},
	}

	for _, tt := range tests {
		l := New([]byte(tt.src))

		tok, err := l.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.src, err)
		}

		if tok.Kind != token.SingleQuote || tok.Int != tt.want {
			t.Errorf("%s: got %+v, want SingleQuote(%d)", tt.src, tok, tt.want)
		}
	}
}

func TestSingleQuoteWrongLength(t *testing.T) {
	l := New([]byte("'12'"))

	if _, err := l.Next(); err == nil {
		t.Fatal("expected error for short single-quote literal")
	}
}

func TestInvalidByte(t *testing.T) {
	l := New([]byte("@"))

	if _, err := l.Next(); err == nil {
		t.Fatal("expected error for invalid byte")
	}
}

func TestPeekDoesNotConsumeToken(t *testing.T) {
	l := New([]byte("ab cd"))

	first, err := l.Peek()
	if err != nil {
		t.Fatal(err)
	}

	second, err := l.Peek()
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("Peek() not idempotent: %+v != %+v", first, second)
	}

	consumed, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if consumed != first {
		t.Errorf("Next() after Peek() = %+v, want %+v", consumed, first)
	}
}

func TestPositionCounters(t *testing.T) {
	l := New([]byte("ab\ncd"))

	if _, err := l.Next(); err != nil { // "ab"
		t.Fatal(err)
	}

	tok, err := l.Next() // "cd"
	if err != nil {
		t.Fatal(err)
	}

	if tok.Pos.Line != 1 || tok.Pos.Col != 0 {
		t.Errorf("got pos %+v, want line=1 col=0", tok.Pos)
	}
}
