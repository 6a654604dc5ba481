package lexer

import (
	"testing"

	"github.com/virchau13/pcse/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, _, _, err := New([]byte("( ) [ ] , + - * : = <= <> <- < > >=")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_SQ, token.RIGHT_SQ, token.COMMA,
		token.PLUS, token.MINUS, token.STAR, token.COLON, token.EQ,
		token.LT_EQ, token.LT_GT, token.ASSIGN, token.LT, token.GT, token.GT_EQ,
		token.INVALID,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanLineComment(t *testing.T) {
	toks, _, _, err := New([]byte("1 // comment\n2")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 || toks[0].Kind != token.INT || toks[1].Kind != token.INT {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	if toks[1].Line != 2 {
		t.Fatalf("expected second INT on line 2, got line %d", toks[1].Line)
	}
}

func TestScanIntAndReal(t *testing.T) {
	toks, _, _, err := New([]byte("42 3.14")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.INT || toks[0].Literal.Int != 42 {
		t.Fatalf("bad INT token: %v", toks[0])
	}
	if toks[1].Kind != token.REAL {
		t.Fatalf("bad REAL token: %v", toks[1])
	}
	num, den := toks[1].Literal.Frac[0], toks[1].Literal.Frac[1]
	if num != 157 || den != 50 {
		t.Fatalf("3.14 = %d/%d, want 157/50", num, den)
	}
}

func TestScanRealRejectsTrailingLetter(t *testing.T) {
	if _, _, _, err := New([]byte("12.2e2")).Scan(); err == nil {
		t.Fatal("expected an error for a trailing letter after a numeric literal")
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, _, _, err := New([]byte(`"hello world"`)).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.STRING || toks[0].Literal.Str != "hello world" {
		t.Fatalf("bad STRING token: %v", toks[0])
	}
}

func TestScanUnterminatedString(t *testing.T) {
	if _, _, _, err := New([]byte(`"abc`)).Scan(); err == nil {
		t.Fatal("expected a LexError for an unterminated string")
	} else if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func TestScanCharLiteral(t *testing.T) {
	toks, _, _, err := New([]byte(`'x'`)).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.CHAR || toks[0].Literal.Char != 'x' {
		t.Fatalf("bad CHAR token: %v", toks[0])
	}
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks, ids, count, err := New([]byte("IF foo THEN bar")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.IF || toks[2].Kind != token.THEN {
		t.Fatalf("keyword misrecognized: %v", toks)
	}
	if toks[1].Kind != token.IDENTIFIER || toks[3].Kind != token.IDENTIFIER {
		t.Fatalf("identifier misrecognized: %v", toks)
	}
	if count != 2 {
		t.Fatalf("expected 2 interned identifiers, got %d", count)
	}
	if ids["foo"] == ids["bar"] || ids["foo"] == 0 || ids["bar"] == 0 {
		t.Fatalf("bad interned ids: %v", ids)
	}
}

func TestScanIdentifierStableAcrossOccurrences(t *testing.T) {
	toks, ids, _, err := New([]byte("x <- x + x")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ids["x"]
	for _, tk := range toks {
		if tk.Kind == token.IDENTIFIER && tk.Literal.Int != want {
			t.Fatalf("identifier x got different ids across occurrences: %v", toks)
		}
	}
}

func TestScanDateFusion(t *testing.T) {
	toks, _, _, err := New([]byte("01/02/2020")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != token.DATE {
		t.Fatalf("expected a single fused DATE token, got %v", toks)
	}
	lit := toks[0].Literal
	if lit.Day != 1 || lit.Month != 2 || lit.Year != 2020 {
		t.Fatalf("bad date literal: %+v", lit)
	}
}

func TestScanSlashWithoutDateIsDivision(t *testing.T) {
	toks, _, _, err := New([]byte("6 / 2")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 4 || toks[1].Kind != token.SLASH {
		t.Fatalf("expected plain division, got %v", toks)
	}
}

func TestScanInvalidDateFusion(t *testing.T) {
	if _, _, _, err := New([]byte("31/02/2019")).Scan(); err == nil {
		t.Fatal("expected an error fusing an invalid date")
	}
}

func TestScanPositionTracking(t *testing.T) {
	toks, _, _, err := New([]byte("a\n  b")).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Line != 1 || toks[0].Col != 1 {
		t.Fatalf("bad position for a: line=%d col=%d", toks[0].Line, toks[0].Col)
	}
	if toks[1].Line != 2 || toks[1].Col != 3 {
		t.Fatalf("bad position for b: line=%d col=%d", toks[1].Line, toks[1].Col)
	}
}
