package lexer

import (
	"testing"

	"github.com/lohvht/plox/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	var errs []string
	s := New(src, func(line int, msg string) {
		errs = append(errs, msg)
	})
	return s.ScanTokens(), errs
}

func TestScanTokens_Punctuation(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Type{
		token.LEFTPAREN, token.RIGHTPAREN, token.LEFTBRACE, token.RIGHTBRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.STAR, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, typ)
		}
	}
}

func TestScanTokens_TwoCharOperators(t *testing.T) {
	toks, _ := scanAll(t, "!= == <= >= ! = < >")
	want := []token.Type{
		token.BANGEQUAL, token.EQUALEQUAL, token.LESSEQUAL, token.GREATEREQUAL,
		token.BANG, token.EQUAL, token.LESS, token.GREATER, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, typ)
		}
	}
}

func TestScanTokens_Number(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want float64
	}{
		{"123", 123},
		{"123.456", 123.456},
	} {
		toks, errs := scanAll(t, tc.src)
		if len(errs) != 0 {
			t.Fatalf("%s: unexpected errors: %v", tc.src, errs)
		}
		if toks[0].Type != token.NUMBER {
			t.Fatalf("%s: got type %s, want NUMBER", tc.src, toks[0].Type)
		}
		if toks[0].Literal.(float64) != tc.want {
			t.Errorf("%s: got %v, want %v", tc.src, toks[0].Literal, tc.want)
		}
	}
}

func TestScanTokens_TrailingDotNotConsumed(t *testing.T) {
	toks, _ := scanAll(t, "123.")
	if toks[0].Type != token.NUMBER || toks[0].Literal.(float64) != 123 {
		t.Fatalf("got %v, want NUMBER 123", toks[0])
	}
	if toks[1].Type != token.DOT {
		t.Fatalf("got %s, want DOT", toks[1].Type)
	}
}

func TestScanTokens_String(t *testing.T) {
	toks, errs := scanAll(t, `"hello, world"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Type != token.STRING || toks[0].Literal.(string) != "hello, world" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestScanTokens_UnterminatedString(t *testing.T) {
	_, errs := scanAll(t, `"unterminated`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestScanTokens_StringSpansNewlines(t *testing.T) {
	toks, errs := scanAll(t, "\"line1\nline2\"")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Literal.(string) != "line1\nline2" {
		t.Fatalf("got %q", toks[0].Literal)
	}
}

func TestScanTokens_IdentifiersAndKeywords(t *testing.T) {
	toks, _ := scanAll(t, "orchid or class classify")
	want := []token.Type{token.IDENTIFIER, token.OR, token.CLASS, token.IDENTIFIER, token.EOF}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token %d (%q): got %s, want %s", i, toks[i].Lexeme, toks[i].Type, typ)
		}
	}
}

func TestScanTokens_LineCountingAndComments(t *testing.T) {
	toks, _ := scanAll(t, "var a = 1; // comment\nvar b = 2;")
	var line2Seen bool
	for _, tok := range toks {
		if tok.Type == token.VAR && tok.Line == 2 {
			line2Seen = true
		}
	}
	if !line2Seen {
		t.Fatalf("expected a VAR token on line 2, got %v", toks)
	}
}

func TestScanTokens_UnknownCharacterSkipped(t *testing.T) {
	toks, errs := scanAll(t, "@ 1")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if toks[0].Type != token.NUMBER {
		t.Fatalf("scanning should continue past the bad char, got %v", toks)
	}
}
