package lexer

import (
	"testing"

	"arrow/pkg/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func assertTypes(t *testing.T, src string, want ...token.Type) {
	t.Helper()
	got := collect(src)
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i, w := range want {
		if got[i].Type != w {
			t.Fatalf("%q: token %d = %s, want %s", src, i, got[i].Type, w)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	assertTypes(t, "exit enter yielding result until const from for ref if x",
		token.EXIT, token.ENTER, token.YIELDING, token.RESULT, token.UNTIL,
		token.CONST, token.FROM, token.FOR, token.REF, token.IF, token.IDENT, token.EOF)
}

func TestDoUndoIsOneToken(t *testing.T) {
	assertTypes(t, "do/undo { x }", token.DO_UNDO, token.LBRACE, token.IDENT, token.RBRACE, token.EOF)
}

func TestBareDoIsAnIdentifier(t *testing.T) {
	assertTypes(t, "do := 1", token.IDENT, token.ASSIGN, token.NUMBER, token.EOF)
}

func TestDottedIdentifier(t *testing.T) {
	toks := collect("xs.push(7)")
	if toks[0].Type != token.IDENT || toks[0].Literal != "xs.push" {
		t.Fatalf("expected dotted ident xs.push, got %+v", toks[0])
	}
}

func TestSymbols(t *testing.T) {
	assertTypes(t, "+= -= *= /= ^= <=> <= >= == != := => & %",
		token.PLUS_ASN, token.MINUS_ASN, token.STAR_ASN, token.SLASH_ASN,
		token.CARET_ASN, token.SWAP, token.LTE, token.GTE, token.EQ,
		token.NOT_EQ, token.ASSIGN, token.RESULTS, token.AMP, token.PERCENT, token.EOF)
}

func TestNumberLiteral(t *testing.T) {
	toks := collect("42 3.50")
	if toks[0].Type != token.NUMBER || toks[0].Literal != "42" {
		t.Fatalf("expected 42, got %+v", toks[0])
	}
	if toks[1].Type != token.NUMBER || toks[1].Literal != "3.50" {
		t.Fatalf("expected 3.50, got %+v", toks[1])
	}
}

func TestStringLiteralWithEscapes(t *testing.T) {
	toks := collect(`"hi\n"`)
	if toks[0].Type != token.STRING || toks[0].Literal != "hi\n" {
		t.Fatalf("expected \"hi\\n\", got %+v", toks[0])
	}
}

func TestHashAndBlockComments(t *testing.T) {
	assertTypes(t, "x # trailing comment\n/* a block\ncomment */y",
		token.IDENT, token.IDENT, token.EOF)
}

func TestLineTracking(t *testing.T) {
	toks := collect("x\ny")
	if toks[0].Line != 1 {
		t.Fatalf("expected x on line 1, got %d", toks[0].Line)
	}
	if toks[1].Line != 2 {
		t.Fatalf("expected y on line 2, got %d", toks[1].Line)
	}
}
