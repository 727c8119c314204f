package lexer

import (
	"testing"

	"lemonc/internal/source"
	"lemonc/internal/token"
)

func tokenizeString(t *testing.T, text string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(text))
	f, _ := fs.Get(id)
	return New(f).Tokenize()
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeArithmetic(t *testing.T) {
	toks := tokenizeString(t, "1 + 2 * 3")
	got := kinds(toks)
	want := []token.Kind{token.IntLit, token.Plus, token.IntLit, token.Star, token.IntLit, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeKeywordsAndIdent(t *testing.T) {
	toks := tokenizeString(t, "fn main(): i32 = { ret 1 }")
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.RParen, token.Colon,
		token.Ident, token.Assign, token.LBrace, token.KwRet, token.IntLit,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v (%d), want %d tokens", got, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := tokenizeString(t, `"a\nb"`)
	if len(toks) != 2 || toks[0].Kind != token.StringLit {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	if toks[0].Text != "a\nb" {
		t.Fatalf("got %q, want %q", toks[0].Text, "a\nb")
	}
}

func TestTokenizeComments(t *testing.T) {
	toks := tokenizeString(t, "1 // comment\n+ /* block */ 2")
	got := kinds(toks)
	want := []token.Kind{token.IntLit, token.Plus, token.IntLit, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizePipeAndRange(t *testing.T) {
	toks := tokenizeString(t, "a |> b .. c")
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.PipeGt, token.Ident, token.DotDot, token.Ident, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
