package lexer

import "testing"

func collect(t *testing.T, src string) []*Token {
	t.Helper()
	toks, err := Tokenize(&SourceFile{Path: "test.c", Content: src})
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	var out []*Token
	for tok := toks; tok != nil; tok = tok.Next {
		out = append(out, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return out
}

func kinds(toks []*Token) []TokenKind {
	ks := make([]TokenKind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeIdentifiersAndKeywords(t *testing.T) {
	toks := collect(t, "int x")
	if len(toks) != 4 { // int, ws, x, eof
		t.Fatalf("got %d tokens: %+v", len(toks), kinds(toks))
	}
	if toks[0].Kind != Keyword || toks[0].Lit != "int" {
		t.Fatalf("want keyword int, got %+v", toks[0])
	}
	if toks[2].Kind != Ident || toks[2].Lit != "x" {
		t.Fatalf("want ident x, got %+v", toks[2])
	}
}

func TestTokenizeIntegerSuffix(t *testing.T) {
	toks := collect(t, "123UL")
	if toks[0].Kind != Int || toks[0].Val != 123 || toks[0].Lit != "123UL" {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestTokenizeStringLiteralNoEscapeDecoding(t *testing.T) {
	toks := collect(t, `"a\n"`)
	if toks[0].Kind != String || toks[0].Str != `a\n` {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestTokenizeCharLiteral(t *testing.T) {
	toks := collect(t, "'a'")
	if toks[0].Kind != Char || toks[0].Val != int64('a') {
		t.Fatalf("unexpected token: %+v", toks[0])
	}
}

func TestMaximalMunchPunctuators(t *testing.T) {
	toks := collect(t, "<<= >> - ->")
	var lits []string
	for _, tok := range toks {
		if tok.Kind == Punct {
			lits = append(lits, tok.Lit)
		}
	}
	want := []string{"<<=", ">>", "-", "->"}
	if len(lits) != len(want) {
		t.Fatalf("got %v want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Fatalf("got %v want %v", lits, want)
		}
	}
}

func TestUnclosedBlockCommentIsFatal(t *testing.T) {
	_, err := Tokenize(&SourceFile{Path: "test.c", Content: "/* never closes"})
	if err == nil {
		t.Fatal("expected error for unclosed block comment")
	}
}

func TestUnexpectedByteIsFatal(t *testing.T) {
	_, err := Tokenize(&SourceFile{Path: "test.c", Content: "$"})
	if err == nil {
		t.Fatal("expected error for unexpected byte")
	}
}

func TestNewlineAndWhitespacePreserved(t *testing.T) {
	toks := collect(t, "a\nb")
	found := false
	for _, tok := range toks {
		if tok.Kind == Newline {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Newline token to be preserved")
	}
}

func TestStripTrivia(t *testing.T) {
	toks, err := Tokenize(&SourceFile{Path: "t.c", Content: "a \n b"})
	if err != nil {
		t.Fatal(err)
	}
	stripped := StripTrivia(toks)
	var kindsOut []TokenKind
	for t := stripped; t != nil; t = t.Next {
		kindsOut = append(kindsOut, t.Kind)
	}
	want := []TokenKind{Ident, Ident, EOF}
	if len(kindsOut) != len(want) {
		t.Fatalf("got %v want %v", kindsOut, want)
	}
}
