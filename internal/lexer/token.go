// Package lexer turns a source buffer into a singly-linked sequence of
// tokens. Tokens keep byte-exact positions into the buffer that produced
// them; the buffer must outlive the tokens built from it.
package lexer

import "fmt"

// TokenKind classifies a Token. Punctuators and keywords are not split
// into one constant per lexeme: callers compare Token.Lit against the
// punctuator/keyword spelling, the same way the scanner classified it.
type TokenKind int

const (
	EOF        TokenKind = iota // end of file
	Ident                       // identifier (reserved words are Keyword)
	Keyword                     // reserved word (subset of Ident spellings)
	Int                         // integer literal (decimal digit run + optional suffix)
	Char                        // character literal, numeric-valued
	String                      // string literal, raw content between quotes
	Punct                       // punctuator, matched by maximal munch
	Whitespace                  // run of horizontal whitespace (preprocessor-significant)
	Newline                     // a single newline
	Hash                        // a single '#', wherever it appears
	HashHash                    // '##' (token-paste, preprocessor-significant)
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "IDENT"
	case Keyword:
		return "KEYWORD"
	case Int:
		return "INT"
	case Char:
		return "CHAR"
	case String:
		return "STRING"
	case Punct:
		return "PUNCT"
	case Whitespace:
		return "WHITESPACE"
	case Newline:
		return "NEWLINE"
	case Hash:
		return "HASH"
	case HashHash:
		return "HASHHASH"
	default:
		return "UNKNOWN"
	}
}

// Position is a human-readable location into a SourceFile, carried
// alongside the raw byte Offset so diagnostics can report line/column;
// a token's exact source bytes are kept in Token.Lit.
type Position struct {
	Line   int
	Column int
	Offset int
}

// SourceFile is the buffer a Token's position is relative to. The file
// registry that owns translation units keys them by Path.
type SourceFile struct {
	Path    string
	Content string
}

// Token is one element of the intrusive, singly-linked token stream the
// tokenizer produces. Next is nil for the terminating EOF token.
type Token struct {
	Kind TokenKind
	Pos  Position
	Lit  string // raw lexeme bytes, including quotes for String
	Str  string // decoded-free content for String (quotes stripped)
	Val  int64  // decoded value for Int / Char
	File *SourceFile
	Next *Token
}

// Is reports whether t is a Punct or Keyword token spelled exactly lit.
func (t *Token) Is(lit string) bool {
	return (t.Kind == Punct || t.Kind == Keyword) && t.Lit == lit
}

// IsIdent reports whether t is an identifier (not a keyword) equal to name.
func (t *Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Lit == name
}

// LexError is a fatal tokenizer failure: an unclosed block comment, an
// unexpected byte, an unterminated character or string literal, or an
// integer literal that does not fit in 64 bits. The tokenizer never emits an ILLEGAL token; scanning
// stops and this error is returned to the caller instead.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// CopyToken returns a shallow copy of t with Next cleared, used when a
// token must be spliced into a different list without disturbing the
// original stream.
func CopyToken(t *Token) *Token {
	cp := *t
	cp.Next = nil
	return &cp
}

// CopyUntilNewline returns a copy of the token sub-list starting at t and
// running up to (not including) the next Newline or EOF token. The
// returned list is terminated by a synthetic EOF token.
func CopyUntilNewline(t *Token) *Token {
	var head, tail *Token
	for ; t != nil && t.Kind != Newline && t.Kind != EOF; t = t.Next {
		cp := CopyToken(t)
		if head == nil {
			head = cp
		} else {
			tail.Next = cp
		}
		tail = cp
	}
	end := &Token{Kind: EOF}
	if head == nil {
		return end
	}
	tail.Next = end
	return head
}

// SkipTrivia advances past Whitespace and Comment-stripped tokens,
// returning the first token at or after t that is not Whitespace. It
// does not skip Newline: callers that care about statement boundaries
// still see newlines unless the caller has already stripped them.
func SkipTrivia(t *Token) *Token {
	for t != nil && t.Kind == Whitespace {
		t = t.Next
	}
	return t
}

// ScanTo walks forward from t until it finds a token of kind, or EOF.
func ScanTo(t *Token, kind TokenKind) *Token {
	for t != nil && t.Kind != EOF && t.Kind != kind {
		t = t.Next
	}
	return t
}

// StripTrivia removes every Whitespace and Newline token from the list
// headed by t, returning the new head. Used after preprocessing, once
// the preprocessor no longer needs layout information.
func StripTrivia(t *Token) *Token {
	var head, tail *Token
	for ; t != nil; t = t.Next {
		if t.Kind == Whitespace || t.Kind == Newline {
			continue
		}
		cp := CopyToken(t)
		if head == nil {
			head = cp
		} else {
			tail.Next = cp
		}
		tail = cp
	}
	if head == nil {
		return &Token{Kind: EOF}
	}
	return head
}
