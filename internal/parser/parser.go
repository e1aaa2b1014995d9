// Package parser implements a single-pass recursive-descent parser over
// the token stream internal/lexer produces, building the internal/ast
// tree and populating internal/scope and internal/types as it goes.
//
// There is no error recovery: the first malformed construct is a fatal
// *errors.CompilerError returned to the caller. A declarator is any
// number of `*`, an identifier, and at most one `[size]`; parenthesized
// declarators such as `int (*fp)(int, int)` are not parsed.
package parser

import (
	"fmt"

	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/errors"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
)

// Parser walks a token stream with one token of lookahead (tok/next),
// which is all a C grammar with maximal-munch tokens ever needs.
type Parser struct {
	file *lexer.SourceFile
	tok  *lexer.Token // current token
	next *lexer.Token // one token ahead

	table *scope.Table

	// switchStack tracks the innermost enclosing switch, so `case`/
	// `default` bind to it; it also makes break legal even outside any
	// loop. Nested switches save and restore by the stack discipline
	// itself (push on entry, pop on exit).
	switchStack []*ast.Node

	// loopDepth makes break and continue legal; continue additionally
	// requires loopDepth > 0 (a switch alone does not make continue legal).
	loopDepth int

	curFunc    *scope.Ident // function whose body is currently being parsed, or nil
	tmpCounter int          // hidden-temporary name generator, for postfix ++/-- and va_arg

	funcs []*scope.Ident // function definitions collected at file scope, in order
}

// Result is everything ParseFile hands to a caller: the function
// definitions in declaration order, and the symbol table that holds
// every global, typedef, tag, and interned string literal.
type Result struct {
	Funcs []*scope.Ident
	Table *scope.Table
}

// New creates a Parser over tok, the head of a fully tokenized,
// trivia-stripped stream (see lexer.StripTrivia), using table as the
// (possibly pre-seeded, see ParseFile) symbol table.
func New(tok *lexer.Token, file *lexer.SourceFile, table *scope.Table) *Parser {
	p := &Parser{file: file, table: table}
	p.tok = tok
	if tok != nil {
		p.next = tok.Next
	}
	return p
}

// ParseFile tokenizes and parses one translation unit, seeded with the
// variadic-argument prelude (internal/parser/prelude.go) so that
// va_list and the __builtin_va_* declarations are always in scope.
func ParseFile(file *lexer.SourceFile) (*Result, error) {
	table := scope.NewTable()

	preludeTok, err := lexer.Tokenize(preludeFile)
	if err != nil {
		return nil, fmt.Errorf("internal error tokenizing prelude: %w", err)
	}
	preludeTok = lexer.StripTrivia(preludeTok)
	if _, err := New(preludeTok, preludeFile, table).parseTranslationUnit(); err != nil {
		return nil, fmt.Errorf("internal error parsing prelude: %w", err)
	}

	tok, err := lexer.Tokenize(file)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, errors.NewCompilerError(le.Pos, le.Msg, file.Content, file.Path)
		}
		return nil, err
	}
	tok = lexer.StripTrivia(tok)

	p := New(tok, file, table)
	funcs, err := p.parseTranslationUnit()
	if err != nil {
		return nil, err
	}
	return &Result{Funcs: funcs, Table: table}, nil
}

func (p *Parser) parseTranslationUnit() ([]*scope.Ident, error) {
	for p.tok.Kind != lexer.EOF {
		if err := p.parseExternalDecl(); err != nil {
			return nil, err
		}
	}
	return p.funcs, nil
}

// advance moves the cursor forward by one token.
func (p *Parser) advance() *lexer.Token {
	cur := p.tok
	p.tok = p.next
	if p.next != nil {
		p.next = p.next.Next
	}
	return cur
}

// at reports whether the current token is punctuation or a keyword
// spelled exactly lit.
func (p *Parser) at(lit string) bool {
	return p.tok.Is(lit)
}

func (p *Parser) nextAt(lit string) bool {
	return p.next != nil && p.next.Is(lit)
}

// expect consumes the current token if it is spelled lit, else fails.
func (p *Parser) expect(lit string) (*lexer.Token, error) {
	if !p.at(lit) {
		return nil, p.errorf("expected %q, got %q", lit, p.describe(p.tok))
	}
	return p.advance(), nil
}

// expectIdent consumes the current token as a plain (non-keyword)
// identifier.
func (p *Parser) expectIdent() (*lexer.Token, error) {
	if p.tok.Kind != lexer.Ident {
		return nil, p.errorf("expected an identifier, got %q", p.describe(p.tok))
	}
	return p.advance(), nil
}

func (p *Parser) describe(t *lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of file"
	}
	return t.Lit
}

// errorf builds a fatal *errors.CompilerError anchored at the current
// token's position. The parser never recovers from one: the caller
// returns it straight up the call stack.
func (p *Parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errors.NewCompilerError(p.tok.Pos, msg, p.file.Content, p.file.Path)
}

func (p *Parser) errorfAt(tok *lexer.Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errors.NewCompilerError(tok.Pos, msg, p.file.Content, p.file.Path)
}

// foldConst parses a constant expression at ASSIGN precedence and folds
// it immediately, for contexts (array sizes, enum values, case labels)
// that must be compile-time constants.
func (p *Parser) foldConst() (int64, error) {
	n, err := p.parseExpr(precAssign)
	if err != nil {
		return 0, err
	}
	if err := ast.AddType(n); err != nil {
		return 0, err
	}
	v, err := ast.FoldConstant(n)
	if err != nil {
		return 0, p.errorfAt(n.Tok, "%s", err.Error())
	}
	return v, nil
}
