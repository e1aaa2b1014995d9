package parser

import (
	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// appendStmt links n onto the statement chain headed by *head with tail
// *tail, following n's own Next chain to find its true end (a
// declaration with several initialized names hands back more than one
// statement at once).
func appendStmt(head, tail **ast.Node, n *ast.Node) {
	if n == nil {
		return
	}
	if *head == nil {
		*head = n
	} else {
		(*tail).Next = n
	}
	last := n
	for last.Next != nil {
		last = last.Next
	}
	*tail = last
}

func wrapVoid(e *ast.Node, tok *lexer.Token) *ast.Node {
	if e == nil {
		return &ast.Node{Kind: ast.NoOp, Tok: tok}
	}
	return &ast.Node{Kind: ast.Void, Tok: tok, Lhs: e}
}

// parseCompoundStmt parses `{ statement-or-declaration* }`. A function
// body passes ownScope=false to reuse the ScopeFunction frame the
// caller already pushed; a nested `{ }` passes true to introduce its
// own block scope: an inner declaration must not escape to the enclosing block.
func (p *Parser) parseCompoundStmt(ownScope bool) (*ast.Node, error) {
	tok, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	if ownScope {
		p.table.Enter(scope.ScopeBlock)
	}

	var head, tail *ast.Node
	for !p.at("}") {
		if p.tok.Kind == lexer.EOF {
			if ownScope {
				p.table.Leave()
			}
			return nil, p.errorf("unexpected end of file, expected '}'")
		}
		var item *ast.Node
		var err error
		if p.isTypeStart() {
			item, err = p.parseLocalDecl()
		} else {
			item, err = p.parseStmt()
		}
		if err != nil {
			if ownScope {
				p.table.Leave()
			}
			return nil, err
		}
		appendStmt(&head, &tail, item)
	}
	p.advance() // '}'
	if ownScope {
		p.table.Leave()
	}
	return ast.NewBlock(head, tok), nil
}

// parseLocalDecl parses one declaration inside a block: a declspec
// followed by a comma-separated declarator list, each optionally
// `= initializer`. Declarators with an initializer produce a Void
// (expression-statement) node assigning into the freshly declared
// local; declarators without one produce nothing (the local is simply
// registered in scope and given a stack slot).
func (p *Parser) parseLocalDecl() (*ast.Node, error) {
	spec, err := p.parseDeclSpec()
	if err != nil {
		return nil, err
	}

	var head, tail *ast.Node
	for {
		ty, nameTok, err := p.parseDeclarator(spec.Type)
		if err != nil {
			return nil, err
		}

		if spec.IsTypedef {
			if err := p.table.Declare(&scope.Ident{
				Kind: scope.KindTypedef, Token: nameTok, Name: nameTok.Lit, Type: ty,
			}); err != nil {
				return nil, p.errorfAt(nameTok, "%s", err.Error())
			}
		} else {
			id := &scope.Ident{
				Kind: scope.KindLocal, Token: nameTok, Name: nameTok.Lit, Type: ty,
				IsExtern: spec.IsExtern, IsStatic: spec.IsStatic,
			}
			if !spec.IsExtern {
				id.Offset = p.table.AllocLocal(ty.Size)
			}
			if err := p.table.Declare(id); err != nil {
				return nil, p.errorfAt(nameTok, "%s", err.Error())
			}

			if p.at("=") {
				eqTok := p.advance()
				initExpr, err := p.parseExpr(precAssign)
				if err != nil {
					return nil, err
				}
				assign := ast.NewBinary(ast.Assign, ast.NewVar(id, nameTok), initExpr, eqTok)
				if err := ast.AddType(assign); err != nil {
					return nil, err
				}
				appendStmt(&head, &tail, wrapVoid(assign, eqTok))
			}
		}

		if !p.at(",") {
			break
		}
		p.advance()
	}

	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return head, nil
}

func (p *Parser) parseStmt() (*ast.Node, error) {
	tok := p.tok

	switch {
	case p.at("{"):
		return p.parseCompoundStmt(true)

	case p.at(";"):
		p.advance()
		return &ast.Node{Kind: ast.NoOp, Tok: tok}, nil

	case p.at("return"):
		return p.parseReturnStmt()
	case p.at("if"):
		return p.parseIfStmt()
	case p.at("while"):
		return p.parseWhileStmt()
	case p.at("do"):
		return p.parseDoWhileStmt()
	case p.at("for"):
		return p.parseForStmt()
	case p.at("switch"):
		return p.parseSwitchStmt()
	case p.at("case"):
		return p.parseCaseStmt()
	case p.at("default"):
		return p.parseDefaultStmt()
	case p.at("break"):
		return p.parseBreakStmt()
	case p.at("continue"):
		return p.parseContinueStmt()
	case p.at("goto"):
		return p.parseGotoStmt()

	case p.tok.Kind == lexer.Ident && p.nextAt(":"):
		return p.parseLabelStmt()

	default:
		e, err := p.parseExprStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return wrapVoid(e, tok), nil
	}
}

func (p *Parser) parseReturnStmt() (*ast.Node, error) {
	tok := p.advance() // 'return'
	if p.at(";") {
		p.advance()
		if p.curFunc != nil && p.curFunc.Type.Return.Kind != types.KindVoid {
			return nil, p.errorfAt(tok, "non-void function %q must return a value", p.curFunc.Name)
		}
		return &ast.Node{Kind: ast.Return, Tok: tok}, nil
	}
	e, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Return, Tok: tok, Lhs: e}, nil
}

func (p *Parser) parseIfStmt() (*ast.Node, error) {
	tok := p.advance() // 'if'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if !p.at("else") {
		return &ast.Node{Kind: ast.If, Tok: tok, Cond: cond, Then: then}, nil
	}
	p.advance() // 'else'
	els, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.IfElse, Tok: tok, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhileStmt() (*ast.Node, error) {
	tok := p.advance() // 'while'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.parseStmt()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.While, Tok: tok, Cond: cond, Then: body}, nil
}

func (p *Parser) parseDoWhileStmt() (*ast.Node, error) {
	tok := p.advance() // 'do'
	p.loopDepth++
	body, err := p.parseStmt()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("while"); err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.DoWhile, Tok: tok, Cond: cond, Then: body}, nil
}

// parseForStmt gives the loop's own initializer its own scope: a
// declaration in the for-init does not leak into the enclosing block.
func (p *Parser) parseForStmt() (*ast.Node, error) {
	tok := p.advance() // 'for'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	p.table.Enter(scope.ScopeBlock)

	var init *ast.Node
	if p.at(";") {
		p.advance()
	} else if p.isTypeStart() {
		decl, err := p.parseLocalDecl() // consumes the trailing ';' itself
		if err != nil {
			p.table.Leave()
			return nil, err
		}
		init = ast.NewBlock(decl, tok)
	} else {
		e, err := p.parseExprStatement()
		if err != nil {
			p.table.Leave()
			return nil, err
		}
		init = wrapVoid(e, tok)
		if _, err := p.expect(";"); err != nil {
			p.table.Leave()
			return nil, err
		}
	}

	var cond *ast.Node
	if !p.at(";") {
		c, err := p.parseExprStatement()
		if err != nil {
			p.table.Leave()
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(";"); err != nil {
		p.table.Leave()
		return nil, err
	}

	var incr *ast.Node
	if !p.at(")") {
		e, err := p.parseExprStatement()
		if err != nil {
			p.table.Leave()
			return nil, err
		}
		incr = wrapVoid(e, tok)
	}
	if _, err := p.expect(")"); err != nil {
		p.table.Leave()
		return nil, err
	}

	p.loopDepth++
	body, err := p.parseStmt()
	p.loopDepth--
	p.table.Leave()
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.For, Tok: tok, Init: init, Cond: cond, Incr: incr, Then: body}, nil
}

func (p *Parser) parseSwitchStmt() (*ast.Node, error) {
	tok := p.advance() // 'switch'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	sw := &ast.Node{Kind: ast.Switch, Tok: tok, Cond: cond}
	p.switchStack = append(p.switchStack, sw)
	body, err := p.parseStmt()
	p.switchStack = p.switchStack[:len(p.switchStack)-1]
	if err != nil {
		return nil, err
	}
	sw.Then = body
	return sw, nil
}

func (p *Parser) currentSwitch() *ast.Node {
	if len(p.switchStack) == 0 {
		return nil
	}
	return p.switchStack[len(p.switchStack)-1]
}

func (p *Parser) parseCaseStmt() (*ast.Node, error) {
	tok := p.advance() // 'case'
	sw := p.currentSwitch()
	if sw == nil {
		return nil, p.errorfAt(tok, "'case' outside a switch statement")
	}
	val, err := p.foldConst()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	c := &ast.Node{Kind: ast.Case, Tok: tok, Val: val, Body: body, NextCase: sw.NextCase}
	sw.NextCase = c
	return c, nil
}

func (p *Parser) parseDefaultStmt() (*ast.Node, error) {
	tok := p.advance() // 'default'
	sw := p.currentSwitch()
	if sw == nil {
		return nil, p.errorfAt(tok, "'default' outside a switch statement")
	}
	if sw.DefaultLabel != nil {
		return nil, p.errorfAt(tok, "multiple 'default' labels in one switch statement")
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	d := &ast.Node{Kind: ast.Default, Tok: tok, Body: body}
	sw.DefaultLabel = d
	return d, nil
}

func (p *Parser) parseBreakStmt() (*ast.Node, error) {
	tok := p.advance() // 'break'
	if p.loopDepth == 0 && p.currentSwitch() == nil {
		return nil, p.errorfAt(tok, "'break' outside a loop or switch statement")
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Break, Tok: tok}, nil
}

func (p *Parser) parseContinueStmt() (*ast.Node, error) {
	tok := p.advance() // 'continue'
	if p.loopDepth == 0 {
		return nil, p.errorfAt(tok, "'continue' outside a loop")
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Continue, Tok: tok}, nil
}

func (p *Parser) parseGotoStmt() (*ast.Node, error) {
	tok := p.advance() // 'goto'
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	p.table.Label(nameTok.Lit)
	return &ast.Node{Kind: ast.Goto, Tok: tok, Label: nameTok.Lit}, nil
}

func (p *Parser) parseLabelStmt() (*ast.Node, error) {
	nameTok := p.advance() // identifier
	p.advance()            // ':'
	if err := p.table.DefineLabel(nameTok.Lit); err != nil {
		return nil, p.errorfAt(nameTok, "%s", err.Error())
	}
	inner, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Label, Tok: nameTok, Label: nameTok.Lit, Lhs: inner}, nil
}
