package parser

import (
	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// parseExprStatement parses a full expression, including the comma
// operator, the form every expression-statement and for-loop clause
// outside of parentheses uses.
func (p *Parser) parseExprStatement() (*ast.Node, error) {
	return p.parseComma()
}

func (p *Parser) parseComma() (*ast.Node, error) {
	lhs, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	for p.at(",") {
		tok := p.advance()
		rhs, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		n := ast.NewBinary(ast.Comma, lhs, rhs, tok)
		if err := ast.AddType(n); err != nil {
			return nil, err
		}
		lhs = n
	}
	return lhs, nil
}

// parseExpr implements precedence climbing, handling assignment
// (including compound forms) and the conditional operator as special
// right-associative cases before falling into the table-driven
// left-associative climb.
func (p *Parser) parseExpr(minPrec int) (*ast.Node, error) {
	lhs, err := p.parseUnaryOrCast()
	if err != nil {
		return nil, err
	}
	return p.parseExprCont(lhs, minPrec)
}

func (p *Parser) parseExprCont(lhs *ast.Node, minPrec int) (*ast.Node, error) {
	for {
		if p.at("=") && minPrec <= precAssign {
			tok := p.advance()
			rhs, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			n := ast.NewBinary(ast.Assign, lhs, rhs, tok)
			if err := ast.AddType(n); err != nil {
				return nil, err
			}
			lhs = n
			continue
		}

		if op, ok := compoundAssignOps[p.tok.Lit]; ok && p.tok.Kind == lexer.Punct && minPrec <= precAssign {
			tok := p.advance()
			rhs, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			combined, err := p.buildBinaryOp(op, lhs, rhs, tok)
			if err != nil {
				return nil, err
			}
			n := ast.NewBinary(ast.Assign, lhs, combined, tok)
			if err := ast.AddType(n); err != nil {
				return nil, err
			}
			lhs = n
			continue
		}

		if p.at("?") && minPrec <= precCond {
			tok := p.advance()
			then, err := p.parseComma()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			els, err := p.parseExpr(precCond)
			if err != nil {
				return nil, err
			}
			n := &ast.Node{Kind: ast.Cond, Tok: tok, Cond: lhs, Then: then, Else: els}
			if err := ast.AddType(n); err != nil {
				return nil, err
			}
			lhs = n
			continue
		}

		if p.tok.Kind != lexer.Punct {
			break
		}
		prec, ok := binaryPrecedence[p.tok.Lit]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		n, err := p.buildBinaryOp(opTok.Lit, lhs, rhs, opTok)
		if err != nil {
			return nil, err
		}
		lhs = n
	}
	return lhs, nil
}

// buildBinaryOp applies operator op to already-parsed operands,
// including the pointer-arithmetic and relational-operand-swap rules.
func (p *Parser) buildBinaryOp(op string, lhs, rhs *ast.Node, tok *lexer.Token) (*ast.Node, error) {
	switch op {
	case "+":
		return p.newAdd(lhs, rhs, tok)
	case "-":
		return p.newSub(lhs, rhs, tok)
	case ">":
		return p.newCompare(ast.Lt, rhs, lhs, tok)
	case ">=":
		return p.newCompare(ast.Le, rhs, lhs, tok)
	case "<":
		return p.newCompare(ast.Lt, lhs, rhs, tok)
	case "<=":
		return p.newCompare(ast.Le, lhs, rhs, tok)
	default:
		kind, ok := simpleBinaryKind[op]
		if !ok {
			return nil, p.errorfAt(tok, "unsupported operator %q", op)
		}
		n := ast.NewBinary(kind, lhs, rhs, tok)
		if err := ast.AddType(n); err != nil {
			return nil, err
		}
		return n, nil
	}
}

var simpleBinaryKind = map[string]ast.Kind{
	"*": ast.Mul, "/": ast.Div, "%": ast.Mod,
	"&": ast.BitAnd, "|": ast.BitOr, "^": ast.BitXor,
	"<<": ast.Shl, ">>": ast.Shr,
	"==": ast.Eq, "!=": ast.Ne,
	"&&": ast.LogAnd, "||": ast.LogOr,
}

func (p *Parser) newCompare(kind ast.Kind, lhs, rhs *ast.Node, tok *lexer.Token) (*ast.Node, error) {
	n := ast.NewBinary(kind, lhs, rhs, tok)
	return n, ast.AddType(n)
}

// newAdd applies the pointer-arithmetic rule: a pointer (or array,
// decayed) plus an integer scales the integer by the pointee size;
// pointer + pointer is an error.
func (p *Parser) newAdd(lhs, rhs *ast.Node, tok *lexer.Token) (*ast.Node, error) {
	lp, rp := lhs.Type.IsPointerLike(), rhs.Type.IsPointerLike()
	switch {
	case !lp && !rp:
		n := ast.NewBinary(ast.Add, lhs, rhs, tok)
		return n, ast.AddType(n)
	case lp && !rp:
		n := ast.NewBinary(ast.Add, lhs, p.scaleByPointee(lhs.Type, rhs, tok), tok)
		n.Type = types.PointerTo(lhs.Type.Base)
		return n, nil
	case !lp && rp:
		n := ast.NewBinary(ast.Add, rhs, p.scaleByPointee(rhs.Type, lhs, tok), tok)
		n.Type = types.PointerTo(rhs.Type.Base)
		return n, nil
	default:
		return nil, p.errorfAt(tok, "invalid operands to binary +: pointer + pointer")
	}
}

// newSub applies the pointer-arithmetic rule for subtraction: pointer
// minus integer scales the integer; integer minus pointer and pointer
// minus pointer are both errors (the latter is explicitly not supported,
// rather than yielding an element count).
func (p *Parser) newSub(lhs, rhs *ast.Node, tok *lexer.Token) (*ast.Node, error) {
	lp, rp := lhs.Type.IsPointerLike(), rhs.Type.IsPointerLike()
	switch {
	case !lp && !rp:
		n := ast.NewBinary(ast.Sub, lhs, rhs, tok)
		return n, ast.AddType(n)
	case lp && !rp:
		n := ast.NewBinary(ast.Sub, lhs, p.scaleByPointee(lhs.Type, rhs, tok), tok)
		n.Type = types.PointerTo(lhs.Type.Base)
		return n, nil
	case !lp && rp:
		return nil, p.errorfAt(tok, "invalid operands to binary -: integer - pointer")
	default:
		return nil, p.errorfAt(tok, "pointer - pointer is not supported")
	}
}

// scaleByPointee multiplies intNode by ptrType's pointee size, treating
// an unsized (void) pointee as size 1, the common extension.
func (p *Parser) scaleByPointee(ptrType *types.Type, intNode *ast.Node, tok *lexer.Token) *ast.Node {
	size := ptrType.Base.Size
	if size == 0 {
		size = 1
	}
	if size == 1 {
		return intNode
	}
	scaled := ast.NewBinary(ast.Mul, intNode, numNode(int64(size), types.LongType, tok), tok)
	_ = ast.AddType(scaled)
	return scaled
}

func numNode(val int64, ty *types.Type, tok *lexer.Token) *ast.Node {
	n := ast.NewNum(val, tok)
	n.Type = ty
	return n
}

// parseUnaryOrCast implements the unary and cast precedence levels:
// `+ - & * ! ++ -- sizeof` and `( type ) expr`, then descends to
// postfix/primary.
func (p *Parser) parseUnaryOrCast() (*ast.Node, error) {
	switch {
	case p.at("("):
		if p.nextAt(")") {
			break
		}
		if p.isCastAhead() {
			tok := p.advance() // '('
			target, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			operand, err := p.parseUnaryOrCast()
			if err != nil {
				return nil, err
			}
			return ast.NewCast(operand, target, tok), nil
		}

	case p.at("+"):
		p.advance()
		return p.parseUnaryOrCast()

	case p.at("-"):
		tok := p.advance()
		operand, err := p.parseUnaryOrCast()
		if err != nil {
			return nil, err
		}
		return p.newSub(numNode(0, operand.Type, tok), operand, tok)

	case p.at("!"):
		tok := p.advance()
		operand, err := p.parseUnaryOrCast()
		if err != nil {
			return nil, err
		}
		n := ast.NewUnary(ast.Not, operand, tok)
		return n, ast.AddType(n)

	case p.at("&"):
		tok := p.advance()
		operand, err := p.parseUnaryOrCast()
		if err != nil {
			return nil, err
		}
		n := ast.NewUnary(ast.Addr, operand, tok)
		return n, ast.AddType(n)

	case p.at("*"):
		tok := p.advance()
		operand, err := p.parseUnaryOrCast()
		if err != nil {
			return nil, err
		}
		n := ast.NewUnary(ast.Deref, operand, tok)
		return n, ast.AddType(n)

	case p.at("++"), p.at("--"):
		tok := p.advance()
		operand, err := p.parseUnaryOrCast()
		if err != nil {
			return nil, err
		}
		op := "+"
		if tok.Lit == "--" {
			op = "-"
		}
		delta, err := p.buildBinaryOp(op, operand, numNode(1, types.IntType, tok), tok)
		if err != nil {
			return nil, err
		}
		n := ast.NewBinary(ast.Assign, operand, delta, tok)
		return n, ast.AddType(n)

	case p.at("sizeof"):
		return p.parseSizeof()
	}

	return p.parsePostfix()
}

func (p *Parser) parseSizeof() (*ast.Node, error) {
	tok := p.advance() // 'sizeof'
	if p.at("(") && p.isTypeStartAfterParen() {
		p.advance()
		ty, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return numNode(int64(ty.Size), types.ULongType, tok), nil
	}
	operand, err := p.parseUnaryOrCast()
	if err != nil {
		return nil, err
	}
	return numNode(int64(operand.Type.Size), types.ULongType, tok), nil
}

func (p *Parser) isTypeStartAfterParen() bool {
	if p.next == nil {
		return false
	}
	if lexer.IsKeyword(p.next.Lit) {
		switch p.next.Lit {
		case "void", "bool", "char", "short", "int", "long", "unsigned", "signed",
			"const", "volatile", "restrict", "struct", "union", "enum":
			return true
		}
		return false
	}
	return p.next.Kind == lexer.Ident && p.table.IsTypedefName(p.next.Lit)
}

// isCastAhead looks past the current '(' to decide whether this is a
// cast `(type)` or a parenthesized expression.
func (p *Parser) isCastAhead() bool {
	return p.isTypeStartAfterParen()
}

// parsePostfix handles `[ ] . -> ++ --` applied left-to-right after
// a primary expression. Function calls are parsed in parseIdentExpr.
func (p *Parser) parsePostfix() (*ast.Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.at("["):
			tok := p.advance()
			idx, err := p.parseComma()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			sum, err := p.newAdd(n, idx, tok)
			if err != nil {
				return nil, err
			}
			deref := ast.NewUnary(ast.Deref, sum, tok)
			if err := ast.AddType(deref); err != nil {
				return nil, err
			}
			n = deref

		case p.at("."):
			tok := p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			m := &ast.Node{Kind: ast.Member, Tok: tok, Lhs: n, Field: field.Lit}
			if err := ast.AddType(m); err != nil {
				return nil, err
			}
			n = m

		case p.at("->"):
			tok := p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			deref := ast.NewUnary(ast.Deref, n, tok)
			if err := ast.AddType(deref); err != nil {
				return nil, err
			}
			m := &ast.Node{Kind: ast.Member, Tok: tok, Lhs: deref, Field: field.Lit}
			if err := ast.AddType(m); err != nil {
				return nil, err
			}
			n = m

		case p.at("++"), p.at("--"):
			tok := p.advance()
			post, err := p.lowerPostfixIncDec(n, tok)
			if err != nil {
				return nil, err
			}
			n = post

		default:
			return n, nil
		}
	}
}

// lowerPostfixIncDec lowers postfix ++/-- via a fresh scope holding a
// hidden temporary t, producing `(t = x, (x = x±1, t))`.
func (p *Parser) lowerPostfixIncDec(x *ast.Node, tok *lexer.Token) (*ast.Node, error) {
	p.table.Enter(scope.ScopeBlock)
	tmp := &scope.Ident{Kind: scope.KindLocal, Name: p.genTempName(), Type: x.Type}
	tmp.Offset = p.table.AllocLocal(x.Type.Size)
	if err := p.table.Declare(tmp); err != nil {
		p.table.Leave()
		return nil, p.errorfAt(tok, "%s", err.Error())
	}
	p.table.Leave()

	tNode := ast.NewVar(tmp, tok)

	op := "+"
	if tok.Lit == "--" {
		op = "-"
	}
	delta, err := p.buildBinaryOp(op, x, numNode(1, types.IntType, tok), tok)
	if err != nil {
		return nil, err
	}

	assignT := ast.NewBinary(ast.Assign, tNode, x, tok)
	if err := ast.AddType(assignT); err != nil {
		return nil, err
	}
	xUpdate := ast.NewBinary(ast.Assign, x, delta, tok)
	if err := ast.AddType(xUpdate); err != nil {
		return nil, err
	}
	inner := ast.NewBinary(ast.Comma, xUpdate, tNode, tok)
	if err := ast.AddType(inner); err != nil {
		return nil, err
	}
	outer := ast.NewBinary(ast.Comma, assignT, inner, tok)
	return outer, ast.AddType(outer)
}

func (p *Parser) genTempName() string {
	p.tmpCounter++
	return ".Ltmp" + itoaSmall(p.tmpCounter)
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// parsePrimary parses a parenthesized expression, string literal,
// identifier (variable, enum constant, or intrinsic), or integer
// literal.
func (p *Parser) parsePrimary() (*ast.Node, error) {
	switch {
	case p.at("("):
		p.advance()
		n, err := p.parseComma()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return n, nil

	case p.tok.Kind == lexer.Int:
		n := ast.NewNum(p.tok.Val, p.tok)
		p.advance()
		return n, nil

	case p.tok.Kind == lexer.Char:
		n := ast.NewNum(p.tok.Val, p.tok)
		n.Type = types.CharType
		p.advance()
		return n, nil

	case p.tok.Kind == lexer.String:
		tok := p.advance()
		ident := p.table.InternString(tok.Str)
		n := ast.NewVar(ident, tok)
		return n, ast.AddType(n)

	case p.tok.Kind == lexer.Ident:
		return p.parseIdentExpr()

	default:
		return nil, p.errorf("expected an expression, got %q", p.describe(p.tok))
	}
}

func (p *Parser) parseIdentExpr() (*ast.Node, error) {
	tok := p.tok

	switch tok.Lit {
	case "__builtin_va_start":
		return p.parseVaStart()
	case "__builtin_va_arg":
		return p.parseVaArg()
	case "__builtin_va_end":
		return p.parseVaEnd()
	}

	p.advance()
	ident, ok := p.table.FindIdent(tok.Lit)
	if !ok {
		return nil, p.errorfAt(tok, "undeclared identifier %q", tok.Lit)
	}

	if p.at("(") {
		if ident.Kind != scope.KindFunction {
			return nil, p.errorfAt(tok, "%q is not a function", tok.Lit)
		}
		return p.parseCall(ident, tok)
	}

	if ident.Kind == scope.KindEnumConst {
		n := ast.NewNum(ident.Val, tok)
		n.Type = ident.Type
		return n, nil
	}

	n := ast.NewVar(ident, tok)
	return n, ast.AddType(n)
}

func (p *Parser) parseCall(fn *scope.Ident, tok *lexer.Token) (*ast.Node, error) {
	p.advance() // '('
	var args []*ast.Node
	if !p.at(")") {
		for {
			arg, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(",") {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if !fn.IsVarParams && len(args) != len(fn.Params) {
		return nil, p.errorfAt(tok, "function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	callee := ast.NewVar(fn, tok)
	n := &ast.Node{Kind: ast.Call, Tok: tok, Lhs: callee, Params: args}
	return n, ast.AddType(n)
}
