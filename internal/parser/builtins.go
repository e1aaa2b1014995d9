package parser

import (
	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// vaElemType looks up the prelude's struct __builtin_va_elem tag,
// fatal if missing: its absence means the built-in prelude itself is broken.
func (p *Parser) vaElemType(tok *lexer.Token) (*types.Type, error) {
	ty, ok := p.table.FindTag("__builtin_va_elem")
	if !ok {
		return nil, p.errorfAt(tok, "internal error: struct __builtin_va_elem is not in scope")
	}
	return ty, nil
}

// asVaElemStruct reinterprets n (an expression of type va_list, i.e.
// array-of-struct) as a pointer to struct __builtin_va_elem, then
// dereferences it, giving an lvalue of the struct itself.
func (p *Parser) asVaElemStruct(n *ast.Node, structTy *types.Type, tok *lexer.Token) *ast.Node {
	ptr := ast.NewCast(n, types.PointerTo(structTy), tok)
	deref := ast.NewUnary(ast.Deref, ptr, tok)
	_ = ast.AddType(deref)
	return deref
}

func (p *Parser) vaMember(structVal *ast.Node, field string, tok *lexer.Token) (*ast.Node, error) {
	m := &ast.Node{Kind: ast.Member, Tok: tok, Lhs: structVal, Field: field}
	if err := ast.AddType(m); err != nil {
		return nil, p.errorfAt(tok, "internal error: struct __builtin_va_elem has no member %q", field)
	}
	return m, nil
}

// parseVaStart lowers `__builtin_va_start(ap, last)` to
// `*ap = *(struct __builtin_va_elem *)__va_area__`. last is parsed and
// discarded: its only role in real System-V va_start is to compute the
// register-save layout, which this front end's implicit per-function
// variadic area already fixes at function-entry time.
func (p *Parser) parseVaStart() (*ast.Node, error) {
	tok := p.advance() // '__builtin_va_start'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	ap, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(","); err != nil {
		return nil, err
	}
	if _, err := p.parseExpr(precAssign); err != nil { // `last`, unused
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	if p.curFunc == nil || !p.curFunc.IsVarParams {
		return nil, p.errorfAt(tok, "__builtin_va_start used outside a variadic function")
	}

	structTy, err := p.vaElemType(tok)
	if err != nil {
		return nil, err
	}
	lhs := p.asVaElemStruct(ap, structTy, tok)
	rhs := p.asVaElemStruct(ast.NewVar(p.curFunc.VaArea, tok), structTy, tok)
	n := ast.NewBinary(ast.Assign, lhs, rhs, tok)
	return n, ast.AddType(n)
}

// parseVaArg lowers `__builtin_va_arg(ap, T)` to the System-V access
// pattern: read gp_offset, compute the saved argument's address from
// reg_save_area, post-increment gp_offset by 8, and yield the value —
// built with the same hidden-temporary, fresh-scope technique as
// postfix `++`/`--` so the read and the increment are sequenced correctly.
func (p *Parser) parseVaArg() (*ast.Node, error) {
	tok := p.advance() // '__builtin_va_arg'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	ap, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(","); err != nil {
		return nil, err
	}
	target, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	structTy, err := p.vaElemType(tok)
	if err != nil {
		return nil, err
	}
	apStruct := p.asVaElemStruct(ap, structTy, tok)
	gpOffset, err := p.vaMember(apStruct, "gp_offset", tok)
	if err != nil {
		return nil, err
	}
	regSaveArea, err := p.vaMember(apStruct, "reg_save_area", tok)
	if err != nil {
		return nil, err
	}

	addr, err := p.newAdd(regSaveArea, gpOffset, tok)
	if err != nil {
		return nil, err
	}
	addr, err = p.newSub(addr, numNode(8, types.LongType, tok), tok)
	if err != nil {
		return nil, err
	}
	valuePtr := ast.NewCast(addr, types.PointerTo(target), tok)
	value := ast.NewUnary(ast.Deref, valuePtr, tok)
	if err := ast.AddType(value); err != nil {
		return nil, err
	}

	p.table.Enter(scope.ScopeBlock)
	tmp := &scope.Ident{Kind: scope.KindLocal, Name: p.genTempName(), Type: target}
	tmp.Offset = p.table.AllocLocal(target.Size)
	if err := p.table.Declare(tmp); err != nil {
		p.table.Leave()
		return nil, p.errorfAt(tok, "%s", err.Error())
	}
	p.table.Leave()
	tNode := ast.NewVar(tmp, tok)

	assignT := ast.NewBinary(ast.Assign, tNode, value, tok)
	if err := ast.AddType(assignT); err != nil {
		return nil, err
	}

	gpOffsetAgain, err := p.vaMember(p.asVaElemStruct(ap, structTy, tok), "gp_offset", tok)
	if err != nil {
		return nil, err
	}
	bumped, err := p.buildBinaryOp("+", gpOffsetAgain, numNode(8, types.IntType, tok), tok)
	if err != nil {
		return nil, err
	}
	bump := ast.NewBinary(ast.Assign, gpOffsetAgain, bumped, tok)
	if err := ast.AddType(bump); err != nil {
		return nil, err
	}

	inner := ast.NewBinary(ast.Comma, bump, tNode, tok)
	if err := ast.AddType(inner); err != nil {
		return nil, err
	}
	outer := ast.NewBinary(ast.Comma, assignT, inner, tok)
	return outer, ast.AddType(outer)
}

// parseVaEnd lowers `__builtin_va_end(ap)` to a no-op: ap is parsed (so
// the call is syntactically validated) and then discarded.
func (p *Parser) parseVaEnd() (*ast.Node, error) {
	tok := p.advance() // '__builtin_va_end'
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	if _, err := p.parseExpr(precAssign); err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.NoOp, Tok: tok}, nil
}
