package parser

import (
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// isFunctionAhead is a bounded lookahead that tells a function
// definition/declaration apart from a global variable declaration: skip
// any `*`, then an identifier followed by `(` means a function. The
// token stream is a linked list, so this peeks without disturbing the
// cursor — no save/restore is needed.
func (p *Parser) isFunctionAhead() bool {
	t := p.tok
	for t.Is("*") {
		t = t.Next
	}
	return t.Kind == lexer.Ident && t.Next != nil && t.Next.Is("(")
}

// parseExternalDecl parses one top-level construct: a standalone
// struct/union/enum/typedef tag declaration, a function declaration or
// definition, or a comma-separated list of global variable declarators.
func (p *Parser) parseExternalDecl() error {
	spec, err := p.parseDeclSpec()
	if err != nil {
		return err
	}

	if p.at(";") {
		p.advance() // bare `struct S { ... };` or similar: the tag is already registered
		return nil
	}

	if p.isFunctionAhead() {
		return p.parseFunction(spec)
	}

	for {
		ty, nameTok, err := p.parseDeclarator(spec.Type)
		if err != nil {
			return err
		}

		if spec.IsTypedef {
			if err := p.table.Declare(&scope.Ident{
				Kind: scope.KindTypedef, Token: nameTok, Name: nameTok.Lit, Type: ty,
			}); err != nil {
				return p.errorfAt(nameTok, "%s", err.Error())
			}
		} else {
			id := &scope.Ident{
				Kind: scope.KindGlobal, Token: nameTok, Name: nameTok.Lit, Type: ty,
				IsExtern: spec.IsExtern, IsStatic: spec.IsStatic,
			}
			if err := p.table.Declare(id); err != nil {
				return p.errorfAt(nameTok, "%s", err.Error())
			}
			if p.at("=") {
				p.advance()
				v, err := p.foldConst()
				if err != nil {
					return err
				}
				id.Val = v
			}
		}

		if !p.at(",") {
			break
		}
		p.advance()
	}

	_, err = p.expect(";")
	return err
}

// parseFunction parses a function declarator's parameter list and, if
// present, its body. A name already bound to a function is reused (so
// recursive calls and forward-declaration matching resolve to the same
// Ident); the return type is required to match a prior declaration.
func (p *Parser) parseFunction(spec *declSpec) error {
	retType := spec.Type
	for p.at("*") {
		p.advance()
		retType = types.PointerTo(retType)
	}

	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect("("); err != nil {
		return err
	}

	var fnIdent *scope.Ident
	if existing, ok := p.table.FindIdent(nameTok.Lit); ok {
		if existing.Kind != scope.KindFunction {
			return p.errorfAt(nameTok, "redeclaration of %q as a different kind of symbol", nameTok.Lit)
		}
		fnIdent = existing
	} else {
		fnIdent = &scope.Ident{Kind: scope.KindFunction, Token: nameTok, Name: nameTok.Lit}
		if err := p.table.Declare(fnIdent); err != nil {
			return p.errorfAt(nameTok, "%s", err.Error())
		}
	}
	prevReturn := retType
	if fnIdent.Type != nil {
		prevReturn = fnIdent.Type.Return
	}

	p.table.EnterFunction()

	var params []*scope.Ident
	isVarParams := false
	if !p.at(")") && !(p.tok.Kind == lexer.Keyword && p.tok.Lit == "void" && p.nextAt(")")) {
		for {
			if p.at("...") {
				p.advance()
				isVarParams = true
				break
			}
			pspec, err := p.parseDeclSpec()
			if err != nil {
				p.table.LeaveFunction()
				return err
			}
			pty, pnameTok, err := p.parseDeclarator(pspec.Type)
			if err != nil {
				p.table.LeaveFunction()
				return err
			}
			if pty.Kind == types.KindArray { // a parameter of array type decays to pointer
				pty = types.PointerTo(pty.Base)
			}
			pid := &scope.Ident{Kind: scope.KindLocal, Token: pnameTok, Name: pnameTok.Lit, Type: pty}
			pid.Offset = p.table.AllocLocal(pty.Size)
			if err := p.table.Declare(pid); err != nil {
				p.table.LeaveFunction()
				return p.errorfAt(pnameTok, "%s", err.Error())
			}
			params = append(params, pid)
			if !p.at(",") {
				break
			}
			p.advance()
		}
	} else if p.tok.Kind == lexer.Keyword && p.tok.Lit == "void" {
		p.advance() // `(void)`: no parameters
	}

	if _, err := p.expect(")"); err != nil {
		p.table.LeaveFunction()
		return err
	}

	if !types.Equal(prevReturn, retType) {
		p.table.LeaveFunction()
		return p.errorfAt(nameTok, "conflicting return type for function %q", nameTok.Lit)
	}

	paramTypes := make([]*types.Type, len(params))
	for i, prm := range params {
		paramTypes[i] = prm.Type
	}
	fnIdent.Type = &types.Type{Kind: types.KindFunction, Name: "function", Return: retType, Params: paramTypes}
	fnIdent.Params = params
	fnIdent.IsVarParams = isVarParams
	fnIdent.IsExtern = spec.IsExtern
	fnIdent.IsStatic = spec.IsStatic

	if p.at(";") {
		p.advance()
		p.table.LeaveFunction()
		return nil
	}

	if fnIdent.FuncBody != nil {
		p.table.LeaveFunction()
		return p.errorfAt(nameTok, "redefinition of function %q", nameTok.Lit)
	}

	if isVarParams {
		if err := p.declareVariadicArea(fnIdent, nameTok); err != nil {
			p.table.LeaveFunction()
			return err
		}
	}

	prevFunc := p.curFunc
	p.curFunc = fnIdent
	body, err := p.parseCompoundStmt(false)
	p.curFunc = prevFunc
	if err != nil {
		p.table.LeaveFunction()
		return err
	}

	funcScope := p.table.Current
	stackSize := p.table.LeaveFunction()

	fnIdent.FuncBody = body
	fnIdent.FuncScope = funcScope
	fnIdent.StackSize = stackSize
	p.funcs = append(p.funcs, fnIdent)
	return nil
}

// declareVariadicArea registers the two implicit locals a variadic
// function's body needs: __va_area__ (the struct __builtin_va_elem that
// __builtin_va_start initializes) and __reg_save_area__ (the spilled
// incoming register arguments __builtin_va_arg reads through
// reg_save_area + gp_offset). Their layout mirrors the System-V x86-64
// ABI: up to six integer-class register arguments, eight bytes each.
func (p *Parser) declareVariadicArea(fnIdent *scope.Ident, nameTok *lexer.Token) error {
	structTy, err := p.vaElemType(nameTok)
	if err != nil {
		return err
	}

	vaArea := &scope.Ident{Kind: scope.KindLocal, Name: "__va_area__", Type: structTy}
	vaArea.Offset = p.table.AllocLocal(structTy.Size)
	if err := p.table.Declare(vaArea); err != nil {
		return p.errorfAt(nameTok, "%s", err.Error())
	}
	fnIdent.VaArea = vaArea

	spillType := types.ArrayOf(types.CharType, 48) // six integer-class registers, eight bytes each
	spillArea := &scope.Ident{Kind: scope.KindLocal, Name: "__reg_save_area__", Type: spillType}
	spillArea.Offset = p.table.AllocLocal(spillType.Size)
	if err := p.table.Declare(spillArea); err != nil {
		return p.errorfAt(nameTok, "%s", err.Error())
	}
	return nil
}
