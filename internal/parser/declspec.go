package parser

import (
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// Type-specifier counting bits, one per keyword: each legal specifier
// combination sums to a unique value, so a switch on the sum recognizes
// it. `long` is the only specifier legally repeated, hence its bit is
// wide enough to count to two.
const (
	bitsVoid     = 1 << 0
	bitsBool     = 1 << 2
	bitsChar     = 1 << 4
	bitsShort    = 1 << 6
	bitsInt      = 1 << 8
	bitsLong     = 1 << 10
	bitsSigned   = 1 << 12
	bitsUnsigned = 1 << 13
)

// declSpec is the accumulated result of parsing a declaration-specifier
// sequence: storage class, qualifiers, and the resolved base type.
type declSpec struct {
	Type      *types.Type
	IsTypedef bool
	IsExtern  bool
	IsStatic  bool
	IsConst   bool
}

func (p *Parser) isTypeStart() bool {
	if p.tok.Kind == lexer.Keyword {
		switch p.tok.Lit {
		case "void", "bool", "char", "short", "int", "long", "unsigned", "signed",
			"const", "volatile", "restrict", "typedef", "extern", "static", "auto", "register",
			"struct", "union", "enum":
			return true
		}
		return false
	}
	if p.tok.Kind == lexer.Ident {
		return p.table.IsTypedefName(p.tok.Lit)
	}
	return false
}

// parseDeclSpec parses storage-class specifiers, type qualifiers, and
// type specifiers. At most one storage class is legal; `auto` and
// `register` are accepted and have no effect.
func (p *Parser) parseDeclSpec() (*declSpec, error) {
	spec := &declSpec{}
	bits := 0
	longCount := 0
	var namedTagType *types.Type // struct/union/enum/typedef occupies this slot
	storageSeen := false

	for {
		switch {
		case p.at("typedef"), p.at("extern"), p.at("static"), p.at("auto"), p.at("register"):
			if storageSeen && !(p.at("auto") || p.at("register")) {
				return nil, p.errorf("multiple storage classes in declaration specifiers")
			}
			switch p.tok.Lit {
			case "typedef":
				spec.IsTypedef = true
				storageSeen = true
			case "extern":
				spec.IsExtern = true
				storageSeen = true
			case "static":
				spec.IsStatic = true
				storageSeen = true
			}
			p.advance()
			continue

		case p.at("const"):
			spec.IsConst = true
			p.advance()
			continue
		case p.at("volatile"), p.at("restrict"):
			p.advance()
			continue

		case p.at("struct"), p.at("union"):
			if namedTagType != nil || bits != 0 {
				return nil, p.errorf("invalid type specifier combination")
			}
			ty, err := p.parseStructUnionSpec()
			if err != nil {
				return nil, err
			}
			namedTagType = ty
			continue

		case p.at("enum"):
			if namedTagType != nil || bits != 0 {
				return nil, p.errorf("invalid type specifier combination")
			}
			ty, err := p.parseEnumSpec()
			if err != nil {
				return nil, err
			}
			namedTagType = ty
			continue

		case p.at("void"):
			bits += bitsVoid
			p.advance()
			continue
		case p.at("bool"):
			bits += bitsBool
			p.advance()
			continue
		case p.at("char"):
			bits += bitsChar
			p.advance()
			continue
		case p.at("short"):
			bits += bitsShort
			p.advance()
			continue
		case p.at("int"):
			bits += bitsInt
			p.advance()
			continue
		case p.at("long"):
			longCount++
			if longCount > 2 {
				return nil, p.errorf("'long' specified more than twice")
			}
			bits += bitsLong
			p.advance()
			continue
		case p.at("signed"):
			bits += bitsSigned
			p.advance()
			continue
		case p.at("unsigned"):
			bits += bitsUnsigned
			p.advance()
			continue

		case p.tok.Kind == lexer.Ident && namedTagType == nil && bits == 0 && p.table.IsTypedefName(p.tok.Lit):
			ty, _ := p.table.FindTypedef(p.tok.Lit)
			namedTagType = ty
			p.advance()
			continue
		}
		break
	}

	if namedTagType != nil {
		spec.Type = namedTagType
		return spec, nil
	}

	ty, err := resolveSpecifierBits(bits)
	if err != nil {
		return nil, p.errorf("%s", err.Error())
	}
	spec.Type = ty
	return spec, nil
}

func resolveSpecifierBits(bits int) (*types.Type, error) {
	switch bits {
	case 0:
		return types.IntType, nil // bare declaration specifier defaults to int
	case bitsVoid:
		return types.VoidType, nil
	case bitsBool:
		return types.BoolType, nil
	case bitsChar, bitsSigned + bitsChar:
		return types.CharType, nil
	case bitsUnsigned + bitsChar:
		return types.UCharType, nil
	case bitsShort, bitsShort + bitsInt, bitsSigned + bitsShort, bitsSigned + bitsShort + bitsInt:
		return types.ShortType, nil
	case bitsUnsigned + bitsShort, bitsUnsigned + bitsShort + bitsInt:
		return types.UShortType, nil
	case bitsInt, bitsSigned, bitsSigned + bitsInt:
		return types.IntType, nil
	case bitsUnsigned, bitsUnsigned + bitsInt:
		return types.UIntType, nil
	case bitsLong, bitsLong + bitsInt, bitsLong + bitsLong, bitsLong + bitsLong + bitsInt,
		bitsSigned + bitsLong, bitsSigned + bitsLong + bitsInt, bitsSigned + bitsLong + bitsLong, bitsSigned + bitsLong + bitsLong + bitsInt:
		return types.LongType, nil
	case bitsUnsigned + bitsLong, bitsUnsigned + bitsLong + bitsInt,
		bitsUnsigned + bitsLong + bitsLong, bitsUnsigned + bitsLong + bitsLong + bitsInt:
		return types.ULongType, nil
	default:
		return nil, errInvalidSpecifier("invalid type specifier combination")
	}
}

type specifierError string

func (e specifierError) Error() string { return string(e) }
func errInvalidSpecifier(msg string) error { return specifierError(msg) }

// parseDeclarator reads zero or more `*` (each wrapping base in
// pointer-to), an identifier, and an optional `[ integer-literal ]`
// (array-of). Returns the declared type and name token; a function
// declarator's parameter list is handled by the caller (parseExternalDecl),
// which needs to see `(` before committing.
func (p *Parser) parseDeclarator(base *types.Type) (*types.Type, *lexer.Token, error) {
	ty := base
	for p.at("*") {
		p.advance()
		for p.at("const") || p.at("volatile") || p.at("restrict") {
			p.advance()
		}
		ty = types.PointerTo(ty)
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, nil, err
	}

	if p.at("[") {
		p.advance()
		n, err := p.foldConst()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect("]"); err != nil {
			return nil, nil, err
		}
		ty = types.ArrayOf(ty, int(n))
	}

	return ty, name, nil
}

// parseTypeName parses an abstract declarator: a declspec followed by
// any number of `*`, with no identifier. Used for casts, `sizeof(T)`,
// and the T argument of `__builtin_va_arg`.
func (p *Parser) parseTypeName() (*types.Type, error) {
	spec, err := p.parseDeclSpec()
	if err != nil {
		return nil, err
	}
	ty := spec.Type
	for p.at("*") {
		p.advance()
		ty = types.PointerTo(ty)
	}
	if spec.IsConst {
		ty = types.Copy(ty)
		ty.IsConst = true
	}
	return ty, nil
}

// parseStructUnionSpec parses the shared grammar of `struct` and
// `union`: named definition, forward declaration, or anonymous
// definition. A forward-declared tag already in the current scope is
// completed in place; redefining a complete tag is an error.
func (p *Parser) parseStructUnionSpec() (*types.Type, error) {
	kw := p.advance() // 'struct' or 'union'
	kind := types.KindStruct
	if kw.Lit == "union" {
		kind = types.KindUnion
	}

	var tagTok *lexer.Token
	if p.tok.Kind == lexer.Ident {
		tagTok = p.advance()
	}

	if !p.at("{") {
		// Forward reference or plain use of an existing tag.
		if tagTok == nil {
			return nil, p.errorf("expected a tag name or '{' after %q", kw.Lit)
		}
		if ty, ok := p.table.FindTag(tagTok.Lit); ok {
			return ty, nil
		}
		ty := types.NewIncompleteTag(kind, tagTok)
		if err := p.table.DeclareTag(tagTok.Lit, ty); err != nil {
			return nil, p.errorfAt(tagTok, "%s", err.Error())
		}
		return ty, nil
	}

	var ty *types.Type
	if tagTok != nil {
		if existing, ok := p.table.FindTagLocal(tagTok.Lit); ok {
			if !existing.IsIncomplete {
				return nil, p.errorfAt(tagTok, "redefinition of %q", tagTok.Lit)
			}
			ty = existing
		} else {
			ty = types.NewIncompleteTag(kind, tagTok)
			if err := p.table.DeclareTag(tagTok.Lit, ty); err != nil {
				return nil, p.errorfAt(tagTok, "%s", err.Error())
			}
		}
	} else {
		ty = types.NewIncompleteTag(kind, nil)
	}

	p.advance() // '{'
	var members []*types.Member
	for !p.at("}") {
		memberSpec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		for {
			memberType, nameTok, err := p.parseDeclarator(memberSpec.Type)
			if err != nil {
				return nil, err
			}
			members = append(members, &types.Member{Name: nameTok.Lit, Tok: nameTok, Type: memberType})
			if !p.at(",") {
				break
			}
			p.advance()
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
	}
	p.advance() // '}'

	if kind == types.KindStruct {
		types.CompleteStruct(ty, members)
	} else {
		types.CompleteUnion(ty, members)
	}
	return ty, nil
}

// parseEnumSpec parses an enum specifier: members declared as
// const-int idents in the enclosing scope. An optional `= const-expr`
// resets the running counter; otherwise the value is previous + 1,
// starting at 0.
func (p *Parser) parseEnumSpec() (*types.Type, error) {
	p.advance() // 'enum'

	var tagTok *lexer.Token
	if p.tok.Kind == lexer.Ident {
		tagTok = p.advance()
	}

	if !p.at("{") {
		if tagTok == nil {
			return nil, p.errorf("expected a tag name or '{' after 'enum'")
		}
		ty, ok := p.table.FindTag(tagTok.Lit)
		if !ok {
			return nil, p.errorfAt(tagTok, "undefined enum %q", tagTok.Lit)
		}
		return ty, nil
	}

	ty := types.NewIncompleteTag(types.KindEnum, tagTok)
	if tagTok != nil {
		if err := p.table.DeclareTag(tagTok.Lit, ty); err != nil {
			return nil, p.errorfAt(tagTok, "%s", err.Error())
		}
	}

	p.advance() // '{'
	constInt := types.Copy(types.IntType)
	constInt.IsConst = true
	var members []*types.Member
	var val int64
	for !p.at("}") {
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.at("=") {
			p.advance()
			v, err := p.foldConst()
			if err != nil {
				return nil, err
			}
			val = v
		}
		members = append(members, &types.Member{Name: nameTok.Lit, Tok: nameTok, Type: constInt, Val: val})
		if err := p.table.DeclareEnclosing(&scope.Ident{
			Kind: scope.KindEnumConst, Token: nameTok, Name: nameTok.Lit, Type: constInt, Val: val,
		}); err != nil {
			return nil, p.errorfAt(nameTok, "%s", err.Error())
		}
		val++
		if !p.at(",") {
			break
		}
		p.advance()
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}

	types.CompleteEnum(ty, members)
	return ty, nil
}
