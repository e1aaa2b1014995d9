package scope

import (
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/types"
)

// Kind classifies what an Ident binds to.
type Kind int

const (
	KindLocal Kind = iota
	KindGlobal
	KindFunction
	KindTypedef
	KindEnumConst
)

// Ident is a binding in a Scope: a local/global variable, a function, a
// typedef name, or an enum constant. All four share one struct so every
// lookup returns the same handle and callers dispatch on Kind.
type Ident struct {
	Kind  Kind
	Token *lexer.Token // declaring identifier token
	Name  string
	Type  *types.Type

	Offset int   // stack offset, for KindLocal
	Val    int64 // constant value, for KindEnumConst

	StrValue string // raw content, for an interned string-literal global

	IsExtern    bool
	IsStatic    bool
	IsVarParams bool // variadic function

	// Function-only fields.
	Params    []*Ident
	FuncBody  any // *ast.Node; typed any to avoid an ast<->scope import cycle
	FuncScope *Scope
	StackSize int
	VaArea    *Ident // implicit variadic save-area local
}
