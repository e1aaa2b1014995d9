// Package ast defines the single tagged-variant AST Node this front end
// builds, plus the post-order type-inference and constant-folding passes
// that run over it.
package ast

import (
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

// Kind tags what a Node represents. One Go struct serves every kind
// (the same dynamic-classification approach used for identifiers,
// applied to expressions and statements alike): callers dispatch on
// Kind and read only the fields that kind defines.
type Kind int

const (
	Num        Kind = iota // integer literal; Val holds the value
	Var                     // variable/function reference; Ident holds the binding
	Call                    // function call; Lhs is the callee, Params the arguments
	Member                  // a.b or (after lowering) (*p).b; Lhs is the object, Field names the member
	Deref                   // *p; Lhs is the pointer expression
	Addr                    // &x; Lhs is the operand
	Not                     // !x; Lhs is the operand
	Cast                    // (T)x; Lhs is the operand, Type is the target type
	Add
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Eq
	Ne
	Lt
	Le
	LogAnd
	LogOr
	Assign                // Lhs = Rhs
	Comma                 // Lhs, Rhs
	Cond                  // Cond ? Then : Else
	Return                // return Lhs (Lhs nil for `return;` in a void function)
	If                    // if (Cond) Then
	IfElse                // if (Cond) Then else Else
	While                 // while (Cond) Then
	DoWhile               // do Then while (Cond)
	For                   // for (Init; Cond; Incr) Then
	Switch                // switch (Cond) Then; NextCase heads the case list, DefaultLabel the default
	Case                  // case Val: Body; NextCase chains to the next case
	Default               // default: Body
	Block                 // { ... }; Body heads the statement list, each chained via Next
	Break
	Continue
	Goto  // goto Label
	Label // Label: Lhs (the labeled statement)
	Void  // an expression evaluated and discarded (expression statement)
	NoOp  // empty statement `;`
)

// Node is the tagged-variant AST node. Fields not used by a given Kind
// are left zero; see the Kind constant doc comments above for which
// fields each kind reads.
type Node struct {
	Kind Kind
	Tok  *lexer.Token // source position, for diagnostics

	Lhs, Rhs         *Node
	Cond, Then, Else *Node
	Body             *Node
	Init, Incr       *Node
	Params           []*Node // call arguments
	Next             *Node   // next statement in a Block (case chains use NextCase)

	Ident *scope.Ident
	Val   int64
	Type  *types.Type
	Label string

	Field        string        // member name, for Kind == Member
	ResolvedMemb *types.Member // member looked up by name, set once typed

	NextCase     *Node // Switch: head of the case-node chain; Case: next case
	DefaultLabel *Node // Switch: its default node, if any
}

func (n *Node) Pos() lexer.Position {
	if n == nil || n.Tok == nil {
		return lexer.Position{}
	}
	return n.Tok.Pos
}

func newNode(kind Kind, tok *lexer.Token) *Node {
	return &Node{Kind: kind, Tok: tok}
}

// NewNum builds an integer-literal node.
func NewNum(val int64, tok *lexer.Token) *Node {
	n := newNode(Num, tok)
	n.Val = val
	n.Type = types.IntType
	return n
}

// NewVar builds a reference to an already-resolved ident.
func NewVar(ident *scope.Ident, tok *lexer.Token) *Node {
	n := newNode(Var, tok)
	n.Ident = ident
	return n
}

// NewBinary builds a binary-operator node of the given kind.
func NewBinary(kind Kind, lhs, rhs *Node, tok *lexer.Token) *Node {
	n := newNode(kind, tok)
	n.Lhs, n.Rhs = lhs, rhs
	return n
}

// NewUnary builds a single-operand node (Deref, Addr, Not, Return,
// Label's inner statement wrapper, etc.) out of lhs.
func NewUnary(kind Kind, lhs *Node, tok *lexer.Token) *Node {
	n := newNode(kind, tok)
	n.Lhs = lhs
	return n
}

// NewCast builds a cast of lhs to target.
func NewCast(lhs *Node, target *types.Type, tok *lexer.Token) *Node {
	n := newNode(Cast, tok)
	n.Lhs = lhs
	n.Type = target
	return n
}

// NewBlock builds a Block node whose statement list head is body (each
// statement linked to the next via its Next field).
func NewBlock(body *Node, tok *lexer.Token) *Node {
	n := newNode(Block, tok)
	n.Body = body
	return n
}
