package ast

import (
	"fmt"

	"github.com/cwbudde/goalc/internal/types"
)

// AddType performs post-order type inference over the subtree rooted at
// n. If n already carries a Type, AddType returns immediately without
// revisiting it or its children — callers that have already typed a
// subtree can call AddType again on an ancestor cheaply.
func AddType(n *Node) error {
	if n == nil || n.Type != nil {
		return nil
	}

	for _, child := range []*Node{n.Lhs, n.Rhs, n.Cond, n.Then, n.Else, n.Body, n.Init, n.Incr, n.Next} {
		if err := AddType(child); err != nil {
			return err
		}
	}
	for _, p := range n.Params {
		if err := AddType(p); err != nil {
			return err
		}
	}

	switch n.Kind {
	case Num, Eq, Ne, Lt, Le, LogAnd, LogOr:
		n.Type = types.IntType

	case Add, Sub, Mul, Div, Mod, BitAnd, BitOr, BitXor, Shl, Shr:
		if err := rejectVoidOperand(n); err != nil {
			return err
		}
		n.Type = n.Lhs.Type

	case Assign:
		if err := rejectVoidOperand(n); err != nil {
			return err
		}
		if n.Lhs.Type.IsConst {
			return fmt.Errorf("%s: assignment to const-qualified value", posString(n))
		}
		n.Type = n.Lhs.Type

	case Addr:
		n.Type = types.PointerTo(n.Lhs.Type)

	case Deref:
		if n.Lhs.Type.IsPointerLike() {
			n.Type = n.Lhs.Type.Base
		} else {
			n.Type = types.IntType
		}

	case Not:
		n.Type = types.IntType

	case Var:
		n.Type = n.Ident.Type

	case Call:
		fnType := n.Lhs.Ident.Type
		if fnType == nil || fnType.Kind != types.KindFunction {
			return fmt.Errorf("%s: call to a non-function", posString(n))
		}
		n.Type = fnType.Return

	case Member:
		objType := n.Lhs.Type
		if objType.Kind != types.KindStruct && objType.Kind != types.KindUnion {
			return fmt.Errorf("%s: %q is not a member of a non-aggregate value", posString(n), n.Field)
		}
		m := objType.FindMember(n.Field)
		if m == nil {
			return fmt.Errorf("%s: no member named %q", posString(n), n.Field)
		}
		n.ResolvedMemb = m
		n.Type = m.Type

	case Comma:
		n.Type = n.Rhs.Type

	case Cond:
		if n.Cond.Type.Kind == types.KindVoid {
			return fmt.Errorf("%s: void value not usable as a condition", posString(n))
		}
		n.Type = n.Then.Type

	case Cast:
		// Type already set by the parser at cast-construction time.

	default:
		// Statement kinds (If, IfElse, While, DoWhile, For, Switch, Case,
		// Default, Block, Break, Continue, Goto, Label, Return, Void,
		// NoOp) carry no type.
	}

	return nil
}

func rejectVoidOperand(n *Node) error {
	if n.Lhs != nil && n.Lhs.Type != nil && n.Lhs.Type.Kind == types.KindVoid {
		return fmt.Errorf("%s: void value not usable in an operand position", posString(n))
	}
	if n.Rhs != nil && n.Rhs.Type != nil && n.Rhs.Type.Kind == types.KindVoid {
		return fmt.Errorf("%s: void value not usable in an operand position", posString(n))
	}
	return nil
}

func posString(n *Node) string {
	p := n.Pos()
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
