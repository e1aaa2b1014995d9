package ast

func (k Kind) String() string {
	switch k {
	case Num:
		return "Num"
	case Var:
		return "Var"
	case Call:
		return "Call"
	case Member:
		return "Member"
	case Deref:
		return "Deref"
	case Addr:
		return "Addr"
	case Not:
		return "Not"
	case Cast:
		return "Cast"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	case Mod:
		return "Mod"
	case BitAnd:
		return "BitAnd"
	case BitOr:
		return "BitOr"
	case BitXor:
		return "BitXor"
	case Shl:
		return "Shl"
	case Shr:
		return "Shr"
	case Eq:
		return "Eq"
	case Ne:
		return "Ne"
	case Lt:
		return "Lt"
	case Le:
		return "Le"
	case LogAnd:
		return "LogAnd"
	case LogOr:
		return "LogOr"
	case Assign:
		return "Assign"
	case Comma:
		return "Comma"
	case Cond:
		return "Cond"
	case Return:
		return "Return"
	case If:
		return "If"
	case IfElse:
		return "IfElse"
	case While:
		return "While"
	case DoWhile:
		return "DoWhile"
	case For:
		return "For"
	case Switch:
		return "Switch"
	case Case:
		return "Case"
	case Default:
		return "Default"
	case Block:
		return "Block"
	case Break:
		return "Break"
	case Continue:
		return "Continue"
	case Goto:
		return "Goto"
	case Label:
		return "Label"
	case Void:
		return "Void"
	case NoOp:
		return "NoOp"
	default:
		return "Unknown"
	}
}

// Dump renders n and its subtree as a JSON-friendly tree, used both by
// the `cc dump` CLI command (the artifact a back end would consume) and
// by snapshot tests asserting structural equality across a
// tokenize/parse round trip.
func Dump(n *Node) map[string]any {
	if n == nil {
		return nil
	}
	m := map[string]any{"kind": n.Kind.String()}
	if n.Type != nil {
		m["type"] = n.Type.String()
	}

	switch n.Kind {
	case Num:
		m["val"] = n.Val
	case Var:
		if n.Ident != nil {
			m["name"] = n.Ident.Name
		}
	case Label, Goto:
		m["label"] = n.Label
	case Member:
		m["field"] = n.Field
	}

	add := func(key string, c *Node) {
		if c != nil {
			m[key] = Dump(c)
		}
	}
	add("lhs", n.Lhs)
	add("rhs", n.Rhs)
	add("cond", n.Cond)
	add("then", n.Then)
	add("else", n.Else)
	add("body", n.Body)
	add("init", n.Init)
	add("incr", n.Incr)
	add("next", n.Next)
	add("nextCase", n.NextCase)
	add("defaultLabel", n.DefaultLabel)

	if len(n.Params) > 0 {
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = Dump(p)
		}
		m["params"] = params
	}

	return m
}
