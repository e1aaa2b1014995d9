package ast

import (
	"testing"

	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

func TestAddTypeBinaryTakesLhsType(t *testing.T) {
	lhs := NewNum(1, nil)
	lhs.Type = nil
	lhs.Type = types.LongType
	rhs := NewNum(2, nil)
	n := NewBinary(Add, lhs, rhs, nil)
	if err := AddType(n); err != nil {
		t.Fatal(err)
	}
	if n.Type != types.LongType {
		t.Fatalf("want long, got %v", n.Type)
	}
}

func TestAddTypeRejectsVoidOperand(t *testing.T) {
	lhs := NewNum(0, nil)
	lhs.Type = types.VoidType
	n := NewBinary(Add, lhs, NewNum(1, nil), nil)
	if err := AddType(n); err == nil {
		t.Fatal("expected error for void operand")
	}
}

func TestAddTypeDoesNotRevisitAlreadyTypedNode(t *testing.T) {
	n := NewNum(5, nil)
	n.Type = types.CharType // deliberately "wrong" to prove AddType leaves it alone
	if err := AddType(n); err != nil {
		t.Fatal(err)
	}
	if n.Type != types.CharType {
		t.Fatalf("AddType must not overwrite an already-typed node, got %v", n.Type)
	}
}

func TestAddTypeMemberLooksUpField(t *testing.T) {
	st := types.NewIncompleteTag(types.KindStruct, nil)
	types.CompleteStruct(st, []*types.Member{
		{Name: "x", Type: types.IntType},
		{Name: "y", Type: types.IntType},
	})
	obj := NewVar(&scope.Ident{Kind: scope.KindLocal, Name: "p", Type: st}, nil)
	n := &Node{Kind: Member, Lhs: obj, Field: "y"}
	if err := AddType(n); err != nil {
		t.Fatal(err)
	}
	if n.Type != types.IntType {
		t.Fatalf("want int, got %v", n.Type)
	}
	if n.ResolvedMemb == nil || n.ResolvedMemb.Name != "y" {
		t.Fatal("expected ResolvedMemb to point at field y")
	}
}

func TestAddTypeUnknownMemberIsError(t *testing.T) {
	st := types.NewIncompleteTag(types.KindStruct, nil)
	types.CompleteStruct(st, []*types.Member{{Name: "x", Type: types.IntType}})
	obj := NewVar(&scope.Ident{Name: "p", Type: st}, nil)
	n := &Node{Kind: Member, Lhs: obj, Field: "z"}
	if err := AddType(n); err == nil {
		t.Fatal("expected error for unknown member")
	}
}

func TestFoldConstantArithmeticAndPrecedenceOfFolding(t *testing.T) {
	// 1 + 2 * 3
	mul := NewBinary(Mul, NewNum(2, nil), NewNum(3, nil), nil)
	add := NewBinary(Add, NewNum(1, nil), mul, nil)
	v, err := FoldConstant(add)
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Fatalf("want 7, got %d", v)
	}
}

func TestFoldConstantDivisionByZeroIsError(t *testing.T) {
	n := NewBinary(Div, NewNum(1, nil), NewNum(0, nil), nil)
	if _, err := FoldConstant(n); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestFoldConstantConditional(t *testing.T) {
	n := &Node{Kind: Cond, Cond: NewNum(0, nil), Then: NewNum(11, nil), Else: NewNum(22, nil)}
	v, err := FoldConstant(n)
	if err != nil {
		t.Fatal(err)
	}
	if v != 22 {
		t.Fatalf("want 22 (false branch), got %d", v)
	}
}

func TestFoldConstantRejectsNonConstantSubtree(t *testing.T) {
	ident := NewVar(&scope.Ident{Name: "x", Type: types.IntType}, nil)
	n := NewBinary(Add, ident, NewNum(1, nil), nil)
	if _, err := FoldConstant(n); err == nil {
		t.Fatal("expected error: variable reference is not a constant expression")
	}
}

func TestDumpRendersKindAndChildren(t *testing.T) {
	add := NewBinary(Add, NewNum(1, nil), NewNum(2, nil), &lexer.Token{Pos: lexer.Position{Line: 1, Column: 1}})
	if err := AddType(add); err != nil {
		t.Fatal(err)
	}
	m := Dump(add)
	if m["kind"] != "Add" {
		t.Fatalf("want kind Add, got %v", m["kind"])
	}
	lhs, ok := m["lhs"].(map[string]any)
	if !ok {
		t.Fatal("expected lhs to be a dumped node")
	}
	if lhs["val"] != int64(1) {
		t.Fatalf("want lhs.val == 1, got %v", lhs["val"])
	}
}

func TestDumpNilIsNil(t *testing.T) {
	if Dump(nil) != nil {
		t.Fatal("Dump(nil) must be nil")
	}
}
