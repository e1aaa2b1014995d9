package scope

import (
	"testing"

	"github.com/cwbudde/goalc/internal/types"
)

func TestShadowingDoesNotMutateOuterBinding(t *testing.T) {
	tbl := NewTable()
	outer := &Ident{Kind: KindGlobal, Name: "a", Type: types.IntType}
	if err := tbl.Declare(outer); err != nil {
		t.Fatal(err)
	}

	tbl.Enter(ScopeBlock)
	inner := &Ident{Kind: KindLocal, Name: "a", Type: types.CharType}
	if err := tbl.Declare(inner); err != nil {
		t.Fatal(err)
	}
	found, _ := tbl.FindIdent("a")
	if found != inner {
		t.Fatal("inner scope should shadow outer binding")
	}
	tbl.Leave()

	found, _ = tbl.FindIdent("a")
	if found != outer {
		t.Fatal("outer binding must be visible again after leaving the inner scope")
	}
}

func TestRedeclarationInSameScopeIsError(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Declare(&Ident{Name: "x", Type: types.IntType}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Declare(&Ident{Name: "x", Type: types.IntType}); err == nil {
		t.Fatal("expected redeclaration error")
	}
}

func TestTagNamespaceIsSeparateFromIdents(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Declare(&Ident{Name: "Point", Type: types.IntType}); err != nil {
		t.Fatal(err)
	}
	tag := types.NewIncompleteTag(types.KindStruct, nil)
	if err := tbl.DeclareTag("Point", tag); err != nil {
		t.Fatal("tag namespace must not collide with identifier namespace:", err)
	}
}

func TestTypedefReachability(t *testing.T) {
	tbl := NewTable()
	if tbl.IsTypedefName("T") {
		t.Fatal("T should not be a typedef yet")
	}
	if err := tbl.Declare(&Ident{Kind: KindTypedef, Name: "T", Type: types.IntType}); err != nil {
		t.Fatal(err)
	}
	if !tbl.IsTypedefName("T") {
		t.Fatal("T should be recognized as a typedef after declaration")
	}
}

func TestInternStringLength(t *testing.T) {
	tbl := NewTable()
	id := tbl.InternString("hi")
	if id.Type.ArrayLen != 3 {
		t.Fatalf("want length 3 (2 bytes + NUL), got %d", id.Type.ArrayLen)
	}
	if len(tbl.Strings()) != 1 {
		t.Fatalf("want 1 interned string, got %d", len(tbl.Strings()))
	}
}

func TestStackSizeHighWaterMark(t *testing.T) {
	tbl := NewTable()
	tbl.EnterFunction()
	tbl.AllocLocal(4)
	tbl.AllocLocal(8)
	size := tbl.LeaveFunction()
	if size != 12 {
		t.Fatalf("want stack size 12, got %d", size)
	}
}
