package parser

import (
	"testing"

	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/errors"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/cwbudde/goalc/internal/types"
)

func mustParse(t *testing.T, src string) *Result {
	t.Helper()
	file := &lexer.SourceFile{Path: "test.c", Content: src}
	result, err := ParseFile(file)
	if err != nil {
		t.Fatalf("ParseFile(%q) returned error: %v", src, err)
	}
	return result
}

func findFunc(t *testing.T, result *Result, name string) *scope.Ident {
	t.Helper()
	for _, fn := range result.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no function %q among %d parsed function(s)", name, len(result.Funcs))
	return nil
}

// returnExpr finds the single top-level return statement in a function
// body and reports its Lhs expression.
func returnExpr(t *testing.T, body *ast.Node) *ast.Node {
	t.Helper()
	for n := body.Body; n != nil; n = n.Next {
		if n.Kind == ast.Return {
			return n.Lhs
		}
	}
	t.Fatalf("no return statement found in function body")
	return nil
}

// int main(){ return 1+2*3; } folds to 7, shaped
// add(num 1, mul(num 2, num 3)).
func TestScenarioPrecedenceAndFolding(t *testing.T) {
	result := mustParse(t, `int main(){ return 1+2*3; }`)
	main := findFunc(t, result, "main")
	body, ok := main.FuncBody.(*ast.Node)
	if !ok {
		t.Fatalf("main.FuncBody is not *ast.Node: %T", main.FuncBody)
	}
	ret := returnExpr(t, body)

	if ret.Kind != ast.Add {
		t.Fatalf("expected top-level Add, got %v", ret.Kind)
	}
	if ret.Lhs.Kind != ast.Num || ret.Lhs.Val != 1 {
		t.Fatalf("expected left operand num 1, got kind=%v val=%d", ret.Lhs.Kind, ret.Lhs.Val)
	}
	if ret.Rhs.Kind != ast.Mul {
		t.Fatalf("expected right operand Mul, got %v", ret.Rhs.Kind)
	}
	if ret.Rhs.Lhs.Val != 2 || ret.Rhs.Rhs.Val != 3 {
		t.Fatalf("expected mul(2, 3), got mul(%d, %d)", ret.Rhs.Lhs.Val, ret.Rhs.Rhs.Val)
	}

	val, err := ast.FoldConstant(ret)
	if err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	if val != 7 {
		t.Fatalf("expected folded value 7, got %d", val)
	}
}

// struct S{ int a; char b; }; sizeof(s) == 5, offsets a=0, b=4.
func TestScenarioStructSizeofAndOffsets(t *testing.T) {
	result := mustParse(t, `struct S{ int a; char b; }; int main(){ struct S s; return sizeof(s); }`)
	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)

	val, err := ast.FoldConstant(ret)
	if err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	if val != 5 {
		t.Fatalf("expected sizeof(struct S) == 5, got %d", val)
	}

	structType, ok := result.Table.FindTag("S")
	if !ok {
		t.Fatalf("struct S not found in tag table")
	}
	memA := structType.FindMember("a")
	if memA == nil {
		t.Fatalf("member a not found")
	}
	memB := structType.FindMember("b")
	if memB == nil {
		t.Fatalf("member b not found")
	}
	if memA.Offset != 0 {
		t.Fatalf("expected offset(a) == 0, got %d", memA.Offset)
	}
	if memB.Offset != 4 {
		t.Fatalf("expected offset(b) == 4, got %d", memB.Offset)
	}
}

// typedef int T; T x = 3; int main(){ return x; } — x is a global int,
// resolved from main by lexical lookup through the typedef.
func TestScenarioTypedefAndGlobalLookup(t *testing.T) {
	result := mustParse(t, `typedef int T; T x = 3; int main(){ return x; }`)

	global, ok := result.Table.FindIdent("x")
	if !ok {
		t.Fatalf("global x not found")
	}
	if global.Kind != scope.KindGlobal {
		t.Fatalf("expected x to be a global, got kind %v", global.Kind)
	}
	if global.Type.Kind != types.KindInt {
		t.Fatalf("expected x to have type int, got %v", global.Type.Kind)
	}

	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)
	if ret.Kind != ast.Var || ret.Ident != global {
		t.Fatalf("expected main's return to reference the global x ident directly")
	}
}

// Shadowing: the inner a does not escape its block scope.
func TestScenarioScopeShadowing(t *testing.T) {
	result := mustParse(t, `int main(){ int a=1; { int a=2; } return a; }`)
	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)

	if ret.Kind != ast.Var {
		t.Fatalf("expected return of a variable reference, got %v", ret.Kind)
	}
	if ret.Ident.Name != "a" {
		t.Fatalf("expected ident named a, got %q", ret.Ident.Name)
	}

	var outerA *ast.Node
	for n := body.Body; n != nil; n = n.Next {
		if n.Kind == ast.Void && n.Lhs != nil && n.Lhs.Kind == ast.Assign {
			outerA = n.Lhs.Lhs
			break
		}
	}
	if outerA == nil {
		t.Fatalf("could not locate the outer declaration's initializing assignment")
	}
	if ret.Ident != outerA.Ident {
		t.Fatalf("return a resolved to the inner shadow, not the outer binding")
	}
}

// enum E{A,B=5,C}; return C; == 6, with A=0, B=5, C=6, each a const int
// ident.
func TestScenarioEnumConstants(t *testing.T) {
	result := mustParse(t, `enum E{A,B=5,C}; int main(){ return C; }`)

	wantVals := map[string]int64{"A": 0, "B": 5, "C": 6}
	for name, want := range wantVals {
		id, ok := result.Table.FindIdent(name)
		if !ok {
			t.Fatalf("enum constant %s not found", name)
		}
		if id.Kind != scope.KindEnumConst {
			t.Fatalf("expected %s to be an enum constant, got kind %v", name, id.Kind)
		}
		if id.Val != want {
			t.Fatalf("expected %s == %d, got %d", name, want, id.Val)
		}
		if id.Type == nil || id.Type.Kind != types.KindInt {
			t.Fatalf("expected %s to have type int, got %v", name, id.Type)
		}
	}

	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)
	val, err := ast.FoldConstant(ret)
	if err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	if val != 6 {
		t.Fatalf("expected return C to fold to 6, got %d", val)
	}
}

// The for-init declaration is scope-local to the loop, so the outer i is
// untouched and main returns 0, not 11.
func TestScenarioForInitScoping(t *testing.T) {
	result := mustParse(t, `int main(){ int i=0; for(int i=10; i<11; i++) {} return i; }`)
	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)

	if ret.Kind != ast.Var {
		t.Fatalf("expected return of a variable reference, got %v", ret.Kind)
	}

	var outerI *ast.Node
	for n := body.Body; n != nil; n = n.Next {
		if n.Kind == ast.Void && n.Lhs != nil && n.Lhs.Kind == ast.Assign {
			outerI = n.Lhs.Lhs
			break
		}
	}
	if outerI == nil {
		t.Fatalf("could not locate the outer i declaration's initializing assignment")
	}
	if ret.Ident != outerI.Ident {
		t.Fatalf("return i resolved to the for-loop's i, not the enclosing scope's i")
	}
	if ret.Ident.Offset != outerI.Ident.Offset {
		t.Fatalf("return i and the outer declaration disagree on stack offset")
	}
}

// Every pointer type has size 8 and is unsigned.
func TestPointerSizeAndSignedness(t *testing.T) {
	result := mustParse(t, `int main(){ int *p; return 0; }`)
	main := findFunc(t, result, "main")
	funcScope := main.FuncScope
	if funcScope == nil {
		t.Fatalf("main has no recorded function scope")
	}
	var found *scope.Ident
	for _, id := range funcScope.Idents() {
		if id.Name == "p" {
			found = id
		}
	}
	if found == nil {
		t.Fatalf("local p not found in main's scope")
	}
	if found.Type.Kind != types.KindPointer {
		t.Fatalf("expected p to be a pointer, got %v", found.Type.Kind)
	}
	if found.Type.Size != 8 {
		t.Fatalf("expected pointer size 8, got %d", found.Type.Size)
	}
	if !found.Type.IsUnsigned {
		t.Fatalf("expected pointer type to be unsigned")
	}
}

// a[i] lowers to *(a+i): a Deref whose operand is an Add.
func TestArrayIndexLowersToDerefOfAdd(t *testing.T) {
	result := mustParse(t, `int main(){ int a[3]; return a[1]; }`)
	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)

	if ret.Kind != ast.Deref {
		t.Fatalf("expected a[i] to lower to Deref, got %v", ret.Kind)
	}
	if ret.Lhs.Kind != ast.Add {
		t.Fatalf("expected Deref's operand to be Add, got %v", ret.Lhs.Kind)
	}
}

// Union member offsets are all 0, and the union's
// size is the size of its largest member.
func TestUnionMemberOffsetsAndSize(t *testing.T) {
	result := mustParse(t, `union U{ int a; char b; }; int main(){ union U u; return sizeof(u); }`)
	main := findFunc(t, result, "main")
	body := main.FuncBody.(*ast.Node)
	ret := returnExpr(t, body)

	val, err := ast.FoldConstant(ret)
	if err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	if val != 4 {
		t.Fatalf("expected sizeof(union U) == 4 (max member size), got %d", val)
	}

	unionType, ok := result.Table.FindTag("U")
	if !ok {
		t.Fatalf("union U not found in tag table")
	}
	memA := unionType.FindMember("a")
	memB := unionType.FindMember("b")
	if memA == nil || memB == nil {
		t.Fatalf("union member lookup failed: a=%v b=%v", memA, memB)
	}
	if memA.Offset != 0 || memB.Offset != 0 {
		t.Fatalf("expected every union member offset to be 0, got a=%d b=%d", memA.Offset, memB.Offset)
	}
}

func TestFatalErrorCarriesPosition(t *testing.T) {
	file := &lexer.SourceFile{Path: "test.c", Content: `int main(){ return ; }`}
	_, err := ParseFile(file)
	if err == nil {
		t.Fatalf("expected a parse error for a bare return without a value in a non-void function")
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		t.Fatalf("expected *errors.CompilerError, got %T", err)
	}
	if ce.Pos.Line != 1 || ce.Pos.Column != 13 {
		t.Fatalf("expected error at 1:13 (the 'return' token), got %d:%d", ce.Pos.Line, ce.Pos.Column)
	}
}
