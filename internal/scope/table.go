package scope

import (
	"fmt"

	"github.com/cwbudde/goalc/internal/types"
)

// Table is the scope & symbol manager: a stack of scopes rooted at a
// permanent global scope, plus the per-function label table and the
// process-wide string-literal pool.
type Table struct {
	Global  *Scope
	Current *Scope

	labels map[string]*Label // current function only; nil outside a function

	strings       []*Ident
	stringCounter int

	frameOffset int
	frameMax    int
}

// NewTable creates a symbol table with its permanent global scope
// already entered.
func NewTable() *Table {
	g := NewScope(ScopeGlobal, nil)
	return &Table{Global: g, Current: g}
}

// Enter pushes a new scope frame of kind, becoming Current.
func (t *Table) Enter(kind ScopeKind) {
	t.Current = NewScope(kind, t.Current)
}

// Leave pops the current scope frame. The global scope is never popped.
func (t *Table) Leave() {
	if t.Current.Parent == nil {
		return
	}
	t.Current = t.Current.Parent
}

// EnterFunction pushes a ScopeFunction frame and resets the per-function
// label table and local stack-frame counters.
func (t *Table) EnterFunction() {
	t.Enter(ScopeFunction)
	t.labels = make(map[string]*Label)
	t.frameOffset = 0
	t.frameMax = 0
}

// LeaveFunction pops the function's scope and returns the high-water
// mark of aggregate local byte size recorded since EnterFunction.
func (t *Table) LeaveFunction() int {
	size := t.frameMax
	t.Leave()
	t.labels = nil
	return size
}

// AllocLocal reserves size bytes in the current function's stack frame
// and returns the offset assigned to this local.
func (t *Table) AllocLocal(size int) int {
	offset := t.frameOffset
	t.frameOffset += size
	if t.frameOffset > t.frameMax {
		t.frameMax = t.frameOffset
	}
	return offset
}

// Declare binds ident in the current scope. Redeclaring a name already
// bound in this exact scope is an error; shadowing an outer scope is not.
func (t *Table) Declare(ident *Ident) error {
	return t.Current.declareLocal(ident)
}

// DeclareEnclosing binds ident in the nearest enclosing scope that is
// not the just-entered tag scope — used for enum constants, which must
// land in the scope enclosing the enum specifier, not inside a scope
// private to the enum body (enums do not open one here, so this is
// equivalent to Declare, kept as a distinct name for call-site clarity).
func (t *Table) DeclareEnclosing(ident *Ident) error {
	return t.Declare(ident)
}

// DeclareTag binds a struct/union/enum tag name in the current scope's
// tag namespace. Redefining a tag already present in this scope is an
// error; the caller decides (by first calling FindTagLocal) whether a
// forward declaration should be completed in place instead of rejected.
func (t *Table) DeclareTag(name string, ty *types.Type) error {
	return t.Current.declareTagLocal(name, ty)
}

// FindTagLocal looks up name in the current scope's tag namespace only,
// without walking outward. Used to decide whether `struct S { ... }`
// completes an existing forward declaration or introduces a new tag.
func (t *Table) FindTagLocal(name string) (*types.Type, bool) {
	return t.Current.findTagLocal(name)
}

// FindIdent walks outward from the current scope looking for name in the
// identifier namespace.
func (t *Table) FindIdent(name string) (*Ident, bool) {
	for s := t.Current; s != nil; s = s.Parent {
		if id, ok := s.findLocal(name); ok {
			return id, true
		}
	}
	return nil, false
}

// FindTag walks outward from the current scope looking for name in the
// tag namespace.
func (t *Table) FindTag(name string) (*types.Type, bool) {
	for s := t.Current; s != nil; s = s.Parent {
		if ty, ok := s.findTagLocal(name); ok {
			return ty, true
		}
	}
	return nil, false
}

// FindTypedef reports whether name is reachable as a typedef binding and,
// if so, returns the type it names. The parser uses this to decide
// whether a bare identifier starts a declaration.
func (t *Table) FindTypedef(name string) (*types.Type, bool) {
	id, ok := t.FindIdent(name)
	if !ok || id.Kind != KindTypedef {
		return nil, false
	}
	return id.Type, true
}

// IsTypedefName reports whether name is reachable as a typedef binding.
func (t *Table) IsTypedefName(name string) bool {
	_, ok := t.FindTypedef(name)
	return ok
}

// Label returns the function-scoped label record for name, creating an
// unlabeled (forward-referenced) entry if this is the first mention.
func (t *Table) Label(name string) *Label {
	if t.labels == nil {
		t.labels = make(map[string]*Label)
	}
	if l, ok := t.labels[name]; ok {
		return l
	}
	l := &Label{Name: name}
	t.labels[name] = l
	return l
}

// DefineLabel marks name's label as defined (`ident:`). A label may be
// goto'd before or after its definition, but defined only once.
func (t *Table) DefineLabel(name string) error {
	l := t.Label(name)
	if l.Labeled {
		return fmt.Errorf("redefinition of label %q", name)
	}
	l.Labeled = true
	return nil
}

// InternString registers a string literal's content as an auto-generated
// global of type array-of-char with length = byte count + 1, and returns
// its Ident so the caller (a VAR node) can reference it. Repeated calls
// with the same content each get a fresh global, matching how most C
// front ends treat string-literal pooling as a back-end optimization, not
// a front-end obligation.
func (t *Table) InternString(content string) *Ident {
	name := fmt.Sprintf(".LC%d", t.stringCounter)
	t.stringCounter++
	ident := &Ident{
		Kind:     KindGlobal,
		Name:     name,
		Type:     types.ArrayOf(types.CharType, len(content)+1),
		StrValue: content,
	}
	t.strings = append(t.strings, ident)
	_ = t.Global.declareLocal(ident) // name is compiler-generated, never collides
	return ident
}

// Strings returns every interned string literal's Ident, in registration
// order, for the back-end to emit as globals.
func (t *Table) Strings() []*Ident {
	return t.strings
}
