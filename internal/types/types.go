// Package types constructs and compares the type descriptors produced by
// declaration parsing: primitives, pointers, arrays, and the aggregate
// kinds (struct, union, enum, function).
package types

import (
	"strconv"
	"strings"

	"github.com/cwbudde/goalc/internal/lexer"
)

// Kind is the shape of a Type.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Member is one element of a struct/union/enum's member list. Offset is
// meaningful for struct/union members; Val is meaningful for enum
// constants. A lighter value than a full scope.Ident on purpose: types
// must not import scope (scope.Ident already holds a *Type), so a member
// carries only the name/type/offset a Type needs to describe its own
// layout.
type Member struct {
	Name   string
	Tok    *lexer.Token
	Type   *Type
	Offset int
	Val    int64
}

// Type is an immutable-after-completion type descriptor. A
// forward-declared struct/union/enum tag is represented by a single Type
// value with IsIncomplete set; completing the tag mutates that same
// value in place (via CompleteStruct/CompleteUnion/CompleteEnum) so every
// prior reference to it observes the completion.
type Type struct {
	Kind         Kind
	Name         string // primitive spelling, e.g. "int", "unsigned char"
	Size         int    // 0 while incomplete
	IsUnsigned   bool
	IsConst      bool
	Base         *Type // pointee (Pointer) or element type (Array)
	ArrayLen     int
	Members      []*Member
	TagName      *lexer.Token
	IsIncomplete bool

	// Function-only fields.
	Params []*Type
	Return *Type
}

// Primitive singletons, constructed once. Applying a qualifier must copy
// one of these first (see Copy) so the shared original is never mutated.
var (
	VoidType   = &Type{Kind: KindVoid, Name: "void"}
	BoolType   = &Type{Kind: KindBool, Name: "bool", Size: 1, IsUnsigned: true}
	CharType   = &Type{Kind: KindInt, Name: "char", Size: 1}
	UCharType  = &Type{Kind: KindInt, Name: "unsigned char", Size: 1, IsUnsigned: true}
	ShortType  = &Type{Kind: KindInt, Name: "short", Size: 2}
	UShortType = &Type{Kind: KindInt, Name: "unsigned short", Size: 2, IsUnsigned: true}
	IntType    = &Type{Kind: KindInt, Name: "int", Size: 4}
	UIntType   = &Type{Kind: KindInt, Name: "unsigned int", Size: 4, IsUnsigned: true}
	LongType   = &Type{Kind: KindInt, Name: "long", Size: 8}
	ULongType  = &Type{Kind: KindInt, Name: "unsigned long", Size: 8, IsUnsigned: true}
)

// PointerTo builds a pointer-to-base type. Pointers are always 8 bytes
// and unsigned.
func PointerTo(base *Type) *Type {
	return &Type{Kind: KindPointer, Name: "pointer", Size: 8, IsUnsigned: true, Base: base}
}

// ArrayOf builds an array of n elements of base. The array's own size is
// the element size times the length; base's size must already be known.
func ArrayOf(base *Type, n int) *Type {
	return &Type{Kind: KindArray, Name: "array", Base: base, ArrayLen: n, Size: base.Size * n}
}

// Copy shallow-clones t. Used to apply a qualifier (e.g. const) to a
// shared primitive or named type without disturbing the original.
func Copy(t *Type) *Type {
	cp := *t
	return &cp
}

// NewIncompleteTag creates a forward-declared struct/union/enum Type.
// The returned value is inserted into the scope's tag table before its
// members are parsed, so a member that points back to the same tag
// (a self-referential struct pointer) resolves against this same record.
func NewIncompleteTag(kind Kind, tagName *lexer.Token) *Type {
	return &Type{Kind: kind, TagName: tagName, IsIncomplete: true}
}

// CompleteStruct assigns member offsets in declaration order with no
// padding and mutates t in place.
func CompleteStruct(t *Type, members []*Member) {
	offset := 0
	for _, m := range members {
		m.Offset = offset
		offset += m.Type.Size
	}
	t.Members = members
	t.Size = offset
	t.IsIncomplete = false
}

// CompleteUnion assigns every member offset 0 and sets t's size to the
// largest member, mutating t in place.
func CompleteUnion(t *Type, members []*Member) {
	max := 0
	for _, m := range members {
		m.Offset = 0
		if m.Type.Size > max {
			max = m.Type.Size
		}
	}
	t.Members = members
	t.Size = max
	t.IsIncomplete = false
}

// CompleteEnum sets t's members (each a const int) and gives t int's
// size and representation.
func CompleteEnum(t *Type, members []*Member) {
	t.Members = members
	t.Size = IntType.Size
	t.IsIncomplete = false
}

// FindMember returns the member named name, or nil if t has none by
// that name. t must be a completed struct or union.
func (t *Type) FindMember(name string) *Member {
	for _, m := range t.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// IsInteger reports whether t behaves as an integer for arithmetic and
// comparisons (bool included, the way a 1-byte unsigned integer would).
func (t *Type) IsInteger() bool {
	return t.Kind == KindInt || t.Kind == KindBool
}

// IsPointerLike reports whether t supports pointer arithmetic (pointer
// or array-decayed-to-pointer).
func (t *Type) IsPointerLike() bool {
	return t.Kind == KindPointer || t.Kind == KindArray
}

// Underlying strips qualifiers (currently just IsConst) for assignability
// and arithmetic checks, without mutating t.
func (t *Type) Underlying() *Type {
	if !t.IsConst {
		return t
	}
	cp := Copy(t)
	cp.IsConst = false
	return cp
}

// Equal compares kind, size, unsignedness, and array length. Structural
// member comparison for aggregates is not implemented: two distinct
// struct tags are never Equal even if their members happen to match.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Size != b.Size || a.IsUnsigned != b.IsUnsigned {
		return false
	}
	if a.Kind == KindArray && a.ArrayLen != b.ArrayLen {
		return false
	}
	if a.Kind == KindPointer || a.Kind == KindArray {
		return Equal(a.Base, b.Base)
	}
	if a.Kind == KindStruct || a.Kind == KindUnion || a.Kind == KindEnum {
		return a == b
	}
	return true
}

// String renders a debug form of t, e.g. "pointer to int" or
// "array[3] of struct Point".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPointer:
		return "pointer to " + t.Base.String()
	case KindArray:
		var sb strings.Builder
		sb.WriteString("array[")
		sb.WriteString(strconv.Itoa(t.ArrayLen))
		sb.WriteString("] of ")
		sb.WriteString(t.Base.String())
		return sb.String()
	case KindStruct, KindUnion, KindEnum:
		name := "<anonymous>"
		if t.TagName != nil {
			name = t.TagName.Lit
		}
		return t.Kind.String() + " " + name
	case KindFunction:
		var sb strings.Builder
		sb.WriteString("function(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(") -> ")
		sb.WriteString(t.Return.String())
		return sb.String()
	default:
		return t.Name
	}
}
