package types

import "testing"

func TestPointerSizeAndUnsigned(t *testing.T) {
	p := PointerTo(IntType)
	if p.Size != 8 || !p.IsUnsigned {
		t.Fatalf("pointer type must be size 8 unsigned, got %+v", p)
	}
}

func TestStructOffsetsNoPadding(t *testing.T) {
	st := NewIncompleteTag(KindStruct, nil)
	members := []*Member{
		{Name: "a", Type: IntType},
		{Name: "b", Type: CharType},
	}
	CompleteStruct(st, members)
	if members[0].Offset != 0 {
		t.Fatalf("want a at offset 0, got %d", members[0].Offset)
	}
	if members[1].Offset != IntType.Size {
		t.Fatalf("want b at offset %d, got %d", IntType.Size, members[1].Offset)
	}
	if st.Size != IntType.Size+CharType.Size {
		t.Fatalf("want size %d, got %d", IntType.Size+CharType.Size, st.Size)
	}
}

func TestUnionOffsetsAllZero(t *testing.T) {
	un := NewIncompleteTag(KindUnion, nil)
	members := []*Member{
		{Name: "a", Type: IntType},
		{Name: "b", Type: LongType},
	}
	CompleteUnion(un, members)
	for _, m := range members {
		if m.Offset != 0 {
			t.Fatalf("union member %s has nonzero offset %d", m.Name, m.Offset)
		}
	}
	if un.Size != LongType.Size {
		t.Fatalf("want union size %d, got %d", LongType.Size, un.Size)
	}
}

func TestCompletingTagMutatesInPlace(t *testing.T) {
	tag := NewIncompleteTag(KindStruct, nil)
	ptrToTag := PointerTo(tag) // self-referential pointer taken before completion
	if !tag.IsIncomplete {
		t.Fatal("expected tag to start incomplete")
	}
	CompleteStruct(tag, []*Member{{Name: "next", Type: ptrToTag}})
	if tag.IsIncomplete {
		t.Fatal("expected tag to be complete after CompleteStruct")
	}
	if ptrToTag.Base.IsIncomplete {
		t.Fatal("pointer taken before completion must observe the completion in place")
	}
}

func TestEqualComparesShape(t *testing.T) {
	if !Equal(IntType, IntType) {
		t.Fatal("IntType should equal itself")
	}
	if Equal(IntType, CharType) {
		t.Fatal("int and char differ in size")
	}
	if !Equal(ArrayOf(IntType, 3), ArrayOf(IntType, 3)) {
		t.Fatal("array[3] of int should equal array[3] of int")
	}
	if Equal(ArrayOf(IntType, 3), ArrayOf(IntType, 4)) {
		t.Fatal("arrays of different length should not be equal")
	}
}

func TestCopyDoesNotMutateShared(t *testing.T) {
	qualified := Copy(IntType)
	qualified.IsConst = true
	if IntType.IsConst {
		t.Fatal("copying to apply a qualifier must not mutate the shared primitive")
	}
}
