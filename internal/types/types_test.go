package types

import (
	"testing"

	"lemonc/internal/source"
)

var testStrings = source.NewInterner()

func internName(t *testing.T, s string) source.StringID {
	t.Helper()
	return testStrings.Intern(s)
}

func TestBuiltinsPreinterned(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.I32 == NoTypeID || b.Bool == NoTypeID || b.Unit == NoTypeID {
		t.Fatalf("expected builtins to be interned, got %+v", b)
	}
	if in.Intern(Type{Kind: KindI32}) != b.I32 {
		t.Fatalf("expected re-interning I32 to return the builtin id")
	}
}

func TestBorrowDedupsStructurally(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a1 := in.Intern(Type{Kind: KindBorrow, Elem: b.I32, Mutable: false})
	a2 := in.Intern(Type{Kind: KindBorrow, Elem: b.I32, Mutable: false})
	a3 := in.Intern(Type{Kind: KindBorrow, Elem: b.I32, Mutable: true})
	if a1 != a2 {
		t.Fatalf("expected identical borrow descriptors to dedup, got %d and %d", a1, a2)
	}
	if a1 == a3 {
		t.Fatalf("expected mutable and immutable borrows to differ")
	}
}

func TestStructNeverDedups(t *testing.T) {
	in := NewInterner()
	name := internName(t, "Point")
	s1 := in.NewStruct(name, nil)
	s2 := in.NewStruct(name, nil)
	if s1 == s2 {
		t.Fatalf("expected distinct struct declaration sites to get distinct TypeIDs")
	}
}

func TestFnNeverDedups(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.NewFn([]TypeID{b.I32}, b.Bool, nil)
	f2 := in.NewFn([]TypeID{b.I32}, b.Bool, nil)
	if f1 == f2 {
		t.Fatalf("expected distinct fn declarations to get distinct TypeIDs")
	}
}

func TestModuleDedupsByModID(t *testing.T) {
	in := NewInterner()
	m1 := in.NewModule(7)
	m2 := in.NewModule(7)
	m3 := in.NewModule(8)
	if m1 != m2 {
		t.Fatalf("expected NewModule to dedup by mod id, got %d and %d", m1, m2)
	}
	if m1 == m3 {
		t.Fatalf("expected different mod ids to produce different TypeIDs")
	}
}

func TestModuleCache(t *testing.T) {
	in := NewInterner()
	id := in.NewModule(3)
	in.AddModuleCache(3, id)
	got, ok := in.GetModuleCache(3)
	if !ok || got != id {
		t.Fatalf("expected module cache hit for mod id 3, got %d ok=%v", got, ok)
	}
	if _, ok := in.GetModuleCache(4); ok {
		t.Fatalf("expected cache miss for unregistered mod id")
	}
}

func TestTypeDefinitionTable(t *testing.T) {
	in := NewInterner()
	id := in.NewStruct(internName(t, "Point"), nil)
	in.AddTypeDefinition("Point", id)
	got, ok := in.LookupTypeDefinition("Point")
	if !ok || got != id {
		t.Fatalf("expected Point to resolve to %d, got %d ok=%v", id, got, ok)
	}
	if _, ok := in.LookupTypeDefinition("Missing"); ok {
		t.Fatalf("expected lookup miss for undeclared name")
	}
}
