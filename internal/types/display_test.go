package types

import (
	"testing"

	"lemonc/internal/source"
)

func TestDisplayBuiltinsAndCompounds(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strs := source.NewInterner()

	if got := in.Display(b.I32, strs); got != "i32" {
		t.Fatalf("got %q, want i32", got)
	}
	borrow := in.Intern(Type{Kind: KindBorrow, Elem: b.I32, Mutable: true})
	if got := in.Display(borrow, strs); got != "&mut i32" {
		t.Fatalf("got %q, want &mut i32", got)
	}

	name := strs.Intern("Point")
	structID := in.NewStruct(name, nil)
	if got := in.Display(structID, strs); got != "Point" {
		t.Fatalf("got %q, want Point", got)
	}

	fn := in.NewFn([]TypeID{b.I32, b.Bool}, b.Unit, nil)
	if got := in.Display(fn, strs); got != "fn(i32, bool): ()" {
		t.Fatalf("got %q, want fn(i32, bool): ()", got)
	}

	ext := in.NewExternFn([]TypeID{b.Str}, b.I32, true)
	if got := in.Display(ext, strs); got != "extern fn(str, ...): i32" {
		t.Fatalf("got %q, want extern fn(str, ...): i32", got)
	}

	if got := in.Display(TypeID(9999), strs); got != "<invalid>" {
		t.Fatalf("got %q, want <invalid>", got)
	}
}
