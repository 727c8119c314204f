package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lemonc/internal/source"
)

func TestStructFieldsAndMethods(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fieldName := internName(t, "x")
	methodName := internName(t, "len")
	structName := internName(t, "Vec")

	id := in.NewStruct(structName, []StructField{{Name: fieldName, Type: b.I32}})
	fn := in.NewFn([]TypeID{id}, b.I32, nil)
	in.AddMethod(id, methodName, fn)
	in.MarkImplemented(id)

	if got, ok := in.Field(id, fieldName); !ok || got != b.I32 {
		t.Fatalf("expected field x to resolve to I32, got %d ok=%v", got, ok)
	}
	if got, ok := in.Method(id, methodName); !ok || got != fn {
		t.Fatalf("expected method len to resolve to %d, got %d ok=%v", fn, got, ok)
	}
	info, ok := in.Struct(id)
	if !ok {
		t.Fatalf("expected struct %d to be known", id)
	}
	want := StructInfo{
		Name:        structName,
		Fields:      []StructField{{Name: fieldName, Type: b.I32}},
		Methods:     map[source.StringID]TypeID{methodName: fn},
		Associated:  map[source.StringID]TypeID{},
		Implemented: true,
	}
	if diff := cmp.Diff(want, *info); diff != "" {
		t.Fatalf("struct info mismatch (-want +got):\n%s", diff)
	}
	if _, ok := in.Field(id, internName(t, "missing")); ok {
		t.Fatalf("expected lookup miss for undeclared field")
	}
}

func TestFnAndExternFnInfo(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fn := in.NewFn([]TypeID{b.I32, b.Bool}, b.Unit, nil)
	info, ok := in.Fn(fn)
	if !ok {
		t.Fatalf("expected fn %d to be known", fn)
	}
	wantFn := FnInfo{Params: []TypeID{b.I32, b.Bool}, Ret: b.Unit, Generics: nil}
	if diff := cmp.Diff(wantFn, info); diff != "" {
		t.Fatalf("fn info mismatch (-want +got):\n%s", diff)
	}

	ext := in.NewExternFn([]TypeID{b.Str}, b.I32, true)
	extInfo, ok := in.ExternFn(ext)
	if !ok {
		t.Fatalf("expected extern fn %d to be known", ext)
	}
	wantExt := ExternFnInfo{Params: []TypeID{b.Str}, Ret: b.I32, Variadic: true}
	if diff := cmp.Diff(wantExt, extInfo); diff != "" {
		t.Fatalf("extern fn info mismatch (-want +got):\n%s", diff)
	}
}
