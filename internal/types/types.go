// Package types is the Type Store (spec.md §4.3): it interns types and
// assigns each a stable TypeID, and holds the user-declared name table and
// struct layouts.
package types

import "fmt"

// TypeID is a stable integer handle into the Type Store (spec.md GLOSSARY).
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates every type variant (spec.md §3 "Type (interned)").
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindStr    // borrowed string view
	KindString // owned string
	KindChar
	KindI8
	KindI16
	KindI32
	KindI64
	KindIsize
	KindU8
	KindU16
	KindU32
	KindU64
	KindUsize
	KindF32
	KindF64
	KindUnit
	KindInferInt
	KindInferFloat
	KindFn
	KindExternFn
	KindBorrow
	KindStruct
	KindModule
	KindConst
)

// Type is the compact, comparable descriptor for a single interned type.
// Complex variants (Fn/ExternFn/Struct/Module) keep their detail in a side
// table indexed by Info, so that Type itself stays a small comparable key
// usable for structural dedup of the built-in and numeric-inference kinds.
type Type struct {
	Kind    Kind
	Bits    uint8  // InferInt/InferFloat width in {8,16,32,64}
	Elem    TypeID // Borrow: pointee; Const: wrapped value
	Mutable bool   // Borrow: &mut
	Local   bool   // Borrow: points into the current activation's stack data
	Info    uint32 // index into Interner.fns/externs/structs/modules
}

// Interner assigns and stores TypeIDs for one compilation.
type Interner struct {
	types []Type
	index map[Type]TypeID

	fns     []FnInfo
	externs []ExternFnInfo
	structs []StructInfo
	modules []ModuleInfo

	names        map[string]TypeID // add_type_definition / lookup_type_definition
	moduleCache  map[uint32]TypeID // add_module_cache / get_module_cache

	builtins Builtins
}

// Builtins holds the reserved low TypeIDs (spec.md §3).
type Builtins struct {
	Void, Bool, Str, String, Char                     TypeID
	I8, I16, I32, I64, Isize                           TypeID
	U8, U16, U32, U64, Usize                           TypeID
	F32, F64                                           TypeID
	Unit                                               TypeID
}

// NewInterner creates an Interner with every built-in type pre-interned.
func NewInterner() *Interner {
	in := &Interner{
		index:       make(map[Type]TypeID, 64),
		names:       make(map[string]TypeID, 32),
		moduleCache: make(map[uint32]TypeID, 8),
	}
	in.structs = append(in.structs, StructInfo{})   // reserve 0
	in.fns = append(in.fns, FnInfo{})                // reserve 0
	in.externs = append(in.externs, ExternFnInfo{})  // reserve 0
	in.modules = append(in.modules, ModuleInfo{})    // reserve 0

	b := &in.builtins
	b.Void = in.Intern(Type{Kind: KindVoid})
	b.Bool = in.Intern(Type{Kind: KindBool})
	b.Str = in.Intern(Type{Kind: KindStr})
	b.String = in.Intern(Type{Kind: KindString})
	b.Char = in.Intern(Type{Kind: KindChar})
	b.I8 = in.Intern(Type{Kind: KindI8})
	b.I16 = in.Intern(Type{Kind: KindI16})
	b.I32 = in.Intern(Type{Kind: KindI32})
	b.I64 = in.Intern(Type{Kind: KindI64})
	b.Isize = in.Intern(Type{Kind: KindIsize})
	b.U8 = in.Intern(Type{Kind: KindU8})
	b.U16 = in.Intern(Type{Kind: KindU16})
	b.U32 = in.Intern(Type{Kind: KindU32})
	b.U64 = in.Intern(Type{Kind: KindU64})
	b.Usize = in.Intern(Type{Kind: KindUsize})
	b.F32 = in.Intern(Type{Kind: KindF32})
	b.F64 = in.Intern(Type{Kind: KindF64})
	b.Unit = in.Intern(Type{Kind: KindUnit})
	return in
}

// Builtins returns the reserved built-in TypeIDs.
func (in *Interner) Builtins() Builtins { return in.builtins }

// dedups reports which kinds are structurally interned: identical descriptors share a
// TypeID. Fn, ExternFn, Struct, and Module each get a fresh TypeID per
// declaration/use site (spec.md §4.3 "user struct/fn types are not
// dedup'd").
func dedups(k Kind) bool {
	switch k {
	case KindFn, KindExternFn, KindStruct, KindModule:
		return false
	default:
		return true
	}
}

// Add interns t, returning its existing TypeID if t structurally dedups
// with a previously-added type, or a fresh one otherwise. This is the Type
// Store's `add` operation (spec.md §4.3).
func (in *Interner) Add(t Type) TypeID {
	if !dedups(t.Kind) {
		return in.internRaw(t)
	}
	return in.Intern(t)
}

// Intern is Add restricted to always-dedup kinds; callers that build
// built-ins or Borrow/Const/InferInt/InferFloat types go through here.
func (in *Interner) Intern(t Type) TypeID {
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	id := TypeID(len(in.types) + 1)
	in.types = append(in.types, t)
	if dedups(t.Kind) {
		in.index[t] = id
	}
	return id
}

// Get returns the descriptor for id (spec.md §4.3 "get").
func (in *Interner) Get(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) > len(in.types) {
		return Type{}, false
	}
	return in.types[id-1], true
}

// MustGet panics if id is invalid.
func (in *Interner) MustGet(id TypeID) Type {
	t, ok := in.Get(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return t
}
