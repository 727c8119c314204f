package types

import "lemonc/internal/source"

// StructField is one (name, type) pair of a struct's field list.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo holds the detail of a `Struct{name, fields, methods,
// associated, implemented}` type (spec.md §3).
type StructInfo struct {
	Name        source.StringID
	Fields      []StructField
	Methods     map[source.StringID]TypeID
	Associated  map[source.StringID]TypeID
	Implemented bool
}

// NewStruct interns a fresh Struct type (each declaration site gets its own
// TypeID, per spec.md §4.3).
func (in *Interner) NewStruct(name source.StringID, fields []StructField) TypeID {
	idx := uint32(len(in.structs))
	in.structs = append(in.structs, StructInfo{
		Name:       name,
		Fields:     fields,
		Methods:    make(map[source.StringID]TypeID),
		Associated: make(map[source.StringID]TypeID),
	})
	return in.internRaw(Type{Kind: KindStruct, Info: idx})
}

// SetFields fills in the field list of a struct declared via NewStruct with
// an empty field slice, letting callers reserve a TypeID for a struct name
// before its field types (which may reference sibling structs declared
// later in the same file) are resolved.
func (in *Interner) SetFields(id TypeID, fields []StructField) {
	if info, ok := in.Struct(id); ok {
		info.Fields = fields
	}
}

// Struct returns the StructInfo for a KindStruct type.
func (in *Interner) Struct(id TypeID) (*StructInfo, bool) {
	t, ok := in.Get(id)
	if !ok || t.Kind != KindStruct || int(t.Info) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[t.Info], true
}

// AddMethod registers fn as method name on the struct identified by id
// (populated while checking `impl N = { ... }`, spec.md §4.4).
func (in *Interner) AddMethod(id TypeID, name source.StringID, fn TypeID) {
	if info, ok := in.Struct(id); ok {
		info.Methods[name] = fn
	}
}

// AddAssociated registers an associated (non-method) function name on the
// struct identified by id.
func (in *Interner) AddAssociated(id TypeID, name source.StringID, fn TypeID) {
	if info, ok := in.Struct(id); ok {
		info.Associated[name] = fn
	}
}

// Field returns the declared type of a struct field by name.
func (in *Interner) Field(id TypeID, name source.StringID) (TypeID, bool) {
	info, ok := in.Struct(id)
	if !ok {
		return NoTypeID, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return NoTypeID, false
}

// Method returns a struct's method function type by name.
func (in *Interner) Method(id TypeID, name source.StringID) (TypeID, bool) {
	info, ok := in.Struct(id)
	if !ok {
		return NoTypeID, false
	}
	fn, ok := info.Methods[name]
	return fn, ok
}

// MarkImplemented flags a struct as having seen its `impl` block.
func (in *Interner) MarkImplemented(id TypeID) {
	if info, ok := in.Struct(id); ok {
		info.Implemented = true
	}
}
