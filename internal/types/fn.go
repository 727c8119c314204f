package types

// FnInfo holds the detail of a `Fn{params, ret, generics}` type.
type FnInfo struct {
	Params   []TypeID
	Ret      TypeID
	Generics []TypeID
}

// ExternFnInfo holds the detail of an `ExternFn{params, ret, variadic}` type.
type ExternFnInfo struct {
	Params   []TypeID
	Ret      TypeID
	Variadic bool
}

// ModuleInfo holds the detail of a `Module{mod_id}` type. ModID is the raw
// numeric value of module.ID; this package does not import module to avoid
// a dependency cycle (module does not need to know about types).
type ModuleInfo struct {
	ModID uint32
}

// NewFn interns a Fn type with the given signature.
func (in *Interner) NewFn(params []TypeID, ret TypeID, generics []TypeID) TypeID {
	idx := uint32(len(in.fns))
	in.fns = append(in.fns, FnInfo{Params: params, Ret: ret, Generics: generics})
	return in.Add(Type{Kind: KindFn, Info: idx})
}

// Fn returns the FnInfo for a KindFn type.
func (in *Interner) Fn(id TypeID) (FnInfo, bool) {
	t, ok := in.Get(id)
	if !ok || t.Kind != KindFn || int(t.Info) >= len(in.fns) {
		return FnInfo{}, false
	}
	return in.fns[t.Info], true
}

// NewExternFn interns an ExternFn type.
func (in *Interner) NewExternFn(params []TypeID, ret TypeID, variadic bool) TypeID {
	idx := uint32(len(in.externs))
	in.externs = append(in.externs, ExternFnInfo{Params: params, Ret: ret, Variadic: variadic})
	return in.Add(Type{Kind: KindExternFn, Info: idx})
}

// ExternFn returns the ExternFnInfo for a KindExternFn type.
func (in *Interner) ExternFn(id TypeID) (ExternFnInfo, bool) {
	t, ok := in.Get(id)
	if !ok || t.Kind != KindExternFn || int(t.Info) >= len(in.externs) {
		return ExternFnInfo{}, false
	}
	return in.externs[t.Info], true
}

// NewModule interns a Module{mod_id} type, deduped by mod id so repeated
// imports of the same module reuse one TypeID (the Type Store's
// add_module_cache/get_module_cache pair, §4.3, caches at a higher level —
// this dedup is a cheap safety net for direct callers).
func (in *Interner) NewModule(modID uint32) TypeID {
	for i, m := range in.modules {
		if i != 0 && m.ModID == modID {
			want := Type{Kind: KindModule, Info: uint32(i)}
			for j, t := range in.types {
				if t == want {
					return TypeID(j + 1)
				}
			}
		}
	}
	idx := uint32(len(in.modules))
	in.modules = append(in.modules, ModuleInfo{ModID: modID})
	return in.internRaw(Type{Kind: KindModule, Info: idx})
}

// Module returns the ModuleInfo for a KindModule type.
func (in *Interner) Module(id TypeID) (ModuleInfo, bool) {
	t, ok := in.Get(id)
	if !ok || t.Kind != KindModule || int(t.Info) >= len(in.modules) {
		return ModuleInfo{}, false
	}
	return in.modules[t.Info], true
}

// AddModuleCache records the TypeID produced for checking mod id for the
// first time, so later imports of the same module reuse it (spec.md §4.2
// step 4 and §4.3 "add_module_cache").
func (in *Interner) AddModuleCache(modID uint32, id TypeID) { in.moduleCache[modID] = id }

// GetModuleCache returns the cached Module TypeID for mod id, if any.
func (in *Interner) GetModuleCache(modID uint32) (TypeID, bool) {
	id, ok := in.moduleCache[modID]
	return id, ok
}
