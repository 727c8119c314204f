package types

// NewBorrow interns a `Borrow{elem, mutable, local}` type (spec.md §3). This
// is one of the always-dedup kinds: two borrows of the same element type,
// mutability, and localness share a TypeID.
func (in *Interner) NewBorrow(elem TypeID, mutable, local bool) TypeID {
	return in.Intern(Type{Kind: KindBorrow, Elem: elem, Mutable: mutable, Local: local})
}

// IsBorrow reports whether id is a Borrow type and returns its descriptor.
func (in *Interner) IsBorrow(id TypeID) (Type, bool) {
	t, ok := in.Get(id)
	if !ok || t.Kind != KindBorrow {
		return Type{}, false
	}
	return t, true
}

// NewConst wraps inner as a `Const{inner}` type, marking a top-level
// `const` binding's type as compile-time-constant (spec.md §4.4 `const N =
// e`). Const is transparent to Equal/Unify via resolveWrapper.
func (in *Interner) NewConst(inner TypeID) TypeID {
	return in.Intern(Type{Kind: KindConst, Elem: inner})
}
