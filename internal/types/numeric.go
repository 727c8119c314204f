package types

// bitsForUnsignedValue returns the smallest width in {8,16,32,64} that fits
// an unsigned value with the given number of significant bits, following
// the original lemon compiler's `parse_radix_to_bit_size`
// (original_source/src/checker/check_number.rs): the bit width is
// `64 - leading_zeros`, bucketed upward to the next power-of-two width.
func bitsForUnsignedValue(value uint64) (uint8, bool) {
	significant := 0
	for v := value; v != 0; v >>= 1 {
		significant++
	}
	switch {
	case significant <= 8:
		return 8, true
	case significant <= 16:
		return 16, true
	case significant <= 32:
		return 32, true
	case significant <= 64:
		return 64, true
	default:
		return 0, false
	}
}

// InferIntLiteral computes the InferInt{bits} TypeID for an integer literal
// value, or ok=false when the value needs more than 64 bits ("number too
// large", spec.md §7).
func (in *Interner) InferIntLiteral(value uint64) (TypeID, bool) {
	bits, ok := bitsForUnsignedValue(value)
	if !ok {
		return NoTypeID, false
	}
	return in.Intern(Type{Kind: KindInferInt, Bits: bits}), true
}

// InferFloatLiteral computes the InferFloat{bits} TypeID for a dotted
// numeric literal. Float literal fidelity chooses 32 bits unless the text
// fails to round-trip through float32, matching spec.md §4.4's "F32 chosen
// per literal parse fidelity" default.
func (in *Interner) InferFloatLiteral(fits32 bool) TypeID {
	bits := uint8(32)
	if !fits32 {
		bits = 64
	}
	return in.Intern(Type{Kind: KindInferFloat, Bits: bits})
}

func intWidth(k Kind) (uint8, bool) {
	switch k {
	case KindI8, KindU8:
		return 8, true
	case KindI16, KindU16:
		return 16, true
	case KindI32, KindU32:
		return 32, true
	case KindI64, KindU64, KindIsize, KindUsize:
		return 64, true
	default:
		return 0, false
	}
}

// IsIntKind reports whether k is one of the fixed-width signed/unsigned
// integer kinds (excludes InferInt).
func IsIntKind(k Kind) bool {
	_, ok := intWidth(k)
	return ok
}

// IsFloatKind reports whether k is f32 or f64 (excludes InferFloat).
func IsFloatKind(k Kind) bool { return k == KindF32 || k == KindF64 }

func floatWidth(k Kind) (uint8, bool) {
	switch k {
	case KindF32:
		return 32, true
	case KindF64:
		return 64, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether id resolves to any integer or float kind,
// inferred or concrete.
func (in *Interner) IsNumeric(id TypeID) bool {
	t, ok := in.Get(id)
	if !ok {
		return false
	}
	return IsIntKind(t.Kind) || IsFloatKind(t.Kind) || t.Kind == KindInferInt || t.Kind == KindInferFloat
}

// IsInt reports whether id is a concrete or inferred integer type.
func (in *Interner) IsInt(id TypeID) bool {
	t, ok := in.Get(id)
	if !ok {
		return false
	}
	return IsIntKind(t.Kind) || t.Kind == KindInferInt
}

// Unify attempts to reconcile two types per spec.md §4.4's numeric
// inference rule: an InferInt{bits}/InferFloat{bits} unifies with any
// concrete numeric type whose width is >= bits, resolving to the concrete
// type. Two equal concrete types unify to themselves. Otherwise unification
// fails.
func (in *Interner) Unify(a, b TypeID) (TypeID, bool) {
	if a == b {
		return a, true
	}
	ta, aok := in.Get(a)
	tb, bok := in.Get(b)
	if !aok || !bok {
		return NoTypeID, false
	}
	ta = in.resolveWrapper(ta)
	tb = in.resolveWrapper(tb)

	if ta.Kind == KindInferInt {
		if w, ok := intWidth(tb.Kind); ok && ta.Bits <= w {
			return b, true
		}
		if tb.Kind == KindInferInt {
			if ta.Bits <= tb.Bits {
				return b, true
			}
			return a, true
		}
	}
	if tb.Kind == KindInferInt {
		if w, ok := intWidth(ta.Kind); ok && tb.Bits <= w {
			return a, true
		}
	}
	if ta.Kind == KindInferFloat {
		if w, ok := floatWidth(tb.Kind); ok && ta.Bits <= w {
			return b, true
		}
		if tb.Kind == KindInferFloat {
			if ta.Bits <= tb.Bits {
				return b, true
			}
			return a, true
		}
	}
	if tb.Kind == KindInferFloat {
		if w, ok := floatWidth(ta.Kind); ok && tb.Bits <= w {
			return a, true
		}
	}
	if in.Equal(a, b) {
		return a, true
	}
	return NoTypeID, false
}

// resolveWrapper unwraps Const so structural comparisons see through it
// (spec.md §3 "Types are structurally compared after resolving Const and
// parameter wrappers").
func (in *Interner) resolveWrapper(t Type) Type {
	for t.Kind == KindConst {
		inner, ok := in.Get(t.Elem)
		if !ok {
			break
		}
		t = inner
	}
	return t
}

// Equal reports structural equivalence of a and b after resolving Const
// wrappers (spec.md §3). Struct/Fn/Module identity is by TypeID since those
// kinds are never structurally deduped.
func (in *Interner) Equal(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, aok := in.Get(a)
	tb, bok := in.Get(b)
	if !aok || !bok {
		return false
	}
	ta = in.resolveWrapper(ta)
	tb = in.resolveWrapper(tb)
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindBorrow:
		return ta.Mutable == tb.Mutable && in.Equal(ta.Elem, tb.Elem)
	case KindStruct, KindFn, KindExternFn, KindModule:
		return false // distinct declaration sites are distinct types
	default:
		return ta == tb
	}
}

// DefaultNumeric resolves a leftover InferInt/InferFloat to its default
// concrete type: I32 for ints, F32 for floats (spec.md §4.4).
func (in *Interner) DefaultNumeric(id TypeID) TypeID {
	t, ok := in.Get(id)
	if !ok {
		return id
	}
	switch t.Kind {
	case KindInferInt:
		return in.builtins.I32
	case KindInferFloat:
		return in.builtins.F32
	default:
		return id
	}
}
