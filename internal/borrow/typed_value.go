package borrow

import (
	"sort"
	"strings"

	"lemonc/internal/types"
)

// Source is the set of RefIds backing a TypedValue. Most expressions carry
// a single owner; an if-expression's merged result carries the union of
// both branches' sources (spec.md GLOSSARY "Union source").
type Source struct {
	ids map[RefId]struct{}
}

// SingleSource builds a one-element Source.
func SingleSource(id RefId) Source {
	return Source{ids: map[RefId]struct{}{id: {}}}
}

// UnionSource builds a Source covering every id in ids, flattening any
// sources passed in (e.g. merging both branches of an if-expression).
func UnionSource(sources ...Source) Source {
	s := Source{ids: make(map[RefId]struct{})}
	for _, src := range sources {
		for id := range src.ids {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// IsUnion reports whether source spans more than one RefId.
func (s Source) IsUnion() bool { return len(s.ids) > 1 }

// Len returns the number of RefIds in source.
func (s Source) Len() int { return len(s.ids) }

// Ids returns source's RefIds in ascending order, for deterministic
// iteration (diagnostics, tests).
func (s Source) Ids() []RefId {
	out := make([]RefId, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each calls fn for every RefId in source, in ascending order.
func (s Source) Each(fn func(RefId)) {
	for _, id := range s.Ids() {
		fn(id)
	}
}

// String renders source the way the original checker's debug output did:
// ids joined by " | ".
func (s Source) String() string {
	ids := s.Ids()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " | ")
}

// TypedValue pairs a type with the borrow-arena reference(s) backing it
// (spec.md §4.5).
type TypedValue struct {
	Type     types.TypeID
	Source   Source
	IsModule bool
}

// NewTypedValue builds a TypedValue with a single owning reference.
func NewTypedValue(t types.TypeID, owner RefId) TypedValue {
	return TypedValue{Type: t, Source: SingleSource(owner)}
}

// NewTypedValueFromSource builds a TypedValue over an arbitrary (possibly
// union) source.
func NewTypedValueFromSource(t types.TypeID, source Source) TypedValue {
	return TypedValue{Type: t, Source: source}
}

// InferType overwrites the value's type, leaving its source untouched
// (used once numeric inference resolves an InferInt/InferFloat).
func (v *TypedValue) InferType(resolved types.TypeID) { v.Type = resolved }
