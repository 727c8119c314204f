package ast

import "lemonc/internal/source"

// TypeExprKind enumerates type-syntax variants (distinct from the interned
// semantic types.TypeID the checker produces).
type TypeExprKind uint8

const (
	TypeExprInvalid TypeExprKind = iota
	TypeExprName   // e.g. i32, MyStruct
	TypeExprBorrow // &T / &mut T
)

// TypeExpr is a single type-syntax node.
type TypeExpr struct {
	Kind TypeExprKind
	Span Range

	// TypeExprName
	Name     source.StringID
	Generics []TypeExprID

	// TypeExprBorrow
	Mutable bool
	Inner   TypeExprID
}
