// Package ast is the immutable-after-parse tree of statements, expressions,
// and type expressions produced by the parser (spec.md §3 "AST node").
// Every node carries a Range; type resolution is recorded separately in the
// sema package's Event map rather than mutating the tree (spec.md §3).
package ast

import "lemonc/internal/source"

// Range is a byte span into the owning module's source (spec.md §3).
type Range = source.Span

type (
	ItemID     uint32
	StmtID     uint32
	ExprID     uint32
	TypeExprID uint32
)

const (
	NoItemID     ItemID     = 0
	NoStmtID     StmtID     = 0
	NoExprID     ExprID     = 0
	NoTypeExprID TypeExprID = 0
)

func (id ItemID) IsValid() bool     { return id != NoItemID }
func (id StmtID) IsValid() bool     { return id != NoStmtID }
func (id ExprID) IsValid() bool     { return id != NoExprID }
func (id TypeExprID) IsValid() bool { return id != NoTypeExprID }
