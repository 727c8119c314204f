package ast

import "lemonc/internal/source"

// Builder owns one module's node arenas plus the string interner its
// identifiers and literal text are stored in. One Builder is created per
// module by the Module Loader (spec.md §4.2).
type Builder struct {
	Items   *Arena[Item]
	Stmts   *Arena[Stmt]
	Exprs   *Arena[Expr]
	Types   *Arena[TypeExpr]
	Strings *source.Interner
}

// NewBuilder creates an empty Builder with a fresh string interner.
func NewBuilder() *Builder {
	return &Builder{
		Items:   NewArena[Item](64),
		Stmts:   NewArena[Stmt](128),
		Exprs:   NewArena[Expr](256),
		Types:   NewArena[TypeExpr](64),
		Strings: source.NewInterner(),
	}
}

// AddItem allocates an item node and returns its ID.
func (b *Builder) AddItem(it Item) ItemID { return ItemID(b.Items.Allocate(it)) }

// AddStmt allocates a statement node and returns its ID.
func (b *Builder) AddStmt(s Stmt) StmtID { return StmtID(b.Stmts.Allocate(s)) }

// AddExpr allocates an expression node and returns its ID.
func (b *Builder) AddExpr(e Expr) ExprID { return ExprID(b.Exprs.Allocate(e)) }

// AddType allocates a type-expression node and returns its ID.
func (b *Builder) AddType(t TypeExpr) TypeExprID { return TypeExprID(b.Types.Allocate(t)) }

// Item returns the node for id, or nil if id is invalid.
func (b *Builder) Item(id ItemID) *Item { return b.Items.Get(uint32(id)) }

// Stmt returns the node for id, or nil if id is invalid.
func (b *Builder) Stmt(id StmtID) *Stmt { return b.Stmts.Get(uint32(id)) }

// Expr returns the node for id, or nil if id is invalid.
func (b *Builder) Expr(id ExprID) *Expr { return b.Exprs.Get(uint32(id)) }

// Type returns the node for id, or nil if id is invalid.
func (b *Builder) Type(id TypeExprID) *TypeExpr { return b.Types.Get(uint32(id)) }

// Intern interns s, a convenience wrapper around Strings.Intern used by
// every parser production that captures an identifier or literal body.
func (b *Builder) Intern(s string) source.StringID { return b.Strings.Intern(s) }
