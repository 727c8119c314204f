package sema

import (
	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/symbols"
	"lemonc/internal/types"
)

// checkStmt checks one statement of a block body, returning false if it
// raised an error. A let/const binding here registers a symbol directly
// in the block's own ScopeBlock, to be released when that scope exits
// (spec.md §4.5).
func (c *Checker) checkStmt(id ast.StmtID) bool {
	s := c.b.Stmt(id)
	if s == nil {
		return false
	}
	switch s.Kind {
	case ast.StmtLet, ast.StmtConst:
		return c.checkLetStmt(s)
	case ast.StmtRet:
		return c.checkRetStmt(s)
	case ast.StmtWhile:
		return c.checkWhileStmt(s)
	case ast.StmtFor:
		c.errorf(diag.Build, s.Span, "unimplemented: for loop")
		return false
	case ast.StmtExpr:
		_, ok := c.checkExpr(s.Expr)
		return ok
	default:
		return false
	}
}

func (c *Checker) checkLetStmt(s *ast.Stmt) bool {
	value, ok := c.checkExpr(s.Value)
	if !ok {
		return false
	}
	declared := types.NoTypeID
	if s.TypeAnn.IsValid() {
		var rok bool
		declared, rok = c.resolveTypeExpr(s.TypeAnn, false)
		if !rok {
			return false
		}
	}
	resolved := c.unifyOrDefault(value.Type, declared, s.Span)
	// Overwrite the value expression's own Event entry with the binding's
	// final (post-default/unify) type: a bare numeric literal is recorded
	// as e.g. I32 here rather than the pre-default InferInt the literal
	// started as, so a consumer reading only the Event map (internal/ir's
	// lowering) never sees an un-resolved inference type.
	c.record(s.Value, resolved)
	ref, err := c.bindValue(&value)
	if err != nil {
		c.errorf(diag.Ownership, s.Span, "%v", err)
		return false
	}
	c.ctx.Declare(s.Name, symbols.Symbol{
		Name: s.Name, Kind: symbols.KindVariable, Scope: c.ctx.Current(), Span: s.Span,
		Type: resolved, Mutable: s.Mut,
		Ref: ref,
	})
	return true
}

func (c *Checker) checkRetStmt(s *ast.Stmt) bool {
	retType, ok := c.ctx.CurrentReturnType()
	if !ok {
		c.errorf(diag.Type, s.Span, "`ret` outside of a function")
		return false
	}
	if !s.HasValue {
		if !c.types.Equal(retType, c.types.Builtins().Unit) {
			c.errorf(diag.Type, s.Span, "missing return value")
			return false
		}
		c.ctx.MarkReturnSeen()
		return true
	}
	value, ok := c.checkExpr(s.Value)
	if !ok {
		return false
	}
	if _, uok := c.types.Unify(value.Type, retType); !uok {
		c.errorf(diag.Type, s.Span, "return type mismatch: expected %s, found %s",
			c.types.Display(retType, c.b.Strings), c.types.Display(value.Type, c.b.Strings))
		return false
	}
	// Only a Borrow-typed return value can carry a reference into the
	// current activation's stack data; an owned value's own Local origin
	// (it was just constructed or moved here) is irrelevant to this rule
	// (spec.md §4.5 Return-value rule).
	if _, isBorrow := c.types.IsBorrow(value.Type); isBorrow && !c.borrow.CanReturnValue(&value) {
		c.errorf(diag.Ownership, s.Span, "cannot return a reference to local data")
		return false
	}
	c.ctx.MarkReturnSeen()
	return true
}

// checkWhileStmt requires a bool condition and checks the body in a
// ScopeLoop nested scope, so EnclosingLoop (future break/continue support)
// can see it (spec.md §4.4).
func (c *Checker) checkWhileStmt(s *ast.Stmt) bool {
	cond, ok := c.checkExpr(s.Cond)
	if !ok {
		return false
	}
	if !c.types.Equal(cond.Type, c.types.Builtins().Bool) {
		c.errorf(diag.Type, c.span(s.Cond), "while condition must be bool, found %s", c.types.Display(cond.Type, c.b.Strings))
		return false
	}
	outer := c.ctx.Current()
	c.ctx.Enter(symbols.ScopeLoop)
	_, bodyOK := c.checkExpr(s.Body)
	c.ctx.Exit(outer)
	return bodyOK
}

// blockAlwaysReturns conservatively decides whether every path through
// expr's evaluation passes through a `ret` (spec.md §8 all-paths-return).
// It only recognizes the handful of shapes that can provably always
// return: a block whose trailing expression always returns, or any
// statement within it that always returns; an if-expression with both
// branches always returning. Everything else (including while, whose
// condition may never hold) is conservatively "does not always return".
func (c *Checker) blockAlwaysReturns(id ast.ExprID) bool {
	e := c.b.Expr(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprBlock:
		for _, stmtID := range e.Stmts {
			if c.stmtAlwaysReturns(stmtID) {
				return true
			}
		}
		if e.HasTrailing {
			// A trailing Block or If needs its own nested-path analysis;
			// any other trailing expression is itself the implicit
			// return value and always "returns" (spec.md §4.4).
			trailing := c.b.Expr(e.Trailing)
			if trailing != nil && (trailing.Kind == ast.ExprBlock || trailing.Kind == ast.ExprIf) {
				return c.blockAlwaysReturns(e.Trailing)
			}
			return true
		}
		return false
	case ast.ExprIf:
		if !e.HasElse {
			return false
		}
		return c.blockAlwaysReturns(e.Then) && c.blockAlwaysReturns(e.Else)
	default:
		return false
	}
}

func (c *Checker) stmtAlwaysReturns(id ast.StmtID) bool {
	s := c.b.Stmt(id)
	if s == nil {
		return false
	}
	switch s.Kind {
	case ast.StmtRet:
		return true
	case ast.StmtExpr:
		return c.blockAlwaysReturns(s.Expr)
	default:
		return false
	}
}
