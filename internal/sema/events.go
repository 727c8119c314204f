package sema

import (
	"lemonc/internal/ast"
	"lemonc/internal/types"
)

// Events is the Event map (spec.md §4.4): after a successful check, every
// expression's range has a recorded TypeId (spec.md §8 "Event-map total
// function"). Keyed by ExprID rather than (ModId, Range) directly since
// one Events belongs to exactly one module's AST, and ExprID already
// determines that expression's range via the Builder.
type Events struct {
	byExpr map[ast.ExprID]types.TypeID
}

// NewEvents creates an empty Event map.
func NewEvents() *Events {
	return &Events{byExpr: make(map[ast.ExprID]types.TypeID, 64)}
}

// Record sets id's resolved type.
func (e *Events) Record(id ast.ExprID, t types.TypeID) {
	e.byExpr[id] = t
}

// Get returns id's resolved type, if any.
func (e *Events) Get(id ast.ExprID) (types.TypeID, bool) {
	t, ok := e.byExpr[id]
	return t, ok
}

// Len returns the number of recorded expressions.
func (e *Events) Len() int { return len(e.byExpr) }

// Total reports whether every expression allocated in b has a recorded
// type — the testable property from spec.md §8. Only meaningful to call
// after a check that reported no errors: an aborted check legitimately
// leaves some expressions unrecorded.
func (e *Events) Total(b *ast.Builder) bool {
	n := b.Exprs.Len()
	for i := uint32(1); i <= n; i++ {
		if _, ok := e.byExpr[ast.ExprID(i)]; !ok {
			return false
		}
	}
	return true
}
