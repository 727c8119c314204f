package ir

import "lemonc/internal/ast"

// lowerIf lowers an if-expression to three blocks — then, else, merge — with
// a cond-jump out of the current block and an unconditional jump to merge
// from whichever of then/else does not already terminate (spec.md §4.6
// "If"). Control-flow merges never use phi nodes (spec.md §3 Register
// lifecycle): a branch's value, when the if itself yields one, is written
// through a stack slot allocated before the branch and reloaded at merge.
func (l *lowering) lowerIf(e *ast.Expr, id ast.ExprID) Value {
	resultType := l.eventType(id)
	hasResult := e.HasElse && resultType != l.types.Builtins().Unit

	var resultSlot Reg
	if hasResult {
		resultSlot = l.fb.salloc(resultType)
	}

	cond := l.lowerExpr(e.Cond)
	thenBB := l.fb.newBlock()
	elseBB := l.fb.newBlock()
	mergeBB := l.fb.newBlock()
	l.fb.terminate(Terminator{Kind: TermCondJump, CondJump: CondJumpTerm{Cond: cond, Then: thenBB, Else: elseBB}})

	l.fb.switchTo(thenBB)
	thenVal := l.lowerExpr(e.Then)
	if hasResult {
		l.fb.set(RegValue(resultSlot, resultType), thenVal)
	}
	if !l.fb.terminated() {
		l.fb.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: mergeBB}})
	}

	l.fb.switchTo(elseBB)
	if e.HasElse {
		elseVal := l.lowerExpr(e.Else)
		if hasResult {
			l.fb.set(RegValue(resultSlot, resultType), elseVal)
		}
	}
	if !l.fb.terminated() {
		l.fb.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: mergeBB}})
	}

	l.fb.switchTo(mergeBB)
	if hasResult {
		return l.fb.load(resultType, RegValue(resultSlot, resultType))
	}
	return BoolValue(false, l.types.Builtins().Unit)
}
