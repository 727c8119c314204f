package ir

import "lemonc/internal/ast"

// lowerStmt lowers one statement of a block body. StmtFor never reaches
// lowering: sema rejects it in checkStmt before a file can pass checking
// (spec.md §4.4 "unimplemented: for loop").
func (l *lowering) lowerStmt(id ast.StmtID) {
	s := l.b.Stmt(id)
	switch s.Kind {
	case ast.StmtLet, ast.StmtConst:
		l.lowerLetStmt(s)
	case ast.StmtRet:
		l.lowerRetStmt(s)
	case ast.StmtWhile:
		l.lowerWhileStmt(s)
	case ast.StmtExpr:
		l.lowerExpr(s.Expr)
	}
}

// lowerLetStmt allocates a fresh stack slot for the bound name and stores
// the initializer's value into it (spec.md §4.6 "every local binding gets
// its own stack slot"); every later read of the name reloads through this
// slot (lowerIdent), matching the no-phi-nodes register discipline.
func (l *lowering) lowerLetStmt(s *ast.Stmt) {
	val := l.lowerExpr(s.Value)
	t := l.eventType(s.Value)
	ptr := l.fb.salloc(t)
	l.fb.set(RegValue(ptr, t), val)
	l.fb.declare(s.Name, ptr, t)
}

func (l *lowering) lowerRetStmt(s *ast.Stmt) {
	if !s.HasValue {
		l.emitReturn(false, Value{})
		return
	}
	l.emitReturn(true, l.lowerExpr(s.Value))
}

// lowerWhileStmt lowers to test/body/exit blocks (spec.md §4.6 "while ->
// lowering to test/body/exit blocks"): the current block jumps to test,
// test cond-jumps to body or exit, body jumps back to test unless it
// already terminated (e.g. via a `ret` inside the loop).
func (l *lowering) lowerWhileStmt(s *ast.Stmt) {
	testBB := l.fb.newBlock()
	bodyBB := l.fb.newBlock()
	exitBB := l.fb.newBlock()
	l.fb.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: testBB}})

	l.fb.switchTo(testBB)
	cond := l.lowerExpr(s.Cond)
	l.fb.terminate(Terminator{Kind: TermCondJump, CondJump: CondJumpTerm{Cond: cond, Then: bodyBB, Else: exitBB}})

	l.fb.switchTo(bodyBB)
	l.lowerExpr(s.Body)
	if !l.fb.terminated() {
		l.fb.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: testBB}})
	}

	l.fb.switchTo(exitBB)
}
