package ast

import "testing"

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()
	name := b.Intern("x")
	lit := b.AddExpr(Expr{Kind: ExprLitInt, IntValue: 42, Span: Range{Start: 0, End: 2}})
	letStmt := b.AddStmt(Stmt{Kind: StmtLet, Name: name, Value: lit, Span: Range{Start: 0, End: 10}})

	got := b.Stmt(letStmt)
	if got == nil || got.Kind != StmtLet || got.Name != name {
		t.Fatalf("unexpected stmt: %+v", got)
	}
	gotExpr := b.Expr(got.Value)
	if gotExpr == nil || gotExpr.IntValue != 42 {
		t.Fatalf("unexpected expr: %+v", gotExpr)
	}
	if b.Stmt(NoStmtID) != nil {
		t.Fatalf("expected nil for NoStmtID")
	}
}

func TestRangeWellFormed(t *testing.T) {
	parent := Range{Start: 0, End: 20}
	child := Range{Start: 5, End: 10}
	if !parent.Contains(child) {
		t.Fatalf("parent range should contain child range")
	}
	if child.Start > child.End {
		t.Fatalf("malformed range")
	}
}
