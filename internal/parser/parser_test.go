package parser

import (
	"testing"

	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/source"
)

func parseString(t *testing.T, text string) (*ast.Builder, ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(text))
	f, _ := fs.Get(id)
	return ParseFileDiag(f)
}

// mustParseExpr parses text (a single expression, with or without a
// trailing `;`) as the sole element of a function body and returns the
// builder plus the parsed expression node.
func mustParseExpr(t *testing.T, text string) (*ast.Builder, *ast.Expr) {
	t.Helper()
	src := "fn main() = { " + text + " }"
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", text, bag.Items())
	}
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	fnItem := b.Item(file.Items[0])
	block := b.Expr(fnItem.Body)
	if block.HasTrailing {
		return b, b.Expr(block.Trailing)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected exactly one statement in block for %q, got %d", text, len(block.Stmts))
	}
	stmt := b.Stmt(block.Stmts[0])
	if stmt.Kind != ast.StmtExpr {
		t.Fatalf("expected a StmtExpr for %q, got %v", text, stmt.Kind)
	}
	return b, b.Expr(stmt.Expr)
}

func TestArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3): outer op is Add.
	_, e := mustParseExpr(t, "1 + 2 * 3;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinAdd {
		t.Fatalf("expected outer Add, got kind=%v op=%v", e.Kind, e.Op)
	}
}

func TestPowerBindsTighterThanMul(t *testing.T) {
	// 2 * 3 ** 4 must parse as 2 * (3 ** 4): outer op is Mul.
	b, e := mustParseExpr(t, "2 * 3 ** 4;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinMul {
		t.Fatalf("expected outer Mul, got kind=%v op=%v", e.Kind, e.Op)
	}
	right := b.Expr(e.Right)
	if right.Kind != ast.ExprBinary || right.Op != ast.BinPow {
		t.Fatalf("expected rhs Pow, got kind=%v op=%v", right.Kind, right.Op)
	}
}

func TestComparisonLooserThanAdd(t *testing.T) {
	_, e := mustParseExpr(t, "1 + 2 < 3 + 4;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinLt {
		t.Fatalf("expected outer Lt, got kind=%v op=%v", e.Kind, e.Op)
	}
}

func TestPipeAndRangeAtMinPrecedence(t *testing.T) {
	_, e := mustParseExpr(t, "1 + 2 |> 3;")
	if e.Kind != ast.ExprPipe {
		t.Fatalf("expected ExprPipe, got %v", e.Kind)
	}
	_, e2 := mustParseExpr(t, "1 .. 2 + 3;")
	if e2.Kind != ast.ExprRange {
		t.Fatalf("expected ExprRange, got %v", e2.Kind)
	}
}

func TestBitwiseOrShiftAtMinPrecedence(t *testing.T) {
	// 1 | 2 + 3 must parse as 1 | (2 + 3): outer op is BinBitOr.
	b, e := mustParseExpr(t, "1 | 2 + 3;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinBitOr {
		t.Fatalf("expected outer BinBitOr, got kind=%v op=%v", e.Kind, e.Op)
	}
	right := b.Expr(e.Right)
	if right.Kind != ast.ExprBinary || right.Op != ast.BinAdd {
		t.Fatalf("expected rhs Add, got kind=%v op=%v", right.Kind, right.Op)
	}
}

func TestAssignmentIsLoosestAndRightAssociative(t *testing.T) {
	b, e := mustParseExpr(t, "x = y = 1 + 2;")
	if e.Kind != ast.ExprAssign {
		t.Fatalf("expected ExprAssign, got %v", e.Kind)
	}
	rhs := b.Expr(e.Value)
	if rhs.Kind != ast.ExprAssign {
		t.Fatalf("expected nested ExprAssign on the rhs (right-associative), got %v", rhs.Kind)
	}
}

func TestUnaryAndBorrowDeref(t *testing.T) {
	_, e := mustParseExpr(t, "!x;")
	if e.Kind != ast.ExprUnary || e.UOp != ast.UnaryNot {
		t.Fatalf("expected UnaryNot, got kind=%v op=%v", e.Kind, e.UOp)
	}
	_, e2 := mustParseExpr(t, "-x;")
	if e2.Kind != ast.ExprUnary || e2.UOp != ast.UnaryNeg {
		t.Fatalf("expected UnaryNeg, got kind=%v op=%v", e2.Kind, e2.UOp)
	}
	b, e3 := mustParseExpr(t, "&mut x;")
	if e3.Kind != ast.ExprBorrow || !e3.Mutable {
		t.Fatalf("expected mutable ExprBorrow, got kind=%v mutable=%v", e3.Kind, e3.Mutable)
	}
	if b.Expr(e3.Operand).Kind != ast.ExprIdent {
		t.Fatalf("expected borrow operand to be an identifier")
	}
	_, e4 := mustParseExpr(t, "*x;")
	if e4.Kind != ast.ExprDeref {
		t.Fatalf("expected ExprDeref, got %v", e4.Kind)
	}
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	// -x + 1 must parse as (-x) + 1.
	b, e := mustParseExpr(t, "-x + 1;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinAdd {
		t.Fatalf("expected outer Add, got kind=%v op=%v", e.Kind, e.Op)
	}
	left := b.Expr(e.Left)
	if left.Kind != ast.ExprUnary || left.UOp != ast.UnaryNeg {
		t.Fatalf("expected lhs UnaryNeg, got kind=%v", left.Kind)
	}
}

func TestPostfixMemberAssociateCall(t *testing.T) {
	b, e := mustParseExpr(t, "a.b::c(1, 2);")
	if e.Kind != ast.ExprCall {
		t.Fatalf("expected ExprCall, got %v", e.Kind)
	}
	if len(e.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(e.Args))
	}
	assoc := b.Expr(e.Callee)
	if assoc.Kind != ast.ExprAssociate {
		t.Fatalf("expected ExprAssociate callee, got %v", assoc.Kind)
	}
	member := b.Expr(assoc.Base)
	if member.Kind != ast.ExprMember {
		t.Fatalf("expected ExprMember base, got %v", member.Kind)
	}
}

func TestStructInitOnlyAfterIdent(t *testing.T) {
	b, e := mustParseExpr(t, "Point{x: 1, y: 2};")
	if e.Kind != ast.ExprStructInit {
		t.Fatalf("expected ExprStructInit, got %v", e.Kind)
	}
	name, ok := b.Strings.Lookup(e.TypeName)
	if !ok || name != "Point" {
		t.Fatalf("expected type name Point, got %q (ok=%v)", name, ok)
	}
	if len(e.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(e.Fields))
	}
}

func TestBlockExpressionNotFollowedByBraceIsNotStructInit(t *testing.T) {
	// A block whose trailing value is `if (c) { 1 } else { 2 }` must not be
	// misparsed as a struct-init postfix on the `if` keyword's condition.
	_, e := mustParseExpr(t, "if (true) { 1 } else { 2 };")
	if e.Kind != ast.ExprIf {
		t.Fatalf("expected ExprIf, got %v", e.Kind)
	}
}

func TestIfExpressionWithoutElse(t *testing.T) {
	_, e := mustParseExpr(t, "if (true) { 1 };")
	if e.Kind != ast.ExprIf {
		t.Fatalf("expected ExprIf, got %v", e.Kind)
	}
	if e.HasElse {
		t.Fatalf("expected no else clause")
	}
}

func TestIfElseIfChain(t *testing.T) {
	b, e := mustParseExpr(t, "if (a) { 1 } else if (b) { 2 } else { 3 };")
	if e.Kind != ast.ExprIf || !e.HasElse {
		t.Fatalf("expected ExprIf with else, got kind=%v hasElse=%v", e.Kind, e.HasElse)
	}
	elseBranch := b.Expr(e.Else)
	if elseBranch.Kind != ast.ExprIf {
		t.Fatalf("expected nested ExprIf for else-if, got %v", elseBranch.Kind)
	}
}

func TestBlockWithTrailingValue(t *testing.T) {
	src := "fn main() = { let x = 1; x + 1 }"
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	fnItem := b.Item(file.Items[0])
	block := b.Expr(fnItem.Body)
	if !block.HasTrailing {
		t.Fatalf("expected trailing value")
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement before the trailing value, got %d", len(block.Stmts))
	}
	letStmt := b.Stmt(block.Stmts[0])
	if letStmt.Kind != ast.StmtLet {
		t.Fatalf("expected StmtLet, got %v", letStmt.Kind)
	}
}

func TestBlockWithoutTrailingValue(t *testing.T) {
	src := "fn main() = { let x = 1; ret; }"
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	fnItem := b.Item(file.Items[0])
	block := b.Expr(fnItem.Body)
	if block.HasTrailing {
		t.Fatalf("expected no trailing value")
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Stmts))
	}
	if b.Stmt(block.Stmts[1]).Kind != ast.StmtRet {
		t.Fatalf("expected second statement to be StmtRet")
	}
}

func TestLetConstWhileForStatements(t *testing.T) {
	src := `fn main() = {
		let mut x: i32 = 1;
		const y = 2;
		while (x) { x = x + 1; }
		for (item : y) { x = item; }
	}`
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	block := b.Expr(b.Item(file.Items[0]).Body)
	if len(block.Stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(block.Stmts))
	}
	letStmt := b.Stmt(block.Stmts[0])
	if letStmt.Kind != ast.StmtLet || !letStmt.Mut {
		t.Fatalf("expected mutable StmtLet, got kind=%v mut=%v", letStmt.Kind, letStmt.Mut)
	}
	if !letStmt.TypeAnn.IsValid() {
		t.Fatalf("expected a type annotation on x")
	}
	constStmt := b.Stmt(block.Stmts[1])
	if constStmt.Kind != ast.StmtConst {
		t.Fatalf("expected StmtConst, got %v", constStmt.Kind)
	}
	whileStmt := b.Stmt(block.Stmts[2])
	if whileStmt.Kind != ast.StmtWhile {
		t.Fatalf("expected StmtWhile, got %v", whileStmt.Kind)
	}
	forStmt := b.Stmt(block.Stmts[3])
	if forStmt.Kind != ast.StmtFor {
		t.Fatalf("expected StmtFor, got %v", forStmt.Kind)
	}
	iterVarName, _ := b.Strings.Lookup(forStmt.IterVar)
	if iterVarName != "item" {
		t.Fatalf("expected iter var %q, got %q", "item", iterVarName)
	}
}

func TestRetWithAndWithoutValue(t *testing.T) {
	b, file, bag := parseString(t, "fn f(): i32 = { ret 1; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	block := b.Expr(b.Item(file.Items[0]).Body)
	retStmt := b.Stmt(block.Stmts[0])
	if retStmt.Kind != ast.StmtRet || !retStmt.HasValue {
		t.Fatalf("expected StmtRet with a value, got kind=%v hasValue=%v", retStmt.Kind, retStmt.HasValue)
	}

	b2, file2, bag2 := parseString(t, "fn f() = { ret; }")
	if bag2.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag2.Items())
	}
	block2 := b2.Expr(b2.Item(file2.Items[0]).Body)
	retStmt2 := b2.Stmt(block2.Stmts[0])
	if retStmt2.Kind != ast.StmtRet || retStmt2.HasValue {
		t.Fatalf("expected StmtRet without a value, got kind=%v hasValue=%v", retStmt2.Kind, retStmt2.HasValue)
	}
}

func TestTopLevelItems(t *testing.T) {
	src := `
		import("std/io");
		pub let x = 1;
		const y = 2;
		pub fn add(a: i32, b: i32): i32 = { ret a + b; }
		extern fn puts(s: str): i32;
		extern fn printf(fmt: str, ...): i32;
		type Point = { x: i32, y: i32 }
		type Id = i32;
		impl Point = {
			pub fn sum(self: Point): i32 = { ret self.x + self.y; }
		}
	`
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	if len(file.Items) != 9 {
		t.Fatalf("expected 9 items, got %d", len(file.Items))
	}
	kinds := make([]ast.ItemKind, len(file.Items))
	for i, id := range file.Items {
		kinds[i] = b.Item(id).Kind
	}
	want := []ast.ItemKind{
		ast.ItemImport, ast.ItemLet, ast.ItemConst, ast.ItemFn,
		ast.ItemExternFn, ast.ItemExternFn, ast.ItemType, ast.ItemType, ast.ItemImpl,
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("item %d: got %v, want %v", i, kinds[i], want[i])
		}
	}

	externPrintf := b.Item(file.Items[5])
	if !externPrintf.Variadic {
		t.Fatalf("expected printf to be variadic")
	}

	structType := b.Item(file.Items[6])
	if structType.TypeDeclKind != ast.TypeDeclStruct || len(structType.Fields) != 2 {
		t.Fatalf("expected a 2-field struct, got kind=%v fields=%d", structType.TypeDeclKind, len(structType.Fields))
	}

	aliasType := b.Item(file.Items[7])
	if aliasType.TypeDeclKind != ast.TypeDeclAlias || !aliasType.Alias.IsValid() {
		t.Fatalf("expected a valid alias")
	}

	implItem := b.Item(file.Items[8])
	if len(implItem.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(implItem.Methods))
	}
	if b.Item(implItem.Methods[0]).Kind != ast.ItemFn {
		t.Fatalf("expected method to be ItemFn")
	}
}

func TestBorrowTypeAnnotation(t *testing.T) {
	src := "fn f(p: &mut Point): &i32 = { ret &p.x; }"
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	fnItem := b.Item(file.Items[0])
	paramType := b.Type(fnItem.Params[0].TypeAnn)
	if paramType.Kind != ast.TypeExprBorrow || !paramType.Mutable {
		t.Fatalf("expected mutable borrow type, got kind=%v mutable=%v", paramType.Kind, paramType.Mutable)
	}
	retType := b.Type(fnItem.Ret)
	if retType.Kind != ast.TypeExprBorrow || retType.Mutable {
		t.Fatalf("expected immutable borrow return type, got kind=%v mutable=%v", retType.Kind, retType.Mutable)
	}
}

func TestSyntaxErrorAbortsWithoutRecovery(t *testing.T) {
	_, _, bag := parseString(t, "fn main() = { 1 + ; }")
	if !bag.HasErrors() {
		t.Fatalf("expected a syntax error")
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic (no recovery), got %d", len(items))
	}
	if items[0].Stage != diag.Syntax {
		t.Fatalf("expected diag.Syntax stage, got %v", items[0].Stage)
	}
	if items[0].Severity != diag.Error {
		t.Fatalf("expected diag.Error severity, got %v", items[0].Severity)
	}
}

func TestParseFileReturnsPlainError(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddText("bad.ln", []byte("fn ("))
	f, _ := fs.Get(id)
	_, _, err := ParseFile(f)
	if err == nil {
		t.Fatalf("expected a non-nil error for malformed input")
	}
}

func TestParseFileAcceptsValidInput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddText("good.ln", []byte("fn main() = { 1 }"))
	f, _ := fs.Get(id)
	_, file, err := ParseFile(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
}

func TestGroupingParenthesesOverridePrecedence(t *testing.T) {
	b, e := mustParseExpr(t, "(1 + 2) * 3;")
	if e.Kind != ast.ExprBinary || e.Op != ast.BinMul {
		t.Fatalf("expected outer Mul, got kind=%v op=%v", e.Kind, e.Op)
	}
	left := b.Expr(e.Left)
	if left.Kind != ast.ExprBinary || left.Op != ast.BinAdd {
		t.Fatalf("expected lhs Add, got kind=%v op=%v", left.Kind, left.Op)
	}
}

func TestStructInitNotTriggeredOnNonIdentBase(t *testing.T) {
	// `(a)` followed by `{` must not be parsed as a struct literal: the
	// base is written as a parenthesized grouping, not a bare identifier,
	// so the `{ 1 }` that follows is the block's trailing expression.
	src := "fn main() = { let x = (a) { 1 } }"
	_, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	if len(file.Items) != 1 {
		t.Fatalf("expected parse to succeed with one item")
	}
}

func TestTokenKindSanityForParams(t *testing.T) {
	// Regression guard: extern fn param lists accept `...` only as the
	// final token, never interleaved with named params after it.
	src := "extern fn f(a: i32, ...): i32;"
	b, file, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	item := b.Item(file.Items[0])
	if len(item.Params) != 1 || !item.Variadic {
		t.Fatalf("expected 1 named param plus variadic, got %d params variadic=%v", len(item.Params), item.Variadic)
	}
}
