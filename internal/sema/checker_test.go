package sema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/parser"
	"lemonc/internal/source"
	"lemonc/internal/symbols"
	"lemonc/internal/types"
)

func checkString(t *testing.T, text string) (*ast.Builder, ast.File, *Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(text))
	f, _ := fs.Get(id)
	b, file, bag := parser.ParseFileDiag(f)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", text, bag.Items())
	}
	interner := types.NewInterner()
	result := CheckFile(b, file, 1, "test", interner, nil, bag)
	return b, file, result, bag
}

// spec.md §8 scenario: arithmetic type inference through a literal
// expression threads the default numeric type all the way out.
func TestArithmeticInference(t *testing.T) {
	_, _, result, bag := checkString(t, `
fn main(): i32 = {
	ret 1 + 2 * 3;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if result.Events.Len() == 0 {
		t.Fatalf("expected recorded expression types")
	}
}

// spec.md §8 scenario: returning a borrow of a local value is rejected.
func TestReturnLocalBorrowRejected(t *testing.T) {
	_, _, _, bag := checkString(t, `
type Point = { x: i32, y: i32 }

fn makeRef(): &Point = {
	let p = Point{x: 1, y: 2};
	ret &p;
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected an ownership error returning a local borrow")
	}
	found := false
	for _, m := range bag.Items() {
		if m.Stage == diag.Ownership {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an Ownership-stage diagnostic, got: %v", bag.Items())
	}
}

// spec.md §8 scenario: borrowing a value mutably while an immutable
// borrow of it is alive is rejected.
func TestMutableBorrowWhileImmutableAliveRejected(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn main() = {
	let mut x = 1;
	let r1 = &x;
	let r2 = &mut x;
	ret;
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected an ownership error for conflicting borrows")
	}
}

// spec.md §8 scenario: using a value after it has been moved is rejected.
func TestUseAfterMoveRejected(t *testing.T) {
	_, _, _, bag := checkString(t, `
type Box = { v: i32 }

fn take(b: Box): i32 = {
	ret b.v;
}

fn main(): i32 = {
	let b = Box{v: 1};
	let moved = b;
	ret take(b);
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected an error using a value after it was moved")
	}
}

// spec.md §8 scenario: an if-expression whose branches unify to the same
// type yields a single Event type for the whole expression, with a Union
// source covering both branches (GLOSSARY "Union source").
func TestIfExpressionUnifiesBranchTypes(t *testing.T) {
	_, _, result, bag := checkString(t, `
fn choose(cond: bool): i32 = {
	ret if (cond) { 1 } else { 2 };
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if result.Events.Len() == 0 {
		t.Fatalf("expected recorded expression types")
	}
}

// A struct's fields may reference a sibling struct declared later in the
// same file (two-phase type hoisting, internal/sema/item.go hoistTypes).
func TestMutualStructForwardReference(t *testing.T) {
	_, _, _, bag := checkString(t, `
type Node = { value: i32, next: Link }
type Link = { some: bool }

fn main() = {
	let n = Node{value: 1, next: Link{some: false}};
	ret;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

// Calling a function declared later in the same file succeeds because
// hoistSignatures registers every function's type before any body check.
func TestForwardFunctionReference(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn main(): i32 = {
	ret helper(2);
}

fn helper(n: i32): i32 = {
	ret n * 2;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

// A function declaring a non-Unit return type must return on every path.
func TestMissingReturnRejected(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn alwaysOne(cond: bool): i32 = {
	if (cond) {
		ret 1;
	}
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected a not-all-paths-return error")
	}
}

// A function whose if/else both return on every path is accepted.
func TestAllPathsReturnAccepted(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn alwaysOne(cond: bool): i32 = {
	if (cond) {
		ret 1;
	} else {
		ret 0;
	}
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

// `for` is parsed but always rejected as unimplemented (spec.md §9).
func TestForLoopRejectedAsUnimplemented(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn main() = {
	for (x : 0..10) {
		ret;
	}
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected a Build-stage error rejecting the for loop")
	}
	found := false
	for _, m := range bag.Items() {
		if m.Stage == diag.Build {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Build-stage diagnostic, got: %v", bag.Items())
	}
}

// Assigning to an immutable binding is a Type-stage error.
func TestAssignToImmutableRejected(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn main() = {
	let x = 1;
	x = 2;
	ret;
}
`)
	if !bag.HasErrors() {
		t.Fatalf("expected an error assigning to an immutable variable")
	}
}

// Assigning to a `let mut` binding is accepted.
func TestAssignToMutableAccepted(t *testing.T) {
	_, _, _, bag := checkString(t, `
fn main() = {
	let mut x = 1;
	x = 2;
	ret;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

// Struct method calls resolve the implicit `&self` first parameter and
// may read fields through it.
func TestImplMethodSelfBorrow(t *testing.T) {
	_, _, _, bag := checkString(t, `
type Point = { x: i32, y: i32 }

impl Point = {
	pub fn sumX(self: Point): i32 = {
		ret self.x;
	}
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

// A pub function's exported signature is the same FnInfo the interner
// would build directly from its parameter and return types, so an importer
// reading Exports sees a real callable signature rather than a placeholder.
func TestPubFunctionExportShapeMatches(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(`
pub fn add(a: i32, b: i32): i32 = {
	ret a + b;
}
`))
	f, _ := fs.Get(id)
	b, file, bag := parser.ParseFileDiag(f)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	interner := types.NewInterner()
	result := CheckFile(b, file, 1, "test", interner, nil, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	exp, ok := result.Exports["add"]
	if !ok {
		t.Fatalf("expected add to be exported, got %v", result.Exports)
	}
	if exp.Kind != symbols.KindFunction {
		t.Fatalf("expected add to export as a function, got %v", exp.Kind)
	}
	fnInfo, ok := interner.Fn(exp.Type)
	if !ok {
		t.Fatalf("expected add's exported type to be a Fn type")
	}
	bi := interner.Builtins()
	want := types.FnInfo{Params: []types.TypeID{bi.I32, bi.I32}, Ret: bi.I32, Generics: nil}
	if diff := cmp.Diff(want, fnInfo); diff != "" {
		t.Fatalf("exported fn signature mismatch (-want +got):\n%s", diff)
	}
}

// An importer that fails to resolve a path surfaces a Resolve-stage error.
type stubImporter struct{}

func (stubImporter) Import(fromPath, path string) (*ImportedModule, error) {
	return nil, errors.New("module not found")
}

func TestImportResolutionFailureReported(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(`
import("other")

fn main() = { ret; }
`))
	f, _ := fs.Get(id)
	b, file, bag := parser.ParseFileDiag(f)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	interner := types.NewInterner()
	CheckFile(b, file, 1, "test", interner, stubImporter{}, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected a Resolve-stage error for an unresolved import")
	}
}
