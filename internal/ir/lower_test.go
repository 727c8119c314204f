package ir

import (
	"bytes"
	"os"
	"testing"

	"lemonc/internal/ast"
	"lemonc/internal/parser"
	"lemonc/internal/sema"
	"lemonc/internal/source"
	"lemonc/internal/types"

	"github.com/gkampitakis/go-snaps/snaps"
)

// lowerString parses and checks text, then lowers it to IR, failing the test
// on any parse or type error — the same checkString harness internal/sema
// uses, extended one stage further.
func lowerString(t *testing.T, text string) (*Program, *ast.Builder, *types.Interner) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddText("test.ln", []byte(text))
	f, _ := fs.Get(id)
	b, file, bag := parser.ParseFileDiag(f)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", text, bag.Items())
	}
	interner := types.NewInterner()
	result := sema.CheckFile(b, file, 1, "test", interner, nil, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected sema errors for %q: %v", text, bag.Items())
	}
	return Lower(b, file, interner, result), b, interner
}

func disasmString(t *testing.T, prog *Program, b *ast.Builder, interner *types.Interner) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Disassemble(&buf, prog, interner, b.Strings); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	return buf.String()
}

// spec.md §8 scenario 1: arithmetic lowers to a chain of BinOp instructions
// with the defaulted numeric type threaded through, and a single-value ret.
func TestLowerArithmetic(t *testing.T) {
	prog, b, interner := lowerString(t, `
fn main(): i32 = {
	ret 1 + 2 * 3;
}
`)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	snaps.MatchSnapshot(t, disasmString(t, prog, b, interner))
}

// spec.md §8 scenario 5: an if-expression used as a let's initializer
// lowers to three blocks merging through a reloaded stack slot, never a
// phi node.
func TestLowerIfExpressionMerge(t *testing.T) {
	prog, b, interner := lowerString(t, `
fn choose(cond: bool): i32 = {
	let a = if (cond) { 1 } else { 2 };
	ret a;
}
`)
	fn := prog.Functions[0]
	if len(fn.Blocks) != 4 {
		t.Fatalf("expected entry+then+else+merge = 4 blocks, got %d", len(fn.Blocks))
	}
	for i := range fn.Blocks {
		if !fn.Blocks[i].Terminated() {
			t.Fatalf("block %s was not terminated", fn.Blocks[i].ID)
		}
	}
	snaps.MatchSnapshot(t, disasmString(t, prog, b, interner))
}

// spec.md §8 scenario 6: a call to another function in the same module
// resolves the callee by name and coerces the argument to its declared
// parameter type.
func TestLowerCallCoercesArgType(t *testing.T) {
	prog, b, interner := lowerString(t, `
fn double(n: i32): i32 = {
	ret n * 2;
}

fn main(): i32 = {
	ret double(21);
}
`)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}
	snaps.MatchSnapshot(t, disasmString(t, prog, b, interner))
}

// A while loop lowers to test/body/exit blocks, looping back to test.
func TestLowerWhileLoop(t *testing.T) {
	prog, _, _ := lowerString(t, `
fn countdown(n: i32): i32 = {
	let mut i = n;
	while (i > 0) {
		i = i - 1;
	}
	ret i;
}
`)
	fn := prog.Functions[0]
	if len(fn.Blocks) != 4 {
		t.Fatalf("expected entry+test+body+exit = 4 blocks, got %d", len(fn.Blocks))
	}
}

// Struct init heap-allocates and writes each field through get_field_ptr,
// and the function drops it on return since it is not the returned value.
func TestLowerStructInitDropsUnreturnedOwner(t *testing.T) {
	prog, b, interner := lowerString(t, `
type Point = { x: i32, y: i32 }

fn sumPoint(): i32 = {
	let p = Point{x: 1, y: 2};
	ret 0;
}
`)
	snaps.MatchSnapshot(t, disasmString(t, prog, b, interner))
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m, snaps.CleanOpts{Sort: true})
	os.Exit(v)
}
