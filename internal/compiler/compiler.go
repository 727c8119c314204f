// Package compiler glues module loading, type/borrow checking, and IR
// lowering into the two entry points a driver needs: CompileFile for a
// single source file, CompileProject for a manifest-rooted build. It plays
// the same connective role vovakirdan-surge/internal/buildpipeline plays
// between its own stages, scaled down to this core's much shorter pipeline
// (no HIR/MIR/monomorphization — just sema then ir.Lower).
package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/ir"
	"lemonc/internal/module"
	"lemonc/internal/parser"
	"lemonc/internal/project"
	"lemonc/internal/sema"
	"lemonc/internal/source"
	"lemonc/internal/types"
)

// Result is everything one compilation produces.
type Result struct {
	Diagnostics *diag.Bag
	Program     *ir.Program
	Interner    *types.Interner
	FileSet     *source.FileSet
	Builder     *ast.Builder
}

// Ok reports whether the compilation has no error-severity diagnostics.
func (r *Result) Ok() bool { return r.Diagnostics == nil || !r.Diagnostics.HasErrors() }

// engine owns the module graph for one compilation and implements
// sema.Importer against it, checking each imported module top-to-bottom on
// first encounter (spec.md §4.2 step 4) and caching the result by path so
// a module imported twice is only checked once.
type engine struct {
	loader   *module.Loader
	interner *types.Interner
	bag      *diag.Bag
	baseDir  string

	checked map[string]*sema.Result
	order   []*module.Module // modules in first-check order, for lowering
}

func newEngine(fs *source.FileSet, baseDir string, maxDiagnostics int) *engine {
	e := &engine{
		interner: types.NewInterner(),
		bag:      diag.NewBag(maxDiagnostics),
		baseDir:  baseDir,
		checked:  make(map[string]*sema.Result, 8),
	}
	e.loader = module.NewLoader(fs, readFile, parser.ParseFile)
	return e
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Import resolves fromPath's import of path, checking the target module if
// this is its first encounter (sema.Importer). Checking an import recurses
// into the imported module before the importer's own check returns, so a
// module still mid-check is on the loader's stack rather than in e.checked;
// OnStack catches that case and reports an import cycle instead of
// recursing into check forever (spec.md §4.2 step 3, §7 Resolve taxonomy).
func (e *engine) Import(fromPath, path string) (*sema.ImportedModule, error) {
	importerDir := filepath.Dir(fromPath)
	canon := module.Canonicalize(importerDir, path)

	if result, ok := e.checked[canon]; ok {
		mod := e.loader.Get(e.modIDFor(canon))
		return &sema.ImportedModule{ModID: uint32(mod.ID), Exports: toExports(result)}, nil
	}
	if e.loader.OnStack(canon) {
		return nil, fmt.Errorf("import cycle detected: %s -> %s", fromPath, canon)
	}

	mod, err := e.loader.Load(canon, false)
	if err != nil {
		return nil, err
	}
	result := e.check(mod)
	return &sema.ImportedModule{ModID: uint32(mod.ID), Exports: toExports(result)}, nil
}

func (e *engine) modIDFor(canon string) module.ID {
	for _, mod := range e.order {
		if mod.Path == canon {
			return mod.ID
		}
	}
	return module.NoID
}

// check keeps mod.Path on the loader's stack for the entire checking call,
// not just the parse that already happened in Load, so a re-entrant Import
// back into mod while it is still checking is visible to OnStack.
func (e *engine) check(mod *module.Module) *sema.Result {
	e.loader.Enter(mod.Path)
	defer e.loader.Exit()

	result := sema.CheckFile(mod.AST, mod.File, uint32(mod.ID), mod.Path, e.interner, e, e.bag)
	e.checked[mod.Path] = result
	e.order = append(e.order, mod)
	return result
}

func toExports(result *sema.Result) map[string]sema.Export {
	if result == nil {
		return nil
	}
	return result.Exports
}

// compile loads and checks entryPath plus everything it imports, then
// lowers every checked module to IR and concatenates their Functions into
// one Program (spec.md §4.2 scenario 6: a cross-module call must resolve
// the callee's real signature).
func (e *engine) compile(entryPath string) (*Result, error) {
	entry, err := e.loader.Load(entryPath, true)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	e.check(entry)

	res := &Result{Diagnostics: e.bag, Program: &ir.Program{}, Interner: e.interner, FileSet: e.loader.FileSet}
	if e.bag.HasErrors() {
		return res, nil
	}

	fnSigs := make(map[string]types.TypeID)
	for _, mod := range e.order {
		result := e.checked[mod.Path]
		for itemID, t := range result.ItemTypes {
			it := mod.AST.Item(itemID)
			if it != nil && (it.Kind == ast.ItemFn || it.Kind == ast.ItemExternFn) {
				name, _ := mod.AST.Strings.Lookup(it.Name)
				fnSigs[name] = t
			}
		}
	}

	for _, mod := range e.order {
		result := e.checked[mod.Path]
		prog := ir.Lower(mod.AST, mod.File, e.interner, result, fnSigs)
		res.Program.Functions = append(res.Program.Functions, prog.Functions...)
		if mod.IsEntry {
			res.Builder = mod.AST
		}
	}
	return res, nil
}

// CompileFile compiles a single entry file (no manifest), resolving
// imports relative to the file's own directory.
func CompileFile(path string, maxDiagnostics int) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	fs := source.NewFileSet()
	e := newEngine(fs, filepath.Dir(abs), maxDiagnostics)
	return e.compile(abs)
}

// CompileProject compiles the entry module named by the lemon.toml/
// lemon.yaml manifest found at or above dir.
func CompileProject(dir string) (*Result, error) {
	m, err := project.LoadFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	fs := source.NewFileSet()
	e := newEngine(fs, m.ModuleRoot, m.MaxDiagnostics)
	return e.compile(m.Entry)
}
