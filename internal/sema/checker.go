// Package sema implements the Type Checker (spec.md §4.4): a single pass
// over a module's AST that computes a TypedValue for every expression,
// drives the Borrow Checker alongside it, and records each expression's
// resolved type in an Event map for the IR builder to consume.
package sema

import (
	"fmt"

	"lemonc/internal/ast"
	"lemonc/internal/borrow"
	"lemonc/internal/diag"
	"lemonc/internal/source"
	"lemonc/internal/symbols"
	"lemonc/internal/types"
)

// Export describes one `pub` top-level name, as seen by an importing
// module (spec.md §4.2 step 4).
type Export struct {
	Kind symbols.Kind
	Type types.TypeID
}

// ImportedModule is what an Importer hands back for a successfully
// checked import target.
type ImportedModule struct {
	ModID   uint32
	Exports map[string]Export
}

// Importer resolves an import("path") item to an already fully-checked
// module, checking it top-to-bottom on first encounter (spec.md §4.2 step
// 4). Implemented by internal/compiler, which owns the module.Loader and
// recurses into CheckFile for modules not yet checked this compilation.
type Importer interface {
	Import(fromPath, path string) (*ImportedModule, error)
}

// Result is everything CheckFile produces for one module.
type Result struct {
	Events  *Events
	Exports map[string]Export
	// ItemTypes carries the resolved Fn/ExternFn/Impl-method/let/const type
	// of every top-level (and impl-method) item, keyed by its ItemID, for
	// consumers that need a signature without re-resolving type syntax
	// (internal/ir's function lowering reads parameter/return TypeIds here).
	ItemTypes map[ast.ItemID]types.TypeID
}

// Checker holds the state threaded through one module's checking pass
// (spec.md §9 "Global mutable state: none" — Checker is created fresh per
// module and never held in a package-level variable).
type Checker struct {
	b        *ast.Builder
	file     ast.File
	path     string
	modID    uint32
	types    *types.Interner
	ctx      *symbols.Context
	borrow   *borrow.Checker
	events    *Events
	bag       *diag.Bag
	importer  Importer
	itemTypes map[ast.ItemID]types.TypeID
}

// CheckFile type-checks one module's AST, appending every diagnostic it
// raises to bag and returning the Event map plus the module's exported
// symbol table. If importer is nil, any `import` item in the file fails
// with a Resolve-stage error.
func CheckFile(b *ast.Builder, file ast.File, modID uint32, path string, interner *types.Interner, importer Importer, bag *diag.Bag) *Result {
	c := &Checker{
		b:         b,
		file:      file,
		path:      path,
		modID:     modID,
		types:     interner,
		ctx:       symbols.NewContext(b.Strings),
		borrow:    borrow.New(),
		events:    NewEvents(),
		bag:       bag,
		importer:  importer,
		itemTypes: make(map[ast.ItemID]types.TypeID, 16),
	}
	c.checkFile()
	return &Result{Events: c.events, Exports: c.exports(), ItemTypes: c.itemTypes}
}

func (c *Checker) checkFile() {
	c.hoistTypes()
	c.hoistImports()
	c.hoistSignatures()
	for _, id := range c.file.Items {
		c.checkItemBody(id)
	}
}

// exports collects the module's `pub` top-level bindings into the table
// an importer reads (spec.md §4.2 step 4).
func (c *Checker) exports() map[string]Export {
	out := make(map[string]Export)
	for _, id := range c.file.Items {
		it := c.b.Item(id)
		if it == nil || !it.Pub {
			continue
		}
		name, _ := c.b.Strings.Lookup(it.Name)
		if name == "" {
			continue
		}
		sym, ok := c.ctx.Lookup(it.Name)
		if !ok {
			continue
		}
		out[name] = Export{Kind: sym.Kind, Type: sym.Type}
	}
	return out
}

func (c *Checker) errorf(stage diag.Stage, span ast.Range, format string, args ...any) {
	c.bag.Add(diag.New(diag.Error, stage, c.modID, span, fmt.Sprintf(format, args...)))
}

func (c *Checker) note(msg *diag.Message, format string, args ...any) {
	if msg != nil {
		msg.WithNote(fmt.Sprintf(format, args...))
	}
}

// record stores id's resolved type in the Event map (spec.md §4.4 "register
// (ModId, range) -> TypeId in the Event map"); the module id is implicit
// since one Checker (and one Events map) covers exactly one module.
func (c *Checker) record(id ast.ExprID, t types.TypeID) {
	c.events.Record(id, t)
}

func (c *Checker) span(id ast.ExprID) source.Span { return c.b.Expr(id).Span }
