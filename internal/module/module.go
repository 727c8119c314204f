// Package module resolves imports and owns one source unit plus one parsed
// AST per module, caching by canonical path identity (spec.md §4.2).
package module

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"lemonc/internal/ast"
	"lemonc/internal/source"
)

// ID identifies a loaded module (ModId in spec.md §3).
type ID uint32

// NoID marks the absence of a module.
const NoID ID = 0

// IsValid reports whether id refers to a real module.
func (id ID) IsValid() bool { return id != NoID }

// Module is one loaded, parsed source unit (spec.md §3 "Module").
type Module struct {
	ID       ID
	Path     string // canonical path, the cache key
	FileID   source.FileID
	AST      *ast.Builder
	File     ast.File
	IsEntry  bool
	Exports  map[string]ast.ItemID // pub let/const/fn/extern fn/type names -> declaring item
}

// Loader resolves import("path") expressions against an importing module's
// directory, caching modules by canonical path and rejecting import cycles
// (spec.md §4.2).
type Loader struct {
	FileSet *source.FileSet
	Read    func(path string) ([]byte, error)
	Parse   func(f *source.File) (*ast.Builder, ast.File, error)

	modules []*Module
	byPath  map[string]ID
	stack   []string // canonical paths currently being loaded, for cycle detection
}

// NewLoader creates a Loader. parse is called once per distinct canonical
// path to turn raw source into an AST; read lets tests substitute an
// in-memory filesystem.
func NewLoader(fs *source.FileSet, read func(string) ([]byte, error), parse func(*source.File) (*ast.Builder, ast.File, error)) *Loader {
	return &Loader{
		FileSet: fs,
		Read:    read,
		Parse:   parse,
		byPath:  make(map[string]ID, 16),
	}
}

// Canonicalize resolves path relative to the importing module's directory.
// If path names a directory, "mod.ln" within it is used (spec.md §6).
func Canonicalize(importerDir, path string) string {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(importerDir, path)
	}
	full = filepath.Clean(full)
	if ext := filepath.Ext(full); ext != ".ln" && ext != ".lemon" {
		full = filepath.Join(full, "mod.ln")
	}
	return full
}

// Load resolves, reads, parses, and caches the module at canonical path
// canon. isEntry marks the entry module. Returns an error for
// unreadable sources or import cycles.
func (l *Loader) Load(canon string, isEntry bool) (*Module, error) {
	if id, ok := l.byPath[canon]; ok {
		return l.Get(id), nil
	}
	for _, onStack := range l.stack {
		if onStack == canon {
			return nil, fmt.Errorf("module: import cycle detected: %s -> %s", strings.Join(l.stack, " -> "), canon)
		}
	}
	l.stack = append(l.stack, canon)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	text, err := l.Read(canon)
	if err != nil {
		return nil, fmt.Errorf("module: cannot load %q: %w", canon, err)
	}
	fileID := l.FileSet.AddText(canon, text)
	f, _ := l.FileSet.Get(fileID)

	builder, fileNode, err := l.Parse(f)
	if err != nil {
		return nil, err
	}

	return l.commit(canon, fileID, builder, fileNode, isEntry)
}

// commit registers an already-parsed module under canon, assigning it the
// next ID. Callers (Load, LoadMany) must already hold whatever
// synchronization their own call path needs before calling this.
func (l *Loader) commit(canon string, fileID source.FileID, builder *ast.Builder, fileNode ast.File, isEntry bool) (*Module, error) {
	n, convErr := safecast.Conv[uint32](len(l.modules))
	if convErr != nil {
		return nil, fmt.Errorf("module: loader overflow: %w", convErr)
	}
	id := ID(n + 1)
	mod := &Module{
		ID:      id,
		Path:    canon,
		FileID:  fileID,
		AST:     builder,
		File:    fileNode,
		IsEntry: isEntry,
		Exports: collectExports(builder, fileNode),
	}
	l.modules = append(l.modules, mod)
	l.byPath[canon] = id
	return mod, nil
}

// Get returns the module for id, or nil if unknown.
func (l *Loader) Get(id ID) *Module {
	if !id.IsValid() || int(id) > len(l.modules) {
		return nil
	}
	return l.modules[id-1]
}

// OnStack reports whether canon is currently being loaded (used by callers
// that want to pre-check cycles before recursing further).
func (l *Loader) OnStack(canon string) bool {
	for _, p := range l.stack {
		if p == canon {
			return true
		}
	}
	return false
}

// Enter marks canon as in progress for the duration of some larger unit of
// work than Load alone covers (spec.md §4.2 step 3: checking an import
// recurses into the imported module before the importer is done with it,
// so the cycle window has to span that recursion, not just the parse).
// Callers must pair every Enter with an Exit, typically via defer.
func (l *Loader) Enter(canon string) {
	l.stack = append(l.stack, canon)
}

// Exit undoes the most recent Enter.
func (l *Loader) Exit() {
	l.stack = l.stack[:len(l.stack)-1]
}

func collectExports(b *ast.Builder, f ast.File) map[string]ast.ItemID {
	out := make(map[string]ast.ItemID)
	for _, itemID := range f.Items {
		it := b.Item(itemID)
		if it == nil || !it.Pub {
			continue
		}
		switch it.Kind {
		case ast.ItemLet, ast.ItemConst, ast.ItemFn, ast.ItemExternFn, ast.ItemType:
			out[b.Strings.MustLookup(it.Name)] = itemID
		}
	}
	return out
}
