package symbols

import (
	"lemonc/internal/ast"
	"lemonc/internal/borrow"
	"lemonc/internal/source"
	"lemonc/internal/types"
)

// Kind classifies what a Symbol names (spec.md §4.4).
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVariable        // a `let`/`const` binding or function parameter
	KindFunction
	KindType // a struct name or type alias
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindModule:
		return "module"
	default:
		return "invalid"
	}
}

// Symbol is one name bound within a Scope.
type Symbol struct {
	Name  source.StringID
	Kind  Kind
	Scope ScopeID
	Span  source.Span
	Type  types.TypeID

	// Mutable records whether a KindVariable was declared `let mut`; an
	// assignment to an immutable variable is a Type-stage error (spec.md
	// §7 "cannot assign to immutable").
	Mutable bool
	// Ref is the borrow-arena reference currently backing a KindVariable's
	// value, as set at declaration; it is read by Release on scope exit.
	// BorrowOwner (a move) drops the record it names but does not change
	// this field.
	Ref borrow.RefId

	// Item points back at the declaring AST node, for "go to definition"
	// style diagnostics notes.
	Item ast.ItemID
}

// Symbols is the arena of every Symbol declared while checking one module.
type Symbols struct {
	data []Symbol
}

// NewSymbols creates an empty symbol arena.
func NewSymbols(capHint uint32) *Symbols {
	return &Symbols{data: make([]Symbol, 0, capHint)}
}

// Declare allocates a fresh Symbol and returns its id.
func (s *Symbols) Declare(sym Symbol) SymbolID {
	s.data = append(s.data, sym)
	return SymbolID(len(s.data))
}

// Get returns the symbol for id, or nil if id is invalid.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) > len(s.data) {
		return nil
	}
	return &s.data[id-1]
}
