package symbols

import (
	"lemonc/internal/source"
	"lemonc/internal/types"
)

// Context is the Checker Context (spec.md §4.4): the lexical scope tree,
// the symbol arena, and the handful of pieces of state a type-checking
// walk needs threaded through it. It is created fresh per module and
// passed explicitly rather than held in any package-level variable
// (spec.md §9 "Global mutable state: none").
type Context struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	global  ScopeID
	current ScopeID

	// returnStack tracks the declared return type of each function whose
	// body is currently being walked, so a nested closure-like construct
	// (there are none yet, but impl methods nest one level) sees its own
	// function's return type rather than an enclosing one's.
	returnStack []returnFrame
}

type returnFrame struct {
	ret       types.TypeID
	sawReturn bool
}

// NewContext creates a Context rooted in a single ScopeGlobal scope.
func NewContext(strings *source.Interner) *Context {
	scopes := NewScopes(16)
	global := scopes.New(ScopeGlobal, NoScopeID)
	return &Context{
		Scopes:  scopes,
		Symbols: NewSymbols(32),
		Strings: strings,
		global:  global,
		current: global,
	}
}

// Global returns the module's top-level scope.
func (c *Context) Global() ScopeID { return c.global }

// Current returns the scope presently being checked.
func (c *Context) Current() ScopeID { return c.current }

// Enter pushes a new scope of kind nested under the current one and makes
// it current, returning it so the caller can restore with Exit.
func (c *Context) Enter(kind ScopeKind) ScopeID {
	next := c.Scopes.New(kind, c.current)
	c.current = next
	return next
}

// Exit restores the current scope to parent (the scope Enter was called
// from). Callers must pair every Enter with exactly one Exit.
func (c *Context) Exit(parent ScopeID) {
	c.current = parent
}

// Declare binds name in the current scope, returning false if name is
// already declared directly within it; the existing binding is then kept.
// The callers in internal/sema ignore the result and report no diagnostic.
func (c *Context) Declare(name source.StringID, sym Symbol) (SymbolID, bool) {
	id := c.Symbols.Declare(sym)
	if !c.Scopes.Declare(c.current, name, id) {
		return NoSymbolID, false
	}
	return id, true
}

// Lookup resolves name starting from the current scope outward.
func (c *Context) Lookup(name source.StringID) (*Symbol, bool) {
	id, ok := c.Scopes.Lookup(c.current, name)
	if !ok {
		return nil, false
	}
	return c.Symbols.Get(id), true
}

// PushReturnType records the return type of the function body about to be
// checked.
func (c *Context) PushReturnType(ret types.TypeID) {
	c.returnStack = append(c.returnStack, returnFrame{ret: ret})
}

// PopReturnType discards the innermost return-type frame, reporting
// whether at least one `ret` statement was seen on the path that popped
// it.
func (c *Context) PopReturnType() (ret types.TypeID, sawReturn bool) {
	n := len(c.returnStack)
	if n == 0 {
		return 0, false
	}
	frame := c.returnStack[n-1]
	c.returnStack = c.returnStack[:n-1]
	return frame.ret, frame.sawReturn
}

// CurrentReturnType returns the return type of the innermost function
// body being checked, or ok=false at module scope.
func (c *Context) CurrentReturnType() (ret types.TypeID, ok bool) {
	n := len(c.returnStack)
	if n == 0 {
		return 0, false
	}
	return c.returnStack[n-1].ret, true
}

// MarkReturnSeen records that a `ret` statement was encountered on the
// current function's checking path.
func (c *Context) MarkReturnSeen() {
	n := len(c.returnStack)
	if n == 0 {
		return
	}
	c.returnStack[n-1].sawReturn = true
}
