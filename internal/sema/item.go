package sema

import (
	"lemonc/internal/ast"
	"lemonc/internal/borrow"
	"lemonc/internal/diag"
	"lemonc/internal/source"
	"lemonc/internal/symbols"
	"lemonc/internal/types"
)

// hoistTypes registers every `type N = ...` name before any field or
// signature is resolved, so structs may reference each other regardless
// of declaration order. Struct TypeIDs are reserved with empty field
// lists in this pass and filled in once every name is visible.
func (c *Checker) hoistTypes() {
	for _, id := range c.file.Items {
		it := c.b.Item(id)
		if it.Kind != ast.ItemType {
			continue
		}
		name, _ := c.b.Strings.Lookup(it.Name)
		switch it.TypeDeclKind {
		case ast.TypeDeclStruct:
			t := c.types.NewStruct(it.Name, nil)
			c.types.AddTypeDefinition(name, t)
			c.ctx.Declare(it.Name, symbols.Symbol{
				Name: it.Name, Kind: symbols.KindType, Scope: c.ctx.Global(), Span: it.Span, Type: t, Item: id,
			})
		case ast.TypeDeclAlias:
			// Resolved in the second pass below, once struct names exist.
		}
	}
	for _, id := range c.file.Items {
		it := c.b.Item(id)
		if it.Kind != ast.ItemType {
			continue
		}
		name, _ := c.b.Strings.Lookup(it.Name)
		switch it.TypeDeclKind {
		case ast.TypeDeclStruct:
			t, _ := c.types.LookupTypeDefinition(name)
			fields := make([]types.StructField, 0, len(it.Fields))
			for _, f := range it.Fields {
				ft, ok := c.resolveTypeExpr(f.TypeAnn, false)
				if !ok {
					continue
				}
				fields = append(fields, types.StructField{Name: f.Name, Type: ft})
			}
			c.types.SetFields(t, fields)
		case ast.TypeDeclAlias:
			aliasTo, ok := c.resolveTypeExpr(it.Alias, false)
			if !ok {
				continue
			}
			c.types.AddTypeDefinition(name, aliasTo)
			c.ctx.Declare(it.Name, symbols.Symbol{
				Name: it.Name, Kind: symbols.KindType, Scope: c.ctx.Global(), Span: it.Span, Type: aliasTo, Item: id,
			})
		}
	}
}

// hoistImports resolves every import("path") item by delegating to the
// Importer, then declares each exported name directly in this module's
// global scope so unqualified calls into the imported module work
// (spec.md §8 scenario 6: "A calls add(1,2)" with no module-qualifier).
func (c *Checker) hoistImports() {
	for _, id := range c.file.Items {
		it := c.b.Item(id)
		if it.Kind != ast.ItemImport {
			continue
		}
		path, _ := c.b.Strings.Lookup(it.ImportPath)
		if c.importer == nil {
			c.errorf(diag.Resolve, it.Span, "cannot resolve import %q: no module loader configured", path)
			continue
		}
		imported, err := c.importer.Import(c.path, path)
		if err != nil {
			c.errorf(diag.Resolve, it.Span, "import %q: %v", path, err)
			continue
		}
		for name, exp := range imported.Exports {
			strID := c.b.Strings.Intern(name)
			c.ctx.Declare(strID, symbols.Symbol{
				Name: strID, Kind: exp.Kind, Scope: c.ctx.Global(), Span: it.Span, Type: exp.Type, Item: id,
			})
		}
	}
}

// hoistSignatures registers the type of every top-level fn, extern fn,
// let, and const before any body is checked, so forward references
// within the module resolve (spec.md §4.4 builds a Fn/ExternFn type and
// "registers as a function value in the current scope" before checking).
func (c *Checker) hoistSignatures() {
	for _, id := range c.file.Items {
		it := c.b.Item(id)
		switch it.Kind {
		case ast.ItemFn:
			c.hoistFnSignature(id, it)
		case ast.ItemExternFn:
			c.hoistExternFnSignature(id, it)
		case ast.ItemImpl:
			c.hoistImplSignatures(id, it)
		}
	}
}

func (c *Checker) hoistFnSignature(id ast.ItemID, it *ast.Item) {
	params := make([]types.TypeID, 0, len(it.Params))
	for _, p := range it.Params {
		pt, ok := c.resolveTypeExpr(p.TypeAnn, false)
		if !ok {
			pt = c.types.Builtins().Void
		}
		params = append(params, pt)
	}
	ret := c.types.Builtins().Unit
	if it.Ret.IsValid() {
		if rt, ok := c.resolveTypeExpr(it.Ret, false); ok {
			ret = rt
		}
	}
	fnType := c.types.NewFn(params, ret, nil)
	c.itemTypes[id] = fnType
	c.ctx.Declare(it.Name, symbols.Symbol{
		Name: it.Name, Kind: symbols.KindFunction, Scope: c.ctx.Global(), Span: it.Span, Type: fnType, Item: id,
	})
}

func (c *Checker) hoistExternFnSignature(id ast.ItemID, it *ast.Item) {
	params := make([]types.TypeID, 0, len(it.Params))
	for _, p := range it.Params {
		pt, ok := c.resolveTypeExpr(p.TypeAnn, false)
		if !ok {
			pt = c.types.Builtins().Void
		}
		params = append(params, pt)
	}
	ret := c.types.Builtins().Unit
	if it.Ret.IsValid() {
		if rt, ok := c.resolveTypeExpr(it.Ret, false); ok {
			ret = rt
		}
	}
	externType := c.types.NewExternFn(params, ret, it.Variadic)
	c.itemTypes[id] = externType
	c.ctx.Declare(it.Name, symbols.Symbol{
		Name: it.Name, Kind: symbols.KindFunction, Scope: c.ctx.Global(), Span: it.Span, Type: externType, Item: id,
	})
}

// hoistImplSignatures resolves the target struct and registers each
// method's Fn type on that struct, with an implicit `&self`/`&mut self`
// first parameter (spec.md §4.4 "first-parameter type &self or &mut self
// is shorthand for a borrow of N").
func (c *Checker) hoistImplSignatures(_ ast.ItemID, it *ast.Item) {
	targetName, _ := c.b.Strings.Lookup(it.ImplTarget)
	target, ok := c.types.LookupTypeDefinition(targetName)
	if !ok {
		c.errorf(diag.Resolve, it.Span, "impl target %q is not a declared type", targetName)
		return
	}
	for _, methodID := range it.Methods {
		m := c.b.Item(methodID)
		params := make([]types.TypeID, 0, len(m.Params))
		for _, p := range m.Params {
			pname, _ := c.b.Strings.Lookup(p.Name)
			if pname == "self" {
				params = append(params, c.types.NewBorrow(target, true, false))
				continue
			}
			pt, ok := c.resolveTypeExpr(p.TypeAnn, false)
			if !ok {
				pt = c.types.Builtins().Void
			}
			params = append(params, pt)
		}
		ret := c.types.Builtins().Unit
		if m.Ret.IsValid() {
			if rt, ok := c.resolveTypeExpr(m.Ret, false); ok {
				ret = rt
			}
		}
		fnType := c.types.NewFn(params, ret, nil)
		c.itemTypes[methodID] = fnType
		c.types.AddMethod(target, m.Name, fnType)
	}
	c.types.MarkImplemented(target)
}

// checkItemBody checks the body of a declaration that has one (function
// bodies, method bodies, top-level let/const initializers); types,
// imports, and signatures were already hoisted.
func (c *Checker) checkItemBody(id ast.ItemID) {
	it := c.b.Item(id)
	switch it.Kind {
	case ast.ItemFn:
		c.checkFnBody(id, it, types.NoTypeID)
	case ast.ItemExternFn, ast.ItemType, ast.ItemImport:
		// no body to check
	case ast.ItemLet, ast.ItemConst:
		c.checkTopLevelBinding(id, it)
	case ast.ItemImpl:
		c.checkImplBody(it)
	}
}

func (c *Checker) checkTopLevelBinding(id ast.ItemID, it *ast.Item) {
	value, ok := c.checkExpr(it.Value)
	if !ok {
		return
	}
	declared := types.NoTypeID
	if it.TypeAnn.IsValid() {
		declared, ok = c.resolveTypeExpr(it.TypeAnn, false)
		if !ok {
			return
		}
	}
	resolved := c.unifyOrDefault(value.Type, declared, it.Span)
	// Same reasoning as checkLetStmt: record the binding's own
	// (pre-Const-wrap) resolved type onto its value expression, not the
	// literal's pre-default inference type.
	c.record(it.Value, resolved)
	if it.Kind == ast.ItemConst {
		resolved = c.types.NewConst(resolved)
	}
	ref, err := c.bindValue(&value)
	if err != nil {
		c.errorf(diag.Ownership, it.Span, "%v", err)
		return
	}
	c.itemTypes[id] = resolved
	c.ctx.Declare(it.Name, symbols.Symbol{
		Name: it.Name, Kind: symbols.KindVariable, Scope: c.ctx.Global(), Span: it.Span,
		Type: resolved, Mutable: it.Mut, Ref: ref, Item: id,
	})
}

func (c *Checker) checkImplBody(it *ast.Item) {
	targetName, _ := c.b.Strings.Lookup(it.ImplTarget)
	target, ok := c.types.LookupTypeDefinition(targetName)
	if !ok {
		return
	}
	outer := c.ctx.Current()
	c.ctx.Enter(symbols.ScopeImpl)
	for _, methodID := range it.Methods {
		c.checkFnBody(methodID, c.b.Item(methodID), target)
	}
	c.ctx.Exit(outer)
}

func (c *Checker) checkFnBody(id ast.ItemID, it *ast.Item, selfType types.TypeID) {
	fnType, ok := c.lookupFnType(id, it, selfType)
	if !ok {
		return
	}
	info, _ := c.types.Fn(fnType)
	outer := c.ctx.Current()
	fnScope := c.ctx.Enter(symbols.ScopeFunction)
	c.ctx.PushReturnType(info.Ret)
	for i, p := range it.Params {
		pname, _ := c.b.Strings.Lookup(p.Name)
		ref := c.borrow.CreateOwner()
		c.ctx.Declare(p.Name, symbols.Symbol{
			Name: p.Name, Kind: symbols.KindVariable, Scope: fnScope, Span: it.Span,
			Type: info.Params[i], Mutable: pname == "self", Ref: ref, Item: id,
		})
	}
	bodyBlock := c.b.Expr(it.Body)
	bodyValue, bodyOK := c.checkExpr(it.Body)
	// A block whose last element is a value with no trailing `;` is an
	// implicit return of that value (spec.md §4.4); a body that only
	// returns via explicit `ret` has a Unit-typed block value instead,
	// which is not compared against the declared return type.
	trailingReturns := false
	if bodyBlock != nil && bodyBlock.HasTrailing {
		if tr := c.b.Expr(bodyBlock.Trailing); tr != nil && (tr.Kind == ast.ExprBlock || tr.Kind == ast.ExprIf) {
			trailingReturns = c.blockAlwaysReturns(bodyBlock.Trailing)
		}
	}
	if bodyOK && bodyBlock != nil && bodyBlock.HasTrailing && !trailingReturns && info.Ret != c.types.Builtins().Unit {
		if _, ok := c.types.Unify(bodyValue.Type, info.Ret); !ok {
			c.errorf(diag.Type, c.span(it.Body), "function body type %s does not match return type %s",
				c.types.Display(bodyValue.Type, c.b.Strings), c.types.Display(info.Ret, c.b.Strings))
		}
	}
	c.ctx.PopReturnType()
	if info.Ret != c.types.Builtins().Unit && info.Ret != c.types.Builtins().Void {
		if !c.blockAlwaysReturns(it.Body) {
			c.errorf(diag.Type, it.Span, "not all paths return a value")
		}
	}
	c.ctx.Exit(outer)
}

func (c *Checker) lookupFnType(_ ast.ItemID, it *ast.Item, selfType types.TypeID) (types.TypeID, bool) {
	if selfType != types.NoTypeID {
		if fnType, ok := c.types.Method(selfType, it.Name); ok {
			return fnType, true
		}
		return types.NoTypeID, false
	}
	sym, ok := c.ctx.Lookup(it.Name)
	if !ok {
		return types.NoTypeID, false
	}
	return sym.Type, true
}

// bindValue picks the RefId a new `let`/`const` binding should record as
// its Symbol.Ref. An owned value moves, the same as the borrow checker's
// BorrowOwner (drops whatever backed the right-hand side, mints a fresh
// owner). A Borrow-typed or RawCopy-backed value — e.g. the result of a
// `&e` expression, or a scalar identifier read — is bound directly to its
// own already-allocated reference instead: it was never an owner, so
// running it through BorrowOwner's move machinery would incorrectly
// reject it as "not an owner".
func (c *Checker) bindValue(value *borrow.TypedValue) (borrow.RefId, error) {
	if _, isBorrow := c.types.IsBorrow(value.Type); isBorrow {
		if ids := value.Source.Ids(); len(ids) == 1 {
			return ids[0], nil
		}
		return c.borrow.CreateRawCopy(), nil
	}
	return c.borrow.BorrowOwner(value)
}

// unifyOrDefault unifies got with declared when declared is valid,
// falling back to resolving a leftover inferred numeric type to its
// default otherwise (spec.md §4.4 numeric inference).
func (c *Checker) unifyOrDefault(got, declared types.TypeID, span source.Span) types.TypeID {
	if declared == types.NoTypeID {
		return c.types.DefaultNumeric(got)
	}
	resolved, ok := c.types.Unify(got, declared)
	if !ok {
		c.errorf(diag.Type, span, "type mismatch: expected %s, found %s",
			c.types.Display(declared, c.b.Strings), c.types.Display(got, c.b.Strings))
		return declared
	}
	return resolved
}
