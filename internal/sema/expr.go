package sema

import (
	"lemonc/internal/ast"
	"lemonc/internal/borrow"
	"lemonc/internal/diag"
	"lemonc/internal/symbols"
	"lemonc/internal/types"
)

// checkExpr computes a TypedValue for id, recording its resolved type in
// the Event map (spec.md §4.4). ok is false once a Type/Resolve/Ownership
// error made the expression's value unusable to its caller; checking
// still proceeds past such an expression where structurally possible, so
// a single mistake doesn't cascade into every sibling.
func (c *Checker) checkExpr(id ast.ExprID) (borrow.TypedValue, bool) {
	e := c.b.Expr(id)
	if e == nil {
		return borrow.TypedValue{}, false
	}
	var value borrow.TypedValue
	var ok bool
	switch e.Kind {
	case ast.ExprLitInt:
		value, ok = c.checkLitInt(e)
	case ast.ExprLitFloat:
		value, ok = c.checkLitFloat(e)
	case ast.ExprLitString:
		value, ok = c.checkLitString(e)
	case ast.ExprLitChar:
		value, ok = c.checkLitScalar(e, c.types.Builtins().Char)
	case ast.ExprLitBool:
		value, ok = c.checkLitScalar(e, c.types.Builtins().Bool)
	case ast.ExprIdent:
		value, ok = c.checkIdent(e)
	case ast.ExprBinary:
		value, ok = c.checkBinary(e)
	case ast.ExprUnary:
		value, ok = c.checkUnary(e)
	case ast.ExprCall:
		value, ok = c.checkCall(e)
	case ast.ExprStructInit:
		value, ok = c.checkStructInit(e)
	case ast.ExprMember:
		value, ok = c.checkMember(e)
	case ast.ExprAssociate:
		value, ok = c.checkAssociate(e)
	case ast.ExprBorrow:
		value, ok = c.checkBorrow(e)
	case ast.ExprDeref:
		value, ok = c.checkDeref(e)
	case ast.ExprAssign:
		value, ok = c.checkAssign(e)
	case ast.ExprPipe:
		value, ok = c.checkPipe(e)
	case ast.ExprRange:
		value, ok = c.checkRange(e)
	case ast.ExprIf:
		value, ok = c.checkIf(e)
	case ast.ExprBlock:
		value, ok = c.checkBlock(id, e)
	default:
		c.errorf(diag.Type, e.Span, "unhandled expression kind")
		return borrow.TypedValue{}, false
	}
	if ok {
		c.record(id, value.Type)
	}
	return value, ok
}

func (c *Checker) checkLitInt(e *ast.Expr) (borrow.TypedValue, bool) {
	t, ok := c.types.InferIntLiteral(e.IntValue)
	if !ok {
		c.errorf(diag.Type, e.Span, "integer literal %d out of range", e.IntValue)
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValue(t, c.borrow.CreateLocalOwner()), true
}

func (c *Checker) checkLitFloat(e *ast.Expr) (borrow.TypedValue, bool) {
	fits32 := float64(float32(e.FloatValue)) == e.FloatValue
	t := c.types.InferFloatLiteral(fits32)
	return borrow.NewTypedValue(t, c.borrow.CreateLocalOwner()), true
}

// checkLitString types a string literal as the borrowed `str` view into
// static source text, a copy rather than a tracked owner (spec.md §3
// distinguishes Str "borrowed string view" from String "owned string").
func (c *Checker) checkLitString(e *ast.Expr) (borrow.TypedValue, bool) {
	return borrow.NewTypedValue(c.types.Builtins().Str, c.borrow.CreateRawCopy()), true
}

func (c *Checker) checkLitScalar(e *ast.Expr, t types.TypeID) (borrow.TypedValue, bool) {
	return borrow.NewTypedValue(t, c.borrow.CreateRawCopy()), true
}

// checkIdent resolves a name against the Checker Context and threads its
// TypedValue according to kind: an owned value keeps the declaring
// symbol's own RefId as its Source, so a later `let y = x;` correctly
// moves (and drops) it via BorrowOwner; a Borrow-typed or function-valued
// identifier is a trivial copy of the reference, not a move (spec.md
// §4.5; SPEC_FULL.md item 4).
func (c *Checker) checkIdent(e *ast.Expr) (borrow.TypedValue, bool) {
	sym, ok := c.ctx.Lookup(e.Name)
	if !ok {
		name, _ := c.b.Strings.Lookup(e.Name)
		c.errorf(diag.Resolve, e.Span, "undefined name %q", name)
		return borrow.TypedValue{}, false
	}
	if sym.Kind == symbols.KindFunction {
		return borrow.NewTypedValue(sym.Type, c.borrow.CreateRawCopy()), true
	}
	if _, isBorrow := c.types.IsBorrow(sym.Type); isBorrow {
		return borrow.NewTypedValue(sym.Type, c.borrow.CreateRawCopy()), true
	}
	return borrow.NewTypedValue(sym.Type, sym.Ref), true
}

func (c *Checker) checkBinary(e *ast.Expr) (borrow.TypedValue, bool) {
	left, lok := c.checkExpr(e.Left)
	right, rok := c.checkExpr(e.Right)
	if !lok || !rok {
		return borrow.TypedValue{}, false
	}
	switch e.Op {
	case ast.BinEq, ast.BinNotEq, ast.BinLt, ast.BinLtEq, ast.BinGt, ast.BinGtEq:
		if !c.types.Equal(left.Type, right.Type) {
			if _, ok := c.types.Unify(left.Type, right.Type); !ok {
				c.errorf(diag.Type, e.Span, "cannot compare %s with %s",
					c.types.Display(left.Type, c.b.Strings), c.types.Display(right.Type, c.b.Strings))
				return borrow.TypedValue{}, false
			}
		}
		return borrow.NewTypedValue(c.types.Builtins().Bool, c.borrow.CreateLocalOwner()), true
	default:
		resolved, ok := c.types.Unify(left.Type, right.Type)
		if !ok {
			c.errorf(diag.Type, e.Span, "type mismatch: %s vs %s",
				c.types.Display(left.Type, c.b.Strings), c.types.Display(right.Type, c.b.Strings))
			return borrow.TypedValue{}, false
		}
		if !c.types.IsNumeric(resolved) {
			c.errorf(diag.Type, e.Span, "operator requires numeric operands, found %s",
				c.types.Display(resolved, c.b.Strings))
			return borrow.TypedValue{}, false
		}
		return borrow.NewTypedValue(resolved, c.borrow.CreateLocalOwner()), true
	}
}

func (c *Checker) checkUnary(e *ast.Expr) (borrow.TypedValue, bool) {
	operand, ok := c.checkExpr(e.Operand)
	if !ok {
		return borrow.TypedValue{}, false
	}
	switch e.UOp {
	case ast.UnaryNot:
		if !c.types.Equal(operand.Type, c.types.Builtins().Bool) {
			c.errorf(diag.Type, e.Span, "`!` requires bool, found %s", c.types.Display(operand.Type, c.b.Strings))
			return borrow.TypedValue{}, false
		}
		return borrow.NewTypedValue(c.types.Builtins().Bool, c.borrow.CreateRawCopy()), true
	case ast.UnaryNeg:
		if !c.types.IsNumeric(operand.Type) {
			c.errorf(diag.Type, e.Span, "unary `-` requires a numeric operand, found %s", c.types.Display(operand.Type, c.b.Strings))
			return borrow.TypedValue{}, false
		}
		return borrow.NewTypedValue(operand.Type, c.borrow.CreateLocalOwner()), true
	}
	return borrow.TypedValue{}, false
}

func (c *Checker) checkCall(e *ast.Expr) (borrow.TypedValue, bool) {
	callee := c.b.Expr(e.Callee)
	if callee == nil || callee.Kind != ast.ExprIdent {
		c.errorf(diag.Type, e.Span, "call target must be a named function")
		return borrow.TypedValue{}, false
	}
	sym, ok := c.ctx.Lookup(callee.Name)
	if !ok {
		name, _ := c.b.Strings.Lookup(callee.Name)
		c.errorf(diag.Resolve, callee.Span, "undefined function %q", name)
		return borrow.TypedValue{}, false
	}
	var params []types.TypeID
	var ret types.TypeID
	var variadic bool
	if info, isFn := c.types.Fn(sym.Type); isFn {
		params, ret = info.Params, info.Ret
	} else if info, isExtern := c.types.ExternFn(sym.Type); isExtern {
		params, ret, variadic = info.Params, info.Ret, info.Variadic
	} else {
		c.errorf(diag.Type, e.Span, "called value is not a function")
		return borrow.TypedValue{}, false
	}
	if len(e.Args) < len(params) || (!variadic && len(e.Args) != len(params)) {
		c.errorf(diag.Type, e.Span, "expected %d argument(s), found %d", len(params), len(e.Args))
		return borrow.TypedValue{}, false
	}
	allOK := true
	for i, argID := range e.Args {
		arg, aok := c.checkExpr(argID)
		if !aok {
			allOK = false
			continue
		}
		if i < len(params) {
			if _, uok := c.types.Unify(arg.Type, params[i]); !uok {
				c.errorf(diag.Type, c.span(argID), "argument %d: expected %s, found %s",
					i+1, c.types.Display(params[i], c.b.Strings), c.types.Display(arg.Type, c.b.Strings))
				allOK = false
				continue
			}
		}
		// A by-value argument naming an owned-type variable moves it, the
		// same as `let y = x;` (spec.md §4.5); passing an
		// already-moved variable is a use-after-move error. Literals and
		// other freshly-constructed values can never already be moved, so
		// only a bare identifier argument needs the check.
		if argExpr := c.b.Expr(argID); argExpr != nil && argExpr.Kind == ast.ExprIdent {
			if _, isBorrow := c.types.IsBorrow(arg.Type); !isBorrow {
				if err := c.borrow.CanBorrowOwner(&arg); err != nil {
					c.errorf(diag.Ownership, c.span(argID), "%v", err)
					allOK = false
				}
			}
		}
	}
	if !allOK {
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValue(ret, c.borrow.CreateLocalOwner()), true
}

func (c *Checker) checkStructInit(e *ast.Expr) (borrow.TypedValue, bool) {
	name, _ := c.b.Strings.Lookup(e.TypeName)
	structType, ok := c.types.LookupTypeDefinition(name)
	if !ok {
		c.errorf(diag.Resolve, e.Span, "undefined type %q", name)
		return borrow.TypedValue{}, false
	}
	info, isStruct := c.types.Struct(structType)
	if !isStruct {
		c.errorf(diag.Type, e.Span, "%q is not a struct type", name)
		return borrow.TypedValue{}, false
	}
	if len(e.Fields) != len(info.Fields) {
		c.errorf(diag.Type, e.Span, "struct %q expects %d field(s), found %d", name, len(info.Fields), len(e.Fields))
		return borrow.TypedValue{}, false
	}
	allOK := true
	for _, fi := range e.Fields {
		declared, ok := c.types.Field(structType, fi.Name)
		if !ok {
			fname, _ := c.b.Strings.Lookup(fi.Name)
			c.errorf(diag.Type, c.span(fi.Value), "struct %q has no field %q", name, fname)
			allOK = false
			continue
		}
		val, vok := c.checkExpr(fi.Value)
		if !vok {
			allOK = false
			continue
		}
		if _, uok := c.types.Unify(val.Type, declared); !uok {
			fname, _ := c.b.Strings.Lookup(fi.Name)
			c.errorf(diag.Type, c.span(fi.Value), "field %q: expected %s, found %s",
				fname, c.types.Display(declared, c.b.Strings), c.types.Display(val.Type, c.b.Strings))
			allOK = false
		}
	}
	if !allOK {
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValue(structType, c.borrow.CreateLocalOwner()), true
}

// checkMember resolves `base.member`, either a field projection (which
// inherits the base's Source, since reading a field does not move or
// re-borrow the struct) or a method reference on the base's type.
func (c *Checker) checkMember(e *ast.Expr) (borrow.TypedValue, bool) {
	base, ok := c.checkExpr(e.Base)
	if !ok {
		return borrow.TypedValue{}, false
	}
	structType := base.Type
	if b, isBorrow := c.types.IsBorrow(structType); isBorrow {
		structType = b.Elem
	}
	if ft, ok := c.types.Field(structType, e.Member); ok {
		return borrow.NewTypedValueFromSource(ft, base.Source), true
	}
	if fn, ok := c.types.Method(structType, e.Member); ok {
		return borrow.NewTypedValue(fn, c.borrow.CreateRawCopy()), true
	}
	name, _ := c.b.Strings.Lookup(e.Member)
	c.errorf(diag.Type, e.Span, "no field or method %q", name)
	return borrow.TypedValue{}, false
}

// checkAssociate resolves `N::m`, an associated (non-method) function
// reference on the struct type named by the base identifier.
func (c *Checker) checkAssociate(e *ast.Expr) (borrow.TypedValue, bool) {
	base := c.b.Expr(e.Base)
	if base == nil || base.Kind != ast.ExprIdent {
		c.errorf(diag.Type, e.Span, "`::` base must name a type")
		return borrow.TypedValue{}, false
	}
	name, _ := c.b.Strings.Lookup(base.Name)
	structType, ok := c.types.LookupTypeDefinition(name)
	if !ok {
		c.errorf(diag.Resolve, base.Span, "undefined type %q", name)
		return borrow.TypedValue{}, false
	}
	fn, ok := c.types.Method(structType, e.Member)
	if !ok {
		member, _ := c.b.Strings.Lookup(e.Member)
		c.errorf(diag.Type, e.Span, "%q has no associated function %q", name, member)
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValue(fn, c.borrow.CreateRawCopy()), true
}

func (c *Checker) checkBorrow(e *ast.Expr) (borrow.TypedValue, bool) {
	operand, ok := c.checkExpr(e.Operand)
	if !ok {
		return borrow.TypedValue{}, false
	}
	var newRef borrow.RefId
	var err error
	if e.Mutable {
		newRef, err = c.borrow.BorrowMutable(&operand)
	} else {
		newRef, err = c.borrow.BorrowImmutable(&operand)
	}
	if err != nil {
		c.errorf(diag.Ownership, e.Span, "%v", err)
		return borrow.TypedValue{}, false
	}
	borrowType := c.types.NewBorrow(operand.Type, e.Mutable, true)
	return borrow.NewTypedValue(borrowType, newRef), true
}

func (c *Checker) checkDeref(e *ast.Expr) (borrow.TypedValue, bool) {
	operand, ok := c.checkExpr(e.Operand)
	if !ok {
		return borrow.TypedValue{}, false
	}
	info, isBorrow := c.types.IsBorrow(operand.Type)
	if !isBorrow {
		c.errorf(diag.Type, e.Span, "`*` requires a borrow, found %s", c.types.Display(operand.Type, c.b.Strings))
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValueFromSource(info.Elem, operand.Source), true
}

// checkAssign requires the target be an identifier or field-projection
// place bound mutably, unifies value's type against it, and yields Unit
// (spec.md §7 "cannot assign to immutable").
func (c *Checker) checkAssign(e *ast.Expr) (borrow.TypedValue, bool) {
	value, ok := c.checkExpr(e.Value)
	if !ok {
		return borrow.TypedValue{}, false
	}
	target := c.b.Expr(e.Target)
	switch target.Kind {
	case ast.ExprIdent:
		sym, ok := c.ctx.Lookup(target.Name)
		if !ok {
			name, _ := c.b.Strings.Lookup(target.Name)
			c.errorf(diag.Resolve, target.Span, "undefined name %q", name)
			return borrow.TypedValue{}, false
		}
		if !sym.Mutable {
			name, _ := c.b.Strings.Lookup(target.Name)
			c.errorf(diag.Type, e.Span, "cannot assign to immutable variable %q", name)
			return borrow.TypedValue{}, false
		}
		if _, uok := c.types.Unify(value.Type, sym.Type); !uok {
			c.errorf(diag.Type, e.Span, "cannot assign %s to variable of type %s",
				c.types.Display(value.Type, c.b.Strings), c.types.Display(sym.Type, c.b.Strings))
			return borrow.TypedValue{}, false
		}
	case ast.ExprMember, ast.ExprDeref:
		if _, ok := c.checkExpr(e.Target); !ok {
			return borrow.TypedValue{}, false
		}
	default:
		c.errorf(diag.Type, e.Span, "invalid assignment target")
		return borrow.TypedValue{}, false
	}
	return borrow.NewTypedValue(c.types.Builtins().Unit, c.borrow.CreateLocalOwner()), true
}

// checkPipe checks a `|>` expression. Full pipeline desugaring into a
// call is left to a later pass (spec.md Non-goals does not mention pipe
// lowering specifically, but no end-to-end scenario exercises it); here
// it is type-checked structurally and threads the right-hand side's type
// through, since `a |> f` is expected to behave like `f(a)`.
func (c *Checker) checkPipe(e *ast.Expr) (borrow.TypedValue, bool) {
	if _, ok := c.checkExpr(e.Left); !ok {
		return borrow.TypedValue{}, false
	}
	right, ok := c.checkExpr(e.Right)
	if !ok {
		return borrow.TypedValue{}, false
	}
	return right, true
}

// checkRange checks a `..` range expression. Ranges only ever appear as
// a for-loop's iterable, and for-loops are rejected outright (spec.md
// §9), so this only needs to validate both bounds are well-formed
// integers; its own recorded type is its left bound's type.
func (c *Checker) checkRange(e *ast.Expr) (borrow.TypedValue, bool) {
	left, lok := c.checkExpr(e.Left)
	right, rok := c.checkExpr(e.Right)
	if !lok || !rok {
		return borrow.TypedValue{}, false
	}
	if !c.types.IsInt(left.Type) || !c.types.IsInt(right.Type) {
		c.errorf(diag.Type, e.Span, "range bounds must be integers")
		return borrow.TypedValue{}, false
	}
	return left, true
}

// checkIf type-checks an if-expression. With both branches present, the
// result's Source is the union of both branches' sources (spec.md
// GLOSSARY "Union source"): a later use of the if's value may have come
// from either branch, so the borrow checker must consider both owners.
func (c *Checker) checkIf(e *ast.Expr) (borrow.TypedValue, bool) {
	cond, ok := c.checkExpr(e.Cond)
	if !ok {
		return borrow.TypedValue{}, false
	}
	if !c.types.Equal(cond.Type, c.types.Builtins().Bool) {
		c.errorf(diag.Type, c.span(e.Cond), "if condition must be bool, found %s", c.types.Display(cond.Type, c.b.Strings))
		return borrow.TypedValue{}, false
	}
	then, thenOK := c.checkExpr(e.Then)
	if !e.HasElse {
		if !thenOK {
			return borrow.TypedValue{}, false
		}
		return borrow.NewTypedValue(c.types.Builtins().Unit, c.borrow.CreateLocalOwner()), true
	}
	els, elseOK := c.checkExpr(e.Else)
	if !thenOK || !elseOK {
		return borrow.TypedValue{}, false
	}
	resolved, uok := c.types.Unify(then.Type, els.Type)
	if !uok {
		c.errorf(diag.Type, e.Span, "if branches have incompatible types: %s vs %s",
			c.types.Display(then.Type, c.b.Strings), c.types.Display(els.Type, c.b.Strings))
		return borrow.TypedValue{}, false
	}
	return borrow.TypedValue{Type: resolved, Source: borrow.UnionSource(then.Source, els.Source)}, true
}

// checkBlock checks a `{ ... }` block expression: its own ScopeBlock,
// every statement in order, an optional trailing value, then releases
// every symbol declared directly within it (spec.md §4.5
// "release_all_from_scope" on ordinary scope exit).
func (c *Checker) checkBlock(id ast.ExprID, e *ast.Expr) (borrow.TypedValue, bool) {
	outer := c.ctx.Current()
	scope := c.ctx.Enter(symbols.ScopeBlock)
	allOK := true
	for _, stmtID := range e.Stmts {
		if !c.checkStmt(stmtID) {
			allOK = false
		}
	}
	var value borrow.TypedValue
	if e.HasTrailing {
		var vok bool
		value, vok = c.checkExpr(e.Trailing)
		if !vok {
			allOK = false
		}
	} else {
		value = borrow.NewTypedValue(c.types.Builtins().Unit, c.borrow.CreateLocalOwner())
	}
	c.releaseScope(scope)
	c.ctx.Exit(outer)
	if !allOK {
		return borrow.TypedValue{}, false
	}
	return value, true
}

// releaseScope drops the borrow-arena reference of every symbol declared
// directly within scope (not its children, which already released their
// own on their own exit).
func (c *Checker) releaseScope(scope symbols.ScopeID) {
	s := c.ctx.Scopes.Get(scope)
	if s == nil {
		return
	}
	for _, symID := range s.NameIndex {
		sym := c.ctx.Symbols.Get(symID)
		if sym == nil || !sym.Ref.IsValid() {
			continue
		}
		c.borrow.Release(borrow.SingleSource(sym.Ref))
	}
}
