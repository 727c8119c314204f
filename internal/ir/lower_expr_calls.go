package ir

import (
	"lemonc/internal/ast"
	"lemonc/internal/source"
	"lemonc/internal/types"
)

// lowerCall resolves the callee name, coerces each argument to the callee's
// declared parameter type, emits the call, and returns its destination
// register (spec.md §4.6 "Call"). checkCall only accepts a bare identifier
// callee, so method/associate-function calls are not reachable through this
// path yet (DESIGN.md, internal/sema).
func (l *lowering) lowerCall(e *ast.Expr, id ast.ExprID) Value {
	callee := l.b.Expr(e.Callee)
	name, _ := l.b.Strings.Lookup(callee.Name)

	var params []types.TypeID
	var ret types.TypeID
	if sig, ok := l.fnSigs[name]; ok {
		if info, isFn := l.types.Fn(sig); isFn {
			params, ret = info.Params, info.Ret
		} else if info, isExtern := l.types.ExternFn(sig); isExtern {
			params, ret = info.Params, info.Ret
		}
	}
	if ret == types.NoTypeID {
		ret = l.eventType(id)
	}

	args := make([]Value, 0, len(e.Args))
	for i, argID := range e.Args {
		v := l.lowerExpr(argID)
		if i < len(params) {
			v.Type = params[i]
		}
		args = append(args, v)
	}

	hasDst := ret != l.types.Builtins().Unit && ret != l.types.Builtins().Void
	dst := NoReg
	if hasDst {
		dst = l.fb.newReg()
	}
	l.fb.emit(Instr{Kind: InstrCall, Dst: dst, Call: CallInstr{Callee: name, Args: args, HasDst: hasDst, RetType: ret}})
	if !hasDst {
		return BoolValue(false, l.types.Builtins().Unit)
	}
	return RegValue(dst, ret)
}

// lowerStructInit emits a heap allocation for the struct and a
// get_field_ptr/set pair per field (spec.md §4.6 "Struct init"). The
// resulting pointer is registered as a heap-owned value, to be dropped at
// function return unless it escapes via the function's result.
func (l *lowering) lowerStructInit(e *ast.Expr, id ast.ExprID) Value {
	structType := l.eventType(id)
	info, _ := l.types.Struct(structType)

	// Struct layout is the backend's concern; the builder only needs a
	// size to pass through halloc (spec.md §6), so this treats every
	// field as one machine word.
	size := len(info.Fields) * 8

	dst := l.fb.newReg()
	l.fb.emit(Instr{Kind: InstrHAlloc, Dst: dst, HAlloc: HAllocInstr{Type: structType, Size: size}})
	base := RegValue(dst, structType)

	for _, fi := range e.Fields {
		fieldName, _ := l.b.Strings.Lookup(fi.Name)
		fieldType, _ := l.types.Field(structType, fi.Name)
		idx := fieldIndex(info, fi.Name)

		ptrDst := l.fb.newReg()
		l.fb.emit(Instr{Kind: InstrGetFieldPtr, Dst: ptrDst, GetFieldPtr: GetFieldPtrInstr{
			StructType: structType, Base: base, FieldName: fieldName, FieldIndex: idx,
		}})
		val := l.lowerExpr(fi.Value)
		l.fb.set(RegValue(ptrDst, fieldType), val)
	}

	l.fb.freeValues = append(l.fb.freeValues, base)
	return base
}

// lowerMember lowers `base.member`: a field load, or (not reachable while
// checkCall requires a bare-identifier callee) a method reference named
// symbolically with its struct's name as a prefix.
func (l *lowering) lowerMember(e *ast.Expr, id ast.ExprID) Value {
	structType := l.baseStructType(e.Base)
	if fn, ok := l.types.Method(structType, e.Member); ok {
		return l.methodValue(structType, e.Member, fn)
	}
	ptr := l.lowerFieldPtr(e, id)
	return l.fb.load(l.eventType(id), ptr)
}

// lowerAssociate lowers `N::m`, a function value named symbolically (spec.md
// §4.6 "associate method -> symbolic function name, using a struct-name
// prefix"). Not reachable through lowerCall today, same restriction as
// method calls.
func (l *lowering) lowerAssociate(e *ast.Expr, id ast.ExprID) Value {
	base := l.b.Expr(e.Base)
	name, _ := l.b.Strings.Lookup(base.Name)
	structType, _ := l.types.LookupTypeDefinition(name)
	fn, _ := l.types.Method(structType, e.Member)
	return l.methodValue(structType, e.Member, fn)
}

func (l *lowering) methodValue(structType types.TypeID, member source.StringID, fn types.TypeID) Value {
	info, _ := l.types.Struct(structType)
	structName, _ := l.b.Strings.Lookup(info.Name)
	mname, _ := l.b.Strings.Lookup(member)
	return Value{Kind: ValueImmediate, ImmKind: ImmString, StringImm: structName + "::" + mname, Type: fn}
}

// lowerFieldPtr emits get_field_ptr for `base.member` and returns the field
// pointer, leaving the load-or-store decision to the caller (spec.md §4.6
// "Member access x.m -> emit get_field_ptr; the consumer decides whether to
// load or store").
func (l *lowering) lowerFieldPtr(e *ast.Expr, id ast.ExprID) Value {
	structType := l.baseStructType(e.Base)
	info, _ := l.types.Struct(structType)
	fieldName, _ := l.b.Strings.Lookup(e.Member)
	fieldType, _ := l.types.Field(structType, e.Member)
	idx := fieldIndex(info, e.Member)

	base := l.lowerExpr(e.Base)
	ptrDst := l.fb.newReg()
	l.fb.emit(Instr{Kind: InstrGetFieldPtr, Dst: ptrDst, GetFieldPtr: GetFieldPtrInstr{
		StructType: structType, Base: base, FieldName: fieldName, FieldIndex: idx,
	}})
	return RegValue(ptrDst, fieldType)
}

// baseStructType resolves expr's static type to the struct it names,
// unwrapping one layer of Borrow (a method/field access through `&self` or
// an explicit borrow reaches the same struct as a direct value does).
func (l *lowering) baseStructType(expr ast.ExprID) types.TypeID {
	t := l.eventType(expr)
	if b, isBorrow := l.types.IsBorrow(t); isBorrow {
		return b.Elem
	}
	return t
}

func fieldIndex(info *types.StructInfo, name source.StringID) int {
	for i, f := range info.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
