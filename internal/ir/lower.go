package ir

import (
	"lemonc/internal/ast"
	"lemonc/internal/sema"
	"lemonc/internal/types"
)

// lowering holds the state shared across one module's IR lowering: the
// checked AST plus the sema Result it reads types from (spec.md §4.6's
// "Expression lowering" operates entirely off an already-typed AST, never
// re-deriving types itself), and the funcBuilder for whichever function is
// currently being lowered.
type lowering struct {
	b      *ast.Builder
	types  *types.Interner
	result *sema.Result
	fb     *funcBuilder

	// fnSigs maps every top-level fn/extern-fn's name to its TypeID, so
	// lowerCall can resolve a call's argument/return types without
	// re-deriving them (the Event map has no entry for a call's own callee
	// identifier — checkCall resolves it by direct scope lookup, never
	// through checkExpr).
	fnSigs map[string]types.TypeID
}

// Lower walks a checked module's items and produces the root IR (spec.md
// §4.6): one Function per `fn`/`extern fn` item, plus one per impl method,
// named with the struct's name as a prefix (spec.md §4.6 "using a
// struct-name prefix for methods"). imported, if given, seeds fnSigs with
// further name -> signature entries (internal/compiler passes the
// top-level fn/extern fn signatures of every checked module, pub or not,
// keyed by bare name) so a call
// to an imported function resolves its parameter/return types the same
// way a local call does (spec.md §4.2 scenario 6: "A calls add(1,2)...
// IR contains a call add").
func Lower(b *ast.Builder, file ast.File, interner *types.Interner, result *sema.Result, imported ...map[string]types.TypeID) *Program {
	l := &lowering{b: b, types: interner, result: result, fnSigs: make(map[string]types.TypeID)}
	for _, m := range imported {
		for name, t := range m {
			l.fnSigs[name] = t
		}
	}
	for _, id := range file.Items {
		it := b.Item(id)
		if it.Kind == ast.ItemFn || it.Kind == ast.ItemExternFn {
			name, _ := b.Strings.Lookup(it.Name)
			l.fnSigs[name] = result.ItemTypes[id]
		}
	}
	prog := &Program{}
	for _, id := range file.Items {
		it := b.Item(id)
		switch it.Kind {
		case ast.ItemExternFn:
			prog.Functions = append(prog.Functions, l.lowerExternFn(id, it))
		case ast.ItemFn:
			name, _ := b.Strings.Lookup(it.Name)
			prog.Functions = append(prog.Functions, l.lowerFn(id, it, name))
		case ast.ItemImpl:
			targetName, _ := b.Strings.Lookup(it.ImplTarget)
			for _, methodID := range it.Methods {
				m := b.Item(methodID)
				mname, _ := b.Strings.Lookup(m.Name)
				prog.Functions = append(prog.Functions, l.lowerFn(methodID, m, targetName+"::"+mname))
			}
		}
	}
	return prog
}

func (l *lowering) lowerExternFn(id ast.ItemID, it *ast.Item) *Function {
	info, _ := l.types.ExternFn(l.result.ItemTypes[id])
	f := &Function{IsExtern: true, Variadic: info.Variadic, Ret: info.Ret}
	name, _ := l.b.Strings.Lookup(it.Name)
	f.Name = name
	for i, p := range it.Params {
		pname, _ := l.b.Strings.Lookup(p.Name)
		pt := l.types.Builtins().Void
		if i < len(info.Params) {
			pt = info.Params[i]
		}
		f.Params = append(f.Params, ParamBind{Name: pname, Type: pt})
	}
	return f
}

// lowerFn lowers one function or impl-method body to basic blocks (spec.md
// §4.6 "Lowers the checked AST to IR function-by-function").
func (l *lowering) lowerFn(id ast.ItemID, it *ast.Item, name string) *Function {
	info, _ := l.types.Fn(l.result.ItemTypes[id])
	f := &Function{Name: name, Ret: info.Ret}

	fb := newFuncBuilder()
	l.fb = fb
	entry := fb.newBlock()
	fb.switchTo(entry)

	for i, p := range it.Params {
		pname, _ := l.b.Strings.Lookup(p.Name)
		ptype := l.types.Builtins().Void
		if i < len(info.Params) {
			ptype = info.Params[i]
		}
		argReg := fb.newReg()
		f.Params = append(f.Params, ParamBind{Reg: argReg, Type: ptype, Name: pname})
		slotPtr := fb.salloc(ptype)
		fb.set(RegValue(slotPtr, ptype), RegValue(argReg, ptype))
		fb.declare(p.Name, slotPtr, ptype)
	}

	body := l.b.Expr(it.Body)
	bodyVal, bodyHasVal := l.lowerBlockBody(body)

	if !fb.terminated() {
		hasValue := bodyHasVal && info.Ret != l.types.Builtins().Unit && info.Ret != l.types.Builtins().Void
		l.emitReturn(hasValue, bodyVal)
	}

	fb.finish(f)
	return f
}

// emitReturn drops every heap-owned value the function still holds except
// the one being returned, then terminates with ret (spec.md §4.6 "Return").
// The "except the one being returned" match is by register identity, so it
// only recognizes the direct case `ret <heap-owned local>`; a struct
// reloaded through an intermediate expression gets a fresh register from
// the reload and will be (over-conservatively) dropped too. Precise escape
// tracking is left to the backend pass spec.md §9 already defers layout to.
func (l *lowering) emitReturn(hasValue bool, val Value) {
	for _, fv := range l.fb.freeValues {
		if hasValue && fv.Kind == ValueRegister && val.Kind == ValueRegister && fv.Reg == val.Reg {
			continue
		}
		l.fb.emit(Instr{Kind: InstrDrop, Drop: DropInstr{Place: fv}})
	}
	l.fb.terminate(Terminator{Kind: TermRet, Ret: RetTerm{HasValue: hasValue, Value: val}})
}
