package ir

import (
	"fmt"
	"io"

	"lemonc/internal/ast"
	"lemonc/internal/source"
	"lemonc/internal/types"
)

// binOpName/unOpName spell operators the way the disassembler's textual
// grammar names them — not the AST package's own operator spelling, which
// lowering never needs to print itself.
func binOpName(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "add"
	case ast.BinSub:
		return "sub"
	case ast.BinMul:
		return "mul"
	case ast.BinDiv:
		return "div"
	case ast.BinMod:
		return "mod"
	case ast.BinPow:
		return "pow"
	case ast.BinXor:
		return "xor"
	case ast.BinEq:
		return "eq"
	case ast.BinNotEq:
		return "ne"
	case ast.BinLt:
		return "lt"
	case ast.BinLtEq:
		return "le"
	case ast.BinGt:
		return "gt"
	case ast.BinGtEq:
		return "ge"
	case ast.BinBitOr:
		return "bitor"
	case ast.BinShl:
		return "shl"
	case ast.BinShr:
		return "shr"
	default:
		return "<binop?>"
	}
}

func unOpName(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNot:
		return "not"
	case ast.UnaryNeg:
		return "neg"
	default:
		return "<unop?>"
	}
}

// Disassemble writes the canonical textual form of prog (spec.md §4.7 "one
// block per paragraph, instructions with operand lists and resulting types
// annotated"). The output is for humans and golden tests, not a parser —
// grounded on the teacher's DumpModule/dumpFunc (internal/mir/print.go).
func Disassemble(w io.Writer, prog *Program, interner *types.Interner, strs *source.Interner) error {
	fmt.Fprintf(w, "funcs=%d\n", len(prog.Functions))
	for _, f := range prog.Functions {
		if err := disasmFunc(w, f, interner, strs); err != nil {
			return err
		}
	}
	return nil
}

func disasmFunc(w io.Writer, f *Function, interner *types.Interner, strs *source.Interner) error {
	kind := "fn"
	if f.IsExtern {
		kind = "extern fn"
	}
	fmt.Fprintf(w, "\n%s %s(", kind, f.Name)
	for i, p := range f.Params {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s: %s", p.Reg, interner.Display(p.Type, strs))
	}
	if f.Variadic {
		if len(f.Params) > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprint(w, "...")
	}
	fmt.Fprintf(w, ") -> %s:\n", interner.Display(f.Ret, strs))

	if f.IsExtern {
		return nil
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(w, "  %s:\n", bb.ID)
		for j := range bb.Instrs {
			fmt.Fprintf(w, "    %s\n", formatInstr(interner, strs, &bb.Instrs[j]))
		}
		fmt.Fprintf(w, "    %s\n", formatTerm(interner, strs, &bb.Term))
	}
	return nil
}

func formatInstr(interner *types.Interner, strs *source.Interner, ins *Instr) string {
	ty := func(t types.TypeID) string { return interner.Display(t, strs) }
	dispVal := func(v Value) string { return v.Format(ty) }

	switch ins.Kind {
	case InstrSAlloc:
		return fmt.Sprintf("%s = salloc %s", ins.Dst, ty(ins.SAlloc.Type))
	case InstrHAlloc:
		return fmt.Sprintf("%s = halloc %s, %d", ins.Dst, ty(ins.HAlloc.Type), ins.HAlloc.Size)
	case InstrSet:
		return fmt.Sprintf("set %s <- %s", dispVal(ins.Set.Ptr), dispVal(ins.Set.Value))
	case InstrLoad:
		return fmt.Sprintf("%s = load %s, %s", ins.Dst, ty(ins.Load.Type), dispVal(ins.Load.Ptr))
	case InstrMov:
		return fmt.Sprintf("%s = mov %s", ins.Dst, dispVal(ins.Mov.Src))
	case InstrBinOp:
		return fmt.Sprintf("%s = %s %s, %s", ins.Dst, binOpName(ins.BinOp.Op), dispVal(ins.BinOp.Left), dispVal(ins.BinOp.Right))
	case InstrUnOp:
		return fmt.Sprintf("%s = %s %s", ins.Dst, unOpName(ins.UnOp.Op), dispVal(ins.UnOp.Operand))
	case InstrGetFieldPtr:
		return fmt.Sprintf("%s = get_field_ptr %s, %s, %s[%d]",
			ins.Dst, ty(ins.GetFieldPtr.StructType), dispVal(ins.GetFieldPtr.Base), ins.GetFieldPtr.FieldName, ins.GetFieldPtr.FieldIndex)
	case InstrCall:
		dst := ""
		if ins.Call.HasDst {
			dst = fmt.Sprintf("%s = ", ins.Dst)
		}
		args := make([]string, len(ins.Call.Args))
		for i, a := range ins.Call.Args {
			args[i] = dispVal(a)
		}
		return fmt.Sprintf("%scall %s -> %s(%s)", dst, ins.Call.Callee, ty(ins.Call.RetType), joinArgs(args))
	case InstrDrop:
		return fmt.Sprintf("drop %s", dispVal(ins.Drop.Place))
	default:
		return "<invalid instr>"
	}
}

func formatTerm(interner *types.Interner, strs *source.Interner, t *Terminator) string {
	dispVal := func(v Value) string { return v.Format(func(tid types.TypeID) string { return interner.Display(tid, strs) }) }
	switch t.Kind {
	case TermJump:
		return fmt.Sprintf("jump %s", t.Jump.Target)
	case TermCondJump:
		return fmt.Sprintf("cond_jump %s ? %s : %s", dispVal(t.CondJump.Cond), t.CondJump.Then, t.CondJump.Else)
	case TermRet:
		if !t.Ret.HasValue {
			return "ret"
		}
		return fmt.Sprintf("ret %s", dispVal(t.Ret.Value))
	default:
		return "<unterminated>"
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
