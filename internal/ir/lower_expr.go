package ir

import (
	"lemonc/internal/ast"
	"lemonc/internal/types"
)

// eventType returns id's resolved type from the Event map the type checker
// filled in (spec.md §4.4 "register (ModId, range) -> TypeId in the Event
// map"); lowering never re-infers a type, it only reads this.
func (l *lowering) eventType(id ast.ExprID) types.TypeID {
	t, _ := l.result.Events.Get(id)
	return t
}

// lowerExpr computes id's value. Every case returns a genuine value — an
// immediate, or a register already holding the result (never a bare pointer
// needing a further load); the one exception is lowerPlace, used instead of
// lowerExpr wherever an assignable location (not its contents) is wanted.
func (l *lowering) lowerExpr(id ast.ExprID) Value {
	e := l.b.Expr(id)
	switch e.Kind {
	case ast.ExprLitInt:
		return IntValue(int64(e.IntValue), l.eventType(id))
	case ast.ExprLitFloat:
		return FloatValue(e.FloatValue, l.eventType(id))
	case ast.ExprLitString:
		return StringValue(e.StringValue, l.eventType(id))
	case ast.ExprLitChar:
		return CharValue(e.CharValue, l.eventType(id))
	case ast.ExprLitBool:
		return BoolValue(e.BoolValue, l.eventType(id))
	case ast.ExprIdent:
		return l.lowerIdent(e, id)
	case ast.ExprBinary:
		return l.lowerBinary(e, id)
	case ast.ExprUnary:
		return l.lowerUnary(e, id)
	case ast.ExprCall:
		return l.lowerCall(e, id)
	case ast.ExprStructInit:
		return l.lowerStructInit(e, id)
	case ast.ExprMember:
		return l.lowerMember(e, id)
	case ast.ExprAssociate:
		return l.lowerAssociate(e, id)
	case ast.ExprBorrow:
		// Identity at IR level: a borrow's value IS the operand's address
		// (spec.md §4.6 "Borrow -> identity at IR level"), so this takes the
		// operand's place rather than its loaded contents.
		v := l.lowerPlace(e.Operand)
		v.Type = l.eventType(id)
		return v
	case ast.ExprDeref:
		operand := l.lowerExpr(e.Operand)
		return l.fb.load(l.eventType(id), operand)
	case ast.ExprAssign:
		return l.lowerAssign(e)
	case ast.ExprPipe:
		// checkPipe threads the right-hand side's type through; lowering
		// follows the same simplification: `a |> f` is not desugared into
		// `f(a)`.
		l.lowerExpr(e.Left)
		return l.lowerExpr(e.Right)
	case ast.ExprIf:
		return l.lowerIf(e, id)
	case ast.ExprBlock:
		val, hasVal := l.lowerBlockBody(e)
		if !hasVal {
			return BoolValue(false, l.types.Builtins().Unit)
		}
		return val
	default:
		return Value{}
	}
}

// lowerIdent loads the named local's current value, or resolves a function
// reference symbolically by name.
func (l *lowering) lowerIdent(e *ast.Expr, id ast.ExprID) Value {
	if s, ok := l.fb.lookup(e.Name); ok {
		return l.fb.load(s.Type, RegValue(s.Ptr, s.Type))
	}
	// A function value used as a call target never reaches here (lowerCall
	// resolves ExprIdent callees directly by name); any other identifier
	// reference to a function is a first-class function value, represented
	// symbolically by its name text — not exercised by any spec.md §8
	// scenario.
	name, _ := l.b.Strings.Lookup(e.Name)
	return Value{Kind: ValueImmediate, ImmKind: ImmString, StringImm: name, Type: l.eventType(id)}
}

func (l *lowering) lowerBinary(e *ast.Expr, id ast.ExprID) Value {
	left := l.lowerExpr(e.Left)
	right := l.lowerExpr(e.Right)
	resultType := l.eventType(id)
	dst := l.fb.newReg()
	l.fb.emit(Instr{Kind: InstrBinOp, Dst: dst, BinOp: BinOpInstr{Op: e.Op, Left: left, Right: right}})
	return RegValue(dst, resultType)
}

func (l *lowering) lowerUnary(e *ast.Expr, id ast.ExprID) Value {
	operand := l.lowerExpr(e.Operand)
	resultType := l.eventType(id)
	dst := l.fb.newReg()
	l.fb.emit(Instr{Kind: InstrUnOp, Dst: dst, UnOp: UnOpInstr{Op: e.UOp, Operand: operand}})
	return RegValue(dst, resultType)
}

func (l *lowering) lowerAssign(e *ast.Expr) Value {
	rhs := l.lowerExpr(e.Value)
	ptr := l.lowerPlace(e.Target)
	l.fb.set(ptr, rhs)
	return BoolValue(false, l.types.Builtins().Unit)
}

// lowerPlace lowers an assignable target to its pointer Value, without the
// implicit load lowerExpr would otherwise apply.
func (l *lowering) lowerPlace(id ast.ExprID) Value {
	e := l.b.Expr(id)
	switch e.Kind {
	case ast.ExprIdent:
		s, _ := l.fb.lookup(e.Name)
		return RegValue(s.Ptr, s.Type)
	case ast.ExprDeref:
		return l.lowerExpr(e.Operand)
	case ast.ExprMember:
		return l.lowerFieldPtr(e, id)
	default:
		return l.lowerExpr(id)
	}
}

func (l *lowering) lowerBlockBody(block *ast.Expr) (Value, bool) {
	l.fb.pushScope()
	defer l.fb.popScope()
	for _, stmtID := range block.Stmts {
		l.lowerStmt(stmtID)
		if l.fb.terminated() {
			return Value{}, false
		}
	}
	if block.HasTrailing {
		return l.lowerExpr(block.Trailing), true
	}
	return Value{}, false
}
