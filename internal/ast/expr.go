package ast

import "lemonc/internal/source"

// ExprKind enumerates every expression variant the parser produces.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLitInt
	ExprLitFloat
	ExprLitString
	ExprLitChar
	ExprLitBool
	ExprIdent
	ExprBinary
	ExprUnary
	ExprCall
	ExprStructInit
	ExprMember
	ExprAssociate
	ExprBorrow
	ExprDeref
	ExprAssign
	ExprPipe
	ExprRange
	ExprIf
	ExprBlock
)

// BinaryOp enumerates binary operators (spec.md §4.1 precedence table).
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow // **
	BinXor // ^ (bitwise in this position per spec.md MAX level)
	BinEq
	BinNotEq
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	// BinBitOr, BinShl, BinShr sit at MIN precedence alongside `|>`/`..`
	// (spec.md §9 open question: the source's precedence for `|`, `<<`,
	// `>>` was inconsistent; this spec's conservative placement is MIN).
	BinBitOr
	BinShl
	BinShr
)

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNot   UnaryOp = iota // !
	UnaryNeg                  // unary -
)

// FieldInit is one `name: value` pair of a struct literal.
type FieldInit struct {
	Name  source.StringID
	Value ExprID
}

// Expr is a single expression node. Only the fields matching Kind are
// meaningful, mirroring the tagged-variant-struct style used for the IR's
// Instr type.
type Expr struct {
	Kind ExprKind
	Span Range

	// literals
	IntValue    uint64
	FloatValue  float64
	StringValue string
	CharValue   byte
	BoolValue   bool

	// ExprIdent
	Name source.StringID

	// ExprBinary
	Op    BinaryOp
	Left  ExprID
	Right ExprID

	// ExprUnary / ExprBorrow / ExprDeref
	UOp      UnaryOp
	Operand  ExprID
	Mutable  bool // ExprBorrow: &mut

	// ExprCall
	Callee ExprID
	Args   []ExprID

	// ExprStructInit
	TypeName source.StringID
	Fields   []FieldInit

	// ExprMember / ExprAssociate
	Base   ExprID
	Member source.StringID

	// ExprAssign
	Target ExprID
	Value  ExprID

	// ExprIf
	Cond    ExprID
	Then    ExprID
	Else    ExprID
	HasElse bool

	// ExprBlock
	Stmts        []StmtID
	Trailing     ExprID
	HasTrailing  bool
}
