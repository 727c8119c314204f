package ir

import (
	"lemonc/internal/ast"
	"lemonc/internal/types"
)

// InstrKind enumerates the instruction variants of spec.md §3: "arithmetic,
// comparisons, logical ops, load/set/mov, stack allocation (salloc), heap
// allocation (halloc), drop, get-field-pointer, call". Jump/cond-jump/ret
// are terminators (terminator.go), not ordinary instructions, matching
// spec.md §3 invariant 3 "every basic block ends with exactly one
// terminator".
type InstrKind uint8

const (
	InstrInvalid InstrKind = iota
	InstrSAlloc
	InstrHAlloc
	InstrSet
	InstrLoad
	InstrMov
	InstrBinOp
	InstrUnOp
	InstrGetFieldPtr
	InstrCall
	InstrDrop
)

// Instr is one instruction of a basic block: a tagged union over the
// variants above, the same flat-struct style as the AST and TypeExpr node
// kinds rather than an interface per opcode.
type Instr struct {
	Kind InstrKind
	Dst  Reg // destination register, when the opcode produces one

	SAlloc       SAllocInstr
	HAlloc       HAllocInstr
	Set          SetInstr
	Load         LoadInstr
	Mov          MovInstr
	BinOp        BinOpInstr
	UnOp         UnOpInstr
	GetFieldPtr  GetFieldPtrInstr
	Call         CallInstr
	Drop         DropInstr
}

// SAllocInstr allocates a stack slot of Type, producing a pointer register
// in Dst (spec.md §4.6 "salloc a stack slot of the literal's type").
type SAllocInstr struct {
	Type types.TypeID
}

// HAllocInstr allocates Size bytes on the heap, producing a pointer
// register in Dst (spec.md §4.6 struct init "emit halloc size producing a
// pointer"); Size is computed by the builder from the struct's field
// layout, and the heap allocator itself is referred to only symbolically
// (spec.md §6 "the IR refers to malloc/free symbolically").
type HAllocInstr struct {
	Type types.TypeID
	Size int
}

// SetInstr stores Value through Ptr (spec.md §4.6 assignment "emit set ptr
// <- rhs"; struct init "set p <- value").
type SetInstr struct {
	Ptr   Value
	Value Value
}

// LoadInstr dereferences Ptr into Dst (spec.md §4.6 deref "load T, ptr into
// a fresh register").
type LoadInstr struct {
	Type types.TypeID
	Ptr  Value
}

// MovInstr copies Src into Dst without going through memory. The
// disassembler prints it; the lowering in this package does not emit it
// (small rvalues are returned as immediates, and a borrow lowers through
// lowerPlace).
type MovInstr struct {
	Src Value
}

// BinOpInstr computes Left Op Right into Dst.
type BinOpInstr struct {
	Op    ast.BinaryOp
	Left  Value
	Right Value
}

// UnOpInstr computes Op Operand into Dst.
type UnOpInstr struct {
	Op      ast.UnaryOp
	Operand Value
}

// GetFieldPtrInstr computes a pointer to field FieldIndex (named FieldName)
// of Base, whose declared struct type is StructType (spec.md §4.6 "emit
// get_field_ptr(struct_type, base, offset) -> p").
type GetFieldPtrInstr struct {
	StructType types.TypeID
	Base       Value
	FieldName  string
	FieldIndex int
}

// CallInstr calls Callee with Args, producing Dst when the function's
// return type is not unit/void (spec.md §4.6 "resolve callee name...
// emit call; return the destination register").
type CallInstr struct {
	Callee   string
	Args     []Value
	HasDst   bool
	RetType  types.TypeID
}

// DropInstr releases the heap-owned value at Place (spec.md §4.6 return
// "emit drop for every heap-owned value whose address differs from the
// returned value"); like halloc, the backend's actual free() binding is
// symbolic (spec.md §6).
type DropInstr struct {
	Place Value
}
