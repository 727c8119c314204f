package ir

import (
	"fmt"

	"lemonc/internal/source"
	"lemonc/internal/types"
)

// slot records where a declared name lives: a stack-slot pointer register
// and its declared type (spec.md §4.6 "symbol table (identifier ->
// register)").
type slot struct {
	Ptr  Reg
	Type types.TypeID
}

// funcBuilder is the per-function lowering state spec.md §4.6 describes:
// "a register counter and symbol table, a stack of scopes for locals and
// deferred drops, a list of basic blocks, a 'current block' pointer, and a
// block-id counter, a list of 'free values'".
type funcBuilder struct {
	regs    Reg
	blockID BlockID
	blocks  []Block
	cur     BlockID

	scopes []map[source.StringID]slot

	// freeValues holds every heap allocation this function owns, in
	// allocation order, so `ret` can drop every one whose address differs
	// from the returned value (spec.md §4.6 "Return").
	freeValues []Value
}

func newFuncBuilder() *funcBuilder {
	fb := &funcBuilder{}
	fb.pushScope()
	return fb
}

func (fb *funcBuilder) pushScope() {
	fb.scopes = append(fb.scopes, make(map[source.StringID]slot))
}

func (fb *funcBuilder) popScope() {
	fb.scopes = fb.scopes[:len(fb.scopes)-1]
}

func (fb *funcBuilder) declare(name source.StringID, ptr Reg, t types.TypeID) {
	fb.scopes[len(fb.scopes)-1][name] = slot{Ptr: ptr, Type: t}
}

func (fb *funcBuilder) lookup(name source.StringID) (slot, bool) {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		if s, ok := fb.scopes[i][name]; ok {
			return s, true
		}
	}
	return slot{}, false
}

func (fb *funcBuilder) newReg() Reg {
	fb.regs++
	return fb.regs
}

// newBlock allocates a fresh, empty block without switching to it.
func (fb *funcBuilder) newBlock() BlockID {
	fb.blockID++
	id := fb.blockID
	fb.blocks = append(fb.blocks, Block{ID: id})
	return id
}

// switchTo makes id the block subsequent emit/terminate calls target. The
// builder never switches to a block id it has not created itself
// (SPEC_FULL.md item 5 "switch_to_block is a hard precondition check").
func (fb *funcBuilder) switchTo(id BlockID) {
	if !id.IsValid() || int(id) > len(fb.blocks) {
		panic(fmt.Sprintf("ir: switch to unknown block %s", id))
	}
	fb.cur = id
}

func (fb *funcBuilder) block(id BlockID) *Block {
	if !id.IsValid() || int(id) > len(fb.blocks) {
		return nil
	}
	return &fb.blocks[id-1]
}

// emit appends instr to the current block, unless it is already
// terminated (spec.md §4.6 "Block terminators": "once has-returned...
// further instructions are not emitted").
func (fb *funcBuilder) emit(instr Instr) {
	b := fb.block(fb.cur)
	if b == nil || b.Terminated() {
		return
	}
	b.Instrs = append(b.Instrs, instr)
}

// terminate closes the current block with term, a no-op if it is already
// terminated.
func (fb *funcBuilder) terminate(term Terminator) {
	b := fb.block(fb.cur)
	if b == nil || b.Terminated() {
		return
	}
	b.Term = term
}

func (fb *funcBuilder) terminated() bool {
	return fb.block(fb.cur).Terminated()
}

// salloc emits a stack-slot allocation of t, returning the pointer
// register (spec.md §4.6 "Literal -> salloc a stack slot").
func (fb *funcBuilder) salloc(t types.TypeID) Reg {
	dst := fb.newReg()
	fb.emit(Instr{Kind: InstrSAlloc, Dst: dst, SAlloc: SAllocInstr{Type: t}})
	return dst
}

// set stores val through ptr.
func (fb *funcBuilder) set(ptr, val Value) {
	fb.emit(Instr{Kind: InstrSet, Set: SetInstr{Ptr: ptr, Value: val}})
}

// load dereferences ptr into a fresh register of type t.
func (fb *funcBuilder) load(t types.TypeID, ptr Value) Value {
	dst := fb.newReg()
	fb.emit(Instr{Kind: InstrLoad, Dst: dst, Load: LoadInstr{Type: t, Ptr: ptr}})
	return RegValue(dst, t)
}

// finish attaches the accumulated blocks to a Function (spec.md §4.6
// "Function finalization").
func (fb *funcBuilder) finish(f *Function) {
	f.Blocks = fb.blocks
	if len(fb.blocks) > 0 {
		f.Entry = fb.blocks[0].ID
	}
}
