package ir

// Block is one basic block: a stable id, an ordered instruction list, and
// a terminator (spec.md §3 "Basic block").
type Block struct {
	ID     BlockID
	Instrs []Instr
	Term   Terminator
}

// Terminated reports whether the block already has a terminator — the
// builder's "has-returned" guard reads this before emitting anything else
// into a block (spec.md §4.6 "Block terminators").
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
