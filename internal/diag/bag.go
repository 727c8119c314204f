package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a configured maximum (project.Manifest's
// max_diagnostics, SPEC_FULL.md §2.3), after which further Add calls are
// dropped so one bad file cannot produce unbounded output.
type Bag struct {
	items   []*Message
	maximum uint32
}

// NewBag creates a Bag with a capacity limit.
func NewBag(maximum int) *Bag {
	result, err := safecast.Conv[uint32](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]*Message, 0, result), maximum: result}
}

// Add appends m if the bag has not yet reached its maximum. Returns false
// when the message was dropped.
func (b *Bag) Add(m *Message) bool {
	if m == nil || len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, m)
	return true
}

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the held diagnostics; callers must not
// mutate the backing array.
func (b *Bag) Items() []*Message { return b.items }

// HasErrors reports whether any diagnostic has Severity Error.
func (b *Bag) HasErrors() bool {
	for _, m := range b.items {
		if m.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends other's diagnostics, growing the capacity if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	total, err := safecast.Conv[uint32](len(b.items) + len(other.items))
	if err != nil {
		panic(fmt.Errorf("diag: bag merge overflow: %w", err))
	}
	if total > b.maximum {
		b.maximum = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by module, then range start/end, then severity
// (errors first), for stable and deterministic rendering.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		mi, mj := b.items[i], b.items[j]
		if mi.ModID != mj.ModID {
			return mi.ModID < mj.ModID
		}
		if mi.Range.Start != mj.Range.Start {
			return mi.Range.Start < mj.Range.Start
		}
		if mi.Range.End != mj.Range.End {
			return mi.Range.End < mj.Range.End
		}
		return mi.Severity > mj.Severity
	})
}

// Dedup removes diagnostics that repeat an earlier one's (stage, module,
// range, text) key, keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	out := make([]*Message, 0, len(b.items))
	for _, m := range b.items {
		key := fmt.Sprintf("%d:%d:%d:%d:%s", m.Stage, m.ModID, m.Range.Start, m.Range.End, m.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	b.items = out
}
