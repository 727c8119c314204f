package borrow

// Arena stores RefData records, indexed 1-based by RefId (0 is the
// NoRefId sentinel, matching the rest of this module's arenas).
type Arena struct {
	data []RefData
}

// NewArena creates an empty arena.
func NewArena(capHint uint32) *Arena {
	return &Arena{data: make([]RefData, 0, capHint)}
}

// Insert appends data and returns its freshly assigned RefId.
func (a *Arena) Insert(data RefData) RefId {
	id := RefId(len(a.data) + 1)
	data.ID = id
	a.data = append(a.data, data)
	return id
}

// Get returns the record for id, or ok=false if id is invalid.
func (a *Arena) Get(id RefId) (RefData, bool) {
	if !id.IsValid() || int(id) > len(a.data) {
		return RefData{}, false
	}
	return a.data[id-1], true
}

// Set overwrites the record stored at id.
func (a *Arena) Set(id RefId, data RefData) {
	if id.IsValid() && int(id) <= len(a.data) {
		data.ID = id
		a.data[id-1] = data
	}
}

// Len returns the number of records allocated so far.
func (a *Arena) Len() int { return len(a.data) }

// All iterates every allocated record in id order.
func (a *Arena) All(fn func(RefId, RefData)) {
	for i, d := range a.data {
		fn(RefId(i+1), d)
	}
}
