package borrow

import "fmt"

// Tracker maps an owner RefId to the set of RefIds currently borrowing
// from it.
type Tracker map[RefId]map[RefId]struct{}

func (t Tracker) add(owner, borrower RefId) {
	set, ok := t[owner]
	if !ok {
		set = make(map[RefId]struct{})
		t[owner] = set
	}
	set[borrower] = struct{}{}
}

// Checker is the ownership/borrow checker's mutable state for one
// function activation (spec.md §4.5). It is not safe for concurrent use.
type Checker struct {
	arena   *Arena
	tracker Tracker
}

// New creates an empty Checker.
func New() *Checker {
	return &Checker{arena: NewArena(16), tracker: make(Tracker)}
}

// CreateRef allocates a fresh local reference record with the given
// access and returns its id.
func (c *Checker) CreateRef(access Access) RefId {
	return c.arena.Insert(RefData{Access: access, State: StateAlive, Origin: OriginLocal})
}

// CreateOwner allocates an owner reference that entered the current
// activation from outside (a function parameter, SPEC_FULL.md item 4).
func (c *Checker) CreateOwner() RefId {
	return c.arena.Insert(RefData{Access: AccessOwner, State: StateAlive, Origin: OriginExternal})
}

// CreateLocalOwner allocates an owner reference for a value constructed
// within the current activation (e.g. `let x = Box{...}`).
func (c *Checker) CreateLocalOwner() RefId {
	return c.arena.Insert(RefData{Access: AccessOwner, State: StateAlive, Origin: OriginLocal})
}

// CreateRawCopy allocates a reference for a trivially-copyable value
// (spec.md §4.5 RawCopy — e.g. a scalar read that does not participate in
// move/borrow tracking beyond immutable-borrow-like checks).
func (c *Checker) CreateRawCopy() RefId {
	return c.arena.Insert(RefData{Access: AccessRawCopy, State: StateAlive, Origin: OriginLocal})
}

// BorrowMutable validates and records a `&mut` borrow of value, returning
// the new reference's id.
func (c *Checker) BorrowMutable(value *TypedValue) (RefId, error) {
	if err := c.CanBorrowMutable(value); err != nil {
		return NoRefId, err
	}
	newID := c.CreateRef(AccessMutable)
	value.Source.Each(func(owner RefId) { c.tracker.add(owner, newID) })
	return newID, nil
}

// BorrowImmutable validates and records a `&` borrow of value.
func (c *Checker) BorrowImmutable(value *TypedValue) (RefId, error) {
	if err := c.CanBorrowImmutable(value); err != nil {
		return NoRefId, err
	}
	newID := c.CreateRef(AccessImmutable)
	value.Source.Each(func(owner RefId) { c.tracker.add(owner, newID) })
	return newID, nil
}

// BorrowOwner performs a move: every owner backing value is dropped and
// replaced by a single fresh owner, which is returned. Use for `let y = x`
// where x names an owned value.
func (c *Checker) BorrowOwner(value *TypedValue) (RefId, error) {
	if err := c.CanBorrowOwner(value); err != nil {
		return NoRefId, err
	}
	value.Source.Each(func(base RefId) {
		if data, ok := c.arena.Get(base); ok {
			data.State = StateDropped
			c.arena.Set(base, data)
		}
		delete(c.tracker, base)
	})
	newOwner := c.CreateLocalOwner()
	value.Source = SingleSource(newOwner)
	return newOwner, nil
}

// Release drops source's references on ordinary scope exit: only Local
// owners transition to Dropped; every non-owner reference always drops
// (SPEC_FULL.md item 4, following the original checker's revised
// `release`, not its commented-out draft).
func (c *Checker) Release(source Source) {
	source.Each(func(id RefId) {
		data, ok := c.arena.Get(id)
		if !ok {
			return
		}
		shouldDrop := true
		if data.Access.IsOwner() {
			shouldDrop = data.Origin == OriginLocal
		}
		if shouldDrop {
			data.State = StateDropped
			c.arena.Set(id, data)
		}
		delete(c.tracker, id)
	})
}

// CanBorrowMutable reports whether value may be borrowed `&mut`: every
// owner backing it must be alive, and no alive borrower of any owner may
// already be mutable or immutable.
func (c *Checker) CanBorrowMutable(value *TypedValue) error {
	var err error
	value.Source.Each(func(base RefId) {
		if err != nil {
			return
		}
		owner, ok := c.arena.Get(base)
		if !ok || owner.State == StateDropped || !owner.Access.IsOwner() {
			err = fmt.Errorf("cannot borrow %s as mutable: value dropped", base)
			return
		}
		for _, alive := range c.lookupAliveBorrowers(value.Source) {
			data, _ := c.arena.Get(alive)
			if data.Access.IsImmutable() {
				err = fmt.Errorf("cannot borrow %s as mutable while immutable exists", base)
				return
			}
			if data.Access.IsMutable() {
				err = fmt.Errorf("cannot borrow %s as mutable more than once", base)
				return
			}
		}
	})
	return err
}

// CanBorrowImmutable reports whether value may be borrowed `&`: no alive
// borrower across the whole union source may already be mutable.
func (c *Checker) CanBorrowImmutable(value *TypedValue) error {
	for _, alive := range c.lookupAliveBorrowers(value.Source) {
		data, _ := c.arena.Get(alive)
		if data.Access.IsMutable() {
			return fmt.Errorf("cannot borrow %s as immutable while mutable exists", value.Source)
		}
	}
	return nil
}

// CanBorrowOwner reports whether value may be moved: every owner backing
// it must be alive and actually an Owner.
func (c *Checker) CanBorrowOwner(value *TypedValue) error {
	var err error
	value.Source.Each(func(owner RefId) {
		if err != nil {
			return
		}
		data, ok := c.arena.Get(owner)
		if !ok || data.State == StateDropped || !data.Access.IsOwner() {
			err = fmt.Errorf("cannot move %s: already moved or dropped", owner)
		}
	})
	return err
}

// CanReturnValue reports whether value may be returned from the current
// function: it must carry no reference whose Origin is Local (spec.md
// §4.5 "Return-value rule" — note this is the mirror image of the
// original lemon compiler's draft, which instead rejected Origin=External;
// this module follows the specification's explicit wording, see
// DESIGN.md).
func (c *Checker) CanReturnValue(value *TypedValue) bool {
	ok := true
	value.Source.Each(func(id RefId) {
		data, found := c.arena.Get(id)
		if found && data.Origin == OriginLocal {
			ok = false
		}
	})
	return ok
}

// lookupAliveBorrowers collects, across every owner in source, the
// borrower RefIds whose reference record is still alive.
func (c *Checker) lookupAliveBorrowers(source Source) []RefId {
	var out []RefId
	source.Each(func(owner RefId) {
		for borrower := range c.tracker[owner] {
			if data, ok := c.arena.Get(borrower); ok && data.State == StateAlive {
				out = append(out, borrower)
			}
		}
	})
	return out
}

// DumpState renders the arena and tracker as text for debugging,
// mirroring the original checker's dump_tracker_state but
// returning the text instead of printing it.
func (c *Checker) DumpState() string {
	out := "=== BorrowChecker State ===\n-- Arena --\n"
	c.arena.All(func(id RefId, d RefData) {
		out += fmt.Sprintf("%s => access=%d state=%d origin=%d\n", id, d.Access, d.State, d.Origin)
	})
	out += "\n-- Tracker --\n"
	for owner, borrowers := range c.tracker {
		out += fmt.Sprintf("%s ->\n", owner)
		for borrower := range borrowers {
			data, _ := c.arena.Get(borrower)
			out += fmt.Sprintf("    %s: access=%d state=%d\n", borrower, data.Access, data.State)
		}
	}
	return out
}
