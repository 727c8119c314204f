package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena; elements are addressed by a stable
// 1-based index so that 0 can serve as the "no id" sentinel for every
// ID type built on top of it.
type Arena[T any] struct {
	data []*T
}

// NewArena creates an Arena with an initial capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at index, or nil for index 0 or an
// out-of-range index.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || index > a.Len() {
		return nil
	}
	return a.data[index-1]
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast: arena overflow: %w", err))
	}
	return n
}
