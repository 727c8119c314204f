package diag

import (
	"testing"

	"lemonc/internal/source"
)

func TestBagRespectsMaximum(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(Error, Type, 1, source.Span{}, "a")) {
		t.Fatalf("expected first add to succeed")
	}
	if !b.Add(New(Error, Type, 1, source.Span{}, "b")) {
		t.Fatalf("expected second add to succeed")
	}
	if b.Add(New(Error, Type, 1, source.Span{}, "c")) {
		t.Fatalf("expected third add to be dropped at capacity")
	}
	if b.Len() != 2 {
		t.Fatalf("got len %d, want 2", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(New(Warning, Type, 1, source.Span{}, "w"))
	if b.HasErrors() {
		t.Fatalf("expected no errors yet")
	}
	b.Add(New(Error, Type, 1, source.Span{}, "e"))
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an Error diagnostic")
	}
}

func TestBagSortOrdersByModuleThenRange(t *testing.T) {
	b := NewBag(8)
	b.Add(New(Error, Type, 2, source.Span{Start: 5, End: 6}, "later module"))
	b.Add(New(Error, Type, 1, source.Span{Start: 10, End: 11}, "second in module 1"))
	b.Add(New(Error, Type, 1, source.Span{Start: 1, End: 2}, "first in module 1"))
	b.Sort()
	items := b.Items()
	if items[0].Text != "first in module 1" || items[1].Text != "second in module 1" || items[2].Text != "later module" {
		t.Fatalf("unexpected sort order: %q %q %q", items[0].Text, items[1].Text, items[2].Text)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(8)
	b.Add(New(Error, Type, 1, source.Span{Start: 1, End: 2}, "dup"))
	b.Add(New(Error, Type, 1, source.Span{Start: 1, End: 2}, "dup"))
	b.Add(New(Error, Type, 1, source.Span{Start: 3, End: 4}, "unique"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("got len %d, want 2", b.Len())
	}
}

func TestBagMergeGrowsCapacity(t *testing.T) {
	a := NewBag(1)
	a.Add(New(Error, Type, 1, source.Span{}, "a"))
	other := NewBag(2)
	other.Add(New(Error, Type, 1, source.Span{}, "b"))
	other.Add(New(Error, Type, 1, source.Span{}, "c"))
	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("got len %d, want 3", a.Len())
	}
}

func TestMessageNotes(t *testing.T) {
	m := New(Error, Ownership, 1, source.Span{Start: 1, End: 2}, "moved value used").
		WithNote("moved here").
		WithNoteAt(1, source.Span{Start: 3, End: 4}, "use here")
	if len(m.Notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(m.Notes))
	}
	if m.Notes[0].HasSpan {
		t.Fatalf("expected first note to have no span")
	}
	if !m.Notes[1].HasSpan {
		t.Fatalf("expected second note to carry a span")
	}
}
