// Package diag implements the core's diagnostic contract (spec.md §6): a
// Message carries severity, stage, an optional module and range, text, and
// notes. The core only emits; rendering (snippets, color) is external.
package diag

import (
	"lemonc/internal/source"
)

// NoModID marks a diagnostic that is not attached to any module (e.g. a
// command-line usage error raised before any module is loaded).
const NoModID uint32 = 0

// Note is auxiliary context attached to a Message, optionally pointing at
// its own range.
type Note struct {
	Message string
	ModID   uint32
	Range   source.Span
	HasSpan bool
}

// Message is a single structured diagnostic.
type Message struct {
	Severity Severity
	Stage    Stage
	ModID    uint32
	Range    source.Span
	HasSpan  bool
	Text     string
	Notes    []Note
}

// New constructs a Message with a range.
func New(sev Severity, stage Stage, modID uint32, span source.Span, text string) *Message {
	return &Message{Severity: sev, Stage: stage, ModID: modID, Range: span, HasSpan: true, Text: text}
}

// NewWithoutSpan constructs a Message that has no associated source range.
func NewWithoutSpan(sev Severity, stage Stage, modID uint32, text string) *Message {
	return &Message{Severity: sev, Stage: stage, ModID: modID, Text: text}
}

// WithNote appends a note and returns the receiver for chaining.
func (m *Message) WithNote(text string) *Message {
	m.Notes = append(m.Notes, Note{Message: text})
	return m
}

// WithNoteAt appends a note carrying its own source range.
func (m *Message) WithNoteAt(modID uint32, span source.Span, text string) *Message {
	m.Notes = append(m.Notes, Note{Message: text, ModID: modID, Range: span, HasSpan: true})
	return m
}
