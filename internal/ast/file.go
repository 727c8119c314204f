package ast

import "lemonc/internal/source"

// File is the parsed top-level item list of one module's source unit.
type File struct {
	Source source.FileID
	Items  []ItemID
	Span   Range
}
