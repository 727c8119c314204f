package diag

// Stage identifies which compiler phase raised a diagnostic (spec.md §6).
type Stage uint8

const (
	Syntax Stage = iota
	Resolve
	Type
	Ownership
	Build
	Codegen
)

func (s Stage) String() string {
	switch s {
	case Syntax:
		return "syntax"
	case Resolve:
		return "resolve"
	case Type:
		return "type"
	case Ownership:
		return "ownership"
	case Build:
		return "build"
	case Codegen:
		return "codegen"
	default:
		return "unknown"
	}
}
