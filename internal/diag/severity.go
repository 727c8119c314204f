package diag

// Severity ranks how serious a diagnostic is (spec.md §6).
type Severity uint8

const (
	Allow Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Allow:
		return "ALLOW"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
