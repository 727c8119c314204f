package ir

// Program is the root IR handed to a backend: an ordered list of
// functions, including externs (spec.md §6 "IR surface to backend... an
// ordered list of functions").
type Program struct {
	Functions []*Function
}
