package types

// AddTypeDefinition registers name as resolving to id in the user-declared
// name table (spec.md §4.3 "add_type_definition"). Redeclaration overwrites
// the previous mapping; callers that must reject shadowing check
// LookupTypeDefinition first.
func (in *Interner) AddTypeDefinition(name string, id TypeID) {
	in.names[name] = id
}

// LookupTypeDefinition resolves a user type name (struct, alias, or
// imported module binding) to its TypeID.
func (in *Interner) LookupTypeDefinition(name string) (TypeID, bool) {
	id, ok := in.names[name]
	return id, ok
}
