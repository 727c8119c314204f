package sema

import (
	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/types"
)

// resolveTypeExpr turns a type-syntax node into an interned TypeID,
// resolving bare names against the built-ins first and the module's
// user-declared name table second (spec.md §4.3 lookup_type_definition).
// local marks whether a Borrow resolved here is the "points into the
// current activation's stack data" kind produced by a `&e` expression
// (local = true) as opposed to a declared parameter/return borrow type
// (local = false); see spec.md §4.4 Borrow expression contract.
func (c *Checker) resolveTypeExpr(id ast.TypeExprID, local bool) (types.TypeID, bool) {
	texpr := c.b.Type(id)
	if texpr == nil {
		return types.NoTypeID, false
	}
	switch texpr.Kind {
	case ast.TypeExprName:
		name, _ := c.b.Strings.Lookup(texpr.Name)
		if t, ok := c.builtinByName(name); ok {
			return t, true
		}
		if t, ok := c.types.LookupTypeDefinition(name); ok {
			return t, true
		}
		c.errorf(diag.Resolve, texpr.Span, "unknown type %q", name)
		return types.NoTypeID, false
	case ast.TypeExprBorrow:
		inner, ok := c.resolveTypeExpr(texpr.Inner, local)
		if !ok {
			return types.NoTypeID, false
		}
		return c.types.NewBorrow(inner, texpr.Mutable, local), true
	default:
		c.errorf(diag.Resolve, texpr.Span, "invalid type expression")
		return types.NoTypeID, false
	}
}

func (c *Checker) builtinByName(name string) (types.TypeID, bool) {
	b := c.types.Builtins()
	switch name {
	case "void":
		return b.Void, true
	case "bool":
		return b.Bool, true
	case "str":
		return b.Str, true
	case "string":
		return b.String, true
	case "char":
		return b.Char, true
	case "i8":
		return b.I8, true
	case "i16":
		return b.I16, true
	case "i32":
		return b.I32, true
	case "i64":
		return b.I64, true
	case "isize":
		return b.Isize, true
	case "u8":
		return b.U8, true
	case "u16":
		return b.U16, true
	case "u32":
		return b.U32, true
	case "u64":
		return b.U64, true
	case "usize":
		return b.Usize, true
	case "f32":
		return b.F32, true
	case "f64":
		return b.F64, true
	case "unit":
		return b.Unit, true
	default:
		return types.NoTypeID, false
	}
}
