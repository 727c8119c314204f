package types

import (
	"fmt"
	"strings"

	"lemonc/internal/source"
)

// Display renders id as source-like text for diagnostics (spec.md §4.3
// "display"). It never fails: an invalid id renders as "<invalid>".
func (in *Interner) Display(id TypeID, strings_ *source.Interner) string {
	t, ok := in.Get(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindIsize:
		return "isize"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindUsize:
		return "usize"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindUnit:
		return "()"
	case KindInferInt:
		return fmt.Sprintf("{integer:%d}", t.Bits)
	case KindInferFloat:
		return fmt.Sprintf("{float:%d}", t.Bits)
	case KindBorrow:
		prefix := "&"
		if t.Mutable {
			prefix = "&mut "
		}
		return prefix + in.Display(t.Elem, strings_)
	case KindConst:
		return "const " + in.Display(t.Elem, strings_)
	case KindStruct:
		info, ok := in.Struct(id)
		if !ok {
			return "<struct?>"
		}
		name, _ := strings_.Lookup(info.Name)
		return name
	case KindFn, KindExternFn:
		return in.displayFn(id, t.Kind, strings_)
	case KindModule:
		info, ok := in.Module(id)
		if !ok {
			return "<module?>"
		}
		return fmt.Sprintf("module#%d", info.ModID)
	default:
		return "<invalid>"
	}
}

func (in *Interner) displayFn(id TypeID, kind Kind, strings_ *source.Interner) string {
	var params []TypeID
	var ret TypeID
	variadic := false
	switch kind {
	case KindFn:
		info, ok := in.Fn(id)
		if !ok {
			return "<fn?>"
		}
		params, ret = info.Params, info.Ret
	case KindExternFn:
		info, ok := in.ExternFn(id)
		if !ok {
			return "<extern fn?>"
		}
		params, ret, variadic = info.Params, info.Ret, info.Variadic
	}
	var b strings.Builder
	if kind == KindExternFn {
		b.WriteString("extern ")
	}
	b.WriteString("fn(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.Display(p, strings_))
	}
	if variadic {
		if len(params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString("): ")
	b.WriteString(in.Display(ret, strings_))
	return b.String()
}
