package types

import (
	"strings"

	"expandc/internal/source"
)

// Label returns a user-friendly label for a TypeID.
func Label(in *Interner, id TypeID) string {
	return labelDepth(in, id, 0)
}

func labelDepth(in *Interner, id TypeID, depth int) string {
	if in == nil || id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindOptional:
		return labelDepth(in, tt.Elem, depth+1) + "?"
	case KindStruct, KindIface, KindAlias:
		return lookupNameFallback(in.Strings, in.NominalName(id))
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		params := make([]string, len(info.Params))
		for i, p := range info.Params {
			params[i] = labelDepth(in, p, depth+1)
		}
		return "fn(" + strings.Join(params, ", ") + ") -> " + labelDepth(in, info.Result, depth+1)
	case KindTuple:
		info, ok := in.TupleInfo(id)
		if !ok {
			return "(?)"
		}
		elems := make([]string, len(info.Elems))
		for i, e := range info.Elems {
			elems[i] = labelDepth(in, e, depth+1)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	default:
		return "?"
	}
}

func lookupNameFallback(strs *source.Interner, id source.StringID) string {
	if strs == nil {
		return "?"
	}
	name, ok := strs.Lookup(id)
	if !ok || name == "" {
		return "?"
	}
	return name
}
