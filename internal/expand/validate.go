package expand

import (
	"fmt"

	"expandc/internal/diag"
	"expandc/internal/types"
)

// ValidateSignature runs every declaration-time legality check and returns
// all findings. Checks are independent and never short-circuit, so a host
// that wants full diagnostics gets every simultaneous violation at once.
// A signature without an expanded parameter always validates.
func ValidateSignature(sig *Signature, tin *types.Interner) []diag.Diagnostic {
	if sig == nil {
		return nil
	}
	idx, ok := sig.Expanded()
	if !ok {
		return nil
	}
	var out []diag.Diagnostic
	out = append(out, checkUniqueness(sig, idx)...)
	out = append(out, checkPlacement(sig, idx)...)
	out = append(out, checkOverloads(sig, idx)...)
	out = append(out, checkTypeKind(sig, idx, tin)...)
	out = append(out, checkByRef(sig, idx)...)
	out = append(out, checkDefaultAdjacency(sig, idx)...)
	return out
}

func checkUniqueness(sig *Signature, first int) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := first + 1; i < len(sig.Params); i++ {
		if !sig.Params[i].Expanded {
			continue
		}
		d := diag.NewError(diag.SigMultipleExpandedParams, sig.Params[i].Span,
			fmt.Sprintf("parameter %d is expanded, but parameter %d already is", i, first)).
			WithNote(sig.Params[first].Span, "first expanded parameter declared here")
		out = append(out, d)
	}
	return out
}

func checkPlacement(sig *Signature, idx int) []diag.Diagnostic {
	if idx == 0 {
		return nil
	}
	return []diag.Diagnostic{diag.NewError(diag.SigInvalidExpandedPlacement, sig.Params[idx].Span,
		fmt.Sprintf("expanded parameter is at position %d, it must come first", idx))}
}

func checkOverloads(sig *Signature, idx int) []diag.Diagnostic {
	if !sig.HasSiblingOverloads {
		return nil
	}
	return []diag.Diagnostic{diag.NewError(diag.SigOverloadConflict, sig.Params[idx].Span,
		"a function with an expanded parameter must be the only member of its overload set")}
}

// checkTypeKind enforces the nominal-type and non-interface rules. The
// declared type is alias-resolved first; an optional wrapper is accepted
// as-is (its own, usually empty, constructor set is what gets cataloged).
func checkTypeKind(sig *Signature, idx int, tin *types.Interner) []diag.Diagnostic {
	p := sig.Params[idx]
	resolved := types.NoTypeID
	if tin != nil {
		resolved = tin.ResolveAlias(p.Type)
	}
	kind := types.KindInvalid
	if tin != nil {
		kind = tin.KindOf(resolved)
	}
	switch kind {
	case types.KindStruct, types.KindOptional:
		return nil
	case types.KindIface:
		return []diag.Diagnostic{diag.NewError(diag.SigAbstractTypeNotExpandable, p.Span,
			fmt.Sprintf("cannot expand abstract type %s: the concrete type to construct is unknown at compile time",
				types.Label(tin, resolved)))}
	default:
		return []diag.Diagnostic{diag.NewError(diag.SigNonNominalExpandedType, p.Span,
			fmt.Sprintf("expanded parameter type %s is not a nominal, constructor-bearing type",
				types.Label(tin, p.Type)))}
	}
}

func checkByRef(sig *Signature, idx int) []diag.Diagnostic {
	if !sig.Params[idx].ByRef {
		return nil
	}
	return []diag.Diagnostic{diag.NewError(diag.SigByRefExpandedConflict, sig.Params[idx].Span,
		"constructing a fresh value is incompatible with a mutable-reference parameter")}
}

// checkDefaultAdjacency rejects a defaulted parameter right after the
// expanded one unless it is the last parameter: such a default could never
// be skipped without making segmentation ambiguous. The expanded parameter
// itself may carry a default freely.
func checkDefaultAdjacency(sig *Signature, idx int) []diag.Diagnostic {
	if idx != 0 || len(sig.Params) < 2 {
		return nil
	}
	p := sig.Params[1]
	if !p.HasDefault || len(sig.Params) == 2 {
		return nil
	}
	d := diag.NewError(diag.SigDefaultArgAdjacency, p.Span,
		"defaulted parameter follows an expanded parameter but is not last").
		WithFix("move the defaulted parameter to the end of the parameter list")
	return []diag.Diagnostic{d}
}
