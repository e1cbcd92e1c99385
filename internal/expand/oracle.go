package expand

import (
	"expandc/internal/types"
)

// Oracle answers whether an expression type-checks against an expected
// type. The real oracle is the host's type checker; the engine only uses
// it to disambiguate constructor candidates.
type Oracle interface {
	TypeChecks(e Expr, expected types.TypeID) bool
}

// ExactOracle is the reference oracle used by tests and the CLI driver:
// types match by alias-resolved identity, and integer literals additionally
// check against float parameters.
type ExactOracle struct {
	Types *types.Interner
}

func (o ExactOracle) TypeChecks(e Expr, expected types.TypeID) bool {
	if o.Types == nil || e.Type == types.NoTypeID || expected == types.NoTypeID {
		return false
	}
	actual := o.Types.ResolveAlias(e.Type)
	want := o.Types.ResolveAlias(expected)
	if actual == want {
		return true
	}
	if e.Literal && o.Types.KindOf(actual) == types.KindInt && o.Types.KindOf(want) == types.KindFloat {
		return true
	}
	return false
}
