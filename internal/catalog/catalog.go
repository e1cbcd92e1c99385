// Package catalog derives the frozen constructor set an expanded parameter
// may draw from. A catalog is built for a (type, declaration context)
// pair and locked to the signature's declaration point: constructors
// registered later never participate, even when a call site can see them.
package catalog

import (
	"slices"

	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// Candidate is one constructor admitted into a catalog. It carries a copy
// of the constructor's shape so catalog entries stay valid even if the
// owning type later gains constructors; the builder re-derives rather than
// mutating shared state.
type Candidate struct {
	Ctor       symbols.CtorID
	Owner      types.TypeID
	Labels     []source.StringID
	Params     []types.TypeID
	Visibility symbols.Visibility
	Module     symbols.ModuleID
	File       source.FileID
	Span       source.Span
}

// Builder collects candidate constructors from the symbol table.
type Builder struct {
	Table *symbols.Table
	Types *types.Interner
}

// Owner normalizes the declared type of an expanded parameter into the
// type whose constructors are cataloged. Aliases are resolved; an optional
// wrapper is NOT unwrapped — the wrapper type itself is the owner, which
// for most wrappers means an empty catalog. That is the documented
// behavior, not an oversight; unwrapping is deferred to future work.
func (b *Builder) Owner(declared types.TypeID) types.TypeID {
	if b.Types == nil {
		return types.NoTypeID
	}
	return b.Types.ResolveAlias(declared)
}

// Build returns the constructors of owner that were registered before
// asOf and are visible from the declaration-site context at. Constructors
// inherited from a supertype are excluded by construction: the table only
// indexes direct declarations.
func (b *Builder) Build(owner types.TypeID, at symbols.Context, asOf symbols.Tick) []Candidate {
	if b.Table == nil || owner == types.NoTypeID {
		return nil
	}
	ids := b.Table.CtorsOf(owner)
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		ctor := b.Table.Ctor(id)
		if ctor == nil || ctor.Seq() >= asOf {
			continue
		}
		if !b.Table.Visible(ctor, at) {
			continue
		}
		out = append(out, Candidate{
			Ctor:       id,
			Owner:      ctor.Owner,
			Labels:     slices.Clone(ctor.Labels),
			Params:     slices.Clone(ctor.Params),
			Visibility: ctor.Visibility,
			Module:     ctor.Module,
			File:       ctor.File,
			Span:       ctor.Span,
		})
	}
	return out
}
