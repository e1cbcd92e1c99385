package expand

import (
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// Expr is an opaque expression delivered by the host parser, already
// carrying the type the host inferred for it. The engine never looks
// inside expressions; it only hands them to the type-checking oracle.
type Expr struct {
	Span    source.Span
	Type    types.TypeID
	Literal bool
}

// Param is one parameter declaration inside a Signature.
type Param struct {
	Label      source.StringID // external label, NoStringID = unlabeled
	Type       types.TypeID
	Expanded   bool
	HasDefault bool
	ByRef      bool // mutable-reference (in/out) parameter
	Span       source.Span
}

// Signature is the immutable description of a callable's parameter list.
// Decl and AsOf pin the declaration-site visibility context and the
// constructor watermark used to freeze the catalog.
type Signature struct {
	Name                source.StringID
	Params              []Param
	HasSiblingOverloads bool
	Decl                symbols.Context
	AsOf                symbols.Tick
	Span                source.Span
}

// Expanded returns the index of the first expanded parameter.
func (s *Signature) Expanded() (int, bool) {
	for i := range s.Params {
		if s.Params[i].Expanded {
			return i, true
		}
	}
	return 0, false
}

// Arg is one call-site argument, in source order.
type Arg struct {
	Label           source.StringID
	Value           Expr
	TrailingClosure bool
	Span            source.Span
}
