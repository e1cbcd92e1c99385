package symbols

import (
	"expandc/internal/source"
	"expandc/internal/types"
)

// ModuleID identifies a module within a Table.
type ModuleID uint32

// NoModuleID marks the absence of a module.
const NoModuleID ModuleID = 0

// Visibility is the access level of a declaration.
type Visibility uint8

const (
	// VisPublic is visible from every context.
	VisPublic Visibility = iota
	// VisModule is visible only inside the declaring module.
	VisModule
	// VisFile is visible only inside the declaring file.
	VisFile
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisModule:
		return "module"
	case VisFile:
		return "file"
	default:
		return "invalid"
	}
}

// Context identifies where a declaration or call textually lives. Catalog
// construction and resolution each receive their own Context explicitly;
// there is no ambient "current scope" state.
type Context struct {
	Module ModuleID
	File   source.FileID
}

// CtorID identifies a constructor inside a Table.
type CtorID uint32

// NoCtorID marks the absence of a constructor.
const NoCtorID CtorID = 0

// Tick is a monotonic watermark over constructor registration. A signature
// records the table's tick at its declaration point and only constructors
// registered before that tick participate in its catalog.
type Tick uint32

// Ctor describes one constructor declaration. Only the signature is
// recorded; bodies never matter for resolution.
type Ctor struct {
	Owner      types.TypeID
	Labels     []source.StringID // external labels, NoStringID = unlabeled
	Params     []types.TypeID
	Visibility Visibility
	Module     ModuleID
	File       source.FileID
	Span       source.Span

	seq Tick
}

// Seq returns the registration order of the constructor.
func (c *Ctor) Seq() Tick {
	return c.seq
}

// Arity returns the number of parameters.
func (c *Ctor) Arity() int {
	return len(c.Params)
}
