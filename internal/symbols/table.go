package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"expandc/internal/types"
)

// Table is the append-only constructor index. It is populated while a
// workspace loads and must be treated as read-only afterwards; concurrent
// readers need no locking under that discipline.
type Table struct {
	ctors   []Ctor
	byOwner map[types.TypeID][]CtorID

	modules     []string
	moduleIndex map[string]ModuleID
}

func NewTable() *Table {
	return &Table{
		ctors:       make([]Ctor, 1), // slot 0 is the invalid sentinel
		byOwner:     make(map[types.TypeID][]CtorID),
		modules:     []string{""},
		moduleIndex: map[string]ModuleID{"": 0},
	}
}

// AddModule registers a module by name, reusing the existing ID when the
// name was seen before.
func (t *Table) AddModule(name string) ModuleID {
	if id, ok := t.moduleIndex[name]; ok {
		return id
	}
	lenModules, err := safecast.Conv[uint32](len(t.modules))
	if err != nil {
		panic(fmt.Errorf("len(modules) overflow: %w", err))
	}
	id := ModuleID(lenModules)
	t.modules = append(t.modules, name)
	t.moduleIndex[name] = id
	return id
}

// ModuleName returns the name for a ModuleID, "" when unknown.
func (t *Table) ModuleName(id ModuleID) string {
	if int(id) >= len(t.modules) {
		return ""
	}
	return t.modules[id]
}

// AddCtor registers a constructor and returns its ID. Labels and Params
// are cloned so the caller's slices stay independent.
func (t *Table) AddCtor(c Ctor) CtorID {
	lenCtors, err := safecast.Conv[uint32](len(t.ctors))
	if err != nil {
		panic(fmt.Errorf("len(ctors) overflow: %w", err))
	}
	id := CtorID(lenCtors)
	c.Labels = slices.Clone(c.Labels)
	c.Params = slices.Clone(c.Params)
	c.seq = Tick(id)
	t.ctors = append(t.ctors, c)
	t.byOwner[c.Owner] = append(t.byOwner[c.Owner], id)
	return id
}

// Ctor returns the constructor for an ID, nil when invalid.
func (t *Table) Ctor(id CtorID) *Ctor {
	if id == NoCtorID || int(id) >= len(t.ctors) {
		return nil
	}
	return &t.ctors[id]
}

// CtorsOf returns the IDs of constructors declared directly on owner, in
// registration order. Constructors of a supertype are never included: the
// resolver must know statically which concrete type's argument shape it is
// matching.
func (t *Table) CtorsOf(owner types.TypeID) []CtorID {
	return t.byOwner[owner]
}

// Tick returns the current registration watermark.
func (t *Table) Tick() Tick {
	return Tick(len(t.ctors))
}

// Visible reports whether the constructor can be named from ctx. This is
// the visibility oracle: public declarations are visible everywhere,
// module-level ones inside their module, file-private ones inside their
// file only.
func (t *Table) Visible(c *Ctor, ctx Context) bool {
	if c == nil {
		return false
	}
	switch c.Visibility {
	case VisPublic:
		return true
	case VisModule:
		return c.Module == ctx.Module
	case VisFile:
		return c.Module == ctx.Module && c.File == ctx.File
	default:
		return false
	}
}
