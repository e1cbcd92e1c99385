package types

import (
	"fmt"

	"fortio.org/safecast"

	"expandc/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	Float   TypeID
	String  TypeID
}

// typeKey is the comparable map key form of a structural descriptor.
type typeKey Type

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types (structs, interfaces, aliases) are registered, not interned:
// two distinct declarations never share a TypeID.
type Interner struct {
	Strings *source.Interner

	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	structs []StructInfo
	ifaces  []IfaceInfo
	aliases []AliasInfo
	fns     []FnInfo
	tuples  []TupleInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		Strings: strings,
		index:   make(map[typeKey]TypeID, 32),
	}
	// Slot 0 of every info table is an invalid sentinel.
	in.structs = append(in.structs, StructInfo{})
	in.ifaces = append(in.ifaces, IfaceInfo{})
	in.aliases = append(in.aliases, AliasInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.tuples = append(in.tuples, TupleInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind for a TypeID, KindInvalid when unknown.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// ResolveAlias follows alias targets until a non-alias type is reached.
// Cycles and broken chains resolve to NoTypeID.
func (in *Interner) ResolveAlias(id TypeID) TypeID {
	for depth := 0; depth < 16; depth++ {
		tt, ok := in.Lookup(id)
		if !ok {
			return NoTypeID
		}
		if tt.Kind != KindAlias {
			return id
		}
		info := in.aliasInfo(id)
		if info == nil || info.Target == NoTypeID {
			return NoTypeID
		}
		id = info.Target
	}
	return NoTypeID
}

func (in *Interner) slot(count int) uint32 {
	slot, err := safecast.Conv[uint32](count)
	if err != nil {
		panic(fmt.Errorf("info slot overflow: %w", err))
	}
	return slot
}
