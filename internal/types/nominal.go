package types

import (
	"expandc/internal/source"
)

// StructInfo stores metadata for a nominal struct type.
// Super is the optional supertype; constructors live in the symbol table,
// not here, so cyclic owner/constructor references need no special casing.
type StructInfo struct {
	Name  source.StringID
	Decl  source.Span
	Super TypeID
}

// IfaceInfo stores metadata for an interface-like abstract type. Such a
// type may declare constructor requirements, but has no concrete
// constructors of its own.
type IfaceInfo struct {
	Name source.StringID
	Decl source.Span
}

// AliasInfo stores metadata for a nominal alias type.
type AliasInfo struct {
	Name   source.StringID
	Decl   source.Span
	Target TypeID
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot := in.slot(len(in.structs))
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructSuper records the supertype of a struct.
func (in *Interner) SetStructSuper(typeID, super TypeID) {
	if info := in.structInfo(typeID); info != nil {
		info.Super = super
	}
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// RegisterIface allocates an interface type slot and returns its TypeID.
func (in *Interner) RegisterIface(name source.StringID, decl source.Span) TypeID {
	slot := in.slot(len(in.ifaces))
	in.ifaces = append(in.ifaces, IfaceInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindIface, Payload: slot})
}

// IfaceInfo returns metadata for the provided interface TypeID.
func (in *Interner) IfaceInfo(typeID TypeID) (*IfaceInfo, bool) {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindIface || int(tt.Payload) >= len(in.ifaces) || tt.Payload == 0 {
		return nil, false
	}
	return &in.ifaces[tt.Payload], true
}

// RegisterAlias allocates a nominal alias type slot and returns its TypeID.
func (in *Interner) RegisterAlias(name source.StringID, decl source.Span, target TypeID) TypeID {
	slot := in.slot(len(in.aliases))
	in.aliases = append(in.aliases, AliasInfo{Name: name, Decl: decl, Target: target})
	return in.internRaw(Type{Kind: KindAlias, Payload: slot})
}

// AliasInfo returns metadata for the provided alias TypeID.
func (in *Interner) AliasInfo(typeID TypeID) (*AliasInfo, bool) {
	info := in.aliasInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct || int(tt.Payload) >= len(in.structs) || tt.Payload == 0 {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) aliasInfo(typeID TypeID) *AliasInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindAlias || int(tt.Payload) >= len(in.aliases) || tt.Payload == 0 {
		return nil
	}
	return &in.aliases[tt.Payload]
}

// NominalName returns the declared name of a struct, interface, or alias
// type, or NoStringID for anything else.
func (in *Interner) NominalName(typeID TypeID) source.StringID {
	switch in.KindOf(typeID) {
	case KindStruct:
		if info := in.structInfo(typeID); info != nil {
			return info.Name
		}
	case KindIface:
		if info, ok := in.IfaceInfo(typeID); ok {
			return info.Name
		}
	case KindAlias:
		if info := in.aliasInfo(typeID); info != nil {
			return info.Name
		}
	}
	return source.NoStringID
}
