package types

import "slices"

// FnInfo stores the shape of a function type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// TupleInfo stores the element types of a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterFn allocates a function type and returns its TypeID.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	slot := in.slot(len(in.fns))
	in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Result: result})
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo returns the shape for a function TypeID.
func (in *Interner) FnInfo(typeID TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) || tt.Payload == 0 {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// RegisterTuple allocates a tuple type and returns its TypeID.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	slot := in.slot(len(in.tuples))
	in.tuples = append(in.tuples, TupleInfo{Elems: slices.Clone(elems)})
	return in.internRaw(Type{Kind: KindTuple, Payload: slot})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(typeID TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) || tt.Payload == 0 {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}
