package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindString
	KindFn
	KindTuple
	KindOptional
	KindStruct
	KindIface
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFn:
		return "fn"
	case KindTuple:
		return "tuple"
	case KindOptional:
		return "optional"
	case KindStruct:
		return "struct"
	case KindIface:
		return "interface"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
// Elem is the wrapped type for optionals; Payload is an info-table slot
// for structs, interfaces, aliases, functions, and tuples.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

// MakeOptional builds a descriptor wrapping elem.
func MakeOptional(elem TypeID) Type {
	return Type{Kind: KindOptional, Elem: elem}
}
