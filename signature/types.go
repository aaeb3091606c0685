package signature

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/errors"
)

// Type is the semantic type of a native method parameter or result.
type Type uint8

const (
	Void Type = iota
	I32
	I64
	ByteArray
	BoolArray
	String
)

var (
	witByteList = &wit.TypeDef{Kind: &wit.List{Type: wit.S8{}}}
	witBoolList = &wit.TypeDef{Kind: &wit.List{Type: wit.Bool{}}}
)

// String returns the managed-side spelling of the type.
func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case I32:
		return "int"
	case I64:
		return "long"
	case ByteArray:
		return "byte[]"
	case BoolArray:
		return "boolean[]"
	case String:
		return "String"
	default:
		return "invalid"
	}
}

// Descriptor returns the JNI field descriptor of the type.
func (t Type) Descriptor() string {
	switch t {
	case Void:
		return "V"
	case I32:
		return "I"
	case I64:
		return "J"
	case ByteArray:
		return "[B"
	case BoolArray:
		return "[Z"
	case String:
		return "Ljava/lang/String;"
	default:
		return "?"
	}
}

// WIT returns the equivalent WIT type, or nil for Void.
func (t Type) WIT() wit.Type {
	switch t {
	case I32:
		return wit.S32{}
	case I64:
		return wit.S64{}
	case ByteArray:
		return witByteList
	case BoolArray:
		return witBoolList
	case String:
		return wit.String{}
	default:
		return nil
	}
}

// IsArray reports whether values of t are lent by reference.
func (t Type) IsArray() bool {
	return t == ByteArray || t == BoolArray
}

// IsParam reports whether t may appear in a parameter list.
func (t Type) IsParam() bool {
	return t >= I32 && t <= String
}

// IsResult reports whether t may be returned. Boolean arrays are accepted
// as arguments only.
func (t Type) IsResult() bool {
	return t != BoolArray && t <= String
}

var typeNames = map[string]Type{
	"void":             Void,
	"int":              I32,
	"i32":              I32,
	"s32":              I32,
	"long":             I64,
	"i64":              I64,
	"s64":              I64,
	"byte[]":           ByteArray,
	"bytes":            ByteArray,
	"boolean[]":        BoolArray,
	"bools":            BoolArray,
	"String":           String,
	"string":           String,
	"java.lang.String": String,
}

// ParseType parses a type name such as "int", "byte[]" or "String".
func ParseType(name string) (Type, error) {
	t, ok := typeNames[name]
	if !ok {
		return Void, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Value(name).
			Detail("unknown type %q", name).
			Build()
	}
	return t, nil
}
