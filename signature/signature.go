package signature

import (
	"strconv"
	"strings"

	"github.com/wippyai/native-bridge/errors"
)

// Signature declares a native method: the class that declares it, its name,
// parameter types and result type. Signatures are values; copy them freely.
type Signature struct {
	Class  string // dotted, e.g. "java_to_rust_arrays.JavaArrayTests"
	Name   string
	Params []Type
	Result Type
	Static bool
}

// New builds and validates a signature.
func New(class, name string, result Type, params ...Type) (Signature, error) {
	s := Signature{
		Class:  class,
		Name:   name,
		Params: append([]Type(nil), params...),
		Result: result,
	}
	if err := s.Validate(); err != nil {
		return Signature{}, err
	}
	return s, nil
}

// MustNew is New for declarations known to be valid. It panics otherwise.
func MustNew(class, name string, result Type, params ...Type) Signature {
	s, err := New(class, name, result, params...)
	if err != nil {
		panic(err)
	}
	return s
}

// AsStatic returns a copy of s marked static.
func (s Signature) AsStatic() Signature {
	s.Static = true
	return s
}

// Validate checks names and that every type is legal in its position.
func (s Signature) Validate() error {
	if s.Class == "" {
		return errors.InvalidInput(errors.PhaseParse, "class cannot be empty")
	}
	if s.Name == "" {
		return errors.InvalidInput(errors.PhaseParse, "method name cannot be empty")
	}
	for i, p := range s.Params {
		if !p.IsParam() {
			return errors.New(errors.PhaseParse, errors.KindTypeMismatch).
				Path(s.Class, s.Name, argName(i)).
				NativeType(p.String()).
				Detail("not a parameter type").
				Build()
		}
	}
	if !s.Result.IsResult() {
		return errors.New(errors.PhaseParse, errors.KindTypeMismatch).
			Path(s.Class, s.Name, "result").
			NativeType(s.Result.String()).
			Detail("not a result type").
			Build()
	}
	return nil
}

// ParamDescriptor returns the concatenated JNI descriptors of the parameters.
func (s Signature) ParamDescriptor() string {
	var b strings.Builder
	for _, p := range s.Params {
		b.WriteString(p.Descriptor())
	}
	return b.String()
}

// Descriptor returns the JNI method descriptor, e.g. "([BI)J".
func (s Signature) Descriptor() string {
	return "(" + s.ParamDescriptor() + ")" + s.Result.Descriptor()
}

// Key identifies the method for resolution: class, name and parameter types.
// The result type is not part of the key.
func (s Signature) Key() string {
	return s.Class + "." + s.Name + "(" + s.ParamDescriptor() + ")"
}

// SameParams reports whether s and o take the same parameter types.
func (s Signature) SameParams(o Signature) bool {
	if len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

// Equal reports whether s and o declare the same method with the same result.
func (s Signature) Equal(o Signature) bool {
	return s.Key() == o.Key() && s.Result == o.Result
}

// String renders the declaration in managed syntax, e.g.
// "static native long JavaArrayTests.combine_bytes(byte[])".
func (s Signature) String() string {
	var b strings.Builder
	if s.Static {
		b.WriteString("static ")
	}
	b.WriteString("native ")
	b.WriteString(s.Result.String())
	b.WriteByte(' ')
	b.WriteString(s.Class)
	b.WriteByte('.')
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// SimpleClass returns the class name without its package.
func (s Signature) SimpleClass() string {
	if i := strings.LastIndexByte(s.Class, '.'); i >= 0 {
		return s.Class[i+1:]
	}
	return s.Class
}

func argName(i int) string {
	return "arg" + strconv.Itoa(i)
}
