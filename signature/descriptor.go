package signature

import (
	"strings"
	"unicode/utf16"

	"github.com/wippyai/native-bridge/errors"
)

// ParseDescriptor builds a signature from a JNI method descriptor such as
// "([BI)J". Only the types in this package are accepted.
func ParseDescriptor(class, name, desc string) (Signature, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return Signature{}, descError(desc, "must start with '('")
	}
	end := strings.IndexByte(desc, ')')
	if end < 0 {
		return Signature{}, descError(desc, "missing ')'")
	}

	var params []Type
	rest := desc[1:end]
	for rest != "" {
		t, n, err := parseFieldType(rest)
		if err != nil {
			return Signature{}, descError(desc, err.Error())
		}
		if t == Void {
			return Signature{}, descError(desc, "void parameter")
		}
		params = append(params, t)
		rest = rest[n:]
	}

	result, n, err := parseFieldType(desc[end+1:])
	if err != nil {
		return Signature{}, descError(desc, err.Error())
	}
	if end+1+n != len(desc) {
		return Signature{}, descError(desc, "trailing characters after result type")
	}

	return New(class, name, result, params...)
}

func parseFieldType(s string) (Type, int, error) {
	if s == "" {
		return Void, 0, errors.InvalidInput(errors.PhaseParse, "missing type")
	}
	switch s[0] {
	case 'V':
		return Void, 1, nil
	case 'I':
		return I32, 1, nil
	case 'J':
		return I64, 1, nil
	case '[':
		if len(s) >= 2 {
			switch s[1] {
			case 'B':
				return ByteArray, 2, nil
			case 'Z':
				return BoolArray, 2, nil
			}
		}
	case 'L':
		const str = "Ljava/lang/String;"
		if strings.HasPrefix(s, str) {
			return String, len(str), nil
		}
	}
	return Void, 0, errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Value(s).
		Detail("unsupported type at %q", s).
		Build()
}

func descError(desc, reason string) *errors.Error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Value(desc).
		Detail("descriptor %q: %s", desc, reason).
		Build()
}

// Symbol returns the short JNI symbol of the method, e.g.
// "Java_java_1to_1rust_1arrays_JavaArrayTests_combine_1bytes".
func (s Signature) Symbol() string {
	return "Java_" + mangle(strings.ReplaceAll(s.Class, ".", "/")) + "_" + mangle(s.Name)
}

// LongSymbol returns the overload-qualified JNI symbol: the short symbol,
// two underscores and the mangled parameter descriptor.
func (s Signature) LongSymbol() string {
	return s.Symbol() + "__" + mangle(s.ParamDescriptor())
}

// mangle applies the JNI escape rules to a class path, method name or
// descriptor.
func mangle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/':
			b.WriteByte('_')
		case r == '_':
			b.WriteString("_1")
		case r == ';':
			b.WriteString("_2")
		case r == '[':
			b.WriteString("_3")
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			for _, u := range utf16.Encode([]rune{r}) {
				b.WriteString("_0")
				const hex = "0123456789abcdef"
				b.WriteByte(hex[u>>12&0xf])
				b.WriteByte(hex[u>>8&0xf])
				b.WriteByte(hex[u>>4&0xf])
				b.WriteByte(hex[u&0xf])
			}
		}
	}
	return b.String()
}
