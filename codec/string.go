package codec

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/native-bridge/errors"
)

// ManagedString is a string as the managed runtime stores it: UTF-16 code
// units, which may include unpaired surrogates.
type ManagedString []uint16

// MustManagedString converts Go text to a ManagedString, panicking on
// malformed UTF-8. Intended for literals.
func MustManagedString(s string) ManagedString {
	ms, err := EncodeString(s)
	if err != nil {
		panic(err)
	}
	return ms
}

// Equal reports whether both strings hold the same code units.
func (s ManagedString) Equal(o ManagedString) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders s for display. Unpaired surrogates become U+FFFD; use
// DecodeString for a checked conversion.
func (s ManagedString) String() string {
	return string(utf16.Decode(s))
}

// DecodeString converts a managed string to native UTF-8 text. It fails
// with errors.ErrEncoding on an unpaired surrogate, which UTF-8 cannot
// represent.
func DecodeString(s ManagedString) (string, error) {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		u := s[i]
		switch {
		case u < 0xd800 || u > 0xdfff:
			buf = utf8.AppendRune(buf, rune(u))
		case u <= 0xdbff && i+1 < len(s) && s[i+1] >= 0xdc00 && s[i+1] <= 0xdfff:
			buf = utf8.AppendRune(buf, utf16.DecodeRune(rune(u), rune(s[i+1])))
			i++
		default:
			return "", errors.UnpairedSurrogate(errors.PhaseDecode, nil, u, i)
		}
	}
	return string(buf), nil
}

// EncodeString converts native UTF-8 text to a managed string. It fails
// with errors.ErrEncoding on malformed UTF-8.
func EncodeString(s string) (ManagedString, error) {
	out := make(ManagedString, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(s[i:]))
		}
		out = utf16.AppendRune(out, r)
		i += size
	}
	return out, nil
}

// DecodeUTF8 validates raw native bytes as UTF-8 text.
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseEncode, nil, b)
	}
	return string(b), nil
}
