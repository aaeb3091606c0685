package main

import (
	"strconv"
	"strings"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/codec"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// parseArgs converts command-line text to managed argument values. Arrays
// are comma-separated elements; "null" is a null reference.
func parseArgs(sig signature.Signature, args []string) ([]any, error) {
	if len(args) != len(sig.Params) {
		return nil, errors.New(errors.PhaseParse, errors.KindArityMismatch).
			Path(sig.SimpleClass(), sig.Name).
			Detail("%s takes %d argument(s), got %d", sig, len(sig.Params), len(args)).
			Build()
	}

	values := make([]any, len(args))
	for i, p := range sig.Params {
		v, err := parseArg(p, args[i])
		if err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(sig.SimpleClass(), sig.Name, "arg"+strconv.Itoa(i)).
				NativeType(p.String()).
				Value(args[i]).
				Cause(err).
				Detail("cannot parse %q", args[i]).
				Build()
		}
		values[i] = v
	}
	return values, nil
}

func parseArg(t signature.Type, s string) (any, error) {
	if s == "null" && t != signature.I32 && t != signature.I64 {
		return nil, nil
	}

	switch t {
	case signature.I32:
		n, err := strconv.ParseInt(s, 0, 32)
		return int32(n), err
	case signature.I64:
		n, err := strconv.ParseInt(s, 0, 64)
		return n, err
	case signature.String:
		return codec.EncodeString(s)
	case signature.ByteArray:
		parts := splitElems(s)
		arr := array.NewByteArray(len(parts))
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 0, 8)
			if err != nil {
				return nil, err
			}
			arr.Put(i, int8(n))
		}
		return arr, nil
	case signature.BoolArray:
		parts := splitElems(s)
		arr := array.NewBoolArray(len(parts))
		for i, p := range parts {
			b, err := strconv.ParseBool(p)
			if err != nil {
				return nil, err
			}
			arr.Put(i, b)
		}
		return arr, nil
	}
	return nil, errors.InvalidInput(errors.PhaseParse, "unsupported parameter type "+t.String())
}

func splitElems(s string) []string {
	s = strings.TrimSpace(strings.Trim(s, "[]{}"))
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// formatValue renders a managed value for display.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case *array.ByteArray:
		if v == nil {
			return "null"
		}
		elems := make([]string, v.Len())
		for i := range elems {
			elems[i] = strconv.Itoa(int(v.At(i)))
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *array.BoolArray:
		if v == nil {
			return "null"
		}
		elems := make([]string, v.Len())
		for i := range elems {
			elems[i] = strconv.FormatBool(v.At(i))
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case codec.ManagedString:
		if v == nil {
			return "null"
		}
		return strconv.Quote(v.String())
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "?"
}
