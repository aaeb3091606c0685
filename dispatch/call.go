package dispatch

import (
	"fmt"

	"github.com/wippyai/native-bridge/array"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// Call is the frame a native body receives. Arguments have already been
// checked against the declaration; strings are decoded to native text.
// Array arguments are reachable only through views, which expire when the
// body returns.
type Call struct {
	lease   *array.Lease
	sig     signature.Signature
	args    []any
	strs    []string
	nullStr []bool
}

// Signature returns the declaration being invoked.
func (c *Call) Signature() signature.Signature { return c.sig }

// NumArgs returns the number of arguments.
func (c *Call) NumArgs() int { return len(c.args) }

// Int32 returns argument i as an int.
func (c *Call) Int32(i int) (int32, error) {
	if err := c.expect(i, signature.I32); err != nil {
		return 0, err
	}
	return c.args[i].(int32), nil
}

// Int64 returns argument i as a long.
func (c *Call) Int64(i int) (int64, error) {
	if err := c.expect(i, signature.I64); err != nil {
		return 0, err
	}
	return c.args[i].(int64), nil
}

// String returns argument i as native UTF-8 text.
func (c *Call) String(i int) (string, error) {
	if err := c.expect(i, signature.String); err != nil {
		return "", err
	}
	if c.nullStr[i] {
		return "", errors.NullArgument(errors.PhaseDispatch, c.path(i), "String")
	}
	return c.strs[i], nil
}

// IsNull reports whether reference argument i is null.
func (c *Call) IsNull(i int) bool {
	if i < 0 || i >= len(c.args) {
		return false
	}
	switch v := c.args[i].(type) {
	case *array.ByteArray:
		return v == nil
	case *array.BoolArray:
		return v == nil
	}
	return c.nullStr[i]
}

// Len returns the true length of array argument i.
func (c *Call) Len(i int) (int, error) {
	if err := c.index(i); err != nil {
		return 0, err
	}
	switch v := c.args[i].(type) {
	case *array.ByteArray:
		if v == nil {
			return 0, errors.NullArgument(errors.PhaseDispatch, c.path(i), "byte[]")
		}
		return v.Len(), nil
	case *array.BoolArray:
		if v == nil {
			return 0, errors.NullArgument(errors.PhaseDispatch, c.path(i), "boolean[]")
		}
		return v.Len(), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseDispatch, c.path(i), c.sig.Params[i].String(), "array")
}

// Bytes borrows the first declared elements of byte[] argument i for the
// rest of the call.
func (c *Call) Bytes(i, declared int) (*array.ByteView, error) {
	if err := c.expect(i, signature.ByteArray); err != nil {
		return nil, err
	}
	v, err := c.lease.Bytes(c.args[i].(*array.ByteArray), declared)
	if err != nil {
		return nil, withPath(err, c.path(i))
	}
	return v, nil
}

// Bools borrows the first declared elements of boolean[] argument i for the
// rest of the call.
func (c *Call) Bools(i, declared int) (*array.BoolView, error) {
	if err := c.expect(i, signature.BoolArray); err != nil {
		return nil, err
	}
	v, err := c.lease.Bools(c.args[i].(*array.BoolArray), declared)
	if err != nil {
		return nil, withPath(err, c.path(i))
	}
	return v, nil
}

func (c *Call) index(i int) error {
	if i < 0 || i >= len(c.args) {
		return errors.New(errors.PhaseDispatch, errors.KindArityMismatch).
			Path(c.sig.Class, c.sig.Name).
			Value(i).
			Detail("argument %d requested, method takes %d", i, len(c.args)).
			Build()
	}
	return nil
}

func (c *Call) expect(i int, t signature.Type) error {
	if err := c.index(i); err != nil {
		return err
	}
	if c.sig.Params[i] != t {
		return errors.TypeMismatch(errors.PhaseDispatch, c.path(i), c.sig.Params[i].String(), t.String())
	}
	return nil
}

func (c *Call) path(i int) []string {
	return []string{c.sig.SimpleClass(), c.sig.Name, fmt.Sprintf("arg%d", i)}
}

func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		cp := *e
		cp.Path = path
		return &cp
	}
	return err
}
