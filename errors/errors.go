package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBorrow   Phase = "borrow"   // array view access
	PhaseEncode   Phase = "encode"   // native to managed
	PhaseDecode   Phase = "decode"   // managed to native
	PhaseDispatch Phase = "dispatch" // native method invocation
	PhaseRegister Phase = "register" // binding implementations
	PhaseLoad     Phase = "load"     // native library loading
	PhaseParse    Phase = "parse"    // descriptors and manifests
	PhaseRuntime  Phase = "runtime"  // native execution
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds    Kind = "out_of_bounds"
	KindEncoding       Kind = "encoding"
	KindUnresolved     Kind = "unresolved_native_method"
	KindViewExpired    Kind = "view_expired"
	KindTypeMismatch   Kind = "type_mismatch"
	KindArityMismatch  Kind = "arity_mismatch"
	KindNullArgument   Kind = "null_argument"
	KindDuplicate      Kind = "duplicate"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
	KindAllocation     Kind = "allocation"
	KindNotInitialized Kind = "not_initialized"
	KindMissingSymbol  Kind = "missing_symbol"
	KindNativeFailure  Kind = "native_failure"
)

// Sentinels match any error of the same Kind, whatever its Phase.
var (
	ErrOutOfBounds  = &Error{Kind: KindOutOfBounds}
	ErrEncoding     = &Error{Kind: KindEncoding}
	ErrUnresolved   = &Error{Kind: KindUnresolved}
	ErrViewExpired  = &Error{Kind: KindViewExpired}
	ErrTypeMismatch = &Error{Kind: KindTypeMismatch}
	ErrNullArgument = &Error{Kind: KindNullArgument}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	ManagedType string
	NativeType  string
	Detail      string
	Path        []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	typed := e.ManagedType != "" || e.NativeType != ""
	if typed {
		b.WriteString(": ")
		switch {
		case e.ManagedType != "" && e.NativeType != "":
			b.WriteString("managed type ")
			b.WriteString(e.ManagedType)
			b.WriteString(", native type ")
			b.WriteString(e.NativeType)
		case e.ManagedType != "":
			b.WriteString("managed type ")
			b.WriteString(e.ManagedType)
		default:
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
		}
	}

	if e.Detail != "" {
		if typed {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the call path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// ManagedType sets the managed-side type name
func (b *Builder) ManagedType(t string) *Builder {
	b.err.ManagedType = t
	return b
}

// NativeType sets the native-side type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// LengthExceeded creates an out of bounds error for a declared length larger
// than the backing array.
func LengthExceeded(phase Phase, path []string, declared, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("declared length %d exceeds array length %d", declared, capacity),
		Value:  declared,
	}
}

// LengthMismatch creates an out of bounds error for an array that must hold
// exactly want elements.
func LengthMismatch(phase Phase, path []string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("need exactly %d elements, array length %d", want, got),
		Value:  got,
	}
}

// InvalidUTF8 creates an encoding error for malformed native text
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:      phase,
		Kind:       KindEncoding,
		Path:       path,
		NativeType: "utf-8",
		Detail:     fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// UnpairedSurrogate creates an encoding error for managed text that has no
// UTF-8 representation
func UnpairedSurrogate(phase Phase, path []string, unit uint16, index int) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindEncoding,
		Path:        path,
		ManagedType: "utf-16",
		Detail:      fmt.Sprintf("unpaired surrogate 0x%04x at index %d", unit, index),
		Value:       unit,
	}
}

// Unresolved creates an unresolved native method error
func Unresolved(key string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnresolved,
		Detail: fmt.Sprintf("no implementation bound for %s", key),
		Value:  key,
	}
}

// ViewExpired creates an error for a view used outside its call
func ViewExpired(path []string) *Error {
	return &Error{
		Phase:  PhaseBorrow,
		Kind:   KindViewExpired,
		Path:   path,
		Detail: "array view used after its call returned",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, managedType, nativeType string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindTypeMismatch,
		Path:        path,
		ManagedType: managedType,
		NativeType:  nativeType,
	}
}

// NullArgument creates an error for a null array reference
func NullArgument(phase Phase, path []string, nativeType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindNullArgument,
		Path:       path,
		NativeType: nativeType,
		Detail:     "null reference",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a library loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// MissingSymbol represents a single declaration with no matching export
type MissingSymbol struct {
	Library string // e.g., "native_fn_arrays"
	Method  string // e.g., "JavaArrayTests.combine_bytes([B)J"
	Symbol  string // e.g., "Java_JavaArrayTests_combine_1bytes"
}

// MissingSymbolsError is returned when binding a library leaves declarations
// without an implementation
type MissingSymbolsError struct {
	Symbols []MissingSymbol
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[register] missing_symbol: no symbols specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "missing %d native symbol(s):\n", len(e.Symbols))

	// Group by library for cleaner output
	byLib := make(map[string][]MissingSymbol)
	for _, s := range e.Symbols {
		byLib[s.Library] = append(byLib[s.Library], s)
	}
	libs := make([]string, 0, len(byLib))
	for lib := range byLib {
		libs = append(libs, lib)
	}
	sort.Strings(libs)

	for _, lib := range libs {
		b.WriteString("\n  ")
		b.WriteString(lib)
		b.WriteString(":\n")
		for _, s := range byLib[lib] {
			fmt.Fprintf(&b, "    - %s (%s)\n", s.Method, s.Symbol)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingSymbolsError) Is(target error) bool {
	if _, ok := target.(*MissingSymbolsError); ok {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.Kind == KindMissingSymbol && (t.Phase == "" || t.Phase == PhaseRegister)
}
