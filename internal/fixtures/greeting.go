package fixtures

import (
	"context"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/signature"
)

// GreetingClass declares the greeting natives. They are instance methods;
// the receiver does not cross the boundary.
const GreetingClass = "java_to_rust_greeting.Java_Can_Call_Rust_Java_Function"

var (
	BaseGreeting = signature.MustNew(GreetingClass, "base_greeting", signature.String, signature.String)
	GetInt       = signature.MustNew(GreetingClass, "getInt", signature.I32)
	EchoInt      = signature.MustNew(GreetingClass, "echoInt", signature.I32, signature.I32)
)

// GreetingSignatures returns the declarations of the greeting library.
func GreetingSignatures() []signature.Signature {
	return []signature.Signature{BaseGreeting, GetInt, EchoInt}
}

// RegisterGreeting binds the Go bodies of the greeting library.
func RegisterGreeting(r dispatch.Registrar) error {
	if err := r.Register(BaseGreeting, dispatch.Func(baseGreeting)); err != nil {
		return err
	}
	if err := r.Register(GetInt, dispatch.Func(getInt)); err != nil {
		return err
	}
	return r.Register(EchoInt, dispatch.Func(echoInt))
}

// baseGreeting hands the name back unchanged; a null name yields null.
func baseGreeting(_ context.Context, call *dispatch.Call) (any, error) {
	if call.IsNull(0) {
		return nil, nil
	}
	return call.String(0)
}

func getInt(context.Context, *dispatch.Call) (any, error) {
	return int32(0), nil
}

func echoInt(_ context.Context, call *dispatch.Call) (any, error) {
	return call.Int32(0)
}
