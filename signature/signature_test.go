package signature

import (
	"errors"
	"testing"

	"go.bytecodealliance.org/wit"

	bridgeerrors "github.com/wippyai/native-bridge/errors"
)

const arraysClass = "java_to_rust_arrays.JavaArrayTests"

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		desc   string
		params []Type
		result Type
	}{
		{"([B)J", []Type{ByteArray}, I64},
		{"(J)[B", []Type{I64}, ByteArray},
		{"([BI)J", []Type{ByteArray, I32}, I64},
		{"([ZI)J", []Type{BoolArray, I32}, I64},
		{"(Ljava/lang/String;)Ljava/lang/String;", []Type{String}, String},
		{"()I", nil, I32},
		{"(I)I", []Type{I32}, I32},
		{"(IJLjava/lang/String;)V", []Type{I32, I64, String}, Void},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sig, err := ParseDescriptor(arraysClass, "m", tt.desc)
			if err != nil {
				t.Fatalf("ParseDescriptor: %v", err)
			}
			if sig.Result != tt.result {
				t.Errorf("Result = %v, want %v", sig.Result, tt.result)
			}
			if len(sig.Params) != len(tt.params) {
				t.Fatalf("Params = %v, want %v", sig.Params, tt.params)
			}
			for i := range tt.params {
				if sig.Params[i] != tt.params[i] {
					t.Errorf("Params[%d] = %v, want %v", i, sig.Params[i], tt.params[i])
				}
			}
			if got := sig.Descriptor(); got != tt.desc {
				t.Errorf("Descriptor() = %q, want %q", got, tt.desc)
			}
		})
	}
}

func TestParseDescriptor_Invalid(t *testing.T) {
	for _, desc := range []string{
		"",
		"J",
		"(J",
		"()",
		"(V)I",
		"(Z)I",
		"([I)I",
		"(Ljava/lang/Object;)V",
		"(I)Jx",
		"(I)[Z",
	} {
		t.Run(desc, func(t *testing.T) {
			if _, err := ParseDescriptor(arraysClass, "m", desc); err == nil {
				t.Errorf("ParseDescriptor(%q) should fail", desc)
			}
		})
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "m", Void); err == nil {
		t.Error("empty class should fail")
	}
	if _, err := New("C", "", Void); err == nil {
		t.Error("empty name should fail")
	}
	_, err := New("C", "m", Void, Void)
	if !errors.Is(err, bridgeerrors.ErrTypeMismatch) {
		t.Errorf("void param: err = %v", err)
	}
	_, err = New("C", "m", BoolArray)
	if !errors.Is(err, bridgeerrors.ErrTypeMismatch) {
		t.Errorf("boolean[] result: err = %v", err)
	}
	if _, err := New("C", "m", Type(42)); err == nil {
		t.Error("unknown result type should fail")
	}
}

func TestNew_CopiesParams(t *testing.T) {
	params := []Type{I32, I64}
	sig := MustNew("C", "m", Void, params...)
	params[0] = String
	if sig.Params[0] != I32 {
		t.Error("New should copy the parameter slice")
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustNew("", "m", Void)
}

func TestKey(t *testing.T) {
	a := MustNew(arraysClass, "fillWithOnes", I64, ByteArray, I32)
	b := MustNew(arraysClass, "fillWithOnes", I32, ByteArray, I32)
	c := MustNew(arraysClass, "fillWithOnes", I64, BoolArray, I32)

	if a.Key() != "java_to_rust_arrays.JavaArrayTests.fillWithOnes([BI)" {
		t.Errorf("Key = %q", a.Key())
	}
	if a.Key() != b.Key() {
		t.Error("result type should not be part of the key")
	}
	if a.Equal(b) {
		t.Error("Equal should compare results")
	}
	if a.Key() == c.Key() || a.SameParams(c) {
		t.Error("different parameter types must give different keys")
	}
	if !a.SameParams(b) {
		t.Error("SameParams should ignore the result")
	}
}

func TestString(t *testing.T) {
	sig := MustNew(arraysClass, "fillWithTrue", I64, BoolArray, I32).AsStatic()
	want := "static native long java_to_rust_arrays.JavaArrayTests.fillWithTrue(boolean[], int)"
	if sig.String() != want {
		t.Errorf("String = %q, want %q", sig.String(), want)
	}
	if sig.SimpleClass() != "JavaArrayTests" {
		t.Errorf("SimpleClass = %q", sig.SimpleClass())
	}
	if MustNew("Bare", "m", Void).SimpleClass() != "Bare" {
		t.Error("SimpleClass without package")
	}
}

func TestSymbols(t *testing.T) {
	tests := []struct {
		sig   Signature
		short string
		long  string
	}{
		{
			MustNew(arraysClass, "combine_bytes", I64, ByteArray),
			"Java_java_1to_1rust_1arrays_JavaArrayTests_combine_1bytes",
			"Java_java_1to_1rust_1arrays_JavaArrayTests_combine_1bytes___3B",
		},
		{
			MustNew("java_to_rust_greeting.Java_Can_Call_Rust_Java_Function", "base_greeting", String, String),
			"Java_java_1to_1rust_1greeting_Java_1Can_1Call_1Rust_1Java_1Function_base_1greeting",
			"Java_java_1to_1rust_1greeting_Java_1Can_1Call_1Rust_1Java_1Function_base_1greeting__Ljava_lang_String_2",
		},
		{
			MustNew("p.C", "f", I32, BoolArray, I32),
			"Java_p_C_f",
			"Java_p_C_f___3ZI",
		},
		{
			MustNew("p.Ünï", "f", Void),
			"Java_p__000dcn_000ef_f",
			"Java_p__000dcn_000ef_f__",
		},
	}

	for _, tt := range tests {
		t.Run(tt.sig.Name, func(t *testing.T) {
			if got := tt.sig.Symbol(); got != tt.short {
				t.Errorf("Symbol = %q, want %q", got, tt.short)
			}
			if got := tt.sig.LongSymbol(); got != tt.long {
				t.Errorf("LongSymbol = %q, want %q", got, tt.long)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for name, want := range map[string]Type{
		"int": I32, "long": I64, "byte[]": ByteArray, "boolean[]": BoolArray,
		"String": String, "java.lang.String": String, "void": Void, "i64": I64,
	} {
		got, err := ParseType(name)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseType("float"); err == nil {
		t.Error("ParseType(float) should fail")
	}
}

func TestType_WIT(t *testing.T) {
	if Void.WIT() != nil {
		t.Error("void has no WIT type")
	}
	if _, ok := I32.WIT().(wit.S32); !ok {
		t.Errorf("int -> %T", I32.WIT())
	}
	if _, ok := I64.WIT().(wit.S64); !ok {
		t.Errorf("long -> %T", I64.WIT())
	}
	if _, ok := String.WIT().(wit.String); !ok {
		t.Errorf("String -> %T", String.WIT())
	}
	if _, ok := listElem(t, ByteArray).(wit.S8); !ok {
		t.Errorf("byte[] element = %T", listElem(t, ByteArray))
	}
	if _, ok := listElem(t, BoolArray).(wit.Bool); !ok {
		t.Errorf("boolean[] element = %T", listElem(t, BoolArray))
	}
	if ByteArray.WIT() != ByteArray.WIT() {
		t.Error("list types should be shared definitions")
	}
}

func listElem(t *testing.T, typ Type) wit.Type {
	t.Helper()
	td, ok := typ.WIT().(*wit.TypeDef)
	if !ok {
		t.Fatalf("%v -> %T", typ, typ.WIT())
	}
	list, ok := td.Kind.(*wit.List)
	if !ok {
		t.Fatalf("%v kind -> %T", typ, td.Kind)
	}
	return list.Type
}
