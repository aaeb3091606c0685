package manifest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/fixtures"
	"github.com/wippyai/native-bridge/signature"
)

func TestLoadFixtures(t *testing.T) {
	tests := []struct {
		file string
		want []signature.Signature
	}{
		{"arrays.yaml", fixtures.ArraysSignatures()},
		{"greeting.yaml", fixtures.GreetingSignatures()},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := Load(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			sigs, err := m.Signatures()
			if err != nil {
				t.Fatal(err)
			}
			if len(sigs) != len(tt.want) {
				t.Fatalf("got %d signatures, want %d", len(sigs), len(tt.want))
			}
			for i := range sigs {
				if !sigs[i].Equal(tt.want[i]) || sigs[i].Static != tt.want[i].Static {
					t.Errorf("[%d] = %s, want %s", i, sigs[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadResolvesWasmPath(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "arrays.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("testdata", "native_fn_arrays.wasm"); m.Wasm != want {
		t.Errorf("Wasm = %q, want %q", m.Wasm, want)
	}
	if m.ClassName() != fixtures.ArraysClass {
		t.Errorf("ClassName = %q", m.ClassName())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no class",
			yaml: "library: l\nmethods:\n  - {name: m, descriptor: \"()V\"}\n",
			want: "class is required",
		},
		{
			name: "no library",
			yaml: "class: C\nmethods:\n  - {name: m, descriptor: \"()V\"}\n",
			want: "library is required",
		},
		{
			name: "no methods",
			yaml: "class: C\nlibrary: l\n",
			want: "no methods",
		},
		{
			name: "unknown field",
			yaml: "class: C\nlibrary: l\nflavour: x\nmethods:\n  - {name: m, descriptor: \"()V\"}\n",
			want: "flavour",
		},
		{
			name: "bad descriptor",
			yaml: "class: C\nlibrary: l\nmethods:\n  - {name: m, descriptor: \"(Q)V\"}\n",
			want: "(Q)V",
		},
		{
			name: "duplicate",
			yaml: "class: C\nlibrary: l\nmethods:\n  - {name: m, descriptor: \"(I)V\"}\n  - {name: m, descriptor: \"(I)J\"}\n",
			want: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestOverloadsAllowed(t *testing.T) {
	m, err := Parse([]byte("class: C\nlibrary: l\nmethods:\n  - {name: m, descriptor: \"(I)I\"}\n  - {name: m, descriptor: \"(J)J\"}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Methods) != 2 {
		t.Errorf("methods = %d", len(m.Methods))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	if !errors.Is(err, &errors.Error{Kind: errors.KindInvalidData}) {
		t.Errorf("err = %v", err)
	}
}

func TestFromSignaturesRoundTrip(t *testing.T) {
	m, err := FromSignatures("native_fn_arrays", fixtures.ArraysSignatures())
	if err != nil {
		t.Fatal(err)
	}
	data, err := m.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal): %v\n%s", err, data)
	}
	if back.ClassName() != fixtures.ArraysClass || back.Library != "native_fn_arrays" {
		t.Errorf("got %s from %s", back.ClassName(), back.Library)
	}

	mixed := append(fixtures.ArraysSignatures(), fixtures.EchoInt)
	if _, err := FromSignatures("x", mixed); err == nil {
		t.Error("mixed classes should fail")
	}
}
