// Package manifest reads native method declarations from YAML.
//
// A manifest declares one class and the library implementing it:
//
//	package: java_to_rust_arrays
//	class: JavaArrayTests
//	library: native_fn_arrays
//	wasm: native_fn_arrays.wasm
//	methods:
//	  - name: combine_bytes
//	    descriptor: "([B)J"
//	    static: true
//
// Descriptors use JNI syntax. The wasm path is optional and relative to the
// manifest file.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/signature"
)

// Manifest is a parsed declaration file.
type Manifest struct {
	Package string   `yaml:"package"`
	Class   string   `yaml:"class"`
	Library string   `yaml:"library"`
	Wasm    string   `yaml:"wasm,omitempty"`
	Methods []Method `yaml:"methods"`
}

// Method declares one native method.
type Method struct {
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
	Static     bool   `yaml:"static,omitempty"`
}

// Load reads and parses the manifest at path. A relative Wasm path is
// resolved against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ParseFailed("manifest "+path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if m.Wasm != "" && !filepath.IsAbs(m.Wasm) {
		m.Wasm = filepath.Join(filepath.Dir(path), m.Wasm)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.ParseFailed("manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ClassName returns the dotted class name the methods belong to.
func (m *Manifest) ClassName() string {
	if m.Package == "" {
		return m.Class
	}
	return m.Package + "." + m.Class
}

// Validate checks required fields and that every method parses and is
// declared once.
func (m *Manifest) Validate() error {
	if m.Class == "" {
		return errors.InvalidInput(errors.PhaseParse, "manifest: class is required")
	}
	if m.Library == "" {
		return errors.InvalidInput(errors.PhaseParse, "manifest: library is required")
	}
	if len(m.Methods) == 0 {
		return errors.InvalidInput(errors.PhaseParse, "manifest: no methods declared")
	}
	_, err := m.Signatures()
	return err
}

// Signatures returns the declared methods in file order.
func (m *Manifest) Signatures() ([]signature.Signature, error) {
	class := m.ClassName()
	seen := make(map[string]bool, len(m.Methods))
	sigs := make([]signature.Signature, 0, len(m.Methods))

	for _, meth := range m.Methods {
		sig, err := signature.ParseDescriptor(class, meth.Name, meth.Descriptor)
		if err != nil {
			return nil, err
		}
		if meth.Static {
			sig = sig.AsStatic()
		}
		key := sig.Key()
		if seen[key] {
			return nil, errors.New(errors.PhaseParse, errors.KindDuplicate).
				Path(m.Class, meth.Name).
				Value(key).
				Detail("%s declared twice", key).
				Build()
		}
		seen[key] = true
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// FromSignatures builds a manifest for sigs, which must share one class.
func FromSignatures(library string, sigs []signature.Signature) (*Manifest, error) {
	if len(sigs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "manifest: no methods declared")
	}
	m := &Manifest{Library: library}
	m.Package, m.Class = splitClass(sigs[0].Class)
	for _, sig := range sigs {
		if sig.Class != sigs[0].Class {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(sig.Class, sig.Name).
				Detail("manifest holds one class, got %s and %s", sigs[0].Class, sig.Class).
				Build()
		}
		m.Methods = append(m.Methods, Method{
			Name:       sig.Name,
			Descriptor: sig.Descriptor(),
			Static:     sig.Static,
		})
	}
	return m, m.Validate()
}

func splitClass(class string) (pkg, simple string) {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[:i], class[i+1:]
	}
	return "", class
}
