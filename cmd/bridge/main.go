package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/dispatch"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/manifest"
	"github.com/wippyai/native-bridge/signature"
	"github.com/wippyai/native-bridge/wasmlib"
)

// argList collects repeated -arg flags.
type argList []string

func (a *argList) String() string     { return strings.Join(*a, " ") }
func (a *argList) Set(v string) error { *a = append(*a, v); return nil }

// maxMemoryPages is the largest memory a 32-bit guest can address.
const maxMemoryPages = 65536

func main() {
	os.Exit(execute())
}

// execute runs the command and returns the exit code, letting deferred
// cleanup such as flushing the logger run first.
func execute() int {
	var (
		manifestFile = flag.String("manifest", "", "Path to the YAML method manifest")
		wasmFile     = flag.String("wasm", "", "Path to the native library (overrides the manifest's wasm)")
		list         = flag.Bool("list", false, "List declared methods and their binding status")
		callName     = flag.String("call", "", "Method to invoke")
		selftest     = flag.Bool("selftest", false, "Run the fixture scenarios against the Go and WASM libraries")
		emit         = flag.String("emit", "", "Write the fixture libraries and manifests to this directory")
		memPages     = flag.Uint("mem-pages", 0, "Memory limit per library in 64KB pages (0 = default)")
		verbose      = flag.Bool("v", false, "Verbose logging")
		args         argList
	)
	flag.Var(&args, "arg", "Argument for -call (repeatable; arrays as comma-separated elements)")
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			dispatch.SetLogger(log)
			wasmlib.SetLogger(log)
			defer func() { _ = log.Sync() }()
		}
	}

	out := newPrinter(os.Stdout)
	cfg, err := loaderConfig(*memPages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", out.error("Error:"), err)
		return 2
	}
	ctx := context.Background()

	switch {
	case *selftest:
		err = runSelftest(ctx, out, cfg)
	case *emit != "":
		err = emitFixtures(out, *emit)
	case *manifestFile != "" && (*list || *callName != ""):
		err = run(ctx, out, cfg, *manifestFile, *wasmFile, *list, *callName, args)
	default:
		fmt.Fprintln(os.Stderr, "Usage: bridge -manifest <m.yaml> [-wasm <lib.wasm>] -list")
		fmt.Fprintln(os.Stderr, "       bridge -manifest <m.yaml> [-wasm <lib.wasm>] -call <name> [-arg v ...]")
		fmt.Fprintln(os.Stderr, "       bridge -selftest")
		fmt.Fprintln(os.Stderr, "       bridge -emit <dir>")
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", out.error("Error:"), err)
		return 1
	}
	return 0
}

// loaderConfig builds the library configuration from -mem-pages.
func loaderConfig(pages uint) (*wasmlib.Config, error) {
	if pages > maxMemoryPages {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Value(pages).
			Detail("-mem-pages %d exceeds the %d page maximum", pages, maxMemoryPages).
			Build()
	}
	return &wasmlib.Config{MemoryLimitPages: uint32(pages)}, nil
}

func run(ctx context.Context, out *printer, cfg *wasmlib.Config, manifestFile, wasmFile string, list bool, callName string, args []string) error {
	m, err := manifest.Load(manifestFile)
	if err != nil {
		return err
	}
	sigs, err := m.Signatures()
	if err != nil {
		return err
	}
	if wasmFile == "" {
		wasmFile = m.Wasm
	}

	reg := dispatch.NewRegistry()
	if err := reg.Declare(sigs...); err != nil {
		return err
	}

	var lib *wasmlib.Library
	if wasmFile != "" {
		data, err := os.ReadFile(wasmFile)
		if err != nil {
			return fmt.Errorf("read library: %w", err)
		}
		loader, err := wasmlib.NewLoader(ctx, cfg)
		if err != nil {
			return err
		}
		defer loader.Close(ctx)

		lib, err = loader.Load(ctx, m.Library, data)
		if err != nil {
			return err
		}
		// Missing symbols are reported by -list and by invoke.
		if err := lib.Bind(reg, sigs...); err != nil && !errors.Is(err, &errors.MissingSymbolsError{}) {
			return err
		}
	}

	if list {
		out.listing(m, sigs, reg, lib)
	}
	if callName == "" {
		return nil
	}

	sig, err := pickMethod(sigs, callName, len(args))
	if err != nil {
		return err
	}
	values, err := parseArgs(sig, args)
	if err != nil {
		return err
	}
	result, err := dispatch.New(reg).Invoke(ctx, sig, values...)
	if err != nil {
		return err
	}
	out.callResult(sig, values, result)
	return nil
}

// pickMethod selects the declaration named name, using the argument count
// to choose among overloads.
func pickMethod(sigs []signature.Signature, name string, nargs int) (signature.Signature, error) {
	var byName, byArity []signature.Signature
	for _, sig := range sigs {
		if sig.Name != name {
			continue
		}
		byName = append(byName, sig)
		if len(sig.Params) == nargs {
			byArity = append(byArity, sig)
		}
	}
	switch {
	case len(byName) == 0:
		return signature.Signature{}, errors.New(errors.PhaseDispatch, errors.KindUnresolved).
			Value(name).
			Detail("no method %q in manifest", name).
			Build()
	case len(byArity) == 1:
		return byArity[0], nil
	case len(byArity) == 0:
		return signature.Signature{}, errors.New(errors.PhaseDispatch, errors.KindArityMismatch).
			Value(nargs).
			Detail("no overload of %s takes %d argument(s)", name, nargs).
			Build()
	default:
		return signature.Signature{}, errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Value(name).
			Detail("%d overloads of %s take %d argument(s)", len(byArity), name, nargs).
			Build()
	}
}
