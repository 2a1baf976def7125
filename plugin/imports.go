package plugin

import (
	"context"
	"fmt"
	"log"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// recognizedImports is the small fixed set of helper symbols typical
// language bindings (wasm-bindgen and similar) import from their host.
// The host provides inert stubs for all of these; a module that imports
// anything else fails instantiation with an ABI error (spec §4.4).
var recognizedImports = map[string]bool{
	"__wbindgen_describe":                   true,
	"__wbindgen_throw":                      true,
	"__wbindgen_externref_table_grow":       true,
	"__wbindgen_externref_table_set_null":   true,
}

// checkImports rejects modules that import a symbol outside
// recognizedImports, returning the offending module/function names.
func checkImports(compiled wazero.CompiledModule) error {
	for _, fn := range compiled.ImportedFunctions() {
		moduleName, name, ok := fn.Import()
		if !ok {
			continue
		}
		if !recognizedImports[name] {
			return fmt.Errorf("%w: unrecognized plugin import %s.%s", ErrABI, moduleName, name)
		}
	}
	return nil
}

// importedModuleNames returns the distinct host-module namespaces a
// compiled module imports from.
func importedModuleNames(compiled wazero.CompiledModule) []string {
	seen := make(map[string]bool)
	var names []string
	for _, fn := range compiled.ImportedFunctions() {
		moduleName, _, ok := fn.Import()
		if !ok {
			continue
		}
		if !seen[moduleName] {
			seen[moduleName] = true
			names = append(names, moduleName)
		}
	}
	return names
}

// instantiateStubs registers inert implementations of every recognized
// import under the given host module name, if not already registered on
// this runtime.
func instantiateStubs(ctx context.Context, rt wazero.Runtime, moduleName string) error {
	if rt.Module(moduleName) != nil {
		return nil
	}
	builder := rt.NewHostModuleBuilder(moduleName)

	builder.NewFunctionBuilder().
		WithFunc(func(context.Context, api.Module, uint32) {}).
		Export("__wbindgen_describe")

	builder.NewFunctionBuilder().
		WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) {
			msg, ok := mod.Memory().Read(ptr, length)
			if !ok {
				log.Printf("plugin: __wbindgen_throw called with out-of-range (ptr=%d len=%d)", ptr, length)
				return
			}
			log.Printf("plugin: module threw: %s", msg)
		}).
		Export("__wbindgen_throw")

	builder.NewFunctionBuilder().
		WithFunc(func(context.Context, api.Module, uint32, uint32) uint32 { return 0 }).
		Export("__wbindgen_externref_table_grow")

	builder.NewFunctionBuilder().
		WithFunc(func(context.Context, api.Module, uint32) {}).
		Export("__wbindgen_externref_table_set_null")

	_, err := builder.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiating host stubs for %q: %w", moduleName, err)
	}
	return nil
}
