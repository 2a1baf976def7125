// Package plugin hosts sandboxed WASM plugin modules and invokes their
// exports across the payload ABI (spec §4.4 PLUGIN HOST). It is built on
// github.com/tetratelabs/wazero, a pure-Go WebAssembly runtime — the one
// plugin sandbox technology directly attested in the retrieval pack (see
// SPEC_FULL.md §4.4 / DESIGN.md for the grounding).
package plugin

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"

	"github.com/pipeflow/pipeflow/progress"
)

// engineInstance is the process-wide wazero runtime, constructed at most once per
// process and shared immutably thereafter (spec §5 "process-wide plugin
// engine").
var engineOnce sync.Once
var engineInstance wazero.Runtime
var engineCtx = context.Background()

func sharedRuntime() wazero.Runtime {
	engineOnce.Do(func() {
		engineInstance = wazero.NewRuntime(engineCtx)
	})
	return engineInstance
}

// Host loads and caches compiled WASM modules and invokes their exports.
// A Host is safe for concurrent use: compiled-module lookup is guarded by a
// mutex, and every invocation gets a fresh wazero store/instance so no
// state leaks across calls.
type Host struct {
	runtime  wazero.Runtime
	reporter progress.Reporter

	mu      sync.Mutex
	cache   map[string]wazero.CompiledModule
	stubbed map[string]bool
}

// NewHost builds a Host against the process-wide shared wazero runtime.
func NewHost() *Host {
	return &Host{
		runtime:  sharedRuntime(),
		reporter: progress.NoOp{},
		cache:    make(map[string]wazero.CompiledModule),
		stubbed:  make(map[string]bool),
	}
}

// SetReporter attaches a progress.Reporter that receives OnPluginStage events
// during Invoke (spec §6: "plugin-host stages"). Safe to call before Invoke
// is ever used; not safe for concurrent use with an in-flight Invoke.
func (h *Host) SetReporter(r progress.Reporter) {
	if r == nil {
		r = progress.NoOp{}
	}
	h.reporter = r
}

// Close releases the underlying runtime. Callers that share a Host across
// the whole process lifetime typically never call this.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

func (h *Host) compiled(ctx context.Context, modulePath string, source []byte) (wazero.CompiledModule, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.cache[modulePath]; ok {
		return m, nil
	}
	compiled, err := h.runtime.CompileModule(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("compiling module %q: %w", modulePath, err)
	}
	h.cache[modulePath] = compiled
	return compiled, nil
}
