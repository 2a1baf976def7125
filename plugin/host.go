package plugin

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/tetratelabs/wazero"

	"github.com/pipeflow/pipeflow/payload"
)

const (
	// wasmPageSize is the WebAssembly linear-memory page size in bytes (spec
	// §9: the spec-mandated correct formula treats pages as 64 KiB, not the
	// buggy 64-byte formula the original source used).
	wasmPageSize = 64 * 1024

	// maxInputBytes bounds the size of an encoded Inputs payload the host
	// will write into a plugin's memory (spec §4.4 numeric/edge policy:
	// "inputs larger than 2^31 - 1 bytes are rejected before invocation").
	maxInputBytes = math.MaxInt32

	memoryExportName = "memory"
)

var instanceCounter uint64

// Invoke marshals inputs into the plugin's linear memory, calls
// functionName, and recovers the resulting output string, per the wire
// protocol in spec §4.1/§4.4:
//
//  1. encode inputs as Communication::Inputs
//  2. let input_ptr be the current high-water mark of the module's memory
//  3. grow memory by ceil(N/65536)+1 pages
//  4. write the encoded bytes at input_ptr
//  5. call <functionName>(input_ptr, N) -> (output_ptr, output_len)
//  6. decode memory[output_ptr:output_ptr+output_len] as Communication,
//     requiring the Output variant
//  7. return the contained string
func (h *Host) Invoke(ctx context.Context, modulePath, functionName string, inputs []string) (string, error) {
	encoded, err := payload.Encode(payload.NewInputs(inputs))
	if err != nil {
		return "", fmt.Errorf("%w: encoding inputs: %v", ErrCodec, err)
	}
	if len(encoded) > maxInputBytes {
		return "", fmt.Errorf("%w: encoded input is %d bytes, exceeds %d", ErrABI, len(encoded), maxInputBytes)
	}

	h.reporter.OnPluginStage("load", modulePath)
	source, err := os.ReadFile(modulePath) //nolint:gosec // modulePath is author-supplied pipeline configuration, not untrusted user input
	if err != nil {
		return "", fmt.Errorf("%w: reading module %q: %v", ErrLoad, modulePath, err)
	}

	compiled, err := h.compiled(ctx, modulePath, source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if err := checkImports(compiled); err != nil {
		return "", err
	}

	for _, moduleName := range importedModuleNames(compiled) {
		if err := h.ensureStubs(ctx, moduleName); err != nil {
			return "", fmt.Errorf("%w: %v", ErrLoad, err)
		}
	}

	instanceName := fmt.Sprintf("plugin-%d", atomic.AddUint64(&instanceCounter, 1))
	config := wazero.NewModuleConfig().WithName(instanceName)

	mod, err := h.runtime.InstantiateModule(ctx, compiled, config)
	if err != nil {
		return "", fmt.Errorf("%w: instantiating module %q: %v", ErrExec, modulePath, err)
	}
	defer mod.Close(ctx)

	memory := mod.Memory()
	if memory == nil {
		return "", fmt.Errorf("%w: module %q exports no %q", ErrABI, modulePath, memoryExportName)
	}

	fn := mod.ExportedFunction(functionName)
	if fn == nil {
		return "", fmt.Errorf("%w: module %q exports no function %q", ErrABI, modulePath, functionName)
	}

	inputPtr := memory.Size()
	pages := uint32(ceilDiv(len(encoded), wasmPageSize)) + 1
	if _, ok := memory.Grow(pages); !ok {
		return "", fmt.Errorf("%w: growing memory by %d pages", ErrMemory, pages)
	}

	if !memory.Write(inputPtr, encoded) {
		return "", fmt.Errorf("%w: writing %d bytes at offset %d", ErrMemory, len(encoded), inputPtr)
	}

	h.reporter.OnPluginStage("invoke", modulePath)
	results, err := fn.Call(ctx, uint64(inputPtr), uint64(len(encoded)))
	if err != nil {
		return "", fmt.Errorf("%w: calling %q: %v", ErrExec, functionName, err)
	}
	if len(results) != 2 {
		return "", fmt.Errorf("%w: %q returned %d values, want 2 (output_ptr, output_len)", ErrABI, functionName, len(results))
	}

	outputPtr, outputLen := uint32(results[0]), uint32(results[1])
	raw, ok := memory.Read(outputPtr, outputLen)
	if !ok {
		return "", fmt.Errorf("%w: reading %d bytes at offset %d", ErrMemory, outputLen, outputPtr)
	}

	// memory.Read returns a view into the module's own memory; copy it out
	// before the deferred mod.Close invalidates the backing buffer.
	out := make([]byte, len(raw))
	copy(out, raw)

	h.reporter.OnPluginStage("decode", modulePath)
	comm, err := payload.Decode(out)
	if err != nil {
		return "", fmt.Errorf("%w: decoding output: %v", ErrCodec, err)
	}
	if comm.Kind != payload.KindOutput {
		return "", ErrTypeMismatch
	}
	return comm.Output, nil
}

func (h *Host) ensureStubs(ctx context.Context, moduleName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stubbed == nil {
		h.stubbed = make(map[string]bool)
	}
	if h.stubbed[moduleName] {
		return nil
	}
	if err := instantiateStubs(ctx, h.runtime, moduleName); err != nil {
		return err
	}
	h.stubbed[moduleName] = true
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
