package action

import (
	"context"
	"errors"

	"github.com/pipeflow/pipeflow/perrors"
	"github.com/pipeflow/pipeflow/plugin"
)

// pluginInvoker is satisfied by *plugin.Host; kept as a narrow interface so
// the action package does not need a concrete Host in tests.
type pluginInvoker interface {
	Invoke(ctx context.Context, modulePath, functionName string, inputs []string) (string, error)
}

type pluginExecutor struct {
	functionName string
	modulePath   string
	host         pluginInvoker
}

func (p pluginExecutor) execute(ctx context.Context, fixedInput, input []string) (string, error) {
	// fixed_input is threaded through every executor's signature but, per
	// spec §9 Open Questions, is not yet consumed by any of them.
	_ = fixedInput
	out, err := p.host.Invoke(ctx, p.modulePath, p.functionName, input)
	if err == nil {
		return out, nil
	}
	kind := perrors.PluginExec
	switch {
	case errors.Is(err, plugin.ErrLoad), errors.Is(err, plugin.ErrABI):
		kind = perrors.PluginLoad
	case errors.Is(err, plugin.ErrMemory):
		kind = perrors.PluginMemory
	case errors.Is(err, plugin.ErrTypeMismatch):
		kind = perrors.PluginTypeMismatch
	case errors.Is(err, plugin.ErrCodec):
		kind = perrors.CodecError
	}
	return "", perrors.New(kind, err)
}

var _ pluginInvoker = (*plugin.Host)(nil)
