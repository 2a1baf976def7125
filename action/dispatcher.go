package action

import (
	"context"
	"fmt"

	"github.com/pipeflow/pipeflow/job"
	"github.com/pipeflow/pipeflow/plugin"
	"github.com/pipeflow/pipeflow/progress"
)

// executor is the internal per-kind interface every concrete executor
// implements. fixed_input is passed to all of them (spec §9 Open Questions)
// even though none currently consumes it.
type executor interface {
	execute(ctx context.Context, fixedInput, input []string) (string, error)
}

// ctxExecutor adapts executors that don't need ctx (NoOp) to the common
// shape.
type ctxExecutor struct {
	inner interface {
		execute(fixedInput, input []string) (string, error)
	}
}

func (c ctxExecutor) execute(_ context.Context, fixedInput, input []string) (string, error) {
	return c.inner.execute(fixedInput, input)
}

// Dispatcher implements job.ActionExecutor, routing each ActionDescriptor to
// its handler (spec §4.3). It holds the plugin Host so plugin invocations
// share the process-wide engine and per-module compiled-module cache.
type Dispatcher struct {
	PluginHost *plugin.Host
	HTTPRetry  RetryPolicy
}

// NewDispatcher builds a Dispatcher with its own plugin Host.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{PluginHost: plugin.NewHost()}
}

// SetReporter forwards r to the Dispatcher's plugin Host, so plugin-host
// stage events (spec §6) reach whatever Reporter the owning Pipeline was
// configured with. Satisfies the optional interface pipeline.New looks for.
func (d *Dispatcher) SetReporter(r progress.Reporter) {
	if d.PluginHost != nil {
		d.PluginHost.SetReporter(r)
	}
}

// Execute implements job.ActionExecutor.
func (d *Dispatcher) Execute(ctx context.Context, action job.ActionDescriptor, fixedInput, input []string) (string, error) {
	exec, err := d.resolve(action)
	if err != nil {
		return "", err
	}
	return exec.execute(ctx, fixedInput, input)
}

func (d *Dispatcher) resolve(action job.ActionDescriptor) (executor, error) {
	switch action.Kind {
	case job.NoOp:
		return ctxExecutor{inner: noopExecutor{}}, nil
	case job.Shell:
		return shellExecutor{command: action.Command}, nil
	case job.Http:
		return newHTTPExecutor(action.URL, action.Method, d.HTTPRetry), nil
	case job.Plugin:
		host := d.PluginHost
		if host == nil {
			host = plugin.NewHost()
		}
		return pluginExecutor{functionName: action.FunctionName, modulePath: action.ModulePath, host: host}, nil
	default:
		return nil, fmt.Errorf("action: unknown action kind %d", action.Kind)
	}
}

var _ job.ActionExecutor = (*Dispatcher)(nil)
