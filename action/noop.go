// Package action implements the one handler per ActionDescriptor kind
// (spec §4.3 ACTION EXECUTORS): NoOp, Shell, Http, and Plugin. Each maps
// (fixed_input, input) to an output string or a failure, and is invoked on a
// worker goroutine that is free to block.
package action

// NoOpAcknowledgement is the constant string returned by the NoOp executor.
const NoOpAcknowledgement = "noop acknowledged"

type noopExecutor struct{}

func (noopExecutor) execute(_, _ []string) (string, error) {
	return NoOpAcknowledgement, nil
}
