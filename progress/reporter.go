// Package progress defines the observability hooks a Pipeline emits during
// execution (spec §6: "trace-level structured events at: job start, job
// completion, pipeline iteration boundaries, and plugin-host stages").
// Adapted from the teacher's act-run Reporter (OnPrepareStart/OnRunStart/…),
// re-aimed at pipeline iterations and job/plugin lifecycle events.
package progress

import "time"

// Reporter receives structured events as a Pipeline executes. CLI and
// history-store callers may implement it; the exact event format/sink is an
// implementation choice, per spec.
type Reporter interface {
	// OnIterationStart fires at the top of each scheduler loop iteration,
	// once readiness has been computed, with the count of jobs about to run.
	OnIterationStart(readyCount int)

	// OnJobStart fires immediately before a Job's Execute is invoked.
	OnJobStart(jobName string)

	// OnJobComplete fires after a Job reaches a terminal status.
	OnJobComplete(jobName string, succeeded bool, duration time.Duration)

	// OnPluginStage fires at plugin-host stage boundaries: module load,
	// invocation, decode.
	OnPluginStage(stage, modulePath string)

	// OnError fires for any error the caller wants surfaced to the
	// reporter outside the normal job-completion path (e.g. a fatal
	// precondition failure before a run even starts).
	OnError(err error)
}

// NoOp is a Reporter that does nothing. It is the Pipeline default.
type NoOp struct{}

func (NoOp) OnIterationStart(int)                      {}
func (NoOp) OnJobStart(string)                         {}
func (NoOp) OnJobComplete(string, bool, time.Duration) {}
func (NoOp) OnPluginStage(string, string)              {}
func (NoOp) OnError(error)                             {}

var _ Reporter = NoOp{}
